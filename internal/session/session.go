// Package session keeps what each user is currently being asked for, e.g. the
// rating of the next worker of a completed order.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type Kind string

const (
	KindIdle             Kind = "idle"
	KindAwaitingEvidence Kind = "awaiting_evidence"
	KindAwaitingReview   Kind = "awaiting_review"
)

type State struct {
	Kind     Kind `json:"kind"`
	OrderID  int  `json:"order_id,omitempty"`
	WorkerID int  `json:"worker_id,omitempty"`
}

var Idle = State{Kind: KindIdle}

const (
	keyPattern = "session:%d"
	ttl        = 7 * 24 * time.Hour
)

// Client is the part of *redis.Client the store uses.
type Client interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

type RedisStore struct {
	rdb Client
}

func NewRedisStore(rdb Client) *RedisStore {
	return &RedisStore{rdb: rdb}
}

func (s *RedisStore) Get(ctx context.Context, userID int) (State, error) {
	raw, err := s.rdb.Get(ctx, fmt.Sprintf(keyPattern, userID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return Idle, nil
	}
	if err != nil {
		zap.L().Error("failed to read session", zap.Int("user_id", userID), zap.Error(err))
		return Idle, err
	}
	var st State
	if err := json.Unmarshal(raw, &st); err != nil {
		zap.L().Warn("dropping malformed session", zap.Int("user_id", userID), zap.Error(err))
		return Idle, nil
	}
	return st, nil
}

func (s *RedisStore) Set(ctx context.Context, userID int, st State) error {
	raw, err := json.Marshal(st)
	if err != nil {
		return err
	}
	if err := s.rdb.Set(ctx, fmt.Sprintf(keyPattern, userID), raw, ttl).Err(); err != nil {
		zap.L().Error("failed to save session", zap.Int("user_id", userID), zap.Error(err))
		return err
	}
	return nil
}

func (s *RedisStore) Clear(ctx context.Context, userID int) error {
	if err := s.rdb.Del(ctx, fmt.Sprintf(keyPattern, userID)).Err(); err != nil {
		zap.L().Error("failed to clear session", zap.Int("user_id", userID), zap.Error(err))
		return err
	}
	return nil
}

// MemoryStore is used when no redis address is configured.
type MemoryStore struct {
	mu sync.RWMutex
	m  map[int]State
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{m: make(map[int]State)}
}

func (s *MemoryStore) Get(_ context.Context, userID int) (State, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	st, ok := s.m[userID]
	if !ok {
		return Idle, nil
	}
	return st, nil
}

func (s *MemoryStore) Set(_ context.Context, userID int, st State) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.m[userID] = st
	return nil
}

func (s *MemoryStore) Clear(_ context.Context, userID int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.m, userID)
	return nil
}
