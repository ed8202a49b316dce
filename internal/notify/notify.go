// Package notify delivers order events to the chat front-end through kafka.
package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/GlebRadaev/fulfillment/internal/domain"
	"github.com/redis/go-redis/v9"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

const (
	dedupPattern = "notify:%d:%s:%d:%d:%s"
	dedupTTL     = 24 * time.Hour
)

type Writer interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// DedupClient is the part of *redis.Client used to drop repeated events.
type DedupClient interface {
	SetNX(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.BoolCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

type Publisher struct {
	w   Writer
	rdb DedupClient
}

// NewWriter returns a synchronous writer so that Notify reports delivery errors.
func NewWriter(brokers []string, topic string) *kafka.Writer {
	return &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireAll,
	}
}

// New builds a publisher. rdb may be nil, then every event is sent.
func New(w Writer, rdb DedupClient) *Publisher {
	return &Publisher{w: w, rdb: rdb}
}

func dedupKey(n domain.Notification) string {
	return fmt.Sprintf(dedupPattern, n.OrderID, n.Kind, n.RecipientID, n.WorkerID, n.Status)
}

func (p *Publisher) Notify(ctx context.Context, n domain.Notification) error {
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now()
	}

	key := dedupKey(n)
	if p.rdb != nil {
		fresh, err := p.rdb.SetNX(ctx, key, 1, dedupTTL).Result()
		switch {
		case err != nil:
			zap.L().Warn("dedup unavailable, sending anyway", zap.String("key", key), zap.Error(err))
		case !fresh:
			zap.L().Debug("duplicate notification dropped", zap.String("key", key))
			return nil
		}
	}

	body, err := json.Marshal(n)
	if err != nil {
		return err
	}
	err = p.w.WriteMessages(ctx, kafka.Message{
		Key:   []byte(strconv.Itoa(n.OrderID)),
		Value: body,
		Time:  n.CreatedAt,
	})
	if err != nil {
		zap.L().Error("failed to publish notification",
			zap.String("kind", string(n.Kind)), zap.Int("order_id", n.OrderID), zap.Error(err))
		if p.rdb != nil {
			_ = p.rdb.Del(ctx, key).Err()
		}
		return err
	}
	return nil
}

func (p *Publisher) Close() error {
	return p.w.Close()
}

// Log only writes events to the log. It is used when no broker is configured.
type Log struct{}

func (Log) Notify(_ context.Context, n domain.Notification) error {
	recipient := "operators"
	if !n.ToOperators() {
		recipient = strconv.Itoa(n.RecipientID)
	}
	zap.L().Info("notification",
		zap.String("kind", string(n.Kind)),
		zap.Int("order_id", n.OrderID),
		zap.String("recipient", recipient),
		zap.Int("worker_id", n.WorkerID),
		zap.String("status", string(n.Status)))
	return nil
}

func (Log) Close() error {
	return nil
}
