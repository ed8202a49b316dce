package authservice

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/GlebRadaev/fulfillment/internal/apperr"
	"github.com/GlebRadaev/fulfillment/internal/domain"
	"github.com/GlebRadaev/fulfillment/internal/session"
	"github.com/GlebRadaev/fulfillment/pkg/auth"
	"go.uber.org/zap"
)

const tokenTTL = 24 * time.Hour

var ErrInvalidCredentials = errors.New("invalid credentials")

type Repo interface {
	FindByLogin(ctx context.Context, login string) (*domain.User, error)
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
}

type Sessions interface {
	Get(ctx context.Context, userID int) (session.State, error)
}

type Service struct {
	userRepo    Repo
	sessions    Sessions
	hashService auth.HashServiceInterface
	jwtService  auth.JWTServiceInterface
	adminIDs    map[int]struct{}
}

func New(repo Repo, sessions Sessions, hashService auth.HashServiceInterface, jwtService auth.JWTServiceInterface, adminIDs []int) *Service {
	admins := make(map[int]struct{}, len(adminIDs))
	for _, id := range adminIDs {
		admins[id] = struct{}{}
	}
	return &Service{
		userRepo:    repo,
		sessions:    sessions,
		hashService: hashService,
		jwtService:  jwtService,
		adminIDs:    admins,
	}
}

// Register creates a buyer or worker account. Admin rights are never stored, see Actor.
func (s *Service) Register(ctx context.Context, login, password string, role domain.Role) (*domain.User, error) {
	if login == "" || password == "" {
		return nil, fmt.Errorf("login and password are required: %w", apperr.ErrInvalidArgument)
	}
	if role == "" {
		role = domain.RoleBuyer
	}
	if role != domain.RoleBuyer && role != domain.RoleWorker {
		return nil, fmt.Errorf("role %q: %w", role, apperr.ErrInvalidArgument)
	}

	existingUser, err := s.userRepo.FindByLogin(ctx, login)
	if err != nil {
		zap.L().Error("can't find user", zap.Error(err))
		return nil, err
	}
	if existingUser != nil {
		zap.L().Info("user already exists", zap.String("login", login))
		return nil, fmt.Errorf("login %q already taken: %w", login, apperr.ErrConflict)
	}
	hashedPassword, err := s.hashService.HashPassword(password)
	if errors.Is(err, auth.ErrPasswordTooLong) {
		return nil, fmt.Errorf("%w: %w", err, apperr.ErrInvalidArgument)
	}
	if err != nil {
		zap.L().Error("can't hash password", zap.Error(err))
		return nil, err
	}
	user := &domain.User{
		Login:        login,
		PasswordHash: hashedPassword,
		Role:         role,
		CreatedAt:    time.Now(),
	}
	newUser, err := s.userRepo.Create(ctx, user)
	if err != nil {
		zap.L().Error("can't create user", zap.Error(err))
		return nil, err
	}

	zap.L().Info("user successfully registered", zap.String("login", login), zap.String("role", string(role)))
	return newUser, nil
}

func (s *Service) Authenticate(ctx context.Context, login, password string) (*domain.User, error) {
	user, err := s.userRepo.FindByLogin(ctx, login)
	if err != nil {
		zap.L().Error("can't find user", zap.Error(err))
		return nil, err
	}
	if user == nil || !s.hashService.ComparePassword(user.PasswordHash, password) {
		zap.L().Info("invalid credentials", zap.String("login", login))
		return nil, ErrInvalidCredentials
	}
	zap.L().Info("user successfully authenticated", zap.String("login", login))
	return user, nil
}

// Actor resolves the effective role: ids listed as admins are admins whatever they registered as.
func (s *Service) Actor(user *domain.User) domain.Actor {
	if _, ok := s.adminIDs[user.ID]; ok {
		return domain.Actor{UserID: user.ID, Role: domain.RoleAdmin}
	}
	return domain.Actor{UserID: user.ID, Role: user.Role}
}

func (s *Service) GenerateToken(user *domain.User) (string, error) {
	actor := s.Actor(user)
	token, err := s.jwtService.GenerateJWT(actor.UserID, string(actor.Role), time.Now().Add(tokenTTL))
	if err != nil {
		zap.L().Error("can't generate token", zap.Error(err))
		return "", err
	}
	return token, nil
}

func (s *Service) GetSession(ctx context.Context, actor domain.Actor) (session.State, error) {
	st, err := s.sessions.Get(ctx, actor.UserID)
	if err != nil {
		return session.Idle, fmt.Errorf("read session of user %d: %w", actor.UserID, err)
	}
	return st, nil
}
