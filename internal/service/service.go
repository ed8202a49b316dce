package service

import (
	"context"

	"github.com/GlebRadaev/fulfillment/internal/config"
	"github.com/GlebRadaev/fulfillment/internal/domain"
	"github.com/GlebRadaev/fulfillment/internal/handlers/admin"
	"github.com/GlebRadaev/fulfillment/internal/handlers/auth"
	"github.com/GlebRadaev/fulfillment/internal/handlers/catalog"
	"github.com/GlebRadaev/fulfillment/internal/handlers/orders"
	"github.com/GlebRadaev/fulfillment/internal/reconciler"
	"github.com/GlebRadaev/fulfillment/internal/repo"
	"github.com/GlebRadaev/fulfillment/internal/session"
	"github.com/GlebRadaev/fulfillment/pkg/keylock"

	pkgauth "github.com/GlebRadaev/fulfillment/pkg/auth"

	authservice "github.com/GlebRadaev/fulfillment/internal/service/authservice"
	orderservice "github.com/GlebRadaev/fulfillment/internal/service/orderservice"
	payoutservice "github.com/GlebRadaev/fulfillment/internal/service/payoutservice"
	productservice "github.com/GlebRadaev/fulfillment/internal/service/productservice"
	reviewservice "github.com/GlebRadaev/fulfillment/internal/service/reviewservice"
	slotservice "github.com/GlebRadaev/fulfillment/internal/service/slotservice"
	statsservice "github.com/GlebRadaev/fulfillment/internal/service/statsservice"
)

type SessionStore interface {
	Get(ctx context.Context, userID int) (session.State, error)
	Set(ctx context.Context, userID int, st session.State) error
	Clear(ctx context.Context, userID int) error
}

type Notifier interface {
	Notify(ctx context.Context, n domain.Notification) error
}

type Services struct {
	AuthService    auth.Service
	ProductService catalog.Service
	OrderService   orders.OrderService
	SlotService    orders.SlotService
	PayoutService  orders.PayoutService
	ReviewService  orders.ReviewService
	ReviewFeed     catalog.Reviews
	StatsService   admin.Service
	OrderLog       admin.Orders
	Reconcile      reconciler.Orders
}

func New(cfg *config.Config, repo *repo.Repositories, sessions SessionStore, notifier Notifier) *Services {
	// one lock per order shared by every service that changes order state
	locker := keylock.New()

	payoutService := payoutservice.New(repo.PayoutRepo, repo.AssignmentRepo, cfg.WorkerPercent)
	slotService := slotservice.New(repo.AssignmentRepo, repo.OrderRepo, notifier, locker, cfg.MaxWorkersPerOrder)
	reviewService := reviewservice.New(repo.ReviewRepo, repo.OrderRepo, repo.AssignmentRepo, sessions, notifier)
	orderService := orderservice.New(repo.OrderRepo, repo.ProductRepo, slotService, payoutService, reviewService, notifier, sessions, locker)
	authService := authservice.New(repo.UserRepo, sessions, &pkgauth.HashService{Cost: cfg.PasswordCost}, pkgauth.NewJWTService(cfg.JWTSecret), cfg.AdminIDs)

	return &Services{
		AuthService:    authService,
		ProductService: productservice.New(repo.ProductRepo),
		OrderService:   orderService,
		SlotService:    slotService,
		PayoutService:  payoutService,
		ReviewService:  reviewService,
		ReviewFeed:     reviewService,
		StatsService:   statsservice.New(repo.StatsRepo),
		OrderLog:       orderService,
		Reconcile:      orderService,
	}
}
