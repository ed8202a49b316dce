package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/GlebRadaev/fulfillment/internal/config"
	"github.com/GlebRadaev/fulfillment/internal/handlers"
	"github.com/GlebRadaev/fulfillment/internal/notify"
	"github.com/GlebRadaev/fulfillment/internal/payment"
	"github.com/GlebRadaev/fulfillment/internal/pg"
	"github.com/GlebRadaev/fulfillment/internal/reconciler"
	"github.com/GlebRadaev/fulfillment/internal/repo"
	"github.com/GlebRadaev/fulfillment/internal/repo/memrepo"
	"github.com/GlebRadaev/fulfillment/internal/service"
	"github.com/GlebRadaev/fulfillment/internal/session"
	"github.com/GlebRadaev/fulfillment/pkg/auth"
	"github.com/GlebRadaev/fulfillment/pkg/clients"
	"github.com/GlebRadaev/fulfillment/pkg/logger"
)

type ApplicationI interface {
	Start(ctx context.Context) error
	Wait(ctx context.Context, cancel context.CancelFunc) error
}

type notifier interface {
	service.Notifier
	Close() error
}

type Application struct {
	cfg      *config.Config
	api      *handlers.Handlers
	srv      *service.Services
	repo     *repo.Repositories
	rec      *reconciler.Service
	pool     *pgxpool.Pool
	rdb      *redis.Client
	notifier notifier

	errCh chan error
	wg    sync.WaitGroup
	ready bool
}

func New() *Application {
	return &Application{
		errCh: make(chan error),
	}
}

func (a *Application) Start(ctx context.Context) error {
	cfg := config.New()

	err := logger.InitLogger(cfg)
	if err != nil {
		return fmt.Errorf("can't init logger: %w", err)
	}
	a.cfg = cfg

	if err := a.initStorage(ctx); err != nil {
		return err
	}
	sessions, err := a.initSessions(ctx)
	if err != nil {
		return err
	}
	a.notifier = a.initNotifier()

	jwtService := auth.NewJWTService(cfg.JWTSecret)
	a.srv = service.New(cfg, a.repo, sessions, a.notifier)
	a.api = handlers.New(a.srv, jwtService)
	a.rec = reconciler.New(cfg, a.srv.Reconcile, payment.New(cfg.PaymentStatusAddress, clients.NewHTTPClient()))

	if err = a.startHTTPServer(ctx); err != nil {
		return fmt.Errorf("can't start http server: %w", err)
	}

	a.startReconciler(ctx)
	a.closeOnDone(ctx)

	a.ready = true
	zap.L().Info("all systems started successfully")
	return nil
}

// initStorage connects to postgres when DATABASE_URI is set and keeps everything in memory otherwise.
func (a *Application) initStorage(ctx context.Context) error {
	if a.cfg.Database == "" {
		zap.L().Warn("DATABASE_URI is empty, using in-memory storage")
		a.repo = repo.NewMemory(memrepo.New())
		return nil
	}

	pool, err := getPgxpool(ctx, a.cfg)
	if err != nil {
		zap.L().Error("build pgx pool failed: ", zap.Error(err))
		return fmt.Errorf("can't build pgx pool: %w", err)
	}
	if err := pg.RunMigrations(pool); err != nil {
		zap.L().Error("migrations failed: ", zap.Error(err))
		return fmt.Errorf("can't run migrations: %w", err)
	}
	a.pool = pool
	a.repo = repo.New(pg.New(pool), pg.NewTXManager(pool))
	return nil
}

func (a *Application) initSessions(ctx context.Context) (service.SessionStore, error) {
	if a.cfg.RedisAddr == "" {
		return session.NewMemoryStore(), nil
	}

	rdb := redis.NewClient(&redis.Options{Addr: a.cfg.RedisAddr})
	if err := rdb.Ping(ctx).Err(); err != nil {
		zap.L().Error("redis ping failed: ", zap.Error(err))
		return nil, fmt.Errorf("can't connect to redis: %w", err)
	}
	a.rdb = rdb
	return session.NewRedisStore(rdb), nil
}

func (a *Application) initNotifier() notifier {
	if len(a.cfg.KafkaBrokers) == 0 {
		return notify.Log{}
	}

	w := notify.NewWriter(a.cfg.KafkaBrokers, a.cfg.NotifyTopic)
	if a.rdb == nil {
		return notify.New(w, nil)
	}
	return notify.New(w, a.rdb)
}

func getPgxpool(ctx context.Context, cfg *config.Config) (*pgxpool.Pool, error) {
	cfgpool, err := pgxpool.ParseConfig(cfg.Database)
	if err != nil {
		return nil, err
	}
	dbpool, err := pgxpool.NewWithConfig(ctx, cfgpool)
	if err != nil {
		return nil, err
	}
	if err = dbpool.Ping(ctx); err != nil {
		return nil, err
	}
	return dbpool, nil
}

func (a *Application) startHTTPServer(ctx context.Context) error {
	router := chi.NewRouter()
	a.api.InitRoutes(router)
	server := http.Server{
		Addr:    a.cfg.Address,
		Handler: router,
	}
	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		<-ctx.Done()

		sCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		server.Shutdown(sCtx)
	}()

	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		zap.L().Info("starting http server on port", zap.String("port", a.cfg.Address))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.errCh <- fmt.Errorf("http server exited with error: %w", err)
		}
	}()

	return nil
}

func (a *Application) startReconciler(ctx context.Context) {
	a.rec.Start(ctx)
}

// closeOnDone releases connections once the reconciler stopped using them.
func (a *Application) closeOnDone(ctx context.Context) {
	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		<-ctx.Done()
		a.rec.Wait()

		if err := a.notifier.Close(); err != nil {
			zap.L().Error("failed to close notifier", zap.Error(err))
		}
		if a.rdb != nil {
			if err := a.rdb.Close(); err != nil {
				zap.L().Error("failed to close redis", zap.Error(err))
			}
		}
		if a.pool != nil {
			a.pool.Close()
		}
	}()
}

func (a *Application) Wait(ctx context.Context, cancel context.CancelFunc) error {
	var appErr error

	var wg sync.WaitGroup
	wg.Add(1)

	go func() {
		defer wg.Done()

		for err := range a.errCh {
			cancel()
			zap.L().Error(err.Error())
			appErr = err
		}
	}()

	<-ctx.Done()
	a.wg.Wait()
	close(a.errCh)
	wg.Wait()

	return appErr
}
