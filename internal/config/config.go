package config

import (
	"flag"
	"strings"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

type Config struct {
	Address              string        `env:"RUN_ADDRESS"            envDefault:"localhost:8080"`
	PaymentStatusAddress string        `env:"PAYMENT_STATUS_ADDRESS" envDefault:"localhost:8081"`
	Database             string        `env:"DATABASE_URI"`
	LogLvl               string        `env:"LOG_LVL"                envDefault:"info"`
	JWTSecret            string        `env:"JWT_SECRET"             envDefault:"your-secret-key"`
	PasswordCost         int           `env:"PASSWORD_COST"`
	AdminIDs             []int         `env:"ADMIN_IDS"              envSeparator:","`
	MaxWorkersPerOrder   int           `env:"MAX_WORKERS_PER_ORDER"  envDefault:"3"`
	WorkerPercent        float64       `env:"WORKER_PERCENT"         envDefault:"0.7"`
	ReconcileInterval    time.Duration `env:"RECONCILE_INTERVAL"     envDefault:"5s"`
	ReconcileMaxAttempts int           `env:"RECONCILE_MAX_ATTEMPTS" envDefault:"60"`
	ReconcileBatch       uint32        `env:"RECONCILE_BATCH"        envDefault:"1000"`
	ReconcileWorkers     int           `env:"RECONCILE_WORKERS"      envDefault:"10"`
	RedisAddr            string        `env:"REDIS_ADDR"`
	KafkaBrokers         []string      `env:"KAFKA_BROKERS"          envSeparator:","`
	NotifyTopic          string        `env:"NOTIFY_TOPIC"           envDefault:"order-notifications"`
}

func New() *Config {
	cfg := &Config{}

	// .env is optional
	_ = godotenv.Load()
	env.Parse(cfg)

	flag.StringVar(&cfg.Address, "a", cfg.Address, "address and port to run server")
	flag.StringVar(&cfg.PaymentStatusAddress, "p", cfg.PaymentStatusAddress, "payment status system address and port")
	flag.StringVar(&cfg.Database, "d", cfg.Database, "database DSN, in-memory store when empty")
	flag.StringVar(&cfg.LogLvl, "l", cfg.LogLvl, "log level")
	flag.IntVar(&cfg.MaxWorkersPerOrder, "w", cfg.MaxWorkersPerOrder, "maximum workers per order")
	flag.Float64Var(&cfg.WorkerPercent, "s", cfg.WorkerPercent, "share of the price paid out to workers")
	flag.DurationVar(&cfg.ReconcileInterval, "i", cfg.ReconcileInterval, "payment reconciliation poll interval")
	flag.IntVar(&cfg.ReconcileMaxAttempts, "m", cfg.ReconcileMaxAttempts, "payment reconciliation attempts per order")
	flag.StringVar(&cfg.RedisAddr, "r", cfg.RedisAddr, "redis address")
	flag.Parse()

	if !strings.HasPrefix(cfg.PaymentStatusAddress, "http://") && !strings.HasPrefix(cfg.PaymentStatusAddress, "https://") {
		cfg.PaymentStatusAddress = "http://" + cfg.PaymentStatusAddress
	}
	if cfg.MaxWorkersPerOrder <= 0 {
		cfg.MaxWorkersPerOrder = 3
	}
	if cfg.WorkerPercent < 0 || cfg.WorkerPercent > 1 {
		cfg.WorkerPercent = 0.7
	}

	return cfg
}

// IsAdmin reports whether the user id is listed in ADMIN_IDS.
func (c *Config) IsAdmin(userID int) bool {
	for _, id := range c.AdminIDs {
		if id == userID {
			return true
		}
	}
	return false
}
