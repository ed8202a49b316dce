package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type Role string

const (
	RoleBuyer  Role = "buyer"
	RoleWorker Role = "worker"
	RoleAdmin  Role = "admin"
)

type User struct {
	ID           int       `db:"id"`
	Login        string    `db:"login"`
	PasswordHash string    `db:"password_hash"`
	Role         Role      `db:"role"`
	CreatedAt    time.Time `db:"created_at"`
}

// Actor is whoever triggers an operation, as resolved from the bearer token.
type Actor struct {
	UserID int
	Role   Role
}

func (a Actor) IsAdmin() bool {
	return a.Role == RoleAdmin
}

type Product struct {
	ID          int             `db:"id"`
	Name        string          `db:"name"`
	Description string          `db:"description"`
	Price       decimal.Decimal `db:"price"`
	Media       string          `db:"media"`
	CreatedAt   time.Time       `db:"created_at"`
	UpdatedAt   time.Time       `db:"updated_at"`
}

// ProductSummary is a catalog entry with its review score and number of completed orders.
type ProductSummary struct {
	Product
	Rating    *float64
	DoneCount int
}

type Order struct {
	ID                int             `db:"id"`
	BuyerID           int             `db:"buyer_id"`
	ProductID         int             `db:"product_id"`
	Price             decimal.Decimal `db:"price"`
	Status            OrderStatus     `db:"status"`
	PaymentRef        string          `db:"payment_ref"`
	EvidenceRef       string          `db:"evidence_ref"`
	CreatedAt         time.Time       `db:"created_at"`
	StartedAt         *time.Time      `db:"started_at"`
	CompletedAt       *time.Time      `db:"completed_at"`
	ReconcileAttempts int             `db:"reconcile_attempts"`
	PaymentChecked    bool            `db:"payment_checked"`
}

type Assignment struct {
	OrderID  int       `db:"order_id"`
	WorkerID int       `db:"worker_id"`
	JoinedAt time.Time `db:"joined_at"`
}

type Payout struct {
	ID        int             `db:"id"`
	OrderID   int             `db:"order_id"`
	WorkerID  int             `db:"worker_id"`
	Amount    decimal.Decimal `db:"amount"`
	CreatedAt time.Time       `db:"created_at"`
}

type Review struct {
	ID        int       `db:"id"`
	OrderID   int       `db:"order_id"`
	BuyerID   int       `db:"buyer_id"`
	WorkerID  int       `db:"worker_id"`
	Rating    int       `db:"rating"`
	Text      string    `db:"text"`
	CreatedAt time.Time `db:"created_at"`
}

type Stats struct {
	Users    int
	Products int
	Orders   int
	Paid     int
	Done     int
	Revenue  decimal.Decimal
	AvgCheck decimal.Decimal
}
