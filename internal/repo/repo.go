package repo

import (
	"github.com/GlebRadaev/fulfillment/internal/pg"
	assignmentrepo "github.com/GlebRadaev/fulfillment/internal/repo/assignment-repo"
	"github.com/GlebRadaev/fulfillment/internal/repo/memrepo"
	orderrepo "github.com/GlebRadaev/fulfillment/internal/repo/order-repo"
	payoutrepo "github.com/GlebRadaev/fulfillment/internal/repo/payout-repo"
	productrepo "github.com/GlebRadaev/fulfillment/internal/repo/product-repo"
	reviewrepo "github.com/GlebRadaev/fulfillment/internal/repo/review-repo"
	statsrepo "github.com/GlebRadaev/fulfillment/internal/repo/stats-repo"
	userrepo "github.com/GlebRadaev/fulfillment/internal/repo/user-repo"
	"github.com/GlebRadaev/fulfillment/internal/service/authservice"
	"github.com/GlebRadaev/fulfillment/internal/service/orderservice"
	"github.com/GlebRadaev/fulfillment/internal/service/payoutservice"
	"github.com/GlebRadaev/fulfillment/internal/service/productservice"
	"github.com/GlebRadaev/fulfillment/internal/service/reviewservice"
	"github.com/GlebRadaev/fulfillment/internal/service/slotservice"
	"github.com/GlebRadaev/fulfillment/internal/service/statsservice"
)

type Repositories struct {
	UserRepo       authservice.Repo
	ProductRepo    productservice.Repo
	OrderRepo      orderservice.Repo
	AssignmentRepo slotservice.Repo
	PayoutRepo     payoutservice.Repo
	ReviewRepo     reviewservice.Repo
	StatsRepo      statsservice.Repo
}

func New(conn pg.Database, txManager pg.TXManager) *Repositories {
	return &Repositories{
		UserRepo:       userrepo.New(conn),
		ProductRepo:    productrepo.New(conn),
		OrderRepo:      orderrepo.New(conn),
		AssignmentRepo: assignmentrepo.New(conn, txManager),
		PayoutRepo:     payoutrepo.New(conn, txManager),
		ReviewRepo:     reviewrepo.New(conn),
		StatsRepo:      statsrepo.New(conn),
	}
}

// NewMemory backs every repository with one in-process store.
func NewMemory(store *memrepo.Store) *Repositories {
	return &Repositories{
		UserRepo:       store.Users(),
		ProductRepo:    store.Products(),
		OrderRepo:      store.Orders(),
		AssignmentRepo: store.Assignments(),
		PayoutRepo:     store.Payouts(),
		ReviewRepo:     store.Reviews(),
		StatsRepo:      store.Stats(),
	}
}
