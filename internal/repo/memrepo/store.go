// Package memrepo keeps every table in process memory. It is used when no
// database is configured and in tests that run several services together.
package memrepo

import (
	"sync"

	"github.com/GlebRadaev/fulfillment/internal/domain"
)

type workerKey struct {
	orderID  int
	workerID int
}

type Store struct {
	mu sync.RWMutex

	users       map[int]*domain.User
	products    map[int]*domain.Product
	orders      map[int]*domain.Order
	assignments map[int][]domain.Assignment
	payouts     map[workerKey]domain.Payout
	reviews     map[workerKey]domain.Review

	userSeq    int
	productSeq int
	orderSeq   int
	payoutSeq  int
	reviewSeq  int
}

func New() *Store {
	return &Store{
		users:       make(map[int]*domain.User),
		products:    make(map[int]*domain.Product),
		orders:      make(map[int]*domain.Order),
		assignments: make(map[int][]domain.Assignment),
		payouts:     make(map[workerKey]domain.Payout),
		reviews:     make(map[workerKey]domain.Review),
	}
}

func (s *Store) Users() *UserRepo {
	return &UserRepo{s: s}
}

func (s *Store) Products() *ProductRepo {
	return &ProductRepo{s: s}
}

func (s *Store) Orders() *OrderRepo {
	return &OrderRepo{s: s}
}

func (s *Store) Assignments() *AssignmentRepo {
	return &AssignmentRepo{s: s}
}

func (s *Store) Payouts() *PayoutRepo {
	return &PayoutRepo{s: s}
}

func (s *Store) Reviews() *ReviewRepo {
	return &ReviewRepo{s: s}
}

func (s *Store) Stats() *StatsRepo {
	return &StatsRepo{s: s}
}
