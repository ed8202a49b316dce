package memrepo

import (
	"context"
	"sort"

	"github.com/GlebRadaev/fulfillment/internal/domain"
)

const buyerOrdersLimit = 50

type OrderRepo struct {
	s *Store
}

func cloneOrder(o *domain.Order) *domain.Order {
	cp := *o
	if o.StartedAt != nil {
		t := *o.StartedAt
		cp.StartedAt = &t
	}
	if o.CompletedAt != nil {
		t := *o.CompletedAt
		cp.CompletedAt = &t
	}
	return &cp
}

func (r *OrderRepo) Create(_ context.Context, order *domain.Order) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.orderSeq++
	order.ID = r.s.orderSeq
	r.s.orders[order.ID] = cloneOrder(order)
	return nil
}

func (r *OrderRepo) FindByID(_ context.Context, id int) (*domain.Order, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	o, ok := r.s.orders[id]
	if !ok {
		return nil, nil
	}
	return cloneOrder(o), nil
}

func (r *OrderRepo) FindByBuyer(_ context.Context, buyerID int) ([]domain.Order, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var orders []domain.Order
	for _, o := range r.s.orders {
		if o.BuyerID == buyerID {
			orders = append(orders, *cloneOrder(o))
		}
	}
	sort.Slice(orders, func(i, j int) bool { return orders[i].ID > orders[j].ID })
	if len(orders) > buyerOrdersLimit {
		orders = orders[:buyerOrdersLimit]
	}
	return orders, nil
}

// FindAll returns the newest orders of every buyer.
func (r *OrderRepo) FindAll(_ context.Context, limit int) ([]domain.Order, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	orders := make([]domain.Order, 0, len(r.s.orders))
	for _, o := range r.s.orders {
		orders = append(orders, *cloneOrder(o))
	}
	sort.Slice(orders, func(i, j int) bool { return orders[i].ID > orders[j].ID })
	if len(orders) > limit {
		orders = orders[:limit]
	}
	return orders, nil
}

func (r *OrderRepo) FindForReconciliation(_ context.Context, limit uint32) ([]domain.Order, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var orders []domain.Order
	for _, o := range r.s.orders {
		if o.Status.Unresolved() && !o.PaymentChecked {
			orders = append(orders, *cloneOrder(o))
		}
	}
	sort.Slice(orders, func(i, j int) bool { return orders[i].ID < orders[j].ID })
	if uint32(len(orders)) > limit {
		orders = orders[:limit]
	}
	return orders, nil
}

// Update stores the mutable order fields if the stored status still equals expected.
func (r *OrderRepo) Update(_ context.Context, order *domain.Order, expected domain.OrderStatus) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	o, ok := r.s.orders[order.ID]
	if !ok || o.Status != expected {
		return false, nil
	}
	next := cloneOrder(order)
	next.BuyerID = o.BuyerID
	next.ProductID = o.ProductID
	next.Price = o.Price
	next.PaymentRef = o.PaymentRef
	next.CreatedAt = o.CreatedAt
	r.s.orders[order.ID] = next
	return true, nil
}
