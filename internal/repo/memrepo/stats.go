package memrepo

import (
	"context"

	"github.com/GlebRadaev/fulfillment/internal/domain"
	"github.com/shopspring/decimal"
)

type StatsRepo struct {
	s *Store
}

func (r *StatsRepo) Collect(_ context.Context) (*domain.Stats, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	st := &domain.Stats{
		Users:    len(r.s.users),
		Products: len(r.s.products),
		Orders:   len(r.s.orders),
		Revenue:  decimal.Zero,
	}
	for _, o := range r.s.orders {
		if o.Status.Active() {
			st.Paid++
		}
		if o.Status == domain.StatusDone {
			st.Done++
		}
		if o.Status.Confirmed() {
			st.Revenue = st.Revenue.Add(o.Price)
		}
	}
	return st, nil
}
