package memrepo

import (
	"context"
	"sort"

	"github.com/GlebRadaev/fulfillment/internal/domain"
)

type PayoutRepo struct {
	s *Store
}

func (r *PayoutRepo) FindByOrder(_ context.Context, orderID int) ([]domain.Payout, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var payouts []domain.Payout
	for k, p := range r.s.payouts {
		if k.orderID == orderID {
			payouts = append(payouts, p)
		}
	}
	sort.Slice(payouts, func(i, j int) bool { return payouts[i].WorkerID < payouts[j].WorkerID })
	return payouts, nil
}

func (r *PayoutRepo) CreateBatch(_ context.Context, payouts []domain.Payout) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, p := range payouts {
		k := workerKey{orderID: p.OrderID, workerID: p.WorkerID}
		if _, ok := r.s.payouts[k]; ok {
			continue
		}
		r.s.payoutSeq++
		p.ID = r.s.payoutSeq
		r.s.payouts[k] = p
	}
	return nil
}
