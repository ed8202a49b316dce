package memrepo

import (
	"context"
	"sort"

	"github.com/GlebRadaev/fulfillment/internal/domain"
)

type ProductRepo struct {
	s *Store
}

func (r *ProductRepo) Create(_ context.Context, product *domain.Product) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.productSeq++
	product.ID = r.s.productSeq
	product.UpdatedAt = product.CreatedAt
	cp := *product
	r.s.products[product.ID] = &cp
	return nil
}

func (r *ProductRepo) Update(_ context.Context, product *domain.Product) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.products[product.ID]
	if !ok {
		return false, nil
	}
	p.Name = product.Name
	p.Description = product.Description
	p.Price = product.Price
	p.Media = product.Media
	p.UpdatedAt = product.UpdatedAt
	return true, nil
}

// Delete removes a product nobody has ordered yet.
func (r *ProductRepo) Delete(_ context.Context, id int) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.products[id]; !ok {
		return false, nil
	}
	for _, o := range r.s.orders {
		if o.ProductID == id {
			return false, nil
		}
	}
	delete(r.s.products, id)
	return true, nil
}

func (r *ProductRepo) FindByID(_ context.Context, id int) (*domain.Product, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	p, ok := r.s.products[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (r *ProductRepo) List(_ context.Context) ([]domain.ProductSummary, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	ratingSum := make(map[int]int)
	ratingCnt := make(map[int]int)
	for _, rv := range r.s.reviews {
		o, ok := r.s.orders[rv.OrderID]
		if !ok {
			continue
		}
		ratingSum[o.ProductID] += rv.Rating
		ratingCnt[o.ProductID]++
	}
	done := make(map[int]int)
	for _, o := range r.s.orders {
		if o.Status == domain.StatusDone {
			done[o.ProductID]++
		}
	}

	products := make([]domain.ProductSummary, 0, len(r.s.products))
	for _, p := range r.s.products {
		s := domain.ProductSummary{Product: *p, DoneCount: done[p.ID]}
		if n := ratingCnt[p.ID]; n > 0 {
			avg := float64(ratingSum[p.ID]) / float64(n)
			s.Rating = &avg
		}
		products = append(products, s)
	}
	sort.Slice(products, func(i, j int) bool { return products[i].ID < products[j].ID })
	return products, nil
}
