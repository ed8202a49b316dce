package productservice

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/GlebRadaev/fulfillment/internal/apperr"
	"github.com/GlebRadaev/fulfillment/internal/domain"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type Repo interface {
	Create(ctx context.Context, product *domain.Product) error
	Update(ctx context.Context, product *domain.Product) (bool, error)
	FindByID(ctx context.Context, id int) (*domain.Product, error)
	List(ctx context.Context) ([]domain.ProductSummary, error)
	Delete(ctx context.Context, id int) (bool, error)
}

type Service struct {
	repo Repo
}

func New(repo Repo) *Service {
	return &Service{
		repo: repo,
	}
}

func validate(p *domain.Product) error {
	p.Name = strings.TrimSpace(p.Name)
	if p.Name == "" {
		return fmt.Errorf("empty product name: %w", apperr.ErrInvalidArgument)
	}
	if p.Price.LessThanOrEqual(decimal.Zero) {
		return fmt.Errorf("price %s: %w", p.Price, apperr.ErrInvalidArgument)
	}
	p.Price = p.Price.Round(2)
	return nil
}

func (s *Service) CreateProduct(ctx context.Context, actor domain.Actor, p *domain.Product) (*domain.Product, error) {
	if !actor.IsAdmin() {
		return nil, apperr.ErrUnauthorized
	}
	if err := validate(p); err != nil {
		return nil, err
	}
	p.CreatedAt = time.Now()
	if err := s.repo.Create(ctx, p); err != nil {
		zap.L().Error("can't save product", zap.Error(err))
		return nil, err
	}
	zap.L().Info("product created", zap.Int("product_id", p.ID), zap.String("name", p.Name))
	return p, nil
}

// UpdateProduct changes the catalog card. Existing orders keep their price.
func (s *Service) UpdateProduct(ctx context.Context, actor domain.Actor, p *domain.Product) (*domain.Product, error) {
	if !actor.IsAdmin() {
		return nil, apperr.ErrUnauthorized
	}
	if err := validate(p); err != nil {
		return nil, err
	}
	p.UpdatedAt = time.Now()
	ok, err := s.repo.Update(ctx, p)
	if err != nil {
		zap.L().Error("can't update product", zap.Int("product_id", p.ID), zap.Error(err))
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("product %d: %w", p.ID, apperr.ErrNotFound)
	}
	return p, nil
}

// DeleteProduct removes a product from the catalog. Products that were ever ordered stay.
func (s *Service) DeleteProduct(ctx context.Context, actor domain.Actor, id int) error {
	if !actor.IsAdmin() {
		return apperr.ErrUnauthorized
	}
	if _, err := s.GetProduct(ctx, id); err != nil {
		return err
	}
	ok, err := s.repo.Delete(ctx, id)
	if err != nil {
		zap.L().Error("can't delete product", zap.Int("product_id", id), zap.Error(err))
		return err
	}
	if !ok {
		return fmt.Errorf("product %d has orders: %w", id, apperr.ErrInvalidState)
	}
	zap.L().Info("product deleted", zap.Int("product_id", id))
	return nil
}

func (s *Service) GetProduct(ctx context.Context, id int) (*domain.Product, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, fmt.Errorf("product %d: %w", id, apperr.ErrNotFound)
	}
	return p, nil
}

func (s *Service) ListProducts(ctx context.Context) ([]domain.ProductSummary, error) {
	products, err := s.repo.List(ctx)
	if err != nil {
		zap.L().Error("can't list products", zap.Error(err))
		return nil, err
	}
	return products, nil
}
