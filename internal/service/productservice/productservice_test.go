package productservice

import (
	"context"
	"errors"
	"testing"

	"github.com/GlebRadaev/fulfillment/internal/apperr"
	"github.com/GlebRadaev/fulfillment/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gomock "go.uber.org/mock/gomock"
)

func NewMock(t *testing.T) (*Service, *MockRepo) {
	ctrl := gomock.NewController(t)
	repo := NewMockRepo(ctrl)
	return New(repo), repo
}

var admin = domain.Actor{UserID: 1, Role: domain.RoleAdmin}

func TestCreateProduct(t *testing.T) {
	tests := []struct {
		name        string
		actor       domain.Actor
		product     *domain.Product
		prepareMock func(repo *MockRepo)
		wantErr     error
		anyErr      bool
	}{
		{
			name:    "Created",
			actor:   admin,
			product: &domain.Product{Name: " Cleaning ", Price: decimal.RequireFromString("300.004")},
			prepareMock: func(repo *MockRepo) {
				repo.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(func(ctx context.Context, p *domain.Product) error {
					p.ID = 5
					return nil
				})
			},
		},
		{
			name:        "Not an admin",
			actor:       domain.Actor{UserID: 2, Role: domain.RoleBuyer},
			product:     &domain.Product{Name: "Cleaning", Price: decimal.NewFromInt(300)},
			prepareMock: func(repo *MockRepo) {},
			wantErr:     apperr.ErrUnauthorized,
		},
		{
			name:        "Empty name",
			actor:       admin,
			product:     &domain.Product{Name: " ", Price: decimal.NewFromInt(300)},
			prepareMock: func(repo *MockRepo) {},
			wantErr:     apperr.ErrInvalidArgument,
		},
		{
			name:        "Zero price",
			actor:       admin,
			product:     &domain.Product{Name: "Cleaning", Price: decimal.Zero},
			prepareMock: func(repo *MockRepo) {},
			wantErr:     apperr.ErrInvalidArgument,
		},
		{
			name:    "Store error",
			actor:   admin,
			product: &domain.Product{Name: "Cleaning", Price: decimal.NewFromInt(300)},
			prepareMock: func(repo *MockRepo) {
				repo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(errors.New("database error"))
			},
			anyErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service, repo := NewMock(t)
			tt.prepareMock(repo)

			p, err := service.CreateProduct(context.Background(), tt.actor, tt.product)
			switch {
			case tt.wantErr != nil:
				assert.ErrorIs(t, err, tt.wantErr)
			case tt.anyErr:
				assert.Error(t, err)
			default:
				require.NoError(t, err)
				assert.Equal(t, 5, p.ID)
				assert.Equal(t, "Cleaning", p.Name)
				assert.True(t, decimal.NewFromInt(300).Equal(p.Price))
			}
		})
	}
}

func TestUpdateProduct(t *testing.T) {
	t.Run("Unknown product", func(t *testing.T) {
		service, repo := NewMock(t)
		repo.EXPECT().Update(gomock.Any(), gomock.Any()).Return(false, nil)

		_, err := service.UpdateProduct(context.Background(), admin, &domain.Product{ID: 9, Name: "X", Price: decimal.NewFromInt(1)})
		assert.ErrorIs(t, err, apperr.ErrNotFound)
	})

	t.Run("Updated", func(t *testing.T) {
		service, repo := NewMock(t)
		repo.EXPECT().Update(gomock.Any(), gomock.Any()).Return(true, nil)

		p, err := service.UpdateProduct(context.Background(), admin, &domain.Product{ID: 9, Name: "X", Price: decimal.NewFromInt(1)})
		require.NoError(t, err)
		assert.False(t, p.UpdatedAt.IsZero())
	})
}

func TestGetProduct(t *testing.T) {
	service, repo := NewMock(t)
	repo.EXPECT().FindByID(gomock.Any(), 1).Return(&domain.Product{ID: 1}, nil)
	repo.EXPECT().FindByID(gomock.Any(), 2).Return(nil, nil)

	p, err := service.GetProduct(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, 1, p.ID)

	_, err = service.GetProduct(context.Background(), 2)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestListProducts(t *testing.T) {
	service, repo := NewMock(t)
	repo.EXPECT().List(gomock.Any()).Return([]domain.ProductSummary{{Product: domain.Product{ID: 1}, DoneCount: 3}}, nil)

	products, err := service.ListProducts(context.Background())
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, 3, products[0].DoneCount)
}

func TestDeleteProduct(t *testing.T) {
	tests := []struct {
		name        string
		actor       domain.Actor
		prepareMock func(repo *MockRepo)
		wantErr     error
	}{
		{
			name:  "Deleted",
			actor: admin,
			prepareMock: func(repo *MockRepo) {
				repo.EXPECT().FindByID(gomock.Any(), 3).Return(&domain.Product{ID: 3}, nil)
				repo.EXPECT().Delete(gomock.Any(), 3).Return(true, nil)
			},
		},
		{
			name:  "Product has orders",
			actor: admin,
			prepareMock: func(repo *MockRepo) {
				repo.EXPECT().FindByID(gomock.Any(), 3).Return(&domain.Product{ID: 3}, nil)
				repo.EXPECT().Delete(gomock.Any(), 3).Return(false, nil)
			},
			wantErr: apperr.ErrInvalidState,
		},
		{
			name:  "Unknown product",
			actor: admin,
			prepareMock: func(repo *MockRepo) {
				repo.EXPECT().FindByID(gomock.Any(), 3).Return(nil, nil)
			},
			wantErr: apperr.ErrNotFound,
		},
		{
			name:        "Not an admin",
			actor:       domain.Actor{UserID: 2, Role: domain.RoleBuyer},
			prepareMock: func(repo *MockRepo) {},
			wantErr:     apperr.ErrUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service, repo := NewMock(t)
			tt.prepareMock(repo)

			err := service.DeleteProduct(context.Background(), tt.actor, 3)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			assert.NoError(t, err)
		})
	}
}
