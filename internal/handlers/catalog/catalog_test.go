package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/GlebRadaev/fulfillment/internal/apperr"
	"github.com/GlebRadaev/fulfillment/internal/domain"
	"github.com/GlebRadaev/fulfillment/internal/dto"
	"github.com/GlebRadaev/fulfillment/pkg/auth"
	"github.com/GlebRadaev/fulfillment/pkg/utils"
	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gomock "go.uber.org/mock/gomock"
)

var admin = domain.Actor{UserID: 1, Role: domain.RoleAdmin}

func NewMock(t *testing.T) (*CatalogHandler, *MockService) {
	ctrl := gomock.NewController(t)
	service := NewMockService(ctrl)
	return New(service, NewMockReviews(ctrl)), service
}

func newReviewsMock(t *testing.T) (*CatalogHandler, *MockReviews) {
	ctrl := gomock.NewController(t)
	reviews := NewMockReviews(ctrl)
	return New(NewMockService(ctrl), reviews), reviews
}

func newRequest(method, url, body string, actor domain.Actor, id string) *http.Request {
	req := httptest.NewRequest(method, url, strings.NewReader(body))
	ctx := context.WithValue(req.Context(), auth.UserIDKey, actor.UserID)
	ctx = context.WithValue(ctx, auth.RoleKey, string(actor.Role))
	if id != "" {
		rctx := chi.NewRouteContext()
		rctx.URLParams.Add("id", id)
		ctx = context.WithValue(ctx, chi.RouteCtxKey, rctx)
	}
	return req.WithContext(ctx)
}

func TestListProducts(t *testing.T) {
	rating := 4.5
	updated := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		name         string
		prepareMock  func(service *MockService)
		expectedCode int
		expectedBody string
	}{
		{
			name: "Products with ratings",
			prepareMock: func(service *MockService) {
				service.EXPECT().ListProducts(gomock.Any()).Return([]domain.ProductSummary{
					{
						Product:   domain.Product{ID: 1, Name: "Assembly", Price: decimal.RequireFromString("300.00"), UpdatedAt: updated},
						Rating:    &rating,
						DoneCount: 2,
					},
					{
						Product: domain.Product{ID: 2, Name: "Cleaning", Price: decimal.RequireFromString("150.50"), UpdatedAt: updated},
					},
				}, nil)
			},
			expectedCode: http.StatusOK,
			expectedBody: `[
				{"id":1,"name":"Assembly","description":"","price":"300","rating":4.5,"done_count":2,"updated_at":"2024-05-01T10:00:00Z"},
				{"id":2,"name":"Cleaning","description":"","price":"150.5","done_count":0,"updated_at":"2024-05-01T10:00:00Z"}
			]`,
		},
		{
			name: "Empty catalog",
			prepareMock: func(service *MockService) {
				service.EXPECT().ListProducts(gomock.Any()).Return(nil, nil)
			},
			expectedCode: http.StatusNoContent,
		},
		{
			name: "Database error",
			prepareMock: func(service *MockService) {
				service.EXPECT().ListProducts(gomock.Any()).Return(nil, errors.New("database error"))
			},
			expectedCode: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler, service := NewMock(t)
			tt.prepareMock(service)

			rr := httptest.NewRecorder()
			handler.ListProducts(rr, newRequest(http.MethodGet, "/api/products", "", admin, ""))

			assert.Equal(t, tt.expectedCode, rr.Code)
			if tt.expectedBody != "" {
				assert.JSONEq(t, tt.expectedBody, rr.Body.String())
			}
		})
	}
}

func TestGetProduct(t *testing.T) {
	tests := []struct {
		name         string
		id           string
		prepareMock  func(service *MockService)
		expectedCode int
	}{
		{
			name: "Product found",
			id:   "3",
			prepareMock: func(service *MockService) {
				service.EXPECT().GetProduct(gomock.Any(), 3).Return(&domain.Product{ID: 3, Name: "Assembly"}, nil)
			},
			expectedCode: http.StatusOK,
		},
		{
			name: "Product not found",
			id:   "3",
			prepareMock: func(service *MockService) {
				service.EXPECT().GetProduct(gomock.Any(), 3).Return(nil, fmt.Errorf("product 3: %w", apperr.ErrNotFound))
			},
			expectedCode: http.StatusNotFound,
		},
		{
			name:         "Invalid id",
			id:           "abc",
			prepareMock:  func(service *MockService) {},
			expectedCode: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler, service := NewMock(t)
			tt.prepareMock(service)

			rr := httptest.NewRecorder()
			handler.GetProduct(rr, newRequest(http.MethodGet, "/api/products/"+tt.id, "", admin, tt.id))

			assert.Equal(t, tt.expectedCode, rr.Code)
		})
	}
}

func TestCreateProduct(t *testing.T) {
	tests := []struct {
		name          string
		body          string
		actor         domain.Actor
		prepareMock   func(service *MockService)
		expectedCode  int
		expectedError string
	}{
		{
			name:  "Product created",
			body:  `{"name":"Assembly","description":"Two workers","price":"300.00"}`,
			actor: admin,
			prepareMock: func(service *MockService) {
				service.EXPECT().CreateProduct(gomock.Any(), admin, gomock.Any()).
					DoAndReturn(func(_ context.Context, _ domain.Actor, p *domain.Product) (*domain.Product, error) {
						assert.Equal(t, "Assembly", p.Name)
						assert.True(t, decimal.NewFromInt(300).Equal(p.Price))
						p.ID = 9
						return p, nil
					})
			},
			expectedCode: http.StatusCreated,
		},
		{
			name:  "Price given as number",
			body:  `{"name":"Assembly","price":300}`,
			actor: admin,
			prepareMock: func(service *MockService) {
				service.EXPECT().CreateProduct(gomock.Any(), admin, gomock.Any()).
					DoAndReturn(func(_ context.Context, _ domain.Actor, p *domain.Product) (*domain.Product, error) {
						p.ID = 9
						return p, nil
					})
			},
			expectedCode: http.StatusCreated,
		},
		{
			name:  "Not an admin",
			body:  `{"name":"Assembly","price":"300"}`,
			actor: domain.Actor{UserID: 2, Role: domain.RoleBuyer},
			prepareMock: func(service *MockService) {
				service.EXPECT().CreateProduct(gomock.Any(), domain.Actor{UserID: 2, Role: domain.RoleBuyer}, gomock.Any()).
					Return(nil, apperr.ErrUnauthorized)
			},
			expectedCode:  http.StatusForbidden,
			expectedError: "not allowed",
		},
		{
			name:          "Invalid request body",
			body:          `{"name":`,
			actor:         admin,
			prepareMock:   func(service *MockService) {},
			expectedCode:  http.StatusBadRequest,
			expectedError: "Invalid request body",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler, service := NewMock(t)
			tt.prepareMock(service)

			rr := httptest.NewRecorder()
			handler.CreateProduct(rr, newRequest(http.MethodPost, "/api/products", tt.body, tt.actor, ""))

			assert.Equal(t, tt.expectedCode, rr.Code)
			if tt.expectedError != "" {
				var resp utils.Response
				require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
				assert.Equal(t, tt.expectedError, resp.Message)
			} else {
				var resp dto.ProductResponseDTO
				require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
				assert.Equal(t, 9, resp.ID)
			}
		})
	}
}

func TestUpdateProduct(t *testing.T) {
	t.Run("Id comes from the path", func(t *testing.T) {
		handler, service := NewMock(t)
		service.EXPECT().UpdateProduct(gomock.Any(), admin, gomock.Cond(func(p *domain.Product) bool { return p.ID == 4 })).
			DoAndReturn(func(_ context.Context, _ domain.Actor, p *domain.Product) (*domain.Product, error) {
				return p, nil
			})

		rr := httptest.NewRecorder()
		handler.UpdateProduct(rr, newRequest(http.MethodPut, "/api/products/4", `{"name":"New","price":"10"}`, admin, "4"))
		assert.Equal(t, http.StatusOK, rr.Code)
	})

	t.Run("Unknown product", func(t *testing.T) {
		handler, service := NewMock(t)
		service.EXPECT().UpdateProduct(gomock.Any(), admin, gomock.Any()).Return(nil, apperr.ErrNotFound)

		rr := httptest.NewRecorder()
		handler.UpdateProduct(rr, newRequest(http.MethodPut, "/api/products/4", `{"name":"New","price":"10"}`, admin, "4"))
		assert.Equal(t, http.StatusNotFound, rr.Code)
	})

	t.Run("Invalid id", func(t *testing.T) {
		handler, _ := NewMock(t)

		rr := httptest.NewRecorder()
		handler.UpdateProduct(rr, newRequest(http.MethodPut, "/api/products/x", `{}`, admin, "x"))
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}

func TestDeleteProduct(t *testing.T) {
	tests := []struct {
		name         string
		id           string
		prepareMock  func(service *MockService)
		expectedCode int
		expectedBody string
	}{
		{
			name: "Deleted",
			id:   "3",
			prepareMock: func(service *MockService) {
				service.EXPECT().DeleteProduct(gomock.Any(), admin, 3).Return(nil)
			},
			expectedCode: http.StatusOK,
			expectedBody: `{"message":"Product deleted"}`,
		},
		{
			name: "Product has orders",
			id:   "3",
			prepareMock: func(service *MockService) {
				service.EXPECT().DeleteProduct(gomock.Any(), admin, 3).Return(fmt.Errorf("product 3 has orders: %w", apperr.ErrInvalidState))
			},
			expectedCode: http.StatusConflict,
		},
		{
			name: "Unknown product",
			id:   "3",
			prepareMock: func(service *MockService) {
				service.EXPECT().DeleteProduct(gomock.Any(), admin, 3).Return(apperr.ErrNotFound)
			},
			expectedCode: http.StatusNotFound,
		},
		{
			name:         "Invalid id",
			id:           "abc",
			prepareMock:  func(service *MockService) {},
			expectedCode: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler, service := NewMock(t)
			tt.prepareMock(service)

			rr := httptest.NewRecorder()
			handler.DeleteProduct(rr, newRequest(http.MethodDelete, "/api/products/"+tt.id, "", admin, tt.id))

			assert.Equal(t, tt.expectedCode, rr.Code)
			if tt.expectedBody != "" {
				assert.JSONEq(t, tt.expectedBody, rr.Body.String())
			}
		})
	}
}

func TestProductReviews(t *testing.T) {
	created := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	buyer := domain.Actor{UserID: 2, Role: domain.RoleBuyer}

	t.Run("Reviews of the product", func(t *testing.T) {
		handler, reviews := newReviewsMock(t)
		reviews.EXPECT().ProductReviews(gomock.Any(), 3).
			Return([]domain.Review{{ID: 5, OrderID: 12, WorkerID: 7, Rating: 5, Text: "great", CreatedAt: created}}, nil)

		rr := httptest.NewRecorder()
		handler.ProductReviews(rr, newRequest(http.MethodGet, "/api/products/3/reviews", "", buyer, "3"))

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.JSONEq(t, `[{"order_id":12,"worker_id":7,"rating":5,"text":"great","created_at":"2024-05-01T10:00:00Z"}]`, rr.Body.String())
	})

	t.Run("No reviews", func(t *testing.T) {
		handler, reviews := newReviewsMock(t)
		reviews.EXPECT().ProductReviews(gomock.Any(), 3).Return(nil, nil)

		rr := httptest.NewRecorder()
		handler.ProductReviews(rr, newRequest(http.MethodGet, "/api/products/3/reviews", "", buyer, "3"))

		assert.Equal(t, http.StatusNoContent, rr.Code)
	})

	t.Run("Invalid id", func(t *testing.T) {
		handler, _ := newReviewsMock(t)

		rr := httptest.NewRecorder()
		handler.ProductReviews(rr, newRequest(http.MethodGet, "/api/products/x/reviews", "", buyer, "x"))

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}

func TestLatestReviews(t *testing.T) {
	buyer := domain.Actor{UserID: 2, Role: domain.RoleBuyer}

	t.Run("Latest reviews", func(t *testing.T) {
		handler, reviews := newReviewsMock(t)
		reviews.EXPECT().LatestReviews(gomock.Any()).Return([]domain.Review{{ID: 9, OrderID: 4, WorkerID: 7, Rating: 3}, {ID: 8, OrderID: 2, WorkerID: 8, Rating: 5}}, nil)

		rr := httptest.NewRecorder()
		handler.LatestReviews(rr, newRequest(http.MethodGet, "/api/reviews", "", buyer, ""))

		assert.Equal(t, http.StatusOK, rr.Code)
		var body []dto.ReviewResponseDTO
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
		require.Len(t, body, 2)
		assert.Equal(t, 4, body[0].OrderID)
	})

	t.Run("Store error is hidden", func(t *testing.T) {
		handler, reviews := newReviewsMock(t)
		reviews.EXPECT().LatestReviews(gomock.Any()).Return(nil, errors.New("database error"))

		rr := httptest.NewRecorder()
		handler.LatestReviews(rr, newRequest(http.MethodGet, "/api/reviews", "", buyer, ""))

		assert.Equal(t, http.StatusInternalServerError, rr.Code)
		assert.NotContains(t, rr.Body.String(), "database")
	})
}
