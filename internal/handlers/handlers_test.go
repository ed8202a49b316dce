package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	_ "github.com/GlebRadaev/fulfillment/docs"
	"github.com/GlebRadaev/fulfillment/internal/handlers/admin"
	"github.com/GlebRadaev/fulfillment/internal/handlers/auth"
	"github.com/GlebRadaev/fulfillment/internal/handlers/catalog"
	"github.com/GlebRadaev/fulfillment/internal/handlers/orders"
	"github.com/GlebRadaev/fulfillment/internal/service"
	pkgauth "github.com/GlebRadaev/fulfillment/pkg/auth"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gomock "go.uber.org/mock/gomock"
)

func TestNew(t *testing.T) {
	ctrl := gomock.NewController(t)

	services := &service.Services{
		AuthService:    auth.NewMockService(ctrl),
		ProductService: catalog.NewMockService(ctrl),
		OrderService:   orders.NewMockOrderService(ctrl),
		SlotService:    orders.NewMockSlotService(ctrl),
		PayoutService:  orders.NewMockPayoutService(ctrl),
		ReviewService:  orders.NewMockReviewService(ctrl),
		ReviewFeed:     catalog.NewMockReviews(ctrl),
		StatsService:   admin.NewMockService(ctrl),
		OrderLog:       admin.NewMockOrders(ctrl),
	}

	h := New(services, pkgauth.NewJWTService("secret"))
	assert.NotNil(t, h, "Handlers should not be nil")
	assert.NotNil(t, h.OrderHandler)
	assert.NotNil(t, h.AdminHandler)
}

func TestInitRoutes(t *testing.T) {
	ctrl := gomock.NewController(t)

	mockAuthHandler := NewMockAuthHandler(ctrl)
	mockCatalogHandler := NewMockCatalogHandler(ctrl)
	mockOrderHandler := NewMockOrderHandler(ctrl)
	mockAdminHandler := NewMockAdminHandler(ctrl)

	mockAuthHandler.EXPECT().Register(gomock.Any(), gomock.Any()).AnyTimes()
	mockAuthHandler.EXPECT().Login(gomock.Any(), gomock.Any()).AnyTimes()
	mockAuthHandler.EXPECT().GetSession(gomock.Any(), gomock.Any()).AnyTimes()
	mockCatalogHandler.EXPECT().ListProducts(gomock.Any(), gomock.Any()).AnyTimes()
	mockCatalogHandler.EXPECT().GetProduct(gomock.Any(), gomock.Any()).AnyTimes()
	mockCatalogHandler.EXPECT().DeleteProduct(gomock.Any(), gomock.Any()).AnyTimes()
	mockCatalogHandler.EXPECT().ProductReviews(gomock.Any(), gomock.Any()).AnyTimes()
	mockCatalogHandler.EXPECT().LatestReviews(gomock.Any(), gomock.Any()).AnyTimes()
	mockOrderHandler.EXPECT().CreateOrder(gomock.Any(), gomock.Any()).AnyTimes()
	mockOrderHandler.EXPECT().GetOrder(gomock.Any(), gomock.Any()).AnyTimes()
	mockOrderHandler.EXPECT().Claim(gomock.Any(), gomock.Any()).AnyTimes()
	mockOrderHandler.EXPECT().Release(gomock.Any(), gomock.Any()).AnyTimes()
	mockOrderHandler.EXPECT().NextReview(gomock.Any(), gomock.Any()).AnyTimes()
	mockAdminHandler.EXPECT().GetStats(gomock.Any(), gomock.Any()).AnyTimes()
	mockAdminHandler.EXPECT().ListOrders(gomock.Any(), gomock.Any()).AnyTimes()

	jwtService := pkgauth.NewJWTService("secret")
	h := &Handlers{
		AuthHandler:    mockAuthHandler,
		CatalogHandler: mockCatalogHandler,
		OrderHandler:   mockOrderHandler,
		AdminHandler:   mockAdminHandler,
		jwt:            jwtService,
	}

	router := chi.NewRouter()
	h.InitRoutes(router)

	token, err := jwtService.GenerateJWT(7, "worker", time.Now().Add(time.Hour))
	require.NoError(t, err)

	tests := []struct {
		method string
		url    string
		token  string
		status int
	}{
		{"POST", "/api/user/register", "", http.StatusOK},
		{"POST", "/api/user/login", "", http.StatusOK},
		{"GET", "/api/user/session", "", http.StatusUnauthorized},
		{"GET", "/api/user/session", token, http.StatusOK},
		{"GET", "/api/products", "", http.StatusUnauthorized},
		{"GET", "/api/products", token, http.StatusOK},
		{"GET", "/api/products/3", token, http.StatusOK},
		{"DELETE", "/api/products/3", token, http.StatusOK},
		{"GET", "/api/products/3/reviews", token, http.StatusOK},
		{"GET", "/api/reviews", "", http.StatusUnauthorized},
		{"GET", "/api/reviews", token, http.StatusOK},
		{"POST", "/api/orders", "", http.StatusUnauthorized},
		{"POST", "/api/orders", token, http.StatusOK},
		{"GET", "/api/orders/10", token, http.StatusOK},
		{"POST", "/api/orders/10/workers", token, http.StatusOK},
		{"DELETE", "/api/orders/10/workers", token, http.StatusOK},
		{"GET", "/api/orders/10/reviews/next", token, http.StatusOK},
		{"POST", "/api/orders/10/stage", "", http.StatusUnauthorized},
		{"GET", "/api/orders/10/payouts", "", http.StatusUnauthorized},
		{"GET", "/api/admin/stats", token, http.StatusOK},
		{"GET", "/api/admin/orders", "", http.StatusUnauthorized},
		{"GET", "/api/admin/orders", token, http.StatusOK},
		{"PATCH", "/api/orders/10", token, http.StatusMethodNotAllowed},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.url, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.url, nil)
			if tt.token != "" {
				req.Header.Set("Authorization", "Bearer "+tt.token)
			}
			rec := httptest.NewRecorder()

			router.ServeHTTP(rec, req)

			assert.Equal(t, tt.status, rec.Code)
		})
	}
}
