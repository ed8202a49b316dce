package handlers

import (
	"net/http"

	_ "github.com/GlebRadaev/fulfillment/docs"
	adminhandlers "github.com/GlebRadaev/fulfillment/internal/handlers/admin"
	authhandlers "github.com/GlebRadaev/fulfillment/internal/handlers/auth"
	cataloghandlers "github.com/GlebRadaev/fulfillment/internal/handlers/catalog"
	ordershandlers "github.com/GlebRadaev/fulfillment/internal/handlers/orders"
	"github.com/GlebRadaev/fulfillment/internal/service"
	"github.com/GlebRadaev/fulfillment/pkg/auth"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger"
)

type AuthHandler interface {
	Register(w http.ResponseWriter, r *http.Request)
	Login(w http.ResponseWriter, r *http.Request)
	GetSession(w http.ResponseWriter, r *http.Request)
}

type CatalogHandler interface {
	ListProducts(w http.ResponseWriter, r *http.Request)
	GetProduct(w http.ResponseWriter, r *http.Request)
	CreateProduct(w http.ResponseWriter, r *http.Request)
	UpdateProduct(w http.ResponseWriter, r *http.Request)
	DeleteProduct(w http.ResponseWriter, r *http.Request)
	ProductReviews(w http.ResponseWriter, r *http.Request)
	LatestReviews(w http.ResponseWriter, r *http.Request)
}

type OrderHandler interface {
	CreateOrder(w http.ResponseWriter, r *http.Request)
	GetOrders(w http.ResponseWriter, r *http.Request)
	GetOrder(w http.ResponseWriter, r *http.Request)
	SubmitEvidence(w http.ResponseWriter, r *http.Request)
	Decide(w http.ResponseWriter, r *http.Request)
	Claim(w http.ResponseWriter, r *http.Request)
	Release(w http.ResponseWriter, r *http.Request)
	ListWorkers(w http.ResponseWriter, r *http.Request)
	Advance(w http.ResponseWriter, r *http.Request)
	GetPayouts(w http.ResponseWriter, r *http.Request)
	GetReviews(w http.ResponseWriter, r *http.Request)
	NextReview(w http.ResponseWriter, r *http.Request)
	RecordReview(w http.ResponseWriter, r *http.Request)
}

type AdminHandler interface {
	GetStats(w http.ResponseWriter, r *http.Request)
	ListOrders(w http.ResponseWriter, r *http.Request)
}

type Handlers struct {
	AuthHandler    AuthHandler
	CatalogHandler CatalogHandler
	OrderHandler   OrderHandler
	AdminHandler   AdminHandler

	jwt auth.JWTServiceInterface
}

func New(s *service.Services, jwt auth.JWTServiceInterface) *Handlers {
	return &Handlers{
		AuthHandler:    authhandlers.New(s.AuthService),
		CatalogHandler: cataloghandlers.New(s.ProductService, s.ReviewFeed),
		OrderHandler:   ordershandlers.New(s.OrderService, s.SlotService, s.PayoutService, s.ReviewService),
		AdminHandler:   adminhandlers.New(s.StatsService, s.OrderLog),
		jwt:            jwt,
	}
}

func (h *Handlers) InitRoutes(r chi.Router) chi.Router {
	r.Use(
		middleware.RealIP,
		middleware.Recoverer,
		middleware.Logger,
	)
	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("doc.json"),
	))
	r.Route("/api", func(r chi.Router) {
		r.Post("/user/register", h.AuthHandler.Register)
		r.Post("/user/login", h.AuthHandler.Login)

		r.Group(func(r chi.Router) {
			r.Use(auth.Middleware(h.jwt))
			r.Get("/user/session", h.AuthHandler.GetSession)

			r.Route("/products", func(r chi.Router) {
				r.Get("/", h.CatalogHandler.ListProducts)
				r.Post("/", h.CatalogHandler.CreateProduct)
				r.Get("/{id}", h.CatalogHandler.GetProduct)
				r.Put("/{id}", h.CatalogHandler.UpdateProduct)
				r.Delete("/{id}", h.CatalogHandler.DeleteProduct)
				r.Get("/{id}/reviews", h.CatalogHandler.ProductReviews)
			})
			r.Get("/reviews", h.CatalogHandler.LatestReviews)

			r.Route("/orders", func(r chi.Router) {
				r.Post("/", h.OrderHandler.CreateOrder)
				r.Get("/", h.OrderHandler.GetOrders)
				r.Route("/{id}", func(r chi.Router) {
					r.Get("/", h.OrderHandler.GetOrder)
					r.Post("/evidence", h.OrderHandler.SubmitEvidence)
					r.Post("/decision", h.OrderHandler.Decide)
					r.Post("/stage", h.OrderHandler.Advance)
					r.Get("/payouts", h.OrderHandler.GetPayouts)

					r.Get("/workers", h.OrderHandler.ListWorkers)
					r.Post("/workers", h.OrderHandler.Claim)
					r.Delete("/workers", h.OrderHandler.Release)

					r.Get("/reviews", h.OrderHandler.GetReviews)
					r.Post("/reviews", h.OrderHandler.RecordReview)
					r.Get("/reviews/next", h.OrderHandler.NextReview)
				})
			})

			r.Get("/admin/stats", h.AdminHandler.GetStats)
			r.Get("/admin/orders", h.AdminHandler.ListOrders)
		})
	})

	return r
}
