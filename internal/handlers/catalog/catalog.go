package catalog

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/GlebRadaev/fulfillment/internal/domain"
	"github.com/GlebRadaev/fulfillment/internal/dto"
	"github.com/GlebRadaev/fulfillment/internal/handlers/common"
	"github.com/GlebRadaev/fulfillment/pkg/utils"
)

type Service interface {
	CreateProduct(ctx context.Context, actor domain.Actor, p *domain.Product) (*domain.Product, error)
	UpdateProduct(ctx context.Context, actor domain.Actor, p *domain.Product) (*domain.Product, error)
	GetProduct(ctx context.Context, id int) (*domain.Product, error)
	ListProducts(ctx context.Context) ([]domain.ProductSummary, error)
	DeleteProduct(ctx context.Context, actor domain.Actor, id int) error
}

type Reviews interface {
	ProductReviews(ctx context.Context, productID int) ([]domain.Review, error)
	LatestReviews(ctx context.Context) ([]domain.Review, error)
}

type CatalogHandler struct {
	productService Service
	reviewService  Reviews
}

func New(productService Service, reviewService Reviews) *CatalogHandler {
	return &CatalogHandler{
		productService: productService,
		reviewService:  reviewService,
	}
}

// ListProducts godoc
//
//	@Summary		List products
//	@Description	Catalog with the average rating and the number of completed orders of every product
//	@Tags			Catalog
//	@Produce		json
//	@Security		BearerAuth
//	@Success		200	{array}		dto.ProductResponseDTO
//	@Failure		204	{object}	utils.Response	"No data available"
//	@Failure		401	{object}	utils.Response	"User not authorized"
//	@Failure		500	{object}	utils.Response	"Internal server error"
//	@Router			/api/products [get]
func (h *CatalogHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.productService.ListProducts(r.Context())
	if err != nil {
		common.RespondWithServiceError(w, err)
		return
	}
	if len(products) == 0 {
		utils.RespondWithError(w, http.StatusNoContent, "No data available")
		return
	}

	response := make([]dto.ProductResponseDTO, 0, len(products))
	for _, p := range products {
		item := toResponse(&p.Product)
		item.Rating = p.Rating
		item.DoneCount = p.DoneCount
		response = append(response, item)
	}
	utils.RespondWithJSON(w, http.StatusOK, response)
}

// GetProduct godoc
//
//	@Summary		Get product
//	@Tags			Catalog
//	@Produce		json
//	@Param			id	path	int	true	"Product id"
//	@Security		BearerAuth
//	@Success		200	{object}	dto.ProductResponseDTO
//	@Failure		400	{object}	utils.Response	"Invalid product id"
//	@Failure		404	{object}	utils.Response	"Product not found"
//	@Failure		500	{object}	utils.Response	"Internal server error"
//	@Router			/api/products/{id} [get]
func (h *CatalogHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	id, err := common.IDParam(r, "id")
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid product id")
		return
	}
	product, err := h.productService.GetProduct(r.Context(), id)
	if err != nil {
		common.RespondWithServiceError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, toResponse(product))
}

// CreateProduct godoc
//
//	@Summary		Create product
//	@Description	Admin only
//	@Tags			Catalog
//	@Accept			json
//	@Produce		json
//	@Param			request	body	dto.ProductRequestDTO	true	"Product"
//	@Security		BearerAuth
//	@Success		201	{object}	dto.ProductResponseDTO
//	@Failure		400	{object}	utils.Response	"Invalid request body"
//	@Failure		403	{object}	utils.Response	"Not an admin"
//	@Failure		500	{object}	utils.Response	"Internal server error"
//	@Router			/api/products [post]
func (h *CatalogHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var req dto.ProductRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	product, err := h.productService.CreateProduct(r.Context(), common.Actor(r), fromRequest(req))
	if err != nil {
		common.RespondWithServiceError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, toResponse(product))
}

// UpdateProduct godoc
//
//	@Summary		Update product
//	@Description	Admin only. Orders keep the price they were created with.
//	@Tags			Catalog
//	@Accept			json
//	@Produce		json
//	@Param			id		path	int						true	"Product id"
//	@Param			request	body	dto.ProductRequestDTO	true	"Product"
//	@Security		BearerAuth
//	@Success		200	{object}	dto.ProductResponseDTO
//	@Failure		400	{object}	utils.Response	"Invalid request body"
//	@Failure		403	{object}	utils.Response	"Not an admin"
//	@Failure		404	{object}	utils.Response	"Product not found"
//	@Failure		500	{object}	utils.Response	"Internal server error"
//	@Router			/api/products/{id} [put]
func (h *CatalogHandler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	id, err := common.IDParam(r, "id")
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid product id")
		return
	}
	var req dto.ProductRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	p := fromRequest(req)
	p.ID = id
	product, err := h.productService.UpdateProduct(r.Context(), common.Actor(r), p)
	if err != nil {
		common.RespondWithServiceError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, toResponse(product))
}

// DeleteProduct godoc
//
//	@Summary		Delete product
//	@Description	Admin only. A product that was ordered at least once cannot be deleted.
//	@Tags			Catalog
//	@Produce		json
//	@Param			id	path	int	true	"Product id"
//	@Security		BearerAuth
//	@Success		200	{object}	utils.Response	"Product deleted"
//	@Failure		400	{object}	utils.Response	"Invalid product id"
//	@Failure		403	{object}	utils.Response	"Not an admin"
//	@Failure		404	{object}	utils.Response	"Product not found"
//	@Failure		409	{object}	utils.Response	"Product has orders"
//	@Failure		500	{object}	utils.Response	"Internal server error"
//	@Router			/api/products/{id} [delete]
func (h *CatalogHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	id, err := common.IDParam(r, "id")
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid product id")
		return
	}
	if err := h.productService.DeleteProduct(r.Context(), common.Actor(r), id); err != nil {
		common.RespondWithServiceError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.Response{Message: "Product deleted"})
}

// ProductReviews godoc
//
//	@Summary		Product reviews
//	@Description	Latest 20 reviews left on orders of the product, newest first
//	@Tags			Catalog
//	@Produce		json
//	@Param			id	path	int	true	"Product id"
//	@Security		BearerAuth
//	@Success		200	{array}		dto.ReviewResponseDTO
//	@Failure		204	{object}	utils.Response	"No data available"
//	@Failure		400	{object}	utils.Response	"Invalid product id"
//	@Failure		500	{object}	utils.Response	"Internal server error"
//	@Router			/api/products/{id}/reviews [get]
func (h *CatalogHandler) ProductReviews(w http.ResponseWriter, r *http.Request) {
	id, err := common.IDParam(r, "id")
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid product id")
		return
	}
	reviews, err := h.reviewService.ProductReviews(r.Context(), id)
	if err != nil {
		common.RespondWithServiceError(w, err)
		return
	}
	respondWithReviews(w, reviews)
}

// LatestReviews godoc
//
//	@Summary		Latest reviews
//	@Description	Latest 30 reviews across the catalog, newest first
//	@Tags			Catalog
//	@Produce		json
//	@Security		BearerAuth
//	@Success		200	{array}		dto.ReviewResponseDTO
//	@Failure		204	{object}	utils.Response	"No data available"
//	@Failure		500	{object}	utils.Response	"Internal server error"
//	@Router			/api/reviews [get]
func (h *CatalogHandler) LatestReviews(w http.ResponseWriter, r *http.Request) {
	reviews, err := h.reviewService.LatestReviews(r.Context())
	if err != nil {
		common.RespondWithServiceError(w, err)
		return
	}
	respondWithReviews(w, reviews)
}

func respondWithReviews(w http.ResponseWriter, reviews []domain.Review) {
	if len(reviews) == 0 {
		utils.RespondWithError(w, http.StatusNoContent, "No data available")
		return
	}
	response := make([]dto.ReviewResponseDTO, 0, len(reviews))
	for i := range reviews {
		response = append(response, common.ReviewResponse(&reviews[i]))
	}
	utils.RespondWithJSON(w, http.StatusOK, response)
}

func fromRequest(req dto.ProductRequestDTO) *domain.Product {
	return &domain.Product{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Media:       req.Media,
	}
}

func toResponse(p *domain.Product) dto.ProductResponseDTO {
	return dto.ProductResponseDTO{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		Media:       p.Media,
		UpdatedAt:   p.UpdatedAt.Format(time.RFC3339),
	}
}
