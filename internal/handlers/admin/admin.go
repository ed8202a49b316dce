package admin

import (
	"context"
	"net/http"

	"github.com/GlebRadaev/fulfillment/internal/domain"
	"github.com/GlebRadaev/fulfillment/internal/dto"
	"github.com/GlebRadaev/fulfillment/internal/handlers/common"
	"github.com/GlebRadaev/fulfillment/pkg/utils"
)

type Service interface {
	GetStats(ctx context.Context, actor domain.Actor) (*domain.Stats, error)
}

type Orders interface {
	ListAll(ctx context.Context, actor domain.Actor) ([]domain.Order, error)
}

type AdminHandler struct {
	statsService Service
	orderService Orders
}

func New(statsService Service, orderService Orders) *AdminHandler {
	return &AdminHandler{
		statsService: statsService,
		orderService: orderService,
	}
}

// GetStats godoc
//
//	@Summary		Service statistics
//	@Description	Users, products, orders, paid and completed orders, revenue and average check. Admin only.
//	@Tags			Admin
//	@Produce		json
//	@Security		BearerAuth
//	@Success		200	{object}	dto.StatsResponseDTO
//	@Failure		401	{object}	utils.Response	"User not authorized"
//	@Failure		403	{object}	utils.Response	"Not an admin"
//	@Failure		500	{object}	utils.Response	"Internal server error"
//	@Router			/api/admin/stats [get]
func (h *AdminHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.statsService.GetStats(r.Context(), common.Actor(r))
	if err != nil {
		common.RespondWithServiceError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dto.StatsResponseDTO{
		Users:    stats.Users,
		Products: stats.Products,
		Orders:   stats.Orders,
		Paid:     stats.Paid,
		Done:     stats.Done,
		Revenue:  stats.Revenue,
		AvgCheck: stats.AvgCheck,
	})
}

// ListOrders godoc
//
//	@Summary		All orders
//	@Description	Latest 100 orders of every buyer, newest first. Admin only.
//	@Tags			Admin
//	@Produce		json
//	@Security		BearerAuth
//	@Success		200	{array}		dto.OrderResponseDTO
//	@Failure		204	{object}	utils.Response	"No data available"
//	@Failure		401	{object}	utils.Response	"User not authorized"
//	@Failure		403	{object}	utils.Response	"Not an admin"
//	@Failure		500	{object}	utils.Response	"Internal server error"
//	@Router			/api/admin/orders [get]
func (h *AdminHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.orderService.ListAll(r.Context(), common.Actor(r))
	if err != nil {
		common.RespondWithServiceError(w, err)
		return
	}
	if len(orders) == 0 {
		utils.RespondWithError(w, http.StatusNoContent, "No data available")
		return
	}
	response := make([]dto.OrderResponseDTO, 0, len(orders))
	for i := range orders {
		response = append(response, common.OrderResponse(&orders[i]))
	}
	utils.RespondWithJSON(w, http.StatusOK, response)
}
