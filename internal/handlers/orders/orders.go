package orders

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/GlebRadaev/fulfillment/internal/domain"
	"github.com/GlebRadaev/fulfillment/internal/dto"
	"github.com/GlebRadaev/fulfillment/internal/handlers/common"
	"github.com/GlebRadaev/fulfillment/pkg/utils"
)

type OrderService interface {
	CreateOrder(ctx context.Context, buyerID, productID int) (*domain.Order, error)
	GetOrder(ctx context.Context, orderID int, actor domain.Actor) (*domain.Order, error)
	GetOrders(ctx context.Context, buyerID int) ([]domain.Order, error)
	SubmitEvidence(ctx context.Context, orderID, buyerID int, evidenceRef string) (*domain.Order, error)
	AdminDecide(ctx context.Context, orderID int, actor domain.Actor, approve bool) (*domain.Order, error)
	Advance(ctx context.Context, orderID int, actor domain.Actor, stage domain.OrderStatus) (*domain.Order, error)
}

type SlotService interface {
	Claim(ctx context.Context, orderID int, worker domain.Actor) (*domain.Assignment, error)
	Release(ctx context.Context, orderID int, worker domain.Actor) error
	ListWorkers(ctx context.Context, orderID int) ([]domain.Assignment, error)
}

type PayoutService interface {
	GetPayouts(ctx context.Context, orderID int, actor domain.Actor) ([]domain.Payout, error)
}

type ReviewService interface {
	Next(ctx context.Context, orderID int, buyer domain.Actor) (*domain.Assignment, error)
	RecordReview(ctx context.Context, orderID, buyerID, workerID, rating int, text string) (*domain.Review, error)
	GetReviews(ctx context.Context, orderID int) ([]domain.Review, error)
}

type OrderHandler struct {
	orderService  OrderService
	slotService   SlotService
	payoutService PayoutService
	reviewService ReviewService
}

func New(orderService OrderService, slotService SlotService, payoutService PayoutService, reviewService ReviewService) *OrderHandler {
	return &OrderHandler{
		orderService:  orderService,
		slotService:   slotService,
		payoutService: payoutService,
		reviewService: reviewService,
	}
}

// CreateOrder godoc
//
//	@Summary		Buy a product
//	@Description	Creates an order awaiting payment evidence. The price is fixed at this moment.
//	@Tags			Orders
//	@Accept			json
//	@Produce		json
//	@Param			request	body	dto.CreateOrderRequestDTO	true	"Product to buy"
//	@Security		BearerAuth
//	@Success		201	{object}	dto.OrderResponseDTO
//	@Failure		400	{object}	utils.Response	"Invalid request body"
//	@Failure		401	{object}	utils.Response	"User not authorized"
//	@Failure		404	{object}	utils.Response	"Product not found"
//	@Failure		500	{object}	utils.Response	"Internal server error"
//	@Router			/api/orders [post]
func (h *OrderHandler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateOrderRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ProductID <= 0 {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	order, err := h.orderService.CreateOrder(r.Context(), common.Actor(r).UserID, req.ProductID)
	if err != nil {
		common.RespondWithServiceError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, common.OrderResponse(order))
}

// GetOrders godoc
//
//	@Summary		Get orders list for user
//	@Description	Latest orders of the authorized buyer, newest first
//	@Tags			Orders
//	@Produce		json
//	@Security		BearerAuth
//	@Success		200	{array}		dto.OrderResponseDTO
//	@Failure		204	{object}	utils.Response	"No data available"
//	@Failure		401	{object}	utils.Response	"User not authorized"
//	@Failure		500	{object}	utils.Response	"Internal server error"
//	@Router			/api/orders [get]
func (h *OrderHandler) GetOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.orderService.GetOrders(r.Context(), common.Actor(r).UserID)
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

// GetOrder godoc
//
//	@Summary		Get order
//	@Tags			Orders
//	@Produce		json
//	@Param			id	path	int	true	"Order id"
//	@Security		BearerAuth
//	@Success		200	{object}	dto.OrderResponseDTO
//	@Failure		400	{object}	utils.Response	"Invalid order id"
//	@Failure		403	{object}	utils.Response	"Not allowed"
//	@Failure		404	{object}	utils.Response	"Order not found"
//	@Router			/api/orders/{id} [get]
func (h *OrderHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	orderID, ok := parseOrderID(w, r)
	if !ok {
		return
	}
	order, err := h.orderService.GetOrder(r.Context(), orderID, common.Actor(r))
	if err != nil {
		common.RespondWithServiceError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, common.OrderResponse(order))
}

// SubmitEvidence godoc
//
//	@Summary		Attach payment evidence
//	@Description	The buyer attaches a receipt. Submitting again while verification is pending replaces it.
//	@Tags			Orders
//	@Accept			json
//	@Produce		json
//	@Param			id		path	int						true	"Order id"
//	@Param			request	body	dto.EvidenceRequestDTO	true	"Evidence reference"
//	@Security		BearerAuth
//	@Success		200	{object}	dto.OrderResponseDTO
//	@Failure		400	{object}	utils.Response	"Invalid request body"
//	@Failure		403	{object}	utils.Response	"Not the buyer"
//	@Failure		404	{object}	utils.Response	"Order not found"
//	@Failure		409	{object}	utils.Response	"Order status does not allow it"
//	@Router			/api/orders/{id}/evidence [post]
func (h *OrderHandler) SubmitEvidence(w http.ResponseWriter, r *http.Request) {
	orderID, ok := parseOrderID(w, r)
	if !ok {
		return
	}
	var req dto.EvidenceRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Ref == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	order, err := h.orderService.SubmitEvidence(r.Context(), orderID, common.Actor(r).UserID, req.Ref)
	if err != nil {
		common.RespondWithServiceError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, common.OrderResponse(order))
}

// Decide godoc
//
//	@Summary		Approve or reject payment
//	@Description	Admin only. Approving an order whose payment is already confirmed changes nothing.
//	@Tags			Orders
//	@Accept			json
//	@Produce		json
//	@Param			id		path	int						true	"Order id"
//	@Param			request	body	dto.DecisionRequestDTO	true	"Decision"
//	@Security		BearerAuth
//	@Success		200	{object}	dto.OrderResponseDTO
//	@Failure		400	{object}	utils.Response	"Invalid request body"
//	@Failure		403	{object}	utils.Response	"Not an admin"
//	@Failure		404	{object}	utils.Response	"Order not found"
//	@Failure		409	{object}	utils.Response	"Order status does not allow it"
//	@Router			/api/orders/{id}/decision [post]
func (h *OrderHandler) Decide(w http.ResponseWriter, r *http.Request) {
	orderID, ok := parseOrderID(w, r)
	if !ok {
		return
	}
	var req dto.DecisionRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	order, err := h.orderService.AdminDecide(r.Context(), orderID, common.Actor(r), req.Approve)
	if err != nil {
		common.RespondWithServiceError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, common.OrderResponse(order))
}

// Claim godoc
//
//	@Summary		Join an order as a worker
//	@Tags			Workers
//	@Produce		json
//	@Param			id	path	int	true	"Order id"
//	@Security		BearerAuth
//	@Success		201	{object}	dto.WorkerResponseDTO
//	@Failure		403	{object}	utils.Response	"Not a worker"
//	@Failure		404	{object}	utils.Response	"Order not found"
//	@Failure		409	{object}	utils.Response	"Already claimed or order status does not allow it"
//	@Failure		422	{object}	utils.Response	"No free worker slots"
//	@Router			/api/orders/{id}/workers [post]
func (h *OrderHandler) Claim(w http.ResponseWriter, r *http.Request) {
	orderID, ok := parseOrderID(w, r)
	if !ok {
		return
	}
	assignment, err := h.slotService.Claim(r.Context(), orderID, common.Actor(r))
	if err != nil {
		common.RespondWithServiceError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, toWorkerResponse(assignment))
}

// Release godoc
//
//	@Summary		Leave an order
//	@Tags			Workers
//	@Produce		json
//	@Param			id	path	int	true	"Order id"
//	@Security		BearerAuth
//	@Success		200	{object}	utils.Response
//	@Failure		404	{object}	utils.Response	"Order not found"
//	@Failure		409	{object}	utils.Response	"Not assigned or order status does not allow it"
//	@Router			/api/orders/{id}/workers [delete]
func (h *OrderHandler) Release(w http.ResponseWriter, r *http.Request) {
	orderID, ok := parseOrderID(w, r)
	if !ok {
		return
	}
	if err := h.slotService.Release(r.Context(), orderID, common.Actor(r)); err != nil {
		common.RespondWithServiceError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.Response{Message: "Worker released"})
}

// ListWorkers godoc
//
//	@Summary		Workers assigned to an order
//	@Tags			Workers
//	@Produce		json
//	@Param			id	path	int	true	"Order id"
//	@Security		BearerAuth
//	@Success		200	{array}		dto.WorkerResponseDTO
//	@Failure		404	{object}	utils.Response	"Order not found"
//	@Router			/api/orders/{id}/workers [get]
func (h *OrderHandler) ListWorkers(w http.ResponseWriter, r *http.Request) {
	orderID, ok := parseOrderID(w, r)
	if !ok {
		return
	}
	assignments, err := h.slotService.ListWorkers(r.Context(), orderID)
	if err != nil {
		common.RespondWithServiceError(w, err)
		return
	}
	response := make([]dto.WorkerResponseDTO, 0, len(assignments))
	for i := range assignments {
		response = append(response, toWorkerResponse(&assignments[i]))
	}
	utils.RespondWithJSON(w, http.StatusOK, response)
}

// Advance godoc
//
//	@Summary		Move the order to a work stage
//	@Description	Admin or assigned worker. Completing the order settles payouts and starts collecting reviews.
//	@Tags			Orders
//	@Accept			json
//	@Produce		json
//	@Param			id		path	int						true	"Order id"
//	@Param			request	body	dto.StageRequestDTO		true	"Target stage"
//	@Security		BearerAuth
//	@Success		200	{object}	dto.OrderResponseDTO
//	@Failure		400	{object}	utils.Response	"Unknown stage"
//	@Failure		403	{object}	utils.Response	"Not an admin or assigned worker"
//	@Failure		404	{object}	utils.Response	"Order not found"
//	@Failure		409	{object}	utils.Response	"Order status does not allow it"
//	@Router			/api/orders/{id}/stage [post]
func (h *OrderHandler) Advance(w http.ResponseWriter, r *http.Request) {
	orderID, ok := parseOrderID(w, r)
	if !ok {
		return
	}
	var req dto.StageRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	order, err := h.orderService.Advance(r.Context(), orderID, common.Actor(r), domain.OrderStatus(req.Stage))
	if err != nil {
		common.RespondWithServiceError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, common.OrderResponse(order))
}

// GetPayouts godoc
//
//	@Summary		Payouts of a completed order
//	@Description	Admins see every payout, workers only their own
//	@Tags			Workers
//	@Produce		json
//	@Param			id	path	int	true	"Order id"
//	@Security		BearerAuth
//	@Success		200	{array}		dto.PayoutResponseDTO
//	@Failure		204	{object}	utils.Response	"No data available"
//	@Failure		403	{object}	utils.Response	"Not allowed"
//	@Router			/api/orders/{id}/payouts [get]
func (h *OrderHandler) GetPayouts(w http.ResponseWriter, r *http.Request) {
	orderID, ok := parseOrderID(w, r)
	if !ok {
		return
	}
	payouts, err := h.payoutService.GetPayouts(r.Context(), orderID, common.Actor(r))
	if err != nil {
		common.RespondWithServiceError(w, err)
		return
	}
	if len(payouts) == 0 {
		utils.RespondWithError(w, http.StatusNoContent, "No data available")
		return
	}
	response := make([]dto.PayoutResponseDTO, 0, len(payouts))
	for _, p := range payouts {
		response = append(response, dto.PayoutResponseDTO{WorkerID: p.WorkerID, Amount: p.Amount})
	}
	utils.RespondWithJSON(w, http.StatusOK, response)
}

// GetReviews godoc
//
//	@Summary		Reviews of an order
//	@Tags			Reviews
//	@Produce		json
//	@Param			id	path	int	true	"Order id"
//	@Security		BearerAuth
//	@Success		200	{array}		dto.ReviewResponseDTO
//	@Failure		404	{object}	utils.Response	"Order not found"
//	@Router			/api/orders/{id}/reviews [get]
func (h *OrderHandler) GetReviews(w http.ResponseWriter, r *http.Request) {
	orderID, ok := parseOrderID(w, r)
	if !ok {
		return
	}
	reviews, err := h.reviewService.GetReviews(r.Context(), orderID)
	if err != nil {
		common.RespondWithServiceError(w, err)
		return
	}
	response := make([]dto.ReviewResponseDTO, 0, len(reviews))
	for i := range reviews {
		response = append(response, common.ReviewResponse(&reviews[i]))
	}
	utils.RespondWithJSON(w, http.StatusOK, response)
}

// NextReview godoc
//
//	@Summary		Next worker to rate
//	@Tags			Reviews
//	@Produce		json
//	@Param			id	path	int	true	"Order id"
//	@Security		BearerAuth
//	@Success		200	{object}	dto.WorkerResponseDTO
//	@Success		204	{object}	utils.Response	"Every worker is rated"
//	@Failure		403	{object}	utils.Response	"Not the buyer"
//	@Failure		404	{object}	utils.Response	"Order not found"
//	@Router			/api/orders/{id}/reviews/next [get]
func (h *OrderHandler) NextReview(w http.ResponseWriter, r *http.Request) {
	orderID, ok := parseOrderID(w, r)
	if !ok {
		return
	}
	next, err := h.reviewService.Next(r.Context(), orderID, common.Actor(r))
	if err != nil {
		common.RespondWithServiceError(w, err)
		return
	}
	if next == nil {
		utils.RespondWithError(w, http.StatusNoContent, "No data available")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, toWorkerResponse(next))
}

// RecordReview godoc
//
//	@Summary		Rate a worker
//	@Description	The buyer rates each assigned worker of a completed order once, from 1 to 5
//	@Tags			Reviews
//	@Accept			json
//	@Produce		json
//	@Param			id		path	int						true	"Order id"
//	@Param			request	body	dto.ReviewRequestDTO	true	"Review"
//	@Security		BearerAuth
//	@Success		201	{object}	dto.ReviewResponseDTO
//	@Failure		400	{object}	utils.Response	"Rating out of range"
//	@Failure		403	{object}	utils.Response	"Not the buyer"
//	@Failure		409	{object}	utils.Response	"Already reviewed, worker not assigned or order not done"
//	@Router			/api/orders/{id}/reviews [post]
func (h *OrderHandler) RecordReview(w http.ResponseWriter, r *http.Request) {
	orderID, ok := parseOrderID(w, r)
	if !ok {
		return
	}
	var req dto.ReviewRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	review, err := h.reviewService.RecordReview(r.Context(), orderID, common.Actor(r).UserID, req.WorkerID, req.Rating, req.Text)
	if err != nil {
		common.RespondWithServiceError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, common.ReviewResponse(review))
}

func parseOrderID(w http.ResponseWriter, r *http.Request) (int, bool) {
	id, err := common.IDParam(r, "id")
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid order id")
		return 0, false
	}
	return id, true
}

func toWorkerResponse(a *domain.Assignment) dto.WorkerResponseDTO {
	return dto.WorkerResponseDTO{
		WorkerID: a.WorkerID,
		JoinedAt: common.FormatTime(&a.JoinedAt),
	}
}
