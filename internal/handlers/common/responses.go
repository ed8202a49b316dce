package common

import (
	"time"

	"github.com/GlebRadaev/fulfillment/internal/domain"
	"github.com/GlebRadaev/fulfillment/internal/dto"
)

func OrderResponse(o *domain.Order) dto.OrderResponseDTO {
	return dto.OrderResponseDTO{
		ID:          o.ID,
		BuyerID:     o.BuyerID,
		ProductID:   o.ProductID,
		Price:       o.Price,
		Status:      string(o.Status),
		PaymentRef:  o.PaymentRef,
		EvidenceRef: o.EvidenceRef,
		CreatedAt:   o.CreatedAt.Format(time.RFC3339),
		StartedAt:   FormatTime(o.StartedAt),
		CompletedAt: FormatTime(o.CompletedAt),
	}
}

func ReviewResponse(r *domain.Review) dto.ReviewResponseDTO {
	return dto.ReviewResponseDTO{
		OrderID:   r.OrderID,
		WorkerID:  r.WorkerID,
		Rating:    r.Rating,
		Text:      r.Text,
		CreatedAt: r.CreatedAt.Format(time.RFC3339),
	}
}
