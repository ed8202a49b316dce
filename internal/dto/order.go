package dto

import "github.com/shopspring/decimal"

type CreateOrderRequestDTO struct {
	ProductID int `json:"product_id" example:"1"`
}

type OrderResponseDTO struct {
	ID          int             `json:"id" example:"10"`
	BuyerID     int             `json:"buyer_id" example:"2"`
	ProductID   int             `json:"product_id" example:"1"`
	Price       decimal.Decimal `json:"price" swaggertype:"string" example:"300.00"`
	Status      string          `json:"status" example:"paid"`
	PaymentRef  string          `json:"payment_ref" example:"7f9c24e5-1f4a-4a53-9d39-1c0a5b4b3c1e"`
	EvidenceRef string          `json:"evidence_ref,omitempty" example:"receipt-123"`
	CreatedAt   string          `json:"created_at" example:"2020-12-09T16:09:57+03:00"`
	StartedAt   string          `json:"started_at,omitempty"`
	CompletedAt string          `json:"completed_at,omitempty"`
}

type EvidenceRequestDTO struct {
	Ref string `json:"ref" example:"receipt-123"`
}

type DecisionRequestDTO struct {
	Approve bool `json:"approve" example:"true"`
}

type StageRequestDTO struct {
	Stage string `json:"stage" example:"in_progress" enums:"in_progress,delivering,done"`
}

type WorkerResponseDTO struct {
	WorkerID int    `json:"worker_id" example:"4"`
	JoinedAt string `json:"joined_at" example:"2020-12-09T16:09:57+03:00"`
}

type PayoutResponseDTO struct {
	WorkerID int             `json:"worker_id" example:"4"`
	Amount   decimal.Decimal `json:"amount" swaggertype:"string" example:"105.00"`
}

type ReviewRequestDTO struct {
	WorkerID int    `json:"worker_id" example:"4"`
	Rating   int    `json:"rating" example:"5"`
	Text     string `json:"text,omitempty" example:"Fast and careful"`
}

type ReviewResponseDTO struct {
	OrderID   int    `json:"order_id" example:"12"`
	WorkerID  int    `json:"worker_id" example:"4"`
	Rating    int    `json:"rating" example:"5"`
	Text      string `json:"text,omitempty"`
	CreatedAt string `json:"created_at" example:"2020-12-09T16:09:57+03:00"`
}
