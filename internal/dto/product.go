package dto

import "github.com/shopspring/decimal"

type ProductRequestDTO struct {
	Name        string          `json:"name" example:"Furniture assembly"`
	Description string          `json:"description" example:"Two workers, tools included"`
	Price       decimal.Decimal `json:"price" swaggertype:"string" example:"300.00"`
	Media       string          `json:"media,omitempty" example:"https://cdn.example.com/p/1.jpg"`
}

type ProductResponseDTO struct {
	ID          int             `json:"id" example:"1"`
	Name        string          `json:"name" example:"Furniture assembly"`
	Description string          `json:"description" example:"Two workers, tools included"`
	Price       decimal.Decimal `json:"price" swaggertype:"string" example:"300.00"`
	Media       string          `json:"media,omitempty"`
	Rating      *float64        `json:"rating,omitempty" example:"4.5"`
	DoneCount   int             `json:"done_count" example:"12"`
	UpdatedAt   string          `json:"updated_at" example:"2020-12-09T16:09:57+03:00"`
}
