package dto

import "github.com/shopspring/decimal"

type StatsResponseDTO struct {
	Users    int             `json:"users" example:"120"`
	Products int             `json:"products" example:"8"`
	Orders   int             `json:"orders" example:"75"`
	Paid     int             `json:"paid" example:"10"`
	Done     int             `json:"done" example:"40"`
	Revenue  decimal.Decimal `json:"revenue" swaggertype:"string" example:"15000.00"`
	AvgCheck decimal.Decimal `json:"avg_check" swaggertype:"string" example:"300.00"`
}
