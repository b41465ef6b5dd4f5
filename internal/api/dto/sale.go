package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

type CreateSaleRequest struct {
	ItemID        int64           `json:"item_id"`
	Customer      string          `json:"customer"`
	Quantity      int             `json:"quantity"`
	Price         decimal.Decimal `json:"price"`
	Date          string          `json:"date"`
	Status        string          `json:"status"`
	PaymentMethod string          `json:"payment_method"`
}

type UpdateSaleStatusRequest struct {
	Status string `json:"status"`
}

type SaleResponse struct {
	SaleID        int64           `json:"sale_id"`
	ItemID        int64           `json:"item_id"`
	Customer      string          `json:"customer"`
	Quantity      int             `json:"quantity"`
	Price         decimal.Decimal `json:"price"`
	Date          string          `json:"date"`
	Status        string          `json:"status"`
	PaymentMethod string          `json:"payment_method,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
}

type ListSalesResponse struct {
	Sales []SaleResponse `json:"sales"`
}

type SaleTotalsResponse struct {
	Start   string          `json:"start"`
	End     string          `json:"end"`
	Paid    decimal.Decimal `json:"paid"`
	Pending decimal.Decimal `json:"pending"`
}
