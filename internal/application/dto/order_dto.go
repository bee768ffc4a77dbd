package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateOrderRequest body para POST /api/orders.
type CreateOrderRequest struct {
	Kind           string `json:"kind" validate:"required,oneof=PURCHASE SALES"`
	CounterpartyID string `json:"counterparty_id,omitempty" validate:"omitempty,max=100"`
}

// AddLineRequest body para POST /api/orders/:id/lines.
type AddLineRequest struct {
	ProductID   string          `json:"product_id" validate:"required,uuid4"`
	WarehouseID string          `json:"warehouse_id" validate:"required,uuid4"`
	Quantity    decimal.Decimal `json:"quantity"`
}

// FulfillLineRequest body para receive/ship de una línea.
type FulfillLineRequest struct {
	Quantity decimal.Decimal `json:"quantity"`
}

// OrderLineResponse una línea en respuestas de orden.
type OrderLineResponse struct {
	ID          string          `json:"id"`
	ProductID   string          `json:"product_id"`
	WarehouseID string          `json:"warehouse_id"`
	Ordered     decimal.Decimal `json:"ordered"`
	Fulfilled   decimal.Decimal `json:"fulfilled"`
	Remaining   decimal.Decimal `json:"remaining"`
}

// OrderResponse cabecera + líneas de una orden.
type OrderResponse struct {
	ID             string              `json:"id"`
	Kind           string              `json:"kind"`
	Status         string              `json:"status"`
	CounterpartyID string              `json:"counterparty_id,omitempty"`
	Lines          []OrderLineResponse `json:"lines"`
	CreatedAt      time.Time           `json:"created_at"`
	UpdatedAt      time.Time           `json:"updated_at"`
}
