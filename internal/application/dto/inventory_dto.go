package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// RegisterMovementRequest body para POST /api/inventory/movements.
// ADJUSTMENT/RETURN usan warehouse_id; TRANSFER usa from/to.
type RegisterMovementRequest struct {
	ProductID       string          `json:"product_id" validate:"required,uuid4"`
	WarehouseID     string          `json:"warehouse_id,omitempty" validate:"omitempty,uuid4"`
	FromWarehouseID string          `json:"from_warehouse_id,omitempty" validate:"omitempty,uuid4"`
	ToWarehouseID   string          `json:"to_warehouse_id,omitempty" validate:"omitempty,uuid4"`
	Type            string          `json:"type" validate:"required,oneof=ADJUSTMENT RETURN TRANSFER"`
	Quantity        decimal.Decimal `json:"quantity"`
	Reference       string          `json:"reference,omitempty" validate:"omitempty,max=200"`
}

// InventoryResponse respuesta de GET /api/inventory/:productID/:warehouseID.
type InventoryResponse struct {
	ProductID   string          `json:"product_id"`
	WarehouseID string          `json:"warehouse_id"`
	Quantity    decimal.Decimal `json:"quantity"`
	Reserved    decimal.Decimal `json:"reserved"`
	Available   decimal.Decimal `json:"available"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// MovementResponse un movimiento del ledger en listados.
type MovementResponse struct {
	ID            string          `json:"id"`
	TransactionID string          `json:"transaction_id"`
	ProductID     string          `json:"product_id"`
	WarehouseID   string          `json:"warehouse_id"`
	Type          string          `json:"type"`
	Quantity      decimal.Decimal `json:"quantity"`
	OrderLineID   string          `json:"order_line_id,omitempty"`
	Reference     string          `json:"reference,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
	CreatedBy     string          `json:"created_by,omitempty"`
}

// ListMovementsRequest filtros para GET /api/inventory/movements.
// Exactamente uno de product_id/warehouse_id es obligatorio.
type ListMovementsRequest struct {
	ProductID   string `query:"product_id" validate:"omitempty,uuid4"`
	WarehouseID string `query:"warehouse_id" validate:"omitempty,uuid4"`
	From        string `query:"from" validate:"omitempty,datetime=2006-01-02"`
	To          string `query:"to" validate:"omitempty,datetime=2006-01-02"`
	PageRequest
}

// ReconcileRequest body para POST /api/inventory/reconcile.
type ReconcileRequest struct {
	ProductID   string `json:"product_id" validate:"required,uuid4"`
	WarehouseID string `json:"warehouse_id" validate:"required,uuid4"`
}

// ReconcileResponse resultado de la reconciliación de una llave.
// Ok=true cuando proyección y ledger cuadran; si no, trae ambos valores.
type ReconcileResponse struct {
	ProductID   string           `json:"product_id"`
	WarehouseID string           `json:"warehouse_id"`
	Ok          bool             `json:"ok"`
	Ledger      *decimal.Decimal `json:"ledger,omitempty"`
	Projection  *decimal.Decimal `json:"projection,omitempty"`
}
