package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// InventoryRecord es la proyección materializada del stock de un producto en
// una bodega, derivada de aplicar movimientos del ledger. Nunca se escribe
// directamente: solo cambia al aplicar un movimiento o ajustar reservas.
//
// Invariantes después de cada transacción confirmada:
//   - Quantity >= 0
//   - Reserved >= 0
//   - Reserved <= Quantity
type InventoryRecord struct {
	ProductID   string
	WarehouseID string
	Quantity    decimal.Decimal
	Reserved    decimal.Decimal
	UpdatedAt   time.Time
}

// Available devuelve la cantidad disponible para nuevas reservas.
func (r *InventoryRecord) Available() decimal.Decimal {
	return r.Quantity.Sub(r.Reserved)
}
