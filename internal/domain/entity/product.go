package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un producto o SKU del inventario (multi-bodega).
// Una vez referenciado por un movimiento solo cambian los campos descriptivos;
// Price es informativo y no participa en invariantes de consistencia.
type Product struct {
	ID          string
	SKU         string // código único
	Name        string
	Description string
	Price       decimal.Decimal // precio de venta (informativo)
	UnitMeasure string
	Active      bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
