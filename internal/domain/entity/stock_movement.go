package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de movimiento del ledger de inventario.
const (
	MovementTypePurchaseReceipt = "PURCHASE_RECEIPT" // recepción de orden de compra
	MovementTypeSalesShipment   = "SALES_SHIPMENT"   // despacho de orden de venta
	MovementTypeAdjustment      = "ADJUSTMENT"       // ajuste manual (con signo)
	MovementTypeTransferIn      = "TRANSFER_IN"      // entrada por traslado
	MovementTypeTransferOut     = "TRANSFER_OUT"     // salida por traslado
	MovementTypeReturn          = "RETURN"           // devolución de cliente
)

// ValidMovementType indica si el tipo pertenece al catálogo del ledger.
func ValidMovementType(t string) bool {
	switch t {
	case MovementTypePurchaseReceipt, MovementTypeSalesShipment,
		MovementTypeAdjustment, MovementTypeTransferIn,
		MovementTypeTransferOut, MovementTypeReturn:
		return true
	}
	return false
}

// StockMovement es un hecho inmutable del ledger: una vez insertado nunca se
// actualiza ni se borra; las correcciones son movimientos compensatorios nuevos.
// Quantity es positiva y el signo lo determina el tipo (ver inventory.SignedDelta),
// salvo en ADJUSTMENT donde la cantidad lleva su propio signo (≠ 0).
type StockMovement struct {
	ID            string
	TransactionID string // agrupa movimientos de una misma operación (ej. las dos patas de un traslado)
	ProductID     string
	WarehouseID   string
	Type          string
	Quantity      decimal.Decimal
	OrderLineID   string // línea de orden que originó el movimiento; vacío en ajustes manuales
	Reference     string // nota de ajuste, número de documento, etc.
	CreatedAt     time.Time
	CreatedBy     string // UserID para atribución de auditoría
}
