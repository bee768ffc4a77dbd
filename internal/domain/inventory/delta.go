package inventory

import (
	"github.com/shopspring/decimal"
	"github.com/jhoicas/inventory-core/internal/domain/entity"
)

// SignedDelta implementa la aritmética con signo del ledger (servicio de dominio).
// Recepciones, devoluciones y entradas por traslado suman; despachos y salidas
// por traslado restan. Los ajustes llevan el signo en la propia cantidad.
func SignedDelta(m *entity.StockMovement) decimal.Decimal {
	switch m.Type {
	case entity.MovementTypePurchaseReceipt, entity.MovementTypeReturn, entity.MovementTypeTransferIn:
		return m.Quantity
	case entity.MovementTypeSalesShipment, entity.MovementTypeTransferOut:
		return m.Quantity.Neg()
	case entity.MovementTypeAdjustment:
		return m.Quantity
	}
	return decimal.Zero
}

// ReplaySum recalcula la cantidad esperada de una llave (producto, bodega)
// sumando los deltas con signo de sus movimientos en orden de inserción.
// Es la base de la verificación de consistencia: la proyección viva debe
// coincidir con este valor después de cada transacción confirmada.
func ReplaySum(movements []*entity.StockMovement) decimal.Decimal {
	total := decimal.Zero
	for _, m := range movements {
		total = total.Add(SignedDelta(m))
	}
	return total
}
