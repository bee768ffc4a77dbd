package inventory

import (
	"github.com/shopspring/decimal"
	"github.com/jhoicas/inventory-core/internal/domain"
	"github.com/jhoicas/inventory-core/internal/domain/entity"
	domaininv "github.com/jhoicas/inventory-core/internal/domain/inventory"
	"github.com/jhoicas/inventory-core/internal/domain/repository"
)

// ValidateQuantity aplica la regla de cantidades del ledger: positiva para
// todos los tipos salvo ADJUSTMENT, que lleva su propio signo (≠ 0).
func ValidateQuantity(movType string, qty decimal.Decimal) error {
	if !entity.ValidMovementType(movType) {
		return domain.ErrInvalidInput
	}
	if movType == entity.MovementTypeAdjustment {
		if qty.IsZero() {
			return domain.ErrInvalidInput
		}
		return nil
	}
	if !qty.GreaterThan(decimal.Zero) {
		return domain.ErrInvalidInput
	}
	return nil
}

// AppendAndApply es el corazón del motor: dentro de una transacción ya
// abierta, inserta el movimiento en el ledger y aplica su delta con signo a
// la proyección. El caller debe haber tomado el bloqueo de fila de la llave
// (GetForUpdate) antes de llamar.
//
// La aplicación es idempotente: si el movimiento ya fue aplicado
// (MarkApplied devuelve false) la proyección no se toca, lo que permite
// reintentos seguros durante recuperación.
func AppendAndApply(
	ledgerRepo repository.LedgerRepository,
	recordRepo repository.InventoryRecordRepository,
	record *entity.InventoryRecord,
	mov *entity.StockMovement,
) error {
	if err := ValidateQuantity(mov.Type, mov.Quantity); err != nil {
		return err
	}
	if err := ledgerRepo.Append(mov); err != nil {
		return err
	}
	applied, err := recordRepo.MarkApplied(mov.ID)
	if err != nil {
		return err
	}
	if !applied {
		// Ya aplicado en un intento anterior: no-op.
		return nil
	}
	newQty := record.Quantity.Add(domaininv.SignedDelta(mov))
	if newQty.LessThan(decimal.Zero) {
		return domain.ErrInsufficientStock
	}
	if record.Reserved.GreaterThan(newQty) {
		// Nunca debe pasar: el caller libera la reserva antes de descontar.
		return domain.ErrInvariantViolation
	}
	record.Quantity = newQty
	record.UpdatedAt = mov.CreatedAt
	return recordRepo.Upsert(record)
}
