package inventory

import (
	"context"

	"github.com/jhoicas/inventory-core/internal/domain"
	domaininv "github.com/jhoicas/inventory-core/internal/domain/inventory"
	"github.com/jhoicas/inventory-core/internal/domain/repository"
	"github.com/jhoicas/inventory-core/pkg/logger"
)

// ReconcileUseCase compara la proyección viva contra el replay completo del
// ledger para una llave. Un descuadre se reporta como *domain.DriftError con
// ambos valores; jamás se auto-corrige, porque una corrección silenciosa
// enmascararía el bug que produjo el drift.
type ReconcileUseCase struct {
	ledgerRepo repository.LedgerRepository
	recordRepo repository.InventoryRecordRepository
	log        *logger.Logger
}

// NewReconcileUseCase construye el verificador de consistencia.
func NewReconcileUseCase(ledgerRepo repository.LedgerRepository, recordRepo repository.InventoryRecordRepository, log *logger.Logger) *ReconcileUseCase {
	return &ReconcileUseCase{ledgerRepo: ledgerRepo, recordRepo: recordRepo, log: log}
}

// Reconcile hace replay de todos los movimientos de la llave, recalcula la
// cantidad esperada y la compara con la proyección. Devuelve nil si cuadran.
func (uc *ReconcileUseCase) Reconcile(ctx context.Context, productID, warehouseID string) error {
	if productID == "" || warehouseID == "" {
		return domain.ErrInvalidInput
	}
	movements, err := uc.ledgerRepo.Replay(productID, warehouseID)
	if err != nil {
		return err
	}
	expected := domaininv.ReplaySum(movements)

	record, err := uc.recordRepo.Get(productID, warehouseID)
	if err != nil {
		return err
	}
	if record.Quantity.Equal(expected) {
		return nil
	}
	drift := &domain.DriftError{
		ProductID:   productID,
		WarehouseID: warehouseID,
		Expected:    expected,
		Actual:      record.Quantity,
	}
	uc.log.Error().
		Str("product_id", productID).
		Str("warehouse_id", warehouseID).
		Str("ledger", expected.String()).
		Str("proyeccion", record.Quantity.String()).
		Int("movimientos", len(movements)).
		Msg("drift detectado en reconciliación")
	return drift
}
