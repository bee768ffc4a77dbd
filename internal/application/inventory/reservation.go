package inventory

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/jhoicas/inventory-core/internal/domain"
	"github.com/jhoicas/inventory-core/internal/domain/repository"
	"github.com/jhoicas/inventory-core/pkg/logger"
)

// ReservationUseCase administra las reservas (holds) de stock contra líneas
// de orden pendientes. Las reservas son avisos contables, no movimientos:
// nunca aparecen en el ledger.
type ReservationUseCase struct {
	txRunner TxRunner
	log      *logger.Logger
}

// NewReservationUseCase construye el caso de uso.
func NewReservationUseCase(txRunner TxRunner, log *logger.Logger) *ReservationUseCase {
	return &ReservationUseCase{txRunner: txRunner, log: log}
}

// Reserve aumenta la reserva de una llave si hay disponible suficiente.
// Sin reserva parcial: o se toma completa o falla con ErrInsufficientStock.
func (uc *ReservationUseCase) Reserve(ctx context.Context, productID, warehouseID string, qty decimal.Decimal) error {
	if productID == "" || warehouseID == "" || !qty.GreaterThan(decimal.Zero) {
		return domain.ErrInvalidInput
	}
	return uc.txRunner.Run(ctx, func(
		_ repository.LedgerRepository,
		recordRepo repository.InventoryRecordRepository,
	) error {
		return ReserveInTx(recordRepo, productID, warehouseID, qty)
	})
}

// Release disminuye la reserva de una llave.
func (uc *ReservationUseCase) Release(ctx context.Context, productID, warehouseID string, qty decimal.Decimal) error {
	if productID == "" || warehouseID == "" || !qty.GreaterThan(decimal.Zero) {
		return domain.ErrInvalidInput
	}
	err := uc.txRunner.Run(ctx, func(
		_ repository.LedgerRepository,
		recordRepo repository.InventoryRecordRepository,
	) error {
		return ReleaseInTx(recordRepo, productID, warehouseID, qty)
	})
	if err == domain.ErrInvariantViolation {
		// Señal de bug contable: se reporta con contexto completo, nunca se
		// corrige en silencio.
		uc.log.Error().
			Str("product_id", productID).
			Str("warehouse_id", warehouseID).
			Str("quantity", qty.String()).
			Msg("release excede la reserva vigente")
	}
	return err
}

// ReserveInTx toma una reserva usando el repositorio de la transacción del
// caller (bloquea la fila). Exportado para que el coordinador de órdenes
// reserve dentro de su propia transacción.
func ReserveInTx(recordRepo repository.InventoryRecordRepository, productID, warehouseID string, qty decimal.Decimal) error {
	record, err := recordRepo.GetForUpdate(productID, warehouseID)
	if err != nil {
		return err
	}
	if record.Available().LessThan(qty) {
		return domain.ErrInsufficientStock
	}
	record.Reserved = record.Reserved.Add(qty)
	record.UpdatedAt = time.Now()
	return recordRepo.Upsert(record)
}

// ReleaseInTx libera una reserva usando el repositorio de la transacción del
// caller. Si la liberación dejaría la reserva negativa devuelve
// ErrInvariantViolation: eso indica un bug de contabilidad, no un estado
// corregible.
func ReleaseInTx(recordRepo repository.InventoryRecordRepository, productID, warehouseID string, qty decimal.Decimal) error {
	record, err := recordRepo.GetForUpdate(productID, warehouseID)
	if err != nil {
		return err
	}
	if record.Reserved.LessThan(qty) {
		return domain.ErrInvariantViolation
	}
	record.Reserved = record.Reserved.Sub(qty)
	record.UpdatedAt = time.Now()
	return recordRepo.Upsert(record)
}
