package inventory

import (
	"context"

	"github.com/jhoicas/inventory-core/internal/domain/entity"
	"github.com/jhoicas/inventory-core/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando
// repositorios atados a esa tx. Garantiza atomicidad para el motor de
// inventario: append al ledger + proyección + reservas confirman o
// retroceden como una sola unidad.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		ledgerRepo repository.LedgerRepository,
		recordRepo repository.InventoryRecordRepository,
	) error) error
}

// MovementPublisher publica movimientos confirmados hacia el broker de
// eventos. Se invoca después del commit; un fallo de publicación se loguea
// y no revierte la transacción.
type MovementPublisher interface {
	PublishMovements(ctx context.Context, movements []*entity.StockMovement) error
}

// AvailabilityCache cachea lecturas de disponibilidad por llave
// (producto, bodega). Un fallo del cache degrada a lectura directa de BD.
type AvailabilityCache interface {
	Get(ctx context.Context, productID, warehouseID string) (*entity.InventoryRecord, error)
	Set(ctx context.Context, record *entity.InventoryRecord) error
	Invalidate(ctx context.Context, productID, warehouseID string) error
}
