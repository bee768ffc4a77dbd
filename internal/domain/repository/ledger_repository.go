package repository

import (
	"time"

	"github.com/jhoicas/inventory-core/internal/domain/entity"
)

// LedgerRepository define el puerto de persistencia del ledger de movimientos.
// Es append-only: no existen Update ni Delete; las correcciones son
// movimientos compensatorios nuevos.
type LedgerRepository interface {
	Append(movement *entity.StockMovement) error
	GetByID(id string) (*entity.StockMovement, error)
	// Replay devuelve todos los movimientos de una llave (producto, bodega)
	// en orden de inserción, para la verificación de consistencia.
	Replay(productID, warehouseID string) ([]*entity.StockMovement, error)
	ListByWarehouse(warehouseID string, from, to *time.Time, limit, offset int) ([]*entity.StockMovement, error)
	ListByProduct(productID string, from, to *time.Time, limit, offset int) ([]*entity.StockMovement, error)
}
