package repository

import "github.com/jhoicas/inventory-core/internal/domain/entity"

// InventoryRecordRepository define el puerto para la proyección de inventario
// por (producto, bodega). Usado dentro de transacciones para garantizar
// consistencia; Get fuera de transacción solo para lecturas.
type InventoryRecordRepository interface {
	Get(productID, warehouseID string) (*entity.InventoryRecord, error)
	// GetForUpdate bloquea la fila (SELECT FOR UPDATE); es la unidad de
	// exclusión mutua: operaciones concurrentes sobre la misma llave se
	// serializan aquí.
	GetForUpdate(productID, warehouseID string) (*entity.InventoryRecord, error)
	Upsert(record *entity.InventoryRecord) error
	// MarkApplied registra que un movimiento ya fue aplicado a la proyección.
	// Devuelve false si ya estaba aplicado (la re-aplicación debe ser no-op).
	MarkApplied(movementID string) (bool, error)
}
