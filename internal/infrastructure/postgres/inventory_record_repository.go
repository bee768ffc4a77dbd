package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/jhoicas/inventory-core/internal/domain/entity"
	"github.com/jhoicas/inventory-core/internal/domain/repository"
)

var _ repository.InventoryRecordRepository = (*InventoryRecordRepo)(nil)

// InventoryRecordRepo implementación de la proyección sobre PostgreSQL
// (usable con pool o tx).
type InventoryRecordRepo struct {
	q Querier
}

// NewInventoryRecordRepository construye el adaptador. Pasar pool o tx (Querier).
func NewInventoryRecordRepository(q Querier) *InventoryRecordRepo {
	return &InventoryRecordRepo{q: q}
}

// Get obtiene el registro de una llave; una llave sin movimientos devuelve
// el registro con baseline cero, no error.
func (r *InventoryRecordRepo) Get(productID, warehouseID string) (*entity.InventoryRecord, error) {
	return r.get(productID, warehouseID, false)
}

// GetForUpdate obtiene el registro y bloquea la fila (SELECT FOR UPDATE).
// Es la unidad de exclusión mutua por (producto, bodega).
//
// Primero asegura que la fila exista: sin fila, FOR UPDATE no bloquea nada y
// dos primeros movimientos concurrentes sobre la misma llave leerían ambos
// el baseline cero y uno pisaría al otro. El INSERT ... ON CONFLICT DO
// NOTHING materializa la fila cero y el SELECT posterior sí toma el lock.
func (r *InventoryRecordRepo) GetForUpdate(productID, warehouseID string) (*entity.InventoryRecord, error) {
	ensure := `
		INSERT INTO inventory_records (product_id, warehouse_id, quantity, reserved, updated_at)
		VALUES ($1, $2, 0, 0, now())
		ON CONFLICT (product_id, warehouse_id) DO NOTHING`
	if _, err := r.q.Exec(context.Background(), ensure, productID, warehouseID); err != nil {
		return nil, fmt.Errorf("ensure inventory record: %w", err)
	}
	return r.get(productID, warehouseID, true)
}

func (r *InventoryRecordRepo) get(productID, warehouseID string, forUpdate bool) (*entity.InventoryRecord, error) {
	query := `
		SELECT product_id, warehouse_id, quantity, reserved, updated_at
		FROM inventory_records WHERE product_id = $1 AND warehouse_id = $2`
	if forUpdate {
		query += " FOR UPDATE"
	}
	var rec entity.InventoryRecord
	err := r.q.QueryRow(context.Background(), query, productID, warehouseID).Scan(
		&rec.ProductID, &rec.WarehouseID, &rec.Quantity, &rec.Reserved, &rec.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return &entity.InventoryRecord{
				ProductID:   productID,
				WarehouseID: warehouseID,
				Quantity:    decimal.Zero,
				Reserved:    decimal.Zero,
			}, nil
		}
		return nil, fmt.Errorf("get inventory record: %w", err)
	}
	return &rec, nil
}

// Upsert inserta o actualiza cantidad y reservado de una llave.
func (r *InventoryRecordRepo) Upsert(record *entity.InventoryRecord) error {
	query := `
		INSERT INTO inventory_records (product_id, warehouse_id, quantity, reserved, updated_at)
		VALUES ($1, $2, $3, $4, now())
		ON CONFLICT (product_id, warehouse_id)
		DO UPDATE SET quantity = EXCLUDED.quantity, reserved = EXCLUDED.reserved, updated_at = now()`
	_, err := r.q.Exec(context.Background(), query,
		record.ProductID, record.WarehouseID, record.Quantity, record.Reserved)
	if err != nil {
		return fmt.Errorf("upsert inventory record: %w", err)
	}
	return nil
}

// MarkApplied registra la aplicación de un movimiento a la proyección.
// Devuelve false si ya estaba aplicado: la re-aplicación debe ser no-op
// (idempotencia para reintentos de recuperación).
func (r *InventoryRecordRepo) MarkApplied(movementID string) (bool, error) {
	query := `
		INSERT INTO applied_movements (movement_id, applied_at)
		VALUES ($1, now())
		ON CONFLICT (movement_id) DO NOTHING`
	tag, err := r.q.Exec(context.Background(), query, movementID)
	if err != nil {
		return false, fmt.Errorf("mark movement applied: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}
