package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/inventory-core/internal/domain"
	"github.com/jhoicas/inventory-core/internal/domain/entity"
	"github.com/jhoicas/inventory-core/internal/domain/repository"
)

var _ repository.LedgerRepository = (*LedgerRepo)(nil)

// LedgerRepo implementación del ledger sobre PostgreSQL (usable con pool o tx).
// La tabla stock_movements es append-only: no hay UPDATE ni DELETE aquí ni en
// el esquema (solo INSERT y SELECT).
type LedgerRepo struct {
	q Querier
}

// NewLedgerRepository construye el adaptador. Pasar pool o tx (Querier).
func NewLedgerRepository(q Querier) *LedgerRepo {
	return &LedgerRepo{q: q}
}

const movementColumns = `id, transaction_id, product_id, warehouse_id, type, quantity, order_line_id, reference, created_at, created_by`

// Append persiste un movimiento. Un ID repetido es ErrDuplicate: los hechos
// del ledger nunca se reescriben.
func (r *LedgerRepo) Append(movement *entity.StockMovement) error {
	if movement.ID == "" {
		movement.ID = uuid.New().String()
	}
	query := `
		INSERT INTO stock_movements (` + movementColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	orderLineID := (*string)(nil)
	if movement.OrderLineID != "" {
		orderLineID = &movement.OrderLineID
	}
	createdBy := (*string)(nil)
	if movement.CreatedBy != "" {
		createdBy = &movement.CreatedBy
	}
	_, err := r.q.Exec(context.Background(), query,
		movement.ID, movement.TransactionID, movement.ProductID, movement.WarehouseID,
		movement.Type, movement.Quantity, orderLineID, movement.Reference,
		movement.CreatedAt, createdBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("append stock movement: %w", err)
	}
	return nil
}

// GetByID obtiene un movimiento por ID; nil si no existe.
func (r *LedgerRepo) GetByID(id string) (*entity.StockMovement, error) {
	query := `SELECT ` + movementColumns + ` FROM stock_movements WHERE id = $1`
	m, err := scanMovement(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get movement: %w", err)
	}
	return m, nil
}

// Replay devuelve todos los movimientos de una llave en orden de inserción,
// para reconciliación y recuperación.
func (r *LedgerRepo) Replay(productID, warehouseID string) ([]*entity.StockMovement, error) {
	query := `
		SELECT ` + movementColumns + `
		FROM stock_movements
		WHERE product_id = $1 AND warehouse_id = $2
		ORDER BY created_at, id`
	rows, err := r.q.Query(context.Background(), query, productID, warehouseID)
	if err != nil {
		return nil, fmt.Errorf("replay movements: %w", err)
	}
	return collectMovements(rows)
}

// ListByWarehouse lista movimientos de una bodega en un rango de fechas.
func (r *LedgerRepo) ListByWarehouse(warehouseID string, from, to *time.Time, limit, offset int) ([]*entity.StockMovement, error) {
	return r.list("warehouse_id", warehouseID, from, to, limit, offset)
}

// ListByProduct lista movimientos de un producto en un rango de fechas.
func (r *LedgerRepo) ListByProduct(productID string, from, to *time.Time, limit, offset int) ([]*entity.StockMovement, error) {
	return r.list("product_id", productID, from, to, limit, offset)
}

func (r *LedgerRepo) list(column, value string, from, to *time.Time, limit, offset int) ([]*entity.StockMovement, error) {
	query := `SELECT ` + movementColumns + ` FROM stock_movements WHERE ` + column + ` = $1`
	args := []any{value}
	pos := 2
	if from != nil {
		query += fmt.Sprintf(" AND created_at >= $%d", pos)
		args = append(args, *from)
		pos++
	}
	if to != nil {
		query += fmt.Sprintf(" AND created_at <= $%d", pos)
		args = append(args, *to)
		pos++
	}
	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", pos, pos+1)
	args = append(args, limit, offset)

	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list movements: %w", err)
	}
	return collectMovements(rows)
}

func scanMovement(row pgx.Row) (*entity.StockMovement, error) {
	var m entity.StockMovement
	var orderLineID, createdBy *string
	err := row.Scan(&m.ID, &m.TransactionID, &m.ProductID, &m.WarehouseID, &m.Type,
		&m.Quantity, &orderLineID, &m.Reference, &m.CreatedAt, &createdBy)
	if err != nil {
		return nil, err
	}
	if orderLineID != nil {
		m.OrderLineID = *orderLineID
	}
	if createdBy != nil {
		m.CreatedBy = *createdBy
	}
	return &m, nil
}

func collectMovements(rows pgx.Rows) ([]*entity.StockMovement, error) {
	defer rows.Close()
	var list []*entity.StockMovement
	for rows.Next() {
		m, err := scanMovement(rows)
		if err != nil {
			return nil, fmt.Errorf("scan movement: %w", err)
		}
		list = append(list, m)
	}
	return list, rows.Err()
}
