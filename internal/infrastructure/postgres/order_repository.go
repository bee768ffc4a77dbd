package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/jhoicas/inventory-core/internal/domain"
	"github.com/jhoicas/inventory-core/internal/domain/entity"
	"github.com/jhoicas/inventory-core/internal/domain/repository"
)

var _ repository.OrderRepository = (*OrderRepo)(nil)

// OrderRepo implementación de OrderRepository sobre PostgreSQL (usable con
// pool o tx).
type OrderRepo struct {
	q Querier
}

// NewOrderRepository construye el adaptador. Pasar pool o tx (Querier).
func NewOrderRepository(q Querier) *OrderRepo {
	return &OrderRepo{q: q}
}

// Create persiste la cabecera de una orden nueva.
func (r *OrderRepo) Create(order *entity.Order) error {
	if order.ID == "" {
		order.ID = uuid.New().String()
	}
	query := `
		INSERT INTO orders (id, kind, status, counterparty_id, created_at, updated_at, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	createdBy := (*string)(nil)
	if order.CreatedBy != "" {
		createdBy = &order.CreatedBy
	}
	_, err := r.q.Exec(context.Background(), query,
		order.ID, order.Kind, order.Status, order.CounterpartyID,
		order.CreatedAt, order.UpdatedAt, createdBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert order: %w", err)
	}
	return nil
}

// GetByID devuelve la orden con sus líneas; nil si no existe.
func (r *OrderRepo) GetByID(id string) (*entity.Order, error) {
	return r.get(id, false)
}

// GetForUpdate bloquea la cabecera (SELECT FOR UPDATE) y carga las líneas.
// Serializa operaciones concurrentes sobre la misma orden.
func (r *OrderRepo) GetForUpdate(id string) (*entity.Order, error) {
	return r.get(id, true)
}

func (r *OrderRepo) get(id string, forUpdate bool) (*entity.Order, error) {
	query := `
		SELECT id, kind, status, counterparty_id, created_at, updated_at, created_by
		FROM orders WHERE id = $1`
	if forUpdate {
		query += " FOR UPDATE"
	}
	var o entity.Order
	var createdBy *string
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&o.ID, &o.Kind, &o.Status, &o.CounterpartyID, &o.CreatedAt, &o.UpdatedAt, &createdBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get order: %w", err)
	}
	if createdBy != nil {
		o.CreatedBy = *createdBy
	}
	lines, err := r.lines(o.ID)
	if err != nil {
		return nil, err
	}
	o.Lines = lines
	return &o, nil
}

func (r *OrderRepo) lines(orderID string) ([]*entity.OrderLine, error) {
	query := `
		SELECT id, order_id, product_id, warehouse_id, ordered, fulfilled, created_at
		FROM order_lines WHERE order_id = $1
		ORDER BY created_at, id`
	rows, err := r.q.Query(context.Background(), query, orderID)
	if err != nil {
		return nil, fmt.Errorf("list order lines: %w", err)
	}
	defer rows.Close()
	var list []*entity.OrderLine
	for rows.Next() {
		var l entity.OrderLine
		if err := rows.Scan(&l.ID, &l.OrderID, &l.ProductID, &l.WarehouseID,
			&l.Ordered, &l.Fulfilled, &l.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan order line: %w", err)
		}
		list = append(list, &l)
	}
	return list, rows.Err()
}

// UpdateStatus actualiza el estado de la cabecera.
func (r *OrderRepo) UpdateStatus(orderID, status string) error {
	query := `UPDATE orders SET status = $2, updated_at = now() WHERE id = $1`
	tag, err := r.q.Exec(context.Background(), query, orderID, status)
	if err != nil {
		return fmt.Errorf("update order status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// AddLine inserta una línea nueva.
func (r *OrderRepo) AddLine(line *entity.OrderLine) error {
	if line.ID == "" {
		line.ID = uuid.New().String()
	}
	query := `
		INSERT INTO order_lines (id, order_id, product_id, warehouse_id, ordered, fulfilled, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.q.Exec(context.Background(), query,
		line.ID, line.OrderID, line.ProductID, line.WarehouseID,
		line.Ordered, line.Fulfilled, line.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert order line: %w", err)
	}
	return nil
}

// UpdateLineFulfilled avanza la cantidad cumplida de una línea.
func (r *OrderRepo) UpdateLineFulfilled(lineID string, fulfilled decimal.Decimal) error {
	query := `UPDATE order_lines SET fulfilled = $2 WHERE id = $1`
	tag, err := r.q.Exec(context.Background(), query, lineID, fulfilled)
	if err != nil {
		return fmt.Errorf("update line fulfilled: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
