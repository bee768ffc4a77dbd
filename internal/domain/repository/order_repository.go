package repository

import (
	"github.com/shopspring/decimal"
	"github.com/jhoicas/inventory-core/internal/domain/entity"
)

// OrderRepository define el puerto de persistencia para órdenes y sus líneas.
type OrderRepository interface {
	Create(order *entity.Order) error
	// GetByID devuelve la orden con sus líneas cargadas; nil si no existe.
	GetByID(id string) (*entity.Order, error)
	// GetForUpdate bloquea la cabecera de la orden para serializar
	// operaciones concurrentes sobre la misma orden.
	GetForUpdate(id string) (*entity.Order, error)
	UpdateStatus(orderID, status string) error
	AddLine(line *entity.OrderLine) error
	UpdateLineFulfilled(lineID string, fulfilled decimal.Decimal) error
}
