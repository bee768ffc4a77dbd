package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de orden.
const (
	OrderKindPurchase = "PURCHASE" // compra a proveedor (entrada de stock)
	OrderKindSales    = "SALES"    // venta a cliente (salida de stock)
)

// Estados de orden. Máquina de estados:
//
//	compra: DRAFT → ORDERED → RECEIVED, o → CANCELLED desde DRAFT/ORDERED
//	venta:  DRAFT → CONFIRMED → FULFILLED, o → CANCELLED desde DRAFT/CONFIRMED
//
// RECEIVED, FULFILLED y CANCELLED son terminales e inmutables.
const (
	OrderStatusDraft     = "DRAFT"
	OrderStatusOrdered   = "ORDERED"
	OrderStatusConfirmed = "CONFIRMED"
	OrderStatusReceived  = "RECEIVED"
	OrderStatusFulfilled = "FULFILLED"
	OrderStatusCancelled = "CANCELLED"
)

// Order es la cabecera de una orden de compra o de venta.
type Order struct {
	ID             string
	Kind           string
	Status         string
	CounterpartyID string // proveedor (compra) o cliente (venta); identidad validada por el colaborador dueño
	Lines          []*OrderLine
	CreatedAt      time.Time
	UpdatedAt      time.Time
	CreatedBy      string
}

// OrderLine es una línea de orden: cantidad pedida y cumplida hasta ahora.
// Invariante: 0 <= Fulfilled <= Ordered.
type OrderLine struct {
	ID          string
	OrderID     string
	ProductID   string
	WarehouseID string // destino en compras, origen en ventas
	Ordered     decimal.Decimal
	Fulfilled   decimal.Decimal // recibido (compra) o despachado (venta)
	CreatedAt   time.Time
}

// Remaining devuelve la cantidad pendiente por recibir/despachar.
func (l *OrderLine) Remaining() decimal.Decimal {
	return l.Ordered.Sub(l.Fulfilled)
}

// IsTerminal indica si el estado no admite más transiciones.
func (o *Order) IsTerminal() bool {
	switch o.Status {
	case OrderStatusReceived, OrderStatusFulfilled, OrderStatusCancelled:
		return true
	}
	return false
}

// CanTransition valida la transición de estado según el tipo de orden.
func (o *Order) CanTransition(to string) bool {
	if o.IsTerminal() {
		return false
	}
	switch o.Kind {
	case OrderKindPurchase:
		switch {
		case o.Status == OrderStatusDraft && to == OrderStatusOrdered:
			return true
		case o.Status == OrderStatusOrdered && to == OrderStatusReceived:
			return true
		case to == OrderStatusCancelled:
			return true
		}
	case OrderKindSales:
		switch {
		case o.Status == OrderStatusDraft && to == OrderStatusConfirmed:
			return true
		case o.Status == OrderStatusConfirmed && to == OrderStatusFulfilled:
			return true
		case to == OrderStatusCancelled:
			return true
		}
	}
	return false
}

// FullyFulfilled indica si todas las líneas alcanzaron su cantidad pedida.
func (o *Order) FullyFulfilled() bool {
	if len(o.Lines) == 0 {
		return false
	}
	for _, l := range o.Lines {
		if l.Fulfilled.LessThan(l.Ordered) {
			return false
		}
	}
	return true
}

// TerminalStatus devuelve el estado terminal de cumplimiento según el tipo.
func (o *Order) TerminalStatus() string {
	if o.Kind == OrderKindPurchase {
		return OrderStatusReceived
	}
	return OrderStatusFulfilled
}
