package entity_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/inventory-core/internal/domain/entity"
)

// ──────────────────────────────────────────────────────────────────────────────
// Máquina de estados de órdenes.
//
// compra: DRAFT → ORDERED → RECEIVED, o → CANCELLED desde no-terminal
// venta:  DRAFT → CONFIRMED → FULFILLED, o → CANCELLED desde no-terminal
// ──────────────────────────────────────────────────────────────────────────────

func TestCanTransition_Compra(t *testing.T) {
	cases := []struct {
		name   string
		from   string
		to     string
		expect bool
	}{
		{"draft a ordered", entity.OrderStatusDraft, entity.OrderStatusOrdered, true},
		{"ordered a received", entity.OrderStatusOrdered, entity.OrderStatusReceived, true},
		{"draft a received salta un paso", entity.OrderStatusDraft, entity.OrderStatusReceived, false},
		{"draft a cancelled", entity.OrderStatusDraft, entity.OrderStatusCancelled, true},
		{"ordered a cancelled", entity.OrderStatusOrdered, entity.OrderStatusCancelled, true},
		{"received es terminal", entity.OrderStatusReceived, entity.OrderStatusCancelled, false},
		{"cancelled es terminal", entity.OrderStatusCancelled, entity.OrderStatusOrdered, false},
		{"compra no confirma", entity.OrderStatusDraft, entity.OrderStatusConfirmed, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			o := &entity.Order{Kind: entity.OrderKindPurchase, Status: tc.from}
			assert.Equal(t, tc.expect, o.CanTransition(tc.to))
		})
	}
}

func TestCanTransition_Venta(t *testing.T) {
	cases := []struct {
		name   string
		from   string
		to     string
		expect bool
	}{
		{"draft a confirmed", entity.OrderStatusDraft, entity.OrderStatusConfirmed, true},
		{"confirmed a fulfilled", entity.OrderStatusConfirmed, entity.OrderStatusFulfilled, true},
		{"draft a fulfilled salta un paso", entity.OrderStatusDraft, entity.OrderStatusFulfilled, false},
		{"confirmed a cancelled", entity.OrderStatusConfirmed, entity.OrderStatusCancelled, true},
		{"fulfilled es terminal", entity.OrderStatusFulfilled, entity.OrderStatusCancelled, false},
		{"venta no usa ordered", entity.OrderStatusDraft, entity.OrderStatusOrdered, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			o := &entity.Order{Kind: entity.OrderKindSales, Status: tc.from}
			assert.Equal(t, tc.expect, o.CanTransition(tc.to))
		})
	}
}

func TestFullyFulfilled(t *testing.T) {
	// Sin líneas nunca está completa: una cabecera vacía no se puede cerrar.
	o := &entity.Order{Kind: entity.OrderKindPurchase, Status: entity.OrderStatusOrdered}
	assert.False(t, o.FullyFulfilled())

	o.Lines = []*entity.OrderLine{
		{Ordered: decimal.NewFromInt(10), Fulfilled: decimal.NewFromInt(10)},
		{Ordered: decimal.NewFromInt(5), Fulfilled: decimal.NewFromInt(3)},
	}
	assert.False(t, o.FullyFulfilled(), "una línea parcial deja la orden abierta")

	o.Lines[1].Fulfilled = decimal.NewFromInt(5)
	assert.True(t, o.FullyFulfilled())
}

func TestRemaining(t *testing.T) {
	l := &entity.OrderLine{Ordered: decimal.NewFromInt(7), Fulfilled: decimal.NewFromInt(2)}
	assert.True(t, l.Remaining().Equal(decimal.NewFromInt(5)))
}

func TestTerminalStatus(t *testing.T) {
	compra := &entity.Order{Kind: entity.OrderKindPurchase}
	venta := &entity.Order{Kind: entity.OrderKindSales}
	assert.Equal(t, entity.OrderStatusReceived, compra.TerminalStatus())
	assert.Equal(t, entity.OrderStatusFulfilled, venta.TerminalStatus())
}
