package inventory_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appinv "github.com/jhoicas/inventory-core/internal/application/inventory"
	"github.com/jhoicas/inventory-core/internal/domain"
	"github.com/jhoicas/inventory-core/internal/domain/entity"
)

// ──────────────────────────────────────────────────────────────────────────────
// AppendAndApply: el paso atómico ledger + proyección.
// ──────────────────────────────────────────────────────────────────────────────

func TestValidateQuantity(t *testing.T) {
	cases := []struct {
		name    string
		movType string
		qty     decimal.Decimal
		wantErr error
	}{
		{"recepción positiva", entity.MovementTypePurchaseReceipt, decimal.NewFromInt(5), nil},
		{"recepción en cero", entity.MovementTypePurchaseReceipt, decimal.Zero, domain.ErrInvalidInput},
		{"despacho negativo", entity.MovementTypeSalesShipment, decimal.NewFromInt(-1), domain.ErrInvalidInput},
		{"ajuste negativo permitido", entity.MovementTypeAdjustment, decimal.NewFromInt(-3), nil},
		{"ajuste en cero", entity.MovementTypeAdjustment, decimal.Zero, domain.ErrInvalidInput},
		{"tipo inexistente", "REGALO", decimal.NewFromInt(1), domain.ErrInvalidInput},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := appinv.ValidateQuantity(tc.movType, tc.qty)
			if tc.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tc.wantErr)
			}
		})
	}
}

func movement(id, movType string, qty int64) *entity.StockMovement {
	return &entity.StockMovement{
		ID:            id,
		TransactionID: "tx-" + id,
		ProductID:     "prod-1",
		WarehouseID:   "bodega-1",
		Type:          movType,
		Quantity:      decimal.NewFromInt(qty),
		CreatedAt:     time.Now(),
	}
}

func TestAppendAndApply_ActualizaProyeccion(t *testing.T) {
	store := newMemStore()
	ledger := &memLedgerRepo{store}
	records := &memRecordRepo{store}

	rec, err := records.GetForUpdate("prod-1", "bodega-1")
	require.NoError(t, err)

	err = appinv.AppendAndApply(ledger, records, rec, movement("m1", entity.MovementTypePurchaseReceipt, 100))
	require.NoError(t, err)

	got := store.record("prod-1", "bodega-1")
	assert.True(t, got.Quantity.Equal(decimal.NewFromInt(100)))
	assert.Len(t, store.movements, 1, "el movimiento debe quedar en el ledger")
}

// Re-aplicar un movimiento ya aplicado no debe tocar la proyección: la marca
// de idempotencia convierte el reintento en no-op.
func TestAppendAndApply_Idempotente(t *testing.T) {
	store := newMemStore()
	ledger := &memLedgerRepo{store}
	records := &memRecordRepo{store}

	rec, _ := records.GetForUpdate("prod-1", "bodega-1")
	mov := movement("m1", entity.MovementTypePurchaseReceipt, 100)
	require.NoError(t, appinv.AppendAndApply(ledger, records, rec, mov))

	// Segundo intento con el mismo ID: Append rechaza el duplicado en el
	// ledger, pero aunque la fila llegara de nuevo, MarkApplied ya devuelve
	// false y la proyección no cambia.
	applied, err := records.MarkApplied(mov.ID)
	require.NoError(t, err)
	assert.False(t, applied)

	got := store.record("prod-1", "bodega-1")
	assert.True(t, got.Quantity.Equal(decimal.NewFromInt(100)), "la cantidad no debe duplicarse")
}

func TestAppendAndApply_StockInsuficiente(t *testing.T) {
	store := newMemStore()
	store.setRecord(entity.InventoryRecord{ProductID: "prod-1", WarehouseID: "bodega-1", Quantity: decimal.NewFromInt(10)})
	ledger := &memLedgerRepo{store}
	records := &memRecordRepo{store}

	rec, _ := records.GetForUpdate("prod-1", "bodega-1")
	err := appinv.AppendAndApply(ledger, records, rec, movement("m1", entity.MovementTypeSalesShipment, 11))
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
}

// Un descuento que dejaría Reserved > Quantity es un bug contable, no un
// estado alcanzable por un flujo correcto: debe fallar ruidosamente.
func TestAppendAndApply_ReservaExcederiaCantidad(t *testing.T) {
	store := newMemStore()
	store.setRecord(entity.InventoryRecord{
		ProductID:   "prod-1",
		WarehouseID: "bodega-1",
		Quantity:    decimal.NewFromInt(10),
		Reserved:    decimal.NewFromInt(8),
	})
	ledger := &memLedgerRepo{store}
	records := &memRecordRepo{store}

	rec, _ := records.GetForUpdate("prod-1", "bodega-1")
	err := appinv.AppendAndApply(ledger, records, rec, movement("m1", entity.MovementTypeSalesShipment, 5))
	assert.ErrorIs(t, err, domain.ErrInvariantViolation)
}

func TestAppendAndApply_AjusteNegativo(t *testing.T) {
	store := newMemStore()
	store.setRecord(entity.InventoryRecord{ProductID: "prod-1", WarehouseID: "bodega-1", Quantity: decimal.NewFromInt(10)})
	ledger := &memLedgerRepo{store}
	records := &memRecordRepo{store}

	rec, _ := records.GetForUpdate("prod-1", "bodega-1")
	err := appinv.AppendAndApply(ledger, records, rec, movement("m1", entity.MovementTypeAdjustment, -4))
	require.NoError(t, err)

	got := store.record("prod-1", "bodega-1")
	assert.True(t, got.Quantity.Equal(decimal.NewFromInt(6)))
}
