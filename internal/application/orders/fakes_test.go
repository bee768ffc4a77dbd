package orders_test

import (
	"context"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventory-core/internal/domain"
	"github.com/jhoicas/inventory-core/internal/domain/entity"
	"github.com/jhoicas/inventory-core/internal/domain/repository"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes en memoria para el coordinador. El fakeTxRunner restaura un snapshot
// cuando fn falla, imitando el rollback de la transacción real: así los
// tests pueden afirmar que una confirmación fallida no deja reservas
// parciales.
// ──────────────────────────────────────────────────────────────────────────────

func key(productID, warehouseID string) string { return productID + "|" + warehouseID }

type memStore struct {
	movements  []entity.StockMovement
	applied    map[string]bool
	records    map[string]entity.InventoryRecord
	orders     map[string]*entity.Order
	products   map[string]*entity.Product
	warehouses map[string]*entity.Warehouse
}

func newMemStore() *memStore {
	return &memStore{
		applied:    map[string]bool{},
		records:    map[string]entity.InventoryRecord{},
		orders:     map[string]*entity.Order{},
		products:   map[string]*entity.Product{},
		warehouses: map[string]*entity.Warehouse{},
	}
}

func (s *memStore) addProduct(id string, active bool) {
	s.products[id] = &entity.Product{ID: id, SKU: "SKU-" + id, Name: id, Active: active}
}

func (s *memStore) addWarehouse(id string, active bool) {
	s.warehouses[id] = &entity.Warehouse{ID: id, Name: id, Active: active}
}

func (s *memStore) setRecord(rec entity.InventoryRecord) {
	s.records[key(rec.ProductID, rec.WarehouseID)] = rec
}

func (s *memStore) record(productID, warehouseID string) entity.InventoryRecord {
	return s.records[key(productID, warehouseID)]
}

// seedStock deja una llave con saldo inicial contablemente consistente: el
// ADJUSTMENT que lo origina queda en el ledger con su marca de aplicación,
// de modo que el replay cuadra con la proyección desde el arranque.
func (s *memStore) seedStock(productID, warehouseID string, qty int64) {
	id := "seed-" + key(productID, warehouseID)
	s.movements = append(s.movements, entity.StockMovement{
		ID:            id,
		TransactionID: id,
		ProductID:     productID,
		WarehouseID:   warehouseID,
		Type:          entity.MovementTypeAdjustment,
		Quantity:      decimal.NewFromInt(qty),
		Reference:     "saldo inicial",
		CreatedAt:     time.Now(),
	})
	s.applied[id] = true
	s.setRecord(entity.InventoryRecord{
		ProductID:   productID,
		WarehouseID: warehouseID,
		Quantity:    decimal.NewFromInt(qty),
		UpdatedAt:   time.Now(),
	})
}

func cloneOrder(o *entity.Order) *entity.Order {
	cp := *o
	cp.Lines = make([]*entity.OrderLine, len(o.Lines))
	for i, l := range o.Lines {
		lc := *l
		cp.Lines[i] = &lc
	}
	return &cp
}

func (s *memStore) snapshot() *memStore {
	cp := newMemStore()
	cp.movements = append([]entity.StockMovement(nil), s.movements...)
	for k, v := range s.applied {
		cp.applied[k] = v
	}
	for k, v := range s.records {
		cp.records[k] = v
	}
	for k, v := range s.orders {
		cp.orders[k] = cloneOrder(v)
	}
	return cp
}

func (s *memStore) restore(snap *memStore) {
	s.movements = snap.movements
	s.applied = snap.applied
	s.records = snap.records
	s.orders = snap.orders
}

// ── Repositorios ─────────────────────────────────────────────────────────────

type memLedgerRepo struct{ s *memStore }

func (r *memLedgerRepo) Append(m *entity.StockMovement) error {
	for _, existing := range r.s.movements {
		if existing.ID == m.ID {
			return domain.ErrDuplicate
		}
	}
	r.s.movements = append(r.s.movements, *m)
	return nil
}

func (r *memLedgerRepo) GetByID(id string) (*entity.StockMovement, error) {
	for i := range r.s.movements {
		if r.s.movements[i].ID == id {
			m := r.s.movements[i]
			return &m, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *memLedgerRepo) Replay(productID, warehouseID string) ([]*entity.StockMovement, error) {
	var out []*entity.StockMovement
	for i := range r.s.movements {
		m := r.s.movements[i]
		if m.ProductID == productID && m.WarehouseID == warehouseID {
			cp := m
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *memLedgerRepo) ListByWarehouse(warehouseID string, from, to *time.Time, limit, offset int) ([]*entity.StockMovement, error) {
	return nil, nil
}

func (r *memLedgerRepo) ListByProduct(productID string, from, to *time.Time, limit, offset int) ([]*entity.StockMovement, error) {
	return nil, nil
}

type memRecordRepo struct{ s *memStore }

func (r *memRecordRepo) Get(productID, warehouseID string) (*entity.InventoryRecord, error) {
	rec, ok := r.s.records[key(productID, warehouseID)]
	if !ok {
		return &entity.InventoryRecord{ProductID: productID, WarehouseID: warehouseID}, nil
	}
	cp := rec
	return &cp, nil
}

func (r *memRecordRepo) GetForUpdate(productID, warehouseID string) (*entity.InventoryRecord, error) {
	return r.Get(productID, warehouseID)
}

func (r *memRecordRepo) Upsert(record *entity.InventoryRecord) error {
	r.s.records[key(record.ProductID, record.WarehouseID)] = *record
	return nil
}

func (r *memRecordRepo) MarkApplied(movementID string) (bool, error) {
	if r.s.applied[movementID] {
		return false, nil
	}
	r.s.applied[movementID] = true
	return true, nil
}

type memOrderRepo struct{ s *memStore }

func (r *memOrderRepo) Create(order *entity.Order) error {
	r.s.orders[order.ID] = cloneOrder(order)
	return nil
}

func (r *memOrderRepo) GetByID(id string) (*entity.Order, error) {
	o, ok := r.s.orders[id]
	if !ok {
		return nil, nil
	}
	return cloneOrder(o), nil
}

func (r *memOrderRepo) GetForUpdate(id string) (*entity.Order, error) {
	return r.GetByID(id)
}

func (r *memOrderRepo) UpdateStatus(orderID, status string) error {
	o, ok := r.s.orders[orderID]
	if !ok {
		return domain.ErrNotFound
	}
	o.Status = status
	o.UpdatedAt = time.Now()
	return nil
}

func (r *memOrderRepo) AddLine(line *entity.OrderLine) error {
	o, ok := r.s.orders[line.OrderID]
	if !ok {
		return domain.ErrNotFound
	}
	lc := *line
	o.Lines = append(o.Lines, &lc)
	return nil
}

func (r *memOrderRepo) UpdateLineFulfilled(lineID string, fulfilled decimal.Decimal) error {
	for _, o := range r.s.orders {
		for _, l := range o.Lines {
			if l.ID == lineID {
				l.Fulfilled = fulfilled
				return nil
			}
		}
	}
	return domain.ErrNotFound
}

type memProductRepo struct{ s *memStore }

func (r *memProductRepo) GetByID(id string) (*entity.Product, error) { return r.s.products[id], nil }

func (r *memProductRepo) GetBySKU(sku string) (*entity.Product, error) { return nil, nil }

func (r *memProductRepo) List(limit, offset int) ([]*entity.Product, error) { return nil, nil }

type memWarehouseRepo struct{ s *memStore }

func (r *memWarehouseRepo) GetByID(id string) (*entity.Warehouse, error) {
	return r.s.warehouses[id], nil
}

func (r *memWarehouseRepo) List(limit, offset int) ([]*entity.Warehouse, error) { return nil, nil }

type fakeTxRunner struct{ s *memStore }

func (t *fakeTxRunner) RunOrder(ctx context.Context, fn func(
	ledgerRepo repository.LedgerRepository,
	recordRepo repository.InventoryRecordRepository,
	orderRepo repository.OrderRepository,
) error) error {
	snap := t.s.snapshot()
	if err := fn(&memLedgerRepo{t.s}, &memRecordRepo{t.s}, &memOrderRepo{t.s}); err != nil {
		t.s.restore(snap)
		return err
	}
	return nil
}

// lockingTxRunner serializa transacciones completas con un mutex: es el
// equivalente en memoria del bloqueo de fila que serializa operaciones
// concurrentes sobre la misma llave. Usado por los tests de concurrencia.
type lockingTxRunner struct {
	mu sync.Mutex
	s  *memStore
}

func (t *lockingTxRunner) RunOrder(ctx context.Context, fn func(
	ledgerRepo repository.LedgerRepository,
	recordRepo repository.InventoryRecordRepository,
	orderRepo repository.OrderRepository,
) error) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	snap := t.s.snapshot()
	if err := fn(&memLedgerRepo{t.s}, &memRecordRepo{t.s}, &memOrderRepo{t.s}); err != nil {
		t.s.restore(snap)
		return err
	}
	return nil
}
