package inventory_test

import (
	"context"
	"sync"
	"time"

	"github.com/jhoicas/inventory-core/internal/domain"
	"github.com/jhoicas/inventory-core/internal/domain/entity"
	"github.com/jhoicas/inventory-core/internal/domain/repository"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes en memoria. memStore simula la BD: los repos operan sobre sus mapas y
// el fakeTxRunner toma un snapshot antes de ejecutar fn para poder "hacer
// rollback" (restaurar) cuando fn falla, igual que una transacción real.
// ──────────────────────────────────────────────────────────────────────────────

func key(productID, warehouseID string) string { return productID + "|" + warehouseID }

type memStore struct {
	movements  []entity.StockMovement
	applied    map[string]bool
	records    map[string]entity.InventoryRecord
	products   map[string]*entity.Product
	warehouses map[string]*entity.Warehouse
}

func newMemStore() *memStore {
	return &memStore{
		applied:    map[string]bool{},
		records:    map[string]entity.InventoryRecord{},
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

func (s *memStore) snapshot() *memStore {
	cp := newMemStore()
	cp.movements = append([]entity.StockMovement(nil), s.movements...)
	for k, v := range s.applied {
		cp.applied[k] = v
	}
	for k, v := range s.records {
		cp.records[k] = v
	}
	return cp
}

func (s *memStore) restore(snap *memStore) {
	s.movements = snap.movements
	s.applied = snap.applied
	s.records = snap.records
}

// ── Repositorios sobre memStore ──────────────────────────────────────────────

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
	var out []*entity.StockMovement
	for i := range r.s.movements {
		m := r.s.movements[i]
		if m.WarehouseID == warehouseID {
			cp := m
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *memLedgerRepo) ListByProduct(productID string, from, to *time.Time, limit, offset int) ([]*entity.StockMovement, error) {
	var out []*entity.StockMovement
	for i := range r.s.movements {
		m := r.s.movements[i]
		if m.ProductID == productID {
			cp := m
			out = append(out, &cp)
		}
	}
	return out, nil
}

type memRecordRepo struct{ s *memStore }

func (r *memRecordRepo) Get(productID, warehouseID string) (*entity.InventoryRecord, error) {
	rec, ok := r.s.records[key(productID, warehouseID)]
	if !ok {
		// Baseline cero, igual que la implementación SQL.
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

type memProductRepo struct{ s *memStore }

func (r *memProductRepo) GetByID(id string) (*entity.Product, error) {
	return r.s.products[id], nil
}

func (r *memProductRepo) GetBySKU(sku string) (*entity.Product, error) {
	for _, p := range r.s.products {
		if p.SKU == sku {
			return p, nil
		}
	}
	return nil, nil
}

func (r *memProductRepo) List(limit, offset int) ([]*entity.Product, error) {
	var out []*entity.Product
	for _, p := range r.s.products {
		out = append(out, p)
	}
	return out, nil
}

type memWarehouseRepo struct{ s *memStore }

func (r *memWarehouseRepo) GetByID(id string) (*entity.Warehouse, error) {
	return r.s.warehouses[id], nil
}

func (r *memWarehouseRepo) List(limit, offset int) ([]*entity.Warehouse, error) {
	var out []*entity.Warehouse
	for _, w := range r.s.warehouses {
		out = append(out, w)
	}
	return out, nil
}

// fakeTxRunner restaura el snapshot cuando fn devuelve error, emulando el
// rollback de una transacción SQL.
type fakeTxRunner struct{ s *memStore }

func (t *fakeTxRunner) Run(ctx context.Context, fn func(
	ledgerRepo repository.LedgerRepository,
	recordRepo repository.InventoryRecordRepository,
) error) error {
	snap := t.s.snapshot()
	if err := fn(&memLedgerRepo{t.s}, &memRecordRepo{t.s}); err != nil {
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

func (t *lockingTxRunner) Run(ctx context.Context, fn func(
	ledgerRepo repository.LedgerRepository,
	recordRepo repository.InventoryRecordRepository,
) error) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	snap := t.s.snapshot()
	if err := fn(&memLedgerRepo{t.s}, &memRecordRepo{t.s}); err != nil {
		t.s.restore(snap)
		return err
	}
	return nil
}
