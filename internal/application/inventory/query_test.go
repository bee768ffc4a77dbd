package inventory_test

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appinv "github.com/jhoicas/inventory-core/internal/application/inventory"
	"github.com/jhoicas/inventory-core/internal/domain/entity"
	"github.com/jhoicas/inventory-core/pkg/logger"
)

// fakeCache implementa AvailabilityCache en memoria, con un flag para
// simular un Redis caído.
type fakeCache struct {
	entries map[string]*entity.InventoryRecord
	down    bool
	sets    int
}

func newFakeCache() *fakeCache {
	return &fakeCache{entries: map[string]*entity.InventoryRecord{}}
}

func (c *fakeCache) Get(ctx context.Context, productID, warehouseID string) (*entity.InventoryRecord, error) {
	if c.down {
		return nil, errors.New("redis: connection refused")
	}
	rec, ok := c.entries[key(productID, warehouseID)]
	if !ok {
		return nil, nil
	}
	cp := *rec
	return &cp, nil
}

func (c *fakeCache) Set(ctx context.Context, record *entity.InventoryRecord) error {
	if c.down {
		return errors.New("redis: connection refused")
	}
	cp := *record
	c.entries[key(record.ProductID, record.WarehouseID)] = &cp
	c.sets++
	return nil
}

func (c *fakeCache) Invalidate(ctx context.Context, productID, warehouseID string) error {
	if c.down {
		return errors.New("redis: connection refused")
	}
	delete(c.entries, key(productID, warehouseID))
	return nil
}

func TestGetInventory_BaselineCero(t *testing.T) {
	uc := appinv.NewQueryUseCase(&memRecordRepo{newMemStore()}, nil, logger.Nop())

	rec, err := uc.GetInventory(context.Background(), "prod-1", "bodega-1")
	require.NoError(t, err)
	assert.True(t, rec.Quantity.IsZero(), "una llave sin movimientos responde cero, no 404")
	assert.True(t, rec.Available().IsZero())
}

func TestGetInventory_PueblaElCache(t *testing.T) {
	store := newMemStore()
	store.setRecord(entity.InventoryRecord{ProductID: "prod-1", WarehouseID: "bodega-1", Quantity: decimal.NewFromInt(40)})
	cache := newFakeCache()
	uc := appinv.NewQueryUseCase(&memRecordRepo{store}, cache, logger.Nop())
	ctx := context.Background()

	rec, err := uc.GetInventory(ctx, "prod-1", "bodega-1")
	require.NoError(t, err)
	assert.True(t, rec.Quantity.Equal(decimal.NewFromInt(40)))
	assert.Equal(t, 1, cache.sets, "la lectura fría debe poblar el cache")

	// Segunda lectura: sale del cache, sin nuevo Set.
	_, err = uc.GetInventory(ctx, "prod-1", "bodega-1")
	require.NoError(t, err)
	assert.Equal(t, 1, cache.sets)
}

// Un cache caído degrada a lectura directa de BD, nunca a error.
func TestGetInventory_CacheCaido(t *testing.T) {
	store := newMemStore()
	store.setRecord(entity.InventoryRecord{ProductID: "prod-1", WarehouseID: "bodega-1", Quantity: decimal.NewFromInt(40)})
	cache := newFakeCache()
	cache.down = true
	uc := appinv.NewQueryUseCase(&memRecordRepo{store}, cache, logger.Nop())

	rec, err := uc.GetInventory(context.Background(), "prod-1", "bodega-1")
	require.NoError(t, err)
	assert.True(t, rec.Quantity.Equal(decimal.NewFromInt(40)))
}
