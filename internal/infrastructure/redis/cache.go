package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/jhoicas/inventory-core/internal/application/inventory"
	"github.com/jhoicas/inventory-core/internal/domain/entity"
	"github.com/jhoicas/inventory-core/pkg/config"
)

var _ inventory.AvailabilityCache = (*Cache)(nil)

// Cache cachea registros de inventario por llave (producto, bodega) con TTL
// corto. Es una optimización de la ruta de lectura: la fuente de verdad
// sigue siendo la proyección en PostgreSQL.
type Cache struct {
	client *goredis.Client
	ttl    time.Duration
}

// NewCache conecta al servidor Redis y verifica la conexión.
func NewCache(ctx context.Context, cfg config.RedisConfig) (*Cache, error) {
	client := goredis.NewClient(&goredis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	ttl := time.Duration(cfg.TTLSeconds) * time.Second
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &Cache{client: client, ttl: ttl}, nil
}

func key(productID, warehouseID string) string {
	return "inventory:" + productID + ":" + warehouseID
}

// Get devuelve el registro cacheado o nil en miss.
func (c *Cache) Get(ctx context.Context, productID, warehouseID string) (*entity.InventoryRecord, error) {
	val, err := c.client.Get(ctx, key(productID, warehouseID)).Result()
	if err != nil {
		if err == goredis.Nil {
			return nil, nil
		}
		return nil, fmt.Errorf("get cache: %w", err)
	}
	var rec entity.InventoryRecord
	if err := json.Unmarshal([]byte(val), &rec); err != nil {
		return nil, fmt.Errorf("unmarshal cached record: %w", err)
	}
	return &rec, nil
}

// Set cachea un registro con el TTL configurado.
func (c *Cache) Set(ctx context.Context, record *entity.InventoryRecord) error {
	body, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("marshal record: %w", err)
	}
	return c.client.Set(ctx, key(record.ProductID, record.WarehouseID), body, c.ttl).Err()
}

// Invalidate elimina la llave tras un cambio confirmado en la proyección.
func (c *Cache) Invalidate(ctx context.Context, productID, warehouseID string) error {
	return c.client.Del(ctx, key(productID, warehouseID)).Err()
}

// Close cierra el cliente.
func (c *Cache) Close() error {
	return c.client.Close()
}
