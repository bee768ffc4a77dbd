package inventory

import (
	"context"

	"github.com/jhoicas/inventory-core/internal/domain"
	"github.com/jhoicas/inventory-core/internal/domain/entity"
	"github.com/jhoicas/inventory-core/internal/domain/repository"
	"github.com/jhoicas/inventory-core/pkg/logger"
)

// QueryUseCase resuelve la ruta de lectura de disponibilidad. Intenta el
// cache primero; un cache caído o frío degrada a la proyección en BD.
type QueryUseCase struct {
	recordRepo repository.InventoryRecordRepository
	cache      AvailabilityCache
	log        *logger.Logger
}

// NewQueryUseCase construye el caso de uso. cache puede ser nil.
func NewQueryUseCase(recordRepo repository.InventoryRecordRepository, cache AvailabilityCache, log *logger.Logger) *QueryUseCase {
	return &QueryUseCase{recordRepo: recordRepo, cache: cache, log: log}
}

// GetInventory devuelve cantidad, reservado y disponible de una llave.
// Una llave sin movimientos devuelve el registro en cero, no ErrNotFound:
// la proyección nace con baseline cero.
func (uc *QueryUseCase) GetInventory(ctx context.Context, productID, warehouseID string) (*entity.InventoryRecord, error) {
	if productID == "" || warehouseID == "" {
		return nil, domain.ErrInvalidInput
	}
	if uc.cache != nil {
		if rec, err := uc.cache.Get(ctx, productID, warehouseID); err == nil && rec != nil {
			return rec, nil
		}
	}
	rec, err := uc.recordRepo.Get(productID, warehouseID)
	if err != nil {
		return nil, err
	}
	if uc.cache != nil {
		if err := uc.cache.Set(ctx, rec); err != nil {
			uc.log.Warn().Err(err).Str("product_id", productID).Msg("escribir cache de disponibilidad")
		}
	}
	return rec, nil
}
