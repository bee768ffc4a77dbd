package inventory

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/jhoicas/inventory-core/internal/domain"
	"github.com/jhoicas/inventory-core/internal/domain/entity"
	"github.com/jhoicas/inventory-core/internal/domain/repository"
	"github.com/jhoicas/inventory-core/pkg/logger"
)

// RegisterMovementUseCase registra movimientos manuales del ledger
// (ADJUSTMENT, RETURN, TRANSFER) de forma transaccional con bloqueo de fila
// (SELECT FOR UPDATE) y Commit/Rollback. Las recepciones de compra y los
// despachos de venta no pasan por aquí: los emite el coordinador de órdenes.
type RegisterMovementUseCase struct {
	txRunner      TxRunner
	productRepo   repository.ProductRepository
	warehouseRepo repository.WarehouseRepository
	publisher     MovementPublisher
	cache         AvailabilityCache
	log           *logger.Logger
}

// NewRegisterMovementUseCase construye el caso de uso. publisher y cache
// pueden ser nil (se omiten eventos/invalidación).
func NewRegisterMovementUseCase(
	txRunner TxRunner,
	productRepo repository.ProductRepository,
	warehouseRepo repository.WarehouseRepository,
	publisher MovementPublisher,
	cache AvailabilityCache,
	log *logger.Logger,
) *RegisterMovementUseCase {
	return &RegisterMovementUseCase{
		txRunner:      txRunner,
		productRepo:   productRepo,
		warehouseRepo: warehouseRepo,
		publisher:     publisher,
		cache:         cache,
		log:           log,
	}
}

// TypeTransfer es el tipo de entrada para traslados; en el ledger se
// materializa como el par TRANSFER_OUT/TRANSFER_IN.
const TypeTransfer = "TRANSFER"

// MovementInput entrada para registrar un movimiento manual.
// Para ADJUSTMENT/RETURN: ProductID, WarehouseID, Type, Quantity.
// Para TRANSFER: ProductID, FromWarehouseID, ToWarehouseID, Quantity > 0.
type MovementInput struct {
	UserID          string
	ProductID       string
	WarehouseID     string
	FromWarehouseID string
	ToWarehouseID   string
	Type            string
	Quantity        decimal.Decimal
	Reference       string
}

// RegisterMovement valida referencias (producto existente, bodega activa),
// abre la transacción, aplica el movimiento y publica el evento tras el commit.
func (uc *RegisterMovementUseCase) RegisterMovement(ctx context.Context, input MovementInput) error {
	switch input.Type {
	case entity.MovementTypeAdjustment, entity.MovementTypeReturn:
		if input.ProductID == "" || input.WarehouseID == "" {
			return domain.ErrInvalidInput
		}
	case TypeTransfer:
		if input.ProductID == "" || input.FromWarehouseID == "" || input.ToWarehouseID == "" {
			return domain.ErrInvalidInput
		}
		if input.FromWarehouseID == input.ToWarehouseID || !input.Quantity.GreaterThan(decimal.Zero) {
			return domain.ErrInvalidInput
		}
	default:
		return domain.ErrInvalidInput
	}

	product, err := uc.productRepo.GetByID(input.ProductID)
	if err != nil {
		return err
	}
	if product == nil || !product.Active {
		return domain.ErrNotFound
	}

	warehouses := []string{input.WarehouseID}
	if input.Type == TypeTransfer {
		warehouses = []string{input.FromWarehouseID, input.ToWarehouseID}
	}
	for _, whID := range warehouses {
		wh, err := uc.warehouseRepo.GetByID(whID)
		if err != nil {
			return err
		}
		if wh == nil {
			return domain.ErrNotFound
		}
		if !wh.Active {
			return domain.ErrInactiveWarehouse
		}
	}

	now := time.Now()
	txID := uuid.New().String()
	var committed []*entity.StockMovement

	err = uc.txRunner.Run(ctx, func(
		ledgerRepo repository.LedgerRepository,
		recordRepo repository.InventoryRecordRepository,
	) error {
		if input.Type == TypeTransfer {
			movs, err := uc.doTransfer(ledgerRepo, recordRepo, input, now, txID)
			if err != nil {
				return err
			}
			committed = movs
			return nil
		}
		record, err := recordRepo.GetForUpdate(input.ProductID, input.WarehouseID)
		if err != nil {
			return err
		}
		mov := &entity.StockMovement{
			ID:            uuid.New().String(),
			TransactionID: txID,
			ProductID:     input.ProductID,
			WarehouseID:   input.WarehouseID,
			Type:          input.Type,
			Quantity:      input.Quantity,
			Reference:     input.Reference,
			CreatedAt:     now,
			CreatedBy:     input.UserID,
		}
		if err := AppendAndApply(ledgerRepo, recordRepo, record, mov); err != nil {
			return err
		}
		committed = []*entity.StockMovement{mov}
		return nil
	})
	if err != nil {
		return err
	}

	uc.afterCommit(ctx, committed)
	return nil
}

// doTransfer resta de la bodega origen y suma en la destino dentro de la
// misma transacción, con dos movimientos (TRANSFER_OUT/TRANSFER_IN) que
// comparten TransactionID. Los bloqueos se toman en orden lexicográfico de
// bodega para evitar deadlocks entre traslados cruzados.
func (uc *RegisterMovementUseCase) doTransfer(
	ledgerRepo repository.LedgerRepository,
	recordRepo repository.InventoryRecordRepository,
	input MovementInput,
	now time.Time, txID string,
) ([]*entity.StockMovement, error) {
	first, second := input.FromWarehouseID, input.ToWarehouseID
	if second < first {
		first, second = second, first
	}
	locked := map[string]*entity.InventoryRecord{}
	for _, whID := range []string{first, second} {
		rec, err := recordRepo.GetForUpdate(input.ProductID, whID)
		if err != nil {
			return nil, err
		}
		locked[whID] = rec
	}
	origin := locked[input.FromWarehouseID]

	// Solo se traslada stock no reservado: un traslado nunca puede dejar
	// reservas huérfanas en la bodega origen.
	if origin.Available().LessThan(input.Quantity) {
		return nil, domain.ErrInsufficientStock
	}

	outMov := &entity.StockMovement{
		ID:            uuid.New().String(),
		TransactionID: txID,
		ProductID:     input.ProductID,
		WarehouseID:   input.FromWarehouseID,
		Type:          entity.MovementTypeTransferOut,
		Quantity:      input.Quantity,
		Reference:     input.Reference,
		CreatedAt:     now,
		CreatedBy:     input.UserID,
	}
	if err := AppendAndApply(ledgerRepo, recordRepo, origin, outMov); err != nil {
		return nil, err
	}
	inMov := &entity.StockMovement{
		ID:            uuid.New().String(),
		TransactionID: txID,
		ProductID:     input.ProductID,
		WarehouseID:   input.ToWarehouseID,
		Type:          entity.MovementTypeTransferIn,
		Quantity:      input.Quantity,
		Reference:     input.Reference,
		CreatedAt:     now,
		CreatedBy:     input.UserID,
	}
	if err := AppendAndApply(ledgerRepo, recordRepo, locked[input.ToWarehouseID], inMov); err != nil {
		return nil, err
	}
	return []*entity.StockMovement{outMov, inMov}, nil
}

// afterCommit publica los movimientos confirmados e invalida el cache.
// Cualquier fallo aquí se loguea: la transacción ya confirmó.
func (uc *RegisterMovementUseCase) afterCommit(ctx context.Context, movs []*entity.StockMovement) {
	if uc.cache != nil {
		for _, m := range movs {
			if err := uc.cache.Invalidate(ctx, m.ProductID, m.WarehouseID); err != nil {
				uc.log.Warn().Err(err).Str("product_id", m.ProductID).Msg("invalidar cache de disponibilidad")
			}
		}
	}
	if uc.publisher != nil {
		if err := uc.publisher.PublishMovements(ctx, movs); err != nil {
			uc.log.Warn().Err(err).Int("movimientos", len(movs)).Msg("publicar eventos de movimiento")
		}
	}
}
