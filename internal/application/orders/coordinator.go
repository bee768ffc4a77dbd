package orders

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	appinv "github.com/jhoicas/inventory-core/internal/application/inventory"
	"github.com/jhoicas/inventory-core/internal/domain"
	"github.com/jhoicas/inventory-core/internal/domain/entity"
	"github.com/jhoicas/inventory-core/internal/domain/repository"
	"github.com/jhoicas/inventory-core/pkg/logger"
)

// CoordinatorUseCase dirige el ciclo de vida de órdenes de compra y de venta:
// transiciones de estado, reservas, y emisión de movimientos del ledger.
// Cada operación (confirmar, recibir línea, despachar línea, cancelar) es una
// sola transacción SQL; si algo falla a mitad de camino no queda ni reserva
// ni movimiento huérfano.
type CoordinatorUseCase struct {
	txRunner      TxRunner
	orderRepo     repository.OrderRepository
	productRepo   repository.ProductRepository
	warehouseRepo repository.WarehouseRepository
	publisher     appinv.MovementPublisher
	cache         appinv.AvailabilityCache
	log           *logger.Logger
}

// NewCoordinatorUseCase construye el coordinador. publisher y cache pueden ser nil.
func NewCoordinatorUseCase(
	txRunner TxRunner,
	orderRepo repository.OrderRepository,
	productRepo repository.ProductRepository,
	warehouseRepo repository.WarehouseRepository,
	publisher appinv.MovementPublisher,
	cache appinv.AvailabilityCache,
	log *logger.Logger,
) *CoordinatorUseCase {
	return &CoordinatorUseCase{
		txRunner:      txRunner,
		orderRepo:     orderRepo,
		productRepo:   productRepo,
		warehouseRepo: warehouseRepo,
		publisher:     publisher,
		cache:         cache,
		log:           log,
	}
}

// CreateOrderInput entrada para crear una orden en borrador.
type CreateOrderInput struct {
	Kind           string
	CounterpartyID string
	UserID         string
}

// CreateOrder crea la cabecera en estado DRAFT, sin líneas.
func (uc *CoordinatorUseCase) CreateOrder(ctx context.Context, input CreateOrderInput) (*entity.Order, error) {
	if input.Kind != entity.OrderKindPurchase && input.Kind != entity.OrderKindSales {
		return nil, domain.ErrInvalidInput
	}
	now := time.Now()
	order := &entity.Order{
		ID:             uuid.New().String(),
		Kind:           input.Kind,
		Status:         entity.OrderStatusDraft,
		CounterpartyID: input.CounterpartyID,
		CreatedAt:      now,
		UpdatedAt:      now,
		CreatedBy:      input.UserID,
	}
	if err := uc.orderRepo.Create(order); err != nil {
		return nil, err
	}
	return order, nil
}

// LineInput entrada para agregar una línea a una orden en borrador.
type LineInput struct {
	ProductID   string
	WarehouseID string // destino en compras, origen en ventas
	Quantity    decimal.Decimal
}

// AddLine agrega una línea a una orden DRAFT. Valida que el producto exista
// y esté activo y que la bodega esté activa antes de tocar la orden.
func (uc *CoordinatorUseCase) AddLine(ctx context.Context, orderID string, input LineInput) (*entity.OrderLine, error) {
	if orderID == "" || input.ProductID == "" || input.WarehouseID == "" || !input.Quantity.GreaterThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}
	product, err := uc.productRepo.GetByID(input.ProductID)
	if err != nil {
		return nil, err
	}
	if product == nil || !product.Active {
		return nil, domain.ErrNotFound
	}
	wh, err := uc.warehouseRepo.GetByID(input.WarehouseID)
	if err != nil {
		return nil, err
	}
	if wh == nil {
		return nil, domain.ErrNotFound
	}
	if !wh.Active {
		return nil, domain.ErrInactiveWarehouse
	}

	line := &entity.OrderLine{
		ID:          uuid.New().String(),
		ProductID:   input.ProductID,
		WarehouseID: input.WarehouseID,
		Ordered:     input.Quantity,
		Fulfilled:   decimal.Zero,
		CreatedAt:   time.Now(),
	}
	err = uc.txRunner.RunOrder(ctx, func(
		_ repository.LedgerRepository,
		_ repository.InventoryRecordRepository,
		orderRepo repository.OrderRepository,
	) error {
		order, err := orderRepo.GetForUpdate(orderID)
		if err != nil {
			return err
		}
		if order == nil {
			return domain.ErrNotFound
		}
		if order.Status != entity.OrderStatusDraft {
			return domain.ErrConflict
		}
		line.OrderID = order.ID
		return orderRepo.AddLine(line)
	})
	if err != nil {
		return nil, err
	}
	return line, nil
}

// PlaceOrder transiciona una orden de compra DRAFT → ORDERED.
func (uc *CoordinatorUseCase) PlaceOrder(ctx context.Context, orderID string) error {
	return uc.txRunner.RunOrder(ctx, func(
		_ repository.LedgerRepository,
		_ repository.InventoryRecordRepository,
		orderRepo repository.OrderRepository,
	) error {
		order, err := orderRepo.GetForUpdate(orderID)
		if err != nil {
			return err
		}
		if order == nil {
			return domain.ErrNotFound
		}
		if order.Kind != entity.OrderKindPurchase || len(order.Lines) == 0 || !order.CanTransition(entity.OrderStatusOrdered) {
			return domain.ErrConflict
		}
		return orderRepo.UpdateStatus(orderID, entity.OrderStatusOrdered)
	})
}

// ConfirmOrder transiciona una orden de venta DRAFT → CONFIRMED reservando
// el stock de todas sus líneas. Todo-o-nada: si una sola línea no puede
// reservar, la transacción retrocede y ninguna línea queda con reserva.
func (uc *CoordinatorUseCase) ConfirmOrder(ctx context.Context, orderID string) error {
	var keys [][2]string
	err := uc.txRunner.RunOrder(ctx, func(
		_ repository.LedgerRepository,
		recordRepo repository.InventoryRecordRepository,
		orderRepo repository.OrderRepository,
	) error {
		order, err := orderRepo.GetForUpdate(orderID)
		if err != nil {
			return err
		}
		if order == nil {
			return domain.ErrNotFound
		}
		if order.Kind != entity.OrderKindSales || len(order.Lines) == 0 || !order.CanTransition(entity.OrderStatusConfirmed) {
			return domain.ErrConflict
		}
		for _, line := range sortedByKey(order.Lines) {
			if err := appinv.ReserveInTx(recordRepo, line.ProductID, line.WarehouseID, line.Ordered); err != nil {
				return err
			}
			keys = append(keys, [2]string{line.ProductID, line.WarehouseID})
		}
		return orderRepo.UpdateStatus(orderID, entity.OrderStatusConfirmed)
	})
	if err != nil {
		return err
	}
	uc.invalidate(ctx, keys)
	return nil
}

// ReceiveLine registra la recepción parcial o total de una línea de compra:
// emite un PURCHASE_RECEIPT, lo aplica a la proyección de la bodega destino
// y avanza Fulfilled. La orden pasa a RECEIVED solo cuando todas las líneas
// completan su cantidad pedida.
func (uc *CoordinatorUseCase) ReceiveLine(ctx context.Context, orderID, lineID, userID string, qty decimal.Decimal) error {
	if !qty.GreaterThan(decimal.Zero) {
		return domain.ErrInvalidInput
	}
	var committed []*entity.StockMovement
	err := uc.txRunner.RunOrder(ctx, func(
		ledgerRepo repository.LedgerRepository,
		recordRepo repository.InventoryRecordRepository,
		orderRepo repository.OrderRepository,
	) error {
		order, err := orderRepo.GetForUpdate(orderID)
		if err != nil {
			return err
		}
		if order == nil {
			return domain.ErrNotFound
		}
		if order.Kind != entity.OrderKindPurchase || order.Status != entity.OrderStatusOrdered {
			return domain.ErrConflict
		}
		line := findLine(order, lineID)
		if line == nil {
			return domain.ErrNotFound
		}
		if qty.GreaterThan(line.Remaining()) {
			return domain.ErrInvalidInput
		}
		if err := uc.requireActiveWarehouse(line.WarehouseID); err != nil {
			return err
		}

		record, err := recordRepo.GetForUpdate(line.ProductID, line.WarehouseID)
		if err != nil {
			return err
		}
		now := time.Now()
		mov := &entity.StockMovement{
			ID:            uuid.New().String(),
			TransactionID: uuid.New().String(),
			ProductID:     line.ProductID,
			WarehouseID:   line.WarehouseID,
			Type:          entity.MovementTypePurchaseReceipt,
			Quantity:      qty,
			OrderLineID:   line.ID,
			CreatedAt:     now,
			CreatedBy:     userID,
		}
		if err := appinv.AppendAndApply(ledgerRepo, recordRepo, record, mov); err != nil {
			return err
		}
		line.Fulfilled = line.Fulfilled.Add(qty)
		if err := orderRepo.UpdateLineFulfilled(line.ID, line.Fulfilled); err != nil {
			return err
		}
		if order.FullyFulfilled() {
			if err := orderRepo.UpdateStatus(orderID, entity.OrderStatusReceived); err != nil {
				return err
			}
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

// ShipLine registra el despacho parcial o total de una línea de venta:
// libera la reserva correspondiente, emite un SALES_SHIPMENT y lo aplica a
// la proyección, todo en la misma transacción. La orden pasa a FULFILLED
// cuando todas las líneas completan su cantidad.
func (uc *CoordinatorUseCase) ShipLine(ctx context.Context, orderID, lineID, userID string, qty decimal.Decimal) error {
	if !qty.GreaterThan(decimal.Zero) {
		return domain.ErrInvalidInput
	}
	var committed []*entity.StockMovement
	err := uc.txRunner.RunOrder(ctx, func(
		ledgerRepo repository.LedgerRepository,
		recordRepo repository.InventoryRecordRepository,
		orderRepo repository.OrderRepository,
	) error {
		order, err := orderRepo.GetForUpdate(orderID)
		if err != nil {
			return err
		}
		if order == nil {
			return domain.ErrNotFound
		}
		if order.Kind != entity.OrderKindSales || order.Status != entity.OrderStatusConfirmed {
			return domain.ErrConflict
		}
		line := findLine(order, lineID)
		if line == nil {
			return domain.ErrNotFound
		}
		// El hold vigente de la línea es exactamente lo pendiente: se
		// reservó Ordered al confirmar y cada despacho libera lo suyo.
		if qty.GreaterThan(line.Remaining()) {
			return domain.ErrInvalidInput
		}
		if err := uc.requireActiveWarehouse(line.WarehouseID); err != nil {
			return err
		}

		// Liberar antes de descontar mantiene Reserved <= Quantity en todo momento.
		if err := appinv.ReleaseInTx(recordRepo, line.ProductID, line.WarehouseID, qty); err != nil {
			return err
		}
		record, err := recordRepo.GetForUpdate(line.ProductID, line.WarehouseID)
		if err != nil {
			return err
		}
		now := time.Now()
		mov := &entity.StockMovement{
			ID:            uuid.New().String(),
			TransactionID: uuid.New().String(),
			ProductID:     line.ProductID,
			WarehouseID:   line.WarehouseID,
			Type:          entity.MovementTypeSalesShipment,
			Quantity:      qty,
			OrderLineID:   line.ID,
			CreatedAt:     now,
			CreatedBy:     userID,
		}
		if err := appinv.AppendAndApply(ledgerRepo, recordRepo, record, mov); err != nil {
			return err
		}
		line.Fulfilled = line.Fulfilled.Add(qty)
		if err := orderRepo.UpdateLineFulfilled(line.ID, line.Fulfilled); err != nil {
			return err
		}
		if order.FullyFulfilled() {
			if err := orderRepo.UpdateStatus(orderID, entity.OrderStatusFulfilled); err != nil {
				return err
			}
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

// CancelOrder cancela una orden no terminal. En ventas confirmadas libera
// todas las reservas pendientes de sus líneas; en compras no hay efecto
// sobre el ledger (nada se reserva contra stock entrante). La cancelación es
// una transacción en sí misma, no la interrupción de una operación en vuelo.
func (uc *CoordinatorUseCase) CancelOrder(ctx context.Context, orderID string) error {
	var keys [][2]string
	err := uc.txRunner.RunOrder(ctx, func(
		_ repository.LedgerRepository,
		recordRepo repository.InventoryRecordRepository,
		orderRepo repository.OrderRepository,
	) error {
		order, err := orderRepo.GetForUpdate(orderID)
		if err != nil {
			return err
		}
		if order == nil {
			return domain.ErrNotFound
		}
		if !order.CanTransition(entity.OrderStatusCancelled) {
			return domain.ErrConflict
		}
		if order.Kind == entity.OrderKindSales && order.Status == entity.OrderStatusConfirmed {
			for _, line := range sortedByKey(order.Lines) {
				outstanding := line.Remaining()
				if !outstanding.GreaterThan(decimal.Zero) {
					continue
				}
				if err := appinv.ReleaseInTx(recordRepo, line.ProductID, line.WarehouseID, outstanding); err != nil {
					return err
				}
				keys = append(keys, [2]string{line.ProductID, line.WarehouseID})
			}
		}
		return orderRepo.UpdateStatus(orderID, entity.OrderStatusCancelled)
	})
	if err != nil {
		return err
	}
	uc.invalidate(ctx, keys)
	return nil
}

// GetOrder devuelve la orden con sus líneas.
func (uc *CoordinatorUseCase) GetOrder(ctx context.Context, orderID string) (*entity.Order, error) {
	order, err := uc.orderRepo.GetByID(orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, domain.ErrNotFound
	}
	return order, nil
}

// sortedByKey ordena líneas por (producto, bodega) para tomar los bloqueos
// de fila siempre en el mismo orden y evitar deadlocks entre confirms
// concurrentes.
func sortedByKey(lines []*entity.OrderLine) []*entity.OrderLine {
	sorted := make([]*entity.OrderLine, len(lines))
	copy(sorted, lines)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].ProductID != sorted[j].ProductID {
			return sorted[i].ProductID < sorted[j].ProductID
		}
		return sorted[i].WarehouseID < sorted[j].WarehouseID
	})
	return sorted
}

// requireActiveWarehouse rechaza movimientos nuevos hacia/desde bodegas
// inactivas; el historial de una bodega inactiva se conserva intacto.
func (uc *CoordinatorUseCase) requireActiveWarehouse(warehouseID string) error {
	wh, err := uc.warehouseRepo.GetByID(warehouseID)
	if err != nil {
		return err
	}
	if wh == nil {
		return domain.ErrNotFound
	}
	if !wh.Active {
		return domain.ErrInactiveWarehouse
	}
	return nil
}

func findLine(order *entity.Order, lineID string) *entity.OrderLine {
	for _, l := range order.Lines {
		if l.ID == lineID {
			return l
		}
	}
	return nil
}

func (uc *CoordinatorUseCase) invalidate(ctx context.Context, keys [][2]string) {
	if uc.cache == nil {
		return
	}
	for _, k := range keys {
		if err := uc.cache.Invalidate(ctx, k[0], k[1]); err != nil {
			uc.log.Warn().Err(err).Str("product_id", k[0]).Msg("invalidar cache de disponibilidad")
		}
	}
}

func (uc *CoordinatorUseCase) afterCommit(ctx context.Context, movs []*entity.StockMovement) {
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
