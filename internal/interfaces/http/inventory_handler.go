package http

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	appinv "github.com/jhoicas/inventory-core/internal/application/inventory"
	"github.com/jhoicas/inventory-core/internal/application/dto"
	"github.com/jhoicas/inventory-core/internal/domain"
	"github.com/jhoicas/inventory-core/internal/domain/entity"
	"github.com/jhoicas/inventory-core/internal/domain/repository"
	"github.com/jhoicas/inventory-core/pkg/validator"
)

// InventoryHandler maneja las peticiones HTTP de inventario (protegido):
// movimientos manuales, lecturas de disponibilidad, historial y
// reconciliación.
type InventoryHandler struct {
	register   *appinv.RegisterMovementUseCase
	query      *appinv.QueryUseCase
	reconcile  *appinv.ReconcileUseCase
	ledgerRepo repository.LedgerRepository
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(
	register *appinv.RegisterMovementUseCase,
	query *appinv.QueryUseCase,
	reconcile *appinv.ReconcileUseCase,
	ledgerRepo repository.LedgerRepository,
) *InventoryHandler {
	return &InventoryHandler{register: register, query: query, reconcile: reconcile, ledgerRepo: ledgerRepo}
}

// RegisterMovement godoc
// @Summary      Registrar movimiento manual (ajuste, devolución o traslado)
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RegisterMovementRequest  true  "product_id, warehouse_id (o from/to para TRANSFER), type, quantity"
// @Success      201   {object}  map[string]string
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/inventory/movements [post]
func (h *InventoryHandler) RegisterMovement(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.RegisterMovementRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if err := validator.Struct(in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	}
	err := h.register.RegisterMovement(c.Context(), appinv.MovementInput{
		UserID:          userID,
		ProductID:       in.ProductID,
		WarehouseID:     in.WarehouseID,
		FromWarehouseID: in.FromWarehouseID,
		ToWarehouseID:   in.ToWarehouseID,
		Type:            in.Type,
		Quantity:        in.Quantity,
		Reference:       in.Reference,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "movimiento registrado"})
}

// GetInventory godoc
// @Summary      Disponibilidad de un producto en una bodega
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.InventoryResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/inventory/{productID}/{warehouseID} [get]
func (h *InventoryHandler) GetInventory(c *fiber.Ctx) error {
	rec, err := h.query.GetInventory(c.Context(), c.Params("productID"), c.Params("warehouseID"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.InventoryResponse{
		ProductID:   rec.ProductID,
		WarehouseID: rec.WarehouseID,
		Quantity:    rec.Quantity,
		Reserved:    rec.Reserved,
		Available:   rec.Available(),
		UpdatedAt:   rec.UpdatedAt,
	})
}

// ListMovements godoc
// @Summary      Historial de movimientos por producto o bodega
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        product_id    query  string  false  "Filtrar por producto (UUID)"
// @Param        warehouse_id  query  string  false  "Filtrar por bodega (UUID)"
// @Param        from          query  string  false  "Fecha inicial YYYY-MM-DD"
// @Param        to            query  string  false  "Fecha final YYYY-MM-DD"
// @Success      200  {array}   dto.MovementResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/inventory/movements [get]
func (h *InventoryHandler) ListMovements(c *fiber.Ctx) error {
	var req dto.ListMovementsRequest
	if err := c.QueryParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "query inválido"})
	}
	if err := validator.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	}
	if (req.ProductID == "") == (req.WarehouseID == "") {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "exactamente uno de product_id o warehouse_id es obligatorio"})
	}
	req.DefaultPage()

	from, to, err := parseDateRange(req.From, req.To)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "rango de fechas inválido"})
	}

	var movements []*entity.StockMovement
	if req.ProductID != "" {
		movements, err = h.ledgerRepo.ListByProduct(req.ProductID, from, to, req.Limit, req.Offset)
	} else {
		movements, err = h.ledgerRepo.ListByWarehouse(req.WarehouseID, from, to, req.Limit, req.Offset)
	}
	if err != nil {
		return respondError(c, err)
	}

	out := make([]dto.MovementResponse, 0, len(movements))
	for _, m := range movements {
		out = append(out, dto.MovementResponse{
			ID:            m.ID,
			TransactionID: m.TransactionID,
			ProductID:     m.ProductID,
			WarehouseID:   m.WarehouseID,
			Type:          m.Type,
			Quantity:      m.Quantity,
			OrderLineID:   m.OrderLineID,
			Reference:     m.Reference,
			CreatedAt:     m.CreatedAt,
			CreatedBy:     m.CreatedBy,
		})
	}
	// count es el tamaño de la página devuelta, no el total de la tabla.
	return c.JSON(fiber.Map{"count": len(out), "movements": out})
}

// Reconcile godoc
// @Summary      Reconciliar proyección contra replay del ledger
// @Description  Devuelve ok=true si cuadran; si hay drift devuelve ambos
//
//	valores sin corregir nada.
//
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ReconcileRequest  true  "product_id, warehouse_id"
// @Success      200   {object}  dto.ReconcileResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/inventory/reconcile [post]
func (h *InventoryHandler) Reconcile(c *fiber.Ctx) error {
	var in dto.ReconcileRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if err := validator.Struct(in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	}
	err := h.reconcile.Reconcile(c.Context(), in.ProductID, in.WarehouseID)
	if err != nil {
		var drift *domain.DriftError
		if errors.As(err, &drift) {
			// El drift es un diagnóstico, no un fallo de transporte.
			return c.JSON(dto.ReconcileResponse{
				ProductID:   drift.ProductID,
				WarehouseID: drift.WarehouseID,
				Ok:          false,
				Ledger:      &drift.Expected,
				Projection:  &drift.Actual,
			})
		}
		return respondError(c, err)
	}
	return c.JSON(dto.ReconcileResponse{ProductID: in.ProductID, WarehouseID: in.WarehouseID, Ok: true})
}

// parseDateRange convierte from/to (YYYY-MM-DD) a punteros de tiempo; el
// límite superior es inclusivo hasta el final del día.
func parseDateRange(fromStr, toStr string) (*time.Time, *time.Time, error) {
	var from, to *time.Time
	if fromStr != "" {
		t, err := time.Parse("2006-01-02", fromStr)
		if err != nil {
			return nil, nil, err
		}
		from = &t
	}
	if toStr != "" {
		t, err := time.Parse("2006-01-02", toStr)
		if err != nil {
			return nil, nil, err
		}
		end := t.Add(24*time.Hour - time.Nanosecond)
		to = &end
	}
	return from, to, nil
}
