package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/inventory-core/internal/application/dto"
	"github.com/jhoicas/inventory-core/internal/application/orders"
	"github.com/jhoicas/inventory-core/internal/domain/entity"
	"github.com/jhoicas/inventory-core/pkg/validator"
)

// OrderHandler maneja las peticiones HTTP del ciclo de vida de órdenes
// (protegido).
type OrderHandler struct {
	coordinator *orders.CoordinatorUseCase
}

// NewOrderHandler construye el handler.
func NewOrderHandler(coordinator *orders.CoordinatorUseCase) *OrderHandler {
	return &OrderHandler{coordinator: coordinator}
}

// Create godoc
// @Summary      Crear orden en borrador
// @Tags         orders
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateOrderRequest  true  "kind (PURCHASE|SALES), counterparty_id"
// @Success      201   {object}  dto.OrderResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/orders [post]
func (h *OrderHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateOrderRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if err := validator.Struct(in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	}
	order, err := h.coordinator.CreateOrder(c.Context(), orders.CreateOrderInput{
		Kind:           in.Kind,
		CounterpartyID: in.CounterpartyID,
		UserID:         GetUserID(c),
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toOrderResponse(order))
}

// AddLine godoc
// @Summary      Agregar línea a una orden en borrador
// @Tags         orders
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string              true  "ID de la orden"
// @Param        body  body  dto.AddLineRequest  true  "product_id, warehouse_id, quantity"
// @Success      201   {object}  dto.OrderLineResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/orders/{id}/lines [post]
func (h *OrderHandler) AddLine(c *fiber.Ctx) error {
	var in dto.AddLineRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if err := validator.Struct(in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	}
	line, err := h.coordinator.AddLine(c.Context(), c.Params("id"), orders.LineInput{
		ProductID:   in.ProductID,
		WarehouseID: in.WarehouseID,
		Quantity:    in.Quantity,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toLineResponse(line))
}

// Place godoc
// @Summary      Colocar orden de compra (DRAFT → ORDERED)
// @Tags         orders
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID de la orden"
// @Success      200  {object}  map[string]string
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/orders/{id}/place [post]
func (h *OrderHandler) Place(c *fiber.Ctx) error {
	if err := h.coordinator.PlaceOrder(c.Context(), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"status": entity.OrderStatusOrdered})
}

// Confirm godoc
// @Summary      Confirmar orden de venta (DRAFT → CONFIRMED, reserva stock)
// @Description  Todo-o-nada: si una línea no puede reservar, ninguna queda
//
//	con reserva.
//
// @Tags         orders
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID de la orden"
// @Success      200  {object}  map[string]string
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/orders/{id}/confirm [post]
func (h *OrderHandler) Confirm(c *fiber.Ctx) error {
	if err := h.coordinator.ConfirmOrder(c.Context(), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"status": entity.OrderStatusConfirmed})
}

// ReceiveLine godoc
// @Summary      Recibir cantidad de una línea de compra
// @Tags         orders
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id      path  string                  true  "ID de la orden"
// @Param        lineID  path  string                  true  "ID de la línea"
// @Param        body    body  dto.FulfillLineRequest  true  "quantity"
// @Success      200  {object}  dto.OrderResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/orders/{id}/lines/{lineID}/receive [post]
func (h *OrderHandler) ReceiveLine(c *fiber.Ctx) error {
	return h.fulfillLine(c, false)
}

// ShipLine godoc
// @Summary      Despachar cantidad de una línea de venta
// @Tags         orders
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id      path  string                  true  "ID de la orden"
// @Param        lineID  path  string                  true  "ID de la línea"
// @Param        body    body  dto.FulfillLineRequest  true  "quantity"
// @Success      200  {object}  dto.OrderResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/orders/{id}/lines/{lineID}/ship [post]
func (h *OrderHandler) ShipLine(c *fiber.Ctx) error {
	return h.fulfillLine(c, true)
}

func (h *OrderHandler) fulfillLine(c *fiber.Ctx, ship bool) error {
	var in dto.FulfillLineRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	orderID, lineID := c.Params("id"), c.Params("lineID")
	userID := GetUserID(c)

	var err error
	if ship {
		err = h.coordinator.ShipLine(c.Context(), orderID, lineID, userID, in.Quantity)
	} else {
		err = h.coordinator.ReceiveLine(c.Context(), orderID, lineID, userID, in.Quantity)
	}
	if err != nil {
		return respondError(c, err)
	}
	order, err := h.coordinator.GetOrder(c.Context(), orderID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(toOrderResponse(order))
}

// Cancel godoc
// @Summary      Cancelar orden no terminal
// @Description  En ventas confirmadas libera todas las reservas pendientes.
// @Tags         orders
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID de la orden"
// @Success      200  {object}  map[string]string
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/orders/{id}/cancel [post]
func (h *OrderHandler) Cancel(c *fiber.Ctx) error {
	if err := h.coordinator.CancelOrder(c.Context(), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"status": entity.OrderStatusCancelled})
}

// GetByID godoc
// @Summary      Consultar orden con sus líneas
// @Tags         orders
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID de la orden"
// @Success      200  {object}  dto.OrderResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/orders/{id} [get]
func (h *OrderHandler) GetByID(c *fiber.Ctx) error {
	order, err := h.coordinator.GetOrder(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(toOrderResponse(order))
}

func toLineResponse(l *entity.OrderLine) dto.OrderLineResponse {
	return dto.OrderLineResponse{
		ID:          l.ID,
		ProductID:   l.ProductID,
		WarehouseID: l.WarehouseID,
		Ordered:     l.Ordered,
		Fulfilled:   l.Fulfilled,
		Remaining:   l.Remaining(),
	}
}

func toOrderResponse(o *entity.Order) dto.OrderResponse {
	lines := make([]dto.OrderLineResponse, 0, len(o.Lines))
	for _, l := range o.Lines {
		lines = append(lines, toLineResponse(l))
	}
	return dto.OrderResponse{
		ID:             o.ID,
		Kind:           o.Kind,
		Status:         o.Status,
		CounterpartyID: o.CounterpartyID,
		Lines:          lines,
		CreatedAt:      o.CreatedAt,
		UpdatedAt:      o.UpdatedAt,
	}
}
