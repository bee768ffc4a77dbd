package http

import (
	"github.com/gofiber/fiber/v2"
	appinv "github.com/jhoicas/inventory-core/internal/application/inventory"
	"github.com/jhoicas/inventory-core/internal/application/orders"
	"github.com/jhoicas/inventory-core/internal/domain/repository"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	RegisterMovement *appinv.RegisterMovementUseCase
	InventoryQuery   *appinv.QueryUseCase
	Reconcile        *appinv.ReconcileUseCase
	Coordinator      *orders.CoordinatorUseCase
	LedgerRepo       repository.LedgerRepository
	JWTSecret        string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api", AuthMiddleware(deps.JWTSecret))

	// Inventario: movimientos manuales, lecturas, reconciliación
	inv := api.Group("/inventory")
	inventoryHandler := NewInventoryHandler(deps.RegisterMovement, deps.InventoryQuery, deps.Reconcile, deps.LedgerRepo)
	inv.Post("/movements", inventoryHandler.RegisterMovement)
	inv.Get("/movements", inventoryHandler.ListMovements)
	inv.Post("/reconcile", inventoryHandler.Reconcile)
	inv.Get("/:productID/:warehouseID", inventoryHandler.GetInventory)

	// Órdenes de compra y venta
	ordersGroup := api.Group("/orders")
	orderHandler := NewOrderHandler(deps.Coordinator)
	ordersGroup.Post("/", orderHandler.Create)
	ordersGroup.Get("/:id", orderHandler.GetByID)
	ordersGroup.Post("/:id/lines", orderHandler.AddLine)
	ordersGroup.Post("/:id/place", orderHandler.Place)
	ordersGroup.Post("/:id/confirm", orderHandler.Confirm)
	ordersGroup.Post("/:id/lines/:lineID/receive", orderHandler.ReceiveLine)
	ordersGroup.Post("/:id/lines/:lineID/ship", orderHandler.ShipLine)
	ordersGroup.Post("/:id/cancel", orderHandler.Cancel)
}
