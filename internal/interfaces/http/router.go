package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/Bodega-api/internal/application/adjustment"
	"github.com/jhoicas/Bodega-api/internal/application/alerts"
	"github.com/jhoicas/Bodega-api/internal/application/catalog"
	"github.com/jhoicas/Bodega-api/internal/application/ledger"
	"github.com/jhoicas/Bodega-api/internal/application/reconcile"
	"github.com/jhoicas/Bodega-api/internal/application/reference"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Aggregator  *ledger.Aggregator
	Workflow    *adjustment.Workflow
	Coordinator *reference.Coordinator
	Evaluator   *alerts.Evaluator
	Reconciler  *reconcile.Engine
	CatalogUC   *catalog.UseCase
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Libro de movimientos e índice de posiciones
	ledgerHandler := NewLedgerHandler(deps.Aggregator)
	api.Post("/mutations", ledgerHandler.ProposeMutation)
	movements := api.Group("/movements")
	movements.Get("/", ledgerHandler.ListMovements)
	movements.Get("/:id", ledgerHandler.GetMovement)
	movements.Post("/:id/retract", ledgerHandler.RetractMovement)
	stockLevels := api.Group("/stock-levels")
	stockLevels.Get("/", ledgerHandler.ListStockLevels)
	stockLevels.Post("/rebuild", ledgerHandler.RebuildStockLevels)
	stockLevels.Get("/drift", ledgerHandler.VerifyStockLevels)

	// Ajustes (propuesta -> aprobación/rechazo)
	adjustments := api.Group("/adjustments")
	adjustmentHandler := NewAdjustmentHandler(deps.Workflow)
	adjustments.Post("/", adjustmentHandler.Create)
	adjustments.Get("/", adjustmentHandler.List)
	adjustments.Get("/:id", adjustmentHandler.GetByID)
	adjustments.Post("/:id/approve", adjustmentHandler.Approve)
	adjustments.Post("/:id/reject", adjustmentHandler.Reject)

	// Transacciones referenciadas (checkout/devolución, recepción de OC)
	referenceHandler := NewReferenceHandler(deps.Coordinator)
	api.Post("/checkouts", referenceHandler.Checkout)
	api.Post("/returns", referenceHandler.Return)
	api.Post("/purchase-orders/:ref/receive", referenceHandler.ReceiveOrder)

	// Alertas y reorden
	alertsGroup := api.Group("/alerts")
	alertsHandler := NewAlertsHandler(deps.Evaluator)
	alertsGroup.Get("/low-stock", alertsHandler.LowStock)
	alertsGroup.Get("/items/:id", alertsHandler.ItemState)
	alertsGroup.Post("/reorder", alertsHandler.Reorder)

	// Snapshots derivados
	aggregates := api.Group("/aggregates")
	aggregatesHandler := NewAggregatesHandler(deps.Reconciler)
	aggregates.Get("/categories/:id", aggregatesHandler.CategoryAggregate)
	aggregates.Get("/warehouses/:id", aggregatesHandler.WarehouseAggregate)

	// Catálogo
	catalogHandler := NewCatalogHandler(deps.CatalogUC)
	items := api.Group("/items")
	items.Post("/", catalogHandler.CreateItem)
	items.Get("/", catalogHandler.ListItems)
	items.Get("/:id", catalogHandler.GetItem)
	items.Put("/:id", catalogHandler.UpdateItem)
	warehouses := api.Group("/warehouses")
	warehouses.Post("/", catalogHandler.CreateWarehouse)
	warehouses.Get("/", catalogHandler.ListWarehouses)
	categories := api.Group("/categories")
	categories.Post("/", catalogHandler.CreateCategory)
	categories.Get("/", catalogHandler.ListCategories)
	suppliers := api.Group("/suppliers")
	suppliers.Post("/", catalogHandler.CreateSupplier)
	suppliers.Get("/", catalogHandler.ListSuppliers)
}
