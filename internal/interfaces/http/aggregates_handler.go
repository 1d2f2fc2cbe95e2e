package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/Bodega-api/internal/application/dto"
	"github.com/jhoicas/Bodega-api/internal/application/reconcile"
)

// AggregatesHandler expone los snapshots derivados por categoría y bodega.
type AggregatesHandler struct {
	engine *reconcile.Engine
}

// NewAggregatesHandler construye el handler.
func NewAggregatesHandler(engine *reconcile.Engine) *AggregatesHandler {
	return &AggregatesHandler{engine: engine}
}

// CategoryAggregate godoc
// @Summary      Snapshot agregado de una categoría
// @Description  Conteo de artículos, conteo bajo umbral y valor total
//	(cantidad x precio). El snapshot es eventualmente consistente: lo
//	recalcula el motor de reconciliación tras cada movimiento.
// @Tags         aggregates
// @Produce      json
// @Param        id  path  string  true  "ID de la categoría"
// @Success      200  {object}  dto.AggregateResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/aggregates/categories/{id} [get]
func (h *AggregatesHandler) CategoryAggregate(c *fiber.Ctx) error {
	agg, err := h.engine.CategoryAggregate(c.Context(), c.Params("id"))
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(dto.AggregateResponse{
		ID:            agg.CategoryID,
		ItemsCount:    agg.ItemsCount,
		LowStockCount: agg.LowStockCount,
		TotalValue:    agg.TotalValue,
	})
}

// WarehouseAggregate godoc
// @Summary      Snapshot agregado de una bodega
// @Tags         aggregates
// @Produce      json
// @Param        id  path  string  true  "ID de la bodega"
// @Success      200  {object}  dto.AggregateResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/aggregates/warehouses/{id} [get]
func (h *AggregatesHandler) WarehouseAggregate(c *fiber.Ctx) error {
	agg, err := h.engine.WarehouseAggregate(c.Context(), c.Params("id"))
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(dto.AggregateResponse{
		ID:            agg.WarehouseID,
		ItemsCount:    agg.ItemsCount,
		LowStockCount: agg.LowStockCount,
		TotalValue:    agg.TotalValue,
	})
}
