package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/Bodega-api/internal/application/alerts"
	"github.com/jhoicas/Bodega-api/internal/application/dto"
)

// AlertsHandler maneja alertas de stock bajo y el borrador de reorden.
type AlertsHandler struct {
	evaluator *alerts.Evaluator
}

// NewAlertsHandler construye el handler.
func NewAlertsHandler(evaluator *alerts.Evaluator) *AlertsHandler {
	return &AlertsHandler{evaluator: evaluator}
}

// LowStock godoc
// @Summary      Listar artículos bajo umbral
// @Description  Cantidad sumada entre bodegas <= umbral efectivo
//	(minimum_stock_level si está definido, si no reorder_level). Incluye
//	agotados y la cantidad sugerida de pedido.
// @Tags         alerts
// @Produce      json
// @Success      200  {array}  dto.LowStockItemDTO
// @Router       /api/alerts/low-stock [get]
func (h *AlertsHandler) LowStock(c *fiber.Ctx) error {
	entries, err := h.evaluator.ListLowStock(c.Context())
	if err != nil {
		return errorJSON(c, err)
	}
	out := make([]dto.LowStockItemDTO, 0, len(entries))
	for _, e := range entries {
		out = append(out, dto.LowStockItemDTO{
			ItemID:       e.Item.ID,
			SKU:          e.Item.SKU,
			Name:         e.Item.Name,
			Quantity:     e.Quantity,
			Threshold:    e.Threshold,
			SuggestedQty: alerts.SuggestedReorderQuantity(e.Threshold, e.Quantity),
		})
	}
	return c.JSON(out)
}

// ItemState godoc
// @Summary      Estado de alerta de un artículo
// @Description  OUT si la cantidad es exactamente cero (precede a
//	LOW aunque el umbral también sea cero), LOW si cantidad <= umbral, OK en
//	el resto.
// @Tags         alerts
// @Produce      json
// @Param        id  path  string  true  "ID del artículo"
// @Success      200  {object}  map[string]string
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/alerts/items/{id} [get]
func (h *AlertsHandler) ItemState(c *fiber.Ctx) error {
	state, err := h.evaluator.Evaluate(c.Context(), c.Params("id"))
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(fiber.Map{"item_id": c.Params("id"), "state": string(state)})
}

// Reorder godoc
// @Summary      Crear un borrador de orden de compra de reorden
// @Description  Qty cero por línea usa la cantidad sugerida
//	max(0, umbral - cantidad actual). La orden nace DRAFT; su emisión es externa.
// @Tags         alerts
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ReorderRequestDTO  true  "Líneas a reordenar"
// @Success      201   {object}  dto.PurchaseOrderResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/alerts/reorder [post]
func (h *AlertsHandler) Reorder(c *fiber.Ctx) error {
	var in dto.ReorderRequestDTO
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	requests := make([]alerts.ReorderRequest, 0, len(in.Items))
	for _, l := range in.Items {
		requests = append(requests, alerts.ReorderRequest{
			ItemID:      l.ItemID,
			Quantity:    l.Qty,
			WarehouseID: l.WarehouseID,
		})
	}
	po, err := h.evaluator.DraftReorderPO(c.Context(), requests, c.Get("X-Actor"))
	if err != nil {
		return errorJSON(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.FromPurchaseOrder(po))
}
