package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/Bodega-api/internal/application/adjustment"
	"github.com/jhoicas/Bodega-api/internal/application/dto"
	"github.com/jhoicas/Bodega-api/internal/domain/entity"
)

// AdjustmentHandler maneja el flujo de ajustes propuesta -> aprobación/rechazo.
type AdjustmentHandler struct {
	workflow *adjustment.Workflow
}

// NewAdjustmentHandler construye el handler.
func NewAdjustmentHandler(workflow *adjustment.Workflow) *AdjustmentHandler {
	return &AdjustmentHandler{workflow: workflow}
}

// Create godoc
// @Summary      Proponer un ajuste de stock
// @Description  Registra un ajuste PENDING sin efecto sobre el libro; solo la
//	aprobación produce un movimiento.
// @Tags         adjustments
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateAdjustmentRequest  true  "item_id, warehouse_id, type (Damage|Lost|Return|Correction), quantity, direction (Return/Correction)"
// @Success      201   {object}  dto.AdjustmentResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/adjustments [post]
func (h *AdjustmentHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateAdjustmentRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	adj, err := h.workflow.Create(c.Context(), adjustment.CreateInput{
		ItemID:      in.ItemID,
		WarehouseID: in.WarehouseID,
		Type:        entity.AdjustmentType(in.Type),
		Direction:   entity.AdjustmentDirection(in.Direction),
		Quantity:    in.Quantity,
		Notes:       in.Notes,
		RequestedBy: c.Get("X-Actor"),
	})
	if err != nil {
		return errorJSON(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.FromAdjustment(adj))
}

// Approve godoc
// @Summary      Aprobar un ajuste pendiente
// @Description  Transiciona PENDING -> APPROVED y anexa el movimiento de
//	ajuste en la misma transacción: si el movimiento es rechazado (p.ej.
//	dejaría stock negativo), el ajuste permanece PENDING.
// @Tags         adjustments
// @Produce      json
// @Param        id  path  string  true  "ID del ajuste"
// @Success      200  {object}  dto.MovementResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/adjustments/{id}/approve [post]
func (h *AdjustmentHandler) Approve(c *fiber.Ctx) error {
	movement, err := h.workflow.Approve(c.Context(), c.Params("id"), c.Get("X-Actor"))
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(dto.FromMovement(movement))
}

// Reject godoc
// @Summary      Rechazar un ajuste pendiente
// @Tags         adjustments
// @Produce      json
// @Param        id  path  string  true  "ID del ajuste"
// @Success      200  {object}  dto.AdjustmentResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/adjustments/{id}/reject [post]
func (h *AdjustmentHandler) Reject(c *fiber.Ctx) error {
	adj, err := h.workflow.Reject(c.Context(), c.Params("id"))
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(dto.FromAdjustment(adj))
}

// GetByID godoc
// @Summary      Obtener un ajuste por ID
// @Tags         adjustments
// @Produce      json
// @Param        id  path  string  true  "ID del ajuste"
// @Success      200  {object}  dto.AdjustmentResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/adjustments/{id} [get]
func (h *AdjustmentHandler) GetByID(c *fiber.Ctx) error {
	adj, err := h.workflow.GetByID(c.Context(), c.Params("id"))
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(dto.FromAdjustment(adj))
}

// List godoc
// @Summary      Listar ajustes por estado
// @Tags         adjustments
// @Produce      json
// @Param        status  query  string  false  "PENDING (por defecto), APPROVED o REJECTED"
// @Success      200  {array}  dto.AdjustmentResponse
// @Router       /api/adjustments [get]
func (h *AdjustmentHandler) List(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "paginación inválida"})
	}
	page.DefaultPage()

	status := entity.AdjustmentStatus(c.Query("status", string(entity.AdjustmentStatusPending)))
	list, err := h.workflow.ListByStatus(c.Context(), status, page.Limit, page.Offset)
	if err != nil {
		return errorJSON(c, err)
	}
	out := make([]dto.AdjustmentResponse, 0, len(list))
	for _, a := range list {
		out = append(out, dto.FromAdjustment(a))
	}
	return c.JSON(out)
}
