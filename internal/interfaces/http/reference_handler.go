package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/Bodega-api/internal/application/dto"
	"github.com/jhoicas/Bodega-api/internal/application/reference"
)

// ReferenceHandler maneja las transacciones referenciadas en dos piernas:
// checkout/devolución y recepción contra orden de compra.
type ReferenceHandler struct {
	coordinator *reference.Coordinator
}

// NewReferenceHandler construye el handler.
func NewReferenceHandler(coordinator *reference.Coordinator) *ReferenceHandler {
	return &ReferenceHandler{coordinator: coordinator}
}

// Checkout godoc
// @Summary      Registrar una entrega (checkout)
// @Description  Primera pierna de una transacción referenciada: salida de la
//	cantidad contra una referencia. reference_no vacío genera una nueva.
// @Tags         references
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CheckoutRequest  true  "item_id, warehouse_id, quantity (positivo), person"
// @Success      201   {object}  dto.MovementResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/checkouts [post]
func (h *ReferenceHandler) Checkout(c *fiber.Ctx) error {
	var in dto.CheckoutRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	movement, err := h.coordinator.Issue(c.Context(), reference.IssueInput{
		ReferenceNo: in.ReferenceNo,
		ItemID:      in.ItemID,
		WarehouseID: in.WarehouseID,
		Quantity:    in.Quantity,
		Person:      in.Person,
		Notes:       in.Notes,
	})
	if err != nil {
		return errorJSON(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.FromMovement(movement))
}

// Return godoc
// @Summary      Registrar una devolución contra una referencia
// @Description  Segunda pierna: entrada de la cantidad devuelta. Se rechaza
//	con 409 si lo devuelto acumulado excedería lo entregado.
// @Tags         references
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ReturnRequest  true  "reference_no, quantity (positivo)"
// @Success      201   {object}  dto.MovementResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/returns [post]
func (h *ReferenceHandler) Return(c *fiber.Ctx) error {
	var in dto.ReturnRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	movement, err := h.coordinator.ReturnAgainst(c.Context(), in.ReferenceNo, in.Quantity, in.Person)
	if err != nil {
		return errorJSON(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.FromMovement(movement))
}

// ReceiveOrder godoc
// @Summary      Recibir mercancía contra una orden de compra
// @Description  Valida todas las líneas contra lo pendiente de la orden antes
//	de anexar movimiento alguno: la recepción es todo-o-nada.
// @Tags         references
// @Accept       json
// @Produce      json
// @Param        ref   path  string  true  "Referencia de la orden"
// @Param        body  body  dto.ReceiveOrderRequest  true  "Líneas recibidas"
// @Success      201   {array}   dto.MovementResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/purchase-orders/{ref}/receive [post]
func (h *ReferenceHandler) ReceiveOrder(c *fiber.Ctx) error {
	var in dto.ReceiveOrderRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	lines := make([]reference.ReceiveLine, 0, len(in.Lines))
	for _, l := range in.Lines {
		lines = append(lines, reference.ReceiveLine{
			ItemID:      l.ItemID,
			WarehouseID: l.WarehouseID,
			Quantity:    l.Quantity,
		})
	}
	movements, err := h.coordinator.ReceiveAgainstOrder(c.Context(), c.Params("ref"), lines, in.Actor)
	if err != nil {
		return errorJSON(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.FromMovements(movements))
}
