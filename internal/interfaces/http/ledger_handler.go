package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/Bodega-api/internal/application/dto"
	"github.com/jhoicas/Bodega-api/internal/application/ledger"
	"github.com/jhoicas/Bodega-api/internal/domain/entity"
)

// LedgerHandler maneja las peticiones HTTP del libro de movimientos y el
// índice de posiciones.
type LedgerHandler struct {
	aggregator *ledger.Aggregator
}

// NewLedgerHandler construye el handler.
func NewLedgerHandler(aggregator *ledger.Aggregator) *LedgerHandler {
	return &LedgerHandler{aggregator: aggregator}
}

// ProposeMutation godoc
// @Summary      Proponer una mutación de stock
// @Description  Valida la propuesta contra la cantidad actual y, si la acepta,
//	anexa el movimiento al libro y actualiza el índice en la misma transacción.
// @Tags         ledger
// @Accept       json
// @Produce      json
// @Param        body  body  dto.MutationRequest  true  "item_id, warehouse_id, type, quantity (con signo o valor absoluto)"
// @Success      201   {object}  dto.MovementResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/mutations [post]
func (h *LedgerHandler) ProposeMutation(c *fiber.Ctx) error {
	var in dto.MutationRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	movType := dto.NormalizeMovementType(in.Type)
	if movType == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "tipo de movimiento desconocido: " + in.Type})
	}
	movement, err := h.aggregator.ProposeMutation(c.Context(), ledger.MutationInput{
		ItemID:      in.ItemID,
		WarehouseID: in.WarehouseID,
		Quantity:    dto.NormalizeSignedQuantity(movType, in.Quantity),
		Type:        movType,
		ReferenceNo: in.ReferenceNo,
		BatchNo:     in.BatchNo,
		Actor:       in.Actor,
		Notes:       in.Notes,
	})
	if err != nil {
		return errorJSON(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.FromMovement(movement))
}

// ListMovements godoc
// @Summary      Consultar el libro de movimientos
// @Description  Filtra por item_id (y opcionalmente warehouse_id), por
//	reference_no, o por rango de fechas from/to (RFC3339). Sin filtros
//	devuelve los movimientos recientes paginados.
// @Tags         ledger
// @Produce      json
// @Param        item_id       query  string  false  "Filtrar por artículo"
// @Param        warehouse_id  query  string  false  "Filtrar por bodega (junto a item_id)"
// @Param        reference_no  query  string  false  "Filtrar por referencia"
// @Param        from          query  string  false  "Fecha inicial RFC3339"
// @Param        to            query  string  false  "Fecha final RFC3339"
// @Success      200  {array}   dto.MovementResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/movements [get]
func (h *LedgerHandler) ListMovements(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "paginación inválida"})
	}
	page.DefaultPage()

	if ref := c.Query("reference_no"); ref != "" {
		list, err := h.aggregator.MovementsByReference(c.Context(), ref)
		if err != nil {
			return errorJSON(c, err)
		}
		return c.JSON(dto.FromMovements(list))
	}
	if itemID := c.Query("item_id"); itemID != "" {
		list, err := h.aggregator.MovementsByItem(c.Context(), itemID, c.Query("warehouse_id"), page.Limit, page.Offset)
		if err != nil {
			return errorJSON(c, err)
		}
		return c.JSON(dto.FromMovements(list))
	}

	from, err := parseTimeQuery(c, "from")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "from inválido (RFC3339)"})
	}
	to, err := parseTimeQuery(c, "to")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "to inválido (RFC3339)"})
	}
	list, err := h.aggregator.MovementsByDateRange(c.Context(), from, to, page.Limit, page.Offset)
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(dto.FromMovements(list))
}

// GetMovement godoc
// @Summary      Obtener un movimiento por ID
// @Tags         ledger
// @Produce      json
// @Param        id  path  string  true  "ID del movimiento"
// @Success      200  {object}  dto.MovementResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/movements/{id} [get]
func (h *LedgerHandler) GetMovement(c *fiber.Ctx) error {
	movement, err := h.aggregator.Movement(c.Context(), c.Params("id"))
	if err != nil {
		return errorJSON(c, err)
	}
	if movement == nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "movimiento no encontrado"})
	}
	return c.JSON(dto.FromMovement(movement))
}

// RetractMovement godoc
// @Summary      Retractar un movimiento
// @Description  El libro es append-only: la retracción anexa un movimiento
//	inverso compensatorio referenciando el original; nunca borra ni edita.
// @Tags         ledger
// @Produce      json
// @Param        id  path  string  true  "ID del movimiento a retractar"
// @Success      201  {object}  dto.MovementResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/movements/{id}/retract [post]
func (h *LedgerHandler) RetractMovement(c *fiber.Ctx) error {
	var in struct {
		Actor string `json:"actor"`
	}
	_ = c.BodyParser(&in) // cuerpo opcional

	movement, err := h.aggregator.Retract(c.Context(), c.Params("id"), in.Actor)
	if err != nil {
		return errorJSON(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.FromMovement(movement))
}

// stockLevelDTO posición del índice para la respuesta de stock-levels.
type stockLevelDTO struct {
	ItemID      string `json:"item_id"`
	WarehouseID string `json:"warehouse_id"`
	Quantity    int64  `json:"quantity"`
}

// ListStockLevels godoc
// @Summary      Consultar posiciones de stock
// @Description  Devuelve el índice memoizado de cantidades por par
//	(item, bodega); filtrable por item_id o warehouse_id.
// @Tags         ledger
// @Produce      json
// @Param        item_id       query  string  false  "Filtrar por artículo"
// @Param        warehouse_id  query  string  false  "Filtrar por bodega"
// @Success      200  {array}  stockLevelDTO
// @Router       /api/stock-levels [get]
func (h *LedgerHandler) ListStockLevels(c *fiber.Ctx) error {
	itemID := c.Query("item_id")
	warehouseID := c.Query("warehouse_id")

	// Par exacto: lectura puntual (pasa por el caché si está habilitado).
	if itemID != "" && warehouseID != "" {
		qty, err := h.aggregator.CurrentQuantity(c.Context(), itemID, warehouseID)
		if err != nil {
			return errorJSON(c, err)
		}
		return c.JSON([]stockLevelDTO{{ItemID: itemID, WarehouseID: warehouseID, Quantity: qty}})
	}

	var positions []stockLevelDTO
	list, err := h.listPositions(c, itemID, warehouseID)
	if err != nil {
		return errorJSON(c, err)
	}
	for _, p := range list {
		positions = append(positions, stockLevelDTO{ItemID: p.ItemID, WarehouseID: p.WarehouseID, Quantity: p.Quantity})
	}
	return c.JSON(positions)
}

func (h *LedgerHandler) listPositions(c *fiber.Ctx, itemID, warehouseID string) ([]*entity.StockPosition, error) {
	switch {
	case itemID != "":
		return h.aggregator.PositionsByItem(c.Context(), itemID)
	case warehouseID != "":
		return h.aggregator.PositionsByWarehouse(c.Context(), warehouseID)
	}
	return h.aggregator.Positions(c.Context())
}

// RebuildStockLevels godoc
// @Summary      Reconstruir el índice de posiciones por replay
// @Description  Vacía el índice y lo recalcula replicando el libro completo
//	en orden de inserción, en una sola transacción.
// @Tags         ledger
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /api/stock-levels/rebuild [post]
func (h *LedgerHandler) RebuildStockLevels(c *fiber.Ctx) error {
	if err := h.aggregator.RebuildPositions(c.Context()); err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(fiber.Map{"message": "índice reconstruido"})
}

// VerifyStockLevels godoc
// @Summary      Verificar deriva del índice contra el libro
// @Description  Replica el libro y compara contra el índice memoizado;
//	devuelve los pares con discrepancia (vacío = sin deriva).
// @Tags         ledger
// @Produce      json
// @Success      200  {array}  ledger.PositionDrift
// @Router       /api/stock-levels/drift [get]
func (h *LedgerHandler) VerifyStockLevels(c *fiber.Ctx) error {
	drift, err := h.aggregator.VerifyPositions(c.Context())
	if err != nil {
		return errorJSON(c, err)
	}
	if drift == nil {
		drift = []ledger.PositionDrift{}
	}
	return c.JSON(drift)
}

func parseTimeQuery(c *fiber.Ctx, name string) (*time.Time, error) {
	raw := c.Query(name)
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
