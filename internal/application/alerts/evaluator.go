package alerts

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/Bodega-api/internal/domain"
	"github.com/jhoicas/Bodega-api/internal/domain/entity"
	"github.com/jhoicas/Bodega-api/internal/domain/repository"
)

// State estado de alerta de stock de un artículo.
type State string

const (
	StateOK  State = "OK"
	StateLow State = "LOW"
	StateOut State = "OUT"
)

// Evaluator deriva señales de stock bajo / agotado comparando las
// cantidades del índice de posiciones contra el umbral configurado por
// artículo. No cachea nada: es un filtro barato sobre cantidades ya
// memoizadas y se recalcula por consulta.
type Evaluator struct {
	itemRepo repository.ItemRepository
	posRepo  repository.StockPositionRepository
	poRepo   repository.PurchaseOrderRepository
}

// NewEvaluator construye el evaluador.
func NewEvaluator(
	itemRepo repository.ItemRepository,
	posRepo repository.StockPositionRepository,
	poRepo repository.PurchaseOrderRepository,
) *Evaluator {
	return &Evaluator{itemRepo: itemRepo, posRepo: posRepo, poRepo: poRepo}
}

func (e *Evaluator) itemQuantity(itemID string) (int64, error) {
	positions, err := e.posRepo.ListByItem(itemID)
	if err != nil {
		return 0, err
	}
	var total int64
	for _, p := range positions {
		total += p.Quantity
	}
	return total, nil
}

// Evaluate estado de alerta del artículo: OUT con cantidad cero, LOW con
// 0 < cantidad <= umbral, OK en el resto. La cantidad es el total del
// artículo sumado entre bodegas.
func (e *Evaluator) Evaluate(ctx context.Context, itemID string) (State, error) {
	item, err := e.itemRepo.GetByID(itemID)
	if err != nil {
		return "", err
	}
	if item == nil {
		return "", domain.ErrNotFound
	}
	qty, err := e.itemQuantity(itemID)
	if err != nil {
		return "", err
	}
	switch {
	case qty == 0:
		return StateOut, nil
	case qty <= item.LowStockThreshold():
		return StateLow, nil
	default:
		return StateOK, nil
	}
}

// LowStockEntry artículo bajo umbral con su cantidad actual.
type LowStockEntry struct {
	Item      *entity.Item
	Quantity  int64
	Threshold int64
}

// ListLowStock artículos con cantidad <= umbral (incluye agotados).
func (e *Evaluator) ListLowStock(ctx context.Context) ([]LowStockEntry, error) {
	items, err := e.itemRepo.List(0, 0)
	if err != nil {
		return nil, err
	}
	var entries []LowStockEntry
	for _, item := range items {
		qty, err := e.itemQuantity(item.ID)
		if err != nil {
			return nil, err
		}
		if threshold := item.LowStockThreshold(); qty <= threshold {
			entries = append(entries, LowStockEntry{Item: item, Quantity: qty, Threshold: threshold})
		}
	}
	return entries, nil
}

// SuggestedReorderQuantity cantidad sugerida de pedido:
// max(0, umbral - cantidad actual).
func SuggestedReorderQuantity(threshold, current int64) int64 {
	if suggested := threshold - current; suggested > 0 {
		return suggested
	}
	return 0
}

// ReorderRequest línea solicitada para el borrador de orden de compra.
// Quantity cero usa la cantidad sugerida; WarehouseID vacío usa la bodega
// por defecto del artículo.
type ReorderRequest struct {
	ItemID      string
	Quantity    int64
	WarehouseID string
}

// DraftReorderPO crea un borrador de orden de compra a partir de artículos
// bajo umbral. La emisión y el ciclo completo de la orden son externos; el
// núcleo solo aporta la cantidad sugerida y registra el borrador.
func (e *Evaluator) DraftReorderPO(ctx context.Context, requests []ReorderRequest, requestedBy string) (*entity.PurchaseOrder, error) {
	if len(requests) == 0 {
		return nil, domain.ErrValidation
	}
	now := time.Now()
	po := &entity.PurchaseOrder{
		ReferenceNo: "PO-" + uuid.New().String(),
		Status:      entity.PurchaseOrderStatusDraft,
		Notes:       "draft reorder requested by " + requestedBy,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	for _, req := range requests {
		item, err := e.itemRepo.GetByID(req.ItemID)
		if err != nil {
			return nil, err
		}
		if item == nil {
			return nil, domain.ErrValidation
		}
		qty := req.Quantity
		if qty <= 0 {
			current, err := e.itemQuantity(item.ID)
			if err != nil {
				return nil, err
			}
			qty = SuggestedReorderQuantity(item.LowStockThreshold(), current)
		}
		if qty <= 0 {
			continue // nada que reordenar para este artículo
		}
		warehouseID := req.WarehouseID
		if warehouseID == "" {
			warehouseID = item.WarehouseID
		}
		if po.SupplierID == "" {
			po.SupplierID = item.SupplierID
		}
		po.Lines = append(po.Lines, entity.PurchaseOrderLine{
			ItemID:      item.ID,
			WarehouseID: warehouseID,
			Quantity:    qty,
			UnitCost:    item.Price,
		})
	}
	if len(po.Lines) == 0 {
		return nil, domain.ErrValidation
	}
	if err := e.poRepo.Create(po); err != nil {
		return nil, err
	}
	return po, nil
}
