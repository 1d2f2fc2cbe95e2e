package reconcile

import (
	"context"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"github.com/jhoicas/Bodega-api/internal/domain/entity"
	"github.com/jhoicas/Bodega-api/internal/domain/repository"
	"github.com/jhoicas/Bodega-api/pkg/logger"
)

// maxRefreshAttempts reintentos de una recomputación de agregado fallida
// antes de descartarla con log de error.
const maxRefreshAttempts = 3

// Engine motor de reconciliación: recalcula los agregados derivados por
// categoría y bodega como función pura de catálogo + índice de posiciones,
// y escribe el snapshot. Nunca mantiene agregados de forma incremental.
//
// Un fallo de recomputación se registra y se encola para reintento; jamás
// bloquea ni revierte el movimiento ya confirmado (consistencia eventual).
type Engine struct {
	itemRepo repository.ItemRepository
	posRepo  repository.StockPositionRepository
	aggRepo  repository.AggregateRepository
	log      *logger.Logger

	mu      sync.Mutex
	pending []pendingRefresh
}

type pendingRefresh struct {
	categoryID  string
	warehouseID string
	attempts    int
}

// NewEngine construye el motor.
func NewEngine(
	itemRepo repository.ItemRepository,
	posRepo repository.StockPositionRepository,
	aggRepo repository.AggregateRepository,
	log *logger.Logger,
) *Engine {
	return &Engine{itemRepo: itemRepo, posRepo: posRepo, aggRepo: aggRepo, log: log}
}

// itemQuantity cantidad total del artículo sumada entre bodegas.
func (e *Engine) itemQuantity(itemID string) (int64, error) {
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

// RecomputeCategoryAggregate recalcula y persiste el agregado de una
// categoría: conteo de artículos, conteo de stock bajo (regla por artículo
// sumado entre bodegas) y valor total (cantidad x precio).
func (e *Engine) RecomputeCategoryAggregate(ctx context.Context, categoryID string) (*entity.CategoryAggregate, error) {
	items, err := e.itemRepo.ListByCategory(categoryID)
	if err != nil {
		return nil, err
	}
	agg := &entity.CategoryAggregate{
		CategoryID: categoryID,
		ItemsCount: len(items),
		TotalValue: decimal.Zero,
		ComputedAt: time.Now(),
	}
	for _, item := range items {
		qty, err := e.itemQuantity(item.ID)
		if err != nil {
			return nil, err
		}
		if qty <= item.LowStockThreshold() {
			agg.LowStockCount++
		}
		agg.TotalValue = agg.TotalValue.Add(item.Price.Mul(decimal.NewFromInt(qty)))
	}
	if err := e.aggRepo.SaveCategoryAggregate(agg); err != nil {
		return nil, err
	}
	return agg, nil
}

// RecomputeWarehouseAggregate recalcula y persiste el agregado de una
// bodega a partir de sus posiciones de stock.
func (e *Engine) RecomputeWarehouseAggregate(ctx context.Context, warehouseID string) (*entity.WarehouseAggregate, error) {
	positions, err := e.posRepo.ListByWarehouse(warehouseID)
	if err != nil {
		return nil, err
	}
	agg := &entity.WarehouseAggregate{
		WarehouseID: warehouseID,
		TotalValue:  decimal.Zero,
		ComputedAt:  time.Now(),
	}
	for _, pos := range positions {
		item, err := e.itemRepo.GetByID(pos.ItemID)
		if err != nil {
			return nil, err
		}
		if item == nil {
			continue // artículo borrado del catálogo; la posición queda huérfana
		}
		agg.ItemsCount++
		agg.TotalValue = agg.TotalValue.Add(item.Price.Mul(decimal.NewFromInt(pos.Quantity)))
		total, err := e.itemQuantity(item.ID)
		if err != nil {
			return nil, err
		}
		if total <= item.LowStockThreshold() {
			agg.LowStockCount++
		}
	}
	if err := e.aggRepo.SaveWarehouseAggregate(agg); err != nil {
		return nil, err
	}
	return agg, nil
}

// RefreshAfterMovement recalcula los agregados tocados por un movimiento
// aceptado: la categoría del artículo y la bodega afectada. Los fallos se
// registran y se encolan; el movimiento ya está confirmado.
func (e *Engine) RefreshAfterMovement(ctx context.Context, itemID, warehouseID string) {
	var categoryID string
	if item, err := e.itemRepo.GetByID(itemID); err == nil && item != nil {
		categoryID = item.CategoryID
	}
	e.refresh(ctx, categoryID, warehouseID)
}

// RefreshAfterItemEdit recalcula agregados viejos y nuevos cuando se edita
// la categoría o bodega por defecto de un artículo.
func (e *Engine) RefreshAfterItemEdit(ctx context.Context, oldCategoryID, newCategoryID, oldWarehouseID, newWarehouseID string) {
	e.refresh(ctx, oldCategoryID, oldWarehouseID)
	if newCategoryID != oldCategoryID || newWarehouseID != oldWarehouseID {
		e.refresh(ctx, newCategoryID, newWarehouseID)
	}
}

func (e *Engine) refresh(ctx context.Context, categoryID, warehouseID string) {
	failed := pendingRefresh{}
	if categoryID != "" {
		if _, err := e.RecomputeCategoryAggregate(ctx, categoryID); err != nil {
			e.log.Warn().Err(err).Str("category_id", categoryID).Msg("recomputar agregado de categoría")
			failed.categoryID = categoryID
		}
	}
	if warehouseID != "" {
		if _, err := e.RecomputeWarehouseAggregate(ctx, warehouseID); err != nil {
			e.log.Warn().Err(err).Str("warehouse_id", warehouseID).Msg("recomputar agregado de bodega")
			failed.warehouseID = warehouseID
		}
	}
	if failed.categoryID != "" || failed.warehouseID != "" {
		e.mu.Lock()
		e.pending = append(e.pending, failed)
		e.mu.Unlock()
	}
}

// RetryPending reintenta las recomputaciones encoladas (acotado por
// maxRefreshAttempts). Pensado para invocarse desde un ticker en main.
func (e *Engine) RetryPending(ctx context.Context) {
	e.mu.Lock()
	batch := e.pending
	e.pending = nil
	e.mu.Unlock()

	for _, p := range batch {
		retry := pendingRefresh{attempts: p.attempts + 1}
		if p.categoryID != "" {
			if _, err := e.RecomputeCategoryAggregate(ctx, p.categoryID); err != nil {
				retry.categoryID = p.categoryID
			}
		}
		if p.warehouseID != "" {
			if _, err := e.RecomputeWarehouseAggregate(ctx, p.warehouseID); err != nil {
				retry.warehouseID = p.warehouseID
			}
		}
		if retry.categoryID == "" && retry.warehouseID == "" {
			continue
		}
		if retry.attempts >= maxRefreshAttempts {
			e.log.Error().
				Str("category_id", retry.categoryID).
				Str("warehouse_id", retry.warehouseID).
				Msg("recomputación de agregado descartada tras agotar reintentos")
			continue
		}
		e.mu.Lock()
		e.pending = append(e.pending, retry)
		e.mu.Unlock()
	}
}

// CategoryAggregate devuelve el snapshot de la categoría, recomputándolo si
// aún no existe.
func (e *Engine) CategoryAggregate(ctx context.Context, categoryID string) (*entity.CategoryAggregate, error) {
	agg, err := e.aggRepo.GetCategoryAggregate(categoryID)
	if err != nil {
		return nil, err
	}
	if agg == nil {
		return e.RecomputeCategoryAggregate(ctx, categoryID)
	}
	return agg, nil
}

// WarehouseAggregate devuelve el snapshot de la bodega, recomputándolo si
// aún no existe.
func (e *Engine) WarehouseAggregate(ctx context.Context, warehouseID string) (*entity.WarehouseAggregate, error) {
	agg, err := e.aggRepo.GetWarehouseAggregate(warehouseID)
	if err != nil {
		return nil, err
	}
	if agg == nil {
		return e.RecomputeWarehouseAggregate(ctx, warehouseID)
	}
	return agg, nil
}
