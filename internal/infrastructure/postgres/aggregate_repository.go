package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/Bodega-api/internal/domain/entity"
	"github.com/jhoicas/Bodega-api/internal/domain/repository"
)

var _ repository.AggregateRepository = (*AggregateRepo)(nil)

// AggregateRepo snapshots derivados por categoría y bodega sobre PostgreSQL.
// Solo el motor de reconciliación escribe aquí.
type AggregateRepo struct {
	q Querier
}

// NewAggregateRepository construye el adaptador. Pasar pool o tx (Querier).
func NewAggregateRepository(q Querier) *AggregateRepo {
	return &AggregateRepo{q: q}
}

// SaveCategoryAggregate reemplaza el snapshot de la categoría.
func (r *AggregateRepo) SaveCategoryAggregate(agg *entity.CategoryAggregate) error {
	query := `
		INSERT INTO category_aggregates (category_id, items_count, low_stock_count, total_value, computed_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (category_id)
		DO UPDATE SET items_count = EXCLUDED.items_count, low_stock_count = EXCLUDED.low_stock_count,
		              total_value = EXCLUDED.total_value, computed_at = EXCLUDED.computed_at`
	_, err := r.q.Exec(context.Background(), query,
		agg.CategoryID, agg.ItemsCount, agg.LowStockCount, agg.TotalValue, agg.ComputedAt,
	)
	if err != nil {
		return fmt.Errorf("save category aggregate: %w", err)
	}
	return nil
}

// GetCategoryAggregate devuelve el snapshot vigente, o nil si nunca se computó.
func (r *AggregateRepo) GetCategoryAggregate(categoryID string) (*entity.CategoryAggregate, error) {
	query := `
		SELECT category_id, items_count, low_stock_count, total_value, computed_at
		FROM category_aggregates WHERE category_id = $1`
	var a entity.CategoryAggregate
	err := r.q.QueryRow(context.Background(), query, categoryID).Scan(
		&a.CategoryID, &a.ItemsCount, &a.LowStockCount, &a.TotalValue, &a.ComputedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get category aggregate: %w", err)
	}
	return &a, nil
}

// SaveWarehouseAggregate reemplaza el snapshot de la bodega.
func (r *AggregateRepo) SaveWarehouseAggregate(agg *entity.WarehouseAggregate) error {
	query := `
		INSERT INTO warehouse_aggregates (warehouse_id, items_count, low_stock_count, total_value, computed_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (warehouse_id)
		DO UPDATE SET items_count = EXCLUDED.items_count, low_stock_count = EXCLUDED.low_stock_count,
		              total_value = EXCLUDED.total_value, computed_at = EXCLUDED.computed_at`
	_, err := r.q.Exec(context.Background(), query,
		agg.WarehouseID, agg.ItemsCount, agg.LowStockCount, agg.TotalValue, agg.ComputedAt,
	)
	if err != nil {
		return fmt.Errorf("save warehouse aggregate: %w", err)
	}
	return nil
}

// GetWarehouseAggregate devuelve el snapshot vigente, o nil si nunca se computó.
func (r *AggregateRepo) GetWarehouseAggregate(warehouseID string) (*entity.WarehouseAggregate, error) {
	query := `
		SELECT warehouse_id, items_count, low_stock_count, total_value, computed_at
		FROM warehouse_aggregates WHERE warehouse_id = $1`
	var a entity.WarehouseAggregate
	err := r.q.QueryRow(context.Background(), query, warehouseID).Scan(
		&a.WarehouseID, &a.ItemsCount, &a.LowStockCount, &a.TotalValue, &a.ComputedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get warehouse aggregate: %w", err)
	}
	return &a, nil
}
