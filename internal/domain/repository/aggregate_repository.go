package repository

import "github.com/jhoicas/Bodega-api/internal/domain/entity"

// AggregateRepository puerto de persistencia de los snapshots derivados por
// categoría y bodega. Solo el motor de reconciliación escribe aquí; los
// snapshots nunca se mantienen a mano de forma incremental.
type AggregateRepository interface {
	SaveCategoryAggregate(agg *entity.CategoryAggregate) error
	GetCategoryAggregate(categoryID string) (*entity.CategoryAggregate, error)
	SaveWarehouseAggregate(agg *entity.WarehouseAggregate) error
	GetWarehouseAggregate(warehouseID string) (*entity.WarehouseAggregate, error)
}
