package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// CategoryAggregate modelo de lectura derivado por categoría. Nunca se muta
// de forma independiente: siempre es función pura de catálogo + libro.
type CategoryAggregate struct {
	CategoryID    string
	ItemsCount    int
	LowStockCount int
	TotalValue    decimal.Decimal // sum(cantidad * precio) de los artículos de la categoría
	ComputedAt    time.Time
}

// WarehouseAggregate modelo de lectura derivado por bodega.
type WarehouseAggregate struct {
	WarehouseID   string
	ItemsCount    int
	LowStockCount int
	TotalValue    decimal.Decimal
	ComputedAt    time.Time
}
