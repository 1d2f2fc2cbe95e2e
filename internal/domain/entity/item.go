package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Item artículo del catálogo. La cantidad en mano NO se guarda aquí de forma
// autoritativa: se deriva del libro de movimientos (StockPosition); una copia
// desnormalizada puede cachearse para lecturas.
type Item struct {
	ID          string
	SKU         string
	Name        string
	CategoryID  string
	SupplierID  string
	WarehouseID string // bodega por defecto
	Price       decimal.Decimal
	// ReorderLevel punto de reorden; MinimumStockLevel lo sobreescribe si está definido.
	ReorderLevel      int64
	MinimumStockLevel *int64
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// LowStockThreshold umbral efectivo de stock bajo:
// MinimumStockLevel si está definido, si no ReorderLevel (cero por defecto).
func (i *Item) LowStockThreshold() int64 {
	if i.MinimumStockLevel != nil {
		return *i.MinimumStockLevel
	}
	return i.ReorderLevel
}
