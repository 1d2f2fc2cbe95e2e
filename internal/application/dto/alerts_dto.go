package dto

import "github.com/shopspring/decimal"

// LowStockItemDTO artículo bajo umbral para GET /api/alerts/low-stock.
type LowStockItemDTO struct {
	ItemID       string `json:"item_id"`
	SKU          string `json:"sku"`
	Name         string `json:"name"`
	Quantity     int64  `json:"quantity"`
	Threshold    int64  `json:"threshold"`
	SuggestedQty int64  `json:"suggested_qty"`
}

// ReorderRequestDTO body para POST /api/alerts/reorder.
type ReorderRequestDTO struct {
	Items []ReorderLineDTO `json:"items"`
}

// ReorderLineDTO línea solicitada; Qty cero usa la cantidad sugerida.
type ReorderLineDTO struct {
	ItemID      string `json:"item_id"`
	Qty         int64  `json:"qty,omitempty"`
	WarehouseID string `json:"warehouse_id,omitempty"`
}

// AggregateResponse snapshot derivado por categoría o bodega.
type AggregateResponse struct {
	ID            string          `json:"id"`
	ItemsCount    int             `json:"items_count"`
	LowStockCount int             `json:"low_stock_count"`
	TotalValue    decimal.Decimal `json:"total_value"`
}
