package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Bodega-api/internal/domain/entity"
)

// CreateItemRequest body para POST /api/items. El stock inicial no se
// declara aquí: la cantidad en mano solo nace de movimientos.
type CreateItemRequest struct {
	SKU               string          `json:"sku"`
	Name              string          `json:"name"`
	CategoryID        string          `json:"category_id,omitempty"`
	SupplierID        string          `json:"supplier_id,omitempty"`
	WarehouseID       string          `json:"warehouse_id,omitempty"`
	Price             decimal.Decimal `json:"price"`
	ReorderLevel      int64           `json:"reorder_level"`
	MinimumStockLevel *int64          `json:"minimum_stock_level,omitempty"`
}

// UpdateItemRequest body para PUT /api/items/:id. Cambiar categoría o
// bodega por defecto dispara la reconciliación de agregados viejos y nuevos.
type UpdateItemRequest struct {
	Name              string          `json:"name"`
	CategoryID        string          `json:"category_id,omitempty"`
	SupplierID        string          `json:"supplier_id,omitempty"`
	WarehouseID       string          `json:"warehouse_id,omitempty"`
	Price             decimal.Decimal `json:"price"`
	ReorderLevel      int64           `json:"reorder_level"`
	MinimumStockLevel *int64          `json:"minimum_stock_level,omitempty"`
}

// CreateWarehouseRequest body para POST /api/warehouses.
type CreateWarehouseRequest struct {
	Name     string `json:"name"`
	Address  string `json:"address,omitempty"`
	Capacity int64  `json:"capacity,omitempty"`
}

// CreateCategoryRequest body para POST /api/categories.
type CreateCategoryRequest struct {
	Name string `json:"name"`
	Code string `json:"code,omitempty"`
}

// ItemResponse representación HTTP de un artículo del catálogo.
type ItemResponse struct {
	ID                string          `json:"id"`
	SKU               string          `json:"sku"`
	Name              string          `json:"name"`
	CategoryID        string          `json:"category_id,omitempty"`
	SupplierID        string          `json:"supplier_id,omitempty"`
	WarehouseID       string          `json:"warehouse_id,omitempty"`
	Price             decimal.Decimal `json:"price"`
	ReorderLevel      int64           `json:"reorder_level"`
	MinimumStockLevel *int64          `json:"minimum_stock_level,omitempty"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
}

// FromItem construye la respuesta desde la entidad.
func FromItem(i *entity.Item) ItemResponse {
	return ItemResponse{
		ID:                i.ID,
		SKU:               i.SKU,
		Name:              i.Name,
		CategoryID:        i.CategoryID,
		SupplierID:        i.SupplierID,
		WarehouseID:       i.WarehouseID,
		Price:             i.Price,
		ReorderLevel:      i.ReorderLevel,
		MinimumStockLevel: i.MinimumStockLevel,
		CreatedAt:         i.CreatedAt,
		UpdatedAt:         i.UpdatedAt,
	}
}

// WarehouseResponse representación HTTP de una bodega.
type WarehouseResponse struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Address  string `json:"address,omitempty"`
	Capacity int64  `json:"capacity,omitempty"`
}

// FromWarehouse construye la respuesta desde la entidad.
func FromWarehouse(w *entity.Warehouse) WarehouseResponse {
	return WarehouseResponse{ID: w.ID, Name: w.Name, Address: w.Address, Capacity: w.Capacity}
}

// CategoryResponse representación HTTP de una categoría.
type CategoryResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Code string `json:"code,omitempty"`
}

// FromCategory construye la respuesta desde la entidad.
func FromCategory(cat *entity.Category) CategoryResponse {
	return CategoryResponse{ID: cat.ID, Name: cat.Name, Code: cat.Code}
}

// CreateSupplierRequest body para POST /api/suppliers.
type CreateSupplierRequest struct {
	Name    string `json:"name"`
	Contact string `json:"contact,omitempty"`
}

// SupplierResponse representación HTTP de un proveedor.
type SupplierResponse struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Contact string `json:"contact,omitempty"`
}

// FromSupplier construye la respuesta desde la entidad.
func FromSupplier(s *entity.Supplier) SupplierResponse {
	return SupplierResponse{ID: s.ID, Name: s.Name, Contact: s.Contact}
}
