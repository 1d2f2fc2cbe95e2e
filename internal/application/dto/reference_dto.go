package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Bodega-api/internal/domain/entity"
)

// CheckoutRequest body para POST /api/checkouts (primera pierna de una
// transacción referenciada). ReferenceNo vacío genera una referencia nueva.
type CheckoutRequest struct {
	ReferenceNo string `json:"reference_no,omitempty"`
	ItemID      string `json:"item_id"`
	WarehouseID string `json:"warehouse_id"`
	Quantity    int64  `json:"quantity"`
	Person      string `json:"person"`
	Notes       string `json:"notes,omitempty"`
}

// ReturnRequest body para POST /api/returns (segunda pierna).
type ReturnRequest struct {
	ReferenceNo string `json:"reference_no"`
	Quantity    int64  `json:"quantity"`
	Person      string `json:"person,omitempty"`
}

// ReceiveOrderRequest body para POST /api/purchase-orders/:ref/receive.
type ReceiveOrderRequest struct {
	Lines []ReceiveOrderLine `json:"lines"`
	Actor string             `json:"actor,omitempty"`
}

// ReceiveOrderLine línea de recepción.
type ReceiveOrderLine struct {
	ItemID      string `json:"item_id"`
	WarehouseID string `json:"warehouse_id"`
	Quantity    int64  `json:"quantity"`
}

// PurchaseOrderResponse representación HTTP de una orden de compra.
type PurchaseOrderResponse struct {
	ID          string                      `json:"id"`
	ReferenceNo string                      `json:"reference_no"`
	SupplierID  string                      `json:"supplier_id,omitempty"`
	Status      string                      `json:"status"`
	Lines       []PurchaseOrderLineResponse `json:"lines"`
	Notes       string                      `json:"notes,omitempty"`
	CreatedAt   time.Time                   `json:"created_at"`
}

// PurchaseOrderLineResponse línea de la orden.
type PurchaseOrderLineResponse struct {
	ItemID      string          `json:"item_id"`
	WarehouseID string          `json:"warehouse_id"`
	Quantity    int64           `json:"quantity"`
	UnitCost    decimal.Decimal `json:"unit_cost"`
}

// FromPurchaseOrder construye la respuesta desde la entidad.
func FromPurchaseOrder(po *entity.PurchaseOrder) PurchaseOrderResponse {
	lines := make([]PurchaseOrderLineResponse, 0, len(po.Lines))
	for _, l := range po.Lines {
		lines = append(lines, PurchaseOrderLineResponse{
			ItemID:      l.ItemID,
			WarehouseID: l.WarehouseID,
			Quantity:    l.Quantity,
			UnitCost:    l.UnitCost,
		})
	}
	return PurchaseOrderResponse{
		ID:          po.ID,
		ReferenceNo: po.ReferenceNo,
		SupplierID:  po.SupplierID,
		Status:      string(po.Status),
		Lines:       lines,
		Notes:       po.Notes,
		CreatedAt:   po.CreatedAt,
	}
}
