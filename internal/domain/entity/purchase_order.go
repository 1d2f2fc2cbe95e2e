package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de una orden de compra. El núcleo solo crea borradores (reorden
// sugerido) y registra recepciones; la gestión completa del ciclo es externa.
type PurchaseOrderStatus string

const (
	PurchaseOrderStatusDraft    PurchaseOrderStatus = "DRAFT"
	PurchaseOrderStatusOrdered  PurchaseOrderStatus = "ORDERED"
	PurchaseOrderStatusReceived PurchaseOrderStatus = "RECEIVED"
)

// PurchaseOrderLine línea de una orden de compra. La recepción contra la
// orden no puede exceder Quantity por línea (guardia de sobre-aplicación).
type PurchaseOrderLine struct {
	ItemID      string
	WarehouseID string
	Quantity    int64
	UnitCost    decimal.Decimal
}

// PurchaseOrder orden de compra identificada por ReferenceNo; las
// recepciones se registran como movimientos IN etiquetados con esa referencia.
type PurchaseOrder struct {
	ID          string
	ReferenceNo string
	SupplierID  string
	Status      PurchaseOrderStatus
	Lines       []PurchaseOrderLine
	Notes       string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Line devuelve la línea para un par (item, bodega), o nil si no existe.
func (po *PurchaseOrder) Line(itemID, warehouseID string) *PurchaseOrderLine {
	for i := range po.Lines {
		l := &po.Lines[i]
		if l.ItemID == itemID && l.WarehouseID == warehouseID {
			return l
		}
	}
	return nil
}
