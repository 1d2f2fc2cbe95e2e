package repository

import "github.com/jhoicas/Bodega-api/internal/domain/entity"

// PurchaseOrderRepository puerto de persistencia para órdenes de compra
// (borradores de reorden y recepciones contra referencia).
type PurchaseOrderRepository interface {
	Create(po *entity.PurchaseOrder) error
	GetByReference(referenceNo string) (*entity.PurchaseOrder, error)
	// GetForUpdate lee la orden bloqueando su fila dentro de la tx en curso:
	// serializa recepciones concurrentes contra la misma orden.
	GetForUpdate(referenceNo string) (*entity.PurchaseOrder, error)
	Update(po *entity.PurchaseOrder) error
	List(limit, offset int) ([]*entity.PurchaseOrder, error)
}
