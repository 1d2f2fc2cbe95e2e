package memory

import (
	"sort"

	"github.com/google/uuid"
	"github.com/jhoicas/Bodega-api/internal/domain/entity"
	"github.com/jhoicas/Bodega-api/internal/domain/repository"
)

var (
	_ repository.AggregateRepository     = (*AggregateRepo)(nil)
	_ repository.PurchaseOrderRepository = (*PurchaseOrderRepo)(nil)
)

// AggregateRepo snapshots de agregados en memoria.
type AggregateRepo struct {
	store *Store
}

// NewAggregateRepository construye el repositorio sobre el Store compartido.
func NewAggregateRepository(store *Store) *AggregateRepo {
	return &AggregateRepo{store: store}
}

// SaveCategoryAggregate reemplaza el snapshot de la categoría.
func (r *AggregateRepo) SaveCategoryAggregate(agg *entity.CategoryAggregate) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	cp := *agg
	r.store.catAggs[agg.CategoryID] = &cp
	return nil
}

// GetCategoryAggregate devuelve el snapshot, nil si aún no se computó.
func (r *AggregateRepo) GetCategoryAggregate(categoryID string) (*entity.CategoryAggregate, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	if agg, ok := r.store.catAggs[categoryID]; ok {
		cp := *agg
		return &cp, nil
	}
	return nil, nil
}

// SaveWarehouseAggregate reemplaza el snapshot de la bodega.
func (r *AggregateRepo) SaveWarehouseAggregate(agg *entity.WarehouseAggregate) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	cp := *agg
	r.store.whAggs[agg.WarehouseID] = &cp
	return nil
}

// GetWarehouseAggregate devuelve el snapshot, nil si aún no se computó.
func (r *AggregateRepo) GetWarehouseAggregate(warehouseID string) (*entity.WarehouseAggregate, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	if agg, ok := r.store.whAggs[warehouseID]; ok {
		cp := *agg
		return &cp, nil
	}
	return nil, nil
}

// PurchaseOrderRepo órdenes de compra en memoria (indexadas por referencia).
type PurchaseOrderRepo struct {
	store *Store
}

// NewPurchaseOrderRepository construye el repositorio sobre el Store compartido.
func NewPurchaseOrderRepository(store *Store) *PurchaseOrderRepo {
	return &PurchaseOrderRepo{store: store}
}

func clonePO(po *entity.PurchaseOrder) *entity.PurchaseOrder {
	cp := *po
	cp.Lines = append([]entity.PurchaseOrderLine(nil), po.Lines...)
	return &cp
}

// Create persiste una orden asignando id.
func (r *PurchaseOrderRepo) Create(po *entity.PurchaseOrder) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if po.ID == "" {
		po.ID = uuid.New().String()
	}
	r.store.orders[po.ReferenceNo] = clonePO(po)
	return nil
}

// GetByReference devuelve la orden por referencia, nil si no existe.
func (r *PurchaseOrderRepo) GetByReference(referenceNo string) (*entity.PurchaseOrder, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	if po, ok := r.store.orders[referenceNo]; ok {
		return clonePO(po), nil
	}
	return nil, nil
}

// GetForUpdate devuelve la orden por referencia. El mutex global del
// TxRunner ya serializa las transacciones, así que no hay lock por fila.
func (r *PurchaseOrderRepo) GetForUpdate(referenceNo string) (*entity.PurchaseOrder, error) {
	return r.GetByReference(referenceNo)
}

// Update reemplaza la orden.
func (r *PurchaseOrderRepo) Update(po *entity.PurchaseOrder) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.orders[po.ReferenceNo] = clonePO(po)
	return nil
}

// List pagina las órdenes por fecha de creación; limit <= 0 devuelve todo.
func (r *PurchaseOrderRepo) List(limit, offset int) ([]*entity.PurchaseOrder, error) {
	r.store.mu.RLock()
	list := make([]*entity.PurchaseOrder, 0, len(r.store.orders))
	for _, po := range r.store.orders {
		list = append(list, clonePO(po))
	}
	r.store.mu.RUnlock()
	sort.Slice(list, func(i, j int) bool { return list[i].CreatedAt.Before(list[j].CreatedAt) })
	if offset > 0 {
		if offset >= len(list) {
			return nil, nil
		}
		list = list[offset:]
	}
	if limit > 0 && limit < len(list) {
		list = list[:limit]
	}
	return list, nil
}
