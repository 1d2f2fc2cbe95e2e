package memory

import (
	"sort"

	"github.com/google/uuid"
	"github.com/jhoicas/Bodega-api/internal/domain/entity"
	"github.com/jhoicas/Bodega-api/internal/domain/repository"
)

var (
	_ repository.ItemRepository      = (*ItemRepo)(nil)
	_ repository.WarehouseRepository = (*WarehouseRepo)(nil)
	_ repository.CategoryRepository  = (*CategoryRepo)(nil)
	_ repository.SupplierRepository  = (*SupplierRepo)(nil)
)

// ItemRepo catálogo de artículos en memoria.
type ItemRepo struct {
	store *Store
}

// NewItemRepository construye el repositorio sobre el Store compartido.
func NewItemRepository(store *Store) *ItemRepo {
	return &ItemRepo{store: store}
}

// Create persiste un artículo asignando id.
func (r *ItemRepo) Create(item *entity.Item) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if item.ID == "" {
		item.ID = uuid.New().String()
	}
	cp := *item
	r.store.items[item.ID] = &cp
	return nil
}

// GetByID devuelve un artículo por id, nil si no existe.
func (r *ItemRepo) GetByID(id string) (*entity.Item, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	if item, ok := r.store.items[id]; ok {
		cp := *item
		return &cp, nil
	}
	return nil, nil
}

// Update reemplaza el artículo.
func (r *ItemRepo) Update(item *entity.Item) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	cp := *item
	r.store.items[item.ID] = &cp
	return nil
}

// List pagina el catálogo ordenado por nombre; limit <= 0 devuelve todo.
func (r *ItemRepo) List(limit, offset int) ([]*entity.Item, error) {
	r.store.mu.RLock()
	list := make([]*entity.Item, 0, len(r.store.items))
	for _, item := range r.store.items {
		cp := *item
		list = append(list, &cp)
	}
	r.store.mu.RUnlock()
	sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })
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

// ListByCategory artículos de una categoría.
func (r *ItemRepo) ListByCategory(categoryID string) ([]*entity.Item, error) {
	r.store.mu.RLock()
	var list []*entity.Item
	for _, item := range r.store.items {
		if item.CategoryID == categoryID {
			cp := *item
			list = append(list, &cp)
		}
	}
	r.store.mu.RUnlock()
	sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })
	return list, nil
}

// WarehouseRepo bodegas en memoria.
type WarehouseRepo struct {
	store *Store
}

// NewWarehouseRepository construye el repositorio sobre el Store compartido.
func NewWarehouseRepository(store *Store) *WarehouseRepo {
	return &WarehouseRepo{store: store}
}

// Create persiste una bodega asignando id.
func (r *WarehouseRepo) Create(warehouse *entity.Warehouse) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if warehouse.ID == "" {
		warehouse.ID = uuid.New().String()
	}
	cp := *warehouse
	r.store.warehouses[warehouse.ID] = &cp
	return nil
}

// GetByID devuelve una bodega por id, nil si no existe.
func (r *WarehouseRepo) GetByID(id string) (*entity.Warehouse, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	if wh, ok := r.store.warehouses[id]; ok {
		cp := *wh
		return &cp, nil
	}
	return nil, nil
}

// Update reemplaza la bodega.
func (r *WarehouseRepo) Update(warehouse *entity.Warehouse) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	cp := *warehouse
	r.store.warehouses[warehouse.ID] = &cp
	return nil
}

// List pagina las bodegas ordenadas por nombre; limit <= 0 devuelve todo.
func (r *WarehouseRepo) List(limit, offset int) ([]*entity.Warehouse, error) {
	r.store.mu.RLock()
	list := make([]*entity.Warehouse, 0, len(r.store.warehouses))
	for _, wh := range r.store.warehouses {
		cp := *wh
		list = append(list, &cp)
	}
	r.store.mu.RUnlock()
	sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })
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

// CategoryRepo categorías en memoria.
type CategoryRepo struct {
	store *Store
}

// NewCategoryRepository construye el repositorio sobre el Store compartido.
func NewCategoryRepository(store *Store) *CategoryRepo {
	return &CategoryRepo{store: store}
}

// Create persiste una categoría asignando id.
func (r *CategoryRepo) Create(category *entity.Category) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if category.ID == "" {
		category.ID = uuid.New().String()
	}
	cp := *category
	r.store.categories[category.ID] = &cp
	return nil
}

// GetByID devuelve una categoría por id, nil si no existe.
func (r *CategoryRepo) GetByID(id string) (*entity.Category, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	if cat, ok := r.store.categories[id]; ok {
		cp := *cat
		return &cp, nil
	}
	return nil, nil
}

// List pagina las categorías ordenadas por nombre; limit <= 0 devuelve todo.
func (r *CategoryRepo) List(limit, offset int) ([]*entity.Category, error) {
	r.store.mu.RLock()
	list := make([]*entity.Category, 0, len(r.store.categories))
	for _, cat := range r.store.categories {
		cp := *cat
		list = append(list, &cp)
	}
	r.store.mu.RUnlock()
	sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })
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

// SupplierRepo proveedores en memoria.
type SupplierRepo struct {
	store *Store
}

// NewSupplierRepository construye el repositorio sobre el Store compartido.
func NewSupplierRepository(store *Store) *SupplierRepo {
	return &SupplierRepo{store: store}
}

// Create persiste un proveedor asignando id.
func (r *SupplierRepo) Create(supplier *entity.Supplier) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if supplier.ID == "" {
		supplier.ID = uuid.New().String()
	}
	cp := *supplier
	r.store.suppliers[supplier.ID] = &cp
	return nil
}

// GetByID devuelve un proveedor por id, nil si no existe.
func (r *SupplierRepo) GetByID(id string) (*entity.Supplier, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	if sup, ok := r.store.suppliers[id]; ok {
		cp := *sup
		return &cp, nil
	}
	return nil, nil
}

// List pagina los proveedores ordenados por nombre; limit <= 0 devuelve todo.
func (r *SupplierRepo) List(limit, offset int) ([]*entity.Supplier, error) {
	r.store.mu.RLock()
	list := make([]*entity.Supplier, 0, len(r.store.suppliers))
	for _, sup := range r.store.suppliers {
		cp := *sup
		list = append(list, &cp)
	}
	r.store.mu.RUnlock()
	sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })
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
