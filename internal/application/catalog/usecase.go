package catalog

import (
	"context"
	"time"

	"github.com/jhoicas/Bodega-api/internal/application/dto"
	"github.com/jhoicas/Bodega-api/internal/application/reconcile"
	"github.com/jhoicas/Bodega-api/internal/domain"
	"github.com/jhoicas/Bodega-api/internal/domain/entity"
	"github.com/jhoicas/Bodega-api/internal/domain/repository"
)

// UseCase gestión mínima de catálogo: los artículos, bodegas y categorías
// son insumos del motor de reconciliación. La UX completa de catálogo
// (búsqueda, paginación avanzada) queda fuera del núcleo.
type UseCase struct {
	itemRepo      repository.ItemRepository
	warehouseRepo repository.WarehouseRepository
	categoryRepo  repository.CategoryRepository
	supplierRepo  repository.SupplierRepository
	reconciler    *reconcile.Engine
}

// NewUseCase construye el caso de uso de catálogo.
func NewUseCase(
	itemRepo repository.ItemRepository,
	warehouseRepo repository.WarehouseRepository,
	categoryRepo repository.CategoryRepository,
	supplierRepo repository.SupplierRepository,
	reconciler *reconcile.Engine,
) *UseCase {
	return &UseCase{
		itemRepo:      itemRepo,
		warehouseRepo: warehouseRepo,
		categoryRepo:  categoryRepo,
		supplierRepo:  supplierRepo,
		reconciler:    reconciler,
	}
}

// CreateItem alta de artículo. La cantidad en mano nace en cero: solo los
// movimientos del libro la cambian.
func (uc *UseCase) CreateItem(ctx context.Context, in dto.CreateItemRequest) (*entity.Item, error) {
	if in.Name == "" || in.SKU == "" {
		return nil, domain.ErrValidation
	}
	if in.ReorderLevel < 0 || (in.MinimumStockLevel != nil && *in.MinimumStockLevel < 0) {
		return nil, domain.ErrValidation
	}
	now := time.Now()
	item := &entity.Item{
		SKU:               in.SKU,
		Name:              in.Name,
		CategoryID:        in.CategoryID,
		SupplierID:        in.SupplierID,
		WarehouseID:       in.WarehouseID,
		Price:             in.Price,
		ReorderLevel:      in.ReorderLevel,
		MinimumStockLevel: in.MinimumStockLevel,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if err := uc.itemRepo.Create(item); err != nil {
		return nil, err
	}
	return item, nil
}

// UpdateItem edición de catálogo. Si cambia la categoría o la bodega por
// defecto, se recomputan los agregados viejos Y los nuevos.
func (uc *UseCase) UpdateItem(ctx context.Context, id string, in dto.UpdateItemRequest) (*entity.Item, error) {
	item, err := uc.itemRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrNotFound
	}
	if in.Name == "" || in.ReorderLevel < 0 {
		return nil, domain.ErrValidation
	}
	oldCategoryID, oldWarehouseID := item.CategoryID, item.WarehouseID

	item.Name = in.Name
	item.CategoryID = in.CategoryID
	item.SupplierID = in.SupplierID
	item.WarehouseID = in.WarehouseID
	item.Price = in.Price
	item.ReorderLevel = in.ReorderLevel
	item.MinimumStockLevel = in.MinimumStockLevel
	item.UpdatedAt = time.Now()
	if err := uc.itemRepo.Update(item); err != nil {
		return nil, err
	}
	if uc.reconciler != nil {
		uc.reconciler.RefreshAfterItemEdit(ctx, oldCategoryID, item.CategoryID, oldWarehouseID, item.WarehouseID)
	}
	return item, nil
}

// GetItem devuelve un artículo por id.
func (uc *UseCase) GetItem(ctx context.Context, id string) (*entity.Item, error) {
	item, err := uc.itemRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrNotFound
	}
	return item, nil
}

// ListItems lista paginada del catálogo.
func (uc *UseCase) ListItems(ctx context.Context, limit, offset int) ([]*entity.Item, error) {
	return uc.itemRepo.List(limit, offset)
}

// CreateWarehouse alta de bodega.
func (uc *UseCase) CreateWarehouse(ctx context.Context, in dto.CreateWarehouseRequest) (*entity.Warehouse, error) {
	if in.Name == "" || in.Capacity < 0 {
		return nil, domain.ErrValidation
	}
	now := time.Now()
	wh := &entity.Warehouse{
		Name:      in.Name,
		Address:   in.Address,
		Capacity:  in.Capacity,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.warehouseRepo.Create(wh); err != nil {
		return nil, err
	}
	return wh, nil
}

// ListWarehouses lista paginada de bodegas.
func (uc *UseCase) ListWarehouses(ctx context.Context, limit, offset int) ([]*entity.Warehouse, error) {
	return uc.warehouseRepo.List(limit, offset)
}

// CreateCategory alta de categoría.
func (uc *UseCase) CreateCategory(ctx context.Context, in dto.CreateCategoryRequest) (*entity.Category, error) {
	if in.Name == "" {
		return nil, domain.ErrValidation
	}
	now := time.Now()
	cat := &entity.Category{
		Name:      in.Name,
		Code:      in.Code,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.categoryRepo.Create(cat); err != nil {
		return nil, err
	}
	return cat, nil
}

// ListCategories lista paginada de categorías.
func (uc *UseCase) ListCategories(ctx context.Context, limit, offset int) ([]*entity.Category, error) {
	return uc.categoryRepo.List(limit, offset)
}

// CreateSupplier alta de proveedor.
func (uc *UseCase) CreateSupplier(ctx context.Context, in dto.CreateSupplierRequest) (*entity.Supplier, error) {
	if in.Name == "" {
		return nil, domain.ErrValidation
	}
	now := time.Now()
	sup := &entity.Supplier{
		Name:      in.Name,
		Contact:   in.Contact,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.supplierRepo.Create(sup); err != nil {
		return nil, err
	}
	return sup, nil
}

// ListSuppliers lista paginada de proveedores.
func (uc *UseCase) ListSuppliers(ctx context.Context, limit, offset int) ([]*entity.Supplier, error) {
	return uc.supplierRepo.List(limit, offset)
}
