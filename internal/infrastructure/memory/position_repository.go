package memory

import (
	"sort"

	"github.com/jhoicas/Bodega-api/internal/domain/entity"
	"github.com/jhoicas/Bodega-api/internal/domain/repository"
)

var _ repository.StockPositionRepository = (*StockPositionRepo)(nil)

// StockPositionRepo índice memoizado de posiciones en memoria.
type StockPositionRepo struct {
	store *Store
}

// NewStockPositionRepository construye el repositorio sobre el Store compartido.
func NewStockPositionRepository(store *Store) *StockPositionRepo {
	return &StockPositionRepo{store: store}
}

// Get devuelve la posición actual; posición cero si el par no existe.
func (r *StockPositionRepo) Get(itemID, warehouseID string) (*entity.StockPosition, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	if pos, ok := r.store.positions[pairKey(itemID, warehouseID)]; ok {
		cp := *pos
		return &cp, nil
	}
	return &entity.StockPosition{ItemID: itemID, WarehouseID: warehouseID}, nil
}

// GetForUpdate en memoria equivale a Get: la serialización la da el TxRunner,
// que ejecuta las transacciones una a la vez.
func (r *StockPositionRepo) GetForUpdate(itemID, warehouseID string) (*entity.StockPosition, error) {
	return r.Get(itemID, warehouseID)
}

// Upsert inserta o reemplaza la posición del par.
func (r *StockPositionRepo) Upsert(position *entity.StockPosition) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	cp := *position
	r.store.positions[pairKey(position.ItemID, position.WarehouseID)] = &cp
	return nil
}

func (r *StockPositionRepo) list(match func(*entity.StockPosition) bool) []*entity.StockPosition {
	r.store.mu.RLock()
	var list []*entity.StockPosition
	for _, pos := range r.store.positions {
		if match(pos) {
			cp := *pos
			list = append(list, &cp)
		}
	}
	r.store.mu.RUnlock()
	sort.Slice(list, func(i, j int) bool {
		if list[i].ItemID != list[j].ItemID {
			return list[i].ItemID < list[j].ItemID
		}
		return list[i].WarehouseID < list[j].WarehouseID
	})
	return list
}

// ListByItem posiciones de un artículo en todas las bodegas.
func (r *StockPositionRepo) ListByItem(itemID string) ([]*entity.StockPosition, error) {
	return r.list(func(p *entity.StockPosition) bool { return p.ItemID == itemID }), nil
}

// ListByWarehouse posiciones de una bodega.
func (r *StockPositionRepo) ListByWarehouse(warehouseID string) ([]*entity.StockPosition, error) {
	return r.list(func(p *entity.StockPosition) bool { return p.WarehouseID == warehouseID }), nil
}

// ListAll todas las posiciones del índice.
func (r *StockPositionRepo) ListAll() ([]*entity.StockPosition, error) {
	return r.list(func(*entity.StockPosition) bool { return true }), nil
}

// DeleteAll vacía el índice antes de una reconstrucción por replay.
func (r *StockPositionRepo) DeleteAll() error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.positions = make(map[string]*entity.StockPosition)
	return nil
}
