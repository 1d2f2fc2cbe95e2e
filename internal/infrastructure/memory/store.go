package memory

import (
	"sync"

	"github.com/jhoicas/Bodega-api/internal/domain/entity"
)

// Store almacenamiento en memoria compartido por los repositorios del
// paquete. Respaldado por mapas con RWMutex; útil para la suite de tests y
// para correr el servicio sin PostgreSQL.
type Store struct {
	mu sync.RWMutex

	movements   []*entity.MovementRecord
	positions   map[string]*entity.StockPosition
	adjustments map[string]*entity.Adjustment
	items       map[string]*entity.Item
	warehouses  map[string]*entity.Warehouse
	categories  map[string]*entity.Category
	suppliers   map[string]*entity.Supplier
	catAggs     map[string]*entity.CategoryAggregate
	whAggs      map[string]*entity.WarehouseAggregate
	orders      map[string]*entity.PurchaseOrder // por referencia

	seq int64
}

// NewStore construye el almacenamiento vacío.
func NewStore() *Store {
	return &Store{
		positions:   make(map[string]*entity.StockPosition),
		adjustments: make(map[string]*entity.Adjustment),
		items:       make(map[string]*entity.Item),
		warehouses:  make(map[string]*entity.Warehouse),
		categories:  make(map[string]*entity.Category),
		suppliers:   make(map[string]*entity.Supplier),
		catAggs:     make(map[string]*entity.CategoryAggregate),
		whAggs:      make(map[string]*entity.WarehouseAggregate),
		orders:      make(map[string]*entity.PurchaseOrder),
	}
}

func pairKey(itemID, warehouseID string) string { return itemID + "|" + warehouseID }

// nextSeq asigna la siguiente secuencia de inserción (con s.mu tomado).
func (s *Store) nextSeq() int64 {
	s.seq++
	return s.seq
}
