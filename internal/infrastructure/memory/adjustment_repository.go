package memory

import (
	"sort"

	"github.com/google/uuid"
	"github.com/jhoicas/Bodega-api/internal/domain/entity"
	"github.com/jhoicas/Bodega-api/internal/domain/repository"
)

var _ repository.AdjustmentRepository = (*AdjustmentRepo)(nil)

// AdjustmentRepo repositorio de ajustes en memoria.
type AdjustmentRepo struct {
	store *Store
}

// NewAdjustmentRepository construye el repositorio sobre el Store compartido.
func NewAdjustmentRepository(store *Store) *AdjustmentRepo {
	return &AdjustmentRepo{store: store}
}

// Create persiste un ajuste nuevo asignando id.
func (r *AdjustmentRepo) Create(adjustment *entity.Adjustment) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if adjustment.ID == "" {
		adjustment.ID = uuid.New().String()
	}
	cp := *adjustment
	r.store.adjustments[adjustment.ID] = &cp
	return nil
}

// GetByID devuelve un ajuste por id, nil si no existe.
func (r *AdjustmentRepo) GetByID(id string) (*entity.Adjustment, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	if adj, ok := r.store.adjustments[id]; ok {
		cp := *adj
		return &cp, nil
	}
	return nil, nil
}

// GetForUpdate en memoria equivale a GetByID: el TxRunner serializa las
// transacciones.
func (r *AdjustmentRepo) GetForUpdate(id string) (*entity.Adjustment, error) {
	return r.GetByID(id)
}

// Update reemplaza el ajuste.
func (r *AdjustmentRepo) Update(adjustment *entity.Adjustment) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	cp := *adjustment
	r.store.adjustments[adjustment.ID] = &cp
	return nil
}

// ListByStatus lista ajustes por estado ordenados por fecha de creación.
func (r *AdjustmentRepo) ListByStatus(status entity.AdjustmentStatus, limit, offset int) ([]*entity.Adjustment, error) {
	r.store.mu.RLock()
	var list []*entity.Adjustment
	for _, adj := range r.store.adjustments {
		if adj.Status == status {
			cp := *adj
			list = append(list, &cp)
		}
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
