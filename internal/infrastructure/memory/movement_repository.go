package memory

import (
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/Bodega-api/internal/domain"
	"github.com/jhoicas/Bodega-api/internal/domain/entity"
	"github.com/jhoicas/Bodega-api/internal/domain/repository"
)

var _ repository.MovementRepository = (*MovementRepo)(nil)

// MovementRepo libro de movimientos en memoria (append-only).
type MovementRepo struct {
	store *Store
}

// NewMovementRepository construye el repositorio sobre el Store compartido.
func NewMovementRepository(store *Store) *MovementRepo {
	return &MovementRepo{store: store}
}

// Append persiste el movimiento asignando id y secuencia de inserción.
func (r *MovementRepo) Append(movement *entity.MovementRecord) error {
	if movement.ItemID == "" || movement.WarehouseID == "" || movement.Quantity == 0 {
		return domain.ErrValidation
	}
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if movement.ID == "" {
		movement.ID = uuid.New().String()
	}
	movement.Seq = r.store.nextSeq()
	stored := *movement
	r.store.movements = append(r.store.movements, &stored)
	return nil
}

// GetByID devuelve un movimiento por id, nil si no existe.
func (r *MovementRepo) GetByID(id string) (*entity.MovementRecord, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	for _, m := range r.store.movements {
		if m.ID == id {
			cp := *m
			return &cp, nil
		}
	}
	return nil, nil
}

// collect filtra y devuelve copias ordenadas por (Date, Seq) ascendente.
func (r *MovementRepo) collect(match func(*entity.MovementRecord) bool, limit, offset int) []*entity.MovementRecord {
	r.store.mu.RLock()
	var list []*entity.MovementRecord
	for _, m := range r.store.movements {
		if match(m) {
			cp := *m
			list = append(list, &cp)
		}
	}
	r.store.mu.RUnlock()

	sort.SliceStable(list, func(i, j int) bool {
		if !list[i].Date.Equal(list[j].Date) {
			return list[i].Date.Before(list[j].Date)
		}
		return list[i].Seq < list[j].Seq
	})
	if offset > 0 {
		if offset >= len(list) {
			return nil
		}
		list = list[offset:]
	}
	if limit > 0 && limit < len(list) {
		list = list[:limit]
	}
	return list
}

// ListByItem historial de un par (item, bodega).
func (r *MovementRepo) ListByItem(itemID, warehouseID string, limit, offset int) ([]*entity.MovementRecord, error) {
	return r.collect(func(m *entity.MovementRecord) bool {
		return m.ItemID == itemID && m.WarehouseID == warehouseID
	}, limit, offset), nil
}

// ListByReference piernas de una transacción referenciada.
func (r *MovementRepo) ListByReference(referenceNo string) ([]*entity.MovementRecord, error) {
	return r.collect(func(m *entity.MovementRecord) bool {
		return m.ReferenceNo == referenceNo
	}, 0, 0), nil
}

// ListByDateRange movimientos en un rango de fechas (inclusivo).
func (r *MovementRepo) ListByDateRange(from, to *time.Time, limit, offset int) ([]*entity.MovementRecord, error) {
	return r.collect(func(m *entity.MovementRecord) bool {
		if from != nil && m.Date.Before(*from) {
			return false
		}
		if to != nil && m.Date.After(*to) {
			return false
		}
		return true
	}, limit, offset), nil
}

// ListAll recorre el libro completo en orden de inserción (replay).
func (r *MovementRepo) ListAll() ([]*entity.MovementRecord, error) {
	return r.collect(func(*entity.MovementRecord) bool { return true }, 0, 0), nil
}

// SumByPair suma los deltas del par directamente sobre el libro.
func (r *MovementRepo) SumByPair(itemID, warehouseID string) (int64, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	var sum int64
	for _, m := range r.store.movements {
		if m.ItemID == itemID && m.WarehouseID == warehouseID {
			sum += m.Quantity
		}
	}
	return sum, nil
}

// SumByReference devuelve (salidas, entradas) acumuladas para una referencia.
func (r *MovementRepo) SumByReference(referenceNo string) (issued int64, returned int64, err error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	for _, m := range r.store.movements {
		if m.ReferenceNo != referenceNo {
			continue
		}
		if m.Quantity < 0 {
			issued += -m.Quantity
		} else {
			returned += m.Quantity
		}
	}
	return issued, returned, nil
}
