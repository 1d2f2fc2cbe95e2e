package repository

import "github.com/jhoicas/Bodega-api/internal/domain/entity"

// AdjustmentRepository puerto de persistencia para ajustes de stock.
type AdjustmentRepository interface {
	Create(adjustment *entity.Adjustment) error
	GetByID(id string) (*entity.Adjustment, error)
	// GetForUpdate bloquea la fila del ajuste para la transición de estado.
	GetForUpdate(id string) (*entity.Adjustment, error)
	Update(adjustment *entity.Adjustment) error
	ListByStatus(status entity.AdjustmentStatus, limit, offset int) ([]*entity.Adjustment, error)
}
