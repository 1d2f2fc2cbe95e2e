package repository

import (
	"time"

	"github.com/jhoicas/Bodega-api/internal/domain/entity"
)

// MovementRepository puerto de persistencia del libro de movimientos
// (append-only). Append es la única mutación; no hay update ni delete.
// Las consultas devuelven los movimientos ordenados por (Date, Seq)
// ascendente: Seq es el desempate autoritativo cuando los timestamps
// colisionan.
type MovementRepository interface {
	// Append persiste el movimiento asignando id y secuencia de inserción.
	Append(movement *entity.MovementRecord) error
	GetByID(id string) (*entity.MovementRecord, error)
	ListByItem(itemID, warehouseID string, limit, offset int) ([]*entity.MovementRecord, error)
	ListByReference(referenceNo string) ([]*entity.MovementRecord, error)
	ListByDateRange(from, to *time.Time, limit, offset int) ([]*entity.MovementRecord, error)
	// ListAll recorre el libro completo en orden de inserción (replay).
	ListAll() ([]*entity.MovementRecord, error)
	// SumByPair suma los deltas del par directamente sobre el libro
	// (verificación de deriva contra el índice memoizado).
	SumByPair(itemID, warehouseID string) (int64, error)
	// SumByReference devuelve (salidas, entradas) acumuladas para una
	// referencia: la guardia de sobre-devolución compara contra estos totales.
	SumByReference(referenceNo string) (issued int64, returned int64, err error)
}
