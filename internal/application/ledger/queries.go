package ledger

import (
	"context"
	"time"

	"github.com/jhoicas/Bodega-api/internal/domain/entity"
)

// Consultas de solo lectura sobre el libro. Todas devuelven los movimientos
// en orden ascendente por (fecha, secuencia de inserción).

// MovementsByItem historial de un par (item, bodega).
func (a *Aggregator) MovementsByItem(ctx context.Context, itemID, warehouseID string, limit, offset int) ([]*entity.MovementRecord, error) {
	return a.movRepo.ListByItem(itemID, warehouseID, limit, offset)
}

// MovementsByReference piernas de una transacción referenciada
// (checkout/devolución, emisión/recepción de OC).
func (a *Aggregator) MovementsByReference(ctx context.Context, referenceNo string) ([]*entity.MovementRecord, error) {
	return a.movRepo.ListByReference(referenceNo)
}

// MovementsByDateRange movimientos recientes para el tablero.
func (a *Aggregator) MovementsByDateRange(ctx context.Context, from, to *time.Time, limit, offset int) ([]*entity.MovementRecord, error) {
	return a.movRepo.ListByDateRange(from, to, limit, offset)
}

// Positions índice completo de posiciones (todas las bodegas).
func (a *Aggregator) Positions(ctx context.Context) ([]*entity.StockPosition, error) {
	return a.posRepo.ListAll()
}

// PositionsByItem posiciones de un artículo en todas las bodegas.
func (a *Aggregator) PositionsByItem(ctx context.Context, itemID string) ([]*entity.StockPosition, error) {
	return a.posRepo.ListByItem(itemID)
}

// PositionsByWarehouse posiciones de una bodega.
func (a *Aggregator) PositionsByWarehouse(ctx context.Context, warehouseID string) ([]*entity.StockPosition, error) {
	return a.posRepo.ListByWarehouse(warehouseID)
}

// Movement busca un movimiento individual del libro.
func (a *Aggregator) Movement(ctx context.Context, id string) (*entity.MovementRecord, error) {
	return a.movRepo.GetByID(id)
}
