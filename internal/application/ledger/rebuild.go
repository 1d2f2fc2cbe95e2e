package ledger

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/Bodega-api/internal/domain/entity"
	"github.com/jhoicas/Bodega-api/internal/domain/repository"
)

// pairKey clave del índice en memoria durante el replay.
type pairKey struct{ itemID, warehouseID string }

// foldMovements pliega el libro completo en cantidades por par.
func foldMovements(movements []*entity.MovementRecord) map[pairKey]int64 {
	sums := make(map[pairKey]int64, len(movements))
	for _, m := range movements {
		sums[pairKey{m.ItemID, m.WarehouseID}] += m.Quantity
	}
	return sums
}

// RebuildPositions reconstruye el índice de posiciones desde cero replicando
// el libro completo (recuperación, o tras un borrado administrativo de
// movimientos). Corre en una sola transacción.
func (a *Aggregator) RebuildPositions(ctx context.Context) error {
	return a.txRunner.Run(ctx, func(
		movRepo repository.MovementRepository,
		posRepo repository.StockPositionRepository,
		_ repository.AdjustmentRepository,
		_ repository.PurchaseOrderRepository,
	) error {
		movements, err := movRepo.ListAll()
		if err != nil {
			return err
		}
		if err := posRepo.DeleteAll(); err != nil {
			return err
		}
		now := time.Now()
		for key, qty := range foldMovements(movements) {
			pos := &entity.StockPosition{
				ItemID:      key.itemID,
				WarehouseID: key.warehouseID,
				Quantity:    qty,
				UpdatedAt:   now,
			}
			if err := posRepo.Upsert(pos); err != nil {
				return err
			}
		}
		return nil
	})
}

// PositionDrift discrepancia entre el índice memoizado y el replay del libro.
type PositionDrift struct {
	ItemID      string
	WarehouseID string
	Indexed     int64
	Replayed    int64
}

// VerifyPositions replica el libro y compara contra el índice memoizado.
// Devuelve las discrepancias encontradas; vacío significa sin deriva.
func (a *Aggregator) VerifyPositions(ctx context.Context) ([]PositionDrift, error) {
	movements, err := a.movRepo.ListAll()
	if err != nil {
		return nil, fmt.Errorf("replay del libro: %w", err)
	}
	replayed := foldMovements(movements)

	positions, err := a.posRepo.ListAll()
	if err != nil {
		return nil, fmt.Errorf("leer posiciones: %w", err)
	}
	indexed := make(map[pairKey]int64, len(positions))
	for _, p := range positions {
		indexed[pairKey{p.ItemID, p.WarehouseID}] = p.Quantity
	}

	var drifts []PositionDrift
	for key, want := range replayed {
		if got := indexed[key]; got != want {
			drifts = append(drifts, PositionDrift{key.itemID, key.warehouseID, got, want})
		}
		delete(indexed, key)
	}
	// Posiciones sin respaldo en el libro (distintas de cero) también son deriva.
	for key, got := range indexed {
		if got != 0 {
			drifts = append(drifts, PositionDrift{key.itemID, key.warehouseID, got, 0})
		}
	}
	return drifts, nil
}
