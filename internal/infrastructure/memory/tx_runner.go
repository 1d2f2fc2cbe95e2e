package memory

import (
	"context"
	"sync"

	"github.com/jhoicas/Bodega-api/internal/application/ledger"
	"github.com/jhoicas/Bodega-api/internal/domain/repository"
)

var _ ledger.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta los callbacks transaccionales serializados con un mutex:
// equivale al bloqueo por fila de la implementación PostgreSQL, con grano
// más grueso. No hay rollback: los casos de uso del núcleo validan todo
// antes de escribir, así que un callback que falla no deja escrituras
// parciales.
type TxRunner struct {
	mu      sync.Mutex
	movRepo repository.MovementRepository
	posRepo repository.StockPositionRepository
	adjRepo repository.AdjustmentRepository
	poRepo  repository.PurchaseOrderRepository
}

// NewTxRunner construye el runner sobre el Store compartido.
func NewTxRunner(store *Store) *TxRunner {
	return &TxRunner{
		movRepo: NewMovementRepository(store),
		posRepo: NewStockPositionRepository(store),
		adjRepo: NewAdjustmentRepository(store),
		poRepo:  NewPurchaseOrderRepository(store),
	}
}

// Run serializa la transacción y ejecuta fn con los repositorios.
func (r *TxRunner) Run(ctx context.Context, fn func(
	movRepo repository.MovementRepository,
	posRepo repository.StockPositionRepository,
	adjRepo repository.AdjustmentRepository,
	poRepo repository.PurchaseOrderRepository,
) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return fn(r.movRepo, r.posRepo, r.adjRepo, r.poRepo)
}
