package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jhoicas/Bodega-api/internal/application/ledger"
	"github.com/jhoicas/Bodega-api/internal/domain/repository"
)

// Ensure TxRunner implements ledger.TxRunner.
var _ ledger.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL. La
// secuencia read-validate-append del libro se serializa por par gracias al
// SELECT FOR UPDATE sobre stock_positions dentro de la misma tx.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// Run inicia una transacción, ejecuta fn con repos atados a la tx y hace
// Commit o Rollback. Los errores de serialización / deadlock de Postgres se
// traducen a domain.ErrConcurrencyConflict para que el llamador reintente.
func (r *TxRunner) Run(ctx context.Context, fn func(
	movRepo repository.MovementRepository,
	posRepo repository.StockPositionRepository,
	adjRepo repository.AdjustmentRepository,
	poRepo repository.PurchaseOrderRepository,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	movRepo := NewMovementRepository(tx)
	posRepo := NewStockPositionRepository(tx)
	adjRepo := NewAdjustmentRepository(tx)
	poRepo := NewPurchaseOrderRepository(tx)

	if err := fn(movRepo, posRepo, adjRepo, poRepo); err != nil {
		return translateConcurrencyError(err)
	}
	if err := tx.Commit(ctx); err != nil {
		return translateConcurrencyError(fmt.Errorf("commit transaction: %w", err))
	}
	return nil
}
