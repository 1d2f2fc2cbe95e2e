package ledger

import (
	"context"

	"github.com/jhoicas/Bodega-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción, pasando
// repositorios atados a esa tx. Garantiza la serialización por par
// (item, bodega) del ciclo read-validate-append: la implementación de
// PostgreSQL bloquea la fila de la posición (SELECT FOR UPDATE) y la de
// memoria serializa las transacciones con un mutex.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		movRepo repository.MovementRepository,
		posRepo repository.StockPositionRepository,
		adjRepo repository.AdjustmentRepository,
		poRepo repository.PurchaseOrderRepository,
	) error) error
}

// Reconciler recibe la notificación de cada movimiento aceptado para
// recalcular los agregados afectados. Corre después del commit: un fallo de
// reconciliación nunca revierte el movimiento ya durable.
type Reconciler interface {
	RefreshAfterMovement(ctx context.Context, itemID, warehouseID string)
}

// PositionCache caché de lectura opcional para cantidades por par.
// Se invalida sincrónicamente tras cada movimiento aceptado.
type PositionCache interface {
	Get(ctx context.Context, itemID, warehouseID string) (int64, bool)
	Set(ctx context.Context, itemID, warehouseID string, quantity int64)
	Invalidate(ctx context.Context, itemID, warehouseID string)
}
