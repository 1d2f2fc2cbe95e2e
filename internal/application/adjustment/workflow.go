package adjustment

import (
	"context"
	"time"

	"github.com/jhoicas/Bodega-api/internal/application/ledger"
	"github.com/jhoicas/Bodega-api/internal/domain"
	"github.com/jhoicas/Bodega-api/internal/domain/entity"
	"github.com/jhoicas/Bodega-api/internal/domain/repository"
)

// Workflow máquina de estados de ajustes de stock: PENDING -> APPROVED o
// REJECTED, ambos terminales. Solo la aprobación toca el libro, y lo hace
// en la misma transacción que la transición de estado: si el movimiento es
// rechazado (stock insuficiente) el ajuste permanece PENDING sin estado
// intermedio observable.
type Workflow struct {
	txRunner   ledger.TxRunner
	aggregator *ledger.Aggregator
	adjRepo    repository.AdjustmentRepository
}

// NewWorkflow construye el workflow. adjRepo se usa solo para lecturas y la
// creación de propuestas; las transiciones pasan por txRunner.
func NewWorkflow(txRunner ledger.TxRunner, aggregator *ledger.Aggregator, adjRepo repository.AdjustmentRepository) *Workflow {
	return &Workflow{txRunner: txRunner, aggregator: aggregator, adjRepo: adjRepo}
}

// CreateInput propuesta de ajuste. Direction es obligatoria para Return y
// Correction: el nombre del tipo no determina el signo. Damage y Lost son
// siempre salidas y pueden omitirla.
type CreateInput struct {
	ItemID      string
	WarehouseID string
	Type        entity.AdjustmentType
	Direction   entity.AdjustmentDirection
	Quantity    int64 // positivo; el sentido lo da Direction
	Notes       string
	RequestedBy string
}

// Create registra un ajuste PENDING sin efecto alguno sobre el libro.
func (w *Workflow) Create(ctx context.Context, input CreateInput) (*entity.Adjustment, error) {
	if input.ItemID == "" || input.WarehouseID == "" || input.Quantity <= 0 {
		return nil, domain.ErrValidation
	}
	if !input.Type.Valid() {
		return nil, domain.ErrValidation
	}
	switch input.Type {
	case entity.AdjustmentTypeDamage, entity.AdjustmentTypeLost:
		input.Direction = entity.AdjustmentDirectionOut
	default:
		if input.Direction != entity.AdjustmentDirectionIn && input.Direction != entity.AdjustmentDirectionOut {
			return nil, domain.ErrValidation
		}
	}
	adj := &entity.Adjustment{
		ItemID:      input.ItemID,
		WarehouseID: input.WarehouseID,
		Type:        input.Type,
		Direction:   input.Direction,
		Quantity:    input.Quantity,
		Notes:       input.Notes,
		Status:      entity.AdjustmentStatusPending,
		RequestedBy: input.RequestedBy,
		CreatedAt:   time.Now(),
	}
	if err := w.adjRepo.Create(adj); err != nil {
		return nil, err
	}
	return adj, nil
}

// Approve transiciona PENDING -> APPROVED y anexa el movimiento derivado en
// una sola transacción. Falla con ErrInvalidState si el ajuste no está
// PENDING y con ErrInsufficientStock si el delta dejaría stock negativo; en
// ambos casos nada queda confirmado.
func (w *Workflow) Approve(ctx context.Context, id, approvedBy string) (*entity.MovementRecord, error) {
	var mov *entity.MovementRecord
	err := w.txRunner.Run(ctx, func(
		movRepo repository.MovementRepository,
		posRepo repository.StockPositionRepository,
		adjRepo repository.AdjustmentRepository,
		_ repository.PurchaseOrderRepository,
	) error {
		adj, err := adjRepo.GetForUpdate(id)
		if err != nil {
			return err
		}
		if adj == nil {
			return domain.ErrNotFound
		}
		if !adj.Pending() {
			return domain.ErrInvalidState
		}
		now := time.Now()
		m, err := w.aggregator.ProposeInTx(movRepo, posRepo, ledger.MutationInput{
			ItemID:      adj.ItemID,
			WarehouseID: adj.WarehouseID,
			Quantity:    adj.SignedDelta(),
			Type:        entity.MovementTypeAdjust,
			ReferenceNo: adj.ID,
			Actor:       approvedBy,
			Notes:       string(adj.Type) + ": " + adj.Notes,
		}, now)
		if err != nil {
			return err
		}
		adj.Status = entity.AdjustmentStatusApproved
		adj.MovementID = m.ID
		adj.ResolvedAt = &now
		if err := adjRepo.Update(adj); err != nil {
			return err
		}
		mov = m
		return nil
	})
	if err != nil {
		return nil, err
	}
	w.aggregator.NotifyCommitted(ctx, mov.ItemID, mov.WarehouseID)
	return mov, nil
}

// Reject transiciona PENDING -> REJECTED sin efecto sobre el libro.
func (w *Workflow) Reject(ctx context.Context, id string) (*entity.Adjustment, error) {
	var rejected *entity.Adjustment
	err := w.txRunner.Run(ctx, func(
		_ repository.MovementRepository,
		_ repository.StockPositionRepository,
		adjRepo repository.AdjustmentRepository,
		_ repository.PurchaseOrderRepository,
	) error {
		adj, err := adjRepo.GetForUpdate(id)
		if err != nil {
			return err
		}
		if adj == nil {
			return domain.ErrNotFound
		}
		if !adj.Pending() {
			return domain.ErrInvalidState
		}
		now := time.Now()
		adj.Status = entity.AdjustmentStatusRejected
		adj.ResolvedAt = &now
		if err := adjRepo.Update(adj); err != nil {
			return err
		}
		rejected = adj
		return nil
	})
	if err != nil {
		return nil, err
	}
	return rejected, nil
}

// GetByID devuelve un ajuste por id.
func (w *Workflow) GetByID(ctx context.Context, id string) (*entity.Adjustment, error) {
	return w.adjRepo.GetByID(id)
}

// ListByStatus lista ajustes por estado.
func (w *Workflow) ListByStatus(ctx context.Context, status entity.AdjustmentStatus, limit, offset int) ([]*entity.Adjustment, error) {
	return w.adjRepo.ListByStatus(status, limit, offset)
}
