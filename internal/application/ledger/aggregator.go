package ledger

import (
	"context"
	"errors"
	"time"

	"github.com/jhoicas/Bodega-api/internal/domain"
	"github.com/jhoicas/Bodega-api/internal/domain/entity"
	"github.com/jhoicas/Bodega-api/internal/domain/repository"
)

// conflictRetries reintentos ante ErrConcurrencyConflict. El reintento es
// seguro: una propuesta rechazada no deja estado parcial.
const conflictRetries = 2

// Aggregator pliega el libro de movimientos en cantidades en mano por par
// (item, bodega) y es el único punto de mutación del libro: toda propuesta
// pasa por la validación de stock no-negativo dentro de una transacción
// serializada por par.
type Aggregator struct {
	txRunner      TxRunner
	itemRepo      repository.ItemRepository
	warehouseRepo repository.WarehouseRepository
	movRepo       repository.MovementRepository
	posRepo       repository.StockPositionRepository
	reconciler    Reconciler
	cache         PositionCache
}

// NewAggregator construye el agregador. movRepo y posRepo se usan solo para
// lecturas fuera de transacción; las mutaciones pasan por txRunner.
func NewAggregator(
	txRunner TxRunner,
	itemRepo repository.ItemRepository,
	warehouseRepo repository.WarehouseRepository,
	movRepo repository.MovementRepository,
	posRepo repository.StockPositionRepository,
) *Aggregator {
	return &Aggregator{
		txRunner:      txRunner,
		itemRepo:      itemRepo,
		warehouseRepo: warehouseRepo,
		movRepo:       movRepo,
		posRepo:       posRepo,
	}
}

// AttachReconciler registra el motor de reconciliación a notificar tras cada
// movimiento aceptado.
func (a *Aggregator) AttachReconciler(r Reconciler) { a.reconciler = r }

// AttachCache registra la caché de lectura de posiciones (opcional).
func (a *Aggregator) AttachCache(c PositionCache) { a.cache = c }

// MutationInput propuesta de mutación de stock. Quantity lleva el signo:
// positivo entrada, negativo salida. Las representaciones externas del tipo
// ya deben venir normalizadas al enum cerrado.
type MutationInput struct {
	ItemID      string
	WarehouseID string
	Quantity    int64
	Type        entity.MovementType
	ReferenceNo string
	BatchNo     string
	ExpiresAt   *time.Time
	Actor       string
	Notes       string
}

func (in MutationInput) validate() error {
	if in.ItemID == "" || in.WarehouseID == "" {
		return domain.ErrValidation
	}
	if in.Quantity == 0 {
		return domain.ErrValidation
	}
	if !in.Type.Valid() {
		return domain.ErrValidation
	}
	// Coherencia signo/tipo: IN y PRODUCTION suman, OUT y CONSUMPTION restan.
	switch in.Type {
	case entity.MovementTypeIn, entity.MovementTypeProduction:
		if in.Quantity < 0 {
			return domain.ErrValidation
		}
	case entity.MovementTypeOut, entity.MovementTypeConsumption:
		if in.Quantity > 0 {
			return domain.ErrValidation
		}
	}
	return nil
}

// ProposeMutation valida la propuesta contra el estado actual y, si la
// acepta, anexa el movimiento y actualiza el índice de posiciones en la
// misma transacción. Rechaza con ErrInsufficientStock toda salida que
// dejaría la cantidad negativa. Reintenta de forma acotada solo ante
// ErrConcurrencyConflict.
func (a *Aggregator) ProposeMutation(ctx context.Context, input MutationInput) (*entity.MovementRecord, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}
	// Item y bodega deben resolver antes de tocar el libro.
	item, err := a.itemRepo.GetByID(input.ItemID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrValidation
	}
	wh, err := a.warehouseRepo.GetByID(input.WarehouseID)
	if err != nil {
		return nil, err
	}
	if wh == nil {
		return nil, domain.ErrValidation
	}

	var mov *entity.MovementRecord
	for attempt := 0; ; attempt++ {
		mov = nil
		err = a.txRunner.Run(ctx, func(
			movRepo repository.MovementRepository,
			posRepo repository.StockPositionRepository,
			_ repository.AdjustmentRepository,
			_ repository.PurchaseOrderRepository,
		) error {
			m, txErr := a.ProposeInTx(movRepo, posRepo, input, time.Now())
			if txErr != nil {
				return txErr
			}
			mov = m
			return nil
		})
		if err == nil || !errors.Is(err, domain.ErrConcurrencyConflict) || attempt >= conflictRetries {
			break
		}
	}
	if err != nil {
		return nil, err
	}
	a.NotifyCommitted(ctx, mov.ItemID, mov.WarehouseID)
	return mov, nil
}

// ProposeInTx aplica una propuesta usando repositorios ya atados a la
// transacción del caller (aprobación de ajustes, coordinador de referencias,
// recepción de OC multipunto). La fila de la posición queda bloqueada hasta
// el commit.
func (a *Aggregator) ProposeInTx(
	movRepo repository.MovementRepository,
	posRepo repository.StockPositionRepository,
	input MutationInput,
	now time.Time,
) (*entity.MovementRecord, error) {
	pos, err := posRepo.GetForUpdate(input.ItemID, input.WarehouseID)
	if err != nil {
		return nil, err
	}
	if input.Quantity < 0 && pos.Quantity+input.Quantity < 0 {
		return nil, domain.ErrInsufficientStock
	}
	pos.Quantity += input.Quantity
	pos.UpdatedAt = now
	if err := posRepo.Upsert(pos); err != nil {
		return nil, err
	}
	mov := &entity.MovementRecord{
		ItemID:      input.ItemID,
		WarehouseID: input.WarehouseID,
		Type:        input.Type,
		Quantity:    input.Quantity,
		ReferenceNo: input.ReferenceNo,
		BatchNo:     input.BatchNo,
		ExpiresAt:   input.ExpiresAt,
		Actor:       input.Actor,
		Notes:       input.Notes,
		Date:        now,
		CreatedAt:   now,
	}
	if err := movRepo.Append(mov); err != nil {
		return nil, err
	}
	return mov, nil
}

// NotifyCommitted invalida la caché y dispara la reconciliación de
// agregados tras un commit. Los casos de uso compuestos (aprobación de
// ajustes, coordinador de referencias) la invocan después de su propia
// transacción.
func (a *Aggregator) NotifyCommitted(ctx context.Context, itemID, warehouseID string) {
	if a.cache != nil {
		a.cache.Invalidate(ctx, itemID, warehouseID)
	}
	if a.reconciler != nil {
		a.reconciler.RefreshAfterMovement(ctx, itemID, warehouseID)
	}
}

// CurrentQuantity cantidad en mano actual del par, desde la caché si está
// disponible, si no desde el índice memoizado de posiciones.
func (a *Aggregator) CurrentQuantity(ctx context.Context, itemID, warehouseID string) (int64, error) {
	if a.cache != nil {
		if qty, ok := a.cache.Get(ctx, itemID, warehouseID); ok {
			return qty, nil
		}
	}
	pos, err := a.posRepo.Get(itemID, warehouseID)
	if err != nil {
		return 0, err
	}
	if a.cache != nil {
		a.cache.Set(ctx, itemID, warehouseID, pos.Quantity)
	}
	return pos.Quantity, nil
}

// CurrentQuantityByItem cantidad total del artículo sumada entre bodegas
// (la evaluación de stock bajo es por artículo, no por bodega).
func (a *Aggregator) CurrentQuantityByItem(ctx context.Context, itemID string) (int64, error) {
	positions, err := a.posRepo.ListByItem(itemID)
	if err != nil {
		return 0, err
	}
	var total int64
	for _, p := range positions {
		total += p.Quantity
	}
	return total, nil
}

// Retract retracción administrativa: anexa el movimiento inverso del
// original en lugar de borrarlo, preservando la auditabilidad. El inverso
// pasa por la misma validación de stock no-negativo.
func (a *Aggregator) Retract(ctx context.Context, movementID, actor string) (*entity.MovementRecord, error) {
	orig, err := a.movRepo.GetByID(movementID)
	if err != nil {
		return nil, err
	}
	if orig == nil {
		return nil, domain.ErrNotFound
	}
	var inverse *entity.MovementRecord
	err = a.txRunner.Run(ctx, func(
		movRepo repository.MovementRepository,
		posRepo repository.StockPositionRepository,
		_ repository.AdjustmentRepository,
		_ repository.PurchaseOrderRepository,
	) error {
		now := time.Now()
		inv := orig.Inverse(now)
		m, txErr := a.ProposeInTx(movRepo, posRepo, MutationInput{
			ItemID:      inv.ItemID,
			WarehouseID: inv.WarehouseID,
			Quantity:    inv.Quantity,
			Type:        inv.Type,
			ReferenceNo: inv.ReferenceNo,
			Actor:       actor,
			Notes:       inv.Notes,
		}, now)
		if txErr != nil {
			return txErr
		}
		inverse = m
		return nil
	})
	if err != nil {
		return nil, err
	}
	a.NotifyCommitted(ctx, inverse.ItemID, inverse.WarehouseID)
	return inverse, nil
}
