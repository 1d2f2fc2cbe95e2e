package adjustment_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Bodega-api/internal/application/adjustment"
	"github.com/jhoicas/Bodega-api/internal/application/ledger"
	"github.com/jhoicas/Bodega-api/internal/domain"
	"github.com/jhoicas/Bodega-api/internal/domain/entity"
	"github.com/jhoicas/Bodega-api/internal/infrastructure/memory"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

type fixture struct {
	aggregator *ledger.Aggregator
	workflow   *adjustment.Workflow
}

// newFixture arma el workflow sobre memoria con item-1 en wh-1 y el stock
// inicial indicado.
func newFixture(t *testing.T, initialStock int64) *fixture {
	t.Helper()
	store := memory.NewStore()
	itemRepo := memory.NewItemRepository(store)
	warehouseRepo := memory.NewWarehouseRepository(store)
	require.NoError(t, itemRepo.Create(&entity.Item{
		ID: "item-1", SKU: "SKU-001", Name: "Guantes", Price: decimal.NewFromInt(10),
	}))
	require.NoError(t, warehouseRepo.Create(&entity.Warehouse{ID: "wh-1", Name: "Central"}))

	txRunner := memory.NewTxRunner(store)
	aggregator := ledger.NewAggregator(txRunner, itemRepo, warehouseRepo,
		memory.NewMovementRepository(store), memory.NewStockPositionRepository(store))
	workflow := adjustment.NewWorkflow(txRunner, aggregator, memory.NewAdjustmentRepository(store))

	if initialStock > 0 {
		_, err := aggregator.ProposeMutation(context.Background(), ledger.MutationInput{
			ItemID: "item-1", WarehouseID: "wh-1",
			Quantity: initialStock, Type: entity.MovementTypeIn,
		})
		require.NoError(t, err)
	}
	return &fixture{aggregator: aggregator, workflow: workflow}
}

func (f *fixture) quantity(t *testing.T) int64 {
	t.Helper()
	qty, err := f.aggregator.CurrentQuantity(context.Background(), "item-1", "wh-1")
	require.NoError(t, err)
	return qty
}

// ──────────────────────────────────────────────────────────────────────────────
// Creación de propuestas
// ──────────────────────────────────────────────────────────────────────────────

// Una propuesta PENDING no toca el libro: su efecto es cero hasta aprobar.
func TestCreate_PendingNoAfectaStock(t *testing.T) {
	f := newFixture(t, 10)

	adj, err := f.workflow.Create(context.Background(), adjustment.CreateInput{
		ItemID: "item-1", WarehouseID: "wh-1",
		Type: entity.AdjustmentTypeDamage, Quantity: 3,
		RequestedBy: "bodeguero",
	})
	require.NoError(t, err)

	assert.Equal(t, entity.AdjustmentStatusPending, adj.Status)
	assert.Equal(t, int64(10), f.quantity(t), "la propuesta no debe alterar la cantidad")
}

// Damage y Lost son siempre salidas aunque el solicitante declare IN.
func TestCreate_DamageFuerzaSalida(t *testing.T) {
	f := newFixture(t, 10)

	adj, err := f.workflow.Create(context.Background(), adjustment.CreateInput{
		ItemID: "item-1", WarehouseID: "wh-1",
		Type: entity.AdjustmentTypeDamage, Direction: entity.AdjustmentDirectionIn, Quantity: 3,
	})
	require.NoError(t, err)
	assert.Equal(t, entity.AdjustmentDirectionOut, adj.Direction)
	assert.Equal(t, int64(-3), adj.SignedDelta())
}

// Return y Correction exigen Direction explícita: el tipo no define el signo.
func TestCreate_CorrectionSinDireccionFalla(t *testing.T) {
	f := newFixture(t, 10)

	_, err := f.workflow.Create(context.Background(), adjustment.CreateInput{
		ItemID: "item-1", WarehouseID: "wh-1",
		Type: entity.AdjustmentTypeCorrection, Quantity: 3,
	})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestCreate_Validaciones(t *testing.T) {
	f := newFixture(t, 0)
	ctx := context.Background()

	_, err := f.workflow.Create(ctx, adjustment.CreateInput{
		ItemID: "item-1", WarehouseID: "wh-1", Type: entity.AdjustmentTypeLost, Quantity: 0,
	})
	assert.ErrorIs(t, err, domain.ErrValidation, "cantidad cero")

	_, err = f.workflow.Create(ctx, adjustment.CreateInput{
		ItemID: "item-1", WarehouseID: "wh-1", Type: "Shrinkage", Quantity: 1,
	})
	assert.ErrorIs(t, err, domain.ErrValidation, "tipo desconocido")
}

// ──────────────────────────────────────────────────────────────────────────────
// Aprobación: transición + movimiento atómicos
// ──────────────────────────────────────────────────────────────────────────────

func TestApprove_GeneraMovimientoYMarcaAprobado(t *testing.T) {
	f := newFixture(t, 10)
	ctx := context.Background()

	adj, err := f.workflow.Create(ctx, adjustment.CreateInput{
		ItemID: "item-1", WarehouseID: "wh-1",
		Type: entity.AdjustmentTypeDamage, Quantity: 4, Notes: "caja aplastada",
	})
	require.NoError(t, err)

	mov, err := f.workflow.Approve(ctx, adj.ID, "supervisor")
	require.NoError(t, err)

	assert.Equal(t, entity.MovementTypeAdjust, mov.Type)
	assert.Equal(t, int64(-4), mov.Quantity)
	assert.Equal(t, adj.ID, mov.ReferenceNo, "el movimiento referencia el ajuste")
	assert.Equal(t, int64(6), f.quantity(t))

	approved, err := f.workflow.GetByID(ctx, adj.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.AdjustmentStatusApproved, approved.Status)
	assert.Equal(t, mov.ID, approved.MovementID)
	assert.NotNil(t, approved.ResolvedAt)
}

// Si el delta dejaría stock negativo, la aprobación falla completa: sin
// movimiento y con el ajuste todavía PENDING (atomicidad observable).
func TestApprove_StockInsuficienteDejaPending(t *testing.T) {
	f := newFixture(t, 2)
	ctx := context.Background()

	adj, err := f.workflow.Create(ctx, adjustment.CreateInput{
		ItemID: "item-1", WarehouseID: "wh-1",
		Type: entity.AdjustmentTypeLost, Quantity: 5,
	})
	require.NoError(t, err)

	_, err = f.workflow.Approve(ctx, adj.ID, "supervisor")
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	kept, err := f.workflow.GetByID(ctx, adj.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.AdjustmentStatusPending, kept.Status,
		"el ajuste debe permanecer PENDING si el movimiento fue rechazado")
	assert.Empty(t, kept.MovementID)
	assert.Equal(t, int64(2), f.quantity(t))
}

// PENDING transiciona una sola vez: re-aprobar o aprobar un rechazado falla.
func TestApprove_EstadosTerminales(t *testing.T) {
	f := newFixture(t, 10)
	ctx := context.Background()

	adj, err := f.workflow.Create(ctx, adjustment.CreateInput{
		ItemID: "item-1", WarehouseID: "wh-1",
		Type: entity.AdjustmentTypeReturn, Direction: entity.AdjustmentDirectionIn, Quantity: 1,
	})
	require.NoError(t, err)

	_, err = f.workflow.Approve(ctx, adj.ID, "supervisor")
	require.NoError(t, err)

	_, err = f.workflow.Approve(ctx, adj.ID, "supervisor")
	assert.ErrorIs(t, err, domain.ErrInvalidState, "APPROVED es terminal")

	_, err = f.workflow.Reject(ctx, adj.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidState, "no se puede rechazar un aprobado")
}

func TestApprove_Inexistente(t *testing.T) {
	f := newFixture(t, 0)
	_, err := f.workflow.Approve(context.Background(), "nope", "supervisor")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ──────────────────────────────────────────────────────────────────────────────
// Rechazo
// ──────────────────────────────────────────────────────────────────────────────

func TestReject_SinEfectoSobreElLibro(t *testing.T) {
	f := newFixture(t, 10)
	ctx := context.Background()

	adj, err := f.workflow.Create(ctx, adjustment.CreateInput{
		ItemID: "item-1", WarehouseID: "wh-1",
		Type: entity.AdjustmentTypeCorrection, Direction: entity.AdjustmentDirectionOut, Quantity: 6,
	})
	require.NoError(t, err)

	rejected, err := f.workflow.Reject(ctx, adj.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.AdjustmentStatusRejected, rejected.Status)
	assert.NotNil(t, rejected.ResolvedAt)
	assert.Equal(t, int64(10), f.quantity(t), "el rechazo tiene efecto cero")
}
