package reference_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Bodega-api/internal/application/ledger"
	"github.com/jhoicas/Bodega-api/internal/application/reference"
	"github.com/jhoicas/Bodega-api/internal/domain"
	"github.com/jhoicas/Bodega-api/internal/domain/entity"
	"github.com/jhoicas/Bodega-api/internal/domain/repository"
	"github.com/jhoicas/Bodega-api/internal/infrastructure/memory"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

type fixture struct {
	aggregator  *ledger.Aggregator
	coordinator *reference.Coordinator
	poRepo      *memory.PurchaseOrderRepo
	itemRepo    *memory.ItemRepo
	txRunner    *memory.TxRunner
}

func newFixture(t *testing.T, initialStock int64) *fixture {
	t.Helper()
	store := memory.NewStore()
	itemRepo := memory.NewItemRepository(store)
	warehouseRepo := memory.NewWarehouseRepository(store)
	require.NoError(t, itemRepo.Create(&entity.Item{
		ID: "item-1", SKU: "SKU-001", Name: "Taladro", Price: decimal.NewFromInt(120),
	}))
	require.NoError(t, warehouseRepo.Create(&entity.Warehouse{ID: "wh-1", Name: "Central"}))

	txRunner := memory.NewTxRunner(store)
	aggregator := ledger.NewAggregator(txRunner, itemRepo, warehouseRepo,
		memory.NewMovementRepository(store), memory.NewStockPositionRepository(store))
	poRepo := memory.NewPurchaseOrderRepository(store)
	coordinator := reference.NewCoordinator(txRunner, aggregator)

	if initialStock > 0 {
		_, err := aggregator.ProposeMutation(context.Background(), ledger.MutationInput{
			ItemID: "item-1", WarehouseID: "wh-1",
			Quantity: initialStock, Type: entity.MovementTypeIn,
		})
		require.NoError(t, err)
	}
	return &fixture{
		aggregator:  aggregator,
		coordinator: coordinator,
		poRepo:      poRepo,
		itemRepo:    itemRepo,
		txRunner:    txRunner,
	}
}

func (f *fixture) quantity(t *testing.T) int64 {
	t.Helper()
	qty, err := f.aggregator.CurrentQuantity(context.Background(), "item-1", "wh-1")
	require.NoError(t, err)
	return qty
}

// ──────────────────────────────────────────────────────────────────────────────
// Checkout / devolución
// ──────────────────────────────────────────────────────────────────────────────

// Entrega 10, devuelve 6, e intentar devolver 5 más debe fallar: la suma de
// devoluciones no puede exceder lo entregado para esa referencia.
func TestReturnAgainst_RechazaSobreDevolucion(t *testing.T) {
	f := newFixture(t, 20)
	ctx := context.Background()

	issued, err := f.coordinator.Issue(ctx, reference.IssueInput{
		ItemID: "item-1", WarehouseID: "wh-1", Quantity: 10, Person: "carlos",
	})
	require.NoError(t, err)
	require.NotEmpty(t, issued.ReferenceNo)
	assert.Equal(t, int64(10), f.quantity(t))

	ret, err := f.coordinator.ReturnAgainst(ctx, issued.ReferenceNo, 6, "carlos")
	require.NoError(t, err)
	assert.Equal(t, entity.MovementTypeIn, ret.Type)
	assert.Equal(t, int64(6), ret.Quantity)
	assert.Equal(t, int64(16), f.quantity(t))

	_, err = f.coordinator.ReturnAgainst(ctx, issued.ReferenceNo, 5, "carlos")
	assert.ErrorIs(t, err, domain.ErrOverReturn,
		"devuelto 6 + 5 excede lo entregado (10)")
	assert.Equal(t, int64(16), f.quantity(t), "la devolución rechazada no deja efecto")

	// Devolver exactamente el resto sí procede.
	_, err = f.coordinator.ReturnAgainst(ctx, issued.ReferenceNo, 4, "carlos")
	require.NoError(t, err)
	assert.Equal(t, int64(20), f.quantity(t))
}

func TestIssue_GeneraReferenciaSiFalta(t *testing.T) {
	f := newFixture(t, 5)

	mov, err := f.coordinator.Issue(context.Background(), reference.IssueInput{
		ItemID: "item-1", WarehouseID: "wh-1", Quantity: 2, Person: "ana",
	})
	require.NoError(t, err)
	assert.Contains(t, mov.ReferenceNo, "CHK-")
	assert.Equal(t, int64(-2), mov.Quantity)
}

func TestIssue_SinStockFalla(t *testing.T) {
	f := newFixture(t, 1)

	_, err := f.coordinator.Issue(context.Background(), reference.IssueInput{
		ItemID: "item-1", WarehouseID: "wh-1", Quantity: 2, Person: "ana",
	})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
}

func TestReturnAgainst_ReferenciaInexistente(t *testing.T) {
	f := newFixture(t, 0)
	_, err := f.coordinator.ReturnAgainst(context.Background(), "REF-NOPE", 1, "ana")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// Una referencia cuyas piernas mezclan pares (item, bodega) distintos no
// tiene un par destino único para la devolución: se rechaza en vez de
// acreditarle a un par arbitrario las devoluciones de toda la referencia.
func TestReturnAgainst_ReferenciaConParesMezcladosFalla(t *testing.T) {
	f := newFixture(t, 10)
	ctx := context.Background()
	require.NoError(t, f.itemRepo.Create(&entity.Item{
		ID: "item-2", SKU: "SKU-002", Name: "Martillo", Price: decimal.NewFromInt(40),
	}))
	_, err := f.aggregator.ProposeMutation(ctx, ledger.MutationInput{
		ItemID: "item-2", WarehouseID: "wh-1",
		Quantity: 10, Type: entity.MovementTypeIn,
	})
	require.NoError(t, err)

	// Dos salidas sobre la misma referencia pero pares distintos.
	for _, itemID := range []string{"item-1", "item-2"} {
		_, err := f.aggregator.ProposeMutation(ctx, ledger.MutationInput{
			ItemID: itemID, WarehouseID: "wh-1",
			Quantity: -4, Type: entity.MovementTypeOut, ReferenceNo: "CHK-MIX",
		})
		require.NoError(t, err)
	}

	_, err = f.coordinator.ReturnAgainst(ctx, "CHK-MIX", 1, "ana")
	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.Equal(t, int64(6), f.quantity(t), "la devolución rechazada no deja efecto")
}

// ──────────────────────────────────────────────────────────────────────────────
// Recepción contra orden de compra
// ──────────────────────────────────────────────────────────────────────────────

func (f *fixture) createPO(t *testing.T, ref string, qty int64) *entity.PurchaseOrder {
	t.Helper()
	po := &entity.PurchaseOrder{
		ReferenceNo: ref,
		Status:      entity.PurchaseOrderStatusOrdered,
		Lines: []entity.PurchaseOrderLine{
			{ItemID: "item-1", WarehouseID: "wh-1", Quantity: qty, UnitCost: decimal.NewFromInt(100)},
		},
	}
	require.NoError(t, f.poRepo.Create(po))
	return po
}

func TestReceiveAgainstOrder_RecepcionParcialYCompleta(t *testing.T) {
	f := newFixture(t, 0)
	ctx := context.Background()
	f.createPO(t, "PO-100", 10)

	movs, err := f.coordinator.ReceiveAgainstOrder(ctx, "PO-100",
		[]reference.ReceiveLine{{ItemID: "item-1", WarehouseID: "wh-1", Quantity: 6}}, "bodeguero")
	require.NoError(t, err)
	require.Len(t, movs, 1)
	assert.Equal(t, int64(6), f.quantity(t))

	po, err := f.poRepo.GetByReference("PO-100")
	require.NoError(t, err)
	assert.Equal(t, entity.PurchaseOrderStatusOrdered, po.Status,
		"recepción parcial no cierra la orden")

	_, err = f.coordinator.ReceiveAgainstOrder(ctx, "PO-100",
		[]reference.ReceiveLine{{ItemID: "item-1", WarehouseID: "wh-1", Quantity: 4}}, "bodeguero")
	require.NoError(t, err)
	assert.Equal(t, int64(10), f.quantity(t))

	po, err = f.poRepo.GetByReference("PO-100")
	require.NoError(t, err)
	assert.Equal(t, entity.PurchaseOrderStatusReceived, po.Status,
		"al cubrir todas las líneas la orden queda RECEIVED")
}

// Recibir más de lo ordenado (acumulando recepciones previas) se rechaza.
func TestReceiveAgainstOrder_RechazaSobreRecepcion(t *testing.T) {
	f := newFixture(t, 0)
	ctx := context.Background()
	f.createPO(t, "PO-200", 10)

	_, err := f.coordinator.ReceiveAgainstOrder(ctx, "PO-200",
		[]reference.ReceiveLine{{ItemID: "item-1", WarehouseID: "wh-1", Quantity: 8}}, "bodeguero")
	require.NoError(t, err)

	_, err = f.coordinator.ReceiveAgainstOrder(ctx, "PO-200",
		[]reference.ReceiveLine{{ItemID: "item-1", WarehouseID: "wh-1", Quantity: 3}}, "bodeguero")
	assert.ErrorIs(t, err, domain.ErrOverReturn, "8 + 3 excede lo ordenado (10)")
	assert.Equal(t, int64(8), f.quantity(t))
}

// Un lote con una línea inválida no confirma ninguna: todo-o-nada.
func TestReceiveAgainstOrder_LoteTodoONada(t *testing.T) {
	f := newFixture(t, 0)
	ctx := context.Background()
	f.createPO(t, "PO-300", 10)

	_, err := f.coordinator.ReceiveAgainstOrder(ctx, "PO-300", []reference.ReceiveLine{
		{ItemID: "item-1", WarehouseID: "wh-1", Quantity: 5},
		{ItemID: "item-otro", WarehouseID: "wh-1", Quantity: 1}, // no está en la orden
	}, "bodeguero")
	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.Equal(t, int64(0), f.quantity(t),
		"la línea válida del lote tampoco debe confirmarse")
}

func TestReceiveAgainstOrder_OrdenInexistente(t *testing.T) {
	f := newFixture(t, 0)
	_, err := f.coordinator.ReceiveAgainstOrder(context.Background(), "PO-NOPE",
		[]reference.ReceiveLine{{ItemID: "item-1", WarehouseID: "wh-1", Quantity: 1}}, "x")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// Dos recepciones concurrentes de 6 contra una orden de 10: el lock de la
// fila de la orden las serializa, así que la segunda ve lo que la primera ya
// recibió y se rechaza. Lo recibido nunca excede lo ordenado.
func TestReceiveAgainstOrder_RecepcionesConcurrentesNoExcedenLaOrden(t *testing.T) {
	f := newFixture(t, 0)
	ctx := context.Background()
	f.createPO(t, "PO-400", 10)

	errs := make([]error, 2)
	var wg sync.WaitGroup
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = f.coordinator.ReceiveAgainstOrder(ctx, "PO-400",
				[]reference.ReceiveLine{{ItemID: "item-1", WarehouseID: "wh-1", Quantity: 6}}, "bodeguero")
		}(i)
	}
	wg.Wait()

	rejected := 0
	for _, err := range errs {
		if err != nil {
			assert.ErrorIs(t, err, domain.ErrOverReturn)
			rejected++
		}
	}
	assert.Equal(t, 1, rejected, "exactamente una de las dos recepciones se rechaza")
	assert.Equal(t, int64(6), f.quantity(t), "recibido 6 de 10, nunca 12")
}

// ──────────────────────────────────────────────────────────────────────────────
// Fallo al cerrar la orden
// ──────────────────────────────────────────────────────────────────────────────

var errCierreOrden = errors.New("update de orden falla")

// poUpdateFalla delega todo menos Update, que siempre falla.
type poUpdateFalla struct {
	repository.PurchaseOrderRepository
}

func (poUpdateFalla) Update(*entity.PurchaseOrder) error { return errCierreOrden }

// txRunnerPOFalla envuelve el runner real sustituyendo el repo de órdenes
// por uno cuyo Update falla.
type txRunnerPOFalla struct {
	inner ledger.TxRunner
}

func (r *txRunnerPOFalla) Run(ctx context.Context, fn func(
	movRepo repository.MovementRepository,
	posRepo repository.StockPositionRepository,
	adjRepo repository.AdjustmentRepository,
	poRepo repository.PurchaseOrderRepository,
) error) error {
	return r.inner.Run(ctx, func(
		movRepo repository.MovementRepository,
		posRepo repository.StockPositionRepository,
		adjRepo repository.AdjustmentRepository,
		poRepo repository.PurchaseOrderRepository,
	) error {
		return fn(movRepo, posRepo, adjRepo, poUpdateFalla{poRepo})
	})
}

// La transición a RECEIVED viaja en la misma transacción que la recepción:
// si el update de la orden falla, el error se propaga al llamador y la orden
// no queda marcada como recibida.
func TestReceiveAgainstOrder_FalloAlCerrarLaOrdenSePropaga(t *testing.T) {
	f := newFixture(t, 0)
	ctx := context.Background()
	f.createPO(t, "PO-500", 10)

	coordinator := reference.NewCoordinator(&txRunnerPOFalla{inner: f.txRunner}, f.aggregator)

	// Recepción parcial: no cierra la orden, no toca Update, procede.
	_, err := coordinator.ReceiveAgainstOrder(ctx, "PO-500",
		[]reference.ReceiveLine{{ItemID: "item-1", WarehouseID: "wh-1", Quantity: 4}}, "bodeguero")
	require.NoError(t, err)

	// Recepción que completa la orden: el fallo del update no se traga.
	_, err = coordinator.ReceiveAgainstOrder(ctx, "PO-500",
		[]reference.ReceiveLine{{ItemID: "item-1", WarehouseID: "wh-1", Quantity: 6}}, "bodeguero")
	assert.ErrorIs(t, err, errCierreOrden)

	po, err := f.poRepo.GetByReference("PO-500")
	require.NoError(t, err)
	assert.Equal(t, entity.PurchaseOrderStatusOrdered, po.Status,
		"la orden no queda RECEIVED si su update falló")
}
