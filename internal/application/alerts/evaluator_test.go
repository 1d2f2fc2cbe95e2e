package alerts_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Bodega-api/internal/application/alerts"
	"github.com/jhoicas/Bodega-api/internal/domain"
	"github.com/jhoicas/Bodega-api/internal/domain/entity"
	"github.com/jhoicas/Bodega-api/internal/infrastructure/memory"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

type fixture struct {
	store     *memory.Store
	itemRepo  *memory.ItemRepo
	posRepo   *memory.StockPositionRepo
	evaluator *alerts.Evaluator
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.NewStore()
	itemRepo := memory.NewItemRepository(store)
	posRepo := memory.NewStockPositionRepository(store)
	evaluator := alerts.NewEvaluator(itemRepo, posRepo, memory.NewPurchaseOrderRepository(store))
	return &fixture{store: store, itemRepo: itemRepo, posRepo: posRepo, evaluator: evaluator}
}

// addItem registra un artículo con umbral por reorder_level y fija su
// cantidad directamente en el índice.
func (f *fixture) addItem(t *testing.T, id string, reorderLevel int64, minLevel *int64, qty int64) {
	t.Helper()
	require.NoError(t, f.itemRepo.Create(&entity.Item{
		ID: id, SKU: "SKU-" + id, Name: "Artículo " + id,
		Price: decimal.NewFromInt(10), WarehouseID: "wh-1",
		ReorderLevel: reorderLevel, MinimumStockLevel: minLevel,
	}))
	if qty != 0 {
		require.NoError(t, f.posRepo.Upsert(&entity.StockPosition{
			ItemID: id, WarehouseID: "wh-1", Quantity: qty, UpdatedAt: time.Now(),
		}))
	}
}

func int64p(v int64) *int64 { return &v }

// ──────────────────────────────────────────────────────────────────────────────
// Estados de alerta
// ──────────────────────────────────────────────────────────────────────────────

// Con umbral 5: cantidad 5 es LOW (inclusivo), 6 es OK, 0 es OUT.
func TestEvaluate_UmbralInclusivo(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.addItem(t, "low", 5, nil, 5)
	f.addItem(t, "ok", 5, nil, 6)
	f.addItem(t, "out", 5, nil, 0)

	state, err := f.evaluator.Evaluate(ctx, "low")
	require.NoError(t, err)
	assert.Equal(t, alerts.StateLow, state, "cantidad == umbral es LOW")

	state, err = f.evaluator.Evaluate(ctx, "ok")
	require.NoError(t, err)
	assert.Equal(t, alerts.StateOK, state)

	state, err = f.evaluator.Evaluate(ctx, "out")
	require.NoError(t, err)
	assert.Equal(t, alerts.StateOut, state)
}

// Cantidad cero es OUT aunque el umbral también sea cero: OUT precede a LOW.
func TestEvaluate_CeroPrecedeSobreUmbralCero(t *testing.T) {
	f := newFixture(t)
	f.addItem(t, "zero", 0, nil, 0)

	state, err := f.evaluator.Evaluate(context.Background(), "zero")
	require.NoError(t, err)
	assert.Equal(t, alerts.StateOut, state)
}

// minimum_stock_level sobreescribe reorder_level como umbral efectivo.
func TestEvaluate_MinimumStockLevelSobreescribe(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	// reorder 10, mínimo 3: cantidad 5 queda OK (5 > 3).
	f.addItem(t, "con-min", 10, int64p(3), 5)
	state, err := f.evaluator.Evaluate(ctx, "con-min")
	require.NoError(t, err)
	assert.Equal(t, alerts.StateOK, state)

	// Sin mínimo: el mismo 5 contra reorder 10 es LOW.
	f.addItem(t, "sin-min", 10, nil, 5)
	state, err = f.evaluator.Evaluate(ctx, "sin-min")
	require.NoError(t, err)
	assert.Equal(t, alerts.StateLow, state)
}

// La cantidad evaluada es la suma del artículo entre bodegas.
func TestEvaluate_SumaEntreBodegas(t *testing.T) {
	f := newFixture(t)
	f.addItem(t, "multi", 5, nil, 3)
	require.NoError(t, f.posRepo.Upsert(&entity.StockPosition{
		ItemID: "multi", WarehouseID: "wh-2", Quantity: 4, UpdatedAt: time.Now(),
	}))

	state, err := f.evaluator.Evaluate(context.Background(), "multi")
	require.NoError(t, err)
	assert.Equal(t, alerts.StateOK, state, "3 + 4 = 7 > umbral 5")
}

func TestEvaluate_ItemInexistente(t *testing.T) {
	f := newFixture(t)
	_, err := f.evaluator.Evaluate(context.Background(), "nope")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestListLowStock_IncluyeAgotados(t *testing.T) {
	f := newFixture(t)
	f.addItem(t, "a-low", 5, nil, 2)
	f.addItem(t, "b-ok", 5, nil, 9)
	f.addItem(t, "c-out", 5, nil, 0)

	entries, err := f.evaluator.ListLowStock(context.Background())
	require.NoError(t, err)
	require.Len(t, entries, 2)

	ids := []string{entries[0].Item.ID, entries[1].Item.ID}
	assert.Contains(t, ids, "a-low")
	assert.Contains(t, ids, "c-out")
}

// ──────────────────────────────────────────────────────────────────────────────
// Reorden sugerido
// ──────────────────────────────────────────────────────────────────────────────

func TestSuggestedReorderQuantity(t *testing.T) {
	assert.Equal(t, int64(3), alerts.SuggestedReorderQuantity(5, 2))
	assert.Equal(t, int64(0), alerts.SuggestedReorderQuantity(5, 5))
	assert.Equal(t, int64(0), alerts.SuggestedReorderQuantity(5, 9), "nunca negativa")
}

func TestDraftReorderPO_CantidadSugeridaYExplicita(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.addItem(t, "bajo", 10, nil, 4)  // sugerido: 6
	f.addItem(t, "lleno", 10, nil, 12) // sugerido: 0, se omite

	po, err := f.evaluator.DraftReorderPO(ctx, []alerts.ReorderRequest{
		{ItemID: "bajo"},                 // usa la sugerida
		{ItemID: "lleno"},                // se descarta (nada que pedir)
	}, "ana")
	require.NoError(t, err)

	assert.Equal(t, entity.PurchaseOrderStatusDraft, po.Status)
	require.Len(t, po.Lines, 1)
	assert.Equal(t, "bajo", po.Lines[0].ItemID)
	assert.Equal(t, int64(6), po.Lines[0].Quantity)
	assert.Equal(t, "wh-1", po.Lines[0].WarehouseID, "usa la bodega por defecto del artículo")

	// Cantidad explícita manda sobre la sugerida.
	po2, err := f.evaluator.DraftReorderPO(ctx, []alerts.ReorderRequest{
		{ItemID: "bajo", Quantity: 25, WarehouseID: "wh-9"},
	}, "ana")
	require.NoError(t, err)
	require.Len(t, po2.Lines, 1)
	assert.Equal(t, int64(25), po2.Lines[0].Quantity)
	assert.Equal(t, "wh-9", po2.Lines[0].WarehouseID)
}

func TestDraftReorderPO_SinLineasValidasFalla(t *testing.T) {
	f := newFixture(t)
	f.addItem(t, "lleno", 5, nil, 9)

	_, err := f.evaluator.DraftReorderPO(context.Background(),
		[]alerts.ReorderRequest{{ItemID: "lleno"}}, "ana")
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = f.evaluator.DraftReorderPO(context.Background(), nil, "ana")
	assert.ErrorIs(t, err, domain.ErrValidation)
}
