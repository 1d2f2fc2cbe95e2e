package reconcile_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Bodega-api/internal/application/reconcile"
	"github.com/jhoicas/Bodega-api/internal/domain/entity"
	"github.com/jhoicas/Bodega-api/internal/infrastructure/memory"
	"github.com/jhoicas/Bodega-api/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

type fixture struct {
	itemRepo *memory.ItemRepo
	posRepo  *memory.StockPositionRepo
	aggRepo  *memory.AggregateRepo
	engine   *reconcile.Engine
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.NewStore()
	itemRepo := memory.NewItemRepository(store)
	posRepo := memory.NewStockPositionRepository(store)
	aggRepo := memory.NewAggregateRepository(store)
	log := logger.New(logger.Config{Env: "production", Level: "error"})
	engine := reconcile.NewEngine(itemRepo, posRepo, aggRepo, log.Component("reconcile"))
	return &fixture{itemRepo: itemRepo, posRepo: posRepo, aggRepo: aggRepo, engine: engine}
}

func (f *fixture) addItem(t *testing.T, id, categoryID, warehouseID string, price int64, reorderLevel, qty int64) {
	t.Helper()
	require.NoError(t, f.itemRepo.Create(&entity.Item{
		ID: id, SKU: "SKU-" + id, Name: "Artículo " + id,
		CategoryID: categoryID, WarehouseID: warehouseID,
		Price: decimal.NewFromInt(price), ReorderLevel: reorderLevel,
	}))
	if qty != 0 {
		require.NoError(t, f.posRepo.Upsert(&entity.StockPosition{
			ItemID: id, WarehouseID: warehouseID, Quantity: qty, UpdatedAt: time.Now(),
		}))
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Agregados por categoría
// ──────────────────────────────────────────────────────────────────────────────

func TestRecomputeCategoryAggregate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.addItem(t, "a", "cat-1", "wh-1", 10, 5, 20) // valor 200, OK
	f.addItem(t, "b", "cat-1", "wh-1", 3, 8, 4)   // valor 12, LOW (4 <= 8)
	f.addItem(t, "c", "cat-2", "wh-1", 50, 0, 2)  // otra categoría, no cuenta

	agg, err := f.engine.RecomputeCategoryAggregate(ctx, "cat-1")
	require.NoError(t, err)

	assert.Equal(t, "cat-1", agg.CategoryID)
	assert.Equal(t, 2, agg.ItemsCount)
	assert.Equal(t, 1, agg.LowStockCount)
	assert.True(t, agg.TotalValue.Equal(decimal.NewFromInt(212)),
		"valor total %s, se esperaba 212", agg.TotalValue)

	// El snapshot queda persistido.
	saved, err := f.aggRepo.GetCategoryAggregate("cat-1")
	require.NoError(t, err)
	require.NotNil(t, saved)
	assert.True(t, saved.TotalValue.Equal(agg.TotalValue))
}

// El umbral de stock bajo se evalúa sobre la cantidad total del artículo
// entre bodegas, no por posición individual.
func TestRecomputeCategoryAggregate_UmbralSumadoEntreBodegas(t *testing.T) {
	f := newFixture(t)

	f.addItem(t, "multi", "cat-1", "wh-1", 10, 5, 3)
	require.NoError(t, f.posRepo.Upsert(&entity.StockPosition{
		ItemID: "multi", WarehouseID: "wh-2", Quantity: 4, UpdatedAt: time.Now(),
	}))

	agg, err := f.engine.RecomputeCategoryAggregate(context.Background(), "cat-1")
	require.NoError(t, err)
	assert.Equal(t, 0, agg.LowStockCount, "3 + 4 = 7 supera el umbral 5")
	assert.True(t, agg.TotalValue.Equal(decimal.NewFromInt(70)))
}

func TestRecomputeCategoryAggregate_CategoriaVacia(t *testing.T) {
	f := newFixture(t)
	agg, err := f.engine.RecomputeCategoryAggregate(context.Background(), "cat-vacia")
	require.NoError(t, err)
	assert.Equal(t, 0, agg.ItemsCount)
	assert.True(t, agg.TotalValue.IsZero())
}

// ──────────────────────────────────────────────────────────────────────────────
// Agregados por bodega
// ──────────────────────────────────────────────────────────────────────────────

func TestRecomputeWarehouseAggregate(t *testing.T) {
	f := newFixture(t)

	f.addItem(t, "a", "cat-1", "wh-1", 10, 0, 6) // valor 60
	f.addItem(t, "b", "cat-2", "wh-1", 5, 10, 2) // valor 10, LOW
	f.addItem(t, "c", "cat-1", "wh-2", 99, 0, 1) // otra bodega

	agg, err := f.engine.RecomputeWarehouseAggregate(context.Background(), "wh-1")
	require.NoError(t, err)

	assert.Equal(t, "wh-1", agg.WarehouseID)
	assert.Equal(t, 2, agg.ItemsCount)
	assert.Equal(t, 1, agg.LowStockCount)
	assert.True(t, agg.TotalValue.Equal(decimal.NewFromInt(70)),
		"valor total %s, se esperaba 70", agg.TotalValue)
}

// Posiciones cuyo artículo ya no existe en el catálogo se ignoran.
func TestRecomputeWarehouseAggregate_IgnoraPosicionesHuerfanas(t *testing.T) {
	f := newFixture(t)

	f.addItem(t, "vivo", "cat-1", "wh-1", 4, 0, 5)
	require.NoError(t, f.posRepo.Upsert(&entity.StockPosition{
		ItemID: "fantasma", WarehouseID: "wh-1", Quantity: 100, UpdatedAt: time.Now(),
	}))

	agg, err := f.engine.RecomputeWarehouseAggregate(context.Background(), "wh-1")
	require.NoError(t, err)
	assert.Equal(t, 1, agg.ItemsCount)
	assert.True(t, agg.TotalValue.Equal(decimal.NewFromInt(20)))
}

// ──────────────────────────────────────────────────────────────────────────────
// Refrescos tras eventos
// ──────────────────────────────────────────────────────────────────────────────

func TestRefreshAfterMovement_ActualizaCategoriaYBodega(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.addItem(t, "a", "cat-1", "wh-1", 10, 0, 7)

	f.engine.RefreshAfterMovement(ctx, "a", "wh-1")

	catAgg, err := f.aggRepo.GetCategoryAggregate("cat-1")
	require.NoError(t, err)
	require.NotNil(t, catAgg)
	assert.True(t, catAgg.TotalValue.Equal(decimal.NewFromInt(70)))

	whAgg, err := f.aggRepo.GetWarehouseAggregate("wh-1")
	require.NoError(t, err)
	require.NotNil(t, whAgg)
	assert.Equal(t, 1, whAgg.ItemsCount)
}

func TestRefreshAfterItemEdit_RefrescaViejoYNuevo(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.addItem(t, "a", "cat-2", "wh-2", 10, 0, 3)

	// Snapshots rancios que simulan el estado previo a mover el artículo
	// de cat-1/wh-1 a cat-2/wh-2.
	require.NoError(t, f.aggRepo.SaveCategoryAggregate(&entity.CategoryAggregate{
		CategoryID: "cat-1", ItemsCount: 1, TotalValue: decimal.NewFromInt(30), ComputedAt: time.Now(),
	}))
	require.NoError(t, f.aggRepo.SaveWarehouseAggregate(&entity.WarehouseAggregate{
		WarehouseID: "wh-1", ItemsCount: 1, TotalValue: decimal.NewFromInt(30), ComputedAt: time.Now(),
	}))

	f.engine.RefreshAfterItemEdit(ctx, "cat-1", "cat-2", "wh-1", "wh-2")

	old, err := f.aggRepo.GetCategoryAggregate("cat-1")
	require.NoError(t, err)
	require.NotNil(t, old)
	assert.Equal(t, 0, old.ItemsCount, "la categoría vieja queda vacía")
	assert.True(t, old.TotalValue.IsZero())

	fresh, err := f.aggRepo.GetCategoryAggregate("cat-2")
	require.NoError(t, err)
	require.NotNil(t, fresh)
	assert.Equal(t, 1, fresh.ItemsCount)
	assert.True(t, fresh.TotalValue.Equal(decimal.NewFromInt(30)))

	oldWh, err := f.aggRepo.GetWarehouseAggregate("wh-1")
	require.NoError(t, err)
	require.NotNil(t, oldWh)
	assert.Equal(t, 0, oldWh.ItemsCount)
}

// ──────────────────────────────────────────────────────────────────────────────
// Lectura perezosa de snapshots
// ──────────────────────────────────────────────────────────────────────────────

func TestCategoryAggregate_RecomputaSiNoHaySnapshot(t *testing.T) {
	f := newFixture(t)
	f.addItem(t, "a", "cat-1", "wh-1", 8, 0, 2)

	agg, err := f.engine.CategoryAggregate(context.Background(), "cat-1")
	require.NoError(t, err)
	require.NotNil(t, agg)
	assert.True(t, agg.TotalValue.Equal(decimal.NewFromInt(16)))
}

func TestWarehouseAggregate_PrefiereSnapshotExistente(t *testing.T) {
	f := newFixture(t)
	computedAt := time.Now().Add(-time.Hour)
	require.NoError(t, f.aggRepo.SaveWarehouseAggregate(&entity.WarehouseAggregate{
		WarehouseID: "wh-1", ItemsCount: 7, TotalValue: decimal.NewFromInt(999), ComputedAt: computedAt,
	}))

	agg, err := f.engine.WarehouseAggregate(context.Background(), "wh-1")
	require.NoError(t, err)
	require.NotNil(t, agg)
	assert.Equal(t, 7, agg.ItemsCount, "devuelve el snapshot sin recomputar")
}
