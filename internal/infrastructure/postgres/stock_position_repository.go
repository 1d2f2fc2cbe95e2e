package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/Bodega-api/internal/domain/entity"
	"github.com/jhoicas/Bodega-api/internal/domain/repository"
)

var _ repository.StockPositionRepository = (*StockPositionRepo)(nil)

// StockPositionRepo índice memoizado de cantidades por par (item, bodega)
// sobre PostgreSQL (usable con pool o tx).
type StockPositionRepo struct {
	q Querier
}

// NewStockPositionRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockPositionRepository(q Querier) *StockPositionRepo {
	return &StockPositionRepo{q: q}
}

// Get obtiene la posición actual; posición cero si el par nunca se ha movido.
func (r *StockPositionRepo) Get(itemID, warehouseID string) (*entity.StockPosition, error) {
	query := `
		SELECT item_id, warehouse_id, quantity, updated_at
		FROM stock_positions WHERE item_id = $1 AND warehouse_id = $2`
	var p entity.StockPosition
	err := r.q.QueryRow(context.Background(), query, itemID, warehouseID).Scan(
		&p.ItemID, &p.WarehouseID, &p.Quantity, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return &entity.StockPosition{ItemID: itemID, WarehouseID: warehouseID}, nil
		}
		return nil, fmt.Errorf("get position: %w", err)
	}
	return &p, nil
}

// GetForUpdate obtiene la posición y bloquea la fila (SELECT FOR UPDATE) para
// serializar read-validate-append sobre el par durante la transacción.
func (r *StockPositionRepo) GetForUpdate(itemID, warehouseID string) (*entity.StockPosition, error) {
	// Insertar la fila si no existe: sin fila no hay nada que bloquear y dos
	// primeras escrituras concurrentes del par no se serializarían.
	seed := `
		INSERT INTO stock_positions (item_id, warehouse_id, quantity, updated_at)
		VALUES ($1, $2, 0, now())
		ON CONFLICT (item_id, warehouse_id) DO NOTHING`
	if _, err := r.q.Exec(context.Background(), seed, itemID, warehouseID); err != nil {
		return nil, fmt.Errorf("seed position: %w", err)
	}
	query := `
		SELECT item_id, warehouse_id, quantity, updated_at
		FROM stock_positions WHERE item_id = $1 AND warehouse_id = $2
		FOR UPDATE`
	var p entity.StockPosition
	err := r.q.QueryRow(context.Background(), query, itemID, warehouseID).Scan(
		&p.ItemID, &p.WarehouseID, &p.Quantity, &p.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("get position for update: %w", err)
	}
	return &p, nil
}

// Upsert inserta o actualiza la cantidad del par.
func (r *StockPositionRepo) Upsert(position *entity.StockPosition) error {
	query := `
		INSERT INTO stock_positions (item_id, warehouse_id, quantity, updated_at)
		VALUES ($1, $2, $3, now())
		ON CONFLICT (item_id, warehouse_id)
		DO UPDATE SET quantity = EXCLUDED.quantity, updated_at = now()`
	_, err := r.q.Exec(context.Background(), query, position.ItemID, position.WarehouseID, position.Quantity)
	if err != nil {
		return fmt.Errorf("upsert position: %w", err)
	}
	return nil
}

// ListByItem lista las posiciones de un artículo en todas las bodegas.
func (r *StockPositionRepo) ListByItem(itemID string) ([]*entity.StockPosition, error) {
	query := `
		SELECT item_id, warehouse_id, quantity, updated_at
		FROM stock_positions WHERE item_id = $1 ORDER BY warehouse_id`
	return r.list(query, itemID)
}

// ListByWarehouse lista las posiciones de una bodega.
func (r *StockPositionRepo) ListByWarehouse(warehouseID string) ([]*entity.StockPosition, error) {
	query := `
		SELECT item_id, warehouse_id, quantity, updated_at
		FROM stock_positions WHERE warehouse_id = $1 ORDER BY item_id`
	return r.list(query, warehouseID)
}

// ListAll lista todas las posiciones del índice.
func (r *StockPositionRepo) ListAll() ([]*entity.StockPosition, error) {
	query := `
		SELECT item_id, warehouse_id, quantity, updated_at
		FROM stock_positions ORDER BY item_id, warehouse_id`
	return r.list(query)
}

// DeleteAll vacía el índice antes de una reconstrucción por replay.
func (r *StockPositionRepo) DeleteAll() error {
	if _, err := r.q.Exec(context.Background(), `DELETE FROM stock_positions`); err != nil {
		return fmt.Errorf("delete positions: %w", err)
	}
	return nil
}

func (r *StockPositionRepo) list(query string, args ...any) ([]*entity.StockPosition, error) {
	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list positions: %w", err)
	}
	defer rows.Close()
	var list []*entity.StockPosition
	for rows.Next() {
		var p entity.StockPosition
		if err := rows.Scan(&p.ItemID, &p.WarehouseID, &p.Quantity, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan position: %w", err)
		}
		list = append(list, &p)
	}
	return list, rows.Err()
}
