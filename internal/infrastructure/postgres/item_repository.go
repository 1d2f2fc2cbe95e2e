package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/Bodega-api/internal/domain"
	"github.com/jhoicas/Bodega-api/internal/domain/entity"
	"github.com/jhoicas/Bodega-api/internal/domain/repository"
)

var _ repository.ItemRepository = (*ItemRepo)(nil)

// ItemRepo implementación de ItemRepository sobre PostgreSQL (usable con pool o tx).
type ItemRepo struct {
	q Querier
}

// NewItemRepository construye el adaptador. Pasar pool o tx (Querier).
func NewItemRepository(q Querier) *ItemRepo {
	return &ItemRepo{q: q}
}

const itemColumns = `id, sku, name, category_id, supplier_id, warehouse_id, price, reorder_level, minimum_stock_level, created_at, updated_at`

// Create persiste un artículo nuevo. SKU es único.
func (r *ItemRepo) Create(item *entity.Item) error {
	if item.ID == "" {
		item.ID = uuid.New().String()
	}
	now := time.Now()
	if item.CreatedAt.IsZero() {
		item.CreatedAt = now
	}
	item.UpdatedAt = now
	query := `
		INSERT INTO items (id, sku, name, category_id, supplier_id, warehouse_id, price, reorder_level, minimum_stock_level, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.q.Exec(context.Background(), query,
		item.ID, item.SKU, item.Name, nullIfEmpty(item.CategoryID), nullIfEmpty(item.SupplierID),
		nullIfEmpty(item.WarehouseID), item.Price, item.ReorderLevel, item.MinimumStockLevel,
		item.CreatedAt, item.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("create item: %w", err)
	}
	return nil
}

// GetByID obtiene un artículo por ID.
func (r *ItemRepo) GetByID(id string) (*entity.Item, error) {
	query := `SELECT ` + itemColumns + ` FROM items WHERE id = $1`
	i, err := scanItem(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get item: %w", err)
	}
	return i, nil
}

// Update actualiza los campos editables del artículo.
func (r *ItemRepo) Update(item *entity.Item) error {
	item.UpdatedAt = time.Now()
	query := `
		UPDATE items
		SET sku = $2, name = $3, category_id = $4, supplier_id = $5, warehouse_id = $6,
		    price = $7, reorder_level = $8, minimum_stock_level = $9, updated_at = $10
		WHERE id = $1`
	tag, err := r.q.Exec(context.Background(), query,
		item.ID, item.SKU, item.Name, nullIfEmpty(item.CategoryID), nullIfEmpty(item.SupplierID),
		nullIfEmpty(item.WarehouseID), item.Price, item.ReorderLevel, item.MinimumStockLevel,
		item.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("update item: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List pagina el catálogo por nombre; limit <= 0 devuelve todo.
func (r *ItemRepo) List(limit, offset int) ([]*entity.Item, error) {
	query := `SELECT ` + itemColumns + ` FROM items ORDER BY name LIMIT $1 OFFSET $2`
	return r.list(query, normalizeLimit(limit), offset)
}

// ListByCategory lista los artículos de una categoría.
func (r *ItemRepo) ListByCategory(categoryID string) ([]*entity.Item, error) {
	query := `SELECT ` + itemColumns + ` FROM items WHERE category_id = $1 ORDER BY name`
	return r.list(query, categoryID)
}

func (r *ItemRepo) list(query string, args ...any) ([]*entity.Item, error) {
	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	defer rows.Close()
	var list []*entity.Item
	for rows.Next() {
		i, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		list = append(list, i)
	}
	return list, rows.Err()
}

func scanItem(row pgx.Row) (*entity.Item, error) {
	var i entity.Item
	var categoryID, supplierID, warehouseID *string
	err := row.Scan(
		&i.ID, &i.SKU, &i.Name, &categoryID, &supplierID, &warehouseID,
		&i.Price, &i.ReorderLevel, &i.MinimumStockLevel, &i.CreatedAt, &i.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if categoryID != nil {
		i.CategoryID = *categoryID
	}
	if supplierID != nil {
		i.SupplierID = *supplierID
	}
	if warehouseID != nil {
		i.WarehouseID = *warehouseID
	}
	return &i, nil
}
