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

var _ repository.PurchaseOrderRepository = (*PurchaseOrderRepo)(nil)

// PurchaseOrderRepo órdenes de compra sobre PostgreSQL. Las líneas viven en
// purchase_order_lines y se reemplazan completas en cada Update.
type PurchaseOrderRepo struct {
	q Querier
}

// NewPurchaseOrderRepository construye el adaptador. Pasar pool o tx (Querier).
func NewPurchaseOrderRepository(q Querier) *PurchaseOrderRepo {
	return &PurchaseOrderRepo{q: q}
}

// Create persiste la orden y sus líneas. ReferenceNo es único.
func (r *PurchaseOrderRepo) Create(po *entity.PurchaseOrder) error {
	if po.ID == "" {
		po.ID = uuid.New().String()
	}
	now := time.Now()
	if po.CreatedAt.IsZero() {
		po.CreatedAt = now
	}
	po.UpdatedAt = now
	query := `
		INSERT INTO purchase_orders (id, reference_no, supplier_id, status, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.q.Exec(context.Background(), query,
		po.ID, po.ReferenceNo, nullIfEmpty(po.SupplierID), po.Status, po.Notes,
		po.CreatedAt, po.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("create purchase order: %w", err)
	}
	return r.insertLines(po)
}

// GetByReference obtiene una orden (con líneas) por su referencia.
func (r *PurchaseOrderRepo) GetByReference(referenceNo string) (*entity.PurchaseOrder, error) {
	query := `
		SELECT id, reference_no, supplier_id, status, notes, created_at, updated_at
		FROM purchase_orders WHERE reference_no = $1`
	po, err := r.scanOrder(r.q.QueryRow(context.Background(), query, referenceNo))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get purchase order: %w", err)
	}
	if err := r.loadLines(po); err != nil {
		return nil, err
	}
	return po, nil
}

// GetForUpdate obtiene la orden (con líneas) bloqueando su fila. Solo tiene
// sentido dentro de una tx: recepciones concurrentes contra la misma orden
// se serializan en este lock.
func (r *PurchaseOrderRepo) GetForUpdate(referenceNo string) (*entity.PurchaseOrder, error) {
	query := `
		SELECT id, reference_no, supplier_id, status, notes, created_at, updated_at
		FROM purchase_orders WHERE reference_no = $1 FOR UPDATE`
	po, err := r.scanOrder(r.q.QueryRow(context.Background(), query, referenceNo))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("lock purchase order: %w", err)
	}
	if err := r.loadLines(po); err != nil {
		return nil, err
	}
	return po, nil
}

// Update actualiza estado y notas, y reemplaza las líneas.
func (r *PurchaseOrderRepo) Update(po *entity.PurchaseOrder) error {
	po.UpdatedAt = time.Now()
	query := `
		UPDATE purchase_orders SET status = $2, notes = $3, updated_at = $4
		WHERE id = $1`
	tag, err := r.q.Exec(context.Background(), query, po.ID, po.Status, po.Notes, po.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update purchase order: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	if _, err := r.q.Exec(context.Background(), `DELETE FROM purchase_order_lines WHERE purchase_order_id = $1`, po.ID); err != nil {
		return fmt.Errorf("replace purchase order lines: %w", err)
	}
	return r.insertLines(po)
}

// List pagina las órdenes, más recientes primero (con líneas).
func (r *PurchaseOrderRepo) List(limit, offset int) ([]*entity.PurchaseOrder, error) {
	query := `
		SELECT id, reference_no, supplier_id, status, notes, created_at, updated_at
		FROM purchase_orders ORDER BY created_at DESC LIMIT $1 OFFSET $2`
	rows, err := r.q.Query(context.Background(), query, normalizeLimit(limit), offset)
	if err != nil {
		return nil, fmt.Errorf("list purchase orders: %w", err)
	}
	defer rows.Close()
	var list []*entity.PurchaseOrder
	for rows.Next() {
		po, err := r.scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("scan purchase order: %w", err)
		}
		list = append(list, po)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for _, po := range list {
		if err := r.loadLines(po); err != nil {
			return nil, err
		}
	}
	return list, nil
}

func (r *PurchaseOrderRepo) insertLines(po *entity.PurchaseOrder) error {
	query := `
		INSERT INTO purchase_order_lines (purchase_order_id, item_id, warehouse_id, quantity, unit_cost)
		VALUES ($1, $2, $3, $4, $5)`
	for _, line := range po.Lines {
		if _, err := r.q.Exec(context.Background(), query,
			po.ID, line.ItemID, line.WarehouseID, line.Quantity, line.UnitCost,
		); err != nil {
			return fmt.Errorf("insert purchase order line: %w", err)
		}
	}
	return nil
}

func (r *PurchaseOrderRepo) loadLines(po *entity.PurchaseOrder) error {
	query := `
		SELECT item_id, warehouse_id, quantity, unit_cost
		FROM purchase_order_lines WHERE purchase_order_id = $1 ORDER BY item_id, warehouse_id`
	rows, err := r.q.Query(context.Background(), query, po.ID)
	if err != nil {
		return fmt.Errorf("load purchase order lines: %w", err)
	}
	defer rows.Close()
	po.Lines = nil
	for rows.Next() {
		var l entity.PurchaseOrderLine
		if err := rows.Scan(&l.ItemID, &l.WarehouseID, &l.Quantity, &l.UnitCost); err != nil {
			return fmt.Errorf("scan purchase order line: %w", err)
		}
		po.Lines = append(po.Lines, l)
	}
	return rows.Err()
}

func (r *PurchaseOrderRepo) scanOrder(row pgx.Row) (*entity.PurchaseOrder, error) {
	var po entity.PurchaseOrder
	var supplierID, notes *string
	err := row.Scan(&po.ID, &po.ReferenceNo, &supplierID, &po.Status, &notes, &po.CreatedAt, &po.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if supplierID != nil {
		po.SupplierID = *supplierID
	}
	if notes != nil {
		po.Notes = *notes
	}
	return &po, nil
}
