package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/Bodega-api/internal/domain/entity"
	"github.com/jhoicas/Bodega-api/internal/domain/repository"
)

var _ repository.AdjustmentRepository = (*AdjustmentRepo)(nil)

// AdjustmentRepo persistencia de ajustes sobre PostgreSQL (usable con pool o tx).
type AdjustmentRepo struct {
	q Querier
}

// NewAdjustmentRepository construye el adaptador. Pasar pool o tx (Querier).
func NewAdjustmentRepository(q Querier) *AdjustmentRepo {
	return &AdjustmentRepo{q: q}
}

const adjustmentColumns = `id, item_id, warehouse_id, type, direction, quantity, notes, status, requested_by, movement_id, created_at, resolved_at`

// Create persiste un ajuste nuevo (estado PENDING).
func (r *AdjustmentRepo) Create(adjustment *entity.Adjustment) error {
	if adjustment.ID == "" {
		adjustment.ID = uuid.New().String()
	}
	query := `
		INSERT INTO adjustments (id, item_id, warehouse_id, type, direction, quantity, notes, status, requested_by, movement_id, created_at, resolved_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := r.q.Exec(context.Background(), query,
		adjustment.ID, adjustment.ItemID, adjustment.WarehouseID, adjustment.Type,
		adjustment.Direction, adjustment.Quantity, adjustment.Notes, adjustment.Status,
		adjustment.RequestedBy, nullIfEmpty(adjustment.MovementID), adjustment.CreatedAt, adjustment.ResolvedAt,
	)
	if err != nil {
		return fmt.Errorf("create adjustment: %w", err)
	}
	return nil
}

// GetByID obtiene un ajuste por ID.
func (r *AdjustmentRepo) GetByID(id string) (*entity.Adjustment, error) {
	query := `SELECT ` + adjustmentColumns + ` FROM adjustments WHERE id = $1`
	return r.get(query, id)
}

// GetForUpdate obtiene un ajuste y bloquea la fila para la transición de estado.
func (r *AdjustmentRepo) GetForUpdate(id string) (*entity.Adjustment, error) {
	query := `SELECT ` + adjustmentColumns + ` FROM adjustments WHERE id = $1 FOR UPDATE`
	return r.get(query, id)
}

// Update actualiza estado, movimiento generado y fecha de resolución.
func (r *AdjustmentRepo) Update(adjustment *entity.Adjustment) error {
	query := `
		UPDATE adjustments
		SET status = $2, movement_id = $3, resolved_at = $4, notes = $5
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query,
		adjustment.ID, adjustment.Status, nullIfEmpty(adjustment.MovementID),
		adjustment.ResolvedAt, adjustment.Notes,
	)
	if err != nil {
		return fmt.Errorf("update adjustment: %w", err)
	}
	return nil
}

// ListByStatus lista ajustes por estado, más recientes primero.
func (r *AdjustmentRepo) ListByStatus(status entity.AdjustmentStatus, limit, offset int) ([]*entity.Adjustment, error) {
	query := `SELECT ` + adjustmentColumns + ` FROM adjustments WHERE status = $1
		ORDER BY created_at DESC LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(context.Background(), query, status, normalizeLimit(limit), offset)
	if err != nil {
		return nil, fmt.Errorf("list adjustments: %w", err)
	}
	defer rows.Close()
	var list []*entity.Adjustment
	for rows.Next() {
		a, err := scanAdjustment(rows)
		if err != nil {
			return nil, fmt.Errorf("scan adjustment: %w", err)
		}
		list = append(list, a)
	}
	return list, rows.Err()
}

func (r *AdjustmentRepo) get(query string, args ...any) (*entity.Adjustment, error) {
	a, err := scanAdjustment(r.q.QueryRow(context.Background(), query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get adjustment: %w", err)
	}
	return a, nil
}

func scanAdjustment(row pgx.Row) (*entity.Adjustment, error) {
	var a entity.Adjustment
	var direction, notes, movementID *string
	err := row.Scan(
		&a.ID, &a.ItemID, &a.WarehouseID, &a.Type, &direction, &a.Quantity,
		&notes, &a.Status, &a.RequestedBy, &movementID, &a.CreatedAt, &a.ResolvedAt,
	)
	if err != nil {
		return nil, err
	}
	if direction != nil {
		a.Direction = entity.AdjustmentDirection(*direction)
	}
	if notes != nil {
		a.Notes = *notes
	}
	if movementID != nil {
		a.MovementID = *movementID
	}
	return &a, nil
}

func nullIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
