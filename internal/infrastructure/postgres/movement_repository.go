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

var _ repository.MovementRepository = (*MovementRepo)(nil)

// MovementRepo implementación del libro de movimientos sobre PostgreSQL
// (usable con pool o tx). La columna seq es un BIGSERIAL: la secuencia de
// inserción monótona que ordena el libro cuando los timestamps colisionan.
type MovementRepo struct {
	q Querier
}

// NewMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewMovementRepository(q Querier) *MovementRepo {
	return &MovementRepo{q: q}
}

const movementColumns = `id, seq, item_id, warehouse_id, type, quantity, reference_no, batch_no, expires_at, actor, notes, date, created_at`

// Append persiste un movimiento; nunca hay update ni delete sobre esta tabla.
// La base asigna seq y lo devuelve para dejar el registro completo en memoria.
func (r *MovementRepo) Append(movement *entity.MovementRecord) error {
	if movement.ID == "" {
		movement.ID = uuid.New().String()
	}
	query := `
		INSERT INTO movements (id, item_id, warehouse_id, type, quantity, reference_no, batch_no, expires_at, actor, notes, date, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING seq`
	err := r.q.QueryRow(context.Background(), query,
		movement.ID, movement.ItemID, movement.WarehouseID, movement.Type,
		movement.Quantity, movement.ReferenceNo, movement.BatchNo, movement.ExpiresAt,
		movement.Actor, movement.Notes, movement.Date, movement.CreatedAt,
	).Scan(&movement.Seq)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("append movement: %w", err)
	}
	return nil
}

// GetByID obtiene un movimiento por ID.
func (r *MovementRepo) GetByID(id string) (*entity.MovementRecord, error) {
	query := `SELECT ` + movementColumns + ` FROM movements WHERE id = $1`
	m, err := scanMovement(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get movement: %w", err)
	}
	return m, nil
}

// ListByItem lista movimientos de un artículo (opcionalmente filtrando por
// bodega), ordenados por (date, seq) ascendente.
func (r *MovementRepo) ListByItem(itemID, warehouseID string, limit, offset int) ([]*entity.MovementRecord, error) {
	query := `SELECT ` + movementColumns + ` FROM movements WHERE item_id = $1`
	args := []any{itemID}
	pos := 2
	if warehouseID != "" {
		query += fmt.Sprintf(" AND warehouse_id = $%d", pos)
		args = append(args, warehouseID)
		pos++
	}
	query += fmt.Sprintf(" ORDER BY date ASC, seq ASC LIMIT $%d OFFSET $%d", pos, pos+1)
	args = append(args, normalizeLimit(limit), offset)
	return r.list(query, args...)
}

// ListByReference lista todos los movimientos ligados a una referencia.
func (r *MovementRepo) ListByReference(referenceNo string) ([]*entity.MovementRecord, error) {
	query := `SELECT ` + movementColumns + ` FROM movements WHERE reference_no = $1 ORDER BY date ASC, seq ASC`
	return r.list(query, referenceNo)
}

// ListByDateRange lista movimientos en un rango de fechas (ambos extremos opcionales).
func (r *MovementRepo) ListByDateRange(from, to *time.Time, limit, offset int) ([]*entity.MovementRecord, error) {
	query := `SELECT ` + movementColumns + ` FROM movements WHERE 1=1`
	args := []any{}
	pos := 1
	if from != nil {
		query += fmt.Sprintf(" AND date >= $%d", pos)
		args = append(args, *from)
		pos++
	}
	if to != nil {
		query += fmt.Sprintf(" AND date <= $%d", pos)
		args = append(args, *to)
		pos++
	}
	query += fmt.Sprintf(" ORDER BY date ASC, seq ASC LIMIT $%d OFFSET $%d", pos, pos+1)
	args = append(args, normalizeLimit(limit), offset)
	return r.list(query, args...)
}

// ListAll recorre el libro completo en orden de inserción (replay).
func (r *MovementRepo) ListAll() ([]*entity.MovementRecord, error) {
	query := `SELECT ` + movementColumns + ` FROM movements ORDER BY seq ASC`
	return r.list(query)
}

// SumByPair suma los deltas del par directamente sobre el libro.
func (r *MovementRepo) SumByPair(itemID, warehouseID string) (int64, error) {
	query := `SELECT COALESCE(SUM(quantity), 0) FROM movements WHERE item_id = $1 AND warehouse_id = $2`
	var sum int64
	if err := r.q.QueryRow(context.Background(), query, itemID, warehouseID).Scan(&sum); err != nil {
		return 0, fmt.Errorf("sum by pair: %w", err)
	}
	return sum, nil
}

// SumByReference devuelve las salidas e entradas acumuladas de una referencia.
func (r *MovementRepo) SumByReference(referenceNo string) (int64, int64, error) {
	query := `
		SELECT
			COALESCE(SUM(CASE WHEN quantity < 0 THEN -quantity ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN quantity > 0 THEN quantity ELSE 0 END), 0)
		FROM movements WHERE reference_no = $1`
	var issued, returned int64
	if err := r.q.QueryRow(context.Background(), query, referenceNo).Scan(&issued, &returned); err != nil {
		return 0, 0, fmt.Errorf("sum by reference: %w", err)
	}
	return issued, returned, nil
}

func (r *MovementRepo) list(query string, args ...any) ([]*entity.MovementRecord, error) {
	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list movements: %w", err)
	}
	defer rows.Close()
	var list []*entity.MovementRecord
	for rows.Next() {
		m, err := scanMovement(rows)
		if err != nil {
			return nil, fmt.Errorf("scan movement: %w", err)
		}
		list = append(list, m)
	}
	return list, rows.Err()
}

func scanMovement(row pgx.Row) (*entity.MovementRecord, error) {
	var m entity.MovementRecord
	var referenceNo, batchNo, actor, notes *string
	err := row.Scan(
		&m.ID, &m.Seq, &m.ItemID, &m.WarehouseID, &m.Type, &m.Quantity,
		&referenceNo, &batchNo, &m.ExpiresAt, &actor, &notes, &m.Date, &m.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	if referenceNo != nil {
		m.ReferenceNo = *referenceNo
	}
	if batchNo != nil {
		m.BatchNo = *batchNo
	}
	if actor != nil {
		m.Actor = *actor
	}
	if notes != nil {
		m.Notes = *notes
	}
	return &m, nil
}

// normalizeLimit traduce limit <= 0 a "todo" para los queries paginados.
func normalizeLimit(limit int) int {
	if limit <= 0 {
		return 1_000_000
	}
	return limit
}
