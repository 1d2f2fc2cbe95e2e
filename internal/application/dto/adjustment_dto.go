package dto

import (
	"time"

	"github.com/jhoicas/Bodega-api/internal/domain/entity"
)

// CreateAdjustmentRequest body para POST /api/adjustments. Direction es
// obligatoria para Return y Correction ("IN" o "OUT"); Damage y Lost la
// ignoran (siempre salida).
type CreateAdjustmentRequest struct {
	ItemID      string `json:"item_id"`
	WarehouseID string `json:"warehouse_id"`
	Type        string `json:"type"`
	Direction   string `json:"direction,omitempty"`
	Quantity    int64  `json:"quantity"`
	Notes       string `json:"notes,omitempty"`
}

// AdjustmentResponse representación HTTP de un ajuste.
type AdjustmentResponse struct {
	ID          string     `json:"id"`
	ItemID      string     `json:"item_id"`
	WarehouseID string     `json:"warehouse_id"`
	Type        string     `json:"type"`
	Direction   string     `json:"direction"`
	Quantity    int64      `json:"quantity"`
	Notes       string     `json:"notes,omitempty"`
	Status      string     `json:"status"`
	MovementID  string     `json:"movement_id,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	ResolvedAt  *time.Time `json:"resolved_at,omitempty"`
}

// FromAdjustment construye la respuesta desde la entidad.
func FromAdjustment(a *entity.Adjustment) AdjustmentResponse {
	return AdjustmentResponse{
		ID:          a.ID,
		ItemID:      a.ItemID,
		WarehouseID: a.WarehouseID,
		Type:        string(a.Type),
		Direction:   string(a.Direction),
		Quantity:    a.Quantity,
		Notes:       a.Notes,
		Status:      string(a.Status),
		MovementID:  a.MovementID,
		CreatedAt:   a.CreatedAt,
		ResolvedAt:  a.ResolvedAt,
	}
}
