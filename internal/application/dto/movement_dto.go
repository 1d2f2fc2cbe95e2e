package dto

import (
	"strings"
	"time"

	"github.com/jhoicas/Bodega-api/internal/domain/entity"
)

// MutationRequest body para POST /api/mutations. Quantity lleva el signo
// salvo para los tipos con sentido implícito, donde se acepta positivo y el
// borde lo normaliza (un OUT con cantidad positiva se registra como -qty).
type MutationRequest struct {
	ItemID      string `json:"item_id"`
	WarehouseID string `json:"warehouse_id"`
	Quantity    int64  `json:"quantity"`
	Type        string `json:"type"`
	ReferenceNo string `json:"reference_no,omitempty"`
	BatchNo     string `json:"batch_no,omitempty"`
	Actor       string `json:"actor,omitempty"`
	Notes       string `json:"notes,omitempty"`
}

// NormalizeMovementType traduce las representaciones externas heterogéneas
// del tipo de movimiento ("Receive", "receive", "in", "Issue", ...) al enum
// cerrado del núcleo. Devuelve cadena vacía si no reconoce el valor.
func NormalizeMovementType(raw string) entity.MovementType {
	switch strings.ToUpper(strings.TrimSpace(raw)) {
	case "IN", "RECEIVE", "RECEIVED", "RECEIPT", "RETURN":
		return entity.MovementTypeIn
	case "OUT", "ISSUE", "ISSUED", "CHECKOUT":
		return entity.MovementTypeOut
	case "ADJUST", "ADJUSTMENT":
		return entity.MovementTypeAdjust
	case "CONSUMPTION", "CONSUME", "CONSUMED":
		return entity.MovementTypeConsumption
	case "PRODUCTION", "PRODUCE", "PRODUCED":
		return entity.MovementTypeProduction
	}
	return ""
}

// NormalizeSignedQuantity aplica el signo implícito del tipo cuando el
// cliente envía la cantidad en valor absoluto.
func NormalizeSignedQuantity(t entity.MovementType, quantity int64) int64 {
	switch t {
	case entity.MovementTypeOut, entity.MovementTypeConsumption:
		if quantity > 0 {
			return -quantity
		}
	case entity.MovementTypeIn, entity.MovementTypeProduction:
		if quantity < 0 {
			return -quantity
		}
	}
	return quantity
}

// MovementResponse representación HTTP de un movimiento del libro.
type MovementResponse struct {
	ID          string     `json:"id"`
	Seq         int64      `json:"seq"`
	ItemID      string     `json:"item_id"`
	WarehouseID string     `json:"warehouse_id"`
	Type        string     `json:"type"`
	Quantity    int64      `json:"quantity"`
	ReferenceNo string     `json:"reference_no,omitempty"`
	BatchNo     string     `json:"batch_no,omitempty"`
	ExpiresAt   *time.Time `json:"expires_at,omitempty"`
	Actor       string     `json:"actor,omitempty"`
	Notes       string     `json:"notes,omitempty"`
	Date        time.Time  `json:"date"`
}

// FromMovement construye la respuesta desde la entidad.
func FromMovement(m *entity.MovementRecord) MovementResponse {
	return MovementResponse{
		ID:          m.ID,
		Seq:         m.Seq,
		ItemID:      m.ItemID,
		WarehouseID: m.WarehouseID,
		Type:        string(m.Type),
		Quantity:    m.Quantity,
		ReferenceNo: m.ReferenceNo,
		BatchNo:     m.BatchNo,
		ExpiresAt:   m.ExpiresAt,
		Actor:       m.Actor,
		Notes:       m.Notes,
		Date:        m.Date,
	}
}

// FromMovements mapea una lista de movimientos.
func FromMovements(list []*entity.MovementRecord) []MovementResponse {
	out := make([]MovementResponse, 0, len(list))
	for _, m := range list {
		out = append(out, FromMovement(m))
	}
	return out
}
