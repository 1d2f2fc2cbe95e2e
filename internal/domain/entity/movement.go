package entity

import "time"

// MovementType tipo cerrado de movimiento de stock. Las representaciones
// externas ("Receive", "receive", "in", ...) se normalizan en el borde (dto);
// el núcleo solo acepta estos valores.
type MovementType string

const (
	MovementTypeIn          MovementType = "IN"          // entrada (recepción, devolución, recepción de OC)
	MovementTypeOut         MovementType = "OUT"         // salida (despacho, checkout)
	MovementTypeAdjust      MovementType = "ADJUST"      // ajuste aprobado o retracción administrativa
	MovementTypeConsumption MovementType = "CONSUMPTION" // consumo interno
	MovementTypeProduction  MovementType = "PRODUCTION"  // producción (entrada)
)

// Valid indica si el tipo pertenece al enum cerrado.
func (t MovementType) Valid() bool {
	switch t {
	case MovementTypeIn, MovementTypeOut, MovementTypeAdjust, MovementTypeConsumption, MovementTypeProduction:
		return true
	}
	return false
}

// MovementRecord hecho inmutable del libro de stock: un cambio de cantidad
// para un par (item, bodega). Nunca se edita ni se borra; una retracción
// administrativa se registra como un movimiento inverso compensatorio.
//
// Seq es la secuencia de inserción monótona y es el orden autoritativo del
// libro; Date es metadato descriptivo (los timestamps de pared pueden
// colisionar a resolución de sub-segundo).
type MovementRecord struct {
	ID          string
	Seq         int64
	ItemID      string
	WarehouseID string
	Type        MovementType
	Quantity    int64 // delta con signo: positivo entrada, negativo salida
	ReferenceNo string
	BatchNo     string
	ExpiresAt   *time.Time
	Actor       string
	Notes       string
	Date        time.Time
	CreatedAt   time.Time
}

// Inbound indica si el movimiento suma stock.
func (m *MovementRecord) Inbound() bool { return m.Quantity > 0 }

// Inverse construye el movimiento compensatorio de una retracción: mismo par,
// delta negado, referenciando el movimiento original.
func (m *MovementRecord) Inverse(now time.Time) *MovementRecord {
	return &MovementRecord{
		ItemID:      m.ItemID,
		WarehouseID: m.WarehouseID,
		Type:        MovementTypeAdjust,
		Quantity:    -m.Quantity,
		ReferenceNo: m.ID,
		Notes:       "retraction of movement " + m.ID,
		Date:        now,
		CreatedAt:   now,
	}
}
