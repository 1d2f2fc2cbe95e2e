package entity

import "time"

// Tipos de ajuste de stock (propuesta que requiere aprobación).
type AdjustmentType string

const (
	AdjustmentTypeDamage     AdjustmentType = "Damage"
	AdjustmentTypeLost       AdjustmentType = "Lost"
	AdjustmentTypeReturn     AdjustmentType = "Return"
	AdjustmentTypeCorrection AdjustmentType = "Correction"
)

// Valid indica si el tipo de ajuste es conocido.
func (t AdjustmentType) Valid() bool {
	switch t {
	case AdjustmentTypeDamage, AdjustmentTypeLost, AdjustmentTypeReturn, AdjustmentTypeCorrection:
		return true
	}
	return false
}

// AdjustmentDirection sentido explícito del ajuste. El nombre del tipo no
// determina el signo para Return/Correction: el solicitante debe declararlo.
type AdjustmentDirection string

const (
	AdjustmentDirectionIn  AdjustmentDirection = "IN"
	AdjustmentDirectionOut AdjustmentDirection = "OUT"
)

// Estados del ciclo de vida de un ajuste. PENDING transiciona una sola vez
// a APPROVED o REJECTED; ambos son terminales.
type AdjustmentStatus string

const (
	AdjustmentStatusPending  AdjustmentStatus = "PENDING"
	AdjustmentStatusApproved AdjustmentStatus = "APPROVED"
	AdjustmentStatusRejected AdjustmentStatus = "REJECTED"
)

// Adjustment propuesta de corrección de stock. Solo un ajuste APPROVED
// produce un movimiento en el libro; PENDING y REJECTED tienen efecto cero.
type Adjustment struct {
	ID          string
	ItemID      string
	WarehouseID string
	Type        AdjustmentType
	Direction   AdjustmentDirection
	Quantity    int64 // siempre positivo; el sentido lo da Direction
	Notes       string
	Status      AdjustmentStatus
	RequestedBy string
	MovementID  string // movimiento generado al aprobar
	CreatedAt   time.Time
	ResolvedAt  *time.Time
}

// SignedDelta delta con signo que aplicaría este ajuste al libro.
// Damage y Lost son siempre salidas; Return y Correction usan Direction.
func (a *Adjustment) SignedDelta() int64 {
	switch a.Type {
	case AdjustmentTypeDamage, AdjustmentTypeLost:
		return -a.Quantity
	}
	if a.Direction == AdjustmentDirectionOut {
		return -a.Quantity
	}
	return a.Quantity
}

// Pending indica si el ajuste sigue abierto.
func (a *Adjustment) Pending() bool { return a.Status == AdjustmentStatusPending }
