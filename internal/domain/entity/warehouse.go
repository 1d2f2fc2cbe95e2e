package entity

import "time"

// Warehouse representa una bodega donde se almacena inventario (multi-bodega).
// Posee cero o más posiciones de stock derivadas del libro de movimientos.
type Warehouse struct {
	ID        string
	Name      string
	Address   string
	Capacity  int64 // capacidad nominal en unidades; 0 = sin límite declarado
	CreatedAt time.Time
	UpdatedAt time.Time
}
