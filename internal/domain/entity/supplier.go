package entity

import "time"

// Supplier proveedor asociado a artículos y órdenes de compra.
type Supplier struct {
	ID        string
	Name      string
	Contact   string
	CreatedAt time.Time
	UpdatedAt time.Time
}
