package entity

import "time"

// Category representa una categoría de artículos del catálogo.
type Category struct {
	ID        string
	Name      string
	Code      string // código único
	CreatedAt time.Time
	UpdatedAt time.Time
}
