package entity

import "time"

// StockPosition cantidad en mano actual de un artículo en una bodega.
// Es una proyección derivada del libro de movimientos: nunca se muta
// directamente, solo se actualiza de forma incremental al aceptar un
// movimiento o se reconstruye replicando el libro completo.
// Invariante: Quantity >= 0 en todo momento.
type StockPosition struct {
	ItemID      string
	WarehouseID string
	Quantity    int64
	UpdatedAt   time.Time
}
