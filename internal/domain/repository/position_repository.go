package repository

import "github.com/jhoicas/Bodega-api/internal/domain/entity"

// StockPositionRepository puerto del índice memoizado de cantidades por par
// (item, bodega). Se actualiza incrementalmente dentro de la misma
// transacción que acepta cada movimiento y debe poder reconstruirse desde
// cero replicando el libro.
type StockPositionRepository interface {
	// Get devuelve la posición actual; posición cero si el par no existe.
	Get(itemID, warehouseID string) (*entity.StockPosition, error)
	// GetForUpdate bloquea la fila del par durante la transacción
	// (SELECT FOR UPDATE) para serializar read-validate-append.
	GetForUpdate(itemID, warehouseID string) (*entity.StockPosition, error)
	Upsert(position *entity.StockPosition) error
	ListByItem(itemID string) ([]*entity.StockPosition, error)
	ListByWarehouse(warehouseID string) ([]*entity.StockPosition, error)
	ListAll() ([]*entity.StockPosition, error)
	// DeleteAll vacía el índice antes de una reconstrucción por replay.
	DeleteAll() error
}
