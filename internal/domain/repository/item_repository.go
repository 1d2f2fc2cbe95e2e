package repository

import "github.com/jhoicas/Bodega-api/internal/domain/entity"

// ItemRepository puerto de persistencia para Item (DIP).
type ItemRepository interface {
	Create(item *entity.Item) error
	GetByID(id string) (*entity.Item, error)
	Update(item *entity.Item) error
	// List pagina el catálogo; limit <= 0 devuelve todo.
	List(limit, offset int) ([]*entity.Item, error)
	ListByCategory(categoryID string) ([]*entity.Item, error)
}
