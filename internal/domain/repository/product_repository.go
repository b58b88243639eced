package repository

import (
	"context"

	"github.com/codefactory-g12/petmanager-api/internal/domain/entity"
)

// ProductRepository define el puerto de persistencia para Product (DIP).
type ProductRepository interface {
	GetByID(ctx context.Context, id string) (*entity.Product, error)
	// FindByNameAndBrand busca sin distinguir mayúsculas. (nil, nil) si no existe.
	FindByNameAndBrand(ctx context.Context, name, brand string) (*entity.Product, error)
	// Create devuelve domain.ErrDuplicate si ya existe otro producto con el mismo (name, brand).
	Create(ctx context.Context, product *entity.Product) error
}
