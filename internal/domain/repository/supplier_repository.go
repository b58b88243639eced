package repository

import (
	"context"

	"github.com/codefactory-g12/petmanager-api/internal/domain/entity"
)

// SupplierRepository define el puerto de persistencia para Supplier.
// GetByID y GetByTaxID devuelven (nil, nil) si no existe.
type SupplierRepository interface {
	GetByID(ctx context.Context, id string) (*entity.Supplier, error)
	GetByTaxID(ctx context.Context, taxID string) (*entity.Supplier, error)
	// Upsert inserta o actualiza por TaxID. Devuelve true si el registro es nuevo
	// y deja en supplier.ID el id persistido.
	Upsert(ctx context.Context, supplier *entity.Supplier) (bool, error)
}
