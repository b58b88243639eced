package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/codefactory-g12/petmanager-api/internal/domain"
	"github.com/codefactory-g12/petmanager-api/internal/domain/entity"
	"github.com/codefactory-g12/petmanager-api/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

// ProductRepo implementación del puerto ProductRepository sobre PostgreSQL (usable con pool o tx).
type ProductRepo struct {
	q Querier
}

// NewProductRepository construye el adaptador de persistencia para productos. Pasar pool o tx (Querier).
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

// Create inserta el producto. Con ON CONFLICT DO NOTHING la colisión no aborta la
// transacción en curso; se reporta como domain.ErrDuplicate para que el llamador relea.
func (r *ProductRepo) Create(ctx context.Context, product *entity.Product) error {
	query := `
		INSERT INTO products (id, name, brand, created_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT ((lower(name)), (lower(brand))) DO NOTHING`
	cmd, err := r.q.Exec(ctx, query, product.ID, product.Name, product.Brand, product.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert product: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrDuplicate
	}
	return nil
}

// GetByID obtiene un producto por ID.
func (r *ProductRepo) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	if !isUUID(id) {
		return nil, nil
	}
	return r.getOne(ctx, `SELECT id::text, name, brand, created_at FROM products WHERE id = $1`, id)
}

// FindByNameAndBrand busca por (name, brand) sin distinguir mayúsculas; usa el índice único.
func (r *ProductRepo) FindByNameAndBrand(ctx context.Context, name, brand string) (*entity.Product, error) {
	return r.getOne(ctx,
		`SELECT id::text, name, brand, created_at FROM products WHERE lower(name) = lower($1) AND lower(brand) = lower($2)`,
		name, brand)
}

func (r *ProductRepo) getOne(ctx context.Context, query string, args ...any) (*entity.Product, error) {
	var p entity.Product
	err := r.q.QueryRow(ctx, query, args...).Scan(&p.ID, &p.Name, &p.Brand, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	return &p, nil
}
