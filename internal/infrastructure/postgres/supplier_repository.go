package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/codefactory-g12/petmanager-api/internal/domain/entity"
	"github.com/codefactory-g12/petmanager-api/internal/domain/repository"
)

var _ repository.SupplierRepository = (*SupplierRepo)(nil)

// SupplierRepo implementación de SupplierRepository (usable con pool o tx).
type SupplierRepo struct {
	q Querier
}

// NewSupplierRepository construye el adaptador. Pasar pool o tx (Querier).
func NewSupplierRepository(q Querier) *SupplierRepo {
	return &SupplierRepo{q: q}
}

const supplierColumns = `id::text, name, tax_id, COALESCE(address, ''), COALESCE(phone, ''),
	payment_condition_id, COALESCE(payment_notes, ''), created_at, updated_at`

func scanSupplier(row pgx.Row) (*entity.Supplier, error) {
	var s entity.Supplier
	err := row.Scan(&s.ID, &s.Name, &s.TaxID, &s.Address, &s.Phone,
		&s.PaymentConditionID, &s.PaymentNotes, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// GetByID obtiene un proveedor por ID.
func (r *SupplierRepo) GetByID(ctx context.Context, id string) (*entity.Supplier, error) {
	if !isUUID(id) {
		return nil, nil
	}
	s, err := scanSupplier(r.q.QueryRow(ctx, `SELECT `+supplierColumns+` FROM suppliers WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get supplier: %w", err)
	}
	return s, nil
}

// GetByTaxID obtiene un proveedor por NIT.
func (r *SupplierRepo) GetByTaxID(ctx context.Context, taxID string) (*entity.Supplier, error) {
	s, err := scanSupplier(r.q.QueryRow(ctx, `SELECT `+supplierColumns+` FROM suppliers WHERE tax_id = $1`, taxID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get supplier by tax_id: %w", err)
	}
	return s, nil
}

// Upsert inserta o actualiza por tax_id. xmax = 0 distingue la fila recién insertada.
func (r *SupplierRepo) Upsert(ctx context.Context, s *entity.Supplier) (bool, error) {
	query := `
		INSERT INTO suppliers (id, name, tax_id, address, phone, payment_condition_id, payment_notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (tax_id) DO UPDATE
		SET name = EXCLUDED.name,
		    address = EXCLUDED.address,
		    phone = EXCLUDED.phone,
		    payment_condition_id = EXCLUDED.payment_condition_id,
		    payment_notes = EXCLUDED.payment_notes,
		    updated_at = EXCLUDED.updated_at
		RETURNING id::text, (xmax = 0)`
	var inserted bool
	err := r.q.QueryRow(ctx, query,
		s.ID, s.Name, s.TaxID, nullIfEmpty(s.Address), nullIfEmpty(s.Phone),
		s.PaymentConditionID, nullIfEmpty(s.PaymentNotes), s.CreatedAt, s.UpdatedAt,
	).Scan(&s.ID, &inserted)
	if err != nil {
		return false, fmt.Errorf("upsert supplier: %w", err)
	}
	return inserted, nil
}
