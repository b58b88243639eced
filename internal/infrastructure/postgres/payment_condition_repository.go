package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/codefactory-g12/petmanager-api/internal/domain/entity"
	"github.com/codefactory-g12/petmanager-api/internal/domain/repository"
)

var _ repository.PaymentConditionRepository = (*PaymentConditionRepo)(nil)

// PaymentConditionRepo catálogo de condiciones de pago (sembrado por migración).
type PaymentConditionRepo struct {
	q Querier
}

// NewPaymentConditionRepository construye el adaptador.
func NewPaymentConditionRepository(q Querier) *PaymentConditionRepo {
	return &PaymentConditionRepo{q: q}
}

// List devuelve todas las condiciones ordenadas por id.
func (r *PaymentConditionRepo) List(ctx context.Context) ([]*entity.PaymentCondition, error) {
	rows, err := r.q.Query(ctx, `SELECT id, name FROM payment_conditions ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list payment conditions: %w", err)
	}
	defer rows.Close()
	var list []*entity.PaymentCondition
	for rows.Next() {
		var c entity.PaymentCondition
		if err := rows.Scan(&c.ID, &c.Name); err != nil {
			return nil, fmt.Errorf("scan payment condition: %w", err)
		}
		list = append(list, &c)
	}
	return list, rows.Err()
}

func (r *PaymentConditionRepo) GetByID(ctx context.Context, id int) (*entity.PaymentCondition, error) {
	return r.getOne(ctx, `SELECT id, name FROM payment_conditions WHERE id = $1`, id)
}

// GetByName búsqueda sin distinguir mayúsculas (la usa la importación de proveedores).
func (r *PaymentConditionRepo) GetByName(ctx context.Context, name string) (*entity.PaymentCondition, error) {
	return r.getOne(ctx, `SELECT id, name FROM payment_conditions WHERE lower(name) = lower($1)`, name)
}

func (r *PaymentConditionRepo) getOne(ctx context.Context, query string, arg any) (*entity.PaymentCondition, error) {
	var c entity.PaymentCondition
	if err := r.q.QueryRow(ctx, query, arg).Scan(&c.ID, &c.Name); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get payment condition: %w", err)
	}
	return &c, nil
}
