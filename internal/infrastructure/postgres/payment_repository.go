package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/codefactory-g12/petmanager-api/internal/domain"
	"github.com/codefactory-g12/petmanager-api/internal/domain/entity"
	"github.com/codefactory-g12/petmanager-api/internal/domain/repository"
)

var _ repository.PaymentRepository = (*PaymentRepo)(nil)

// PaymentRepo implementación de PaymentRepository (usable con pool o tx).
type PaymentRepo struct {
	q Querier
}

// NewPaymentRepository construye el adaptador. Pasar pool o tx (Querier).
func NewPaymentRepository(q Querier) *PaymentRepo {
	return &PaymentRepo{q: q}
}

const paymentColumns = `id::text, supplier_id::text, payment_date, amount, COALESCE(notes, ''), created_at`

func scanPayment(row pgx.Row) (*entity.Payment, error) {
	var p entity.Payment
	if err := row.Scan(&p.ID, &p.SupplierID, &p.PaymentDate, &p.Amount, &p.Notes, &p.CreatedAt); err != nil {
		return nil, err
	}
	p.PaymentDate = p.PaymentDate.UTC()
	return &p, nil
}

// Create persiste la cabecera del pago.
func (r *PaymentRepo) Create(ctx context.Context, p *entity.Payment) error {
	query := `
		INSERT INTO payments (id, supplier_id, payment_date, amount, notes, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.q.Exec(ctx, query,
		p.ID, p.SupplierID, p.PaymentDate, p.Amount, nullIfEmpty(p.Notes), p.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert payment: %w", err)
	}
	return nil
}

// UpdateAmount fija el total derivado de las líneas.
func (r *PaymentRepo) UpdateAmount(ctx context.Context, paymentID string, amount decimal.Decimal) error {
	cmd, err := r.q.Exec(ctx, `UPDATE payments SET amount = $2 WHERE id = $1`, paymentID, amount)
	if err != nil {
		return fmt.Errorf("update payment amount: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrPaymentNotFound
	}
	return nil
}

// GetByID obtiene un pago por ID.
func (r *PaymentRepo) GetByID(ctx context.Context, id string) (*entity.Payment, error) {
	if !isUUID(id) {
		return nil, nil
	}
	return r.getOne(ctx, `SELECT `+paymentColumns+` FROM payments WHERE id = $1`, id)
}

// ListBySupplier todos los pagos del proveedor en orden cronológico.
func (r *PaymentRepo) ListBySupplier(ctx context.Context, supplierID string) ([]*entity.Payment, error) {
	query := `SELECT ` + paymentColumns + `
		FROM payments WHERE supplier_id = $1
		ORDER BY payment_date ASC, created_at ASC, id ASC`
	rows, err := r.q.Query(ctx, query, supplierID)
	if err != nil {
		return nil, fmt.Errorf("list payments: %w", err)
	}
	defer rows.Close()
	var list []*entity.Payment
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, fmt.Errorf("scan payment: %w", err)
		}
		list = append(list, p)
	}
	return list, rows.Err()
}

// FindLastOnOrBefore último pago con fecha <= date (usa idx_payments_supplier_date).
func (r *PaymentRepo) FindLastOnOrBefore(ctx context.Context, supplierID string, date time.Time) (*entity.Payment, error) {
	query := `SELECT ` + paymentColumns + `
		FROM payments WHERE supplier_id = $1 AND payment_date <= $2
		ORDER BY payment_date DESC, created_at DESC, id DESC
		LIMIT 1`
	return r.getOne(ctx, query, supplierID, date)
}

// FindNextAfter siguiente pago con fecha > date.
func (r *PaymentRepo) FindNextAfter(ctx context.Context, supplierID string, date time.Time) (*entity.Payment, error) {
	query := `SELECT ` + paymentColumns + `
		FROM payments WHERE supplier_id = $1 AND payment_date > $2
		ORDER BY payment_date ASC, created_at ASC, id ASC
		LIMIT 1`
	return r.getOne(ctx, query, supplierID, date)
}

func (r *PaymentRepo) getOne(ctx context.Context, query string, args ...any) (*entity.Payment, error) {
	p, err := scanPayment(r.q.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get payment: %w", err)
	}
	return p, nil
}
