package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/codefactory-g12/petmanager-api/internal/domain/entity"
	"github.com/codefactory-g12/petmanager-api/internal/domain/repository"
)

var _ repository.PaymentLineItemRepository = (*PaymentLineItemRepo)(nil)

// PaymentLineItemRepo líneas de pago (tabla payments_products).
type PaymentLineItemRepo struct {
	q Querier
}

// NewPaymentLineItemRepository construye el adaptador. Pasar pool o tx (Querier).
func NewPaymentLineItemRepository(q Querier) *PaymentLineItemRepo {
	return &PaymentLineItemRepo{q: q}
}

// CreateBatch envía todos los INSERT en un único pgx.Batch. Si alguno falla se
// devuelve el primer error; dentro de una tx eso deja la tx abortada y el llamador hace rollback.
func (r *PaymentLineItemRepo) CreateBatch(ctx context.Context, items []*entity.PaymentLineItem) error {
	if len(items) == 0 {
		return nil
	}
	const query = `
		INSERT INTO payments_products (id, payment_id, line_number, product_id, quantity, price_per_unit, total_amount)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	batch := &pgx.Batch{}
	for _, it := range items {
		batch.Queue(query, it.ID, it.PaymentID, it.LineNumber, it.ProductID, it.Quantity, it.PricePerUnit, it.TotalAmount)
	}
	br := r.q.SendBatch(ctx, batch)
	defer br.Close()
	for i := range items {
		if _, err := br.Exec(); err != nil {
			return fmt.Errorf("insert payment line %d: %w", items[i].LineNumber, err)
		}
	}
	return br.Close()
}

// ListByPayment devuelve las líneas del pago con su producto, en orden de línea.
func (r *PaymentLineItemRepo) ListByPayment(ctx context.Context, paymentID string) ([]*entity.PaymentLineItem, error) {
	query := `
		SELECT pp.id::text, pp.payment_id::text, pp.line_number, pp.product_id::text,
		       pp.quantity, pp.price_per_unit, pp.total_amount,
		       p.name, p.brand, p.created_at
		FROM payments_products pp
		JOIN products p ON p.id = pp.product_id
		WHERE pp.payment_id = $1
		ORDER BY pp.line_number`
	rows, err := r.q.Query(ctx, query, paymentID)
	if err != nil {
		return nil, fmt.Errorf("list payment lines: %w", err)
	}
	defer rows.Close()

	var list []*entity.PaymentLineItem
	for rows.Next() {
		var (
			it   entity.PaymentLineItem
			prod entity.Product
		)
		if err := rows.Scan(&it.ID, &it.PaymentID, &it.LineNumber, &it.ProductID,
			&it.Quantity, &it.PricePerUnit, &it.TotalAmount,
			&prod.Name, &prod.Brand, &prod.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan payment line: %w", err)
		}
		prod.ID = it.ProductID
		it.Product = &prod
		list = append(list, &it)
	}
	return list, rows.Err()
}
