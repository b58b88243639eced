package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/codefactory-g12/petmanager-api/internal/application/payment"
	"github.com/codefactory-g12/petmanager-api/internal/application/supplier"
	"github.com/codefactory-g12/petmanager-api/internal/domain/repository"
)

// Ensure TxRunner implements payment.TxRunner and supplier.TxRunner.
var (
	_ payment.TxRunner  = (*TxRunner)(nil)
	_ supplier.TxRunner = (*TxRunner)(nil)
)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// RunPayments ejecuta fn con los repos del agregado Pago atados a una misma tx.
func (r *TxRunner) RunPayments(ctx context.Context, fn func(repos payment.TxRepos) error) error {
	return r.run(ctx, func(tx pgx.Tx) error {
		return fn(payment.TxRepos{
			Suppliers: NewSupplierRepository(tx),
			Products:  NewProductRepository(tx),
			Payments:  NewPaymentRepository(tx),
			LineItems: NewPaymentLineItemRepository(tx),
		})
	})
}

// RunSuppliers ejecuta fn con el repo de proveedores atado a una tx (importación masiva).
func (r *TxRunner) RunSuppliers(ctx context.Context, fn func(suppliers repository.SupplierRepository) error) error {
	return r.run(ctx, func(tx pgx.Tx) error {
		return fn(NewSupplierRepository(tx))
	})
}

// run inicia una transacción, ejecuta fn y hace Commit o Rollback.
func (r *TxRunner) run(ctx context.Context, fn func(tx pgx.Tx) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}
