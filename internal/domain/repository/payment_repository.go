package repository

import (
	"context"
	"time"

	"github.com/codefactory-g12/petmanager-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// PaymentRepository define el puerto de persistencia para la cabecera de Payment.
type PaymentRepository interface {
	Create(ctx context.Context, payment *entity.Payment) error
	UpdateAmount(ctx context.Context, paymentID string, amount decimal.Decimal) error
	GetByID(ctx context.Context, id string) (*entity.Payment, error)
	// ListBySupplier ordena por fecha ascendente y luego por creación.
	ListBySupplier(ctx context.Context, supplierID string) ([]*entity.Payment, error)
	// FindLastOnOrBefore el pago más reciente con fecha <= date; desempate por created_at e id descendentes.
	FindLastOnOrBefore(ctx context.Context, supplierID string, date time.Time) (*entity.Payment, error)
	// FindNextAfter el pago más próximo con fecha > date; desempate por created_at e id ascendentes.
	FindNextAfter(ctx context.Context, supplierID string, date time.Time) (*entity.Payment, error)
}

// PaymentLineItemRepository define el puerto de persistencia para las líneas de un pago.
type PaymentLineItemRepository interface {
	// CreateBatch persiste todas las líneas en una sola operación (todo o nada).
	CreateBatch(ctx context.Context, items []*entity.PaymentLineItem) error
	// ListByPayment devuelve las líneas en orden de LineNumber con Product cargado.
	ListByPayment(ctx context.Context, paymentID string) ([]*entity.PaymentLineItem, error)
}
