package repository

import (
	"context"

	"github.com/codefactory-g12/petmanager-api/internal/domain/entity"
)

// PaymentConditionRepository catálogo de condiciones de pago.
type PaymentConditionRepository interface {
	List(ctx context.Context) ([]*entity.PaymentCondition, error)
	GetByID(ctx context.Context, id int) (*entity.PaymentCondition, error)
	GetByName(ctx context.Context, name string) (*entity.PaymentCondition, error)
}
