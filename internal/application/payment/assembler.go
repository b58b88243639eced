package payment

import (
	"context"
	"fmt"

	"github.com/codefactory-g12/petmanager-api/internal/application/dto"
	"github.com/codefactory-g12/petmanager-api/internal/domain/entity"
	"github.com/codefactory-g12/petmanager-api/internal/domain/repository"
)

// ResponseAssembler proyecta un pago persistido a su forma de lectura. No modifica nada;
// un pago recién creado y uno leído después producen la misma respuesta.
type ResponseAssembler struct {
	lineRepo repository.PaymentLineItemRepository
}

// NewResponseAssembler construye el ensamblador sobre lineRepo (pool o tx).
func NewResponseAssembler(lineRepo repository.PaymentLineItemRepository) *ResponseAssembler {
	return &ResponseAssembler{lineRepo: lineRepo}
}

// Assemble lee las líneas del pago y arma la respuesta.
func (a *ResponseAssembler) Assemble(ctx context.Context, p *entity.Payment) (*dto.PaymentResponse, error) {
	lines, err := a.lineRepo.ListByPayment(ctx, p.ID)
	if err != nil {
		return nil, fmt.Errorf("obtener líneas del pago %s: %w", p.ID, err)
	}

	out := &dto.PaymentResponse{
		PaymentID:   p.ID,
		SupplierID:  p.SupplierID,
		PaymentDate: p.PaymentDate.Format(dto.DateLayout),
		Amount:      p.Amount,
		Notes:       p.Notes,
		Products:    make([]dto.PaymentLineResponse, 0, len(lines)),
	}
	for _, l := range lines {
		product := dto.ProductResponse{ID: l.ProductID}
		if l.Product != nil {
			product.Name = l.Product.Name
			product.Brand = l.Product.Brand
		}
		out.Products = append(out.Products, dto.PaymentLineResponse{
			Product:      product,
			Quantity:     l.Quantity,
			PricePerUnit: l.PricePerUnit,
			TotalAmount:  l.TotalAmount,
		})
	}
	return out, nil
}

// AssembleAll ensambla una lista de pagos manteniendo el orden.
func (a *ResponseAssembler) AssembleAll(ctx context.Context, payments []*entity.Payment) ([]dto.PaymentResponse, error) {
	out := make([]dto.PaymentResponse, 0, len(payments))
	for _, p := range payments {
		resp, err := a.Assemble(ctx, p)
		if err != nil {
			return nil, err
		}
		out = append(out, *resp)
	}
	return out, nil
}
