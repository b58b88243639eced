package payment

import (
	"context"
	"fmt"

	"github.com/codefactory-g12/petmanager-api/internal/application/dto"
	"github.com/codefactory-g12/petmanager-api/internal/domain"
	"github.com/codefactory-g12/petmanager-api/internal/domain/repository"
)

type paymentReader interface {
	GetPaymentByID(ctx context.Context, id string) (*dto.PaymentResponse, error)
}

// ReceiptUseCase genera el comprobante PDF de un pago a partir de su respuesta ensamblada.
type ReceiptUseCase struct {
	payments     paymentReader
	supplierRepo repository.SupplierRepository
	generator    ReceiptPDFGenerator
}

// NewReceiptUseCase construye el caso de uso.
func NewReceiptUseCase(payments paymentReader, supplierRepo repository.SupplierRepository, generator ReceiptPDFGenerator) *ReceiptUseCase {
	return &ReceiptUseCase{payments: payments, supplierRepo: supplierRepo, generator: generator}
}

// DownloadReceipt devuelve los bytes del PDF y el nombre de archivo sugerido.
//
// Retorna:
//   - domain.ErrPaymentNotFound  si el pago no existe.
//   - domain.ErrSupplierNotFound si el proveedor del pago ya no existe.
func (uc *ReceiptUseCase) DownloadReceipt(ctx context.Context, paymentID string) ([]byte, string, error) {
	payment, err := uc.payments.GetPaymentByID(ctx, paymentID)
	if err != nil {
		return nil, "", err
	}
	supplier, err := uc.supplierRepo.GetByID(ctx, payment.SupplierID)
	if err != nil {
		return nil, "", fmt.Errorf("comprobante: obtener proveedor: %w", err)
	}
	if supplier == nil {
		return nil, "", domain.ErrSupplierNotFound
	}
	pdfBytes, err := uc.generator.GeneratePaymentReceipt(ctx, supplier, payment)
	if err != nil {
		return nil, "", fmt.Errorf("comprobante: generación fallida: %w", err)
	}
	filename := fmt.Sprintf("pago_%s_%s.pdf", payment.PaymentDate, shortID(payment.PaymentID))
	return pdfBytes, filename, nil
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
