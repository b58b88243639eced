package payment

import (
	"context"

	"github.com/codefactory-g12/petmanager-api/internal/application/dto"
	"github.com/codefactory-g12/petmanager-api/internal/domain/entity"
	"github.com/codefactory-g12/petmanager-api/internal/domain/repository"
)

// TxRepos repositorios atados a una misma transacción (unidad de trabajo de un pago).
type TxRepos struct {
	Suppliers repository.SupplierRepository
	Products  repository.ProductRepository
	Payments  repository.PaymentRepository
	LineItems repository.PaymentLineItemRepository
}

// TxRunner ejecuta fn dentro de una transacción de BD. Si fn retorna error se hace
// rollback; si no, commit.
type TxRunner interface {
	RunPayments(ctx context.Context, fn func(repos TxRepos) error) error
}

// Resultados de la resolución de producto (métricas).
const (
	ResolvedByID     = "by_id"
	ResolvedReused   = "reused"
	ResolvedCreated  = "created"
	ResolvedRefetch  = "conflict_refetched"
	ResolvedConflict = "conflict"
)

// Recorder recibe eventos del agregado para métricas. Lo implementa el adaptador de Prometheus.
type Recorder interface {
	PaymentCreated(lines int)
	ProductResolved(outcome string)
}

type nopRecorder struct{}

func (nopRecorder) PaymentCreated(int)     {}
func (nopRecorder) ProductResolved(string) {}

// ReceiptPDFGenerator genera el comprobante PDF de un pago ya ensamblado.
type ReceiptPDFGenerator interface {
	GeneratePaymentReceipt(ctx context.Context, supplier *entity.Supplier, payment *dto.PaymentResponse) ([]byte, error)
}
