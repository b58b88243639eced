package payment

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/codefactory-g12/petmanager-api/internal/application/dto"
	"github.com/codefactory-g12/petmanager-api/internal/domain"
	"github.com/codefactory-g12/petmanager-api/internal/domain/entity"
	"github.com/codefactory-g12/petmanager-api/internal/domain/repository"
)

// LineItemBuilder convierte las líneas solicitadas en líneas persistidas de un pago.
type LineItemBuilder struct {
	resolver *ProductResolver
	lineRepo repository.PaymentLineItemRepository
}

// NewLineItemBuilder construye el builder con repos de la transacción en curso.
func NewLineItemBuilder(productRepo repository.ProductRepository, lineRepo repository.PaymentLineItemRepository, recorder Recorder) *LineItemBuilder {
	return &LineItemBuilder{
		resolver: NewProductResolver(productRepo, recorder),
		lineRepo: lineRepo,
	}
}

// Límites de las columnas: quantity INTEGER, montos NUMERIC(14,2).
const (
	maxQuantity    = math.MaxInt32
	amountDecimals = 2
)

var maxAmount = decimal.New(1, 12)

// ValidateLines revisa todas las líneas antes de cualquier escritura:
// al menos una línea, 0 < quantity <= MaxInt32, price_per_unit >= 0 con a lo sumo
// dos decimales, referencia de producto, y totales (por línea y del pago) < 10^12.
func ValidateLines(lines []dto.PaymentLineRequest) error {
	if len(lines) == 0 {
		return fmt.Errorf("%w: el pago requiere al menos un producto", domain.ErrInvalidInput)
	}
	total := decimal.Zero
	for i, l := range lines {
		n := i + 1
		if l.Quantity <= 0 {
			return fmt.Errorf("%w: línea %d: quantity debe ser mayor que 0", domain.ErrInvalidInput, n)
		}
		if l.Quantity > maxQuantity {
			return fmt.Errorf("%w: línea %d: quantity no puede superar %d", domain.ErrInvalidInput, n, maxQuantity)
		}
		if l.PricePerUnit.IsNegative() {
			return fmt.Errorf("%w: línea %d: price_per_unit no puede ser negativo", domain.ErrInvalidInput, n)
		}
		if !l.PricePerUnit.Equal(l.PricePerUnit.Truncate(amountDecimals)) {
			return fmt.Errorf("%w: línea %d: price_per_unit admite a lo sumo %d decimales", domain.ErrInvalidInput, n, amountDecimals)
		}
		lineTotal := entity.LineTotal(l.Quantity, l.PricePerUnit)
		if lineTotal.GreaterThanOrEqual(maxAmount) {
			return fmt.Errorf("%w: línea %d: el total de la línea excede el máximo permitido", domain.ErrInvalidInput, n)
		}
		total = total.Add(lineTotal)
		if total.GreaterThanOrEqual(maxAmount) {
			return fmt.Errorf("%w: el total del pago excede el máximo permitido", domain.ErrInvalidInput)
		}
		ref := l.Product
		if strings.TrimSpace(ref.ID) == "" && (strings.TrimSpace(ref.Name) == "" || strings.TrimSpace(ref.Brand) == "") {
			return fmt.Errorf("%w: línea %d: el producto requiere id o name y brand", domain.ErrInvalidInput, n)
		}
	}
	return nil
}

// Build valida, resuelve cada producto, calcula los totales y persiste todas las
// líneas en un solo lote. Devuelve las líneas y el total del pago.
func (b *LineItemBuilder) Build(ctx context.Context, paymentID string, lines []dto.PaymentLineRequest) ([]*entity.PaymentLineItem, decimal.Decimal, error) {
	if err := ValidateLines(lines); err != nil {
		return nil, decimal.Zero, err
	}

	items := make([]*entity.PaymentLineItem, 0, len(lines))
	total := decimal.Zero
	for i, l := range lines {
		product, err := b.resolver.Resolve(ctx, l.Product)
		if err != nil {
			return nil, decimal.Zero, fmt.Errorf("línea %d: %w", i+1, err)
		}
		lineTotal := entity.LineTotal(l.Quantity, l.PricePerUnit)
		items = append(items, &entity.PaymentLineItem{
			ID:           uuid.New().String(),
			PaymentID:    paymentID,
			LineNumber:   i + 1,
			ProductID:    product.ID,
			Product:      product,
			Quantity:     l.Quantity,
			PricePerUnit: l.PricePerUnit,
			TotalAmount:  lineTotal,
		})
		total = total.Add(lineTotal)
	}

	if err := b.lineRepo.CreateBatch(ctx, items); err != nil {
		return nil, decimal.Zero, fmt.Errorf("guardar líneas del pago: %w", err)
	}
	return items, total, nil
}
