// Package pdf genera el comprobante de pago a proveedor en PDF.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Tienda             │  Comprobante N° + Fecha        │
//	│  PROVEEDOR: Nombre + NIT + contacto                          │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: # | Producto | Marca | Cant | P.Unit | Total          │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TOTAL PAGADO                                               │
//	│  NOTAS + QR de verificación                                 │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"strings"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/code"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/shopspring/decimal"

	"github.com/codefactory-g12/petmanager-api/internal/application/dto"
	"github.com/codefactory-g12/petmanager-api/internal/application/payment"
	"github.com/codefactory-g12/petmanager-api/internal/domain/entity"
)

var _ payment.ReceiptPDFGenerator = (*ReceiptGenerator)(nil)

var (
	colorPrimary = &props.Color{Red: 27, Green: 94, Blue: 32}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

// ReceiptGenerator implementa payment.ReceiptPDFGenerator con Maroto v2.
type ReceiptGenerator struct {
	storeName string
}

// NewReceiptGenerator construye el generador; storeName aparece en el encabezado.
func NewReceiptGenerator(storeName string) *ReceiptGenerator {
	return &ReceiptGenerator{storeName: storeName}
}

// GeneratePaymentReceipt genera el PDF y devuelve sus bytes.
func (g *ReceiptGenerator) GeneratePaymentReceipt(_ context.Context, supplier *entity.Supplier, p *dto.PaymentResponse) ([]byte, error) {
	if supplier == nil || p == nil {
		return nil, fmt.Errorf("pdf: proveedor y pago son requeridos")
	}
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(12).WithRightMargin(12).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Comprobante de pago a proveedor", true).
		WithAuthor(g.storeName, true).
		Build()

	m := maroto.New(cfg)
	m.AddRows(g.headerRow(p))
	m.AddRows(supplierRow(supplier))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.4}))
	m.AddRows(tableHeaderRow())
	m.AddRows(tableRows(p.Products)...)
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalRow(p.Amount))
	m.AddRows(line.NewRow(4))
	m.AddRows(footerRow(supplier, p))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

func (g *ReceiptGenerator) headerRow(p *dto.PaymentResponse) core.Row {
	return row.New(18).Add(
		col.New(7).Add(
			text.New(nonEmpty(g.storeName, "PetManager"), props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("Comprobante de pago a proveedor", props.Text{Size: 9, Top: 9, Color: colorGray}),
		),
		col.New(5).Add(
			text.New("PAGO N°", props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right, Color: colorPrimary, Top: 1,
			}),
			text.New(shortID(p.PaymentID), props.Text{
				Style: fontstyle.Bold, Size: 12, Align: align.Right, Top: 6,
			}),
			text.New("Fecha: "+p.PaymentDate, props.Text{
				Size: 8, Align: align.Right, Top: 13, Color: colorGray,
			}),
		),
	)
}

func supplierRow(s *entity.Supplier) core.Row {
	return row.New(16).Add(
		col.New(12).Add(
			text.New("PROVEEDOR", props.Text{Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1}),
			text.New(s.Name, props.Text{Style: fontstyle.Bold, Size: 10, Top: 6}),
			text.New(fmt.Sprintf("NIT: %s   |   Dirección: %s   |   Tel: %s",
				s.TaxID, nonEmpty(s.Address, "-"), nonEmpty(s.Phone, "-"),
			), props.Text{Size: 8, Top: 12, Color: colorGray}),
		),
	)
}

func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a, Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("#", 1, align.Center),
		h("Producto", 4, align.Left),
		h("Marca", 2, align.Left),
		h("Cant.", 1, align.Center),
		h("Precio Unit.", 2, align.Right),
		h("Total", 2, align.Right),
	)
}

func tableRows(lines []dto.PaymentLineResponse) []core.Row {
	rows := make([]core.Row, 0, len(lines))
	for i, l := range lines {
		cell := func(s string, a align.Type) core.Component {
			return text.New(s, props.Text{Size: 8, Align: a, Top: 1, Left: 1, Right: 1})
		}
		rows = append(rows, row.New(7).Add(
			col.New(1).Add(cell(fmt.Sprintf("%d", i+1), align.Center)),
			col.New(4).Add(cell(l.Product.Name, align.Left)),
			col.New(2).Add(cell(l.Product.Brand, align.Left)),
			col.New(1).Add(cell(fmt.Sprintf("%d", l.Quantity), align.Center)),
			col.New(2).Add(cell("$"+formatMoney(l.PricePerUnit), align.Right)),
			col.New(2).Add(cell("$"+formatMoney(l.TotalAmount), align.Right)),
		))
	}
	return rows
}

func totalRow(amount decimal.Decimal) core.Row {
	return row.New(10).Add(
		col.New(6),
		col.New(3).Add(text.New("TOTAL PAGADO:", props.Text{
			Style: fontstyle.Bold, Size: 10, Align: align.Right, Color: colorPrimary, Right: 2, Top: 2,
		})),
		col.New(3).Add(text.New("$"+formatMoney(amount), props.Text{
			Style: fontstyle.Bold, Size: 10, Align: align.Right, Color: colorPrimary, Right: 1, Top: 2,
		})),
	)
}

// footerRow notas del pago y QR con los datos mínimos para verificarlo.
func footerRow(s *entity.Supplier, p *dto.PaymentResponse) core.Row {
	return row.New(40).Add(
		col.New(3).Add(code.NewQr(verificationData(s, p), props.Rect{Percent: 90, Center: true})),
		col.New(9).Add(
			text.New("Notas", props.Text{Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 2, Left: 3}),
			text.New(nonEmpty(p.Notes, "Sin notas."), props.Text{Size: 8, Top: 7, Left: 3, Color: colorGray}),
			text.New("ID del pago: "+p.PaymentID, props.Text{Size: 7, Top: 30, Left: 3, Color: colorGray}),
		),
	)
}

// verificationData contenido del QR: PAGO|id|nit|fecha|monto.
func verificationData(s *entity.Supplier, p *dto.PaymentResponse) string {
	return strings.Join([]string{"PAGO", p.PaymentID, s.TaxID, p.PaymentDate, p.Amount.StringFixed(2)}, "|")
}

func nonEmpty(s, fallback string) string {
	if strings.TrimSpace(s) != "" {
		return s
	}
	return fallback
}

func shortID(id string) string {
	if len(id) > 8 {
		return strings.ToUpper(id[:8])
	}
	return strings.ToUpper(id)
}

// formatMoney formato es-CO con dos decimales: 1234567.5 → "1.234.567,50".
func formatMoney(d decimal.Decimal) string {
	s := d.StringFixed(2)
	neg := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")
	intPart, frac, _ := strings.Cut(s, ".")

	n := len(intPart)
	buf := make([]byte, 0, n+n/3+4)
	if neg {
		buf = append(buf, '-')
	}
	for i, c := range []byte(intPart) {
		if i > 0 && (n-i)%3 == 0 {
			buf = append(buf, '.')
		}
		buf = append(buf, c)
	}
	buf = append(buf, ',')
	buf = append(buf, frac...)
	return string(buf)
}
