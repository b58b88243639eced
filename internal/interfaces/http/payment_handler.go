package http

import (
	"context"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/codefactory-g12/petmanager-api/internal/application/dto"
	"github.com/codefactory-g12/petmanager-api/internal/application/payment"
)

// paymentService lo implementa *payment.Service.
type paymentService interface {
	CreatePayment(ctx context.Context, in dto.CreatePaymentRequest) (*dto.PaymentResponse, error)
	GetPaymentByID(ctx context.Context, id string) (*dto.PaymentResponse, error)
	GetAllPaymentConditions(ctx context.Context) ([]dto.PaymentConditionResponse, error)
	GetAllPaymentsBySupplierID(ctx context.Context, supplierID string) (*dto.SupplierPaymentsResponse, error)
	GetLastAndNextPaymentsBySupplierID(ctx context.Context, supplierID string) (*dto.SupplierLastNextPaymentsResponse, error)
	GetLastAndNextPaymentsAsOf(ctx context.Context, supplierID string, asOf time.Time) (*dto.SupplierLastNextPaymentsResponse, error)
}

// receiptDownloader lo implementa *payment.ReceiptUseCase.
type receiptDownloader interface {
	DownloadReceipt(ctx context.Context, paymentID string) ([]byte, string, error)
}

// PaymentHandler maneja las peticiones HTTP del agregado Pago (protegido).
type PaymentHandler struct {
	svc      paymentService
	receipts receiptDownloader
}

// NewPaymentHandler construye el handler.
func NewPaymentHandler(svc paymentService, receipts receiptDownloader) *PaymentHandler {
	return &PaymentHandler{svc: svc, receipts: receipts}
}

// Create registra un pago con sus líneas de producto.
// POST /api/payments
func (h *PaymentHandler) Create(c *fiber.Ctx) error {
	var in dto.CreatePaymentRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.svc.CreatePayment(c.Context(), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetByID GET /api/payments/:id
func (h *PaymentHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.svc.GetPaymentByID(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Receipt descarga el comprobante PDF del pago.
// GET /api/payments/:id/receipt
func (h *PaymentHandler) Receipt(c *fiber.Ctx) error {
	pdf, filename, err := h.receipts.DownloadReceipt(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Send(pdf)
}

// Conditions GET /api/payments/conditions
func (h *PaymentHandler) Conditions(c *fiber.Ctx) error {
	out, err := h.svc.GetAllPaymentConditions(c.Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// ListBySupplier GET /api/suppliers/:id/payments
func (h *PaymentHandler) ListBySupplier(c *fiber.Ctx) error {
	out, err := h.svc.GetAllPaymentsBySupplierID(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// LastAndNext último y siguiente pago del proveedor respecto a hoy o a ?as_of=YYYY-MM-DD.
// GET /api/suppliers/:id/payments/last-next
func (h *PaymentHandler) LastAndNext(c *fiber.Ctx) error {
	supplierID := c.Params("id")
	asOf := strings.TrimSpace(c.Query("as_of"))

	var (
		out *dto.SupplierLastNextPaymentsResponse
		err error
	)
	if asOf == "" {
		out, err = h.svc.GetLastAndNextPaymentsBySupplierID(c.Context(), supplierID)
	} else {
		day, perr := payment.ParseDate(asOf)
		if perr != nil {
			return respondError(c, perr)
		}
		out, err = h.svc.GetLastAndNextPaymentsAsOf(c.Context(), supplierID, day)
	}
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}
