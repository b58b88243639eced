package payment

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/codefactory-g12/petmanager-api/internal/application/dto"
	"github.com/codefactory-g12/petmanager-api/internal/domain"
	"github.com/codefactory-g12/petmanager-api/internal/domain/entity"
	"github.com/codefactory-g12/petmanager-api/internal/domain/repository"
)

// Service orquesta el agregado Pago: creación con sus líneas dentro de una transacción
// y consultas por proveedor (todos, último y siguiente).
type Service struct {
	txRunner      TxRunner
	supplierRepo  repository.SupplierRepository
	paymentRepo   repository.PaymentRepository
	conditionRepo repository.PaymentConditionRepository
	assembler     *ResponseAssembler
	recorder      Recorder
	log           zerolog.Logger
	now           func() time.Time
	loc           *time.Location
}

// Option configura el Service.
type Option func(*Service)

// WithClock reemplaza el reloj (tests).
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithLocation zona horaria con la que se determina "hoy".
func WithLocation(loc *time.Location) Option {
	return func(s *Service) {
		if loc != nil {
			s.loc = loc
		}
	}
}

// WithLogger logger estructurado del servicio.
func WithLogger(l zerolog.Logger) Option {
	return func(s *Service) { s.log = l }
}

// WithRecorder destino de métricas de dominio.
func WithRecorder(r Recorder) Option {
	return func(s *Service) {
		if r != nil {
			s.recorder = r
		}
	}
}

// NewService construye el servicio. Los repos sueltos (pool) se usan para lecturas;
// las escrituras van por txRunner.
func NewService(
	txRunner TxRunner,
	supplierRepo repository.SupplierRepository,
	paymentRepo repository.PaymentRepository,
	lineRepo repository.PaymentLineItemRepository,
	conditionRepo repository.PaymentConditionRepository,
	opts ...Option,
) *Service {
	s := &Service{
		txRunner:      txRunner,
		supplierRepo:  supplierRepo,
		paymentRepo:   paymentRepo,
		conditionRepo: conditionRepo,
		assembler:     NewResponseAssembler(lineRepo),
		recorder:      nopRecorder{},
		log:           zerolog.Nop(),
		now:           time.Now,
		loc:           time.UTC,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreatePayment registra un pago con sus líneas. Todo ocurre en una transacción:
// si el proveedor no existe o alguna línea falla, no queda nada persistido.
func (s *Service) CreatePayment(ctx context.Context, in dto.CreatePaymentRequest) (*dto.PaymentResponse, error) {
	supplierID := strings.TrimSpace(in.SupplierID)
	if supplierID == "" {
		return nil, fmt.Errorf("%w: supplier_id es requerido", domain.ErrInvalidInput)
	}
	paymentDate, err := ParseDate(in.PaymentDate)
	if err != nil {
		return nil, err
	}
	if err := ValidateLines(in.Products); err != nil {
		return nil, err
	}

	var out *dto.PaymentResponse
	err = s.txRunner.RunPayments(ctx, func(repos TxRepos) error {
		supplier, err := repos.Suppliers.GetByID(ctx, supplierID)
		if err != nil {
			return fmt.Errorf("obtener proveedor: %w", err)
		}
		if supplier == nil {
			return domain.ErrSupplierNotFound
		}

		p := &entity.Payment{
			ID:          uuid.New().String(),
			SupplierID:  supplier.ID,
			PaymentDate: paymentDate,
			Amount:      decimal.Zero,
			Notes:       in.Notes,
			CreatedAt:   s.now(),
		}
		if err := repos.Payments.Create(ctx, p); err != nil {
			return fmt.Errorf("guardar pago: %w", err)
		}

		builder := NewLineItemBuilder(repos.Products, repos.LineItems, s.recorder)
		items, total, err := builder.Build(ctx, p.ID, in.Products)
		if err != nil {
			return err
		}
		if err := repos.Payments.UpdateAmount(ctx, p.ID, total); err != nil {
			return fmt.Errorf("actualizar total del pago: %w", err)
		}
		p.Amount = total

		out, err = NewResponseAssembler(repos.LineItems).Assemble(ctx, p)
		if err != nil {
			return err
		}
		s.recorder.PaymentCreated(len(items))
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info().
		Str("payment_id", out.PaymentID).
		Str("supplier_id", out.SupplierID).
		Str("amount", out.Amount.StringFixed(2)).
		Int("lines", len(out.Products)).
		Msg("pago registrado")
	return out, nil
}

// GetPaymentByID obtiene un pago ensamblado.
func (s *Service) GetPaymentByID(ctx context.Context, id string) (*dto.PaymentResponse, error) {
	p, err := s.paymentRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("obtener pago: %w", err)
	}
	if p == nil {
		return nil, domain.ErrPaymentNotFound
	}
	return s.assembler.Assemble(ctx, p)
}

// GetAllPaymentConditions lista el catálogo de condiciones de pago.
func (s *Service) GetAllPaymentConditions(ctx context.Context) ([]dto.PaymentConditionResponse, error) {
	list, err := s.conditionRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listar condiciones de pago: %w", err)
	}
	out := make([]dto.PaymentConditionResponse, 0, len(list))
	for _, c := range list {
		out = append(out, dto.PaymentConditionResponse{ID: c.ID, Name: c.Name})
	}
	return out, nil
}

// GetAllPaymentsBySupplierID lista todos los pagos del proveedor, ensamblados.
func (s *Service) GetAllPaymentsBySupplierID(ctx context.Context, supplierID string) (*dto.SupplierPaymentsResponse, error) {
	supplier, err := s.requireSupplier(ctx, supplierID)
	if err != nil {
		return nil, err
	}
	payments, err := s.paymentRepo.ListBySupplier(ctx, supplier.ID)
	if err != nil {
		return nil, fmt.Errorf("listar pagos: %w", err)
	}
	list, err := s.assembler.AssembleAll(ctx, payments)
	if err != nil {
		return nil, err
	}
	return &dto.SupplierPaymentsResponse{SupplierID: supplier.ID, Payments: list}, nil
}

// GetLastAndNextPaymentsBySupplierID último y siguiente pago respecto a hoy.
func (s *Service) GetLastAndNextPaymentsBySupplierID(ctx context.Context, supplierID string) (*dto.SupplierLastNextPaymentsResponse, error) {
	return s.GetLastAndNextPaymentsAsOf(ctx, supplierID, s.today())
}

// GetLastAndNextPaymentsAsOf último pago con fecha <= asOf y siguiente con fecha > asOf.
// Que no exista alguno no es error: el campo queda nil. Entre pagos de la misma fecha
// gana el registrado más tarde (last) o más temprano (next).
func (s *Service) GetLastAndNextPaymentsAsOf(ctx context.Context, supplierID string, asOf time.Time) (*dto.SupplierLastNextPaymentsResponse, error) {
	supplier, err := s.requireSupplier(ctx, supplierID)
	if err != nil {
		return nil, err
	}
	day := dateOnly(asOf)
	out := &dto.SupplierLastNextPaymentsResponse{
		SupplierID: supplier.ID,
		AsOf:       day.Format(dto.DateLayout),
	}

	last, err := s.paymentRepo.FindLastOnOrBefore(ctx, supplier.ID, day)
	if err != nil {
		return nil, fmt.Errorf("buscar último pago: %w", err)
	}
	if last != nil {
		if out.Last, err = s.assembler.Assemble(ctx, last); err != nil {
			return nil, err
		}
	}

	next, err := s.paymentRepo.FindNextAfter(ctx, supplier.ID, day)
	if err != nil {
		return nil, fmt.Errorf("buscar siguiente pago: %w", err)
	}
	if next != nil {
		if out.Next, err = s.assembler.Assemble(ctx, next); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func (s *Service) requireSupplier(ctx context.Context, supplierID string) (*entity.Supplier, error) {
	supplierID = strings.TrimSpace(supplierID)
	if supplierID == "" {
		return nil, fmt.Errorf("%w: supplier_id es requerido", domain.ErrInvalidInput)
	}
	supplier, err := s.supplierRepo.GetByID(ctx, supplierID)
	if err != nil {
		return nil, fmt.Errorf("obtener proveedor: %w", err)
	}
	if supplier == nil {
		return nil, domain.ErrSupplierNotFound
	}
	return supplier, nil
}

// today fecha civil actual en la zona configurada.
func (s *Service) today() time.Time {
	return dateOnly(s.now().In(s.loc))
}

// dateOnly conserva año, mes y día de t (en su propia zona) a las 00:00 UTC,
// que es como se leen las columnas DATE.
func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseDate interpreta una fecha YYYY-MM-DD.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("%w: payment_date es requerido", domain.ErrInvalidInput)
	}
	t, err := time.Parse(dto.DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: fecha %q no tiene formato YYYY-MM-DD", domain.ErrInvalidInput, s)
	}
	return t, nil
}
