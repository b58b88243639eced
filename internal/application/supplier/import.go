// Package supplier carga masiva de proveedores desde archivos CSV exportados por contabilidad.
package supplier

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"github.com/codefactory-g12/petmanager-api/internal/domain"
	"github.com/codefactory-g12/petmanager-api/internal/domain/entity"
	"github.com/codefactory-g12/petmanager-api/internal/domain/repository"
)

// Columnas esperadas, separadas por ';'.
var expectedHeader = []string{"nit", "nombre", "direccion", "telefono", "condicion_pago", "notas"}

// Charsets soportados para el archivo de entrada.
const (
	CharsetUTF8   = "utf8"
	CharsetLatin1 = "latin1"
)

// Row un proveedor leído del archivo. Condition es el nombre o el id de la condición de pago.
type Row struct {
	Line      int
	TaxID     string
	Name      string
	Address   string
	Phone     string
	Condition string
	Notes     string
}

// Result resumen de la importación.
type Result struct {
	Created int
	Updated int
}

// TxRunner ejecuta fn con un repositorio de proveedores atado a una transacción.
type TxRunner interface {
	RunSuppliers(ctx context.Context, fn func(suppliers repository.SupplierRepository) error) error
}

// ImportUseCase importa proveedores haciendo upsert por NIT. O se importan todas las
// filas o ninguna.
type ImportUseCase struct {
	tx         TxRunner
	conditions repository.PaymentConditionRepository
	log        zerolog.Logger
	now        func() time.Time
}

// NewImportUseCase construye el caso de uso.
func NewImportUseCase(tx TxRunner, conditions repository.PaymentConditionRepository, log zerolog.Logger) *ImportUseCase {
	return &ImportUseCase{tx: tx, conditions: conditions, log: log, now: time.Now}
}

// ParseCSV lee el archivo. charset: "utf8" (por defecto) o "latin1" (ISO-8859-1, típico de Excel en Windows).
func ParseCSV(r io.Reader, charset string) ([]Row, error) {
	switch strings.ToLower(strings.TrimSpace(charset)) {
	case "", CharsetUTF8, "utf-8":
	case CharsetLatin1, "iso-8859-1", "iso8859-1":
		r = transform.NewReader(r, charmap.ISO8859_1.NewDecoder())
	default:
		return nil, fmt.Errorf("%w: charset %q no soportado", domain.ErrInvalidInput, charset)
	}

	cr := csv.NewReader(r)
	cr.Comma = ';'
	cr.FieldsPerRecord = len(expectedHeader)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: archivo vacío", domain.ErrInvalidInput)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: encabezado: %v", domain.ErrInvalidInput, err)
	}
	for i, col := range expectedHeader {
		got := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(header[i], "\ufeff")))
		if got != col {
			return nil, fmt.Errorf("%w: columna %d: se esperaba %q, llegó %q", domain.ErrInvalidInput, i+1, col, header[i])
		}
	}

	var rows []Row
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
		}
		line, _ := cr.FieldPos(0)
		rows = append(rows, Row{
			Line:      line,
			TaxID:     strings.TrimSpace(rec[0]),
			Name:      strings.TrimSpace(rec[1]),
			Address:   strings.TrimSpace(rec[2]),
			Phone:     strings.TrimSpace(rec[3]),
			Condition: strings.TrimSpace(rec[4]),
			Notes:     strings.TrimSpace(rec[5]),
		})
	}
	return rows, nil
}

// Import valida todas las filas (NIT y nombre obligatorios, NIT sin repetir, condición
// existente) y solo entonces escribe.
func (uc *ImportUseCase) Import(ctx context.Context, rows []Row) (Result, error) {
	if len(rows) == 0 {
		return Result{}, fmt.Errorf("%w: no hay proveedores para importar", domain.ErrInvalidInput)
	}

	suppliers := make([]*entity.Supplier, 0, len(rows))
	seen := make(map[string]int, len(rows))
	now := uc.now()
	for _, r := range rows {
		if r.TaxID == "" || r.Name == "" {
			return Result{}, fmt.Errorf("%w: línea %d: nit y nombre son obligatorios", domain.ErrInvalidInput, r.Line)
		}
		if prev, ok := seen[r.TaxID]; ok {
			return Result{}, fmt.Errorf("%w: línea %d: nit %s repetido (línea %d)", domain.ErrInvalidInput, r.Line, r.TaxID, prev)
		}
		seen[r.TaxID] = r.Line

		condition, err := uc.resolveCondition(ctx, r.Condition)
		if err != nil {
			return Result{}, fmt.Errorf("línea %d: %w", r.Line, err)
		}
		suppliers = append(suppliers, &entity.Supplier{
			ID:                 uuid.New().String(),
			Name:               r.Name,
			TaxID:              r.TaxID,
			Address:            r.Address,
			Phone:              r.Phone,
			PaymentConditionID: condition.ID,
			PaymentNotes:       r.Notes,
			CreatedAt:          now,
			UpdatedAt:          now,
		})
	}

	var res Result
	err := uc.tx.RunSuppliers(ctx, func(repo repository.SupplierRepository) error {
		for _, s := range suppliers {
			created, err := repo.Upsert(ctx, s)
			if err != nil {
				return fmt.Errorf("proveedor %s: %w", s.TaxID, err)
			}
			if created {
				res.Created++
			} else {
				res.Updated++
			}
		}
		return nil
	})
	if err != nil {
		return Result{}, err
	}

	uc.log.Info().Int("created", res.Created).Int("updated", res.Updated).Msg("proveedores importados")
	return res, nil
}

// resolveCondition acepta el id numérico o el nombre ("30 días").
func (uc *ImportUseCase) resolveCondition(ctx context.Context, value string) (*entity.PaymentCondition, error) {
	if value == "" {
		return nil, fmt.Errorf("%w: condicion_pago es obligatoria", domain.ErrInvalidInput)
	}
	var (
		c   *entity.PaymentCondition
		err error
	)
	if id, convErr := strconv.Atoi(value); convErr == nil {
		c, err = uc.conditions.GetByID(ctx, id)
	} else {
		c, err = uc.conditions.GetByName(ctx, value)
	}
	if err != nil {
		return nil, fmt.Errorf("buscar condición de pago: %w", err)
	}
	if c == nil {
		return nil, fmt.Errorf("%w: condición de pago %q no existe", domain.ErrInvalidInput, value)
	}
	return c, nil
}
