package payment

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/codefactory-g12/petmanager-api/internal/application/dto"
	"github.com/codefactory-g12/petmanager-api/internal/domain"
	"github.com/codefactory-g12/petmanager-api/internal/domain/entity"
	"github.com/codefactory-g12/petmanager-api/internal/domain/repository"
)

// ProductResolver encuentra o crea productos del catálogo. Guarda en memoria lo ya
// resuelto, así que debe vivir lo que dura una petición (no es seguro entre goroutines).
type ProductResolver struct {
	repo     repository.ProductRepository
	recorder Recorder
	now      func() time.Time
	lower    cases.Caser
	byKey    map[string]*entity.Product
	byID     map[string]*entity.Product
}

// NewProductResolver construye el resolver sobre repo (pool o tx).
func NewProductResolver(repo repository.ProductRepository, recorder Recorder) *ProductResolver {
	if recorder == nil {
		recorder = nopRecorder{}
	}
	return &ProductResolver{
		repo:     repo,
		recorder: recorder,
		now:      time.Now,
		lower:    cases.Lower(language.Und),
		byKey:    make(map[string]*entity.Product),
		byID:     make(map[string]*entity.Product),
	}
}

// Resolve devuelve el producto referenciado por ref.
//   - Con ID: lo busca; ErrProductNotFound si no existe.
//   - Sin ID: busca por (name, brand) sin distinguir mayúsculas y si no existe lo crea.
//     Una violación de unicidad al insertar (otra petición lo creó primero) se trata
//     como "ya existe": se vuelve a leer.
func (r *ProductResolver) Resolve(ctx context.Context, ref dto.ProductRef) (*entity.Product, error) {
	if id := strings.TrimSpace(ref.ID); id != "" {
		return r.resolveByID(ctx, id)
	}

	name := strings.TrimSpace(ref.Name)
	brand := strings.TrimSpace(ref.Brand)
	if name == "" || brand == "" {
		return nil, fmt.Errorf("%w: el producto requiere id o name y brand", domain.ErrInvalidInput)
	}

	key := r.key(name, brand)
	if p, ok := r.byKey[key]; ok {
		return p, nil
	}

	existing, err := r.repo.FindByNameAndBrand(ctx, name, brand)
	if err != nil {
		return nil, fmt.Errorf("buscar producto: %w", err)
	}
	if existing != nil {
		r.recorder.ProductResolved(ResolvedReused)
		return r.remember(key, existing), nil
	}

	product := &entity.Product{
		ID:        uuid.New().String(),
		Name:      name,
		Brand:     brand,
		CreatedAt: r.now(),
	}
	err = r.repo.Create(ctx, product)
	if err == nil {
		r.recorder.ProductResolved(ResolvedCreated)
		return r.remember(key, product), nil
	}
	if !errors.Is(err, domain.ErrDuplicate) {
		return nil, fmt.Errorf("crear producto: %w", err)
	}

	existing, err = r.repo.FindByNameAndBrand(ctx, name, brand)
	if err != nil {
		return nil, fmt.Errorf("releer producto: %w", err)
	}
	if existing == nil {
		r.recorder.ProductResolved(ResolvedConflict)
		return nil, fmt.Errorf("%w: producto %q/%q duplicado pero no visible", domain.ErrConflict, name, brand)
	}
	r.recorder.ProductResolved(ResolvedRefetch)
	return r.remember(key, existing), nil
}

func (r *ProductResolver) resolveByID(ctx context.Context, id string) (*entity.Product, error) {
	if p, ok := r.byID[id]; ok {
		return p, nil
	}
	p, err := r.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("obtener producto: %w", err)
	}
	if p == nil {
		return nil, domain.ErrProductNotFound
	}
	r.recorder.ProductResolved(ResolvedByID)
	return r.remember(r.key(p.Name, p.Brand), p), nil
}

func (r *ProductResolver) remember(key string, p *entity.Product) *entity.Product {
	r.byKey[key] = p
	r.byID[p.ID] = p
	return p
}

// key normaliza (name, brand) igual que el índice único (lower): "CROQUETAS" y
// "croquetas" son el mismo producto, "Straße" y "Strasse" no.
func (r *ProductResolver) key(name, brand string) string {
	return r.lower.String(strings.TrimSpace(name)) + "\x00" + r.lower.String(strings.TrimSpace(brand))
}
