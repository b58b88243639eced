package payment

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/codefactory-g12/petmanager-api/internal/domain"
	"github.com/codefactory-g12/petmanager-api/internal/domain/entity"
)

// memStore almacén en memoria con semántica transaccional simple: RunPayments toma una
// foto del estado y la restaura si fn falla.
type memStore struct {
	mu         sync.Mutex
	suppliers  map[string]entity.Supplier
	products   map[string]entity.Product
	payments   map[string]entity.Payment
	lines      map[string][]entity.PaymentLineItem
	conditions []entity.PaymentCondition
}

func newMemStore() *memStore {
	return &memStore{
		suppliers: make(map[string]entity.Supplier),
		products:  make(map[string]entity.Product),
		payments:  make(map[string]entity.Payment),
		lines:     make(map[string][]entity.PaymentLineItem),
	}
}

func (s *memStore) repos() TxRepos {
	return TxRepos{
		Suppliers: memSupplierRepo{s},
		Products:  memProductRepo{s},
		Payments:  memPaymentRepo{s},
		LineItems: memLineRepo{s},
	}
}

func (s *memStore) newService(opts ...Option) *Service {
	r := s.repos()
	return NewService(s, r.Suppliers, r.Payments, r.LineItems, memConditionRepo{s}, opts...)
}

func (s *memStore) RunPayments(_ context.Context, fn func(repos TxRepos) error) error {
	s.mu.Lock()
	snap := s.snapshot()
	s.mu.Unlock()

	if err := fn(s.repos()); err != nil {
		s.mu.Lock()
		s.restore(snap)
		s.mu.Unlock()
		return err
	}
	return nil
}

type memSnapshot struct {
	products map[string]entity.Product
	payments map[string]entity.Payment
	lines    map[string][]entity.PaymentLineItem
}

func (s *memStore) snapshot() memSnapshot {
	snap := memSnapshot{
		products: make(map[string]entity.Product, len(s.products)),
		payments: make(map[string]entity.Payment, len(s.payments)),
		lines:    make(map[string][]entity.PaymentLineItem, len(s.lines)),
	}
	for k, v := range s.products {
		snap.products[k] = v
	}
	for k, v := range s.payments {
		snap.payments[k] = v
	}
	for k, v := range s.lines {
		snap.lines[k] = append([]entity.PaymentLineItem(nil), v...)
	}
	return snap
}

func (s *memStore) restore(snap memSnapshot) {
	s.products = snap.products
	s.payments = snap.payments
	s.lines = snap.lines
}

func (s *memStore) addSupplier(id, name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.suppliers[id] = entity.Supplier{ID: id, Name: name, TaxID: "900" + id}
}

// addPayment siembra un pago directamente (sin líneas) con fecha y orden de creación.
func (s *memStore) addPayment(id, supplierID, date string, createdAt time.Time) {
	d, err := time.Parse("2006-01-02", date)
	if err != nil {
		panic(err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.payments[id] = entity.Payment{ID: id, SupplierID: supplierID, PaymentDate: d, Amount: decimal.Zero, CreatedAt: createdAt}
}

func (s *memStore) counts() (payments, lines, products int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, l := range s.lines {
		lines += len(l)
	}
	return len(s.payments), lines, len(s.products)
}

type memSupplierRepo struct{ s *memStore }

func (r memSupplierRepo) GetByID(_ context.Context, id string) (*entity.Supplier, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	sup, ok := r.s.suppliers[id]
	if !ok {
		return nil, nil
	}
	return &sup, nil
}

func (r memSupplierRepo) GetByTaxID(_ context.Context, taxID string) (*entity.Supplier, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, sup := range r.s.suppliers {
		if sup.TaxID == taxID {
			cp := sup
			return &cp, nil
		}
	}
	return nil, nil
}

func (r memSupplierRepo) Upsert(_ context.Context, sup *entity.Supplier) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for id, existing := range r.s.suppliers {
		if existing.TaxID == sup.TaxID {
			sup.ID = id
			r.s.suppliers[id] = *sup
			return false, nil
		}
	}
	r.s.suppliers[sup.ID] = *sup
	return true, nil
}

type memProductRepo struct{ s *memStore }

func (r memProductRepo) GetByID(_ context.Context, id string) (*entity.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.products[id]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (r memProductRepo) FindByNameAndBrand(_ context.Context, name, brand string) (*entity.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, p := range r.s.products {
		if strings.EqualFold(p.Name, name) && strings.EqualFold(p.Brand, brand) {
			cp := p
			return &cp, nil
		}
	}
	return nil, nil
}

func (r memProductRepo) Create(_ context.Context, product *entity.Product) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, p := range r.s.products {
		if strings.EqualFold(p.Name, product.Name) && strings.EqualFold(p.Brand, product.Brand) {
			return domain.ErrDuplicate
		}
	}
	r.s.products[product.ID] = *product
	return nil
}

type memPaymentRepo struct{ s *memStore }

func (r memPaymentRepo) Create(_ context.Context, p *entity.Payment) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.payments[p.ID]; ok {
		return domain.ErrDuplicate
	}
	r.s.payments[p.ID] = *p
	return nil
}

func (r memPaymentRepo) UpdateAmount(_ context.Context, id string, amount decimal.Decimal) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.payments[id]
	if !ok {
		return domain.ErrPaymentNotFound
	}
	p.Amount = amount
	r.s.payments[id] = p
	return nil
}

func (r memPaymentRepo) GetByID(_ context.Context, id string) (*entity.Payment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.payments[id]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (r memPaymentRepo) bySupplier(supplierID string, keep func(entity.Payment) bool) []*entity.Payment {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.Payment
	for _, p := range r.s.payments {
		if p.SupplierID == supplierID && keep(p) {
			cp := p
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return paymentLess(out[i], out[j]) })
	return out
}

// paymentLess orden (payment_date, created_at, id) ascendente, igual que el SQL.
func paymentLess(a, b *entity.Payment) bool {
	if !a.PaymentDate.Equal(b.PaymentDate) {
		return a.PaymentDate.Before(b.PaymentDate)
	}
	if !a.CreatedAt.Equal(b.CreatedAt) {
		return a.CreatedAt.Before(b.CreatedAt)
	}
	return a.ID < b.ID
}

func (r memPaymentRepo) ListBySupplier(_ context.Context, supplierID string) ([]*entity.Payment, error) {
	return r.bySupplier(supplierID, func(entity.Payment) bool { return true }), nil
}

func (r memPaymentRepo) FindLastOnOrBefore(_ context.Context, supplierID string, date time.Time) (*entity.Payment, error) {
	list := r.bySupplier(supplierID, func(p entity.Payment) bool { return !p.PaymentDate.After(date) })
	if len(list) == 0 {
		return nil, nil
	}
	return list[len(list)-1], nil
}

func (r memPaymentRepo) FindNextAfter(_ context.Context, supplierID string, date time.Time) (*entity.Payment, error) {
	list := r.bySupplier(supplierID, func(p entity.Payment) bool { return p.PaymentDate.After(date) })
	if len(list) == 0 {
		return nil, nil
	}
	return list[0], nil
}

type memLineRepo struct{ s *memStore }

func (r memLineRepo) CreateBatch(_ context.Context, items []*entity.PaymentLineItem) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, it := range items {
		cp := *it
		cp.Product = nil
		r.s.lines[it.PaymentID] = append(r.s.lines[it.PaymentID], cp)
	}
	return nil
}

func (r memLineRepo) ListByPayment(_ context.Context, paymentID string) ([]*entity.PaymentLineItem, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.PaymentLineItem
	for _, l := range r.s.lines[paymentID] {
		cp := l
		if p, ok := r.s.products[l.ProductID]; ok {
			prod := p
			cp.Product = &prod
		}
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].LineNumber < out[j].LineNumber })
	return out, nil
}

type memConditionRepo struct{ s *memStore }

func (r memConditionRepo) List(_ context.Context) ([]*entity.PaymentCondition, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]*entity.PaymentCondition, 0, len(r.s.conditions))
	for _, c := range r.s.conditions {
		cp := c
		out = append(out, &cp)
	}
	return out, nil
}

func (r memConditionRepo) GetByID(_ context.Context, id int) (*entity.PaymentCondition, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, c := range r.s.conditions {
		if c.ID == id {
			cp := c
			return &cp, nil
		}
	}
	return nil, nil
}

func (r memConditionRepo) GetByName(_ context.Context, name string) (*entity.PaymentCondition, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, c := range r.s.conditions {
		if strings.EqualFold(c.Name, name) {
			cp := c
			return &cp, nil
		}
	}
	return nil, nil
}

// countingRecorder cuenta eventos de métricas.
type countingRecorder struct {
	mu       sync.Mutex
	payments int
	outcomes map[string]int
}

func newCountingRecorder() *countingRecorder {
	return &countingRecorder{outcomes: make(map[string]int)}
}

func (c *countingRecorder) PaymentCreated(int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.payments++
}

func (c *countingRecorder) ProductResolved(outcome string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.outcomes[outcome]++
}
