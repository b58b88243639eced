package payment

import (
	"context"
	"encoding/json"
	"math"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codefactory-g12/petmanager-api/internal/application/dto"
	"github.com/codefactory-g12/petmanager-api/internal/domain"
	"github.com/codefactory-g12/petmanager-api/internal/domain/entity"
)

const testSupplierID = "sup-1"

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func line(name, brand string, qty int, price string) dto.PaymentLineRequest {
	return dto.PaymentLineRequest{
		Product:      dto.ProductRef{Name: name, Brand: brand},
		Quantity:     qty,
		PricePerUnit: dec(price),
	}
}

func newTestStore(t *testing.T) *memStore {
	t.Helper()
	store := newMemStore()
	store.addSupplier(testSupplierID, "Distribuidora Mascotas SAS")
	return store
}

// ──────────────────────────────────────────────────────────────────────────────
// CreatePayment
// ──────────────────────────────────────────────────────────────────────────────

func TestCreatePayment_UnaLinea_TotalTreinta(t *testing.T) {
	store := newTestStore(t)
	svc := store.newService()

	out, err := svc.CreatePayment(context.Background(), dto.CreatePaymentRequest{
		SupplierID:  testSupplierID,
		PaymentDate: "2024-03-01",
		Notes:       "pedido mensual",
		Products:    []dto.PaymentLineRequest{line("Food", "BrandX", 3, "10.00")},
	})
	require.NoError(t, err)

	assert.True(t, out.Amount.Equal(dec("30.00")), "total esperado 30.00, obtenido %s", out.Amount)
	require.Len(t, out.Products, 1)
	assert.True(t, out.Products[0].TotalAmount.Equal(dec("30.00")))
	assert.Equal(t, 3, out.Products[0].Quantity)
	assert.Equal(t, "Food", out.Products[0].Product.Name)
	assert.Equal(t, "BrandX", out.Products[0].Product.Brand)
	assert.NotEmpty(t, out.Products[0].Product.ID)
	assert.Equal(t, "2024-03-01", out.PaymentDate)
	assert.Equal(t, "pedido mensual", out.Notes)
	assert.Equal(t, testSupplierID, out.SupplierID)

	stored, err := memPaymentRepo{store}.GetByID(context.Background(), out.PaymentID)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.True(t, stored.Amount.Equal(dec("30")), "el total también queda persistido")
}

func TestCreatePayment_TotalEsSumaDeLineas(t *testing.T) {
	store := newTestStore(t)
	rec := newCountingRecorder()
	svc := store.newService(WithRecorder(rec))

	lines := []dto.PaymentLineRequest{
		line("Croquetas Adulto", "DogChow", 4, "52000.50"),
		line("Arena", "Catit", 2, "18990"),
		line("croquetas adulto", "DOGCHOW", 1, "50000"),
		line("Snack Dental", "Pedigree", 12, "0"),
	}
	out, err := svc.CreatePayment(context.Background(), dto.CreatePaymentRequest{
		SupplierID: testSupplierID, PaymentDate: "2024-05-10", Products: lines,
	})
	require.NoError(t, err)

	expected := decimal.Zero
	for _, l := range lines {
		expected = expected.Add(l.PricePerUnit.Mul(decimal.NewFromInt(int64(l.Quantity))))
	}
	assert.True(t, out.Amount.Equal(expected), "esperado %s, obtenido %s", expected, out.Amount)

	sum := decimal.Zero
	for _, l := range out.Products {
		sum = sum.Add(l.TotalAmount)
	}
	assert.True(t, sum.Equal(out.Amount))

	// "croquetas adulto"/"DOGCHOW" reutiliza el producto de la primera línea
	assert.Equal(t, out.Products[0].Product.ID, out.Products[2].Product.ID)
	_, _, products := store.counts()
	assert.Equal(t, 3, products)

	assert.Equal(t, 1, rec.payments)
	assert.Equal(t, 3, rec.outcomes[ResolvedCreated])
}

func TestCreatePayment_ProveedorInexistente_NoPersisteNada(t *testing.T) {
	store := newTestStore(t)
	svc := store.newService()

	_, err := svc.CreatePayment(context.Background(), dto.CreatePaymentRequest{
		SupplierID:  "no-existe",
		PaymentDate: "2024-03-01",
		Products:    []dto.PaymentLineRequest{line("Food", "BrandX", 3, "10.00")},
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrSupplierNotFound)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	payments, lines, products := store.counts()
	assert.Zero(t, payments)
	assert.Zero(t, lines)
	assert.Zero(t, products)
}

func TestCreatePayment_ValidacionAntesDePersistir(t *testing.T) {
	cases := []struct {
		name string
		in   dto.CreatePaymentRequest
	}{
		{"sin proveedor", dto.CreatePaymentRequest{PaymentDate: "2024-03-01", Products: []dto.PaymentLineRequest{line("A", "B", 1, "1")}}},
		{"sin fecha", dto.CreatePaymentRequest{SupplierID: testSupplierID, Products: []dto.PaymentLineRequest{line("A", "B", 1, "1")}}},
		{"fecha inválida", dto.CreatePaymentRequest{SupplierID: testSupplierID, PaymentDate: "01/03/2024", Products: []dto.PaymentLineRequest{line("A", "B", 1, "1")}}},
		{"sin líneas", dto.CreatePaymentRequest{SupplierID: testSupplierID, PaymentDate: "2024-03-01"}},
		{"cantidad cero", dto.CreatePaymentRequest{SupplierID: testSupplierID, PaymentDate: "2024-03-01", Products: []dto.PaymentLineRequest{line("A", "B", 1, "1"), line("C", "D", 0, "1")}}},
		{"cantidad negativa", dto.CreatePaymentRequest{SupplierID: testSupplierID, PaymentDate: "2024-03-01", Products: []dto.PaymentLineRequest{line("A", "B", -2, "1")}}},
		{"precio negativo", dto.CreatePaymentRequest{SupplierID: testSupplierID, PaymentDate: "2024-03-01", Products: []dto.PaymentLineRequest{line("A", "B", 1, "-0.01")}}},
		{"producto sin marca", dto.CreatePaymentRequest{SupplierID: testSupplierID, PaymentDate: "2024-03-01", Products: []dto.PaymentLineRequest{line("A", " ", 1, "1")}}},
		{"precio con fracción de centavo", dto.CreatePaymentRequest{SupplierID: testSupplierID, PaymentDate: "2024-03-01", Products: []dto.PaymentLineRequest{line("A", "B", 1, "0.005"), line("C", "D", 1, "0.005")}}},
		{"precio con tres decimales", dto.CreatePaymentRequest{SupplierID: testSupplierID, PaymentDate: "2024-03-01", Products: []dto.PaymentLineRequest{line("A", "B", 3, "10.005")}}},
		{"cantidad fuera de INTEGER", dto.CreatePaymentRequest{SupplierID: testSupplierID, PaymentDate: "2024-03-01", Products: []dto.PaymentLineRequest{line("A", "B", math.MaxInt32+1, "1")}}},
		{"total de línea excede NUMERIC(14,2)", dto.CreatePaymentRequest{SupplierID: testSupplierID, PaymentDate: "2024-03-01", Products: []dto.PaymentLineRequest{line("A", "B", 2, "999999999999.99")}}},
		{"total del pago excede NUMERIC(14,2)", dto.CreatePaymentRequest{SupplierID: testSupplierID, PaymentDate: "2024-03-01", Products: []dto.PaymentLineRequest{line("A", "B", 1, "600000000000"), line("C", "D", 1, "400000000000")}}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			store := newTestStore(t)
			_, err := store.newService().CreatePayment(context.Background(), tc.in)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)

			payments, lines, products := store.counts()
			assert.Zero(t, payments+lines+products, "nada debe persistirse")
		})
	}
}

func TestValidateLines_Limites(t *testing.T) {
	assert.NoError(t, ValidateLines([]dto.PaymentLineRequest{line("A", "B", math.MaxInt32, "0.01")}))
	assert.NoError(t, ValidateLines([]dto.PaymentLineRequest{line("A", "B", 1, "999999999999.99")}))
	assert.NoError(t, ValidateLines([]dto.PaymentLineRequest{line("A", "B", 1, "10.500")}), "ceros finales no son decimales extra")

	err := ValidateLines([]dto.PaymentLineRequest{line("A", "B", 1, "10"), line("C", "D", 3, "10.005")})
	require.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Contains(t, err.Error(), "línea 2")
}

func TestCreatePayment_TotalCoincideConLineasRedondeadas(t *testing.T) {
	store := newTestStore(t)
	svc := store.newService()

	out, err := svc.CreatePayment(context.Background(), dto.CreatePaymentRequest{
		SupplierID:  testSupplierID,
		PaymentDate: "2024-03-01",
		Products: []dto.PaymentLineRequest{
			line("Food", "BrandX", 3, "10.500"),
			line("Toy", "BrandY", 7, "0.01"),
		},
	})
	require.NoError(t, err)

	sum := decimal.Zero
	for _, l := range out.Products {
		assert.True(t, l.TotalAmount.Equal(l.PricePerUnit.Mul(decimal.NewFromInt(int64(l.Quantity)))))
		assert.True(t, l.TotalAmount.Equal(l.TotalAmount.Round(2)), "total de línea con dos decimales")
		sum = sum.Add(l.TotalAmount)
	}
	assert.True(t, out.Amount.Equal(dec("31.57")), "amount = %s", out.Amount)
	assert.True(t, out.Amount.Equal(sum))

	again, err := svc.GetPaymentByID(context.Background(), out.PaymentID)
	require.NoError(t, err)
	assert.True(t, again.Amount.Equal(out.Amount))
}

func TestCreatePayment_FallaEnLineaHaceRollback(t *testing.T) {
	store := newTestStore(t)
	svc := store.newService()

	_, err := svc.CreatePayment(context.Background(), dto.CreatePaymentRequest{
		SupplierID:  testSupplierID,
		PaymentDate: "2024-03-01",
		Products: []dto.PaymentLineRequest{
			line("Food", "BrandX", 1, "10"),
			{Product: dto.ProductRef{ID: "producto-fantasma"}, Quantity: 1, PricePerUnit: dec("5")},
		},
	})
	assert.ErrorIs(t, err, domain.ErrProductNotFound)

	payments, lines, products := store.counts()
	assert.Zero(t, payments, "la cabecera se revierte")
	assert.Zero(t, lines)
	assert.Zero(t, products, "el producto creado en la línea 1 se revierte")
}

func TestCreatePayment_ProductoPorID(t *testing.T) {
	store := newTestStore(t)
	svc := store.newService()
	ctx := context.Background()

	first, err := svc.CreatePayment(ctx, dto.CreatePaymentRequest{
		SupplierID: testSupplierID, PaymentDate: "2024-03-01",
		Products: []dto.PaymentLineRequest{line("Collar", "Trixie", 1, "25000")},
	})
	require.NoError(t, err)
	productID := first.Products[0].Product.ID

	second, err := svc.CreatePayment(ctx, dto.CreatePaymentRequest{
		SupplierID: testSupplierID, PaymentDate: "2024-03-15",
		Products: []dto.PaymentLineRequest{{Product: dto.ProductRef{ID: productID}, Quantity: 2, PricePerUnit: dec("24000")}},
	})
	require.NoError(t, err)
	assert.Equal(t, productID, second.Products[0].Product.ID)
	assert.Equal(t, "Collar", second.Products[0].Product.Name)
	assert.True(t, second.Amount.Equal(dec("48000")))
}

func TestResolucionDeProducto_Idempotente(t *testing.T) {
	store := newTestStore(t)
	svc := store.newService()
	ctx := context.Background()

	var ids []string
	for _, ref := range []struct{ name, brand string }{{"Food", "BrandX"}, {"FOOD", "brandx"}} {
		out, err := svc.CreatePayment(ctx, dto.CreatePaymentRequest{
			SupplierID: testSupplierID, PaymentDate: "2024-03-01",
			Products: []dto.PaymentLineRequest{line(ref.name, ref.brand, 1, "10")},
		})
		require.NoError(t, err)
		ids = append(ids, out.Products[0].Product.ID)
	}
	assert.Equal(t, ids[0], ids[1])
	_, _, products := store.counts()
	assert.Equal(t, 1, products)
}

// ──────────────────────────────────────────────────────────────────────────────
// Consultas por proveedor
// ──────────────────────────────────────────────────────────────────────────────

func TestGetLastAndNext_SinPagos(t *testing.T) {
	store := newTestStore(t)
	out, err := store.newService().GetLastAndNextPaymentsBySupplierID(context.Background(), testSupplierID)
	require.NoError(t, err)
	assert.Equal(t, testSupplierID, out.SupplierID)
	assert.Nil(t, out.Last)
	assert.Nil(t, out.Next)
}

func TestGetLastAndNext_EjemploEneroJunio(t *testing.T) {
	store := newTestStore(t)
	base := time.Date(2023, 12, 1, 0, 0, 0, 0, time.UTC)
	store.addPayment("pay-jan", testSupplierID, "2024-01-01", base)
	store.addPayment("pay-jun", testSupplierID, "2024-06-01", base.Add(time.Minute))
	store.addPayment("pay-otro", "sup-2", "2024-02-01", base)

	asOf := time.Date(2024, 3, 1, 15, 0, 0, 0, time.UTC)
	out, err := store.newService().GetLastAndNextPaymentsAsOf(context.Background(), testSupplierID, asOf)
	require.NoError(t, err)

	require.NotNil(t, out.Last)
	require.NotNil(t, out.Next)
	assert.Equal(t, "pay-jan", out.Last.PaymentID)
	assert.Equal(t, "2024-01-01", out.Last.PaymentDate)
	assert.Equal(t, "pay-jun", out.Next.PaymentID)
	assert.Equal(t, "2024-06-01", out.Next.PaymentDate)
	assert.Equal(t, "2024-03-01", out.AsOf)
}

func TestGetLastAndNext_PagoDelMismoDiaEsUltimo(t *testing.T) {
	store := newTestStore(t)
	store.addPayment("pay-hoy", testSupplierID, "2024-03-01", time.Now())

	out, err := store.newService().GetLastAndNextPaymentsAsOf(context.Background(), testSupplierID, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.NotNil(t, out.Last)
	assert.Equal(t, "pay-hoy", out.Last.PaymentID)
	assert.Nil(t, out.Next)
}

func TestGetLastAndNext_DesempatePorCreacion(t *testing.T) {
	store := newTestStore(t)
	t0 := time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC)
	store.addPayment("b-primero", testSupplierID, "2024-02-01", t0)
	store.addPayment("a-segundo", testSupplierID, "2024-02-01", t0.Add(time.Hour))
	store.addPayment("d-temprano", testSupplierID, "2024-04-01", t0)
	store.addPayment("c-tarde", testSupplierID, "2024-04-01", t0.Add(time.Hour))

	out, err := store.newService().GetLastAndNextPaymentsAsOf(context.Background(), testSupplierID, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, "a-segundo", out.Last.PaymentID, "last: el registrado más tarde en la fecha máxima")
	assert.Equal(t, "d-temprano", out.Next.PaymentID, "next: el registrado más temprano en la fecha mínima")
}

func TestGetLastAndNext_HoySegunZonaHoraria(t *testing.T) {
	store := newTestStore(t)
	store.addPayment("pay-1", testSupplierID, "2024-03-01", time.Now())
	store.addPayment("pay-2", testSupplierID, "2024-03-02", time.Now())

	bogota := time.FixedZone("COT", -5*60*60)
	// 2024-03-02 03:00 UTC es todavía 2024-03-01 en Bogotá
	clock := func() time.Time { return time.Date(2024, 3, 2, 3, 0, 0, 0, time.UTC) }
	svc := store.newService(WithClock(clock), WithLocation(bogota))

	out, err := svc.GetLastAndNextPaymentsBySupplierID(context.Background(), testSupplierID)
	require.NoError(t, err)
	assert.Equal(t, "2024-03-01", out.AsOf)
	assert.Equal(t, "pay-1", out.Last.PaymentID)
	assert.Equal(t, "pay-2", out.Next.PaymentID)
}

func TestGetLastAndNext_ProveedorInexistente(t *testing.T) {
	store := newTestStore(t)
	_, err := store.newService().GetLastAndNextPaymentsBySupplierID(context.Background(), "nadie")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestGetAllPaymentsBySupplierID_IdaYVuelta(t *testing.T) {
	store := newTestStore(t)
	svc := store.newService()
	ctx := context.Background()

	created, err := svc.CreatePayment(ctx, dto.CreatePaymentRequest{
		SupplierID:  testSupplierID,
		PaymentDate: "2024-04-20",
		Notes:       "factura 1234",
		Products: []dto.PaymentLineRequest{
			line("Shampoo", "Petys", 6, "12500.75"),
			line("Juguete Hueso", "Kong", 2, "31000"),
		},
	})
	require.NoError(t, err)

	all, err := svc.GetAllPaymentsBySupplierID(ctx, testSupplierID)
	require.NoError(t, err)
	assert.Equal(t, testSupplierID, all.SupplierID)
	require.Len(t, all.Payments, 1)

	want, err := json.Marshal(created)
	require.NoError(t, err)
	got, err := json.Marshal(all.Payments[0])
	require.NoError(t, err)
	assert.JSONEq(t, string(want), string(got))

	byID, err := svc.GetPaymentByID(ctx, created.PaymentID)
	require.NoError(t, err)
	got, err = json.Marshal(byID)
	require.NoError(t, err)
	assert.JSONEq(t, string(want), string(got))
}

func TestGetAllPaymentsBySupplierID_Errores(t *testing.T) {
	store := newTestStore(t)
	svc := store.newService()

	_, err := svc.GetAllPaymentsBySupplierID(context.Background(), "nadie")
	assert.ErrorIs(t, err, domain.ErrSupplierNotFound)

	_, err = svc.GetAllPaymentsBySupplierID(context.Background(), "  ")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	empty, err := svc.GetAllPaymentsBySupplierID(context.Background(), testSupplierID)
	require.NoError(t, err)
	assert.Empty(t, empty.Payments)
}

func TestGetPaymentByID_NoExiste(t *testing.T) {
	store := newTestStore(t)
	_, err := store.newService().GetPaymentByID(context.Background(), "pay-x")
	assert.ErrorIs(t, err, domain.ErrPaymentNotFound)
}

func TestGetAllPaymentConditions(t *testing.T) {
	store := newTestStore(t)
	store.conditions = []entity.PaymentCondition{{ID: 1, Name: "Contado"}, {ID: 2, Name: "30 días"}}

	out, err := store.newService().GetAllPaymentConditions(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []dto.PaymentConditionResponse{{ID: 1, Name: "Contado"}, {ID: 2, Name: "30 días"}}, out)
}
