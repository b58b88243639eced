package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Payment es un desembolso a un proveedor compuesto por una o más líneas de producto.
// Amount es derivado: siempre igual a la suma de TotalAmount de sus líneas.
type Payment struct {
	ID          string
	SupplierID  string
	PaymentDate time.Time // solo fecha (00:00 UTC)
	Amount      decimal.Decimal
	Notes       string
	CreatedAt   time.Time
}

// PaymentLineItem una línea del pago (tabla payments_products).
type PaymentLineItem struct {
	ID           string
	PaymentID    string
	LineNumber   int
	ProductID    string
	Product      *Product // cargado por el repositorio al leer
	Quantity     int
	PricePerUnit decimal.Decimal
	TotalAmount  decimal.Decimal
}

// LineTotal devuelve quantity × price_per_unit.
func LineTotal(quantity int, pricePerUnit decimal.Decimal) decimal.Decimal {
	return pricePerUnit.Mul(decimal.NewFromInt(int64(quantity)))
}
