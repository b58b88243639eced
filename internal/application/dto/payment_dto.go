package dto

import "github.com/shopspring/decimal"

// ProductRef referencia a un producto del catálogo: por ID, o por (name, brand)
// para buscarlo o crearlo al vuelo.
type ProductRef struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Brand string `json:"brand"`
}

// PaymentLineRequest una línea solicitada dentro de un pago.
type PaymentLineRequest struct {
	Product      ProductRef      `json:"product"`
	Quantity     int             `json:"quantity"`
	PricePerUnit decimal.Decimal `json:"price_per_unit"`
}

// CreatePaymentRequest entrada para registrar un pago a un proveedor.
type CreatePaymentRequest struct {
	SupplierID  string               `json:"supplier_id"`
	PaymentDate string               `json:"payment_date"` // YYYY-MM-DD
	Notes       string               `json:"notes"`
	Products    []PaymentLineRequest `json:"products"`
}

// ProductResponse campos públicos de un producto.
type ProductResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Brand string `json:"brand"`
}

// PaymentLineResponse una línea del pago tal como se expone.
type PaymentLineResponse struct {
	Product      ProductResponse `json:"product"`
	Quantity     int             `json:"quantity"`
	PricePerUnit decimal.Decimal `json:"price_per_unit"`
	TotalAmount  decimal.Decimal `json:"total_amount"`
}

// PaymentResponse forma canónica de un pago: cabecera + líneas.
type PaymentResponse struct {
	PaymentID   string                `json:"payment_id"`
	SupplierID  string                `json:"supplier_id"`
	PaymentDate string                `json:"payment_date"`
	Amount      decimal.Decimal       `json:"amount"`
	Notes       string                `json:"notes"`
	Products    []PaymentLineResponse `json:"products"`
}

// SupplierPaymentsResponse todos los pagos de un proveedor.
type SupplierPaymentsResponse struct {
	SupplierID string            `json:"supplier_id"`
	Payments   []PaymentResponse `json:"payments"`
}

// SupplierLastNextPaymentsResponse último pago (fecha <= as_of) y siguiente (fecha > as_of).
// Cualquiera de los dos puede ser null.
type SupplierLastNextPaymentsResponse struct {
	SupplierID string           `json:"supplier_id"`
	AsOf       string           `json:"as_of"`
	Last       *PaymentResponse `json:"last"`
	Next       *PaymentResponse `json:"next"`
}

// PaymentConditionResponse salida de una condición de pago.
type PaymentConditionResponse struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}
