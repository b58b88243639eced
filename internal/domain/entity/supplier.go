package entity

import "time"

// Supplier representa un proveedor al que la tienda le compra productos.
type Supplier struct {
	ID                 string
	Name               string
	TaxID              string // NIT, único
	Address            string
	Phone              string
	PaymentConditionID int
	PaymentNotes       string
	CreatedAt          time.Time
	UpdatedAt          time.Time
}
