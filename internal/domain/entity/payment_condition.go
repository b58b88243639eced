package entity

// PaymentCondition término de pago asociado a un proveedor (ej. "30 días").
type PaymentCondition struct {
	ID   int
	Name string
}
