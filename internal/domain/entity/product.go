package entity

import "time"

// Product representa un producto del catálogo. La pareja (Name, Brand) es única
// sin distinguir mayúsculas; se crea al vuelo al registrar pagos y luego se reutiliza.
type Product struct {
	ID        string
	Name      string
	Brand     string
	CreatedAt time.Time
}
