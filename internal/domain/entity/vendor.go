package entity

import "time"

// Vendor representa un proveedor de medicamentos (destino de órdenes de compra).
type Vendor struct {
	ID        string
	CompanyID string
	Code      string
	Name      string
	TaxID     string
	Phone     string
	Email     string
	CreatedAt time.Time
	UpdatedAt time.Time
}
