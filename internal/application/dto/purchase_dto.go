package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// POItemRequest línea de orden de compra.
type POItemRequest struct {
	ProductID  string          `json:"product_id" validate:"required"`
	QtyOrdered decimal.Decimal `json:"qty_ordered" validate:"required"`
	UnitCost   decimal.Decimal `json:"unit_cost"`
	TaxRate    decimal.Decimal `json:"tax_rate"`
}

// CreatePORequest creación de orden de compra en borrador.
type CreatePORequest struct {
	VendorID     string          `json:"vendor_id" validate:"required"`
	OrderDate    string          `json:"order_date"`    // YYYY-MM-DD; vacío = hoy
	ExpectedDate string          `json:"expected_date"` // YYYY-MM-DD
	Items        []POItemRequest `json:"items" validate:"required,min=1"`
}

// UpdatePORequest edición de una orden en borrador (reemplaza líneas).
type UpdatePORequest struct {
	ExpectedVersion int             `json:"expected_version" validate:"required,min=1"`
	VendorID        string          `json:"vendor_id"`
	ExpectedDate    string          `json:"expected_date"`
	Items           []POItemRequest `json:"items" validate:"required,min=1"`
}

// POItemResponse línea de orden de compra.
type POItemResponse struct {
	ID         string          `json:"id"`
	ProductID  string          `json:"product_id"`
	QtyOrdered decimal.Decimal `json:"qty_ordered"`
	UnitCost   decimal.Decimal `json:"unit_cost"`
	TaxRate    decimal.Decimal `json:"tax_rate"`
}

// POResponse orden de compra completa.
type POResponse struct {
	ID           string           `json:"id"`
	CompanyID    string           `json:"company_id"`
	Number       string           `json:"number"`
	VendorID     string           `json:"vendor_id"`
	Status       string           `json:"status"`
	OrderDate    string           `json:"order_date"`
	ExpectedDate string           `json:"expected_date"`
	Version      int              `json:"version"`
	Items        []POItemResponse `json:"items"`
	CreatedAt    time.Time        `json:"created_at"`
	UpdatedAt    time.Time        `json:"updated_at"`
}
