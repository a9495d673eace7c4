package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateProductRequest alta de producto del catálogo.
type CreateProductRequest struct {
	SKU          string          `json:"sku" validate:"required"`
	Name         string          `json:"name" validate:"required"`
	Description  string          `json:"description"`
	Price        decimal.Decimal `json:"price"`
	ReorderLevel decimal.Decimal `json:"reorder_level"`
	MinimumStock decimal.Decimal `json:"minimum_stock"`
	Narcotic     bool            `json:"narcotic"`
}

// UpdateProductRequest actualización de campos mutables (los umbrales y
// datos comerciales; el SKU es identidad y no cambia).
type UpdateProductRequest struct {
	Name         string          `json:"name"`
	Description  string          `json:"description"`
	Price        decimal.Decimal `json:"price"`
	ReorderLevel decimal.Decimal `json:"reorder_level"`
	MinimumStock decimal.Decimal `json:"minimum_stock"`
	Narcotic     bool            `json:"narcotic"`
}

// ProductResponse producto del catálogo.
type ProductResponse struct {
	ID           string          `json:"id"`
	CompanyID    string          `json:"company_id"`
	SKU          string          `json:"sku"`
	Name         string          `json:"name"`
	Description  string          `json:"description"`
	Price        decimal.Decimal `json:"price"`
	ReorderLevel decimal.Decimal `json:"reorder_level"`
	MinimumStock decimal.Decimal `json:"minimum_stock"`
	Narcotic     bool            `json:"narcotic"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}
