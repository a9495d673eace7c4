package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// SaleItemRequest línea de venta en la creación.
type SaleItemRequest struct {
	ProductID string          `json:"product_id" validate:"required"`
	Quantity  decimal.Decimal `json:"quantity" validate:"required"`
	UnitPrice decimal.Decimal `json:"unit_price"` // 0 = usar precio del catálogo
	Discount  decimal.Decimal `json:"discount"`
}

// CreateSaleRequest creación de una venta en borrador. No mueve stock:
// los ítems son una solicitud de reserva, no un compromiso.
type CreateSaleRequest struct {
	PatientID     string            `json:"patient_id" validate:"required"`
	StoreID       string            `json:"store_id" validate:"required"`
	Discount      decimal.Decimal   `json:"discount"`
	CreditAllowed bool              `json:"credit_allowed"`
	Items         []SaleItemRequest `json:"items" validate:"required,min=1"`
}

// VersionedRequest mutación con bloqueo optimista: el caller manda la versión
// que leyó; si otro usuario la movió, recibe 409 y debe releer.
type VersionedRequest struct {
	ExpectedVersion int `json:"expected_version" validate:"required,min=1"`
}

// ReturnSaleItemRequest cantidad a devolver de una línea dispensada.
type ReturnSaleItemRequest struct {
	SaleItemID string          `json:"sale_item_id" validate:"required"`
	Quantity   decimal.Decimal `json:"quantity" validate:"required"`
}

// ReturnSaleRequest devolución (parcial o total) de una venta completada.
type ReturnSaleRequest struct {
	ExpectedVersion int                     `json:"expected_version" validate:"required,min=1"`
	Items           []ReturnSaleItemRequest `json:"items" validate:"required,min=1"`
}

// LotAllocationDTO desglose de lote asignado a una línea.
type LotAllocationDTO struct {
	LotID    string          `json:"lot_id"`
	Quantity decimal.Decimal `json:"quantity"`
}

// SaleItemResponse línea de venta con su desglose de lotes (si fue aprobada).
type SaleItemResponse struct {
	ID          string             `json:"id"`
	ProductID   string             `json:"product_id"`
	Quantity    decimal.Decimal    `json:"quantity"`
	UnitPrice   decimal.Decimal    `json:"unit_price"`
	Discount    decimal.Decimal    `json:"discount"`
	Allocations []LotAllocationDTO `json:"allocations,omitempty"`
}

// SaleResponse venta completa.
type SaleResponse struct {
	ID            string             `json:"id"`
	CompanyID     string             `json:"company_id"`
	Number        string             `json:"number"`
	PatientID     string             `json:"patient_id"`
	StoreID       string             `json:"store_id"`
	Status        string             `json:"status"`
	TotalAmount   decimal.Decimal    `json:"total_amount"`
	Discount      decimal.Decimal    `json:"discount"`
	NetAmount     decimal.Decimal    `json:"net_amount"`
	CreditAllowed bool               `json:"credit_allowed"`
	Version       int                `json:"version"`
	Items         []SaleItemResponse `json:"items"`
	CreatedAt     time.Time          `json:"created_at"`
	UpdatedAt     time.Time          `json:"updated_at"`
}
