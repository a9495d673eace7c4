package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// GRNItemRequest línea de recepción: lote, vencimiento y cantidades.
type GRNItemRequest struct {
	ProductID   string          `json:"product_id" validate:"required"`
	BatchNumber string          `json:"batch_number" validate:"required"`
	ExpiryDate  string          `json:"expiry_date" validate:"required"` // YYYY-MM-DD
	QtyReceived decimal.Decimal `json:"qty_received" validate:"required"`
	QtyRejected decimal.Decimal `json:"qty_rejected"`
	UnitCost    decimal.Decimal `json:"unit_cost"`
}

// CreateGRNRequest creación de nota de recepción en borrador.
// POID vacío = recepción directa sin orden de compra.
type CreateGRNRequest struct {
	POID         string           `json:"po_id"`
	StoreID      string           `json:"store_id" validate:"required"`
	ReceivedDate string           `json:"received_date"` // YYYY-MM-DD; vacío = hoy
	Items        []GRNItemRequest `json:"items" validate:"required,min=1"`
}

// GRNItemResponse línea de recepción.
type GRNItemResponse struct {
	ID          string          `json:"id"`
	ProductID   string          `json:"product_id"`
	BatchNumber string          `json:"batch_number"`
	ExpiryDate  string          `json:"expiry_date"`
	QtyReceived decimal.Decimal `json:"qty_received"`
	QtyRejected decimal.Decimal `json:"qty_rejected"`
	UnitCost    decimal.Decimal `json:"unit_cost"`
}

// GRNResponse nota de recepción completa.
type GRNResponse struct {
	ID           string            `json:"id"`
	CompanyID    string            `json:"company_id"`
	POID         string            `json:"po_id,omitempty"`
	Number       string            `json:"number"`
	StoreID      string            `json:"store_id"`
	ReceivedDate string            `json:"received_date"`
	Status       string            `json:"status"`
	Items        []GRNItemResponse `json:"items"`
	CreatedAt    time.Time         `json:"created_at"`
	UpdatedAt    time.Time         `json:"updated_at"`
}
