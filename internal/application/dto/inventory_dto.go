package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// AdjustStockRequest ajuste manual sobre un lote (delta firmado).
type AdjustStockRequest struct {
	LotID string          `json:"lot_id" validate:"required"`
	Delta decimal.Decimal `json:"delta" validate:"required"`
}

// AvailabilityResponse disponible actual de un producto en un almacén.
type AvailabilityResponse struct {
	ProductID string          `json:"product_id"`
	StoreID   string          `json:"store_id"`
	Available decimal.Decimal `json:"available"`
}

// NearExpiryLotDTO lote próximo a vencer con stock disponible.
type NearExpiryLotDTO struct {
	LotID       string          `json:"lot_id"`
	ProductID   string          `json:"product_id"`
	StoreID     string          `json:"store_id"`
	BatchNumber string          `json:"batch_number"`
	ExpiryDate  string          `json:"expiry_date"`
	Available   decimal.Decimal `json:"available"`
}

// LotLedgerResponse historial de un lote junto con el saldo que resulta de
// plegar todos sus deltas. El saldo debe coincidir con el disponible del lote.
type LotLedgerResponse struct {
	LotID   string           `json:"lot_id"`
	Balance decimal.Decimal  `json:"balance"`
	Entries []LedgerEntryDTO `json:"entries"`
}

// LedgerEntryDTO entrada del ledger de un lote.
type LedgerEntryDTO struct {
	ID        string          `json:"id"`
	LotID     string          `json:"lot_id"`
	Type      string          `json:"type"`
	Quantity  decimal.Decimal `json:"quantity"`
	RefType   string          `json:"ref_type"`
	RefID     string          `json:"ref_id"`
	CreatedAt time.Time       `json:"created_at"`
	CreatedBy string          `json:"created_by"`
}
