package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// StockLot representa un lote de un producto en un almacén: cantidad recibida,
// cantidad disponible y fecha de vencimiento.
//
// Invariante: 0 <= QtyAvailable <= QtyReceived. Un lote solo nace al
// contabilizar un GRN, solo se descuenta vía el ledger y nunca se borra
// (los lotes en cero se conservan para auditoría y reportes de vencimiento).
type StockLot struct {
	ID           string
	CompanyID    string
	ProductID    string
	StoreID      string
	BatchNumber  string
	ExpiryDate   time.Time
	QtyReceived  decimal.Decimal // acumulado de recepciones aceptadas
	QtyAvailable decimal.Decimal // proyección mantenida: suma de deltas del ledger
	UnitCost     decimal.Decimal
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Expired indica si el lote está vencido a la fecha dada.
func (l *StockLot) Expired(onDate time.Time) bool {
	return !l.ExpiryDate.IsZero() && !l.ExpiryDate.After(onDate)
}
