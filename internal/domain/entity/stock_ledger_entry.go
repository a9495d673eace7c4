package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de movimiento del ledger de stock.
const (
	MovementTypeRECEIPT    = "RECEIPT"    // entrada por recepción de mercancía (GRN)
	MovementTypeALLOCATE   = "ALLOCATE"   // descuento por dispensación (venta aprobada)
	MovementTypeRELEASE    = "RELEASE"    // reverso por cancelación de venta completada
	MovementTypeRETURN     = "RETURN"     // devolución parcial o total de una venta
	MovementTypeADJUSTMENT = "ADJUSTMENT" // ajuste manual
)

// Tipos de referencia: qué documento originó el movimiento.
const (
	RefTypeSaleItem = "SaleItem"
	RefTypeGRNItem  = "GRNItem"
	RefTypeManual   = "Manual"
)

// StockLedgerEntry es un registro inmutable del ledger de stock: cada cambio
// de cantidad de un lote queda como una fila con delta firmado. El ledger es
// la fuente de verdad; StockLot.QtyAvailable es solo una proyección:
//
//	disponible = Σ(deltas del lote)
//	recibido   = Σ(deltas RECEIPT del lote)
type StockLedgerEntry struct {
	ID        string
	CompanyID string
	LotID     string
	Type      string          // RECEIPT, ALLOCATE, RELEASE, RETURN, ADJUSTMENT
	Quantity  decimal.Decimal // delta firmado: positivo entra, negativo sale
	RefType   string          // SaleItem, GRNItem, Manual
	RefID     string
	CreatedAt time.Time
	CreatedBy string // UserID
}
