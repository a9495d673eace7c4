package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un medicamento o insumo del catálogo de la farmacia.
// El stock nunca vive aquí: se maneja por lote en StockLot y se deriva del ledger.
type Product struct {
	ID           string
	CompanyID    string
	SKU          string // código único por empresa
	Name         string
	Description  string
	Price        decimal.Decimal // precio de venta unitario
	ReorderLevel decimal.Decimal // punto de reorden
	MinimumStock decimal.Decimal // stock mínimo permitido
	Narcotic     bool            // medicamento controlado (requiere aprobación)
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
