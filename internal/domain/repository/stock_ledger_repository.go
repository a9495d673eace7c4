package repository

import (
	"github.com/shopspring/decimal"
	"github.com/jhoicas/Farmacia-api/internal/domain/entity"
)

// StockLedgerRepository define el puerto del ledger de stock. Solo inserta:
// el ledger es append-only y es la fuente de verdad de las cantidades.
type StockLedgerRepository interface {
	Create(entry *entity.StockLedgerEntry) error
	ListByLot(companyID, lotID string, limit, offset int) ([]*entity.StockLedgerEntry, error)
	// SumDeltasByLot suma los deltas firmados del lote; debe igualar el
	// QtyAvailable proyectado (verificación de consistencia).
	SumDeltasByLot(companyID, lotID string) (decimal.Decimal, error)
}
