package inventory

import (
	"context"

	"github.com/jhoicas/Farmacia-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repos
// de stock atados a esa tx. Garantiza atomicidad para ajustes manuales.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		lotRepo repository.StockLotRepository,
		ledgerRepo repository.StockLedgerRepository,
	) error) error
}
