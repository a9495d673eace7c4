package inventory

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/jhoicas/Farmacia-api/internal/domain"
	"github.com/jhoicas/Farmacia-api/internal/domain/repository"
)

// UseCase expone las operaciones de inventario que no pertenecen a un
// workflow de venta o compra: ajustes manuales sobre lotes.
type UseCase struct {
	txRunner TxRunner
	engine   *Engine
}

// NewUseCase construye el caso de uso de inventario.
func NewUseCase(txRunner TxRunner, engine *Engine) *UseCase {
	return &UseCase{txRunner: txRunner, engine: engine}
}

// Adjust registra un ajuste manual (delta firmado) sobre un lote, en su
// propia transacción. El delta positivo repone (hasta el tope de lo
// recibido), el negativo descuenta (hasta dejar el disponible en cero).
func (uc *UseCase) Adjust(ctx context.Context, companyID, userID, lotID string, delta decimal.Decimal) error {
	if companyID == "" || userID == "" || lotID == "" {
		return domain.ErrInvalidInput
	}
	now := time.Now()
	return uc.txRunner.Run(ctx, func(
		lotRepo repository.StockLotRepository,
		ledgerRepo repository.StockLedgerRepository,
	) error {
		return uc.engine.AdjustInTx(lotRepo, ledgerRepo, companyID, lotID, delta, userID, now)
	})
}
