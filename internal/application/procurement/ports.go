package procurement

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/jhoicas/Farmacia-api/internal/domain/entity"
	"github.com/jhoicas/Farmacia-api/internal/domain/repository"
)

// ProcurementTxRunner ejecuta una función dentro de una transacción que
// incluye los repos de compras, recepciones, stock y auditoría. Contabilizar
// un GRN crea lotes y entradas RECEIPT en la misma transacción que marca la
// nota como POSTED.
type ProcurementTxRunner interface {
	RunProcurement(ctx context.Context, fn func(
		poRepo repository.PurchaseOrderRepository,
		grnRepo repository.GRNRepository,
		lotRepo repository.StockLotRepository,
		ledgerRepo repository.StockLedgerRepository,
		auditRepo repository.AuditLogRepository,
	) error) error
}

// ReceiptEngine integra la contabilización del GRN con el motor de stock.
// ReceiveInTx fusiona por número de lote y aplica el RECEIPT con los repos
// del caller (misma transacción).
type ReceiptEngine interface {
	ReceiveInTx(
		lotRepo repository.StockLotRepository,
		ledgerRepo repository.StockLedgerRepository,
		companyID, productID, storeID, batchNumber string,
		expiryDate time.Time,
		quantity, unitCost decimal.Decimal,
		refType, refID, userID string,
		now time.Time,
	) (*entity.StockLot, error)
}
