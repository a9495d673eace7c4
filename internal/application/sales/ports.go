package sales

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/jhoicas/Farmacia-api/internal/domain/entity"
	"github.com/jhoicas/Farmacia-api/internal/domain/repository"
)

// SalesTxRunner ejecuta una función dentro de una transacción que incluye los
// repos de venta, stock y auditoría. Toda mutación de venta corre aquí.
type SalesTxRunner interface {
	RunSale(ctx context.Context, fn func(
		saleRepo repository.SaleRepository,
		lotRepo repository.StockLotRepository,
		ledgerRepo repository.StockLedgerRepository,
		auditRepo repository.AuditLogRepository,
	) error) error
}

// AllocationEngine integra ventas con el motor de stock. Los métodos *InTx
// usan los repositorios del caller (misma transacción); si retornan error
// (ej: ErrInsufficientStock) el caller debe hacer rollback.
type AllocationEngine interface {
	AllocateInTx(
		lotRepo repository.StockLotRepository,
		ledgerRepo repository.StockLedgerRepository,
		companyID, productID, storeID string,
		quantity decimal.Decimal,
		refType, refID, userID string,
		now time.Time,
	) ([]entity.LotAllocation, error)
	ReleaseInTx(
		lotRepo repository.StockLotRepository,
		ledgerRepo repository.StockLedgerRepository,
		companyID string,
		allocations []entity.LotAllocation,
		refType, refID, userID string,
		now time.Time,
	) error
	ReturnInTx(
		lotRepo repository.StockLotRepository,
		ledgerRepo repository.StockLedgerRepository,
		companyID string,
		original []entity.LotAllocation,
		quantity decimal.Decimal,
		refType, refID, userID string,
		now time.Time,
	) ([]entity.LotAllocation, error)
}
