package inventory

import (
	"context"
	"time"

	"github.com/jhoicas/Farmacia-api/internal/application/dto"
	"github.com/jhoicas/Farmacia-api/internal/domain"
	"github.com/jhoicas/Farmacia-api/internal/domain/repository"
)

// ReportUseCase expone las proyecciones de solo lectura para dashboards:
// disponible actual y lotes próximos a vencer. Lee con repos atados al pool
// (fuera de transacción); la proyección nunca va más de una transacción
// confirmada por detrás del ledger.
type ReportUseCase struct {
	lotRepo    repository.StockLotRepository
	ledgerRepo repository.StockLedgerRepository
}

// NewReportUseCase construye el caso de uso de reportes de inventario.
func NewReportUseCase(lotRepo repository.StockLotRepository, ledgerRepo repository.StockLedgerRepository) *ReportUseCase {
	return &ReportUseCase{lotRepo: lotRepo, ledgerRepo: ledgerRepo}
}

// GetAvailability devuelve el disponible actual de un producto en un almacén.
func (uc *ReportUseCase) GetAvailability(ctx context.Context, companyID, productID, storeID string) (*dto.AvailabilityResponse, error) {
	if productID == "" || storeID == "" {
		return nil, domain.ErrInvalidInput
	}
	total, err := uc.lotRepo.SumAvailable(companyID, productID, storeID)
	if err != nil {
		return nil, err
	}
	return &dto.AvailabilityResponse{
		ProductID: productID,
		StoreID:   storeID,
		Available: total,
	}, nil
}

// ListNearExpiry lista lotes con disponible que vencen dentro de los próximos
// days días (por almacén; storeID vacío = todos los almacenes).
func (uc *ReportUseCase) ListNearExpiry(ctx context.Context, companyID, storeID string, days int, page dto.PageRequest) ([]dto.NearExpiryLotDTO, error) {
	if days <= 0 {
		days = 90
	}
	page.DefaultPage()
	before := time.Now().AddDate(0, 0, days)
	lots, err := uc.lotRepo.ListNearExpiry(companyID, storeID, before, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	out := make([]dto.NearExpiryLotDTO, 0, len(lots))
	for _, l := range lots {
		out = append(out, dto.NearExpiryLotDTO{
			LotID:       l.ID,
			ProductID:   l.ProductID,
			StoreID:     l.StoreID,
			BatchNumber: l.BatchNumber,
			ExpiryDate:  l.ExpiryDate.Format("2006-01-02"),
			Available:   l.QtyAvailable,
		})
	}
	return out, nil
}

// GetLotLedger devuelve el historial de movimientos de un lote junto con el
// saldo plegado de todos sus deltas (no solo la página pedida); ese saldo
// debe coincidir con el disponible del lote.
func (uc *ReportUseCase) GetLotLedger(ctx context.Context, companyID, lotID string, page dto.PageRequest) (*dto.LotLedgerResponse, error) {
	lot, err := uc.lotRepo.GetByID(companyID, lotID)
	if err != nil {
		return nil, err
	}
	if lot == nil {
		return nil, domain.ErrNotFound
	}
	balance, err := uc.ledgerRepo.SumDeltasByLot(companyID, lotID)
	if err != nil {
		return nil, err
	}
	page.DefaultPage()
	entries, err := uc.ledgerRepo.ListByLot(companyID, lotID, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	out := &dto.LotLedgerResponse{
		LotID:   lotID,
		Balance: balance,
		Entries: make([]dto.LedgerEntryDTO, 0, len(entries)),
	}
	for _, e := range entries {
		out.Entries = append(out.Entries, dto.LedgerEntryDTO{
			ID:        e.ID,
			LotID:     e.LotID,
			Type:      e.Type,
			Quantity:  e.Quantity,
			RefType:   e.RefType,
			RefID:     e.RefID,
			CreatedAt: e.CreatedAt,
			CreatedBy: e.CreatedBy,
		})
	}
	return out, nil
}
