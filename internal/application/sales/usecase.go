package sales

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/jhoicas/Farmacia-api/internal/application/audit"
	"github.com/jhoicas/Farmacia-api/internal/application/dto"
	"github.com/jhoicas/Farmacia-api/internal/domain"
	"github.com/jhoicas/Farmacia-api/internal/domain/entity"
	"github.com/jhoicas/Farmacia-api/internal/domain/repository"
)

// UseCase implementa el ciclo de vida de la venta: borrador, aprobación con
// asignación de lotes, cancelación con reverso y devolución. Toda mutación
// corre en una transacción con su entrada de auditoría y exige la versión
// esperada del agregado.
type UseCase struct {
	txRunner    SalesTxRunner
	engine      AllocationEngine
	saleRepo    repository.SaleRepository
	productRepo repository.ProductRepository
	storeRepo   repository.StoreRepository
}

// NewUseCase construye el caso de uso de ventas.
func NewUseCase(
	txRunner SalesTxRunner,
	engine AllocationEngine,
	saleRepo repository.SaleRepository,
	productRepo repository.ProductRepository,
	storeRepo repository.StoreRepository,
) *UseCase {
	return &UseCase{
		txRunner:    txRunner,
		engine:      engine,
		saleRepo:    saleRepo,
		productRepo: productRepo,
		storeRepo:   storeRepo,
	}
}

// saleSnapshot es la vista que se serializa en el log de auditoría.
type saleSnapshot struct {
	Status      string          `json:"status"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	Discount    decimal.Decimal `json:"discount"`
	NetAmount   decimal.Decimal `json:"net_amount"`
	Version     int             `json:"version"`
}

func snapshotOf(s *entity.Sale) saleSnapshot {
	return saleSnapshot{
		Status:      s.Status,
		TotalAmount: s.TotalAmount,
		Discount:    s.Discount,
		NetAmount:   s.NetAmount,
		Version:     s.Version,
	}
}

// Create crea una venta en DRAFT con versión 1. No toca stock: los ítems son
// una intención de dispensación, la asignación ocurre al aprobar.
func (uc *UseCase) Create(ctx context.Context, companyID, userID string, in dto.CreateSaleRequest) (*dto.SaleResponse, error) {
	if in.PatientID == "" || in.StoreID == "" || len(in.Items) == 0 {
		return nil, domain.ErrInvalidInput
	}
	if in.Discount.IsNegative() {
		return nil, domain.ErrInvalidInput
	}

	store, err := uc.storeRepo.GetByID(companyID, in.StoreID)
	if err != nil {
		return nil, err
	}
	if store == nil {
		return nil, domain.ErrNotFound
	}

	// Validar productos y resolver precios (solo lectura, fuera de la tx).
	now := time.Now()
	sale := &entity.Sale{
		ID:            uuid.New().String(),
		CompanyID:     companyID,
		Number:        fmt.Sprintf("V-%d", now.UnixNano()),
		PatientID:     in.PatientID,
		StoreID:       in.StoreID,
		Status:        entity.SaleStatusDraft,
		Discount:      in.Discount,
		CreditAllowed: in.CreditAllowed,
		Version:       1,
		CreatedAt:     now,
		CreatedBy:     userID,
		UpdatedAt:     now,
		UpdatedBy:     userID,
	}
	for _, it := range in.Items {
		if it.ProductID == "" || !it.Quantity.IsPositive() || it.Discount.IsNegative() || it.UnitPrice.IsNegative() {
			return nil, domain.ErrInvalidInput
		}
		product, err := uc.productRepo.GetByID(companyID, it.ProductID)
		if err != nil {
			return nil, err
		}
		if product == nil {
			return nil, domain.ErrNotFound
		}
		price := it.UnitPrice
		if price.IsZero() {
			price = product.Price
		}
		sale.Items = append(sale.Items, &entity.SaleItem{
			ID:        uuid.New().String(),
			SaleID:    sale.ID,
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
			UnitPrice: price,
			Discount:  it.Discount,
		})
	}
	sale.RecomputeTotals()

	err = uc.txRunner.RunSale(ctx, func(
		saleRepo repository.SaleRepository,
		_ repository.StockLotRepository,
		_ repository.StockLedgerRepository,
		auditRepo repository.AuditLogRepository,
	) error {
		if err := saleRepo.Create(sale); err != nil {
			return err
		}
		entry, err := audit.NewEntry(companyID, "Sale", sale.ID, entity.AuditActionCreate, userID, nil, snapshotOf(sale), now)
		if err != nil {
			return err
		}
		return auditRepo.Create(entry)
	})
	if err != nil {
		return nil, err
	}
	return toResponse(sale), nil
}

// SubmitForApproval pasa la venta de DRAFT a PENDING_APPROVAL. Sin efecto en
// stock; solo transición, versión y auditoría.
func (uc *UseCase) SubmitForApproval(ctx context.Context, companyID, userID, saleID string, expectedVersion int) (*dto.SaleResponse, error) {
	return uc.transition(ctx, companyID, userID, saleID, expectedVersion, entity.SaleStatusPendingApproval, entity.AuditActionSubmit)
}

// Approve aprueba la venta: asigna stock FEFO para cada ítem, persiste el
// desglose de lotes y pasa a COMPLETED. Si cualquier ítem queda sin stock,
// la transacción completa se revierte y la venta no cambia.
func (uc *UseCase) Approve(ctx context.Context, companyID, userID, saleID string, expectedVersion int) (*dto.SaleResponse, error) {
	var result *entity.Sale
	now := time.Now()
	err := uc.txRunner.RunSale(ctx, func(
		saleRepo repository.SaleRepository,
		lotRepo repository.StockLotRepository,
		ledgerRepo repository.StockLedgerRepository,
		auditRepo repository.AuditLogRepository,
	) error {
		sale, err := uc.loadForMutation(saleRepo, companyID, saleID, expectedVersion)
		if err != nil {
			return err
		}
		if !sale.CanTransitionTo(entity.SaleStatusCompleted) {
			return domain.ErrInvalidTransition
		}
		before := snapshotOf(sale)

		for _, item := range sale.Items {
			allocations, err := uc.engine.AllocateInTx(
				lotRepo, ledgerRepo,
				companyID, item.ProductID, sale.StoreID,
				item.Quantity,
				entity.RefTypeSaleItem, item.ID, userID,
				now,
			)
			if err != nil {
				return err
			}
			item.Allocations = allocations
			if err := saleRepo.SaveItemAllocations(item); err != nil {
				return err
			}
		}

		sale.Status = entity.SaleStatusCompleted
		sale.RecomputeTotals()
		return uc.persist(saleRepo, auditRepo, sale, expectedVersion, userID, entity.AuditActionApprove, before, now, &result)
	})
	if err != nil {
		return nil, err
	}
	return toResponse(result), nil
}

// Cancel cancela la venta. Desde DRAFT o PENDING_APPROVAL no hay stock que
// revertir; desde COMPLETED se repone lote-exacto contra los mismos lotes que
// se descontaron al aprobar.
func (uc *UseCase) Cancel(ctx context.Context, companyID, userID, saleID string, expectedVersion int) (*dto.SaleResponse, error) {
	var result *entity.Sale
	now := time.Now()
	err := uc.txRunner.RunSale(ctx, func(
		saleRepo repository.SaleRepository,
		lotRepo repository.StockLotRepository,
		ledgerRepo repository.StockLedgerRepository,
		auditRepo repository.AuditLogRepository,
	) error {
		sale, err := uc.loadForMutation(saleRepo, companyID, saleID, expectedVersion)
		if err != nil {
			return err
		}
		if !sale.CanTransitionTo(entity.SaleStatusCancelled) {
			return domain.ErrInvalidTransition
		}
		before := snapshotOf(sale)

		if sale.Status == entity.SaleStatusCompleted {
			for _, item := range sale.Items {
				if len(item.Allocations) == 0 {
					continue
				}
				if err := uc.engine.ReleaseInTx(
					lotRepo, ledgerRepo,
					companyID, item.Allocations,
					entity.RefTypeSaleItem, item.ID, userID,
					now,
				); err != nil {
					return err
				}
			}
		}

		sale.Status = entity.SaleStatusCancelled
		return uc.persist(saleRepo, auditRepo, sale, expectedVersion, userID, entity.AuditActionCancel, before, now, &result)
	})
	if err != nil {
		return nil, err
	}
	return toResponse(result), nil
}

// Return registra una devolución (parcial o total) de una venta COMPLETED.
// Cada línea devuelve contra los lotes originales de su asignación, con tope
// en lo dispensado por lote. La venta queda en RETURNED.
func (uc *UseCase) Return(ctx context.Context, companyID, userID, saleID string, in dto.ReturnSaleRequest) (*dto.SaleResponse, error) {
	if len(in.Items) == 0 {
		return nil, domain.ErrInvalidInput
	}
	// Una línea repetida burlaría el tope: el motor acota cada llamada contra
	// la asignación original completa, no contra lo ya devuelto.
	seen := make(map[string]struct{}, len(in.Items))
	for _, ret := range in.Items {
		if _, dup := seen[ret.SaleItemID]; dup {
			return nil, domain.ErrInvalidInput
		}
		seen[ret.SaleItemID] = struct{}{}
	}
	var result *entity.Sale
	now := time.Now()
	err := uc.txRunner.RunSale(ctx, func(
		saleRepo repository.SaleRepository,
		lotRepo repository.StockLotRepository,
		ledgerRepo repository.StockLedgerRepository,
		auditRepo repository.AuditLogRepository,
	) error {
		sale, err := uc.loadForMutation(saleRepo, companyID, saleID, in.ExpectedVersion)
		if err != nil {
			return err
		}
		if !sale.CanTransitionTo(entity.SaleStatusReturned) {
			return domain.ErrInvalidTransition
		}
		before := snapshotOf(sale)

		itemsByID := make(map[string]*entity.SaleItem, len(sale.Items))
		for _, item := range sale.Items {
			itemsByID[item.ID] = item
		}
		for _, ret := range in.Items {
			item, ok := itemsByID[ret.SaleItemID]
			if !ok {
				return domain.ErrNotFound
			}
			if _, err := uc.engine.ReturnInTx(
				lotRepo, ledgerRepo,
				companyID, item.Allocations, ret.Quantity,
				entity.RefTypeSaleItem, item.ID, userID,
				now,
			); err != nil {
				return err
			}
		}

		sale.Status = entity.SaleStatusReturned
		return uc.persist(saleRepo, auditRepo, sale, in.ExpectedVersion, userID, entity.AuditActionReturn, before, now, &result)
	})
	if err != nil {
		return nil, err
	}
	return toResponse(result), nil
}

// GetByID obtiene una venta con ítems y desglose de lotes.
func (uc *UseCase) GetByID(ctx context.Context, companyID, saleID string) (*dto.SaleResponse, error) {
	sale, err := uc.saleRepo.GetByID(companyID, saleID)
	if err != nil {
		return nil, err
	}
	if sale == nil {
		return nil, domain.ErrNotFound
	}
	return toResponse(sale), nil
}

// List lista ventas de la empresa, opcionalmente filtradas por estado.
func (uc *UseCase) List(ctx context.Context, companyID, status string, page dto.PageRequest) ([]*dto.SaleResponse, error) {
	page.DefaultPage()
	sales, err := uc.saleRepo.ListByCompany(companyID, status, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.SaleResponse, 0, len(sales))
	for _, s := range sales {
		out = append(out, toResponse(s))
	}
	return out, nil
}

// transition aplica una transición sin efecto en stock (submit).
func (uc *UseCase) transition(ctx context.Context, companyID, userID, saleID string, expectedVersion int, toStatus, action string) (*dto.SaleResponse, error) {
	var result *entity.Sale
	now := time.Now()
	err := uc.txRunner.RunSale(ctx, func(
		saleRepo repository.SaleRepository,
		_ repository.StockLotRepository,
		_ repository.StockLedgerRepository,
		auditRepo repository.AuditLogRepository,
	) error {
		sale, err := uc.loadForMutation(saleRepo, companyID, saleID, expectedVersion)
		if err != nil {
			return err
		}
		if !sale.CanTransitionTo(toStatus) {
			return domain.ErrInvalidTransition
		}
		before := snapshotOf(sale)
		sale.Status = toStatus
		return uc.persist(saleRepo, auditRepo, sale, expectedVersion, userID, action, before, now, &result)
	})
	if err != nil {
		return nil, err
	}
	return toResponse(result), nil
}

// loadForMutation carga la venta y valida la versión esperada. El chequeo
// definitivo es el UPDATE condicional; este corte temprano evita trabajo
// (y asignaciones de stock) que igual se revertirían.
func (uc *UseCase) loadForMutation(saleRepo repository.SaleRepository, companyID, saleID string, expectedVersion int) (*entity.Sale, error) {
	if expectedVersion < 1 {
		return nil, domain.ErrInvalidInput
	}
	sale, err := saleRepo.GetByID(companyID, saleID)
	if err != nil {
		return nil, err
	}
	if sale == nil {
		return nil, domain.ErrNotFound
	}
	if sale.Version != expectedVersion {
		return nil, domain.ErrVersionConflict
	}
	return sale, nil
}

// persist guarda la cabecera con UPDATE condicional y su entrada de auditoría.
func (uc *UseCase) persist(
	saleRepo repository.SaleRepository,
	auditRepo repository.AuditLogRepository,
	sale *entity.Sale,
	expectedVersion int,
	userID, action string,
	before saleSnapshot,
	now time.Time,
	out **entity.Sale,
) error {
	sale.Version = expectedVersion + 1
	sale.UpdatedAt = now
	sale.UpdatedBy = userID
	if err := saleRepo.UpdateVersioned(sale, expectedVersion); err != nil {
		return err
	}
	entry, err := audit.NewEntry(sale.CompanyID, "Sale", sale.ID, action, userID, before, snapshotOf(sale), now)
	if err != nil {
		return err
	}
	if err := auditRepo.Create(entry); err != nil {
		return err
	}
	*out = sale
	return nil
}

func toResponse(s *entity.Sale) *dto.SaleResponse {
	resp := &dto.SaleResponse{
		ID:            s.ID,
		CompanyID:     s.CompanyID,
		Number:        s.Number,
		PatientID:     s.PatientID,
		StoreID:       s.StoreID,
		Status:        s.Status,
		TotalAmount:   s.TotalAmount,
		Discount:      s.Discount,
		NetAmount:     s.NetAmount,
		CreditAllowed: s.CreditAllowed,
		Version:       s.Version,
		Items:         make([]dto.SaleItemResponse, 0, len(s.Items)),
		CreatedAt:     s.CreatedAt,
		UpdatedAt:     s.UpdatedAt,
	}
	for _, item := range s.Items {
		ir := dto.SaleItemResponse{
			ID:        item.ID,
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
			Discount:  item.Discount,
		}
		for _, a := range item.Allocations {
			ir.Allocations = append(ir.Allocations, dto.LotAllocationDTO{LotID: a.LotID, Quantity: a.Quantity})
		}
		resp.Items = append(resp.Items, ir)
	}
	return resp
}
