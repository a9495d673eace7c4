package procurement

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/Farmacia-api/internal/application/audit"
	"github.com/jhoicas/Farmacia-api/internal/application/dto"
	"github.com/jhoicas/Farmacia-api/internal/domain"
	"github.com/jhoicas/Farmacia-api/internal/domain/entity"
	"github.com/jhoicas/Farmacia-api/internal/domain/repository"
)

const dateLayout = "2006-01-02"

// UseCase implementa el flujo de compras: orden de compra con su máquina de
// estados y nota de recepción, cuya contabilización es el único origen de
// lotes de stock y entradas RECEIPT.
type UseCase struct {
	txRunner    ProcurementTxRunner
	engine      ReceiptEngine
	poRepo      repository.PurchaseOrderRepository
	grnRepo     repository.GRNRepository
	vendorRepo  repository.VendorRepository
	productRepo repository.ProductRepository
	storeRepo   repository.StoreRepository
}

// NewUseCase construye el caso de uso de compras.
func NewUseCase(
	txRunner ProcurementTxRunner,
	engine ReceiptEngine,
	poRepo repository.PurchaseOrderRepository,
	grnRepo repository.GRNRepository,
	vendorRepo repository.VendorRepository,
	productRepo repository.ProductRepository,
	storeRepo repository.StoreRepository,
) *UseCase {
	return &UseCase{
		txRunner:    txRunner,
		engine:      engine,
		poRepo:      poRepo,
		grnRepo:     grnRepo,
		vendorRepo:  vendorRepo,
		productRepo: productRepo,
		storeRepo:   storeRepo,
	}
}

// poSnapshot es la vista de la orden que se serializa en auditoría.
type poSnapshot struct {
	Status   string `json:"status"`
	VendorID string `json:"vendor_id"`
	Items    int    `json:"items"`
	Version  int    `json:"version"`
}

func snapshotPO(po *entity.PurchaseOrder) poSnapshot {
	return poSnapshot{Status: po.Status, VendorID: po.VendorID, Items: len(po.Items), Version: po.Version}
}

// grnSnapshot es la vista de la nota que se serializa en auditoría.
type grnSnapshot struct {
	Status  string `json:"status"`
	POID    string `json:"po_id,omitempty"`
	StoreID string `json:"store_id"`
	Items   int    `json:"items"`
}

func snapshotGRN(grn *entity.GoodsReceiptNote) grnSnapshot {
	return grnSnapshot{Status: grn.Status, POID: grn.POID, StoreID: grn.StoreID, Items: len(grn.Items)}
}

func parseDate(s string, fallback time.Time) (time.Time, error) {
	if s == "" {
		return fallback, nil
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return time.Time{}, domain.ErrInvalidInput
	}
	return t, nil
}

// buildPOItems valida las líneas contra el catálogo y las materializa.
func (uc *UseCase) buildPOItems(companyID, poID string, in []dto.POItemRequest) ([]*entity.POItem, error) {
	items := make([]*entity.POItem, 0, len(in))
	for _, it := range in {
		if it.ProductID == "" || !it.QtyOrdered.IsPositive() || it.UnitCost.IsNegative() || it.TaxRate.IsNegative() {
			return nil, domain.ErrInvalidInput
		}
		product, err := uc.productRepo.GetByID(companyID, it.ProductID)
		if err != nil {
			return nil, err
		}
		if product == nil {
			return nil, domain.ErrNotFound
		}
		items = append(items, &entity.POItem{
			ID:         uuid.New().String(),
			POID:       poID,
			ProductID:  it.ProductID,
			QtyOrdered: it.QtyOrdered,
			UnitCost:   it.UnitCost,
			TaxRate:    it.TaxRate,
		})
	}
	return items, nil
}

// CreatePO crea una orden de compra en DRAFT con versión 1.
func (uc *UseCase) CreatePO(ctx context.Context, companyID, userID string, in dto.CreatePORequest) (*dto.POResponse, error) {
	if in.VendorID == "" || len(in.Items) == 0 {
		return nil, domain.ErrInvalidInput
	}
	vendor, err := uc.vendorRepo.GetByID(companyID, in.VendorID)
	if err != nil {
		return nil, err
	}
	if vendor == nil {
		return nil, domain.ErrNotFound
	}

	now := time.Now()
	orderDate, err := parseDate(in.OrderDate, now)
	if err != nil {
		return nil, err
	}
	expectedDate, err := parseDate(in.ExpectedDate, time.Time{})
	if err != nil {
		return nil, err
	}

	po := &entity.PurchaseOrder{
		ID:           uuid.New().String(),
		CompanyID:    companyID,
		Number:       fmt.Sprintf("OC-%d", now.UnixNano()),
		VendorID:     in.VendorID,
		Status:       entity.POStatusDraft,
		OrderDate:    orderDate,
		ExpectedDate: expectedDate,
		Version:      1,
		CreatedAt:    now,
		CreatedBy:    userID,
		UpdatedAt:    now,
		UpdatedBy:    userID,
	}
	po.Items, err = uc.buildPOItems(companyID, po.ID, in.Items)
	if err != nil {
		return nil, err
	}

	err = uc.txRunner.RunProcurement(ctx, func(
		poRepo repository.PurchaseOrderRepository,
		_ repository.GRNRepository,
		_ repository.StockLotRepository,
		_ repository.StockLedgerRepository,
		auditRepo repository.AuditLogRepository,
	) error {
		if err := poRepo.Create(po); err != nil {
			return err
		}
		entry, err := audit.NewEntry(companyID, "PurchaseOrder", po.ID, entity.AuditActionCreate, userID, nil, snapshotPO(po), now)
		if err != nil {
			return err
		}
		return auditRepo.Create(entry)
	})
	if err != nil {
		return nil, err
	}
	return toPOResponse(po), nil
}

// UpdatePO reemplaza proveedor, fecha esperada y líneas de una orden. Solo
// las órdenes en borrador admiten edición de contenido.
func (uc *UseCase) UpdatePO(ctx context.Context, companyID, userID, poID string, in dto.UpdatePORequest) (*dto.POResponse, error) {
	if len(in.Items) == 0 {
		return nil, domain.ErrInvalidInput
	}
	var result *entity.PurchaseOrder
	now := time.Now()
	err := uc.txRunner.RunProcurement(ctx, func(
		poRepo repository.PurchaseOrderRepository,
		_ repository.GRNRepository,
		_ repository.StockLotRepository,
		_ repository.StockLedgerRepository,
		auditRepo repository.AuditLogRepository,
	) error {
		po, err := uc.loadPO(poRepo, companyID, poID, in.ExpectedVersion)
		if err != nil {
			return err
		}
		if !po.Editable() {
			return domain.ErrInvalidTransition
		}
		before := snapshotPO(po)

		if in.VendorID != "" && in.VendorID != po.VendorID {
			vendor, err := uc.vendorRepo.GetByID(companyID, in.VendorID)
			if err != nil {
				return err
			}
			if vendor == nil {
				return domain.ErrNotFound
			}
			po.VendorID = in.VendorID
		}
		if in.ExpectedDate != "" {
			expectedDate, err := parseDate(in.ExpectedDate, time.Time{})
			if err != nil {
				return err
			}
			po.ExpectedDate = expectedDate
		}
		po.Items, err = uc.buildPOItems(companyID, po.ID, in.Items)
		if err != nil {
			return err
		}
		if err := poRepo.ReplaceItems(po); err != nil {
			return err
		}
		return uc.persistPO(poRepo, auditRepo, po, in.ExpectedVersion, userID, entity.AuditActionUpdate, before, now, &result)
	})
	if err != nil {
		return nil, err
	}
	return toPOResponse(result), nil
}

// ApprovePO pasa la orden de DRAFT a APPROVED. El boundary HTTP exige un rol
// de aprobador distinto del que edita.
func (uc *UseCase) ApprovePO(ctx context.Context, companyID, userID, poID string, expectedVersion int) (*dto.POResponse, error) {
	return uc.transitionPO(ctx, companyID, userID, poID, expectedVersion, entity.POStatusApproved, entity.AuditActionApprove)
}

// SendPO marca la orden como enviada al proveedor.
func (uc *UseCase) SendPO(ctx context.Context, companyID, userID, poID string, expectedVersion int) (*dto.POResponse, error) {
	return uc.transitionPO(ctx, companyID, userID, poID, expectedVersion, entity.POStatusSent, entity.AuditActionSend)
}

// CancelPO cancela la orden desde cualquier estado no terminal.
func (uc *UseCase) CancelPO(ctx context.Context, companyID, userID, poID string, expectedVersion int) (*dto.POResponse, error) {
	return uc.transitionPO(ctx, companyID, userID, poID, expectedVersion, entity.POStatusCancelled, entity.AuditActionCancel)
}

// ClosePO cierra una orden enviada cuya recepción terminó.
func (uc *UseCase) ClosePO(ctx context.Context, companyID, userID, poID string, expectedVersion int) (*dto.POResponse, error) {
	return uc.transitionPO(ctx, companyID, userID, poID, expectedVersion, entity.POStatusClosed, entity.AuditActionClose)
}

// GetPO obtiene una orden con sus líneas.
func (uc *UseCase) GetPO(ctx context.Context, companyID, poID string) (*dto.POResponse, error) {
	po, err := uc.poRepo.GetByID(companyID, poID)
	if err != nil {
		return nil, err
	}
	if po == nil {
		return nil, domain.ErrNotFound
	}
	return toPOResponse(po), nil
}

// ListPOs lista órdenes de la empresa, opcionalmente por estado.
func (uc *UseCase) ListPOs(ctx context.Context, companyID, status string, page dto.PageRequest) ([]*dto.POResponse, error) {
	page.DefaultPage()
	pos, err := uc.poRepo.ListByCompany(companyID, status, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.POResponse, 0, len(pos))
	for _, po := range pos {
		out = append(out, toPOResponse(po))
	}
	return out, nil
}

func (uc *UseCase) transitionPO(ctx context.Context, companyID, userID, poID string, expectedVersion int, toStatus, action string) (*dto.POResponse, error) {
	var result *entity.PurchaseOrder
	now := time.Now()
	err := uc.txRunner.RunProcurement(ctx, func(
		poRepo repository.PurchaseOrderRepository,
		_ repository.GRNRepository,
		_ repository.StockLotRepository,
		_ repository.StockLedgerRepository,
		auditRepo repository.AuditLogRepository,
	) error {
		po, err := uc.loadPO(poRepo, companyID, poID, expectedVersion)
		if err != nil {
			return err
		}
		if !po.CanTransitionTo(toStatus) {
			return domain.ErrInvalidTransition
		}
		before := snapshotPO(po)
		po.Status = toStatus
		return uc.persistPO(poRepo, auditRepo, po, expectedVersion, userID, action, before, now, &result)
	})
	if err != nil {
		return nil, err
	}
	return toPOResponse(result), nil
}

func (uc *UseCase) loadPO(poRepo repository.PurchaseOrderRepository, companyID, poID string, expectedVersion int) (*entity.PurchaseOrder, error) {
	if expectedVersion < 1 {
		return nil, domain.ErrInvalidInput
	}
	po, err := poRepo.GetByID(companyID, poID)
	if err != nil {
		return nil, err
	}
	if po == nil {
		return nil, domain.ErrNotFound
	}
	if po.Version != expectedVersion {
		return nil, domain.ErrVersionConflict
	}
	return po, nil
}

func (uc *UseCase) persistPO(
	poRepo repository.PurchaseOrderRepository,
	auditRepo repository.AuditLogRepository,
	po *entity.PurchaseOrder,
	expectedVersion int,
	userID, action string,
	before poSnapshot,
	now time.Time,
	out **entity.PurchaseOrder,
) error {
	po.Version = expectedVersion + 1
	po.UpdatedAt = now
	po.UpdatedBy = userID
	if err := poRepo.UpdateVersioned(po, expectedVersion); err != nil {
		return err
	}
	entry, err := audit.NewEntry(po.CompanyID, "PurchaseOrder", po.ID, action, userID, before, snapshotPO(po), now)
	if err != nil {
		return err
	}
	if err := auditRepo.Create(entry); err != nil {
		return err
	}
	*out = po
	return nil
}

// CreateGRN crea una nota de recepción en DRAFT. Si referencia una orden de
// compra, la orden debe existir y estar en SENT. Crear la nota no toca stock:
// los lotes nacen solo al contabilizar.
func (uc *UseCase) CreateGRN(ctx context.Context, companyID, userID string, in dto.CreateGRNRequest) (*dto.GRNResponse, error) {
	if in.StoreID == "" || len(in.Items) == 0 {
		return nil, domain.ErrInvalidInput
	}
	store, err := uc.storeRepo.GetByID(companyID, in.StoreID)
	if err != nil {
		return nil, err
	}
	if store == nil {
		return nil, domain.ErrNotFound
	}
	if in.POID != "" {
		po, err := uc.poRepo.GetByID(companyID, in.POID)
		if err != nil {
			return nil, err
		}
		if po == nil {
			return nil, domain.ErrNotFound
		}
		if po.Status != entity.POStatusSent {
			return nil, domain.ErrInvalidTransition
		}
	}

	now := time.Now()
	receivedDate, err := parseDate(in.ReceivedDate, now)
	if err != nil {
		return nil, err
	}

	grn := &entity.GoodsReceiptNote{
		ID:           uuid.New().String(),
		CompanyID:    companyID,
		POID:         in.POID,
		Number:       fmt.Sprintf("GRN-%d", now.UnixNano()),
		StoreID:      in.StoreID,
		ReceivedDate: receivedDate,
		Status:       entity.GRNStatusDraft,
		CreatedAt:    now,
		CreatedBy:    userID,
		UpdatedAt:    now,
		UpdatedBy:    userID,
	}
	for _, it := range in.Items {
		if it.ProductID == "" || it.BatchNumber == "" || !it.QtyReceived.IsPositive() {
			return nil, domain.ErrInvalidInput
		}
		if it.QtyRejected.IsNegative() || it.QtyRejected.GreaterThan(it.QtyReceived) {
			return nil, domain.ErrInvalidInput
		}
		if it.UnitCost.IsNegative() {
			return nil, domain.ErrInvalidInput
		}
		expiry, err := time.Parse(dateLayout, it.ExpiryDate)
		if err != nil {
			return nil, domain.ErrInvalidInput
		}
		product, err := uc.productRepo.GetByID(companyID, it.ProductID)
		if err != nil {
			return nil, err
		}
		if product == nil {
			return nil, domain.ErrNotFound
		}
		grn.Items = append(grn.Items, &entity.GRNItem{
			ID:          uuid.New().String(),
			GRNID:       grn.ID,
			ProductID:   it.ProductID,
			BatchNumber: it.BatchNumber,
			ExpiryDate:  expiry,
			QtyReceived: it.QtyReceived,
			QtyRejected: it.QtyRejected,
			UnitCost:    it.UnitCost,
		})
	}

	err = uc.txRunner.RunProcurement(ctx, func(
		_ repository.PurchaseOrderRepository,
		grnRepo repository.GRNRepository,
		_ repository.StockLotRepository,
		_ repository.StockLedgerRepository,
		auditRepo repository.AuditLogRepository,
	) error {
		if err := grnRepo.Create(grn); err != nil {
			return err
		}
		entry, err := audit.NewEntry(companyID, "GoodsReceiptNote", grn.ID, entity.AuditActionCreate, userID, nil, snapshotGRN(grn), now)
		if err != nil {
			return err
		}
		return auditRepo.Create(entry)
	})
	if err != nil {
		return nil, err
	}
	return toGRNResponse(grn), nil
}

// PostGRN contabiliza la nota: por cada línea ingresa la cantidad aceptada
// (recibida - rechazada) al lote correspondiente, fusionando por número de
// lote, y deja la entrada RECEIPT en el ledger. La nota queda POSTED, estado
// terminal: volver a contabilizar retorna ErrAlreadyPosted y no duplica stock.
// Lo rechazado se registra en la línea pero jamás entra al disponible.
func (uc *UseCase) PostGRN(ctx context.Context, companyID, userID, grnID string) (*dto.GRNResponse, error) {
	var result *entity.GoodsReceiptNote
	now := time.Now()
	err := uc.txRunner.RunProcurement(ctx, func(
		_ repository.PurchaseOrderRepository,
		grnRepo repository.GRNRepository,
		lotRepo repository.StockLotRepository,
		ledgerRepo repository.StockLedgerRepository,
		auditRepo repository.AuditLogRepository,
	) error {
		grn, err := grnRepo.GetForUpdate(companyID, grnID)
		if err != nil {
			return err
		}
		if grn == nil {
			return domain.ErrNotFound
		}
		if grn.Status == entity.GRNStatusPosted {
			return domain.ErrAlreadyPosted
		}
		before := snapshotGRN(grn)

		for _, item := range grn.Items {
			accepted := item.AcceptedQty()
			if !accepted.IsPositive() {
				// línea completamente rechazada: queda documentada, sin stock
				continue
			}
			if _, err := uc.engine.ReceiveInTx(
				lotRepo, ledgerRepo,
				companyID, item.ProductID, grn.StoreID, item.BatchNumber,
				item.ExpiryDate,
				accepted, item.UnitCost,
				entity.RefTypeGRNItem, item.ID, userID,
				now,
			); err != nil {
				return err
			}
		}

		grn.Status = entity.GRNStatusPosted
		grn.UpdatedAt = now
		grn.UpdatedBy = userID
		if err := grnRepo.MarkPosted(grn); err != nil {
			return err
		}
		entry, err := audit.NewEntry(companyID, "GoodsReceiptNote", grn.ID, entity.AuditActionPost, userID, before, snapshotGRN(grn), now)
		if err != nil {
			return err
		}
		if err := auditRepo.Create(entry); err != nil {
			return err
		}
		result = grn
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toGRNResponse(result), nil
}

// GetGRN obtiene una nota de recepción con sus líneas.
func (uc *UseCase) GetGRN(ctx context.Context, companyID, grnID string) (*dto.GRNResponse, error) {
	grn, err := uc.grnRepo.GetByID(companyID, grnID)
	if err != nil {
		return nil, err
	}
	if grn == nil {
		return nil, domain.ErrNotFound
	}
	return toGRNResponse(grn), nil
}

// ListGRNs lista notas de recepción de la empresa, opcionalmente por estado.
func (uc *UseCase) ListGRNs(ctx context.Context, companyID, status string, page dto.PageRequest) ([]*dto.GRNResponse, error) {
	page.DefaultPage()
	grns, err := uc.grnRepo.ListByCompany(companyID, status, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.GRNResponse, 0, len(grns))
	for _, grn := range grns {
		out = append(out, toGRNResponse(grn))
	}
	return out, nil
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(dateLayout)
}

func toPOResponse(po *entity.PurchaseOrder) *dto.POResponse {
	resp := &dto.POResponse{
		ID:           po.ID,
		CompanyID:    po.CompanyID,
		Number:       po.Number,
		VendorID:     po.VendorID,
		Status:       po.Status,
		OrderDate:    formatDate(po.OrderDate),
		ExpectedDate: formatDate(po.ExpectedDate),
		Version:      po.Version,
		Items:        make([]dto.POItemResponse, 0, len(po.Items)),
		CreatedAt:    po.CreatedAt,
		UpdatedAt:    po.UpdatedAt,
	}
	for _, item := range po.Items {
		resp.Items = append(resp.Items, dto.POItemResponse{
			ID:         item.ID,
			ProductID:  item.ProductID,
			QtyOrdered: item.QtyOrdered,
			UnitCost:   item.UnitCost,
			TaxRate:    item.TaxRate,
		})
	}
	return resp
}

func toGRNResponse(grn *entity.GoodsReceiptNote) *dto.GRNResponse {
	resp := &dto.GRNResponse{
		ID:           grn.ID,
		CompanyID:    grn.CompanyID,
		POID:         grn.POID,
		Number:       grn.Number,
		StoreID:      grn.StoreID,
		ReceivedDate: formatDate(grn.ReceivedDate),
		Status:       grn.Status,
		Items:        make([]dto.GRNItemResponse, 0, len(grn.Items)),
		CreatedAt:    grn.CreatedAt,
		UpdatedAt:    grn.UpdatedAt,
	}
	for _, item := range grn.Items {
		resp.Items = append(resp.Items, dto.GRNItemResponse{
			ID:          item.ID,
			ProductID:   item.ProductID,
			BatchNumber: item.BatchNumber,
			ExpiryDate:  formatDate(item.ExpiryDate),
			QtyReceived: item.QtyReceived,
			QtyRejected: item.QtyRejected,
			UnitCost:    item.UnitCost,
		})
	}
	return resp
}
