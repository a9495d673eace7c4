package procurement_test

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"github.com/jhoicas/Farmacia-api/internal/domain"
	"github.com/jhoicas/Farmacia-api/internal/domain/entity"
	"github.com/jhoicas/Farmacia-api/internal/domain/repository"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes en memoria con transacción copy-on-commit: el runner toma un snapshot
// del estado antes del callback y lo restaura si retorna error.
// ──────────────────────────────────────────────────────────────────────────────

type fakeState struct {
	pos      map[string]*entity.PurchaseOrder
	grns     map[string]*entity.GoodsReceiptNote
	lots     map[string]*entity.StockLot
	ledger   []*entity.StockLedgerEntry
	audits   []*entity.AuditLogEntry
	vendors  map[string]*entity.Vendor
	products map[string]*entity.Product
	stores   map[string]*entity.Store
}

func newFakeState() *fakeState {
	return &fakeState{
		pos:      make(map[string]*entity.PurchaseOrder),
		grns:     make(map[string]*entity.GoodsReceiptNote),
		lots:     make(map[string]*entity.StockLot),
		vendors:  make(map[string]*entity.Vendor),
		products: make(map[string]*entity.Product),
		stores:   make(map[string]*entity.Store),
	}
}

func clonePO(po *entity.PurchaseOrder) *entity.PurchaseOrder {
	c := *po
	c.Items = make([]*entity.POItem, 0, len(po.Items))
	for _, item := range po.Items {
		ic := *item
		c.Items = append(c.Items, &ic)
	}
	return &c
}

func cloneGRN(grn *entity.GoodsReceiptNote) *entity.GoodsReceiptNote {
	c := *grn
	c.Items = make([]*entity.GRNItem, 0, len(grn.Items))
	for _, item := range grn.Items {
		ic := *item
		c.Items = append(c.Items, &ic)
	}
	return &c
}

func cloneLot(l *entity.StockLot) *entity.StockLot {
	c := *l
	return &c
}

func (st *fakeState) snapshot() *fakeState {
	cp := newFakeState()
	for id, po := range st.pos {
		cp.pos[id] = clonePO(po)
	}
	for id, grn := range st.grns {
		cp.grns[id] = cloneGRN(grn)
	}
	for id, l := range st.lots {
		cp.lots[id] = cloneLot(l)
	}
	cp.ledger = append([]*entity.StockLedgerEntry(nil), st.ledger...)
	cp.audits = append([]*entity.AuditLogEntry(nil), st.audits...)
	for id, v := range st.vendors {
		cp.vendors[id] = v
	}
	for id, p := range st.products {
		cp.products[id] = p
	}
	for id, s := range st.stores {
		cp.stores[id] = s
	}
	return cp
}

func (st *fakeState) restore(snap *fakeState) {
	*st = *snap
}

// ── órdenes de compra ─────────────────────────────────────────────────────────

type fakePORepo struct{ st *fakeState }

func (r *fakePORepo) Create(po *entity.PurchaseOrder) error {
	r.st.pos[po.ID] = clonePO(po)
	return nil
}

func (r *fakePORepo) GetByID(companyID, id string) (*entity.PurchaseOrder, error) {
	po, ok := r.st.pos[id]
	if !ok || po.CompanyID != companyID {
		return nil, nil
	}
	return clonePO(po), nil
}

func (r *fakePORepo) UpdateVersioned(po *entity.PurchaseOrder, expectedVersion int) error {
	stored, ok := r.st.pos[po.ID]
	if !ok || stored.Version != expectedVersion {
		return domain.ErrVersionConflict
	}
	clone := clonePO(po)
	clone.Items = stored.Items // la cabecera versionada no toca líneas
	r.st.pos[po.ID] = clone
	return nil
}

func (r *fakePORepo) ReplaceItems(po *entity.PurchaseOrder) error {
	stored, ok := r.st.pos[po.ID]
	if !ok {
		return domain.ErrNotFound
	}
	stored.Items = clonePO(po).Items
	return nil
}

func (r *fakePORepo) ListByCompany(companyID, status string, limit, offset int) ([]*entity.PurchaseOrder, error) {
	var out []*entity.PurchaseOrder
	for _, po := range r.st.pos {
		if po.CompanyID != companyID {
			continue
		}
		if status != "" && po.Status != status {
			continue
		}
		out = append(out, clonePO(po))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Number < out[j].Number })
	return out, nil
}

// ── notas de recepción ────────────────────────────────────────────────────────

type fakeGRNRepo struct{ st *fakeState }

func (r *fakeGRNRepo) Create(grn *entity.GoodsReceiptNote) error {
	r.st.grns[grn.ID] = cloneGRN(grn)
	return nil
}

func (r *fakeGRNRepo) GetByID(companyID, id string) (*entity.GoodsReceiptNote, error) {
	grn, ok := r.st.grns[id]
	if !ok || grn.CompanyID != companyID {
		return nil, nil
	}
	return cloneGRN(grn), nil
}

func (r *fakeGRNRepo) GetForUpdate(companyID, id string) (*entity.GoodsReceiptNote, error) {
	return r.GetByID(companyID, id)
}

func (r *fakeGRNRepo) MarkPosted(grn *entity.GoodsReceiptNote) error {
	stored, ok := r.st.grns[grn.ID]
	if !ok {
		return domain.ErrNotFound
	}
	stored.Status = grn.Status
	stored.UpdatedAt = grn.UpdatedAt
	stored.UpdatedBy = grn.UpdatedBy
	return nil
}

func (r *fakeGRNRepo) ListByCompany(companyID, status string, limit, offset int) ([]*entity.GoodsReceiptNote, error) {
	var out []*entity.GoodsReceiptNote
	for _, grn := range r.st.grns {
		if grn.CompanyID != companyID {
			continue
		}
		if status != "" && grn.Status != status {
			continue
		}
		out = append(out, cloneGRN(grn))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Number < out[j].Number })
	return out, nil
}

// ── lotes y ledger ────────────────────────────────────────────────────────────

type fakeLotRepo struct{ st *fakeState }

func (r *fakeLotRepo) Create(lot *entity.StockLot) error {
	r.st.lots[lot.ID] = cloneLot(lot)
	return nil
}

func (r *fakeLotRepo) GetByID(companyID, id string) (*entity.StockLot, error) {
	lot, ok := r.st.lots[id]
	if !ok || lot.CompanyID != companyID {
		return nil, nil
	}
	return cloneLot(lot), nil
}

func (r *fakeLotRepo) GetForUpdate(companyID, id string) (*entity.StockLot, error) {
	return r.GetByID(companyID, id)
}

func (r *fakeLotRepo) GetByBatchForUpdate(companyID, productID, storeID, batchNumber string) (*entity.StockLot, error) {
	for _, lot := range r.st.lots {
		if lot.CompanyID == companyID && lot.ProductID == productID && lot.StoreID == storeID && lot.BatchNumber == batchNumber {
			return cloneLot(lot), nil
		}
	}
	return nil, nil
}

func (r *fakeLotRepo) ListAvailableFEFOForUpdate(companyID, productID, storeID string, onDate time.Time) ([]*entity.StockLot, error) {
	var out []*entity.StockLot
	for _, lot := range r.st.lots {
		if lot.CompanyID == companyID && lot.ProductID == productID && lot.StoreID == storeID &&
			lot.QtyAvailable.IsPositive() && !lot.Expired(onDate) {
			out = append(out, cloneLot(lot))
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].ExpiryDate.Before(out[j].ExpiryDate) })
	return out, nil
}

func (r *fakeLotRepo) UpdateQuantities(lot *entity.StockLot) error {
	stored, ok := r.st.lots[lot.ID]
	if !ok {
		return domain.ErrNotFound
	}
	stored.QtyReceived = lot.QtyReceived
	stored.QtyAvailable = lot.QtyAvailable
	stored.UpdatedAt = lot.UpdatedAt
	return nil
}

func (r *fakeLotRepo) SumAvailable(companyID, productID, storeID string) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, lot := range r.st.lots {
		if lot.CompanyID == companyID && lot.ProductID == productID && lot.StoreID == storeID {
			total = total.Add(lot.QtyAvailable)
		}
	}
	return total, nil
}

func (r *fakeLotRepo) ListNearExpiry(companyID, storeID string, before time.Time, limit, offset int) ([]*entity.StockLot, error) {
	return nil, nil
}

type fakeLedgerRepo struct{ st *fakeState }

func (r *fakeLedgerRepo) Create(entry *entity.StockLedgerEntry) error {
	r.st.ledger = append(r.st.ledger, entry)
	return nil
}

func (r *fakeLedgerRepo) ListByLot(companyID, lotID string, limit, offset int) ([]*entity.StockLedgerEntry, error) {
	var out []*entity.StockLedgerEntry
	for _, e := range r.st.ledger {
		if e.CompanyID == companyID && e.LotID == lotID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (r *fakeLedgerRepo) SumDeltasByLot(companyID, lotID string) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, e := range r.st.ledger {
		if e.CompanyID == companyID && e.LotID == lotID {
			total = total.Add(e.Quantity)
		}
	}
	return total, nil
}

// ── auditoría y maestros ──────────────────────────────────────────────────────

type fakeAuditRepo struct{ st *fakeState }

func (r *fakeAuditRepo) Create(entry *entity.AuditLogEntry) error {
	r.st.audits = append(r.st.audits, entry)
	return nil
}

func (r *fakeAuditRepo) ListByEntity(companyID, entityType, entityID string, limit, offset int) ([]*entity.AuditLogEntry, error) {
	var out []*entity.AuditLogEntry
	for _, e := range r.st.audits {
		if e.CompanyID == companyID && e.EntityType == entityType && e.EntityID == entityID {
			out = append(out, e)
		}
	}
	return out, nil
}

type fakeVendorRepo struct{ st *fakeState }

func (r *fakeVendorRepo) Create(v *entity.Vendor) error {
	r.st.vendors[v.ID] = v
	return nil
}

func (r *fakeVendorRepo) GetByID(companyID, id string) (*entity.Vendor, error) {
	v, ok := r.st.vendors[id]
	if !ok || v.CompanyID != companyID {
		return nil, nil
	}
	return v, nil
}

func (r *fakeVendorRepo) ListByCompany(companyID string, limit, offset int) ([]*entity.Vendor, error) {
	var out []*entity.Vendor
	for _, v := range r.st.vendors {
		if v.CompanyID == companyID {
			out = append(out, v)
		}
	}
	return out, nil
}

type fakeProductRepo struct{ st *fakeState }

func (r *fakeProductRepo) Create(p *entity.Product) error {
	r.st.products[p.ID] = p
	return nil
}

func (r *fakeProductRepo) GetByID(companyID, id string) (*entity.Product, error) {
	p, ok := r.st.products[id]
	if !ok || p.CompanyID != companyID {
		return nil, nil
	}
	return p, nil
}

func (r *fakeProductRepo) GetBySKU(companyID, sku string) (*entity.Product, error) {
	return nil, nil
}

func (r *fakeProductRepo) Update(p *entity.Product) error {
	r.st.products[p.ID] = p
	return nil
}

func (r *fakeProductRepo) ListByCompany(companyID string, limit, offset int) ([]*entity.Product, error) {
	return nil, nil
}

type fakeStoreRepo struct{ st *fakeState }

func (r *fakeStoreRepo) Create(s *entity.Store) error {
	r.st.stores[s.ID] = s
	return nil
}

func (r *fakeStoreRepo) GetByID(companyID, id string) (*entity.Store, error) {
	s, ok := r.st.stores[id]
	if !ok || s.CompanyID != companyID {
		return nil, nil
	}
	return s, nil
}

func (r *fakeStoreRepo) ListByCompany(companyID string, limit, offset int) ([]*entity.Store, error) {
	return nil, nil
}

// ── tx runner ─────────────────────────────────────────────────────────────────

type fakeTxRunner struct{ st *fakeState }

func (tx *fakeTxRunner) RunProcurement(ctx context.Context, fn func(
	poRepo repository.PurchaseOrderRepository,
	grnRepo repository.GRNRepository,
	lotRepo repository.StockLotRepository,
	ledgerRepo repository.StockLedgerRepository,
	auditRepo repository.AuditLogRepository,
) error) error {
	snap := tx.st.snapshot()
	err := fn(&fakePORepo{tx.st}, &fakeGRNRepo{tx.st}, &fakeLotRepo{tx.st}, &fakeLedgerRepo{tx.st}, &fakeAuditRepo{tx.st})
	if err != nil {
		tx.st.restore(snap)
	}
	return err
}
