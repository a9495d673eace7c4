package sales_test

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/jhoicas/Farmacia-api/internal/domain"
	"github.com/jhoicas/Farmacia-api/internal/domain/entity"
	"github.com/jhoicas/Farmacia-api/internal/domain/repository"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes en memoria. El fakeTxRunner copia el estado completo antes de ejecutar
// el callback y lo restaura si retorna error: así un test puede verificar que
// una falla a mitad de la transacción no deja efectos parciales.
// ──────────────────────────────────────────────────────────────────────────────

type fakeState struct {
	lots     map[string]*entity.StockLot
	ledger   []*entity.StockLedgerEntry
	sales    map[string]*entity.Sale
	audits   []*entity.AuditLogEntry
	products map[string]*entity.Product
	stores   map[string]*entity.Store
}

func newFakeState() *fakeState {
	return &fakeState{
		lots:     make(map[string]*entity.StockLot),
		sales:    make(map[string]*entity.Sale),
		products: make(map[string]*entity.Product),
		stores:   make(map[string]*entity.Store),
	}
}

func cloneLot(l *entity.StockLot) *entity.StockLot {
	c := *l
	return &c
}

func cloneSale(s *entity.Sale) *entity.Sale {
	c := *s
	c.Items = make([]*entity.SaleItem, 0, len(s.Items))
	for _, item := range s.Items {
		ic := *item
		ic.Allocations = append([]entity.LotAllocation(nil), item.Allocations...)
		c.Items = append(c.Items, &ic)
	}
	return &c
}

func (st *fakeState) snapshot() *fakeState {
	cp := newFakeState()
	for id, l := range st.lots {
		cp.lots[id] = cloneLot(l)
	}
	cp.ledger = append([]*entity.StockLedgerEntry(nil), st.ledger...)
	for id, s := range st.sales {
		cp.sales[id] = cloneSale(s)
	}
	cp.audits = append([]*entity.AuditLogEntry(nil), st.audits...)
	for id, p := range st.products {
		cp.products[id] = p
	}
	for id, s := range st.stores {
		cp.stores[id] = s
	}
	return cp
}

func (st *fakeState) restore(snap *fakeState) {
	st.lots = snap.lots
	st.ledger = snap.ledger
	st.sales = snap.sales
	st.audits = snap.audits
	st.products = snap.products
	st.stores = snap.stores
}

// ── lotes ─────────────────────────────────────────────────────────────────────

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
		if lot.CompanyID != companyID || lot.ProductID != productID || lot.StoreID != storeID {
			continue
		}
		if !lot.QtyAvailable.IsPositive() || lot.Expired(onDate) {
			continue
		}
		out = append(out, cloneLot(lot))
	}
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.ExpiryDate.IsZero() != b.ExpiryDate.IsZero() {
			return !a.ExpiryDate.IsZero()
		}
		if !a.ExpiryDate.Equal(b.ExpiryDate) {
			return a.ExpiryDate.Before(b.ExpiryDate)
		}
		return a.CreatedAt.Before(b.CreatedAt)
	})
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
	var out []*entity.StockLot
	for _, lot := range r.st.lots {
		if lot.CompanyID != companyID {
			continue
		}
		if storeID != "" && lot.StoreID != storeID {
			continue
		}
		if !lot.QtyAvailable.IsPositive() || lot.ExpiryDate.IsZero() || !lot.ExpiryDate.Before(before) {
			continue
		}
		out = append(out, cloneLot(lot))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ExpiryDate.Before(out[j].ExpiryDate) })
	return out, nil
}

// ── ledger ────────────────────────────────────────────────────────────────────

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

// ── ventas ────────────────────────────────────────────────────────────────────

type fakeSaleRepo struct{ st *fakeState }

func (r *fakeSaleRepo) Create(sale *entity.Sale) error {
	for _, existing := range r.st.sales {
		if existing.CompanyID == sale.CompanyID && existing.Number == sale.Number {
			return domain.ErrDuplicate
		}
	}
	r.st.sales[sale.ID] = cloneSale(sale)
	return nil
}

func (r *fakeSaleRepo) GetByID(companyID, id string) (*entity.Sale, error) {
	sale, ok := r.st.sales[id]
	if !ok || sale.CompanyID != companyID {
		return nil, nil
	}
	return cloneSale(sale), nil
}

func (r *fakeSaleRepo) UpdateVersioned(sale *entity.Sale, expectedVersion int) error {
	stored, ok := r.st.sales[sale.ID]
	if !ok || stored.Version != expectedVersion {
		return domain.ErrVersionConflict
	}
	r.st.sales[sale.ID] = cloneSale(sale)
	return nil
}

func (r *fakeSaleRepo) SaveItemAllocations(item *entity.SaleItem) error {
	sale, ok := r.st.sales[item.SaleID]
	if !ok {
		return domain.ErrNotFound
	}
	for _, stored := range sale.Items {
		if stored.ID == item.ID {
			stored.Allocations = append([]entity.LotAllocation(nil), item.Allocations...)
			return nil
		}
	}
	return domain.ErrNotFound
}

func (r *fakeSaleRepo) ListByCompany(companyID, status string, limit, offset int) ([]*entity.Sale, error) {
	var out []*entity.Sale
	for _, sale := range r.st.sales {
		if sale.CompanyID != companyID {
			continue
		}
		if status != "" && !strings.EqualFold(sale.Status, status) {
			continue
		}
		out = append(out, cloneSale(sale))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Number < out[j].Number })
	return out, nil
}

// ── auditoría ─────────────────────────────────────────────────────────────────

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

// ── catálogo y almacenes ──────────────────────────────────────────────────────

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
	for _, p := range r.st.products {
		if p.CompanyID == companyID && p.SKU == sku {
			return p, nil
		}
	}
	return nil, nil
}

func (r *fakeProductRepo) Update(p *entity.Product) error {
	r.st.products[p.ID] = p
	return nil
}

func (r *fakeProductRepo) ListByCompany(companyID string, limit, offset int) ([]*entity.Product, error) {
	var out []*entity.Product
	for _, p := range r.st.products {
		if p.CompanyID == companyID {
			out = append(out, p)
		}
	}
	return out, nil
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
	var out []*entity.Store
	for _, s := range r.st.stores {
		if s.CompanyID == companyID {
			out = append(out, s)
		}
	}
	return out, nil
}

// ── tx runner ─────────────────────────────────────────────────────────────────

type fakeTxRunner struct{ st *fakeState }

func (tx *fakeTxRunner) RunSale(ctx context.Context, fn func(
	saleRepo repository.SaleRepository,
	lotRepo repository.StockLotRepository,
	ledgerRepo repository.StockLedgerRepository,
	auditRepo repository.AuditLogRepository,
) error) error {
	snap := tx.st.snapshot()
	err := fn(&fakeSaleRepo{tx.st}, &fakeLotRepo{tx.st}, &fakeLedgerRepo{tx.st}, &fakeAuditRepo{tx.st})
	if err != nil {
		tx.st.restore(snap)
	}
	return err
}
