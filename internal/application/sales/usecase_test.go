package sales_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Farmacia-api/internal/application/dto"
	"github.com/jhoicas/Farmacia-api/internal/application/inventory"
	"github.com/jhoicas/Farmacia-api/internal/application/sales"
	"github.com/jhoicas/Farmacia-api/internal/domain"
	"github.com/jhoicas/Farmacia-api/internal/domain/entity"
)

// ──────────────────────────────────────────────────────────────────────────────
// Tests del ciclo de vida de la venta con el motor de asignación real y repos
// en memoria: borrador, aprobación FEFO, cancelación con reverso lote-exacto,
// devolución parcial y bloqueo optimista.
// ──────────────────────────────────────────────────────────────────────────────

const (
	companyID = "C1"
	userID    = "U1"
	storeID   = "S1"
	productID = "P1"
)

// venceEn devuelve un vencimiento a n meses de hoy; los fixtures son
// relativos al calendario para que la suite no caduque con el tiempo.
func venceEn(meses int) time.Time {
	return time.Now().AddDate(0, meses, 0)
}

type fixture struct {
	st *fakeState
	uc *sales.UseCase
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	st := newFakeState()
	st.stores[storeID] = &entity.Store{ID: storeID, CompanyID: companyID, Code: "BOD-01", Name: "Bodega central", Type: entity.StoreTypeCentral}
	st.products[productID] = &entity.Product{ID: productID, CompanyID: companyID, SKU: "AMOX-500", Name: "Amoxicilina 500mg", Price: decimal.NewFromInt(10)}
	uc := sales.NewUseCase(
		&fakeTxRunner{st},
		inventory.NewEngine(),
		&fakeSaleRepo{st},
		&fakeProductRepo{st},
		&fakeStoreRepo{st},
	)
	return &fixture{st: st, uc: uc}
}

// seedLot agrega un lote con disponible = recibido.
func (f *fixture) seedLot(id string, expiry time.Time, qty int64, createdAt time.Time) {
	f.st.lots[id] = &entity.StockLot{
		ID:           id,
		CompanyID:    companyID,
		ProductID:    productID,
		StoreID:      storeID,
		BatchNumber:  "B-" + id,
		ExpiryDate:   expiry,
		QtyReceived:  decimal.NewFromInt(qty),
		QtyAvailable: decimal.NewFromInt(qty),
		CreatedAt:    createdAt,
	}
}

func (f *fixture) createSale(t *testing.T, qty int64) *dto.SaleResponse {
	t.Helper()
	resp, err := f.uc.Create(context.Background(), companyID, userID, dto.CreateSaleRequest{
		PatientID: "PAC-1",
		StoreID:   storeID,
		Items: []dto.SaleItemRequest{
			{ProductID: productID, Quantity: decimal.NewFromInt(qty)},
		},
	})
	require.NoError(t, err)
	return resp
}

// createCompleted lleva una venta hasta COMPLETED pasando por submit y approve.
func (f *fixture) createCompleted(t *testing.T, qty int64) *dto.SaleResponse {
	t.Helper()
	created := f.createSale(t, qty)
	submitted, err := f.uc.SubmitForApproval(context.Background(), companyID, userID, created.ID, created.Version)
	require.NoError(t, err)
	approved, err := f.uc.Approve(context.Background(), companyID, userID, created.ID, submitted.Version)
	require.NoError(t, err)
	return approved
}

func TestCreate_BorradorSinEfectoEnStock(t *testing.T) {
	f := newFixture(t)
	f.seedLot("L1", venceEn(18), 10, time.Now())

	resp := f.createSale(t, 3)

	assert.Equal(t, entity.SaleStatusDraft, resp.Status)
	assert.Equal(t, 1, resp.Version)
	// Precio del catálogo cuando el request no manda precio
	assert.True(t, resp.Items[0].UnitPrice.Equal(decimal.NewFromInt(10)))
	assert.True(t, resp.TotalAmount.Equal(decimal.NewFromInt(30)))

	assert.Empty(t, f.st.ledger, "crear en borrador no escribe el ledger")
	assert.True(t, f.st.lots["L1"].QtyAvailable.Equal(decimal.NewFromInt(10)))

	audits, _ := (&fakeAuditRepo{f.st}).ListByEntity(companyID, "Sale", resp.ID, 10, 0)
	require.Len(t, audits, 1)
	assert.Equal(t, entity.AuditActionCreate, audits[0].Action)
}

func TestCreate_ProductoInexistente(t *testing.T) {
	f := newFixture(t)
	_, err := f.uc.Create(context.Background(), companyID, userID, dto.CreateSaleRequest{
		PatientID: "PAC-1",
		StoreID:   storeID,
		Items:     []dto.SaleItemRequest{{ProductID: "no-existe", Quantity: decimal.NewFromInt(1)}},
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSubmit_TransicionYVersion(t *testing.T) {
	f := newFixture(t)
	created := f.createSale(t, 1)

	resp, err := f.uc.SubmitForApproval(context.Background(), companyID, userID, created.ID, 1)
	require.NoError(t, err)

	assert.Equal(t, entity.SaleStatusPendingApproval, resp.Status)
	assert.Equal(t, 2, resp.Version)
}

func TestSubmit_VersionEquivocadaConflicto(t *testing.T) {
	f := newFixture(t)
	created := f.createSale(t, 1)

	_, err := f.uc.SubmitForApproval(context.Background(), companyID, userID, created.ID, 99)
	assert.ErrorIs(t, err, domain.ErrVersionConflict)
	assert.Equal(t, 1, f.st.sales[created.ID].Version, "un conflicto no muta la venta")
}

func TestApprove_AsignaFEFOEntreDosLotes(t *testing.T) {
	f := newFixture(t)
	base := time.Now()
	f.seedLot("L1", venceEn(6), 10, base)
	f.seedLot("L2", venceEn(12), 20, base)

	approved := f.createCompleted(t, 15)

	assert.Equal(t, entity.SaleStatusCompleted, approved.Status)
	require.Len(t, approved.Items[0].Allocations, 2)
	assert.Equal(t, "L1", approved.Items[0].Allocations[0].LotID)
	assert.True(t, approved.Items[0].Allocations[0].Quantity.Equal(decimal.NewFromInt(10)), "el lote que vence primero se agota")
	assert.Equal(t, "L2", approved.Items[0].Allocations[1].LotID)
	assert.True(t, approved.Items[0].Allocations[1].Quantity.Equal(decimal.NewFromInt(5)))

	assert.True(t, f.st.lots["L1"].QtyAvailable.IsZero())
	assert.True(t, f.st.lots["L2"].QtyAvailable.Equal(decimal.NewFromInt(15)))

	// Una entrada ALLOCATE negativa por lote, referida al ítem
	require.Len(t, f.st.ledger, 2)
	for _, e := range f.st.ledger {
		assert.Equal(t, entity.MovementTypeALLOCATE, e.Type)
		assert.Equal(t, entity.RefTypeSaleItem, e.RefType)
		assert.Equal(t, approved.Items[0].ID, e.RefID)
		assert.True(t, e.Quantity.IsNegative())
	}

	// disponible proyectado == suma de deltas del ledger
	for _, lotID := range []string{"L1", "L2"} {
		sum, _ := (&fakeLedgerRepo{f.st}).SumDeltasByLot(companyID, lotID)
		received := f.st.lots[lotID].QtyReceived
		assert.True(t, f.st.lots[lotID].QtyAvailable.Equal(received.Add(sum)))
	}
}

func TestApprove_StockInsuficienteRevierteTodo(t *testing.T) {
	f := newFixture(t)
	f.seedLot("L1", venceEn(6), 10, time.Now())

	created := f.createSale(t, 1)
	// segundo ítem sin stock suficiente
	sale := f.st.sales[created.ID]
	sale.Items = append(sale.Items, &entity.SaleItem{
		ID: "item-2", SaleID: sale.ID, ProductID: productID,
		Quantity: decimal.NewFromInt(50), UnitPrice: decimal.NewFromInt(10),
	})

	submitted, err := f.uc.SubmitForApproval(context.Background(), companyID, userID, created.ID, 1)
	require.NoError(t, err)

	_, err = f.uc.Approve(context.Background(), companyID, userID, created.ID, submitted.Version)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	// Nada se aplicó: ni el primer ítem que sí alcanzaba
	assert.Empty(t, f.st.ledger)
	assert.True(t, f.st.lots["L1"].QtyAvailable.Equal(decimal.NewFromInt(10)))
	assert.Equal(t, entity.SaleStatusPendingApproval, f.st.sales[created.ID].Status)
	assert.Equal(t, 2, f.st.sales[created.ID].Version)
}

func TestApprove_DesdeBorradorEsTransicionInvalida(t *testing.T) {
	f := newFixture(t)
	f.seedLot("L1", venceEn(6), 10, time.Now())
	created := f.createSale(t, 1)

	_, err := f.uc.Approve(context.Background(), companyID, userID, created.ID, 1)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}

func TestCancel_EnBorradorNoTocaElLedger(t *testing.T) {
	f := newFixture(t)
	created := f.createSale(t, 1)

	resp, err := f.uc.Cancel(context.Background(), companyID, userID, created.ID, 1)
	require.NoError(t, err)

	assert.Equal(t, entity.SaleStatusCancelled, resp.Status)
	assert.Equal(t, 2, resp.Version)
	assert.Empty(t, f.st.ledger)
}

func TestCancel_CompletadaReponeLoteExacto(t *testing.T) {
	f := newFixture(t)
	base := time.Now()
	f.seedLot("L1", venceEn(6), 10, base)
	f.seedLot("L2", venceEn(12), 20, base)

	approved := f.createCompleted(t, 15)

	resp, err := f.uc.Cancel(context.Background(), companyID, userID, approved.ID, approved.Version)
	require.NoError(t, err)
	assert.Equal(t, entity.SaleStatusCancelled, resp.Status)

	// Disponibles restaurados en los mismos lotes
	assert.True(t, f.st.lots["L1"].QtyAvailable.Equal(decimal.NewFromInt(10)))
	assert.True(t, f.st.lots["L2"].QtyAvailable.Equal(decimal.NewFromInt(20)))

	var releases []*entity.StockLedgerEntry
	for _, e := range f.st.ledger {
		if e.Type == entity.MovementTypeRELEASE {
			releases = append(releases, e)
		}
	}
	require.Len(t, releases, 2, "una entrada RELEASE por lote original")
	assert.Equal(t, "L1", releases[0].LotID)
	assert.True(t, releases[0].Quantity.Equal(decimal.NewFromInt(10)))
	assert.Equal(t, "L2", releases[1].LotID)
	assert.True(t, releases[1].Quantity.Equal(decimal.NewFromInt(5)))
}

func TestReturn_ParcialContraLotesOriginales(t *testing.T) {
	f := newFixture(t)
	base := time.Now()
	f.seedLot("L1", venceEn(6), 10, base)
	f.seedLot("L2", venceEn(12), 20, base)

	approved := f.createCompleted(t, 15)

	resp, err := f.uc.Return(context.Background(), companyID, userID, approved.ID, dto.ReturnSaleRequest{
		ExpectedVersion: approved.Version,
		Items: []dto.ReturnSaleItemRequest{
			{SaleItemID: approved.Items[0].ID, Quantity: decimal.NewFromInt(8)},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, entity.SaleStatusReturned, resp.Status)

	// La devolución camina los lotes originales en orden: 8 caben en L1
	assert.True(t, f.st.lots["L1"].QtyAvailable.Equal(decimal.NewFromInt(8)))
	assert.True(t, f.st.lots["L2"].QtyAvailable.Equal(decimal.NewFromInt(15)))

	var returns []*entity.StockLedgerEntry
	for _, e := range f.st.ledger {
		if e.Type == entity.MovementTypeRETURN {
			returns = append(returns, e)
		}
	}
	require.Len(t, returns, 1)
	assert.Equal(t, "L1", returns[0].LotID)
	assert.True(t, returns[0].Quantity.Equal(decimal.NewFromInt(8)))
}

func TestReturn_MasDeLoDispensadoEsInvalido(t *testing.T) {
	f := newFixture(t)
	f.seedLot("L1", venceEn(6), 10, time.Now())

	approved := f.createCompleted(t, 5)

	_, err := f.uc.Return(context.Background(), companyID, userID, approved.ID, dto.ReturnSaleRequest{
		ExpectedVersion: approved.Version,
		Items: []dto.ReturnSaleItemRequest{
			{SaleItemID: approved.Items[0].ID, Quantity: decimal.NewFromInt(6)},
		},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.True(t, f.st.lots["L1"].QtyAvailable.Equal(decimal.NewFromInt(5)), "la devolución inválida no deja efectos parciales")
}

func TestReturn_LineaRepetidaEsInvalida(t *testing.T) {
	f := newFixture(t)
	f.seedLot("L1", venceEn(6), 10, time.Now())

	// Dos ventas agotan el lote: si una línea repetida pasara, la venta A
	// repondría stock que dispensó la venta B.
	ventaA := f.createCompleted(t, 5)
	f.createCompleted(t, 5)
	require.True(t, f.st.lots["L1"].QtyAvailable.IsZero())

	_, err := f.uc.Return(context.Background(), companyID, userID, ventaA.ID, dto.ReturnSaleRequest{
		ExpectedVersion: ventaA.Version,
		Items: []dto.ReturnSaleItemRequest{
			{SaleItemID: ventaA.Items[0].ID, Quantity: decimal.NewFromInt(5)},
			{SaleItemID: ventaA.Items[0].ID, Quantity: decimal.NewFromInt(5)},
		},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.True(t, f.st.lots["L1"].QtyAvailable.IsZero(), "una venta no devuelve más de lo que dispensó")
	assert.Equal(t, entity.SaleStatusCompleted, f.st.sales[ventaA.ID].Status)
}

func TestGetByID_OtraEmpresaEsNotFound(t *testing.T) {
	f := newFixture(t)
	created := f.createSale(t, 1)

	_, err := f.uc.GetByID(context.Background(), "C2", created.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestAuditoria_CadaMutacionDejaUnaEntrada(t *testing.T) {
	f := newFixture(t)
	f.seedLot("L1", venceEn(6), 10, time.Now())

	approved := f.createCompleted(t, 5)
	_, err := f.uc.Cancel(context.Background(), companyID, userID, approved.ID, approved.Version)
	require.NoError(t, err)

	audits, _ := (&fakeAuditRepo{f.st}).ListByEntity(companyID, "Sale", approved.ID, 10, 0)
	require.Len(t, audits, 4)
	actions := []string{audits[0].Action, audits[1].Action, audits[2].Action, audits[3].Action}
	assert.Equal(t, []string{
		entity.AuditActionCreate,
		entity.AuditActionSubmit,
		entity.AuditActionApprove,
		entity.AuditActionCancel,
	}, actions)
}
