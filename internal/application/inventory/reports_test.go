package inventory_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Farmacia-api/internal/application/dto"
	"github.com/jhoicas/Farmacia-api/internal/application/inventory"
	"github.com/jhoicas/Farmacia-api/internal/domain"
	"github.com/jhoicas/Farmacia-api/internal/domain/entity"
)

// ──────────────────────────────────────────────────────────────────────────────
// Tests de las proyecciones de lectura: el saldo plegado del ledger debe
// coincidir con el disponible del lote tras cualquier secuencia de movimientos.
// ──────────────────────────────────────────────────────────────────────────────

func TestGetLotLedger_SaldoCoincideConDisponible(t *testing.T) {
	lots := &memLotRepo{lots: map[string]*entity.StockLot{}}
	ledger := &memLedgerRepo{}
	engine := inventory.NewEngine()
	now := time.Now()

	lot, err := engine.ReceiveInTx(lots, ledger, companyID, productID, storeID, "B1",
		venceEn(6), decimal.NewFromInt(8), decimal.NewFromInt(4),
		entity.RefTypeGRNItem, "grn-item-1", userID, now)
	require.NoError(t, err)

	_, err = engine.AllocateInTx(lots, ledger, companyID, productID, storeID,
		decimal.NewFromInt(5), entity.RefTypeSaleItem, "item-1", userID, now)
	require.NoError(t, err)

	reports := inventory.NewReportUseCase(lots, ledger)
	out, err := reports.GetLotLedger(context.Background(), companyID, lot.ID, dto.PageRequest{})
	require.NoError(t, err)

	assert.Equal(t, lot.ID, out.LotID)
	assert.True(t, out.Balance.Equal(decimal.NewFromInt(3)), "RECEIPT +8 y ALLOCATE -5 pliegan a 3")
	assert.True(t, out.Balance.Equal(lots.lots[lot.ID].QtyAvailable), "el saldo del ledger es el disponible del lote")

	require.Len(t, out.Entries, 2)
	assert.Equal(t, entity.MovementTypeRECEIPT, out.Entries[0].Type)
	assert.Equal(t, entity.MovementTypeALLOCATE, out.Entries[1].Type)
}

func TestGetLotLedger_LoteInexistenteEsNotFound(t *testing.T) {
	lots, ledger := seed()
	reports := inventory.NewReportUseCase(lots, ledger)

	_, err := reports.GetLotLedger(context.Background(), companyID, "no-existe", dto.PageRequest{})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	// Un lote de otra empresa tampoco existe para este tenant.
	_, err = reports.GetLotLedger(context.Background(), "C2", "L1", dto.PageRequest{})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
