package inventory_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Farmacia-api/internal/domain"
	"github.com/jhoicas/Farmacia-api/internal/domain/entity"
	"github.com/jhoicas/Farmacia-api/internal/domain/inventory"
)

// ──────────────────────────────────────────────────────────────────────────────
// Tests de la política FEFO: es el único ordenamiento autorizado para asignar
// stock, así que cualquier cambio accidental aquí rompe la dispensación entera.
// ──────────────────────────────────────────────────────────────────────────────

func lot(id string, expiry time.Time, available int64, createdAt time.Time) *entity.StockLot {
	return &entity.StockLot{
		ID:           id,
		ExpiryDate:   expiry,
		QtyReceived:  decimal.NewFromInt(available),
		QtyAvailable: decimal.NewFromInt(available),
		CreatedAt:    createdAt,
	}
}

func day(s string) time.Time {
	t, _ := time.Parse("2006-01-02", s)
	return t
}

func TestSortFEFO_VenceProntoPrimero(t *testing.T) {
	base := time.Now()
	lots := []*entity.StockLot{
		lot("L2", day("2025-06-01"), 10, base),
		lot("L1", day("2025-01-01"), 10, base),
		lot("L3", day("2026-01-01"), 10, base),
	}
	inventory.SortFEFO(lots)

	assert.Equal(t, "L1", lots[0].ID)
	assert.Equal(t, "L2", lots[1].ID)
	assert.Equal(t, "L3", lots[2].ID)
}

func TestSortFEFO_MismoVencimientoDesempataPorCreacion(t *testing.T) {
	exp := day("2025-06-01")
	older := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	newer := older.Add(48 * time.Hour)
	lots := []*entity.StockLot{
		lot("Lnuevo", exp, 5, newer),
		lot("Lviejo", exp, 5, older),
	}
	inventory.SortFEFO(lots)

	assert.Equal(t, "Lviejo", lots[0].ID, "a igual vencimiento sale primero el recibido primero")
}

func TestSortFEFO_SinVencimientoAlFinal(t *testing.T) {
	base := time.Now()
	lots := []*entity.StockLot{
		lot("Lsin", time.Time{}, 5, base),
		lot("Lcon", day("2030-01-01"), 5, base),
	}
	inventory.SortFEFO(lots)

	assert.Equal(t, "Lcon", lots[0].ID, "los lotes sin fecha de vencimiento van al final")
}

func TestFilterAllocatable_ExcluyeVencidosYEnCero(t *testing.T) {
	hoy := day("2025-03-01")
	lots := []*entity.StockLot{
		lot("Lok", day("2025-06-01"), 10, time.Now()),
		lot("Lvencido", day("2025-01-01"), 10, time.Now()),
		lot("Lcero", day("2025-06-01"), 0, time.Now()),
	}
	out := inventory.FilterAllocatable(lots, hoy)

	require.Len(t, out, 1)
	assert.Equal(t, "Lok", out[0].ID)
}

// Escenario de referencia: L1 (vence 2025-01-01, 10 disp.) y L2 (vence
// 2025-06-01, 10 disp.); se piden 15 → plan [{L1,10},{L2,5}].
func TestPlanAllocation_EscenarioDosLotes(t *testing.T) {
	lots := []*entity.StockLot{
		lot("L2", day("2025-06-01"), 10, time.Now()),
		lot("L1", day("2025-01-01"), 10, time.Now()),
	}
	plan, err := inventory.PlanAllocation(lots, decimal.NewFromInt(15))
	require.NoError(t, err)

	require.Len(t, plan, 2)
	assert.Equal(t, "L1", plan[0].LotID)
	assert.True(t, plan[0].Quantity.Equal(decimal.NewFromInt(10)))
	assert.Equal(t, "L2", plan[1].LotID)
	assert.True(t, plan[1].Quantity.Equal(decimal.NewFromInt(5)))
}

func TestPlanAllocation_AlcanzaConUnSoloLote(t *testing.T) {
	lots := []*entity.StockLot{
		lot("L1", day("2025-01-01"), 10, time.Now()),
		lot("L2", day("2025-06-01"), 10, time.Now()),
	}
	plan, err := inventory.PlanAllocation(lots, decimal.NewFromInt(4))
	require.NoError(t, err)

	require.Len(t, plan, 1, "si el primer lote alcanza no se toca el segundo")
	assert.Equal(t, "L1", plan[0].LotID)
	assert.True(t, plan[0].Quantity.Equal(decimal.NewFromInt(4)))
}

func TestPlanAllocation_StockInsuficienteSinPlanParcial(t *testing.T) {
	lots := []*entity.StockLot{
		lot("L1", day("2025-01-01"), 10, time.Now()),
	}
	plan, err := inventory.PlanAllocation(lots, decimal.NewFromInt(11))

	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Nil(t, plan, "no debe devolver plan parcial")
}

func TestPlanAllocation_CantidadNoPositivaEsInvalida(t *testing.T) {
	lots := []*entity.StockLot{lot("L1", day("2025-01-01"), 10, time.Now())}

	_, err := inventory.PlanAllocation(lots, decimal.Zero)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = inventory.PlanAllocation(lots, decimal.NewFromInt(-3))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestPlanAllocation_NoMutaElSliceDeEntrada(t *testing.T) {
	lots := []*entity.StockLot{
		lot("L2", day("2025-06-01"), 10, time.Now()),
		lot("L1", day("2025-01-01"), 10, time.Now()),
	}
	_, err := inventory.PlanAllocation(lots, decimal.NewFromInt(5))
	require.NoError(t, err)

	assert.Equal(t, "L2", lots[0].ID, "el orden del slice del caller no debe cambiar")
}
