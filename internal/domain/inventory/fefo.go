package inventory

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"github.com/jhoicas/Farmacia-api/internal/domain"
	"github.com/jhoicas/Farmacia-api/internal/domain/entity"
)

// Este paquete centraliza la política FEFO (first-expired-first-out): el lote
// que vence primero se dispensa primero, para minimizar pérdidas por
// vencimiento. Es EL único ordenamiento autorizado para asignar stock; ningún
// caso de uso debe reimplementarlo.

// LotTake indica cuánto tomar de un lote dentro de un plan de asignación.
type LotTake struct {
	LotID    string
	Quantity decimal.Decimal
}

// Less compara dos lotes según FEFO: vencimiento ascendente; a igual
// vencimiento, orden de creación (el recibido primero sale primero).
// Lotes sin fecha de vencimiento van al final.
func Less(a, b *entity.StockLot) bool {
	if a.ExpiryDate.IsZero() && b.ExpiryDate.IsZero() {
		return a.CreatedAt.Before(b.CreatedAt)
	}
	if a.ExpiryDate.IsZero() {
		return false
	}
	if b.ExpiryDate.IsZero() {
		return true
	}
	if a.ExpiryDate.Equal(b.ExpiryDate) {
		return a.CreatedAt.Before(b.CreatedAt)
	}
	return a.ExpiryDate.Before(b.ExpiryDate)
}

// SortFEFO ordena los lotes in-place según la política FEFO.
func SortFEFO(lots []*entity.StockLot) {
	sort.SliceStable(lots, func(i, j int) bool { return Less(lots[i], lots[j]) })
}

// FilterAllocatable descarta lotes sin disponible y lotes vencidos a la fecha.
func FilterAllocatable(lots []*entity.StockLot, onDate time.Time) []*entity.StockLot {
	out := make([]*entity.StockLot, 0, len(lots))
	for _, l := range lots {
		if l.QtyAvailable.IsPositive() && !l.Expired(onDate) {
			out = append(out, l)
		}
	}
	return out
}

// PlanAllocation recorre los lotes en orden FEFO y arma el plan de descuento:
// de cada lote toma min(restante, disponible) hasta cubrir quantity.
// Si los lotes se agotan antes de cubrirla retorna ErrInsufficientStock y
// ningún plan parcial: el caller no debe haber tocado stock todavía.
func PlanAllocation(lots []*entity.StockLot, quantity decimal.Decimal) ([]LotTake, error) {
	if !quantity.IsPositive() {
		return nil, domain.ErrInvalidInput
	}
	ordered := make([]*entity.StockLot, len(lots))
	copy(ordered, lots)
	SortFEFO(ordered)

	remaining := quantity
	plan := make([]LotTake, 0, len(ordered))
	for _, lot := range ordered {
		if !remaining.IsPositive() {
			break
		}
		if !lot.QtyAvailable.IsPositive() {
			continue
		}
		take := decimal.Min(remaining, lot.QtyAvailable)
		plan = append(plan, LotTake{LotID: lot.ID, Quantity: take})
		remaining = remaining.Sub(take)
	}
	if remaining.IsPositive() {
		return nil, domain.ErrInsufficientStock
	}
	return plan, nil
}
