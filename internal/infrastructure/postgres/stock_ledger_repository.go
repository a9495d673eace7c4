package postgres

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/jhoicas/Farmacia-api/internal/domain/entity"
	"github.com/jhoicas/Farmacia-api/internal/domain/repository"
)

var _ repository.StockLedgerRepository = (*StockLedgerRepo)(nil)

// StockLedgerRepo implementación de StockLedgerRepository sobre PostgreSQL.
// El ledger es append-only: no hay UPDATE ni DELETE.
type StockLedgerRepo struct {
	q Querier
}

// NewStockLedgerRepository construye el adaptador del ledger. Pasar pool o tx (Querier).
func NewStockLedgerRepository(q Querier) *StockLedgerRepo {
	return &StockLedgerRepo{q: q}
}

// Create inserta una entrada del ledger.
func (r *StockLedgerRepo) Create(entry *entity.StockLedgerEntry) error {
	query := `
		INSERT INTO stock_ledger (id, company_id, lot_id, type, quantity, ref_type, ref_id, created_at, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(context.Background(), query,
		entry.ID, entry.CompanyID, entry.LotID, entry.Type, entry.Quantity,
		entry.RefType, entry.RefID, entry.CreatedAt, entry.CreatedBy,
	)
	if err != nil {
		return fmt.Errorf("create ledger entry: %w", err)
	}
	return nil
}

// ListByLot lista las entradas de un lote, más recientes primero.
func (r *StockLedgerRepo) ListByLot(companyID, lotID string, limit, offset int) ([]*entity.StockLedgerEntry, error) {
	query := `
		SELECT id, company_id, lot_id, type, quantity, ref_type, ref_id, created_at, created_by
		FROM stock_ledger
		WHERE company_id = $1 AND lot_id = $2
		ORDER BY created_at DESC, id DESC
		LIMIT $3 OFFSET $4`
	rows, err := r.q.Query(context.Background(), query, companyID, lotID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list ledger: %w", err)
	}
	defer rows.Close()

	var entries []*entity.StockLedgerEntry
	for rows.Next() {
		var e entity.StockLedgerEntry
		if err := rows.Scan(&e.ID, &e.CompanyID, &e.LotID, &e.Type, &e.Quantity,
			&e.RefType, &e.RefID, &e.CreatedAt, &e.CreatedBy); err != nil {
			return nil, fmt.Errorf("scan ledger entry: %w", err)
		}
		entries = append(entries, &e)
	}
	return entries, rows.Err()
}

// SumDeltasByLot suma los deltas firmados del lote.
func (r *StockLedgerRepo) SumDeltasByLot(companyID, lotID string) (decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(quantity), 0)
		FROM stock_ledger
		WHERE company_id = $1 AND lot_id = $2`
	var total decimal.Decimal
	err := r.q.QueryRow(context.Background(), query, companyID, lotID).Scan(&total)
	if err != nil {
		return decimal.Zero, fmt.Errorf("sum ledger deltas: %w", err)
	}
	return total, nil
}
