package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/jhoicas/Farmacia-api/internal/domain/entity"
	"github.com/jhoicas/Farmacia-api/internal/domain/repository"
)

var _ repository.StockLotRepository = (*StockLotRepo)(nil)

// StockLotRepo implementación de StockLotRepository sobre PostgreSQL (usable con pool o tx).
type StockLotRepo struct {
	q Querier
}

// NewStockLotRepository construye el adaptador de lotes. Pasar pool o tx (Querier).
func NewStockLotRepository(q Querier) *StockLotRepo {
	return &StockLotRepo{q: q}
}

const stockLotColumns = `id, company_id, product_id, store_id, batch_number, expiry_date,
		qty_received, qty_available, unit_cost, created_at, updated_at`

func scanStockLot(row pgx.Row) (*entity.StockLot, error) {
	var l entity.StockLot
	err := row.Scan(
		&l.ID, &l.CompanyID, &l.ProductID, &l.StoreID, &l.BatchNumber, &l.ExpiryDate,
		&l.QtyReceived, &l.QtyAvailable, &l.UnitCost, &l.CreatedAt, &l.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &l, nil
}

// Create inserta un lote nuevo.
func (r *StockLotRepo) Create(lot *entity.StockLot) error {
	query := `
		INSERT INTO stock_lots (id, company_id, product_id, store_id, batch_number, expiry_date,
			qty_received, qty_available, unit_cost, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.q.Exec(context.Background(), query,
		lot.ID, lot.CompanyID, lot.ProductID, lot.StoreID, lot.BatchNumber, lot.ExpiryDate,
		lot.QtyReceived, lot.QtyAvailable, lot.UnitCost, lot.CreatedAt, lot.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("create stock lot: %w", err)
	}
	return nil
}

// GetByID obtiene un lote de la empresa; nil si no existe.
func (r *StockLotRepo) GetByID(companyID, id string) (*entity.StockLot, error) {
	query := `SELECT ` + stockLotColumns + ` FROM stock_lots WHERE company_id = $1 AND id = $2`
	lot, err := scanStockLot(r.q.QueryRow(context.Background(), query, companyID, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get stock lot: %w", err)
	}
	return lot, nil
}

// GetForUpdate obtiene el lote y bloquea la fila (SELECT FOR UPDATE).
func (r *StockLotRepo) GetForUpdate(companyID, id string) (*entity.StockLot, error) {
	query := `SELECT ` + stockLotColumns + ` FROM stock_lots WHERE company_id = $1 AND id = $2 FOR UPDATE`
	lot, err := scanStockLot(r.q.QueryRow(context.Background(), query, companyID, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get stock lot for update: %w", err)
	}
	return lot, nil
}

// GetByBatchForUpdate busca el lote por número de batch con bloqueo de fila;
// nil si no existe. Es la consulta de fusión al contabilizar recepciones.
func (r *StockLotRepo) GetByBatchForUpdate(companyID, productID, storeID, batchNumber string) (*entity.StockLot, error) {
	query := `SELECT ` + stockLotColumns + `
		FROM stock_lots
		WHERE company_id = $1 AND product_id = $2 AND store_id = $3 AND batch_number = $4
		FOR UPDATE`
	lot, err := scanStockLot(r.q.QueryRow(context.Background(), query, companyID, productID, storeID, batchNumber))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get stock lot by batch: %w", err)
	}
	return lot, nil
}

// ListAvailableFEFOForUpdate lista lotes asignables ordenados por vencimiento
// (los sin vencimiento al final) y bloquea las filas. Los lotes vencidos a la
// fecha no califican.
func (r *StockLotRepo) ListAvailableFEFOForUpdate(companyID, productID, storeID string, onDate time.Time) ([]*entity.StockLot, error) {
	query := `SELECT ` + stockLotColumns + `
		FROM stock_lots
		WHERE company_id = $1 AND product_id = $2 AND store_id = $3
		  AND qty_available > 0
		  AND (expiry_date IS NULL OR expiry_date > $4)
		ORDER BY expiry_date ASC NULLS LAST, created_at ASC
		FOR UPDATE`
	rows, err := r.q.Query(context.Background(), query, companyID, productID, storeID, onDate)
	if err != nil {
		return nil, fmt.Errorf("list lots fefo: %w", err)
	}
	defer rows.Close()

	var lots []*entity.StockLot
	for rows.Next() {
		lot, err := scanStockLot(rows)
		if err != nil {
			return nil, fmt.Errorf("scan stock lot: %w", err)
		}
		lots = append(lots, lot)
	}
	return lots, rows.Err()
}

// UpdateQuantities persiste las cantidades proyectadas del lote.
func (r *StockLotRepo) UpdateQuantities(lot *entity.StockLot) error {
	query := `
		UPDATE stock_lots
		SET qty_received = $1, qty_available = $2, updated_at = $3
		WHERE company_id = $4 AND id = $5`
	tag, err := r.q.Exec(context.Background(), query,
		lot.QtyReceived, lot.QtyAvailable, lot.UpdatedAt, lot.CompanyID, lot.ID)
	if err != nil {
		return fmt.Errorf("update stock lot quantities: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("update stock lot quantities: lote %s no existe", lot.ID)
	}
	return nil
}

// SumAvailable devuelve el disponible total de un producto en un almacén.
func (r *StockLotRepo) SumAvailable(companyID, productID, storeID string) (decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(qty_available), 0)
		FROM stock_lots
		WHERE company_id = $1 AND product_id = $2 AND store_id = $3`
	var total decimal.Decimal
	err := r.q.QueryRow(context.Background(), query, companyID, productID, storeID).Scan(&total)
	if err != nil {
		return decimal.Zero, fmt.Errorf("sum available: %w", err)
	}
	return total, nil
}

// ListNearExpiry lista lotes con disponible que vencen antes de la fecha dada.
// storeID vacío consulta todos los almacenes de la empresa.
func (r *StockLotRepo) ListNearExpiry(companyID, storeID string, before time.Time, limit, offset int) ([]*entity.StockLot, error) {
	query := `SELECT ` + stockLotColumns + `
		FROM stock_lots
		WHERE company_id = $1
		  AND ($2 = '' OR store_id = $2)
		  AND qty_available > 0
		  AND expiry_date IS NOT NULL AND expiry_date < $3
		ORDER BY expiry_date ASC
		LIMIT $4 OFFSET $5`
	rows, err := r.q.Query(context.Background(), query, companyID, storeID, before, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list near expiry: %w", err)
	}
	defer rows.Close()

	var lots []*entity.StockLot
	for rows.Next() {
		lot, err := scanStockLot(rows)
		if err != nil {
			return nil, fmt.Errorf("scan stock lot: %w", err)
		}
		lots = append(lots, lot)
	}
	return lots, rows.Err()
}
