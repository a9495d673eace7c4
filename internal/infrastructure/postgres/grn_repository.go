package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/Farmacia-api/internal/domain"
	"github.com/jhoicas/Farmacia-api/internal/domain/entity"
	"github.com/jhoicas/Farmacia-api/internal/domain/repository"
)

var _ repository.GRNRepository = (*GRNRepo)(nil)

// GRNRepo implementación de GRNRepository sobre PostgreSQL.
type GRNRepo struct {
	q Querier
}

// NewGRNRepository construye el adaptador de notas de recepción.
func NewGRNRepository(q Querier) *GRNRepo {
	return &GRNRepo{q: q}
}

// Create persiste cabecera y líneas de la nota.
func (r *GRNRepo) Create(grn *entity.GoodsReceiptNote) error {
	ctx := context.Background()
	query := `
		INSERT INTO goods_receipt_notes (id, company_id, po_id, number, store_id,
			received_date, status, created_at, created_by, updated_at, updated_by)
		VALUES ($1, $2, NULLIF($3, ''), $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.q.Exec(ctx, query,
		grn.ID, grn.CompanyID, grn.POID, grn.Number, grn.StoreID,
		grn.ReceivedDate, grn.Status, grn.CreatedAt, grn.CreatedBy, grn.UpdatedAt, grn.UpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("create grn: %w", err)
	}
	for _, item := range grn.Items {
		itemQuery := `
			INSERT INTO grn_items (id, grn_id, product_id, batch_number, expiry_date,
				qty_received, qty_rejected, unit_cost)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
		if _, err := r.q.Exec(ctx, itemQuery,
			item.ID, item.GRNID, item.ProductID, item.BatchNumber, item.ExpiryDate,
			item.QtyReceived, item.QtyRejected, item.UnitCost); err != nil {
			return fmt.Errorf("create grn item: %w", err)
		}
	}
	return nil
}

// GetByID carga la nota con líneas; nil si no existe o es de otra empresa.
func (r *GRNRepo) GetByID(companyID, id string) (*entity.GoodsReceiptNote, error) {
	return r.get(companyID, id, false)
}

// GetForUpdate carga la nota con bloqueo de fila: dos contabilizaciones
// concurrentes se serializan aquí y la segunda ve POSTED.
func (r *GRNRepo) GetForUpdate(companyID, id string) (*entity.GoodsReceiptNote, error) {
	return r.get(companyID, id, true)
}

func (r *GRNRepo) get(companyID, id string, forUpdate bool) (*entity.GoodsReceiptNote, error) {
	ctx := context.Background()
	query := `
		SELECT id, company_id, COALESCE(po_id, ''), number, store_id,
			received_date, status, created_at, created_by, updated_at, updated_by
		FROM goods_receipt_notes WHERE company_id = $1 AND id = $2`
	if forUpdate {
		query += ` FOR UPDATE`
	}
	var g entity.GoodsReceiptNote
	err := r.q.QueryRow(ctx, query, companyID, id).Scan(
		&g.ID, &g.CompanyID, &g.POID, &g.Number, &g.StoreID,
		&g.ReceivedDate, &g.Status, &g.CreatedAt, &g.CreatedBy, &g.UpdatedAt, &g.UpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get grn: %w", err)
	}
	if err := r.loadItems(ctx, &g); err != nil {
		return nil, err
	}
	return &g, nil
}

func (r *GRNRepo) loadItems(ctx context.Context, grn *entity.GoodsReceiptNote) error {
	query := `
		SELECT id, grn_id, product_id, batch_number, expiry_date, qty_received, qty_rejected, unit_cost
		FROM grn_items WHERE grn_id = $1
		ORDER BY id`
	rows, err := r.q.Query(ctx, query, grn.ID)
	if err != nil {
		return fmt.Errorf("list grn items: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var item entity.GRNItem
		if err := rows.Scan(&item.ID, &item.GRNID, &item.ProductID, &item.BatchNumber,
			&item.ExpiryDate, &item.QtyReceived, &item.QtyRejected, &item.UnitCost); err != nil {
			return fmt.Errorf("scan grn item: %w", err)
		}
		grn.Items = append(grn.Items, &item)
	}
	return rows.Err()
}

// MarkPosted marca la nota como POSTED; cero filas afectadas significa que
// otro escritor ya la contabilizó.
func (r *GRNRepo) MarkPosted(grn *entity.GoodsReceiptNote) error {
	query := `
		UPDATE goods_receipt_notes
		SET status = $1, updated_at = $2, updated_by = $3
		WHERE company_id = $4 AND id = $5 AND status = $6`
	tag, err := r.q.Exec(context.Background(), query,
		entity.GRNStatusPosted, grn.UpdatedAt, grn.UpdatedBy,
		grn.CompanyID, grn.ID, entity.GRNStatusDraft,
	)
	if err != nil {
		return fmt.Errorf("mark grn posted: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrAlreadyPosted
	}
	return nil
}

// ListByCompany lista notas de la empresa con líneas, más recientes primero.
func (r *GRNRepo) ListByCompany(companyID, status string, limit, offset int) ([]*entity.GoodsReceiptNote, error) {
	ctx := context.Background()
	query := `
		SELECT id, company_id, COALESCE(po_id, ''), number, store_id,
			received_date, status, created_at, created_by, updated_at, updated_by
		FROM goods_receipt_notes
		WHERE company_id = $1 AND ($2 = '' OR status = $2)
		ORDER BY created_at DESC
		LIMIT $3 OFFSET $4`
	rows, err := r.q.Query(ctx, query, companyID, status, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list grns: %w", err)
	}
	defer rows.Close()

	var grns []*entity.GoodsReceiptNote
	for rows.Next() {
		var g entity.GoodsReceiptNote
		if err := rows.Scan(
			&g.ID, &g.CompanyID, &g.POID, &g.Number, &g.StoreID,
			&g.ReceivedDate, &g.Status, &g.CreatedAt, &g.CreatedBy, &g.UpdatedAt, &g.UpdatedBy,
		); err != nil {
			return nil, fmt.Errorf("scan grn: %w", err)
		}
		grns = append(grns, &g)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for _, g := range grns {
		if err := r.loadItems(ctx, g); err != nil {
			return nil, err
		}
	}
	return grns, nil
}
