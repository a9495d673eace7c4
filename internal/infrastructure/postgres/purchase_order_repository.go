package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/Farmacia-api/internal/domain"
	"github.com/jhoicas/Farmacia-api/internal/domain/entity"
	"github.com/jhoicas/Farmacia-api/internal/domain/repository"
)

var _ repository.PurchaseOrderRepository = (*PurchaseOrderRepo)(nil)

// PurchaseOrderRepo implementación de PurchaseOrderRepository sobre PostgreSQL.
type PurchaseOrderRepo struct {
	q Querier
}

// NewPurchaseOrderRepository construye el adaptador de órdenes de compra.
func NewPurchaseOrderRepository(q Querier) *PurchaseOrderRepo {
	return &PurchaseOrderRepo{q: q}
}

// Create persiste cabecera y líneas de la orden.
func (r *PurchaseOrderRepo) Create(po *entity.PurchaseOrder) error {
	ctx := context.Background()
	query := `
		INSERT INTO purchase_orders (id, company_id, number, vendor_id, status,
			order_date, expected_date, version, created_at, created_by, updated_at, updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := r.q.Exec(ctx, query,
		po.ID, po.CompanyID, po.Number, po.VendorID, po.Status,
		po.OrderDate, nullableTime(po.ExpectedDate), po.Version,
		po.CreatedAt, po.CreatedBy, po.UpdatedAt, po.UpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("create purchase order: %w", err)
	}
	return r.insertItems(ctx, po)
}

func (r *PurchaseOrderRepo) insertItems(ctx context.Context, po *entity.PurchaseOrder) error {
	for _, item := range po.Items {
		query := `
			INSERT INTO po_items (id, po_id, product_id, qty_ordered, unit_cost, tax_rate)
			VALUES ($1, $2, $3, $4, $5, $6)`
		if _, err := r.q.Exec(ctx, query,
			item.ID, item.POID, item.ProductID, item.QtyOrdered, item.UnitCost, item.TaxRate); err != nil {
			return fmt.Errorf("create po item: %w", err)
		}
	}
	return nil
}

// GetByID carga la orden con líneas; nil si no existe o es de otra empresa.
func (r *PurchaseOrderRepo) GetByID(companyID, id string) (*entity.PurchaseOrder, error) {
	ctx := context.Background()
	query := `
		SELECT id, company_id, number, vendor_id, status, order_date, expected_date,
			version, created_at, created_by, updated_at, updated_by
		FROM purchase_orders WHERE company_id = $1 AND id = $2`
	po, err := r.scanPO(r.q.QueryRow(ctx, query, companyID, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get purchase order: %w", err)
	}
	if err := r.loadItems(ctx, po); err != nil {
		return nil, err
	}
	return po, nil
}

func (r *PurchaseOrderRepo) scanPO(row pgx.Row) (*entity.PurchaseOrder, error) {
	var po entity.PurchaseOrder
	var expectedDate *time.Time
	err := row.Scan(
		&po.ID, &po.CompanyID, &po.Number, &po.VendorID, &po.Status,
		&po.OrderDate, &expectedDate, &po.Version,
		&po.CreatedAt, &po.CreatedBy, &po.UpdatedAt, &po.UpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	if expectedDate != nil {
		po.ExpectedDate = *expectedDate
	}
	return &po, nil
}

func (r *PurchaseOrderRepo) loadItems(ctx context.Context, po *entity.PurchaseOrder) error {
	query := `
		SELECT id, po_id, product_id, qty_ordered, unit_cost, tax_rate
		FROM po_items WHERE po_id = $1
		ORDER BY id`
	rows, err := r.q.Query(ctx, query, po.ID)
	if err != nil {
		return fmt.Errorf("list po items: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var item entity.POItem
		if err := rows.Scan(&item.ID, &item.POID, &item.ProductID,
			&item.QtyOrdered, &item.UnitCost, &item.TaxRate); err != nil {
			return fmt.Errorf("scan po item: %w", err)
		}
		po.Items = append(po.Items, &item)
	}
	return rows.Err()
}

// UpdateVersioned actualiza la cabecera con update condicional por versión.
func (r *PurchaseOrderRepo) UpdateVersioned(po *entity.PurchaseOrder, expectedVersion int) error {
	query := `
		UPDATE purchase_orders
		SET vendor_id = $1, status = $2, expected_date = $3,
			version = $4, updated_at = $5, updated_by = $6
		WHERE company_id = $7 AND id = $8 AND version = $9`
	tag, err := r.q.Exec(context.Background(), query,
		po.VendorID, po.Status, nullableTime(po.ExpectedDate),
		po.Version, po.UpdatedAt, po.UpdatedBy,
		po.CompanyID, po.ID, expectedVersion,
	)
	if err != nil {
		return fmt.Errorf("update purchase order: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrVersionConflict
	}
	return nil
}

// ReplaceItems reemplaza las líneas de la orden (solo borradores).
func (r *PurchaseOrderRepo) ReplaceItems(po *entity.PurchaseOrder) error {
	ctx := context.Background()
	if _, err := r.q.Exec(ctx, `DELETE FROM po_items WHERE po_id = $1`, po.ID); err != nil {
		return fmt.Errorf("clear po items: %w", err)
	}
	return r.insertItems(ctx, po)
}

// ListByCompany lista órdenes de la empresa con líneas, más recientes primero.
func (r *PurchaseOrderRepo) ListByCompany(companyID, status string, limit, offset int) ([]*entity.PurchaseOrder, error) {
	ctx := context.Background()
	query := `
		SELECT id, company_id, number, vendor_id, status, order_date, expected_date,
			version, created_at, created_by, updated_at, updated_by
		FROM purchase_orders
		WHERE company_id = $1 AND ($2 = '' OR status = $2)
		ORDER BY created_at DESC
		LIMIT $3 OFFSET $4`
	rows, err := r.q.Query(ctx, query, companyID, status, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list purchase orders: %w", err)
	}
	defer rows.Close()

	var pos []*entity.PurchaseOrder
	for rows.Next() {
		po, err := r.scanPO(rows)
		if err != nil {
			return nil, fmt.Errorf("scan purchase order: %w", err)
		}
		pos = append(pos, po)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for _, po := range pos {
		if err := r.loadItems(ctx, po); err != nil {
			return nil, err
		}
	}
	return pos, nil
}
