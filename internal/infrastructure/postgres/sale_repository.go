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

var _ repository.SaleRepository = (*SaleRepo)(nil)

// SaleRepo implementación de SaleRepository sobre PostgreSQL (usable con pool o tx).
type SaleRepo struct {
	q Querier
}

// NewSaleRepository construye el adaptador de ventas. Pasar pool o tx (Querier).
func NewSaleRepository(q Querier) *SaleRepo {
	return &SaleRepo{q: q}
}

// Create persiste cabecera e ítems de la venta.
func (r *SaleRepo) Create(sale *entity.Sale) error {
	ctx := context.Background()
	query := `
		INSERT INTO sales (id, company_id, number, patient_id, store_id, status,
			total_amount, discount, net_amount, credit_allowed, version,
			created_at, created_by, updated_at, updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`
	_, err := r.q.Exec(ctx, query,
		sale.ID, sale.CompanyID, sale.Number, sale.PatientID, sale.StoreID, sale.Status,
		sale.TotalAmount, sale.Discount, sale.NetAmount, sale.CreditAllowed, sale.Version,
		sale.CreatedAt, sale.CreatedBy, sale.UpdatedAt, sale.UpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("create sale: %w", err)
	}
	for _, item := range sale.Items {
		itemQuery := `
			INSERT INTO sale_items (id, sale_id, product_id, quantity, unit_price, discount)
			VALUES ($1, $2, $3, $4, $5, $6)`
		if _, err := r.q.Exec(ctx, itemQuery,
			item.ID, item.SaleID, item.ProductID, item.Quantity, item.UnitPrice, item.Discount); err != nil {
			return fmt.Errorf("create sale item: %w", err)
		}
	}
	return nil
}

// GetByID carga la venta con ítems y asignaciones de lote; nil si no existe
// o pertenece a otra empresa.
func (r *SaleRepo) GetByID(companyID, id string) (*entity.Sale, error) {
	ctx := context.Background()
	query := `
		SELECT id, company_id, number, patient_id, store_id, status,
			total_amount, discount, net_amount, credit_allowed, version,
			created_at, created_by, updated_at, updated_by
		FROM sales WHERE company_id = $1 AND id = $2`
	var s entity.Sale
	err := r.q.QueryRow(ctx, query, companyID, id).Scan(
		&s.ID, &s.CompanyID, &s.Number, &s.PatientID, &s.StoreID, &s.Status,
		&s.TotalAmount, &s.Discount, &s.NetAmount, &s.CreditAllowed, &s.Version,
		&s.CreatedAt, &s.CreatedBy, &s.UpdatedAt, &s.UpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get sale: %w", err)
	}
	if err := r.loadItems(ctx, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *SaleRepo) loadItems(ctx context.Context, sale *entity.Sale) error {
	itemsQuery := `
		SELECT id, sale_id, product_id, quantity, unit_price, discount
		FROM sale_items WHERE sale_id = $1
		ORDER BY id`
	rows, err := r.q.Query(ctx, itemsQuery, sale.ID)
	if err != nil {
		return fmt.Errorf("list sale items: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var item entity.SaleItem
		if err := rows.Scan(&item.ID, &item.SaleID, &item.ProductID,
			&item.Quantity, &item.UnitPrice, &item.Discount); err != nil {
			return fmt.Errorf("scan sale item: %w", err)
		}
		sale.Items = append(sale.Items, &item)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	// Desglose de lotes de todos los ítems en una sola consulta
	allocQuery := `
		SELECT a.sale_item_id, a.lot_id, a.quantity
		FROM sale_item_allocations a
		JOIN sale_items i ON i.id = a.sale_item_id
		WHERE i.sale_id = $1
		ORDER BY a.position`
	allocRows, err := r.q.Query(ctx, allocQuery, sale.ID)
	if err != nil {
		return fmt.Errorf("list sale allocations: %w", err)
	}
	defer allocRows.Close()

	byItem := make(map[string]*entity.SaleItem, len(sale.Items))
	for _, item := range sale.Items {
		byItem[item.ID] = item
	}
	for allocRows.Next() {
		var itemID string
		var alloc entity.LotAllocation
		if err := allocRows.Scan(&itemID, &alloc.LotID, &alloc.Quantity); err != nil {
			return fmt.Errorf("scan sale allocation: %w", err)
		}
		if item, ok := byItem[itemID]; ok {
			item.Allocations = append(item.Allocations, alloc)
		}
	}
	return allocRows.Err()
}

// UpdateVersioned persiste la cabecera con update condicional por versión.
// Cero filas afectadas significa que otro escritor ganó: ErrVersionConflict.
func (r *SaleRepo) UpdateVersioned(sale *entity.Sale, expectedVersion int) error {
	query := `
		UPDATE sales
		SET status = $1, total_amount = $2, discount = $3, net_amount = $4,
			version = $5, updated_at = $6, updated_by = $7
		WHERE company_id = $8 AND id = $9 AND version = $10`
	tag, err := r.q.Exec(context.Background(), query,
		sale.Status, sale.TotalAmount, sale.Discount, sale.NetAmount,
		sale.Version, sale.UpdatedAt, sale.UpdatedBy,
		sale.CompanyID, sale.ID, expectedVersion,
	)
	if err != nil {
		return fmt.Errorf("update sale: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrVersionConflict
	}
	return nil
}

// SaveItemAllocations persiste el desglose de lotes de un ítem. El orden de
// inserción (position) preserva el orden FEFO para reversas lote-exactas.
func (r *SaleRepo) SaveItemAllocations(item *entity.SaleItem) error {
	ctx := context.Background()
	if _, err := r.q.Exec(ctx,
		`DELETE FROM sale_item_allocations WHERE sale_item_id = $1`, item.ID); err != nil {
		return fmt.Errorf("clear sale allocations: %w", err)
	}
	for i, alloc := range item.Allocations {
		query := `
			INSERT INTO sale_item_allocations (sale_item_id, lot_id, quantity, position)
			VALUES ($1, $2, $3, $4)`
		if _, err := r.q.Exec(ctx, query, item.ID, alloc.LotID, alloc.Quantity, i); err != nil {
			return fmt.Errorf("save sale allocation: %w", err)
		}
	}
	return nil
}

// ListByCompany lista ventas de la empresa (cabecera + ítems), más recientes primero.
func (r *SaleRepo) ListByCompany(companyID, status string, limit, offset int) ([]*entity.Sale, error) {
	ctx := context.Background()
	query := `
		SELECT id, company_id, number, patient_id, store_id, status,
			total_amount, discount, net_amount, credit_allowed, version,
			created_at, created_by, updated_at, updated_by
		FROM sales
		WHERE company_id = $1 AND ($2 = '' OR status = $2)
		ORDER BY created_at DESC
		LIMIT $3 OFFSET $4`
	rows, err := r.q.Query(ctx, query, companyID, status, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list sales: %w", err)
	}
	defer rows.Close()

	var sales []*entity.Sale
	for rows.Next() {
		var s entity.Sale
		if err := rows.Scan(
			&s.ID, &s.CompanyID, &s.Number, &s.PatientID, &s.StoreID, &s.Status,
			&s.TotalAmount, &s.Discount, &s.NetAmount, &s.CreditAllowed, &s.Version,
			&s.CreatedAt, &s.CreatedBy, &s.UpdatedAt, &s.UpdatedBy,
		); err != nil {
			return nil, fmt.Errorf("scan sale: %w", err)
		}
		sales = append(sales, &s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for _, s := range sales {
		if err := r.loadItems(ctx, s); err != nil {
			return nil, err
		}
	}
	return sales, nil
}
