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

var _ repository.VendorRepository = (*VendorRepo)(nil)

// VendorRepo implementación de VendorRepository sobre PostgreSQL.
type VendorRepo struct {
	q Querier
}

// NewVendorRepository construye el adaptador de proveedores.
func NewVendorRepository(q Querier) *VendorRepo {
	return &VendorRepo{q: q}
}

// Create inserta un proveedor. Código único por empresa.
func (r *VendorRepo) Create(vendor *entity.Vendor) error {
	query := `
		INSERT INTO vendors (id, company_id, code, name, tax_id, phone, email, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(context.Background(), query,
		vendor.ID, vendor.CompanyID, vendor.Code, vendor.Name, vendor.TaxID,
		vendor.Phone, vendor.Email, vendor.CreatedAt, vendor.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("create vendor: %w", err)
	}
	return nil
}

// GetByID retorna el proveedor o nil si no existe en la empresa.
func (r *VendorRepo) GetByID(companyID, id string) (*entity.Vendor, error) {
	query := `
		SELECT id, company_id, code, name, tax_id, phone, email, created_at, updated_at
		FROM vendors WHERE company_id = $1 AND id = $2`
	var v entity.Vendor
	err := r.q.QueryRow(context.Background(), query, companyID, id).Scan(
		&v.ID, &v.CompanyID, &v.Code, &v.Name, &v.TaxID, &v.Phone, &v.Email,
		&v.CreatedAt, &v.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get vendor: %w", err)
	}
	return &v, nil
}

// ListByCompany lista los proveedores de la empresa ordenados por código.
func (r *VendorRepo) ListByCompany(companyID string, limit, offset int) ([]*entity.Vendor, error) {
	query := `
		SELECT id, company_id, code, name, tax_id, phone, email, created_at, updated_at
		FROM vendors WHERE company_id = $1
		ORDER BY code ASC
		LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(context.Background(), query, companyID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list vendors: %w", err)
	}
	defer rows.Close()

	var vendors []*entity.Vendor
	for rows.Next() {
		var v entity.Vendor
		if err := rows.Scan(&v.ID, &v.CompanyID, &v.Code, &v.Name, &v.TaxID,
			&v.Phone, &v.Email, &v.CreatedAt, &v.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan vendor: %w", err)
		}
		vendors = append(vendors, &v)
	}
	return vendors, rows.Err()
}
