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

var _ repository.StoreRepository = (*StoreRepo)(nil)

// StoreRepo implementación de StoreRepository sobre PostgreSQL.
type StoreRepo struct {
	q Querier
}

// NewStoreRepository construye el adaptador de almacenes.
func NewStoreRepository(q Querier) *StoreRepo {
	return &StoreRepo{q: q}
}

// Create inserta un almacén. Código único por empresa.
func (r *StoreRepo) Create(store *entity.Store) error {
	query := `
		INSERT INTO stores (id, company_id, code, name, type, address, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(context.Background(), query,
		store.ID, store.CompanyID, store.Code, store.Name, store.Type,
		store.Address, store.CreatedAt, store.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("create store: %w", err)
	}
	return nil
}

// GetByID retorna el almacén o nil si no existe en la empresa.
func (r *StoreRepo) GetByID(companyID, id string) (*entity.Store, error) {
	query := `
		SELECT id, company_id, code, name, type, address, created_at, updated_at
		FROM stores WHERE company_id = $1 AND id = $2`
	var s entity.Store
	err := r.q.QueryRow(context.Background(), query, companyID, id).Scan(
		&s.ID, &s.CompanyID, &s.Code, &s.Name, &s.Type, &s.Address, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get store: %w", err)
	}
	return &s, nil
}

// ListByCompany lista los almacenes de la empresa ordenados por código.
func (r *StoreRepo) ListByCompany(companyID string, limit, offset int) ([]*entity.Store, error) {
	query := `
		SELECT id, company_id, code, name, type, address, created_at, updated_at
		FROM stores WHERE company_id = $1
		ORDER BY code ASC
		LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(context.Background(), query, companyID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list stores: %w", err)
	}
	defer rows.Close()

	var stores []*entity.Store
	for rows.Next() {
		var s entity.Store
		if err := rows.Scan(&s.ID, &s.CompanyID, &s.Code, &s.Name, &s.Type,
			&s.Address, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan store: %w", err)
		}
		stores = append(stores, &s)
	}
	return stores, rows.Err()
}
