package repository

import "github.com/jhoicas/Farmacia-api/internal/domain/entity"

// StoreRepository define el puerto de persistencia de almacenes.
type StoreRepository interface {
	Create(store *entity.Store) error
	GetByID(companyID, id string) (*entity.Store, error)
	ListByCompany(companyID string, limit, offset int) ([]*entity.Store, error)
}
