package repository

import "github.com/jhoicas/Farmacia-api/internal/domain/entity"

// ProductRepository define el puerto de persistencia del catálogo.
// Todas las consultas están acotadas por empresa.
type ProductRepository interface {
	Create(product *entity.Product) error
	GetByID(companyID, id string) (*entity.Product, error)
	GetBySKU(companyID, sku string) (*entity.Product, error)
	Update(product *entity.Product) error
	ListByCompany(companyID string, limit, offset int) ([]*entity.Product, error)
}
