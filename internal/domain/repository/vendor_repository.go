package repository

import "github.com/jhoicas/Farmacia-api/internal/domain/entity"

// VendorRepository define el puerto de persistencia de proveedores.
type VendorRepository interface {
	Create(vendor *entity.Vendor) error
	GetByID(companyID, id string) (*entity.Vendor, error)
	ListByCompany(companyID string, limit, offset int) ([]*entity.Vendor, error)
}
