package repository

import "github.com/jhoicas/Farmacia-api/internal/domain/entity"

// PurchaseOrderRepository define el puerto de persistencia de órdenes de compra.
type PurchaseOrderRepository interface {
	Create(po *entity.PurchaseOrder) error
	GetByID(companyID, id string) (*entity.PurchaseOrder, error)
	// UpdateVersioned actualiza la cabecera con update condicional por versión.
	UpdateVersioned(po *entity.PurchaseOrder, expectedVersion int) error
	// ReplaceItems reemplaza las líneas (solo para órdenes en borrador).
	ReplaceItems(po *entity.PurchaseOrder) error
	ListByCompany(companyID, status string, limit, offset int) ([]*entity.PurchaseOrder, error)
}
