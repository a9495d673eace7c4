package repository

import "github.com/jhoicas/Farmacia-api/internal/domain/entity"

// SaleRepository define el puerto de persistencia del agregado de venta.
type SaleRepository interface {
	// Create persiste cabecera e ítems en estado inicial.
	Create(sale *entity.Sale) error
	// GetByID carga la venta con ítems y asignaciones de lote; nil si no
	// existe o pertenece a otra empresa.
	GetByID(companyID, id string) (*entity.Sale, error)
	// UpdateVersioned persiste cabecera con update condicional
	// (WHERE version = expectedVersion); retorna ErrVersionConflict si la
	// fila no coincide. En éxito el Version del agregado ya viene +1.
	UpdateVersioned(sale *entity.Sale, expectedVersion int) error
	// SaveItemAllocations persiste el desglose de lotes de un ítem aprobado.
	SaveItemAllocations(item *entity.SaleItem) error
	ListByCompany(companyID, status string, limit, offset int) ([]*entity.Sale, error)
}
