package repository

import "github.com/jhoicas/Farmacia-api/internal/domain/entity"

// GRNRepository define el puerto de persistencia de notas de recepción.
type GRNRepository interface {
	Create(grn *entity.GoodsReceiptNote) error
	GetByID(companyID, id string) (*entity.GoodsReceiptNote, error)
	// GetForUpdate carga la nota con bloqueo de fila (para contabilizar).
	GetForUpdate(companyID, id string) (*entity.GoodsReceiptNote, error)
	// MarkPosted marca la nota como POSTED; es un cambio terminal.
	MarkPosted(grn *entity.GoodsReceiptNote) error
	ListByCompany(companyID, status string, limit, offset int) ([]*entity.GoodsReceiptNote, error)
}
