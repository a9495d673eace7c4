package repository

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/jhoicas/Farmacia-api/internal/domain/entity"
)

// StockLotRepository define el puerto de persistencia para lotes de stock.
// Las variantes ForUpdate bloquean las filas (SELECT ... FOR UPDATE) y solo
// tienen sentido dentro de una transacción.
type StockLotRepository interface {
	Create(lot *entity.StockLot) error
	GetByID(companyID, id string) (*entity.StockLot, error)
	GetForUpdate(companyID, id string) (*entity.StockLot, error)
	// GetByBatchForUpdate busca el lote por (empresa, producto, almacén,
	// número de lote) con bloqueo de fila; nil si no existe.
	GetByBatchForUpdate(companyID, productID, storeID, batchNumber string) (*entity.StockLot, error)
	// ListAvailableFEFOForUpdate devuelve los lotes con disponible > 0 y no
	// vencidos a la fecha, ordenados por vencimiento ascendente y luego por
	// creación, con bloqueo de fila. Es la consulta que alimenta la asignación.
	ListAvailableFEFOForUpdate(companyID, productID, storeID string, onDate time.Time) ([]*entity.StockLot, error)
	// UpdateQuantities persiste QtyReceived/QtyAvailable/UpdatedAt del lote.
	UpdateQuantities(lot *entity.StockLot) error
	// SumAvailable devuelve el disponible total de un producto en un almacén.
	SumAvailable(companyID, productID, storeID string) (decimal.Decimal, error)
	// ListNearExpiry lista lotes con disponible > 0 que vencen antes de la fecha.
	ListNearExpiry(companyID, storeID string, before time.Time, limit, offset int) ([]*entity.StockLot, error)
}
