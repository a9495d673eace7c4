package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de una nota de recepción de mercancía (GRN).
const (
	GRNStatusDraft  = "DRAFT"
	GRNStatusPosted = "POSTED"
)

// GoodsReceiptNote documenta la llegada física de mercancía. Contabilizarla
// (POSTED) es el único camino que crea lotes de stock y entradas RECEIPT en
// el ledger. Una vez contabilizada no se edita: las correcciones van por
// movimientos de ajuste, nunca por edición retroactiva.
type GoodsReceiptNote struct {
	ID           string
	CompanyID    string
	POID         string // opcional: recepción sin orden de compra
	Number       string
	StoreID      string
	ReceivedDate time.Time
	Status       string
	Items        []*GRNItem
	CreatedAt    time.Time
	CreatedBy    string
	UpdatedAt    time.Time
	UpdatedBy    string
}

// GRNItem es una línea de recepción: lote, vencimiento y cantidades.
// QtyRejected se registra pero jamás suma al disponible.
type GRNItem struct {
	ID          string
	GRNID       string
	ProductID   string
	BatchNumber string
	ExpiryDate  time.Time
	QtyReceived decimal.Decimal
	QtyRejected decimal.Decimal
	UnitCost    decimal.Decimal
}

// AcceptedQty devuelve la cantidad que entra a stock: recibida - rechazada.
func (i *GRNItem) AcceptedQty() decimal.Decimal {
	return i.QtyReceived.Sub(i.QtyRejected)
}
