package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de una orden de compra.
const (
	POStatusDraft     = "DRAFT"
	POStatusApproved  = "APPROVED"
	POStatusSent      = "SENT"
	POStatusCancelled = "CANCELLED"
	POStatusClosed    = "CLOSED"
)

var poTransitions = map[string][]string{
	POStatusDraft:    {POStatusApproved, POStatusCancelled},
	POStatusApproved: {POStatusSent, POStatusCancelled},
	POStatusSent:     {POStatusClosed, POStatusCancelled},
}

// PurchaseOrder es el agregado de orden de compra: cabecera + ítems.
// Misma disciplina de versión optimista que Sale. Aprobar es una operación
// distinta de editar: el boundary HTTP exige un rol diferente.
type PurchaseOrder struct {
	ID           string
	CompanyID    string
	Number       string
	VendorID     string
	Status       string
	OrderDate    time.Time
	ExpectedDate time.Time
	Version      int
	Items        []*POItem
	CreatedAt    time.Time
	CreatedBy    string
	UpdatedAt    time.Time
	UpdatedBy    string
}

// POItem es una línea de la orden de compra.
type POItem struct {
	ID         string
	POID       string
	ProductID  string
	QtyOrdered decimal.Decimal
	UnitCost   decimal.Decimal
	TaxRate    decimal.Decimal
}

// CanTransitionTo verifica la máquina de estados de la orden de compra.
func (po *PurchaseOrder) CanTransitionTo(status string) bool {
	for _, next := range poTransitions[po.Status] {
		if next == status {
			return true
		}
	}
	return false
}

// Editable indica si la orden admite cambios de contenido (solo en borrador).
func (po *PurchaseOrder) Editable() bool {
	return po.Status == POStatusDraft
}
