package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de una venta (dispensación OP o IP).
const (
	SaleStatusDraft           = "DRAFT"
	SaleStatusPendingApproval = "PENDING_APPROVAL"
	SaleStatusCompleted       = "COMPLETED"
	SaleStatusCancelled       = "CANCELLED"
	SaleStatusReturned        = "RETURNED"
)

// saleTransitions define la máquina de estados de la venta. Cualquier
// transición fuera de este mapa es ErrInvalidTransition.
var saleTransitions = map[string][]string{
	SaleStatusDraft:           {SaleStatusPendingApproval, SaleStatusCancelled},
	SaleStatusPendingApproval: {SaleStatusCompleted, SaleStatusCancelled},
	SaleStatusCompleted:       {SaleStatusCancelled, SaleStatusReturned},
}

// Sale es el agregado de venta: cabecera + ítems. Version es el contador de
// bloqueo optimista: toda mutación exige expectedVersion y lo incrementa en 1.
type Sale struct {
	ID            string
	CompanyID     string
	Number        string // consecutivo único por empresa
	PatientID     string
	StoreID       string
	Status        string
	TotalAmount   decimal.Decimal
	Discount      decimal.Decimal
	NetAmount     decimal.Decimal
	CreditAllowed bool
	Version       int
	Items         []*SaleItem
	CreatedAt     time.Time
	CreatedBy     string
	UpdatedAt     time.Time
	UpdatedBy     string
}

// SaleItem es una línea de la venta. Allocations se llena solo al aprobar:
// guarda de qué lotes salió el stock para poder revertir lote-exacto.
type SaleItem struct {
	ID          string
	SaleID      string
	ProductID   string
	Quantity    decimal.Decimal
	UnitPrice   decimal.Decimal
	Discount    decimal.Decimal
	Allocations []LotAllocation
}

// LotAllocation registra cuánto se tomó (o se devolvió) de un lote concreto.
type LotAllocation struct {
	LotID    string
	Quantity decimal.Decimal
}

// CanTransitionTo verifica la máquina de estados de la venta.
func (s *Sale) CanTransitionTo(status string) bool {
	for _, next := range saleTransitions[s.Status] {
		if next == status {
			return true
		}
	}
	return false
}

// Subtotal de la línea: cantidad * precio - descuento de línea.
func (i *SaleItem) Subtotal() decimal.Decimal {
	return i.Quantity.Mul(i.UnitPrice).Sub(i.Discount)
}

// AllocatedQty devuelve el total asignado al ítem sumando sus lotes.
func (i *SaleItem) AllocatedQty() decimal.Decimal {
	total := decimal.Zero
	for _, a := range i.Allocations {
		total = total.Add(a.Quantity)
	}
	return total
}

// RecomputeTotals recalcula TotalAmount y NetAmount desde los ítems.
func (s *Sale) RecomputeTotals() {
	total := decimal.Zero
	for _, item := range s.Items {
		total = total.Add(item.Subtotal())
	}
	s.TotalAmount = total
	s.NetAmount = total.Sub(s.Discount)
}
