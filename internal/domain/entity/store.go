package entity

import "time"

// Tipos de almacén (farmacia central, dispensación ambulatoria, hospitalización, sub-bodega).
const (
	StoreTypeCentral    = "CENTRAL"
	StoreTypeOutpatient = "OUTPATIENT"
	StoreTypeInpatient  = "INPATIENT"
	StoreTypeSubstore   = "SUBSTORE"
)

// Store representa un almacén o punto de dispensación donde se guarda stock.
type Store struct {
	ID        string
	CompanyID string
	Code      string
	Name      string
	Type      string // CENTRAL, OUTPATIENT, INPATIENT, SUBSTORE
	Address   string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ValidStoreType verifica que el tipo sea uno de los permitidos.
func ValidStoreType(t string) bool {
	switch t {
	case StoreTypeCentral, StoreTypeOutpatient, StoreTypeInpatient, StoreTypeSubstore:
		return true
	}
	return false
}
