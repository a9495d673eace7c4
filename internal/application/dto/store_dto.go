package dto

import "time"

// CreateStoreRequest alta de almacén.
type CreateStoreRequest struct {
	Code    string `json:"code" validate:"required"`
	Name    string `json:"name" validate:"required"`
	Type    string `json:"type" validate:"required"` // CENTRAL, OUTPATIENT, INPATIENT, SUBSTORE
	Address string `json:"address"`
}

// StoreResponse almacén.
type StoreResponse struct {
	ID        string    `json:"id"`
	CompanyID string    `json:"company_id"`
	Code      string    `json:"code"`
	Name      string    `json:"name"`
	Type      string    `json:"type"`
	Address   string    `json:"address"`
	CreatedAt time.Time `json:"created_at"`
}
