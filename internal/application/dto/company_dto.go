package dto

import "time"

// CreateCompanyRequest alta de empresa (tenant).
type CreateCompanyRequest struct {
	Name  string `json:"name" validate:"required"`
	TaxID string `json:"tax_id"`
}

// CompanyResponse empresa.
type CompanyResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	TaxID     string    `json:"tax_id"`
	CreatedAt time.Time `json:"created_at"`
}
