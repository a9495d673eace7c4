package entity

import "time"

// Company representa la empresa (tenant). Toda entidad del sistema está
// particionada por CompanyID; el acceso cruzado entre empresas se trata como
// recurso no encontrado, nunca como prohibido, para no filtrar existencia.
type Company struct {
	ID        string
	Name      string
	TaxID     string
	CreatedAt time.Time
	UpdatedAt time.Time
}
