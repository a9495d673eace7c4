package entity

import "time"

// Roles válidos para User. Aprobar ventas u órdenes de compra es una
// capacidad distinta de editarlas (separación de funciones).
const (
	RoleAdmin        = "admin"
	RoleFarmaceutico = "farmaceutico" // crea y edita ventas
	RoleAprobador    = "aprobador"    // aprueba ventas y órdenes de compra
	RoleBodeguero    = "bodeguero"    // recibe mercancía (GRN)
)

// User representa un usuario del sistema (pertenece a una Company).
type User struct {
	ID           string
	CompanyID    string
	Email        string
	PasswordHash string // bcrypt hash, nunca plano en dominio después de persistir
	Name         string
	Role         string // admin, farmaceutico, aprobador, bodeguero
	Status       string // active, inactive, suspended
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
