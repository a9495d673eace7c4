package repository

import "github.com/jhoicas/Farmacia-api/internal/domain/entity"

// AuditLogRepository define el puerto del log de auditoría. Insert-only;
// se usa con repos atados a la misma transacción que la mutación auditada.
type AuditLogRepository interface {
	Create(entry *entity.AuditLogEntry) error
	ListByEntity(companyID, entityType, entityID string, limit, offset int) ([]*entity.AuditLogEntry, error)
}
