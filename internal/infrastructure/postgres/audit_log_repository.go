package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/Farmacia-api/internal/domain/entity"
	"github.com/jhoicas/Farmacia-api/internal/domain/repository"
)

var _ repository.AuditLogRepository = (*AuditLogRepo)(nil)

// AuditLogRepo implementación de AuditLogRepository sobre PostgreSQL.
// Insert-only: el log nunca se actualiza ni borra.
type AuditLogRepo struct {
	q Querier
}

// NewAuditLogRepository construye el adaptador del log de auditoría.
func NewAuditLogRepository(q Querier) *AuditLogRepo {
	return &AuditLogRepo{q: q}
}

// Create inserta una entrada de auditoría.
func (r *AuditLogRepo) Create(entry *entity.AuditLogEntry) error {
	query := `
		INSERT INTO audit_log (id, company_id, entity_type, entity_id, action, actor_id, old_value, new_value, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(context.Background(), query,
		entry.ID, entry.CompanyID, entry.EntityType, entry.EntityID, entry.Action,
		entry.ActorID, entry.OldValue, entry.NewValue, entry.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("create audit entry: %w", err)
	}
	return nil
}

// ListByEntity lista el rastro de una entidad, en orden cronológico.
func (r *AuditLogRepo) ListByEntity(companyID, entityType, entityID string, limit, offset int) ([]*entity.AuditLogEntry, error) {
	query := `
		SELECT id, company_id, entity_type, entity_id, action, actor_id, old_value, new_value, created_at
		FROM audit_log
		WHERE company_id = $1 AND entity_type = $2 AND entity_id = $3
		ORDER BY created_at ASC
		LIMIT $4 OFFSET $5`
	rows, err := r.q.Query(context.Background(), query, companyID, entityType, entityID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list audit entries: %w", err)
	}
	defer rows.Close()

	var entries []*entity.AuditLogEntry
	for rows.Next() {
		var e entity.AuditLogEntry
		if err := rows.Scan(&e.ID, &e.CompanyID, &e.EntityType, &e.EntityID, &e.Action,
			&e.ActorID, &e.OldValue, &e.NewValue, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan audit entry: %w", err)
		}
		entries = append(entries, &e)
	}
	return entries, rows.Err()
}
