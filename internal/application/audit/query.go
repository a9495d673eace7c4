package audit

import (
	"encoding/json"
	"time"

	"github.com/jhoicas/Farmacia-api/internal/application/dto"
	"github.com/jhoicas/Farmacia-api/internal/domain"
	"github.com/jhoicas/Farmacia-api/internal/domain/repository"
)

// EntryDTO entrada de auditoría expuesta por la API.
type EntryDTO struct {
	ID         string          `json:"id"`
	EntityType string          `json:"entity_type"`
	EntityID   string          `json:"entity_id"`
	Action     string          `json:"action"`
	ActorID    string          `json:"actor_id"`
	OldValue   json.RawMessage `json:"old_value"`
	NewValue   json.RawMessage `json:"new_value"`
	CreatedAt  time.Time       `json:"created_at"`
}

// QueryUseCase consulta del rastro de auditoría de una entidad.
type QueryUseCase struct {
	repo repository.AuditLogRepository
}

// NewQueryUseCase construye el caso de uso de consulta de auditoría.
func NewQueryUseCase(repo repository.AuditLogRepository) *QueryUseCase {
	return &QueryUseCase{repo: repo}
}

// ListByEntity devuelve el rastro cronológico de una entidad de la empresa.
func (uc *QueryUseCase) ListByEntity(companyID, entityType, entityID string, page dto.PageRequest) ([]EntryDTO, error) {
	if entityType == "" || entityID == "" {
		return nil, domain.ErrInvalidInput
	}
	page.DefaultPage()
	entries, err := uc.repo.ListByEntity(companyID, entityType, entityID, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	out := make([]EntryDTO, 0, len(entries))
	for _, e := range entries {
		out = append(out, EntryDTO{
			ID:         e.ID,
			EntityType: e.EntityType,
			EntityID:   e.EntityID,
			Action:     e.Action,
			ActorID:    e.ActorID,
			OldValue:   e.OldValue,
			NewValue:   e.NewValue,
			CreatedAt:  e.CreatedAt,
		})
	}
	return out, nil
}
