package audit

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/Farmacia-api/internal/domain/entity"
)

// NewEntry arma una entrada de auditoría con snapshots JSON antes/después del
// agregado. oldValue nil (creaciones) queda como JSON null. El caller inserta
// la entrada con un repo atado a la MISMA transacción de la mutación: si el
// insert de auditoría falla, la transacción completa debe fallar.
func NewEntry(companyID, entityType, entityID, action, actorID string, oldValue, newValue any, now time.Time) (*entity.AuditLogEntry, error) {
	oldJSON, err := json.Marshal(oldValue)
	if err != nil {
		return nil, fmt.Errorf("serializar snapshot anterior: %w", err)
	}
	newJSON, err := json.Marshal(newValue)
	if err != nil {
		return nil, fmt.Errorf("serializar snapshot nuevo: %w", err)
	}
	return &entity.AuditLogEntry{
		ID:         uuid.New().String(),
		CompanyID:  companyID,
		EntityType: entityType,
		EntityID:   entityID,
		Action:     action,
		ActorID:    actorID,
		OldValue:   oldJSON,
		NewValue:   newJSON,
		CreatedAt:  now,
	}, nil
}
