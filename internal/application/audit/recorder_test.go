package audit_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Farmacia-api/internal/application/audit"
	"github.com/jhoicas/Farmacia-api/internal/domain/entity"
)

func TestNewEntry_SnapshotsJSON(t *testing.T) {
	now := time.Now()
	before := map[string]any{"status": "DRAFT", "version": 1}
	after := map[string]any{"status": "PENDING_APPROVAL", "version": 2}

	entry, err := audit.NewEntry("C1", "Sale", "sale-1", entity.AuditActionSubmit, "U1", before, after, now)
	require.NoError(t, err)

	assert.NotEmpty(t, entry.ID)
	assert.Equal(t, "C1", entry.CompanyID)
	assert.Equal(t, "Sale", entry.EntityType)
	assert.Equal(t, entity.AuditActionSubmit, entry.Action)
	assert.Equal(t, "U1", entry.ActorID)
	assert.Equal(t, now, entry.CreatedAt)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(entry.NewValue, &decoded))
	assert.Equal(t, "PENDING_APPROVAL", decoded["status"])
}

func TestNewEntry_CreacionSinSnapshotAnterior(t *testing.T) {
	entry, err := audit.NewEntry("C1", "PurchaseOrder", "po-1", entity.AuditActionCreate, "U1", nil, map[string]any{"status": "DRAFT"}, time.Now())
	require.NoError(t, err)

	assert.Equal(t, json.RawMessage("null"), entry.OldValue)
}
