package entity

import (
	"encoding/json"
	"time"
)

// Acciones registradas en el log de auditoría.
const (
	AuditActionCreate  = "CREATE"
	AuditActionUpdate  = "UPDATE"
	AuditActionSubmit  = "SUBMIT"
	AuditActionApprove = "APPROVE"
	AuditActionSend    = "SEND"
	AuditActionCancel  = "CANCEL"
	AuditActionReturn  = "RETURN"
	AuditActionClose   = "CLOSE"
	AuditActionPost    = "POST"
)

// AuditLogEntry es el rastro de auditoría de toda mutación de Sale, PO y GRN:
// snapshot antes/después en JSON, actor y timestamp. Se inserta en la misma
// transacción que la mutación; si falla el insert, falla la transacción
// completa (la auditoría no es best-effort). Nunca se actualiza ni borra.
type AuditLogEntry struct {
	ID         string
	CompanyID  string
	EntityType string // Sale, PurchaseOrder, GoodsReceiptNote
	EntityID   string
	Action     string
	ActorID    string
	OldValue   json.RawMessage // null en creaciones
	NewValue   json.RawMessage
	CreatedAt  time.Time
}
