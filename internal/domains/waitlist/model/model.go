package model

import (
	"time"

	"atelier/shared/model"
)

const (
	TableName  = "waitlist_entries"
	EntityName = "waitlist_entry"

	FieldID         = "id"
	FieldSessionID  = "session_id"
	FieldClientID   = "client_id"
	FieldStatus     = "status"
	FieldPosition   = "position"
	FieldNotifiedAt = "notified_at"
)

const (
	StatusPending   = "PENDING"
	StatusPromoted  = "PROMOTED"
	StatusCancelled = "CANCELLED"
)

// WaitlistEntry queues a client for a full session. Position is 1-based and
// contiguous among PENDING entries of the same session; promotion and
// cancellation resequence the remainder.
type WaitlistEntry struct {
	ID         string     `db:"id"`
	SessionID  string     `db:"session_id"`
	ClientID   string     `db:"client_id"`
	Status     string     `db:"status"`
	Position   int        `db:"position"`
	NotifiedAt *time.Time `db:"notified_at"`
	model.Metadata
}
