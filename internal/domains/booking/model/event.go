package model

import (
	"time"
)

const (
	EventTableName  = "booking_events"
	EventEntityName = "booking_event"

	EventFieldID        = "id"
	EventFieldBookingID = "booking_id"
	EventFieldSessionID = "session_id"
	EventFieldType      = "type"
	EventFieldActorID   = "actor_id"
	EventFieldActorRole = "actor_role"
	EventFieldDetail    = "detail"
)

const (
	EventCreated    = "CREATED"
	EventCancelled  = "CANCELLED"
	EventRebooked   = "REBOOKED"
	EventCheckedIn  = "CHECKED_IN"
	EventCheckedOut = "CHECKED_OUT"
)

// BookingEvent is an append-only audit record of a lifecycle transition.
// Detail carries operation-specific context as a JSON document.
type BookingEvent struct {
	ID        string    `db:"id"`
	BookingID string    `db:"booking_id"`
	SessionID string    `db:"session_id"`
	Type      string    `db:"type"`
	ActorID   string    `db:"actor_id"`
	ActorRole string    `db:"actor_role"`
	Detail    string    `db:"detail"`
	CreatedAt time.Time `db:"created_at"`
}
