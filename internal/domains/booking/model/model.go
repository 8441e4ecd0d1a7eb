package model

import (
	"time"

	"atelier/shared/model"
)

const (
	TableName  = "bookings"
	EntityName = "booking"

	FieldID                    = "id"
	FieldSessionID             = "session_id"
	FieldClientID              = "client_id"
	FieldStatus                = "status"
	FieldPlanPurchaseID        = "plan_purchase_id"
	FieldReservedAt            = "reserved_at"
	FieldCancelledAt           = "cancelled_at"
	FieldCancelledBy           = "cancelled_by"
	FieldRebookedFromBookingID = "rebooked_from_booking_id"
	FieldNotes                 = "notes"
)

const (
	StatusConfirmed = "CONFIRMED"
	StatusCancelled = "CANCELLED"
)

// Booking holds a client's seat in a session. There is at most one row per
// (session, client) pair: cancelling keeps the row, and booking again
// reactivates it in place so the id stays stable across rebook chains.
type Booking struct {
	ID                    string     `db:"id"`
	SessionID             string     `db:"session_id"`
	ClientID              string     `db:"client_id"`
	Status                string     `db:"status"`
	PlanPurchaseID        *string    `db:"plan_purchase_id"`
	ReservedAt            time.Time  `db:"reserved_at"`
	CancelledAt           *time.Time `db:"cancelled_at"`
	CancelledBy           *string    `db:"cancelled_by"`
	RebookedFromBookingID *string    `db:"rebooked_from_booking_id"`
	Notes                 string     `db:"notes"`
	model.Metadata
}
