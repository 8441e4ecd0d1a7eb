package model

import (
	"time"
)

const (
	QrTableName  = "qr_tokens"
	QrEntityName = "qr_token"

	QrFieldID        = "id"
	QrFieldBookingID = "booking_id"
	QrFieldCode      = "code"
	QrFieldExpiresAt = "expires_at"
)

// QrToken is the check-in code for a confirmed booking. A booking holds at
// most one token; re-issuing replaces the code and extends the expiry.
type QrToken struct {
	ID        string    `db:"id"`
	BookingID string    `db:"booking_id"`
	Code      string    `db:"code"`
	ExpiresAt time.Time `db:"expires_at"`
	CreatedAt time.Time `db:"created_at"`
}

// Expired reports whether the token can no longer be presented at check-in.
func (q QrToken) Expired(now time.Time) bool {
	return !now.Before(q.ExpiresAt)
}
