package model

import (
	"time"
)

const (
	UsageTableName  = "plan_usages"
	UsageEntityName = "plan_usage"

	UsageFieldID             = "id"
	UsageFieldPlanPurchaseID = "plan_purchase_id"
	UsageFieldBookingID      = "booking_id"
	UsageFieldSessionID      = "session_id"
	UsageFieldCreditDelta    = "credit_delta"
)

const (
	CreditDeltaAllocate = 1
	CreditDeltaRefund   = -1
)

// PlanUsage is an append-only ledger row tying a credit movement to a
// booking. Rows are never updated; reconciliation sums the deltas.
type PlanUsage struct {
	ID             string    `db:"id"`
	PlanPurchaseID string    `db:"plan_purchase_id"`
	BookingID      string    `db:"booking_id"`
	SessionID      string    `db:"session_id"`
	CreditDelta    int       `db:"credit_delta"`
	CreatedAt      time.Time `db:"created_at"`
	CreatedBy      string    `db:"created_by"`
}
