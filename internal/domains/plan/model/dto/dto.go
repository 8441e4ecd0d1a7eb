package dto

// AllocationSpec describes one allocation attempt: who is spending, which
// session the credit pays for, and the constraints the candidate plans are
// checked against.
type AllocationSpec struct {
	ClientID        string
	SessionID       string
	PreferredPlanID *string
	SessionCategory *string
	StaffActor      bool
}

// AllocatedPlan reports a successful credit spend. PreviousRemaining and
// NewRemaining are nil for unlimited plans.
type AllocatedPlan struct {
	PlanPurchaseID    string
	Name              string
	PreviousRemaining *int
	NewRemaining      *int
	Unlimited         bool
}
