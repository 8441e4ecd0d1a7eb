package model

import (
	"time"

	"atelier/shared/model"
)

const (
	TableName  = "plan_purchases"
	EntityName = "plan_purchase"

	FieldID               = "id"
	FieldClientID         = "client_id"
	FieldName             = "name"
	FieldModality         = "modality"
	FieldCategory         = "category"
	FieldRemainingClasses = "remaining_classes"
	FieldStartsOn         = "starts_on"
	FieldExpiresAt        = "expires_at"
	FieldStatus           = "status"
	FieldAppOnly          = "app_only"
)

const (
	ModalityFixed    = "FIXED"
	ModalityFlexible = "FLEXIBLE"

	StatusActive = "ACTIVE"
)

// PlanPurchase is a client's purchased bundle of class credits.
// RemainingClasses nil means unlimited access; Category nil means the plan
// covers any session category. Remaining credits are only ever decremented
// through a compare-and-swap so concurrent bookings cannot overspend.
type PlanPurchase struct {
	ID               string     `db:"id"`
	ClientID         string     `db:"client_id"`
	Name             string     `db:"name"`
	Modality         string     `db:"modality"`
	Category         *string    `db:"category"`
	RemainingClasses *int       `db:"remaining_classes"`
	StartsOn         time.Time  `db:"starts_on"`
	ExpiresAt        *time.Time `db:"expires_at"`
	Status           string     `db:"status"`
	AppOnly          bool       `db:"app_only"`
	model.Metadata
}
