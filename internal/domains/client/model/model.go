package model

import (
	"atelier/shared/model"
)

const (
	TableName  = "clients"
	EntityName = "client"

	FieldID          = "id"
	FieldDisplayName = "display_name"
	FieldEmail       = "email"
	FieldPhone       = "phone"
	FieldAuthUserID  = "auth_user_id"
)

// Client is the person a booking belongs to. Kiosk and demo flows may only
// supply a display name, in which case a row is created lazily.
type Client struct {
	ID          string  `db:"id"`
	DisplayName string  `db:"display_name"`
	Email       string  `db:"email"`
	Phone       string  `db:"phone"`
	AuthUserID  *string `db:"auth_user_id"`
	model.Metadata
}
