package dto

import (
	"atelier/internal/domains/booking/model"
	"atelier/shared"
	"atelier/shared/constant"
	gDto "atelier/shared/dto"
	gModel "atelier/shared/model"
	"atelier/shared/timezone"

	"github.com/google/uuid"
)

type CreateBookingRequest struct {
	SessionID       string  `json:"session_id"        validate:"required,uuid"`
	ClientID        string  `json:"client_id"         validate:"omitempty,uuid"`
	ClientHint      string  `json:"client_hint"       validate:"omitempty,max=100"`
	PreferredPlanID *string `json:"preferred_plan_id" validate:"omitempty,uuid"`
	Notes           string  `json:"notes"             validate:"omitempty,max=500"`
}

// CreateBookingResult is what a create (or reactivate) hands back. Duplicated
// means the client already held a live booking and nothing changed.
type CreateBookingResult struct {
	BookingID      string  `json:"booking_id"`
	Duplicated     bool    `json:"duplicated,omitempty"`
	Reactivated    bool    `json:"reactivated,omitempty"`
	QrCode         string  `json:"qr_code,omitempty"`
	PlanPurchaseID *string `json:"plan_purchase_id,omitempty"`
	PlanName       string  `json:"plan_name,omitempty"`
}

type CancelBookingRequest struct {
	Notes       string `json:"notes" validate:"omitempty,max=500"`
	ForceRefund bool   `json:"-"`
}

type CancelBookingResult struct {
	BookingID        string `json:"booking_id"`
	Cancelled        bool   `json:"cancelled"`
	AlreadyCancelled bool   `json:"already_cancelled,omitempty"`
	Refunded         bool   `json:"refunded,omitempty"`
}

type RebookBookingRequest struct {
	NewSessionID string `json:"new_session_id" validate:"required,uuid"`
	Notes        string `json:"notes"          validate:"omitempty,max=500"`
}

type RebookBookingResult struct {
	BookingID      string  `json:"booking_id"`
	RebookedFrom   string  `json:"rebooked_from"`
	QrCode         string  `json:"qr_code,omitempty"`
	PlanPurchaseID *string `json:"plan_purchase_id,omitempty"`
	PlanName       string  `json:"plan_name,omitempty"`
}

// NewBooking builds a fresh CONFIRMED row for the (session, client) pair.
func NewBooking(sessionID, clientID, notes, user string, preferredFrom *string) model.Booking {
	now := timezone.Now()

	return model.Booking{
		ID:                    uuid.NewString(),
		SessionID:             sessionID,
		ClientID:              clientID,
		Status:                model.StatusConfirmed,
		ReservedAt:            now,
		RebookedFromBookingID: preferredFrom,
		Notes:                 notes,
		Metadata: gModel.Metadata{
			CreatedAt:  now,
			ModifiedAt: now,
			CreatedBy:  user,
			ModifiedBy: user,
		},
	}
}

type BookingResponse struct {
	ID                    string  `json:"id"`
	SessionID             string  `json:"session_id"`
	ClientID              string  `json:"client_id"`
	Status                string  `json:"status"`
	PlanPurchaseID        *string `json:"plan_purchase_id,omitempty"`
	ReservedAt            string  `json:"reserved_at"`
	CancelledAt           *string `json:"cancelled_at,omitempty"`
	CancelledBy           *string `json:"cancelled_by,omitempty"`
	RebookedFromBookingID *string `json:"rebooked_from_booking_id,omitempty"`
	Notes                 string  `json:"notes,omitempty"`
	gDto.Metadata
}

func (r *BookingResponse) FromModel(mod model.Booking) {
	r.ID = mod.ID
	r.SessionID = mod.SessionID
	r.ClientID = mod.ClientID
	r.Status = mod.Status
	r.PlanPurchaseID = mod.PlanPurchaseID
	r.ReservedAt = timezone.Format(mod.ReservedAt, constant.DateFormat)
	r.Notes = mod.Notes

	if mod.CancelledAt != nil {
		cancelledAt := timezone.Format(*mod.CancelledAt, constant.DateFormat)
		r.CancelledAt = &cancelledAt
	}

	r.CancelledBy = mod.CancelledBy
	r.RebookedFromBookingID = mod.RebookedFromBookingID
	r.Metadata.FromModel(mod.Metadata)
}

type GetBookingsResponse struct {
	Bookings  []BookingResponse `json:"bookings"`
	TotalPage int               `json:"total_page"`
	TotalData int               `json:"total_data"`
}

func (r *GetBookingsResponse) FromModels(models []model.Booking, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Bookings = make([]BookingResponse, len(models))
	for i, mod := range models {
		r.Bookings[i].FromModel(mod)
	}
}
