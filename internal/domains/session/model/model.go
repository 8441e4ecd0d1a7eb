package model

import (
	"time"

	"atelier/shared/model"
)

const (
	TableName   = "class_sessions"
	EntityName  = "session"
	CourseTable = "courses"

	FieldID        = "id"
	FieldCourseID  = "course_id"
	FieldCapacity  = "capacity"
	FieldStartsAt  = "starts_at"
	FieldEndsAt    = "ends_at"
	FieldOccupancy = "occupancy"

	FieldCourseName              = "course_name"
	FieldCategory                = "category"
	FieldBookingWindowDays       = "booking_window_days"
	FieldCancellationWindowHours = "cancellation_window_hours"
)

// Session is a bookable class occurrence. Course-level settings (category,
// booking and cancellation windows) are read through a join so a single
// lookup carries everything the booking rules need. Occupancy is a cached
// count of non-cancelled bookings, resynchronized after every mutation.
type Session struct {
	ID        string    `db:"id"`
	CourseID  *string   `db:"course_id"`
	Capacity  int       `db:"capacity"`
	StartsAt  time.Time `db:"starts_at"`
	EndsAt    time.Time `db:"ends_at"`
	Occupancy int       `db:"occupancy"`

	CourseName              *string `db:"course_name"              table:"courses" column:"name"`
	Category                *string `db:"category"                 table:"courses"`
	BookingWindowDays       *int    `db:"booking_window_days"      table:"courses"`
	CancellationWindowHours *int    `db:"cancellation_window_hours" table:"courses"`

	model.Metadata
}

func (Session) GetJoinQuery() string {
	return "LEFT JOIN courses ON courses.id = class_sessions.course_id"
}
