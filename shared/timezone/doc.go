// Package timezone pins every time the application produces to a single
// configured location.
//
// The location comes from the APP_TIMEZONE environment variable (an IANA
// name such as "UTC" or "Europe/Madrid") and is loaded when the package is
// first imported; an unknown name falls back to UTC.
//
//	now := timezone.Now()                   // current time in the app location
//	local := timezone.ToAppTime(someTime)   // shift an arbitrary time into it
//	s := timezone.Format(t, time.RFC3339)   // format in the app location
//	t, err := timezone.Parse(layout, value) // parse assuming the app location
//
// Booking windows, plan validity dates and audit timestamps all go through
// this package so that wall-clock comparisons stay consistent regardless of
// the host's local zone.
package timezone
