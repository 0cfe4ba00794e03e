package booking

import (
	"errors"
	"fmt"
)

// Booking failure codes.
const (
	CodeInvalidRequest  = "invalid_request"
	CodeDoctorNotFound  = "doctor_not_found"
	CodeOutsideWindow   = "outside_window"
	CodeSlotUnavailable = "slot_unavailable"
)

// BookingError explains why a booking was refused.
type BookingError struct {
	Code    string
	Message string
	Fields  map[string]string
}

func (e *BookingError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func newBookingError(code, msg string) *BookingError {
	return &BookingError{Code: code, Message: msg}
}

var (
	ErrAppointmentNotFound = errors.New("appointment not found")
	ErrInvalidTransition   = errors.New("status change not allowed")
)
