package appointmentRepo

import (
	"context"
	"errors"

	"medischedule/models"
)

var (
	// ErrAppointmentNotFound is returned when no appointment has the id.
	ErrAppointmentNotFound = errors.New("appointment not found")
	// ErrSlotTaken is returned when a doctor already has an active appointment at that date and time.
	ErrSlotTaken = errors.New("time slot already booked")
	// ErrStatusChanged is returned when an appointment no longer has the expected status.
	ErrStatusChanged = errors.New("appointment status changed")
)

type AppointmentRepository interface {
	// Create stores a new appointment, failing with ErrSlotTaken on a double booking.
	Create(ctx context.Context, appt *models.Appointment) error
	GetByID(ctx context.Context, id string) (*models.Appointment, error)
	ListByDoctor(ctx context.Context, doctorID string) ([]models.Appointment, error)
	ListByPatient(ctx context.Context, patientID string) ([]models.Appointment, error)
	// UpdateStatus moves an appointment from one status to another, failing
	// with ErrStatusChanged when it is no longer in status from.
	UpdateStatus(ctx context.Context, id string, from, to models.AppointmentStatus) error
	// ActiveTimes lists the times on date held by pending or confirmed appointments.
	ActiveTimes(ctx context.Context, doctorID, date string) ([]string, error)
}
