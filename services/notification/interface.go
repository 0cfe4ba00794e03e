package notification

import (
	"context"

	"medischedule/models"
)

// TypeAppointmentSubmitted is the asynq task type for new booking requests.
const TypeAppointmentSubmitted = "appointment:submitted"

// Notifier announces booking events to the doctor's side.
type Notifier interface {
	BookingSubmitted(ctx context.Context, appt models.Appointment) error
}

// AppointmentPayload is the queued form of a submitted booking.
type AppointmentPayload struct {
	AppointmentID string `json:"appointmentId"`
	DoctorID      string `json:"doctorId"`
	DoctorName    string `json:"doctorName"`
	PatientName   string `json:"patientName"`
	PatientEmail  string `json:"patientEmail"`
	Date          string `json:"date"`
	Time          string `json:"time"`
	Reason        string `json:"reason"`
}

// PayloadFor copies the fields a notification needs out of appt.
func PayloadFor(appt models.Appointment) AppointmentPayload {
	return AppointmentPayload{
		AppointmentID: appt.ID,
		DoctorID:      appt.DoctorID,
		DoctorName:    appt.DoctorName,
		PatientName:   appt.PatientName,
		PatientEmail:  appt.PatientEmail,
		Date:          appt.Date,
		Time:          appt.Time,
		Reason:        appt.Reason,
	}
}
