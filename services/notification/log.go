package notification

import (
	"context"

	"medischedule/models"
	"medischedule/utils"

	"go.uber.org/zap"
)

// LogNotifier writes booking events to the application log.
type LogNotifier struct{}

func (LogNotifier) BookingSubmitted(ctx context.Context, appt models.Appointment) error {
	LogSubmitted(PayloadFor(appt))
	return nil
}

// LogSubmitted records a submitted booking.
func LogSubmitted(p AppointmentPayload) {
	utils.GetLogger().Info("Booking submitted",
		zap.String("appointmentId", p.AppointmentID),
		zap.String("doctorId", p.DoctorID),
		zap.String("doctor", p.DoctorName),
		zap.String("patient", p.PatientName),
		zap.String("email", p.PatientEmail),
		zap.String("date", p.Date),
		zap.String("time", p.Time),
		zap.String("reason", p.Reason),
	)
}
