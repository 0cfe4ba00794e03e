package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	appointmentRepo "medischedule/database/repository/appointment"
	"medischedule/models"
	"medischedule/services/doctor"
	"medischedule/utils"
)

type sample struct {
	id, patientID, patient, email string
	dayOffset                     int
	time, duration, reason        string
	status                        models.AppointmentStatus
	notes                         string
}

const followUpNote = "Patient reported improvement in symptoms. Continue current medication."

// Demo patients on the first demo doctor's list.
var doctorSamples = []sample{
	{"a1", "P-1001", "Anu Oloride", "anu.oloride@example.com", 0, "09:00 AM", "30 min", "Annual checkup", models.AppointmentConfirmed, ""},
	{"a2", "P-1002", "Michael Kanu", "michael.kanu@example.com", 0, "10:00 AM", "30 min", "Follow-up consultation", models.AppointmentConfirmed, ""},
	{"a3", "P-1003", "Sarah Aliyu", "sarah.aliyu@example.com", 1, "01:00 PM", "30 min", "Blood pressure review", models.AppointmentConfirmed, ""},
	{"a4", "P-1004", "David Chidebere", "david.chidebere@example.com", 2, "09:00 AM", "60 min", "New patient consultation", models.AppointmentPending, ""},
	{"a5", "P-1005", "Emily Arinze", "emily.arinze@example.com", -3, "02:00 PM", "30 min", "Chest pain follow-up", models.AppointmentCompleted, followUpNote},
	{"a6", "P-1006", "Robert Kiyosaki", "robert.kiyosaki@example.com", -5, "10:00 AM", "30 min", "Medication review", models.AppointmentCompleted, followUpNote},
	{"a7", "P-1007", "Jennifer Achebe", "jennifer.achebe@example.com", -7, "04:00 PM", "30 min", "Heart palpitations", models.AppointmentCancelled, ""},
	{"a8", "P-1008", "Thomas Madueke", "thomas.madueke@example.com", 3, "02:00 PM", "30 min", "Annual physical", models.AppointmentPending, ""},
}

// Demo history of the demo patient across several doctors.
var patientSamples = []struct {
	id, doctorID, location string
	dayOffset              int
	time, reason           string
	status                 models.AppointmentStatus
	notes                  string
}{
	{"b1", "d1", "Main Hospital, Room 302", 4, "10:00 AM", "Heart checkup", models.AppointmentConfirmed, ""},
	{"b2", "d2", "Dermatology Clinic, Suite 5", 6, "01:00 PM", "Skin rash consultation", models.AppointmentPending, ""},
	{"b3", "d3", "Children's Medical Center", -10, "09:00 AM", "Child vaccination", models.AppointmentCompleted, "Vaccinations up to date."},
	{"b4", "d4", "Orthopedic Specialists, Room 110", -20, "02:00 PM", "Knee pain", models.AppointmentCancelled, ""},
}

// SampleAppointments builds the demo appointments with dates relative to now.
func SampleAppointments(doctors doctor.DirectoryService, doctorIdentity, patientIdentity models.Identity, now time.Time) []models.Appointment {
	day := func(offset int) string { return now.AddDate(0, 0, offset).Format(utils.DateLayout) }

	var out []models.Appointment
	if doc, err := doctors.Get(doctorIdentity.ID); err == nil {
		for _, s := range doctorSamples {
			out = append(out, models.Appointment{
				ID:           s.id,
				DoctorID:     doc.ID,
				DoctorName:   doc.Name,
				Specialty:    doc.Specialization,
				PatientID:    s.patientID,
				PatientName:  s.patient,
				PatientEmail: s.email,
				Date:         day(s.dayOffset),
				Time:         s.time,
				Duration:     s.duration,
				Reason:       s.reason,
				Location:     doc.Location,
				Status:       s.status,
				Notes:        s.notes,
				CreatedAt:    now,
			})
		}
	}
	for _, s := range patientSamples {
		doc, err := doctors.Get(s.doctorID)
		if err != nil {
			continue
		}
		out = append(out, models.Appointment{
			ID:           s.id,
			DoctorID:     doc.ID,
			DoctorName:   doc.Name,
			Specialty:    doc.Specialization,
			PatientID:    patientIdentity.ID,
			PatientName:  patientIdentity.FullName(),
			PatientEmail: patientIdentity.Email,
			Date:         day(s.dayOffset),
			Time:         s.time,
			Duration:     defaultDuration,
			Reason:       s.reason,
			Location:     s.location,
			Status:       s.status,
			Notes:        s.notes,
			CreatedAt:    now,
		})
	}
	return out
}

// SeedAppointments stores the demo appointments, skipping any already present.
func SeedAppointments(ctx context.Context, repo appointmentRepo.AppointmentRepository, appts []models.Appointment) (int, error) {
	added := 0
	for i := range appts {
		_, err := repo.GetByID(ctx, appts[i].ID)
		if err == nil {
			continue
		}
		if !errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
			return added, fmt.Errorf("failed to check appointment %s: %w", appts[i].ID, err)
		}
		if err := repo.Create(ctx, &appts[i]); err != nil {
			if errors.Is(err, appointmentRepo.ErrSlotTaken) {
				continue
			}
			return added, fmt.Errorf("failed to seed appointment %s: %w", appts[i].ID, err)
		}
		added++
	}
	return added, nil
}
