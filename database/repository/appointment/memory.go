package appointmentRepo

import (
	"context"
	"sync"
	"time"

	"medischedule/models"
)

// MemoryAppointmentRepo keeps appointments in process memory.
type MemoryAppointmentRepo struct {
	mu    sync.RWMutex
	items []models.Appointment
}

func NewMemoryAppointmentRepo() *MemoryAppointmentRepo {
	return &MemoryAppointmentRepo{}
}

func (r *MemoryAppointmentRepo) Create(ctx context.Context, appt *models.Appointment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if appt.Status.Active() {
		for _, existing := range r.items {
			if existing.DoctorID == appt.DoctorID && existing.Date == appt.Date &&
				existing.Time == appt.Time && existing.Status.Active() {
				return ErrSlotTaken
			}
		}
	}
	if appt.CreatedAt.IsZero() {
		appt.CreatedAt = time.Now()
	}
	r.items = append(r.items, *appt)
	return nil
}

func (r *MemoryAppointmentRepo) GetByID(ctx context.Context, id string) (*models.Appointment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, appt := range r.items {
		if appt.ID == id {
			found := appt
			return &found, nil
		}
	}
	return nil, ErrAppointmentNotFound
}

func (r *MemoryAppointmentRepo) ListByDoctor(ctx context.Context, doctorID string) ([]models.Appointment, error) {
	return r.filter(func(a models.Appointment) bool { return a.DoctorID == doctorID }), nil
}

func (r *MemoryAppointmentRepo) ListByPatient(ctx context.Context, patientID string) ([]models.Appointment, error) {
	return r.filter(func(a models.Appointment) bool { return a.PatientID == patientID }), nil
}

func (r *MemoryAppointmentRepo) UpdateStatus(ctx context.Context, id string, from, to models.AppointmentStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.items {
		if r.items[i].ID != id {
			continue
		}
		if r.items[i].Status != from {
			return ErrStatusChanged
		}
		r.items[i].Status = to
		return nil
	}
	return ErrAppointmentNotFound
}

func (r *MemoryAppointmentRepo) ActiveTimes(ctx context.Context, doctorID, date string) ([]string, error) {
	var times []string
	for _, appt := range r.filter(func(a models.Appointment) bool {
		return a.DoctorID == doctorID && a.Date == date && a.Status.Active()
	}) {
		times = append(times, appt.Time)
	}
	return times, nil
}

func (r *MemoryAppointmentRepo) filter(keep func(models.Appointment) bool) []models.Appointment {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []models.Appointment
	for _, appt := range r.items {
		if keep(appt) {
			out = append(out, appt)
		}
	}
	return out
}
