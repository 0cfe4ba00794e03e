package booking

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	appointmentRepo "medischedule/database/repository/appointment"
	timeslotRepo "medischedule/database/repository/timeslot"
	"medischedule/models"
	"medischedule/services/doctor"
	"medischedule/services/notification"
	"medischedule/services/schedule"
	"medischedule/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const defaultDuration = "30 min"

// BookingService covers the patient booking flow and both appointment lists.
type BookingService interface {
	AvailableSlots(ctx context.Context, doctorID, date string) ([]models.BookingSlot, error)
	Book(ctx context.Context, patient models.Identity, req models.BookingRequest) (*models.Appointment, error)
	DoctorAppointments(ctx context.Context, doctorID string, filter models.AppointmentFilter) (*models.AppointmentLists, error)
	PatientAppointments(ctx context.Context, patientID string) (*models.AppointmentLists, error)
	UpdateStatus(ctx context.Context, doctorID, appointmentID string, status models.AppointmentStatus) (*models.Appointment, error)
}

type DefaultBookingService struct {
	Repo     appointmentRepo.AppointmentRepository
	// Grid is the doctors' availability grid. A day whose slots are all
	// unavailable offers no booking times. Optional.
	Grid     timeslotRepo.TimeSlotRepository
	Doctors  doctor.DirectoryService
	Notifier notification.Notifier

	// SlotLatency and SubmitLatency simulate the backend round trip.
	SlotLatency   time.Duration
	SubmitLatency time.Duration

	Now func() time.Time
}

func (s *DefaultBookingService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// AvailableSlots lists the times offered on date with booked times marked unavailable.
func (s *DefaultBookingService) AvailableSlots(ctx context.Context, doctorID, date string) ([]models.BookingSlot, error) {
	if _, err := s.Doctors.Get(doctorID); err != nil {
		return nil, newBookingError(CodeDoctorNotFound, "Doctor not found")
	}
	day, err := time.ParseInLocation(utils.DateLayout, date, s.now().Location())
	if err != nil {
		return nil, &BookingError{
			Code:    CodeInvalidRequest,
			Message: "Please select a valid date",
			Fields:  map[string]string{"date": "must be YYYY-MM-DD"},
		}
	}

	if err := wait(ctx, s.SlotLatency); err != nil {
		return nil, err
	}

	return s.daySlots(ctx, doctorID, date, day)
}

// daySlots is DaySlots for one doctor, with booked times and closed days marked unavailable.
func (s *DefaultBookingService) daySlots(ctx context.Context, doctorID, date string, day time.Time) ([]models.BookingSlot, error) {
	slots := DaySlots(day)
	taken, err := s.Repo.ActiveTimes(ctx, doctorID, date)
	if err != nil {
		return nil, fmt.Errorf("failed to load booked times: %w", err)
	}
	markTaken(slots, taken)

	closed, err := s.closedDay(ctx, doctorID, date)
	if err != nil {
		return nil, err
	}
	if closed {
		for i := range slots {
			slots[i].Available = false
		}
	}
	return slots, nil
}

func (s *DefaultBookingService) closedDay(ctx context.Context, doctorID, date string) (bool, error) {
	if s.Grid == nil {
		return false, nil
	}
	grid, err := s.Grid.GetByDoctorIDAndDate(ctx, doctorID, date)
	if err != nil {
		return false, fmt.Errorf("failed to load doctor schedule: %w", err)
	}
	if len(grid) == 0 {
		return false, nil
	}
	for _, slot := range grid {
		if slot.Status != models.SlotUnavailable {
			return false, nil
		}
	}
	return true, nil
}

// Book stores a pending appointment for patient and notifies the doctor.
func (s *DefaultBookingService) Book(ctx context.Context, patient models.Identity, req models.BookingRequest) (*models.Appointment, error) {
	logger := utils.GetLogger()

	// 1. Validate the form
	if berr := validateRequest(req); berr != nil {
		return nil, berr
	}
	now := s.now()
	day, err := time.ParseInLocation(utils.DateLayout, req.Date, now.Location())
	if err != nil {
		return nil, &BookingError{
			Code:    CodeInvalidRequest,
			Message: "Please select a valid date",
			Fields:  map[string]string{"date": "must be YYYY-MM-DD"},
		}
	}
	if !WithinWindow(day, now) {
		return nil, newBookingError(CodeOutsideWindow,
			fmt.Sprintf("Appointments can be booked up to %d days ahead", BookingWindowDays))
	}

	// 2. Resolve the doctor
	doc, err := s.Doctors.Get(req.DoctorID)
	if err != nil {
		return nil, newBookingError(CodeDoctorNotFound, "Doctor not found")
	}

	// 3. Check the requested time is offered and free
	slots, err := s.daySlots(ctx, doc.ID, req.Date, day)
	if err != nil {
		return nil, err
	}
	if !offered(slots, req.Time) {
		return nil, newBookingError(CodeSlotUnavailable, "The selected time is no longer available")
	}

	if err := wait(ctx, s.SubmitLatency); err != nil {
		return nil, err
	}

	// 4. Persist as pending
	appt := &models.Appointment{
		ID:           uuid.NewString(),
		DoctorID:     doc.ID,
		DoctorName:   doc.Name,
		Specialty:    doc.Specialization,
		PatientID:    patient.ID,
		PatientName:  strings.TrimSpace(req.FirstName) + " " + strings.TrimSpace(req.LastName),
		PatientEmail: strings.TrimSpace(req.Email),
		PatientPhone: strings.TrimSpace(req.Phone),
		Date:         req.Date,
		Time:         req.Time,
		Duration:     defaultDuration,
		Reason:       strings.TrimSpace(req.Reason),
		Location:     doc.Location,
		Status:       models.AppointmentPending,
		CreatedAt:    now,
	}
	if err := s.Repo.Create(ctx, appt); err != nil {
		if errors.Is(err, appointmentRepo.ErrSlotTaken) {
			return nil, newBookingError(CodeSlotUnavailable, "The selected time is no longer available")
		}
		return nil, fmt.Errorf("failed to save appointment: %w", err)
	}

	// 5. Notify; a failed notification does not undo the booking
	if s.Notifier != nil {
		if err := s.Notifier.BookingSubmitted(ctx, *appt); err != nil {
			logger.Warn("Booking notification failed", zap.String("appointmentId", appt.ID), zap.Error(err))
		}
	}

	logger.Info("Appointment requested",
		zap.String("appointmentId", appt.ID),
		zap.String("doctorId", appt.DoctorID),
		zap.String("date", appt.Date),
		zap.String("time", appt.Time))
	return appt, nil
}

// validateRequest runs the form's binding tags on trimmed values.
func validateRequest(req models.BookingRequest) *BookingError {
	req.DoctorID = strings.TrimSpace(req.DoctorID)
	req.Date = strings.TrimSpace(req.Date)
	req.Time = strings.TrimSpace(req.Time)
	req.FirstName = strings.TrimSpace(req.FirstName)
	req.LastName = strings.TrimSpace(req.LastName)
	req.Email = strings.TrimSpace(req.Email)

	err := utils.ValidateStruct(&req)
	if err == nil {
		return nil
	}
	berr := &BookingError{Code: CodeInvalidRequest, Message: "Please complete the required fields", Fields: map[string]string{}}
	fields, ok := utils.AsFieldErrors(err)
	if !ok {
		berr.Message = err.Error()
		return berr
	}
	for _, fe := range fields {
		switch fe.Tag() {
		case "required":
			berr.Fields[fe.Field()] = "required"
		case "email":
			berr.Fields[fe.Field()] = "invalid email address"
		default:
			berr.Fields[fe.Field()] = fe.Error()
		}
	}
	return berr
}

func offered(slots []models.BookingSlot, t string) bool {
	for _, s := range slots {
		if s.Time == t {
			return s.Available
		}
	}
	return false
}

// DoctorAppointments splits a doctor's appointments into upcoming and past.
// The status filter only narrows the upcoming list.
func (s *DefaultBookingService) DoctorAppointments(ctx context.Context, doctorID string, filter models.AppointmentFilter) (*models.AppointmentLists, error) {
	var status models.AppointmentStatus
	if f := strings.TrimSpace(filter.Status); f != "" && !strings.EqualFold(f, "all") {
		st, ok := models.ParseAppointmentStatus(f)
		if !ok {
			return nil, &BookingError{
				Code:    CodeInvalidRequest,
				Message: "Unknown status filter",
				Fields:  map[string]string{"status": "must be all, pending, confirmed, completed or cancelled"},
			}
		}
		status = st
	}

	all, err := s.Repo.ListByDoctor(ctx, doctorID)
	if err != nil {
		return nil, fmt.Errorf("failed to load appointments: %w", err)
	}

	search := strings.ToLower(strings.TrimSpace(filter.Search))
	lists := s.split(all)
	lists.Upcoming = keep(lists.Upcoming, func(a models.Appointment) bool {
		return matchesName(a, search) && (status == "" || a.Status == status)
	})
	lists.Past = keep(lists.Past, func(a models.Appointment) bool {
		return matchesName(a, search)
	})
	return lists, nil
}

func (s *DefaultBookingService) PatientAppointments(ctx context.Context, patientID string) (*models.AppointmentLists, error) {
	all, err := s.Repo.ListByPatient(ctx, patientID)
	if err != nil {
		return nil, fmt.Errorf("failed to load appointments: %w", err)
	}
	return s.split(all), nil
}

var transitions = map[models.AppointmentStatus][]models.AppointmentStatus{
	models.AppointmentPending:   {models.AppointmentConfirmed, models.AppointmentCancelled},
	models.AppointmentConfirmed: {models.AppointmentCompleted, models.AppointmentCancelled},
}

// CanTransition reports whether an appointment may move from one status to another.
func CanTransition(from, to models.AppointmentStatus) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// UpdateStatus moves one of the doctor's appointments to status.
func (s *DefaultBookingService) UpdateStatus(ctx context.Context, doctorID, appointmentID string, status models.AppointmentStatus) (*models.Appointment, error) {
	appt, err := s.Repo.GetByID(ctx, appointmentID)
	if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
		return nil, ErrAppointmentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load appointment: %w", err)
	}
	if appt.DoctorID != doctorID {
		return nil, ErrAppointmentNotFound
	}
	if !CanTransition(appt.Status, status) {
		return nil, fmt.Errorf("%w: %s to %s", ErrInvalidTransition, appt.Status, status)
	}

	err = s.Repo.UpdateStatus(ctx, appt.ID, appt.Status, status)
	switch {
	case errors.Is(err, appointmentRepo.ErrStatusChanged):
		return nil, fmt.Errorf("%w: %s changed before moving to %s", ErrInvalidTransition, appt.ID, status)
	case errors.Is(err, appointmentRepo.ErrAppointmentNotFound):
		return nil, ErrAppointmentNotFound
	case err != nil:
		return nil, fmt.Errorf("failed to update appointment: %w", err)
	}
	appt.Status = status
	utils.GetLogger().Info("Appointment status changed",
		zap.String("appointmentId", appt.ID),
		zap.String("status", string(status)))
	return appt, nil
}

// split sorts appointments into upcoming (soonest first) and past (latest first).
func (s *DefaultBookingService) split(all []models.Appointment) *models.AppointmentLists {
	today := s.now().Format(utils.DateLayout)
	lists := &models.AppointmentLists{
		Upcoming: []models.Appointment{},
		Past:     []models.Appointment{},
	}
	for _, a := range all {
		if a.Status == models.AppointmentCompleted || a.Status == models.AppointmentCancelled || a.Date < today {
			lists.Past = append(lists.Past, a)
		} else {
			lists.Upcoming = append(lists.Upcoming, a)
		}
	}
	sort.SliceStable(lists.Upcoming, func(i, j int) bool { return before(lists.Upcoming[i], lists.Upcoming[j]) })
	sort.SliceStable(lists.Past, func(i, j int) bool { return before(lists.Past[j], lists.Past[i]) })
	return lists
}

func before(a, b models.Appointment) bool {
	if a.Date != b.Date {
		return a.Date < b.Date
	}
	ta, errA := schedule.ParseClock(a.Time)
	tb, errB := schedule.ParseClock(b.Time)
	if errA != nil || errB != nil {
		return a.Time < b.Time
	}
	return ta.Before(tb)
}

func matchesName(a models.Appointment, search string) bool {
	return search == "" || strings.Contains(strings.ToLower(a.PatientName), search)
}

func keep(in []models.Appointment, pred func(models.Appointment) bool) []models.Appointment {
	out := make([]models.Appointment, 0, len(in))
	for _, a := range in {
		if pred(a) {
			out = append(out, a)
		}
	}
	return out
}

func wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
