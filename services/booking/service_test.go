package booking

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	appointmentRepo "medischedule/database/repository/appointment"
	timeslotRepo "medischedule/database/repository/timeslot"
	"medischedule/models"
	"medischedule/services/doctor"
	"medischedule/services/session"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Wednesday.
var fixedNow = time.Date(2025, time.March, 12, 10, 0, 0, 0, time.UTC)

type recordingNotifier struct {
	mu   sync.Mutex
	sent []models.Appointment
	err  error
}

func (n *recordingNotifier) BookingSubmitted(ctx context.Context, appt models.Appointment) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, appt)
	return n.err
}

func newService() (*DefaultBookingService, *appointmentRepo.MemoryAppointmentRepo, *recordingNotifier) {
	repo := appointmentRepo.NewMemoryAppointmentRepo()
	notifier := &recordingNotifier{}
	svc := &DefaultBookingService{
		Repo:     repo,
		Doctors:  doctor.NewDirectory(doctor.SampleDoctors()),
		Notifier: notifier,
		Now:      func() time.Time { return fixedNow },
	}
	return svc, repo, notifier
}

var patient = models.Identity{ID: "p1", Email: "patient@example.com", FirstName: "Jessica", LastName: "Brown", Role: models.RolePatient}

func validRequest() models.BookingRequest {
	return models.BookingRequest{
		DoctorID:  "d1",
		Date:      "2025-03-14",
		Time:      "09:00 AM",
		FirstName: "Jessica",
		LastName:  "Brown",
		Email:     "patient@example.com",
		Reason:    "Chest pain",
	}
}

func bookingCode(t *testing.T, err error) string {
	t.Helper()
	var berr *BookingError
	require.True(t, errors.As(err, &berr), "expected BookingError, got %v", err)
	return berr.Code
}

func TestDaySlots(t *testing.T) {
	saturday := time.Date(2025, time.March, 15, 0, 0, 0, 0, time.UTC)
	weekend := DaySlots(saturday)
	require.Len(t, weekend, 3)
	assert.Equal(t, models.BookingSlot{ID: "12:00 PM", Time: "12:00 PM", Available: false}, weekend[2])

	weekday := DaySlots(fixedNow)
	require.Len(t, weekday, 7)
	var free []string
	for _, s := range weekday {
		if s.Available {
			free = append(free, s.Time)
		}
	}
	assert.Equal(t, []string{"09:00 AM", "10:00 AM", "01:00 PM", "02:00 PM", "04:00 PM"}, free)
}

func TestWithinWindow(t *testing.T) {
	assert.True(t, WithinWindow(fixedNow, fixedNow))
	assert.True(t, WithinWindow(fixedNow.AddDate(0, 0, BookingWindowDays), fixedNow))
	assert.False(t, WithinWindow(fixedNow.AddDate(0, 0, BookingWindowDays+1), fixedNow))
	assert.False(t, WithinWindow(fixedNow.AddDate(0, 0, -1), fixedNow))
}

func TestBook(t *testing.T) {
	svc, repo, notifier := newService()
	ctx := context.Background()

	appt, err := svc.Book(ctx, patient, validRequest())
	require.NoError(t, err)
	assert.Equal(t, models.AppointmentPending, appt.Status)
	assert.Equal(t, "Dr. Sarah Johnson", appt.DoctorName)
	assert.Equal(t, "Jessica Brown", appt.PatientName)
	assert.Equal(t, "p1", appt.PatientID)
	assert.NotEmpty(t, appt.ID)

	stored, err := repo.GetByID(ctx, appt.ID)
	require.NoError(t, err)
	assert.Equal(t, appt.Time, stored.Time)
	require.Len(t, notifier.sent, 1)
	assert.Equal(t, appt.ID, notifier.sent[0].ID)

	slots, err := svc.AvailableSlots(ctx, "d1", "2025-03-14")
	require.NoError(t, err)
	assert.False(t, slots[0].Available, "booked time is no longer offered")

	_, err = svc.Book(ctx, patient, validRequest())
	assert.Equal(t, CodeSlotUnavailable, bookingCode(t, err))
}

func TestBookRejections(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*models.BookingRequest)
		code   string
	}{
		{"missing name", func(r *models.BookingRequest) { r.FirstName = " " }, CodeInvalidRequest},
		{"bad email", func(r *models.BookingRequest) { r.Email = "nope" }, CodeInvalidRequest},
		{"email with display name", func(r *models.BookingRequest) { r.Email = "Jessica <patient@example.com>" }, CodeInvalidRequest},
		{"blank time", func(r *models.BookingRequest) { r.Time = "  " }, CodeInvalidRequest},
		{"bad date", func(r *models.BookingRequest) { r.Date = "14/03/2025" }, CodeInvalidRequest},
		{"yesterday", func(r *models.BookingRequest) { r.Date = "2025-03-11" }, CodeOutsideWindow},
		{"too far ahead", func(r *models.BookingRequest) { r.Date = "2025-04-12" }, CodeOutsideWindow},
		{"unknown doctor", func(r *models.BookingRequest) { r.DoctorID = "d99" }, CodeDoctorNotFound},
		{"unavailable time", func(r *models.BookingRequest) { r.Time = "11:00 AM" }, CodeSlotUnavailable},
		{"time not offered", func(r *models.BookingRequest) { r.Time = "07:00 AM" }, CodeSlotUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _, notifier := newService()
			req := validRequest()
			tt.modify(&req)
			_, err := svc.Book(context.Background(), patient, req)
			assert.Equal(t, tt.code, bookingCode(t, err))
			assert.Empty(t, notifier.sent)
		})
	}
}

func TestBookMissingFieldsReported(t *testing.T) {
	svc, _, _ := newService()
	_, err := svc.Book(context.Background(), patient, models.BookingRequest{DoctorID: "d1"})
	var berr *BookingError
	require.ErrorAs(t, err, &berr)
	assert.Len(t, berr.Fields, 5)
	assert.Equal(t, "required", berr.Fields["email"])
}

func TestBookCancelled(t *testing.T) {
	svc, repo, notifier := newService()
	svc.SubmitLatency = time.Minute

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		_, err := svc.Book(ctx, patient, validRequest())
		done <- err
	}()
	cancel()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(5 * time.Second):
		t.Fatal("booking did not stop after cancellation")
	}

	all, err := repo.ListByPatient(context.Background(), "p1")
	require.NoError(t, err)
	assert.Empty(t, all)
	assert.Empty(t, notifier.sent)
}

func TestNotifierFailureKeepsBooking(t *testing.T) {
	svc, repo, notifier := newService()
	notifier.err = errors.New("queue down")

	appt, err := svc.Book(context.Background(), patient, validRequest())
	require.NoError(t, err)
	_, err = repo.GetByID(context.Background(), appt.ID)
	assert.NoError(t, err)
}

func seededService(t *testing.T) *DefaultBookingService {
	t.Helper()
	svc, repo, _ := newService()
	users := session.SampleUsers()
	appts := SampleAppointments(svc.Doctors, users[models.RoleDoctor], users[models.RolePatient], fixedNow)
	added, err := SeedAppointments(context.Background(), repo, appts)
	require.NoError(t, err)
	require.Equal(t, len(appts), added)
	return svc
}

func TestSeedAppointmentsIdempotent(t *testing.T) {
	svc, repo, _ := newService()
	users := session.SampleUsers()
	appts := SampleAppointments(svc.Doctors, users[models.RoleDoctor], users[models.RolePatient], fixedNow)

	first, err := SeedAppointments(context.Background(), repo, appts)
	require.NoError(t, err)
	assert.Equal(t, 12, first)

	again, err := SeedAppointments(context.Background(), repo, appts)
	require.NoError(t, err)
	assert.Zero(t, again)
}

func TestDoctorAppointments(t *testing.T) {
	svc := seededService(t)
	ctx := context.Background()

	lists, err := svc.DoctorAppointments(ctx, "d1", models.AppointmentFilter{Status: "all"})
	require.NoError(t, err)
	// a1..a4, a8 and the demo patient's b1.
	assert.Len(t, lists.Upcoming, 6)
	assert.Len(t, lists.Past, 3)
	assert.Equal(t, "Anu Oloride", lists.Upcoming[0].PatientName)
	assert.Equal(t, "Michael Kanu", lists.Upcoming[1].PatientName)
	assert.Equal(t, "Emily Arinze", lists.Past[0].PatientName, "most recent first")

	lists, err = svc.DoctorAppointments(ctx, "d1", models.AppointmentFilter{Status: "Pending"})
	require.NoError(t, err)
	require.Len(t, lists.Upcoming, 2)
	for _, a := range lists.Upcoming {
		assert.Equal(t, models.AppointmentPending, a.Status)
	}
	assert.Len(t, lists.Past, 3, "status filter leaves the past list alone")

	lists, err = svc.DoctorAppointments(ctx, "d1", models.AppointmentFilter{Search: "ACHEBE"})
	require.NoError(t, err)
	assert.Empty(t, lists.Upcoming)
	require.Len(t, lists.Past, 1)
	assert.Equal(t, models.AppointmentCancelled, lists.Past[0].Status)

	_, err = svc.DoctorAppointments(ctx, "d1", models.AppointmentFilter{Status: "rescheduled"})
	assert.Equal(t, CodeInvalidRequest, bookingCode(t, err))
}

func TestPatientAppointments(t *testing.T) {
	svc := seededService(t)

	lists, err := svc.PatientAppointments(context.Background(), "p1")
	require.NoError(t, err)
	require.Len(t, lists.Upcoming, 2)
	require.Len(t, lists.Past, 2)
	assert.Equal(t, "Main Hospital, Room 302", lists.Upcoming[0].Location)
	assert.Equal(t, "Children's Medical Center", lists.Past[0].Location)
}

func TestUpdateStatus(t *testing.T) {
	tests := []struct {
		id      string
		to      models.AppointmentStatus
		allowed bool
	}{
		{"a4", models.AppointmentConfirmed, true},
		{"a8", models.AppointmentCancelled, true},
		{"a1", models.AppointmentCompleted, true},
		{"a2", models.AppointmentCancelled, true},
		{"a4", models.AppointmentCompleted, false},
		{"a1", models.AppointmentPending, false},
		{"a5", models.AppointmentConfirmed, false},
		{"a7", models.AppointmentPending, false},
	}

	for _, tt := range tests {
		t.Run(tt.id+"->"+string(tt.to), func(t *testing.T) {
			svc := seededService(t)
			appt, err := svc.UpdateStatus(context.Background(), "d1", tt.id, tt.to)
			if tt.allowed {
				require.NoError(t, err)
				assert.Equal(t, tt.to, appt.Status)
				return
			}
			assert.ErrorIs(t, err, ErrInvalidTransition)
		})
	}
}

func TestUpdateStatusForeignAppointment(t *testing.T) {
	svc := seededService(t)

	_, err := svc.UpdateStatus(context.Background(), "d2", "a1", models.AppointmentConfirmed)
	assert.ErrorIs(t, err, ErrAppointmentNotFound)

	_, err = svc.UpdateStatus(context.Background(), "d1", "missing", models.AppointmentConfirmed)
	assert.ErrorIs(t, err, ErrAppointmentNotFound)
}

// racingRepo applies a competing status change right after each read.
type racingRepo struct {
	*appointmentRepo.MemoryAppointmentRepo
	to models.AppointmentStatus
}

func (r *racingRepo) GetByID(ctx context.Context, id string) (*models.Appointment, error) {
	appt, err := r.MemoryAppointmentRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := r.MemoryAppointmentRepo.UpdateStatus(ctx, id, appt.Status, r.to); err != nil {
		return nil, err
	}
	return appt, nil
}

func TestUpdateStatusLosesRace(t *testing.T) {
	svc := seededService(t)
	mem := svc.Repo.(*appointmentRepo.MemoryAppointmentRepo)
	svc.Repo = &racingRepo{MemoryAppointmentRepo: mem, to: models.AppointmentCancelled}
	ctx := context.Background()

	// a1 is confirmed; a cancellation lands before the completion is written.
	_, err := svc.UpdateStatus(ctx, "d1", "a1", models.AppointmentCompleted)
	assert.ErrorIs(t, err, ErrInvalidTransition)

	stored, err := mem.GetByID(ctx, "a1")
	require.NoError(t, err)
	assert.Equal(t, models.AppointmentCancelled, stored.Status)
}

func TestBookTrimsForm(t *testing.T) {
	svc, _, _ := newService()
	req := validRequest()
	req.Email = " patient@example.com "
	req.FirstName = " Jessica"

	appt, err := svc.Book(context.Background(), patient, req)
	require.NoError(t, err)
	assert.Equal(t, "patient@example.com", appt.PatientEmail)
	assert.Equal(t, "Jessica Brown", appt.PatientName)
}

func TestBookInvalidEmailReported(t *testing.T) {
	svc, _, _ := newService()
	req := validRequest()
	req.Email = "nope"

	_, err := svc.Book(context.Background(), patient, req)
	var berr *BookingError
	require.ErrorAs(t, err, &berr)
	assert.Equal(t, map[string]string{"email": "invalid email address"}, berr.Fields)
}

func TestClosedDayOffersNoTimes(t *testing.T) {
	svc, _, _ := newService()
	grid := timeslotRepo.NewMemoryTimeSlotRepo()
	svc.Grid = grid
	ctx := context.Background()

	_, err := grid.CreateMany(ctx, []models.TimeSlot{
		{ID: "g1", DoctorID: "d1", Date: "2025-03-14", StartTime: "09:00 AM", EndTime: "12:00 PM", Status: models.SlotUnavailable},
		{ID: "g2", DoctorID: "d1", Date: "2025-03-14", StartTime: "01:00 PM", EndTime: "05:00 PM", Status: models.SlotUnavailable},
	})
	require.NoError(t, err)

	slots, err := svc.AvailableSlots(ctx, "d1", "2025-03-14")
	require.NoError(t, err)
	for _, s := range slots {
		assert.False(t, s.Available, s.Time)
	}
	_, err = svc.Book(ctx, patient, validRequest())
	assert.Equal(t, CodeSlotUnavailable, bookingCode(t, err))

	other, err := svc.AvailableSlots(ctx, "d2", "2025-03-14")
	require.NoError(t, err)
	assert.True(t, other[0].Available, "another doctor's grid does not apply")

	_, err = grid.CreateMany(ctx, []models.TimeSlot{
		{ID: "g3", DoctorID: "d1", Date: "2025-03-14", StartTime: "03:00 PM", EndTime: "04:00 PM", Status: models.SlotTentative},
	})
	require.NoError(t, err)
	slots, err = svc.AvailableSlots(ctx, "d1", "2025-03-14")
	require.NoError(t, err)
	assert.True(t, slots[0].Available, "one open grid slot reopens the day")
}
