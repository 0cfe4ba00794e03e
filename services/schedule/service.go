package schedule

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	timeslotRepo "medischedule/database/repository/timeslot"
	"medischedule/models"
	"medischedule/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ScheduleService manages a doctor's availability grid.
type ScheduleService interface {
	Week(ctx context.Context, doctorID string, ref time.Time, offset int) (*models.WeekView, error)
	AddSlot(ctx context.Context, doctorID string, req models.AddSlotRequest) (*models.AddSlotResult, error)
	DeleteSlot(ctx context.Context, doctorID, slotID string) error
	SeedWeek(ctx context.Context, doctorID string, ref time.Time) (int, error)
	SeedAhead(ctx context.Context, doctorID string, now time.Time, weeks int) ([]time.Time, error)
	WeekStartDay() time.Weekday
}

// SlotError reports an invalid field of a slot submission.
type SlotError struct {
	Field   string
	Message string
}

func (e *SlotError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ErrSlotNotFound is returned when deleting a slot the doctor does not own.
var ErrSlotNotFound = timeslotRepo.ErrSlotNotFound

type DefaultScheduleService struct {
	Repo      timeslotRepo.TimeSlotRepository
	WeekStart time.Weekday
	Now       func() time.Time
}

func (s *DefaultScheduleService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s *DefaultScheduleService) WeekStartDay() time.Weekday {
	return s.WeekStart
}

// Week returns the grid for the week containing ref shifted by offset weeks.
func (s *DefaultScheduleService) Week(ctx context.Context, doctorID string, ref time.Time, offset int) (*models.WeekView, error) {
	ref = ShiftWeek(ref, offset)
	days := WeekDays(ref, s.WeekStart)

	slots, err := s.Repo.ListRange(ctx, doctorID, days[0].Format(utils.DateLayout), days[6].Format(utils.DateLayout))
	if err != nil {
		return nil, fmt.Errorf("failed to load slots: %w", err)
	}

	view := BuildWeek(ref, s.WeekStart, slots)
	MarkToday(&view, s.now())
	return &view, nil
}

// AddSlot validates and stores a slot, then reports which day of its week it fills.
func (s *DefaultScheduleService) AddSlot(ctx context.Context, doctorID string, req models.AddSlotRequest) (*models.AddSlotResult, error) {
	logger := utils.GetLogger()

	// 1. Validate the submission
	slot, day, err := slotFromRequest(doctorID, req)
	if err != nil {
		return nil, err
	}
	start, _ := ParseClock(slot.StartTime)
	end, _ := ParseClock(slot.EndTime)
	if !start.Before(end) {
		logger.Warn("Slot ends before it starts",
			zap.String("doctorId", doctorID),
			zap.String("start", slot.StartTime),
			zap.String("end", slot.EndTime))
	}

	// 2. Persist
	slot.ID = uuid.New().String()
	if _, err := s.Repo.CreateMany(ctx, []models.TimeSlot{slot}); err != nil {
		return nil, fmt.Errorf("failed to create slot: %w", err)
	}

	// 3. Locate its bucket in the week it belongs to
	view := BuildWeek(day, s.WeekStart, []models.TimeSlot{slot})
	return &models.AddSlotResult{
		Slot:      slot,
		WeekStart: view.Start,
		DayIndex:  Locate(view, slot.Date),
	}, nil
}

func slotFromRequest(doctorID string, req models.AddSlotRequest) (models.TimeSlot, time.Time, error) {
	day, err := time.ParseInLocation(utils.DateLayout, strings.TrimSpace(req.Date), time.Local)
	if err != nil {
		return models.TimeSlot{}, time.Time{}, &SlotError{Field: "date", Message: "date must be YYYY-MM-DD"}
	}
	if _, err := ParseClock(req.StartTime); err != nil {
		return models.TimeSlot{}, time.Time{}, &SlotError{Field: "startTime", Message: "time must look like 09:00 AM"}
	}
	if _, err := ParseClock(req.EndTime); err != nil {
		return models.TimeSlot{}, time.Time{}, &SlotError{Field: "endTime", Message: "time must look like 05:00 PM"}
	}
	status := models.SlotStatus(strings.ToLower(strings.TrimSpace(req.Status)))
	if status == "" {
		status = models.SlotAvailable
	}
	if !status.Valid() {
		return models.TimeSlot{}, time.Time{}, &SlotError{Field: "status", Message: "status must be available, unavailable or tentative"}
	}
	return models.TimeSlot{
		DoctorID:  doctorID,
		Date:      day.Format(utils.DateLayout),
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
		Status:    status,
	}, day, nil
}

func (s *DefaultScheduleService) DeleteSlot(ctx context.Context, doctorID, slotID string) error {
	if err := s.Repo.DeleteByID(ctx, doctorID, slotID); err != nil {
		if errors.Is(err, timeslotRepo.ErrSlotNotFound) {
			return ErrSlotNotFound
		}
		return fmt.Errorf("failed to delete slot: %w", err)
	}
	return nil
}

// SeedWeek stores the default weekday slots for the week containing ref
// when that week has none yet. It returns how many slots were written.
func (s *DefaultScheduleService) SeedWeek(ctx context.Context, doctorID string, ref time.Time) (int, error) {
	days := WeekDays(ref, s.WeekStart)
	existing, err := s.Repo.ListRange(ctx, doctorID, days[0].Format(utils.DateLayout), days[6].Format(utils.DateLayout))
	if err != nil {
		return 0, fmt.Errorf("failed to check existing slots: %w", err)
	}
	if len(existing) > 0 {
		return 0, nil
	}

	slots := DefaultSlots(doctorID, ref, s.WeekStart)
	for i := range slots {
		slots[i].ID = uuid.New().String()
	}
	if _, err := s.Repo.CreateMany(ctx, slots); err != nil {
		return 0, fmt.Errorf("failed to seed slots: %w", err)
	}
	return len(slots), nil
}

// SeedAhead seeds default weeks forward from the doctor's last slot up to and
// including the week weeks-1 after the current one. Weeks before the last
// slot are left alone. It returns the start of each week it wrote.
func (s *DefaultScheduleService) SeedAhead(ctx context.Context, doctorID string, now time.Time, weeks int) ([]time.Time, error) {
	current := StartOfWeek(now, s.WeekStart)
	last := current.AddDate(0, 0, 7*(weeks-1))

	latest, err := s.Repo.LatestDate(ctx, doctorID)
	if err != nil {
		return nil, fmt.Errorf("failed to find last slot date: %w", err)
	}
	from := current
	if latest != "" {
		day, err := time.ParseInLocation(utils.DateLayout, latest, now.Location())
		if err != nil {
			return nil, fmt.Errorf("invalid stored slot date %q: %w", latest, err)
		}
		if next := StartOfWeek(day, s.WeekStart).AddDate(0, 0, 7); next.After(from) {
			from = next
		}
	}

	var seeded []time.Time
	for week := from; !week.After(last); week = week.AddDate(0, 0, 7) {
		n, err := s.SeedWeek(ctx, doctorID, week)
		if err != nil {
			return seeded, err
		}
		if n > 0 {
			seeded = append(seeded, week)
		}
	}
	return seeded, nil
}
