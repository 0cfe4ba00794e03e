package schedule

import (
	"strconv"
	"time"

	"medischedule/models"
	"medischedule/utils"
)

const (
	MorningStart   = "09:00 AM"
	MorningEnd     = "12:00 PM"
	AfternoonStart = "01:00 PM"
	AfternoonEnd   = "05:00 PM"

	DefaultSlotStart = "09:00 AM"
	DefaultSlotEnd   = "05:00 PM"
)

// DefaultSlots returns a morning and an afternoon available slot for every
// Monday to Friday of the week containing ref. Ids run "1", "2", ... in order.
func DefaultSlots(doctorID string, ref time.Time, weekStart time.Weekday) []models.TimeSlot {
	var slots []models.TimeSlot
	for _, day := range WeekDays(ref, weekStart) {
		if day.Weekday() == time.Saturday || day.Weekday() == time.Sunday {
			continue
		}
		date := day.Format(utils.DateLayout)
		for _, span := range [][2]string{{MorningStart, MorningEnd}, {AfternoonStart, AfternoonEnd}} {
			slots = append(slots, models.TimeSlot{
				ID:        strconv.Itoa(len(slots) + 1),
				DoctorID:  doctorID,
				Date:      date,
				StartTime: span[0],
				EndTime:   span[1],
				Status:    models.SlotAvailable,
			})
		}
	}
	return slots
}

// TimeOptions lists the selectable slot times, 08:00 AM to 06:00 PM every 30 minutes.
func TimeOptions() []string {
	start := time.Date(2000, 1, 1, 8, 0, 0, 0, time.UTC)
	end := time.Date(2000, 1, 1, 18, 0, 0, 0, time.UTC)
	var opts []string
	for t := start; !t.After(end); t = t.Add(30 * time.Minute) {
		opts = append(opts, t.Format(utils.ClockLayout))
	}
	return opts
}

// NewSlotDefaults is the pre-filled form for adding a slot on now's date.
func NewSlotDefaults(now time.Time) models.AddSlotRequest {
	return models.AddSlotRequest{
		Date:      now.Format(utils.DateLayout),
		StartTime: DefaultSlotStart,
		EndTime:   DefaultSlotEnd,
		Status:    string(models.SlotAvailable),
	}
}

// ParseClock reads a 12-hour time such as "01:30 PM".
func ParseClock(s string) (time.Time, error) {
	return time.Parse(utils.ClockLayout, s)
}
