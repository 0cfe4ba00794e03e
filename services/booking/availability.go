package booking

import (
	"time"

	"medischedule/models"
)

// BookingWindowDays is how far ahead patients may book.
const BookingWindowDays = 30

type daySlot struct {
	time      string
	available bool
}

var weekendSlots = []daySlot{
	{"10:00 AM", true},
	{"11:00 AM", true},
	{"12:00 PM", false},
}

var weekdaySlots = []daySlot{
	{"09:00 AM", true},
	{"10:00 AM", true},
	{"11:00 AM", false},
	{"01:00 PM", true},
	{"02:00 PM", true},
	{"03:00 PM", false},
	{"04:00 PM", true},
}

// DaySlots lists the bookable times offered on date. Saturdays and Sundays
// have a short morning session.
func DaySlots(date time.Time) []models.BookingSlot {
	pattern := weekdaySlots
	if wd := date.Weekday(); wd == time.Saturday || wd == time.Sunday {
		pattern = weekendSlots
	}
	out := make([]models.BookingSlot, len(pattern))
	for i, s := range pattern {
		out[i] = models.BookingSlot{ID: s.time, Time: s.time, Available: s.available}
	}
	return out
}

// WithinWindow reports whether date falls between today and BookingWindowDays from now.
func WithinWindow(date, now time.Time) bool {
	today := dateOnly(now)
	d := dateOnly(date)
	return !d.Before(today) && !d.After(today.AddDate(0, 0, BookingWindowDays))
}

func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// markTaken flags slots whose time already has an active appointment.
func markTaken(slots []models.BookingSlot, taken []string) {
	held := make(map[string]bool, len(taken))
	for _, t := range taken {
		held[t] = true
	}
	for i := range slots {
		if held[slots[i].Time] {
			slots[i].Available = false
		}
	}
}
