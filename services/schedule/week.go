// Package schedule builds a doctor's weekly availability grid.
package schedule

import (
	"fmt"
	"strings"
	"time"

	"medischedule/models"
	"medischedule/utils"
)

// ParseWeekday reads a weekday name such as "monday" or "Sun".
func ParseWeekday(s string) (time.Weekday, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	if len(name) >= 3 {
		for d := time.Sunday; d <= time.Saturday; d++ {
			full := strings.ToLower(d.String())
			if name == full || name == full[:3] {
				return d, nil
			}
		}
	}
	return time.Sunday, fmt.Errorf("unknown weekday %q", s)
}

// StartOfWeek returns midnight of the latest day on or before ref whose
// weekday is weekStart, in ref's location.
func StartOfWeek(ref time.Time, weekStart time.Weekday) time.Time {
	day := time.Date(ref.Year(), ref.Month(), ref.Day(), 0, 0, 0, 0, ref.Location())
	back := (int(day.Weekday()) - int(weekStart) + 7) % 7
	return day.AddDate(0, 0, -back)
}

// WeekDays returns the seven consecutive days of the week containing ref.
func WeekDays(ref time.Time, weekStart time.Weekday) []time.Time {
	start := StartOfWeek(ref, weekStart)
	days := make([]time.Time, 7)
	for i := range days {
		days[i] = start.AddDate(0, 0, i)
	}
	return days
}

// ShiftWeek moves ref by n whole weeks; negative n moves back.
func ShiftWeek(ref time.Time, n int) time.Time {
	return ref.AddDate(0, 0, 7*n)
}

// WeekLabel renders a range like "Mar 3 - Mar 9, 2025".
func WeekLabel(days []time.Time) string {
	if len(days) == 0 {
		return ""
	}
	return days[0].Format("Jan 2") + " - " + days[len(days)-1].Format("Jan 2, 2006")
}

// BuildWeek buckets slots into the seven days of the week containing ref.
// A slot lands in a bucket only when its date string equals the bucket's
// date exactly; slots outside the week are dropped. Order within a bucket
// follows the input order.
func BuildWeek(ref time.Time, weekStart time.Weekday, slots []models.TimeSlot) models.WeekView {
	days := WeekDays(ref, weekStart)
	view := models.WeekView{
		Start:     days[0].Format(utils.DateLayout),
		End:       days[6].Format(utils.DateLayout),
		Label:     WeekLabel(days),
		WeekStart: weekStart.String(),
		Days:      make([]models.DayBucket, len(days)),
	}

	index := make(map[string]int, len(days))
	for i, d := range days {
		date := d.Format(utils.DateLayout)
		index[date] = i
		view.Days[i] = models.DayBucket{
			Date:    date,
			Weekday: d.Weekday().String(),
			Slots:   []models.TimeSlot{},
		}
	}

	for _, slot := range slots {
		if i, ok := index[slot.Date]; ok {
			view.Days[i].Slots = append(view.Days[i].Slots, slot)
		}
	}
	for i := range view.Days {
		view.Days[i].NoSlots = len(view.Days[i].Slots) == 0
	}
	return view
}

// Locate returns the index of the bucket for date, or -1.
func Locate(view models.WeekView, date string) int {
	for i, day := range view.Days {
		if day.Date == date {
			return i
		}
	}
	return -1
}

// MarkToday flags the bucket for now's calendar date, if it is in the view.
func MarkToday(view *models.WeekView, now time.Time) {
	today := now.Format(utils.DateLayout)
	for i := range view.Days {
		view.Days[i].IsToday = view.Days[i].Date == today
	}
}
