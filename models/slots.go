package models

// SlotStatus is the availability state of a doctor's time slot.
type SlotStatus string

const (
	SlotAvailable   SlotStatus = "available"
	SlotUnavailable SlotStatus = "unavailable"
	SlotTentative   SlotStatus = "tentative"
)

func (s SlotStatus) Valid() bool {
	switch s {
	case SlotAvailable, SlotUnavailable, SlotTentative:
		return true
	default:
		return false
	}
}

// TimeSlot is a block of availability on one calendar date.
// Date is "2006-01-02"; StartTime and EndTime are 12-hour clock strings such as "09:00 AM".
type TimeSlot struct {
	ID        string     `bson:"id" json:"id"`
	DoctorID  string     `bson:"doctorId" json:"doctorId"`
	Date      string     `bson:"date" json:"date"`
	StartTime string     `bson:"startTime" json:"startTime"`
	EndTime   string     `bson:"endTime" json:"endTime"`
	Status    SlotStatus `bson:"status" json:"status"`
}

// DayBucket groups the slots of one day of the week view.
type DayBucket struct {
	Date    string     `json:"date"`
	Weekday string     `json:"weekday"`
	IsToday bool       `json:"isToday"`
	Slots   []TimeSlot `json:"slots"`
	NoSlots bool       `json:"noSlots"`
}

// WeekView is seven consecutive days starting on the configured week-start day.
type WeekView struct {
	Start     string      `json:"start"`
	End       string      `json:"end"`
	Label     string      `json:"label"`
	WeekStart string      `json:"weekStart"`
	Days      []DayBucket `json:"days"`
}

// AddSlotRequest is the body of a new slot submission.
type AddSlotRequest struct {
	Date      string `json:"date"`
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
	Status    string `json:"status"`
}

// AddSlotResult reports the stored slot and where it lands in its week.
type AddSlotResult struct {
	Slot      TimeSlot `json:"slot"`
	WeekStart string   `json:"weekStart"`
	DayIndex  int      `json:"dayIndex"`
}
