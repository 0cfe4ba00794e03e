package models

import (
	"strings"
	"time"
)

// AppointmentStatus tracks an appointment through its lifecycle.
type AppointmentStatus string

const (
	AppointmentPending   AppointmentStatus = "pending"
	AppointmentConfirmed AppointmentStatus = "confirmed"
	AppointmentCompleted AppointmentStatus = "completed"
	AppointmentCancelled AppointmentStatus = "cancelled"
)

// ParseAppointmentStatus matches a status name case-insensitively.
func ParseAppointmentStatus(s string) (AppointmentStatus, bool) {
	switch st := AppointmentStatus(strings.ToLower(strings.TrimSpace(s))); st {
	case AppointmentPending, AppointmentConfirmed, AppointmentCompleted, AppointmentCancelled:
		return st, true
	default:
		return "", false
	}
}

// Active appointments hold their time slot.
func (s AppointmentStatus) Active() bool {
	return s == AppointmentPending || s == AppointmentConfirmed
}

// Appointment is a booked visit.
type Appointment struct {
	ID           string            `bson:"id" json:"id"`
	DoctorID     string            `bson:"doctorId" json:"doctorId"`
	DoctorName   string            `bson:"doctorName" json:"doctorName"`
	Specialty    string            `bson:"specialization" json:"specialization"`
	PatientID    string            `bson:"patientId" json:"patientId"`
	PatientName  string            `bson:"patientName" json:"patientName"`
	PatientEmail string            `bson:"patientEmail" json:"patientEmail"`
	PatientPhone string            `bson:"patientPhone" json:"patientPhone,omitempty"`
	Date         string            `bson:"date" json:"date"` // "2006-01-02"
	Time         string            `bson:"time" json:"time"` // "09:00 AM"
	Duration     string            `bson:"duration" json:"duration"`
	Reason       string            `bson:"reason" json:"reason"`
	Location     string            `bson:"location" json:"location"`
	Status       AppointmentStatus `bson:"status" json:"status"`
	Notes        string            `bson:"notes" json:"notes,omitempty"`
	CreatedAt    time.Time         `bson:"createdAt" json:"createdAt"`
}

// BookingSlot is one selectable time on a doctor's booking page.
type BookingSlot struct {
	ID        string `json:"id"`
	Time      string `json:"time"`
	Available bool   `json:"available"`
}

// BookingRequest is a patient's booking form.
type BookingRequest struct {
	DoctorID  string `json:"doctorId" binding:"required"`
	Date      string `json:"date" binding:"required"`
	Time      string `json:"time" binding:"required"`
	FirstName string `json:"firstName" binding:"required"`
	LastName  string `json:"lastName" binding:"required"`
	Email     string `json:"email" binding:"required,email"`
	Phone     string `json:"phone"`
	Reason    string `json:"reason"`
}

// AppointmentFilter narrows a doctor's appointment list.
type AppointmentFilter struct {
	Search string // case-insensitive patient name substring
	Status string // "all" or a status name
}

// AppointmentLists splits appointments into upcoming and past.
type AppointmentLists struct {
	Upcoming []Appointment `json:"upcoming"`
	Past     []Appointment `json:"past"`
}
