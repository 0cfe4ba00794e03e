package handlers

import (
	"medischedule/services/session"

	"github.com/gin-gonic/gin"
)

// HandlerBundle groups every endpoint handler for route registration.
type HandlerBundle struct {
	SessionManager *session.Manager

	// Auth endpoints
	LoginHandler   gin.HandlerFunc
	SignupHandler  gin.HandlerFunc
	LogoutHandler  gin.HandlerFunc
	SessionHandler gin.HandlerFunc

	// Navigation and page shells
	NavigationHandler gin.HandlerFunc
	PageHandler       gin.HandlerFunc

	// Patient endpoints
	ListDoctorsHandler         gin.HandlerFunc
	GetDoctorHandler           gin.HandlerFunc
	DoctorSlotsHandler         gin.HandlerFunc
	BookHandler                gin.HandlerFunc
	PatientAppointmentsHandler gin.HandlerFunc

	// Doctor endpoints
	WeekHandler               gin.HandlerFunc
	TimeOptionsHandler        gin.HandlerFunc
	AddSlotHandler            gin.HandlerFunc
	DeleteSlotHandler         gin.HandlerFunc
	DoctorAppointmentsHandler gin.HandlerFunc
	UpdateAppointmentHandler  gin.HandlerFunc
}

// NewHandlerBundle wires the handler structs into a bundle.
func NewHandlerBundle(mgr *session.Manager, auth *AuthHandler, doctors *DoctorHandler, bookings *BookingHandler, sched *ScheduleHandler) *HandlerBundle {
	return &HandlerBundle{
		SessionManager: mgr,

		LoginHandler:   auth.LoginHandler,
		SignupHandler:  auth.SignupHandler,
		LogoutHandler:  auth.LogoutHandler,
		SessionHandler: auth.SessionHandler,

		NavigationHandler: NavigationHandler,
		PageHandler:       PageHandler,

		ListDoctorsHandler:         doctors.ListDoctorsHandler,
		GetDoctorHandler:           doctors.GetDoctorHandler,
		DoctorSlotsHandler:         doctors.DoctorSlotsHandler,
		BookHandler:                bookings.BookHandler,
		PatientAppointmentsHandler: bookings.PatientAppointmentsHandler,

		WeekHandler:               sched.WeekHandler,
		TimeOptionsHandler:        sched.TimeOptionsHandler,
		AddSlotHandler:            sched.AddSlotHandler,
		DeleteSlotHandler:         sched.DeleteSlotHandler,
		DoctorAppointmentsHandler: bookings.DoctorAppointmentsHandler,
		UpdateAppointmentHandler:  bookings.UpdateStatusHandler,
	}
}
