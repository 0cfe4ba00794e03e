package handlers

import (
	"net/http"

	"medischedule/models"
	"medischedule/services/booking"
	"medischedule/utils"

	"github.com/gin-gonic/gin"
)

// BookingHandler serves booking and both sides' appointment lists.
type BookingHandler struct {
	Service booking.BookingService
}

func NewBookingHandler(svc booking.BookingService) *BookingHandler {
	return &BookingHandler{Service: svc}
}

func (h *BookingHandler) BookHandler(c *gin.Context) {
	patient, ok := currentUser(c)
	if !ok {
		return
	}

	var req models.BookingRequest
	if err := c.ShouldBindJSON(&req); err != nil && !bindingFailure(err) {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request payload", err.Error())
		return
	}

	appt, err := h.Service.Book(c.Request.Context(), *patient, req)
	if err != nil {
		respondBookingError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"message":     "Appointment requested",
		"appointment": appt,
	})
}

func (h *BookingHandler) PatientAppointmentsHandler(c *gin.Context) {
	patient, ok := currentUser(c)
	if !ok {
		return
	}
	lists, err := h.Service.PatientAppointments(c.Request.Context(), patient.ID)
	if err != nil {
		respondBookingError(c, err)
		return
	}
	c.JSON(http.StatusOK, lists)
}

// DoctorAppointmentsHandler filters by ?search= (patient name) and ?status=.
func (h *BookingHandler) DoctorAppointmentsHandler(c *gin.Context) {
	doctor, ok := currentUser(c)
	if !ok {
		return
	}
	filter := models.AppointmentFilter{Search: c.Query("search"), Status: c.DefaultQuery("status", "all")}
	lists, err := h.Service.DoctorAppointments(c.Request.Context(), doctor.ID, filter)
	if err != nil {
		respondBookingError(c, err)
		return
	}
	c.JSON(http.StatusOK, lists)
}

func (h *BookingHandler) UpdateStatusHandler(c *gin.Context) {
	doctor, ok := currentUser(c)
	if !ok {
		return
	}

	var body struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.JSONFieldErrors(c, "Status is required", map[string]string{"status": "required"})
		return
	}
	status, valid := models.ParseAppointmentStatus(body.Status)
	if !valid {
		utils.JSONFieldErrors(c, "Unknown status", map[string]string{"status": "must be pending, confirmed, completed or cancelled"})
		return
	}

	appt, err := h.Service.UpdateStatus(c.Request.Context(), doctor.ID, c.Param("id"), status)
	if err != nil {
		respondBookingError(c, err)
		return
	}
	c.JSON(http.StatusOK, appt)
}
