package handlers

import (
	"errors"
	"net/http"

	"medischedule/services/booking"
	"medischedule/services/doctor"
	"medischedule/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// DoctorHandler serves the patient-facing doctor directory.
type DoctorHandler struct {
	Directory doctor.DirectoryService
	Booking   booking.BookingService
}

func NewDoctorHandler(dir doctor.DirectoryService, bookingSvc booking.BookingService) *DoctorHandler {
	return &DoctorHandler{Directory: dir, Booking: bookingSvc}
}

// ListDoctorsHandler searches by ?search= over name and specialization.
func (h *DoctorHandler) ListDoctorsHandler(c *gin.Context) {
	doctors := h.Directory.Search(c.Query("search"))
	c.JSON(http.StatusOK, gin.H{"doctors": doctors, "count": len(doctors)})
}

func (h *DoctorHandler) GetDoctorHandler(c *gin.Context) {
	doc, err := h.Directory.Get(c.Param("id"))
	if err != nil {
		utils.JSONError(c, http.StatusNotFound, "Doctor not found", c.Param("id"))
		return
	}
	c.JSON(http.StatusOK, doc)
}

// DoctorSlotsHandler lists the bookable times for ?date=.
func (h *DoctorHandler) DoctorSlotsHandler(c *gin.Context) {
	date := c.Query("date")
	slots, err := h.Booking.AvailableSlots(c.Request.Context(), c.Param("id"), date)
	if err != nil {
		respondBookingError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"doctorId": c.Param("id"), "date": date, "slots": slots})
}

// respondBookingError maps booking failures to HTTP statuses.
func respondBookingError(c *gin.Context, err error) {
	var berr *booking.BookingError
	if errors.As(err, &berr) {
		status := http.StatusBadRequest
		switch berr.Code {
		case booking.CodeDoctorNotFound:
			status = http.StatusNotFound
		case booking.CodeSlotUnavailable:
			status = http.StatusConflict
		}
		c.JSON(status, gin.H{"message": berr.Message, "code": berr.Code, "fields": berr.Fields})
		return
	}
	switch {
	case errors.Is(err, booking.ErrAppointmentNotFound):
		utils.JSONError(c, http.StatusNotFound, "Appointment not found", "")
	case errors.Is(err, booking.ErrInvalidTransition):
		utils.JSONError(c, http.StatusConflict, "Status change not allowed", err.Error())
	default:
		getLogger(c).Error("Booking request failed", zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "Booking service failed", err.Error())
	}
}
