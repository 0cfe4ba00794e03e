package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"medischedule/middleware"
	"medischedule/models"
	"medischedule/services/schedule"
	"medischedule/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ScheduleHandler serves the doctor's weekly availability grid.
type ScheduleHandler struct {
	Service schedule.ScheduleService
	Now     func() time.Time
}

func NewScheduleHandler(svc schedule.ScheduleService) *ScheduleHandler {
	return &ScheduleHandler{Service: svc, Now: time.Now}
}

// currentUser returns the authenticated identity or answers 401.
func currentUser(c *gin.Context) (*models.Identity, bool) {
	identity := middleware.CurrentIdentity(c)
	if identity == nil {
		utils.JSONError(c, http.StatusUnauthorized, "Authentication required", "")
		return nil, false
	}
	return identity, true
}

// WeekHandler returns the week containing ?date= (default today) shifted by ?offset= weeks.
func (h *ScheduleHandler) WeekHandler(c *gin.Context) {
	doctor, ok := currentUser(c)
	if !ok {
		return
	}

	ref := h.Now()
	if d := c.Query("date"); d != "" {
		parsed, err := time.ParseInLocation(utils.DateLayout, d, time.Local)
		if err != nil {
			utils.JSONFieldErrors(c, "Invalid date", map[string]string{"date": "date must be YYYY-MM-DD"})
			return
		}
		ref = parsed
	}
	offset := 0
	if o := c.Query("offset"); o != "" {
		n, err := strconv.Atoi(o)
		if err != nil {
			utils.JSONFieldErrors(c, "Invalid offset", map[string]string{"offset": "offset must be a whole number of weeks"})
			return
		}
		offset = n
	}

	view, err := h.Service.Week(c.Request.Context(), doctor.ID, ref, offset)
	if err != nil {
		getLogger(c).Error("Failed to build week", zap.String("doctorId", doctor.ID), zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "Failed to load schedule", err.Error())
		return
	}
	c.JSON(http.StatusOK, view)
}

// TimeOptionsHandler lists selectable slot times and the defaults of a new slot.
func (h *ScheduleHandler) TimeOptionsHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"options":   schedule.TimeOptions(),
		"defaults":  schedule.NewSlotDefaults(h.Now()),
		"weekStart": h.Service.WeekStartDay().String(),
	})
}

func (h *ScheduleHandler) AddSlotHandler(c *gin.Context) {
	doctor, ok := currentUser(c)
	if !ok {
		return
	}

	var req models.AddSlotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request payload", err.Error())
		return
	}

	result, err := h.Service.AddSlot(c.Request.Context(), doctor.ID, req)
	if err != nil {
		var serr *schedule.SlotError
		if errors.As(err, &serr) {
			utils.JSONFieldErrors(c, "Invalid time slot", map[string]string{serr.Field: serr.Message})
			return
		}
		getLogger(c).Error("Failed to add slot", zap.String("doctorId", doctor.ID), zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "Failed to add time slot", err.Error())
		return
	}
	c.JSON(http.StatusCreated, result)
}

func (h *ScheduleHandler) DeleteSlotHandler(c *gin.Context) {
	doctor, ok := currentUser(c)
	if !ok {
		return
	}

	slotID := c.Param("slotID")
	if err := h.Service.DeleteSlot(c.Request.Context(), doctor.ID, slotID); err != nil {
		if errors.Is(err, schedule.ErrSlotNotFound) {
			utils.JSONError(c, http.StatusNotFound, "Time slot not found", slotID)
			return
		}
		getLogger(c).Error("Failed to delete slot", zap.String("slotId", slotID), zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "Failed to delete time slot", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Time slot removed", "id": slotID})
}
