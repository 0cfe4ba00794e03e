package routes

import (
	"net/http"
	"time"

	"medischedule/handlers"
	"medischedule/middleware"
	"medischedule/models"
	"medischedule/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// Pages gated by PageGuard. Parameterised pages use gin path syntax.
var (
	patientPages = []string{"/dashboard", "/dashboard/doctors", "/dashboard/doctors/:id", "/dashboard/book/:id", "/dashboard/appointments"}
	doctorPages  = []string{"/doctor/dashboard", "/doctor/schedule", "/doctor/appointments"}
	authPages    = []string{"/auth", "/auth/signup"}
)

// RegisterAuthRoutes registers login, signup, logout and session lookup.
func RegisterAuthRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/auth")
	{
		api.POST("/login", hb.LoginHandler)
		api.POST("/signup", hb.SignupHandler)
		api.POST("/logout", hb.LogoutHandler)
		api.GET("/session", hb.SessionHandler)
	}
	r.GET("/api/navigation", hb.NavigationHandler)
}

// RegisterPageRoutes registers the guarded page shells.
func RegisterPageRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	pages := r.Group("")
	pages.Use(middleware.PageGuard())
	for _, group := range [][]string{patientPages, doctorPages, authPages} {
		for _, p := range group {
			pages.GET(p, hb.PageHandler)
		}
	}
}

// RegisterPatientRoutes registers the directory, booking and patient appointment endpoints.
func RegisterPatientRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/patient")
	{
		api.Use(middleware.RequireRoles(models.RolePatient))
		api.GET("/doctors", hb.ListDoctorsHandler)
		api.GET("/doctors/:id", hb.GetDoctorHandler)
		api.GET("/doctors/:id/slots", hb.DoctorSlotsHandler)
		api.POST("/bookings", hb.BookHandler)
		api.GET("/appointments", hb.PatientAppointmentsHandler)
	}
}

// RegisterDoctorRoutes registers the schedule grid and appointment management endpoints.
func RegisterDoctorRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/doctor")
	{
		api.Use(middleware.RequireRoles(models.RoleDoctor))
		api.GET("/schedule", hb.WeekHandler)
		api.GET("/schedule/time-options", hb.TimeOptionsHandler)
		api.POST("/schedule/slots", hb.AddSlotHandler)
		api.DELETE("/schedule/slots/:slotID", hb.DeleteSlotHandler)
		api.GET("/appointments", hb.DoctorAppointmentsHandler)
		api.PATCH("/appointments/:id", hb.UpdateAppointmentHandler)
	}
}

// RegisterHealthRoute reports the last health monitor result.
func RegisterHealthRoute(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		status := utils.GetHealthStatus()
		code := http.StatusOK
		state := "ok"
		if !status.Healthy() {
			code = http.StatusServiceUnavailable
			state = "degraded"
		}
		c.JSON(code, gin.H{"status": state, "services": status.Services, "checkedAt": status.CheckedAt})
	})
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.Use(cors.New(cors.Config{
		AllowOriginFunc:  func(origin string) bool { return true },
		AllowMethods:     []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	RegisterHealthRoute(r)

	r.Use(middleware.SessionMiddleware(hb.SessionManager))
	RegisterAuthRoutes(r, hb)
	RegisterPageRoutes(r, hb)
	RegisterPatientRoutes(r, hb)
	RegisterDoctorRoutes(r, hb)
}
