package routes

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	appointmentRepo "medischedule/database/repository/appointment"
	timeslotRepo "medischedule/database/repository/timeslot"
	"medischedule/handlers"
	"medischedule/models"
	"medischedule/services/booking"
	"medischedule/services/doctor"
	"medischedule/services/notification"
	"medischedule/services/schedule"
	"medischedule/services/session"
	"medischedule/utils"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestRouter() *gin.Engine {
	mgr := session.NewManager(session.NewMemoryStorage(), session.NewDemoAuthenticator(), session.Options{TTL: time.Hour})
	dir := doctor.NewDirectory(doctor.SampleDoctors())
	bookingSvc := &booking.DefaultBookingService{
		Repo:     appointmentRepo.NewMemoryAppointmentRepo(),
		Doctors:  dir,
		Notifier: notification.LogNotifier{},
	}
	scheduleSvc := &schedule.DefaultScheduleService{Repo: timeslotRepo.NewMemoryTimeSlotRepo(), WeekStart: time.Monday}

	hb := handlers.NewHandlerBundle(mgr,
		handlers.NewAuthHandler(mgr, false),
		handlers.NewDoctorHandler(dir, bookingSvc),
		handlers.NewBookingHandler(bookingSvc),
		handlers.NewScheduleHandler(scheduleSvc),
	)

	r := gin.New()
	r.Use(utils.ErrorHandler())
	RegisterRoutes(r, hb)
	return r
}

type client struct {
	t      *testing.T
	router *gin.Engine
	cookie *http.Cookie
}

func (c *client) do(method, path string, body any) *httptest.ResponseRecorder {
	c.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(c.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if c.cookie != nil {
		req.AddCookie(c.cookie)
	}
	w := httptest.NewRecorder()
	c.router.ServeHTTP(w, req)
	for _, ck := range w.Result().Cookies() {
		if ck.Name == utils.SessionCookieName {
			c.cookie = ck
			if ck.MaxAge < 0 {
				c.cookie = nil
			}
		}
	}
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), v), w.Body.String())
}

func login(t *testing.T, r *gin.Engine, email, role string) *client {
	t.Helper()
	c := &client{t: t, router: r}
	w := c.do(http.MethodPost, "/api/auth/login", models.LoginRequest{Email: email, Password: "password123", Role: role})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	require.NotNil(t, c.cookie)
	return c
}

type authBody struct {
	User     models.Identity `json:"user"`
	Token    string          `json:"token"`
	Redirect string          `json:"redirect"`
}

func TestLogin(t *testing.T) {
	r := newTestRouter()

	tests := []struct {
		name     string
		path     string
		req      models.LoginRequest
		status   int
		message  string
		redirect string
	}{
		{"patient", "/api/auth/login", models.LoginRequest{Email: "patient@example.com", Password: "x", Role: "patient"}, http.StatusOK, "", "/dashboard"},
		{"doctor", "/api/auth/login", models.LoginRequest{Email: "doctor@example.com", Password: "x", Role: "doctor"}, http.StatusOK, "", "/doctor/dashboard"},
		{"callback", "/api/auth/login?callbackUrl=%2Fdashboard%2Fappointments", models.LoginRequest{Email: "patient@example.com", Password: "x", Role: "patient"}, http.StatusOK, "", "/dashboard/appointments"},
		{"external callback", "/api/auth/login?callbackUrl=https%3A%2F%2Fevil.example", models.LoginRequest{Email: "patient@example.com", Password: "x", Role: "patient"}, http.StatusOK, "", "/dashboard"},
		{"backslash callback", "/api/auth/login?callbackUrl=%2F%5Cevil.example", models.LoginRequest{Email: "patient@example.com", Password: "x", Role: "patient"}, http.StatusOK, "", "/dashboard"},
		{"role not in email", "/api/auth/login", models.LoginRequest{Email: "someone@example.com", Password: "x", Role: "doctor"}, http.StatusUnauthorized, "Invalid email or password", ""},
		{"empty form", "/api/auth/login", models.LoginRequest{Role: "patient"}, http.StatusBadRequest, "Please fill in all fields", ""},
		{"unknown role", "/api/auth/login", models.LoginRequest{Email: "a@b.co", Password: "x", Role: "nurse"}, http.StatusBadRequest, "Please choose patient or doctor", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &client{t: t, router: r}
			w := c.do(http.MethodPost, tt.path, tt.req)
			require.Equal(t, tt.status, w.Code, w.Body.String())
			if tt.status == http.StatusOK {
				var body authBody
				decode(t, w, &body)
				assert.Equal(t, tt.redirect, body.Redirect)
				assert.NotEmpty(t, body.Token)
				assert.NotNil(t, c.cookie)
				return
			}
			var body utils.ErrorResponse
			decode(t, w, &body)
			assert.Equal(t, tt.message, body.Message)
			assert.Nil(t, c.cookie)
		})
	}
}

func TestFormErrorsListEveryField(t *testing.T) {
	r := newTestRouter()
	c := &client{t: t, router: r}

	w := c.do(http.MethodPost, "/api/auth/signup", models.SignupRequest{Role: "patient"})
	require.Equal(t, http.StatusBadRequest, w.Code)
	var body utils.ErrorResponse
	decode(t, w, &body)
	assert.Equal(t, "Please fill in all fields", body.Message)
	assert.Len(t, body.Fields, 5)

	w = c.do(http.MethodPost, "/api/auth/signup", models.SignupRequest{
		FirstName: "Ada", LastName: "Obi", Email: " ada@example.com ",
		Password: "longenough", ConfirmPassword: "longenough", Role: "patient",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = c.do(http.MethodPost, "/api/patient/bookings", models.BookingRequest{DoctorID: "d1"})
	require.Equal(t, http.StatusBadRequest, w.Code)
	var booking struct {
		Code   string            `json:"code"`
		Fields map[string]string `json:"fields"`
	}
	decode(t, w, &booking)
	assert.Equal(t, "invalid_request", booking.Code)
	assert.Equal(t, "required", booking.Fields["firstName"])
}

func TestSessionLifecycle(t *testing.T) {
	r := newTestRouter()
	c := login(t, r, "doctor@example.com", "doctor")

	var sess struct {
		Authenticated bool            `json:"authenticated"`
		User          models.Identity `json:"user"`
	}
	decode(t, c.do(http.MethodGet, "/api/auth/session", nil), &sess)
	assert.True(t, sess.Authenticated)
	assert.Equal(t, models.RoleDoctor, sess.User.Role)
	assert.Equal(t, "d1", sess.User.ID)

	staleCookie := c.cookie
	require.Equal(t, http.StatusOK, c.do(http.MethodPost, "/api/auth/logout", nil).Code)
	assert.Nil(t, c.cookie)

	// The old token still verifies but its record is gone.
	c.cookie = staleCookie
	decode(t, c.do(http.MethodGet, "/api/auth/session", nil), &sess)
	assert.False(t, sess.Authenticated)
}

func TestSignup(t *testing.T) {
	r := newTestRouter()
	c := &client{t: t, router: r}

	w := c.do(http.MethodPost, "/api/auth/signup", models.SignupRequest{
		FirstName: "Ada", LastName: "Obi", Email: "ada@example.com",
		Password: "longenough", ConfirmPassword: "different", Role: "doctor",
	})
	require.Equal(t, http.StatusBadRequest, w.Code)
	var verr utils.ErrorResponse
	decode(t, w, &verr)
	assert.Equal(t, "Passwords do not match", verr.Message)
	assert.Contains(t, verr.Fields, "confirmPassword")

	w = c.do(http.MethodPost, "/api/auth/signup", models.SignupRequest{
		FirstName: "Ada", LastName: "Obi", Email: "ada@example.com",
		Password: "longenough", ConfirmPassword: "longenough", Role: "Doctor",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var body authBody
	decode(t, w, &body)
	assert.Equal(t, models.RoleDoctor, body.User.Role)
	assert.Equal(t, "/doctor/dashboard", body.Redirect)

	// The new doctor can use doctor pages.
	assert.Equal(t, http.StatusOK, c.do(http.MethodGet, "/doctor/schedule", nil).Code)
}

func TestPages(t *testing.T) {
	r := newTestRouter()
	anon := &client{t: t, router: r}
	patient := login(t, r, "patient@example.com", "patient")

	w := anon.do(http.MethodGet, "/doctor/schedule", nil)
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/auth?callbackUrl=%2Fdoctor%2Fschedule", w.Header().Get("Location"))

	assert.Equal(t, http.StatusOK, anon.do(http.MethodGet, "/auth", nil).Code)

	w = patient.do(http.MethodGet, "/auth", nil)
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/dashboard", w.Header().Get("Location"))

	w = patient.do(http.MethodGet, "/doctor/dashboard", nil)
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/dashboard", w.Header().Get("Location"))

	assert.Equal(t, http.StatusOK, patient.do(http.MethodGet, "/dashboard/doctors/d2", nil).Code)
}

func TestNavigation(t *testing.T) {
	r := newTestRouter()
	anon := &client{t: t, router: r}

	var body struct {
		Area     string `json:"area"`
		Decision struct {
			Kind     string `json:"kind"`
			Target   string `json:"target"`
			Remember string `json:"remember"`
		} `json:"decision"`
	}
	decode(t, anon.do(http.MethodGet, "/api/navigation?path=%2Fdoctor%2Fschedule", nil), &body)
	assert.Equal(t, "doctor", body.Area)
	assert.Equal(t, "redirect_login", body.Decision.Kind)
	assert.Equal(t, "/doctor/schedule", body.Decision.Remember)

	doc := login(t, r, "doctor@example.com", "doctor")
	decode(t, doc.do(http.MethodGet, "/api/navigation?path=%2Fdashboard", nil), &body)
	assert.Equal(t, "redirect_home", body.Decision.Kind)
	assert.Equal(t, "/doctor/dashboard", body.Decision.Target)
}

// nextWeekday is the first Monday to Friday after today.
func nextWeekday() string {
	d := time.Now().AddDate(0, 0, 1)
	for d.Weekday() == time.Saturday || d.Weekday() == time.Sunday {
		d = d.AddDate(0, 0, 1)
	}
	return d.Format(utils.DateLayout)
}

func TestBookingFlow(t *testing.T) {
	r := newTestRouter()
	patient := login(t, r, "patient@example.com", "patient")
	doc := login(t, r, "doctor@example.com", "doctor")
	date := nextWeekday()

	// Role gates on the APIs.
	assert.Equal(t, http.StatusUnauthorized, (&client{t: t, router: r}).do(http.MethodGet, "/api/patient/doctors", nil).Code)
	assert.Equal(t, http.StatusForbidden, doc.do(http.MethodGet, "/api/patient/doctors", nil).Code)

	var list struct {
		Doctors []models.Doctor `json:"doctors"`
	}
	decode(t, patient.do(http.MethodGet, "/api/patient/doctors?search=cardio", nil), &list)
	require.Len(t, list.Doctors, 1)
	assert.Equal(t, "d1", list.Doctors[0].ID)

	assert.Equal(t, http.StatusNotFound, patient.do(http.MethodGet, "/api/patient/doctors/d99", nil).Code)

	req := models.BookingRequest{
		DoctorID: "d1", Date: date, Time: "09:00 AM",
		FirstName: "Jessica", LastName: "Brown", Email: "patient@example.com", Reason: "Checkup",
	}
	w := patient.do(http.MethodPost, "/api/patient/bookings", req)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var booked struct {
		Appointment models.Appointment `json:"appointment"`
	}
	decode(t, w, &booked)
	assert.Equal(t, models.AppointmentPending, booked.Appointment.Status)

	w = patient.do(http.MethodPost, "/api/patient/bookings", req)
	assert.Equal(t, http.StatusConflict, w.Code)

	var slots struct {
		Slots []models.BookingSlot `json:"slots"`
	}
	decode(t, patient.do(http.MethodGet, "/api/patient/doctors/d1/slots?date="+date, nil), &slots)
	require.NotEmpty(t, slots.Slots)
	assert.Equal(t, "09:00 AM", slots.Slots[0].Time)
	assert.False(t, slots.Slots[0].Available)

	var mine models.AppointmentLists
	decode(t, patient.do(http.MethodGet, "/api/patient/appointments", nil), &mine)
	require.Len(t, mine.Upcoming, 1)

	var theirs models.AppointmentLists
	decode(t, doc.do(http.MethodGet, "/api/doctor/appointments?status=pending&search=jess", nil), &theirs)
	require.Len(t, theirs.Upcoming, 1)
	id := theirs.Upcoming[0].ID

	w = doc.do(http.MethodPatch, "/api/doctor/appointments/"+id, gin.H{"status": "confirmed"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	w = doc.do(http.MethodPatch, "/api/doctor/appointments/"+id, gin.H{"status": "pending"})
	assert.Equal(t, http.StatusConflict, w.Code)
	w = doc.do(http.MethodPatch, "/api/doctor/appointments/missing", gin.H{"status": "confirmed"})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestScheduleFlow(t *testing.T) {
	r := newTestRouter()
	doc := login(t, r, "doctor@example.com", "doctor")
	today := time.Now().Format(utils.DateLayout)

	var opts struct {
		Options  []string              `json:"options"`
		Defaults models.AddSlotRequest `json:"defaults"`
	}
	decode(t, doc.do(http.MethodGet, "/api/doctor/schedule/time-options", nil), &opts)
	assert.Len(t, opts.Options, 21)
	assert.Equal(t, today, opts.Defaults.Date)

	w := doc.do(http.MethodPost, "/api/doctor/schedule/slots", models.AddSlotRequest{Date: today, StartTime: "10:00 AM", EndTime: "11:00 AM"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var added models.AddSlotResult
	decode(t, w, &added)
	assert.Equal(t, models.SlotAvailable, added.Slot.Status)

	var week models.WeekView
	decode(t, doc.do(http.MethodGet, "/api/doctor/schedule?date="+today, nil), &week)
	require.Len(t, week.Days, 7)
	day := week.Days[added.DayIndex]
	assert.Equal(t, today, day.Date)
	assert.True(t, day.IsToday)
	require.Len(t, day.Slots, 1)
	assert.Equal(t, added.Slot.ID, day.Slots[0].ID)

	var next models.WeekView
	decode(t, doc.do(http.MethodGet, "/api/doctor/schedule?date="+today+"&offset=1", nil), &next)
	for _, d := range next.Days {
		assert.True(t, d.NoSlots)
	}

	w = doc.do(http.MethodPost, "/api/doctor/schedule/slots", models.AddSlotRequest{Date: "tomorrow", StartTime: "10:00 AM", EndTime: "11:00 AM"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	assert.Equal(t, http.StatusOK, doc.do(http.MethodDelete, "/api/doctor/schedule/slots/"+added.Slot.ID, nil).Code)
	assert.Equal(t, http.StatusNotFound, doc.do(http.MethodDelete, "/api/doctor/schedule/slots/"+added.Slot.ID, nil).Code)
}

func TestHealth(t *testing.T) {
	r := newTestRouter()
	w := (&client{t: t, router: r}).do(http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}
