package session

import (
	"testing"

	"medischedule/models"
	"medischedule/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validSignup() models.SignupRequest {
	return models.SignupRequest{
		FirstName:       "Jessica",
		LastName:        "Brown",
		Email:           "jessica@example.com",
		Password:        "password1",
		ConfirmPassword: "password1",
		Role:            "patient",
	}
}

func TestValidateSignup(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(r *models.SignupRequest)
		wantField string
		wantMsg   string
	}{
		{"missing first name", func(r *models.SignupRequest) { r.FirstName = "" }, "firstName", "Please fill in all fields"},
		{"missing last name", func(r *models.SignupRequest) { r.LastName = "  " }, "lastName", "Please fill in all fields"},
		{"missing email", func(r *models.SignupRequest) { r.Email = "" }, "email", "Please fill in all fields"},
		{"missing password", func(r *models.SignupRequest) { r.Password = "" }, "password", "Please fill in all fields"},
		{"missing confirmation", func(r *models.SignupRequest) { r.ConfirmPassword = "" }, "confirmPassword", "Please fill in all fields"},
		{"mismatched passwords", func(r *models.SignupRequest) { r.ConfirmPassword = "password2" }, "confirmPassword", "Passwords do not match"},
		{"seven character password", func(r *models.SignupRequest) { r.Password, r.ConfirmPassword = "passwor", "passwor" }, "password", "Password must be at least 8 characters"},
		{"email without domain dot", func(r *models.SignupRequest) { r.Email = "jessica@example" }, "email", "Please enter a valid email address"},
		{"email with spaces", func(r *models.SignupRequest) { r.Email = "jess ica@example.com" }, "email", "Please enter a valid email address"},
		{"unknown role", func(r *models.SignupRequest) { r.Role = "nurse" }, "role", "Please choose patient or doctor"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validSignup()
			tt.mutate(&req)

			_, err := ValidateSignup(req)
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.wantMsg, verr.Message)
			assert.Contains(t, verr.Fields, tt.wantField)
		})
	}
}

func TestValidateSignupAccepts(t *testing.T) {
	req := validSignup()
	req.FirstName = "  Jessica "
	req.Role = "Doctor"

	profile, err := ValidateSignup(req)
	require.NoError(t, err)
	assert.Equal(t, "Jessica", profile.FirstName)
	assert.Equal(t, models.RoleDoctor, profile.Role)
	assert.Equal(t, "password1", profile.Password)
}

func TestValidateSignupReportsEveryMissingField(t *testing.T) {
	_, err := ValidateSignup(models.SignupRequest{Role: "patient"})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Len(t, verr.Fields, 5)
}

func TestValidateLogin(t *testing.T) {
	tests := []struct {
		name      string
		req       models.LoginRequest
		wantField string
	}{
		{"missing email", models.LoginRequest{Password: "x", Role: "patient"}, "email"},
		{"missing password", models.LoginRequest{Email: "patient@example.com", Role: "patient"}, "password"},
		{"bad role", models.LoginRequest{Email: "patient@example.com", Password: "x", Role: "admin"}, "role"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ValidateLogin(tt.req)
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Contains(t, verr.Fields, tt.wantField)
		})
	}

	role, err := ValidateLogin(models.LoginRequest{Email: "doctor@example.com", Password: "x", Role: "doctor"})
	require.NoError(t, err)
	assert.Equal(t, models.RoleDoctor, role)
}

func TestValidateSignupTrimsBeforeTags(t *testing.T) {
	req := validSignup()
	req.Email = "  jessica@example.com\t"

	profile, err := ValidateSignup(req)
	require.NoError(t, err)
	assert.Equal(t, "jessica@example.com", profile.Email)
}

func TestSignupBindingTags(t *testing.T) {
	req := validSignup()
	req.Email = "jessica@example"
	req.Role = "nurse"

	err := utils.ValidateStruct(&req)
	fields, ok := utils.AsFieldErrors(err)
	require.True(t, ok, "expected field errors, got %v", err)
	require.Len(t, fields, 2)
	assert.Equal(t, "email", fields[0].Field())
	assert.Equal(t, "formemail", fields[0].Tag())
	assert.Equal(t, "role", fields[1].Field())
	assert.Equal(t, "role", fields[1].Tag())
}
