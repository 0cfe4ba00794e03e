package session

import (
	"regexp"
	"strings"

	"medischedule/models"
	"medischedule/utils"

	"github.com/go-playground/validator/v10"
)

// MinPasswordLength is the shortest password accepted at signup.
const MinPasswordLength = 8

const (
	msgFillAllFields    = "Please fill in all fields"
	msgPasswordMismatch = "Passwords do not match"
	msgPasswordTooShort = "Password must be at least 8 characters"
	msgInvalidEmail     = "Please enter a valid email address"
	msgInvalidRole      = "Please choose patient or doctor"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

func init() {
	utils.RegisterValidation("formemail", func(fl validator.FieldLevel) bool {
		return emailPattern.MatchString(fl.Field().String())
	})
	utils.RegisterValidation("role", func(fl validator.FieldLevel) bool {
		_, err := models.ParseRole(fl.Field().String())
		return err == nil
	})
}

// messageFor is the form message shown for a failed binding tag.
func messageFor(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return msgFillAllFields
	case "formemail", "email":
		return msgInvalidEmail
	case "min":
		return msgPasswordTooShort
	case "eqfield":
		return msgPasswordMismatch
	case "role":
		return msgInvalidRole
	default:
		return fe.Error()
	}
}

// validationFrom converts binding tag failures into a ValidationError.
func validationFrom(err error) error {
	fields, ok := utils.AsFieldErrors(err)
	if !ok {
		return err
	}
	verr := &ValidationError{}
	for _, fe := range fields {
		verr.add(fe.Field(), messageFor(fe))
	}
	return verr
}

// ValidateLogin checks that a login form is complete and names a known role.
func ValidateLogin(req models.LoginRequest) (models.Role, error) {
	req.Email = strings.TrimSpace(req.Email)
	if err := utils.ValidateStruct(&req); err != nil {
		return "", validationFrom(err)
	}
	return models.ParseRole(req.Role)
}

// ValidateSignup checks a signup form and returns the profile to register.
// Names and email are trimmed before the binding tags run.
func ValidateSignup(req models.SignupRequest) (models.Profile, error) {
	req.FirstName = strings.TrimSpace(req.FirstName)
	req.LastName = strings.TrimSpace(req.LastName)
	req.Email = strings.TrimSpace(req.Email)
	if err := utils.ValidateStruct(&req); err != nil {
		return models.Profile{}, validationFrom(err)
	}
	role, err := models.ParseRole(req.Role)
	if err != nil {
		return models.Profile{}, err
	}
	return models.Profile{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Password:  req.Password,
		Role:      role,
	}, nil
}
