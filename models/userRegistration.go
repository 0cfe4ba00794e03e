package models

// LoginRequest is the body of a login attempt.
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
	Role     string `json:"role" binding:"role"`
}

// SignupRequest is the body of a signup attempt, before validation.
type SignupRequest struct {
	FirstName       string `json:"firstName" binding:"required"`
	LastName        string `json:"lastName" binding:"required"`
	Email           string `json:"email" binding:"required,formemail"`
	Password        string `json:"password" binding:"required,min=8"`
	ConfirmPassword string `json:"confirmPassword" binding:"required,eqfield=Password"`
	Role            string `json:"role" binding:"role"`
}

// Profile is a validated signup request.
type Profile struct {
	FirstName string
	LastName  string
	Email     string
	Password  string
	Role      Role
}
