package models

import (
	"fmt"
	"strings"
	"time"
)

// Role is the closed set of account kinds.
type Role string

const (
	RolePatient Role = "patient"
	RoleDoctor  Role = "doctor"
)

// Roles lists every valid role.
var Roles = []Role{RolePatient, RoleDoctor}

// ParseRole accepts "patient" or "doctor" in any case.
func ParseRole(s string) (Role, error) {
	switch Role(strings.ToLower(strings.TrimSpace(s))) {
	case RolePatient:
		return RolePatient, nil
	case RoleDoctor:
		return RoleDoctor, nil
	default:
		return "", fmt.Errorf("unknown role %q", s)
	}
}

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RolePatient, RoleDoctor:
		return true
	default:
		return false
	}
}

// Identity is the authenticated user of a session. Its JSON form is the
// persisted session record.
type Identity struct {
	ID        string `json:"id" bson:"id"`
	Email     string `json:"email" bson:"email"`
	FirstName string `json:"firstName" bson:"firstName"`
	LastName  string `json:"lastName" bson:"lastName"`
	Role      Role   `json:"role" bson:"role"`
}

func (i Identity) FullName() string {
	return strings.TrimSpace(i.FirstName + " " + i.LastName)
}

// UserRecord is a directory entry used when credentials are checked for real.
type UserRecord struct {
	Identity     `bson:",inline"`
	PasswordHash string    `json:"-" bson:"passwordHash"`
	CreatedAt    time.Time `json:"createdAt" bson:"createdAt"`
}
