package session

import (
	"context"
	"errors"
	"fmt"
	"strings"

	userRepo "medischedule/database/repository/user"
	"medischedule/models"

	"golang.org/x/crypto/bcrypt"
)

// Authenticator checks credentials for a role and returns the matching identity.
type Authenticator interface {
	Authenticate(ctx context.Context, email, password string, role models.Role) (*models.Identity, error)
}

// Registrar records a new account. A nil Registrar accepts every signup.
type Registrar interface {
	Register(ctx context.Context, identity models.Identity, password string) error
}

// SampleUsers are the demo accounts returned by DemoAuthenticator.
func SampleUsers() map[models.Role]models.Identity {
	return map[models.Role]models.Identity{
		models.RolePatient: {
			ID:        "p1",
			Email:     "patient@example.com",
			FirstName: "Jessica",
			LastName:  "Brown",
			Role:      models.RolePatient,
		},
		models.RoleDoctor: {
			ID:        "d1",
			Email:     "doctor@example.com",
			FirstName: "Sarah",
			LastName:  "Johnson",
			Role:      models.RoleDoctor,
		},
	}
}

// DemoAuthenticator accepts any email that contains the role name and
// answers with that role's sample account. The password is not checked.
type DemoAuthenticator struct {
	Users map[models.Role]models.Identity
}

func NewDemoAuthenticator() *DemoAuthenticator {
	return &DemoAuthenticator{Users: SampleUsers()}
}

func (a *DemoAuthenticator) Authenticate(ctx context.Context, email, password string, role models.Role) (*models.Identity, error) {
	switch role {
	case models.RolePatient, models.RoleDoctor:
		if !strings.Contains(email, string(role)) {
			return nil, ErrInvalidCredentials
		}
		user, ok := a.Users[role]
		if !ok {
			return nil, ErrInvalidCredentials
		}
		return &user, nil
	default:
		return nil, fmt.Errorf("%w: unknown role %q", ErrInvalidCredentials, role)
	}
}

// DirectoryAuthenticator checks bcrypt password hashes stored in a user repository.
type DirectoryAuthenticator struct {
	Users userRepo.UserRepository
}

func (a *DirectoryAuthenticator) Authenticate(ctx context.Context, email, password string, role models.Role) (*models.Identity, error) {
	if !role.Valid() {
		return nil, fmt.Errorf("%w: unknown role %q", ErrInvalidCredentials, role)
	}
	rec, err := a.Users.GetByEmail(ctx, email)
	if errors.Is(err, userRepo.ErrUserNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, &UnavailableError{Op: "authenticate", Err: err}
	}
	if rec.Role != role {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(rec.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	identity := rec.Identity
	return &identity, nil
}

// DirectoryRegistrar stores new accounts with a bcrypt password hash.
type DirectoryRegistrar struct {
	Users userRepo.UserRepository
}

func (r *DirectoryRegistrar) Register(ctx context.Context, identity models.Identity, password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	err = r.Users.Create(ctx, &models.UserRecord{Identity: identity, PasswordHash: string(hash)})
	if errors.Is(err, userRepo.ErrDuplicateEmail) {
		verr := &ValidationError{}
		verr.add("email", "An account with this email already exists")
		return verr
	}
	if err != nil {
		return &UnavailableError{Op: "register", Err: err}
	}
	return nil
}

// SeedUsers registers users with password, skipping accounts that already exist.
func SeedUsers(ctx context.Context, reg Registrar, users []models.Identity, password string) (int, error) {
	added := 0
	for _, u := range users {
		err := reg.Register(ctx, u, password)
		var verr *ValidationError
		if errors.As(err, &verr) {
			continue
		}
		if err != nil {
			return added, err
		}
		added++
	}
	return added, nil
}
