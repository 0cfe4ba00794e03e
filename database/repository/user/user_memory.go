package userRepo

import (
	"context"
	"strings"
	"sync"
	"time"

	"medischedule/models"
)

// MemoryUserRepo is an in-process user directory.
type MemoryUserRepo struct {
	mu      sync.RWMutex
	byEmail map[string]models.UserRecord
}

func NewMemoryUserRepo() *MemoryUserRepo {
	return &MemoryUserRepo{byEmail: make(map[string]models.UserRecord)}
}

func (r *MemoryUserRepo) GetByEmail(ctx context.Context, email string) (*models.UserRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	user, ok := r.byEmail[normalizeEmail(email)]
	if !ok {
		return nil, ErrUserNotFound
	}
	return &user, nil
}

func (r *MemoryUserRepo) GetByID(ctx context.Context, id string) (*models.UserRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, user := range r.byEmail {
		if user.ID == id {
			u := user
			return &u, nil
		}
	}
	return nil, ErrUserNotFound
}

func (r *MemoryUserRepo) Create(ctx context.Context, user *models.UserRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	user.Email = normalizeEmail(user.Email)
	if _, exists := r.byEmail[user.Email]; exists {
		return ErrDuplicateEmail
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now()
	}
	r.byEmail[user.Email] = *user
	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
