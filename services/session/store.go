package session

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"time"

	"medischedule/models"
	"medischedule/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Options tune a Store.
type Options struct {
	// Latency is waited before each login or signup completes.
	Latency time.Duration
	// TTL bounds how long a persisted record lives; zero keeps it forever.
	TTL time.Duration
	// Registrar, when set, records signups.
	Registrar Registrar
}

// Store holds the current identity of one client session and mirrors it to Storage.
//
// A new Store is loading until Init returns. Login and Signup mark it loading
// again while they run.
type Store struct {
	storage Storage
	key     string
	auth    Authenticator
	opts    Options

	mu          sync.RWMutex
	identity    *models.Identity
	initialized bool
	inflight    int
	closed      bool
}

// NewStore binds a store to the record under key. Call Init before use.
func NewStore(storage Storage, key string, auth Authenticator, opts Options) *Store {
	return &Store{storage: storage, key: key, auth: auth, opts: opts}
}

// Key is the storage key of the session record.
func (s *Store) Key() string { return s.key }

// Init rehydrates the identity from storage. An unreadable record is
// deleted and the session starts unauthenticated. Init always leaves the
// store initialized; a storage fault is returned as *UnavailableError.
func (s *Store) Init(ctx context.Context) error {
	logger := utils.GetLogger()
	defer func() {
		s.mu.Lock()
		s.initialized = true
		s.mu.Unlock()
	}()

	raw, err := s.storage.Get(ctx, s.key)
	if errors.Is(err, ErrRecordNotFound) {
		return nil
	}
	if err != nil {
		return &UnavailableError{Op: "init", Err: err}
	}

	identity, err := decodeIdentity(raw)
	if err != nil {
		logger.Warn("Discarding corrupt session record", zap.String("key", s.key), zap.Error(err))
		if delErr := s.storage.Delete(ctx, s.key); delErr != nil {
			logger.Error("Failed to delete corrupt session record", zap.String("key", s.key), zap.Error(delErr))
		}
		return nil
	}

	s.mu.Lock()
	s.identity = identity
	s.mu.Unlock()
	return nil
}

func decodeIdentity(raw string) (*models.Identity, error) {
	var identity models.Identity
	if err := json.Unmarshal([]byte(raw), &identity); err != nil {
		return nil, err
	}
	if identity.ID == "" {
		return nil, errors.New("record has no id")
	}
	if !identity.Role.Valid() {
		return nil, errors.New("record has unknown role " + string(identity.Role))
	}
	return &identity, nil
}

// Loading is true until Init completes and while a login or signup is running.
func (s *Store) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return !s.initialized || s.inflight > 0
}

// Identity returns a copy of the current identity, or nil when unauthenticated.
func (s *Store) Identity() *models.Identity {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.identity == nil {
		return nil
	}
	identity := *s.identity
	return &identity
}

// Login authenticates against the store's Authenticator. On success the
// identity replaces any previous one and is persisted.
func (s *Store) Login(ctx context.Context, email, password string, role models.Role) (*models.Identity, error) {
	if err := s.begin(); err != nil {
		return nil, err
	}
	defer s.end()

	if err := wait(ctx, s.opts.Latency); err != nil {
		return nil, err
	}
	identity, err := s.auth.Authenticate(ctx, email, password, role)
	if err != nil {
		return nil, err
	}
	if err := s.commit(ctx, identity); err != nil {
		return nil, err
	}
	utils.GetLogger().Info("Session login", zap.String("userId", identity.ID), zap.String("role", string(identity.Role)))
	return identity, nil
}

// Signup creates an identity from a validated profile. Emails are not
// checked for uniqueness unless the Registrar does so.
func (s *Store) Signup(ctx context.Context, profile models.Profile) (*models.Identity, error) {
	if err := s.begin(); err != nil {
		return nil, err
	}
	defer s.end()

	if err := wait(ctx, s.opts.Latency); err != nil {
		return nil, err
	}
	identity := &models.Identity{
		ID:        NewUserID(),
		Email:     profile.Email,
		FirstName: profile.FirstName,
		LastName:  profile.LastName,
		Role:      profile.Role,
	}
	if s.opts.Registrar != nil {
		if err := s.opts.Registrar.Register(ctx, *identity, profile.Password); err != nil {
			return nil, err
		}
	}
	if err := s.commit(ctx, identity); err != nil {
		return nil, err
	}
	utils.GetLogger().Info("Session signup", zap.String("userId", identity.ID), zap.String("role", string(identity.Role)))
	return identity, nil
}

// Logout clears the identity and deletes the persisted record.
func (s *Store) Logout(ctx context.Context) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrClosed
	}
	s.identity = nil
	s.mu.Unlock()

	if err := s.storage.Delete(ctx, s.key); err != nil {
		return &UnavailableError{Op: "logout", Err: err}
	}
	return nil
}

// Close ends the store's lifecycle; later operations fail with ErrClosed.
func (s *Store) Close() {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
}

func (s *Store) begin() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	s.inflight++
	return nil
}

func (s *Store) end() {
	s.mu.Lock()
	s.inflight--
	s.mu.Unlock()
}

// commit persists identity and makes it current, unless ctx was cancelled first.
func (s *Store) commit(ctx context.Context, identity *models.Identity) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := json.Marshal(identity)
	if err != nil {
		return err
	}
	if err := s.storage.Set(ctx, s.key, string(data), s.opts.TTL); err != nil {
		return &UnavailableError{Op: "persist", Err: err}
	}
	current := *identity
	s.mu.Lock()
	s.identity = &current
	s.mu.Unlock()
	return nil
}

// wait blocks for d or until ctx is done.
func wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// NewUserID returns an id of the form "user_xxxxxxxx".
func NewUserID() string {
	return "user_" + strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
}
