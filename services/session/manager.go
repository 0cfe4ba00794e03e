package session

import (
	"context"
	"time"

	"medischedule/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Session is one client's store plus the id its token refers to.
type Session struct {
	ID    string
	Store *Store
	// Fresh is set when the request carried no usable token.
	Fresh bool
}

// Manager hands out per-client stores keyed by signed session tokens.
type Manager struct {
	storage Storage
	auth    Authenticator
	opts    Options
}

func NewManager(storage Storage, auth Authenticator, opts Options) *Manager {
	return &Manager{storage: storage, auth: auth, opts: opts}
}

// Open resolves token to a session and initializes its store. A missing,
// malformed or expired token yields a fresh anonymous session.
func (m *Manager) Open(ctx context.Context, token string) *Session {
	logger := utils.GetLogger()

	sess := &Session{}
	if token != "" {
		sid, err := utils.ExtractIDFromToken(token)
		if err != nil {
			logger.Debug("Ignoring invalid session token", zap.Error(err))
		} else {
			sess.ID = sid
		}
	}
	if sess.ID == "" {
		sess.ID = uuid.NewString()
		sess.Fresh = true
	}

	sess.Store = NewStore(m.storage, utils.SessionKeyPrefix+sess.ID, m.auth, m.opts)
	if err := sess.Store.Init(ctx); err != nil {
		logger.Error("Session storage unavailable; continuing unauthenticated", zap.String("sessionId", sess.ID), zap.Error(err))
	}
	return sess
}

// Token signs the session id for the client to present on later requests.
func (m *Manager) Token(sess *Session) (string, error) {
	return utils.GenerateToken(sess.ID, m.TokenTTL())
}

// TokenTTL is how long issued tokens stay valid.
func (m *Manager) TokenTTL() time.Duration {
	if m.opts.TTL > 0 {
		return m.opts.TTL
	}
	return 7 * 24 * time.Hour
}
