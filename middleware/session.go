package middleware

import (
	"strings"

	"medischedule/models"
	"medischedule/services/session"
	"medischedule/utils"

	"github.com/gin-gonic/gin"
)

// SessionKey holds the *session.Session in the gin context.
const SessionKey = "session"

// SessionMiddleware resolves the caller's session from the session cookie or
// a bearer token and closes its store when the request ends.
func SessionMiddleware(mgr *session.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess := mgr.Open(c.Request.Context(), TokenFromRequest(c))
		c.Set(SessionKey, sess)
		defer sess.Store.Close()
		c.Next()
	}
}

// TokenFromRequest reads the session token, preferring the Authorization header.
func TokenFromRequest(c *gin.Context) string {
	if auth := c.GetHeader("Authorization"); strings.HasPrefix(auth, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))
	}
	if cookie, err := c.Cookie(utils.SessionCookieName); err == nil {
		return cookie
	}
	return ""
}

// GetSession returns the session set by SessionMiddleware.
func GetSession(c *gin.Context) (*session.Session, bool) {
	v, ok := c.Get(SessionKey)
	if !ok {
		return nil, false
	}
	sess, ok := v.(*session.Session)
	return sess, ok && sess != nil
}

// CurrentIdentity is the authenticated identity of the request, if any.
func CurrentIdentity(c *gin.Context) *models.Identity {
	sess, ok := GetSession(c)
	if !ok {
		return nil
	}
	return sess.Store.Identity()
}
