package middleware

import (
	"net/http"

	"medischedule/models"
	"medischedule/services/guard"
	"medischedule/utils"

	"github.com/gin-gonic/gin"
)

// guardState reads the session store. A request without one counts as anonymous.
func guardState(c *gin.Context) guard.State {
	sess, ok := GetSession(c)
	if !ok {
		return guard.State{}
	}
	return guard.State{Loading: sess.Store.Loading(), Identity: sess.Store.Identity()}
}

// PageGuard gates page navigations by the area of the requested path.
// Redirects become 302s; a session still loading answers 202.
func PageGuard() gin.HandlerFunc {
	return func(c *gin.Context) {
		d := guard.Navigate(guardState(c), c.Request.URL.RequestURI())
		switch d.Kind {
		case guard.KindRender:
			c.Next()
		case guard.KindLoading:
			c.AbortWithStatusJSON(http.StatusAccepted, d)
		case guard.KindRedirectLogin, guard.KindRedirectHome:
			c.Redirect(http.StatusFound, d.Target)
			c.Abort()
		}
	}
}

// RequireRoles admits authenticated callers holding one of roles.
// With no roles any authenticated caller is admitted.
func RequireRoles(roles ...models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		state := guardState(c)
		d := guard.Decide(guard.Input{
			Loading:  state.Loading,
			Identity: state.Identity,
			Required: roles,
			Path:     c.Request.URL.RequestURI(),
		})
		switch d.Kind {
		case guard.KindRender:
			c.Next()
		case guard.KindLoading:
			utils.AbortWithRedirect(c, http.StatusServiceUnavailable, "Session is still loading", "")
		case guard.KindRedirectLogin:
			utils.AbortWithRedirect(c, http.StatusUnauthorized, "Authentication required", d.Target)
		case guard.KindRedirectHome:
			utils.AbortWithRedirect(c, http.StatusForbidden, "You do not have access to this resource", d.Target)
		}
	}
}
