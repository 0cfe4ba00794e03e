package handlers

import (
	"net/http"

	"medischedule/middleware"
	"medischedule/services/guard"

	"github.com/gin-gonic/gin"
)

// NavigationHandler answers what a client should do when navigating to ?path=.
func NavigationHandler(c *gin.Context) {
	path := c.Query("path")
	if path == "" {
		path = "/"
	}

	state := guard.State{}
	if sess, ok := middleware.GetSession(c); ok {
		state = guard.State{Loading: sess.Store.Loading(), Identity: sess.Store.Identity()}
	}

	c.JSON(http.StatusOK, gin.H{
		"path":     path,
		"area":     guard.AreaFor(path),
		"decision": guard.Navigate(state, path),
	})
}

// PageHandler renders the page shell for a path that PageGuard let through.
func PageHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"page": c.Request.URL.Path,
		"area": guard.AreaFor(c.Request.URL.Path),
		"user": middleware.CurrentIdentity(c),
	})
}
