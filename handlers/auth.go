package handlers

import (
	"context"
	"errors"
	"net/http"

	"medischedule/middleware"
	"medischedule/models"
	"medischedule/services/guard"
	"medischedule/services/session"
	"medischedule/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AuthHandler serves login, signup and logout against the request's session store.
type AuthHandler struct {
	Manager      *session.Manager
	SecureCookie bool
}

func NewAuthHandler(mgr *session.Manager, secureCookie bool) *AuthHandler {
	return &AuthHandler{Manager: mgr, SecureCookie: secureCookie}
}

type authResponse struct {
	User     *models.Identity `json:"user"`
	Token    string           `json:"token"`
	Redirect string           `json:"redirect"`
}

type sessionResponse struct {
	Authenticated bool             `json:"authenticated"`
	Loading       bool             `json:"loading"`
	User          *models.Identity `json:"user"`
}

func (h *AuthHandler) LoginHandler(c *gin.Context) {
	logger := getLogger(c)

	var req models.LoginRequest
	// Tag failures are reported by ValidateLogin once the form is trimmed.
	if err := c.ShouldBindJSON(&req); err != nil && !bindingFailure(err) {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request payload", err.Error())
		return
	}
	role, err := session.ValidateLogin(req)
	if err != nil {
		respondValidation(c, err)
		return
	}

	sess, ok := middleware.GetSession(c)
	if !ok {
		utils.JSONError(c, http.StatusInternalServerError, "Session not available", "")
		return
	}

	identity, err := sess.Store.Login(c.Request.Context(), req.Email, req.Password, role)
	if err != nil {
		if errors.Is(err, session.ErrInvalidCredentials) {
			utils.JSONError(c, http.StatusUnauthorized, "Invalid email or password", "")
			return
		}
		logger.Error("Login failed", zap.Error(err))
		respondSessionFault(c, err)
		return
	}

	h.issue(c, sess, identity)
}

func (h *AuthHandler) SignupHandler(c *gin.Context) {
	logger := getLogger(c)

	var req models.SignupRequest
	// Tag failures are reported by ValidateSignup once the form is trimmed.
	if err := c.ShouldBindJSON(&req); err != nil && !bindingFailure(err) {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request payload", err.Error())
		return
	}
	profile, err := session.ValidateSignup(req)
	if err != nil {
		respondValidation(c, err)
		return
	}

	sess, ok := middleware.GetSession(c)
	if !ok {
		utils.JSONError(c, http.StatusInternalServerError, "Session not available", "")
		return
	}

	identity, err := sess.Store.Signup(c.Request.Context(), profile)
	if err != nil {
		var verr *session.ValidationError
		if errors.As(err, &verr) {
			respondValidation(c, err)
			return
		}
		logger.Error("Signup failed", zap.Error(err))
		respondSessionFault(c, err)
		return
	}

	h.issue(c, sess, identity)
}

// issue sets the session cookie and answers with where the client should go next.
func (h *AuthHandler) issue(c *gin.Context, sess *session.Session, identity *models.Identity) {
	token, err := h.Manager.Token(sess)
	if err != nil {
		getLogger(c).Error("Failed to sign session token", zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "Failed to issue session", "")
		return
	}
	h.setCookie(c, token, int(h.Manager.TokenTTL().Seconds()))

	c.JSON(http.StatusOK, authResponse{
		User:     identity,
		Token:    token,
		Redirect: guard.SafeCallback(c.Query("callbackUrl"), identity.Role),
	})
}

func (h *AuthHandler) LogoutHandler(c *gin.Context) {
	sess, ok := middleware.GetSession(c)
	if !ok {
		utils.JSONError(c, http.StatusInternalServerError, "Session not available", "")
		return
	}
	if err := sess.Store.Logout(c.Request.Context()); err != nil {
		getLogger(c).Error("Logout failed", zap.Error(err))
		respondSessionFault(c, err)
		return
	}
	h.setCookie(c, "", -1)
	c.JSON(http.StatusOK, gin.H{"message": "Logged out", "redirect": guard.LoginPath})
}

// SessionHandler reports the identity the request's session holds.
func (h *AuthHandler) SessionHandler(c *gin.Context) {
	sess, ok := middleware.GetSession(c)
	if !ok {
		c.JSON(http.StatusOK, sessionResponse{})
		return
	}
	identity := sess.Store.Identity()
	c.JSON(http.StatusOK, sessionResponse{
		Authenticated: identity != nil,
		Loading:       sess.Store.Loading(),
		User:          identity,
	})
}

func (h *AuthHandler) setCookie(c *gin.Context, value string, maxAge int) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(utils.SessionCookieName, value, maxAge, "/", "", h.SecureCookie, true)
}

// bindingFailure reports whether a bind error is only failed binding tags.
func bindingFailure(err error) bool {
	_, ok := utils.AsFieldErrors(err)
	return ok
}

func respondValidation(c *gin.Context, err error) {
	var verr *session.ValidationError
	if errors.As(err, &verr) {
		utils.JSONFieldErrors(c, verr.Message, verr.Fields)
		return
	}
	utils.JSONError(c, http.StatusBadRequest, err.Error(), "")
}

func respondSessionFault(c *gin.Context, err error) {
	var unavailable *session.UnavailableError
	switch {
	case errors.As(err, &unavailable):
		utils.JSONError(c, http.StatusServiceUnavailable, "Session service unavailable", unavailable.Op)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		utils.JSONError(c, http.StatusRequestTimeout, "Request cancelled", err.Error())
	default:
		utils.JSONError(c, http.StatusServiceUnavailable, "Session service unavailable", err.Error())
	}
}
