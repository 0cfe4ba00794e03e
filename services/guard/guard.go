// Package guard decides whether a navigation may proceed for the current
// session, and where to send the user when it may not.
package guard

import (
	"net/url"
	"strings"

	"medischedule/models"
)

// Kind is the outcome of a guard decision.
type Kind string

const (
	KindLoading       Kind = "loading"
	KindRedirectLogin Kind = "redirect_login"
	KindRedirectHome  Kind = "redirect_home"
	KindRender        Kind = "render"
)

const (
	LoginPath         = "/auth"
	PatientHomePath   = "/dashboard"
	DoctorHomePath    = "/doctor/dashboard"
	callbackParameter = "callbackUrl"
)

// Input is everything a decision depends on.
type Input struct {
	Loading  bool
	Identity *models.Identity
	// Required lists the roles allowed through; empty allows any authenticated identity.
	Required []models.Role
	Path     string
}

// Decision tells the caller what to do with a navigation.
type Decision struct {
	Kind Kind `json:"kind"`
	// Target is where to navigate for redirect kinds.
	Target string `json:"target,omitempty"`
	// Remember is the path to return to after logging in.
	Remember string `json:"remember,omitempty"`
}

// Decide applies the guard rules in order: loading, unauthenticated,
// role mismatch, render.
func Decide(in Input) Decision {
	if in.Loading {
		return Decision{Kind: KindLoading}
	}
	if in.Identity == nil {
		return Decision{Kind: KindRedirectLogin, Target: LoginURL(in.Path), Remember: in.Path}
	}
	if len(in.Required) > 0 && !hasRole(in.Required, in.Identity.Role) {
		return Decision{Kind: KindRedirectHome, Target: HomePath(in.Identity.Role)}
	}
	return Decision{Kind: KindRender}
}

func hasRole(roles []models.Role, role models.Role) bool {
	for _, r := range roles {
		if r == role {
			return true
		}
	}
	return false
}

// HomePath is the landing page of a role. Unknown roles land on the public root.
func HomePath(role models.Role) string {
	switch role {
	case models.RolePatient:
		return PatientHomePath
	case models.RoleDoctor:
		return DoctorHomePath
	default:
		return "/"
	}
}

// LoginURL is the login page with path remembered as the callback.
func LoginURL(path string) string {
	if path == "" {
		return LoginPath
	}
	return LoginPath + "?" + callbackParameter + "=" + url.QueryEscape(path)
}

// SafeCallback returns callback when it is a local path, otherwise the role's home.
func SafeCallback(callback string, role models.Role) string {
	if localPath(callback) && AreaFor(callback) != AreaAuth {
		return callback
	}
	return HomePath(role)
}

// localPath accepts a same-origin absolute path. Browsers read a backslash as
// a slash and drop tabs and newlines, so either could turn "/x" into "//host".
func localPath(p string) bool {
	if !strings.HasPrefix(p, "/") || strings.HasPrefix(p, "//") {
		return false
	}
	if strings.Contains(p, `\`) || strings.Contains(strings.ToLower(p), "%5c") {
		return false
	}
	for _, r := range p {
		if r < 0x20 || r == 0x7f {
			return false
		}
	}
	u, err := url.Parse(p)
	return err == nil && u.Scheme == "" && u.Host == ""
}
