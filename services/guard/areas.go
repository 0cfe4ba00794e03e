package guard

import (
	"path"
	"strings"

	"medischedule/models"
)

// Area is a group of pages sharing one access rule.
type Area string

const (
	AreaPublic  Area = "public"
	AreaPatient Area = "patient"
	AreaDoctor  Area = "doctor"
	// AreaAuth holds the login and signup pages; only anonymous users stay there.
	AreaAuth Area = "auth"
)

var areaPrefixes = []struct {
	prefix string
	area   Area
}{
	{"/dashboard", AreaPatient},
	{"/doctor", AreaDoctor},
	{LoginPath, AreaAuth},
}

// AreaFor classifies a request path. Matching is by whole path segments,
// so "/doctors" is public while "/doctor/schedule" is in the doctor area.
func AreaFor(p string) Area {
	if p == "" {
		return AreaPublic
	}
	if i := strings.IndexAny(p, "?#"); i >= 0 {
		p = p[:i]
	}
	p = path.Clean("/" + p)
	for _, ap := range areaPrefixes {
		if p == ap.prefix || strings.HasPrefix(p, ap.prefix+"/") {
			return ap.area
		}
	}
	return AreaPublic
}

// Required returns the roles allowed into the area.
func (a Area) Required() []models.Role {
	switch a {
	case AreaPatient:
		return []models.Role{models.RolePatient}
	case AreaDoctor:
		return []models.Role{models.RoleDoctor}
	default:
		return nil
	}
}

// State is the session as seen by the guard.
type State struct {
	Loading  bool
	Identity *models.Identity
}

// Navigate decides a navigation to p using the area p belongs to.
func Navigate(state State, p string) Decision {
	switch area := AreaFor(p); area {
	case AreaPatient, AreaDoctor:
		return Decide(Input{
			Loading:  state.Loading,
			Identity: state.Identity,
			Required: area.Required(),
			Path:     p,
		})
	case AreaAuth:
		if state.Loading {
			return Decision{Kind: KindLoading}
		}
		if state.Identity != nil {
			return Decision{Kind: KindRedirectHome, Target: HomePath(state.Identity.Role)}
		}
		return Decision{Kind: KindRender}
	default:
		return Decision{Kind: KindRender}
	}
}
