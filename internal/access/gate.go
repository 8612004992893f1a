package access

import (
	"github.com/jobportal/jobportal-tui/internal/session"
)

// Kind is the outcome of one navigation attempt
type Kind int

const (
	// Pending means the session is still being restored; show a loader
	Pending Kind = iota
	DeniedAnonymous
	DeniedRole
	Allowed
)

func (k Kind) String() string {
	switch k {
	case Pending:
		return "pending"
	case DeniedAnonymous:
		return "denied_anonymous"
	case DeniedRole:
		return "denied_role"
	case Allowed:
		return "allowed"
	default:
		return "unknown"
	}
}

// Decision says what to render for a requested route. Redirect is set for
// both denial kinds.
type Decision struct {
	Kind     Kind
	Route    Route
	Redirect Route
}

// Decide evaluates route against the session snapshot. It holds no state;
// callers re-run it whenever the session or the route changes.
//
// Nothing is decided while the session is initializing, public routes
// included, so the first frame never shows a screen the restored session
// would redirect away from. Unknown routes are treated as requiring a role
// nobody holds.
func Decide(st session.State, route Route) Decision {
	d := Decision{Route: route}
	if st.Status == session.StatusInitializing {
		d.Kind = Pending
		return d
	}

	rule, known := catalog[route]
	if known && rule.Public {
		d.Kind = Allowed
		return d
	}

	if !st.Authenticated() {
		d.Kind = DeniedAnonymous
		d.Redirect = RouteLogin
		return d
	}
	if !known || !rule.Admits(st.Role()) {
		d.Kind = DeniedRole
		d.Redirect = DefaultLanding
		return d
	}
	d.Kind = Allowed
	return d
}

// Visible filters routes down to the ones the session would be allowed to
// open, for building navigation menus.
func Visible(st session.State, routes ...Route) []Route {
	var out []Route
	for _, r := range routes {
		if Decide(st, r).Kind == Allowed {
			out = append(out, r)
		}
	}
	return out
}
