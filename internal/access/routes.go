// Package access decides which screens the current session may reach.
package access

import (
	"slices"

	"github.com/jobportal/jobportal-tui/internal/model"
)

// Route names a screen
type Route string

const (
	RouteHome           Route = "home"
	RouteLogin          Route = "login"
	RouteRegister       Route = "register"
	RouteJobs           Route = "jobs"
	RouteJobDetail      Route = "job-detail"
	RouteVerifyEmail    Route = "verify-email"
	RouteForgotPassword Route = "forgot-password"
	RouteResetPassword  Route = "reset-password"
	RouteCompanyReviews Route = "company-reviews"

	RouteDashboard          Route = "dashboard"
	RouteAdminDashboard     Route = "dashboard/admin"
	RouteRecruiterDashboard Route = "dashboard/recruiter"
	RouteJobseekerDashboard Route = "dashboard/jobseeker"
	RoutePostJob            Route = "jobs/post"
	RouteJobApplications    Route = "dashboard/recruiter/applications"
	RouteApplications       Route = "applications"
	RouteResumes            Route = "dashboard/jobseeker/resumes"
	RouteSavedJobs          Route = "saved-jobs"
	RouteNotifications      Route = "notifications"
	RouteSettings           Route = "settings"
	RouteChat               Route = "chat"
)

// Rule is the access requirement of a route. A non-public rule with no
// roles admits any authenticated role, never an anonymous session.
type Rule struct {
	Public bool
	Roles  []model.Role
}

// Admits reports whether role satisfies the rule's role set
func (r Rule) Admits(role model.Role) bool {
	return len(r.Roles) == 0 || slices.Contains(r.Roles, role)
}

var (
	public        = Rule{Public: true}
	authenticated = Rule{}
)

func only(roles ...model.Role) Rule {
	return Rule{Roles: roles}
}

var catalog = map[Route]Rule{
	RouteHome:           public,
	RouteLogin:          public,
	RouteRegister:       public,
	RouteJobs:           public,
	RouteJobDetail:      public,
	RouteVerifyEmail:    public,
	RouteForgotPassword: public,
	RouteResetPassword:  public,
	RouteCompanyReviews: public,

	RouteDashboard:          authenticated,
	RouteAdminDashboard:     only(model.RoleAdmin),
	RouteRecruiterDashboard: only(model.RoleEmployer),
	RouteJobseekerDashboard: only(model.RoleApplicant),
	RoutePostJob:            only(model.RoleEmployer),
	RouteJobApplications:    only(model.RoleEmployer),
	RouteApplications:       only(model.RoleApplicant),
	RouteResumes:            only(model.RoleApplicant),
	RouteSavedJobs:          authenticated,
	RouteNotifications:      authenticated,
	RouteSettings:           authenticated,
	RouteChat:               authenticated,
}

// RuleFor returns the rule registered for route
func RuleFor(route Route) (Rule, bool) {
	r, ok := catalog[route]
	return r, ok
}

// Routes lists every known route in a stable order
func Routes() []Route {
	out := make([]Route, 0, len(catalog))
	for r := range catalog {
		out = append(out, r)
	}
	slices.Sort(out)
	return out
}

// LandingFor returns the screen a role starts on after signing in
func LandingFor(role model.Role) Route {
	switch role {
	case model.RoleAdmin:
		return RouteAdminDashboard
	case model.RoleEmployer:
		return RouteRecruiterDashboard
	case model.RoleApplicant:
		return RouteJobseekerDashboard
	default:
		return DefaultLanding
	}
}

// DefaultLanding receives sessions whose role does not match a screen
const DefaultLanding = RouteHome
