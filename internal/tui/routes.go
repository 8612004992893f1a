package tui

import (
	"context"
	"errors"

	"github.com/jobportal/jobportal-tui/internal/access"
	"github.com/jobportal/jobportal-tui/internal/api"
	"github.com/jobportal/jobportal-tui/internal/auth"
	"github.com/jobportal/jobportal-tui/internal/session"
)

// newScreen builds the screen for a route the gate has already allowed
func newScreen(route access.Route, e env, p params) screen {
	switch route {
	case access.RouteLogin:
		return newLoginScreen(e, p)
	case access.RouteRegister:
		return newRegisterScreen(e)
	case access.RouteForgotPassword:
		return newForgotPasswordScreen(e, p)
	case access.RouteResetPassword:
		return newResetPasswordScreen(e, p)
	case access.RouteVerifyEmail:
		return newVerifyEmailScreen(e, p)
	case access.RouteJobs:
		return newJobsScreen(e)
	case access.RouteJobDetail:
		return newJobDetailScreen(e, p)
	case access.RouteCompanyReviews:
		return newReviewsScreen(e, p)
	case access.RoutePostJob:
		return newPostJobScreen(e, p)
	case access.RouteRecruiterDashboard:
		return newRecruiterDashboard(e)
	case access.RouteJobApplications:
		return newJobApplicationsScreen(e, p)
	case access.RouteJobseekerDashboard:
		return newJobseekerDashboard(e)
	case access.RouteApplications:
		return newApplicationsScreen(e)
	case access.RouteResumes:
		return newResumesScreen(e)
	case access.RouteSavedJobs:
		return newSavedJobsScreen(e)
	case access.RouteNotifications:
		return newNotificationsScreen(e)
	case access.RouteSettings:
		return newSettingsScreen(e)
	case access.RouteChat:
		return newChatScreen(e)
	case access.RouteAdminDashboard:
		return newAdminDashboard(e)
	default:
		return newHomeScreen(e)
	}
}

// state rebuilds the session snapshot the screen was mounted with
func (e env) state() session.State {
	if e.identity == nil {
		return session.State{Status: session.StatusAnonymous}
	}
	return session.State{Status: session.StatusAuthenticated, Identity: e.identity}
}

// errorText converts a failed call into the line shown to the user
func errorText(err error, fallback string) string {
	var f *auth.Failure
	if errors.As(err, &f) {
		return f.Message
	}
	return api.UserMessage(err, fallback)
}

// quiet reports errors a screen should not surface, such as its own
// context being cancelled on unmount
func quiet(err error) bool {
	return errors.Is(err, context.Canceled)
}
