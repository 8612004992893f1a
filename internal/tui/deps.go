package tui

import (
	"context"
	"log/slog"

	"github.com/jobportal/jobportal-tui/internal/model"
	"github.com/jobportal/jobportal-tui/internal/session"
)

// Backend is the REST surface the screens use. *api.Client implements it.
type Backend interface {
	CurrentUser(ctx context.Context) (*model.Identity, error)

	FeaturedJobs(ctx context.Context) ([]model.Job, error)
	ListJobs(ctx context.Context, page, size int, filter model.JobFilter) (*model.Page[model.Job], error)
	SearchJobs(ctx context.Context, query string, page, size int) (*model.Page[model.Job], error)
	GetJob(ctx context.Context, id string) (*model.Job, error)
	CreateJob(ctx context.Context, in model.JobInput) (*model.Job, error)
	UpdateJob(ctx context.Context, id string, in model.JobInput) (*model.Job, error)
	DeleteJob(ctx context.Context, id string) error
	MyJobs(ctx context.Context, page, size int) (*model.Page[model.Job], error)
	MatchJobs(ctx context.Context, resumeID string) ([]model.MatchedJob, error)

	Apply(ctx context.Context, jobID string, in model.ApplicationInput) (*model.Application, error)
	MyApplications(ctx context.Context, page, size int) (*model.Page[model.Application], error)
	JobApplications(ctx context.Context, jobID string, page, size int) (*model.Page[model.Application], error)
	UpdateApplicationStatus(ctx context.Context, id string, upd model.StatusUpdate) (*model.Application, error)
	WithdrawApplication(ctx context.Context, id string) error

	Resumes(ctx context.Context) ([]model.Resume, error)
	DefaultResume(ctx context.Context) (*model.Resume, error)
	CreateResume(ctx context.Context, in model.ResumeInput) (*model.Resume, error)
	UpdateResume(ctx context.Context, id string, in model.ResumeInput) (*model.Resume, error)
	SetDefaultResume(ctx context.Context, id string) (*model.Resume, error)
	DeleteResume(ctx context.Context, id string) error

	SavedJobs(ctx context.Context, page, size int) (*model.Page[model.SavedJob], error)
	SaveJob(ctx context.Context, jobID string) (*model.SavedJob, error)
	UnsaveJob(ctx context.Context, jobID string) error
	IsJobSaved(ctx context.Context, jobID string) (bool, error)

	Notifications(ctx context.Context, page, size int) (*model.Page[model.Notification], error)
	UnreadCount(ctx context.Context) (int64, error)
	MarkNotificationRead(ctx context.Context, id string) error
	MarkAllNotificationsRead(ctx context.Context) error
	DeleteNotification(ctx context.Context, id string) error

	Chat(ctx context.Context, message string) (*model.ChatReply, error)

	Profile(ctx context.Context) (*model.Profile, error)
	UpdateProfile(ctx context.Context, in model.ProfileUpdate) (*model.Profile, error)
	ChangePassword(ctx context.Context, in model.PasswordChange) error

	PlatformStats(ctx context.Context) (*model.PlatformStats, error)
	AdminUsers(ctx context.Context, page, size int) (*model.Page[model.Profile], error)
	SetUserActive(ctx context.Context, id string, active bool) error
	DeleteUser(ctx context.Context, id string) error
	AdminJobs(ctx context.Context, page, size int) (*model.Page[model.Job], error)
	AdminDeleteJob(ctx context.Context, id string) error

	CompanyReviews(ctx context.Context, companyID string) ([]model.CompanyReview, error)
	SubmitCompanyReview(ctx context.Context, companyID string, in model.ReviewInput) (*model.CompanyReview, error)
}

// Authenticator is the auth surface. *auth.Gateway implements it.
type Authenticator interface {
	Login(ctx context.Context, creds model.Credentials) (*model.Identity, error)
	Register(ctx context.Context, reg model.Registration) (*model.Identity, error)
	Logout() error
	RequestPasswordReset(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, token, newPassword, confirm string) error
	VerifyEmail(ctx context.Context, token string) error
	ResendVerification(ctx context.Context, email string) error
}

// Sessions is the session store as the root model sees it
type Sessions interface {
	State() session.State
	Subscribe() (<-chan session.State, func())
	Restore(ctx context.Context, fetch session.IdentityFetcher) session.State
}

// Deps are the collaborators wired in by cmd/jobportal
type Deps struct {
	Session  Sessions
	Auth     Authenticator
	API      Backend
	Logger   *slog.Logger
	PageSize int
	Debug    bool

	// LastEmail prefills the login form; RememberEmail is called with the
	// address of every successful sign in
	LastEmail     string
	RememberEmail func(email string)
}

// env is what a mounted screen gets. ctx is cancelled when the screen is
// replaced.
type env struct {
	ctx      context.Context
	api      Backend
	auth     Authenticator
	identity *model.Identity
	pageSize int
	logger   *slog.Logger
	keys     KeyMap

	lastEmail string
	remember  func(email string)
}

func (e env) role() model.Role {
	if e.identity == nil {
		return ""
	}
	return e.identity.Role
}
