package devserver

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/jobportal/jobportal-tui/internal/model"
)

// NewRouter creates the Chi router with all routes and middleware.
func NewRouter(s *Server) *chi.Mux {
	r := chi.NewRouter()

	// Global middleware (runs on ALL routes including /health)
	r.Use(RequestID)
	r.Use(AccessLog(s.logger))
	r.Use(Recover(s.logger))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api", func(r chi.Router) {
		// Unauthenticated routes
		r.Post("/auth/register", s.register)
		r.Post("/auth/login", s.login)
		r.Post("/auth/send-verification-email", s.sendVerificationEmail)
		r.Get("/auth/verify-email", s.verifyEmail)
		r.Post("/auth/request-password-reset", s.requestPasswordReset)
		r.Post("/auth/reset-password", s.resetPassword)

		r.Get("/jobs", s.listJobs)
		r.Get("/jobs/search", s.searchJobs)
		r.Get("/jobs/featured", s.featuredJobs)
		r.Get("/jobs/{id}", s.getJob)
		r.Get("/companies/{id}/reviews", s.listReviews)

		// Authenticated routes
		r.Group(func(r chi.Router) {
			r.Use(BearerAuth(s.tokens, s.store))

			r.Get("/users/profile", s.getProfile)
			r.Put("/users/profile", s.updateProfile)
			r.Put("/users/password", s.changePassword)

			r.Get("/applications/{id}", s.getApplication)
			r.Post("/companies/{id}/reviews", s.submitReview)
			r.Post("/chat", s.chatMessage)

			r.Route("/saved-jobs", func(r chi.Router) {
				r.Get("/", s.listSaved)
				r.Post("/{jobId}", s.saveJob)
				r.Delete("/{jobId}", s.unsaveJob)
				r.Get("/{jobId}/check", s.isSaved)
			})

			r.Route("/notifications", func(r chi.Router) {
				r.Get("/", s.listNotifications)
				r.Get("/unread/count", s.unreadCount)
				r.Put("/read-all", s.markAllRead)
				r.Put("/{id}/read", s.markRead)
				r.Delete("/{id}", s.deleteNotification)
			})

			r.Group(func(r chi.Router) {
				r.Use(RequireRole(model.RoleEmployer))
				r.Get("/jobs/my-jobs", s.myJobs)
				r.Post("/jobs", s.createJob)
				r.Put("/applications/{id}/status", s.updateApplicationStatus)
			})

			r.Group(func(r chi.Router) {
				r.Use(RequireRole(model.RoleEmployer, model.RoleAdmin))
				r.Put("/jobs/{id}", s.updateJob)
				r.Delete("/jobs/{id}", s.deleteJob)
				r.Get("/applications/job/{jobId}", s.jobApplications)
			})

			r.Group(func(r chi.Router) {
				r.Use(RequireRole(model.RoleApplicant))
				r.Get("/applications", s.myApplications)
				r.Post("/applications/job/{jobId}", s.apply)
				r.Delete("/applications/{id}", s.withdraw)
				r.Post("/match-jobs", s.matchJobs)

				r.Get("/resumes", s.listResumes)
				r.Post("/resumes", s.createResume)
				r.Get("/resumes/default", s.defaultResume)
				r.Get("/resumes/{id}", s.getResume)
				r.Put("/resumes/{id}", s.updateResume)
				r.Put("/resumes/{id}/default", s.setDefaultResume)
				r.Delete("/resumes/{id}", s.deleteResume)
			})

			r.Route("/admin", func(r chi.Router) {
				r.Use(RequireRole(model.RoleAdmin))
				r.Get("/stats", s.stats)
				r.Get("/users", s.listUsers)
				r.Put("/users/{id}/status", s.setUserStatus)
				r.Delete("/users/{id}", s.deleteUser)
				r.Get("/jobs", s.adminJobs)
				r.Delete("/jobs/{id}", s.adminDeleteJob)
			})
		})
	})

	return r
}
