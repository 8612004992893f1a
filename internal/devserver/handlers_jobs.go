package devserver

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/jobportal/jobportal-tui/internal/model"
)

// listJobs handles GET /api/jobs
func (s *Server) listJobs(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := model.JobFilter{
		Location: q.Get("location"),
		JobType:  q.Get("jobType"),
		Category: q.Get("category"),
	}
	number, size := pageParams(r)
	writeJSON(w, http.StatusOK, paginate(s.store.listJobs(filter), number, size))
}

// searchJobs handles GET /api/jobs/search?q=
func (s *Server) searchJobs(w http.ResponseWriter, r *http.Request) {
	number, size := pageParams(r)
	writeJSON(w, http.StatusOK, paginate(s.store.searchJobs(r.URL.Query().Get("q")), number, size))
}

// featuredJobs handles GET /api/jobs/featured
func (s *Server) featuredJobs(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.store.featuredJobs())
}

// getJob handles GET /api/jobs/{id}
func (s *Server) getJob(w http.ResponseWriter, r *http.Request) {
	job, err := s.store.job(chi.URLParam(r, "id"), true)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, job)
}

// myJobs handles GET /api/jobs/my-jobs
func (s *Server) myJobs(w http.ResponseWriter, r *http.Request) {
	number, size := pageParams(r)
	jobs := s.store.jobsPostedBy(claimsFrom(r.Context()).Subject)
	writeJSON(w, http.StatusOK, paginate(jobs, number, size))
}

// createJob handles POST /api/jobs
func (s *Server) createJob(w http.ResponseWriter, r *http.Request) {
	var req model.JobInput
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	job, err := s.store.createJob(claimsFrom(r.Context()).Subject, req)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, job)
}

// updateJob handles PUT /api/jobs/{id}
func (s *Server) updateJob(w http.ResponseWriter, r *http.Request) {
	var req model.JobInput
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	claims := claimsFrom(r.Context())
	job, err := s.store.updateJob(claims.Subject, claims.Role, chi.URLParam(r, "id"), req)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, job)
}

// deleteJob handles DELETE /api/jobs/{id}
func (s *Server) deleteJob(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r.Context())
	if err := s.store.deleteJob(claims.Subject, claims.Role, chi.URLParam(r, "id")); err != nil {
		writeStoreError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// matchJobs handles POST /api/match-jobs?resumeId=
func (s *Server) matchJobs(w http.ResponseWriter, r *http.Request) {
	matches, err := s.store.matchJobs(claimsFrom(r.Context()).Subject, r.URL.Query().Get("resumeId"))
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, matches)
}

// listReviews handles GET /api/companies/{id}/reviews
func (s *Server) listReviews(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.store.companyReviews(chi.URLParam(r, "id")))
}

// submitReview handles POST /api/companies/{id}/reviews
func (s *Server) submitReview(w http.ResponseWriter, r *http.Request) {
	var req model.ReviewInput
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	review, err := s.store.addReview(chi.URLParam(r, "id"), claimsFrom(r.Context()).Subject, req)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, review)
}
