package devserver

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/jobportal/jobportal-tui/internal/model"
)

// apply handles POST /api/applications/job/{jobId}
func (s *Server) apply(w http.ResponseWriter, r *http.Request) {
	var req model.ApplicationInput
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	app, err := s.store.apply(claimsFrom(r.Context()).Subject, chi.URLParam(r, "jobId"), req)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, app)
}

// myApplications handles GET /api/applications
func (s *Server) myApplications(w http.ResponseWriter, r *http.Request) {
	number, size := pageParams(r)
	apps := s.store.applicationsBy(claimsFrom(r.Context()).Subject)
	writeJSON(w, http.StatusOK, paginate(apps, number, size))
}

// getApplication handles GET /api/applications/{id}
func (s *Server) getApplication(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r.Context())
	app, err := s.store.application(claims.Subject, claims.Role, chi.URLParam(r, "id"))
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, app)
}

// jobApplications handles GET /api/applications/job/{jobId}
func (s *Server) jobApplications(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r.Context())
	apps, err := s.store.applicationsFor(claims.Subject, claims.Role, chi.URLParam(r, "jobId"))
	if err != nil {
		writeStoreError(w, err)
		return
	}
	number, size := pageParams(r)
	writeJSON(w, http.StatusOK, paginate(apps, number, size))
}

// updateApplicationStatus handles PUT /api/applications/{id}/status?status=&notes=&rejectionReason=
func (s *Server) updateApplicationStatus(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	var status model.ApplicationStatus
	_ = status.UnmarshalText([]byte(q.Get("status")))

	upd := model.StatusUpdate{
		Status:          status,
		Notes:           q.Get("notes"),
		RejectionReason: q.Get("rejectionReason"),
	}
	app, err := s.store.updateApplicationStatus(claimsFrom(r.Context()).Subject, chi.URLParam(r, "id"), upd)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, app)
}

// withdraw handles DELETE /api/applications/{id}
func (s *Server) withdraw(w http.ResponseWriter, r *http.Request) {
	if err := s.store.withdraw(claimsFrom(r.Context()).Subject, chi.URLParam(r, "id")); err != nil {
		writeStoreError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
