package devserver

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/jobportal/jobportal-tui/internal/model"
)

// listResumes handles GET /api/resumes
func (s *Server) listResumes(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.store.resumesOf(claimsFrom(r.Context()).Subject))
}

// getResume handles GET /api/resumes/{id}
func (s *Server) getResume(w http.ResponseWriter, r *http.Request) {
	res, err := s.store.resume(claimsFrom(r.Context()).Subject, chi.URLParam(r, "id"))
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// defaultResume handles GET /api/resumes/default
func (s *Server) defaultResume(w http.ResponseWriter, r *http.Request) {
	res, err := s.store.defaultResume(claimsFrom(r.Context()).Subject)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// createResume handles POST /api/resumes
func (s *Server) createResume(w http.ResponseWriter, r *http.Request) {
	var req model.ResumeInput
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	res, err := s.store.createResume(claimsFrom(r.Context()).Subject, req)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, res)
}

// updateResume handles PUT /api/resumes/{id}
func (s *Server) updateResume(w http.ResponseWriter, r *http.Request) {
	var req model.ResumeInput
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	res, err := s.store.updateResume(claimsFrom(r.Context()).Subject, chi.URLParam(r, "id"), req)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// setDefaultResume handles PUT /api/resumes/{id}/default
func (s *Server) setDefaultResume(w http.ResponseWriter, r *http.Request) {
	res, err := s.store.setDefaultResume(claimsFrom(r.Context()).Subject, chi.URLParam(r, "id"))
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// deleteResume handles DELETE /api/resumes/{id}
func (s *Server) deleteResume(w http.ResponseWriter, r *http.Request) {
	if err := s.store.deleteResume(claimsFrom(r.Context()).Subject, chi.URLParam(r, "id")); err != nil {
		writeStoreError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
