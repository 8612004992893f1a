package devserver

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
)

// stats handles GET /api/admin/stats
func (s *Server) stats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.store.stats())
}

// listUsers handles GET /api/admin/users
func (s *Server) listUsers(w http.ResponseWriter, r *http.Request) {
	number, size := pageParams(r)
	writeJSON(w, http.StatusOK, paginate(s.store.listUsers(), number, size))
}

// setUserStatus handles PUT /api/admin/users/{id}/status?isActive=
func (s *Server) setUserStatus(w http.ResponseWriter, r *http.Request) {
	active, err := strconv.ParseBool(r.URL.Query().Get("isActive"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "isActive must be true or false")
		return
	}
	id := chi.URLParam(r, "id")
	if id == claimsFrom(r.Context()).Subject && !active {
		writeError(w, http.StatusConflict, "You cannot deactivate your own account")
		return
	}
	if err := s.store.setUserActive(id, active); err != nil {
		writeStoreError(w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}

// deleteUser handles DELETE /api/admin/users/{id}
func (s *Server) deleteUser(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == claimsFrom(r.Context()).Subject {
		writeError(w, http.StatusConflict, "You cannot delete your own account")
		return
	}
	if err := s.store.deleteUser(id); err != nil {
		writeStoreError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// adminJobs handles GET /api/admin/jobs
func (s *Server) adminJobs(w http.ResponseWriter, r *http.Request) {
	number, size := pageParams(r)
	writeJSON(w, http.StatusOK, paginate(s.store.allJobs(), number, size))
}

// adminDeleteJob handles DELETE /api/admin/jobs/{id}
func (s *Server) adminDeleteJob(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r.Context())
	if err := s.store.deleteJob(claims.Subject, claims.Role, chi.URLParam(r, "id")); err != nil {
		writeStoreError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
