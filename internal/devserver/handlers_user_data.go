package devserver

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/jobportal/jobportal-tui/internal/model"
)

// listSaved handles GET /api/saved-jobs
func (s *Server) listSaved(w http.ResponseWriter, r *http.Request) {
	number, size := pageParams(r)
	writeJSON(w, http.StatusOK, paginate(s.store.savedJobs(claimsFrom(r.Context()).Subject), number, size))
}

// saveJob handles POST /api/saved-jobs/{jobId}
func (s *Server) saveJob(w http.ResponseWriter, r *http.Request) {
	saved, err := s.store.saveJob(claimsFrom(r.Context()).Subject, chi.URLParam(r, "jobId"))
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, saved)
}

// unsaveJob handles DELETE /api/saved-jobs/{jobId}
func (s *Server) unsaveJob(w http.ResponseWriter, r *http.Request) {
	if err := s.store.unsaveJob(claimsFrom(r.Context()).Subject, chi.URLParam(r, "jobId")); err != nil {
		writeStoreError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// isSaved handles GET /api/saved-jobs/{jobId}/check
func (s *Server) isSaved(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.store.isSaved(claimsFrom(r.Context()).Subject, chi.URLParam(r, "jobId")))
}

// listNotifications handles GET /api/notifications
func (s *Server) listNotifications(w http.ResponseWriter, r *http.Request) {
	number, size := pageParams(r)
	writeJSON(w, http.StatusOK, paginate(s.store.notificationsFor(claimsFrom(r.Context()).Subject), number, size))
}

// unreadCount handles GET /api/notifications/unread/count
func (s *Server) unreadCount(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.store.unreadCount(claimsFrom(r.Context()).Subject))
}

// markRead handles PUT /api/notifications/{id}/read
func (s *Server) markRead(w http.ResponseWriter, r *http.Request) {
	n, err := s.store.markRead(claimsFrom(r.Context()).Subject, chi.URLParam(r, "id"))
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, n)
}

// markAllRead handles PUT /api/notifications/read-all
func (s *Server) markAllRead(w http.ResponseWriter, r *http.Request) {
	s.store.markAllRead(claimsFrom(r.Context()).Subject)
	w.WriteHeader(http.StatusOK)
}

// deleteNotification handles DELETE /api/notifications/{id}
func (s *Server) deleteNotification(w http.ResponseWriter, r *http.Request) {
	if err := s.store.deleteNotification(claimsFrom(r.Context()).Subject, chi.URLParam(r, "id")); err != nil {
		writeStoreError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// chatMessage handles POST /api/chat. Over the limit it answers 429 with a
// plain text body.
func (s *Server) chatMessage(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r.Context())
	if !s.chat.allow(claims.Subject) {
		s.logger.Warn("chat rate limited", "user_id", claims.Subject)
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(RateLimitMessage))
		return
	}

	var req model.ChatRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		writeError(w, http.StatusBadRequest, "Message is required")
		return
	}
	writeJSON(w, http.StatusOK, s.store.reply(claims, req.Message))
}
