package devserver

import (
	"net/http"
	"strings"

	"github.com/jobportal/jobportal-tui/internal/model"
)

// register handles POST /api/auth/register
func (s *Server) register(w http.ResponseWriter, r *http.Request) {
	var req model.Registration
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if req.Role == "" {
		writeError(w, http.StatusBadRequest, "Account type is required")
		return
	}
	if !req.Role.SelfService() {
		writeError(w, http.StatusBadRequest, "Admin accounts cannot be self-registered")
		return
	}
	if !ValidPassword(req.Password) {
		writeError(w, http.StatusBadRequest, PasswordRule)
		return
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "could not hash password")
		return
	}
	// Accounts are verified on creation; the verification link still works
	u, err := s.store.createUser(req.Name, req.Email, hash, req.Role, true)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	tok := s.store.issueVerifyToken(u.ID)
	s.logger.Info("user registered", "user_id", u.ID, "role", u.Role, "verify_token", tok)

	s.writeAuth(w, http.StatusCreated, u.Identity)
}

// login handles POST /api/auth/login
func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	var req model.Credentials
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if strings.TrimSpace(req.Email) == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "Email and password are required")
		return
	}

	u, ok := s.store.userByEmail(req.Email)
	if !ok || s.hasher.Compare(u.PasswordHash, req.Password) != nil {
		s.logger.Warn("failed login", "email", req.Email)
		writeError(w, http.StatusUnauthorized, "Invalid email or password")
		return
	}
	if !u.IsActive {
		writeError(w, http.StatusForbidden, "Account has been deactivated. Please contact support.")
		return
	}
	if !u.IsEmailVerified {
		writeError(w, http.StatusForbidden, "Please verify your email before logging in")
		return
	}

	s.writeAuth(w, http.StatusOK, u.Identity)
}

func (s *Server) writeAuth(w http.ResponseWriter, status int, id model.Identity) {
	token, err := s.tokens.Issue(id.ID, id.Email, id.Role)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "could not issue token")
		return
	}
	writeJSON(w, status, model.AuthResult{Token: token, Type: "Bearer", User: id})
}

// sendVerificationEmail handles POST /api/auth/send-verification-email?email=
func (s *Server) sendVerificationEmail(w http.ResponseWriter, r *http.Request) {
	u, ok := s.store.userByEmail(r.URL.Query().Get("email"))
	if !ok {
		writeError(w, http.StatusNotFound, "User not found")
		return
	}
	if u.IsEmailVerified {
		writeError(w, http.StatusBadRequest, "Email already verified")
		return
	}
	tok := s.store.issueVerifyToken(u.ID)
	s.logger.Info("verification email", "email", u.Email, "link", "/verify-email?token="+tok)
	writeJSON(w, http.StatusOK, map[string]string{"message": "Verification email sent"})
}

// verifyEmail handles GET /api/auth/verify-email?token=
func (s *Server) verifyEmail(w http.ResponseWriter, r *http.Request) {
	if err := s.store.verifyEmail(r.URL.Query().Get("token")); err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Email verified successfully"})
}

// requestPasswordReset handles POST /api/auth/request-password-reset?email=
func (s *Server) requestPasswordReset(w http.ResponseWriter, r *http.Request) {
	u, ok := s.store.userByEmail(r.URL.Query().Get("email"))
	if !ok {
		writeError(w, http.StatusNotFound, "User not found")
		return
	}
	tok := s.store.issueResetToken(u.ID)
	s.logger.Info("password reset email", "email", u.Email, "link", "/reset-password?token="+tok)
	writeJSON(w, http.StatusOK, map[string]string{"message": "Password reset email sent"})
}

// resetPassword handles POST /api/auth/reset-password?token=&newPassword=
func (s *Server) resetPassword(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	newPassword := q.Get("newPassword")
	if !ValidPassword(newPassword) {
		writeError(w, http.StatusBadRequest, PasswordRule)
		return
	}
	userID, err := s.store.consumeResetToken(q.Get("token"))
	if err != nil {
		writeStoreError(w, err)
		return
	}
	if old, ok := s.store.passwordHash(userID); ok && s.hasher.Compare(old, newPassword) == nil {
		writeError(w, http.StatusBadRequest, "New password must be different from current password")
		return
	}
	if err := s.setPassword(userID, newPassword); err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Password reset successful"})
}

func (s *Server) setPassword(userID, password string) error {
	hash, err := s.hasher.Hash(password)
	if err != nil {
		return err
	}
	return s.store.setPasswordHash(userID, hash)
}

// getProfile handles GET /api/users/profile
func (s *Server) getProfile(w http.ResponseWriter, r *http.Request) {
	p, err := s.store.profile(claimsFrom(r.Context()).Subject)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// updateProfile handles PUT /api/users/profile
func (s *Server) updateProfile(w http.ResponseWriter, r *http.Request) {
	var req model.ProfileUpdate
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	p, err := s.store.updateProfile(claimsFrom(r.Context()).Subject, req)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// changePassword handles PUT /api/users/password?oldPassword=&newPassword=
func (s *Server) changePassword(w http.ResponseWriter, r *http.Request) {
	userID := claimsFrom(r.Context()).Subject
	q := r.URL.Query()

	hash, ok := s.store.passwordHash(userID)
	if !ok {
		writeError(w, http.StatusNotFound, "User not found")
		return
	}
	if s.hasher.Compare(hash, q.Get("oldPassword")) != nil {
		writeError(w, http.StatusBadRequest, "Current password is incorrect")
		return
	}
	if !ValidPassword(q.Get("newPassword")) {
		writeError(w, http.StatusBadRequest, PasswordRule)
		return
	}
	if err := s.setPassword(userID, q.Get("newPassword")); err != nil {
		writeStoreError(w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}
