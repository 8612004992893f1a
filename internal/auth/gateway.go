// Package auth turns user initiated auth actions into backend calls and
// session transitions.
package auth

import (
	"context"
	"errors"
	"log/slog"
	"net/mail"
	"strings"
	"unicode/utf8"

	"github.com/jobportal/jobportal-tui/internal/model"
	"github.com/jobportal/jobportal-tui/internal/session"
)

// MinPasswordLength is the client side floor; the backend enforces the
// full strength rule.
const MinPasswordLength = 8

// Backend is the subset of the API client the gateway calls
type Backend interface {
	Login(ctx context.Context, creds model.Credentials) (*model.AuthResult, error)
	Register(ctx context.Context, reg model.Registration) (*model.AuthResult, error)
	RequestPasswordReset(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, token, newPassword string) error
	VerifyEmail(ctx context.Context, token string) error
	SendVerificationEmail(ctx context.Context, email string) error
}

// Session is the part of the session store the gateway mutates
type Session interface {
	Set(identity model.Identity, token string) error
	Clear() error
}

// Gateway wraps a Session with the backend's auth endpoints
type Gateway struct {
	backend Backend
	session Session
	logger  *slog.Logger
}

// NewGateway creates a Gateway
func NewGateway(backend Backend, sess Session, logger *slog.Logger) *Gateway {
	if logger == nil {
		logger = slog.Default()
	}
	return &Gateway{backend: backend, session: sess, logger: logger}
}

// Login authenticates and, on success only, records the session
func (g *Gateway) Login(ctx context.Context, creds model.Credentials) (*model.Identity, error) {
	creds.Email = strings.TrimSpace(creds.Email)
	if creds.Email == "" {
		return nil, invalid("Email is required.")
	}
	if creds.Password == "" {
		return nil, invalid("Password is required.")
	}

	res, err := g.backend.Login(ctx, creds)
	if err != nil {
		f := classify(err)
		g.logger.Info("login failed", "email", creds.Email, "reason", f.Reason.String())
		return nil, f
	}
	return g.establish(res)
}

// Register creates a self-service account and signs it in
func (g *Gateway) Register(ctx context.Context, reg model.Registration) (*model.Identity, error) {
	reg.Name = strings.TrimSpace(reg.Name)
	reg.Email = strings.TrimSpace(reg.Email)
	if err := validateRegistration(reg); err != nil {
		return nil, err
	}

	res, err := g.backend.Register(ctx, reg)
	if err != nil {
		f := classify(err)
		g.logger.Info("register failed", "email", reg.Email, "reason", f.Reason.String())
		return nil, f
	}
	return g.establish(res)
}

func validateRegistration(reg model.Registration) *Failure {
	switch {
	case reg.Name == "":
		return invalid("Name is required.")
	case reg.Email == "":
		return invalid("Email is required.")
	case !validEmail(reg.Email):
		return invalid("Please enter a valid email address.")
	case utf8.RuneCountInString(reg.Password) < MinPasswordLength:
		return invalid("Password must be at least 8 characters.")
	case reg.Role == "":
		return invalid("Please choose an account type.")
	case !reg.Role.SelfService():
		return invalid("Only applicant and employer accounts can be created.")
	}
	return nil
}

func validEmail(s string) bool {
	addr, err := mail.ParseAddress(s)
	return err == nil && addr.Address == s
}

func (g *Gateway) establish(res *model.AuthResult) (*model.Identity, error) {
	if res == nil {
		return nil, &Failure{Reason: ReasonUnknown, Message: MsgUnknown}
	}
	err := g.session.Set(res.User, res.Token)
	switch {
	case errors.Is(err, session.ErrInvalidIdentity):
		g.logger.Error("backend returned an unusable identity", "user_id", res.User.ID, "role", res.User.Role)
		return nil, &Failure{Reason: ReasonUnknown, Message: MsgUnknown, Err: err}
	case err != nil:
		// signed in for this run only
		g.logger.Warn("session not persisted", "error", err)
	}
	id := res.User
	g.logger.Info("signed in", "user_id", id.ID, "role", id.Role)
	return &id, nil
}

// Logout clears the local session. It never calls the backend and is safe
// to call when already signed out.
func (g *Gateway) Logout() error {
	if err := g.session.Clear(); err != nil {
		g.logger.Warn("logout: stored credential not removed", "error", err)
		return err
	}
	return nil
}

// RequestPasswordReset asks the backend to email a reset link
func (g *Gateway) RequestPasswordReset(ctx context.Context, email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return invalid("Email is required.")
	}
	if err := g.backend.RequestPasswordReset(ctx, email); err != nil {
		return classify(err)
	}
	return nil
}

// ResetPassword sets a new password using a reset token
func (g *Gateway) ResetPassword(ctx context.Context, token, newPassword, confirm string) error {
	token = strings.TrimSpace(token)
	switch {
	case token == "":
		return invalid("Invalid or missing reset token.")
	case utf8.RuneCountInString(newPassword) < MinPasswordLength:
		return invalid("Password must be at least 8 characters.")
	case newPassword != confirm:
		return invalid("Passwords do not match.")
	}
	if err := g.backend.ResetPassword(ctx, token, newPassword); err != nil {
		return classify(err)
	}
	return nil
}

// VerifyEmail confirms an email address using the token from the link
func (g *Gateway) VerifyEmail(ctx context.Context, token string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return invalid("Invalid verification link.")
	}
	if err := g.backend.VerifyEmail(ctx, token); err != nil {
		return classify(err)
	}
	return nil
}

// ResendVerification asks the backend to send a new verification email
func (g *Gateway) ResendVerification(ctx context.Context, email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return invalid("Email is required.")
	}
	if err := g.backend.SendVerificationEmail(ctx, email); err != nil {
		return classify(err)
	}
	return nil
}
