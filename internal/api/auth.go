package api

import (
	"context"
	"net/url"

	"github.com/jobportal/jobportal-tui/internal/model"
)

// Login exchanges credentials for a token and identity
func (c *Client) Login(ctx context.Context, creds model.Credentials) (*model.AuthResult, error) {
	var result model.AuthResult
	if err := c.post(ctx, "auth/login", nil, creds, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Register creates an account and returns its token and identity
func (c *Client) Register(ctx context.Context, reg model.Registration) (*model.AuthResult, error) {
	var result model.AuthResult
	if err := c.post(ctx, "auth/register", nil, reg, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// CurrentUser returns the identity behind the attached credential
func (c *Client) CurrentUser(ctx context.Context) (*model.Identity, error) {
	var id model.Identity
	if err := c.get(ctx, "users/profile", nil, &id); err != nil {
		return nil, err
	}
	return &id, nil
}

// RequestPasswordReset asks the backend to email a reset link
func (c *Client) RequestPasswordReset(ctx context.Context, email string) error {
	return c.post(ctx, "auth/request-password-reset", url.Values{"email": {email}}, nil, nil)
}

// ResetPassword sets a new password using an emailed reset token
func (c *Client) ResetPassword(ctx context.Context, token, newPassword string) error {
	q := url.Values{"token": {token}, "newPassword": {newPassword}}
	return c.post(ctx, "auth/reset-password", q, nil, nil)
}

// VerifyEmail confirms an email address using an emailed token
func (c *Client) VerifyEmail(ctx context.Context, token string) error {
	return c.get(ctx, "auth/verify-email", url.Values{"token": {token}}, nil)
}

// SendVerificationEmail re-sends the verification email
func (c *Client) SendVerificationEmail(ctx context.Context, email string) error {
	return c.post(ctx, "auth/send-verification-email", url.Values{"email": {email}}, nil, nil)
}
