package api

import (
	"context"
	"net/url"

	"github.com/jobportal/jobportal-tui/internal/model"
)

// Profile returns the full profile of the current user
func (c *Client) Profile(ctx context.Context) (*model.Profile, error) {
	var p model.Profile
	if err := c.get(ctx, "users/profile", nil, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// UpdateProfile changes the current user's editable fields
func (c *Client) UpdateProfile(ctx context.Context, in model.ProfileUpdate) (*model.Profile, error) {
	var p model.Profile
	if err := c.put(ctx, "users/profile", nil, in, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// ChangePassword replaces the current user's password
func (c *Client) ChangePassword(ctx context.Context, in model.PasswordChange) error {
	q := url.Values{
		"oldPassword": {in.CurrentPassword},
		"newPassword": {in.NewPassword},
	}
	return c.put(ctx, "users/password", q, nil, nil)
}
