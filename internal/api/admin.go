package api

import (
	"context"
	"net/url"
	"strconv"

	"github.com/jobportal/jobportal-tui/internal/model"
)

// PlatformStats returns the admin dashboard summary
func (c *Client) PlatformStats(ctx context.Context) (*model.PlatformStats, error) {
	var stats model.PlatformStats
	if err := c.get(ctx, "admin/stats", nil, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

// AdminUsers lists every account
func (c *Client) AdminUsers(ctx context.Context, page, size int) (*model.Page[model.Profile], error) {
	return getPage[model.Profile](ctx, c, "admin/users", nil, page, size)
}

// SetUserActive activates or deactivates an account
func (c *Client) SetUserActive(ctx context.Context, id string, active bool) error {
	if err := requireID("user id", id); err != nil {
		return err
	}
	q := url.Values{"isActive": {strconv.FormatBool(active)}}
	return c.put(ctx, "admin/users/"+seg(id)+"/status", q, nil, nil)
}

// DeleteUser removes an account
func (c *Client) DeleteUser(ctx context.Context, id string) error {
	if err := requireID("user id", id); err != nil {
		return err
	}
	return c.delete(ctx, "admin/users/"+seg(id))
}

// AdminJobs lists every job regardless of owner or status
func (c *Client) AdminJobs(ctx context.Context, page, size int) (*model.Page[model.Job], error) {
	return getPage[model.Job](ctx, c, "admin/jobs", nil, page, size)
}

// AdminDeleteJob removes any job
func (c *Client) AdminDeleteJob(ctx context.Context, id string) error {
	if err := requireID("job id", id); err != nil {
		return err
	}
	return c.delete(ctx, "admin/jobs/"+seg(id))
}

// CompanyReviews lists reviews left on a company
func (c *Client) CompanyReviews(ctx context.Context, companyID string) ([]model.CompanyReview, error) {
	if err := requireID("company id", companyID); err != nil {
		return nil, err
	}
	reviews := []model.CompanyReview{}
	if err := c.get(ctx, "companies/"+seg(companyID)+"/reviews", nil, &reviews); err != nil {
		return nil, err
	}
	return reviews, nil
}

// SubmitCompanyReview leaves a review on a company
func (c *Client) SubmitCompanyReview(ctx context.Context, companyID string, in model.ReviewInput) (*model.CompanyReview, error) {
	if err := requireID("company id", companyID); err != nil {
		return nil, err
	}
	var review model.CompanyReview
	if err := c.post(ctx, "companies/"+seg(companyID)+"/reviews", nil, in, &review); err != nil {
		return nil, err
	}
	return &review, nil
}
