package api

import (
	"context"
	"net/url"

	"github.com/jobportal/jobportal-tui/internal/model"
)

// Apply submits an application for a job
func (c *Client) Apply(ctx context.Context, jobID string, in model.ApplicationInput) (*model.Application, error) {
	if err := requireID("job id", jobID); err != nil {
		return nil, err
	}
	var app model.Application
	if err := c.post(ctx, "applications/job/"+seg(jobID), nil, in, &app); err != nil {
		return nil, err
	}
	return &app, nil
}

// MyApplications lists the current applicant's applications
func (c *Client) MyApplications(ctx context.Context, page, size int) (*model.Page[model.Application], error) {
	return getPage[model.Application](ctx, c, "applications", nil, page, size)
}

// GetApplication returns a single application
func (c *Client) GetApplication(ctx context.Context, id string) (*model.Application, error) {
	if err := requireID("application id", id); err != nil {
		return nil, err
	}
	var app model.Application
	if err := c.get(ctx, "applications/"+seg(id), nil, &app); err != nil {
		return nil, err
	}
	return &app, nil
}

// JobApplications lists applications received for one of the employer's jobs
func (c *Client) JobApplications(ctx context.Context, jobID string, page, size int) (*model.Page[model.Application], error) {
	if err := requireID("job id", jobID); err != nil {
		return nil, err
	}
	return getPage[model.Application](ctx, c, "applications/job/"+seg(jobID), nil, page, size)
}

// UpdateApplicationStatus records an employer decision on an application
func (c *Client) UpdateApplicationStatus(ctx context.Context, id string, upd model.StatusUpdate) (*model.Application, error) {
	if err := requireID("application id", id); err != nil {
		return nil, err
	}
	q := url.Values{"status": {string(upd.Status)}}
	if upd.Notes != "" {
		q.Set("notes", upd.Notes)
	}
	if upd.RejectionReason != "" {
		q.Set("rejectionReason", upd.RejectionReason)
	}

	var app model.Application
	if err := c.put(ctx, "applications/"+seg(id)+"/status", q, nil, &app); err != nil {
		return nil, err
	}
	return &app, nil
}

// WithdrawApplication withdraws one of the applicant's pending applications
func (c *Client) WithdrawApplication(ctx context.Context, id string) error {
	if err := requireID("application id", id); err != nil {
		return err
	}
	return c.delete(ctx, "applications/"+seg(id))
}
