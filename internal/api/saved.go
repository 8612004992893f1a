package api

import (
	"context"

	"github.com/jobportal/jobportal-tui/internal/model"
)

// SavedJobs lists the current user's bookmarked jobs
func (c *Client) SavedJobs(ctx context.Context, page, size int) (*model.Page[model.SavedJob], error) {
	return getPage[model.SavedJob](ctx, c, "saved-jobs", nil, page, size)
}

// SaveJob bookmarks a job
func (c *Client) SaveJob(ctx context.Context, jobID string) (*model.SavedJob, error) {
	if err := requireID("job id", jobID); err != nil {
		return nil, err
	}
	var saved model.SavedJob
	if err := c.post(ctx, "saved-jobs/"+seg(jobID), nil, nil, &saved); err != nil {
		return nil, err
	}
	return &saved, nil
}

// UnsaveJob removes a bookmark
func (c *Client) UnsaveJob(ctx context.Context, jobID string) error {
	if err := requireID("job id", jobID); err != nil {
		return err
	}
	return c.delete(ctx, "saved-jobs/"+seg(jobID))
}

// IsJobSaved reports whether the current user bookmarked a job
func (c *Client) IsJobSaved(ctx context.Context, jobID string) (bool, error) {
	if err := requireID("job id", jobID); err != nil {
		return false, err
	}
	var saved bool
	if err := c.get(ctx, "saved-jobs/"+seg(jobID)+"/check", nil, &saved); err != nil {
		return false, err
	}
	return saved, nil
}
