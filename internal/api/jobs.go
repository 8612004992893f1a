package api

import (
	"context"
	"net/url"
	"strings"

	"github.com/jobportal/jobportal-tui/internal/model"
)

// ListJobs returns one page of open jobs. Empty filter fields are not sent.
func (c *Client) ListJobs(ctx context.Context, page, size int, filter model.JobFilter) (*model.Page[model.Job], error) {
	q := url.Values{}
	addFilter(q, "location", filter.Location)
	addFilter(q, "jobType", filter.JobType)
	addFilter(q, "category", filter.Category)
	return getPage[model.Job](ctx, c, "jobs", q, page, size)
}

func addFilter(q url.Values, key, value string) {
	if v := strings.TrimSpace(value); v != "" {
		q.Set(key, v)
	}
}

// SearchJobs runs a free text search over jobs
func (c *Client) SearchJobs(ctx context.Context, query string, page, size int) (*model.Page[model.Job], error) {
	q := url.Values{"q": {strings.TrimSpace(query)}}
	return getPage[model.Job](ctx, c, "jobs/search", q, page, size)
}

// FeaturedJobs returns the jobs flagged as featured
func (c *Client) FeaturedJobs(ctx context.Context) ([]model.Job, error) {
	var jobs []model.Job
	if err := c.get(ctx, "jobs/featured", nil, &jobs); err != nil {
		return nil, err
	}
	return jobs, nil
}

// GetJob returns a single job
func (c *Client) GetJob(ctx context.Context, id string) (*model.Job, error) {
	if err := requireID("job id", id); err != nil {
		return nil, err
	}
	var job model.Job
	if err := c.get(ctx, "jobs/"+seg(id), nil, &job); err != nil {
		return nil, err
	}
	return &job, nil
}

// CreateJob posts a new job as the current employer
func (c *Client) CreateJob(ctx context.Context, in model.JobInput) (*model.Job, error) {
	var job model.Job
	if err := c.post(ctx, "jobs", nil, in, &job); err != nil {
		return nil, err
	}
	return &job, nil
}

// UpdateJob replaces a job the current employer owns
func (c *Client) UpdateJob(ctx context.Context, id string, in model.JobInput) (*model.Job, error) {
	if err := requireID("job id", id); err != nil {
		return nil, err
	}
	var job model.Job
	if err := c.put(ctx, "jobs/"+seg(id), nil, in, &job); err != nil {
		return nil, err
	}
	return &job, nil
}

// DeleteJob removes a job the current employer owns
func (c *Client) DeleteJob(ctx context.Context, id string) error {
	if err := requireID("job id", id); err != nil {
		return err
	}
	return c.delete(ctx, "jobs/"+seg(id))
}

// MyJobs lists the current employer's jobs
func (c *Client) MyJobs(ctx context.Context, page, size int) (*model.Page[model.Job], error) {
	return getPage[model.Job](ctx, c, "jobs/my-jobs", nil, page, size)
}

// MatchJobs ranks open jobs against one of the applicant's resumes
func (c *Client) MatchJobs(ctx context.Context, resumeID string) ([]model.MatchedJob, error) {
	if err := requireID("resume id", resumeID); err != nil {
		return nil, err
	}
	var matches []model.MatchedJob
	if err := c.post(ctx, "match-jobs", url.Values{"resumeId": {resumeID}}, nil, &matches); err != nil {
		return nil, err
	}
	return matches, nil
}
