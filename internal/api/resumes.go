package api

import (
	"context"

	"github.com/jobportal/jobportal-tui/internal/model"
)

// Resumes lists the applicant's resumes
func (c *Client) Resumes(ctx context.Context) ([]model.Resume, error) {
	resumes := []model.Resume{}
	if err := c.get(ctx, "resumes", nil, &resumes); err != nil {
		return nil, err
	}
	return resumes, nil
}

// GetResume returns one resume
func (c *Client) GetResume(ctx context.Context, id string) (*model.Resume, error) {
	if err := requireID("resume id", id); err != nil {
		return nil, err
	}
	var r model.Resume
	if err := c.get(ctx, "resumes/"+seg(id), nil, &r); err != nil {
		return nil, err
	}
	return &r, nil
}

// DefaultResume returns the resume used when applying without choosing one
func (c *Client) DefaultResume(ctx context.Context) (*model.Resume, error) {
	var r model.Resume
	if err := c.get(ctx, "resumes/default", nil, &r); err != nil {
		return nil, err
	}
	return &r, nil
}

// CreateResume registers a resume reference
func (c *Client) CreateResume(ctx context.Context, in model.ResumeInput) (*model.Resume, error) {
	var r model.Resume
	if err := c.post(ctx, "resumes", nil, in, &r); err != nil {
		return nil, err
	}
	return &r, nil
}

// UpdateResume renames a resume or points it at a new file
func (c *Client) UpdateResume(ctx context.Context, id string, in model.ResumeInput) (*model.Resume, error) {
	if err := requireID("resume id", id); err != nil {
		return nil, err
	}
	var r model.Resume
	if err := c.put(ctx, "resumes/"+seg(id), nil, in, &r); err != nil {
		return nil, err
	}
	return &r, nil
}

// SetDefaultResume marks a resume as the default
func (c *Client) SetDefaultResume(ctx context.Context, id string) (*model.Resume, error) {
	if err := requireID("resume id", id); err != nil {
		return nil, err
	}
	var r model.Resume
	if err := c.put(ctx, "resumes/"+seg(id)+"/default", nil, nil, &r); err != nil {
		return nil, err
	}
	return &r, nil
}

// DeleteResume removes a resume
func (c *Client) DeleteResume(ctx context.Context, id string) error {
	if err := requireID("resume id", id); err != nil {
		return err
	}
	return c.delete(ctx, "resumes/"+seg(id))
}
