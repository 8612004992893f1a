package model

import "time"

// JobType values accepted by the backend
var JobTypes = []string{"full-time", "part-time", "contract", "internship", "remote"}

// ExperienceLevels accepted by the backend
var ExperienceLevels = []string{"entry", "mid", "senior", "executive"}

// Job represents a job posting
type Job struct {
	ID                  string     `json:"id"`
	Title               string     `json:"title"`
	Company             string     `json:"company"`
	CompanyID           string     `json:"companyId,omitempty"`
	CompanyLogo         string     `json:"companyLogo,omitempty"`
	Description         string     `json:"description"`
	Requirements        []string   `json:"requirements,omitempty"`
	Responsibilities    []string   `json:"responsibilities,omitempty"`
	Location            string     `json:"location"`
	JobType             string     `json:"jobType"`
	ExperienceLevel     string     `json:"experienceLevel,omitempty"`
	SalaryMin           *float64   `json:"salaryMin,omitempty"`
	SalaryMax           *float64   `json:"salaryMax,omitempty"`
	SalaryCurrency      string     `json:"salaryCurrency,omitempty"`
	Category            string     `json:"category"`
	Industry            string     `json:"industry,omitempty"`
	Skills              []string   `json:"skills,omitempty"`
	PostedBy            string     `json:"postedBy,omitempty"`
	Status              string     `json:"status,omitempty"` // active, draft, closed, expired
	ApplicationDeadline *time.Time `json:"applicationDeadline,omitempty"`
	ApplicationCount    int        `json:"applicationCount"`
	Views               int        `json:"views"`
	IsFeatured          bool       `json:"isFeatured"`
	CreatedAt           time.Time  `json:"createdAt"`
	UpdatedAt           time.Time  `json:"updatedAt"`
}

// JobInput is the payload for creating or updating a job
type JobInput struct {
	Title               string     `json:"title"`
	Company             string     `json:"company"`
	CompanyLogo         string     `json:"companyLogo,omitempty"`
	Description         string     `json:"description"`
	Requirements        []string   `json:"requirements,omitempty"`
	Responsibilities    []string   `json:"responsibilities,omitempty"`
	Location            string     `json:"location"`
	JobType             string     `json:"jobType"`
	ExperienceLevel     string     `json:"experienceLevel,omitempty"`
	SalaryMin           *float64   `json:"salaryMin,omitempty"`
	SalaryMax           *float64   `json:"salaryMax,omitempty"`
	SalaryCurrency      string     `json:"salaryCurrency,omitempty"`
	Category            string     `json:"category"`
	Industry            string     `json:"industry,omitempty"`
	Skills              []string   `json:"skills,omitempty"`
	ApplicationDeadline *time.Time `json:"applicationDeadline,omitempty"`
	IsFeatured          bool       `json:"isFeatured"`
}

// JobFilter narrows a job listing. Empty fields are not sent.
type JobFilter struct {
	Location string
	JobType  string
	Category string
}

// SalaryRange formats the salary bounds for display
func (j Job) SalaryRange() string {
	cur := j.SalaryCurrency
	if cur == "" {
		cur = "USD"
	}
	switch {
	case j.SalaryMin != nil && j.SalaryMax != nil:
		return formatMoney(*j.SalaryMin) + " - " + formatMoney(*j.SalaryMax) + " " + cur
	case j.SalaryMin != nil:
		return "from " + formatMoney(*j.SalaryMin) + " " + cur
	case j.SalaryMax != nil:
		return "up to " + formatMoney(*j.SalaryMax) + " " + cur
	default:
		return ""
	}
}

// MatchedJob is a job ranked against a resume
type MatchedJob struct {
	Job
	MatchScore float64 `json:"matchScore"`
}
