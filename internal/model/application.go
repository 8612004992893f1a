package model

import (
	"strings"
	"time"
)

// ApplicationStatus represents where an application is in the hiring workflow
type ApplicationStatus string

const (
	ApplicationPending     ApplicationStatus = "pending"
	ApplicationShortlisted ApplicationStatus = "shortlisted"
	ApplicationRejected    ApplicationStatus = "rejected"
	ApplicationHired       ApplicationStatus = "hired"
	ApplicationWithdrawn   ApplicationStatus = "withdrawn"
)

// ReviewStatuses are the statuses an employer may move an application to
func ReviewStatuses() []ApplicationStatus {
	return []ApplicationStatus{ApplicationPending, ApplicationShortlisted, ApplicationRejected, ApplicationHired}
}

// UnmarshalText accepts both lower and upper case status values
func (s *ApplicationStatus) UnmarshalText(b []byte) error {
	*s = ApplicationStatus(strings.ToLower(strings.TrimSpace(string(b))))
	return nil
}

// Withdrawable reports whether the applicant may still withdraw
func (s ApplicationStatus) Withdrawable() bool {
	return s == ApplicationPending
}

// Icon returns the list icon for the status
func (s ApplicationStatus) Icon() string {
	switch s {
	case ApplicationPending:
		return "○"
	case ApplicationShortlisted:
		return "●"
	case ApplicationHired:
		return "✓"
	case ApplicationRejected:
		return "✗"
	case ApplicationWithdrawn:
		return "⊖"
	default:
		return "○"
	}
}

// Application is a job application
type Application struct {
	ID              string            `json:"id"`
	JobID           string            `json:"jobId"`
	JobTitle        string            `json:"jobTitle"`
	Company         string            `json:"company"`
	ApplicantID     string            `json:"applicantId"`
	ApplicantName   string            `json:"applicantName,omitempty"`
	ApplicantEmail  string            `json:"applicantEmail,omitempty"`
	ResumeURL       string            `json:"resumeUrl"`
	ResumeFileName  string            `json:"resumeFileName,omitempty"`
	CoverLetter     string            `json:"coverLetter,omitempty"`
	Status          ApplicationStatus `json:"status"`
	Notes           string            `json:"notes,omitempty"`
	RejectionReason string            `json:"rejectionReason,omitempty"`
	MatchScore      *float64          `json:"matchScore,omitempty"`
	AppliedAt       time.Time         `json:"appliedAt"`
	UpdatedAt       time.Time         `json:"updatedAt"`
}

// ApplicationInput is the payload for applying to a job
type ApplicationInput struct {
	ResumeURL   string `json:"resumeUrl"`
	CoverLetter string `json:"coverLetter,omitempty"`
}

// StatusUpdate is an employer decision on an application
type StatusUpdate struct {
	Status          ApplicationStatus
	Notes           string
	RejectionReason string
}

// MaxCoverLetter is the longest cover letter the backend accepts
const MaxCoverLetter = 2000
