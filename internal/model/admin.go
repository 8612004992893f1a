package model

// PlatformStats is the admin dashboard summary
type PlatformStats struct {
	TotalUsers        int64 `json:"totalUsers"`
	TotalApplicants   int64 `json:"totalApplicants"`
	TotalEmployers    int64 `json:"totalEmployers"`
	TotalJobs         int64 `json:"totalJobs"`
	ActiveJobs        int64 `json:"activeJobs"`
	TotalApplications int64 `json:"totalApplications"`
}

// CompanyReview is a review left on a company
type CompanyReview struct {
	ID         string `json:"id"`
	CompanyID  string `json:"companyId"`
	AuthorName string `json:"authorName,omitempty"`
	Rating     int    `json:"rating"`
	Title      string `json:"title"`
	Comment    string `json:"comment"`
	CreatedAt  string `json:"createdAt,omitempty"`
}

// ReviewInput is the payload for submitting a company review
type ReviewInput struct {
	Rating  int    `json:"rating"`
	Title   string `json:"title"`
	Comment string `json:"comment"`
}
