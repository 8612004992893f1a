package model

import "encoding/json"

// Intent classifies a chat reply and selects how its data is rendered
type Intent string

const (
	IntentJobSearch           Intent = "JOB_SEARCH"
	IntentResumeJobMatch      Intent = "RESUME_JOB_MATCH"
	IntentCandidateSearch     Intent = "CANDIDATE_SEARCH"
	IntentJobTrendAnalysis    Intent = "JOB_TREND_ANALYSIS"
	IntentSalaryInsight       Intent = "SALARY_INSIGHT"
	IntentApplicationHelp     Intent = "APPLICATION_HELP"
	IntentInterviewQuestions  Intent = "INTERVIEW_QUESTIONS"
	IntentSkillRecommendation Intent = "SKILL_RECOMMENDATION"
	IntentCareerGuidance      Intent = "CAREER_GUIDANCE"
	IntentGeneralChat         Intent = "GENERAL_CHAT"

	// IntentError is assigned locally to messages describing a failed request
	IntentError Intent = "ERROR"
)

// ChatRequest is the chat payload
type ChatRequest struct {
	Message string `json:"message"`
}

// ChatReply is the backend answer to a chat message
type ChatReply struct {
	Intent   Intent          `json:"intent"`
	Message  string          `json:"message"`
	Data     json.RawMessage `json:"data,omitempty"`
	Metadata map[string]any  `json:"metadata,omitempty"`
}

// ResumeMatch is the data item of a RESUME_JOB_MATCH reply
type ResumeMatch struct {
	MatchScore int    `json:"matchScore"`
	JobTitle   string `json:"jobTitle"`
}

// TrendData is the data item of a JOB_TREND_ANALYSIS reply
type TrendData struct {
	Trends []string `json:"trends"`
}

// SalaryInsight is the data item of a SALARY_INSIGHT reply
type SalaryInsight struct {
	Skill      string  `json:"skill,omitempty"`
	Location   string  `json:"location,omitempty"`
	Min        float64 `json:"min"`
	Max        float64 `json:"max"`
	Average    float64 `json:"average"`
	SampleSize int     `json:"sampleSize"`
}

// ApplicationIntel is the data item of an APPLICATION_HELP reply
type ApplicationIntel struct {
	TotalApplications int      `json:"totalApplications"`
	Pending           int      `json:"pending"`
	Shortlisted       int      `json:"shortlisted"`
	Rejected          int      `json:"rejected"`
	Tips              []string `json:"tips,omitempty"`
}
