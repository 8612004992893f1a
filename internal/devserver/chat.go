package devserver

import (
	"strconv"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/jobportal/jobportal-tui/internal/model"
)

// RateLimitMessage is the plain text body of a chat 429
const RateLimitMessage = "Too many requests. Please slow down."

// chatLimiter keeps one token bucket per user
type chatLimiter struct {
	mu      sync.Mutex
	perMin  int
	buckets map[string]*rate.Limiter
}

func newChatLimiter(perMinute int) *chatLimiter {
	return &chatLimiter{perMin: perMinute, buckets: make(map[string]*rate.Limiter)}
}

func (l *chatLimiter) allow(userID string) bool {
	l.mu.Lock()
	b, ok := l.buckets[userID]
	if !ok {
		b = rate.NewLimiter(rate.Every(time.Minute/time.Duration(l.perMin)), l.perMin)
		l.buckets[userID] = b
	}
	l.mu.Unlock()
	return b.Allow()
}

type intentRule struct {
	intent   model.Intent
	keywords []string
}

// Evaluated in order; the first rule with a matching keyword wins
var intentRules = []intentRule{
	{model.IntentSalaryInsight, []string{"salary", "salaries", "pay ", "compensation", "earn"}},
	{model.IntentJobTrendAnalysis, []string{"trend", "in demand", "in-demand", "popular skill"}},
	{model.IntentResumeJobMatch, []string{"match", "resume", "cv"}},
	{model.IntentInterviewQuestions, []string{"interview"}},
	{model.IntentSkillRecommendation, []string{"skill", "learn", "course"}},
	{model.IntentCandidateSearch, []string{"candidate", "talent", "hire "}},
	{model.IntentApplicationHelp, []string{"application", "applied", "status"}},
	{model.IntentJobSearch, []string{"job", "opening", "position", "vacanc", "role"}},
	{model.IntentCareerGuidance, []string{"career", "advice", "grow", "promotion"}},
}

func classifyIntent(message string) model.Intent {
	msg := " " + strings.ToLower(message) + " "
	for _, rule := range intentRules {
		for _, kw := range rule.keywords {
			if strings.Contains(msg, kw) {
				return rule.intent
			}
		}
	}
	return model.IntentGeneralChat
}

// extractTerm returns the first candidate mentioned in message
func extractTerm(message string, candidates []string) string {
	msg := strings.ToLower(message)
	for _, c := range candidates {
		if c != "" && strings.Contains(msg, strings.ToLower(c)) {
			return c
		}
	}
	return ""
}

func (s *Store) knownLocations() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	seen := map[string]bool{}
	var out []string
	for _, j := range s.jobs {
		city := strings.TrimSpace(strings.Split(j.Location, ",")[0])
		if city != "" && !seen[city] {
			seen[city] = true
			out = append(out, city)
		}
	}
	return out
}

var interviewQuestions = []string{
	"Tell me about a project you are proud of and your role in it.",
	"Describe a time you disagreed with a teammate and how you resolved it.",
	"How do you prioritise when everything is urgent?",
	"What would you improve in the last system you worked on?",
	"Why are you interested in this role?",
}

// reply answers a chat message from stored data
func (s *Store) reply(claims *Claims, message string) chatReply {
	intent := classifyIntent(message)
	r := chatReply{Intent: intent, Metadata: map[string]any{}}

	switch intent {
	case model.IntentJobSearch:
		filter := model.JobFilter{Location: extractTerm(message, s.knownLocations())}
		filter.JobType = extractTerm(message, model.JobTypes)
		jobs := s.listJobs(filter)
		if len(jobs) > 5 {
			jobs = jobs[:5]
		}
		r.Data = jobs
		r.Metadata["filters"] = map[string]string{"location": filter.Location, "jobType": filter.JobType}
		if len(jobs) == 0 {
			r.Message = "I couldn't find open jobs matching that. Try a broader search."
		} else {
			r.Message = "Here are some openings that fit what you asked for."
		}

	case model.IntentResumeJobMatch:
		r.Message = "Here is how your default resume lines up with current openings."
		def, err := s.defaultResume(claims.Subject)
		if err != nil {
			r.Message = "Upload a resume first so I can match it against open jobs."
			r.Data = []model.ResumeMatch{}
			break
		}
		matches, _ := s.matchJobs(claims.Subject, def.ID)
		items := make([]model.ResumeMatch, 0, len(matches))
		for _, m := range matches {
			items = append(items, model.ResumeMatch{MatchScore: int(m.MatchScore), JobTitle: m.Title})
		}
		r.Data = items

	case model.IntentCandidateSearch:
		if claims.Role == model.RoleApplicant {
			r.Intent = model.IntentGeneralChat
			r.Message = "Candidate search is available to employers."
			break
		}
		r.Message = "These applicants are currently active on the platform."
		r.Data = s.candidates(10)

	case model.IntentJobTrendAnalysis:
		trends := s.trendingSkills(10)
		r.Data = []model.TrendData{{Trends: trends}}
		r.Message = "These skills appear most often in open jobs.\nReal-time Data: " + strings.Join(trends, ", ")

	case model.IntentSalaryInsight:
		skill := extractTerm(message, s.trendingSkills(50))
		location := extractTerm(message, s.knownLocations())
		insight := s.salaryInsight(skill, location)
		r.Data = []model.SalaryInsight{insight}
		r.Metadata["skill"] = skill
		r.Metadata["location"] = location
		r.Message = "Here is the salary picture from posted ranges.\nAnalysis: Average range based on " +
			strconv.Itoa(insight.SampleSize) + " samples."

	case model.IntentApplicationHelp:
		r.Message = "Here is where your applications stand."
		r.Data = []model.ApplicationIntel{s.applicationIntel(claims.Subject)}

	case model.IntentInterviewQuestions:
		r.Message = "Practise answering these out loud."
		r.Data = interviewQuestions

	case model.IntentSkillRecommendation:
		r.Message = "Employers are asking for these skills right now."
		r.Data = s.trendingSkills(5)

	case model.IntentCareerGuidance:
		r.Message = "Keep a default resume up to date, save interesting jobs, and apply to roles where you match most listed skills."

	default:
		r.Message = "I can search jobs, match your resume, share salary and skill trends, or help with applications. What would you like to do?"
	}
	return r
}

type chatReply struct {
	Intent   model.Intent   `json:"intent"`
	Message  string         `json:"message"`
	Data     any            `json:"data,omitempty"`
	Metadata map[string]any `json:"metadata,omitempty"`
}
