package tui

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/jobportal/jobportal-tui/internal/model"
)

// chatGreeting opens every conversation
const chatGreeting = "Hello! I'm Antigravity AI. How can I accelerate your career today?"

const (
	chatSlowDown    = "Whoa there! You're moving a bit too fast. Please wait a minute before asking more questions."
	chatUnavailable = "Sorry, I'm having trouble connecting right now. Please try again later."
)

// renderIntentData renders the structured part of a reply. Unknown intents,
// empty data and data that does not decode render nothing.
func renderIntentData(intent model.Intent, data json.RawMessage) string {
	if len(data) == 0 || string(data) == "null" {
		return ""
	}
	switch intent {
	case model.IntentJobSearch:
		return decodeAndRender(data, renderJobs)
	case model.IntentResumeJobMatch:
		return decodeAndRender(data, renderMatches)
	case model.IntentCandidateSearch:
		return decodeAndRender(data, renderCandidates)
	case model.IntentJobTrendAnalysis:
		return decodeAndRender(data, renderTrends)
	case model.IntentSalaryInsight:
		return decodeAndRender(data, renderSalaries)
	case model.IntentApplicationHelp:
		return decodeAndRender(data, renderApplicationIntel)
	case model.IntentInterviewQuestions:
		return decodeAndRender(data, func(qs []string) string { return numbered(qs) })
	case model.IntentSkillRecommendation:
		return decodeAndRender(data, func(skills []string) string { return chips(skills) })
	default:
		return ""
	}
}

func decodeAndRender[T any](data json.RawMessage, render func([]T) string) string {
	var items []T
	if err := json.Unmarshal(data, &items); err != nil || len(items) == 0 {
		return ""
	}
	return render(items)
}

func renderJobs(jobs []model.Job) string {
	var b strings.Builder
	for _, j := range jobs {
		b.WriteString("• " + j.Title + MetaStyle.Render(" at "+j.Company+" · "+j.Location))
		if sr := j.SalaryRange(); sr != "" {
			b.WriteString(MetaStyle.Render(" · " + sr))
		}
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func renderMatches(matches []model.ResumeMatch) string {
	var b strings.Builder
	for _, m := range matches {
		b.WriteString(ScoreStyle.Render(strconv.Itoa(m.MatchScore)+"%") + " " + m.JobTitle + "\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func renderCandidates(people []model.Identity) string {
	var b strings.Builder
	for _, p := range people {
		b.WriteString("• " + p.DisplayName() + MetaStyle.Render(" <"+p.Email+">") + "\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func renderTrends(trends []model.TrendData) string {
	var all []string
	for _, t := range trends {
		all = append(all, t.Trends...)
	}
	return chips(all)
}

func renderSalaries(insights []model.SalaryInsight) string {
	var b strings.Builder
	for _, in := range insights {
		label := strings.TrimSpace(in.Skill + " " + in.Location)
		if label == "" {
			label = "All jobs"
		}
		b.WriteString(LabelStyle.Render(label) + "\n")
		if in.SampleSize == 0 {
			b.WriteString(DimStyle.Render("  no salary data yet") + "\n")
			continue
		}
		b.WriteString("  min " + money(in.Min) + "  avg " + money(in.Average) + "  max " + money(in.Max) +
			MetaStyle.Render("  ("+strconv.Itoa(in.SampleSize)+" jobs)") + "\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func renderApplicationIntel(intel []model.ApplicationIntel) string {
	var b strings.Builder
	for _, in := range intel {
		b.WriteString(hints(
			strconv.Itoa(in.TotalApplications), "total",
			strconv.Itoa(in.Pending), "pending",
			strconv.Itoa(in.Shortlisted), "shortlisted",
			strconv.Itoa(in.Rejected), "rejected",
		) + "\n")
		for _, tip := range in.Tips {
			b.WriteString("• " + tip + "\n")
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

func numbered(items []string) string {
	var b strings.Builder
	for i, it := range items {
		b.WriteString(strconv.Itoa(i+1) + ". " + it + "\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func chips(items []string) string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, AccentStyle.Render("["+it+"]"))
	}
	return strings.Join(out, " ")
}

func money(v float64) string {
	return "$" + strconv.FormatInt(int64(v), 10)
}
