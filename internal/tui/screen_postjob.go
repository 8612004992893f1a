package tui

import (
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jobportal/jobportal-tui/internal/access"
	"github.com/jobportal/jobportal-tui/internal/model"
)

type jobLoadedMsg struct {
	job *model.Job
	err error
}

type jobSavedMsg struct {
	job *model.Job
	err error
}

// postJobScreen creates a job, or edits one when opened with a JobID
type postJobScreen struct {
	env
	jobID   string
	form    *form
	status  status
	loading bool
	busy    bool
}

func newPostJobScreen(e env, p params) *postJobScreen {
	jobType := newChoiceField("jobType", "Job type", model.JobTypes...)
	level := newChoiceField("experienceLevel", "Experience", append([]string{""}, model.ExperienceLevels...)...)
	return &postJobScreen{env: e, jobID: p.JobID, loading: p.JobID != "", form: newForm(e.keys,
		newTextField("title", "Title", true),
		newTextField("company", "Company", true),
		newTextField("location", "Location", true),
		jobType,
		newTextField("category", "Category", true),
		newAreaField("description", "Description", true, 5000),
		level,
		newTextField("salaryMin", "Salary min", false),
		newTextField("salaryMax", "Salary max", false),
		newTextField("skills", "Skills (a, b, c)", false),
	)}
}

func (s *postJobScreen) title() string {
	if s.jobID != "" {
		return "Edit job"
	}
	return "Post a job"
}

func (s *postJobScreen) modal() bool { return false }

func (s *postJobScreen) init() tea.Cmd {
	start := s.form.start()
	if s.jobID == "" {
		return start
	}
	ctx, client, id := s.ctx, s.api, s.jobID
	return tea.Batch(start, func() tea.Msg {
		job, err := client.GetJob(ctx, id)
		return jobLoadedMsg{job: job, err: err}
	})
}

func (s *postJobScreen) fill(j *model.Job) {
	s.form.set("title", j.Title)
	s.form.set("company", j.Company)
	s.form.set("location", j.Location)
	s.form.set("jobType", j.JobType)
	s.form.set("category", j.Category)
	s.form.set("description", j.Description)
	s.form.set("experienceLevel", j.ExperienceLevel)
	if j.SalaryMin != nil {
		s.form.set("salaryMin", strconv.FormatFloat(*j.SalaryMin, 'f', -1, 64))
	}
	if j.SalaryMax != nil {
		s.form.set("salaryMax", strconv.FormatFloat(*j.SalaryMax, 'f', -1, 64))
	}
	s.form.set("skills", strings.Join(j.Skills, ", "))
}

func (s *postJobScreen) update(msg tea.Msg) (screen, tea.Cmd) {
	switch msg := msg.(type) {
	case jobLoadedMsg:
		s.loading = false
		if msg.err != nil {
			if !quiet(msg.err) {
				s.status.set(errorText(msg.err, "Could not load the job."), true)
			}
			return s, nil
		}
		s.fill(msg.job)
		return s, nil

	case jobSavedMsg:
		s.busy = false
		if msg.err != nil {
			s.status.set(errorText(msg.err, "Could not save the job."), true)
			return s, nil
		}
		text := "Job posted successfully."
		if s.jobID != "" {
			text = "Job updated."
		}
		return s, redirect(access.RouteRecruiterDashboard, params{}, text)
	}

	submit, cmd := s.form.update(msg)
	if !submit {
		return s, cmd
	}
	return s, s.submit()
}

// submit validates locally and issues exactly one create or update call
func (s *postJobScreen) submit() tea.Cmd {
	if s.busy || s.loading {
		return nil
	}
	if missing := s.form.missing(); len(missing) > 0 {
		s.status.set("Please fill in: "+strings.Join(missing, ", "), true)
		return nil
	}
	in, err := s.input()
	if err != "" {
		s.status.set(err, true)
		return nil
	}

	s.busy = true
	s.status = status{}
	ctx, client, id := s.ctx, s.api, s.jobID
	return func() tea.Msg {
		var (
			job *model.Job
			err error
		)
		if id != "" {
			job, err = client.UpdateJob(ctx, id, in)
		} else {
			job, err = client.CreateJob(ctx, in)
		}
		return jobSavedMsg{job: job, err: err}
	}
}

func (s *postJobScreen) input() (model.JobInput, string) {
	in := model.JobInput{
		Title:           s.form.value("title"),
		Company:         s.form.value("company"),
		Location:        s.form.value("location"),
		JobType:         s.form.value("jobType"),
		Category:        s.form.value("category"),
		Description:     s.form.value("description"),
		ExperienceLevel: s.form.value("experienceLevel"),
		Skills:          splitList(s.form.value("skills")),
	}
	var ok bool
	if in.SalaryMin, ok = parseAmount(s.form.value("salaryMin")); !ok {
		return in, "Salary min must be a number."
	}
	if in.SalaryMax, ok = parseAmount(s.form.value("salaryMax")); !ok {
		return in, "Salary max must be a number."
	}
	if in.SalaryMin != nil && in.SalaryMax != nil && *in.SalaryMin > *in.SalaryMax {
		return in, "Salary min cannot exceed salary max."
	}
	return in, ""
}

func parseAmount(s string) (*float64, bool) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	if s == "" {
		return nil, true
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v < 0 {
		return nil, false
	}
	return &v, true
}

func (s *postJobScreen) view(width, height int) string {
	if s.loading {
		return loading()
	}
	busy := ""
	if s.busy {
		busy = DimStyle.Render("Saving…")
	}
	return section(
		pageHeading(s.title(), width),
		s.form.view(),
		busy,
		s.status.view(),
		hints("tab", "next field", "ctrl+s", "submit", "esc", "cancel"),
	)
}
