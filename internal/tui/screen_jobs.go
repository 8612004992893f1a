package tui

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/sync/errgroup"

	"github.com/jobportal/jobportal-tui/internal/access"
	"github.com/jobportal/jobportal-tui/internal/api"
	"github.com/jobportal/jobportal-tui/internal/model"
)

type jobsPageMsg struct {
	page *model.Page[model.Job]
	err  error
}

// jobsScreen lists and searches public job postings
type jobsScreen struct {
	env
	filters *form
	editing bool

	jobs    []model.Job
	pager   pager
	cur     cursor
	loading bool
	status  status
}

func newJobsScreen(e env) *jobsScreen {
	jobType := newChoiceField("jobType", "Job type", append([]string{""}, model.JobTypes...)...)
	return &jobsScreen{env: e, loading: true, filters: newForm(e.keys,
		newTextField("q", "Keywords", false),
		newTextField("location", "Location", false),
		jobType,
		newTextField("category", "Category", false),
	)}
}

func (s *jobsScreen) title() string { return "Jobs" }
func (s *jobsScreen) modal() bool   { return s.editing }
func (s *jobsScreen) init() tea.Cmd { return s.load(0) }

func (s *jobsScreen) load(page int) tea.Cmd {
	s.loading = true
	ctx, client, size := s.ctx, s.api, s.pageSize
	q := s.filters.value("q")
	filter := model.JobFilter{
		Location: s.filters.value("location"),
		JobType:  s.filters.value("jobType"),
		Category: s.filters.value("category"),
	}
	return func() tea.Msg {
		var (
			p   *model.Page[model.Job]
			err error
		)
		if q != "" {
			p, err = client.SearchJobs(ctx, q, page, size)
		} else {
			p, err = client.ListJobs(ctx, page, size, filter)
		}
		return jobsPageMsg{page: p, err: err}
	}
}

func (s *jobsScreen) update(msg tea.Msg) (screen, tea.Cmd) {
	switch msg := msg.(type) {
	case jobsPageMsg:
		s.loading = false
		if msg.err != nil {
			if !quiet(msg.err) {
				s.status.set(errorText(msg.err, "Could not load jobs."), true)
			}
			s.jobs, s.pager = nil, pager{}
			return s, nil
		}
		s.status = status{}
		s.jobs, s.pager = msg.page.Content, pagerOf(msg.page)
		s.cur.clamp(len(s.jobs))
		return s, nil

	case tea.KeyMsg:
		if s.editing {
			if key.Matches(msg, s.keys.Back) {
				s.editing = false
				return s, nil
			}
			submit, cmd := s.filters.update(msg)
			if submit {
				s.editing = false
				return s, s.load(0)
			}
			return s, cmd
		}

		if s.cur.move(msg, s.keys, len(s.jobs)) {
			return s, nil
		}
		if page, moved := s.pager.step(msg, s.keys); moved {
			return s, s.load(page)
		}
		switch {
		case key.Matches(msg, s.keys.Enter) && len(s.jobs) > 0:
			return s, navigate(access.RouteJobDetail, params{JobID: s.jobs[s.cur.idx].ID})
		case msg.String() == "/":
			s.editing = true
			return s, s.filters.start()
		case msg.String() == "c":
			for _, f := range s.filters.fields {
				f.setValue("")
			}
			return s, s.load(0)
		case msg.String() == "r":
			return s, s.load(s.pager.page)
		}
	}
	if s.editing {
		_, cmd := s.filters.update(msg)
		return s, cmd
	}
	return s, nil
}

func (s *jobsScreen) filterSummary() string {
	var parts []string
	for _, f := range s.filters.fields {
		if v := strings.TrimSpace(f.value()); v != "" {
			parts = append(parts, f.label+": "+v)
		}
	}
	if len(parts) == 0 {
		return DimStyle.Render("No filters")
	}
	return AccentStyle.Render(strings.Join(parts, " · "))
}

func (s *jobsScreen) view(width, height int) string {
	if s.editing {
		return section(
			pageHeading("Search and filter", width),
			s.filters.view(),
			hints("tab", "next field", "enter", "apply", "esc", "cancel"),
		)
	}

	var list strings.Builder
	switch {
	case s.loading:
		list.WriteString(loading())
	case len(s.jobs) == 0:
		list.WriteString(empty("No jobs found."))
	default:
		for i, j := range s.jobs {
			list.WriteString(row(i == s.cur.idx, truncate(jobLine(j), width-4)) + "\n")
		}
	}

	total := ""
	if s.pager.total > 0 {
		total = MetaStyle.Render(strconv.FormatInt(s.pager.total, 10) + " jobs")
	}
	return section(
		pageHeading("Open positions", width),
		s.filterSummary()+"  "+total,
		list.String(),
		s.pager.view(),
		s.status.view(),
		hints("enter", "view", "/", "search", "c", "clear", "←/→", "page"),
	)
}

// jobDetailScreen

type jobDetailMsg struct {
	job    *model.Job
	saved  bool
	resume *model.Resume
	err    error
}

type jobDetailScreen struct {
	env
	jobID   string
	job     *model.Job
	saved   bool
	resume  *model.Resume
	loading bool
	status  status
	busy    bool

	applying bool
	apply    *form
}

func newJobDetailScreen(e env, p params) *jobDetailScreen {
	return &jobDetailScreen{env: e, jobID: p.JobID, loading: true, apply: newForm(e.keys,
		newTextField("resumeUrl", "Resume URL", true),
		newAreaField("coverLetter", "Cover letter", false, model.MaxCoverLetter),
	)}
}

func (s *jobDetailScreen) title() string {
	if s.job != nil {
		return s.job.Title
	}
	return "Job"
}

func (s *jobDetailScreen) modal() bool { return s.applying }

func (s *jobDetailScreen) init() tea.Cmd {
	ctx, client, id, applicant := s.ctx, s.api, s.jobID, s.role() == model.RoleApplicant
	return func() tea.Msg {
		var out jobDetailMsg
		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			job, err := client.GetJob(gctx, id)
			out.job = job
			return err
		})
		if applicant {
			g.Go(func() error {
				saved, err := client.IsJobSaved(gctx, id)
				if err == nil {
					out.saved = saved
				}
				return nil
			})
			g.Go(func() error {
				// no default resume is fine
				if r, err := client.DefaultResume(gctx); err == nil {
					out.resume = r
				}
				return nil
			})
		}
		out.err = g.Wait()
		return out
	}
}

func (s *jobDetailScreen) update(msg tea.Msg) (screen, tea.Cmd) {
	switch msg := msg.(type) {
	case jobDetailMsg:
		s.loading = false
		if msg.err != nil {
			if !quiet(msg.err) {
				s.status.set(errorText(msg.err, "Could not load this job."), true)
			}
			return s, nil
		}
		s.job, s.saved, s.resume = msg.job, msg.saved, msg.resume
		if s.resume != nil {
			s.apply.set("resumeUrl", s.resume.FileURL)
		}
		return s, nil

	case actionDoneMsg:
		s.busy = false
		if msg.err != nil {
			s.status.set(errorText(msg.err, "Something went wrong."), true)
			return s, nil
		}
		switch msg.op {
		case "save":
			s.saved = true
			s.status.set("Job saved.", false)
		case "unsave":
			s.saved = false
			s.status.set("Removed from saved jobs.", false)
		case "apply":
			s.applying = false
			s.status.set("Application submitted. Good luck!", false)
		}
		return s, nil

	case tea.KeyMsg:
		if s.applying {
			return s.updateApply(msg)
		}
		return s.handleKey(msg)
	}

	if s.applying {
		_, cmd := s.apply.update(msg)
		return s, cmd
	}
	return s, nil
}

func (s *jobDetailScreen) handleKey(k tea.KeyMsg) (screen, tea.Cmd) {
	if s.job == nil {
		return s, nil
	}
	owner := s.identity != nil && (s.job.PostedBy == s.identity.ID || s.identity.Role == model.RoleAdmin)

	switch k.String() {
	case "a":
		switch {
		case s.identity == nil:
			return s, func() tea.Msg {
				return navigateMsg{route: access.RouteLogin, notice: &flashMsg{text: "Sign in to apply for this job."}}
			}
		case s.role() != model.RoleApplicant:
			s.status.set("Only job seekers can apply.", true)
			return s, nil
		}
		s.applying = true
		return s, s.apply.start()
	case "s":
		if s.role() != model.RoleApplicant || s.busy {
			return s, nil
		}
		return s, s.toggleSave()
	case "c":
		return s, navigate(access.RouteCompanyReviews, params{CompanyID: s.job.CompanyID, Company: s.job.Company})
	case "e":
		if owner && s.role() == model.RoleEmployer {
			return s, navigate(access.RoutePostJob, params{JobID: s.job.ID})
		}
	case "v":
		if owner && s.role() == model.RoleEmployer {
			return s, navigate(access.RouteJobApplications, params{JobID: s.job.ID})
		}
	}
	return s, nil
}

func (s *jobDetailScreen) toggleSave() tea.Cmd {
	s.busy = true
	ctx, client, id, saved := s.ctx, s.api, s.job.ID, s.saved
	return func() tea.Msg {
		if saved {
			return actionDoneMsg{op: "unsave", id: id, err: client.UnsaveJob(ctx, id)}
		}
		_, err := client.SaveJob(ctx, id)
		if api.KindOf(err) == api.KindConflict {
			err = nil
		}
		return actionDoneMsg{op: "save", id: id, err: err}
	}
}

func (s *jobDetailScreen) updateApply(k tea.KeyMsg) (screen, tea.Cmd) {
	if key.Matches(k, s.keys.Back) {
		s.applying = false
		return s, nil
	}
	submit, cmd := s.apply.update(k)
	if !submit || s.busy {
		return s, cmd
	}
	if len(s.apply.missing()) > 0 {
		s.status.set("A resume URL is required to apply.", true)
		return s, nil
	}
	in := model.ApplicationInput{ResumeURL: s.apply.value("resumeUrl"), CoverLetter: s.apply.value("coverLetter")}
	s.busy = true
	ctx, client, id := s.ctx, s.api, s.job.ID
	return s, func() tea.Msg {
		_, err := client.Apply(ctx, id, in)
		return actionDoneMsg{op: "apply", id: id, err: err}
	}
}

func (s *jobDetailScreen) view(width, height int) string {
	if s.loading {
		return loading()
	}
	if s.job == nil {
		return section(s.status.view(), hints("esc", "back"))
	}
	j := s.job

	meta := []string{j.Company, j.Location, j.JobType}
	if j.ExperienceLevel != "" {
		meta = append(meta, j.ExperienceLevel)
	}
	if sal := j.SalaryRange(); sal != "" {
		meta = append(meta, sal)
	}
	head := pageHeading(j.Title, width) + "\n" + MetaStyle.Render(strings.Join(meta, " · "))

	facts := MetaStyle.Render("Category: "+j.Category) + "\n" +
		MetaStyle.Render("Posted "+shortDate(j.CreatedAt)+" · "+strconv.Itoa(j.Views)+" views · "+strconv.Itoa(j.ApplicationCount)+" applicants")
	if j.ApplicationDeadline != nil {
		facts += "\n" + WarningStyle.Render("Apply by "+shortDate(*j.ApplicationDeadline))
	}

	var skills string
	if len(j.Skills) > 0 {
		skills = TitleStyle.Render("Skills") + "\n" + AccentStyle.Render(strings.Join(j.Skills, ", "))
	}

	if s.applying {
		return section(head, TitleStyle.Render("Apply"), s.apply.view(),
			DimStyle.Render(strconv.Itoa(len([]rune(s.apply.raw("coverLetter"))))+"/"+strconv.Itoa(model.MaxCoverLetter)),
			s.status.view(),
			hints("tab", "next field", "ctrl+s", "submit", "esc", "cancel"))
	}

	keys := []string{"c", "company reviews"}
	switch s.role() {
	case model.RoleApplicant:
		saveLabel := "save"
		if s.saved {
			saveLabel = "unsave"
		}
		keys = append([]string{"a", "apply", "s", saveLabel}, keys...)
	case model.RoleEmployer:
		if s.identity != nil && j.PostedBy == s.identity.ID {
			keys = append([]string{"e", "edit", "v", "applications"}, keys...)
		}
	case "":
		keys = append([]string{"a", "sign in to apply"}, keys...)
	}

	return section(head, facts,
		wrap(j.Description, width-2),
		skills,
		s.status.view(),
		hints(keys...))
}

func wrap(text string, width int) string {
	if width <= 0 {
		return text
	}
	var b strings.Builder
	for i, line := range strings.Split(text, "\n") {
		if i > 0 {
			b.WriteString("\n")
		}
		col := 0
		for j, word := range strings.Fields(line) {
			w := len([]rune(word))
			if j > 0 && col+1+w > width {
				b.WriteString("\n")
				col = 0
			} else if j > 0 {
				b.WriteString(" ")
				col++
			}
			b.WriteString(word)
			col += w
		}
	}
	return b.String()
}
