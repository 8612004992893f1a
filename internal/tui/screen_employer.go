package tui

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/sync/errgroup"

	"github.com/jobportal/jobportal-tui/internal/access"
	"github.com/jobportal/jobportal-tui/internal/model"
)

type recruiterLoadedMsg struct {
	jobs   *model.Page[model.Job]
	unread int64
	err    error
}

// recruiterDashboard is the employer landing screen
type recruiterDashboard struct {
	env
	jobs    []model.Job
	pager   pager
	unread  int64
	cur     cursor
	loading bool
	status  status
	confirm confirmDialog
}

func newRecruiterDashboard(e env) *recruiterDashboard {
	return &recruiterDashboard{env: e, loading: true}
}

func (s *recruiterDashboard) title() string { return "Recruiter dashboard" }
func (s *recruiterDashboard) modal() bool   { return s.confirm.open() }

func (s *recruiterDashboard) init() tea.Cmd {
	ctx, client, size := s.ctx, s.api, s.pageSize
	return func() tea.Msg {
		var out recruiterLoadedMsg
		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			p, err := client.MyJobs(gctx, 0, size)
			out.jobs = p
			return err
		})
		g.Go(func() error {
			n, err := client.UnreadCount(gctx)
			out.unread = n
			return err
		})
		out.err = g.Wait()
		return out
	}
}

func (s *recruiterDashboard) loadPage(page int) tea.Cmd {
	s.loading = true
	ctx, client, size, unread := s.ctx, s.api, s.pageSize, s.unread
	return func() tea.Msg {
		p, err := client.MyJobs(ctx, page, size)
		return recruiterLoadedMsg{jobs: p, unread: unread, err: err}
	}
}

func (s *recruiterDashboard) update(msg tea.Msg) (screen, tea.Cmd) {
	switch msg := msg.(type) {
	case recruiterLoadedMsg:
		s.loading = false
		if msg.err != nil {
			// mount fetches degrade to an empty dashboard
			if !quiet(msg.err) {
				s.status.set(errorText(msg.err, "Could not load your jobs."), true)
			}
			return s, nil
		}
		s.jobs, s.pager, s.unread = msg.jobs.Content, pagerOf(msg.jobs), msg.unread
		s.cur.clamp(len(s.jobs))
		return s, nil

	case actionDoneMsg:
		if msg.err != nil {
			s.status.set(errorText(msg.err, "Could not delete the job."), true)
			return s, nil
		}
		s.status.set("Job deleted.", false)
		return s, s.loadPage(s.pager.page)

	case tea.KeyMsg:
		if handled, cmd := s.confirm.handle(msg, s.keys); handled {
			return s, cmd
		}
		if s.cur.move(msg, s.keys, len(s.jobs)) {
			return s, nil
		}
		if page, moved := s.pager.step(msg, s.keys); moved {
			return s, s.loadPage(page)
		}
		if msg.String() == "n" {
			return s, navigate(access.RoutePostJob, params{})
		}
		if len(s.jobs) == 0 {
			return s, nil
		}
		job := s.jobs[s.cur.idx]
		switch {
		case key.Matches(msg, s.keys.Enter):
			return s, navigate(access.RouteJobApplications, params{JobID: job.ID})
		case msg.String() == "o":
			return s, navigate(access.RouteJobDetail, params{JobID: job.ID})
		case msg.String() == "e":
			return s, navigate(access.RoutePostJob, params{JobID: job.ID})
		case msg.String() == "x":
			ctx, client, id := s.ctx, s.api, job.ID
			s.confirm.ask("Delete \""+job.Title+"\"? This cannot be undone.", func() tea.Msg {
				return actionDoneMsg{op: "delete job", id: id, err: client.DeleteJob(ctx, id)}
			})
		}
	}
	return s, nil
}

func (s *recruiterDashboard) view(width, height int) string {
	if d := s.confirm.view(); d != "" {
		return d
	}

	var applications, active int
	for _, j := range s.jobs {
		applications += j.ApplicationCount
		if j.Status == "" || j.Status == "active" {
			active++
		}
	}
	stats := hints(
		strconv.FormatInt(s.pager.total, 10), "jobs posted",
		strconv.Itoa(active), "active on this page",
		strconv.Itoa(applications), "applications",
		strconv.FormatInt(s.unread, 10), "unread notifications",
	)

	var list strings.Builder
	switch {
	case s.loading:
		list.WriteString(loading())
	case len(s.jobs) == 0:
		list.WriteString(empty("You have not posted any jobs yet. Press n to post one."))
	default:
		for i, j := range s.jobs {
			line := j.Title + MetaStyle.Render(" · "+j.Location+" · "+strconv.Itoa(j.ApplicationCount)+" applicants · "+j.Status)
			list.WriteString(row(i == s.cur.idx, truncate(line, width-4)) + "\n")
		}
	}

	return section(
		pageHeading("Your job postings", width),
		stats,
		list.String(),
		s.pager.view(),
		s.status.view(),
		hints("enter", "applications", "o", "open", "e", "edit", "x", "delete", "n", "new job"),
	)
}

type applicationsPageMsg struct {
	page *model.Page[model.Application]
	err  error
}

// jobApplicationsScreen lets an employer review applicants for one job
type jobApplicationsScreen struct {
	env
	jobID   string
	apps    []model.Application
	pager   pager
	cur     cursor
	loading bool
	busy    bool
	status  status

	// rejecting holds the application awaiting a rejection reason
	rejecting *model.Application
	reason    textinput.Model
}

func newJobApplicationsScreen(e env, p params) *jobApplicationsScreen {
	ti := textinput.New()
	ti.Placeholder = "Reason shared with the applicant (optional)"
	ti.Prompt = "Reason: "
	ti.PromptStyle = InputPromptStyle
	ti.CharLimit = 300
	ti.Width = 60
	return &jobApplicationsScreen{env: e, jobID: p.JobID, loading: true, reason: ti}
}

func (s *jobApplicationsScreen) title() string { return "Applications" }
func (s *jobApplicationsScreen) modal() bool   { return s.rejecting != nil }
func (s *jobApplicationsScreen) init() tea.Cmd { return s.load(0) }

func (s *jobApplicationsScreen) load(page int) tea.Cmd {
	s.loading = true
	ctx, client, id, size := s.ctx, s.api, s.jobID, s.pageSize
	return func() tea.Msg {
		p, err := client.JobApplications(ctx, id, page, size)
		return applicationsPageMsg{page: p, err: err}
	}
}

func (s *jobApplicationsScreen) setStatus(app model.Application, upd model.StatusUpdate) tea.Cmd {
	if s.busy {
		return nil
	}
	s.busy = true
	ctx, client := s.ctx, s.api
	return func() tea.Msg {
		_, err := client.UpdateApplicationStatus(ctx, app.ID, upd)
		return actionDoneMsg{op: "status " + string(upd.Status), id: app.ID, err: err}
	}
}

func (s *jobApplicationsScreen) update(msg tea.Msg) (screen, tea.Cmd) {
	switch msg := msg.(type) {
	case applicationsPageMsg:
		s.loading = false
		if msg.err != nil {
			if !quiet(msg.err) {
				s.status.set(errorText(msg.err, "Could not load applications."), true)
			}
			return s, nil
		}
		s.apps, s.pager = msg.page.Content, pagerOf(msg.page)
		s.cur.clamp(len(s.apps))
		return s, nil

	case actionDoneMsg:
		s.busy = false
		if msg.err != nil {
			s.status.set(errorText(msg.err, "Could not update the application."), true)
			return s, nil
		}
		s.status.set("Application updated.", false)
		return s, s.load(s.pager.page)

	case tea.KeyMsg:
		if s.rejecting != nil {
			switch {
			case key.Matches(msg, s.keys.Back):
				s.rejecting = nil
				return s, nil
			case key.Matches(msg, s.keys.Enter):
				app := *s.rejecting
				s.rejecting = nil
				return s, s.setStatus(app, model.StatusUpdate{Status: model.ApplicationRejected, RejectionReason: strings.TrimSpace(s.reason.Value())})
			}
			var cmd tea.Cmd
			s.reason, cmd = s.reason.Update(msg)
			return s, cmd
		}

		if s.cur.move(msg, s.keys, len(s.apps)) {
			return s, nil
		}
		if page, moved := s.pager.step(msg, s.keys); moved {
			return s, s.load(page)
		}
		if len(s.apps) == 0 {
			return s, nil
		}
		app := s.apps[s.cur.idx]
		if app.Status == model.ApplicationWithdrawn {
			return s, nil
		}
		switch msg.String() {
		case "s":
			return s, s.setStatus(app, model.StatusUpdate{Status: model.ApplicationShortlisted})
		case "h":
			return s, s.setStatus(app, model.StatusUpdate{Status: model.ApplicationHired})
		case "p":
			return s, s.setStatus(app, model.StatusUpdate{Status: model.ApplicationPending})
		case "x":
			s.rejecting = &app
			s.reason.SetValue("")
			return s, s.reason.Focus()
		}
	}

	if s.rejecting != nil {
		var cmd tea.Cmd
		s.reason, cmd = s.reason.Update(msg)
		return s, cmd
	}
	return s, nil
}

func (s *jobApplicationsScreen) view(width, height int) string {
	var list strings.Builder
	switch {
	case s.loading:
		list.WriteString(loading())
	case len(s.apps) == 0:
		list.WriteString(empty("No applications yet."))
	default:
		for i, a := range s.apps {
			line := statusStyle(string(a.Status)).Render(a.Status.Icon()+" "+string(a.Status)) + "  " +
				a.ApplicantName + MetaStyle.Render(" · "+a.ApplicantEmail+" · applied "+shortDate(a.AppliedAt))
			if a.MatchScore != nil {
				line += ScoreStyle.Render(" " + strconv.Itoa(int(*a.MatchScore)) + "% match")
			}
			list.WriteString(row(i == s.cur.idx, line) + "\n")
		}
	}

	var detail string
	if len(s.apps) > 0 && !s.loading {
		a := s.apps[s.cur.idx]
		detail = MetaStyle.Render("Resume: "+a.ResumeURL) + "\n"
		if a.CoverLetter != "" {
			detail += wrap(truncate(a.CoverLetter, 600), width-2)
		}
		if a.RejectionReason != "" {
			detail += "\n" + ErrorStyle.Render("Rejection reason: "+a.RejectionReason)
		}
	}

	title := "Applicants"
	if len(s.apps) > 0 {
		title = "Applicants for " + s.apps[0].JobTitle
	}

	reject := ""
	if s.rejecting != nil {
		reject = DialogStyle.Render(WarningStyle.Render("Reject "+s.rejecting.ApplicantName+"?") + "\n\n" +
			s.reason.View() + "\n\n" + hints("enter", "reject", "esc", "cancel"))
	}

	return section(
		pageHeading(title, width),
		list.String(),
		s.pager.view(),
		reject,
		detail,
		s.status.view(),
		hints("s", "shortlist", "h", "hire", "x", "reject", "p", "back to pending"),
	)
}
