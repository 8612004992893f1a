package tui

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/sync/errgroup"

	"github.com/jobportal/jobportal-tui/internal/access"
	"github.com/jobportal/jobportal-tui/internal/model"
)

type jobseekerLoadedMsg struct {
	recent       []model.Application
	applications int64
	saved        int64
	unread       int64
	resume       *model.Resume
	err          error
}

// jobseekerDashboard is the applicant landing screen
type jobseekerDashboard struct {
	env
	data    jobseekerLoadedMsg
	loading bool
	status  status
}

func newJobseekerDashboard(e env) *jobseekerDashboard {
	return &jobseekerDashboard{env: e, loading: true}
}

func (s *jobseekerDashboard) title() string { return "Dashboard" }
func (s *jobseekerDashboard) modal() bool   { return false }

func (s *jobseekerDashboard) init() tea.Cmd {
	ctx, client := s.ctx, s.api
	return func() tea.Msg {
		var out jobseekerLoadedMsg
		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			p, err := client.MyApplications(gctx, 0, 5)
			if err == nil {
				out.recent, out.applications = p.Content, p.TotalElements
			}
			return err
		})
		g.Go(func() error {
			p, err := client.SavedJobs(gctx, 0, 1)
			if err == nil {
				out.saved = p.TotalElements
			}
			return err
		})
		g.Go(func() error {
			n, err := client.UnreadCount(gctx)
			out.unread = n
			return err
		})
		g.Go(func() error {
			if r, err := client.DefaultResume(gctx); err == nil {
				out.resume = r
			}
			return nil
		})
		out.err = g.Wait()
		return out
	}
}

func (s *jobseekerDashboard) update(msg tea.Msg) (screen, tea.Cmd) {
	switch msg := msg.(type) {
	case jobseekerLoadedMsg:
		s.loading = false
		if msg.err != nil {
			if !quiet(msg.err) {
				s.status.set(errorText(msg.err, "Could not load your dashboard."), true)
			}
			return s, nil
		}
		s.data = msg
	case tea.KeyMsg:
		switch msg.String() {
		case "a":
			return s, navigate(access.RouteApplications, params{})
		case "s":
			return s, navigate(access.RouteSavedJobs, params{})
		case "r":
			return s, navigate(access.RouteResumes, params{})
		case "j":
			return s, navigate(access.RouteJobs, params{})
		}
	}
	return s, nil
}

func (s *jobseekerDashboard) view(width, height int) string {
	if s.loading {
		return section(pageHeading("Welcome back", width), loading())
	}
	name := ""
	if s.identity != nil {
		name = ", " + s.identity.DisplayName()
	}

	stats := hints(
		strconv.FormatInt(s.data.applications, 10), "applications",
		strconv.FormatInt(s.data.saved, 10), "saved jobs",
		strconv.FormatInt(s.data.unread, 10), "unread notifications",
	)

	resume := WarningStyle.Render("No default resume. Press r to add one so applying is one step.")
	if s.data.resume != nil {
		resume = MetaStyle.Render("Default resume: ") + s.data.resume.FileName
	}

	var recent strings.Builder
	if len(s.data.recent) == 0 {
		recent.WriteString(empty("You have not applied to any jobs yet. Press j to browse."))
	}
	for _, a := range s.data.recent {
		recent.WriteString(statusStyle(string(a.Status)).Render(a.Status.Icon()+" "+string(a.Status)) + "  " +
			truncate(a.JobTitle+MetaStyle.Render(" · "+a.Company+" · "+shortDate(a.AppliedAt)), width-16) + "\n")
	}

	return section(
		pageHeading("Welcome back"+name, width),
		stats,
		resume,
		LabelStyle.Render("Recent applications"),
		recent.String(),
		s.status.view(),
		hints("a", "applications", "s", "saved jobs", "r", "resumes", "j", "browse jobs"),
	)
}

// applicationsScreen lists the applicant's own applications
type applicationsScreen struct {
	env
	apps    []model.Application
	pager   pager
	cur     cursor
	loading bool
	busy    bool
	status  status
	confirm confirmDialog
}

func newApplicationsScreen(e env) *applicationsScreen {
	return &applicationsScreen{env: e, loading: true}
}

func (s *applicationsScreen) title() string { return "My applications" }
func (s *applicationsScreen) modal() bool   { return s.confirm.open() }
func (s *applicationsScreen) init() tea.Cmd { return s.load(0) }

func (s *applicationsScreen) load(page int) tea.Cmd {
	s.loading = true
	ctx, client, size := s.ctx, s.api, s.pageSize
	return func() tea.Msg {
		p, err := client.MyApplications(ctx, page, size)
		return applicationsPageMsg{page: p, err: err}
	}
}

func (s *applicationsScreen) update(msg tea.Msg) (screen, tea.Cmd) {
	switch msg := msg.(type) {
	case applicationsPageMsg:
		s.loading = false
		if msg.err != nil {
			if !quiet(msg.err) {
				s.status.set(errorText(msg.err, "Could not load your applications."), true)
			}
			return s, nil
		}
		s.apps, s.pager = msg.page.Content, pagerOf(msg.page)
		s.cur.clamp(len(s.apps))
		return s, nil

	case actionDoneMsg:
		s.busy = false
		if msg.err != nil {
			s.status.set(errorText(msg.err, "Could not withdraw the application."), true)
			return s, nil
		}
		s.status.set("Application withdrawn.", false)
		return s, s.load(s.pager.page)

	case tea.KeyMsg:
		if handled, cmd := s.confirm.handle(msg, s.keys); handled {
			if cmd != nil {
				s.busy = true
			}
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
		switch {
		case key.Matches(msg, s.keys.Enter):
			return s, navigate(access.RouteJobDetail, params{JobID: app.JobID})
		case msg.String() == "w":
			if !app.Status.Withdrawable() {
				s.status.set("Only pending applications can be withdrawn.", true)
				return s, nil
			}
			if s.busy {
				return s, nil
			}
			ctx, client, id := s.ctx, s.api, app.ID
			s.confirm.ask("Withdraw your application for \""+app.JobTitle+"\"?", func() tea.Msg {
				return actionDoneMsg{op: "withdraw", id: id, err: client.WithdrawApplication(ctx, id)}
			})
		}
	}
	return s, nil
}

func (s *applicationsScreen) view(width, height int) string {
	if d := s.confirm.view(); d != "" {
		return d
	}
	var list strings.Builder
	switch {
	case s.loading:
		list.WriteString(loading())
	case len(s.apps) == 0:
		list.WriteString(empty("No applications yet."))
	default:
		for i, a := range s.apps {
			line := statusStyle(string(a.Status)).Render(a.Status.Icon()+" "+strings.ToUpper(string(a.Status))) + "  " +
				a.JobTitle + MetaStyle.Render(" · "+a.Company+" · "+shortDate(a.AppliedAt))
			list.WriteString(row(i == s.cur.idx, line) + "\n")
		}
	}

	var detail string
	if !s.loading && len(s.apps) > 0 {
		if a := s.apps[s.cur.idx]; a.RejectionReason != "" {
			detail = ErrorStyle.Render("Feedback: " + a.RejectionReason)
		}
	}

	return section(
		pageHeading(strconv.FormatInt(s.pager.total, 10)+" applications", width),
		list.String(),
		s.pager.view(),
		detail,
		s.status.view(),
		hints("enter", "view job", "w", "withdraw"),
	)
}

type savedPageMsg struct {
	page *model.Page[model.SavedJob]
	err  error
}

type savedJobsScreen struct {
	env
	items   []model.SavedJob
	pager   pager
	cur     cursor
	loading bool
	status  status
}

func newSavedJobsScreen(e env) *savedJobsScreen {
	return &savedJobsScreen{env: e, loading: true}
}

func (s *savedJobsScreen) title() string { return "Saved jobs" }
func (s *savedJobsScreen) modal() bool   { return false }
func (s *savedJobsScreen) init() tea.Cmd { return s.load(0) }

func (s *savedJobsScreen) load(page int) tea.Cmd {
	s.loading = true
	ctx, client, size := s.ctx, s.api, s.pageSize
	return func() tea.Msg {
		p, err := client.SavedJobs(ctx, page, size)
		return savedPageMsg{page: p, err: err}
	}
}

func (s *savedJobsScreen) update(msg tea.Msg) (screen, tea.Cmd) {
	switch msg := msg.(type) {
	case savedPageMsg:
		s.loading = false
		if msg.err != nil {
			if !quiet(msg.err) {
				s.status.set(errorText(msg.err, "Could not load saved jobs."), true)
			}
			return s, nil
		}
		s.items, s.pager = msg.page.Content, pagerOf(msg.page)
		s.cur.clamp(len(s.items))
		return s, nil

	case actionDoneMsg:
		if msg.err != nil {
			s.status.set(errorText(msg.err, "Could not remove the job."), true)
			return s, nil
		}
		s.status.set("Removed from saved jobs.", false)
		page := s.pager.page
		// the last row on a trailing page moves back one page
		if len(s.items) == 1 && page > 0 {
			page--
		}
		return s, s.load(page)

	case tea.KeyMsg:
		if s.cur.move(msg, s.keys, len(s.items)) {
			return s, nil
		}
		if page, moved := s.pager.step(msg, s.keys); moved {
			return s, s.load(page)
		}
		if len(s.items) == 0 {
			return s, nil
		}
		job := s.items[s.cur.idx].Job
		switch {
		case key.Matches(msg, s.keys.Enter):
			return s, navigate(access.RouteJobDetail, params{JobID: job.ID})
		case msg.String() == "x":
			ctx, client, id := s.ctx, s.api, job.ID
			return s, func() tea.Msg {
				return actionDoneMsg{op: "unsave", id: id, err: client.UnsaveJob(ctx, id)}
			}
		}
	}
	return s, nil
}

func (s *savedJobsScreen) view(width, height int) string {
	var list strings.Builder
	switch {
	case s.loading:
		list.WriteString(loading())
	case len(s.items) == 0:
		list.WriteString(empty("Nothing saved yet. Press s on a job to save it."))
	default:
		for i, it := range s.items {
			line := jobLine(it.Job) + MetaStyle.Render(" · saved "+shortDate(it.SavedAt))
			list.WriteString(row(i == s.cur.idx, line) + "\n")
		}
	}
	return section(
		pageHeading("Saved jobs", width),
		list.String(),
		s.pager.view(),
		s.status.view(),
		hints("enter", "open", "x", "remove"),
	)
}
