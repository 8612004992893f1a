package tui

import (
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/sync/errgroup"

	"github.com/jobportal/jobportal-tui/internal/access"
	"github.com/jobportal/jobportal-tui/internal/model"
)

type adminPane int

const (
	paneUsers adminPane = iota
	paneJobs
)

type adminLoadedMsg struct {
	stats *model.PlatformStats
	users *model.Page[model.Profile]
	jobs  *model.Page[model.Job]
	err   error
}

// adminDashboard shows platform stats and moderates users and jobs
type adminDashboard struct {
	env
	stats   *model.PlatformStats
	users   []model.Profile
	jobs    []model.Job
	userPg  pager
	jobPg   pager
	userCur cursor
	jobCur  cursor
	pane    adminPane
	loading bool
	busy    bool
	status  status
	confirm confirmDialog
}

func newAdminDashboard(e env) *adminDashboard {
	return &adminDashboard{env: e, loading: true}
}

func (s *adminDashboard) title() string { return "Admin" }
func (s *adminDashboard) modal() bool   { return s.confirm.open() }
func (s *adminDashboard) init() tea.Cmd { return s.load(0, 0) }

func (s *adminDashboard) load(userPage, jobPage int) tea.Cmd {
	s.loading = true
	ctx, client, size := s.ctx, s.api, s.pageSize
	return func() tea.Msg {
		var out adminLoadedMsg
		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			st, err := client.PlatformStats(gctx)
			out.stats = st
			return err
		})
		g.Go(func() error {
			p, err := client.AdminUsers(gctx, userPage, size)
			out.users = p
			return err
		})
		g.Go(func() error {
			p, err := client.AdminJobs(gctx, jobPage, size)
			out.jobs = p
			return err
		})
		out.err = g.Wait()
		return out
	}
}

func (s *adminDashboard) update(msg tea.Msg) (screen, tea.Cmd) {
	switch msg := msg.(type) {
	case adminLoadedMsg:
		s.loading = false
		if msg.err != nil {
			if !quiet(msg.err) {
				s.status.set(errorText(msg.err, "Could not load platform data."), true)
			}
			return s, nil
		}
		s.stats = msg.stats
		s.users, s.userPg = msg.users.Content, pagerOf(msg.users)
		s.jobs, s.jobPg = msg.jobs.Content, pagerOf(msg.jobs)
		s.userCur.clamp(len(s.users))
		s.jobCur.clamp(len(s.jobs))
		return s, nil

	case actionDoneMsg:
		s.busy = false
		if msg.err != nil {
			s.status.set(errorText(msg.err, "Could not complete that action."), true)
			return s, nil
		}
		s.status.set("Done: "+msg.op+".", false)
		return s, s.load(s.userPg.page, s.jobPg.page)

	case tea.KeyMsg:
		if handled, cmd := s.confirm.handle(msg, s.keys); handled {
			if cmd != nil {
				s.busy = true
			}
			return s, cmd
		}
		if msg.String() == "tab" {
			s.pane = 1 - s.pane
			return s, nil
		}
		if s.pane == paneUsers {
			return s.usersKey(msg)
		}
		return s.jobsKey(msg)
	}
	return s, nil
}

func (s *adminDashboard) usersKey(k tea.KeyMsg) (screen, tea.Cmd) {
	if s.userCur.move(k, s.keys, len(s.users)) {
		return s, nil
	}
	if page, moved := s.userPg.step(k, s.keys); moved {
		return s, s.load(page, s.jobPg.page)
	}
	if len(s.users) == 0 || s.busy {
		return s, nil
	}
	u := s.users[s.userCur.idx]
	self := s.identity != nil && s.identity.ID == u.ID
	ctx, client := s.ctx, s.api
	switch k.String() {
	case "a":
		if self {
			s.status.set("You cannot deactivate your own account.", true)
			return s, nil
		}
		s.busy = true
		op := "activate user"
		if u.IsActive {
			op = "deactivate user"
		}
		return s, func() tea.Msg {
			return actionDoneMsg{op: op, id: u.ID, err: client.SetUserActive(ctx, u.ID, !u.IsActive)}
		}
	case "x":
		if self {
			s.status.set("You cannot delete your own account.", true)
			return s, nil
		}
		s.confirm.ask("Delete user "+u.DisplayName()+"?", func() tea.Msg {
			return actionDoneMsg{op: "delete user", id: u.ID, err: client.DeleteUser(ctx, u.ID)}
		})
	}
	return s, nil
}

func (s *adminDashboard) jobsKey(k tea.KeyMsg) (screen, tea.Cmd) {
	if s.jobCur.move(k, s.keys, len(s.jobs)) {
		return s, nil
	}
	if page, moved := s.jobPg.step(k, s.keys); moved {
		return s, s.load(s.userPg.page, page)
	}
	if len(s.jobs) == 0 || s.busy {
		return s, nil
	}
	j := s.jobs[s.jobCur.idx]
	ctx, client := s.ctx, s.api
	switch {
	case k.String() == "o", k.String() == "enter":
		return s, navigate(access.RouteJobDetail, params{JobID: j.ID})
	case k.String() == "x":
		s.confirm.ask("Remove the job \""+j.Title+"\"?", func() tea.Msg {
			return actionDoneMsg{op: "delete job", id: j.ID, err: client.AdminDeleteJob(ctx, j.ID)}
		})
	}
	return s, nil
}

func (s *adminDashboard) view(width, height int) string {
	if d := s.confirm.view(); d != "" {
		return d
	}
	if s.loading && s.stats == nil {
		return section(pageHeading("Platform overview", width), loading())
	}

	var stats string
	if st := s.stats; st != nil {
		f := func(n int64) string { return strconv.FormatInt(n, 10) }
		stats = hints(
			f(st.TotalUsers), "users",
			f(st.TotalApplicants), "applicants",
			f(st.TotalEmployers), "employers",
			f(st.ActiveJobs)+"/"+f(st.TotalJobs), "jobs active",
			f(st.TotalApplications), "applications",
		)
	}

	tabs := AccentStyle.Render("[Users]") + DimStyle.Render("  Jobs")
	if s.pane == paneJobs {
		tabs = DimStyle.Render("Users  ") + AccentStyle.Render("[Jobs]")
	}

	var list strings.Builder
	if s.pane == paneUsers {
		if len(s.users) == 0 {
			list.WriteString(empty("No users."))
		}
		for i, u := range s.users {
			state := SuccessStyle.Render("active")
			if !u.IsActive {
				state = ErrorStyle.Render("inactive")
			}
			line := u.DisplayName() + MetaStyle.Render(" · "+u.Email+" · "+u.Role.Label()+" · ") + state
			list.WriteString(row(i == s.userCur.idx, line) + "\n")
		}
		list.WriteString("\n" + s.userPg.view())
	} else {
		if len(s.jobs) == 0 {
			list.WriteString(empty("No jobs."))
		}
		for i, j := range s.jobs {
			list.WriteString(row(i == s.jobCur.idx, jobLine(j)+MetaStyle.Render(" · "+j.Status)) + "\n")
		}
		list.WriteString("\n" + s.jobPg.view())
	}

	keys := hints("tab", "switch", "a", "toggle active", "x", "delete")
	if s.pane == paneJobs {
		keys = hints("tab", "switch", "o", "open", "x", "remove")
	}

	return section(
		pageHeading("Platform overview", width),
		stats,
		tabs,
		list.String(),
		s.status.view(),
		keys,
	)
}
