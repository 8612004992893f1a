package tui

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jobportal/jobportal-tui/internal/access"
	"github.com/jobportal/jobportal-tui/internal/model"
)

type menuItem struct {
	label string
	route access.Route
	// anonymousOnly hides the item once signed in
	anonymousOnly bool
}

var homeMenu = []menuItem{
	{label: "Browse jobs", route: access.RouteJobs},
	{label: "Sign in", route: access.RouteLogin, anonymousOnly: true},
	{label: "Create an account", route: access.RouteRegister, anonymousOnly: true},
	{label: "Forgot password", route: access.RouteForgotPassword, anonymousOnly: true},
	{label: "Verify email", route: access.RouteVerifyEmail, anonymousOnly: true},
	{label: "Dashboard", route: access.RouteDashboard},
	{label: "Post a job", route: access.RoutePostJob},
	{label: "My applications", route: access.RouteApplications},
	{label: "Resumes", route: access.RouteResumes},
	{label: "Saved jobs", route: access.RouteSavedJobs},
	{label: "Notifications", route: access.RouteNotifications},
	{label: "Career assistant", route: access.RouteChat},
	{label: "Settings", route: access.RouteSettings},
}

// visibleMenu returns the items the session can open
func visibleMenu(e env) []menuItem {
	st := e.state()
	var out []menuItem
	for _, item := range homeMenu {
		if item.anonymousOnly && st.Authenticated() {
			continue
		}
		if len(access.Visible(st, item.route)) == 1 {
			out = append(out, item)
		}
	}
	return out
}

type featuredMsg struct {
	jobs []model.Job
	err  error
}

type homeScreen struct {
	env
	menu    []menuItem
	jobs    []model.Job
	loading bool
	cur     cursor
}

func newHomeScreen(e env) *homeScreen {
	return &homeScreen{env: e, menu: visibleMenu(e), loading: true}
}

func (s *homeScreen) title() string { return "Home" }
func (s *homeScreen) modal() bool   { return false }

func (s *homeScreen) init() tea.Cmd {
	ctx, client := s.ctx, s.api
	return func() tea.Msg {
		jobs, err := client.FeaturedJobs(ctx)
		return featuredMsg{jobs: jobs, err: err}
	}
}

func (s *homeScreen) update(msg tea.Msg) (screen, tea.Cmd) {
	switch msg := msg.(type) {
	case featuredMsg:
		s.loading = false
		// featured jobs degrade to an empty list
		if msg.err == nil {
			s.jobs = msg.jobs
		}
	case tea.KeyMsg:
		if s.cur.move(msg, s.keys, len(s.jobs)) {
			return s, nil
		}
		if key.Matches(msg, s.keys.Enter) && len(s.jobs) > 0 {
			return s, navigate(access.RouteJobDetail, params{JobID: s.jobs[s.cur.idx].ID})
		}
		if n, err := strconv.Atoi(msg.String()); err == nil && n >= 1 && n <= len(s.menu) {
			return s, navigate(s.menu[n-1].route, params{})
		}
	}
	return s, nil
}

func (s *homeScreen) view(width, height int) string {
	var menu strings.Builder
	for i, item := range s.menu {
		menu.WriteString(HelpKeyStyle.Render(strconv.Itoa(i+1)) + "  " + ItemStyle.Render(item.label) + "\n")
	}

	var featured strings.Builder
	switch {
	case s.loading:
		featured.WriteString(loading())
	case len(s.jobs) == 0:
		featured.WriteString(empty("No featured jobs right now."))
	default:
		for i, j := range s.jobs {
			featured.WriteString(row(i == s.cur.idx, truncate(jobLine(j), width-4)) + "\n")
		}
	}

	greeting := "Welcome to JobPortal."
	if s.identity != nil {
		greeting = "Welcome back, " + s.identity.DisplayName() + "."
	}
	return section(
		pageHeading(greeting, width),
		TitleStyle.Render("Menu")+"\n"+menu.String(),
		TitleStyle.Render("Featured jobs")+"\n"+featured.String(),
		hints("1-9", "open", "↑/↓", "select job", "enter", "view job"),
	)
}
