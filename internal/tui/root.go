// Package tui is the terminal client: a root bubbletea model that routes
// between screens through the access gate.
package tui

import (
	"context"
	"log/slog"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jobportal/jobportal-tui/internal/access"
	"github.com/jobportal/jobportal-tui/internal/api"
	"github.com/jobportal/jobportal-tui/internal/session"
)

const (
	debugWidth  = 48
	maxHistory  = 32
	defaultPage = 10
)

// sessionMsg carries a session snapshot from the store subscription
type sessionMsg struct {
	state session.State
	// subscribed is true when the message came from the subscription and
	// the listener must be re-armed
	subscribed bool
}

type loggedOutMsg struct {
	err error
}

// Model is the root Bubble Tea model
type Model struct {
	deps Deps
	keys KeyMap

	width  int
	height int
	ready  bool

	sess        session.State
	updates     <-chan session.State
	unsubscribe func()
	loggingOut  bool

	// requested route and the screen currently mounted for it
	route   access.Route
	params  params
	history []navigateMsg
	screen  screen
	gen     int
	cancel  context.CancelFunc

	spinner  spinner.Model
	flash    status
	showHelp bool
	debug    DebugPanel
}

// NewRootModel creates the root model. It subscribes to the session store
// immediately so no transition between construction and Init is missed.
func NewRootModel(deps Deps) Model {
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	if deps.PageSize <= 0 {
		deps.PageSize = defaultPage
	}
	updates, unsubscribe := deps.Session.Subscribe()

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(ColorMagenta)

	return Model{
		deps:        deps,
		keys:        DefaultKeyMap(),
		sess:        deps.Session.State(),
		updates:     updates,
		unsubscribe: unsubscribe,
		route:       access.RouteHome,
		spinner:     sp,
		debug:       NewDebugPanel(deps.Debug),
	}
}

// Close releases the session subscription and the mounted screen
func (m Model) Close() {
	if m.cancel != nil {
		m.cancel()
	}
	if m.unsubscribe != nil {
		m.unsubscribe()
	}
}

// Init starts session restore; no screen is mounted until it resolves
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.spinner.Tick,
		m.restoreCmd(),
		waitForSession(m.updates),
	)
}

func (m Model) restoreCmd() tea.Cmd {
	sessions, fetch := m.deps.Session, m.deps.API
	return func() tea.Msg {
		return sessionMsg{state: sessions.Restore(context.Background(), fetch)}
	}
}

func waitForSession(updates <-chan session.State) tea.Cmd {
	return func() tea.Msg {
		st, ok := <-updates
		if !ok {
			return nil
		}
		return sessionMsg{state: st, subscribed: true}
	}
}

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height, m.ready = msg.Width, msg.Height, true
		return m.forward(msg)

	case tea.KeyMsg:
		return m.handleKey(msg)

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case sessionMsg:
		var cmds []tea.Cmd
		if msg.subscribed {
			cmds = append(cmds, waitForSession(m.updates))
		}
		var cmd tea.Cmd
		m, cmd = m.onSession(msg.state)
		return m, tea.Batch(append(cmds, cmd)...)

	case loggedOutMsg:
		if msg.err != nil {
			m.flash.set("Signed out, but the saved credential could not be removed.", true)
		}
		return m, nil

	case mountedMsg:
		if msg.gen != m.gen || m.screen == nil {
			m.debug.AddEvent("drop", "stale result for generation "+itoa(msg.gen))
			return m, nil
		}
		switch inner := msg.msg.(type) {
		case navigateMsg:
			return m.navigate(inner)
		case flashMsg:
			m.flash.set(inner.text, inner.err)
			return m, nil
		case actionDoneMsg:
			if inner.err != nil {
				m.debug.AddEvent("api", inner.op+": "+inner.err.Error())
				m.logAPIError(inner.op, inner.err)
			}
		}
		return m.forward(msg.msg)
	}

	return m.forward(msg)
}

func (m Model) logAPIError(op string, err error) {
	m.deps.Logger.Warn("request failed", "op", op, "kind", api.KindOf(err).String(), "status", api.StatusOf(err), "error", err)
}

func (m Model) handleKey(k tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(k, m.keys.Quit) {
		m.Close()
		return m, tea.Quit
	}
	if m.showHelp {
		if key.Matches(k, m.keys.Help) || key.Matches(k, m.keys.Back) {
			m.showHelp = false
		}
		return m, nil
	}
	if m.screen != nil && m.screen.modal() {
		return m.forward(k)
	}

	switch {
	case key.Matches(k, m.keys.Help):
		m.showHelp = true
		return m, nil
	case key.Matches(k, m.keys.Back):
		return m.back()
	case key.Matches(k, m.keys.Home):
		return m.navigate(navigateMsg{route: access.RouteHome})
	case key.Matches(k, m.keys.Dashboard):
		return m.navigate(navigateMsg{route: access.RouteDashboard})
	case key.Matches(k, m.keys.Chat):
		return m.navigate(navigateMsg{route: access.RouteChat})
	case key.Matches(k, m.keys.Notifications):
		return m.navigate(navigateMsg{route: access.RouteNotifications})
	case key.Matches(k, m.keys.Settings):
		return m.navigate(navigateMsg{route: access.RouteSettings})
	case key.Matches(k, m.keys.Login) && !m.sess.Authenticated():
		return m.navigate(navigateMsg{route: access.RouteLogin})
	case key.Matches(k, m.keys.Logout) && m.sess.Authenticated():
		return m.logout()
	}
	return m.forward(k)
}

func (m Model) logout() (tea.Model, tea.Cmd) {
	m.loggingOut = true
	gw := m.deps.Auth
	return m, func() tea.Msg {
		return loggedOutMsg{err: gw.Logout()}
	}
}

// onSession re-runs the gate for the current route whenever the session
// changes. The first resolution mounts the route requested at startup.
func (m Model) onSession(st session.State) (Model, tea.Cmd) {
	prev := m.sess
	m.sess = st
	if st.Status == session.StatusInitializing {
		return m, nil
	}

	changed := prev.Status != st.Status || identityKey(prev) != identityKey(st)
	if m.screen != nil && !changed {
		return m, nil
	}
	m.debug.AddEvent("session", st.Status.String()+" "+string(st.Role()))

	if prev.Status == session.StatusAuthenticated && st.Status == session.StatusAnonymous {
		if m.loggingOut {
			m.flash.set("You have been signed out.", false)
		} else {
			m.flash.set(api.MsgExpired, true)
		}
		m.loggingOut = false
	}

	// login and register navigate on their own once the gateway returns
	if m.screen != nil && (m.route == access.RouteLogin || m.route == access.RouteRegister) && st.Authenticated() {
		return m, nil
	}
	return m.open(m.route, m.params)
}

func identityKey(st session.State) string {
	if !st.Authenticated() {
		return ""
	}
	return st.Identity.ID + "/" + string(st.Identity.Role)
}

// navigate handles a user or screen initiated route change
func (m Model) navigate(nav navigateMsg) (Model, tea.Cmd) {
	if !nav.replace && m.screen != nil && m.route != nav.route {
		m.history = append(m.history, navigateMsg{route: m.route, params: m.params})
		if len(m.history) > maxHistory {
			m.history = m.history[len(m.history)-maxHistory:]
		}
	}
	m.flash = status{}
	if nav.notice != nil {
		m.flash.set(nav.notice.text, nav.notice.err)
	}
	return m.open(nav.route, nav.params)
}

func (m Model) back() (Model, tea.Cmd) {
	if len(m.history) == 0 {
		if m.route == access.RouteHome {
			return m, nil
		}
		return m.open(access.RouteHome, params{})
	}
	prev := m.history[len(m.history)-1]
	m.history = m.history[:len(m.history)-1]
	m.flash = status{}
	return m.open(prev.route, prev.params)
}

// open passes route through the access gate and mounts the outcome
func (m Model) open(route access.Route, p params) (Model, tea.Cmd) {
	if m.sess.Authenticated() {
		switch route {
		case access.RouteDashboard, access.RouteLogin, access.RouteRegister:
			route, p = access.LandingFor(m.sess.Role()), params{}
		}
	}

	d := access.Decide(m.sess, route)
	m.debug.AddEvent("gate", string(route)+" → "+d.Kind.String())

	switch d.Kind {
	case access.Pending:
		m.route, m.params = route, p
		m.unmount()
		return m, nil
	case access.DeniedAnonymous:
		if m.flash.text == "" {
			m.flash.set("Please sign in to continue.", false)
		}
		return m.mount(d.Redirect, params{})
	case access.DeniedRole:
		m.flash.set("You do not have access to that page.", true)
		return m.mount(d.Redirect, params{})
	default:
		return m.mount(route, p)
	}
}

func (m *Model) unmount() {
	if m.cancel != nil {
		m.cancel()
		m.cancel = nil
	}
	m.screen = nil
	m.gen++
}

func (m Model) mount(route access.Route, p params) (Model, tea.Cmd) {
	m.unmount()
	ctx, cancel := context.WithCancel(context.Background())
	m.cancel = cancel
	m.route, m.params = route, p

	e := env{
		ctx:      ctx,
		api:      m.deps.API,
		auth:     m.deps.Auth,
		identity: m.sess.Identity,
		pageSize: m.deps.PageSize,
		logger:   m.deps.Logger,
		keys:     m.keys,

		lastEmail: m.deps.LastEmail,
		remember:  m.deps.RememberEmail,
	}
	m.screen = newScreen(route, e, p)
	m.debug.AddEvent("mount", string(route)+" gen="+itoa(m.gen))

	cmds := []tea.Cmd{tagged(m.gen, m.screen.init())}
	if m.ready {
		var cmd tea.Cmd
		m.screen, cmd = m.screen.update(tea.WindowSizeMsg{Width: m.bodyWidth(), Height: m.bodyHeight()})
		cmds = append(cmds, tagged(m.gen, cmd))
	}
	return m, tea.Batch(cmds...)
}

func (m Model) forward(msg tea.Msg) (Model, tea.Cmd) {
	if m.screen == nil {
		return m, nil
	}
	if _, ok := msg.(tea.WindowSizeMsg); ok {
		msg = tea.WindowSizeMsg{Width: m.bodyWidth(), Height: m.bodyHeight()}
	}
	var cmd tea.Cmd
	m.screen, cmd = m.screen.update(msg)
	return m, tagged(m.gen, cmd)
}

func (m Model) bodyWidth() int {
	w := m.width
	if m.debug.IsEnabled() {
		w -= debugWidth
	}
	return max(w-4, 20)
}

func (m Model) bodyHeight() int {
	return max(m.height-6, 5)
}

// View renders the header, the mounted screen and the status bar
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	if m.showHelp {
		return m.helpView()
	}

	var body string
	if m.screen == nil {
		body = m.spinner.View() + " " + DimStyle.Render("Restoring session…")
	} else {
		body = m.screen.view(m.bodyWidth(), m.bodyHeight())
	}
	main := BodyStyle.Width(m.bodyWidth() + 2).Height(m.bodyHeight()).Render(body)
	if m.debug.IsEnabled() {
		main = lipgloss.JoinHorizontal(lipgloss.Top, main, m.debug.Render(debugWidth-2, m.bodyHeight()+2))
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		m.renderHeader(),
		main,
		m.renderStatusBar(),
	)
}

func (m Model) renderHeader() string {
	title := lipgloss.NewStyle().Foreground(ColorRed).Bold(true).Render("JOBPORTAL")
	subtitle := lipgloss.NewStyle().Foreground(ColorFgMuted).Render("Find work. Hire talent.")

	var where string
	if m.screen != nil {
		where = lipgloss.NewStyle().Foreground(ColorFgSecondary).Render(" · " + m.screen.title())
	}

	var who string
	switch {
	case m.sess.Authenticated():
		who = AccentStyle.Render(m.sess.Identity.DisplayName()) + DimStyle.Render(" ("+m.sess.Role().Label()+")")
	case m.sess.Status == session.StatusAnonymous:
		who = DimStyle.Render("not signed in")
	}

	left := title + "  " + subtitle + where
	gap := max(m.width-lipgloss.Width(left)-lipgloss.Width(who)-2, 1)
	return lipgloss.NewStyle().PaddingLeft(1).Width(m.width).Render(left+strings.Repeat(" ", gap)+who) + "\n"
}

func (m Model) renderStatusBar() string {
	pairs := []string{"esc", "back", "ctrl+g", "home"}
	if m.sess.Authenticated() {
		pairs = append(pairs, "ctrl+b", "dashboard", "ctrl+t", "assistant", "ctrl+x", "sign out")
	} else {
		pairs = append(pairs, "ctrl+l", "sign in")
	}
	pairs = append(pairs, "f1", "help", "ctrl+c", "quit")

	line := hints(pairs...)
	if f := m.flash.view(); f != "" {
		line = f + DimStyle.Render("  │  ") + line
	}
	return StatusBarStyle.Render(line)
}

func (m Model) helpView() string {
	var b strings.Builder
	b.WriteString(HelpTitleStyle.Render("Keyboard Shortcuts"))
	b.WriteString("\n\n")
	for _, group := range m.keys.FullHelp() {
		for _, kb := range group {
			h := kb.Help()
			b.WriteString(HelpKeyStyle.Render(padRight(h.Key, 12)))
			b.WriteString(HelpDescStyle.Render(h.Desc))
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}
	b.WriteString(HelpDescStyle.Render("Press f1 or esc to close"))

	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, HelpStyle.Render(b.String()))
}

func padRight(s string, n int) string {
	if w := lipgloss.Width(s); w < n {
		return s + strings.Repeat(" ", n-w)
	}
	return s
}
