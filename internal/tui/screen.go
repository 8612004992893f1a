package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jobportal/jobportal-tui/internal/access"
)

// screen is a mounted route. Commands it returns are tagged with the mount
// generation by the root, so results arriving after unmount are dropped.
type screen interface {
	init() tea.Cmd
	update(msg tea.Msg) (screen, tea.Cmd)
	view(width, height int) string
	title() string
	// modal reports that every key, esc included, belongs to the screen
	modal() bool
}

// params carries route arguments
type params struct {
	JobID     string
	CompanyID string
	Company   string
	Token     string
	Email     string
}

// navigateMsg asks the root to open a route through the access gate
type navigateMsg struct {
	route  access.Route
	params params
	// replace skips the back history, used after a form completes
	replace bool
	// notice is shown in the status bar once the route is open
	notice *flashMsg
}

func navigate(route access.Route, p params) tea.Cmd {
	return func() tea.Msg {
		return navigateMsg{route: route, params: p}
	}
}

// redirect replaces the current route and shows notice in the status bar
func redirect(route access.Route, p params, notice string) tea.Cmd {
	return func() tea.Msg {
		return navigateMsg{route: route, params: p, replace: true, notice: &flashMsg{text: notice}}
	}
}

// flashMsg shows a one-line message in the root status area
type flashMsg struct {
	text string
	err  bool
}

// mountedMsg wraps a screen command result with its mount generation
type mountedMsg struct {
	gen int
	msg tea.Msg
}

// tagged wraps cmd so its result is delivered only to generation gen
func tagged(gen int, cmd tea.Cmd) tea.Cmd {
	if cmd == nil {
		return nil
	}
	return func() tea.Msg {
		msg := cmd()
		switch msg := msg.(type) {
		case nil:
			return nil
		case tea.BatchMsg:
			cmds := make([]tea.Cmd, 0, len(msg))
			for _, c := range msg {
				if c != nil {
					cmds = append(cmds, tagged(gen, c))
				}
			}
			return tea.BatchMsg(cmds)
		default:
			return mountedMsg{gen: gen, msg: msg}
		}
	}
}
