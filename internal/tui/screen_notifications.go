package tui

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jobportal/jobportal-tui/internal/model"
)

type notificationsMsg struct {
	page   *model.Page[model.Notification]
	unread int64
	err    error
}

type notificationsScreen struct {
	env
	items   []model.Notification
	unread  int64
	pager   pager
	cur     cursor
	loading bool
	status  status
}

func newNotificationsScreen(e env) *notificationsScreen {
	return &notificationsScreen{env: e, loading: true}
}

func (s *notificationsScreen) title() string { return "Notifications" }
func (s *notificationsScreen) modal() bool   { return false }
func (s *notificationsScreen) init() tea.Cmd { return s.load(0) }

func (s *notificationsScreen) load(page int) tea.Cmd {
	s.loading = true
	ctx, client, size := s.ctx, s.api, s.pageSize
	return func() tea.Msg {
		p, err := client.Notifications(ctx, page, size)
		if err != nil {
			return notificationsMsg{err: err}
		}
		n, err := client.UnreadCount(ctx)
		return notificationsMsg{page: p, unread: n, err: err}
	}
}

func (s *notificationsScreen) update(msg tea.Msg) (screen, tea.Cmd) {
	switch msg := msg.(type) {
	case notificationsMsg:
		s.loading = false
		if msg.err != nil {
			if !quiet(msg.err) {
				s.status.set(errorText(msg.err, "Could not load notifications."), true)
			}
			return s, nil
		}
		s.items, s.pager, s.unread = msg.page.Content, pagerOf(msg.page), msg.unread
		s.cur.clamp(len(s.items))
		return s, nil

	case actionDoneMsg:
		if msg.err != nil {
			s.status.set(errorText(msg.err, "Could not update notifications."), true)
			return s, nil
		}
		if msg.op == "read all" {
			s.status.set("All caught up.", false)
		}
		return s, s.load(s.pager.page)

	case tea.KeyMsg:
		if s.cur.move(msg, s.keys, len(s.items)) {
			return s, nil
		}
		if page, moved := s.pager.step(msg, s.keys); moved {
			return s, s.load(page)
		}
		ctx, client := s.ctx, s.api
		if msg.String() == "a" && s.unread > 0 {
			return s, func() tea.Msg {
				return actionDoneMsg{op: "read all", err: client.MarkAllNotificationsRead(ctx)}
			}
		}
		if len(s.items) == 0 {
			return s, nil
		}
		n := s.items[s.cur.idx]
		switch {
		case key.Matches(msg, s.keys.Enter) && !n.Read:
			return s, func() tea.Msg {
				return actionDoneMsg{op: "read", id: n.ID, err: client.MarkNotificationRead(ctx, n.ID)}
			}
		case msg.String() == "x":
			return s, func() tea.Msg {
				return actionDoneMsg{op: "delete", id: n.ID, err: client.DeleteNotification(ctx, n.ID)}
			}
		}
	}
	return s, nil
}

func (s *notificationsScreen) view(width, height int) string {
	var list strings.Builder
	switch {
	case s.loading:
		list.WriteString(loading())
	case len(s.items) == 0:
		list.WriteString(empty("No notifications."))
	default:
		for i, n := range s.items {
			mark := DimStyle.Render("  ")
			if !n.Read {
				mark = AccentStyle.Render("● ")
			}
			line := mark + n.Title + MetaStyle.Render(" · "+shortDate(n.CreatedAt))
			list.WriteString(row(i == s.cur.idx, line) + "\n")
		}
	}

	var detail string
	if !s.loading && len(s.items) > 0 {
		detail = wrap(s.items[s.cur.idx].Message, width-2)
	}

	return section(
		pageHeading("Notifications ("+strconv.FormatInt(s.unread, 10)+" unread)", width),
		list.String(),
		s.pager.view(),
		detail,
		s.status.view(),
		hints("enter", "mark read", "a", "mark all read", "x", "delete"),
	)
}
