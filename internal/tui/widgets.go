package tui

import (
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jobportal/jobportal-tui/internal/model"
)

// pager tracks page position for a paginated list
type pager struct {
	page       int
	totalPages int
	total      int64
}

func pagerOf[T any](p *model.Page[T]) pager {
	if p == nil {
		return pager{}
	}
	return pager{page: p.Number, totalPages: p.TotalPages, total: p.TotalElements}
}

func (p pager) canPrev() bool { return p.page > 0 }

func (p pager) canNext() bool { return p.page < p.totalPages-1 }

// step returns the page a key moves to and whether it moved at all
func (p pager) step(k tea.KeyMsg, keys KeyMap) (int, bool) {
	switch {
	case key.Matches(k, keys.PrevPage) && p.canPrev():
		return p.page - 1, true
	case key.Matches(k, keys.NextPage) && p.canNext():
		return p.page + 1, true
	}
	return p.page, false
}

func (p pager) view() string {
	if p.totalPages <= 1 && p.page == 0 {
		return ""
	}
	prev, next := DimStyle.Render("◀ Prev"), DimStyle.Render("Next ▶")
	if p.canPrev() {
		prev = AccentStyle.Render("◀ Prev")
	}
	if p.canNext() {
		next = AccentStyle.Render("Next ▶")
	}
	pos := MetaStyle.Render("  Page " + strconv.Itoa(p.page+1) + " of " + strconv.Itoa(max(p.totalPages, 1)) + "  ")
	return prev + pos + next
}

// cursor is a selection index into a list of n rows
type cursor struct {
	idx int
}

func (c *cursor) move(k tea.KeyMsg, keys KeyMap, n int) bool {
	switch {
	case key.Matches(k, keys.Up):
		if c.idx > 0 {
			c.idx--
		}
		return true
	case key.Matches(k, keys.Down):
		if c.idx < n-1 {
			c.idx++
		}
		return true
	}
	return false
}

func (c *cursor) clamp(n int) {
	if c.idx >= n {
		c.idx = n - 1
	}
	if c.idx < 0 {
		c.idx = 0
	}
}

// row renders a list line with the selection marker
func row(selected bool, text string) string {
	if selected {
		return SelectedStyle.Render("▸ " + text)
	}
	return ItemStyle.Render("  " + text)
}

// confirmDialog is a yes/no prompt guarding a destructive action
type confirmDialog struct {
	prompt string
	action tea.Cmd
}

func (d *confirmDialog) open() bool { return d.action != nil }

func (d *confirmDialog) ask(prompt string, action tea.Cmd) {
	d.prompt = prompt
	d.action = action
}

// handle consumes a key while the dialog is open. The returned command is
// the confirmed action, or nil when cancelled.
func (d *confirmDialog) handle(k tea.KeyMsg, keys KeyMap) (handled bool, cmd tea.Cmd) {
	if !d.open() {
		return false, nil
	}
	switch {
	case key.Matches(k, keys.Yes):
		cmd = d.action
		d.action = nil
		return true, cmd
	case key.Matches(k, keys.No):
		d.action = nil
		return true, nil
	}
	return true, nil
}

func (d *confirmDialog) view() string {
	if !d.open() {
		return ""
	}
	return DialogStyle.Render(WarningStyle.Render(d.prompt) + "\n\n" +
		HelpKeyStyle.Render("y") + HelpDescStyle.Render(" confirm   ") +
		HelpKeyStyle.Render("n") + HelpDescStyle.Render(" cancel"))
}

// status is a screen's inline feedback line
type status struct {
	text string
	err  bool
}

func (s *status) set(text string, isErr bool) {
	s.text, s.err = text, isErr
}

func (s status) view() string {
	switch {
	case s.text == "":
		return ""
	case s.err:
		return ErrorStyle.Render("✗ " + s.text)
	default:
		return SuccessStyle.Render("✓ " + s.text)
	}
}

// actionDoneMsg reports a finished mutation
type actionDoneMsg struct {
	op  string
	id  string
	err error
}

func loading() string {
	return DimStyle.Render("Loading…")
}

func empty(text string) string {
	return DimStyle.Render(text)
}

// section joins non-empty blocks with blank lines
func section(blocks ...string) string {
	out := make([]string, 0, len(blocks))
	for _, b := range blocks {
		if strings.TrimSpace(b) != "" {
			out = append(out, b)
		}
	}
	return strings.Join(out, "\n\n")
}

func hints(pairs ...string) string {
	var b strings.Builder
	for i := 0; i+1 < len(pairs); i += 2 {
		if i > 0 {
			b.WriteString(DimStyle.Render(" │ "))
		}
		b.WriteString(HelpKeyStyle.Render(pairs[i]))
		b.WriteString(DimStyle.Render(" " + pairs[i+1]))
	}
	return b.String()
}

func jobLine(j model.Job) string {
	line := j.Title + MetaStyle.Render(" · "+j.Company+" · "+j.Location+" · "+j.JobType)
	if j.IsFeatured {
		line += WarningStyle.Render(" ★")
	}
	return line
}

func shortDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("02 Jan 2006")
}

func truncate(s string, limit int) string {
	r := []rune(s)
	if len(r) <= limit {
		return s
	}
	if limit < 2 {
		return string(r[:limit])
	}
	return string(r[:limit-1]) + "…"
}

func pageHeading(title string, width int) string {
	return lipgloss.NewStyle().Width(width).Render(TitleStyle.Render(title))
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func itoa(i int) string {
	return strconv.Itoa(i)
}
