package tui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"

	"github.com/jobportal/jobportal-tui/internal/model"
)

func TestPager(t *testing.T) {
	keys := DefaultKeyMap()
	tests := []struct {
		name      string
		p         pager
		wantPrev  bool
		wantNext  bool
		wantLeft  int
		wantRight int
	}{
		{"first of three", pager{page: 0, totalPages: 3}, false, true, 0, 1},
		{"middle", pager{page: 1, totalPages: 3}, true, true, 0, 2},
		{"last", pager{page: 2, totalPages: 3}, true, false, 1, 2},
		{"single page", pager{page: 0, totalPages: 1}, false, false, 0, 0},
		{"empty", pager{}, false, false, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantPrev, tt.p.canPrev())
			assert.Equal(t, tt.wantNext, tt.p.canNext())

			left, moved := tt.p.step(keyMsg("left"), keys)
			assert.Equal(t, tt.wantLeft, left)
			assert.Equal(t, tt.wantPrev, moved)

			right, moved := tt.p.step(keyMsg("]"), keys)
			assert.Equal(t, tt.wantRight, right)
			assert.Equal(t, tt.wantNext, moved)
		})
	}
}

func TestPagerOf(t *testing.T) {
	p := pagerOf(&model.Page[model.Job]{Number: 2, TotalPages: 4, TotalElements: 37})
	assert.Equal(t, pager{page: 2, totalPages: 4, total: 37}, p)
	assert.Equal(t, pager{}, pagerOf[model.Job](nil))

	assert.Empty(t, pager{totalPages: 1}.view())
	assert.Contains(t, pager{page: 1, totalPages: 4}.view(), "Page 2 of 4")
}

func TestForm_FocusAndSubmit(t *testing.T) {
	f := newForm(DefaultKeyMap(),
		newTextField("email", "Email", true),
		newChoiceField("role", "Role", "APPLICANT", "EMPLOYER"),
	)
	f.start()

	submit, _ := f.update(keyMsg("enter"))
	assert.False(t, submit)
	assert.Equal(t, 1, f.focus)

	f.update(keyMsg("right"))
	assert.Equal(t, "EMPLOYER", f.value("role"))
	f.update(keyMsg("right"))
	assert.Equal(t, "APPLICANT", f.value("role"))
	f.update(keyMsg("left"))
	assert.Equal(t, "EMPLOYER", f.value("role"))

	submit, _ = f.update(keyMsg("enter"))
	assert.True(t, submit, "enter on the last field submits")

	f.update(keyMsg("tab"))
	assert.Equal(t, 0, f.focus, "tab wraps")

	submit, _ = f.update(keyMsg("ctrl+s"))
	assert.True(t, submit)
	assert.Equal(t, []string{"Email"}, f.missing())

	f.set("email", "  ada@example.com ")
	assert.Empty(t, f.missing())
	assert.Equal(t, "ada@example.com", f.value("email"))
	assert.Equal(t, "  ada@example.com ", f.raw("email"))
}

func TestConfirmDialog(t *testing.T) {
	keys := DefaultKeyMap()
	var d confirmDialog

	handled, _ := d.handle(keyMsg("y"), keys)
	assert.False(t, handled, "closed dialog ignores keys")

	d.ask("Delete?", func() tea.Msg { return nil })
	handled, cmd := d.handle(keyMsg("x"), keys)
	assert.True(t, handled)
	assert.Nil(t, cmd)
	assert.True(t, d.open(), "other keys keep it open")

	handled, cmd = d.handle(keyMsg("esc"), keys)
	assert.True(t, handled)
	assert.Nil(t, cmd)
	assert.False(t, d.open())

	d.ask("Delete?", func() tea.Msg { return "done" })
	_, cmd = d.handle(keyMsg("y"), keys)
	if assert.NotNil(t, cmd) {
		assert.Equal(t, "done", cmd())
	}
	assert.False(t, d.open())
}

func TestTruncateAndSplit(t *testing.T) {
	assert.Equal(t, "héllo", truncate("héllo", 5))
	assert.Equal(t, "hé…", truncate("héllo", 3))
	assert.Equal(t, []string{"go", "sql"}, splitList(" go, ,sql ,"))
	assert.Nil(t, splitList(""))
}
