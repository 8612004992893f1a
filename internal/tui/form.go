package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type fieldKind int

const (
	kindText fieldKind = iota
	kindSecret
	kindArea
	kindChoice
)

// field is one form row
type field struct {
	key      string
	label    string
	kind     fieldKind
	required bool

	input textinput.Model
	area  textarea.Model

	options []string
	choice  int
	display func(string) string
}

func newTextField(key, label string, required bool) *field {
	ti := textinput.New()
	ti.Prompt = ""
	ti.CharLimit = 200
	ti.Width = 40
	return &field{key: key, label: label, kind: kindText, required: required, input: ti}
}

func newSecretField(key, label string, required bool) *field {
	f := newTextField(key, label, required)
	f.kind = kindSecret
	f.input.EchoMode = textinput.EchoPassword
	f.input.EchoCharacter = '•'
	return f
}

func newAreaField(key, label string, required bool, limit int) *field {
	ta := textarea.New()
	ta.ShowLineNumbers = false
	ta.Prompt = ""
	ta.CharLimit = limit
	ta.SetWidth(56)
	ta.SetHeight(4)
	return &field{key: key, label: label, kind: kindArea, required: required, area: ta}
}

func newChoiceField(key, label string, options ...string) *field {
	return &field{key: key, label: label, kind: kindChoice, options: options}
}

func (f *field) value() string {
	switch f.kind {
	case kindArea:
		return f.area.Value()
	case kindChoice:
		if len(f.options) == 0 {
			return ""
		}
		return f.options[f.choice]
	default:
		return f.input.Value()
	}
}

func (f *field) setValue(v string) {
	switch f.kind {
	case kindArea:
		f.area.SetValue(v)
	case kindChoice:
		for i, o := range f.options {
			if o == v {
				f.choice = i
			}
		}
	default:
		f.input.SetValue(v)
	}
}

func (f *field) focus() tea.Cmd {
	switch f.kind {
	case kindArea:
		return f.area.Focus()
	case kindChoice:
		return nil
	default:
		return f.input.Focus()
	}
}

func (f *field) blur() {
	switch f.kind {
	case kindArea:
		f.area.Blur()
	case kindChoice:
	default:
		f.input.Blur()
	}
}

// form is a vertical list of fields with tab focus cycling. Enter on a
// single line field advances; enter on the last field or ctrl+s submits.
type form struct {
	fields []*field
	focus  int
	keys   KeyMap
}

func newForm(keys KeyMap, fields ...*field) *form {
	return &form{fields: fields, keys: keys}
}

func (f *form) field(key string) *field {
	for _, fl := range f.fields {
		if fl.key == key {
			return fl
		}
	}
	return nil
}

func (f *form) value(key string) string {
	if fl := f.field(key); fl != nil {
		return strings.TrimSpace(fl.value())
	}
	return ""
}

// raw returns the untrimmed value, for passwords
func (f *form) raw(key string) string {
	if fl := f.field(key); fl != nil {
		return fl.value()
	}
	return ""
}

func (f *form) set(key, v string) {
	if fl := f.field(key); fl != nil {
		fl.setValue(v)
	}
}

// missing lists the labels of required fields left blank
func (f *form) missing() []string {
	var out []string
	for _, fl := range f.fields {
		if fl.required && strings.TrimSpace(fl.value()) == "" {
			out = append(out, fl.label)
		}
	}
	return out
}

func (f *form) start() tea.Cmd {
	f.focus = 0
	for i, fl := range f.fields {
		if i != 0 {
			fl.blur()
		}
	}
	if len(f.fields) == 0 {
		return nil
	}
	return tea.Batch(textinput.Blink, f.fields[0].focus())
}

func (f *form) move(delta int) tea.Cmd {
	if len(f.fields) == 0 {
		return nil
	}
	f.fields[f.focus].blur()
	f.focus = (f.focus + delta + len(f.fields)) % len(f.fields)
	return f.fields[f.focus].focus()
}

// update handles a message and reports whether the user asked to submit
func (f *form) update(msg tea.Msg) (bool, tea.Cmd) {
	if len(f.fields) == 0 {
		return false, nil
	}
	cur := f.fields[f.focus]

	if k, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(k, f.keys.Submit):
			return true, nil
		case k.String() == "tab", k.String() == "shift+tab":
			if k.String() == "tab" {
				return false, f.move(1)
			}
			return false, f.move(-1)
		case cur.kind != kindArea && k.String() == "down":
			return false, f.move(1)
		case cur.kind != kindArea && k.String() == "up":
			return false, f.move(-1)
		case cur.kind != kindArea && key.Matches(k, f.keys.Enter):
			if f.focus == len(f.fields)-1 {
				return true, nil
			}
			return false, f.move(1)
		case cur.kind == kindChoice && (k.String() == "left" || k.String() == "right" || k.String() == " "):
			if len(cur.options) > 0 {
				step := 1
				if k.String() == "left" {
					step = -1
				}
				cur.choice = (cur.choice + step + len(cur.options)) % len(cur.options)
			}
			return false, nil
		}
	}

	var cmd tea.Cmd
	switch cur.kind {
	case kindArea:
		cur.area, cmd = cur.area.Update(msg)
	case kindChoice:
	default:
		cur.input, cmd = cur.input.Update(msg)
	}
	return false, cmd
}

func (f *form) view() string {
	var b strings.Builder
	for i, fl := range f.fields {
		label := fl.label
		if fl.required {
			label += " *"
		}
		ls := LabelStyle
		if i == f.focus {
			ls = FocusedLabelStyle
		}

		var val string
		switch fl.kind {
		case kindArea:
			val = fl.area.View()
		case kindChoice:
			val = choiceView(fl, i == f.focus)
		default:
			val = fl.input.View()
		}
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, ls.Render(label), val))
		b.WriteString("\n")
	}
	return b.String()
}

func choiceView(fl *field, focused bool) string {
	parts := make([]string, len(fl.options))
	for i, o := range fl.options {
		name := o
		if fl.display != nil {
			name = fl.display(o)
		}
		if name == "" {
			name = "(none)"
		}
		if i == fl.choice {
			parts[i] = SelectedStyle.Render(" " + name + " ")
		} else {
			parts[i] = DimStyle.Render(" " + name + " ")
		}
	}
	out := strings.Join(parts, "")
	if focused {
		out += DimStyle.Render("  ←/→")
	}
	return out
}
