package tui

import (
	"path"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jobportal/jobportal-tui/internal/access"
	"github.com/jobportal/jobportal-tui/internal/model"
)

type resumesMsg struct {
	resumes []model.Resume
	err     error
}

type matchesMsg struct {
	resume  string
	matches []model.MatchedJob
	err     error
}

// resumesScreen manages resume links and shows job matches for one
type resumesScreen struct {
	env
	resumes []model.Resume
	cur     cursor
	loading bool
	busy    bool
	status  status
	confirm confirmDialog

	// editing is the resume being changed, "" while adding
	editing  string
	formOpen bool
	form     *form

	matchedFor string
	matches    []model.MatchedJob
	matchCur   cursor
	showMatch  bool
}

func newResumesScreen(e env) *resumesScreen {
	return &resumesScreen{env: e, loading: true, form: newForm(e.keys,
		newTextField("fileName", "File name", true),
		newTextField("fileUrl", "File URL", true),
		newChoiceField("isDefault", "Default resume", "no", "yes"),
	)}
}

func (s *resumesScreen) title() string { return "Resumes" }
func (s *resumesScreen) modal() bool   { return s.formOpen || s.confirm.open() }
func (s *resumesScreen) init() tea.Cmd { return s.load() }

func (s *resumesScreen) load() tea.Cmd {
	s.loading = true
	ctx, client := s.ctx, s.api
	return func() tea.Msg {
		r, err := client.Resumes(ctx)
		return resumesMsg{resumes: r, err: err}
	}
}

func (s *resumesScreen) openForm(r *model.Resume) tea.Cmd {
	s.formOpen = true
	s.editing = ""
	s.form.set("fileName", "")
	s.form.set("fileUrl", "")
	s.form.set("isDefault", "no")
	if r != nil {
		s.editing = r.ID
		s.form.set("fileName", r.FileName)
		s.form.set("fileUrl", r.FileURL)
		if r.IsDefault {
			s.form.set("isDefault", "yes")
		}
	}
	return s.form.start()
}

func (s *resumesScreen) submit() tea.Cmd {
	if s.busy {
		return nil
	}
	if missing := s.form.missing(); len(missing) > 0 {
		s.status.set("Required: "+strings.Join(missing, ", "), true)
		return nil
	}
	in := model.ResumeInput{
		FileName:  s.form.value("fileName"),
		FileURL:   s.form.value("fileUrl"),
		FileType:  strings.TrimPrefix(strings.ToLower(path.Ext(s.form.value("fileName"))), "."),
		IsDefault: s.form.value("isDefault") == "yes",
	}
	s.busy = true
	ctx, client, id := s.ctx, s.api, s.editing
	return func() tea.Msg {
		var err error
		if id == "" {
			_, err = client.CreateResume(ctx, in)
		} else {
			_, err = client.UpdateResume(ctx, id, in)
		}
		return actionDoneMsg{op: "save", id: id, err: err}
	}
}

func (s *resumesScreen) update(msg tea.Msg) (screen, tea.Cmd) {
	switch msg := msg.(type) {
	case resumesMsg:
		s.loading = false
		if msg.err != nil {
			if !quiet(msg.err) {
				s.status.set(errorText(msg.err, "Could not load your resumes."), true)
			}
			return s, nil
		}
		s.resumes = msg.resumes
		s.cur.clamp(len(s.resumes))
		return s, nil

	case matchesMsg:
		s.busy = false
		if msg.err != nil {
			s.status.set(errorText(msg.err, "Could not match jobs."), true)
			return s, nil
		}
		s.matchedFor, s.matches, s.showMatch = msg.resume, msg.matches, true
		s.matchCur = cursor{}
		return s, nil

	case actionDoneMsg:
		s.busy = false
		if msg.err != nil {
			s.status.set(errorText(msg.err, "Could not update your resumes."), true)
			return s, nil
		}
		switch msg.op {
		case "save":
			s.formOpen = false
			s.status.set("Resume saved.", false)
		case "default":
			s.status.set("Default resume updated.", false)
		case "delete":
			s.status.set("Resume deleted.", false)
		}
		return s, s.load()

	case tea.KeyMsg:
		if s.formOpen {
			if key.Matches(msg, s.keys.Back) {
				s.formOpen = false
				return s, nil
			}
			submit, cmd := s.form.update(msg)
			if submit {
				return s, s.submit()
			}
			return s, cmd
		}
		if handled, cmd := s.confirm.handle(msg, s.keys); handled {
			return s, cmd
		}
		if s.showMatch {
			return s.updateMatches(msg)
		}
		return s.handleKey(msg)
	}

	if s.formOpen {
		_, cmd := s.form.update(msg)
		return s, cmd
	}
	return s, nil
}

func (s *resumesScreen) updateMatches(k tea.KeyMsg) (screen, tea.Cmd) {
	if s.matchCur.move(k, s.keys, len(s.matches)) {
		return s, nil
	}
	switch {
	case k.String() == "m", k.String() == "q":
		s.showMatch = false
	case key.Matches(k, s.keys.Enter) && len(s.matches) > 0:
		return s, navigate(access.RouteJobDetail, params{JobID: s.matches[s.matchCur.idx].ID})
	}
	return s, nil
}

func (s *resumesScreen) handleKey(k tea.KeyMsg) (screen, tea.Cmd) {
	if s.cur.move(k, s.keys, len(s.resumes)) {
		return s, nil
	}
	if k.String() == "n" {
		return s, s.openForm(nil)
	}
	if len(s.resumes) == 0 || s.busy {
		return s, nil
	}
	r := s.resumes[s.cur.idx]
	ctx, client := s.ctx, s.api
	switch k.String() {
	case "e":
		return s, s.openForm(&r)
	case "d":
		if r.IsDefault {
			return s, nil
		}
		s.busy = true
		return s, func() tea.Msg {
			_, err := client.SetDefaultResume(ctx, r.ID)
			return actionDoneMsg{op: "default", id: r.ID, err: err}
		}
	case "x":
		s.confirm.ask("Delete \""+r.FileName+"\"?", func() tea.Msg {
			return actionDoneMsg{op: "delete", id: r.ID, err: client.DeleteResume(ctx, r.ID)}
		})
	case "m":
		s.busy = true
		return s, func() tea.Msg {
			m, err := client.MatchJobs(ctx, r.ID)
			return matchesMsg{resume: r.FileName, matches: m, err: err}
		}
	}
	return s, nil
}

func (s *resumesScreen) view(width, height int) string {
	if d := s.confirm.view(); d != "" {
		return d
	}
	if s.formOpen {
		heading := "Add a resume"
		if s.editing != "" {
			heading = "Edit resume"
		}
		return section(pageHeading(heading, width), s.form.view(), s.status.view(),
			hints("ctrl+s", "save", "tab", "next field", "esc", "cancel"))
	}
	if s.showMatch {
		return s.matchView(width)
	}

	var list strings.Builder
	switch {
	case s.loading:
		list.WriteString(loading())
	case len(s.resumes) == 0:
		list.WriteString(empty("No resumes yet. Press n to add a link to one."))
	default:
		for i, r := range s.resumes {
			line := r.FileName + MetaStyle.Render(" · "+r.FileURL+" · "+shortDate(r.UploadedAt))
			if r.IsDefault {
				line += SuccessStyle.Render(" (default)")
			}
			list.WriteString(row(i == s.cur.idx, line) + "\n")
		}
	}

	var parsed string
	if !s.loading && len(s.resumes) > 0 {
		if p := s.resumes[s.cur.idx].ParsedData; p != nil && len(p.Skills) > 0 {
			parsed = MetaStyle.Render("Skills: ") + strings.Join(p.Skills, ", ")
			if p.Experience > 0 {
				parsed += MetaStyle.Render("  Experience: ") + strconv.Itoa(p.Experience) + " years"
			}
		}
	}

	return section(
		pageHeading("Your resumes", width),
		list.String(),
		parsed,
		s.status.view(),
		hints("n", "add", "e", "edit", "d", "make default", "x", "delete", "m", "match jobs"),
	)
}

func (s *resumesScreen) matchView(width int) string {
	var list strings.Builder
	if len(s.matches) == 0 {
		list.WriteString(empty("No matching jobs right now."))
	}
	for i, m := range s.matches {
		line := ScoreStyle.Render(strconv.Itoa(int(m.MatchScore))+"% ") + jobLine(m.Job)
		list.WriteString(row(i == s.matchCur.idx, line) + "\n")
	}
	return section(
		pageHeading("Jobs matching "+s.matchedFor, width),
		list.String(),
		hints("enter", "open", "m", "back to resumes"),
	)
}
