package tui

import (
	"strings"
	"unicode/utf8"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jobportal/jobportal-tui/internal/auth"
	"github.com/jobportal/jobportal-tui/internal/model"
)

type profileMsg struct {
	profile *model.Profile
	err     error
}

// settingsScreen edits the profile, and the password on a second pane
type settingsScreen struct {
	env
	profile  *model.Profile
	profileF *form
	password *form
	onPass   bool
	loading  bool
	busy     bool
	status   status
}

func newSettingsScreen(e env) *settingsScreen {
	return &settingsScreen{env: e, loading: true,
		profileF: newForm(e.keys,
			newTextField("name", "Full name", true),
			newTextField("phone", "Phone", false),
			newTextField("location", "Location", false),
			newTextField("skills", "Skills (comma separated)", false),
			newAreaField("bio", "Bio", false, 1000),
		),
		password: newForm(e.keys,
			newSecretField("current", "Current password", true),
			newSecretField("new", "New password", true),
			newSecretField("confirm", "Confirm new password", true),
		),
	}
}

func (s *settingsScreen) title() string { return "Settings" }
func (s *settingsScreen) modal() bool  { return false }

func (s *settingsScreen) init() tea.Cmd {
	ctx, client := s.ctx, s.api
	return tea.Batch(s.profileF.start(), func() tea.Msg {
		p, err := client.Profile(ctx)
		return profileMsg{profile: p, err: err}
	})
}

func (s *settingsScreen) active() *form {
	if s.onPass {
		return s.password
	}
	return s.profileF
}

func (s *settingsScreen) update(msg tea.Msg) (screen, tea.Cmd) {
	switch msg := msg.(type) {
	case profileMsg:
		s.loading = false
		if msg.err != nil {
			if !quiet(msg.err) {
				s.status.set(errorText(msg.err, "Could not load your profile."), true)
			}
			return s, nil
		}
		s.fill(msg.profile)
		return s, nil

	case actionDoneMsg:
		s.busy = false
		if msg.err != nil {
			s.status.set(errorText(msg.err, "Could not save your changes."), true)
			return s, nil
		}
		if msg.op == "password" {
			for _, k := range []string{"current", "new", "confirm"} {
				s.password.set(k, "")
			}
			s.status.set("Password changed.", false)
			return s, nil
		}
		return s, nil

	case profileSavedMsg:
		s.busy = false
		s.fill(msg.profile)
		s.status.set("Profile saved.", false)
		return s, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+p" {
			s.onPass = !s.onPass
			s.status.set("", false)
			return s, s.active().start()
		}
		submit, cmd := s.active().update(msg)
		if submit {
			if s.onPass {
				return s, s.changePassword()
			}
			return s, s.saveProfile()
		}
		return s, cmd
	}

	_, cmd := s.active().update(msg)
	return s, cmd
}

type profileSavedMsg struct {
	profile *model.Profile
}

func (s *settingsScreen) fill(p *model.Profile) {
	if p == nil {
		return
	}
	s.profile = p
	s.profileF.set("name", p.Name)
	s.profileF.set("phone", p.Phone)
	s.profileF.set("location", p.Location)
	s.profileF.set("skills", strings.Join(p.Skills, ", "))
	s.profileF.set("bio", p.Bio)
}

func (s *settingsScreen) saveProfile() tea.Cmd {
	if s.busy || s.loading {
		return nil
	}
	if missing := s.profileF.missing(); len(missing) > 0 {
		s.status.set("Required: "+strings.Join(missing, ", "), true)
		return nil
	}
	in := model.ProfileUpdate{
		Name:     s.profileF.value("name"),
		Phone:    s.profileF.value("phone"),
		Location: s.profileF.value("location"),
		Bio:      s.profileF.value("bio"),
		Skills:   splitList(s.profileF.value("skills")),
	}
	s.busy = true
	ctx, client := s.ctx, s.api
	return func() tea.Msg {
		p, err := client.UpdateProfile(ctx, in)
		if err != nil {
			return actionDoneMsg{op: "profile", err: err}
		}
		return profileSavedMsg{profile: p}
	}
}

func (s *settingsScreen) changePassword() tea.Cmd {
	if s.busy {
		return nil
	}
	if missing := s.password.missing(); len(missing) > 0 {
		s.status.set("Required: "+strings.Join(missing, ", "), true)
		return nil
	}
	next := s.password.raw("new")
	switch {
	case utf8.RuneCountInString(next) < auth.MinPasswordLength:
		s.status.set("Password must be at least "+itoa(auth.MinPasswordLength)+" characters.", true)
		return nil
	case next != s.password.raw("confirm"):
		s.status.set("Passwords do not match.", true)
		return nil
	}
	in := model.PasswordChange{CurrentPassword: s.password.raw("current"), NewPassword: next}
	s.busy = true
	ctx, client := s.ctx, s.api
	return func() tea.Msg {
		return actionDoneMsg{op: "password", err: client.ChangePassword(ctx, in)}
	}
}

func (s *settingsScreen) view(width, height int) string {
	if s.loading {
		return section(pageHeading("Settings", width), loading())
	}
	heading, body := "Profile", s.profileF.view()
	if s.onPass {
		heading, body = "Change password", s.password.view()
	}
	info := ""
	if s.profile != nil {
		info = MetaStyle.Render(s.profile.Email + " · " + s.profile.Role.Label())
		if !s.profile.IsEmailVerified {
			info += WarningStyle.Render("  email not verified")
		}
	}
	return section(
		pageHeading(heading, width),
		info,
		body,
		s.status.view(),
		hints("ctrl+s", "save", "tab", "next field", "ctrl+p", "switch profile/password"),
	)
}
