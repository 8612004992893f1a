package tui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jobportal/jobportal-tui/internal/access"
	"github.com/jobportal/jobportal-tui/internal/auth"
	"github.com/jobportal/jobportal-tui/internal/model"
)

type signedInMsg struct {
	identity *model.Identity
	err      error
}

// loginScreen

type loginScreen struct {
	env
	form       *form
	status     status
	busy       bool
	unverified bool
}

func newLoginScreen(e env, p params) *loginScreen {
	s := &loginScreen{env: e, form: newForm(e.keys,
		newTextField("email", "Email", true),
		newSecretField("password", "Password", true),
	)}
	email := p.Email
	if email == "" {
		email = e.lastEmail
	}
	s.form.set("email", email)
	return s
}

func (s *loginScreen) title() string { return "Sign in" }
func (s *loginScreen) modal() bool   { return false }
func (s *loginScreen) init() tea.Cmd { return s.form.start() }

func (s *loginScreen) update(msg tea.Msg) (screen, tea.Cmd) {
	switch msg := msg.(type) {
	case signedInMsg:
		s.busy = false
		if msg.err != nil {
			s.unverified = auth.ReasonOf(msg.err) == auth.ReasonEmailNotVerified
			s.status.set(errorText(msg.err, "Login failed."), true)
			return s, nil
		}
		return s, redirect(access.LandingFor(msg.identity.Role), params{}, "Signed in as "+msg.identity.DisplayName()+".")

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+r":
			return s, navigate(access.RouteRegister, params{})
		case "ctrl+f":
			return s, navigate(access.RouteForgotPassword, params{Email: s.form.value("email")})
		case "ctrl+v":
			if s.unverified {
				return s, navigate(access.RouteVerifyEmail, params{Email: s.form.value("email")})
			}
		}
	}

	submit, cmd := s.form.update(msg)
	if !submit {
		return s, cmd
	}
	return s, s.submit()
}

func (s *loginScreen) submit() tea.Cmd {
	if s.busy {
		return nil
	}
	if missing := s.form.missing(); len(missing) > 0 {
		s.status.set("Please fill in: "+strings.Join(missing, ", "), true)
		return nil
	}
	s.busy = true
	s.status = status{}
	ctx, gw, remember := s.ctx, s.auth, s.remember
	creds := model.Credentials{Email: s.form.value("email"), Password: s.form.raw("password")}
	return func() tea.Msg {
		id, err := gw.Login(ctx, creds)
		if err == nil && remember != nil {
			remember(creds.Email)
		}
		return signedInMsg{identity: id, err: err}
	}
}

func (s *loginScreen) view(width, height int) string {
	extra := []string{"enter", "sign in", "ctrl+r", "create account", "ctrl+f", "forgot password"}
	if s.unverified {
		extra = append(extra, "ctrl+v", "verify email")
	}
	busy := ""
	if s.busy {
		busy = DimStyle.Render("Signing in…")
	}
	return section(
		pageHeading("Sign in to your account", width),
		s.form.view(),
		busy,
		s.status.view(),
		hints(extra...),
	)
}

// registerScreen

type registerScreen struct {
	env
	form   *form
	status status
	busy   bool
}

func newRegisterScreen(e env) *registerScreen {
	role := newChoiceField("role", "Account type", string(model.RoleApplicant), string(model.RoleEmployer))
	role.display = func(v string) string { return model.Role(v).Label() }
	return &registerScreen{env: e, form: newForm(e.keys,
		newTextField("name", "Full name", true),
		newTextField("email", "Email", true),
		newSecretField("password", "Password", true),
		newSecretField("confirm", "Confirm password", true),
		role,
	)}
}

func (s *registerScreen) title() string { return "Create account" }
func (s *registerScreen) modal() bool   { return false }
func (s *registerScreen) init() tea.Cmd { return s.form.start() }

func (s *registerScreen) update(msg tea.Msg) (screen, tea.Cmd) {
	if msg, ok := msg.(signedInMsg); ok {
		s.busy = false
		if msg.err != nil {
			s.status.set(errorText(msg.err, "Registration failed."), true)
			return s, nil
		}
		return s, redirect(access.LandingFor(msg.identity.Role), params{}, "Welcome, "+msg.identity.DisplayName()+"! Your account is ready.")
	}

	submit, cmd := s.form.update(msg)
	if !submit {
		return s, cmd
	}
	return s, s.submit()
}

func (s *registerScreen) submit() tea.Cmd {
	if s.busy {
		return nil
	}
	if missing := s.form.missing(); len(missing) > 0 {
		s.status.set("Please fill in: "+strings.Join(missing, ", "), true)
		return nil
	}
	if s.form.raw("password") != s.form.raw("confirm") {
		s.status.set("Passwords do not match.", true)
		return nil
	}
	s.busy = true
	s.status = status{}
	ctx, gw := s.ctx, s.auth
	reg := model.Registration{
		Name:     s.form.value("name"),
		Email:    s.form.value("email"),
		Password: s.form.raw("password"),
		Role:     model.Role(s.form.value("role")),
	}
	return func() tea.Msg {
		id, err := gw.Register(ctx, reg)
		return signedInMsg{identity: id, err: err}
	}
}

func (s *registerScreen) view(width, height int) string {
	return section(
		pageHeading("Create your account", width),
		s.form.view(),
		DimStyle.Render("Passwords need 8-15 characters with upper and lower case letters, a digit and a symbol."),
		s.status.view(),
		hints("tab", "next field", "enter", "create account"),
	)
}

// forgotPasswordScreen

type forgotPasswordScreen struct {
	env
	form   *form
	status status
	busy   bool
}

func newForgotPasswordScreen(e env, p params) *forgotPasswordScreen {
	s := &forgotPasswordScreen{env: e, form: newForm(e.keys, newTextField("email", "Email", true))}
	email := p.Email
	if email == "" {
		email = e.lastEmail
	}
	s.form.set("email", email)
	return s
}

func (s *forgotPasswordScreen) title() string { return "Forgot password" }
func (s *forgotPasswordScreen) modal() bool   { return false }
func (s *forgotPasswordScreen) init() tea.Cmd { return s.form.start() }

func (s *forgotPasswordScreen) update(msg tea.Msg) (screen, tea.Cmd) {
	switch msg := msg.(type) {
	case actionDoneMsg:
		s.busy = false
		if msg.err != nil {
			s.status.set(errorText(msg.err, "Could not send the reset link."), true)
			return s, nil
		}
		s.status.set("Check your inbox for a password reset link.", false)
		return s, nil
	case tea.KeyMsg:
		if msg.String() == "ctrl+r" {
			return s, navigate(access.RouteResetPassword, params{})
		}
	}

	submit, cmd := s.form.update(msg)
	if !submit || s.busy {
		return s, cmd
	}
	if len(s.form.missing()) > 0 {
		s.status.set("Please enter your email.", true)
		return s, nil
	}
	s.busy = true
	ctx, gw, email := s.ctx, s.auth, s.form.value("email")
	return s, func() tea.Msg {
		return actionDoneMsg{op: "request password reset", err: gw.RequestPasswordReset(ctx, email)}
	}
}

func (s *forgotPasswordScreen) view(width, height int) string {
	return section(
		pageHeading("Reset your password", width),
		DimStyle.Render("Enter the email you registered with and we will send you a reset link."),
		s.form.view(),
		s.status.view(),
		hints("enter", "send link", "ctrl+r", "I have a reset token"),
	)
}

// resetPasswordScreen

type resetPasswordScreen struct {
	env
	form   *form
	status status
	busy   bool
}

func newResetPasswordScreen(e env, p params) *resetPasswordScreen {
	s := &resetPasswordScreen{env: e, form: newForm(e.keys,
		newTextField("token", "Reset token", true),
		newSecretField("password", "New password", true),
		newSecretField("confirm", "Confirm password", true),
	)}
	s.form.set("token", p.Token)
	return s
}

func (s *resetPasswordScreen) title() string { return "Reset password" }
func (s *resetPasswordScreen) modal() bool   { return false }
func (s *resetPasswordScreen) init() tea.Cmd { return s.form.start() }

func (s *resetPasswordScreen) update(msg tea.Msg) (screen, tea.Cmd) {
	if msg, ok := msg.(actionDoneMsg); ok {
		s.busy = false
		if msg.err != nil {
			s.status.set(errorText(msg.err, "Could not reset the password."), true)
			return s, nil
		}
		return s, redirect(access.RouteLogin, params{}, "Password updated. Please sign in.")
	}

	submit, cmd := s.form.update(msg)
	if !submit || s.busy {
		return s, cmd
	}
	if missing := s.form.missing(); len(missing) > 0 {
		s.status.set("Please fill in: "+strings.Join(missing, ", "), true)
		return s, nil
	}
	s.busy = true
	ctx, gw := s.ctx, s.auth
	token, pw, confirm := s.form.value("token"), s.form.raw("password"), s.form.raw("confirm")
	return s, func() tea.Msg {
		return actionDoneMsg{op: "reset password", err: gw.ResetPassword(ctx, token, pw, confirm)}
	}
}

func (s *resetPasswordScreen) view(width, height int) string {
	return section(
		pageHeading("Choose a new password", width),
		s.form.view(),
		s.status.view(),
		hints("enter", "reset password"),
	)
}

// verifyEmailScreen

type verifyEmailScreen struct {
	env
	form   *form
	status status
	busy   bool
}

func newVerifyEmailScreen(e env, p params) *verifyEmailScreen {
	s := &verifyEmailScreen{env: e, form: newForm(e.keys,
		newTextField("token", "Verification token", false),
		newTextField("email", "Email (to resend)", false),
	)}
	s.form.set("token", p.Token)
	email := p.Email
	if email == "" {
		email = e.lastEmail
	}
	s.form.set("email", email)
	return s
}

func (s *verifyEmailScreen) title() string { return "Verify email" }
func (s *verifyEmailScreen) modal() bool   { return false }

func (s *verifyEmailScreen) init() tea.Cmd {
	cmd := s.form.start()
	if s.form.value("token") != "" {
		return tea.Batch(cmd, s.verify())
	}
	return cmd
}

func (s *verifyEmailScreen) verify() tea.Cmd {
	s.busy = true
	s.status.set("Verifying…", false)
	ctx, gw, token := s.ctx, s.auth, s.form.value("token")
	return func() tea.Msg {
		return actionDoneMsg{op: "verify", err: gw.VerifyEmail(ctx, token)}
	}
}

func (s *verifyEmailScreen) update(msg tea.Msg) (screen, tea.Cmd) {
	switch msg := msg.(type) {
	case actionDoneMsg:
		s.busy = false
		switch {
		case msg.err != nil:
			s.status.set(errorText(msg.err, "Verification failed."), true)
		case msg.op == "verify":
			s.status.set("Email verified. You can sign in now (ctrl+l).", false)
		default:
			s.status.set("A new verification email is on its way.", false)
		}
		return s, nil
	case tea.KeyMsg:
		if msg.String() == "ctrl+r" && !s.busy {
			s.busy = true
			ctx, gw, email := s.ctx, s.auth, s.form.value("email")
			return s, func() tea.Msg {
				return actionDoneMsg{op: "resend", err: gw.ResendVerification(ctx, email)}
			}
		}
	}

	submit, cmd := s.form.update(msg)
	if !submit || s.busy {
		return s, cmd
	}
	return s, s.verify()
}

func (s *verifyEmailScreen) view(width, height int) string {
	return section(
		pageHeading("Verify your email", width),
		DimStyle.Render("Paste the token from your verification link, or enter your email to get a new one."),
		s.form.view(),
		s.status.view(),
		hints("enter", "verify", "ctrl+r", "resend email"),
	)
}
