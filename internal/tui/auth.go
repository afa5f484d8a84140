package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/naveenspark/storefront/internal/session"
	"github.com/naveenspark/storefront/pkg/client"
	"github.com/naveenspark/storefront/pkg/domain"
)

// -- messages --

type loginDoneMsg struct {
	res   session.AuthResult
	state session.State
}

type registerDoneMsg struct {
	res session.AuthResult
}

type forgotSentMsg struct{ err error }

type resetDoneMsg struct{ err error }

// -- login --

const (
	loginEmail = iota
	loginPassword
)

type loginModel struct {
	session *session.Controller
	form    form
}

func newLoginModel(sc *session.Controller) loginModel {
	return loginModel{
		session: sc,
		form: newForm(
			field{label: "email"},
			field{label: "password", secret: true},
		),
	}
}

func (m loginModel) Update(msg tea.Msg) (loginModel, tea.Cmd) {
	switch msg := msg.(type) {
	case loginDoneMsg:
		if !msg.res.OK {
			m.form.fail(msg.res.Error)
			m.form.set(loginPassword, "")
			return m, nil
		}
		m.form.reset()
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+f" {
			return m, navigate("/forgot-password", "")
		}
		if m.form.updateKeys(msg) {
			return m.submit()
		}
	}
	return m, nil
}

func (m loginModel) submit() (loginModel, tea.Cmd) {
	m.form.submitted = true
	sc := m.session
	creds := client.Credentials{
		Email:    m.form.value(loginEmail),
		Password: m.form.fields[loginPassword].value,
	}
	return m, func() tea.Msg {
		res := sc.Login(context.Background(), creds)
		return loginDoneMsg{res: res, state: sc.State()}
	}
}

func (m loginModel) View() string {
	return " " + sectionHeaderStyle.Render("Login") + "\n\n" + m.form.View()
}

// -- register --

const (
	regName = iota
	regEmail
	regPassword
	regRole
)

var registerRoles = []domain.Role{domain.RoleUser, domain.RoleSeller}

type registerModel struct {
	session *session.Controller
	form    form
	role    int // index into registerRoles
}

func newRegisterModel(sc *session.Controller) registerModel {
	m := registerModel{
		session: sc,
		form: newForm(
			field{label: "name"},
			field{label: "email"},
			field{label: "password", secret: true},
			field{label: "role"},
		),
	}
	m.form.set(regRole, string(registerRoles[0]))
	return m
}

func (m registerModel) Update(msg tea.Msg) (registerModel, tea.Cmd) {
	switch msg := msg.(type) {
	case registerDoneMsg:
		if !msg.res.OK {
			m.form.fail(msg.res.Error)
			return m, nil
		}
		m.form.reset()
		m.role = 0
		m.form.set(regRole, string(registerRoles[0]))
		return m, navigate("/login", "Account created. Please log in.")

	case tea.KeyMsg:
		if m.form.focus == regRole {
			switch msg.String() {
			case "left", "right", " ":
				m.role = (m.role + 1) % len(registerRoles)
				m.form.set(regRole, string(registerRoles[m.role]))
				return m, nil
			case "tab", "shift+tab", "up", "down", "enter", "ctrl+s":
			default:
				return m, nil
			}
		}
		if m.form.updateKeys(msg) {
			return m.submit()
		}
	}
	return m, nil
}

func (m registerModel) submit() (registerModel, tea.Cmd) {
	m.form.submitted = true
	sc := m.session
	reg := client.Registration{
		Name:     m.form.value(regName),
		Email:    m.form.value(regEmail),
		Password: m.form.fields[regPassword].value,
		Role:     registerRoles[m.role],
	}
	return m, func() tea.Msg {
		return registerDoneMsg{res: sc.Register(context.Background(), reg)}
	}
}

func (m registerModel) View() string {
	return " " + sectionHeaderStyle.Render("Create account") + "\n\n" + m.form.View() +
		"\n " + metaStyle.Render("left/right on role to switch USER / SELLER")
}

// -- forgot / reset password --

const (
	forgotEmail = 0

	resetToken    = 0
	resetPassword = 1
)

type forgotModel struct {
	client *client.Client
	email  form
	reset  form
	stage  int // 0 = request link, 1 = enter token
}

func newForgotModel(c *client.Client) forgotModel {
	return forgotModel{
		client: c,
		email:  newForm(field{label: "email"}),
		reset: newForm(
			field{label: "token"},
			field{label: "new pass", secret: true},
		),
	}
}

func (m forgotModel) Update(msg tea.Msg) (forgotModel, tea.Cmd) {
	switch msg := msg.(type) {
	case forgotSentMsg:
		if msg.err != nil {
			m.email.fail(client.MessageOf(msg.err, "Could not send reset link"))
			return m, nil
		}
		m.email.succeed("If the email exists, a reset link has been sent.")
		m.stage = 1
		return m, nil

	case resetDoneMsg:
		if msg.err != nil {
			m.reset.fail(client.MessageOf(msg.err, "Password reset failed"))
			return m, nil
		}
		m.reset.reset()
		m.stage = 0
		return m, navigate("/login", "Password updated. Please log in.")

	case tea.KeyMsg:
		if m.stage == 0 {
			if m.email.updateKeys(msg) {
				return m.sendLink()
			}
			return m, nil
		}
		if m.reset.updateKeys(msg) {
			return m.submitReset()
		}
	}
	return m, nil
}

func (m forgotModel) sendLink() (forgotModel, tea.Cmd) {
	email := m.email.value(forgotEmail)
	if email == "" {
		m.email.fail("email is required")
		return m, nil
	}
	m.email.submitted = true
	c := m.client
	return m, func() tea.Msg {
		return forgotSentMsg{err: c.ForgotPassword(context.Background(), email)}
	}
}

func (m forgotModel) submitReset() (forgotModel, tea.Cmd) {
	token := m.reset.value(resetToken)
	pass := m.reset.fields[resetPassword].value
	if token == "" || len(pass) < 6 {
		m.reset.fail("token and a password of at least 6 characters are required")
		return m, nil
	}
	m.reset.submitted = true
	c := m.client
	return m, func() tea.Msg {
		return resetDoneMsg{err: c.ResetPassword(context.Background(), token, pass)}
	}
}

func (m forgotModel) View() string {
	if m.stage == 0 {
		return " " + sectionHeaderStyle.Render("Forgot password") + "\n\n" + m.email.View()
	}
	return " " + sectionHeaderStyle.Render("Reset password") + "\n\n" +
		" " + okStyle.Render(m.email.status) + "\n\n" + m.reset.View()
}
