package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/naveenspark/storefront/internal/session"
	"github.com/naveenspark/storefront/pkg/client"
	"github.com/naveenspark/storefront/pkg/domain"
)

type profileSavedMsg struct {
	err error
}

const (
	profName = iota
	profEmail
	profPassword
)

type profileModel struct {
	client  *client.Client
	session *session.Controller
	user    *domain.User
	editing bool
	form    form
	status  string
}

func newProfileModel(c *client.Client, sc *session.Controller) profileModel {
	return profileModel{
		client:  c,
		session: sc,
		form: newForm(
			field{label: "name"},
			field{label: "email"},
			field{label: "password", secret: true},
		),
	}
}

func (m profileModel) Init() tea.Cmd {
	return refreshSession(m.session)
}

func (m profileModel) Update(msg tea.Msg) (profileModel, tea.Cmd) {
	switch msg := msg.(type) {
	case sessionMsg:
		m.user = msg.state.User
		return m, nil

	case profileSavedMsg:
		if msg.err != nil {
			m.form.fail(client.MessageOf(msg.err, "Profile update failed"))
			return m, nil
		}
		m.editing = false
		m.form.reset()
		m.status = "profile saved"
		return m, syncSession(m.session)

	case tea.KeyMsg:
		if m.editing {
			if msg.String() == "esc" {
				m.editing = false
				m.form.reset()
				return m, nil
			}
			if m.form.updateKeys(msg) {
				return m.submit()
			}
			return m, nil
		}
		m.status = ""
		switch msg.String() {
		case "e":
			if m.user != nil {
				m.editing = true
				m.form.set(profName, m.user.Name)
				m.form.set(profEmail, m.user.Email)
				m.form.set(profPassword, "")
				m.form.focus = profName
			}
		case "r":
			return m, refreshSession(m.session)
		}
	}
	return m, nil
}

func (m profileModel) submit() (profileModel, tea.Cmd) {
	upd := client.ProfileUpdate{
		Name:     m.form.value(profName),
		Email:    m.form.value(profEmail),
		Password: m.form.fields[profPassword].value,
	}
	if upd.Name == "" || upd.Email == "" {
		m.form.fail("name and email are required")
		return m, nil
	}
	if upd.Password != "" && len(upd.Password) < 6 {
		m.form.fail("password must be at least 6 characters")
		return m, nil
	}
	m.form.submitted = true
	c, sc, id := m.client, m.session, m.user.ID
	return m, func() tea.Msg {
		u, err := c.UpdateProfile(context.Background(), id, upd)
		if err != nil {
			return profileSavedMsg{err: err}
		}
		sc.UpdateUser(domain.PatchFrom(*u))
		return profileSavedMsg{}
	}
}

func (m profileModel) helpKeys() string {
	if m.editing {
		return helpLine(helpEntry("tab", "next"), helpEntry("ctrl+s", "save"), helpEntry("esc", "cancel"))
	}
	return helpLine(helpEntry("e", "edit"), helpEntry("r", "refresh"), helpEntry("?", "help"), helpEntry("q", "quit"))
}

func (m profileModel) View() string {
	if m.user == nil {
		return " " + dimStyle.Render("not signed in")
	}
	if m.editing {
		return " " + sectionHeaderStyle.Render("Edit profile") + "\n\n" + m.form.View() +
			"\n " + metaStyle.Render("leave password empty to keep it")
	}

	u := m.user
	var b strings.Builder
	fmt.Fprintf(&b, " %s %s\n", selectedStyle.Render(u.Name), RoleBadge(u.Role))
	fmt.Fprintf(&b, " %s\n\n", dimStyle.Render(u.Email))
	if u.Role == domain.RoleSeller {
		fmt.Fprintf(&b, " %s %s\n", sectionHeaderStyle.Render("account"), StatusStyle(u.AccountStatus).Render(string(u.AccountStatus)))
	}
	if m.status != "" {
		b.WriteString("\n " + okStyle.Render(m.status))
	}
	return b.String()
}
