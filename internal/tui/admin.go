package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/naveenspark/storefront/pkg/client"
	"github.com/naveenspark/storefront/pkg/domain"
)

type usersLoadedMsg struct {
	users []domain.User
	err   error
}

type sellerDecidedMsg struct {
	name     string
	approved bool
	err      error
}

type userDetailsMsg struct {
	id      int64
	details *domain.UserDetails
	err     error
}

var detailCard = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(lipgloss.Color("#343c4a")).
	Padding(1, 2)

type usersModel struct {
	client      *client.Client
	users       []domain.User
	cursor      int
	loading     bool
	err         string
	status      string
	pendingOnly bool

	rejecting bool // typing a rejection reason
	reason    string

	// detail panel; detailID is zero when closed
	detailID  int64
	details   *domain.UserDetails
	detailErr string
}

func newUsersModel(c *client.Client) usersModel {
	return usersModel{client: c}
}

func (m usersModel) Init() tea.Cmd {
	c := m.client
	return func() tea.Msg {
		users, err := c.ListUsers(context.Background())
		return usersLoadedMsg{users: users, err: err}
	}
}

func (m usersModel) visible() []domain.User {
	if !m.pendingOnly {
		return m.users
	}
	var out []domain.User
	for _, u := range m.users {
		if u.Role == domain.RoleSeller && u.AccountStatus == domain.StatusPending {
			out = append(out, u)
		}
	}
	return out
}

func (m usersModel) selected() (domain.User, bool) {
	vis := m.visible()
	if m.cursor < 0 || m.cursor >= len(vis) {
		return domain.User{}, false
	}
	return vis[m.cursor], true
}

func (m usersModel) Update(msg tea.Msg) (usersModel, tea.Cmd) {
	switch msg := msg.(type) {
	case usersLoadedMsg:
		m.loading = false
		if msg.err != nil {
			m.err = client.MessageOf(msg.err, msg.err.Error())
			return m, nil
		}
		m.err = ""
		m.users = make([]domain.User, len(msg.users))
		for i, u := range msg.users {
			m.users[i] = u.Normalize()
		}
		m.cursor = moveCursor(m.cursor, 0, len(m.visible()))
		return m, nil

	case userDetailsMsg:
		if msg.id != m.detailID {
			return m, nil
		}
		if msg.err != nil {
			m.detailErr = client.MessageOf(msg.err, "Unable to load user details")
			return m, nil
		}
		m.details = msg.details
		return m, nil

	case sellerDecidedMsg:
		if msg.err != nil {
			m.status = client.MessageOf(msg.err, "decision failed")
			return m, nil
		}
		if msg.approved {
			m.status = "approved " + msg.name
		} else {
			m.status = "rejected " + msg.name
		}
		return m, m.Init()

	case tea.KeyMsg:
		if m.rejecting {
			return m.updateReason(msg)
		}
		if m.detailID != 0 {
			switch msg.String() {
			case "esc", "enter", "backspace":
				m.closeDetails()
			}
			return m, nil
		}
		m.status = ""
		switch msg.String() {
		case "j", "down":
			m.cursor = moveCursor(m.cursor, 1, len(m.visible()))
		case "k", "up":
			m.cursor = moveCursor(m.cursor, -1, len(m.visible()))
		case "f":
			m.pendingOnly = !m.pendingOnly
			m.cursor = 0
		case "r":
			return m, m.Init()
		case "enter":
			if u, ok := m.selected(); ok {
				return m.openDetails(u.ID)
			}
		case "a":
			u, ok := m.selected()
			if !ok || u.Role != domain.RoleSeller || u.Approved() {
				return m, nil
			}
			c := m.client
			return m, func() tea.Msg {
				return sellerDecidedMsg{name: u.Name, approved: true, err: c.ApproveSeller(context.Background(), u.ID)}
			}
		case "x":
			u, ok := m.selected()
			if !ok || u.Role != domain.RoleSeller || u.AccountStatus == domain.StatusRejected {
				return m, nil
			}
			m.rejecting = true
			m.reason = ""
		}
	}
	return m, nil
}

// openDetails shows the detail panel for user id and fetches its stats.
func (m usersModel) openDetails(id int64) (usersModel, tea.Cmd) {
	m.detailID = id
	m.details = nil
	m.detailErr = ""
	c := m.client
	return m, func() tea.Msg {
		d, err := c.GetUserDetails(context.Background(), id)
		return userDetailsMsg{id: id, details: d, err: err}
	}
}

func (m *usersModel) closeDetails() {
	m.detailID = 0
	m.details = nil
	m.detailErr = ""
}

func (m usersModel) updateReason(msg tea.KeyMsg) (usersModel, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.rejecting = false
		m.reason = ""
	case "enter":
		reason := strings.TrimSpace(m.reason)
		if reason == "" {
			m.status = "a reason is required"
			return m, nil
		}
		u, ok := m.selected()
		m.rejecting = false
		m.reason = ""
		if !ok {
			return m, nil
		}
		c := m.client
		return m, func() tea.Msg {
			return sellerDecidedMsg{name: u.Name, err: c.RejectSeller(context.Background(), u.ID, reason)}
		}
	default:
		m.reason = editKey(m.reason, msg)
	}
	return m, nil
}

func (m usersModel) helpKeys() string {
	if m.rejecting {
		return helpLine(helpEntry("enter", "reject"), helpEntry("esc", "cancel"))
	}
	if m.detailID != 0 {
		return helpLine(helpEntry("esc", "close"))
	}
	return helpLine(helpEntry("j/k", "nav"), helpEntry("enter", "details"), helpEntry("a", "approve"), helpEntry("x", "reject"),
		helpEntry("f", "pending only"), helpEntry("r", "reload"), helpEntry("q", "quit"))
}

func (m usersModel) View() string {
	if m.loading && len(m.users) == 0 {
		return " " + dimStyle.Render("loading users...")
	}
	if m.err != "" {
		return " " + errStyle.Render("error: "+m.err)
	}
	if m.detailID != 0 {
		return m.detailView()
	}

	var b strings.Builder
	if m.pendingOnly {
		b.WriteString(" " + metaStyle.Render("showing pending sellers") + "\n")
	}
	vis := m.visible()
	if len(vis) == 0 {
		b.WriteString(" " + dimStyle.Render("no users"))
		return b.String()
	}
	for i, u := range vis {
		status := ""
		if u.Role == domain.RoleSeller {
			status = StatusStyle(u.AccountStatus).Render(string(u.AccountStatus))
			if u.ApprovalRequested {
				status += " " + accentStyle.Render("requested")
			}
		}
		line := fmt.Sprintf(" %-5d %-22s %-28s ", u.ID, truncStr(u.Name, 22), truncStr(u.Email, 28))
		if i == m.cursor {
			line = selectedRowBg.Render(selectedStyle.Render(line))
		} else {
			line = normalStyle.Render(line)
		}
		b.WriteString(line + RoleBadge(u.Role) + " " + status + "\n")
	}

	if m.rejecting {
		b.WriteString("\n " + inputPromptStyle.Render("reason> ") + m.reason + "█")
	} else if m.status != "" {
		b.WriteString("\n " + okStyle.Render(m.status))
	}
	return b.String()
}

func (m usersModel) detailView() string {
	if m.detailErr != "" {
		return " " + errStyle.Render(m.detailErr)
	}
	if m.details == nil {
		return " " + dimStyle.Render("loading details...")
	}

	d := m.details
	u := d.User
	var b strings.Builder
	fmt.Fprintf(&b, "%s  %s\n", selectedStyle.Render(u.Name), RoleBadge(u.Role))
	fmt.Fprintf(&b, "%s\n\n", metaStyle.Render(u.Email))

	row := func(label, value string) {
		fmt.Fprintf(&b, "%s %s\n", sectionHeaderStyle.Render(fmt.Sprintf("%-16s", label)), value)
	}
	switch u.Role {
	case domain.RoleSeller:
		row("account status", StatusStyle(u.AccountStatus).Render(string(u.AccountStatus)))
		row("products listed", fmt.Sprintf("%d", d.ProductCount))
		row("rejections", errStyle.Render(fmt.Sprintf("%d", d.RejectionCount)))
		row("last decision", string(u.AccountStatus))
	case domain.RoleUser:
		row("orders placed", fmt.Sprintf("%d", d.OrderCount))
		row("lifetime spend", priceStyle.Render(formatPrice(d.TotalSpend)))
	}
	if u.LastRejectionReason != "" {
		fmt.Fprintf(&b, "\n%s\n%s\n", errStyle.Render("last rejection reason"), oneLine(u.LastRejectionReason))
	}
	return detailCard.Render(strings.TrimRight(b.String(), "\n"))
}
