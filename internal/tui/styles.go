package tui

import (
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/naveenspark/storefront/pkg/domain"
)

// Shimmer animation for the header logo.
type shimmerTickMsg time.Time

func shimmerTickCmd() tea.Cmd {
	return tea.Tick(80*time.Millisecond, func(t time.Time) tea.Msg {
		return shimmerTickMsg(t)
	})
}

// renderShimmerLogo renders "STOREFRONT" as a wave of amber light moving
// across spaced letters.
// Deep: (90, 52, 10) #5a340a  Bright: (251, 191, 36) #fbbf24
func renderShimmerLogo(frame int) string {
	const text = "STOREFRONT"
	n := len(text)

	var out string
	t := float64(frame)

	for i := 0; i < n; i++ {
		x := float64(i) / float64(n-1)

		phase := t*0.1 - x*3.0
		phase += math.Sin(t*0.023) * 2.0

		b := math.Sin(phase)*0.5 + 0.5
		b = math.Pow(b, 1.3)

		tide := math.Sin(t*0.035) * 0.12
		b = b*0.75 + tide + 0.18

		if b > 1.0 {
			b = 1.0
		} else if b < 0.05 {
			b = 0.05
		}

		r := clampByte(90 + b*(251-90))
		g := clampByte(52 + b*(191-52))
		bl := clampByte(10 + b*(36-10))

		color := fmt.Sprintf("#%02X%02X%02X", r, g, bl)

		s := lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color(color))
		out += s.Render(string(text[i]))

		if i < n-1 {
			out += " "
		}
	}

	return out
}

func clampByte(v float64) int {
	if v > 255 {
		return 255
	}
	if v < 0 {
		return 0
	}
	return int(v)
}

var (
	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#8890a0"))

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#e4e4ec")).
			Bold(true)

	normalStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#c0c4d0"))

	metaStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#505868"))

	// Help bar
	helpKeyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#8890a0"))

	helpLabelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#505868"))

	accentStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#f59e0b"))

	priceStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#4ade80"))

	okStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#4ade80"))

	errStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#e06060"))

	sectionHeaderStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#606878"))

	inputPromptStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#f59e0b")).
				Bold(true)

	inputPlaceholderStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#343c4a"))

	selectedRowBg = lipgloss.NewStyle().Background(lipgloss.Color("#1e1e2a"))

	statusColors = map[domain.AccountStatus]lipgloss.Color{
		domain.StatusApproved: lipgloss.Color("#4ade80"),
		domain.StatusPending:  lipgloss.Color("#facc15"),
		domain.StatusRejected: lipgloss.Color("#e06060"),
	}

	roleColors = map[domain.Role]lipgloss.Color{
		domain.RoleUser:   lipgloss.Color("#60a0e0"),
		domain.RoleSeller: lipgloss.Color("#f0944a"),
		domain.RoleAdmin:  lipgloss.Color("#c084e0"),
	}

	orderColors = map[string]lipgloss.Color{
		domain.OrderPlaced:    lipgloss.Color("#60a0e0"),
		domain.OrderShipped:   lipgloss.Color("#f0944a"),
		domain.OrderDelivered: lipgloss.Color("#4ade80"),
		domain.OrderCancelled: lipgloss.Color("#606878"),
	}
)

// StatusStyle returns a bold style colored for an account status.
func StatusStyle(s domain.AccountStatus) lipgloss.Style {
	if c, ok := statusColors[s]; ok {
		return lipgloss.NewStyle().Foreground(c).Bold(true)
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color("#8890a0")).Bold(true)
}

// RoleBadge returns a short colored badge for a role, e.g. "[SELLER]".
func RoleBadge(r domain.Role) string {
	if r == "" {
		return ""
	}
	c, ok := roleColors[r]
	if !ok {
		c = lipgloss.Color("#8890a0")
	}
	return lipgloss.NewStyle().Foreground(c).Bold(true).Render("[" + string(r) + "]")
}

// orderStyle returns the style for an order status.
func orderStyle(status string) lipgloss.Style {
	if c, ok := orderColors[status]; ok {
		return lipgloss.NewStyle().Foreground(c)
	}
	return dimStyle
}

// helpEntry renders a single "key label" pair for help bars.
func helpEntry(key, label string) string {
	return helpKeyStyle.Render(key) + " " + helpLabelStyle.Render(label)
}

// helpLine joins help entries into a help bar.
func helpLine(entries ...string) string {
	return " " + strings.Join(entries, "  ")
}

// helpItem is a selectable link in the help overlay.
type helpItem struct {
	label string
	desc  string
	url   string
}

func helpItems(webURL string) []helpItem {
	return []helpItem{
		{"Storefront", webURL, webURL},
		{"Forgot password", webURL + "/forgot-password", webURL + "/forgot-password"},
		{"Register", webURL + "/register", webURL + "/register"},
	}
}

// helpView renders the help overlay with a cursor over the links.
func helpView(items []helpItem, cursor int) string {
	title := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#fbbf24")).
		Bold(true).
		Render("S T O R E F R O N T")

	cmdStyle := lipgloss.NewStyle().Bold(true)
	descStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	sectionStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Bold(true)
	selected := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#fbbf24"))
	linkDescStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Italic(true)

	commands := []struct{ cmd, desc string }{
		{"storefront", "Open the shop (interactive TUI)"},
		{"storefront login", "Sign in with email and password"},
		{"storefront logout", "Clear your session"},
		{"storefront whoami", "Show the signed-in account"},
		{"storefront version", "Show version"},
	}

	var b strings.Builder
	fmt.Fprintf(&b, "\n  %s\n\n", title)

	fmt.Fprintf(&b, "  %s\n", sectionStyle.Render("Commands"))
	for _, c := range commands {
		fmt.Fprintf(&b, "    %s  %s\n", cmdStyle.Render(fmt.Sprintf("%-20s", c.cmd)), descStyle.Render(c.desc))
	}

	fmt.Fprintf(&b, "\n  %s\n", sectionStyle.Render("Links (enter to open)"))
	for i, item := range items {
		label := cmdStyle.Render(fmt.Sprintf("%-20s", item.label))
		prefix := "    "
		if i == cursor {
			label = selected.Render(fmt.Sprintf("%-20s", item.label))
			prefix = "  > "
		}
		fmt.Fprintf(&b, "%s%s  %s\n", prefix, label, linkDescStyle.Render(item.desc))
	}
	return b.String()
}
