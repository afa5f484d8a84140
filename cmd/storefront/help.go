package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/naveenspark/storefront/pkg/domain"
)

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#fbbf24")).
			Bold(true)
	cmdStyle  = lipgloss.NewStyle().Bold(true)
	descStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
)

func printHelp(w io.Writer) {
	commands := []struct{ cmd, desc string }{
		{"storefront", "Open the shop (interactive TUI)"},
		{"storefront login --email E", "Sign in; password from STOREFRONT_PASSWORD or stdin"},
		{"storefront logout", "Clear your session"},
		{"storefront whoami", "Show the signed-in account"},
		{"storefront register", "Create an account (--name --email --role USER|SELLER)"},
		{"storefront forgot-password", "Email a reset link (--email)"},
		{"storefront reset-password", "Set a new password (--token)"},
		{"storefront version", "Show version"},
		{"storefront help", "You are here"},
	}

	fmt.Fprintf(w, "\n  %s\n\n  Commands:\n", titleStyle.Render("S T O R E F R O N T")) //nolint:errcheck
	for _, c := range commands {
		fmt.Fprintf(w, "    %s  %s\n", cmdStyle.Render(fmt.Sprintf("%-28s", c.cmd)), descStyle.Render(c.desc)) //nolint:errcheck
	}
	fmt.Fprintf(w, "\n  %s\n\n", descStyle.Render("Settings: STOREFRONT_API_URL, STOREFRONT_HOME, STOREFRONT_STORE, STOREFRONT_LOG_LEVEL")) //nolint:errcheck
}

func printWelcome(w io.Writer, u domain.User) {
	fmt.Fprintf(w, "Logged in as %s (%s)\n", titleStyle.Render(u.Name), u.Role) //nolint:errcheck
	if u.Role == domain.RoleSeller && !u.Approved() {
		fmt.Fprintf(w, "%s\n", descStyle.Render("Your seller account is "+string(u.AccountStatus)+". Open the TUI to see onboarding.")) //nolint:errcheck
	}
}

func printUser(w io.Writer, u domain.User) {
	var b strings.Builder
	fmt.Fprintf(&b, "%s <%s>\n", cmdStyle.Render(u.Name), u.Email)
	fmt.Fprintf(&b, "  id      %d\n", u.ID)
	fmt.Fprintf(&b, "  role    %s\n", u.Role)
	if u.Role == domain.RoleSeller {
		fmt.Fprintf(&b, "  status  %s\n", u.AccountStatus)
		if u.LastRejectionReason != "" {
			fmt.Fprintf(&b, "  reason  %s\n", u.LastRejectionReason)
		}
	}
	io.WriteString(w, b.String()) //nolint:errcheck
}
