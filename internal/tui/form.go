package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

// field is one labelled input of a form.
type field struct {
	label  string
	value  string
	secret bool
}

// form is a vertical list of text fields with a focused one. It is embedded
// by the login, register, profile and product screens.
type form struct {
	fields    []field
	focus     int
	submitted bool
	status    string
	failed    bool
}

func newForm(fields ...field) form {
	return form{fields: fields}
}

func (f form) value(i int) string {
	return strings.TrimSpace(f.fields[i].value)
}

func (f *form) set(i int, v string) {
	f.fields[i].value = v
}

func (f *form) reset() {
	for i := range f.fields {
		f.fields[i].value = ""
	}
	f.focus = 0
	f.submitted = false
	f.status = ""
	f.failed = false
}

// fail stops the pending submit and shows msg as an error.
func (f *form) fail(msg string) {
	f.submitted = false
	f.status = msg
	f.failed = true
}

// succeed stops the pending submit and shows msg as a confirmation.
func (f *form) succeed(msg string) {
	f.submitted = false
	f.status = msg
	f.failed = false
}

// updateKeys moves focus and edits the focused field. It returns true when
// the user asked to submit (ctrl+s, or enter on the last field).
func (f *form) updateKeys(msg tea.KeyMsg) bool {
	if f.submitted {
		return false
	}
	f.status = ""
	f.failed = false

	n := len(f.fields)
	switch msg.String() {
	case "ctrl+s":
		return true
	case "tab", "down":
		f.focus = (f.focus + 1) % n
	case "shift+tab", "up":
		f.focus = (f.focus - 1 + n) % n
	case "enter":
		if f.focus == n-1 {
			return true
		}
		f.focus++
	default:
		fl := &f.fields[f.focus]
		fl.value = editKey(fl.value, msg)
	}
	return false
}

func (f form) View() string {
	var b strings.Builder
	for i, fl := range f.fields {
		cursor := " "
		style := metaStyle
		value := fl.value
		if fl.secret {
			value = masked(value)
		}
		if i == f.focus {
			cursor = ">"
			style = selectedStyle
			value += "█"
		}
		fmt.Fprintf(&b, " %s %s: %s\n", cursor, style.Render(fmt.Sprintf("%-10s", fl.label)), value)
	}

	b.WriteString("\n")
	switch {
	case f.submitted:
		b.WriteString(" " + dimStyle.Render("working..."))
	case f.status != "" && f.failed:
		b.WriteString(" " + errStyle.Render(f.status))
	case f.status != "":
		b.WriteString(" " + okStyle.Render(f.status))
	}
	return b.String()
}
