package tui

import (
	"strings"
	"unicode/utf8"

	tea "github.com/charmbracelet/bubbletea"
)

// maxInputLen is the maximum number of runes allowed in form inputs.
const maxInputLen = 2000

// editKey applies a keystroke to an inline text input. Backspace removes one
// rune; typed or pasted runes are appended up to maxInputLen. Other keys leave
// the text unchanged.
func editKey(text string, msg tea.KeyMsg) string {
	switch msg.Type {
	case tea.KeyBackspace:
		if text == "" {
			return text
		}
		runes := []rune(text)
		return string(runes[:len(runes)-1])
	case tea.KeySpace:
		return appendClamped(text, []rune{' '})
	case tea.KeyRunes:
		if msg.Alt {
			return text
		}
		return appendClamped(text, msg.Runes)
	}
	return text
}

func appendClamped(text string, add []rune) string {
	room := maxInputLen - utf8.RuneCountInString(text)
	if room <= 0 {
		return text
	}
	if len(add) > room {
		add = add[:room]
	}
	for _, r := range add {
		if r == '\n' || r == '\r' {
			continue
		}
		text += string(r)
	}
	return text
}

// truncateToHeight limits output to maxLines newline-delimited lines.
// Returns the original string if it fits or maxLines is <= 0.
func truncateToHeight(s string, maxLines int) string {
	if maxLines <= 0 {
		return s
	}
	n := 0
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' {
			n++
			if n >= maxLines {
				return s[:i+1]
			}
		}
	}
	return s
}

// masked hides a secret while it is typed.
func masked(s string) string {
	return strings.Repeat("•", utf8.RuneCountInString(s))
}
