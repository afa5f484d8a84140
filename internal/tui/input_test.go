package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestEditKeyAppend(t *testing.T) {
	tests := []struct {
		name  string
		start string
		msg   tea.KeyMsg
		want  string
	}{
		{"append to empty", "", runes("a"), "a"},
		{"append digit", "abc", runes("1"), "abc1"},
		{"space", "hello", tea.KeyMsg{Type: tea.KeySpace}, "hello "},
		{"paste", "hi ", runes("there"), "hi there"},
		{"paste drops newlines", "", runes("a\nb"), "ab"},
		{"enter ignored", "hello", tea.KeyMsg{Type: tea.KeyEnter}, "hello"},
		{"ctrl+c ignored", "hello", tea.KeyMsg{Type: tea.KeyCtrlC}, "hello"},
		{"alt combo ignored", "hello", tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("x"), Alt: true}, "hello"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := editKey(tc.start, tc.msg); got != tc.want {
				t.Errorf("editKey(%q) = %q, want %q", tc.start, got, tc.want)
			}
		})
	}
}

func TestEditKeyBackspace(t *testing.T) {
	bs := tea.KeyMsg{Type: tea.KeyBackspace}
	tests := []struct{ start, want string }{
		{"a", ""},
		{"hello", "hell"},
		{"", ""},
		{"hellé", "hell"},
		{"hello\U0001f600", "hello"},
	}
	for _, tc := range tests {
		if got := editKey(tc.start, bs); got != tc.want {
			t.Errorf("backspace on %q = %q, want %q", tc.start, got, tc.want)
		}
	}
}

func TestEditKeyMaxInputLen(t *testing.T) {
	atLimit := strings.Repeat("a", maxInputLen)
	nearLimit := strings.Repeat("a", maxInputLen-3)

	if got := editKey(atLimit, runes("b")); got != atLimit {
		t.Error("at limit should reject new rune")
	}
	if got := editKey(nearLimit, runes("abcdef")); got != nearLimit+"abc" {
		t.Errorf("paste near limit kept %d runes", len([]rune(got)))
	}
}

func TestTruncateToHeight(t *testing.T) {
	input := "line1\nline2\nline3\nline4\nline5\n"
	got := truncateToHeight(input, 3)
	if strings.Count(got, "\n") > 3 || strings.Contains(got, "line4") {
		t.Errorf("truncateToHeight(5 lines, 3) = %q", got)
	}
	if truncateToHeight(input, 0) != input || truncateToHeight(input, -1) != input {
		t.Error("non-positive max should return input unchanged")
	}
	if truncateToHeight(input, 10) != input {
		t.Error("input within limit should be unchanged")
	}
}

func TestMasked(t *testing.T) {
	if got := masked("pässword"); got != strings.Repeat("•", 8) {
		t.Errorf("masked = %q", got)
	}
}

func TestTruncStr(t *testing.T) {
	if got := truncStr("short", 10); got != "short" {
		t.Errorf("truncStr short = %q", got)
	}
	if got := truncStr("a long product name", 6); got != "a lon…" {
		t.Errorf("truncStr long = %q", got)
	}
}

func TestMoveCursor(t *testing.T) {
	tests := []struct{ cur, delta, n, want int }{
		{0, 1, 3, 1},
		{2, 1, 3, 2},
		{0, -1, 3, 0},
		{0, 1, 0, 0},
	}
	for _, tt := range tests {
		if got := moveCursor(tt.cur, tt.delta, tt.n); got != tt.want {
			t.Errorf("moveCursor(%d,%d,%d) = %d, want %d", tt.cur, tt.delta, tt.n, got, tt.want)
		}
	}
}
