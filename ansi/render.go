package ansi

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Lipgloss converts the style into a lipgloss style. Tabs are left as-is.
func (s Style) Lipgloss() lipgloss.Style {
	ls := lipgloss.NewStyle().TabWidth(lipgloss.NoTabConversion)
	if s.Fg != "" {
		ls = ls.Foreground(lipgloss.Color(s.Fg))
	}
	if s.Bg != "" {
		ls = ls.Background(lipgloss.Color(s.Bg))
	}
	return ls.
		Bold(s.Bold).
		Faint(s.Dim).
		Italic(s.Italic).
		Underline(s.Underline).
		Reverse(s.Reverse)
}

// Render writes t with its styles applied. The color profile of the
// default lipgloss renderer decides which escapes are emitted, so output
// to a non-terminal is plain.
func Render(t Text) string {
	if len(t.Spans) == 0 {
		return t.Plain
	}
	var b strings.Builder
	t.Segments(func(text string, st Style) {
		if st.IsZero() {
			b.WriteString(text)
			return
		}
		b.WriteString(st.Lipgloss().Render(text))
	})
	return b.String()
}
