// Package header renders the fixed lines shown above the item list: the
// --header text followed by the items reserved with --header-lines.
package header

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/kbukum/itemfeed/ansi"
	"github.com/kbukum/itemfeed/errors"
	"github.com/kbukum/itemfeed/item"
	"github.com/kbukum/itemfeed/store"
)

const (
	// DefaultTabstop is the tab width used when none is configured.
	DefaultTabstop = 8
	// MinWidth is the narrowest area Render accepts.
	MinWidth = 3
	// indent is the number of columns left of every row.
	indent = 2
)

// DefaultStyle is applied to header text and to unstyled parts of
// reserved items.
var DefaultStyle = ansi.Style{Fg: "6"}

// Header renders header rows. The zero value renders nothing.
type Header struct {
	lines   []string
	pool    *store.Pool
	tabstop int
	reverse bool
	style   ansi.Style
}

// Option configures a Header.
type Option func(*Header)

// WithPool renders the items reserved in p below the header text.
func WithPool(p *store.Pool) Option {
	return func(h *Header) { h.pool = p }
}

// WithTabstop sets the tab width. Values below 1 become 1.
func WithTabstop(n int) Option {
	return func(h *Header) { h.tabstop = max(n, 1) }
}

// WithReverse draws rows top-down, for layouts with the prompt on top.
func WithReverse(reverse bool) Option {
	return func(h *Header) { h.reverse = reverse }
}

// WithStyle overrides DefaultStyle.
func WithStyle(st ansi.Style) Option {
	return func(h *Header) { h.style = st }
}

// New returns a header showing text, one row per line. Escape sequences
// in text are removed; the header style is used instead.
func New(text string, opts ...Option) *Header {
	h := &Header{tabstop: DefaultTabstop, style: DefaultStyle}
	if text != "" {
		for _, l := range strings.Split(strings.TrimSuffix(text, "\n"), "\n") {
			h.lines = append(h.lines, ansi.Strip(l))
		}
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// LinesOfHeader returns how many rows the header needs.
func (h *Header) LinesOfHeader() int {
	n := len(h.lines)
	if h.pool != nil {
		n += len(h.pool.Reserved())
	}
	return n
}

// Render returns height rows of the given width. Without reverse layout
// the first header line is the bottom row. Reserved items that are no
// longer in the pool are skipped.
func (h *Header) Render(width, height int) ([]string, error) {
	if width < MinWidth {
		return nil, errors.ScreenTooSmall("width", width, MinWidth)
	}
	var handles []store.Handle
	if h.pool != nil {
		handles = h.pool.Reserved()
	}
	if need := len(h.lines) + len(handles); height < need {
		return nil, errors.ScreenTooSmall("height", height, need)
	}

	rows := make([]string, height)
	pad := strings.Repeat(" ", indent)
	for i, text := range h.contents(handles) {
		rows[h.row(i, height)] = pad + ansi.Render(h.fit(text, width-indent))
	}
	return rows, nil
}

func (h *Header) contents(handles []store.Handle) []ansi.Text {
	out := make([]ansi.Text, 0, len(h.lines)+len(handles))
	for _, l := range h.lines {
		out = append(out, ansi.Plain(l).Overlay(0, len(l), h.style))
	}
	for _, hd := range handles {
		it, ok := h.pool.Get(hd)
		if !ok {
			continue
		}
		out = append(out, withDefault(it.Display(item.DisplayContext{Highlight: h.style}), h.style))
	}
	return out
}

func (h *Header) row(i, height int) int {
	if h.reverse {
		return i
	}
	return height - i - 1
}

// fit expands tabs and cuts t to at most width columns.
func (h *Header) fit(t ansi.Text, width int) ansi.Text {
	var parts []ansi.Text
	col := 0
	full := false
	t.Segments(func(text string, st ansi.Style) {
		if full {
			return
		}
		var b strings.Builder
		for _, r := range text {
			s := string(r)
			if r == '\t' {
				s = strings.Repeat(" ", h.tabstop-col%h.tabstop)
			}
			w := lipgloss.Width(s)
			if col+w > width {
				full = true
				break
			}
			b.WriteString(s)
			col += w
		}
		parts = append(parts, styled(b.String(), st))
	})
	return ansi.Concat(parts...)
}

// withDefault gives unstyled parts of t the style st.
func withDefault(t ansi.Text, st ansi.Style) ansi.Text {
	var parts []ansi.Text
	t.Segments(func(text string, s ansi.Style) {
		if s.IsZero() {
			s = st
		}
		parts = append(parts, styled(text, s))
	})
	return ansi.Concat(parts...)
}

func styled(text string, st ansi.Style) ansi.Text {
	return ansi.Plain(text).Overlay(0, len(text), st)
}
