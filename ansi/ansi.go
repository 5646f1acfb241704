// Package ansi turns lines carrying ANSI escape sequences into plain text
// plus styled spans, and renders styled text back through lipgloss.
//
// Escape sequences are decoded with charmbracelet/x/ansi. Only SGR
// sequences (ESC [ ... m) contribute styling; every other sequence is
// removed from the plain text.
package ansi

import (
	"strconv"
	"strings"

	xansi "github.com/charmbracelet/x/ansi"
)

const esc = 0x1b

// Style is the SGR state attached to a span. Colors use lipgloss notation:
// "0".."255" for palette entries and "#rrggbb" for truecolor.
type Style struct {
	Fg        string
	Bg        string
	Bold      bool
	Dim       bool
	Italic    bool
	Underline bool
	Reverse   bool
}

// IsZero reports whether the style carries no attribute.
func (s Style) IsZero() bool { return s == Style{} }

// Merge returns s with every attribute set in o applied on top.
func (s Style) Merge(o Style) Style {
	if o.Fg != "" {
		s.Fg = o.Fg
	}
	if o.Bg != "" {
		s.Bg = o.Bg
	}
	s.Bold = s.Bold || o.Bold
	s.Dim = s.Dim || o.Dim
	s.Italic = s.Italic || o.Italic
	s.Underline = s.Underline || o.Underline
	s.Reverse = s.Reverse || o.Reverse
	return s
}

// Span styles Plain[Start:End].
type Span struct {
	Start int
	End   int
	Style Style
}

// Text is a line with escapes removed. Spans are sorted, disjoint and
// never carry a zero style.
type Text struct {
	Plain string
	Spans []Span
}

// Plain wraps unstyled text.
func Plain(s string) Text { return Text{Plain: s} }

// Parse splits s into plain text and styled spans.
func Parse(s string) Text {
	if strings.IndexByte(s, esc) < 0 {
		return Text{Plain: s}
	}
	var (
		b     strings.Builder
		spans []Span
		cur   Style
	)
	emit := func(chunk string) {
		if chunk == "" {
			return
		}
		start := b.Len()
		b.WriteString(chunk)
		if cur.IsZero() {
			return
		}
		spans = appendSpan(spans, Span{Start: start, End: b.Len(), Style: cur})
	}

	p := xansi.GetParser()
	defer xansi.PutParser(p)

	i := 0
	for i < len(s) {
		j := strings.IndexByte(s[i:], esc)
		if j < 0 {
			emit(s[i:])
			break
		}
		emit(s[i : i+j])
		i += j
		seq, _, n, _ := xansi.DecodeSequence(s[i:], xansi.NormalState, p)
		if n <= 0 {
			n = 1
		}
		if isSGR(seq, xansi.Cmd(p.Command())) {
			cur = applySGR(cur, p.Params())
		}
		i += n
	}
	return Text{Plain: b.String(), Spans: spans}
}

// Strip removes every escape sequence from s.
func Strip(s string) string { return Parse(s).Plain }

// isSGR reports whether seq is a complete ESC [ ... m without private
// prefix or intermediate bytes.
func isSGR(seq string, cmd xansi.Cmd) bool {
	return xansi.HasCsiPrefix(seq) && cmd.Final() == 'm' && cmd.Prefix() == 0 && cmd.Intermediate() == 0
}

func applySGR(st Style, params xansi.Params) Style {
	codes := make([]int, 0, len(params))
	for _, prm := range params {
		codes = append(codes, prm.Param(0))
	}
	if len(codes) == 0 {
		return Style{}
	}
	for k := 0; k < len(codes); k++ {
		code := codes[k]
		switch {
		case code == 0:
			st = Style{}
		case code == 1:
			st.Bold = true
		case code == 2:
			st.Dim = true
		case code == 3:
			st.Italic = true
		case code == 4:
			st.Underline = true
		case code == 7:
			st.Reverse = true
		case code == 22:
			st.Bold, st.Dim = false, false
		case code == 23:
			st.Italic = false
		case code == 24:
			st.Underline = false
		case code == 27:
			st.Reverse = false
		case code >= 30 && code <= 37:
			st.Fg = strconv.Itoa(code - 30)
		case code == 39:
			st.Fg = ""
		case code >= 40 && code <= 47:
			st.Bg = strconv.Itoa(code - 40)
		case code == 49:
			st.Bg = ""
		case code >= 90 && code <= 97:
			st.Fg = strconv.Itoa(code - 90 + 8)
		case code >= 100 && code <= 107:
			st.Bg = strconv.Itoa(code - 100 + 8)
		case code == 38 || code == 48:
			color, used := extendedColor(codes[k+1:])
			k += used
			if code == 38 {
				st.Fg = color
			} else {
				st.Bg = color
			}
		}
	}
	return st
}

// extendedColor decodes "5;n" and "2;r;g;b" and reports how many
// parameters it consumed.
func extendedColor(rest []int) (string, int) {
	if len(rest) == 0 {
		return "", 0
	}
	switch rest[0] {
	case 5:
		if len(rest) < 2 {
			return "", len(rest)
		}
		return strconv.Itoa(clamp(rest[1])), 2
	case 2:
		if len(rest) < 4 {
			return "", len(rest)
		}
		r, g, b := clamp(rest[1]), clamp(rest[2]), clamp(rest[3])
		return "#" + hex2(r) + hex2(g) + hex2(b), 4
	default:
		return "", 1
	}
}

func clamp(n int) int { return min(max(n, 0), 255) }

func hex2(n int) string {
	const digits = "0123456789abcdef"
	return string([]byte{digits[n>>4], digits[n&0x0f]})
}

// appendSpan adds sp, extending the last span when it continues it with
// the same style.
func appendSpan(spans []Span, sp Span) []Span {
	if sp.Start >= sp.End || sp.Style.IsZero() {
		return spans
	}
	if n := len(spans); n > 0 && spans[n-1].End == sp.Start && spans[n-1].Style == sp.Style {
		spans[n-1].End = sp.End
		return spans
	}
	return append(spans, sp)
}
