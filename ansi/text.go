package ansi

import (
	"sort"
	"strings"
)

// Len returns the length of the plain text in bytes.
func (t Text) Len() int { return len(t.Plain) }

// Slice returns the text between byte offsets start and end.
func (t Text) Slice(start, end int) Text {
	start = min(max(start, 0), len(t.Plain))
	end = min(max(end, start), len(t.Plain))
	out := Text{Plain: t.Plain[start:end]}
	for _, sp := range t.Spans {
		s, e := max(sp.Start, start), min(sp.End, end)
		if s < e {
			out.Spans = append(out.Spans, Span{Start: s - start, End: e - start, Style: sp.Style})
		}
	}
	return out
}

// Concat joins texts, shifting spans into place.
func Concat(parts ...Text) Text {
	var (
		b     strings.Builder
		spans []Span
	)
	for _, p := range parts {
		off := b.Len()
		b.WriteString(p.Plain)
		for _, sp := range p.Spans {
			spans = appendSpan(spans, Span{Start: sp.Start + off, End: sp.End + off, Style: sp.Style})
		}
	}
	return Text{Plain: b.String(), Spans: spans}
}

// StyleAt returns the style covering byte offset i.
func (t Text) StyleAt(i int) Style {
	k := sort.Search(len(t.Spans), func(k int) bool { return t.Spans[k].End > i })
	if k < len(t.Spans) && t.Spans[k].Start <= i {
		return t.Spans[k].Style
	}
	return Style{}
}

// Overlay merges st on top of the styles in [start, end).
func (t Text) Overlay(start, end int, st Style) Text {
	start = min(max(start, 0), len(t.Plain))
	end = min(max(end, start), len(t.Plain))
	if start == end || st.IsZero() {
		return t
	}

	cuts := []int{0, start, end, len(t.Plain)}
	for _, sp := range t.Spans {
		cuts = append(cuts, sp.Start, sp.End)
	}
	sort.Ints(cuts)

	out := Text{Plain: t.Plain}
	for k := 0; k+1 < len(cuts); k++ {
		a, b := cuts[k], cuts[k+1]
		if a == b {
			continue
		}
		style := t.StyleAt(a)
		if a >= start && b <= end {
			style = style.Merge(st)
		}
		out.Spans = appendSpan(out.Spans, Span{Start: a, End: b, Style: style})
	}
	return out
}

// Segments calls fn for each maximal run of equal style, in order.
func (t Text) Segments(fn func(text string, st Style)) {
	pos := 0
	for _, sp := range t.Spans {
		if pos < sp.Start {
			fn(t.Plain[pos:sp.Start], Style{})
		}
		fn(t.Plain[sp.Start:sp.End], sp.Style)
		pos = sp.End
	}
	if pos < len(t.Plain) {
		fn(t.Plain[pos:], Style{})
	}
}
