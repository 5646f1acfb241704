// Package item defines the matchable unit produced by ingestion.
//
// An Item is either raw (the line verbatim) or built (the line split into
// fields, with an optional display transform, matching ranges and ANSI
// styling). Items are immutable and shared by pointer.
package item

import (
	"regexp"
	"strings"

	"github.com/kbukum/itemfeed/ansi"
	"github.com/kbukum/itemfeed/field"
)

// Kind tags the item variant.
type Kind uint8

const (
	KindRaw Kind = iota
	KindBuilt
)

func (k Kind) String() string {
	if k == KindBuilt {
		return "built"
	}
	return "raw"
}

// BuildOptions configure Build. They are shared by every line of a stream
// and never modified after construction.
type BuildOptions struct {
	ANSI            bool
	TransformFields []field.Range
	MatchingFields  []field.Range
	Delimiter       *regexp.Regexp
}

func (o BuildOptions) delimiter() *regexp.Regexp {
	if o.Delimiter == nil {
		return field.DefaultDelimiter
	}
	return o.Delimiter
}

// Item is one ingested line.
type Item struct {
	kind        Kind
	orig        string
	text        ansi.Text
	matching    []field.Span
	hasMatching bool
}

// Raw wraps line without any processing.
func Raw(line string) *Item {
	return &Item{kind: KindRaw, orig: line, text: ansi.Plain(line)}
}

// Build parses line according to opts. ANSI parsing runs first, then the
// transform selector picks the display text, and the matching selector is
// applied to that display text.
func Build(line string, opts BuildOptions) *Item {
	it := &Item{kind: KindBuilt, orig: line}

	text := ansi.Plain(line)
	if opts.ANSI {
		text = ansi.Parse(line)
	}

	delim := opts.delimiter()
	if len(opts.TransformFields) > 0 {
		spans := field.TransformSpans(field.Tokenize(text.Plain, delim), opts.TransformFields)
		parts := make([]ansi.Text, 0, len(spans))
		for _, s := range spans {
			parts = append(parts, text.Slice(s.Start, s.End))
		}
		text = ansi.Concat(parts...)
	}
	it.text = text

	if len(opts.MatchingFields) > 0 {
		it.hasMatching = true
		it.matching = field.MatchSpans(field.Tokenize(text.Plain, delim), opts.MatchingFields)
	}
	return it
}

// Kind returns the variant.
func (it *Item) Kind() Kind { return it.kind }

// Text is what is shown and matched: the transformed line with escapes
// removed when ANSI parsing is on.
func (it *Item) Text() string { return it.text.Plain }

// Output is the original line.
func (it *Item) Output() string { return it.orig }

// StyledText returns Text with its parsed styles.
func (it *Item) StyledText() ansi.Text { return it.text }

// MatchingRanges returns the byte ranges of Text that take part in
// matching. Without a matching selector the whole text matches; with one
// that selects nothing the result is empty.
func (it *Item) MatchingRanges() []field.Span {
	if !it.hasMatching {
		return []field.Span{{Start: 0, End: len(it.text.Plain)}}
	}
	return it.matching
}

// MatchingText joins the matching ranges with a single space.
func (it *Item) MatchingText() string {
	if !it.hasMatching {
		return it.text.Plain
	}
	parts := make([]string, 0, len(it.matching))
	for _, s := range it.matching {
		parts = append(parts, it.text.Plain[s.Start:s.End])
	}
	return strings.Join(parts, " ")
}
