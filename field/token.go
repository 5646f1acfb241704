package field

import (
	"regexp"
	"strings"
)

// DefaultPattern splits on runs of whitespace.
const DefaultPattern = `[\t\n ]+`

// DefaultDelimiter is the compiled DefaultPattern.
var DefaultDelimiter = regexp.MustCompile(DefaultPattern)

// Token is one field of a line as byte offsets. [Start, TextEnd) is the
// field text and [TextEnd, End) the delimiter that follows it.
type Token struct {
	Start   int
	TextEnd int
	End     int
}

// Span is a half-open byte interval.
type Span struct {
	Start int
	End   int
}

// Tokenize splits text at every non-empty delimiter match. Each token owns
// its trailing delimiter, so a leading delimiter produces an empty first
// token and the tokens cover text without gaps.
func Tokenize(text string, delim *regexp.Regexp) []Token {
	if delim == nil {
		delim = DefaultDelimiter
	}
	var tokens []Token
	prev := 0
	for _, m := range delim.FindAllStringIndex(text, -1) {
		if m[0] == m[1] {
			continue
		}
		tokens = append(tokens, Token{Start: prev, TextEnd: m[0], End: m[1]})
		prev = m[1]
	}
	if prev < len(text) {
		tokens = append(tokens, Token{Start: prev, TextEnd: len(text), End: len(text)})
	}
	return tokens
}

// TransformSpans returns the spans displayed for ranges. Every selected
// token keeps its trailing delimiter except the last one overall.
func TransformSpans(tokens []Token, ranges []Range) []Span {
	var spans []Span
	for _, r := range ranges {
		start, end, ok := r.Bounds(len(tokens))
		if !ok {
			continue
		}
		spans = append(spans, Span{Start: tokens[start].Start, End: tokens[end-1].End})
	}
	if len(spans) == 0 {
		return nil
	}
	last := &spans[len(spans)-1]
	trimTrailing(last, tokens)
	return spans
}

// MatchSpans returns the spans used for matching. Trailing delimiters are
// excluded; interior delimiters of a multi-token range are kept.
func MatchSpans(tokens []Token, ranges []Range) []Span {
	var spans []Span
	for _, r := range ranges {
		start, end, ok := r.Bounds(len(tokens))
		if !ok {
			continue
		}
		spans = append(spans, Span{Start: tokens[start].Start, End: tokens[end-1].TextEnd})
	}
	return spans
}

// trimTrailing drops the delimiter owned by the token ending at s.End.
func trimTrailing(s *Span, tokens []Token) {
	for _, t := range tokens {
		if t.End == s.End {
			s.End = max(t.TextEnd, s.Start)
			return
		}
	}
}

// Extract concatenates the text covered by spans.
func Extract(text string, spans []Span) string {
	var b strings.Builder
	for _, s := range spans {
		b.WriteString(text[s.Start:s.End])
	}
	return b.String()
}
