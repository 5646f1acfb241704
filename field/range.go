package field

import (
	"strconv"
	"strings"
)

// Kind distinguishes the four range shapes.
type Kind int

const (
	KindSingle  Kind = iota // n
	KindFrom                // n..
	KindTo                  // ..n
	KindBetween             // a..b
)

// Range is one parsed field selector.
type Range struct {
	Kind  Kind
	Start int
	End   int
}

// Single selects the n-th token.
func Single(n int) Range { return Range{Kind: KindSingle, Start: n, End: n} }

// From selects the n-th token and everything after it.
func From(n int) Range { return Range{Kind: KindFrom, Start: n} }

// To selects every token up to and including the n-th.
func To(n int) Range { return Range{Kind: KindTo, End: n} }

// Between selects tokens a through b inclusive.
func Between(a, b int) Range { return Range{Kind: KindBetween, Start: a, End: b} }

// All selects every token; it is what ".." parses to.
func All() Range { return From(1) }

// Parse parses a single selector. Zero and non-numeric bounds are rejected.
func Parse(s string) (Range, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Range{}, false
	}
	left, right, isRange := strings.Cut(s, "..")
	if !isRange {
		n, ok := parseIndex(s)
		if !ok {
			return Range{}, false
		}
		return Single(n), true
	}

	switch {
	case left == "" && right == "":
		return All(), true
	case left == "":
		n, ok := parseIndex(right)
		if !ok {
			return Range{}, false
		}
		return To(n), true
	case right == "":
		n, ok := parseIndex(left)
		if !ok {
			return Range{}, false
		}
		return From(n), true
	default:
		a, ok := parseIndex(left)
		if !ok {
			return Range{}, false
		}
		b, ok := parseIndex(right)
		if !ok {
			return Range{}, false
		}
		return Between(a, b), true
	}
}

// ParseList parses a comma-separated selector list. Invalid entries are
// dropped, so a fully malformed list yields an empty selector.
func ParseList(s string) []Range {
	var ranges []Range
	for _, part := range strings.Split(s, ",") {
		if r, ok := Parse(part); ok {
			ranges = append(ranges, r)
		}
	}
	return ranges
}

func parseIndex(s string) (int, bool) {
	n, err := strconv.Atoi(s)
	if err != nil || n == 0 {
		return 0, false
	}
	return n, true
}

// Bounds resolves the range against n tokens and returns the half-open
// token index interval [start, end). ok is false when nothing is selected.
func (r Range) Bounds(n int) (start, end int, ok bool) {
	switch r.Kind {
	case KindSingle:
		start = resolve(r.Start, n)
		end = start + 1
	case KindFrom:
		start, end = resolve(r.Start, n), n
	case KindTo:
		start, end = 0, resolve(r.End, n)+1
	case KindBetween:
		start, end = resolve(r.Start, n), resolve(r.End, n)+1
	default:
		return 0, 0, false
	}
	start = max(start, 0)
	end = min(end, n)
	if start >= end {
		return 0, 0, false
	}
	return start, end, true
}

// resolve turns a 1-based or negative index into a 0-based one. The result
// may lie outside [0, n); Bounds clamps it.
func resolve(idx, n int) int {
	if idx > 0 {
		return idx - 1
	}
	return n + idx
}

// String renders the range in selector syntax.
func (r Range) String() string {
	switch r.Kind {
	case KindSingle:
		return strconv.Itoa(r.Start)
	case KindFrom:
		return strconv.Itoa(r.Start) + ".."
	case KindTo:
		return ".." + strconv.Itoa(r.End)
	default:
		return strconv.Itoa(r.Start) + ".." + strconv.Itoa(r.End)
	}
}
