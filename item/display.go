package item

import (
	"github.com/kbukum/itemfeed/ansi"
	"github.com/kbukum/itemfeed/field"
)

// DefaultHighlight marks matched bytes when DisplayContext sets none.
var DefaultHighlight = ansi.Style{Fg: "2", Bold: true}

// DisplayContext carries what the front end knows when drawing an item.
type DisplayContext struct {
	// Matches are byte ranges of Text to highlight.
	Matches   []field.Span
	Highlight ansi.Style
	Selected  bool
}

// Display returns the styled text with matches highlighted. The item is
// not modified.
func (it *Item) Display(ctx DisplayContext) ansi.Text {
	out := it.text
	hl := ctx.Highlight
	if hl.IsZero() {
		hl = DefaultHighlight
	}
	for _, m := range ctx.Matches {
		out = out.Overlay(m.Start, m.End, hl)
	}
	if ctx.Selected {
		out = out.Overlay(0, out.Len(), ansi.Style{Reverse: true})
	}
	return out
}
