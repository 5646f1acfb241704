package header

import (
	"testing"

	"github.com/kbukum/itemfeed/ansi"
	"github.com/kbukum/itemfeed/errors"
	"github.com/kbukum/itemfeed/item"
	"github.com/kbukum/itemfeed/store"
)

func plainRows(t *testing.T, rows []string) []string {
	t.Helper()
	out := make([]string, len(rows))
	for i, r := range rows {
		out[i] = ansi.Strip(r)
	}
	return out
}

func TestRenderLayout(t *testing.T) {
	tests := []struct {
		name    string
		reverse bool
		want    []string
	}{
		{"default", false, []string{"", "", "  second", "  first"}},
		{"reverse", true, []string{"  first", "  second", "", ""}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := New("first\nsecond\n", WithReverse(tt.reverse))
			rows, err := h.Render(20, 4)
			if err != nil {
				t.Fatalf("Render() error = %v", err)
			}
			got := plainRows(t, rows)
			for i := range tt.want {
				if got[i] != tt.want[i] {
					t.Fatalf("row %d = %q, want %q (rows %q)", i, got[i], tt.want[i], got)
				}
			}
		})
	}
}

func TestRenderFit(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		width int
		want  string
	}{
		{"tab", "a\tb", 20, "  a   b"},
		{"truncate", "abcdef", 5, "  abc"},
		{"wide runes", "日本語", 5, "  日"},
		{"escapes removed", "\x1b[31mred\x1b[0m", 10, "  red"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rows, err := New(tt.text, WithTabstop(4), WithReverse(true)).Render(tt.width, 1)
			if err != nil {
				t.Fatalf("Render() error = %v", err)
			}
			if got := ansi.Strip(rows[0]); got != tt.want {
				t.Fatalf("row = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestReservedItems(t *testing.T) {
	pool := store.New()
	pool.Reserve(1)
	pool.Append(item.Raw("COL1 COL2"), item.Raw("row"))

	h := New("title", WithPool(pool), WithReverse(true))
	if got := h.LinesOfHeader(); got != 2 {
		t.Fatalf("LinesOfHeader() = %d, want 2", got)
	}
	rows, err := h.Render(20, 3)
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	got := plainRows(t, rows)
	if got[0] != "  title" || got[1] != "  COL1 COL2" || got[2] != "" {
		t.Fatalf("rows = %q", got)
	}

	pool.Clear()
	if got := h.LinesOfHeader(); got != 1 {
		t.Fatalf("LinesOfHeader() after Clear = %d, want 1", got)
	}
}

func TestAbsentHandlesRenderNothing(t *testing.T) {
	pool := store.New()
	pool.Reserve(1)
	pool.Append(item.Raw("gone"))
	stale := pool.Reserved()
	pool.Clear()

	h := New("", WithPool(pool))
	if got := h.contents(stale); len(got) != 0 {
		t.Fatalf("contents() = %d texts for a stale handle", len(got))
	}
}

func TestRenderTooSmall(t *testing.T) {
	h := New("a\nb")
	if _, err := h.Render(2, 5); !errors.HasCode(err, errors.ErrCodeScreenTooSmall) {
		t.Fatalf("narrow Render() error = %v", err)
	}
	if _, err := h.Render(10, 1); !errors.HasCode(err, errors.ErrCodeScreenTooSmall) {
		t.Fatalf("short Render() error = %v", err)
	}
}

func TestZeroHeader(t *testing.T) {
	h := New("")
	if h.LinesOfHeader() != 0 {
		t.Fatalf("LinesOfHeader() = %d", h.LinesOfHeader())
	}
	rows, err := h.Render(10, 0)
	if err != nil || len(rows) != 0 {
		t.Fatalf("Render() = %q, %v", rows, err)
	}
}

func TestWithDefaultKeepsItemStyles(t *testing.T) {
	text := ansi.Parse("\x1b[31mred\x1b[0m plain")
	out := withDefault(text, DefaultStyle)
	if out.StyleAt(0).Fg != "1" {
		t.Fatalf("styled part = %+v", out.StyleAt(0))
	}
	if out.StyleAt(5).Fg != DefaultStyle.Fg {
		t.Fatalf("unstyled part = %+v", out.StyleAt(5))
	}
}
