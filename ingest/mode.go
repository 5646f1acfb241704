package ingest

import "github.com/kbukum/itemfeed/item"

// Mode decides how lines become items. It is fixed for a whole stream.
type Mode struct {
	build bool
	opts  item.BuildOptions
}

// RawMode publishes lines verbatim.
func RawMode() Mode { return Mode{} }

// BuildMode parses every line with opts.
func BuildMode(opts item.BuildOptions) Mode { return Mode{build: true, opts: opts} }

// IsRaw reports whether lines are published verbatim.
func (m Mode) IsRaw() bool { return !m.build }

// Item converts one line.
func (m Mode) Item(line string) *item.Item {
	if m.build {
		return item.Build(line, m.opts)
	}
	return item.Raw(line)
}
