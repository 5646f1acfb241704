package reader

import (
	"regexp"

	"github.com/kbukum/itemfeed/config"
	"github.com/kbukum/itemfeed/field"
	"github.com/kbukum/itemfeed/logger"
	"github.com/kbukum/itemfeed/observability"
)

// Option configures a Reader.
type Option func(*Reader)

// WithLineEnding sets the item terminator.
func WithLineEnding(b byte) Option {
	return func(r *Reader) { r.lineEnding = b }
}

// WithRead0 selects NUL as terminator when enabled and newline otherwise.
func WithRead0(enabled bool) Option {
	return func(r *Reader) {
		if enabled {
			r.lineEnding = 0
		} else {
			r.lineEnding = '\n'
		}
	}
}

// WithANSI enables parsing of ANSI styles.
func WithANSI(enabled bool) Option {
	return func(r *Reader) { r.ansi = enabled }
}

// WithDelimiter sets the token delimiter pattern. An empty pattern keeps
// the current delimiter; an invalid one falls back to the default.
func WithDelimiter(pattern string) Option {
	return func(r *Reader) {
		if pattern == "" {
			return
		}
		re, err := regexp.Compile(pattern)
		if err != nil {
			r.log.Warn("invalid delimiter, using default", logger.Fields("delimiter", pattern, logger.FieldError, err.Error()))
			re = field.DefaultDelimiter
		}
		r.delimiter = re
	}
}

// WithNth sets the display transform from selector syntax such as "2,4..".
// Invalid entries are dropped. An empty string keeps the current value.
func WithNth(s string) Option {
	return func(r *Reader) {
		if s != "" {
			r.transform = field.ParseList(s)
		}
	}
}

// WithMatchingNth sets the matching selector from selector syntax.
func WithMatchingNth(s string) Option {
	return func(r *Reader) {
		if s != "" {
			r.matching = field.ParseList(s)
		}
	}
}

// WithTransformFields sets the display transform.
func WithTransformFields(ranges []field.Range) Option {
	return func(r *Reader) { r.transform = ranges }
}

// WithMatchingFields sets the matching selector.
func WithMatchingFields(ranges []field.Range) Option {
	return func(r *Reader) { r.matching = ranges }
}

// WithShowError publishes the stderr of failed commands as items.
func WithShowError(enabled bool) Option {
	return func(r *Reader) { r.showError = enabled }
}

// WithShell overrides $SHELL for commands.
func WithShell(shell string) Option {
	return func(r *Reader) { r.shell = shell }
}

// WithChannelCapacity bounds item channels. Zero keeps them unbounded.
func WithChannelCapacity(n int) Option {
	return func(r *Reader) { r.capacity = n }
}

// WithLogger sends the logs of the reader and everything it starts to l.
func WithLogger(l *logger.Logger) Option {
	return func(r *Reader) {
		if l != nil {
			r.log, r.custom = l, l
		}
	}
}

// WithMetrics records ingestion metrics.
func WithMetrics(m *observability.Metrics) Option {
	return func(r *Reader) { r.metrics = m }
}

// FromConfig returns a reader configured from cfg. Extra options are
// applied after the configuration.
func FromConfig(cfg *config.FeedConfig, opts ...Option) *Reader {
	base := []Option{
		WithLineEnding(cfg.LineEndingByte()),
		WithANSI(cfg.ANSI),
		WithNth(cfg.WithNth),
		WithMatchingNth(cfg.Nth),
		WithShowError(cfg.ShowError),
		WithShell(cfg.Shell),
		WithChannelCapacity(cfg.ChannelCapacity),
	}
	// The delimiter may log, so it goes after a caller supplied logger.
	opts = append(append(base, opts...), WithDelimiter(cfg.Delimiter))
	return New(opts...)
}
