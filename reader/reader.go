package reader

import (
	"io"
	"regexp"

	"github.com/kbukum/itemfeed/collector"
	"github.com/kbukum/itemfeed/field"
	"github.com/kbukum/itemfeed/ingest"
	"github.com/kbukum/itemfeed/item"
	"github.com/kbukum/itemfeed/itemchan"
	"github.com/kbukum/itemfeed/lifecycle"
	"github.com/kbukum/itemfeed/logger"
	"github.com/kbukum/itemfeed/observability"
)

// CommandCollector runs reload commands for an interactive session. Every
// goroutine it starts is registered with tracker.
type CommandCollector interface {
	Invoke(cmd string, tracker *lifecycle.Tracker) (*itemchan.Receiver, *collector.Interrupt, *lifecycle.Handle, error)
}

var _ CommandCollector = (*Reader)(nil)

// Reader turns streams and commands into items. Its configuration is fixed
// at construction, so one Reader may serve many sources concurrently.
type Reader struct {
	lineEnding byte
	ansi       bool
	transform  []field.Range
	matching   []field.Range
	delimiter  *regexp.Regexp
	showError  bool
	shell      string
	capacity   int
	log        *logger.Logger
	custom     *logger.Logger // set by WithLogger; nil means component loggers
	metrics    *observability.Metrics
}

// New returns a reader splitting on newlines with the default delimiter.
func New(opts ...Option) *Reader {
	r := &Reader{
		lineEnding: '\n',
		delimiter:  field.DefaultDelimiter,
		log:        logger.Get(logger.ComponentReader),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// IsSimple reports whether lines can be published without building.
func (r *Reader) IsSimple() bool {
	return !r.ansi && len(r.transform) == 0 && len(r.matching) == 0
}

// LineEnding returns the item terminator.
func (r *Reader) LineEnding() byte { return r.lineEnding }

// BuildOptions returns the options applied to every built item.
func (r *Reader) BuildOptions() item.BuildOptions {
	return item.BuildOptions{
		ANSI:            r.ansi,
		TransformFields: r.transform,
		MatchingFields:  r.matching,
		Delimiter:       r.delimiter,
	}
}

// OfReader reads src to its end on a new goroutine. The handle joins that
// goroutine; the receiver ends once src is exhausted.
func (r *Reader) OfReader(src io.Reader) (*itemchan.Receiver, *lifecycle.Handle) {
	tracker := lifecycle.NewTracker(lifecycle.WithMetrics(r.metrics), lifecycle.WithLogger(r.custom))
	return r.ofReader(tracker, src)
}

func (r *Reader) ofReader(tracker *lifecycle.Tracker, src io.Reader) (*itemchan.Receiver, *lifecycle.Handle) {
	if r.IsSimple() {
		return r.raw(tracker, src)
	}
	// Pipe inputs never fail to start.
	rx, _, h, _ := r.collector().Collect(tracker, collector.Pipe(src))
	return rx, h
}

// Invoke runs cmd through the shell. SPAWN_FAILED is the only error.
func (r *Reader) Invoke(cmd string, tracker *lifecycle.Tracker) (*itemchan.Receiver, *collector.Interrupt, *lifecycle.Handle, error) {
	return r.collector().Collect(tracker, collector.Command(cmd))
}

func (r *Reader) raw(tracker *lifecycle.Tracker, src io.Reader) (*itemchan.Receiver, *lifecycle.Handle) {
	tx, rx := itemchan.New(r.capacity)
	log := logger.Get(logger.ComponentIngest)
	if r.custom != nil {
		log = r.custom
	}
	log = log.WithFields(logger.Fields(logger.FieldSource, "raw"))
	h := tracker.Go("ingest:raw", func() {
		defer tx.Close()
		loop := &ingest.Loop{
			LineEnding: r.lineEnding,
			Mode:       ingest.RawMode(),
			Source:     "raw",
			Logger:     log,
			Metrics:    r.metrics,
		}
		if err := loop.Run(src, tx); err != nil {
			log.Error("ingestion stopped", logger.ErrorFields("ingest", err))
		}
	})
	return rx, h
}

func (r *Reader) collector() *collector.Collector {
	return collector.New(collector.Options{
		LineEnding:      r.lineEnding,
		Build:           r.BuildOptions(),
		ShowError:       r.showError,
		Shell:           r.shell,
		ChannelCapacity: r.capacity,
		Logger:          r.custom,
		Metrics:         r.metrics,
	})
}
