package collector

import (
	"context"
	"io"
	"strings"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/kbukum/itemfeed/errors"
	"github.com/kbukum/itemfeed/ingest"
	"github.com/kbukum/itemfeed/item"
	"github.com/kbukum/itemfeed/itemchan"
	"github.com/kbukum/itemfeed/lifecycle"
	"github.com/kbukum/itemfeed/logger"
	"github.com/kbukum/itemfeed/observability"
	"github.com/kbukum/itemfeed/process"
)

// Options configures a Collector.
type Options struct {
	// LineEnding terminates lines. Zero means NUL.
	LineEnding byte
	// Build is applied to every line read from the input.
	Build item.BuildOptions
	// ShowError publishes the stderr of a failed command as items.
	ShowError bool
	// Shell overrides $SHELL for commands.
	Shell string
	// ChannelCapacity bounds the item channel. Zero means unbounded.
	ChannelCapacity int
	Logger          *logger.Logger
	Metrics         *observability.Metrics
}

// Collector turns inputs into item streams.
type Collector struct {
	opts Options
	log  *logger.Logger
}

// New returns a collector with the given options.
func New(opts Options) *Collector {
	log := opts.Logger
	if log == nil {
		log = logger.Get(logger.ComponentCollector)
	}
	return &Collector{opts: opts, log: log}
}

// Options returns the collector's options.
func (c *Collector) Options() Options { return c.opts }

// Collect starts reading in. The returned handle joins the ingestion
// goroutine; tracker.Wait joins everything the call started. The only
// error is SPAWN_FAILED, in which case nothing was started.
func (c *Collector) Collect(tracker *lifecycle.Tracker, in Input) (*itemchan.Receiver, *Interrupt, *lifecycle.Handle, error) {
	run := observability.NewRun(uuid.NewString(), in.Kind().String(), c.opts.Metrics)
	log := c.log.WithFields(logger.Fields(logger.FieldRunID, run.ID, logger.FieldSource, run.Source))

	if in.Kind() == InputCommand {
		return c.collectCommand(tracker, in.Line(), run, log)
	}
	return c.collectPipe(tracker, in, run, log)
}

func (c *Collector) collectPipe(tracker *lifecycle.Tracker, in Input, run *observability.Run, log *logger.Logger) (*itemchan.Receiver, *Interrupt, *lifecycle.Handle, error) {
	tx, rx := itemchan.New(c.opts.ChannelCapacity)
	intr := NewInterrupt()

	h := tracker.Go("ingest:pipe", func() {
		defer intr.Send()
		defer tx.Close()

		ctx, span := run.StartSpan(context.Background(), observability.SpanCollectorRun)
		err := c.ingest(ctx, in.Reader(), tx, run.Source, log)
		status := "success"
		if err != nil {
			status = "failure"
		}
		run.End(ctx, span, status, err)
	})
	return rx, intr, h, nil
}

func (c *Collector) collectCommand(tracker *lifecycle.Tracker, line string, run *observability.Run, log *logger.Logger) (*itemchan.Receiver, *Interrupt, *lifecycle.Handle, error) {
	ctx, span := run.StartSpan(context.Background(), observability.SpanCollectorRun)
	span.SetAttributes(attribute.String(observability.AttrCommand, line))

	child, err := process.Start(ctx, process.Command{Line: line, Shell: c.opts.Shell})
	if err != nil {
		log.Error("spawn failed", logger.Fields(logger.FieldCommand, line, logger.FieldError, err.Error()))
		c.opts.Metrics.RecordError(ctx, string(errors.ErrCodeSpawnFailed), "collector")
		run.End(ctx, span, "failure", err)
		return nil, nil, nil, err
	}
	span.SetAttributes(attribute.Int(observability.AttrPID, child.PID()))
	log = log.WithFields(logger.Fields(logger.FieldPID, child.PID()))
	log.Debug("command started", logger.Fields(logger.FieldCommand, line))

	tx, rx := itemchan.New(c.opts.ChannelCapacity)
	var errTx *itemchan.Sender
	if c.opts.ShowError {
		errTx = tx.Clone()
	}
	intr := NewInterrupt()

	h := tracker.Go("ingest:command", func() {
		defer intr.Send()
		defer tx.Close()
		_ = c.ingest(ctx, child.Stdout(), tx, run.Source, log)
	})

	tracker.Go("watch:command", func() {
		if errTx != nil {
			defer errTx.Close()
		}
		<-intr.C()
		if err := child.Kill(); err != nil {
			log.Warn("kill failed", logger.ErrorFields("kill", err))
		}
		st := child.Wait()
		c.finish(ctx, span, run, child, st, errTx, log)
	})

	return rx, intr, h, nil
}

// ingest runs the ingestion loop over src. Failures are logged here and
// never reach the caller of Collect.
func (c *Collector) ingest(ctx context.Context, src io.Reader, tx *itemchan.Sender, source string, log *logger.Logger) error {
	ctx, span := observability.StartSpan(ctx, observability.SpanIngest)
	defer span.End()

	loop := &ingest.Loop{
		LineEnding: c.opts.LineEnding,
		Mode:       ingest.BuildMode(c.opts.Build),
		Source:     source,
		Logger:     log,
		Metrics:    c.opts.Metrics,
	}
	if err := loop.Run(src, tx); err != nil {
		log.Error("ingestion stopped", logger.ErrorFields("ingest", err))
		if appErr, ok := errors.AsAppError(err); ok {
			c.opts.Metrics.RecordError(ctx, string(appErr.Code), "ingest")
		}
		observability.SetSpanError(ctx, err)
		return err
	}
	return nil
}

func (c *Collector) finish(ctx context.Context, span trace.Span, run *observability.Run, child *process.Child, st process.Status, errTx *itemchan.Sender, log *logger.Logger) {
	c.opts.Metrics.RecordProcessExit(ctx, st.ExitCode, st.Signaled)
	span.SetAttributes(attribute.Int(observability.AttrExitCode, st.ExitCode))
	log.Debug("command reaped", logger.Fields(
		logger.FieldExitCode, st.ExitCode,
		logger.FieldStatus, st.String(),
		logger.FieldDuration, st.Duration.Milliseconds(),
	))

	status := "success"
	switch {
	case st.Signaled:
		status = "signaled"
	case st.Failed():
		status = "failure"
	}

	if errTx != nil && st.Failed() {
		for _, line := range stderrLines(child.Stderr()) {
			if errTx.Send(item.Raw(line)) != nil {
				break
			}
		}
	}
	run.End(ctx, span, status, nil)
}

// stderrLines splits captured stderr into lines, replacing invalid UTF-8.
func stderrLines(b []byte) []string {
	if len(b) == 0 {
		return nil
	}
	s := strings.ToValidUTF8(string(b), "�")
	s = strings.TrimSuffix(s, "\n")
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSuffix(l, "\r")
	}
	return lines
}
