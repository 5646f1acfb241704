package reader

import (
	"context"
	"fmt"
	"sync"

	"github.com/kbukum/itemfeed/collector"
	"github.com/kbukum/itemfeed/component"
	"github.com/kbukum/itemfeed/itemchan"
	"github.com/kbukum/itemfeed/lifecycle"
)

// Source is a feed input managed as a component. Start begins reading,
// Stop cancels a running command, drops the receiver and waits for every
// goroutine to finish.
type Source struct {
	name    string
	reader  *Reader
	input   collector.Input
	tracker *lifecycle.Tracker

	mu     sync.Mutex
	rx     *itemchan.Receiver
	intr   *collector.Interrupt
	handle *lifecycle.Handle
}

var (
	_ component.Component   = (*Source)(nil)
	_ component.Describable = (*Source)(nil)
)

// NewSource returns a stopped source reading in with r.
func NewSource(name string, r *Reader, in collector.Input, tracker *lifecycle.Tracker) *Source {
	return &Source{name: name, reader: r, input: in, tracker: tracker}
}

// Name returns the component name.
func (s *Source) Name() string { return s.name }

// Start begins reading. Only a command that cannot be spawned fails.
func (s *Source) Start(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.rx != nil {
		return fmt.Errorf("source %s already started", s.name)
	}

	if s.input.Kind() == collector.InputCommand {
		rx, intr, h, err := s.reader.Invoke(s.input.Line(), s.tracker)
		if err != nil {
			return err
		}
		s.rx, s.intr, s.handle = rx, intr, h
		return nil
	}
	s.rx, s.handle = s.reader.ofReader(s.tracker, s.input.Reader())
	return nil
}

// Items returns the receiver, or nil before Start.
func (s *Source) Items() *itemchan.Receiver {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rx
}

// Done is closed when the ingestion goroutine has finished. It is nil
// before Start.
func (s *Source) Done() <-chan struct{} {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.handle == nil {
		return nil
	}
	return s.handle.Done()
}

// Stop interrupts a running command, drops the receiver and waits until
// the tracker is idle or ctx is done.
func (s *Source) Stop(ctx context.Context) error {
	s.mu.Lock()
	rx, intr := s.rx, s.intr
	s.mu.Unlock()
	if rx == nil {
		return nil
	}
	if intr != nil {
		intr.Send()
	}
	rx.Close()
	if err := s.tracker.Wait(ctx); err != nil {
		return fmt.Errorf("waiting for source %s: %w", s.name, err)
	}
	return nil
}

// Health reports whether the source was started and how many goroutines
// are still running.
func (s *Source) Health(_ context.Context) component.Health {
	s.mu.Lock()
	started := s.rx != nil
	s.mu.Unlock()

	h := component.Health{Name: s.name, Status: component.StatusHealthy}
	if !started {
		h.Status = component.StatusUnhealthy
		h.Message = "not started"
		return h
	}
	h.Message = fmt.Sprintf("active=%d", s.tracker.Active())
	return h
}

// Describe summarizes the source for startup logs.
func (s *Source) Describe() component.Description {
	details := "input=pipe"
	if s.input.Kind() == collector.InputCommand {
		details = "command=" + s.input.Line()
	}
	mode := "build"
	if s.reader.IsSimple() {
		mode = "raw"
	}
	return component.Description{
		Name:    s.name,
		Type:    "source",
		Details: details + " mode=" + mode,
	}
}
