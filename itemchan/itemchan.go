// Package itemchan is the multi-producer single-consumer queue that carries
// items from ingestion goroutines to the consumer.
//
// The queue is unbounded unless a capacity is given. Senders are reference
// counted: the receiver sees end of stream once every sender has closed and
// the queue is drained. Closing the receiver makes every later Send fail
// with ErrReceiverGone, which producers treat as a request to stop.
package itemchan

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"github.com/kbukum/itemfeed/item"
)

var (
	// ErrReceiverGone is returned by Send after the receiver closed.
	ErrReceiverGone = errors.New("itemchan: receiver gone")
	// ErrSenderClosed is returned by Send on a sender that was closed.
	ErrSenderClosed = errors.New("itemchan: sender closed")
)

type queue struct {
	mu       sync.Mutex
	buf      []*item.Item
	head     int
	capacity int
	senders  int
	gone     bool
	waiters  int // goroutines blocked in wait
	changed  chan struct{}
}

// New returns the two ends of a queue. capacity <= 0 means unbounded.
func New(capacity int) (*Sender, *Receiver) {
	q := &queue{
		capacity: max(capacity, 0),
		senders:  1,
		changed:  make(chan struct{}),
	}
	return &Sender{q: q}, &Receiver{q: q}
}

// broadcast wakes every waiter. Callers hold q.mu.
func (q *queue) broadcast() {
	if q.waiters == 0 {
		return
	}
	close(q.changed)
	q.changed = make(chan struct{})
}

// wait releases q.mu until the next broadcast or until ctx is done, then
// reacquires it. It reports false when ctx is done.
func (q *queue) wait(ctx context.Context) bool {
	q.waiters++
	ch := q.changed
	q.mu.Unlock()
	ok := true
	select {
	case <-ch:
	case <-ctx.Done():
		ok = false
	}
	q.mu.Lock()
	q.waiters--
	return ok
}

func (q *queue) len() int { return len(q.buf) - q.head }

func (q *queue) pop() *item.Item {
	it := q.buf[q.head]
	q.buf[q.head] = nil
	q.head++
	if q.head == len(q.buf) {
		q.buf = q.buf[:0]
		q.head = 0
	} else if q.head > 1024 && q.head*2 > len(q.buf) {
		n := copy(q.buf, q.buf[q.head:])
		clear(q.buf[n:])
		q.buf = q.buf[:n]
		q.head = 0
	}
	return it
}

// Sender is one producer handle. Clone it for every additional producer
// and Close each handle exactly once when done.
type Sender struct {
	q      *queue
	closed atomic.Bool
}

// Send enqueues it. With a capacity it blocks while the queue is full.
func (s *Sender) Send(it *item.Item) error {
	if s.closed.Load() {
		return ErrSenderClosed
	}

	q := s.q
	q.mu.Lock()
	for {
		if q.gone {
			q.mu.Unlock()
			return ErrReceiverGone
		}
		if q.capacity == 0 || q.len() < q.capacity {
			break
		}
		q.wait(context.Background())
	}
	q.buf = append(q.buf, it)
	q.broadcast()
	q.mu.Unlock()
	return nil
}

// Clone registers another producer on the same queue.
func (s *Sender) Clone() *Sender {
	s.q.mu.Lock()
	s.q.senders++
	s.q.mu.Unlock()
	return &Sender{q: s.q}
}

// Close releases this producer handle. Repeated calls are no-ops.
func (s *Sender) Close() {
	if s.closed.Swap(true) {
		return
	}
	s.q.mu.Lock()
	s.q.senders--
	s.q.broadcast()
	s.q.mu.Unlock()
}

// Receiver is the single consumer handle.
type Receiver struct {
	q *queue
}

// Recv blocks for the next item. ok is false at end of stream, after
// Close, or when ctx is done.
func (r *Receiver) Recv(ctx context.Context) (*item.Item, bool) {
	q := r.q
	q.mu.Lock()
	for {
		if q.len() > 0 {
			it := q.pop()
			if q.capacity > 0 {
				q.broadcast()
			}
			q.mu.Unlock()
			return it, true
		}
		if q.senders == 0 || q.gone {
			q.mu.Unlock()
			return nil, false
		}
		if !q.wait(ctx) {
			q.mu.Unlock()
			return nil, false
		}
	}
}

// TryRecv returns the next item without blocking.
func (r *Receiver) TryRecv() (*item.Item, bool) {
	q := r.q
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.len() == 0 {
		return nil, false
	}
	it := q.pop()
	if q.capacity > 0 {
		q.broadcast()
	}
	return it, true
}

// Len returns the number of queued items.
func (r *Receiver) Len() int {
	r.q.mu.Lock()
	defer r.q.mu.Unlock()
	return r.q.len()
}

// Disconnected reports whether every sender has closed.
func (r *Receiver) Disconnected() bool {
	r.q.mu.Lock()
	defer r.q.mu.Unlock()
	return r.q.senders == 0
}

// Close drops the consumer. Queued items are discarded and producers get
// ErrReceiverGone from then on.
func (r *Receiver) Close() {
	q := r.q
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.gone {
		return
	}
	q.gone = true
	clear(q.buf)
	q.buf, q.head = nil, 0
	q.broadcast()
}
