package collector

// InterruptCapacity is how many pending signals an Interrupt holds. Signals
// sent while it is full are dropped.
const InterruptCapacity = 1024

// Interrupt asks a command run to stop. The ingestion goroutine also sends
// on it when its input ends, which releases the watcher.
type Interrupt struct {
	ch chan struct{}
}

// NewInterrupt returns an empty interrupt.
func NewInterrupt() *Interrupt {
	return &Interrupt{ch: make(chan struct{}, InterruptCapacity)}
}

// Send posts a signal without blocking. It reports false when the signal
// was dropped because the buffer is full.
func (i *Interrupt) Send() bool {
	select {
	case i.ch <- struct{}{}:
		return true
	default:
		return false
	}
}

// C returns the channel signals arrive on.
func (i *Interrupt) C() <-chan struct{} { return i.ch }

// Pending returns the number of buffered signals.
func (i *Interrupt) Pending() int { return len(i.ch) }
