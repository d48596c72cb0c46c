package device

import (
	"sync"
)

// Event is an asynchronous completion handle for work submitted to a queue.
type Event struct {
	done chan struct{}
	once sync.Once
	err  error
}

// NewEvent creates an event that has not completed yet.
func NewEvent() *Event {
	return &Event{done: make(chan struct{})}
}

// CompletedEvent returns an event that has already completed successfully.
func CompletedEvent() *Event {
	e := NewEvent()
	e.complete(nil)
	return e
}

func (e *Event) complete(err error) {
	e.once.Do(func() {
		e.err = err
		close(e.done)
	})
}

// Done returns a channel that is closed when the event completes.
func (e *Event) Done() <-chan struct{} {
	return e.done
}

// IsComplete reports whether the event has completed.
func (e *Event) IsComplete() bool {
	select {
	case <-e.done:
		return true
	default:
		return false
	}
}

// Wait blocks until the event completes and returns the error of the
// submitted task, if any.
func (e *Event) Wait() error {
	<-e.done
	return e.err
}

// WaitFor blocks until every event completes and returns the first error.
func WaitFor(events ...*Event) error {
	var first error
	for _, e := range events {
		if e == nil {
			continue
		}
		if err := e.Wait(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// EventPair is the pair of completion handles returned by every submission.
//
// Compute completes when the kernel finished writing its outputs. Host
// completes after Compute, once the submission released the arguments it
// kept alive. Later submissions touching the same buffers must depend on
// Compute; waiting on Host guarantees the arguments may be dropped.
type EventPair struct {
	Host    *Event
	Compute *Event
}

// Wait blocks until both events complete.
func (p EventPair) Wait() error {
	return WaitFor(p.Compute, p.Host)
}
