package device

import (
	"fmt"
	"sync"
	"sync/atomic"
)

var queueIDs atomic.Uint64

// Queue is an in-order submission queue bound to a device.
//
// Work submitted through Submit runs asynchronously once all its
// dependencies completed. Ordering between submissions is not implied by
// the queue itself: callers declare it through dependency lists, usually
// obtained from the queue's OrderManager.
type Queue struct {
	id     uint64
	device *Device
	order  *OrderManager
}

// NewQueue creates a queue on the given device.
func NewQueue(dev *Device) *Queue {
	return &Queue{
		id:     queueIDs.Add(1),
		device: dev,
		order:  &OrderManager{},
	}
}

// Device returns the device the queue submits to.
func (q *Queue) Device() *Device {
	return q.device
}

// Order returns the sequential order manager of the queue.
func (q *Queue) Order() *OrderManager {
	return q.order
}

// String implements fmt.Stringer.
func (q *Queue) String() string {
	return fmt.Sprintf("Queue#%d(%s)", q.id, q.device)
}

// Submit runs task after every event in deps completed and returns the
// completion pair of the submission. If a dependency failed, task is not run
// and the submission fails with the dependency's error. A panicking task
// fails the submission instead of crashing the process.
func (q *Queue) Submit(deps []*Event, task func() error) EventPair {
	compute := NewEvent()
	host := NewEvent()
	deps = append([]*Event(nil), deps...)

	go func() {
		if err := WaitFor(deps...); err != nil {
			compute.complete(err)
			host.complete(err)
			return
		}
		err := runTask(task)
		compute.complete(err)
		host.complete(err)
	}()

	return EventPair{Host: host, Compute: compute}
}

func runTask(task func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("device task failed: %v", r)
		}
	}()
	return task()
}

// SubmitOrdered submits task with every event already registered on the
// queue as dependencies plus extra, and registers the returned pair. It
// fails without running task while an earlier failure is unobserved; see
// OrderManager.
func (q *Queue) SubmitOrdered(extra []*Event, task func() error) EventPair {
	deps := append(q.order.SubmittedEvents(), extra...)
	pair := q.Submit(deps, task)
	q.order.AddEventPair(pair)
	return pair
}

// Wait blocks until every submission registered on the queue completed.
func (q *Queue) Wait() error {
	return q.order.Wait()
}

// OrderManager tracks the submissions made on a queue so that later
// submissions can be ordered after them.
//
// A failed submission stays registered until Wait observes it. Until then
// every ordered submission on the queue depends on it and fails with its
// error without running, even when it does not touch the failed operands.
// Submissions made through Queue.Submit with explicit dependencies are not
// affected. Call Queue.Wait after an error to recover the queue.
type OrderManager struct {
	mu      sync.Mutex
	host    []*Event
	compute []*Event
}

// SubmittedEvents returns the compute events of every registered submission
// that has not completed yet.
func (m *OrderManager) SubmittedEvents() []*Event {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pruneLocked()
	return append([]*Event(nil), m.compute...)
}

// AddEventPair registers a submission.
func (m *OrderManager) AddEventPair(p EventPair) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pruneLocked()
	if p.Host != nil {
		m.host = append(m.host, p.Host)
	}
	if p.Compute != nil {
		m.compute = append(m.compute, p.Compute)
	}
}

// Wait blocks until every registered submission completed and returns the
// first error among them. Failed submissions are forgotten afterwards.
func (m *OrderManager) Wait() error {
	m.mu.Lock()
	events := append(append([]*Event(nil), m.compute...), m.host...)
	m.mu.Unlock()

	err := WaitFor(events...)

	m.mu.Lock()
	m.host = dropEvents(m.host, events)
	m.compute = dropEvents(m.compute, events)
	m.mu.Unlock()
	return err
}

// pruneLocked forgets successfully completed events. Failed ones are kept
// so that dependents observe the failure.
func (m *OrderManager) pruneLocked() {
	m.host = keepPending(m.host)
	m.compute = keepPending(m.compute)
}

func keepPending(events []*Event) []*Event {
	kept := events[:0]
	for _, e := range events {
		if e.IsComplete() && e.err == nil {
			continue
		}
		kept = append(kept, e)
	}
	return kept
}

func dropEvents(events, drop []*Event) []*Event {
	seen := make(map[*Event]struct{}, len(drop))
	for _, e := range drop {
		seen[e] = struct{}{}
	}
	kept := events[:0]
	for _, e := range events {
		if _, ok := seen[e]; !ok {
			kept = append(kept, e)
		}
	}
	return kept
}

// ExecutionQueue returns the queue all operands share, or nil when they
// were allocated on different queues.
func ExecutionQueue(queues ...*Queue) *Queue {
	var q *Queue
	for _, cur := range queues {
		if cur == nil {
			continue
		}
		if q == nil {
			q = cur
			continue
		}
		if q != cur {
			return nil
		}
	}
	return q
}
