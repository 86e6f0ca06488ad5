package tarn

import (
	"sync"
	"time"

	"github.com/zoobzio/clockz"
)

// Fault is one recorded failure: a rejected mutation, a faulting
// binding, or a failed effect pass.
type Fault struct {
	// Op is the operation that failed: "set", "update", "patch", or
	// "effect:<name>".
	Op string

	// Time is when the fault was recorded.
	Time time.Time

	// Err is the underlying error.
	Err error
}

// faultLog is a thread-safe ring buffer of recent faults.
type faultLog struct {
	mu     sync.RWMutex
	clock  clockz.Clock
	faults []Fault
	size   int
	head   int
	count  int
}

// newFaultLog creates a fault ring with the given capacity. If size is
// 0, retention is disabled.
func newFaultLog(size int, clock clockz.Clock) *faultLog {
	if size <= 0 {
		return nil
	}
	return &faultLog{
		clock:  clock,
		faults: make([]Fault, size),
		size:   size,
	}
}

// record adds a fault to the ring.
func (l *faultLog) record(op string, err error) {
	if l == nil {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	l.faults[l.head] = Fault{Op: op, Time: l.clock.Now(), Err: err}
	l.head = (l.head + 1) % l.size
	if l.count < l.size {
		l.count++
	}
}

// last returns the most recent fault, or nil.
func (l *faultLog) last() *Fault {
	if l == nil {
		return nil
	}
	l.mu.RLock()
	defer l.mu.RUnlock()

	if l.count == 0 {
		return nil
	}
	f := l.faults[(l.head-1+l.size)%l.size]
	return &f
}

// history returns recorded faults, oldest first.
func (l *faultLog) history() []Fault {
	if l == nil {
		return nil
	}
	l.mu.RLock()
	defer l.mu.RUnlock()

	if l.count == 0 {
		return nil
	}
	result := make([]Fault, l.count)
	start := (l.head - l.count + l.size) % l.size
	for i := 0; i < l.count; i++ {
		result[i] = l.faults[(start+i)%l.size]
	}
	return result
}
