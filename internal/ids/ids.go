// Package ids supplies injectable id generation for new records, so no
// store or service depends on package-level counters.
package ids

import (
	"sync"
	"time"
)

// Source yields identifiers for new records.
type Source interface {
	Next() int64
}

// Counter is a mutex-guarded monotonic source.
type Counter struct {
	mu   sync.Mutex
	next int64
}

// NewCounter returns a counter whose first Next() is start.
func NewCounter(start int64) *Counter {
	return &Counter{next: start}
}

// NewClockCounter seeds the counter from the wall clock in milliseconds,
// matching the original time-derived record ids. Later calls within the
// same session keep incrementing past the seed, so ids never collide
// in-process even when created within one millisecond.
func NewClockCounter(now func() time.Time) *Counter {
	if now == nil {
		now = time.Now
	}
	return &Counter{next: now().UnixMilli()}
}

// Next returns the next id.
func (c *Counter) Next() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	id := c.next
	c.next++
	return id
}
