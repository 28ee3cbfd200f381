// Package timer is a coarse clock for I/O deadlines. Setting a deadline per request
// otherwise means a time.Now call on every read and write.
package timer

import (
	"sync"
	"sync/atomic"
	"time"
)

// Resolution is how often the clock is updated. Deadlines are measured in seconds, so
// being half a second late doesn't matter.
const Resolution = 500 * time.Millisecond

var (
	millis = new(atomic.Int64)
	once   sync.Once
)

func start() {
	millis.Store(time.Now().UnixMilli())

	go func() {
		for {
			time.Sleep(Resolution)
			millis.Store(time.Now().UnixMilli())
		}
	}()
}

// Now returns the current time at Resolution precision. The clock starts ticking on
// the first call.
func Now() time.Time {
	once.Do(start)
	return time.UnixMilli(millis.Load())
}

// Deadline returns the moment after the timeout has elapsed since Now.
func Deadline(timeout time.Duration) time.Time {
	return Now().Add(timeout)
}
