package mining

import (
	"sync/atomic"
	"time"
)

// Clock supplies monotonic epoch seconds. The engine only ever reads it;
// time progression is driven from outside.
type Clock interface {
	Now() int64
}

type systemClock struct{}

func (systemClock) Now() int64 { return time.Now().Unix() }

// SystemClock returns a clock backed by the wall clock.
func SystemClock() Clock { return systemClock{} }

// ManualClock is a settable clock for tests and dev mode.
type ManualClock struct {
	sec atomic.Int64
}

func NewManualClock(start int64) *ManualClock {
	c := &ManualClock{}
	c.sec.Store(start)
	return c
}

func (c *ManualClock) Now() int64 { return c.sec.Load() }

// Advance moves the clock forward by d seconds.
func (c *ManualClock) Advance(d int64) { c.sec.Add(d) }
