// Package clock drives periodic game triggers.
//
// A Scheduler owns one ticker per trigger for the lifetime of a single run
// (one Playing epoch of a game). Triggers that are ready together are
// coalesced into one bitmask and handed to the target in a single call, so
// the target sees a deterministic processing order for simultaneous ticks.
package clock

import (
	"sync"
	"time"
)

// Ticker delivers ticks on a channel until stopped.
type Ticker interface {
	C() <-chan time.Time
	Stop()
}

// Clock creates tickers. Production code uses Real; tests use a Manual clock.
type Clock interface {
	NewTicker(d time.Duration) Ticker
}

type realClock struct{}

type realTicker struct {
	t *time.Ticker
}

func (r realTicker) C() <-chan time.Time { return r.t.C }
func (r realTicker) Stop()               { r.t.Stop() }

// Real returns a Clock backed by time.Ticker.
func Real() Clock {
	return realClock{}
}

func (realClock) NewTicker(d time.Duration) Ticker {
	return realTicker{t: time.NewTicker(d)}
}

// Scaled returns a Clock whose tickers run factor times faster than base.
// Used by headless simulation to play a full round in a fraction of the time.
func Scaled(base Clock, factor float64) Clock {
	if factor <= 0 {
		factor = 1
	}
	return scaledClock{base: base, factor: factor}
}

type scaledClock struct {
	base   Clock
	factor float64
}

func (s scaledClock) NewTicker(d time.Duration) Ticker {
	scaled := time.Duration(float64(d) / s.factor)
	if scaled <= 0 {
		scaled = time.Nanosecond
	}
	return s.base.NewTicker(scaled)
}

// Manual is a Clock whose time only moves when Advance is called.
type Manual struct {
	mu      sync.Mutex
	now     time.Time
	tickers map[*manualTicker]struct{}
}

// NewManual creates a manual clock starting at the given time.
func NewManual(start time.Time) *Manual {
	return &Manual{
		now:     start,
		tickers: make(map[*manualTicker]struct{}),
	}
}

type manualTicker struct {
	clock  *Manual
	period time.Duration
	next   time.Time
	ch     chan time.Time
}

func (t *manualTicker) C() <-chan time.Time { return t.ch }

func (t *manualTicker) Stop() {
	t.clock.mu.Lock()
	defer t.clock.mu.Unlock()
	delete(t.clock.tickers, t)
}

// NewTicker registers a ticker that fires every d of manual time.
func (m *Manual) NewTicker(d time.Duration) Ticker {
	m.mu.Lock()
	defer m.mu.Unlock()
	t := &manualTicker{
		clock:  m,
		period: d,
		next:   m.now.Add(d),
		ch:     make(chan time.Time, 1),
	}
	m.tickers[t] = struct{}{}
	return t
}

// Active returns the number of tickers that have not been stopped.
func (m *Manual) Active() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.tickers)
}

// Now returns the current manual time.
func (m *Manual) Now() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.now
}

// Advance moves time forward and fires every ticker whose deadline passed.
// Like time.Ticker, a ticker whose previous tick is still unread drops the
// new one.
func (m *Manual) Advance(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.now = m.now.Add(d)
	for t := range m.tickers {
		for !t.next.After(m.now) {
			select {
			case t.ch <- t.next:
			default:
			}
			t.next = t.next.Add(t.period)
		}
	}
}
