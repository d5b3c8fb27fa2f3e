package clock

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	mu    sync.Mutex
	calls []call
	limit int // stop the run after this many calls, 0 means never
}

type call struct {
	epoch uint64
	mask  uint32
}

func (r *recorder) target(epoch uint64, mask uint32) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, call{epoch: epoch, mask: mask})
	return r.limit == 0 || len(r.calls) < r.limit
}

func (r *recorder) snapshot() []call {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]call, len(r.calls))
	copy(out, r.calls)
	return out
}

func (r *recorder) seen(mask uint32) bool {
	var got uint32
	for _, c := range r.snapshot() {
		got |= c.mask
	}
	return got&mask == mask
}

var testTriggers = []Trigger{
	{Name: "fast", Every: 10 * time.Millisecond, Mask: 1},
	{Name: "slow", Every: 50 * time.Millisecond, Mask: 2},
}

func TestManualTickerFires(t *testing.T) {
	m := NewManual(time.Unix(0, 0))
	tk := m.NewTicker(10 * time.Millisecond)

	m.Advance(5 * time.Millisecond)
	select {
	case <-tk.C():
		t.Fatal("ticker fired before its period elapsed")
	default:
	}

	m.Advance(5 * time.Millisecond)
	select {
	case <-tk.C():
	default:
		t.Fatal("ticker did not fire after its period")
	}

	tk.Stop()
	assert.Equal(t, 0, m.Active())
}

func TestManualTickerDropsUnread(t *testing.T) {
	m := NewManual(time.Unix(0, 0))
	tk := m.NewTicker(time.Millisecond)

	m.Advance(10 * time.Millisecond)
	<-tk.C()
	select {
	case <-tk.C():
		t.Fatal("expected unread ticks to be dropped")
	default:
	}
}

func TestSchedulerDeliversTriggers(t *testing.T) {
	m := NewManual(time.Unix(0, 0))
	rec := &recorder{}
	s := NewScheduler(m, rec.target, testTriggers...)

	s.Start(7)
	defer s.Stop()
	require.Equal(t, 2, m.Active())

	m.Advance(10 * time.Millisecond)
	require.Eventually(t, func() bool { return rec.seen(1) }, time.Second, time.Millisecond)

	m.Advance(40 * time.Millisecond)
	require.Eventually(t, func() bool { return rec.seen(2) }, time.Second, time.Millisecond)

	for _, c := range rec.snapshot() {
		assert.Equal(t, uint64(7), c.epoch)
	}
}

func TestSchedulerStopIsSynchronous(t *testing.T) {
	m := NewManual(time.Unix(0, 0))
	rec := &recorder{}
	s := NewScheduler(m, rec.target, testTriggers...)

	s.Start(1)
	m.Advance(10 * time.Millisecond)
	require.Eventually(t, func() bool { return len(rec.snapshot()) > 0 }, time.Second, time.Millisecond)

	s.Stop()
	assert.False(t, s.Running())
	assert.Equal(t, 0, m.Active(), "tickers must be stopped when Stop returns")

	before := len(rec.snapshot())
	m.Advance(time.Second)
	time.Sleep(20 * time.Millisecond)
	assert.Len(t, rec.snapshot(), before, "no trigger may fire after Stop")
}

func TestSchedulerEndsWhenTargetDeclines(t *testing.T) {
	m := NewManual(time.Unix(0, 0))
	rec := &recorder{limit: 1}
	s := NewScheduler(m, rec.target, testTriggers...)

	s.Start(1)
	m.Advance(10 * time.Millisecond)

	require.Eventually(t, func() bool { return !s.Running() }, time.Second, time.Millisecond)
	assert.Equal(t, 0, m.Active())

	m.Advance(time.Second)
	time.Sleep(20 * time.Millisecond)
	assert.Len(t, rec.snapshot(), 1)
}

func TestSchedulerRestartUsesFreshTickers(t *testing.T) {
	m := NewManual(time.Unix(0, 0))
	rec := &recorder{}
	s := NewScheduler(m, rec.target, testTriggers...)

	s.Start(1)
	m.Advance(5 * time.Millisecond)
	s.Start(2)
	defer s.Stop()

	assert.Equal(t, 2, m.Active(), "old run's tickers must be gone")
	assert.Equal(t, uint64(2), s.Epoch())

	// The new fast ticker is due 10ms after the restart, not after the old one.
	m.Advance(5 * time.Millisecond)
	time.Sleep(20 * time.Millisecond)
	assert.Empty(t, rec.snapshot())

	m.Advance(5 * time.Millisecond)
	require.Eventually(t, func() bool { return rec.seen(1) }, time.Second, time.Millisecond)
	for _, c := range rec.snapshot() {
		assert.Equal(t, uint64(2), c.epoch, "stale run delivered a trigger")
	}
}

func TestSchedulerIgnoresStaleStart(t *testing.T) {
	m := NewManual(time.Unix(0, 0))
	rec := &recorder{}
	s := NewScheduler(m, rec.target, testTriggers...)

	s.Start(5)
	defer s.Stop()
	s.Start(3)

	assert.True(t, s.Running())
	assert.Equal(t, uint64(5), s.Epoch(), "an older epoch must not replace the current run")
	assert.Equal(t, 2, m.Active())
}

func TestSchedulerStopBefore(t *testing.T) {
	m := NewManual(time.Unix(0, 0))
	rec := &recorder{}
	s := NewScheduler(m, rec.target, testTriggers...)

	s.Start(4)
	s.StopBefore(4)
	assert.True(t, s.Running(), "StopBefore must spare a run of the same epoch")

	s.StopBefore(2)
	assert.True(t, s.Running(), "StopBefore must spare a newer run")

	s.StopBefore(5)
	assert.False(t, s.Running())
	assert.Equal(t, 0, m.Active())

	// Nothing to stop.
	s.StopBefore(9)
	assert.Equal(t, uint64(0), s.Epoch())
}

func TestSchedulerIgnoresNonPositivePeriods(t *testing.T) {
	m := NewManual(time.Unix(0, 0))
	s := NewScheduler(m, func(uint64, uint32) bool { return true },
		Trigger{Name: "never", Every: 0, Mask: 1},
		Trigger{Name: "frame", Every: time.Millisecond, Mask: 2},
	)
	s.Start(1)
	defer s.Stop()
	assert.Equal(t, 1, m.Active())
}

func TestScaledClock(t *testing.T) {
	m := NewManual(time.Unix(0, 0))
	fast := Scaled(m, 10)
	tk := fast.NewTicker(100 * time.Millisecond)
	defer tk.Stop()

	m.Advance(10 * time.Millisecond)
	select {
	case <-tk.C():
	default:
		t.Fatal("scaled ticker did not fire at 1/10 of its period")
	}
}
