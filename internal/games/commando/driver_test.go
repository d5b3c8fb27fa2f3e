package commando

import (
	"sync"
	"testing"
	"time"

	"github.com/vovakirdan/tui-commando/internal/clock"
	"github.com/vovakirdan/tui-commando/internal/config"
)

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", what)
}

func TestTriggers(t *testing.T) {
	cfg := config.DefaultCommandoConfig()
	triggers := Triggers(cfg, 50)

	want := map[string]time.Duration{
		"frame":     20 * time.Millisecond,
		"collision": 16 * time.Millisecond,
		"spawn":     800 * time.Millisecond,
		"ramp":      5 * time.Second,
		"countdown": time.Second,
	}
	if len(triggers) != len(want) {
		t.Fatalf("len(Triggers) = %d, expected %d", len(triggers), len(want))
	}
	var mask uint32
	for _, tr := range triggers {
		if tr.Every != want[tr.Name] {
			t.Errorf("%s period = %v, expected %v", tr.Name, tr.Every, want[tr.Name])
		}
		mask |= tr.Mask
	}
	if Tick(mask) != TickAll {
		t.Errorf("combined mask = %v, expected every trigger", Tick(mask))
	}
}

func TestDriveStartsAndStopsWithRound(t *testing.T) {
	m := clock.NewManual(time.Unix(0, 0))
	e := New(config.DefaultCommandoConfig(), WithSeed(3))
	s := Drive(e, m, 60)

	if s.Running() {
		t.Fatal("scheduler running before the first shot")
	}

	e.Fire(50, 50)
	if !s.Running() {
		t.Fatal("scheduler not running after the first shot")
	}
	if s.Epoch() != e.Epoch() {
		t.Errorf("scheduler epoch = %d, expected %d", s.Epoch(), e.Epoch())
	}

	m.Advance(800 * time.Millisecond)
	waitFor(t, "an enemy to spawn", func() bool { return len(e.Snapshot().Enemies) > 0 })

	e.Reset()
	if s.Running() {
		t.Error("scheduler still running after reset")
	}
	if n := m.Active(); n != 0 {
		t.Errorf("active tickers after reset = %d, expected 0", n)
	}

	// A new round gets new timers.
	e.Fire(50, 50)
	if !s.Running() || s.Epoch() != e.Epoch() {
		t.Error("scheduler did not restart for the new round")
	}
	e.Reset()
}

func TestDriveStopsOnWin(t *testing.T) {
	cfg := config.DefaultCommandoConfig()
	cfg.Timing.SurvivalSeconds = 1
	m := clock.NewManual(time.Unix(0, 0))
	e := New(cfg, WithSeed(3))
	s := Drive(e, m, 60)

	e.Fire(50, 50)
	m.Advance(time.Second)

	waitFor(t, "the round to end", func() bool { return e.Phase().Terminal() })
	waitFor(t, "the scheduler to stop", func() bool { return !s.Running() })
	if e.Phase() != PhaseWon {
		t.Errorf("Phase = %v, expected won", e.Phase())
	}
	if n := m.Active(); n != 0 {
		t.Errorf("active tickers after win = %d, expected 0", n)
	}
}

func TestDriveLateResetSparesNewRound(t *testing.T) {
	m := clock.NewManual(time.Unix(0, 0))
	entered := make(chan struct{})
	release := make(chan struct{})
	var once sync.Once

	// Registered ahead of the driver, so the reset is held back before the
	// driver's sink sees it.
	gate := SinkFunc(func(sig Signal) {
		if sig.Kind != SignalReset {
			return
		}
		once.Do(func() { close(entered) })
		<-release
	})
	e := New(config.DefaultCommandoConfig(), WithSeed(3), WithSignalSink(gate))
	s := Drive(e, m, 60)

	e.Fire(50, 50)

	resetDone := make(chan struct{})
	go func() {
		e.Reset()
		close(resetDone)
	}()
	<-entered

	// The next round starts while the reset is still being delivered.
	e.Fire(50, 50)
	close(release)
	<-resetDone

	if e.Phase() != PhasePlaying {
		t.Fatalf("Phase = %v, expected playing", e.Phase())
	}
	if !s.Running() {
		t.Fatal("late reset stopped the new round's timers")
	}
	if s.Epoch() != e.Epoch() {
		t.Errorf("scheduler epoch = %d, expected %d", s.Epoch(), e.Epoch())
	}
	if n := m.Active(); n != 5 {
		t.Errorf("active tickers = %d, expected 5", n)
	}
	e.Reset()
}
