package clock

import (
	"sync"
	"time"
)

// Trigger is one periodic process. Mask is the bit the target receives
// when this trigger fires.
type Trigger struct {
	Name  string
	Every time.Duration
	Mask  uint32
}

// Target receives the coalesced mask of triggers that fired for a run.
// Returning false ends the run and stops all of its tickers.
type Target func(epoch uint64, mask uint32) bool

// Scheduler runs a set of triggers against a target, one run at a time.
type Scheduler struct {
	clock    Clock
	triggers []Trigger
	target   Target

	ctl sync.Mutex // serializes Start, Stop and StopBefore
	mu  sync.Mutex
	cur *run
}

type run struct {
	epoch   uint64
	tickers []Ticker
	quit    chan struct{}
	done    chan struct{}
	once    sync.Once
}

// NewScheduler creates a scheduler. Triggers with a non-positive period are ignored.
func NewScheduler(c Clock, target Target, triggers ...Trigger) *Scheduler {
	active := make([]Trigger, 0, len(triggers))
	for _, t := range triggers {
		if t.Every > 0 {
			active = append(active, t)
		}
	}
	return &Scheduler{
		clock:    c,
		triggers: active,
		target:   target,
	}
}

// Start begins a fresh run for epoch. Any previous run is canceled and
// waited for first, so its tickers never fire into the new run. A Start
// for an epoch older than the current run is ignored.
// Start and Stop must not be called from inside the target.
func (s *Scheduler) Start(epoch uint64) {
	s.ctl.Lock()
	defer s.ctl.Unlock()

	s.mu.Lock()
	prev := s.cur
	if prev != nil && prev.epoch > epoch {
		s.mu.Unlock()
		return
	}
	s.cur = nil
	s.mu.Unlock()
	prev.cancel()

	r := &run{
		epoch: epoch,
		quit:  make(chan struct{}),
		done:  make(chan struct{}),
	}
	// Tickers are created before the goroutine starts so that time moved
	// right after Start is already observed.
	for _, t := range s.triggers {
		r.tickers = append(r.tickers, s.clock.NewTicker(t.Every))
	}

	s.mu.Lock()
	s.cur = r
	s.mu.Unlock()

	go s.loop(r)
}

// Stop cancels the current run and waits until it has exited.
func (s *Scheduler) Stop() {
	s.ctl.Lock()
	defer s.ctl.Unlock()
	s.stopIf(func(*run) bool { return true })
}

// StopBefore cancels the current run only if it belongs to an epoch older
// than epoch. A run started after the stop request was issued survives.
func (s *Scheduler) StopBefore(epoch uint64) {
	s.ctl.Lock()
	defer s.ctl.Unlock()
	s.stopIf(func(r *run) bool { return r.epoch < epoch })
}

// stopIf cancels the current run when match accepts it. Caller holds ctl.
func (s *Scheduler) stopIf(match func(*run) bool) {
	s.mu.Lock()
	r := s.cur
	if r == nil || !match(r) {
		s.mu.Unlock()
		return
	}
	s.cur = nil
	s.mu.Unlock()
	r.cancel()
}

// Running reports whether a run is active.
func (s *Scheduler) Running() bool {
	s.mu.Lock()
	r := s.cur
	s.mu.Unlock()
	if r == nil {
		return false
	}
	select {
	case <-r.done:
		return false
	default:
		return true
	}
}

// Epoch returns the epoch of the current run, or 0 if none.
func (s *Scheduler) Epoch() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cur == nil {
		return 0
	}
	return s.cur.epoch
}

func (r *run) cancel() {
	if r == nil {
		return
	}
	r.once.Do(func() { close(r.quit) })
	<-r.done
}

func (s *Scheduler) loop(r *run) {
	fired := make(chan uint32, len(r.tickers))
	var wg sync.WaitGroup

	for i, t := range r.tickers {
		mask := s.triggers[i].Mask
		wg.Add(1)
		go func(t Ticker) {
			defer wg.Done()
			for {
				select {
				case <-t.C():
					select {
					case fired <- mask:
					case <-r.quit:
						return
					}
				case <-r.quit:
					return
				}
			}
		}(t)
	}

	defer func() {
		r.once.Do(func() { close(r.quit) })
		wg.Wait()
		for _, t := range r.tickers {
			t.Stop()
		}
		close(r.done)
	}()

	for {
		select {
		case <-r.quit:
			return
		case mask := <-fired:
			// Fold in everything else that is already due.
		drain:
			for {
				select {
				case m := <-fired:
					mask |= m
				default:
					break drain
				}
			}
			if !s.target(r.epoch, mask) {
				return
			}
		}
	}
}
