// Package tui provides the Bubble Tea integration for the commando shooter.
// It handles the terminal UI loop, input mapping, and round scheduling.
//
// A round runs on a single tick chain at the period of its fastest trigger.
// Each tick advances the engine once with every trigger that has come due,
// so the engine sees the same coalesced batches as under the scheduler.
package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/tui-commando/internal/clock"
	"github.com/vovakirdan/tui-commando/internal/games/commando"
)

// tickMsg wakes the round identified by epoch at time at.
type tickMsg struct {
	at    time.Time
	epoch uint64
}

// tickCmd returns a Bubble Tea command that delivers one tick after every.
func tickCmd(every time.Duration, epoch uint64) tea.Cmd {
	return tea.Tick(every, func(at time.Time) tea.Msg {
		return tickMsg{at: at, epoch: epoch}
	})
}

// tickPlan tracks when each trigger of one round is next due.
type tickPlan struct {
	epoch    uint64
	every    time.Duration // Chain period, the shortest trigger period
	triggers []clock.Trigger
	next     []time.Time
}

func newTickPlan(triggers []clock.Trigger, epoch uint64, start time.Time) *tickPlan {
	p := &tickPlan{epoch: epoch}
	for _, t := range triggers {
		if t.Every <= 0 {
			continue
		}
		p.triggers = append(p.triggers, t)
		p.next = append(p.next, start.Add(t.Every))
		if p.every == 0 || t.Every < p.every {
			p.every = t.Every
		}
	}
	return p
}

// due returns the mask of triggers whose deadline has passed at now and
// moves each of them to its first deadline after now. Missed periods
// collapse into one run.
func (p *tickPlan) due(now time.Time) commando.Tick {
	var mask commando.Tick
	for i, t := range p.triggers {
		if p.next[i].After(now) {
			continue
		}
		mask |= commando.Tick(t.Mask)
		missed := now.Sub(p.next[i])/t.Every + 1
		p.next[i] = p.next[i].Add(missed * t.Every)
	}
	return mask
}
