package tui

import (
	"bytes"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/tui-commando/internal/config"
	"github.com/vovakirdan/tui-commando/internal/core"
	"github.com/vovakirdan/tui-commando/internal/games/commando"
)

func newTestModel(t *testing.T, opts ...ModelOption) (Model, *commando.Engine) {
	t.Helper()
	engine := commando.New(config.DefaultCommandoConfig(), commando.WithSeed(1))
	cfg := core.RuntimeConfig{ScreenW: 80, ScreenH: 25, TickRate: 60, Seed: 1}
	return NewModel(engine, cfg, opts...), engine
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	nm, ok := next.(Model)
	if !ok {
		t.Fatalf("Update returned %T, expected Model", next)
	}
	return nm, cmd
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestKeyMapActions(t *testing.T) {
	km := defaultKeyMap()
	tests := []struct {
		msg  tea.KeyMsg
		want core.Action
	}{
		{tea.KeyMsg{Type: tea.KeyUp}, core.ActionAimUp},
		{runes("w"), core.ActionAimUp},
		{tea.KeyMsg{Type: tea.KeyDown}, core.ActionAimDown},
		{runes("s"), core.ActionAimDown},
		{tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}, core.ActionFire},
		{runes("f"), core.ActionFire},
		{tea.KeyMsg{Type: tea.KeyEnter}, core.ActionConfirm},
		{runes("r"), core.ActionRestart},
		{tea.KeyMsg{Type: tea.KeyCtrlS}, core.ActionScreenshot},
		{runes("q"), core.ActionQuit},
		{tea.KeyMsg{Type: tea.KeyCtrlC}, core.ActionQuit},
		{runes("x"), core.ActionNone},
	}

	for _, tc := range tests {
		if got := km.Action(tc.msg); got != tc.want {
			t.Errorf("Action(%q) = %v, expected %v", tc.msg.String(), got, tc.want)
		}
	}
}

func TestMouseClickFiresAtNormalizedPoint(t *testing.T) {
	m, engine := newTestModel(t)

	vp := commando.PlayfieldViewport(80, 24, 100)
	col, row := vp.Project(50, 20)
	wantX, wantY, _ := vp.Normalize(col, row)

	m, cmd := update(t, m, tea.MouseMsg{X: col, Y: row, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	if cmd == nil {
		t.Error("first shot should arm the round's ticks")
	}

	snap := engine.Snapshot()
	if snap.Phase != commando.PhasePlaying {
		t.Fatalf("Phase = %v, expected playing", snap.Phase)
	}
	if snap.CannonY != wantY {
		t.Errorf("CannonY = %v, expected %v", snap.CannonY, wantY)
	}
	if len(snap.Bullets) != 1 {
		t.Fatalf("len(Bullets) = %d, expected 1", len(snap.Bullets))
	}
	if snap.Bullets[0].VX <= 0 || wantX <= snap.CannonX {
		t.Errorf("bullet should head right toward x=%v, got VX=%v", wantX, snap.Bullets[0].VX)
	}
	if m.aimY != wantY {
		t.Errorf("aimY = %v, expected %v", m.aimY, wantY)
	}
}

func TestMouseIgnoredOutsidePlayfield(t *testing.T) {
	m, engine := newTestModel(t)

	tests := []tea.MouseMsg{
		{X: 10, Y: 0, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft},  // HUD row
		{X: 10, Y: 10, Action: tea.MouseActionRelease, Button: tea.MouseButtonLeft}, // release
		{X: 10, Y: 10, Action: tea.MouseActionPress, Button: tea.MouseButtonRight},  // right button
	}
	for _, msg := range tests {
		update(t, m, msg)
	}
	if p := engine.Phase(); p != commando.PhaseIdle {
		t.Errorf("Phase = %v, expected idle", p)
	}
}

func TestFireArmsTicksOncePerRound(t *testing.T) {
	m, engine := newTestModel(t)
	space := tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}

	m, cmd := update(t, m, space)
	if cmd == nil {
		t.Fatal("first shot did not arm ticks")
	}
	m, cmd = update(t, m, space)
	if cmd != nil {
		t.Error("second shot re-armed ticks for the same round")
	}

	// Restart and fire again: a new round gets a new chain.
	m, _ = update(t, m, runes("r"))
	if p := engine.Phase(); p != commando.PhaseIdle {
		t.Fatalf("Phase = %v after restart, expected idle", p)
	}
	_, cmd = update(t, m, space)
	if cmd == nil {
		t.Error("new round did not arm ticks")
	}
}

func TestTickRearmsWhileLive(t *testing.T) {
	m, engine := newTestModel(t)
	m, _ = update(t, m, runes("f"))
	epoch := engine.Epoch()

	// One second on, frame, collision, spawn and countdown are all due.
	_, cmd := update(t, m, tickMsg{at: time.Now().Add(time.Second), epoch: epoch})
	if cmd == nil {
		t.Error("live tick was not re-armed")
	}
	snap := engine.Snapshot()
	if n := len(snap.Enemies); n != 1 {
		t.Errorf("len(Enemies) = %d, expected 1", n)
	}
	if snap.Remaining != snap.Duration-1 {
		t.Errorf("Remaining = %d, expected %d", snap.Remaining, snap.Duration-1)
	}
}

func TestStaleTickDropped(t *testing.T) {
	m, engine := newTestModel(t)
	m, _ = update(t, m, runes("f"))
	stale := engine.Epoch()
	m, _ = update(t, m, runes("r"))

	_, cmd := update(t, m, tickMsg{at: time.Now().Add(time.Second), epoch: stale})
	if cmd != nil {
		t.Error("stale tick was re-armed")
	}
	if n := len(engine.Snapshot().Enemies); n != 0 {
		t.Errorf("stale tick spawned %d enemies", n)
	}
}

func TestAimKeysMoveCursor(t *testing.T) {
	m, engine := newTestModel(t)

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyUp})
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyUp})
	if m.aimY != 40 {
		t.Errorf("aimY = %v, expected 40", m.aimY)
	}

	update(t, m, runes("f"))
	if y := engine.Snapshot().CannonY; y != 40 {
		t.Errorf("CannonY = %v, expected 40", y)
	}
}

func TestWelcomeFlow(t *testing.T) {
	m, engine := newTestModel(t)
	m.Init()

	if !strings.Contains(m.View(), "COMMANDO") {
		t.Error("welcome screen not shown after Init")
	}

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if engine.Snapshot().WelcomeShown {
		t.Error("enter did not dismiss the welcome screen")
	}
	if !strings.Contains(m.View(), "Click or press SPACE to start") {
		t.Error("start prompt not shown after welcome")
	}
}

func TestBellRingsOnShot(t *testing.T) {
	var buf bytes.Buffer
	m, _ := newTestModel(t, WithBell(&buf))

	update(t, m, runes("f"))
	if buf.String() != "\a" {
		t.Errorf("bell output = %q, expected one BEL", buf.String())
	}
}

func TestResizeKeepsFooterRow(t *testing.T) {
	m, _ := newTestModel(t)
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 100, Height: 30})

	if m.screen.Width() != 100 || m.screen.Height() != 29 {
		t.Errorf("screen = %dx%d, expected 100x29", m.screen.Width(), m.screen.Height())
	}
	lines := strings.Split(m.View(), "\n")
	if len(lines) != 30 {
		t.Errorf("view has %d lines, expected 30", len(lines))
	}
}

func TestQuitKey(t *testing.T) {
	m, _ := newTestModel(t)
	m, cmd := update(t, m, runes("q"))
	if cmd == nil {
		t.Fatal("quit returned no command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("quit command did not produce tea.QuitMsg")
	}
	if m.View() != "" {
		t.Error("view should be empty after quitting")
	}
}
