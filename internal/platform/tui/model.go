package tui

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-commando/internal/clock"
	"github.com/vovakirdan/tui-commando/internal/core"
	"github.com/vovakirdan/tui-commando/internal/games/commando"
)

const (
	aimStep      = 5  // Playfield units per aim key press
	keyboardAimX = 90 // Keyboard shots aim at this x
)

// Model is the Bubble Tea model for one commando session.
type Model struct {
	engine   *commando.Engine
	screen   *core.Screen
	config   core.RuntimeConfig
	extent   float64
	triggers []clock.Trigger
	keys     keyMap
	help     help.Model
	logger   *log.Logger

	aimY     float64
	plan     *tickPlan // Deadlines of the round whose tick chain is running
	status   string
	quitting bool
}

// ModelOption configures a Model.
type ModelOption func(*Model)

// WithBell rings the terminal bell on w for shots and deaths.
func WithBell(w io.Writer) ModelOption {
	return func(m *Model) {
		m.engine.Subscribe(bellSink(w))
	}
}

// WithLogger sets the logger for best-effort failures such as screenshots.
func WithLogger(logger *log.Logger) ModelOption {
	return func(m *Model) { m.logger = logger }
}

// bellSink writes BEL for the two audible signals.
func bellSink(w io.Writer) commando.SignalSink {
	return commando.SinkFunc(func(sig commando.Signal) {
		switch sig.Kind {
		case commando.SignalShotFired, commando.SignalPlayerDied:
			//nolint:errcheck // Best-effort bell
			io.WriteString(w, "\a")
		}
	})
}

// NewModel creates a Bubble Tea model driving the given engine.
func NewModel(engine *commando.Engine, cfg core.RuntimeConfig, opts ...ModelOption) Model {
	gameCfg := engine.Config()
	m := Model{
		engine:   engine,
		screen:   core.NewScreen(cfg.ScreenW, core.Max(cfg.ScreenH-1, 1)),
		config:   cfg,
		extent:   gameCfg.Playfield.Size,
		triggers: commando.Triggers(gameCfg, cfg.FrameRate()),
		keys:     defaultKeyMap(),
		help:     help.New(),
		logger:   log.New(io.Discard),
		aimY:     gameCfg.Cannon.StartY,
	}
	for _, opt := range opts {
		opt(&m)
	}
	return m
}

// fitScreen sizes the game area to the terminal minus the help footer.
func (m *Model) fitScreen() {
	footer := 1
	if m.help.ShowAll {
		footer = len(m.keys.FullHelp()[0])
	}
	m.screen.Resize(m.config.ScreenW, core.Max(m.config.ScreenH-footer, 1))
}

// Init shows the welcome screen.
func (m Model) Init() tea.Cmd {
	m.engine.StartWelcome()
	return nil
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case tea.WindowSizeMsg:
		m.config.ScreenW = msg.Width
		m.config.ScreenH = msg.Height
		m.help.Width = msg.Width
		m.fitScreen()
		return m, nil

	case tickMsg:
		return m.handleTick(msg)
	}

	return m, nil
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.status = ""
	if key.Matches(msg, m.keys.Help) {
		m.help.ShowAll = !m.help.ShowAll
		m.fitScreen()
		return m, nil
	}

	switch m.keys.Action(msg) {
	case core.ActionQuit:
		m.quitting = true
		return m, tea.Quit
	case core.ActionScreenshot:
		m.saveScreenshot()
	case core.ActionAimUp:
		m.aimY = core.ClampF(m.aimY-aimStep, 0, m.extent)
	case core.ActionAimDown:
		m.aimY = core.ClampF(m.aimY+aimStep, 0, m.extent)
	case core.ActionFire:
		m.engine.Fire(keyboardAimX*m.extent/100, m.aimY)
	case core.ActionConfirm:
		m.engine.DismissWelcome()
	case core.ActionRestart:
		m.engine.Reset()
		m.aimY = m.engine.Config().Cannon.StartY
	}
	return m.armIfStarted()
}

// handleMouse fires at the clicked point.
func (m Model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if msg.Action != tea.MouseActionPress || msg.Button != tea.MouseButtonLeft {
		return m, nil
	}
	vp := commando.PlayfieldViewport(m.screen.Width(), m.screen.Height(), m.extent)
	x, y, ok := vp.Normalize(msg.X, msg.Y)
	if !ok {
		return m, nil
	}
	m.aimY = y
	m.engine.Fire(x, y)
	return m.armIfStarted()
}

// armIfStarted starts the tick chain when input has just started a round.
func (m Model) armIfStarted() (tea.Model, tea.Cmd) {
	if m.engine.Phase() != commando.PhasePlaying {
		return m, nil
	}
	epoch := m.engine.Epoch()
	if m.plan != nil && m.plan.epoch == epoch {
		return m, nil
	}
	m.plan = newTickPlan(m.triggers, epoch, time.Now())
	return m, tickCmd(m.plan.every, epoch)
}

// handleTick advances the round by everything due and re-arms the chain
// while the round is live.
func (m Model) handleTick(msg tickMsg) (tea.Model, tea.Cmd) {
	var due commando.Tick
	if m.plan != nil && m.plan.epoch == msg.epoch {
		due = m.plan.due(msg.at)
	}
	if !m.engine.Advance(msg.epoch, due) || m.plan == nil {
		return m, nil
	}
	return m, tickCmd(m.plan.every, msg.epoch)
}

// draw renders the current snapshot into the screen buffer.
func (m *Model) draw() {
	snap := m.engine.Snapshot()
	commando.Render(snap, m.screen, m.extent)

	if snap.Phase == commando.PhasePlaying {
		vp := commando.PlayfieldViewport(m.screen.Width(), m.screen.Height(), m.extent)
		col, row := vp.Project(keyboardAimX*m.extent/100, m.aimY)
		if m.screen.Get(col, row) == ' ' {
			m.screen.SetWithColor(col, row, commando.AimChar, core.ColorGray)
		}
	}
}

// saveScreenshot saves the current screen to a file.
func (m *Model) saveScreenshot() {
	m.draw()

	home, err := os.UserHomeDir()
	if err != nil {
		m.logger.Warn("screenshot failed", "err", err)
		return
	}
	dir := filepath.Join(home, ".arcade", "screenshots")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		m.logger.Warn("screenshot failed", "err", err)
		return
	}

	timestamp := time.Now().Format("20060102_150405")
	path := filepath.Join(dir, fmt.Sprintf("commando_%s.txt", timestamp))
	if err := os.WriteFile(path, []byte(m.screen.String()), 0o600); err != nil {
		m.logger.Warn("screenshot failed", "err", err)
		return
	}
	m.status = "saved " + path
}

// View renders the current state to a string for display.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	m.draw()

	var sb strings.Builder
	sb.WriteString(RenderScreen(m.screen))
	sb.WriteRune('\n')
	if m.status != "" {
		sb.WriteString(statusStyle.Render(m.status))
	} else {
		sb.WriteString(m.help.View(m.keys))
	}
	return sb.String()
}

// Run starts the Bubble Tea program for a local session.
func Run(engine *commando.Engine, cfg core.RuntimeConfig, opts ...ModelOption) error {
	model := NewModel(engine, cfg, append([]ModelOption{WithBell(os.Stdout)}, opts...)...)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)

	_, err := p.Run()
	return err
}
