package commando

import (
	"fmt"

	"github.com/vovakirdan/tui-commando/internal/core"
)

// Visual characters for rendering
const (
	CannonChar = '▶'
	AimChar    = '+'
)

type glyph struct {
	r     rune
	color core.Color
}

var bulletGlyphs = map[string]glyph{
	"SOL":  {'◎', core.ColorBrightMagenta},
	"ETH":  {'Ξ', core.ColorBrightBlue},
	"BNB":  {'◆', core.ColorBrightYellow},
	"AVAX": {'▲', core.ColorBrightRed},
	"USDC": {'$', core.ColorBrightGreen},
}

var enemyGlyphs = map[string]glyph{
	"alien":  {'Ѫ', core.ColorGreen},
	"alien2": {'Ж', core.ColorCyan},
	"alien3": {'¤', core.ColorMagenta},
}

var (
	defaultBullet = glyph{'•', core.ColorWhite}
	defaultEnemy  = glyph{'@', core.ColorRed}
)

// PlayfieldViewport returns the cell area the playfield occupies on a screen
// of the given size: everything below the HUD row, inside a border.
func PlayfieldViewport(width, height int, extent float64) core.Viewport {
	area := core.NewRect(1, 2, core.Max(width-2, 1), core.Max(height-3, 1))
	return core.NewViewport(area, extent)
}

// Render draws a snapshot onto the screen.
func Render(snap Snapshot, scr *core.Screen, extent float64) {
	scr.Clear()
	w, h := scr.Width(), scr.Height()

	renderHUD(snap, scr)
	scr.DrawBox(core.NewRect(0, 1, w, h-1), core.ColorGray)

	vp := PlayfieldViewport(w, h, extent)

	for _, e := range snap.Enemies {
		g, ok := enemyGlyphs[e.Variant]
		if !ok {
			g = defaultEnemy
		}
		col, row := vp.Project(e.X, e.Y)
		scr.SetWithColor(col, row, g.r, g.color)
	}
	for _, b := range snap.Bullets {
		g, ok := bulletGlyphs[b.Variant]
		if !ok {
			g = defaultBullet
		}
		col, row := vp.Project(b.X, b.Y)
		scr.SetWithColor(col, row, g.r, g.color)
	}

	col, row := vp.Project(snap.CannonX, snap.CannonY)
	scr.SetWithColor(col, row, CannonChar, core.ColorBrightWhite)

	switch {
	case snap.Phase == PhaseIdle && (snap.WelcomeShown || !snap.WelcomePassed):
		renderPanel(scr, core.ColorBrightCyan,
			"COMMANDO",
			"",
			fmt.Sprintf("Hold the line for %d seconds.", snap.Duration),
			"Aliens that reach your cannon end the run.",
			"",
			"Click or press SPACE to fire",
			"ENTER to continue  Q to quit",
		)
	case snap.Phase == PhaseIdle:
		renderPanel(scr, core.ColorBrightWhite, "Click or press SPACE to start")
	case snap.Phase == PhaseDead:
		renderPanel(scr, core.ColorBrightRed,
			"GAME OVER",
			"",
			fmt.Sprintf("You survived for %d secs", snap.Survived),
			fmt.Sprintf("Score: %d", snap.Score),
			"",
			"Press R to play again",
		)
	case snap.Phase == PhaseWon:
		renderPanel(scr, core.ColorBrightGreen,
			"YOU WIN!",
			"",
			fmt.Sprintf("You survived all %d secs", snap.Duration),
			fmt.Sprintf("Score: %d", snap.Score),
			"",
			"Press R to play again",
		)
	}
}

func renderHUD(snap Snapshot, scr *core.Screen) {
	scr.DrawTextColor(1, 0, fmt.Sprintf("Score: %d", snap.Score), core.ColorBrightYellow)

	timeColor := core.ColorBrightWhite
	if snap.Remaining <= 10 {
		timeColor = core.ColorBrightRed
	}
	scr.DrawTextCentered(0, fmt.Sprintf("Time: %ds", snap.Remaining), timeColor)

	speed := fmt.Sprintf("Speed ×%.2f", snap.SpeedMultiplier)
	scr.DrawTextColor(scr.Width()-len([]rune(speed))-1, 0, speed, core.ColorOrange)
}

// renderPanel draws a bordered box with centered lines in the middle of the screen.
func renderPanel(scr *core.Screen, color core.Color, lines ...string) {
	width := 0
	for _, l := range lines {
		width = core.Max(width, len([]rune(l)))
	}
	boxW := width + 4
	boxH := len(lines) + 2
	x := (scr.Width() - boxW) / 2
	y := (scr.Height() - boxH) / 2

	box := core.NewRect(x, y, boxW, boxH)
	scr.DrawRect(box, ' ')
	scr.DrawBox(box, color)
	for i, l := range lines {
		// A blank line under the title becomes a rule.
		if i == 1 && l == "" {
			scr.DrawHLine(x+1, y+1+i, boxW-2, '─', color)
			continue
		}
		scr.DrawTextCentered(y+1+i, l, color)
	}
}
