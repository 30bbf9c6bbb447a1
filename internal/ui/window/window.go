// Package window is the ebiten frontend. ebiten owns the loop: every Update
// steps the engine once and Draw renders the latest snapshot.
package window

import (
	"context"
	"image/color"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/ayusman/fingergun/internal/app"
	"github.com/ayusman/fingergun/internal/game"
	"github.com/ayusman/fingergun/internal/ui"
)

// Config holds window options.
type Config struct {
	Title    string
	TickRate int
	// Mouse makes the cursor the pointer.
	Mouse bool
}

// Game implements ebiten.Game on top of an app.Engine.
type Game struct {
	ctx     context.Context
	engine  *app.Engine
	config  Config
	width   int
	height  int
	snap    game.Snapshot
	effects []effect
	keys    []ebiten.Key
}

// New creates a window frontend for engine sized to the game world.
func New(engine *app.Engine, width, height int, config Config) *Game {
	if config.TickRate <= 0 {
		config.TickRate = 60
	}
	return &Game{
		engine: engine,
		config: config,
		width:  width,
		height: height,
	}
}

// Run opens the window and blocks until it is closed, the player quits or
// ctx is cancelled.
func (g *Game) Run(ctx context.Context) error {
	g.ctx = ctx
	ebiten.SetWindowSize(g.width, g.height)
	ebiten.SetWindowTitle(g.config.Title)
	ebiten.SetTPS(g.config.TickRate)
	return ebiten.RunGame(g)
}

// Update steps the engine with this tick's keyboard and mouse input.
func (g *Game) Update() error {
	if g.ctx != nil && g.ctx.Err() != nil {
		return ebiten.Termination
	}
	g.snap = g.engine.Step(time.Now(), g.input())
	g.effects = addEffects(ageEffects(g.effects), g.snap.Shots)

	if g.engine.Done() {
		return ebiten.Termination
	}
	return nil
}

func (g *Game) input() app.Input {
	var in app.Input

	g.keys = inpututil.AppendJustPressedKeys(g.keys[:0])
	for _, k := range g.keys {
		name, ok := keyNames[k]
		if !ok {
			continue
		}
		if cmd, ok := ui.Command(name, g.snap.Mode); ok {
			in.Commands = append(in.Commands, cmd)
		}
	}

	in.Commands = append(in.Commands, heldFire(
		ebiten.IsKeyPressed(ebiten.KeySpace),
		ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft),
	)...)

	switch {
	case inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonRight):
		in.Commands = append(in.Commands, game.Cmd(game.CmdReload))
	case inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonMiddle):
		in.Commands = append(in.Commands, game.Cmd(game.CmdTogglePause))
	}

	if g.config.Mouse {
		x, y := ebiten.CursorPosition()
		in.Mouse = game.Vec{X: float64(x), Y: float64(y)}
		in.HasMouse = true
	}
	return in
}

// heldFire shoots on every tick the trigger is held. The session cooldown
// sets the fire rate.
func heldFire(space, left bool) []game.Command {
	if space || left {
		return []game.Command{game.Cmd(game.CmdShoot)}
	}
	return nil
}

// Layout keeps the logical screen at the world size; ebiten scales it.
func (g *Game) Layout(_, _ int) (int, int) {
	return g.width, g.height
}

var keyNames = map[ebiten.Key]string{
	ebiten.KeyEscape: "escape",
	ebiten.KeyP:      "p",
	ebiten.KeyO:      "o",
	ebiten.KeyR:      "r",
	ebiten.KeyM:      "m",
	ebiten.KeyN:      "n",
	ebiten.KeyMinus:  "-",
	ebiten.KeyEqual:  "=",
	ebiten.KeyDigit1: "1",
	ebiten.KeyDigit2: "2",
	ebiten.KeyDigit3: "3",
	ebiten.KeyDigit4: "4",
}

var (
	background  = color.RGBA{18, 20, 28, 255}
	white       = color.RGBA{240, 240, 240, 255}
	flashColor  = color.RGBA{255, 220, 90, 255}
	hitColor    = color.NRGBA{120, 255, 140, 255}
	reloadColor = color.RGBA{90, 170, 255, 255}
	shadeColor  = color.RGBA{0, 0, 0, 170}
)

func targetColor(k game.Kind) color.RGBA {
	switch k {
	case game.Moving:
		return color.RGBA{240, 150, 40, 255}
	case game.Small:
		return color.RGBA{230, 60, 80, 255}
	default:
		return color.RGBA{70, 200, 220, 255}
	}
}

// Draw renders the latest snapshot.
func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(background)
	s := g.snap

	for _, t := range s.Targets {
		x, y, r := float32(t.Pos.X), float32(t.Pos.Y), float32(t.Radius)
		vector.DrawFilledCircle(screen, x, y, r, targetColor(t.Kind), true)
		vector.StrokeCircle(screen, x, y, r*0.6, 2, white, true)
		vector.DrawFilledCircle(screen, x, y, r*0.2, white, true)
	}

	for _, e := range g.effects {
		e.draw(screen)
	}

	if s.HasPointer {
		drawCrosshair(screen, float32(s.Pointer.X), float32(s.Pointer.Y))
	}

	g.drawHUD(screen)

	if s.Mode == game.MenuOpen {
		g.drawMenu(screen)
	}
}

func drawCrosshair(screen *ebiten.Image, x, y float32) {
	const arm, gap = 14, 4
	vector.StrokeCircle(screen, x, y, arm-2, 1.5, white, true)
	vector.StrokeLine(screen, x-arm, y, x-gap, y, 2, white, true)
	vector.StrokeLine(screen, x+gap, y, x+arm, y, 2, white, true)
	vector.StrokeLine(screen, x, y-arm, x, y-gap, 2, white, true)
	vector.StrokeLine(screen, x, y+gap, x, y+arm, 2, white, true)
}

func (g *Game) drawHUD(screen *ebiten.Image) {
	s := g.snap
	ebitenutil.DebugPrintAt(screen, ui.Status(s), 10, 8)

	if s.Reloading {
		const w, h = 120, 6
		vector.DrawFilledRect(screen, 10, 28, w, h, shadeColor, false)
		vector.DrawFilledRect(screen, 10, 28, float32(w*s.ReloadProgress), h, reloadColor, false)
	}

	if banner := ui.Banner(s); banner != "" {
		x := g.width/2 - len(banner)*debugCharWidth/2
		ebitenutil.DebugPrintAt(screen, banner, x, g.height/2)
	}
}

func (g *Game) drawMenu(screen *ebiten.Image) {
	lines := ui.MenuLines(g.snap)
	const pad = 16
	w := 0
	for _, l := range lines {
		w = max(w, len(l)*debugCharWidth)
	}
	h := len(lines) * debugLineHeight
	x := (g.width - w) / 2
	y := (g.height - h) / 2

	vector.DrawFilledRect(screen, float32(x-pad), float32(y-pad), float32(w+2*pad), float32(h+2*pad), shadeColor, false)
	for i, l := range lines {
		ebitenutil.DebugPrintAt(screen, l, x, y+i*debugLineHeight)
	}
}

// Debug font metrics.
const (
	debugCharWidth  = 6
	debugLineHeight = 16
)

// effect is a short animation spawned by a shot.
type effect struct {
	pos  game.Vec
	hit  bool
	age  int
	life int
}

const (
	flashTicks = 6
	ringTicks  = 18
)

func addEffects(effects []effect, shots []game.Shot) []effect {
	for _, s := range shots {
		if !s.HasPointer {
			continue
		}
		effects = append(effects, effect{pos: s.Pos, life: flashTicks})
		if s.Hit {
			effects = append(effects, effect{pos: s.Pos, hit: true, life: ringTicks})
		}
	}
	return effects
}

func ageEffects(effects []effect) []effect {
	live := effects[:0]
	for _, e := range effects {
		e.age++
		if e.age < e.life {
			live = append(live, e)
		}
	}
	return live
}

func (e effect) progress() float32 {
	return float32(e.age) / float32(e.life)
}

func (e effect) draw(screen *ebiten.Image) {
	x, y := float32(e.pos.X), float32(e.pos.Y)
	p := e.progress()
	if e.hit {
		c := hitColor
		c.A = uint8(255 * (1 - p))
		vector.StrokeCircle(screen, x, y, 10+40*p, 3, c, true)
		return
	}
	vector.DrawFilledCircle(screen, x, y, 12*(1-p)+2, flashColor, true)
}
