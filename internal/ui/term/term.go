// Package term is the tcell terminal frontend for app.Run.
package term

import (
	"sync"

	"github.com/gdamore/tcell/v2"

	"github.com/ayusman/fingergun/internal/app"
	"github.com/ayusman/fingergun/internal/game"
	"github.com/ayusman/fingergun/internal/ui"
)

// Frontend draws snapshots on a terminal grid. Keys and mouse events are
// read by a poller goroutine and drained by Poll without blocking.
type Frontend struct {
	screen tcell.Screen
	mouse  bool
	events chan tcell.Event
	quit   chan struct{}
	once   sync.Once
	wg     sync.WaitGroup

	mode   game.Mode
	worldW float64
	worldH float64
	cursor game.Vec
	inside bool
}

// New initialises screen and starts reading its events. When mouse is set
// the mouse cursor is the pointer.
func New(screen tcell.Screen, mouse bool) (*Frontend, error) {
	if err := screen.Init(); err != nil {
		return nil, err
	}
	screen.SetStyle(tcell.StyleDefault)
	screen.HideCursor()
	screen.EnableMouse()
	screen.Clear()

	f := &Frontend{
		screen: screen,
		mouse:  mouse,
		events: make(chan tcell.Event, 100),
		quit:   make(chan struct{}),
		worldW: 1,
		worldH: 1,
	}

	f.wg.Add(1)
	go f.poll()
	return f, nil
}

func (f *Frontend) poll() {
	defer f.wg.Done()
	for {
		ev := f.screen.PollEvent()
		if ev == nil {
			return
		}
		select {
		case f.events <- ev:
		case <-f.quit:
			return
		}
	}
}

// Poll drains the events that arrived since the last call.
func (f *Frontend) Poll() app.Input {
	var in app.Input
	for {
		select {
		case ev := <-f.events:
			f.handle(ev, &in)
		default:
			if f.mouse && f.inside {
				in.Mouse = f.cursor
				in.HasMouse = true
			}
			return in
		}
	}
}

func (f *Frontend) handle(ev tcell.Event, in *app.Input) {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		if ev.Key() == tcell.KeyCtrlC {
			in.Commands = append(in.Commands, game.Cmd(game.CmdQuit))
			return
		}
		if cmd, ok := ui.Command(keyName(ev), f.mode); ok {
			in.Commands = append(in.Commands, cmd)
		}

	case *tcell.EventMouse:
		x, y := ev.Position()
		f.cursor, f.inside = f.toWorld(x, y)
		switch {
		case ev.Buttons()&tcell.Button1 != 0:
			in.Commands = append(in.Commands, game.Cmd(game.CmdShoot))
		case ev.Buttons()&tcell.Button2 != 0:
			in.Commands = append(in.Commands, game.Cmd(game.CmdReload))
		case ev.Buttons()&tcell.Button3 != 0:
			in.Commands = append(in.Commands, game.Cmd(game.CmdTogglePause))
		}

	case *tcell.EventResize:
		f.screen.Sync()
	}
}

func keyName(ev *tcell.EventKey) string {
	switch ev.Key() {
	case tcell.KeyEscape:
		return "escape"
	case tcell.KeyRune:
		if ev.Rune() == ' ' {
			return "space"
		}
		return string(ev.Rune())
	}
	return ""
}

// field is the part of the grid the world is drawn on; the last row is the HUD.
func (f *Frontend) field() (cols, rows int) {
	cols, rows = f.screen.Size()
	return max(cols, 1), max(rows-1, 1)
}

func (f *Frontend) toWorld(x, y int) (game.Vec, bool) {
	cols, rows := f.field()
	if x < 0 || y < 0 || x >= cols || y >= rows {
		return game.Vec{}, false
	}
	return game.Vec{
		X: (float64(x) + 0.5) / float64(cols) * f.worldW,
		Y: (float64(y) + 0.5) / float64(rows) * f.worldH,
	}, true
}

func (f *Frontend) toCell(p game.Vec) (int, int) {
	cols, rows := f.field()
	return int(p.X / f.worldW * float64(cols)), int(p.Y / f.worldH * float64(rows))
}

var (
	hudStyle    = tcell.StyleDefault.Foreground(tcell.ColorWhite).Background(tcell.ColorNavy)
	bannerStyle = tcell.StyleDefault.Foreground(tcell.ColorYellow).Bold(true)
	menuStyle   = tcell.StyleDefault.Foreground(tcell.ColorWhite).Background(tcell.ColorDarkSlateGray)
	crossStyle  = tcell.StyleDefault.Foreground(tcell.ColorWhite).Bold(true)
	hitStyle    = tcell.StyleDefault.Foreground(tcell.ColorGreen).Bold(true)
)

func glyph(k game.Kind) (rune, tcell.Style) {
	switch k {
	case game.Moving:
		return '@', tcell.StyleDefault.Foreground(tcell.ColorOrange)
	case game.Small:
		return '*', tcell.StyleDefault.Foreground(tcell.ColorRed)
	default:
		return 'O', tcell.StyleDefault.Foreground(tcell.ColorAqua)
	}
}

// Present draws the snapshot.
func (f *Frontend) Present(s game.Snapshot) error {
	f.mode = s.Mode
	if s.Width > 0 && s.Height > 0 {
		f.worldW, f.worldH = s.Width, s.Height
	}

	f.screen.Clear()
	cols, rows := f.field()

	for _, t := range s.Targets {
		r, style := glyph(t.Kind)
		x, y := f.toCell(t.Pos)
		f.put(x, y, r, style)
	}
	for _, shot := range s.Shots {
		if shot.Hit && shot.HasPointer {
			x, y := f.toCell(shot.Pos)
			f.put(x, y, 'X', hitStyle)
		}
	}
	if s.HasPointer {
		x, y := f.toCell(s.Pointer)
		f.put(x, y, '+', crossStyle)
	}

	if banner := ui.Banner(s); banner != "" {
		f.text((cols-len(banner))/2, rows/2, banner, bannerStyle)
	}
	if s.Mode == game.MenuOpen {
		lines := ui.MenuLines(s)
		top := (rows - len(lines)) / 2
		for i, l := range lines {
			f.text((cols-len(l))/2, top+i, l, menuStyle)
		}
	}

	hud := ui.Status(s)
	for x := 0; x < cols; x++ {
		f.put(x, rows, ' ', hudStyle)
	}
	f.text(0, rows, hud, hudStyle)

	f.screen.Show()
	return nil
}

func (f *Frontend) put(x, y int, r rune, style tcell.Style) {
	f.screen.SetContent(x, y, r, nil, style)
}

func (f *Frontend) text(x, y int, s string, style tcell.Style) {
	for i, r := range []rune(s) {
		f.put(x+i, y, r, style)
	}
}

// Close stops the poller and restores the terminal.
func (f *Frontend) Close() {
	f.once.Do(func() {
		close(f.quit)
		f.screen.Fini()
		f.wg.Wait()
	})
}
