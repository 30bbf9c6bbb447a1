// Package tray puts the game's discrete controls in the system tray while
// the terminal frontend owns the screen.
package tray

import (
	"fmt"
	"sync"

	"github.com/getlantern/systray"

	"github.com/ayusman/fingergun/internal/app"
	"github.com/ayusman/fingergun/internal/game"
)

type action int

const (
	actPause action = iota
	actMute
	actEasy
	actNormal
	actHard
	actReset
	actQuit
)

var actionCommands = map[action]game.Command{
	actPause:  game.Cmd(game.CmdTogglePause),
	actMute:   game.Cmd(game.CmdToggleMute),
	actEasy:   game.SetDifficulty(game.Easy),
	actNormal: game.SetDifficulty(game.Normal),
	actHard:   game.SetDifficulty(game.Hard),
	actReset:  game.Cmd(game.CmdReset),
	actQuit:   game.Cmd(game.CmdQuit),
}

// pending bounds clicks queued between two ticks.
const pending = 16

// Tray is the system tray menu. Clicks become game commands collected by
// Poll; Update mirrors the session state into the menu.
type Tray struct {
	title    string
	commands chan game.Command

	mu     sync.RWMutex
	items  map[action]*systray.MenuItem
	status *systray.MenuItem
	shown  view
}

// view is the part of a snapshot the menu shows.
type view struct {
	paused     bool
	muted      bool
	difficulty game.Difficulty
	status     string
}

// New creates a Tray. Nothing is shown until Run.
func New(title string) *Tray {
	return &Tray{
		title:    title,
		commands: make(chan game.Command, pending),
		items:    make(map[action]*systray.MenuItem),
		shown:    view{difficulty: -1},
	}
}

// Run shows the tray and blocks until Quit is called. It must be called
// from the main goroutine; onReady runs once the menu exists.
func (t *Tray) Run(onReady func()) {
	systray.Run(func() {
		t.build()
		if onReady != nil {
			onReady()
		}
	}, nil)
}

// Quit removes the tray and makes Run return.
func Quit() {
	systray.Quit()
}

func (t *Tray) build() {
	systray.SetTitle(t.title)
	systray.SetTooltip(t.title)

	t.mu.Lock()
	defer t.mu.Unlock()

	t.status = systray.AddMenuItem("Score 0", "Current score and ammo")
	t.status.Disable()
	systray.AddSeparator()

	t.items[actPause] = systray.AddMenuItem("Pause", "Pause or resume the game")
	t.items[actMute] = systray.AddMenuItem("Mute", "Mute or unmute sound")
	systray.AddSeparator()
	t.items[actEasy] = systray.AddMenuItem("Easy", "Easy difficulty")
	t.items[actNormal] = systray.AddMenuItem("Normal", "Normal difficulty")
	t.items[actHard] = systray.AddMenuItem("Hard", "Hard difficulty")
	systray.AddSeparator()
	t.items[actReset] = systray.AddMenuItem("New game", "Start a new session")
	t.items[actQuit] = systray.AddMenuItem("Quit", "Quit fingergun")

	for a, item := range t.items {
		go func(a action, clicked chan struct{}) {
			for range clicked {
				t.click(a)
			}
		}(a, item.ClickedCh)
	}
}

// click queues the command for a menu action. Clicks beyond what one tick
// can hold are dropped.
func (t *Tray) click(a action) {
	cmd, ok := actionCommands[a]
	if !ok {
		return
	}
	select {
	case t.commands <- cmd:
	default:
	}
}

// Poll drains the commands clicked since the last call without blocking.
func (t *Tray) Poll() []game.Command {
	var cmds []game.Command
	for {
		select {
		case c := <-t.commands:
			cmds = append(cmds, c)
		default:
			return cmds
		}
	}
}

func viewOf(s game.Snapshot) view {
	return view{
		paused:     s.Mode == game.Paused,
		muted:      s.Muted,
		difficulty: s.Difficulty,
		status:     fmt.Sprintf("Score %d  Ammo %d/%d", s.Score, s.Ammo, s.MaxAmmo),
	}
}

// Update refreshes the menu titles when the shown state changed.
func (t *Tray) Update(s game.Snapshot) {
	v := viewOf(s)

	t.mu.Lock()
	defer t.mu.Unlock()
	if v == t.shown || t.status == nil {
		return
	}
	t.shown = v

	t.status.SetTitle(v.status)
	if v.paused {
		t.items[actPause].SetTitle("Resume")
	} else {
		t.items[actPause].SetTitle("Pause")
	}
	if v.muted {
		t.items[actMute].SetTitle("Unmute")
	} else {
		t.items[actMute].SetTitle("Mute")
	}
	for a, d := range map[action]game.Difficulty{actEasy: game.Easy, actNormal: game.Normal, actHard: game.Hard} {
		if d == v.difficulty {
			t.items[a].Check()
		} else {
			t.items[a].Uncheck()
		}
	}
}

// frontend merges tray clicks into another frontend's input.
type frontend struct {
	app.Frontend
	tray *Tray
}

// Wrap returns fe with the tray's commands appended to every Poll and the
// tray refreshed on every Present.
func Wrap(fe app.Frontend, t *Tray) app.Frontend {
	return &frontend{Frontend: fe, tray: t}
}

func (f *frontend) Poll() app.Input {
	in := f.Frontend.Poll()
	in.Commands = append(in.Commands, f.tray.Poll()...)
	return in
}

func (f *frontend) Present(s game.Snapshot) error {
	f.tray.Update(s)
	return f.Frontend.Present(s)
}
