package term

import (
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/ayusman/fingergun/internal/app"
	"github.com/ayusman/fingergun/internal/game"
)

func newTestFrontend(t *testing.T, mouse bool) (*Frontend, tcell.SimulationScreen) {
	t.Helper()
	screen := tcell.NewSimulationScreen("UTF-8")
	f, err := New(screen, mouse)
	if err != nil {
		t.Fatalf("New() = %v", err)
	}
	screen.SetSize(80, 25)
	t.Cleanup(f.Close)
	return f, screen
}

// pollUntil polls until at least one command arrives or a second passes.
func pollUntil(t *testing.T, f *Frontend) app.Input {
	t.Helper()
	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if in := f.Poll(); len(in.Commands) > 0 {
			return in
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("no input arrived")
	return app.Input{}
}

func TestFrontend_Keys(t *testing.T) {
	tests := []struct {
		name string
		key  tcell.Key
		r    rune
		mode game.Mode
		want game.Command
	}{
		{"pause", tcell.KeyRune, 'p', game.Running, game.Cmd(game.CmdTogglePause)},
		{"shoot", tcell.KeyRune, ' ', game.Running, game.Cmd(game.CmdShoot)},
		{"escape quits", tcell.KeyEscape, 0, game.Running, game.Cmd(game.CmdQuit)},
		{"escape closes menu", tcell.KeyEscape, 0, game.MenuOpen, game.Cmd(game.CmdToggleMenu)},
		{"menu preview", tcell.KeyRune, '4', game.MenuOpen, game.PreviewCue(game.CueDry)},
		{"ctrl-c", tcell.KeyCtrlC, 0, game.MenuOpen, game.Cmd(game.CmdQuit)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, screen := newTestFrontend(t, false)
			if err := f.Present(game.Snapshot{Mode: tt.mode, Width: 800, Height: 240}); err != nil {
				t.Fatalf("Present() = %v", err)
			}

			screen.InjectKey(tt.key, tt.r, tcell.ModNone)
			in := pollUntil(t, f)
			if in.Commands[0] != tt.want {
				t.Errorf("command = %+v, want %+v", in.Commands[0], tt.want)
			}
			if in.HasMouse {
				t.Error("keyboard frontend without mouse mode should not report a pointer")
			}
		})
	}
}

func TestFrontend_PollDoesNotBlock(t *testing.T) {
	f, _ := newTestFrontend(t, false)

	done := make(chan app.Input, 1)
	go func() { done <- f.Poll() }()

	select {
	case in := <-done:
		if len(in.Commands) != 0 {
			t.Errorf("Commands = %v, want none", in.Commands)
		}
	case <-time.After(time.Second):
		t.Fatal("Poll blocked with no pending events")
	}
}

func TestFrontend_Mouse(t *testing.T) {
	f, screen := newTestFrontend(t, true)
	if err := f.Present(game.Snapshot{Width: 800, Height: 240}); err != nil {
		t.Fatalf("Present() = %v", err)
	}

	screen.InjectMouse(40, 12, tcell.Button1, tcell.ModNone)
	in := pollUntil(t, f)

	if in.Commands[0] != game.Cmd(game.CmdShoot) {
		t.Errorf("command = %+v, want shoot", in.Commands[0])
	}
	if !in.HasMouse {
		t.Fatal("mouse mode should report the cursor")
	}
	want := game.Vec{X: 405, Y: 125}
	if in.Mouse.Dist(want) > 1e-9 {
		t.Errorf("Mouse = %v, want %v", in.Mouse, want)
	}
}

func TestFrontend_Present(t *testing.T) {
	f, screen := newTestFrontend(t, false)

	snap := game.Snapshot{
		Mode:       game.Paused,
		Width:      800,
		Height:     240,
		Score:      42,
		Ammo:       5,
		MaxAmmo:    6,
		Targets:    []game.Target{{Kind: game.Static, Pos: game.Vec{X: 400, Y: 60}, Radius: 40}},
		Pointer:    game.Vec{X: 100, Y: 200},
		HasPointer: true,
	}
	if err := f.Present(snap); err != nil {
		t.Fatalf("Present() = %v", err)
	}

	cell := func(x, y int) rune {
		r, _, _, _ := screen.GetContent(x, y)
		return r
	}

	if got := cell(40, 6); got != 'O' {
		t.Errorf("target cell = %q, want 'O'", got)
	}
	if got := cell(10, 20); got != '+' {
		t.Errorf("pointer cell = %q, want '+'", got)
	}

	hud := make([]rune, 0, 16)
	for x := 0; x < len("Score 42"); x++ {
		hud = append(hud, cell(x, 24))
	}
	if string(hud) != "Score 42" {
		t.Errorf("HUD = %q, want it to start with %q", string(hud), "Score 42")
	}

	banner := "PAUSED"
	start := (80 - len(banner)) / 2
	got := make([]rune, 0, len(banner))
	for i := range banner {
		got = append(got, cell(start+i, 12))
	}
	if string(got) != banner {
		t.Errorf("banner = %q, want %q", string(got), banner)
	}
}
