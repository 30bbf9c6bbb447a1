// Package ui holds what the window and terminal frontends share: key
// bindings and HUD text.
package ui

import (
	"fmt"
	"strings"

	"github.com/ayusman/fingergun/internal/game"
)

// Command maps a key name to a game command. Names are lower case
// ("escape", "space", "p", "1", "="). The options menu rebinds the number
// keys to sound previews and escape to closing the menu.
func Command(key string, mode game.Mode) (game.Command, bool) {
	key = strings.ToLower(key)
	menu := mode == game.MenuOpen

	switch key {
	case "escape", "esc":
		if menu {
			return game.Cmd(game.CmdToggleMenu), true
		}
		return game.Cmd(game.CmdQuit), true
	case "p":
		return game.Cmd(game.CmdTogglePause), true
	case "o":
		return game.Cmd(game.CmdToggleMenu), true
	case "r":
		return game.Cmd(game.CmdReload), true
	case "space", " ":
		return game.Cmd(game.CmdShoot), true
	case "m":
		return game.Cmd(game.CmdToggleMute), true
	case "-", "minus":
		return game.Cmd(game.CmdVolumeDown), true
	case "=", "+", "equal":
		return game.Cmd(game.CmdVolumeUp), true
	case "n":
		return game.Cmd(game.CmdReset), true
	}

	if len(key) == 1 && key[0] >= '1' && key[0] <= '4' {
		n := int(key[0] - '1')
		if menu {
			return game.PreviewCue(game.Cues[n]), true
		}
		if n < 3 {
			return game.SetDifficulty(game.Difficulty(n)), true
		}
	}
	return game.Command{}, false
}

// Status is the one line HUD shared by both frontends.
func Status(s game.Snapshot) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Score %d  Ammo %d/%d", s.Score, s.Ammo, s.MaxAmmo)
	if s.Reloading {
		fmt.Fprintf(&b, " [reloading %d%%]", int(s.ReloadProgress*100))
	}
	fmt.Fprintf(&b, "  %s", s.Difficulty)
	if s.Muted {
		b.WriteString("  muted")
	} else {
		fmt.Fprintf(&b, "  vol %d", s.Volume)
	}
	if s.Sensor != "" {
		fmt.Fprintf(&b, "  %s", s.Sensor)
	}
	if s.HandPresent {
		fmt.Fprintf(&b, "  %s", s.Gesture)
	}
	if s.Remaining > 0 {
		fmt.Fprintf(&b, "  %ds left", int(s.Remaining.Seconds()+0.5))
	}
	return b.String()
}

// Banner is the large centre text for the current mode, or "" while playing.
func Banner(s game.Snapshot) string {
	switch s.Mode {
	case game.Paused:
		return "PAUSED"
	case game.GameOver:
		return fmt.Sprintf("GAME OVER  score %d  (n: new game)", s.Score)
	}
	if s.NoAmmo {
		return "NO AMMO"
	}
	return ""
}

// MenuLines is the options overlay text.
func MenuLines(s game.Snapshot) []string {
	audio := fmt.Sprintf("volume %d (-/=)  m: mute", s.Volume)
	if s.Muted {
		audio = "muted  m: unmute"
	}
	return []string{
		"OPTIONS",
		"difficulty: " + s.Difficulty.String() + "  (1/2/3 outside this menu)",
		audio,
		"sound test: 1 shot  2 hit  3 reload  4 dry",
		"o or escape: close",
	}
}
