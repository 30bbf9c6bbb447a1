// Package audio plays game cues. Sound is feedback only: nothing here can
// influence game state, and every failure degrades to silence.
package audio

import (
	"errors"

	"github.com/ayusman/fingergun/internal/game"
)

// ErrNoSpeaker reports that no output device could be opened.
var ErrNoSpeaker = errors.New("no audio output device")

// Player renders cue events.
type Player interface {
	Play(c game.Cue)
	// SetVolume sets the master volume in percent. Muted or zero drops cues.
	SetVolume(percent int, muted bool)
	Close() error
}

// Config holds player settings.
type Config struct {
	SampleRate int
	AssetsDir  string
	Volume     int
	Muted      bool
}

// DefaultConfig returns the player settings used by the game.
func DefaultConfig() Config {
	return Config{
		SampleRate: 44100,
		AssetsDir:  "assets/sounds",
		Volume:     80,
	}
}

// baseGain is the per-cue level before the master volume.
var baseGain = map[game.Cue]float64{
	game.CueShot:   0.9,
	game.CueHit:    0.8,
	game.CueReload: 0.8,
	game.CueDry:    0.7,
}

// gain returns the linear output level of c at the given master volume.
func gain(c game.Cue, percent int, muted bool) float64 {
	if muted || percent <= 0 {
		return 0
	}
	return baseGain[c] * float64(min(percent, 100)) / 100
}

// Nop discards every cue. It is used when audio is disabled.
type Nop struct{}

func (Nop) Play(game.Cue) {}

func (Nop) SetVolume(int, bool) {}

func (Nop) Close() error { return nil }
