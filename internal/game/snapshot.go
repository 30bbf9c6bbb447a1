package game

import (
	"time"

	"github.com/ayusman/fingergun/internal/gesture"
)

// Shot describes one trigger pull for frontend effects.
type Shot struct {
	Pos        Vec
	HasPointer bool
	Hit        bool
	Kind       Kind
	Points     int
}

// Snapshot is a read-only copy of the session after a tick. Frontends draw
// from it and never touch the Session.
type Snapshot struct {
	Mode       Mode
	Difficulty Difficulty
	Width      float64
	Height     float64

	Score   int
	Ammo    int
	MaxAmmo int
	// ReloadProgress runs from 0 to 1 while Reloading.
	Reloading      bool
	ReloadProgress float64
	// NoAmmo is set briefly after a dry fire.
	NoAmmo bool

	Muted  bool
	Volume int

	Targets []Target
	Cues    []Cue
	Shots   []Shot

	Gesture     gesture.Gesture
	Pointer     Vec
	HasPointer  bool
	HandPresent bool
	// Sensor describes the pose source state; filled in by the engine.
	Sensor string

	Elapsed   time.Duration
	Remaining time.Duration // zero when the session is endless
	Spawned   int
	Quit      bool
}
