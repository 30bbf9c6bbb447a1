// Package game holds the shooting game rules: the session state machine,
// targets, the spawner and the per-tick snapshot handed to frontends.
//
// A Session is owned by the game loop and mutated only through Tick.
package game

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// Vec is a position or velocity in screen pixels.
type Vec struct {
	X, Y float64
}

// Add returns v + w.
func (v Vec) Add(w Vec) Vec { return Vec{v.X + w.X, v.Y + w.Y} }

// Scale returns v * k.
func (v Vec) Scale(k float64) Vec { return Vec{v.X * k, v.Y * k} }

// Dist returns the distance between v and w.
func (v Vec) Dist(w Vec) float64 { return math.Hypot(v.X-w.X, v.Y-w.Y) }

// Difficulty selects a row of the parameter table.
type Difficulty int

const (
	Easy Difficulty = iota
	Normal
	Hard
)

func (d Difficulty) String() string {
	switch d {
	case Easy:
		return "easy"
	case Normal:
		return "normal"
	case Hard:
		return "hard"
	default:
		return fmt.Sprintf("Difficulty(%d)", int(d))
	}
}

// ParseDifficulty parses "easy", "normal" or "hard", ignoring case.
func ParseDifficulty(s string) (Difficulty, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "easy":
		return Easy, nil
	case "normal":
		return Normal, nil
	case "hard":
		return Hard, nil
	default:
		return Normal, fmt.Errorf("unknown difficulty %q", s)
	}
}

// Mode is the session state.
type Mode int

const (
	Running Mode = iota
	Paused
	MenuOpen
	GameOver
)

func (m Mode) String() string {
	switch m {
	case Running:
		return "running"
	case Paused:
		return "paused"
	case MenuOpen:
		return "menu"
	case GameOver:
		return "game over"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// Cue is an audio event emitted by the session.
type Cue int

const (
	CueShot Cue = iota
	CueHit
	CueReload
	CueDry
)

// Cues lists every cue in menu preview order.
var Cues = []Cue{CueShot, CueHit, CueReload, CueDry}

func (c Cue) String() string {
	switch c {
	case CueShot:
		return "shot"
	case CueHit:
		return "hit"
	case CueReload:
		return "reload"
	case CueDry:
		return "dry"
	default:
		return fmt.Sprintf("Cue(%d)", int(c))
	}
}

// Kind is the target variant. Kinds differ only in data.
type Kind int

const (
	Static Kind = iota
	Moving
	Small
)

func (k Kind) String() string {
	switch k {
	case Static:
		return "static"
	case Moving:
		return "moving"
	case Small:
		return "small"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Target is a shootable circle.
type Target struct {
	ID        uint64
	Kind      Kind
	Pos       Vec
	Vel       Vec // pixels per second, zero unless Moving
	Radius    float64
	Points    int
	SpawnedAt time.Duration // session clock
}

// Contains reports whether p lies inside the target circle.
func (t *Target) Contains(p Vec) bool {
	return t.Pos.Dist(p) <= t.Radius
}

// outside reports whether the whole circle lies outside a w x h screen.
func (t *Target) outside(w, h float64) bool {
	return t.Pos.X+t.Radius < 0 || t.Pos.X-t.Radius > w ||
		t.Pos.Y+t.Radius < 0 || t.Pos.Y-t.Radius > h
}

// beats reports whether t takes precedence over o when both are under the
// pointer: smaller first, then more valuable, then more recent.
func (t *Target) beats(o *Target) bool {
	if t.Radius != o.Radius {
		return t.Radius < o.Radius
	}
	if t.Points != o.Points {
		return t.Points > o.Points
	}
	if t.SpawnedAt != o.SpawnedAt {
		return t.SpawnedAt > o.SpawnedAt
	}
	return t.ID > o.ID
}
