package gesture

import (
	"math"

	"github.com/ayusman/fingergun/internal/detector"
)

// Point is a pointer position in normalized screen coordinates, [0,1] on
// both axes with Y growing downwards.
type Point struct {
	X, Y float64
}

// Reading is the classifier output for one frame.
type Reading struct {
	// Gesture is the accepted gesture after dwell and lost-hand handling.
	Gesture Gesture
	// Candidate is the gesture seen in this frame before dwell.
	Candidate Gesture
	// Pointer is the smoothed index fingertip. Valid when HasPointer is set;
	// it stays frozen while the hand is absent.
	Pointer    Point
	HasPointer bool
	// HandPresent reports whether a usable hand was seen this frame.
	HandPresent bool
	Fingers     Fingers
}

// Config holds the classifier tuning parameters.
type Config struct {
	MinConfidence       float64
	FingerExtendedAngle float64
	ThumbExtendedAngle  float64
	ThumbSpread         float64
	Smoothing           float64
	Deadzone            float64
	DwellFrames         int
	LostFrames          int
	Mirror              bool
	// Adaptive scales Smoothing by the wrist height: a hand low in the frame
	// gets a more responsive pointer, a raised hand a steadier one.
	Adaptive bool
}

// DefaultConfig returns the tuning used by the game.
func DefaultConfig() Config {
	return Config{
		MinConfidence:       0.5,
		FingerExtendedAngle: 140,
		ThumbExtendedAngle:  150,
		ThumbSpread:         0.45,
		Smoothing:           0.4,
		Deadzone:            0.004,
		DwellFrames:         3,
		LostFrames:          5,
		Mirror:              true,
	}
}

// Classifier converts per-frame hand landmarks into a stable gesture and a
// smoothed pointer. It is not safe for concurrent use.
type Classifier struct {
	config Config

	accepted  Gesture
	candidate Gesture
	seen      int
	lost      int

	raw        Point
	smoothed   Point
	hasPointer bool
}

// NewClassifier creates a Classifier. Out of range values are clamped.
func NewClassifier(cfg Config) *Classifier {
	if cfg.DwellFrames < 1 {
		cfg.DwellFrames = 1
	}
	if cfg.LostFrames < 1 {
		cfg.LostFrames = 1
	}
	if cfg.Smoothing <= 0 || cfg.Smoothing > 1 {
		cfg.Smoothing = 1
	}
	return &Classifier{config: cfg}
}

// Update feeds one frame. hand may be nil when no hand was detected; a hand
// below MinConfidence counts as absent.
func (c *Classifier) Update(hand *detector.HandLandmarks) Reading {
	if hand == nil || hand.Score < c.config.MinConfidence {
		return c.absent()
	}
	c.lost = 0

	fingers := FingerStates(hand, c.config)
	cand := Lookup(fingers)
	c.dwell(cand)
	c.track(hand.Points[detector.IndexTip], hand.Points[detector.Wrist].Y)

	return Reading{
		Gesture:     c.accepted,
		Candidate:   cand,
		Pointer:     c.smoothed,
		HasPointer:  true,
		HandPresent: true,
		Fingers:     fingers,
	}
}

// Reset clears all temporal state.
func (c *Classifier) Reset() {
	*c = Classifier{config: c.config}
}

func (c *Classifier) absent() Reading {
	c.lost++
	if c.lost >= c.config.LostFrames {
		c.accepted = None
		c.candidate = None
		c.seen = 0
	}
	return Reading{
		Gesture:    c.accepted,
		Candidate:  None,
		Pointer:    c.smoothed,
		HasPointer: c.hasPointer,
	}
}

func (c *Classifier) dwell(g Gesture) {
	if g == c.accepted {
		c.candidate = g
		c.seen = 0
		return
	}
	if g == c.candidate {
		c.seen++
	} else {
		c.candidate = g
		c.seen = 1
	}
	if c.seen >= c.config.DwellFrames {
		c.accepted = g
		c.seen = 0
	}
}

func (c *Classifier) track(tip detector.Point3D, wristY float64) {
	p := Point{X: clamp01(tip.X), Y: clamp01(tip.Y)}
	if c.config.Mirror {
		p.X = 1 - p.X
	}

	if !c.hasPointer {
		c.raw, c.smoothed, c.hasPointer = p, p, true
		return
	}

	dz := c.config.Deadzone
	if math.Abs(p.X-c.raw.X) >= dz || math.Abs(p.Y-c.raw.Y) >= dz {
		c.raw = p
	}

	a := c.config.Smoothing
	if c.config.Adaptive {
		a = math.Min(1, a*Sensitivity(wristY))
	}
	c.smoothed.X += a * (c.raw.X - c.smoothed.X)
	c.smoothed.Y += a * (c.raw.Y - c.smoothed.Y)
}

// Sensitivity maps a normalized wrist height to a smoothing multiplier in
// [0.5, 2]. Mid-frame is 1.
func Sensitivity(wristY float64) float64 {
	return math.Max(0.5, math.Min(2, wristY/0.5))
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}
