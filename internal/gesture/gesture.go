// Package gesture classifies hand landmarks into discrete game gestures and
// a smoothed pointer position.
package gesture

import "github.com/ayusman/fingergun/internal/detector"

// Gesture is a discrete player intent.
type Gesture int

const (
	None Gesture = iota
	Shoot
	Reload
	Pause
)

func (g Gesture) String() string {
	switch g {
	case None:
		return "none"
	case Shoot:
		return "shoot"
	case Reload:
		return "reload"
	case Pause:
		return "pause"
	default:
		return "unknown"
	}
}

// Fingers holds the extended state of each finger.
type Fingers struct {
	Thumb  bool
	Index  bool
	Middle bool
	Ring   bool
	Pinky  bool
}

// Lookup maps a finger pattern to a gesture. The thumb does not take part:
// players hold it differently and the detector is least reliable on it.
func Lookup(f Fingers) Gesture {
	others := [3]bool{f.Middle, f.Ring, f.Pinky}
	switch {
	case f.Index && others == [3]bool{}:
		return Shoot
	case !f.Index && others == [3]bool{}:
		return Reload
	case f.Index && others == [3]bool{true, true, true}:
		return Pause
	default:
		return None
	}
}

// chains lists MCP, PIP and TIP indices for index through pinky.
var chains = [4][3]int{
	{detector.IndexMCP, detector.IndexPIP, detector.IndexTip},
	{detector.MiddleMCP, detector.MiddlePIP, detector.MiddleTip},
	{detector.RingMCP, detector.RingPIP, detector.RingTip},
	{detector.PinkyMCP, detector.PinkyPIP, detector.PinkyTip},
}

// FingerStates classifies each finger of hand as extended or folded using
// joint angles, so the result does not depend on hand rotation.
func FingerStates(hand *detector.HandLandmarks, cfg Config) Fingers {
	n := hand.Normalize()
	p := n.Points

	var ext [4]bool
	for i, c := range chains {
		ext[i] = detector.JointAngle(p[c[0]], p[c[1]], p[c[2]]) >= cfg.FingerExtendedAngle
	}

	thumbStraight := detector.JointAngle(p[detector.ThumbMCP], p[detector.ThumbIP], p[detector.ThumbTip]) >= cfg.ThumbExtendedAngle
	thumbOut := detector.Distance(p[detector.ThumbTip], p[detector.IndexMCP]) >= cfg.ThumbSpread

	return Fingers{
		Thumb:  thumbStraight && thumbOut,
		Index:  ext[0],
		Middle: ext[1],
		Ring:   ext[2],
		Pinky:  ext[3],
	}
}
