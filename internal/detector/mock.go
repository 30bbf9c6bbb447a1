package detector

import (
	"sync"

	"gocv.io/x/gocv"
)

// MockDetector is a test implementation of the Detector interface.
// It allows tests to control the detection results.
type MockDetector struct {
	mu    sync.Mutex
	hands []HandLandmarks
	err   error
	calls int
}

// NewMockDetector creates a new MockDetector instance.
func NewMockDetector() *MockDetector {
	return &MockDetector{}
}

// SetHands sets the hands that will be returned by Detect.
func (m *MockDetector) SetHands(hands ...HandLandmarks) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.hands = hands
}

// SetError sets the error that will be returned by Detect.
func (m *MockDetector) SetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// Calls reports how many times Detect has run.
func (m *MockDetector) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// Detect returns the pre-configured hands or error.
func (m *MockDetector) Detect(frame *gocv.Mat) ([]HandLandmarks, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	out := make([]HandLandmarks, len(m.hands))
	copy(out, m.hands)
	return out, nil
}

// Close is a no-op for the mock detector.
func (m *MockDetector) Close() error {
	return nil
}

// Preset joint coordinates in normalized image space, wrist at (0.5, 0.8).
var (
	thumbUp     = [4]Point3D{{0.55, 0.75, 0}, {0.58, 0.65, 0}, {0.58, 0.50, 0}, {0.58, 0.35, 0}}
	thumbSide   = [4]Point3D{{0.55, 0.75, 0.02}, {0.62, 0.70, 0.03}, {0.68, 0.65, 0.03}, {0.73, 0.60, 0.03}}
	thumbTucked = [4]Point3D{{0.55, 0.75, 0}, {0.58, 0.72, -0.01}, {0.56, 0.69, -0.04}, {0.52, 0.71, -0.05}}

	indexCurled  = [4]Point3D{{0.55, 0.70, -0.02}, {0.55, 0.68, -0.05}, {0.52, 0.70, -0.04}, {0.50, 0.72, -0.02}}
	middleCurled = [4]Point3D{{0.50, 0.68, -0.02}, {0.50, 0.66, -0.05}, {0.47, 0.68, -0.04}, {0.45, 0.70, -0.02}}
	ringCurled   = [4]Point3D{{0.45, 0.70, -0.02}, {0.45, 0.68, -0.05}, {0.42, 0.70, -0.04}, {0.40, 0.72, -0.02}}
	pinkyCurled  = [4]Point3D{{0.40, 0.72, -0.02}, {0.40, 0.70, -0.05}, {0.37, 0.72, -0.04}, {0.35, 0.74, -0.02}}

	indexStraight  = [4]Point3D{{0.55, 0.68, 0}, {0.57, 0.55, 0}, {0.58, 0.45, 0}, {0.58, 0.35, 0}}
	middleStraight = [4]Point3D{{0.50, 0.66, 0}, {0.50, 0.52, 0}, {0.50, 0.40, 0}, {0.50, 0.28, 0}}
	ringStraight   = [4]Point3D{{0.45, 0.68, 0}, {0.43, 0.55, 0}, {0.42, 0.45, 0}, {0.42, 0.35, 0}}
	pinkyStraight  = [4]Point3D{{0.40, 0.70, 0}, {0.37, 0.60, 0}, {0.35, 0.50, 0}, {0.34, 0.42, 0}}
)

func buildHand(thumb, index, middle, ring, pinky [4]Point3D) HandLandmarks {
	h := HandLandmarks{Handedness: "Right", Score: 0.95}
	h.Points[Wrist] = Point3D{X: 0.5, Y: 0.8}
	for i, chain := range [][4]Point3D{thumb, index, middle, ring, pinky} {
		copy(h.Points[1+i*4:5+i*4], chain[:])
	}
	return h
}

// FingerGunLandmarks returns a hand with the index finger pointing up and the
// other fingers curled. The thumb is raised.
func FingerGunLandmarks() HandLandmarks {
	return buildHand(thumbUp, indexStraight, middleCurled, ringCurled, pinkyCurled)
}

// FistLandmarks returns a closed fist with the thumb tucked over the fingers.
func FistLandmarks() HandLandmarks {
	return buildHand(thumbTucked, indexCurled, middleCurled, ringCurled, pinkyCurled)
}

// ThumbsUpLandmarks returns a thumbs up: thumb raised, fingers curled.
func ThumbsUpLandmarks() HandLandmarks {
	return buildHand(thumbUp, indexCurled, middleCurled, ringCurled, pinkyCurled)
}

// OpenPalmLandmarks returns an open palm with every finger extended.
func OpenPalmLandmarks() HandLandmarks {
	return buildHand(thumbSide, indexStraight, middleStraight, ringStraight, pinkyStraight)
}

// WithIndexTipAt returns a copy of h translated so that the index fingertip
// sits at (x, y) in normalized image coordinates.
func WithIndexTipAt(h HandLandmarks, x, y float64) HandLandmarks {
	dx := x - h.Points[IndexTip].X
	dy := y - h.Points[IndexTip].Y
	for i := range h.Points {
		h.Points[i].X += dx
		h.Points[i].Y += dy
	}
	return h
}
