package capture

import (
	"image"
	"sync"

	"gocv.io/x/gocv"
)

// MotionDetector reports whether consecutive frames differ enough to be
// worth running hand detection on. Frames are shrunk to a small working
// width, blurred and differenced against the previous one.
type MotionDetector struct {
	threshold   float64
	prevGray    gocv.Mat
	initialized bool
	mu          sync.Mutex
}

const (
	// motionWidth is the working width frames are resized to before differencing.
	motionWidth = 160
	// blurSize is the Gaussian kernel applied at working size.
	blurSize = 7
	// pixelDelta is the grey level change that counts a pixel as moved.
	pixelDelta = 25
)

// NewMotionDetector creates a MotionDetector. threshold is the percentage of
// pixels that must change, so 0.5 means half a percent.
func NewMotionDetector(threshold float64) *MotionDetector {
	return &MotionDetector{
		threshold: threshold,
		prevGray:  gocv.NewMat(),
	}
}

// Detect compares frame with the previous one and returns whether motion
// exceeded the threshold together with the changed pixel percentage. The
// first frame after construction or Reset only sets the baseline.
func (m *MotionDetector) Detect(frame *gocv.Mat) (bool, float64) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if frame == nil || frame.Empty() {
		return false, 0
	}

	gray := gocv.NewMat()
	defer gray.Close()
	if frame.Channels() > 1 {
		gocv.CvtColor(*frame, &gray, gocv.ColorBGRToGray)
	} else {
		frame.CopyTo(&gray)
	}

	small := gocv.NewMat()
	defer small.Close()
	if gray.Cols() > motionWidth {
		h := gray.Rows() * motionWidth / gray.Cols()
		gocv.Resize(gray, &small, image.Point{X: motionWidth, Y: h}, 0, 0, gocv.InterpolationArea)
	} else {
		gray.CopyTo(&small)
	}

	gocv.GaussianBlur(small, &small, image.Point{X: blurSize, Y: blurSize}, 0, 0, gocv.BorderDefault)

	if !m.initialized || m.prevGray.Rows() != small.Rows() || m.prevGray.Cols() != small.Cols() {
		small.CopyTo(&m.prevGray)
		m.initialized = true
		return false, 0
	}

	diff := gocv.NewMat()
	defer diff.Close()
	gocv.AbsDiff(small, m.prevGray, &diff)
	gocv.Threshold(diff, &diff, pixelDelta, 255, gocv.ThresholdBinary)

	changed := float64(gocv.CountNonZero(diff)) / float64(diff.Rows()*diff.Cols()) * 100.0

	small.CopyTo(&m.prevGray)

	return changed > m.threshold, changed
}

// Reset drops the baseline so the next frame starts a fresh comparison.
func (m *MotionDetector) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.clear()
}

// Close releases the baseline Mat. The detector stays usable.
func (m *MotionDetector) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.clear()
}

func (m *MotionDetector) clear() {
	if !m.prevGray.Empty() {
		m.prevGray.Close()
		m.prevGray = gocv.NewMat()
	}
	m.initialized = false
}

// SetThreshold changes the motion threshold. Values <= 0 are ignored.
func (m *MotionDetector) SetThreshold(threshold float64) {
	if threshold <= 0 {
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.threshold = threshold
}
