package capture

import (
	"testing"

	"gocv.io/x/gocv"
)

func newFrame(t *testing.T, grey float64) gocv.Mat {
	t.Helper()
	m := gocv.NewMatWithSize(480, 640, gocv.MatTypeCV8UC3)
	if grey > 0 {
		m.SetTo(gocv.NewScalar(grey, grey, grey, 0))
	}
	t.Cleanup(func() { m.Close() })
	return m
}

func TestMotionDetector_Detect(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test that requires GoCV Mat creation")
	}

	tests := []struct {
		name       string
		threshold  float64
		first      float64
		second     float64
		wantMotion bool
	}{
		{"identical frames", 1.0, 0, 0, false},
		{"black to white", 1.0, 0, 255, true},
		{"small brightness drift", 1.0, 100, 110, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			md := NewMotionDetector(tt.threshold)
			defer md.Close()

			a := newFrame(t, tt.first)
			b := newFrame(t, tt.second)

			if detected, pct := md.Detect(&a); detected || pct != 0 {
				t.Fatalf("first frame = (%v, %f), want baseline only", detected, pct)
			}

			detected, pct := md.Detect(&b)
			if detected != tt.wantMotion {
				t.Errorf("Detect() = %v (%.2f%%), want %v", detected, pct, tt.wantMotion)
			}
		})
	}
}

func TestMotionDetector_NilFrame(t *testing.T) {
	md := NewMotionDetector(1.0)
	defer md.Close()

	if detected, pct := md.Detect(nil); detected || pct != 0 {
		t.Errorf("Detect(nil) = (%v, %f), want (false, 0)", detected, pct)
	}
}

func TestMotionDetector_Reset(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test that requires GoCV Mat creation")
	}

	md := NewMotionDetector(1.0)
	defer md.Close()

	black := newFrame(t, 0)
	white := newFrame(t, 255)

	md.Detect(&black)
	md.Reset()

	if md.initialized {
		t.Error("detector should not be initialized after Reset")
	}

	// The first frame after a reset is a new baseline even if it differs.
	if detected, _ := md.Detect(&white); detected {
		t.Error("first frame after Reset should not report motion")
	}
}

func TestMotionDetector_SetThreshold(t *testing.T) {
	md := NewMotionDetector(1.0)
	defer md.Close()

	md.SetThreshold(5.0)
	if md.threshold != 5.0 {
		t.Errorf("threshold = %f, want 5.0", md.threshold)
	}

	md.SetThreshold(-1.0)
	if md.threshold != 5.0 {
		t.Errorf("negative threshold should be ignored, got %f", md.threshold)
	}
}

func TestMotionDetector_Close_Multiple(t *testing.T) {
	md := NewMotionDetector(1.0)
	md.Close()
	md.Close()
}
