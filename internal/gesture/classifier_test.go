package gesture

import (
	"math"
	"testing"

	"github.com/ayusman/fingergun/internal/detector"
)

func hand(h detector.HandLandmarks) *detector.HandLandmarks { return &h }

func TestFingerStates_Presets(t *testing.T) {
	cfg := DefaultConfig()

	tests := []struct {
		name string
		hand detector.HandLandmarks
		want Fingers
	}{
		{"finger gun", detector.FingerGunLandmarks(), Fingers{Thumb: true, Index: true}},
		{"fist", detector.FistLandmarks(), Fingers{}},
		{"thumbs up", detector.ThumbsUpLandmarks(), Fingers{Thumb: true}},
		{"open palm", detector.OpenPalmLandmarks(), Fingers{Thumb: true, Index: true, Middle: true, Ring: true, Pinky: true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FingerStates(hand(tt.hand), cfg); got != tt.want {
				t.Errorf("FingerStates() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestLookup(t *testing.T) {
	tests := []struct {
		name string
		f    Fingers
		want Gesture
	}{
		{"index only", Fingers{Index: true}, Shoot},
		{"index with thumb", Fingers{Thumb: true, Index: true}, Shoot},
		{"all folded", Fingers{}, Reload},
		{"thumb only", Fingers{Thumb: true}, Reload},
		{"four extended", Fingers{Index: true, Middle: true, Ring: true, Pinky: true}, Pause},
		{"all five extended", Fingers{Thumb: true, Index: true, Middle: true, Ring: true, Pinky: true}, Pause},
		{"peace sign", Fingers{Index: true, Middle: true}, None},
		{"pinky only", Fingers{Pinky: true}, None},
		{"three fingers", Fingers{Index: true, Middle: true, Ring: true}, None},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Lookup(tt.f); got != tt.want {
				t.Errorf("Lookup(%+v) = %v, want %v", tt.f, got, tt.want)
			}
		})
	}
}

func TestFingerStates_RotationInvariant(t *testing.T) {
	h := detector.FingerGunLandmarks()
	// Rotate the hand 90 degrees about the wrist.
	w := h.Points[detector.Wrist]
	for i, p := range h.Points {
		dx, dy := p.X-w.X, p.Y-w.Y
		h.Points[i].X = w.X - dy
		h.Points[i].Y = w.Y + dx
	}

	if got := Lookup(FingerStates(&h, DefaultConfig())); got != Shoot {
		t.Errorf("rotated finger gun classified as %v, want shoot", got)
	}
}

func TestClassifier_Dwell(t *testing.T) {
	cfg := DefaultConfig()
	cfg.DwellFrames = 3
	c := NewClassifier(cfg)
	gun := detector.FingerGunLandmarks()

	for i := 1; i <= 2; i++ {
		r := c.Update(&gun)
		if r.Gesture != None || r.Candidate != Shoot {
			t.Fatalf("frame %d: gesture %v candidate %v, want none/shoot", i, r.Gesture, r.Candidate)
		}
	}
	if r := c.Update(&gun); r.Gesture != Shoot {
		t.Fatalf("frame 3: gesture %v, want shoot", r.Gesture)
	}
}

func TestClassifier_FlickerSuppressed(t *testing.T) {
	c := NewClassifier(DefaultConfig())
	gun := detector.FingerGunLandmarks()
	palm := detector.OpenPalmLandmarks()

	for i := 0; i < 3; i++ {
		c.Update(&gun)
	}

	// Alternating single frames never reach the dwell count.
	for i := 0; i < 10; i++ {
		c.Update(&palm)
		if r := c.Update(&gun); r.Gesture != Shoot {
			t.Fatalf("iteration %d: gesture %v, want shoot held", i, r.Gesture)
		}
	}
}

func TestClassifier_LostHand(t *testing.T) {
	cfg := DefaultConfig()
	cfg.DwellFrames = 1
	cfg.LostFrames = 3
	c := NewClassifier(cfg)

	gun := detector.WithIndexTipAt(detector.FingerGunLandmarks(), 0.3, 0.4)
	before := c.Update(&gun)
	if before.Gesture != Shoot || !before.HasPointer {
		t.Fatalf("got %+v, want shoot with pointer", before)
	}

	for i := 1; i <= 3; i++ {
		r := c.Update(nil)
		if r.HandPresent {
			t.Fatal("hand should be absent")
		}
		if r.Pointer != before.Pointer || !r.HasPointer {
			t.Fatalf("absent frame %d: pointer %+v, want frozen at %+v", i, r.Pointer, before.Pointer)
		}
		want := Shoot
		if i >= 3 {
			want = None
		}
		if r.Gesture != want {
			t.Fatalf("absent frame %d: gesture %v, want %v", i, r.Gesture, want)
		}
	}
}

func TestClassifier_LowConfidenceIsAbsent(t *testing.T) {
	cfg := DefaultConfig()
	cfg.DwellFrames = 1
	c := NewClassifier(cfg)

	weak := detector.FingerGunLandmarks()
	weak.Score = 0.2
	r := c.Update(&weak)
	if r.HandPresent || r.HasPointer || r.Gesture != None {
		t.Errorf("low confidence hand produced %+v", r)
	}
}

func TestClassifier_Pointer(t *testing.T) {
	t.Run("mirrored index tip", func(t *testing.T) {
		c := NewClassifier(DefaultConfig())
		h := detector.WithIndexTipAt(detector.FingerGunLandmarks(), 0.2, 0.6)
		r := c.Update(&h)
		if math.Abs(r.Pointer.X-0.8) > 1e-9 || math.Abs(r.Pointer.Y-0.6) > 1e-9 {
			t.Errorf("pointer = %+v, want (0.8, 0.6)", r.Pointer)
		}
	})

	t.Run("unmirrored", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.Mirror = false
		c := NewClassifier(cfg)
		h := detector.WithIndexTipAt(detector.FingerGunLandmarks(), 0.2, 0.6)
		if r := c.Update(&h); math.Abs(r.Pointer.X-0.2) > 1e-9 {
			t.Errorf("pointer X = %f, want 0.2", r.Pointer.X)
		}
	})

	t.Run("exponential smoothing", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.Mirror = false
		cfg.Smoothing = 0.5
		c := NewClassifier(cfg)

		a := detector.WithIndexTipAt(detector.FingerGunLandmarks(), 0.2, 0.5)
		b := detector.WithIndexTipAt(detector.FingerGunLandmarks(), 0.6, 0.5)
		c.Update(&a)

		r := c.Update(&b)
		if math.Abs(r.Pointer.X-0.4) > 1e-9 {
			t.Errorf("after one step X = %f, want 0.4", r.Pointer.X)
		}
		r = c.Update(&b)
		if math.Abs(r.Pointer.X-0.5) > 1e-9 {
			t.Errorf("after two steps X = %f, want 0.5", r.Pointer.X)
		}
	})

	t.Run("deadzone absorbs jitter", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.Mirror = false
		cfg.Smoothing = 1
		cfg.Deadzone = 0.01
		c := NewClassifier(cfg)

		a := detector.WithIndexTipAt(detector.FingerGunLandmarks(), 0.5, 0.5)
		jitter := detector.WithIndexTipAt(detector.FingerGunLandmarks(), 0.505, 0.497)
		first := c.Update(&a)

		if r := c.Update(&jitter); r.Pointer != first.Pointer {
			t.Errorf("pointer moved from %+v to %+v inside deadzone", first.Pointer, r.Pointer)
		}
	})
}

func TestSensitivity(t *testing.T) {
	tests := []struct {
		wristY float64
		want   float64
	}{
		{0.5, 1},
		{0.1, 0.5},
		{0.75, 1.5},
		{1, 2},
		{1.4, 2},
	}

	for _, tt := range tests {
		if got := Sensitivity(tt.wristY); math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("Sensitivity(%v) = %v, want %v", tt.wristY, got, tt.want)
		}
	}
}

func TestClassifier_AdaptiveSmoothing(t *testing.T) {
	tests := []struct {
		name      string
		adaptive  bool
		smoothing float64
		wristY    float64
		wantX     float64
	}{
		{"fixed alpha ignores wrist", false, 0.25, 0.9, 0.3},
		{"low hand is more responsive", true, 0.25, 0.9, 0.38},
		{"raised hand is steadier", true, 0.25, 0.1, 0.25},
		{"alpha capped at one", true, 0.75, 1, 0.6},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.Mirror = false
			cfg.Deadzone = 0
			cfg.Smoothing = tt.smoothing
			cfg.Adaptive = tt.adaptive
			c := NewClassifier(cfg)

			a := detector.WithIndexTipAt(detector.FingerGunLandmarks(), 0.2, 0.5)
			b := detector.WithIndexTipAt(detector.FingerGunLandmarks(), 0.6, 0.5)
			a.Points[detector.Wrist].Y = tt.wristY
			b.Points[detector.Wrist].Y = tt.wristY
			c.Update(&a)

			if r := c.Update(&b); math.Abs(r.Pointer.X-tt.wantX) > 1e-9 {
				t.Errorf("X = %f, want %f", r.Pointer.X, tt.wantX)
			}
		})
	}
}

func TestClassifier_Reset(t *testing.T) {
	cfg := DefaultConfig()
	cfg.DwellFrames = 1
	c := NewClassifier(cfg)
	gun := detector.FingerGunLandmarks()
	c.Update(&gun)

	c.Reset()
	r := c.Update(nil)
	if r.Gesture != None || r.HasPointer {
		t.Errorf("after Reset got %+v, want empty reading", r)
	}
}

func TestGesture_String(t *testing.T) {
	for g, want := range map[Gesture]string{None: "none", Shoot: "shoot", Reload: "reload", Pause: "pause", Gesture(9): "unknown"} {
		if got := g.String(); got != want {
			t.Errorf("String() = %q, want %q", got, want)
		}
	}
}
