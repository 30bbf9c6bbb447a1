package app

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"gocv.io/x/gocv"

	"github.com/ayusman/fingergun/internal/audio"
	"github.com/ayusman/fingergun/internal/capture"
	"github.com/ayusman/fingergun/internal/detector"
	"github.com/ayusman/fingergun/internal/game"
	"github.com/ayusman/fingergun/internal/gesture"
	"github.com/ayusman/fingergun/internal/tracker"
)

func TestApp_MouseSource(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Source = SourceMouse
	a := New(cfg, audio.Nop{}, zerolog.Nop())

	if err := a.Start(context.Background()); err != nil {
		t.Fatalf("Start() = %v", err)
	}
	defer a.Stop()

	if a.Source() != SourceMouse {
		t.Errorf("Source() = %q, want mouse", a.Source())
	}
}

type brokenCamera struct{ capture.MockCamera }

func (*brokenCamera) Open() error { return errors.New("no such device") }

func TestApp_CameraFailureFallsBackToMouse(t *testing.T) {
	a := New(DefaultConfig(), audio.Nop{}, zerolog.Nop())
	a.SetCamera(&brokenCamera{})
	a.SetDetector(detector.NewMockDetector())

	if err := a.Start(context.Background()); err != nil {
		t.Fatalf("Start() = %v, camera failure must not be fatal", err)
	}
	defer a.Stop()

	if a.Source() != SourceMouse {
		t.Errorf("Source() = %q, want mouse fallback", a.Source())
	}
	if snap := a.Engine().Step(time.Now(), Input{}); snap.Sensor != "mouse" {
		t.Errorf("sensor = %q, want mouse", snap.Sensor)
	}
}

// startFailDetector is a detector whose model never loads.
type startFailDetector struct{ detector.MockDetector }

func (*startFailDetector) Start() error { return errors.New("no module named mediapipe") }

func TestApp_DetectorStartFailureFallsBackToMouse(t *testing.T) {
	a := New(DefaultConfig(), audio.Nop{}, zerolog.Nop())
	cam := capture.NewMockCamera(nil, true)
	a.SetCamera(cam)
	a.SetDetector(&startFailDetector{})

	if err := a.Start(context.Background()); err != nil {
		t.Fatalf("Start() = %v, detector failure must not be fatal", err)
	}
	defer a.Stop()

	if a.Source() != SourceMouse {
		t.Errorf("Source() = %q, want mouse fallback", a.Source())
	}
	if cam.IsOpen() {
		t.Error("camera should not be opened without a working detector")
	}
}

// stuckDetector never answers until released.
type stuckDetector struct {
	release chan struct{}
}

func (d *stuckDetector) Detect(*gocv.Mat) ([]detector.HandLandmarks, error) {
	<-d.release
	return nil, nil
}

func (d *stuckDetector) Close() error { return nil }

func TestApp_StuckDetectorDoesNotStallTicks(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	frame := gocv.NewMatWithSize(120, 160, gocv.MatTypeCV8UC3)
	defer frame.Close()

	cam := capture.NewMockCamera([]*gocv.Mat{&frame}, true)
	cam.SetFPS(100)
	det := &stuckDetector{release: make(chan struct{})}

	a := New(DefaultConfig(), audio.Nop{}, zerolog.Nop())
	a.SetCamera(cam)
	a.SetDetector(det)
	if err := a.Start(context.Background()); err != nil {
		t.Fatalf("Start() = %v", err)
	}
	defer func() {
		close(det.release)
		a.Stop()
	}()

	var snap game.Snapshot
	for i := 0; i < 60; i++ {
		start := time.Now()
		snap = a.Engine().Step(time.Now(), Input{})
		if d := time.Since(start); d > 50*time.Millisecond {
			t.Fatalf("tick %d took %v with a stuck detector", i, d)
		}
		time.Sleep(10 * time.Millisecond)
	}
	if snap.Sensor != tracker.StatusDegraded.String() {
		t.Errorf("sensor = %q, want %q", snap.Sensor, tracker.StatusDegraded)
	}
}

func TestApp_CameraPipeline(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	frame := gocv.NewMatWithSize(120, 160, gocv.MatTypeCV8UC3)
	defer frame.Close()

	cam := capture.NewMockCamera([]*gocv.Mat{&frame}, true)
	cam.SetFPS(100)

	det := detector.NewMockDetector()
	det.SetHands(detector.FingerGunLandmarks())

	a := New(DefaultConfig(), audio.Nop{}, zerolog.Nop())
	a.SetCamera(cam)
	a.SetDetector(det)

	if err := a.Start(context.Background()); err != nil {
		t.Fatalf("Start() = %v", err)
	}
	if a.Source() != SourceCamera {
		t.Fatalf("Source() = %q, want camera", a.Source())
	}

	deadline := time.Now().Add(3 * time.Second)
	shot := false
	for time.Now().Before(deadline) && !shot {
		snap := a.Engine().Step(time.Now(), Input{})
		shot = snap.Gesture == gesture.Shoot && snap.Ammo < snap.MaxAmmo
		time.Sleep(10 * time.Millisecond)
	}
	if !shot {
		t.Error("finger gun from the camera never fired")
	}

	if err := a.Stop(); err != nil {
		t.Errorf("Stop() = %v", err)
	}
	if cam.IsOpen() {
		t.Error("camera should be closed after Stop")
	}
	if a.Source() != SourceMouse {
		t.Error("stopped app should no longer poll the camera")
	}
}
