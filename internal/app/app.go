// Package app wires the camera, hand tracking, gesture classification, game
// session and audio into a running game.
package app

import (
	"context"
	"errors"
	"sync"

	"github.com/rs/zerolog"

	"github.com/ayusman/fingergun/internal/audio"
	"github.com/ayusman/fingergun/internal/capture"
	"github.com/ayusman/fingergun/internal/detector"
	"github.com/ayusman/fingergun/internal/game"
	"github.com/ayusman/fingergun/internal/gesture"
	"github.com/ayusman/fingergun/internal/logging"
	"github.com/ayusman/fingergun/internal/tracker"
)

// Input sources.
const (
	SourceCamera = "camera"
	SourceMouse  = "mouse"
)

// Config holds configuration options for the application.
type Config struct {
	Source   string
	TickRate int
	Camera   capture.Config
	Detector detector.Config
	Tracker  tracker.Config
	Gesture  gesture.Config
	Game     game.Config
}

// DefaultConfig returns a camera driven game at 60 ticks per second.
func DefaultConfig() Config {
	return Config{
		Source:   SourceCamera,
		TickRate: 60,
		Camera:   capture.DefaultConfig(),
		Detector: detector.DefaultConfig(),
		Tracker:  tracker.DefaultConfig(),
		Gesture:  gesture.DefaultConfig(),
		Game:     game.DefaultConfig(),
	}
}

// starter is implemented by detectors that load a model up front.
type starter interface {
	Start() error
}

// App owns the capture hardware and the engine built on top of it.
type App struct {
	config   Config
	log      zerolog.Logger
	engine   *Engine
	camera   capture.Camera
	detector detector.Detector
	slot     *capture.Slot[capture.Frame]
	grabber  *capture.Grabber
	tracker  *tracker.Tracker
	mu       sync.Mutex
	cancel   context.CancelFunc
}

// New creates an App. The camera is not touched until Start.
func New(config Config, player audio.Player, log zerolog.Logger) *App {
	if config.TickRate <= 0 {
		config.TickRate = 60
	}
	session := game.NewSession(config.Game)
	classifier := gesture.NewClassifier(config.Gesture)

	return &App{
		config: config,
		log:    log,
		engine: NewEngine(session, classifier, nil, player, logging.Component(log, "engine")),
		slot:   capture.NewFrameSlot(),
	}
}

// SetCamera replaces the camera used by Start.
func (a *App) SetCamera(c capture.Camera) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.camera = c
}

// SetDetector replaces the hand detector used by Start.
func (a *App) SetDetector(d detector.Detector) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.detector = d
}

// Engine returns the game engine.
func (a *App) Engine() *Engine {
	return a.engine
}

// Source reports the active input source after Start.
func (a *App) Source() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.tracker != nil {
		return SourceCamera
	}
	return SourceMouse
}

// Start opens the camera and detector and begins grabbing frames. If either
// is unavailable the game falls back to mouse and keyboard; that is logged,
// not returned.
func (a *App) Start(ctx context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.cancel != nil {
		return nil
	}
	if a.config.Source == SourceMouse {
		a.log.Info().Msg("mouse input selected")
		return nil
	}

	if a.detector == nil {
		det, err := detector.NewMediaPipeDetector(a.config.Detector, logging.Component(a.log, "detector"))
		if err != nil {
			a.log.Warn().Err(err).Msg("hand detector unavailable, falling back to mouse")
			return nil
		}
		a.detector = det
	}

	if s, ok := a.detector.(starter); ok {
		if err := s.Start(); err != nil {
			a.log.Warn().Err(err).Msg("hand detector failed to start, falling back to mouse")
			return nil
		}
	}

	if a.camera == nil {
		a.camera = capture.NewCamera(a.config.Camera)
	}
	if err := a.camera.Open(); err != nil {
		a.log.Warn().Err(err).Msg("camera unavailable, falling back to mouse")
		return nil
	}

	grabCtx, cancel := context.WithCancel(ctx)
	a.cancel = cancel
	a.grabber = capture.NewGrabber(a.camera, a.slot, logging.Component(a.log, "capture"))
	a.grabber.Start(grabCtx)

	a.tracker = tracker.New(a.config.Tracker, a.slot, a.detector, logging.Component(a.log, "tracker"))
	a.tracker.Start(grabCtx)
	a.engine.SetSource(a.tracker)

	a.log.Info().Int("fps", a.camera.FPS()).Msg("camera capture started")
	return nil
}

// Run steps the engine until ctx is cancelled or the player quits.
func (a *App) Run(ctx context.Context, fe Frontend) error {
	return a.engine.Run(ctx, fe, a.config.TickRate)
}

// Stop halts capture and releases the camera and detector.
func (a *App) Stop() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	var errs []error

	if a.cancel != nil {
		a.cancel()
		a.grabber.Wait()
		if a.tracker != nil {
			a.tracker.Wait()
		}
		a.cancel = nil
	}

	if a.camera != nil {
		if err := a.camera.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	if a.tracker != nil {
		a.tracker.Close()
		a.tracker = nil
		a.engine.SetSource(nil)
	}
	if a.detector != nil {
		if err := a.detector.Close(); err != nil {
			errs = append(errs, err)
		}
	}

	a.log.Info().Msg("capture stopped")
	return errors.Join(errs...)
}
