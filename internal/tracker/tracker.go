// Package tracker turns camera frames into hand poses on its own goroutine
// and hands the newest pose to the game tick without ever blocking it.
package tracker

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/ayusman/fingergun/internal/capture"
	"github.com/ayusman/fingergun/internal/detector"
)

// Status describes the health of the pose source for the HUD.
type Status int

const (
	// StatusWaiting means no pose result has arrived yet.
	StatusWaiting Status = iota
	// StatusNoHand means frames are flowing but no hand is visible.
	StatusNoHand
	// StatusTracking means a hand is being tracked.
	StatusTracking
	// StatusDegraded means results are stale or the detector is failing.
	StatusDegraded
)

func (s Status) String() string {
	switch s {
	case StatusWaiting:
		return "waiting"
	case StatusNoHand:
		return "no hand"
	case StatusTracking:
		return "tracking"
	case StatusDegraded:
		return "degraded"
	default:
		return "unknown"
	}
}

// Config holds the tracking settings.
type Config struct {
	// StaleAfter bounds how long the last pose is reused when no new result
	// arrives, whether the camera or the detector is the one stalling.
	StaleAfter time.Duration
	// MotionThreshold is the changed pixel percentage that counts as motion.
	// Zero disables the motion gate.
	MotionThreshold float64
	// MaxSkipFrames is how many motionless frames in a row may reuse the
	// last pose before the detector runs again.
	MaxSkipFrames int
}

// DefaultConfig returns the tracking settings used by the game.
func DefaultConfig() Config {
	return Config{
		StaleAfter:      500 * time.Millisecond,
		MotionThreshold: 0.5,
		MaxSkipFrames:   2,
	}
}

// Result is the detector outcome for one frame.
type Result struct {
	Hand *detector.HandLandmarks
	Err  error
	Seq  uint64
}

// Tracker runs the detector on a worker goroutine fed by the frame slot and
// publishes each outcome to a result slot. Poll is called from the game
// loop and only reads that slot.
type Tracker struct {
	config   Config
	frames   *capture.Slot[capture.Frame]
	results  *capture.Slot[Result]
	detector detector.Detector
	motion   *capture.MotionDetector
	log      zerolog.Logger
	wg       sync.WaitGroup

	// Worker state.
	lastHand *detector.HandLandmarks
	skipped  int
	failures int

	// Game loop state.
	last        *detector.HandLandmarks
	status      Status
	lastArrival time.Time
	firstPoll   time.Time
}

// New creates a Tracker reading frames from slot. Call Start to begin
// detection.
func New(config Config, slot *capture.Slot[capture.Frame], det detector.Detector, log zerolog.Logger) *Tracker {
	t := &Tracker{
		config:   config,
		frames:   slot,
		results:  capture.NewSlot[Result](nil),
		detector: det,
		log:      log,
	}
	if config.MotionThreshold > 0 {
		t.motion = capture.NewMotionDetector(config.MotionThreshold)
	}
	return t
}

// Start runs detection until ctx is cancelled.
func (t *Tracker) Start(ctx context.Context) {
	t.wg.Add(1)
	go t.run(ctx)
}

// Wait blocks until the worker has exited. A Detect call in flight is
// allowed to finish; detectors bound their own calls.
func (t *Tracker) Wait() {
	t.wg.Wait()
}

func (t *Tracker) run(ctx context.Context) {
	defer t.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.frames.Ready():
			t.step()
		}
	}
}

// step detects on the newest frame, if any, and publishes the result.
func (t *Tracker) step() bool {
	frame := t.frames.Take()
	if frame == nil {
		return false
	}
	r := t.detect(frame)
	frame.Close()
	t.results.Put(&r)
	return true
}

func (t *Tracker) detect(frame *capture.Frame) Result {
	moved := true
	if t.motion != nil {
		moved, _ = t.motion.Detect(frame.Mat)
	}
	if !moved && t.lastHand != nil && t.skipped < t.config.MaxSkipFrames {
		t.skipped++
		hand := *t.lastHand
		return Result{Hand: &hand, Seq: frame.Seq}
	}
	t.skipped = 0

	hands, err := t.detector.Detect(frame.Mat)
	if err != nil {
		t.failures++
		if t.failures == 1 || t.failures%100 == 0 {
			t.log.Warn().Err(err).Int("failures", t.failures).Msg("hand detection failed")
		}
		t.lastHand = nil
		return Result{Err: err, Seq: frame.Seq}
	}
	if t.failures > 0 {
		t.log.Info().Int("failures", t.failures).Msg("hand detection recovered")
		t.failures = 0
	}

	best := detector.Best(hands)
	if best == nil {
		t.lastHand = nil
		return Result{Seq: frame.Seq}
	}
	hand := *best
	t.lastHand = &hand
	published := hand
	return Result{Hand: &published, Seq: frame.Seq}
}

// Poll returns the current hand pose, or nil when no hand is available.
// It never blocks: with no new result the previous pose is reused until
// StaleAfter has passed, after which the source is degraded.
func (t *Tracker) Poll(now time.Time) (*detector.HandLandmarks, Status) {
	if t.firstPoll.IsZero() {
		t.firstPoll = now
	}

	r := t.results.Take()
	if r == nil {
		since := t.lastArrival
		if since.IsZero() {
			since = t.firstPoll
		}
		if now.Sub(since) > t.config.StaleAfter {
			if t.status != StatusDegraded {
				t.log.Warn().Dur("since", now.Sub(since)).Msg("hand poses stale")
			}
			t.last = nil
			t.status = StatusDegraded
		}
		return t.last, t.status
	}

	if t.status == StatusDegraded && r.Err == nil {
		t.log.Info().Msg("hand poses resumed")
	}
	t.lastArrival = now

	switch {
	case r.Err != nil:
		t.last = nil
		t.status = StatusDegraded
	case r.Hand == nil:
		t.last = nil
		t.status = StatusNoHand
	default:
		t.last = r.Hand
		t.status = StatusTracking
	}
	return t.last, t.status
}

// Reset forgets the last pose. It is called from the game loop.
func (t *Tracker) Reset() {
	t.results.Drain()
	t.last = nil
	t.status = StatusWaiting
	t.lastArrival = time.Time{}
	t.firstPoll = time.Time{}
}

// Close releases the motion detector. Call it after Wait. The Detector is
// owned by the caller.
func (t *Tracker) Close() {
	if t.motion != nil {
		t.motion.Close()
	}
}
