package app

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/ayusman/fingergun/internal/audio"
	"github.com/ayusman/fingergun/internal/detector"
	"github.com/ayusman/fingergun/internal/game"
	"github.com/ayusman/fingergun/internal/gesture"
	"github.com/ayusman/fingergun/internal/tracker"
)

// PoseSource yields the current hand pose without blocking.
type PoseSource interface {
	Poll(now time.Time) (*detector.HandLandmarks, tracker.Status)
}

// Input is what a frontend collected since the previous tick.
type Input struct {
	Commands []game.Command
	// Mouse is the cursor in screen pixels, valid when HasMouse is set.
	Mouse    game.Vec
	HasMouse bool
}

// Frontend presents snapshots and collects player input for Run.
type Frontend interface {
	// Poll returns the input gathered since the last call. It must not block.
	Poll() Input
	Present(snap game.Snapshot) error
}

// Engine runs one game tick at a time: pose, gesture, session, audio.
// It is owned by a single goroutine.
type Engine struct {
	source     PoseSource
	classifier *gesture.Classifier
	session    *game.Session
	player     audio.Player
	log        zerolog.Logger

	last       time.Time
	volume     int
	muted      bool
	tuned      bool
	done       bool
	lastSensor string
}

// NewEngine composes an engine. source may be nil for mouse-only play and
// player may be nil for silence.
func NewEngine(session *game.Session, classifier *gesture.Classifier, source PoseSource, player audio.Player, log zerolog.Logger) *Engine {
	if player == nil {
		player = audio.Nop{}
	}
	return &Engine{
		source:     source,
		classifier: classifier,
		session:    session,
		player:     player,
		log:        log,
	}
}

// SetSource replaces the pose source. nil switches to mouse-only play.
func (e *Engine) SetSource(source PoseSource) {
	e.source = source
	e.classifier.Reset()
}

// Done reports whether the player asked to quit.
func (e *Engine) Done() bool {
	return e.done
}

// Step advances the game to now and returns the snapshot to draw.
func (e *Engine) Step(now time.Time, in Input) game.Snapshot {
	var dt time.Duration
	if !e.last.IsZero() {
		dt = now.Sub(e.last)
	}
	e.last = now

	sensor := "mouse"
	var reading gesture.Reading
	if e.source != nil {
		hand, status := e.source.Poll(now)
		reading = e.classifier.Update(hand)
		sensor = status.String()
	}

	gi := game.Input{
		Dt:          dt,
		Gesture:     reading.Gesture,
		HandPresent: reading.HandPresent,
		Commands:    in.Commands,
	}
	w, h := e.session.Size()
	switch {
	case reading.HandPresent:
		gi.Pointer = game.Vec{X: reading.Pointer.X * w, Y: reading.Pointer.Y * h}
		gi.HasPointer = true
	case in.HasMouse:
		gi.Pointer = in.Mouse
		gi.HasPointer = true
	case reading.HasPointer:
		// Frozen at the last hand position.
		gi.Pointer = game.Vec{X: reading.Pointer.X * w, Y: reading.Pointer.Y * h}
		gi.HasPointer = true
	}

	snap := e.session.Tick(gi)
	snap.Sensor = sensor

	if sensor != e.lastSensor {
		e.log.Debug().Str("from", e.lastSensor).Str("to", sensor).Msg("pose source state")
		e.lastSensor = sensor
	}

	if !e.tuned || snap.Volume != e.volume || snap.Muted != e.muted {
		e.player.SetVolume(snap.Volume, snap.Muted)
		e.volume, e.muted, e.tuned = snap.Volume, snap.Muted, true
	}
	for _, c := range snap.Cues {
		e.player.Play(c)
	}

	if snap.Quit && !e.done {
		e.done = true
		e.log.Info().Int("score", snap.Score).Dur("elapsed", snap.Elapsed).Msg("quit requested")
	}

	return snap
}

// Run steps the engine at tickRate until ctx is cancelled or the player
// quits. A tick that has started always completes.
func (e *Engine) Run(ctx context.Context, fe Frontend, tickRate int) error {
	if tickRate <= 0 {
		tickRate = 60
	}
	ticker := time.NewTicker(time.Second / time.Duration(tickRate))
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case now := <-ticker.C:
			if ctx.Err() != nil {
				return nil
			}
			snap := e.Step(now, fe.Poll())
			if err := fe.Present(snap); err != nil {
				return fmt.Errorf("present frame: %w", err)
			}
			if e.done {
				return nil
			}
		}
	}
}
