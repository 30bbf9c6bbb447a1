package capture

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
)

// Grabber reads frames from a Camera on its own goroutine and publishes the
// newest one into a Slot. Read errors are counted and never stop the loop.
type Grabber struct {
	cam  Camera
	slot *Slot[Frame]
	log  zerolog.Logger
	now  func() time.Time

	seq    atomic.Uint64
	errors atomic.Uint64
	done   chan struct{}
}

// NewGrabber creates a Grabber publishing frames from cam into slot.
func NewGrabber(cam Camera, slot *Slot[Frame], log zerolog.Logger) *Grabber {
	return &Grabber{
		cam:  cam,
		slot: slot,
		log:  log,
		now:  time.Now,
		done: make(chan struct{}),
	}
}

// Start runs the capture loop in a goroutine until ctx is cancelled.
// Wait blocks until it has exited.
func (g *Grabber) Start(ctx context.Context) {
	go g.run(ctx)
}

// Wait blocks until the capture loop started by Start has returned.
func (g *Grabber) Wait() {
	<-g.done
}

// Frames returns the number of frames published so far.
func (g *Grabber) Frames() uint64 {
	return g.seq.Load()
}

// Errors returns the number of failed reads so far.
func (g *Grabber) Errors() uint64 {
	return g.errors.Load()
}

func (g *Grabber) run(ctx context.Context) {
	defer close(g.done)
	defer g.slot.Drain()

	fps := g.cam.FPS()
	if fps <= 0 {
		fps = DefaultConfig().FPS
	}
	ticker := time.NewTicker(time.Second / time.Duration(fps))
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			g.grab()
		}
	}
}

func (g *Grabber) grab() {
	mat, err := g.cam.ReadFrame()
	if err != nil {
		n := g.errors.Add(1)
		// Log the first failure and then one in every hundred.
		if n == 1 || n%100 == 0 {
			g.log.Debug().Err(err).Uint64("failures", n).Msg("camera read failed")
		}
		return
	}

	g.slot.Put(&Frame{
		Mat: mat,
		At:  g.now(),
		Seq: g.seq.Add(1),
	})
}
