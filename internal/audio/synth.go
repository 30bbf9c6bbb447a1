package audio

import (
	"math"
	"math/rand/v2"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/generators"

	"github.com/ayusman/fingergun/internal/game"
)

type wave int

const (
	waveSquare wave = iota
	waveNoise
)

// oscillator produces a fixed length square wave or white noise.
type oscillator struct {
	freq   float64
	phase  float64
	left   int
	wave   wave
	rate   beep.SampleRate
	random *rand.Rand
}

func newOscillator(w wave, freq float64, d time.Duration, rate beep.SampleRate) *oscillator {
	return &oscillator{
		freq:   freq,
		left:   rate.N(d),
		wave:   w,
		rate:   rate,
		random: rand.New(rand.NewPCG(uint64(freq), 1)),
	}
}

func (o *oscillator) Stream(samples [][2]float64) (int, bool) {
	if o.left <= 0 {
		return 0, false
	}
	n := min(len(samples), o.left)
	for i := 0; i < n; i++ {
		var v float64
		switch o.wave {
		case waveSquare:
			v = 1
			if o.phase >= 0.5 {
				v = -1
			}
			o.phase += o.freq / float64(o.rate)
			o.phase -= math.Floor(o.phase)
		case waveNoise:
			v = o.random.Float64()*2 - 1
		}
		samples[i] = [2]float64{v, v}
	}
	o.left -= n
	return n, true
}

func (o *oscillator) Err() error { return nil }

// decay scales a stream linearly from 1 down to 0 over its length, with a
// short attack to avoid clicks.
type decay struct {
	s      beep.Streamer
	pos    int
	total  int
	attack int
}

func newDecay(s beep.Streamer, d time.Duration, rate beep.SampleRate) *decay {
	return &decay{s: s, total: max(1, rate.N(d)), attack: rate.N(3 * time.Millisecond)}
}

func (e *decay) Stream(samples [][2]float64) (int, bool) {
	n, ok := e.s.Stream(samples)
	for i := 0; i < n; i++ {
		k := 1 - float64(e.pos)/float64(e.total)
		if e.pos < e.attack {
			k = math.Min(k, float64(e.pos)/float64(e.attack))
		}
		k = math.Max(0, k)
		samples[i][0] *= k
		samples[i][1] *= k
		e.pos++
	}
	return n, ok
}

func (e *decay) Err() error { return e.s.Err() }

func tone(freq float64, d time.Duration, rate beep.SampleRate) beep.Streamer {
	sine, err := generators.SineTone(rate, freq)
	if err != nil {
		return beep.Silence(rate.N(d))
	}
	return newDecay(beep.Take(rate.N(d), sine), d, rate)
}

// synthesize returns a generated stand-in for a cue whose asset is missing.
func synthesize(c game.Cue, rate beep.SampleRate) beep.Streamer {
	switch c {
	case game.CueShot:
		d := 90 * time.Millisecond
		return newDecay(newOscillator(waveSquare, 700, d, rate), d, rate)
	case game.CueHit:
		d := 260 * time.Millisecond
		return newDecay(newOscillator(waveNoise, 0, d, rate), d, rate)
	case game.CueReload:
		return beep.Seq(
			tone(500, 60*time.Millisecond, rate),
			beep.Silence(rate.N(80*time.Millisecond)),
			tone(500, 60*time.Millisecond, rate),
		)
	default:
		return tone(180, 60*time.Millisecond, rate)
	}
}
