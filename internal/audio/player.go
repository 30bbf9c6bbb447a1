package audio

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/speaker"
	"github.com/gopxl/beep/wav"
	"github.com/rs/zerolog"

	"github.com/ayusman/fingergun/internal/game"
)

// output abstracts the global beep speaker so tests can run without a device.
type output struct {
	init   func(rate beep.SampleRate, bufferSize int) error
	play   func(s ...beep.Streamer)
	lock   func()
	unlock func()
	close  func()
}

var speakerOutput = output{
	init:   speaker.Init,
	play:   speaker.Play,
	lock:   speaker.Lock,
	unlock: speaker.Unlock,
	close:  speaker.Close,
}

// BeepPlayer plays cues through the system speaker. Cues are decoded once
// into memory and mixed, so overlapping cues never block the game loop.
type BeepPlayer struct {
	out   output
	rate  beep.SampleRate
	log   zerolog.Logger
	cues  map[game.Cue]*beep.Buffer
	mixer *beep.Mixer
	err   error

	mu     sync.Mutex
	volume int
	muted  bool
}

// NewBeepPlayer opens the speaker and prepares every cue. When no device is
// available the player stays silent; Err reports why.
func NewBeepPlayer(cfg Config, log zerolog.Logger) *BeepPlayer {
	return newBeepPlayer(cfg, log, speakerOutput)
}

func newBeepPlayer(cfg Config, log zerolog.Logger, out output) *BeepPlayer {
	if cfg.SampleRate <= 0 {
		cfg.SampleRate = DefaultConfig().SampleRate
	}
	p := &BeepPlayer{
		out:    out,
		rate:   beep.SampleRate(cfg.SampleRate),
		log:    log,
		cues:   make(map[game.Cue]*beep.Buffer, len(game.Cues)),
		mixer:  &beep.Mixer{},
		volume: cfg.Volume,
		muted:  cfg.Muted,
	}

	if err := out.init(p.rate, p.rate.N(100*time.Millisecond)); err != nil {
		p.err = fmt.Errorf("%w: %v", ErrNoSpeaker, err)
		log.Warn().Err(err).Msg("audio output unavailable, running silent")
		return p
	}
	out.play(p.mixer)

	for _, c := range game.Cues {
		p.cues[c] = p.load(c, cfg.AssetsDir)
	}

	log.Info().Int("sample_rate", cfg.SampleRate).Str("assets", cfg.AssetsDir).Msg("audio ready")
	return p
}

// load decodes <dir>/<cue>.wav into memory, falling back to a synthesized
// sound when the file is missing or unreadable.
func (p *BeepPlayer) load(c game.Cue, dir string) *beep.Buffer {
	buf := beep.NewBuffer(beep.Format{SampleRate: p.rate, NumChannels: 2, Precision: 2})

	path := filepath.Join(dir, c.String()+".wav")
	s, err := decodeWAV(path, p.rate)
	if err != nil {
		p.log.Warn().Err(err).Str("cue", c.String()).Msg("using synthesized cue")
		buf.Append(synthesize(c, p.rate))
		return buf
	}
	buf.Append(s)
	return buf
}

func decodeWAV(path string, rate beep.SampleRate) (beep.Streamer, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open sound: %w", err)
	}
	defer f.Close()

	s, format, err := wav.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", filepath.Base(path), err)
	}

	// Read fully while the file is open.
	tmp := beep.NewBuffer(format)
	tmp.Append(s)
	if err := s.Err(); err != nil {
		return nil, fmt.Errorf("decode %s: %w", filepath.Base(path), err)
	}

	var out beep.Streamer = tmp.Streamer(0, tmp.Len())
	if format.SampleRate != rate {
		out = beep.Resample(4, format.SampleRate, rate, out)
	}
	return out, nil
}

// Play starts c. It returns immediately.
func (p *BeepPlayer) Play(c game.Cue) {
	buf, ok := p.cues[c]
	if !ok {
		return
	}

	p.mu.Lock()
	g := gain(c, p.volume, p.muted)
	p.mu.Unlock()
	if g <= 0 {
		return
	}

	v := &effects.Volume{
		Streamer: buf.Streamer(0, buf.Len()),
		Base:     2,
		Volume:   math.Log2(g),
	}

	p.out.lock()
	p.mixer.Add(v)
	p.out.unlock()
}

// SetVolume implements Player.
func (p *BeepPlayer) SetVolume(percent int, muted bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.volume, p.muted = percent, muted
}

// Err returns ErrNoSpeaker when the player is silent.
func (p *BeepPlayer) Err() error {
	return p.err
}

// Close stops playback and releases the device.
func (p *BeepPlayer) Close() error {
	if p.err != nil {
		return nil
	}
	p.out.lock()
	p.mixer.Clear()
	p.out.unlock()
	p.out.close()
	return nil
}
