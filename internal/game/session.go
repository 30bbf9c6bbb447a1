package game

import (
	"math/rand/v2"
	"slices"
	"time"

	"github.com/ayusman/fingergun/internal/gesture"
)

const (
	// maxStep bounds the clock advance of a single tick after a stall.
	maxStep = 250 * time.Millisecond
	// noAmmoFlash is how long Snapshot.NoAmmo stays set after a dry fire.
	noAmmoFlash = 600 * time.Millisecond
)

// Input is everything the session consumes in one tick.
type Input struct {
	// Dt is the wall time since the previous tick.
	Dt time.Duration
	// Gesture is the accepted gesture from the classifier.
	Gesture gesture.Gesture
	// Pointer is the aim point in screen pixels, valid when HasPointer is set.
	Pointer     Vec
	HasPointer  bool
	HandPresent bool
	Commands    []Command
}

// Session is the state of one game. It has a single owner that advances it
// with Tick.
type Session struct {
	cfg    Config
	params Params
	rng    *rand.Rand

	difficulty Difficulty
	mode       Mode
	menuReturn Mode
	quit       bool

	ammo  int
	score int

	muted  bool
	volume int

	targets []Target
	nextID  uint64
	spawned int

	clock      time.Duration
	spawnTimer time.Duration

	reloading  bool
	reloadLeft time.Duration

	shotAt      time.Duration
	hasShot     bool
	noAmmoUntil time.Duration
	dryAt       time.Duration
	hasDry      bool

	prevGesture gesture.Gesture

	cues  []Cue
	shots []Shot
}

// NewSession starts a running session with full ammo.
func NewSession(cfg Config) *Session {
	s := &Session{
		cfg:        cfg,
		rng:        rand.New(rand.NewPCG(cfg.Seed, cfg.Seed^0x9e3779b97f4a7c15)),
		difficulty: cfg.Difficulty,
		muted:      cfg.Muted,
		volume:     clampVolume(cfg.Volume),
	}
	s.params = ParamsFor(s.difficulty)
	s.ammo = s.params.MaxAmmo
	return s
}

// Tick advances the session by one frame and returns the resulting snapshot.
func (s *Session) Tick(in Input) Snapshot {
	s.cues = s.cues[:0]
	s.shots = s.shots[:0]

	for _, cmd := range in.Commands {
		s.apply(cmd, in)
	}
	s.handleGesture(in)

	if s.mode == Running {
		s.advance(min(max(in.Dt, 0), maxStep))
	}

	return s.snapshot(in)
}

func (s *Session) apply(cmd Command, in Input) {
	switch cmd.Kind {
	case CmdQuit:
		s.quit = true
	case CmdTogglePause:
		s.togglePause()
	case CmdToggleMenu:
		if s.mode == MenuOpen {
			s.mode = s.menuReturn
		} else {
			s.menuReturn = s.mode
			s.mode = MenuOpen
		}
	case CmdReload:
		s.startReload()
	case CmdShoot:
		s.shoot(in)
	case CmdSetDifficulty:
		s.setDifficulty(cmd.Difficulty)
	case CmdToggleMute:
		s.muted = !s.muted
	case CmdVolumeUp:
		s.volume = clampVolume(s.volume + volumeStep)
	case CmdVolumeDown:
		s.volume = clampVolume(s.volume - volumeStep)
	case CmdPreviewCue:
		s.cues = append(s.cues, cmd.Cue)
	case CmdReset:
		s.reset()
	}
}

// handleGesture acts on pause and reload when the gesture is entered and
// fires while shoot is held.
func (s *Session) handleGesture(in Input) {
	g, prev := in.Gesture, s.prevGesture
	s.prevGesture = g

	switch g {
	case gesture.Pause:
		if prev != gesture.Pause {
			s.togglePause()
		}
	case gesture.Reload:
		if prev != gesture.Reload {
			s.startReload()
		}
	case gesture.Shoot:
		s.shoot(in)
	}
}

func (s *Session) togglePause() {
	switch s.mode {
	case Running:
		s.mode = Paused
	case Paused:
		s.mode = Running
	}
}

func (s *Session) cooledDown(last time.Duration, ok bool) bool {
	return !ok || s.clock-last >= s.params.ShotCooldown
}

func (s *Session) shoot(in Input) {
	if s.mode != Running || s.reloading {
		return
	}

	if s.ammo == 0 {
		if s.cooledDown(s.dryAt, s.hasDry) {
			s.dryAt, s.hasDry = s.clock, true
			s.noAmmoUntil = s.clock + noAmmoFlash
			s.cues = append(s.cues, CueDry)
		}
		return
	}
	if !s.cooledDown(s.shotAt, s.hasShot) {
		return
	}

	s.shotAt, s.hasShot = s.clock, true
	s.ammo--
	s.cues = append(s.cues, CueShot)

	shot := Shot{Pos: in.Pointer, HasPointer: in.HasPointer}
	if in.HasPointer {
		if i := s.targetAt(in.Pointer); i >= 0 {
			t := s.targets[i]
			s.targets = slices.Delete(s.targets, i, i+1)
			s.score += t.Points
			s.cues = append(s.cues, CueHit)
			shot.Hit, shot.Kind, shot.Points = true, t.Kind, t.Points
		}
	}
	s.shots = append(s.shots, shot)
}

// targetAt returns the index of the target hit at p, or -1.
func (s *Session) targetAt(p Vec) int {
	best := -1
	for i := range s.targets {
		t := &s.targets[i]
		if !t.Contains(p) {
			continue
		}
		if best < 0 || t.beats(&s.targets[best]) {
			best = i
		}
	}
	return best
}

func (s *Session) startReload() {
	if s.mode != Running || s.reloading || s.ammo >= s.params.MaxAmmo {
		return
	}
	s.reloading = true
	s.reloadLeft = s.cfg.ReloadDelay
}

func (s *Session) setDifficulty(d Difficulty) {
	s.difficulty = d
	s.params = ParamsFor(d)
	s.ammo = s.params.MaxAmmo
	s.reloading = false
	s.reloadLeft = 0
}

func (s *Session) reset() {
	*s = Session{
		cfg:        s.cfg,
		params:     s.params,
		rng:        s.rng,
		difficulty: s.difficulty,
		muted:      s.muted,
		volume:     s.volume,
		ammo:       s.params.MaxAmmo,
		nextID:     s.nextID,
		quit:       s.quit,
		cues:       s.cues,
		shots:      s.shots,
	}
}

// advance runs the clock-driven parts of a running tick.
func (s *Session) advance(dt time.Duration) {
	s.clock += dt

	if s.reloading {
		s.reloadLeft -= dt
		if s.reloadLeft <= 0 {
			s.reloading = false
			s.reloadLeft = 0
			s.ammo = s.params.MaxAmmo
			s.cues = append(s.cues, CueReload)
		}
	}

	s.updateTargets(dt)
	s.spawnDue(dt)

	if s.cfg.SessionLength > 0 && s.clock >= s.cfg.SessionLength {
		s.mode = GameOver
	}
}

func (s *Session) snapshot(in Input) Snapshot {
	snap := Snapshot{
		Mode:        s.mode,
		Difficulty:  s.difficulty,
		Width:       s.cfg.Width,
		Height:      s.cfg.Height,
		Score:       s.score,
		Ammo:        s.ammo,
		MaxAmmo:     s.params.MaxAmmo,
		Reloading:   s.reloading,
		NoAmmo:      s.hasDry && s.clock < s.noAmmoUntil,
		Muted:       s.muted,
		Volume:      s.volume,
		Targets:     slices.Clone(s.targets),
		Cues:        slices.Clone(s.cues),
		Shots:       slices.Clone(s.shots),
		Gesture:     in.Gesture,
		Pointer:     in.Pointer,
		HasPointer:  in.HasPointer,
		HandPresent: in.HandPresent,
		Elapsed:     s.clock,
		Spawned:     s.spawned,
		Quit:        s.quit,
	}
	if s.reloading && s.cfg.ReloadDelay > 0 {
		snap.ReloadProgress = 1 - float64(s.reloadLeft)/float64(s.cfg.ReloadDelay)
	}
	if s.cfg.SessionLength > 0 {
		snap.Remaining = max(0, s.cfg.SessionLength-s.clock)
	}
	return snap
}

// Mode returns the current session mode.
func (s *Session) Mode() Mode { return s.mode }

// Ammo returns the rounds left.
func (s *Session) Ammo() int { return s.ammo }

// Score returns the points scored this session.
func (s *Session) Score() int { return s.score }

// Targets returns a copy of the active targets.
func (s *Session) Targets() []Target { return slices.Clone(s.targets) }

func clampVolume(v int) int {
	return min(100, max(0, v))
}

// Size returns the screen size the session plays on.
func (s *Session) Size() (w, h float64) { return s.cfg.Width, s.cfg.Height }
