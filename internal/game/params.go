package game

import "time"

// Weights are relative spawn probabilities per target kind.
type Weights struct {
	Static, Moving, Small float64
}

func (w Weights) lerp(to Weights, t float64) Weights {
	return Weights{
		Static: w.Static + (to.Static-w.Static)*t,
		Moving: w.Moving + (to.Moving-w.Moving)*t,
		Small:  w.Small + (to.Small-w.Small)*t,
	}
}

// Params are the per-difficulty rules.
type Params struct {
	SpawnBase    time.Duration
	SpawnFloor   time.Duration
	MaxAmmo      int
	ShotCooldown time.Duration
	SpeedMul     float64
	SizeMul      float64
	PointsMul    float64
	Early        Weights
	Late         Weights
}

var paramTable = map[Difficulty]Params{
	Easy: {
		SpawnBase:    1167 * time.Millisecond,
		SpawnFloor:   500 * time.Millisecond,
		MaxAmmo:      8,
		ShotCooldown: 300 * time.Millisecond,
		SpeedMul:     0.85,
		SizeMul:      1.10,
		PointsMul:    1.0,
		Early:        Weights{0.6, 0.3, 0.1},
		Late:         Weights{0.3, 0.45, 0.25},
	},
	Normal: {
		SpawnBase:    1000 * time.Millisecond,
		SpawnFloor:   333 * time.Millisecond,
		MaxAmmo:      6,
		ShotCooldown: 250 * time.Millisecond,
		SpeedMul:     1.0,
		SizeMul:      1.0,
		PointsMul:    1.0,
		Early:        Weights{0.5, 0.35, 0.15},
		Late:         Weights{0.2, 0.5, 0.3},
	},
	Hard: {
		SpawnBase:    833 * time.Millisecond,
		SpawnFloor:   167 * time.Millisecond,
		MaxAmmo:      5,
		ShotCooldown: 220 * time.Millisecond,
		SpeedMul:     1.25,
		SizeMul:      0.9,
		PointsMul:    1.2,
		Early:        Weights{0.35, 0.45, 0.2},
		Late:         Weights{0.1, 0.5, 0.4},
	},
}

// ParamsFor returns the rules for d. Unknown values get Normal.
func ParamsFor(d Difficulty) Params {
	if p, ok := paramTable[d]; ok {
		return p
	}
	return paramTable[Normal]
}

// Per-kind base values before difficulty multipliers.
const (
	bigRadius    = 40.0
	smallRadius  = 20.0
	minRadius    = 8.0
	minSpeed     = 60.0
	maxSpeed     = 180.0
	staticPoints = 10
	movingPoints = 20
	smallPoints  = 30
)

// Config holds the session rules that do not depend on difficulty.
type Config struct {
	Width, Height  float64
	Difficulty     Difficulty
	ReloadDelay    time.Duration
	TargetLifetime time.Duration
	// SessionLength ends the session after this much running time. Zero
	// means endless.
	SessionLength time.Duration
	RampEvery     time.Duration
	RampStep      time.Duration
	WeightRamp    time.Duration
	SpawnMargin   float64
	Muted         bool
	Volume        int
	Seed          uint64
}

// DefaultConfig returns the standard rules on a 1280x720 screen.
func DefaultConfig() Config {
	return Config{
		Width:          1280,
		Height:         720,
		Difficulty:     Normal,
		ReloadDelay:    1200 * time.Millisecond,
		TargetLifetime: 8 * time.Second,
		RampEvery:      20 * time.Second,
		RampStep:       83 * time.Millisecond,
		WeightRamp:     90 * time.Second,
		SpawnMargin:    50,
		Volume:         80,
		Seed:           1,
	}
}
