package game

import (
	"math"
	"time"
)

// SpawnInterval returns the time between spawns after elapsed running time:
// the base interval shrinks by RampStep every RampEvery down to the floor.
func (s *Session) SpawnInterval() time.Duration {
	p := s.params
	if s.cfg.RampEvery <= 0 {
		return p.SpawnBase
	}
	steps := s.clock / s.cfg.RampEvery
	return max(p.SpawnFloor, p.SpawnBase-time.Duration(steps)*s.cfg.RampStep)
}

// SpawnWeights returns the kind weights at the current session time, moving
// linearly from the early to the late weights over WeightRamp.
func (s *Session) SpawnWeights() Weights {
	t := 1.0
	if s.cfg.WeightRamp > 0 {
		t = math.Min(1, float64(s.clock)/float64(s.cfg.WeightRamp))
	}
	return s.params.Early.lerp(s.params.Late, t)
}

func (s *Session) pickKind() Kind {
	w := s.SpawnWeights()
	total := w.Static + w.Moving + w.Small
	if total <= 0 {
		return Static
	}
	r := s.rng.Float64() * total
	switch {
	case r < w.Static:
		return Static
	case r < w.Static+w.Moving:
		return Moving
	default:
		return Small
	}
}

func (s *Session) randomPos() Vec {
	m := s.cfg.SpawnMargin
	w := math.Max(0, s.cfg.Width-2*m)
	h := math.Max(0, s.cfg.Height-2*m)
	return Vec{X: m + s.rng.Float64()*w, Y: m + s.rng.Float64()*h}
}

// Spawn adds a target of kind k at pos using the current difficulty and
// returns it. Moving targets get a random heading and speed.
func (s *Session) Spawn(k Kind, pos Vec) Target {
	p := s.params

	radius, points := bigRadius, staticPoints
	switch k {
	case Moving:
		points = movingPoints
	case Small:
		radius, points = smallRadius, smallPoints
	}

	t := Target{
		ID:        s.nextID,
		Kind:      k,
		Pos:       pos,
		Radius:    math.Max(minRadius, radius*p.SizeMul),
		Points:    int(math.Round(float64(points) * p.PointsMul)),
		SpawnedAt: s.clock,
	}
	s.nextID++

	if k == Moving {
		speed := (minSpeed + s.rng.Float64()*(maxSpeed-minSpeed)) * p.SpeedMul
		heading := s.rng.Float64() * 2 * math.Pi
		t.Vel = Vec{X: math.Cos(heading) * speed, Y: math.Sin(heading) * speed}
	}

	s.targets = append(s.targets, t)
	s.spawned++
	return t
}

// spawnDue advances the spawn timer by dt and spawns at most one target.
func (s *Session) spawnDue(dt time.Duration) {
	s.spawnTimer += dt
	interval := s.SpawnInterval()
	if s.spawnTimer < interval {
		return
	}
	s.spawnTimer -= interval
	// Drop backlog after a long stall instead of spawning a burst.
	s.spawnTimer = min(s.spawnTimer, interval)
	s.Spawn(s.pickKind(), s.randomPos())
}

// updateTargets moves targets and removes the ones that left the screen or
// outlived TargetLifetime.
func (s *Session) updateTargets(dt time.Duration) {
	sec := dt.Seconds()
	kept := s.targets[:0]
	for _, t := range s.targets {
		t.Pos = t.Pos.Add(t.Vel.Scale(sec))
		if t.outside(s.cfg.Width, s.cfg.Height) {
			continue
		}
		if s.cfg.TargetLifetime > 0 && s.clock-t.SpawnedAt >= s.cfg.TargetLifetime {
			continue
		}
		kept = append(kept, t)
	}
	clear(s.targets[len(kept):])
	s.targets = kept
}
