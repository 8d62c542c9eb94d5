package backdrop

import "math/rand/v2"

// Particle is one animated point. Particles are owned by a Simulation and
// overwritten in place when they respawn.
type Particle struct {
	X, Y             float64 // position in surface pixels
	OriginX, OriginY float64 // spring anchor, fixed at spawn
	VX, VY           float64 // per-frame displacement
	Size             float64
	Color            Color
	Opacity          float64 // base opacity, multiplied by the life fade
	Life             float64 // remaining life in frames
	MaxLife          float64 // life at spawn
}

// Alpha returns the particle's draw alpha: its base opacity scaled by the
// fade-in/fade-out envelope for the given window.
func (p *Particle) Alpha(window float64) float64 {
	return p.Opacity * fadeAlpha(p.Life, p.MaxLife, window)
}

// fadeAlpha maps remaining life to opacity. Life counts down, so the first
// window of a particle's life is where life/maxLife is close to 1.
func fadeAlpha(life, maxLife, window float64) float64 {
	if maxLife <= 0 || life <= 0 {
		return 0
	}
	ratio := life / maxLife
	if window <= 0 {
		return 1
	}
	switch {
	case 1-ratio < window:
		return (1 - ratio) / window
	case ratio < window:
		return ratio / window
	}
	return 1
}

// store is the fixed-capacity particle arena of one simulation.
type store struct {
	particles []Particle
	rng       *rand.Rand
}

func newStore(count int, rng *rand.Rand) store {
	return store{particles: make([]Particle, count), rng: rng}
}

// spawn overwrites slot i with a freshly randomized particle inside a w x h surface.
func (st *store) spawn(i int, cfg *Config, w, h float64) {
	p := &st.particles[i]
	rng := st.rng

	p.X = rng.Float64() * w
	p.Y = rng.Float64() * h
	p.OriginX = p.X
	p.OriginY = p.Y

	p.Size = Range{cfg.MinSize, cfg.MaxSize}.Random(rng)
	p.Color = cfg.Colors[rng.IntN(len(cfg.Colors))]
	p.Opacity = cfg.Opacity.Random(rng)

	v := cfg.SpawnVelocity * cfg.Speed
	p.VX = (rng.Float64()*2 - 1) * v
	p.VY = (rng.Float64()*2 - 1) * v

	p.MaxLife = cfg.Life.Random(rng)
	p.Life = p.MaxLife
}

// spawnAll fills every slot.
func (st *store) spawnAll(cfg *Config, w, h float64) {
	for i := range st.particles {
		st.spawn(i, cfg, w, h)
	}
}
