package backdrop

import (
	"math"
	"math/rand/v2"
	"time"
)

// Simulation owns a fixed set of particles and advances them one frame at a
// time. It is not safe for concurrent use except through its PointerTracker.
type Simulation struct {
	cfg     Config
	store   store
	width   float64
	height  float64
	frame   uint64
	pointer PointerTracker
}

// NewSimulation validates cfg and spawns cfg.Count particles inside a
// width x height surface.
func NewSimulation(cfg Config, width, height float64) (*Simulation, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg = cfg.clone()
	seed := cfg.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	s := &Simulation{
		cfg:    cfg,
		store:  newStore(cfg.Count, rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))),
		width:  math.Max(width, 0),
		height: math.Max(height, 0),
	}
	s.store.spawnAll(&s.cfg, s.width, s.height)
	return s, nil
}

// Config returns a copy of the simulation's configuration.
func (s *Simulation) Config() Config {
	return s.cfg.clone()
}

// Particles returns the particle slice. The returned slice MUST NOT be mutated.
func (s *Simulation) Particles() []Particle {
	return s.store.particles
}

// Pointer returns the input bridge feeding the pointer force field.
func (s *Simulation) Pointer() *PointerTracker {
	return &s.pointer
}

// Frame returns the number of steps taken so far.
func (s *Simulation) Frame() uint64 {
	return s.frame
}

// Size returns the surface dimensions particles spawn into.
func (s *Simulation) Size() (float64, float64) {
	return s.width, s.height
}

// Resize changes the spawn bounds. Existing particles keep their positions,
// so some may sit outside the new bounds until they respawn.
func (s *Simulation) Resize(width, height float64) {
	s.width = math.Max(width, 0)
	s.height = math.Max(height, 0)
}

// reset respawns every particle inside the current bounds and rewinds the
// frame counter.
func (s *Simulation) reset() {
	s.store.spawnAll(&s.cfg, s.width, s.height)
	s.frame = 0
}

// Step advances every particle by one frame.
func (s *Simulation) Step() {
	cfg := &s.cfg
	ptr := s.pointer.Snapshot()
	usePointer := cfg.Interactive && ptr.Active && cfg.InteractionRadius > 0
	t := float64(s.frame)

	for i := range s.store.particles {
		p := &s.store.particles[i]

		if cfg.NoiseIntensity != 0 {
			nx := p.X * 0.01
			ny := p.Y * 0.01
			nz := t * 0.001
			p.VX += noise(nx, ny, nz, t) * cfg.NoiseIntensity
			p.VY += noise(nx+100, ny+100, nz, t) * cfg.NoiseIntensity
		}

		if usePointer {
			fx, fy := pointerForce(ptr.X, ptr.Y, p.X, p.Y, cfg.InteractionRadius, cfg.InteractionForce)
			if cfg.Interaction == InteractAttract {
				fx, fy = -fx, -fy
			}
			p.VX += fx
			p.VY += fy
		}

		if cfg.SpringConstant != 0 {
			p.VX += (p.OriginX - p.X) * cfg.SpringConstant * cfg.Speed
			p.VY += (p.OriginY - p.Y) * cfg.SpringConstant * cfg.Speed
		}

		p.VX *= cfg.Friction
		p.VY *= cfg.Friction

		p.X += p.VX * cfg.Speed
		p.Y += p.VY * cfg.Speed

		p.Life -= cfg.LifeDecay
		if p.Life <= 0 || !finite(p.X) || !finite(p.Y) ||
			(cfg.RespawnOutOfBounds && s.outOfBounds(p)) {
			s.store.spawn(i, cfg, s.width, s.height)
		}
	}
	s.frame++
}

// Bounds returns the spawn area.
func (s *Simulation) Bounds() Rect {
	return Rect{Width: s.width, Height: s.height}
}

// outOfBounds reports whether p has left the surface by more than its size.
func (s *Simulation) outOfBounds(p *Particle) bool {
	r := s.Bounds()
	r.X, r.Y = -p.Size, -p.Size
	r.Width += 2 * p.Size
	r.Height += 2 * p.Size
	return !r.Contains(p.X, p.Y)
}

// pointerForce returns the repulsive velocity change a pointer at (px, py)
// applies to a particle at (x, y). The force is zero at and beyond radius and
// when the particle sits exactly on the pointer.
func pointerForce(px, py, x, y, radius, strength float64) (float64, float64) {
	dx := px - x
	dy := py - y
	d := math.Hypot(dx, dy)
	if !(d > 0 && d < radius) {
		return 0, 0
	}
	f := (radius - d) / radius * strength
	return -dx / d * f, -dy / d * f
}

// noise is a cheap deterministic drift field. It is bounded to [-1, 1].
func noise(x, y, z, t float64) float64 {
	return math.Sin(x*10+t*0.01) * math.Cos(y*10+t*0.01) * math.Sin(z*10+t*0.01)
}
