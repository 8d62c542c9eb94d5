package backdrop

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func newTestSimulation(t *testing.T, cfg Config, w, h float64) *Simulation {
	t.Helper()
	if cfg.Seed == 0 {
		cfg.Seed = 42
	}
	s, err := NewSimulation(cfg, w, h)
	require.NoError(t, err)
	return s
}

func checkInvariants(t *testing.T, s *Simulation, frame int) {
	t.Helper()
	cfg := s.Config()
	for i, p := range s.Particles() {
		if !(p.Life > 0 && p.Life <= p.MaxLife) {
			t.Fatalf("frame %d: particle %d life %v not in (0, %v]", frame, i, p.Life, p.MaxLife)
		}
		if p.Size < cfg.MinSize || p.Size > cfg.MaxSize {
			t.Fatalf("frame %d: particle %d size %v", frame, i, p.Size)
		}
		if !finite(p.X) || !finite(p.Y) || !finite(p.VX) || !finite(p.VY) {
			t.Fatalf("frame %d: particle %d not finite: %+v", frame, i, p)
		}
	}
}

func TestSimulationInvariantsUnderPointer(t *testing.T) {
	for _, name := range PresetNames() {
		t.Run(name, func(t *testing.T) {
			cfg, err := Preset(name)
			require.NoError(t, err)
			s := newTestSimulation(t, cfg, 400, 300)
			want := len(s.Particles())
			for f := 0; f < 600; f++ {
				// Sweep the pointer through the field, leaving every 100 frames.
				if f%100 < 80 {
					s.Pointer().Move(float64(f%400), 150+50*math.Sin(float64(f)/20))
				} else {
					s.Pointer().Leave()
				}
				s.Step()
				checkInvariants(t, s, f)
				if got := len(s.Particles()); got != want {
					t.Fatalf("frame %d: count = %d, want %d", f, got, want)
				}
			}
		})
	}
}

func TestSimulationFiftyParticlesThousandFrames(t *testing.T) {
	cfg, err := Preset("drift")
	require.NoError(t, err)
	cfg.Count = 50
	cfg.Interactive = false
	s := newTestSimulation(t, cfg, 800, 600)
	for f := 0; f < 1000; f++ {
		s.Step()
		for i, p := range s.Particles() {
			if p.Life < 0 {
				t.Fatalf("frame %d: particle %d life %v is negative", f, i, p.Life)
			}
		}
	}
	if len(s.Particles()) != 50 {
		t.Errorf("count = %d, want 50", len(s.Particles()))
	}
	if s.Frame() != 1000 {
		t.Errorf("Frame() = %d, want 1000", s.Frame())
	}
}

func TestSimulationDeterministic(t *testing.T) {
	run := func() []Particle {
		cfg := DefaultConfig()
		cfg.Seed = 99
		s := newTestSimulation(t, cfg, 300, 200)
		for f := 0; f < 200; f++ {
			if f == 50 {
				s.Pointer().Move(150, 100)
			}
			if f == 150 {
				s.Pointer().Leave()
			}
			s.Step()
		}
		return append([]Particle(nil), s.Particles()...)
	}
	a, b := run(), run()
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("particle %d differs: %+v vs %+v", i, a[i], b[i])
		}
	}
}

func TestSimulationDifferentSeedsDiffer(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Seed = 1
	a := newTestSimulation(t, cfg, 300, 200)
	cfg.Seed = 2
	b := newTestSimulation(t, cfg, 300, 200)
	if a.Particles()[0] == b.Particles()[0] {
		t.Error("different seeds produced the same first particle")
	}
}

func TestNewSimulationRejectsInvalidConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Friction = 0
	_, err := NewSimulation(cfg, 100, 100)
	require.ErrorIs(t, err, ErrInvalidConfig)
}

func TestSimulationConfigIsCopied(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Seed = 5
	s := newTestSimulation(t, cfg, 10, 10)
	cfg.Colors[0] = Color{}
	if s.Config().Colors[0] == (Color{}) {
		t.Error("simulation shares palette with caller")
	}
}

func TestPointerForce(t *testing.T) {
	tests := []struct {
		name   string
		px, py float64
		x, y   float64
		wantX  float64
		wantY  float64
	}{
		{"at radius", 0, 0, 100, 0, 0, 0},
		{"beyond radius", 0, 0, 150, 0, 0, 0},
		{"on pointer", 10, 10, 10, 10, 0, 0},
		{"half radius pushes away", 0, 0, 50, 0, 0.15, 0},
		{"pushes along y", 0, 0, 0, -25, 0, -0.225},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fx, fy := pointerForce(tt.px, tt.py, tt.x, tt.y, 100, 0.3)
			assertNear(t, "fx", fx, tt.wantX)
			assertNear(t, "fy", fy, tt.wantY)
		})
	}
}

func TestPointerAtRadiusLeavesParticleUntouched(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Count = 1
	cfg.NoiseIntensity = 0
	cfg.SpringConstant = 0
	cfg.SpawnVelocity = 0
	cfg.Friction = 1
	s := newTestSimulation(t, cfg, 400, 400)
	p := &s.store.particles[0]
	p.X, p.Y = 200, 200
	s.Pointer().Move(200+cfg.InteractionRadius, 200)
	s.Step()
	assertNear(t, "VX", p.VX, 0)
	assertNear(t, "VY", p.VY, 0)
}

func TestAttractPullsTowardPointer(t *testing.T) {
	cfg, err := Preset("drift")
	require.NoError(t, err)
	cfg.Count = 1
	cfg.SpawnVelocity = 0
	s := newTestSimulation(t, cfg, 400, 400)
	p := &s.store.particles[0]
	p.X, p.Y = 200, 200
	s.Pointer().Move(250, 200)
	s.Step()
	if p.VX <= 0 {
		t.Errorf("VX = %v, want > 0 toward the pointer", p.VX)
	}
}

// A pointer held next to a particle with no spring pushes it out of the
// interaction radius; friction then brings it to rest outside.
func TestRepulsionSettlesOutsideRadius(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Count = 1
	cfg.NoiseIntensity = 0
	cfg.SpringConstant = 0
	cfg.SpawnVelocity = 0
	cfg.Life = Range{1e6, 1e6}
	s := newTestSimulation(t, cfg, 1000, 1000)
	p := &s.store.particles[0]
	p.X, p.Y = 500, 500
	s.Pointer().Move(490, 500)

	dist := func() float64 { return math.Hypot(p.X-490, p.Y-500) }
	prev := dist()
	for f := 0; f < 60; f++ {
		s.Step()
		d := dist()
		if d < prev-epsilon {
			t.Fatalf("frame %d: distance shrank from %v to %v", f, prev, d)
		}
		prev = d
	}
	if prev <= 10 {
		t.Fatalf("distance %v did not grow", prev)
	}
	for f := 0; f < 600; f++ {
		s.Step()
	}
	settled := dist()
	if settled < cfg.InteractionRadius {
		t.Errorf("settled at %v, inside radius %v", settled, cfg.InteractionRadius)
	}
	s.Step()
	if math.Abs(dist()-settled) > 1e-3 {
		t.Errorf("still moving: %v -> %v", settled, dist())
	}
}

func TestNonFinitePositionRespawns(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Count = 1
	s := newTestSimulation(t, cfg, 100, 100)
	s.store.particles[0].VX = math.Inf(1)
	s.Step()
	checkInvariants(t, s, 0)
}

func TestRespawnOutOfBounds(t *testing.T) {
	cfg, err := Preset("drift")
	require.NoError(t, err)
	cfg.Count = 1
	cfg.Interactive = false
	cfg.SpawnVelocity = 0
	s := newTestSimulation(t, cfg, 100, 100)
	p := &s.store.particles[0]
	p.X, p.VX = 99, 20
	s.Step()
	if p.X > 100+p.Size {
		t.Errorf("particle at x=%v was not respawned", p.X)
	}
	if p.Life != p.MaxLife {
		t.Errorf("life = %v, want fresh %v", p.Life, p.MaxLife)
	}
}

func TestResizeKeepsPositions(t *testing.T) {
	s := newTestSimulation(t, DefaultConfig(), 400, 400)
	before := append([]Particle(nil), s.Particles()...)
	s.Resize(100, 100)
	w, h := s.Size()
	assertNear(t, "width", w, 100)
	assertNear(t, "height", h, 100)
	for i := range before {
		if before[i] != s.Particles()[i] {
			t.Fatalf("particle %d moved on resize", i)
		}
	}
}

func TestNoiseBounded(t *testing.T) {
	for i := 0; i < 1000; i++ {
		v := noise(float64(i)*0.37, float64(i)*0.11, float64(i)*0.001, float64(i))
		if v < -1 || v > 1 {
			t.Fatalf("noise = %v, outside [-1, 1]", v)
		}
	}
}
