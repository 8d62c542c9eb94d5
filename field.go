package backdrop

import (
	"github.com/google/uuid"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
	"go.uber.org/zap"
)

// Option configures a Field or a Surface.
type Option func(*options)

type options struct {
	logger *zap.Logger
	name   string
	tps    int
	seed   uint64
}

// WithLogger sets the logger used for lifecycle and error reporting.
func WithLogger(l *zap.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithName labels a field in logs.
func WithName(name string) Option {
	return func(o *options) { o.name = name }
}

// WithTPS sets the frame rate assumed for time-based effects (glow smoothing
// and fades). Defaults to 60.
func WithTPS(tps int) Option {
	return func(o *options) {
		if tps > 0 {
			o.tps = tps
		}
	}
}

// WithSeed overrides Config.Seed for a field. Zero keeps the config's seed.
func WithSeed(seed uint64) Option {
	return func(o *options) { o.seed = seed }
}

func buildOptions(opts []Option) options {
	o := options{logger: zap.NewNop(), tps: 60}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Field is one mounted particle backdrop: a Simulation plus the glow, the
// connection index and the canvas it renders into.
type Field struct {
	id   string
	name string
	tps  int
	log  *zap.Logger

	sim  *Simulation
	glow glow
	conn connector
	segs []Segment

	// visibility is the fade-in multiplier applied when compositing the canvas.
	visibility float64
	fade       *gween.Tween

	surface *Surface
	handles []CallbackHandle
	canvas  *ebiten.Image
}

// NewField validates cfg and creates an unmounted field. Particles are spawned
// when the field is mounted or started.
func NewField(cfg Config, opts ...Option) (*Field, error) {
	o := buildOptions(opts)
	if o.seed != 0 {
		cfg.Seed = o.seed
	}
	sim, err := NewSimulation(cfg, 0, 0)
	if err != nil {
		return nil, err
	}
	id := uuid.NewString()
	return &Field{
		id:         id,
		name:       o.name,
		tps:        o.tps,
		log:        o.logger.With(zap.String("field", id), zap.String("name", o.name)),
		sim:        sim,
		glow:       newGlow(o.tps),
		visibility: 1,
	}, nil
}

// ID returns the field's unique identifier.
func (f *Field) ID() string { return f.id }

// Simulation returns the field's simulation.
func (f *Field) Simulation() *Simulation { return f.sim }

// Pointer returns the field's input bridge.
func (f *Field) Pointer() *PointerTracker { return f.sim.Pointer() }

// Segments returns the connection segments computed by the last Draw.
// The returned slice MUST NOT be mutated.
func (f *Field) Segments() []Segment { return f.segs }

// Visibility returns the current fade-in multiplier in [0, 1].
func (f *Field) Visibility() float64 { return f.visibility }

// Mounted reports whether the field is attached to a surface.
func (f *Field) Mounted() bool { return f.surface != nil }

// Start spawns every particle inside a width x height surface and restarts
// the fade-in. Mount calls it; backends without a Surface call it directly.
func (f *Field) Start(width, height float64) {
	f.sim.Resize(width, height)
	f.sim.reset()
	f.glow = newGlow(f.tps)
	f.segs = f.segs[:0]
	if d := f.sim.cfg.FadeIn; d > 0 {
		f.visibility = 0
		f.fade = gween.New(0, 1, float32(d.Seconds()), ease.Linear)
	} else {
		f.visibility = 1
		f.fade = nil
	}
}

// Resize changes the field's bounds without moving existing particles.
func (f *Field) Resize(width, height float64) {
	f.sim.Resize(width, height)
}

// Mount attaches the field to s: it spawns particles to fill the surface,
// registers pointer and resize handlers, and joins the surface's frame loop.
// Mounting onto a nil or empty surface does nothing. Mounting a field that is
// already mounted moves it.
func (f *Field) Mount(s *Surface) {
	if s == nil {
		f.log.Debug("mount skipped: no surface")
		return
	}
	w, h := s.Size()
	if w <= 0 || h <= 0 {
		f.log.Debug("mount skipped: empty surface", zap.Int("width", w), zap.Int("height", h))
		return
	}
	if f.surface != nil {
		f.Unmount()
	}

	f.Start(float64(w), float64(h))

	var acquired []CallbackHandle
	cfg := &f.sim.cfg
	if cfg.Interactive || cfg.MouseGlow {
		acquired = append(acquired,
			s.OnPointerMove(func(ctx PointerContext) { f.sim.pointer.Move(ctx.X, ctx.Y) }),
			s.OnPointerLeave(func(PointerContext) { f.sim.pointer.Leave() }),
		)
	}
	acquired = append(acquired, s.OnResize(func(ctx ResizeContext) {
		f.Resize(float64(ctx.Width), float64(ctx.Height))
	}))

	if err := s.attach(f); err != nil {
		for _, h := range acquired {
			h.Remove()
		}
		f.log.Debug("mount skipped", zap.Error(err))
		return
	}
	f.handles = acquired
	f.surface = s
	f.log.Debug("mounted",
		zap.Int("particles", len(f.sim.Particles())),
		zap.Int("width", w), zap.Int("height", h))
}

// Unmount detaches the field from its surface and removes every handler it
// registered. It is safe to call on an unmounted field.
func (f *Field) Unmount() {
	for _, h := range f.handles {
		h.Remove()
	}
	f.handles = nil
	if f.surface != nil {
		f.surface.detach(f)
		f.surface = nil
		f.log.Debug("unmounted")
	}
	if f.canvas != nil {
		f.canvas.Deallocate()
		f.canvas = nil
	}
}

// Update advances the simulation one frame and the time-based effects by dt
// seconds.
func (f *Field) Update(dt float64) {
	f.sim.Step()
	f.glow.update(f.sim.pointer.Snapshot(), f.sim.cfg.GlowOpacity, float32(dt))
	if f.fade != nil {
		v, done := f.fade.Update(float32(dt))
		f.visibility = clamp01(float64(v))
		if done {
			f.visibility = 1
			f.fade = nil
		}
	}
}

// Draw renders the current frame onto p.
func (f *Field) Draw(p Painter) {
	cfg := &f.sim.cfg
	ps := f.sim.Particles()
	if cfg.ConnectParticles {
		f.segs = f.conn.connect(ps, cfg.ConnectDistance, cfg.ConnectIndex)
	} else {
		f.segs = f.segs[:0]
	}
	renderFrame(p, cfg, ps, f.segs, &f.glow)
}

// drawOnto renders into the field's own canvas and composites it onto dst
// with the field's blend mode and fade-in.
func (f *Field) drawOnto(dst *ebiten.Image, p *EbitenPainter) {
	b := dst.Bounds()
	if f.canvas == nil || f.canvas.Bounds().Dx() != b.Dx() || f.canvas.Bounds().Dy() != b.Dy() {
		if f.canvas != nil {
			f.canvas.Deallocate()
		}
		f.canvas = ebiten.NewImage(b.Dx(), b.Dy())
	}
	p.SetTarget(f.canvas)
	f.Draw(p)

	var op ebiten.DrawImageOptions
	op.GeoM.Translate(float64(b.Min.X), float64(b.Min.Y))
	op.ColorScale.ScaleAlpha(float32(f.visibility))
	op.Blend = f.sim.cfg.BlendMode.EbitenBlend()
	dst.DrawImage(f.canvas, &op)
}
