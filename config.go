package backdrop

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalidConfig is wrapped by every error returned from Config.Validate.
var ErrInvalidConfig = errors.New("backdrop: invalid config")

// DrawFunc draws a single particle in place of the built-in shapes. The painter
// already carries the field's blend mode; alpha is the particle's derived alpha.
type DrawFunc func(p Painter, pt *Particle, alpha float64)

// Config controls how a field spawns, moves and draws its particles. A Config
// is fixed for the lifetime of a Field; to change it, unmount the field and
// mount a new one.
type Config struct {
	// Count is the number of particles. It never changes while the field runs.
	Count int
	// Colors is the palette; each spawn picks one uniformly.
	Colors []Color
	// MinSize and MaxSize bound the particle radius / edge length in pixels.
	MinSize, MaxSize float64
	// Speed scales the spring force and the position update.
	Speed float64
	// SpawnVelocity is the half-width of the symmetric spawn velocity range,
	// scaled by Speed.
	SpawnVelocity float64
	// Opacity is the range of per-particle base opacity.
	Opacity Range
	// Life is the range of particle lifetimes in frames.
	Life Range
	// LifeDecay is subtracted from life every frame.
	LifeDecay float64
	// FadeWindow is the fraction of life spent fading in, and again fading out.
	FadeWindow float64

	// Interactive enables the pointer force field.
	Interactive bool
	// Interaction selects repulsion or attraction.
	Interaction Interaction
	// InteractionRadius is the distance beyond which the pointer has no effect.
	InteractionRadius float64
	// InteractionForce is the force applied at zero distance; it falls off
	// linearly to 0 at InteractionRadius.
	InteractionForce float64

	// NoiseIntensity scales the ambient drift added to velocity. 0 disables it.
	NoiseIntensity float64
	// SpringConstant pulls particles back toward their origin. 0 disables it.
	SpringConstant float64
	// Friction multiplies velocity every frame. Must be in (0, 1].
	Friction float64
	// RespawnOutOfBounds respawns particles that leave the surface by more
	// than their own size.
	RespawnOutOfBounds bool

	// ConnectParticles draws lines between particles closer than ConnectDistance.
	ConnectParticles bool
	ConnectDistance  float64
	// ConnectOpacity scales line alpha.
	ConnectOpacity float64
	// ConnectWidth is the line width in pixels.
	ConnectWidth float64
	// ConnectColor is the line color. Zero value means the first palette color.
	ConnectColor Color
	// ConnectIndex selects the pair search used for connection lines.
	ConnectIndex ConnectIndex

	// BlendMode is the compositing operation for everything the field draws.
	BlendMode BlendMode
	// Shape selects the built-in particle shape.
	Shape Shape
	// DrawFunc, when set, replaces Shape.
	DrawFunc DrawFunc

	// MouseGlow draws a radial glow following the smoothed pointer.
	MouseGlow   bool
	GlowRadius  float64
	GlowColor   Color
	GlowOpacity float64

	// FadeIn is how long the surface takes to fade in after mounting.
	FadeIn time.Duration

	// Seed seeds the field's random source. 0 picks a time-based seed.
	Seed uint64
}

// DefaultConfig returns the configuration of the micro preset: anchored
// particles drifting on noise, repelled by the pointer, joined by lines.
func DefaultConfig() Config {
	return Config{
		Count: 150,
		Colors: []Color{
			{R: 0x3b / 255.0, G: 0x82 / 255.0, B: 0xf6 / 255.0, A: 1},
			{R: 0x8b / 255.0, G: 0x5c / 255.0, B: 0xf6 / 255.0, A: 1},
			{R: 0xec / 255.0, G: 0x48 / 255.0, B: 0x99 / 255.0, A: 1},
		},
		MinSize:           1,
		MaxSize:           3,
		Speed:             1,
		SpawnVelocity:     0.1,
		Opacity:           Range{1, 1},
		Life:              Range{100, 200},
		LifeDecay:         0.2,
		FadeWindow:        0.3,
		Interactive:       true,
		Interaction:       InteractRepel,
		InteractionRadius: 100,
		InteractionForce:  0.3,
		NoiseIntensity:    0.2,
		SpringConstant:    0.003,
		Friction:          0.94,
		ConnectParticles:  true,
		ConnectDistance:   120,
		ConnectOpacity:    0.2,
		ConnectWidth:      0.5,
		BlendMode:         BlendScreen,
		Shape:             ShapeCircle,
		MouseGlow:         true,
		GlowRadius:        150,
		GlowColor:         Color{R: 59 / 255.0, G: 130 / 255.0, B: 246 / 255.0, A: 0.15},
		GlowOpacity:       0.8,
		FadeIn:            1500 * time.Millisecond,
	}
}

// Validate reports the first problem that would make the simulation
// misbehave. Every returned error wraps ErrInvalidConfig.
func (c *Config) Validate() error {
	switch {
	case c.Count < 0:
		return invalid("count %d is negative", c.Count)
	case len(c.Colors) == 0:
		return invalid("palette is empty")
	case !finite(c.MinSize) || !finite(c.MaxSize) || c.MinSize < 0 || c.MaxSize < c.MinSize:
		return invalid("size range [%v, %v] is invalid", c.MinSize, c.MaxSize)
	case !finite(c.Speed) || c.Speed <= 0:
		return invalid("speed %v must be positive", c.Speed)
	case !finite(c.SpawnVelocity) || c.SpawnVelocity < 0:
		return invalid("spawn velocity %v is invalid", c.SpawnVelocity)
	case !(0 <= c.Opacity.Min && c.Opacity.Min <= c.Opacity.Max && c.Opacity.Max <= 1):
		return invalid("opacity range [%v, %v] is invalid", c.Opacity.Min, c.Opacity.Max)
	case !finite(c.Life.Max) || !(0 < c.Life.Min && c.Life.Min <= c.Life.Max):
		return invalid("life range [%v, %v] is invalid", c.Life.Min, c.Life.Max)
	case !finite(c.LifeDecay) || c.LifeDecay <= 0:
		return invalid("life decay %v must be positive", c.LifeDecay)
	case !(0 <= c.FadeWindow && c.FadeWindow <= 0.5):
		return invalid("fade window %v must be in [0, 0.5]", c.FadeWindow)
	case !finite(c.InteractionRadius) || c.InteractionRadius < 0:
		return invalid("interaction radius %v is invalid", c.InteractionRadius)
	case !finite(c.InteractionForce):
		return invalid("interaction force %v is not finite", c.InteractionForce)
	case !finite(c.NoiseIntensity) || !finite(c.SpringConstant) || c.SpringConstant < 0:
		return invalid("noise %v / spring %v is invalid", c.NoiseIntensity, c.SpringConstant)
	case !(c.Friction > 0 && c.Friction <= 1):
		return invalid("friction %v must be in (0, 1]", c.Friction)
	case c.ConnectParticles && (!finite(c.ConnectDistance) || c.ConnectDistance <= 0):
		return invalid("connect distance %v must be positive", c.ConnectDistance)
	case c.ConnectParticles && !(0 <= c.ConnectOpacity && c.ConnectOpacity <= 1):
		return invalid("connect opacity %v must be in [0, 1]", c.ConnectOpacity)
	case c.ConnectParticles && !(0 <= c.ConnectWidth && finite(c.ConnectWidth)):
		return invalid("connect width %v is invalid", c.ConnectWidth)
	case c.MouseGlow && (!finite(c.GlowRadius) || c.GlowRadius <= 0):
		return invalid("glow radius %v must be positive", c.GlowRadius)
	case c.MouseGlow && !(0 <= c.GlowOpacity && c.GlowOpacity <= 1):
		return invalid("glow opacity %v must be in [0, 1]", c.GlowOpacity)
	case c.FadeIn < 0:
		return invalid("fade-in %v is negative", c.FadeIn)
	}
	return nil
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidConfig, fmt.Sprintf(format, args...))
}

// connectColor resolves the color used for connection lines.
func (c *Config) connectColor() Color {
	if c.ConnectColor != (Color{}) {
		return c.ConnectColor
	}
	if len(c.Colors) > 0 {
		return c.Colors[0]
	}
	return ColorWhite
}

// clone returns a copy that shares nothing mutable with c.
func (c Config) clone() Config {
	c.Colors = append([]Color(nil), c.Colors...)
	return c
}
