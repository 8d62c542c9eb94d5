package backdrop

import (
	"math"

	"github.com/charmbracelet/harmonica"
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

const (
	glowStiffness = 700.0
	glowDamping   = 25.0
	// glowFadeSeconds is how long the glow takes to reach a new opacity target.
	glowFadeSeconds = 0.25
)

// glow is the pointer-following halo. Its position trails the pointer on a
// damped spring and its opacity eases toward GlowOpacity while the pointer is
// over the surface. After a leave it holds its position and fades out.
type glow struct {
	spring  harmonica.Spring
	x, y    float64
	vx, vy  float64
	primed  bool
	opacity float64
	target  float64
	fade    *gween.Tween
}

func newGlow(tps int) glow {
	if tps <= 0 {
		tps = 60
	}
	// A mass-spring with stiffness k and damping c has angular frequency
	// sqrt(k) and damping ratio c / (2 sqrt(k)) at unit mass.
	freq := math.Sqrt(glowStiffness)
	return glow{spring: harmonica.NewSpring(harmonica.FPS(tps), freq, glowDamping/(2*freq))}
}

// update advances the glow by one frame of dt seconds toward ptr.
func (g *glow) update(ptr Pointer, maxOpacity float64, dt float32) {
	target := 0.0
	if ptr.Active {
		target = maxOpacity
		if !g.primed {
			g.x, g.y = ptr.X, ptr.Y
			g.vx, g.vy = 0, 0
			g.primed = true
		}
	}
	if target != g.target {
		g.target = target
		g.fade = gween.New(float32(g.opacity), float32(target), glowFadeSeconds, ease.OutQuad)
	}
	if g.fade != nil {
		v, done := g.fade.Update(dt)
		g.opacity = float64(v)
		if done {
			g.opacity = g.target
			g.fade = nil
		}
	}
	if g.primed && ptr.Active {
		g.x, g.vx = g.spring.Update(g.x, g.vx, ptr.X)
		g.y, g.vy = g.spring.Update(g.y, g.vy, ptr.Y)
	}
}

// visible reports whether the glow should be drawn this frame.
func (g *glow) visible() bool {
	return g.primed && g.opacity > 0
}
