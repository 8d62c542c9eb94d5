package backdrop

// lineStreak is how many frames of velocity a ShapeLine particle trails.
const lineStreak = 5

// renderFrame draws one frame of ps onto p: glow first, then connection
// lines behind the particles, then the particles themselves.
func renderFrame(p Painter, cfg *Config, ps []Particle, segs []Segment, g *glow) {
	p.Clear()
	p.SetBlend(cfg.BlendMode)

	if cfg.MouseGlow && g != nil && g.visible() {
		p.Glow(g.x, g.y, cfg.GlowRadius, cfg.GlowColor.WithAlpha(g.opacity))
	}

	if cfg.ConnectParticles {
		drawConnections(p, cfg, ps, segs)
	}

	for i := range ps {
		pt := &ps[i]
		alpha := pt.Alpha(cfg.FadeWindow)
		if alpha <= 0 {
			continue
		}
		if cfg.DrawFunc != nil {
			cfg.DrawFunc(p, pt, alpha)
			continue
		}
		drawShape(p, cfg.Shape, pt, alpha)
	}
}

func drawConnections(p Painter, cfg *Config, ps []Particle, segs []Segment) {
	c := cfg.connectColor()
	for _, s := range segs {
		a, b := &ps[s.I], &ps[s.J]
		p.StrokeLine(a.X, a.Y, b.X, b.Y, cfg.ConnectWidth, c.WithAlpha(s.Falloff*cfg.ConnectOpacity))
	}
}

func drawShape(p Painter, shape Shape, pt *Particle, alpha float64) {
	c := pt.Color.WithAlpha(alpha)
	switch shape {
	case ShapeSquare:
		p.FillRect(pt.X-pt.Size/2, pt.Y-pt.Size/2, pt.Size, pt.Size, c)
	case ShapeTriangle:
		p.FillTriangle(
			pt.X, pt.Y-pt.Size,
			pt.X+pt.Size, pt.Y+pt.Size,
			pt.X-pt.Size, pt.Y+pt.Size,
			c)
	case ShapeLine:
		p.StrokeLine(pt.X, pt.Y, pt.X+pt.VX*lineStreak, pt.Y+pt.VY*lineStreak, pt.Size, c)
	default:
		p.FillCircle(pt.X, pt.Y, pt.Size, c)
	}
}
