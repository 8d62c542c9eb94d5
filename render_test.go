package backdrop

import (
	"fmt"
	"testing"

	"github.com/hajimehoshi/ebiten/v2"
)

// recordingPainter logs every call as a short string.
type recordingPainter struct {
	calls []string
	blend BlendMode
}

func (r *recordingPainter) Clear() { r.calls = append(r.calls, "clear") }
func (r *recordingPainter) SetBlend(b BlendMode) {
	r.blend = b
	r.calls = append(r.calls, "blend "+b.String())
}
func (r *recordingPainter) FillCircle(x, y, rad float64, c Color) {
	r.calls = append(r.calls, fmt.Sprintf("circle %.0f,%.0f r%.1f a%.2f", x, y, rad, c.A))
}
func (r *recordingPainter) FillRect(x, y, w, h float64, c Color) {
	r.calls = append(r.calls, fmt.Sprintf("rect %.0f,%.0f %.0fx%.0f", x, y, w, h))
}
func (r *recordingPainter) FillTriangle(x0, y0, x1, y1, x2, y2 float64, c Color) {
	r.calls = append(r.calls, fmt.Sprintf("tri %.0f,%.0f %.0f,%.0f %.0f,%.0f", x0, y0, x1, y1, x2, y2))
}
func (r *recordingPainter) StrokeLine(x0, y0, x1, y1, w float64, c Color) {
	r.calls = append(r.calls, fmt.Sprintf("line %.0f,%.0f-%.0f,%.0f w%.1f a%.2f", x0, y0, x1, y1, w, c.A))
}
func (r *recordingPainter) Glow(x, y, rad float64, c Color) {
	r.calls = append(r.calls, fmt.Sprintf("glow %.0f,%.0f r%.0f", x, y, rad))
}

func assertCalls(t *testing.T, got, want []string) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("calls = %q\nwant   %q", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("call %d = %q, want %q\nall: %q", i, got[i], want[i], got)
		}
	}
}

func testParticle(x, y, size float64) Particle {
	return Particle{X: x, Y: y, Size: size, Color: ColorWhite, Opacity: 1, Life: 50, MaxLife: 100}
}

func TestRenderFrameOrder(t *testing.T) {
	cfg := DefaultConfig()
	ps := []Particle{testParticle(10, 10, 2), testParticle(40, 10, 1)}
	segs := []Segment{{I: 0, J: 1, Falloff: 0.5}}
	g := newGlow(60)
	ptr := Pointer{X: 5, Y: 5, Active: true}
	g.update(ptr, cfg.GlowOpacity, 1)

	var p recordingPainter
	renderFrame(&p, &cfg, ps, segs, &g)
	assertCalls(t, p.calls, []string{
		"clear",
		"blend screen",
		"glow 5,5 r150",
		"line 10,10-40,10 w0.5 a0.10",
		"circle 10,10 r2.0 a1.00",
		"circle 40,10 r1.0 a1.00",
	})
}

func TestRenderSkipsInvisibleParticles(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ConnectParticles = false
	cfg.MouseGlow = false
	fresh := testParticle(10, 10, 2)
	fresh.Life = fresh.MaxLife // alpha 0 at the start of the fade-in
	ps := []Particle{fresh, testParticle(20, 20, 1)}

	var p recordingPainter
	renderFrame(&p, &cfg, ps, nil, nil)
	assertCalls(t, p.calls, []string{"clear", "blend screen", "circle 20,20 r1.0 a1.00"})
}

func TestRenderNoGlowWithoutPointer(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ConnectParticles = false
	g := newGlow(60)
	var p recordingPainter
	renderFrame(&p, &cfg, nil, nil, &g)
	assertCalls(t, p.calls, []string{"clear", "blend screen"})
}

func TestRenderGlowFadesAfterLeave(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ConnectParticles = false
	g := newGlow(60)
	g.update(Pointer{X: 5, Y: 5, Active: true}, cfg.GlowOpacity, 1)
	g.update(Pointer{X: 5, Y: 5}, cfg.GlowOpacity, 1.0/60)

	var p recordingPainter
	renderFrame(&p, &cfg, nil, nil, &g)
	assertCalls(t, p.calls, []string{"clear", "blend screen", "glow 5,5 r150"})
}

func TestDrawShapes(t *testing.T) {
	pt := testParticle(10, 20, 4)
	pt.VX, pt.VY = 1, -2
	tests := []struct {
		shape Shape
		want  string
	}{
		{ShapeCircle, "circle 10,20 r4.0 a1.00"},
		{ShapeSquare, "rect 8,18 4x4"},
		{ShapeTriangle, "tri 10,16 14,24 6,24"},
		{ShapeLine, "line 10,20-15,10 w4.0 a1.00"},
	}
	for _, tt := range tests {
		t.Run(tt.shape.String(), func(t *testing.T) {
			var p recordingPainter
			drawShape(&p, tt.shape, &pt, 1)
			assertCalls(t, p.calls, []string{tt.want})
		})
	}
}

func TestDrawFuncReplacesShape(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ConnectParticles = false
	cfg.MouseGlow = false
	var got []float64
	cfg.DrawFunc = func(p Painter, pt *Particle, alpha float64) { got = append(got, alpha) }
	ps := []Particle{testParticle(1, 1, 1)}
	ps[0].Opacity = 0.5

	var p recordingPainter
	renderFrame(&p, &cfg, ps, nil, nil)
	if len(got) != 1 {
		t.Fatalf("DrawFunc called %d times, want 1", len(got))
	}
	assertNear(t, "alpha", got[0], 0.5)
	assertCalls(t, p.calls, []string{"clear", "blend screen"})
}

func TestFieldDrawComputesSegments(t *testing.T) {
	f := newTestField(t, func(c *Config) { c.ConnectDistance = 1000 })
	f.Start(100, 100)
	var p recordingPainter
	f.Draw(&p)
	n := len(f.Simulation().Particles())
	if got, want := len(f.Segments()), n*(n-1)/2; got != want {
		t.Errorf("segments = %d, want %d", got, want)
	}

	f2 := newTestField(t, func(c *Config) { c.ConnectParticles = false })
	f2.Start(100, 100)
	f2.Draw(&p)
	if len(f2.Segments()) != 0 {
		t.Errorf("segments = %d with connections off", len(f2.Segments()))
	}
}

func TestEbitenPainterDraws(t *testing.T) {
	dst := ebiten.NewImage(32, 32)
	p := NewEbitenPainter(dst)
	p.SetBlend(BlendAdd)
	p.Clear()
	p.FillCircle(16, 16, 4, ColorWhite)
	p.FillRect(0, 0, 4, 4, ColorWhite)
	p.FillTriangle(0, 0, 8, 0, 4, 8, ColorWhite)
	p.StrokeLine(0, 0, 32, 32, 1, ColorWhite)
	p.Glow(16, 16, 10.2, ColorWhite)
	p.Glow(16, 16, 10.7, ColorWhite)
	if len(p.glowCache) != 1 {
		t.Errorf("glowCache has %d entries, want 1 for radii rounding to the same size", len(p.glowCache))
	}
}

func TestEbitenPainterNilTargetIsNoop(t *testing.T) {
	p := NewEbitenPainter(nil)
	p.Clear()
	p.FillCircle(1, 1, 1, ColorWhite)
	p.StrokeLine(0, 0, 1, 1, 1, ColorWhite)
	p.Glow(1, 1, 1, ColorWhite)
}
