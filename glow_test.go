package backdrop

import (
	"math"
	"testing"
)

func TestGlowSnapsOnFirstActivation(t *testing.T) {
	g := newGlow(60)
	g.update(Pointer{X: 300, Y: 200, Active: true}, 0.8, 1.0/60)
	if math.Abs(g.x-300) > 1e-6 || math.Abs(g.y-200) > 1e-6 {
		t.Errorf("glow at (%v, %v), want (300, 200)", g.x, g.y)
	}
	if !g.visible() {
		t.Error("glow should be visible once primed with opacity > 0")
	}
}

func TestGlowFollowsPointer(t *testing.T) {
	g := newGlow(60)
	g.update(Pointer{X: 0, Y: 0, Active: true}, 0.8, 1.0/60)

	// The spring is slightly underdamped; it closes in monotonically until
	// the first overshoot.
	prev := math.Inf(1)
	for i := 0; i < 3; i++ {
		g.update(Pointer{X: 100, Y: 0, Active: true}, 0.8, 1.0/60)
		d := math.Abs(100 - g.x)
		if d > prev+1e-6 {
			t.Fatalf("frame %d: distance to pointer grew from %v to %v", i, prev, d)
		}
		prev = d
	}
	if g.x <= 0 {
		t.Errorf("glow did not move toward pointer: x = %v", g.x)
	}
	for i := 0; i < 120; i++ {
		g.update(Pointer{X: 100, Y: 0, Active: true}, 0.8, 1.0/60)
	}
	if math.Abs(g.x-100) > 0.5 {
		t.Errorf("glow did not settle on pointer: x = %v", g.x)
	}
}

func TestGlowOpacityTweens(t *testing.T) {
	g := newGlow(60)
	active := Pointer{X: 10, Y: 10, Active: true}
	g.update(active, 0.8, 1.0/60)
	if g.opacity <= 0 || g.opacity >= 0.8 {
		t.Errorf("after one frame opacity = %v, want in (0, 0.8)", g.opacity)
	}
	for i := 0; i < 30; i++ {
		g.update(active, 0.8, 1.0/60)
	}
	assertNear(t, "opacity", g.opacity, 0.8)

	left := Pointer{X: 10, Y: 10}
	for i := 0; i < 30; i++ {
		g.update(left, 0.8, 1.0/60)
	}
	assertNear(t, "opacity after leave", g.opacity, 0)
	if g.visible() {
		t.Error("glow visible after fading out")
	}
}

func TestGlowFadesOutAfterLeave(t *testing.T) {
	g := newGlow(60)
	active := Pointer{X: 40, Y: 30, Active: true}
	for i := 0; i < 60; i++ {
		g.update(active, 0.8, 1.0/60)
	}
	x, y := g.x, g.y

	g.update(Pointer{X: 40, Y: 30}, 0.8, 1.0/60)
	if !g.visible() {
		t.Fatal("glow should still draw while fading out")
	}
	if g.opacity <= 0 || g.opacity >= 0.8 {
		t.Errorf("opacity one frame after leave = %v, want in (0, 0.8)", g.opacity)
	}
	assertNear(t, "x after leave", g.x, x)
	assertNear(t, "y after leave", g.y, y)
}
