package backdrop

import (
	"fmt"
	"image/color"
	"math"
	"math/rand/v2"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
)

// Color represents an RGBA color with components in [0, 1]. Not premultiplied.
// Premultiplication occurs at render submission time.
type Color struct {
	R, G, B, A float64
}

// ColorWhite is the neutral tint.
var ColorWhite = Color{1, 1, 1, 1}

// toRGBA converts to a premultiplied color.RGBA.
func (c Color) toRGBA() color.RGBA {
	a := clamp01(c.A)
	return color.RGBA{
		R: uint8(clamp01(c.R)*a*255 + 0.5),
		G: uint8(clamp01(c.G)*a*255 + 0.5),
		B: uint8(clamp01(c.B)*a*255 + 0.5),
		A: uint8(a*255 + 0.5),
	}
}

// WithAlpha returns c with its alpha multiplied by a.
func (c Color) WithAlpha(a float64) Color {
	c.A *= a
	return c
}

// Rect is an axis-aligned rectangle. The coordinate system has its origin at
// the top-left, with Y increasing downward.
type Rect struct {
	X, Y, Width, Height float64
}

// Contains reports whether the point (x, y) lies inside the rectangle.
// Points on the edge are considered inside.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x <= r.X+r.Width &&
		y >= r.Y && y <= r.Y+r.Height
}

// Range is a general-purpose min/max range.
type Range struct {
	Min, Max float64
}

// Random returns a value in [Min, Max] drawn from rng.
func (r Range) Random(rng *rand.Rand) float64 {
	if r.Min == r.Max {
		return r.Min
	}
	return r.Min + rng.Float64()*(r.Max-r.Min)
}

// Contains reports whether v lies in [Min, Max].
func (r Range) Contains(v float64) bool {
	return v >= r.Min && v <= r.Max
}

// BlendMode selects a compositing operation. Each maps to a specific ebiten.Blend value.
type BlendMode uint8

const (
	BlendNormal   BlendMode = iota // source-over (standard alpha blending)
	BlendAdd                       // additive / lighter
	BlendMultiply                  // multiply (source * destination; only darkens)
	BlendScreen                    // screen (1 - (1-src)*(1-dst); only brightens)
	BlendErase                     // destination-out (punch transparent holes)
	BlendBelow                     // destination-over (draw behind existing content)
	BlendNone                      // opaque copy (skip blending)
)

var blendNames = [...]string{
	BlendNormal:   "normal",
	BlendAdd:      "lighter",
	BlendMultiply: "multiply",
	BlendScreen:   "screen",
	BlendErase:    "destination-out",
	BlendBelow:    "destination-over",
	BlendNone:     "copy",
}

func (b BlendMode) String() string {
	if int(b) < len(blendNames) {
		return blendNames[b]
	}
	return fmt.Sprintf("BlendMode(%d)", b)
}

// ParseBlendMode accepts the canvas composite operation names ("source-over",
// "lighter", "screen", ...) as well as the short aliases "normal" and "add".
func ParseBlendMode(s string) (BlendMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "normal", "source-over":
		return BlendNormal, nil
	case "add", "lighter":
		return BlendAdd, nil
	case "multiply":
		return BlendMultiply, nil
	case "screen":
		return BlendScreen, nil
	case "erase", "destination-out":
		return BlendErase, nil
	case "below", "destination-over":
		return BlendBelow, nil
	case "none", "copy":
		return BlendNone, nil
	}
	return BlendNormal, fmt.Errorf("unknown blend mode %q", s)
}

// EbitenBlend returns the ebiten.Blend value corresponding to this BlendMode.
func (b BlendMode) EbitenBlend() ebiten.Blend {
	switch b {
	case BlendNormal:
		return ebiten.BlendSourceOver
	case BlendAdd:
		return ebiten.BlendLighter
	case BlendMultiply:
		return ebiten.Blend{
			BlendFactorSourceRGB:        ebiten.BlendFactorDestinationColor,
			BlendFactorSourceAlpha:      ebiten.BlendFactorDestinationAlpha,
			BlendFactorDestinationRGB:   ebiten.BlendFactorOneMinusSourceAlpha,
			BlendFactorDestinationAlpha: ebiten.BlendFactorOneMinusSourceAlpha,
			BlendOperationRGB:           ebiten.BlendOperationAdd,
			BlendOperationAlpha:         ebiten.BlendOperationAdd,
		}
	case BlendScreen:
		return ebiten.Blend{
			BlendFactorSourceRGB:        ebiten.BlendFactorOne,
			BlendFactorSourceAlpha:      ebiten.BlendFactorOne,
			BlendFactorDestinationRGB:   ebiten.BlendFactorOneMinusSourceColor,
			BlendFactorDestinationAlpha: ebiten.BlendFactorOneMinusSourceAlpha,
			BlendOperationRGB:           ebiten.BlendOperationAdd,
			BlendOperationAlpha:         ebiten.BlendOperationAdd,
		}
	case BlendErase:
		return ebiten.BlendDestinationOut
	case BlendBelow:
		return ebiten.BlendDestinationOver
	case BlendNone:
		return ebiten.BlendCopy
	default:
		return ebiten.BlendSourceOver
	}
}

// Shape selects how each particle is drawn when no DrawFunc is set.
type Shape uint8

const (
	ShapeCircle   Shape = iota // filled circle of radius Size
	ShapeSquare                // filled square of edge Size, centered
	ShapeTriangle              // apex-up triangle, half-width Size
	ShapeLine                  // streak from position along 5x velocity, width Size
)

var shapeNames = [...]string{
	ShapeCircle:   "circle",
	ShapeSquare:   "square",
	ShapeTriangle: "triangle",
	ShapeLine:     "line",
}

func (s Shape) String() string {
	if int(s) < len(shapeNames) {
		return shapeNames[s]
	}
	return fmt.Sprintf("Shape(%d)", s)
}

// ParseShape parses a shape name. The empty string is a circle.
func ParseShape(s string) (Shape, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return ShapeCircle, nil
	}
	for i, name := range shapeNames {
		if name == s {
			return Shape(i), nil
		}
	}
	return ShapeCircle, fmt.Errorf("unknown particle shape %q", s)
}

// Interaction selects the direction of the pointer force.
type Interaction uint8

const (
	InteractRepel   Interaction = iota // push particles away from the pointer
	InteractAttract                    // pull particles toward the pointer
)

func (i Interaction) String() string {
	if i == InteractAttract {
		return "attract"
	}
	return "repel"
}

// ParseInteraction parses "repel" or "attract". The empty string is repel.
func ParseInteraction(s string) (Interaction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "repel":
		return InteractRepel, nil
	case "attract":
		return InteractAttract, nil
	}
	return InteractRepel, fmt.Errorf("unknown interaction %q", s)
}

// ConnectIndex selects how candidate pairs for connection lines are found.
type ConnectIndex uint8

const (
	ConnectBruteForce ConnectIndex = iota // test every unordered pair, O(n^2)
	ConnectGrid                           // uniform grid with ConnectDistance cells
)

func (c ConnectIndex) String() string {
	if c == ConnectGrid {
		return "grid"
	}
	return "brute"
}

// ParseConnectIndex parses "brute" or "grid". The empty string is brute.
func ParseConnectIndex(s string) (ConnectIndex, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "brute":
		return ConnectBruteForce, nil
	case "grid":
		return ConnectGrid, nil
	}
	return ConnectBruteForce, fmt.Errorf("unknown connect index %q", s)
}

// EventType identifies a kind of surface event.
type EventType uint8

const (
	EventPointerMove  EventType = iota // fires when the pointer moves inside the surface
	EventPointerLeave                  // fires when the pointer leaves the surface
	EventResize                        // fires when the surface changes size
)

func clamp01(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	}
	return v
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
