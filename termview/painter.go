package termview

import (
	"math"

	"github.com/gdamore/tcell/v2"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/phanxgames/backdrop"
)

// halfBlock is drawn with the foreground as the top subpixel and the
// background as the bottom one.
const halfBlock = '▀'

type rgb struct{ r, g, b float64 }

// Painter rasterizes into a buffer of cols x rows*2 subpixels. One simulation
// pixel is one subpixel, so a terminal cell covers two vertically stacked pixels.
type Painter struct {
	cols, rows int
	w, h       int
	pix        []rgb
	blend      backdrop.BlendMode
	opacity    float64
	background rgb
}

// NewPainter creates a painter for a terminal of cols x rows cells.
func NewPainter(cols, rows int) *Painter {
	p := &Painter{opacity: 1}
	p.Resize(cols, rows)
	return p
}

// Resize reallocates the buffer for a terminal of cols x rows cells.
func (p *Painter) Resize(cols, rows int) {
	p.cols, p.rows = max(cols, 0), max(rows, 0)
	p.w, p.h = p.cols, p.rows*2
	if n := p.w * p.h; cap(p.pix) >= n {
		p.pix = p.pix[:n]
	} else {
		p.pix = make([]rgb, n)
	}
	p.Clear()
}

// PixelSize returns the raster size in simulation pixels.
func (p *Painter) PixelSize() (int, int) {
	return p.w, p.h
}

// At returns the subpixel color at (x, y) as 8-bit RGB.
func (p *Painter) At(x, y int) (r, g, b uint8) {
	if x < 0 || y < 0 || x >= p.w || y >= p.h {
		return 0, 0, 0
	}
	c := p.pix[y*p.w+x]
	return colorful.Color{R: c.r, G: c.g, B: c.b}.Clamped().RGB255()
}

// SetOpacity scales the alpha of everything drawn after it, e.g. for a
// fade-in. Values are clamped to [0, 1].
func (p *Painter) SetOpacity(a float64) {
	p.opacity = math.Min(math.Max(a, 0), 1)
}

func (p *Painter) Clear() {
	for i := range p.pix {
		p.pix[i] = p.background
	}
}

func (p *Painter) SetBlend(b backdrop.BlendMode) {
	p.blend = b
}

func (p *Painter) FillCircle(x, y, r float64, c backdrop.Color) {
	if r <= 0 || c.A <= 0 {
		return
	}
	// Sub-pixel particles still light the pixel they sit in.
	if r < 0.5 {
		p.plot(int(math.Floor(x)), int(math.Floor(y)), c, 1)
		return
	}
	r2 := r * r
	x0, y0, x1, y1 := p.clip(x-r, y-r, x+r, y+r)
	for py := y0; py <= y1; py++ {
		dy := float64(py) + 0.5 - y
		for px := x0; px <= x1; px++ {
			dx := float64(px) + 0.5 - x
			if dx*dx+dy*dy <= r2 {
				p.plot(px, py, c, 1)
			}
		}
	}
}

func (p *Painter) FillRect(x, y, w, h float64, c backdrop.Color) {
	if w <= 0 || h <= 0 || c.A <= 0 {
		return
	}
	x0, y0, x1, y1 := p.clip(x, y, x+w-0.5, y+h-0.5)
	for py := y0; py <= y1; py++ {
		for px := x0; px <= x1; px++ {
			p.plot(px, py, c, 1)
		}
	}
}

func (p *Painter) FillTriangle(x0, y0, x1, y1, x2, y2 float64, c backdrop.Color) {
	if c.A <= 0 {
		return
	}
	area := edge(x0, y0, x1, y1, x2, y2)
	if area == 0 {
		return
	}
	bx0, by0, bx1, by1 := p.clip(
		min(x0, x1, x2), min(y0, y1, y2),
		max(x0, x1, x2), max(y0, y1, y2))
	for py := by0; py <= by1; py++ {
		cy := float64(py) + 0.5
		for px := bx0; px <= bx1; px++ {
			cx := float64(px) + 0.5
			w0 := edge(x1, y1, x2, y2, cx, cy)
			w1 := edge(x2, y2, x0, y0, cx, cy)
			w2 := edge(x0, y0, x1, y1, cx, cy)
			if area < 0 {
				w0, w1, w2 = -w0, -w1, -w2
			}
			if w0 >= 0 && w1 >= 0 && w2 >= 0 {
				p.plot(px, py, c, 1)
			}
		}
	}
}

// StrokeLine samples the segment at half-pixel steps. Widths below one
// pixel scale the alpha instead of the footprint.
func (p *Painter) StrokeLine(x0, y0, x1, y1, width float64, c backdrop.Color) {
	if width <= 0 || c.A <= 0 {
		return
	}
	cover := 1.0
	if width < 1 {
		cover = width
		width = 1
	}
	n := int(math.Ceil(math.Hypot(x1-x0, y1-y0)*2)) + 1
	half := width / 2
	last := -1
	for i := 0; i < n; i++ {
		t := 0.0
		if n > 1 {
			t = float64(i) / float64(n-1)
		}
		x := x0 + (x1-x0)*t
		y := y0 + (y1-y0)*t
		if width <= 1 {
			px, py := int(math.Floor(x)), int(math.Floor(y))
			if idx := py*p.w + px; idx != last {
				p.plot(px, py, c, cover)
				last = idx
			}
			continue
		}
		p.FillCircle(x, y, half, c.WithAlpha(cover))
	}
}

func (p *Painter) Glow(x, y, r float64, c backdrop.Color) {
	if r <= 0 || c.A <= 0 {
		return
	}
	x0, y0, x1, y1 := p.clip(x-r, y-r, x+r, y+r)
	for py := y0; py <= y1; py++ {
		dy := float64(py) + 0.5 - y
		for px := x0; px <= x1; px++ {
			dx := float64(px) + 0.5 - x
			if f := 1 - math.Hypot(dx, dy)/r; f > 0 {
				p.plot(px, py, c, f)
			}
		}
	}
}

// clip converts a float bounding box to inclusive pixel bounds inside the buffer.
func (p *Painter) clip(minX, minY, maxX, maxY float64) (int, int, int, int) {
	return max(int(math.Floor(minX)), 0), max(int(math.Floor(minY)), 0),
		min(int(math.Floor(maxX)), p.w-1), min(int(math.Floor(maxY)), p.h-1)
}

func (p *Painter) plot(x, y int, c backdrop.Color, cover float64) {
	if x < 0 || y < 0 || x >= p.w || y >= p.h {
		return
	}
	a := math.Min(math.Max(c.A*cover*p.opacity, 0), 1)
	d := &p.pix[y*p.w+x]
	switch p.blend {
	case backdrop.BlendAdd:
		d.r += c.R * a
		d.g += c.G * a
		d.b += c.B * a
	case backdrop.BlendScreen:
		d.r = 1 - (1-d.r)*(1-c.R*a)
		d.g = 1 - (1-d.g)*(1-c.G*a)
		d.b = 1 - (1-d.b)*(1-c.B*a)
	case backdrop.BlendMultiply:
		d.r *= 1 - a + c.R*a
		d.g *= 1 - a + c.G*a
		d.b *= 1 - a + c.B*a
	case backdrop.BlendErase, backdrop.BlendBelow:
		// No destination alpha in a terminal; both leave the pixel as is.
	case backdrop.BlendNone:
		d.r, d.g, d.b = c.R*a, c.G*a, c.B*a
	default:
		d.r += (c.R - d.r) * a
		d.g += (c.G - d.g) * a
		d.b += (c.B - d.b) * a
	}
}

// Flush writes the buffer to screen, two subpixels per cell.
func (p *Painter) Flush(screen tcell.Screen) {
	for row := 0; row < p.rows; row++ {
		top := p.pix[(2*row)*p.w:]
		bottom := p.pix[(2*row+1)*p.w:]
		for col := 0; col < p.cols; col++ {
			style := tcell.StyleDefault.
				Foreground(toTcell(top[col])).
				Background(toTcell(bottom[col]))
			screen.SetContent(col, row, halfBlock, nil, style)
		}
	}
}

func toTcell(c rgb) tcell.Color {
	r, g, b := colorful.Color{R: c.r, G: c.g, B: c.b}.Clamped().RGB255()
	return tcell.NewRGBColor(int32(r), int32(g), int32(b))
}

func edge(ax, ay, bx, by, cx, cy float64) float64 {
	return (bx-ax)*(cy-ay) - (by-ay)*(cx-ax)
}
