package backdrop

import (
	"image"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// Painter is the drawing surface a Field renders into. Colors are straight
// (not premultiplied) and carry the final alpha of the primitive.
type Painter interface {
	// Clear erases the whole surface to transparent.
	Clear()
	// SetBlend selects the compositing operation for subsequent primitives.
	SetBlend(BlendMode)
	FillCircle(x, y, r float64, c Color)
	FillRect(x, y, w, h float64, c Color)
	FillTriangle(x0, y0, x1, y1, x2, y2 float64, c Color)
	StrokeLine(x0, y0, x1, y1, width float64, c Color)
	// Glow fills a radial gradient of radius r centered at (x, y) that fades
	// from c at the center to transparent at the rim.
	Glow(x, y, r float64, c Color)
}

// EbitenPainter draws onto an *ebiten.Image. Vertex and index buffers are
// reused across frames; glow gradients are cached per quantized radius.
type EbitenPainter struct {
	dst       *ebiten.Image
	blend     BlendMode
	white     *ebiten.Image
	vs        []ebiten.Vertex
	is        []uint16
	glowCache map[int]*ebiten.Image
	imgOp     ebiten.DrawImageOptions
}

// NewEbitenPainter creates a painter targeting dst. dst may be nil and set
// later with SetTarget.
func NewEbitenPainter(dst *ebiten.Image) *EbitenPainter {
	base := ebiten.NewImage(3, 3)
	base.Fill(ColorWhite.toRGBA())
	return &EbitenPainter{
		dst:       dst,
		white:     base.SubImage(image.Rect(1, 1, 2, 2)).(*ebiten.Image),
		glowCache: make(map[int]*ebiten.Image),
	}
}

// SetTarget changes the image subsequent calls draw onto.
func (p *EbitenPainter) SetTarget(dst *ebiten.Image) {
	p.dst = dst
}

func (p *EbitenPainter) Clear() {
	if p.dst != nil {
		p.dst.Clear()
	}
}

func (p *EbitenPainter) SetBlend(b BlendMode) {
	p.blend = b
}

func (p *EbitenPainter) FillCircle(x, y, r float64, c Color) {
	if r <= 0 {
		return
	}
	var path vector.Path
	path.Arc(float32(x), float32(y), float32(r), 0, 2*math.Pi, vector.Clockwise)
	path.Close()
	p.fill(&path, c)
}

func (p *EbitenPainter) FillRect(x, y, w, h float64, c Color) {
	var path vector.Path
	path.MoveTo(float32(x), float32(y))
	path.LineTo(float32(x+w), float32(y))
	path.LineTo(float32(x+w), float32(y+h))
	path.LineTo(float32(x), float32(y+h))
	path.Close()
	p.fill(&path, c)
}

func (p *EbitenPainter) FillTriangle(x0, y0, x1, y1, x2, y2 float64, c Color) {
	var path vector.Path
	path.MoveTo(float32(x0), float32(y0))
	path.LineTo(float32(x1), float32(y1))
	path.LineTo(float32(x2), float32(y2))
	path.Close()
	p.fill(&path, c)
}

func (p *EbitenPainter) StrokeLine(x0, y0, x1, y1, width float64, c Color) {
	if p.dst == nil || width <= 0 {
		return
	}
	var path vector.Path
	path.MoveTo(float32(x0), float32(y0))
	path.LineTo(float32(x1), float32(y1))
	p.vs, p.is = path.AppendVerticesAndIndicesForStroke(p.vs[:0], p.is[:0], &vector.StrokeOptions{
		Width: float32(width),
	})
	p.submit(c)
}

func (p *EbitenPainter) Glow(x, y, r float64, c Color) {
	if p.dst == nil || r <= 0 || c.A <= 0 {
		return
	}
	key := int(math.Ceil(r))
	tex := p.glowCache[key]
	if tex == nil {
		tex = radialGradient(key)
		p.glowCache[key] = tex
	}
	a := clamp01(c.A)
	p.imgOp.GeoM.Reset()
	p.imgOp.GeoM.Translate(x-float64(key), y-float64(key))
	p.imgOp.ColorScale.Reset()
	p.imgOp.ColorScale.Scale(float32(c.R*a), float32(c.G*a), float32(c.B*a), float32(a))
	p.imgOp.Blend = p.blend.EbitenBlend()
	p.dst.DrawImage(tex, &p.imgOp)
}

func (p *EbitenPainter) fill(path *vector.Path, c Color) {
	if p.dst == nil {
		return
	}
	p.vs, p.is = path.AppendVerticesAndIndicesForFilling(p.vs[:0], p.is[:0])
	p.submit(c)
}

func (p *EbitenPainter) submit(c Color) {
	for i := range p.vs {
		p.vs[i].SrcX = 1
		p.vs[i].SrcY = 1
		p.vs[i].ColorR = float32(c.R)
		p.vs[i].ColorG = float32(c.G)
		p.vs[i].ColorB = float32(c.B)
		p.vs[i].ColorA = float32(clamp01(c.A))
	}
	p.dst.DrawTriangles(p.vs, p.is, p.white, &ebiten.DrawTrianglesOptions{
		AntiAlias: true,
		Blend:     p.blend.EbitenBlend(),
	})
}

// radialGradient renders a white disc of radius r whose alpha falls off
// linearly from 1 at the center to 0 at the rim, premultiplied.
func radialGradient(r int) *ebiten.Image {
	size := r * 2
	pix := make([]byte, size*size*4)
	fr := float64(r)
	for py := 0; py < size; py++ {
		for px := 0; px < size; px++ {
			d := math.Hypot(float64(px)+0.5-fr, float64(py)+0.5-fr)
			a := byte(clamp01(1-d/fr)*255 + 0.5)
			i := (py*size + px) * 4
			pix[i], pix[i+1], pix[i+2], pix[i+3] = a, a, a, a
		}
	}
	img := ebiten.NewImage(size, size)
	img.WritePixels(pix)
	return img
}
