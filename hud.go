package backdrop

import (
	"bytes"
	"fmt"
	"image"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"golang.org/x/image/font/gofont/goregular"
)

// hudRefresh is how often, in seconds, the HUD text is rebuilt.
const hudRefresh = 0.5

// StatsOverlay is an Overlay showing FPS, TPS, and the particle and
// connection counts of every mounted field.
type StatsOverlay struct {
	face  *text.GoTextFace
	lh    float64
	label string
	since float64
}

// NewStatsOverlay loads the Go Regular font at the given size.
func NewStatsOverlay(size float64) (*StatsOverlay, error) {
	src, err := text.NewGoTextFaceSource(bytes.NewReader(goregular.TTF))
	if err != nil {
		return nil, fmt.Errorf("backdrop: load hud font: %w", err)
	}
	face := &text.GoTextFace{Source: src, Size: size}
	m := face.Metrics()
	return &StatsOverlay{
		face:  face,
		lh:    m.HAscent + m.HDescent + m.HLineGap,
		since: hudRefresh,
	}, nil
}

// Update implements Overlay.
func (o *StatsOverlay) Update(s *Surface, dt float64) {
	o.since += dt
	if o.since < hudRefresh {
		return
	}
	o.since = 0
	particles, segments := s.counts()
	o.label = formatStats(ebiten.ActualFPS(), ebiten.ActualTPS(), particles, segments)
}

// Draw implements Overlay.
func (o *StatsOverlay) Draw(screen *ebiten.Image) {
	if o.label == "" {
		return
	}
	w, h := text.Measure(o.label, o.face, o.lh)
	bg := screen.SubImage(image.Rect(4, 4, 16+int(w), 12+int(h))).(*ebiten.Image)
	bg.Fill(color.RGBA{0, 0, 0, 128})

	op := &text.DrawOptions{}
	op.GeoM.Translate(10, 8)
	op.LineSpacing = o.lh
	text.Draw(screen, o.label, o.face, op)
}

func formatStats(fps, tps float64, particles, segments int) string {
	return fmt.Sprintf("FPS: %.1f\nTPS: %.1f\nparticles: %d\nlines: %d", fps, tps, particles, segments)
}
