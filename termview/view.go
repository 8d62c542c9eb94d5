// Package termview renders a backdrop Field into a terminal using tcell.
//
// Each cell shows two vertically stacked pixels with the upper half block
// glyph, so a terminal of C x R cells is a C x 2R pixel surface. Mouse motion
// drives the field's pointer; losing focus counts as the pointer leaving.
package termview

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gdamore/tcell/v2"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/phanxgames/backdrop"
)

var errQuit = errors.New("termview: quit")

// View runs one field on one terminal screen.
type View struct {
	screen  tcell.Screen
	field   *backdrop.Field
	log     *zap.Logger
	tps     int
	painter *Painter
	resize  chan [2]int
}

// Option configures a View.
type Option func(*View)

// WithLogger sets the logger. Logs must not go to the terminal being drawn on.
func WithLogger(l *zap.Logger) Option {
	return func(v *View) {
		if l != nil {
			v.log = l
		}
	}
}

// WithTPS sets the frame rate. Defaults to 30.
func WithTPS(tps int) Option {
	return func(v *View) {
		if tps > 0 {
			v.tps = tps
		}
	}
}

// New creates a view. screen must not be initialized yet; Run owns its
// lifetime.
func New(screen tcell.Screen, field *backdrop.Field, opts ...Option) *View {
	v := &View{
		screen: screen,
		field:  field,
		log:    zap.NewNop(),
		tps:    30,
		resize: make(chan [2]int, 1),
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Run initializes the screen, starts the field, and draws until ctx is done
// or the user presses q, Esc or Ctrl-C. The screen is finalized on return.
func (v *View) Run(ctx context.Context) error {
	if err := v.screen.Init(); err != nil {
		return fmt.Errorf("termview: init screen: %w", err)
	}
	defer v.screen.Fini()
	v.screen.EnableMouse(tcell.MouseMotionEvents)
	v.screen.EnableFocus()
	v.screen.HideCursor()

	cols, rows := v.screen.Size()
	v.painter = NewPainter(cols, rows)
	w, h := v.painter.PixelSize()
	v.field.Start(float64(w), float64(h))
	v.log.Debug("terminal view started", zap.Int("cols", cols), zap.Int("rows", rows))

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return v.pump(gctx) })
	g.Go(func() error { return v.loop(gctx) })
	g.Go(func() error {
		<-gctx.Done()
		// Wake the pump so it can observe cancellation.
		_ = v.screen.PostEvent(tcell.NewEventInterrupt(nil))
		return nil
	})

	err := g.Wait()
	if errors.Is(err, errQuit) {
		return nil
	}
	return err
}

// pump translates terminal events. It runs on its own goroutine; the only
// state it touches on the field is the mutex-guarded pointer tracker.
func (v *View) pump(ctx context.Context) error {
	for {
		ev := v.screen.PollEvent()
		if ctx.Err() != nil || ev == nil {
			return nil
		}
		switch ev := ev.(type) {
		case *tcell.EventKey:
			if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC ||
				(ev.Key() == tcell.KeyRune && ev.Rune() == 'q') {
				return errQuit
			}
		case *tcell.EventMouse:
			x, y := ev.Position()
			// Center of the cell in pixel space.
			v.field.Pointer().Move(float64(x)+0.5, float64(y)*2+1)
		case *tcell.EventFocus:
			if !ev.Focused {
				v.field.Pointer().Leave()
			}
		case *tcell.EventResize:
			cols, rows := ev.Size()
			select {
			case <-v.resize:
			default:
			}
			v.resize <- [2]int{cols, rows}
		}
	}
}

// loop steps and draws the field once per tick.
func (v *View) loop(ctx context.Context) error {
	ticker := time.NewTicker(time.Second / time.Duration(v.tps))
	defer ticker.Stop()
	dt := 1 / float64(v.tps)
	for {
		select {
		case <-ctx.Done():
			return nil
		case size := <-v.resize:
			v.applyResize(size[0], size[1])
		case <-ticker.C:
			v.frame(dt)
		}
	}
}

func (v *View) applyResize(cols, rows int) {
	v.painter.Resize(cols, rows)
	w, h := v.painter.PixelSize()
	v.field.Resize(float64(w), float64(h))
	v.screen.Sync()
	v.log.Debug("terminal resized", zap.Int("cols", cols), zap.Int("rows", rows))
}

// frame advances the field by dt and presents it.
func (v *View) frame(dt float64) {
	v.field.Update(dt)
	v.painter.SetOpacity(v.field.Visibility())
	v.field.Draw(v.painter)
	v.painter.Flush(v.screen)
	v.screen.Show()
}
