package backdrop

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"go.uber.org/zap"
)

// ErrSurfaceClosed is returned when attaching a field to a closed surface.
var ErrSurfaceClosed = errors.New("backdrop: surface closed")

// Overlay draws on top of every field, e.g. a stats HUD.
type Overlay interface {
	Update(s *Surface, dt float64)
	Draw(screen *ebiten.Image)
}

// Surface is the drawable area fields mount onto. It implements ebiten.Game:
// it polls the pointer, dispatches move, leave and resize callbacks, steps
// every mounted field once per tick and composites them in mount order.
type Surface struct {
	width, height int
	log           *zap.Logger
	tps           int
	debug         bool
	stats         frameStats
	closed        bool
	ctx           context.Context

	// ClearColor fills the screen before fields are drawn. Zero alpha skips the fill.
	ClearColor Color
	// ScreenshotDir is where queued screenshots are written.
	ScreenshotDir string

	fields   []*Field
	fieldBuf []*Field
	painter  *EbitenPainter
	overlay  Overlay

	handlers      handlerRegistry
	cursor        func() (int, int)
	pointerInside bool
	lastX, lastY  float64
	pointerBuf    []pointerHandler
	resizeBuf     []resizeHandler

	postMu sync.Mutex
	posted []func()

	injectQueue     []syntheticEvent
	script          *Script
	screenshotQueue []string
}

// NewSurface creates a surface of the given size. Field and surface options
// share one type; WithLogger and WithTPS apply here.
func NewSurface(width, height int, opts ...Option) *Surface {
	o := buildOptions(opts)
	return &Surface{
		width:         max(width, 0),
		height:        max(height, 0),
		log:           o.logger,
		tps:           o.tps,
		ScreenshotDir: "screenshots",
		cursor:        ebiten.CursorPosition,
	}
}

// Size returns the surface size in pixels.
func (s *Surface) Size() (int, int) {
	return s.width, s.height
}

// Fields returns the mounted fields in draw order. The returned slice MUST NOT be mutated.
func (s *Surface) Fields() []*Field {
	return s.fields
}

// SetOverlay installs an overlay drawn after every field. nil removes it.
func (s *Surface) SetOverlay(o Overlay) {
	s.overlay = o
}

// SetDebugMode enables per-frame timing logs at debug level.
func (s *Surface) SetDebugMode(enabled bool) {
	s.debug = enabled
}

// Bind makes the surface stop when ctx is done: the next Update unmounts
// every field and returns ebiten.Termination.
func (s *Surface) Bind(ctx context.Context) {
	s.ctx = ctx
}

// Closed reports whether the surface has been closed.
func (s *Surface) Closed() bool {
	return s.closed
}

// Close unmounts every field and rejects further mounts.
func (s *Surface) Close() {
	if s.closed {
		return
	}
	s.closed = true
	for _, f := range slices.Clone(s.fields) {
		f.Unmount()
	}
	s.log.Debug("surface closed")
}

func (s *Surface) attach(f *Field) error {
	if s.closed {
		return ErrSurfaceClosed
	}
	if slices.Contains(s.fields, f) {
		return fmt.Errorf("field %s already attached", f.id)
	}
	s.fields = append(s.fields, f)
	return nil
}

func (s *Surface) detach(f *Field) {
	if i := slices.Index(s.fields, f); i >= 0 {
		s.fields = slices.Delete(s.fields, i, i+1)
	}
}

// Post schedules fn to run at the start of the next Update, on the frame
// loop's goroutine. It is safe to call from any goroutine and is the way to
// mount or unmount fields from outside the loop.
func (s *Surface) Post(fn func()) {
	s.postMu.Lock()
	s.posted = append(s.posted, fn)
	s.postMu.Unlock()
}

func (s *Surface) runPosted() {
	s.postMu.Lock()
	fns := s.posted
	s.posted = nil
	s.postMu.Unlock()
	for _, fn := range fns {
		fn()
	}
}

// Resize changes the surface size and notifies resize callbacks.
func (s *Surface) Resize(width, height int) {
	width, height = max(width, 0), max(height, 0)
	if width == s.width && height == s.height {
		return
	}
	s.width, s.height = width, height
	s.fireResize(ResizeContext{Width: width, Height: height})
}

// Update implements ebiten.Game.
func (s *Surface) Update() error {
	if s.ctx != nil && s.ctx.Err() != nil {
		s.Close()
		return ebiten.Termination
	}
	if s.closed {
		return ebiten.Termination
	}
	s.runPosted()
	if s.script != nil {
		s.script.advance(s)
	}
	s.processInput()

	dt := 1.0 / float64(s.tps)
	var t0 time.Time
	if s.debug {
		t0 = time.Now()
	}
	s.fieldBuf = append(s.fieldBuf[:0], s.fields...)
	for _, f := range s.fieldBuf {
		s.guard(f, "update", func() { f.Update(dt) })
	}
	if s.overlay != nil {
		s.overlay.Update(s, dt)
	}
	if s.debug {
		s.stats.updateTime = time.Since(t0)
	}
	return nil
}

// Draw implements ebiten.Game.
func (s *Surface) Draw(screen *ebiten.Image) {
	if s.ClearColor.A > 0 {
		screen.Fill(s.ClearColor.toRGBA())
	}
	if s.painter == nil {
		s.painter = NewEbitenPainter(nil)
	}

	var t0 time.Time
	if s.debug {
		t0 = time.Now()
	}
	s.fieldBuf = append(s.fieldBuf[:0], s.fields...)
	for _, f := range s.fieldBuf {
		s.guard(f, "draw", func() { f.drawOnto(screen, s.painter) })
	}
	if s.overlay != nil {
		s.overlay.Draw(screen)
	}
	if s.debug {
		s.stats.drawTime = time.Since(t0)
		s.debugLog()
	}
	s.flushScreenshots(screen)
}

// Layout implements ebiten.Game. The surface follows the window size.
func (s *Surface) Layout(outsideWidth, outsideHeight int) (int, int) {
	s.Resize(outsideWidth, outsideHeight)
	return s.width, s.height
}

// guard runs fn and contains any panic: the field is logged and unmounted so
// the rest of the surface keeps running.
func (s *Surface) guard(f *Field, phase string, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			f.log.Error("field panicked; unmounting",
				zap.String("phase", phase),
				zap.Any("panic", r))
			f.Unmount()
		}
	}()
	fn()
}

// RunConfig holds window settings for Run.
type RunConfig struct {
	Title  string
	Width  int
	Height int
	// Resizable lets the user resize the window; fields follow via resize callbacks.
	Resizable bool
}

// Run opens a window and runs the surface's frame loop until the window is
// closed or ctx is done. Every field is unmounted before Run returns.
func Run(ctx context.Context, s *Surface, cfg RunConfig) error {
	if cfg.Width > 0 && cfg.Height > 0 {
		ebiten.SetWindowSize(cfg.Width, cfg.Height)
	}
	if cfg.Title != "" {
		ebiten.SetWindowTitle(cfg.Title)
	}
	if cfg.Resizable {
		ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	}
	ebiten.SetTPS(s.tps)
	s.Bind(ctx)
	defer s.Close()
	if err := ebiten.RunGame(s); err != nil {
		return fmt.Errorf("run surface: %w", err)
	}
	return nil
}
