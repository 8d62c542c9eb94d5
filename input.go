package backdrop

// PointerContext carries the pointer position for move and leave callbacks.
// For leave events X and Y are the last position seen inside the surface.
type PointerContext struct {
	X, Y float64
}

// ResizeContext carries the new surface size for resize callbacks.
type ResizeContext struct {
	Width, Height int
}

// --- Handler registry ---

type pointerHandler struct {
	id uint32
	fn func(PointerContext)
}

type resizeHandler struct {
	id uint32
	fn func(ResizeContext)
}

type handlerRegistry struct {
	pointerMove  []pointerHandler
	pointerLeave []pointerHandler
	resize       []resizeHandler
	nextID       uint32
}

// count returns the number of registered callbacks.
func (r *handlerRegistry) count() int {
	return len(r.pointerMove) + len(r.pointerLeave) + len(r.resize)
}

// CallbackHandle allows removing a registered surface-level callback.
type CallbackHandle struct {
	id    uint32
	reg   *handlerRegistry
	event EventType
}

// Remove unregisters this callback so it no longer fires. Removing twice is
// a no-op.
func (h CallbackHandle) Remove() {
	if h.reg == nil {
		return
	}
	switch h.event {
	case EventPointerMove:
		h.reg.pointerMove = removePointerHandler(h.reg.pointerMove, h.id)
	case EventPointerLeave:
		h.reg.pointerLeave = removePointerHandler(h.reg.pointerLeave, h.id)
	case EventResize:
		h.reg.resize = removeResizeHandler(h.reg.resize, h.id)
	}
}

func removePointerHandler(s []pointerHandler, id uint32) []pointerHandler {
	for i := range s {
		if s[i].id == id {
			copy(s[i:], s[i+1:])
			s[len(s)-1] = pointerHandler{}
			return s[:len(s)-1]
		}
	}
	return s
}

func removeResizeHandler(s []resizeHandler, id uint32) []resizeHandler {
	for i := range s {
		if s[i].id == id {
			copy(s[i:], s[i+1:])
			s[len(s)-1] = resizeHandler{}
			return s[:len(s)-1]
		}
	}
	return s
}

// --- Surface-level event registration ---

// OnPointerMove registers a callback fired when the pointer moves inside the surface.
func (s *Surface) OnPointerMove(fn func(PointerContext)) CallbackHandle {
	s.handlers.nextID++
	id := s.handlers.nextID
	s.handlers.pointerMove = append(s.handlers.pointerMove, pointerHandler{id: id, fn: fn})
	return CallbackHandle{id: id, reg: &s.handlers, event: EventPointerMove}
}

// OnPointerLeave registers a callback fired when the pointer leaves the surface.
func (s *Surface) OnPointerLeave(fn func(PointerContext)) CallbackHandle {
	s.handlers.nextID++
	id := s.handlers.nextID
	s.handlers.pointerLeave = append(s.handlers.pointerLeave, pointerHandler{id: id, fn: fn})
	return CallbackHandle{id: id, reg: &s.handlers, event: EventPointerLeave}
}

// OnResize registers a callback fired after the surface changes size.
func (s *Surface) OnResize(fn func(ResizeContext)) CallbackHandle {
	s.handlers.nextID++
	id := s.handlers.nextID
	s.handlers.resize = append(s.handlers.resize, resizeHandler{id: id, fn: fn})
	return CallbackHandle{id: id, reg: &s.handlers, event: EventResize}
}

// HandlerCount returns the number of registered callbacks.
func (s *Surface) HandlerCount() int {
	return s.handlers.count()
}

// --- Input processing ---

// processInput is called from Surface.Update. Injected events take priority
// over the real cursor for the frame they are consumed in.
func (s *Surface) processInput() {
	if s.processInjectedInput() {
		return
	}
	// A running script owns the pointer.
	if s.script != nil && !s.script.Done() {
		return
	}
	mx, my := s.cursor()
	s.processPointer(float64(mx), float64(my))
}

// processPointer turns a polled cursor position into move and leave events.
// A position outside the surface bounds is a leave.
func (s *Surface) processPointer(x, y float64) {
	inside := x >= 0 && y >= 0 && x < float64(s.width) && y < float64(s.height)
	switch {
	case inside && (!s.pointerInside || x != s.lastX || y != s.lastY):
		s.lastX, s.lastY = x, y
		s.pointerInside = true
		s.firePointer(s.handlers.pointerMove, PointerContext{X: x, Y: y})
	case !inside && s.pointerInside:
		s.pointerInside = false
		s.firePointer(s.handlers.pointerLeave, PointerContext{X: s.lastX, Y: s.lastY})
	}
}

// firePointer calls every handler in hs. The slice is copied first because
// handlers may unregister themselves.
func (s *Surface) firePointer(hs []pointerHandler, ctx PointerContext) {
	s.pointerBuf = append(s.pointerBuf[:0], hs...)
	for _, h := range s.pointerBuf {
		h.fn(ctx)
	}
}

func (s *Surface) fireResize(ctx ResizeContext) {
	s.resizeBuf = append(s.resizeBuf[:0], s.handlers.resize...)
	for _, h := range s.resizeBuf {
		h.fn(ctx)
	}
}
