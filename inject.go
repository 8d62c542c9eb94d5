package backdrop

type syntheticKind uint8

const (
	syntheticMove syntheticKind = iota
	syntheticLeave
	syntheticResize
)

// syntheticEvent is a single injected surface event.
type syntheticEvent struct {
	kind          syntheticKind
	x, y          float64
	width, height int
}

// InjectMove queues a pointer move to (x, y). The event is consumed on the
// next frame's processInput call, replacing the real cursor for that frame.
func (s *Surface) InjectMove(x, y float64) {
	s.injectQueue = append(s.injectQueue, syntheticEvent{kind: syntheticMove, x: x, y: y})
}

// InjectLeave queues a pointer leave.
func (s *Surface) InjectLeave() {
	s.injectQueue = append(s.injectQueue, syntheticEvent{kind: syntheticLeave})
}

// InjectResize queues a surface resize.
func (s *Surface) InjectResize(width, height int) {
	s.injectQueue = append(s.injectQueue, syntheticEvent{kind: syntheticResize, width: width, height: height})
}

// InjectSweep queues pointer moves from (fromX, fromY) to (toX, toY),
// linearly interpolated over frames frames. Minimum frames is 2.
func (s *Surface) InjectSweep(fromX, fromY, toX, toY float64, frames int) {
	if frames < 2 {
		frames = 2
	}
	for i := 0; i < frames; i++ {
		t := float64(i) / float64(frames-1)
		s.InjectMove(fromX+(toX-fromX)*t, fromY+(toY-fromY)*t)
	}
}

// PendingInjections returns the number of queued synthetic events.
func (s *Surface) PendingInjections() int {
	return len(s.injectQueue)
}

// processInjectedInput pops one event from the inject queue and feeds it
// through the same path as real input. Returns true if an event was consumed
// (real cursor input should be skipped).
func (s *Surface) processInjectedInput() bool {
	if len(s.injectQueue) == 0 {
		return false
	}
	evt := s.injectQueue[0]
	copy(s.injectQueue, s.injectQueue[1:])
	s.injectQueue = s.injectQueue[:len(s.injectQueue)-1]

	switch evt.kind {
	case syntheticMove:
		s.processPointer(evt.x, evt.y)
	case syntheticLeave:
		s.processPointer(-1, -1)
	case syntheticResize:
		s.Resize(evt.width, evt.height)
	}
	return true
}
