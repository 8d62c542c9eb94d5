package backdrop

import "sync"

// Pointer is a snapshot of the input bridge: the last known pointer position
// and whether the pointer is currently over the surface.
type Pointer struct {
	X, Y   float64
	Active bool
}

// PointerTracker records pointer events for one simulation. Writers may run on
// an event goroutine; the frame loop reads one Snapshot per frame.
type PointerTracker struct {
	mu    sync.Mutex
	state Pointer
}

// Move records a pointer position and marks the pointer active.
func (t *PointerTracker) Move(x, y float64) {
	if !finite(x) || !finite(y) {
		return
	}
	t.mu.Lock()
	t.state = Pointer{X: x, Y: y, Active: true}
	t.mu.Unlock()
}

// Leave marks the pointer inactive. The last position is kept.
func (t *PointerTracker) Leave() {
	t.mu.Lock()
	t.state.Active = false
	t.mu.Unlock()
}

// Snapshot returns the current pointer state.
func (t *PointerTracker) Snapshot() Pointer {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}
