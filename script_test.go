package backdrop

import (
	"errors"
	"testing"
)

func loadScript(t *testing.T, data string) *Script {
	t.Helper()
	sc, err := LoadScript([]byte(data))
	if err != nil {
		t.Fatalf("LoadScript: %v", err)
	}
	return sc
}

func TestLoadScript(t *testing.T) {
	sc := loadScript(t, `{"steps": [
		{"screenshot": "initial"},
		{"move": [100, 200]},
		{"sweep": {"from": [0, 0], "to": [50, 40], "frames": 5}},
		{"resize": [640, 480]},
		{"wait": 3},
		{"leave": true}
	]}`)

	want := []scriptStep{
		{op: opScreenshot, label: "initial"},
		{op: opMove, to: [2]float64{100, 200}},
		{op: opSweep, to: [2]float64{50, 40}, frames: 5},
		{op: opResize, size: [2]int{640, 480}},
		{op: opWait, frames: 3},
		{op: opLeave},
	}
	if len(sc.steps) != len(want) {
		t.Fatalf("got %d steps, want %d", len(sc.steps), len(want))
	}
	for i := range want {
		if sc.steps[i] != want[i] {
			t.Errorf("step %d = %+v, want %+v", i, sc.steps[i], want[i])
		}
	}
}

func TestLoadScript_Invalid(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"not json", `not json`},
		{"no steps", `{"steps": []}`},
		{"unknown action", `{"steps": [{"click": [1, 2]}]}`},
		{"two actions", `{"steps": [{"move": [1, 2], "wait": 2}]}`},
		{"empty step", `{"steps": [{}]}`},
		{"bad move", `{"steps": [{"move": "here"}]}`},
		{"bad wait", `{"steps": [{"wait": "soon"}]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadScript([]byte(tt.data))
			if !errors.Is(err, ErrBadScript) {
				t.Errorf("err = %v, want ErrBadScript", err)
			}
		})
	}
}

func TestScriptMoveAndLeave(t *testing.T) {
	s := newTestSurface(200, 200)
	f := newTestField(t, nil)
	f.Mount(s)
	sc := loadScript(t, `{"steps": [{"move": [50, 60]}, {"leave": true}]}`)
	s.Play(sc)

	if err := s.Update(); err != nil {
		t.Fatal(err)
	}
	ptr := f.Pointer().Snapshot()
	if !ptr.Active || ptr.X != 50 || ptr.Y != 60 {
		t.Fatalf("after move: pointer = %+v", ptr)
	}
	if err := s.Update(); err != nil {
		t.Fatal(err)
	}
	if f.Pointer().Snapshot().Active {
		t.Error("pointer still active after leave")
	}
	if sc.Done() {
		t.Error("script done before the leave was consumed")
	}
	if err := s.Update(); err != nil {
		t.Fatal(err)
	}
	if !sc.Done() {
		t.Error("script should be done")
	}
}

func TestScriptWaitsForInjectedSweep(t *testing.T) {
	s := newTestSurface(200, 200)
	sc := loadScript(t, `{"steps": [
		{"sweep": {"from": [0, 0], "to": [30, 0], "frames": 3}},
		{"screenshot": "end"}
	]}`)

	sc.advance(s)
	if s.PendingInjections() != 3 {
		t.Fatalf("pending = %d, want 3", s.PendingInjections())
	}
	for i := 0; i < 3; i++ {
		sc.advance(s)
		if len(s.screenshotQueue) != 0 {
			t.Fatalf("screenshot queued with %d injections pending", s.PendingInjections())
		}
		s.processInjectedInput()
	}
	sc.advance(s)
	if len(s.screenshotQueue) != 1 || s.screenshotQueue[0] != "end" {
		t.Errorf("screenshotQueue = %v, want [end]", s.screenshotQueue)
	}
	if !sc.Done() {
		t.Error("script should be done")
	}
}

func TestScriptWait(t *testing.T) {
	tests := []struct {
		frames int
		held   int
	}{
		{3, 3},
		{1, 1},
		{0, 1},
		{-2, 1},
	}
	for _, tt := range tests {
		s := newTestSurface(100, 100)
		sc := &Script{steps: []scriptStep{
			{op: opWait, frames: tt.frames},
			{op: opScreenshot, label: "done"},
		}}
		held := 0
		for len(s.screenshotQueue) == 0 && held < 10 {
			sc.advance(s)
			held++
		}
		// The frame that runs the screenshot is not part of the wait.
		if got := held - 1; got != tt.held {
			t.Errorf("wait %d held %d frames, want %d", tt.frames, got, tt.held)
		}
		if !sc.Done() {
			t.Errorf("wait %d: script should be done", tt.frames)
		}
	}
}

func TestScriptResize(t *testing.T) {
	s := newTestSurface(100, 100)
	var got ResizeContext
	s.OnResize(func(ctx ResizeContext) { got = ctx })
	s.Play(loadScript(t, `{"steps": [{"resize": [320, 240]}]}`))

	s.Update()
	if w, h := s.Size(); w != 320 || h != 240 {
		t.Errorf("Size() = %d x %d, want 320 x 240", w, h)
	}
	if got != (ResizeContext{Width: 320, Height: 240}) {
		t.Errorf("resize callback got %+v", got)
	}
}

func TestScriptOwnsPointerUntilDone(t *testing.T) {
	s := newTestSurface(100, 100)
	s.cursor = func() (int, int) { return 10, 10 }
	moves := 0
	s.OnPointerMove(func(PointerContext) { moves++ })

	sc := loadScript(t, `{"steps": [{"wait": 2}]}`)
	s.Play(sc)
	s.Update()
	s.Update()
	if moves != 0 {
		t.Errorf("real cursor dispatched %d moves while the script played", moves)
	}
	s.Update()
	if !sc.Done() {
		t.Fatal("script should be done")
	}
	if moves != 1 {
		t.Errorf("moves = %d after the script finished, want 1", moves)
	}
}

func TestPlayNilStopsScript(t *testing.T) {
	s := newTestSurface(100, 100)
	s.cursor = func() (int, int) { return 10, 10 }
	moves := 0
	s.OnPointerMove(func(PointerContext) { moves++ })

	s.Play(loadScript(t, `{"steps": [{"wait": 100}]}`))
	s.Update()
	s.Play(nil)
	s.Update()
	if moves != 1 {
		t.Errorf("moves = %d, want 1 once the script is stopped", moves)
	}
}
