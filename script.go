package backdrop

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrBadScript is wrapped by every LoadScript error.
var ErrBadScript = errors.New("backdrop: bad script")

type scriptOp uint8

const (
	opMove scriptOp = iota
	opLeave
	opSweep
	opResize
	opWait
	opScreenshot
)

// scriptStep is one decoded instruction. Fields an op does not use stay zero.
type scriptStep struct {
	op     scriptOp
	from   [2]float64
	to     [2]float64
	size   [2]int
	frames int
	label  string
}

// UnmarshalJSON decodes a step object holding exactly one action key:
//
//	{"move": [x, y]}
//	{"leave": true}
//	{"sweep": {"from": [x, y], "to": [x, y], "frames": n}}
//	{"resize": [w, h]}
//	{"wait": n}
//	{"screenshot": "label"}
func (st *scriptStep) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if len(raw) != 1 {
		return fmt.Errorf("step must hold exactly one action, got %d keys", len(raw))
	}
	for action, arg := range raw {
		switch action {
		case "move":
			st.op = opMove
			return json.Unmarshal(arg, &st.to)
		case "leave":
			st.op = opLeave
			return nil
		case "sweep":
			var sw struct {
				From   [2]float64 `json:"from"`
				To     [2]float64 `json:"to"`
				Frames int        `json:"frames"`
			}
			if err := json.Unmarshal(arg, &sw); err != nil {
				return err
			}
			st.op, st.from, st.to, st.frames = opSweep, sw.From, sw.To, sw.Frames
			return nil
		case "resize":
			st.op = opResize
			return json.Unmarshal(arg, &st.size)
		case "wait":
			st.op = opWait
			return json.Unmarshal(arg, &st.frames)
		case "screenshot":
			st.op = opScreenshot
			return json.Unmarshal(arg, &st.label)
		default:
			return fmt.Errorf("unknown action %q", action)
		}
	}
	return nil
}

// apply performs the step on s and returns how many extra frames to hold
// before the next step.
func (st *scriptStep) apply(s *Surface) (hold int) {
	switch st.op {
	case opMove:
		s.InjectMove(st.to[0], st.to[1])
	case opLeave:
		s.InjectLeave()
	case opSweep:
		s.InjectSweep(st.from[0], st.from[1], st.to[0], st.to[1], st.frames)
	case opResize:
		s.InjectResize(st.size[0], st.size[1])
	case opWait:
		return max(st.frames-1, 0)
	case opScreenshot:
		s.Screenshot(st.label)
	}
	return 0
}

// Script replays pointer, resize and screenshot steps across frames for
// scripted demos and visual checks. While it plays it owns the pointer: the
// real cursor is ignored until Done.
type Script struct {
	steps []scriptStep
	next  int
	hold  int
	done  bool
}

// LoadScript decodes a JSON script of the form {"steps": [...]}.
func LoadScript(data []byte) (*Script, error) {
	var doc struct {
		Steps []scriptStep `json:"steps"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBadScript, err)
	}
	if len(doc.Steps) == 0 {
		return nil, fmt.Errorf("%w: no steps", ErrBadScript)
	}
	return &Script{steps: doc.Steps}, nil
}

// Play attaches sc to the surface. nil stops any script in progress.
func (s *Surface) Play(sc *Script) {
	s.script = sc
}

// Done reports whether every step has run and its injected events have
// been consumed.
func (sc *Script) Done() bool {
	return sc.done
}

// advance runs at the start of each Update. The next step waits until the
// injection queue is drained and any hold has elapsed.
func (sc *Script) advance(s *Surface) {
	switch {
	case sc.done || s.PendingInjections() > 0:
		return
	case sc.hold > 0:
		sc.hold--
		return
	case sc.next == len(sc.steps):
		sc.done = true
		return
	}
	sc.hold = sc.steps[sc.next].apply(s)
	sc.next++
	sc.done = sc.next == len(sc.steps) && sc.hold == 0 && s.PendingInjections() == 0
}
