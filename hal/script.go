package hal

import (
	"bufio"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"unicode/utf8"
)

// ScriptStep is one scripted input event for the headless runner.
// Exactly one of Pointer, Key or Close is meaningful.
type ScriptStep struct {
	Tick    uint64
	Pointer *PointerEvent
	Key     *KeyEvent
	Close   bool
}

// ParseScript reads a headless input script.
//
// One event per line, '#' starts a comment:
//
//	<tick> press   <x> <y> <primary|middle|secondary>
//	<tick> release <x> <y> <primary|middle|secondary>
//	<tick> move    <x> <y> [held...]
//	<tick> key     <rune>|enter|esc
//	<tick> close
func ParseScript(r io.Reader) ([]ScriptStep, error) {
	var steps []ScriptStep
	sc := bufio.NewScanner(r)
	line := 0
	for sc.Scan() {
		line++
		s := sc.Text()
		if i := strings.IndexByte(s, '#'); i >= 0 {
			s = s[:i]
		}
		fields := strings.Fields(s)
		if len(fields) == 0 {
			continue
		}
		st, err := parseScriptLine(fields)
		if err != nil {
			return nil, fmt.Errorf("script line %d: %w", line, err)
		}
		steps = append(steps, st)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("script read: %w", err)
	}
	sort.SliceStable(steps, func(i, j int) bool { return steps[i].Tick < steps[j].Tick })
	return steps, nil
}

func parseScriptLine(f []string) (ScriptStep, error) {
	if len(f) < 2 {
		return ScriptStep{}, fmt.Errorf("want <tick> <event>, got %q", strings.Join(f, " "))
	}
	tick, err := strconv.ParseUint(f[0], 10, 64)
	if err != nil {
		return ScriptStep{}, fmt.Errorf("bad tick %q", f[0])
	}
	st := ScriptStep{Tick: tick}

	switch f[1] {
	case "close":
		st.Close = true
		return st, nil

	case "key":
		if len(f) != 3 {
			return ScriptStep{}, fmt.Errorf("key wants one argument")
		}
		switch f[2] {
		case "enter":
			st.Key = &KeyEvent{Code: KeyEnter, Press: true}
		case "esc":
			st.Key = &KeyEvent{Code: KeyEscape, Press: true}
		default:
			r, n := utf8.DecodeRuneInString(f[2])
			if n != len(f[2]) {
				return ScriptStep{}, fmt.Errorf("key %q is not a single rune", f[2])
			}
			st.Key = &KeyEvent{Press: true, Rune: r}
		}
		return st, nil

	case "press", "release", "move":
		if len(f) < 4 {
			return ScriptStep{}, fmt.Errorf("%s wants <x> <y>", f[1])
		}
		x, err := strconv.Atoi(f[2])
		if err != nil {
			return ScriptStep{}, fmt.Errorf("bad x %q", f[2])
		}
		y, err := strconv.Atoi(f[3])
		if err != nil {
			return ScriptStep{}, fmt.Errorf("bad y %q", f[3])
		}
		var buttons PointerButton
		for _, name := range f[4:] {
			b, ok := parseButton(name)
			if !ok {
				return ScriptStep{}, fmt.Errorf("unknown button %q", name)
			}
			buttons |= b
		}
		ev := PointerEvent{X: x, Y: y}
		switch f[1] {
		case "press":
			if len(f) != 5 {
				return ScriptStep{}, fmt.Errorf("press wants exactly one button")
			}
			ev.Kind, ev.Button, ev.Held = PointerPress, buttons, buttons
		case "release":
			if len(f) != 5 {
				return ScriptStep{}, fmt.Errorf("release wants exactly one button")
			}
			ev.Kind, ev.Button = PointerRelease, buttons
		case "move":
			ev.Kind, ev.Held = PointerMove, buttons
		}
		st.Pointer = &ev
		return st, nil
	}
	return ScriptStep{}, fmt.Errorf("unknown event %q", f[1])
}

func parseButton(s string) (PointerButton, bool) {
	switch s {
	case "primary", "left":
		return PointerPrimary, true
	case "middle":
		return PointerMiddle, true
	case "secondary", "right":
		return PointerSecondary, true
	}
	return 0, false
}

type scriptPlayer struct {
	steps []ScriptStep
	next  int
}

func newScriptPlayer(steps []ScriptStep) *scriptPlayer {
	return &scriptPlayer{steps: steps}
}

// play delivers every step scheduled at or before tick.
func (p *scriptPlayer) play(tick uint64, h *hostHAL) {
	for p.next < len(p.steps) && p.steps[p.next].Tick <= tick {
		st := p.steps[p.next]
		p.next++
		switch {
		case st.Close:
			h.win.requestClose()
		case st.Key != nil:
			h.kbd.inject(*st.Key)
		case st.Pointer != nil:
			h.ptr.inject(*st.Pointer)
		}
	}
}
