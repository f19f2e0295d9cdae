package hal

type hostPointer struct {
	ch chan PointerEvent
	tr pointerTracker
}

func newHostPointer() *hostPointer {
	return &hostPointer{ch: make(chan PointerEvent, 256)}
}

func (p *hostPointer) Events() <-chan PointerEvent { return p.ch }

func (p *hostPointer) inject(ev PointerEvent) {
	select {
	case p.ch <- ev:
	default:
	}
}

// pointerTracker turns polled pointer state into edge events.
type pointerTracker struct {
	init bool
	x, y int
	held PointerButton
}

var pointerButtons = [...]PointerButton{PointerPrimary, PointerMiddle, PointerSecondary}

// sample records the current state and calls emit for every change since the last sample.
// The move comes first with the previously held buttons, so presses and releases
// are reported at the current position.
func (t *pointerTracker) sample(x, y int, held PointerButton, emit func(PointerEvent)) {
	if !t.init {
		t.init = true
		t.x, t.y = x, y
	}

	prev := t.held
	if x != t.x || y != t.y {
		t.x, t.y = x, y
		emit(PointerEvent{Kind: PointerMove, X: x, Y: y, Held: prev})
	}

	acc := prev
	for _, b := range pointerButtons {
		if held&b != 0 && prev&b == 0 {
			acc |= b
			emit(PointerEvent{Kind: PointerPress, X: x, Y: y, Button: b, Held: acc})
		}
	}
	for _, b := range pointerButtons {
		if held&b == 0 && prev&b != 0 {
			acc &^= b
			emit(PointerEvent{Kind: PointerRelease, X: x, Y: y, Button: b, Held: acc})
		}
	}
	t.held = held
}
