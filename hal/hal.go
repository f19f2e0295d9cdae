package hal

import "errors"

// Logger writes newline-delimited log lines.
type Logger interface {
	WriteLineString(s string)
	WriteLineBytes(b []byte)
}

// ErrQuit is returned by an app step once the app has stopped.
// Runners treat it as a clean shutdown, not a failure.
var ErrQuit = errors.New("quit")

// PixelFormat defines the framebuffer pixel encoding.
type PixelFormat uint8

const (
	// PixelFormatRGB565 is 16bpp: rrrrrggggggbbbbb.
	PixelFormatRGB565 PixelFormat = iota + 1
)

// Framebuffer is a simple pixel buffer plus a "present" hook.
type Framebuffer interface {
	Width() int
	Height() int
	Format() PixelFormat
	StrideBytes() int
	Buffer() []byte
	ClearRGB(r, g, b uint8)
	Present() error
}

// KeyCode is a minimal key identifier.
type KeyCode uint16

const (
	KeyUnknown KeyCode = iota
	KeyEnter
	KeyEscape
	KeyBackspace
	KeyDelete
)

// KeyEvent is a keyboard event.
type KeyEvent struct {
	Code  KeyCode
	Press bool
	Rune  rune
}

// Keyboard provides key events (best-effort on each platform).
type Keyboard interface {
	Events() <-chan KeyEvent
}

// PointerButton is a bit set of pointer buttons.
type PointerButton uint8

const (
	PointerPrimary PointerButton = 1 << iota
	PointerMiddle
	PointerSecondary
)

// Has reports whether all buttons in b are set.
func (p PointerButton) Has(b PointerButton) bool { return b != 0 && p&b == b }

// PointerKind distinguishes pointer event types.
type PointerKind uint8

const (
	PointerPress PointerKind = iota + 1
	PointerRelease
	PointerMove
)

func (k PointerKind) String() string {
	switch k {
	case PointerPress:
		return "press"
	case PointerRelease:
		return "release"
	case PointerMove:
		return "move"
	default:
		return "unknown"
	}
}

// PointerEvent is a pointer event in framebuffer coordinates.
//
// Button is the button that changed state (press/release only).
// Held is the set of buttons down after the event.
type PointerEvent struct {
	Kind   PointerKind
	X, Y   int
	Button PointerButton
	Held   PointerButton
}

// Pointer provides mouse/touch events.
type Pointer interface {
	Events() <-chan PointerEvent
}

// Display provides access to the framebuffer (if available).
type Display interface {
	Framebuffer() Framebuffer
}

// Input provides access to input devices (if available).
type Input interface {
	Keyboard() Keyboard
	Pointer() Pointer
}

// Window reports window-manager requests.
type Window interface {
	// CloseRequests fires once per close request (window close button, SIGINT in headless mode).
	CloseRequests() <-chan struct{}
}

// HAL provides the only contact point between the app and the outside world.
type HAL interface {
	Logger() Logger
	Display() Display
	Input() Input
	Window() Window
}
