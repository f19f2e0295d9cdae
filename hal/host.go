package hal

import (
	"fmt"
	"os"
	"sync"
)

const (
	DefaultWidth  = 900
	DefaultHeight = 700
)

type hostHAL struct {
	logger *hostLogger
	fb     *hostFramebuffer
	kbd    *hostKeyboard
	ptr    *hostPointer
	win    *hostWindow
}

// New returns a host HAL implementation with a width x height framebuffer.
// Non-positive sizes fall back to DefaultWidth x DefaultHeight.
func New(width, height int) HAL {
	return newHost(width, height)
}

func newHost(width, height int) *hostHAL {
	if width <= 0 || height <= 0 {
		width, height = DefaultWidth, DefaultHeight
	}
	return &hostHAL{
		logger: &hostLogger{w: os.Stdout},
		fb:     newHostFramebuffer(width, height),
		kbd:    newHostKeyboard(),
		ptr:    newHostPointer(),
		win:    newHostWindow(),
	}
}

func (h *hostHAL) Logger() Logger   { return h.logger }
func (h *hostHAL) Display() Display { return hostDisplay{fb: h.fb} }
func (h *hostHAL) Input() Input     { return hostInput{kbd: h.kbd, ptr: h.ptr} }
func (h *hostHAL) Window() Window   { return h.win }

type hostDisplay struct {
	fb *hostFramebuffer
}

func (d hostDisplay) Framebuffer() Framebuffer { return d.fb }

type hostInput struct {
	kbd *hostKeyboard
	ptr *hostPointer
}

func (in hostInput) Keyboard() Keyboard { return in.kbd }
func (in hostInput) Pointer() Pointer   { return in.ptr }

type hostWindow struct {
	ch chan struct{}
}

func newHostWindow() *hostWindow {
	return &hostWindow{ch: make(chan struct{}, 1)}
}

func (w *hostWindow) CloseRequests() <-chan struct{} { return w.ch }

func (w *hostWindow) requestClose() {
	select {
	case w.ch <- struct{}{}:
	default:
	}
}

type hostLogger struct {
	mu sync.Mutex
	w  *os.File
}

func (l *hostLogger) WriteLineString(s string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintln(l.w, s)
}

func (l *hostLogger) WriteLineBytes(b []byte) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.w.Write(b)
	l.w.Write([]byte{'\n'})
}
