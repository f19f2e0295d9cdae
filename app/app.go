package app

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"time"

	"digitpad/canvas"
	"digitpad/fonts"
	"digitpad/gfx"
	"digitpad/hal"
	"digitpad/infer"
	"digitpad/widget"
)

// Mode selects when the classifier runs.
type Mode uint8

const (
	// ModeLive re-runs inference after every stroke event that changes the grid.
	ModeLive Mode = iota
	// ModeOnDemand runs inference only from the Guess button or the g key.
	ModeOnDemand
)

func (m Mode) String() string {
	switch m {
	case ModeLive:
		return "live"
	case ModeOnDemand:
		return "on-demand"
	default:
		return "unknown"
	}
}

// ParseMode accepts the names returned by Mode.String.
func ParseMode(s string) (Mode, error) {
	switch s {
	case "live":
		return ModeLive, nil
	case "on-demand":
		return ModeOnDemand, nil
	}
	return 0, fmt.Errorf("unknown mode %q", s)
}

// State is the app lifecycle state.
type State uint8

const (
	StateRunning State = iota
	StateStopped
)

type Config struct {
	Mode         Mode
	HistoryDepth int
	// InferTimeout bounds each classifier call; 0 means no deadline.
	InferTimeout time.Duration
}

// App is the single-threaded event loop tying input, the grid and the classifier together.
type App struct {
	cfg   Config
	log   hal.Logger
	surf  *gfx.Surface
	state State

	keys   <-chan hal.KeyEvent
	ptr    <-chan hal.PointerEvent
	closes <-chan struct{}

	lay      layout
	fnt      fonts.Set
	grid     *canvas.Grid
	brush    *canvas.Brush
	hist     *canvas.History
	adapter  *infer.Adapter
	stroking bool

	buttons  []*widget.Button
	displays []*widget.PercentageDisplay
	controls []widget.Drawer
}

// New wires an App to h. fnt is shared by every control.
func New(h hal.HAL, clf infer.Classifier, fnt fonts.Set, cfg Config) *App {
	a := &App{
		cfg:     cfg,
		fnt:     fnt,
		log:     h.Logger(),
		adapter: infer.NewAdapter(clf),
		hist:    canvas.NewHistory(cfg.HistoryDepth),
	}

	width, height := hal.DefaultWidth, hal.DefaultHeight
	if d := h.Display(); d != nil {
		if fb := d.Framebuffer(); fb != nil {
			a.surf = gfx.New(fb)
			width, height = fb.Width(), fb.Height()
		}
	}
	if in := h.Input(); in != nil {
		if k := in.Keyboard(); k != nil {
			a.keys = k.Events()
		}
		if p := in.Pointer(); p != nil {
			a.ptr = p.Events()
		}
	}
	if w := h.Window(); w != nil {
		a.closes = w.CloseRequests()
	}

	a.lay = newLayout(width, height)
	a.grid = canvas.NewGrid(canvas.Rows, canvas.Cols, a.lay.cell)
	a.brush = canvas.NewBrush(a.grid)
	a.buildControls(fnt)

	a.logf("app: mode=%s history=%d cell=%dpx", cfg.Mode, a.hist.Depth(), a.lay.cell)
	return a
}

func (a *App) buildControls(fnt fonts.Set) {
	x, y, w, h := a.lay.buttonRect(0)
	a.buttons = append(a.buttons, widget.NewButton(x, y, w, h, colorClear, "Clear", fnt.Control, a.Clear))
	if a.cfg.Mode == ModeOnDemand {
		x, y, w, h = a.lay.buttonRect(1)
		a.buttons = append(a.buttons, widget.NewButton(x, y, w, h, colorGuess, "Guess", fnt.Control, a.Guess))
	}

	for i := 0; i < infer.Classes; i++ {
		x, y, w, h := a.lay.displayRect(i)
		a.displays = append(a.displays, widget.NewPercentageDisplay(x, y, w, h, colorDisplay, fmt.Sprintf("%d: ", i), fnt.Control))
	}

	for _, b := range a.buttons {
		a.controls = append(a.controls, b)
	}
	for _, d := range a.displays {
		a.controls = append(a.controls, d)
	}
	a.controls = append(a.controls,
		&widget.Label{Pos: a.lay.labelPos(0), Text: "Left click to draw.", Face: fnt.Body, Color: colorText},
		&widget.Label{Pos: a.lay.labelPos(1), Text: "Right click to erase.", Face: fnt.Body, Color: colorText},
	)
}

func (a *App) State() State              { return a.state }
func (a *App) Grid() *canvas.Grid        { return a.grid }
func (a *App) Buttons() []*widget.Button { return a.buttons }

// Confidences returns the values currently shown by the readouts.
func (a *App) Confidences() infer.Confidences {
	var c infer.Confidences
	for i, d := range a.displays {
		c[i] = d.Value()
	}
	return c
}

// Step drains pending input, then renders one frame.
// Each frame handles a close request first, then every queued pointer event,
// then queued keys, so a shortcut pressed during a stroke sees the whole stroke.
// It returns hal.ErrQuit once the app has stopped.
// A panic while handling input stops the app and leaves a crash screen up.
func (a *App) Step() (err error) {
	defer a.recoverPanic(&err)
	if a.state == StateStopped {
		return hal.ErrQuit
	}

	for a.state == StateRunning {
		select {
		case <-a.closes:
			a.Stop()
			continue
		default:
		}
		select {
		case ev := <-a.ptr:
			a.handlePointer(ev)
			continue
		default:
		}
		select {
		case ev := <-a.keys:
			a.handleKey(ev)
			continue
		default:
		}
		return a.render()
	}
	return hal.ErrQuit
}

// Stop moves the app to its terminal state.
func (a *App) Stop() {
	if a.state == StateStopped {
		return
	}
	a.state = StateStopped
	a.logf("app: stopped")
}

func (a *App) handlePointer(ev hal.PointerEvent) {
	p := image.Pt(ev.X, ev.Y)
	switch ev.Kind {
	case hal.PointerPress:
		switch ev.Button {
		case hal.PointerPrimary:
			if a.click(p) {
				return
			}
			a.stroke(p, a.brush.Ink)
		case hal.PointerSecondary:
			a.stroke(p, a.brush.Erase)
		}

	case hal.PointerMove:
		switch {
		case ev.Held.Has(hal.PointerPrimary):
			a.stroke(p, a.brush.Ink)
		case ev.Held.Has(hal.PointerSecondary):
			a.stroke(p, a.brush.Erase)
		}

	case hal.PointerRelease:
		if !ev.Held.Has(hal.PointerPrimary) && !ev.Held.Has(hal.PointerSecondary) {
			a.stroking = false
		}
	}
}

// click dispatches p to the first control it hits.
func (a *App) click(p image.Point) bool {
	for _, b := range a.buttons {
		if b.Click(p) {
			return true
		}
	}
	return false
}

// stroke applies one brush dab. The first dab that changes the grid records an undo point.
func (a *App) stroke(p image.Point, dab func(image.Point) bool) {
	var before canvas.Snapshot
	if !a.stroking {
		before = a.grid.Snapshot()
	}
	if !dab(p) {
		return
	}
	if !a.stroking {
		a.stroking = true
		a.hist.Push(before)
	}
	if a.cfg.Mode == ModeLive {
		a.Guess()
	}
}

func (a *App) handleKey(ev hal.KeyEvent) {
	if !ev.Press {
		return
	}
	if ev.Code == hal.KeyEscape {
		a.Stop()
		return
	}
	switch ev.Rune {
	case 'c':
		a.Clear()
	case 'g':
		a.Guess()
	case 'u', 0x1A:
		a.Undo()
	case 'r', 0x19:
		a.Redo()
	case 'q':
		a.Stop()
	}
}

// Clear blanks the grid and zeroes every readout.
func (a *App) Clear() {
	if !a.grid.IsBlank() {
		a.hist.Push(a.grid.Snapshot())
	}
	a.grid.Reset()
	a.stroking = false
	a.resetDisplays()
}

// Guess runs the classifier on the current grid and updates the readouts.
// Failures are logged and leave the readouts unchanged.
func (a *App) Guess() {
	ctx := context.Background()
	if a.cfg.InferTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.cfg.InferTimeout)
		defer cancel()
	}

	conf, err := a.adapter.Infer(ctx, a.grid)
	if err != nil {
		a.logf("infer: %v", err)
		return
	}
	for i, d := range a.displays {
		d.SetValue(conf[i])
	}
	if a.cfg.Mode == ModeOnDemand {
		digit, pct := conf.Best()
		a.logf("infer: best=%d (%.2f%%)", digit, pct)
	}
}

func (a *App) Undo() {
	ok, err := a.hist.Undo(a.grid)
	a.afterHistory("undo", ok, err)
}

func (a *App) Redo() {
	ok, err := a.hist.Redo(a.grid)
	a.afterHistory("redo", ok, err)
}

func (a *App) afterHistory(op string, ok bool, err error) {
	if err != nil {
		a.logf("history: %s: %v", op, err)
		return
	}
	if !ok {
		return
	}
	a.stroking = false
	if a.cfg.Mode == ModeLive && !a.grid.IsBlank() {
		a.Guess()
		return
	}
	a.resetDisplays()
}

func (a *App) resetDisplays() {
	for _, d := range a.displays {
		d.SetValue(0)
	}
}

func (a *App) render() error {
	if a.surf == nil {
		return nil
	}
	a.surf.Clear(colorBackground)

	size := a.lay.cell
	a.grid.Each(func(_, _ int, c canvas.Cell) {
		v := c.Value
		a.surf.FillRect(image.Rect(c.X, c.Y, c.X+size, c.Y+size), color.RGBA{R: v, G: v, B: v, A: 0xFF})
	})
	for _, c := range a.controls {
		c.Draw(a.surf)
	}

	if err := a.surf.Present(); err != nil {
		return fmt.Errorf("present: %w", err)
	}
	return nil
}

func (a *App) logf(format string, args ...any) {
	if a.log == nil {
		return
	}
	a.log.WriteLineString(fmt.Sprintf(format, args...))
}
