//go:build cgo

package hal

import (
	"errors"
	"image"

	"digitpad/internal/buildinfo"

	"github.com/hajimehoshi/ebiten/v2"
)

// WindowConfig controls the desktop window runner.
type WindowConfig struct {
	Width  int
	Height int
	Scale  int
	Title  string
}

// RunWindow starts a desktop window that displays the framebuffer and forwards pointer and keyboard input.
// It blocks until the window closes or the app step returns ErrQuit.
func RunWindow(cfg WindowConfig, newApp func(HAL) func() error) error {
	h := newHost(cfg.Width, cfg.Height)
	step := newApp(h)

	if cfg.Scale <= 0 {
		cfg.Scale = 1
	}
	title := cfg.Title
	if title == "" {
		title = "digitpad"
	}

	g := &hostGame{h: h, step: step}
	ebiten.SetWindowTitle(title + " (" + buildinfo.Short() + ")")
	ebiten.SetWindowSize(h.fb.width*cfg.Scale, h.fb.height*cfg.Scale)
	ebiten.SetWindowClosingHandled(true)
	ebiten.SetTPS(60)
	err := ebiten.RunGame(g)
	if errors.Is(err, ebiten.Termination) {
		return nil
	}
	return err
}

type hostGame struct {
	h     *hostHAL
	img   *image.RGBA
	fbImg *ebiten.Image
	front []byte
	step  func() error
}

func (g *hostGame) Update() error {
	if ebiten.IsWindowBeingClosed() {
		g.h.win.requestClose()
	}
	g.h.kbd.poll()
	g.h.ptr.poll()
	if g.step != nil {
		if err := g.step(); err != nil {
			if errors.Is(err, ErrQuit) {
				return ebiten.Termination
			}
			return err
		}
	}
	return nil
}

func (g *hostGame) Draw(screen *ebiten.Image) {
	fb := g.h.fb
	if g.img == nil || g.img.Bounds().Dx() != fb.width || g.img.Bounds().Dy() != fb.height {
		g.img = image.NewRGBA(image.Rect(0, 0, fb.width, fb.height))
		g.front = make([]byte, len(fb.buf))
		if g.fbImg != nil {
			g.fbImg.Deallocate()
		}
		g.fbImg = ebiten.NewImage(fb.width, fb.height)
	}

	fb.snapshotRGB565(g.front)
	expandRGB565(g.img.Pix, g.front, fb.width, fb.height, fb.stride)

	g.fbImg.WritePixels(g.img.Pix)
	screen.DrawImage(g.fbImg, nil)
}

func (g *hostGame) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.h.fb.width, g.h.fb.height
}
