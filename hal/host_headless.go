package hal

import (
	"context"
	"errors"
	"fmt"
	"image/png"
	"os"
	"time"
)

// HeadlessConfig controls the no-window host runner.
type HeadlessConfig struct {
	Enabled bool
	Hz      int
	Ticks   uint64
	Width   int
	Height  int

	// Script is replayed against the pointer/keyboard/window devices, keyed by tick.
	Script []ScriptStep

	// ScreenshotPath, when set, receives the last presented frame as PNG on exit.
	ScreenshotPath string
}

// RunHeadless runs the app without opening a window.
func RunHeadless(ctx context.Context, newApp func(HAL) func() error, cfg HeadlessConfig) error {
	if cfg.Hz <= 0 {
		cfg.Hz = 60
	}

	h := newHost(cfg.Width, cfg.Height)
	step := newApp(h)

	d := time.Second / time.Duration(cfg.Hz)
	if d <= 0 {
		return fmt.Errorf("invalid headless hz: %d", cfg.Hz)
	}
	t := time.NewTicker(d)
	defer t.Stop()

	err := runTicks(ctx, h, step, cfg, t.C)
	if cfg.ScreenshotPath != "" {
		if serr := writeScreenshot(h.fb, cfg.ScreenshotPath); serr != nil && err == nil {
			err = serr
		}
	}
	return err
}

func runTicks(ctx context.Context, h *hostHAL, step func() error, cfg HeadlessConfig, tick <-chan time.Time) error {
	sc := newScriptPlayer(cfg.Script)
	done := ctx.Done()
	closing := false

	var n uint64
	for {
		select {
		case <-done:
			// Give the app one step to observe the close request.
			h.win.requestClose()
			done = nil
			closing = true
		case <-tick:
		}

		sc.play(n, h)
		if step != nil {
			if err := step(); err != nil {
				if errors.Is(err, ErrQuit) {
					return nil
				}
				return err
			}
		}
		if closing {
			return ctx.Err()
		}
		n++
		if cfg.Ticks > 0 && n >= cfg.Ticks {
			return nil
		}
	}
}

func writeScreenshot(fb *hostFramebuffer, path string) error {
	img := ToRGBA(frontBuffer{fb})
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("screenshot: %w", err)
	}
	if err := png.Encode(f, img); err != nil {
		_ = f.Close()
		return fmt.Errorf("screenshot encode: %w", err)
	}
	return f.Close()
}

// frontBuffer exposes the last presented frame as a Framebuffer.
type frontBuffer struct {
	*hostFramebuffer
}

func (f frontBuffer) Buffer() []byte {
	dst := make([]byte, len(f.front))
	f.snapshotRGB565(dst)
	return dst
}
