// Package gfx draws rectangles and text into an RGB565 framebuffer.
package gfx

import (
	"image"
	"image/color"

	"digitpad/fonts"
	"digitpad/hal"

	"tinygo.org/x/drivers"
	"tinygo.org/x/tinyfont"
)

var _ drivers.Displayer = (*Surface)(nil)

// Surface draws into a hal.Framebuffer. It also implements drivers.Displayer
// so tinyfont can blit glyphs through SetPixel.
type Surface struct {
	fb hal.Framebuffer
}

// New returns a surface over fb, or nil if fb is not RGB565.
func New(fb hal.Framebuffer) *Surface {
	if fb == nil || fb.Format() != hal.PixelFormatRGB565 {
		return nil
	}
	return &Surface{fb: fb}
}

func (s *Surface) Bounds() image.Rectangle {
	return image.Rect(0, 0, s.fb.Width(), s.fb.Height())
}

// Clear fills the whole framebuffer.
func (s *Surface) Clear(c color.RGBA) {
	s.fb.ClearRGB(c.R, c.G, c.B)
}

// Present hands the frame to the display.
func (s *Surface) Present() error {
	return s.fb.Present()
}

// FillRect fills r clipped to the framebuffer.
func (s *Surface) FillRect(r image.Rectangle, c color.RGBA) {
	r = r.Intersect(s.Bounds())
	if r.Empty() {
		return
	}
	buf := s.fb.Buffer()
	if buf == nil {
		return
	}

	pixel := hal.RGB565(c.R, c.G, c.B)
	lo := byte(pixel)
	hi := byte(pixel >> 8)
	stride := s.fb.StrideBytes()
	for py := r.Min.Y; py < r.Max.Y; py++ {
		row := py * stride
		for px := r.Min.X; px < r.Max.X; px++ {
			off := row + px*2
			if off+1 >= len(buf) {
				continue
			}
			buf[off] = lo
			buf[off+1] = hi
		}
	}
}

// DrawText draws s with its top-left corner at x, y.
func (s *Surface) DrawText(x, y int, str string, f fonts.Face, c color.RGBA) {
	if f.Font == nil || str == "" {
		return
	}
	tinyfont.WriteLine(s, f.Font, int16(x), int16(y+f.Ascent), str, c)
}

func (s *Surface) Size() (x, y int16) {
	return int16(s.fb.Width()), int16(s.fb.Height())
}

func (s *Surface) SetPixel(x, y int16, c color.RGBA) {
	buf := s.fb.Buffer()
	if buf == nil {
		return
	}

	ix := int(x)
	iy := int(y)
	if ix < 0 || ix >= s.fb.Width() || iy < 0 || iy >= s.fb.Height() {
		return
	}

	pixel := hal.RGB565(c.R, c.G, c.B)
	off := iy*s.fb.StrideBytes() + ix*2
	if off < 0 || off+1 >= len(buf) {
		return
	}
	buf[off] = byte(pixel)
	buf[off+1] = byte(pixel >> 8)
}

// Display is a no-op; frames are published by Present.
func (s *Surface) Display() error { return nil }
