package hal

import (
	"image"
	"image/color"
)

// RGB565 packs an 8-bit RGB triple into 16bpp.
func RGB565(r, g, b uint8) uint16 { return rgb565(r, g, b) }

// RGB888From565 expands a 16bpp pixel back to 8-bit channels.
func RGB888From565(p uint16) (r, g, b uint8) { return rgb888From565(p) }

func rgb565(r, g, b uint8) uint16 {
	rr := uint16(r>>3) & 0x1F
	gg := uint16(g>>2) & 0x3F
	bb := uint16(b>>3) & 0x1F
	return (rr << 11) | (gg << 5) | bb
}

func rgb888From565(p uint16) (r, g, b uint8) {
	rr := (p >> 11) & 0x1F
	gg := (p >> 5) & 0x3F
	bb := p & 0x1F

	r = uint8((rr * 255) / 31)
	g = uint8((gg * 255) / 63)
	b = uint8((bb * 255) / 31)
	return r, g, b
}

// ToRGBA converts an RGB565 framebuffer into a new RGBA image.
func ToRGBA(fb Framebuffer) *image.RGBA {
	if fb == nil || fb.Format() != PixelFormatRGB565 {
		return nil
	}
	img := image.NewRGBA(image.Rect(0, 0, fb.Width(), fb.Height()))
	expandRGB565(img.Pix, fb.Buffer(), fb.Width(), fb.Height(), fb.StrideBytes())
	return img
}

// At reads one framebuffer pixel. Out of range reads return transparent black.
func At(fb Framebuffer, x, y int) color.RGBA {
	if fb == nil || x < 0 || y < 0 || x >= fb.Width() || y >= fb.Height() {
		return color.RGBA{}
	}
	buf := fb.Buffer()
	off := y*fb.StrideBytes() + x*2
	if off+1 >= len(buf) {
		return color.RGBA{}
	}
	r, g, b := rgb888From565(uint16(buf[off]) | uint16(buf[off+1])<<8)
	return color.RGBA{R: r, G: g, B: b, A: 0xFF}
}

func expandRGB565(dst, src []byte, w, h, stride int) {
	for y := 0; y < h; y++ {
		row := y * stride
		for x := 0; x < w; x++ {
			i := row + x*2
			j := (y*w + x) * 4
			if i+1 >= len(src) || j+3 >= len(dst) {
				return
			}
			r, g, b := rgb888From565(uint16(src[i]) | uint16(src[i+1])<<8)
			dst[j+0] = r
			dst[j+1] = g
			dst[j+2] = b
			dst[j+3] = 0xFF
		}
	}
}
