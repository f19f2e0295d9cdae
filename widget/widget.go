// Package widget implements the on-screen controls: push buttons, percentage
// readouts and static labels.
package widget

import (
	"fmt"
	"image"
	"image/color"

	"digitpad/fonts"
)

// Surface is the drawing capability controls render through.
type Surface interface {
	FillRect(r image.Rectangle, c color.RGBA)
	DrawText(x, y int, s string, f fonts.Face, c color.RGBA)
}

// Drawer is anything that renders itself onto a Surface.
type Drawer interface {
	Draw(s Surface)
}

var textColor = color.RGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF}

// Button is a filled rectangle with a centered label and a click action.
type Button struct {
	Rect   image.Rectangle
	Color  color.RGBA
	Label  string
	Face   fonts.Face
	Action func()
}

// NewButton returns a button at x, y of size w x h.
func NewButton(x, y, w, h int, c color.RGBA, label string, face fonts.Face, action func()) *Button {
	return &Button{
		Rect:   image.Rect(x, y, x+w, y+h),
		Color:  c,
		Label:  label,
		Face:   face,
		Action: action,
	}
}

// HitTest reports whether p lies strictly inside the button; points on an edge miss.
func (b *Button) HitTest(p image.Point) bool {
	r := b.Rect
	return r.Min.X < p.X && p.X < r.Max.X && r.Min.Y < p.Y && p.Y < r.Max.Y
}

// Click runs the action if p hits the button and reports whether it did.
func (b *Button) Click(p image.Point) bool {
	if !b.HitTest(p) {
		return false
	}
	if b.Action != nil {
		b.Action()
	}
	return true
}

func (b *Button) Draw(s Surface) {
	s.FillRect(b.Rect, b.Color)
	drawCentered(s, b.Rect, b.Label, b.Face)
}

// PercentageDisplay shows "<prefix><value>%" with two decimals.
// The value is expected to be in [0, 100] but is not clamped.
type PercentageDisplay struct {
	Rect   image.Rectangle
	Color  color.RGBA
	Prefix string
	Face   fonts.Face

	value float64
}

func NewPercentageDisplay(x, y, w, h int, c color.RGBA, prefix string, face fonts.Face) *PercentageDisplay {
	return &PercentageDisplay{
		Rect:   image.Rect(x, y, x+w, y+h),
		Color:  c,
		Prefix: prefix,
		Face:   face,
	}
}

func (d *PercentageDisplay) SetValue(v float64) { d.value = v }
func (d *PercentageDisplay) Value() float64     { return d.value }

// Text is the label as rendered.
func (d *PercentageDisplay) Text() string {
	return fmt.Sprintf("%s%.2f%%", d.Prefix, d.value)
}

func (d *PercentageDisplay) Draw(s Surface) {
	s.FillRect(d.Rect, d.Color)
	drawCentered(s, d.Rect, d.Text(), d.Face)
}

// Label is static text anchored at its top-left corner.
type Label struct {
	Pos   image.Point
	Text  string
	Face  fonts.Face
	Color color.RGBA
}

func (l *Label) Draw(s Surface) {
	s.DrawText(l.Pos.X, l.Pos.Y, l.Text, l.Face, l.Color)
}

func drawCentered(s Surface, r image.Rectangle, text string, face fonts.Face) {
	w, h := face.Measure(text)
	x := r.Min.X + r.Dx()/2 - w/2
	y := r.Min.Y + r.Dy()/2 - h/2
	s.DrawText(x, y, text, face, textColor)
}
