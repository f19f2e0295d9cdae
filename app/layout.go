package app

import (
	"image"
	"image/color"

	"digitpad/canvas"
)

var (
	colorBackground = color.RGBA{R: 0x00, G: 0xFF, B: 0xFF, A: 0xFF}
	colorText       = color.RGBA{A: 0xFF}
	colorClear      = color.RGBA{B: 0xFF, A: 0xFF}
	colorGuess      = color.RGBA{R: 0x80, B: 0x80, A: 0xFF}
	colorDisplay    = color.RGBA{R: 0x80, B: 0x80, A: 0xFF}
)

const (
	controlHeight = 50
	controlsTop   = 70
	labelInset    = 10
)

// layout places the grid on the left and a control column on the right.
type layout struct {
	cell     int
	grid     image.Rectangle
	column   image.Rectangle
	displayY int
}

func newLayout(width, height int) layout {
	cell := height / canvas.Rows
	if w := width / canvas.Cols; w < cell {
		cell = w
	}
	if cell <= 0 {
		cell = 1
	}
	grid := image.Rect(0, 0, cell*canvas.Cols, cell*canvas.Rows)
	return layout{
		cell:     cell,
		grid:     grid,
		column:   image.Rect(grid.Max.X, 0, width, height),
		displayY: controlsTop + 2*controlHeight,
	}
}

// buttonRect returns the i-th full-width button slot below the hint labels.
func (l layout) buttonRect(i int) (x, y, w, h int) {
	return l.column.Min.X, controlsTop + i*controlHeight, l.column.Dx(), controlHeight
}

// displayRect returns the slot for the readout of digit i.
func (l layout) displayRect(i int) (x, y, w, h int) {
	return l.column.Min.X + labelInset, l.displayY + i*controlHeight, l.column.Dx() - labelInset, controlHeight
}

func (l layout) labelPos(i int) image.Point {
	return image.Pt(l.column.Min.X+labelInset, labelInset+i*30)
}
