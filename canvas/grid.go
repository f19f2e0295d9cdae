// Package canvas holds the drawing grid, the brush that inks it, and a bounded
// snapshot history for undo/redo.
package canvas

import (
	"errors"
	"image"
)

const (
	// Rows and Cols are the classifier's input resolution.
	Rows = 28
	Cols = 28

	// Blank is the background intensity. Ink lowers values toward 0.
	Blank = 255
)

var ErrSnapshotSize = errors.New("canvas: snapshot size mismatch")

// Cell is one grid square. X and Y are the screen-space top-left corner.
type Cell struct {
	X, Y  int
	Value uint8
}

// Grid is a fixed rows x cols array of cells stored row-major.
type Grid struct {
	rows, cols int
	size       int
	cells      []Cell
}

// NewGrid builds a blank grid whose cells are size x size pixels, anchored at the origin.
func NewGrid(rows, cols, size int) *Grid {
	if rows <= 0 || cols <= 0 {
		rows, cols = Rows, Cols
	}
	if size <= 0 {
		size = 1
	}
	g := &Grid{rows: rows, cols: cols, size: size, cells: make([]Cell, rows*cols)}
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			g.cells[r*cols+c] = Cell{X: c * size, Y: r * size, Value: Blank}
		}
	}
	return g
}

func (g *Grid) Rows() int     { return g.rows }
func (g *Grid) Cols() int     { return g.cols }
func (g *Grid) CellSize() int { return g.size }
func (g *Grid) Len() int      { return len(g.cells) }

// Bounds is the screen rectangle covered by the grid.
func (g *Grid) Bounds() image.Rectangle {
	return image.Rect(0, 0, g.cols*g.size, g.rows*g.size)
}

// Cell returns the cell at row, col. It panics on out of range indexes like a slice would.
func (g *Grid) Cell(row, col int) Cell {
	return g.cells[row*g.cols+col]
}

// Each calls fn for every cell in row-major order.
func (g *Grid) Each(fn func(row, col int, c Cell)) {
	for i, c := range g.cells {
		fn(i/g.cols, i%g.cols, c)
	}
}

// Reset sets every cell back to Blank.
func (g *Grid) Reset() {
	for i := range g.cells {
		g.cells[i].Value = Blank
	}
}

// IsBlank reports whether no cell carries ink.
func (g *Grid) IsBlank() bool {
	for _, c := range g.cells {
		if c.Value != Blank {
			return false
		}
	}
	return true
}

// Tensor is a dense float32 array with an NHWC shape.
type Tensor struct {
	Shape [4]int
	Data  []float32
}

// At returns the element at batch n, row y, column x, channel c.
func (t Tensor) At(n, y, x, c int) float32 {
	s := t.Shape
	return t.Data[((n*s[1]+y)*s[2]+x)*s[3]+c]
}

// Tensor serializes the grid as [1, rows, cols, 1] with each value divided by 255.
// Polarity is kept: blank cells map to 1 and fully inked cells to 0.
// Data is row-major (y before x), so it is the image itself, not its transpose.
func (g *Grid) Tensor() Tensor {
	data := make([]float32, len(g.cells))
	for i, c := range g.cells {
		data[i] = float32(c.Value) / 255.0
	}
	return Tensor{Shape: [4]int{1, g.rows, g.cols, 1}, Data: data}
}

// Snapshot is a copy of the grid values.
type Snapshot []uint8

// Snapshot copies the current values.
func (g *Grid) Snapshot() Snapshot {
	s := make(Snapshot, len(g.cells))
	for i, c := range g.cells {
		s[i] = c.Value
	}
	return s
}

// Restore writes s back into the grid.
func (g *Grid) Restore(s Snapshot) error {
	if len(s) != len(g.cells) {
		return ErrSnapshotSize
	}
	for i := range g.cells {
		g.cells[i].Value = s[i]
	}
	return nil
}

// Equal reports whether two snapshots hold the same values.
func (s Snapshot) Equal(o Snapshot) bool {
	if len(s) != len(o) {
		return false
	}
	for i := range s {
		if s[i] != o[i] {
			return false
		}
	}
	return true
}
