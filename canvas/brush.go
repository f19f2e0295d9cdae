package canvas

import (
	"image"
	"math"
)

// Brush applies radial intensity changes to a grid.
//
// The radius is one cell width, so a stroke always touches the cell under the
// pointer and fades out over its neighbours.
type Brush struct {
	g      *Grid
	radius float64
}

// NewBrush returns a brush sized to g's cells.
func NewBrush(g *Grid) *Brush {
	return &Brush{g: g, radius: float64(g.CellSize())}
}

func (b *Brush) Radius() float64 { return b.radius }

// Ink darkens cells near p. It reports whether any cell changed.
func (b *Brush) Ink(p image.Point) bool {
	return b.apply(p, -1)
}

// Erase lightens cells near p. It reports whether any cell changed.
func (b *Brush) Erase(p image.Point) bool {
	return b.apply(p, +1)
}

// Strength is the intensity change at distance d: 255 at the anchor, falling
// linearly to 0 at the radius. Outside the radius it is 0.
func (b *Brush) Strength(d float64) int {
	if b.radius <= 0 || d >= b.radius {
		return 0
	}
	return int(255 * (1 - d/b.radius))
}

func (b *Brush) apply(p image.Point, sign int) bool {
	changed := false
	cells := b.g.cells
	for i := range cells {
		c := &cells[i]
		d := math.Hypot(float64(c.X-p.X), float64(c.Y-p.Y))
		if d >= b.radius {
			continue
		}
		v := clampByte(int(c.Value) + sign*b.Strength(d))
		if v != c.Value {
			c.Value = v
			changed = true
		}
	}
	return changed
}

func clampByte(v int) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}
