package canvas

import (
	"image"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testCell = 25

func TestNewGridLayout(t *testing.T) {
	g := NewGrid(Rows, Cols, testCell)

	require.Equal(t, Rows*Cols, g.Len())
	assert.Equal(t, image.Rect(0, 0, 700, 700), g.Bounds())

	c := g.Cell(2, 3)
	assert.Equal(t, 75, c.X)
	assert.Equal(t, 50, c.Y)
	assert.EqualValues(t, Blank, c.Value)

	var order []image.Point
	g.Each(func(row, col int, c Cell) {
		if row < 2 && col < 2 {
			order = append(order, image.Pt(c.X, c.Y))
		}
	})
	assert.Equal(t, []image.Point{{0, 0}, {25, 0}, {0, 25}, {25, 25}}, order, "iteration must be row-major")
}

func TestNewGridDefaults(t *testing.T) {
	g := NewGrid(0, -1, 0)
	assert.Equal(t, Rows, g.Rows())
	assert.Equal(t, Cols, g.Cols())
	assert.Equal(t, 1, g.CellSize())
}

func TestResetThenTensorIsAllOnes(t *testing.T) {
	g := NewGrid(Rows, Cols, testCell)
	NewBrush(g).Ink(image.Pt(100, 100))
	require.False(t, g.IsBlank())

	g.Reset()
	require.True(t, g.IsBlank())

	ten := g.Tensor()
	assert.Equal(t, [4]int{1, Rows, Cols, 1}, ten.Shape)
	require.Len(t, ten.Data, Rows*Cols)
	for i, v := range ten.Data {
		require.Equalf(t, float32(1), v, "element %d", i)
	}
}

func TestInkAtCenter(t *testing.T) {
	g := NewGrid(Rows, Cols, testCell)
	center := image.Pt(14*testCell, 14*testCell)

	changed := NewBrush(g).Ink(center)
	require.True(t, changed)

	assert.EqualValues(t, 0, g.Cell(14, 14).Value, "anchor under the pointer is fully inked")
	g.Each(func(row, col int, c Cell) {
		if row == 14 && col == 14 {
			return
		}
		assert.EqualValuesf(t, Blank, c.Value, "cell %d,%d is a full radius away or more", row, col)
	})

	ten := g.Tensor()
	assert.Equal(t, [4]int{1, 28, 28, 1}, ten.Shape)
	assert.Equal(t, float32(0), ten.At(0, 14, 14, 0))
	for _, v := range ten.Data {
		assert.True(t, v >= 0 && v <= 1)
	}
}

func TestTensorIsRowMajor(t *testing.T) {
	g := NewGrid(Rows, Cols, testCell)
	require.True(t, NewBrush(g).Ink(image.Pt(3*testCell, 20*testCell)))

	ten := g.Tensor()
	assert.Equal(t, float32(0), ten.Data[20*Cols+3], "row 20, col 3 is inked")
	assert.Equal(t, float32(0), ten.At(0, 20, 3, 0))
	assert.Equal(t, float32(1), ten.At(0, 3, 20, 0), "transposed cell stays blank")
}

func TestInkFalloff(t *testing.T) {
	g := NewGrid(Rows, Cols, testCell)
	b := NewBrush(g)
	before := g.Snapshot()

	b.Ink(image.Pt(340, 340))

	assert.EqualValues(t, 255-110, g.Cell(14, 14).Value)
	assert.EqualValues(t, 255-71, g.Cell(13, 14).Value)
	assert.EqualValues(t, 255-71, g.Cell(14, 13).Value)
	assert.EqualValues(t, 255-38, g.Cell(13, 13).Value)
	assert.EqualValues(t, Blank, g.Cell(15, 14).Value)

	require.True(t, b.Erase(image.Pt(340, 340)))
	assert.True(t, before.Equal(g.Snapshot()), "erase at the same point undoes an unsaturated ink")
}

func TestBrushStrength(t *testing.T) {
	b := NewBrush(NewGrid(Rows, Cols, testCell))
	assert.Equal(t, float64(testCell), b.Radius())
	assert.Equal(t, 255, b.Strength(0))
	assert.Equal(t, 127, b.Strength(12.5))
	assert.Equal(t, 0, b.Strength(testCell))
	assert.Equal(t, 0, b.Strength(1000))
}

func TestFarPointIsNoop(t *testing.T) {
	g := NewGrid(Rows, Cols, testCell)
	b := NewBrush(g)
	b.Ink(image.Pt(200, 200))
	before := g.Snapshot()

	for _, p := range []image.Point{{-100, -100}, {5000, 10}, {10, 5000}} {
		assert.False(t, b.Ink(p))
		assert.False(t, b.Erase(p))
	}
	assert.True(t, before.Equal(g.Snapshot()))
}

func TestSaturationIsMonotonic(t *testing.T) {
	g := NewGrid(Rows, Cols, testCell)
	b := NewBrush(g)
	p := image.Pt(340, 340)

	prev := g.Snapshot()
	for i := 0; i < 10; i++ {
		b.Ink(p)
		cur := g.Snapshot()
		for j := range cur {
			require.LessOrEqual(t, cur[j], prev[j], "ink never lightens")
		}
		prev = cur
	}
	assert.EqualValues(t, 0, g.Cell(14, 14).Value)
	assert.EqualValues(t, 0, g.Cell(13, 13).Value)
	assert.False(t, b.Ink(p), "saturated stroke changes nothing")

	for i := 0; i < 10; i++ {
		b.Erase(p)
		cur := g.Snapshot()
		for j := range cur {
			require.GreaterOrEqual(t, cur[j], prev[j], "erase never darkens")
		}
		prev = cur
	}
	assert.True(t, g.IsBlank())
}

func TestRandomStrokesStayInRange(t *testing.T) {
	g := NewGrid(Rows, Cols, testCell)
	b := NewBrush(g)
	rng := rand.New(rand.NewSource(7))

	for i := 0; i < 2000; i++ {
		p := image.Pt(rng.Intn(800)-50, rng.Intn(800)-50)
		if rng.Intn(3) == 0 {
			b.Erase(p)
		} else {
			b.Ink(p)
		}
	}
	for _, v := range g.Tensor().Data {
		require.True(t, v >= 0 && v <= 1)
	}
}

func TestRestoreRejectsWrongSize(t *testing.T) {
	g := NewGrid(Rows, Cols, testCell)
	err := g.Restore(make(Snapshot, 10))
	require.ErrorIs(t, err, ErrSnapshotSize)
}
