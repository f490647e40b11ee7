package geometry

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBoundingBox(t *testing.T) {
	pts := []Point2D{{3, 4}, {-1, 7}, {10, 2}, {5, 5}}
	assert.Equal(t, Rect{X: -1, Y: 2, Width: 11, Height: 5}, BoundingBox(pts))
	assert.Equal(t, Rect{}, BoundingBox(nil))
	assert.Equal(t, Rect{X: 2, Y: 2}, BoundingBox([]Point2D{{2, 2}}))
}

func TestMidpointAndQuadratic(t *testing.T) {
	from := Point2D{0, 0}
	to := Point2D{10, 0}
	m := Midpoint(from, to)
	assert.Equal(t, Point2D{5, 0}, m)

	// A curve whose control point coincides with its start still lands on the end.
	assert.Equal(t, m, QuadraticAt(from, from, m, 1))
	assert.Equal(t, from, QuadraticAt(from, from, m, 0))
}

func TestAffineInverse(t *testing.T) {
	tr := Translation(10, -4).Compose(Scale(2, 2))
	p := Point2D{3, 5}
	q := tr.Apply(p)
	assert.Equal(t, Point2D{16, 6}, q)

	inv, ok := tr.Inverse()
	assert.True(t, ok)
	back := inv.Apply(q)
	assert.InDelta(t, p.X, back.X, 1e-9)
	assert.InDelta(t, p.Y, back.Y, 1e-9)

	_, ok = Scale(0, 1).Inverse()
	assert.False(t, ok)

	assert.Equal(t, [2][3]float64{{2, 0, 10}, {0, 2, -4}}, tr.ToMatrix())
}

func TestRectPixels(t *testing.T) {
	r := Rect{X: 1.5, Y: 2, Width: 3, Height: 0}
	assert.Equal(t, RectInt{X: 1, Y: 2, Width: 4, Height: 1}, r.Pixels())
	assert.Equal(t, Point2D{X: 1.5, Y: 2}, r.TopLeft())
	assert.Equal(t, Point2D{X: 4.5, Y: 2}, r.BottomRight())
}
