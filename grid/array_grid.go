package grid

import (
	"fmt"

	"golang.org/x/exp/constraints"
)

// Numeric bounds the element type an ArrayGrid can hold: anything that
// Adjustable payloads (context/adjustable.go) can validate and combine.
type Numeric interface {
	constraints.Integer | constraints.Float
}

// ArrayGrid is a dense, bounds-checked 4D array over width/height/depth/time
// cells. Its only consumer in this module is the Context adjustment
// protocol, which reads a single cell per Update/Adjust call.
type ArrayGrid[T Numeric] struct {
	width, height, depth, time int
	data                       []T
}

// NewArrayGrid allocates a grid with the given extents. Any dimension may
// be 0 to indicate that axis is unused (a 1D grid has height=depth=time=0
// conceptually, but is stored with a minimum extent of 1 to keep indexing
// simple).
func NewArrayGrid[T Numeric](width, height, depth, time int) *ArrayGrid[T] {
	w, h, d, tm := max1(width), max1(height), max1(depth), max1(time)
	return &ArrayGrid[T]{
		width:  w,
		height: h,
		depth:  d,
		time:   tm,
		data:   make([]T, w*h*d*tm),
	}
}

func max1(v int) int {
	if v < 1 {
		return 1
	}
	return v
}

func (g *ArrayGrid[T]) offset(p PointIndex) (int, error) {
	if p.X < 0 || p.X >= g.width ||
		p.Y < 0 || p.Y >= g.height ||
		p.Z < 0 || p.Z >= g.depth ||
		p.T < 0 || p.T >= g.time {
		return 0, fmt.Errorf("grid: %s out of bounds for grid(%d,%d,%d,%d)", p, g.width, g.height, g.depth, g.time)
	}
	idx := ((p.T*g.depth+p.Z)*g.height+p.Y)*g.width + p.X
	return idx, nil
}

// Get returns the value at p, or the zero value if p is out of bounds.
// Matching the source's infallible `ArrayGrid::get`, callers that need to
// distinguish "out of bounds" from "zero value" should use GetChecked.
func (g *ArrayGrid[T]) Get(p PointIndex) T {
	v, _ := g.GetChecked(p)
	return v
}

// GetChecked returns the value at p and an error if p is out of bounds.
func (g *ArrayGrid[T]) GetChecked(p PointIndex) (T, error) {
	idx, err := g.offset(p)
	if err != nil {
		var zero T
		return zero, err
	}
	return g.data[idx], nil
}

// Set stores value at p, returning an error if p is out of bounds.
func (g *ArrayGrid[T]) Set(p PointIndex, value T) error {
	idx, err := g.offset(p)
	if err != nil {
		return err
	}
	g.data[idx] = value
	return nil
}

// Dimensions returns the grid's (width, height, depth, time) extents.
func (g *ArrayGrid[T]) Dimensions() (int, int, int, int) {
	return g.width, g.height, g.depth, g.time
}
