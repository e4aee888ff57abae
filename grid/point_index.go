// Package grid provides a small fixed-extent 4D array and point index,
// standing in for the external ArrayGrid/PointIndex collaborator named
// in the reasoning kernel's specification. Go has no const generic
// parameters, so width/height/depth/time are runtime fields (raised to at
// least 1 on construction, bounds-checked on access) rather than
// compile-time type parameters.
package grid

import "fmt"

// PointIndex addresses a single cell of an ArrayGrid along its four axes.
type PointIndex struct {
	X, Y, Z, T int
}

// NewPoint1D builds a PointIndex that only varies along the first axis,
// matching the adjustment protocol's single-cell read at PointIndex(0,0,0,0)
// generalized to PointIndex(x,0,0,0).
func NewPoint1D(x int) PointIndex {
	return PointIndex{X: x}
}

// NewPoint2D builds a PointIndex varying along the first two axes.
func NewPoint2D(x, y int) PointIndex {
	return PointIndex{X: x, Y: y}
}

// NewPoint3D builds a PointIndex varying along the first three axes.
func NewPoint3D(x, y, z int) PointIndex {
	return PointIndex{X: x, Y: y, Z: z}
}

// NewPoint4D builds a fully specified PointIndex.
func NewPoint4D(x, y, z, t int) PointIndex {
	return PointIndex{X: x, Y: y, Z: z, T: t}
}

func (p PointIndex) String() string {
	return fmt.Sprintf("PointIndex(%d, %d, %d, %d)", p.X, p.Y, p.Z, p.T)
}
