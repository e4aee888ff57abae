package context

import (
	"deepcausality/dcerrors"
	"deepcausality/grid"
)

// Adjustable is implemented by Contextoid payloads that can be refreshed
// from an external ArrayGrid cell. Both operations read PointIndex(0,0,0,0)
// and are transactional: on error the payload's observable value is
// unchanged.
type Adjustable[T grid.Numeric] interface {
	// Update replaces the payload's value with the grid cell, rejecting a
	// cell value of zero.
	Update(g *grid.ArrayGrid[T]) error
	// Adjust composes the grid cell as a delta against the existing value,
	// rejecting overflow and a resulting negative value.
	Adjust(g *grid.ArrayGrid[T]) error
}

// Data is the Datoid payload: a single adjustable numeric value.
type Data[T grid.Numeric] struct {
	id    int
	value T
}

func NewData[T grid.Numeric](id int, value T) *Data[T] {
	return &Data[T]{id: id, value: value}
}

func (d *Data[T]) ID() int    { return d.id }
func (d *Data[T]) Value() T   { return d.value }

// Update reads PointIndex(0,0,0,0) and replaces the held value, rejecting
// a cell value of zero.
func (d *Data[T]) Update(g *grid.ArrayGrid[T]) error {
	v := g.Get(grid.NewPoint1D(0))
	var zero T
	if v == zero {
		return dcerrors.NewUpdateError("Update failed, new data is ZERO")
	}
	d.value = v
	return nil
}

// Adjust reads PointIndex(0,0,0,0) as a delta and composes it with the
// held value using a checked add: a positive delta that does not increase
// the value signals unsigned overflow, and a negative result is rejected
// outright.
func (d *Data[T]) Adjust(g *grid.ArrayGrid[T]) error {
	delta := g.Get(grid.NewPoint1D(0))
	before := d.value
	adjusted := before + delta

	var zero T
	if delta > zero && adjusted < before {
		return dcerrors.NewAdjustmentError("Adjustment failed, u64 overflow")
	}
	if adjusted < zero {
		return dcerrors.NewAdjustmentError("Adjustment failed, result is a negative number")
	}

	d.value = adjusted
	return nil
}
