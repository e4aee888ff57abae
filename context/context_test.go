package context

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"deepcausality/grid"
)

func TestWithCapacityAndAddNode(t *testing.T) {
	ctx := WithCapacity(1, "test-context", 4)
	root := NewRootoid(0)

	idx, err := ctx.AddNode(root)
	assert.NoError(t, err)
	assert.Equal(t, 0, idx)
	assert.Equal(t, 1, ctx.NodeCount())
}

func TestAddNodeRejectsSecondRoot(t *testing.T) {
	ctx := WithCapacity(1, "test-context", 4)
	_, err := ctx.AddNode(NewRootoid(0))
	assert.NoError(t, err)

	_, err = ctx.AddNode(NewRootoid(1))
	assert.Error(t, err)
	assert.Equal(t, 1, ctx.NodeCount())
}

func TestAddEdgeRequiresExistingNodes(t *testing.T) {
	ctx := WithCapacity(1, "test-context", 4)
	root, _ := ctx.AddNode(NewRootoid(0))
	data, _ := ctx.AddNode(NewDatoid(1, "d1", nil))

	assert.NoError(t, ctx.AddEdge(root, data, 0))
	assert.Equal(t, 1, ctx.EdgeCount())

	err := ctx.AddEdge(root, 99, 0)
	assert.Error(t, err)
}

func TestDataIndexMaps(t *testing.T) {
	ctx := WithCapacity(1, "idx", 2)
	_, ok := ctx.GetDataIndex(5, true)
	assert.False(t, ok)

	ctx.SetDataIndex(5, 12, true)
	v, ok := ctx.GetDataIndex(5, true)
	assert.True(t, ok)
	assert.Equal(t, 12, v)

	ctx.RolloverData()
	v, ok = ctx.GetDataIndex(5, false)
	assert.True(t, ok)
	assert.Equal(t, 12, v)
}

func TestContextString(t *testing.T) {
	ctx := WithCapacity(7, "demo", 1)
	ctx.AddNode(NewRootoid(0))
	assert.Equal(t, "Context: id: 7, name: demo, node_count: 1, edge_count: 0", ctx.String())
}

func TestAdjustableDataUpdateAndAdjust(t *testing.T) {
	d := NewData(0, int64(42))

	g := grid.NewArrayGrid[int64](1, 1, 1, 1)
	g.Set(grid.NewPoint1D(0), 0)
	err := d.Update(g)
	assert.Error(t, err)
	assert.Equal(t, int64(42), d.Value())

	g.Set(grid.NewPoint1D(0), 21)
	err = d.Adjust(g)
	assert.NoError(t, err)
	assert.Equal(t, int64(63), d.Value())
}

func TestAdjustableDataNegativeResultLeavesValueUnchanged(t *testing.T) {
	d := NewData(0, int64(1))
	g := grid.NewArrayGrid[int64](1, 1, 1, 1)
	g.Set(grid.NewPoint1D(0), -2)

	err := d.Adjust(g)
	assert.Error(t, err)
	assert.Equal(t, int64(1), d.Value())
}
