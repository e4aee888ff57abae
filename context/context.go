package context

import (
	"fmt"

	"github.com/dominikbraun/graph"

	"deepcausality/dcerrors"
)

func intHash(v int) int { return v }

// Context is a named, identified hyper-graph of Contextoids plus the four
// index maps (current/previous data, current/previous time) a caller uses
// to track which payload version is "live" for a given logical key. The
// current->previous rollover itself is the caller's responsibility: the
// Context only stores the pair of maps, per the kernel's index lifecycle
// contract.
type Context struct {
	id   int
	name string

	g     graph.Graph[int, int]
	nodes map[int]*Contextoid

	nextIndex int
	hasRoot   bool

	currentDataMap  map[int]int
	previousDataMap map[int]int
	currentTimeMap  map[int]int
	previousTimeMap map[int]int
}

// WithCapacity pre-allocates a Context's node map to hint, matching the
// source's `with_capacity` constructor.
func WithCapacity(id int, name string, hint int) *Context {
	return &Context{
		id:              id,
		name:            name,
		g:               graph.New(intHash, graph.Directed()),
		nodes:           make(map[int]*Contextoid, hint),
		currentDataMap:  make(map[int]int),
		previousDataMap: make(map[int]int),
		currentTimeMap:  make(map[int]int),
		previousTimeMap: make(map[int]int),
	}
}

func (c *Context) ID() int     { return c.id }
func (c *Context) Name() string { return c.name }

// AddNode adds ctxoid to the graph and returns its assigned node index. A
// Context may hold at most one Root Contextoid; adding a second one is
// rejected rather than left to caller discipline.
func (c *Context) AddNode(ctxoid *Contextoid) (int, error) {
	if ctxoid.Kind() == KindRoot && c.hasRoot {
		return 0, dcerrors.NewContextIndexError("context %d already has a root Contextoid", c.id)
	}

	idx := c.nextIndex
	if err := c.g.AddVertex(idx); err != nil {
		return 0, dcerrors.NewContextIndexError("failed to add node %d: %v", idx, err)
	}
	c.nodes[idx] = ctxoid
	c.nextIndex++
	if ctxoid.Kind() == KindRoot {
		c.hasRoot = true
	}
	return idx, nil
}

// AddEdge connects node indices a and b with the given edge weight.
func (c *Context) AddEdge(a, b int, weight int64) error {
	if _, ok := c.nodes[a]; !ok {
		return dcerrors.NewContextIndexError("node %d not found", a)
	}
	if _, ok := c.nodes[b]; !ok {
		return dcerrors.NewContextIndexError("node %d not found", b)
	}
	opts := []func(*graph.EdgeProperties){}
	if weight != 0 {
		opts = append(opts, graph.EdgeWeight(int(weight)))
	}
	if err := c.g.AddEdge(a, b, opts...); err != nil {
		return dcerrors.NewContextIndexError("failed to add edge %d->%d: %v", a, b, err)
	}
	return nil
}

// Node returns the Contextoid stored at idx.
func (c *Context) Node(idx int) (*Contextoid, error) {
	n, ok := c.nodes[idx]
	if !ok {
		return nil, dcerrors.NewContextIndexError("node %d not found", idx)
	}
	return n, nil
}

func (c *Context) NodeCount() int {
	order, err := c.g.Order()
	if err != nil {
		return len(c.nodes)
	}
	return order
}

func (c *Context) EdgeCount() int {
	size, err := c.g.Size()
	if err != nil {
		return 0
	}
	return size
}

// GetDataIndex looks up key in the current or previous data index map.
func (c *Context) GetDataIndex(key int, current bool) (int, bool) {
	if current {
		v, ok := c.currentDataMap[key]
		return v, ok
	}
	v, ok := c.previousDataMap[key]
	return v, ok
}

// SetDataIndex records that key resolves to idx in the current or
// previous data index map.
func (c *Context) SetDataIndex(key, idx int, current bool) {
	if current {
		c.currentDataMap[key] = idx
		return
	}
	c.previousDataMap[key] = idx
}

// GetTimeIndex looks up key in the current or previous time index map.
func (c *Context) GetTimeIndex(key int, current bool) (int, bool) {
	if current {
		v, ok := c.currentTimeMap[key]
		return v, ok
	}
	v, ok := c.previousTimeMap[key]
	return v, ok
}

// SetTimeIndex records that key resolves to idx in the current or
// previous time index map.
func (c *Context) SetTimeIndex(key, idx int, current bool) {
	if current {
		c.currentTimeMap[key] = idx
		return
	}
	c.previousTimeMap[key] = idx
}

// RolloverData copies the current data map into the previous data map.
// The core exposes this as an explicit, opt-in operation rather than
// scheduling it automatically on every SetDataIndex.
func (c *Context) RolloverData() {
	next := make(map[int]int, len(c.currentDataMap))
	for k, v := range c.currentDataMap {
		next[k] = v
	}
	c.previousDataMap = next
}

// RolloverTime copies the current time map into the previous time map.
func (c *Context) RolloverTime() {
	next := make(map[int]int, len(c.currentTimeMap))
	for k, v := range c.currentTimeMap {
		next[k] = v
	}
	c.previousTimeMap = next
}

func (c *Context) String() string {
	return fmt.Sprintf("Context: id: %d, name: %s, node_count: %d, edge_count: %d",
		c.id, c.name, c.NodeCount(), c.EdgeCount())
}
