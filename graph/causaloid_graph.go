// Package graph implements CausaloidGraph, the rooted graph-of-causaloids
// variant: a mutable construction phase followed by a freeze into a form
// suitable for repeated, read-only reasoning walks.
package graph

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	dgraph "github.com/dominikbraun/graph"

	"deepcausality/causaloid"
	"deepcausality/config"
	"deepcausality/dcerrors"
	"deepcausality/effect"
	"deepcausality/telemetry"
	"deepcausality/pkg/cache"
)

// pathCacheConfig bounds the shortest-path cache: paths are structural
// (keyed on endpoints only), so a modest fixed size comfortably covers
// the working set of a single reasoning session without unbounded growth.
func pathCacheConfig() *cache.Config {
	return &cache.Config{MaxEntries: 4096}
}

type pathKey struct {
	start int
	stop  int
}

func intHash(v int) int { return v }

// CausaloidGraph is a rooted DAG of Causaloids. It starts mutable;
// Freeze converts it into a form with O(1) neighbor iteration and
// rejects further structural mutation until Unfreeze is called.
type CausaloidGraph[V any] struct {
	mu sync.RWMutex

	g         dgraph.Graph[int, int]
	nodes     map[int]*causaloid.Causaloid[V]
	edgeOrder map[int][]int
	edgeCount int

	cfg *config.Config

	nextIndex int
	lastIndex int

	rootIndex int
	hasRoot   bool

	frozen    bool
	frozenAdj map[int][]int

	// pathCache memoizes dgraph.ShortestPath lookups. Cleared whenever the
	// edge set changes, since a cached path can go stale the moment a new
	// edge creates a shorter one.
	pathCache *cache.LRU[pathKey, []int]
}

// New builds an empty, mutable CausaloidGraph. rootIDHint is recorded as
// the root index but is not validated until a causaloid with that index
// actually exists.
func New[V any](rootIDHint int) *CausaloidGraph[V] {
	return &CausaloidGraph[V]{
		g:         dgraph.New(intHash, dgraph.Directed()),
		nodes:     make(map[int]*causaloid.Causaloid[V]),
		edgeOrder: make(map[int][]int),
		cfg:       config.Default(),
		rootIndex: rootIDHint,
		lastIndex: -1,
		pathCache: cache.New[pathKey, []int](pathCacheConfig()),
	}
}

// WithConfig overrides the Config whose GraphConfig.MaxVertices/MaxEdges
// soft limits AddCausaloid/AddWeightedEdge enforce.
func (cg *CausaloidGraph[V]) WithConfig(cfg *config.Config) *CausaloidGraph[V] {
	cg.mu.Lock()
	defer cg.mu.Unlock()
	cg.cfg = cfg
	return cg
}

// AddCausaloid inserts c and returns its assigned node index.
func (cg *CausaloidGraph[V]) AddCausaloid(c *causaloid.Causaloid[V]) (int, error) {
	cg.mu.Lock()
	defer cg.mu.Unlock()

	if cg.frozen {
		return 0, dcerrors.NewCausalGraphIndexError("cannot add causaloid: graph is frozen")
	}
	if cg.cfg.Graph.MaxVertices > 0 && len(cg.nodes) >= cg.cfg.Graph.MaxVertices {
		return 0, dcerrors.NewCausalGraphIndexError("cannot add causaloid: graph already holds the configured maximum of %d vertices", cg.cfg.Graph.MaxVertices)
	}

	idx := cg.nextIndex
	if err := cg.g.AddVertex(idx); err != nil {
		return 0, dcerrors.NewCausalGraphIndexError("failed to add causaloid %d: %v", idx, err)
	}
	cg.nodes[idx] = c
	cg.nextIndex++
	cg.lastIndex = idx
	return idx, nil
}

// AddEdge connects a to b with zero weight.
func (cg *CausaloidGraph[V]) AddEdge(a, b int) error {
	return cg.AddWeightedEdge(a, b, 0)
}

// AddWeightedEdge connects a to b with the given weight.
func (cg *CausaloidGraph[V]) AddWeightedEdge(a, b int, weight int64) error {
	cg.mu.Lock()
	defer cg.mu.Unlock()

	if cg.frozen {
		return dcerrors.NewCausalGraphIndexError("cannot add edge: graph is frozen")
	}
	if _, ok := cg.nodes[a]; !ok {
		return dcerrors.NewCausalGraphIndexError("causaloid with index %d not found in graph", a)
	}
	if _, ok := cg.nodes[b]; !ok {
		return dcerrors.NewCausalGraphIndexError("causaloid with index %d not found in graph", b)
	}
	if cg.cfg.Graph.MaxEdges > 0 && cg.edgeCount >= cg.cfg.Graph.MaxEdges {
		return dcerrors.NewCausalGraphIndexError("cannot add edge: graph already holds the configured maximum of %d edges", cg.cfg.Graph.MaxEdges)
	}

	opts := []func(*dgraph.EdgeProperties){}
	if weight != 0 {
		opts = append(opts, dgraph.EdgeWeight(int(weight)))
	}
	if err := cg.g.AddEdge(a, b, opts...); err != nil {
		return dcerrors.NewCausalGraphIndexError("failed to add edge %d->%d: %v", a, b, err)
	}
	cg.edgeOrder[a] = append(cg.edgeOrder[a], b)
	cg.edgeCount++
	cg.pathCache.Clear()
	return nil
}

// SetRoot marks i as the graph's root node. i must already hold a
// causaloid.
func (cg *CausaloidGraph[V]) SetRoot(i int) error {
	cg.mu.Lock()
	defer cg.mu.Unlock()

	if _, ok := cg.nodes[i]; !ok {
		return dcerrors.NewCausalGraphIndexError("causaloid with index %d not found in graph", i)
	}
	cg.rootIndex = i
	cg.hasRoot = true
	return nil
}

// GetRootIndex returns the configured root index and whether one has
// been set.
func (cg *CausaloidGraph[V]) GetRootIndex() (int, bool) {
	cg.mu.RLock()
	defer cg.mu.RUnlock()
	return cg.rootIndex, cg.hasRoot
}

// GetLastIndex returns the most recently assigned node index, or -1 if
// the graph is empty.
func (cg *CausaloidGraph[V]) GetLastIndex() int {
	cg.mu.RLock()
	defer cg.mu.RUnlock()
	return cg.lastIndex
}

// IsFrozen reports whether the graph currently rejects structural
// mutation and accepts reasoning calls.
func (cg *CausaloidGraph[V]) IsFrozen() bool {
	cg.mu.RLock()
	defer cg.mu.RUnlock()
	return cg.frozen
}

// Freeze converts the graph into its reasoning-ready form. It is
// idempotent and fails if the structure contains a cycle.
func (cg *CausaloidGraph[V]) Freeze() error {
	cg.mu.Lock()
	defer cg.mu.Unlock()

	if cg.frozen {
		return nil
	}
	if _, err := dgraph.TopologicalSort(cg.g); err != nil {
		return dcerrors.NewCausalityGraphError("cannot freeze: graph contains a cycle")
	}

	frozenAdj := make(map[int][]int, len(cg.edgeOrder))
	for src, targets := range cg.edgeOrder {
		sorted := append([]int(nil), targets...)
		sort.SliceStable(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })
		frozenAdj[src] = sorted
	}
	cg.frozenAdj = frozenAdj
	cg.frozen = true
	return nil
}

// Unfreeze rebuilds the mutable form. Any reasoning walk in progress at
// the moment of unfreeze is, by API contract, the caller's problem: a
// caller must not hold a reasoning call across Unfreeze.
func (cg *CausaloidGraph[V]) Unfreeze() {
	cg.mu.Lock()
	defer cg.mu.Unlock()
	cg.frozen = false
	cg.frozenAdj = nil
}

func (cg *CausaloidGraph[V]) nodeAt(i int) (*causaloid.Causaloid[V], bool) {
	cg.mu.RLock()
	defer cg.mu.RUnlock()
	c, ok := cg.nodes[i]
	return c, ok
}

func (cg *CausaloidGraph[V]) childrenOf(i int) []int {
	cg.mu.RLock()
	defer cg.mu.RUnlock()
	return cg.frozenAdj[i]
}

// shortestPath returns the BFS shortest path between start and stop,
// serving repeat lookups from pathCache.
func (cg *CausaloidGraph[V]) shortestPath(start, stop int) ([]int, error) {
	key := pathKey{start: start, stop: stop}
	if cached, ok := cg.pathCache.Get(key); ok {
		return cached, nil
	}
	path, err := dgraph.ShortestPath(cg.g, start, stop)
	if err != nil {
		return nil, err
	}
	cg.pathCache.Set(key, path)
	return path, nil
}

// EvaluateSingleCause evaluates exactly one node, ignoring its graph
// neighborhood.
func (cg *CausaloidGraph[V]) EvaluateSingleCause(i int, e effect.Evidence) effect.PropagatingEffect[V] {
	if !cg.IsFrozen() {
		return effect.FromError[V](dcerrors.NewCausalityGraphError("Graph is not frozen"))
	}
	node, ok := cg.nodeAt(i)
	if !ok {
		return effect.FromError[V](dcerrors.NewCausalGraphIndexError("Causaloid with index %d not found in graph", i))
	}
	return node.Evaluate(e)
}

// EvaluateSubgraphFromCause walks the frozen graph starting at i,
// following the deterministic ascending-target-index enumeration rule,
// and returns the last non-halting effect produced on the longest
// completed path. A Halting or error result anywhere along the walk
// short-circuits the entire call.
func (cg *CausaloidGraph[V]) EvaluateSubgraphFromCause(i int, e effect.Evidence) effect.PropagatingEffect[V] {
	if !cg.IsFrozen() {
		return effect.FromError[V](dcerrors.NewCausalityGraphError("Graph is not frozen"))
	}
	visited := make(map[int]effect.PropagatingEffect[V])
	var order []int
	result, _ := cg.walk(i, e, visited, &order)

	var logs []string
	for _, idx := range order {
		logs = append(logs, visited[idx].LogEntries()...)
	}
	out := effect.FromEffectValueWithLog(result.Value(), logs)
	if result.HasError() {
		out = out.WithErr(result.Err())
	}
	return out
}

// walk returns the effect produced at the deepest reachable node plus
// that path's length, memoizing per-call so a node reached by more than
// one path is evaluated exactly once.
func (cg *CausaloidGraph[V]) walk(i int, ev effect.Evidence, visited map[int]effect.PropagatingEffect[V], order *[]int) (effect.PropagatingEffect[V], int) {
	if cached, ok := visited[i]; ok {
		return cached, 1
	}

	node, ok := cg.nodeAt(i)
	if !ok {
		errEffect := effect.FromError[V](dcerrors.NewCausalGraphIndexError("Causaloid with index %d not found in graph", i))
		visited[i] = errEffect
		*order = append(*order, i)
		return errEffect, 1
	}

	result := node.Evaluate(ev)
	visited[i] = result
	*order = append(*order, i)

	if result.Value().IsHalting() || result.HasError() {
		return result, 1
	}

	if relayTarget, relayed, ok := result.Value().AsRelay(); ok {
		return cg.walk(relayTarget, toEvidence(relayed.Value()), visited, order)
	}

	children := cg.childrenOf(i)
	if len(children) == 0 {
		return result, 1
	}

	childEv := toEvidence(result.Value())
	best := result
	bestDepth := 1
	for _, childIdx := range children {
		childResult, childDepth := cg.walk(childIdx, childEv, visited, order)
		if childResult.Value().IsHalting() || childResult.HasError() {
			return childResult, childDepth + 1
		}
		if childDepth+1 > bestDepth {
			bestDepth = childDepth + 1
			best = childResult
		}
	}
	return best, bestDepth
}

// EvaluateShortestPathBetweenCauses walks the unweighted BFS shortest
// path between start and stop, feeding each node's produced effect as
// evidence to the next. RelayTo is not honored on this walk: the path is
// fixed by the shortest-path computation, not by in-band redirection.
func (cg *CausaloidGraph[V]) EvaluateShortestPathBetweenCauses(start, stop int, e effect.Evidence) effect.PropagatingEffect[V] {
	if !cg.IsFrozen() {
		return effect.FromError[V](dcerrors.NewCausalityGraphError("Graph is not frozen"))
	}
	if start == stop {
		return cg.EvaluateSingleCause(start, e)
	}

	path, err := cg.shortestPath(start, stop)
	if err != nil {
		return effect.FromError[V](dcerrors.NewCausalityGraphError("No path found"))
	}

	var logs []string
	ev := e
	var result effect.PropagatingEffect[V]
	for _, idx := range path {
		node, ok := cg.nodeAt(idx)
		if !ok {
			return effect.FromError[V](dcerrors.NewCausalGraphIndexError("Causaloid with index %d not found in graph", idx))
		}
		result = node.Evaluate(ev)
		logs = append(logs, result.LogEntries()...)
		if result.Value().IsHalting() || result.HasError() {
			out := effect.FromEffectValueWithLog(result.Value(), logs)
			if result.HasError() {
				out = out.WithErr(result.Err())
			}
			return out
		}
		ev = toEvidence(result.Value())
	}
	return effect.FromEffectValueWithLog(result.Value(), logs)
}

// ExplainSingleCause renders node i's own explanation.
func (cg *CausaloidGraph[V]) ExplainSingleCause(i int) (string, error) {
	node, ok := cg.nodeAt(i)
	if !ok {
		return "", dcerrors.NewCausalGraphIndexError("causaloid with index %d not found in graph", i)
	}
	return node.Explain()
}

// ExplainAllCauses renders every node's explanation in ascending index
// order.
func (cg *CausaloidGraph[V]) ExplainAllCauses() (string, error) {
	cg.mu.RLock()
	indices := make([]int, 0, len(cg.nodes))
	for idx := range cg.nodes {
		indices = append(indices, idx)
	}
	cg.mu.RUnlock()
	sort.Ints(indices)

	parts := make([]string, 0, len(indices))
	for _, idx := range indices {
		node, _ := cg.nodeAt(idx)
		s, err := node.Explain()
		if err != nil {
			return "", err
		}
		parts = append(parts, s)
	}
	return strings.Join(parts, "; "), nil
}

// ExplainShortestPath renders the explanation of every node on the
// shortest path from start to stop, in path order.
func (cg *CausaloidGraph[V]) ExplainShortestPath(start, stop int) (string, error) {
	path, err := cg.shortestPath(start, stop)
	if err != nil {
		return "", dcerrors.NewCausalityGraphError("No path found")
	}
	parts := make([]string, 0, len(path))
	for _, idx := range path {
		node, ok := cg.nodeAt(idx)
		if !ok {
			return "", dcerrors.NewCausalGraphIndexError("causaloid with index %d not found in graph", idx)
		}
		s, err := node.Explain()
		if err != nil {
			return "", err
		}
		parts = append(parts, s)
	}
	return strings.Join(parts, " -> "), nil
}

// Isolate returns a new, frozen CausaloidGraph containing the same nodes
// and edges as cg except any edge targeting nodeIndex: an intervention-
// style view (Pearl's graph surgery) for callers who want to evaluate
// "what if nodeIndex had no incoming causes" without mutating cg itself.
func (cg *CausaloidGraph[V]) Isolate(nodeIndex int) (*CausaloidGraph[V], error) {
	cg.mu.RLock()
	if _, ok := cg.nodes[nodeIndex]; !ok {
		cg.mu.RUnlock()
		return nil, dcerrors.NewCausalGraphIndexError("causaloid with index %d not found in graph", nodeIndex)
	}

	nodesCopy := make(map[int]*causaloid.Causaloid[V], len(cg.nodes))
	for idx, n := range cg.nodes {
		nodesCopy[idx] = n
	}
	edgesCopy := make(map[int][]int, len(cg.edgeOrder))
	for src, targets := range cg.edgeOrder {
		edgesCopy[src] = append([]int(nil), targets...)
	}
	lastIndex := cg.lastIndex
	rootIndex, hasRoot := cg.rootIndex, cg.hasRoot
	cfg := cg.cfg
	cg.mu.RUnlock()

	out := New[V](rootIndex)
	out.cfg = cfg
	out.hasRoot = hasRoot
	out.lastIndex = lastIndex
	out.nextIndex = lastIndex + 1

	indices := make([]int, 0, len(nodesCopy))
	for idx := range nodesCopy {
		indices = append(indices, idx)
	}
	sort.Ints(indices)
	for _, idx := range indices {
		out.g.AddVertex(idx)
		out.nodes[idx] = nodesCopy[idx]
	}

	for src, targets := range edgesCopy {
		for _, tgt := range targets {
			if tgt == nodeIndex {
				continue
			}
			if err := out.g.AddEdge(src, tgt); err != nil {
				return nil, dcerrors.NewCausalGraphIndexError("failed to rebuild edge %d->%d: %v", src, tgt, err)
			}
			out.edgeOrder[src] = append(out.edgeOrder[src], tgt)
			out.edgeCount++
		}
	}

	if err := out.Freeze(); err != nil {
		return nil, err
	}
	return out, nil
}

func (cg *CausaloidGraph[V]) String() string {
	cg.mu.RLock()
	defer cg.mu.RUnlock()
	return fmt.Sprintf("CausaloidGraph: nodes: %s, frozen: %v", telemetry.FormatCount(len(cg.nodes)), cg.frozen)
}
