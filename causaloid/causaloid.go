// Package causaloid implements the recursive causal unit the reasoning
// kernel evaluates: a singleton predicate, an ordered collection of
// sub-causaloids folded under an aggregation rule, or a graph of
// causaloids delegated to an external reasoning collaborator.
package causaloid

import (
	"fmt"
	"strings"

	"deepcausality/config"
	"deepcausality/dcerrors"
	"deepcausality/effect"
)

// Kind discriminates the three shapes a Causaloid can take.
type Kind int

const (
	KindSingleton Kind = iota
	KindCollection
	KindGraph
)

func (k Kind) String() string {
	switch k {
	case KindSingleton:
		return "Singleton"
	case KindCollection:
		return "Collection"
	case KindGraph:
		return "Graph"
	default:
		return "Unknown"
	}
}

// AggregationKind selects how a Collection causaloid folds its members.
type AggregationKind int

const (
	AggregateAll AggregationKind = iota
	AggregateAny
	AggregateMixed
)

// Aggregation configures a Collection causaloid's fold rule. Threshold is
// only consulted when Kind is AggregateMixed.
type Aggregation struct {
	Kind      AggregationKind
	Threshold float64
}

// DefaultAggregation derives a Collection fold rule from cfg.Aggregation,
// for callers that want the configured default instead of hardcoding one.
func DefaultAggregation(cfg *config.Config) (Aggregation, error) {
	switch strings.ToLower(cfg.Aggregation.DefaultKind) {
	case "all":
		return Aggregation{Kind: AggregateAll}, nil
	case "any":
		return Aggregation{Kind: AggregateAny}, nil
	case "mixed":
		return Aggregation{Kind: AggregateMixed, Threshold: cfg.Aggregation.DefaultMixedThreshold}, nil
	default:
		return Aggregation{}, dcerrors.NewBuildError("unrecognized aggregation.default_kind %q", cfg.Aggregation.DefaultKind)
	}
}

// EvalFunc is the user predicate a singleton Causaloid wraps: it inspects
// Evidence and produces a PropagatingEffect, or an error on shape mismatch
// or a failed precondition.
type EvalFunc[V any] func(e effect.Evidence) (effect.PropagatingEffect[V], error)

// GraphEvaluator is the capability a Causaloid's Graph variant delegates
// to. A graph.CausaloidGraph satisfies this without causaloid importing
// the graph package, which would otherwise create an import cycle (a
// CausaloidGraph's nodes are themselves Causaloids).
type GraphEvaluator[V any] interface {
	EvaluateSubgraphFromCause(rootIndex int, e effect.Evidence) effect.PropagatingEffect[V]
	ExplainAllCauses() (string, error)
}

// Causaloid is the recursive causal unit: exactly one of its three shapes
// is populated, selected by Kind.
type Causaloid[V any] struct {
	id          int
	description string
	kind        Kind

	evalFn        EvalFunc[V]
	contextHandle interface{}

	members     []*Causaloid[V]
	aggregation Aggregation

	graph     GraphEvaluator[V]
	graphRoot int
}

// New builds a singleton Causaloid with no associated context.
func New[V any](id int, fn EvalFunc[V], description string) *Causaloid[V] {
	return &Causaloid[V]{id: id, description: description, kind: KindSingleton, evalFn: fn}
}

// NewWithContext builds a singleton Causaloid carrying a shared, opaque
// handle to a Context the predicate may consult during evaluation.
func NewWithContext[V any](id int, fn EvalFunc[V], description string, contextHandle interface{}) *Causaloid[V] {
	return &Causaloid[V]{id: id, description: description, kind: KindSingleton, evalFn: fn, contextHandle: contextHandle}
}

// FromCausalCollection builds a Collection causaloid folding members in
// insertion order under agg.
func FromCausalCollection[V any](id int, members []*Causaloid[V], description string, agg Aggregation) *Causaloid[V] {
	cp := make([]*Causaloid[V], len(members))
	copy(cp, members)
	return &Causaloid[V]{id: id, description: description, kind: KindCollection, members: cp, aggregation: agg}
}

// FromCausalGraph builds a Graph causaloid delegating evaluation to g,
// starting at rootIndex.
func FromCausalGraph[V any](id int, g GraphEvaluator[V], rootIndex int, description string) *Causaloid[V] {
	return &Causaloid[V]{id: id, description: description, kind: KindGraph, graph: g, graphRoot: rootIndex}
}

func (c *Causaloid[V]) ID() int              { return c.id }
func (c *Causaloid[V]) Description() string  { return c.description }
func (c *Causaloid[V]) Kind() Kind           { return c.kind }
func (c *Causaloid[V]) IsSingleton() bool    { return c.kind == KindSingleton }
func (c *Causaloid[V]) Context() interface{} { return c.contextHandle }

// Evaluate is total: internal errors surface inside the returned effect,
// never as a panic.
func (c *Causaloid[V]) Evaluate(e effect.Evidence) effect.PropagatingEffect[V] {
	switch c.kind {
	case KindSingleton:
		return c.evaluateSingleton(e)
	case KindCollection:
		return c.evaluateCollection(e)
	case KindGraph:
		return c.evaluateGraph(e)
	default:
		return effect.FromError[V](dcerrors.NewBuildError("causaloid %d has no recognized kind", c.id))
	}
}

func (c *Causaloid[V]) evaluateSingleton(e effect.Evidence) effect.PropagatingEffect[V] {
	if c.evalFn == nil {
		return effect.FromError[V](dcerrors.NewCausalityError("causaloid %d has no evaluation function", c.id))
	}
	out, err := c.evalFn(e)
	if err != nil {
		return effect.FromError[V](err)
	}
	return out
}

func (c *Causaloid[V]) evaluateGraph(e effect.Evidence) effect.PropagatingEffect[V] {
	if c.graph == nil {
		return effect.FromError[V](dcerrors.NewCausalityGraphError("causaloid %d has the Graph shape but no graph attached", c.id))
	}
	// Halting propagates unchanged: this is just the graph's own result.
	return c.graph.EvaluateSubgraphFromCause(c.graphRoot, e)
}

func (c *Causaloid[V]) evaluateCollection(e effect.Evidence) effect.PropagatingEffect[V] {
	if len(c.members) == 0 {
		switch c.aggregation.Kind {
		case AggregateAny:
			return effect.FromBoolean[V](false)
		default:
			return effect.FromBoolean[V](true)
		}
	}

	var logs []string
	for _, member := range c.members {
		out := member.Evaluate(e)
		logs = append(logs, out.LogEntries()...)

		if out.Value().IsHalting() {
			return effect.FromEffectValueWithLog(effect.HaltingValue[V](), logs)
		}
		if out.HasError() {
			return effect.FromEffectValueWithLog(effect.NoneValue[V](), logs).WithErr(out.Err())
		}

		verdict, err := boolFromEffect(out.Value(), c.aggregation)
		if err != nil {
			return effect.FromEffectValueWithLog(effect.NoneValue[V](), logs).WithErr(err)
		}

		switch c.aggregation.Kind {
		case AggregateAny:
			if verdict {
				return effect.FromEffectValueWithLog(effect.DeterministicValue[V](true), logs)
			}
		default: // AggregateAll, AggregateMixed
			if !verdict {
				return effect.FromEffectValueWithLog(effect.DeterministicValue[V](false), logs)
			}
		}
	}

	switch c.aggregation.Kind {
	case AggregateAny:
		return effect.FromEffectValueWithLog(effect.DeterministicValue[V](false), logs)
	default:
		return effect.FromEffectValueWithLog(effect.DeterministicValue[V](true), logs)
	}
}

// boolFromEffect interprets a member's produced value as a boolean
// verdict according to agg: under AggregateMixed a numerical or
// probabilistic value counts as true once it meets the threshold, and a
// deterministic value passes through unchanged; under All/Any only a
// deterministic value is accepted.
func boolFromEffect[V any](ev effect.EffectValue[V], agg Aggregation) (bool, error) {
	if agg.Kind == AggregateMixed {
		if x, ok := ev.AsNumerical(); ok {
			return x >= agg.Threshold, nil
		}
		if p, ok := ev.AsProbability(); ok {
			return p >= agg.Threshold, nil
		}
	}
	if b, ok := ev.AsBool(); ok {
		return b, nil
	}
	return false, dcerrors.NewCausalityError("collection member produced an effect with no boolean-comparable value")
}

// Explain returns a human-readable trace. For a Graph causaloid it
// delegates to the graph's own explanation of every node.
func (c *Causaloid[V]) Explain() (string, error) {
	switch c.kind {
	case KindSingleton:
		return fmt.Sprintf("Causaloid %d (Singleton): %s", c.id, c.description), nil
	case KindCollection:
		parts := make([]string, 0, len(c.members))
		for _, m := range c.members {
			s, err := m.Explain()
			if err != nil {
				return "", err
			}
			parts = append(parts, s)
		}
		return fmt.Sprintf("Causaloid %d (Collection, %s): %s", c.id, c.description, strings.Join(parts, "; ")), nil
	case KindGraph:
		if c.graph == nil {
			return "", dcerrors.NewCausalityGraphError("causaloid %d has the Graph shape but no graph attached", c.id)
		}
		inner, err := c.graph.ExplainAllCauses()
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("Causaloid %d (Graph): %s -> %s", c.id, c.description, inner), nil
	default:
		return "", dcerrors.NewBuildError("causaloid %d has no recognized kind", c.id)
	}
}
