package effect

import "strings"

// PropagatingEffect is the output carrier every Causaloid evaluation
// returns: an EffectValue plus an append-only explanation log, an optional
// terminal error, and opaque state/context slots a Bind chain can thread
// through without the kernel needing to know their shape.
type PropagatingEffect[V any] struct {
	value EffectValue[V]
	log   []string
	err   error
	state interface{}
	ctx   interface{}
}

// Pure wraps v as a Payload-carrying effect with no log and no error.
func Pure[V any](v V) PropagatingEffect[V] {
	return PropagatingEffect[V]{value: PayloadValue(v)}
}

// None returns the empty effect.
func None[V any]() PropagatingEffect[V] {
	return PropagatingEffect[V]{value: NoneValue[V]()}
}

// FromError returns a terminal effect carrying err and no value.
func FromError[V any](err error) PropagatingEffect[V] {
	return PropagatingEffect[V]{value: NoneValue[V](), err: err}
}

// FromEffectValue wraps an already-built EffectValue with an empty log.
func FromEffectValue[V any](ev EffectValue[V]) PropagatingEffect[V] {
	return PropagatingEffect[V]{value: ev}
}

// FromEffectValueWithLog wraps ev together with a pre-existing log.
func FromEffectValueWithLog[V any](ev EffectValue[V], log []string) PropagatingEffect[V] {
	cp := make([]string, len(log))
	copy(cp, log)
	return PropagatingEffect[V]{value: ev, log: cp}
}

// FromNumerical wraps x as a Numerical effect.
func FromNumerical[V any](x float64) PropagatingEffect[V] {
	return PropagatingEffect[V]{value: NumericalValue[V](x)}
}

// FromBoolean wraps b as a Deterministic effect.
func FromBoolean[V any](b bool) PropagatingEffect[V] {
	return PropagatingEffect[V]{value: DeterministicValue[V](b)}
}

// FromValue is an alias of Pure kept to mirror the upstream contract, which
// names both a generic "from_value" helper and "pure" as distinct entry
// points despite identical behavior.
func FromValue[V any](v V) PropagatingEffect[V] {
	return Pure(v)
}

// Halting returns the sentinel effect a graph walk or collection fold
// checks for to short-circuit further evaluation.
func Halting[V any]() PropagatingEffect[V] {
	return PropagatingEffect[V]{value: HaltingValue[V]()}
}

// Relay returns an effect instructing the caller to continue evaluation at
// targetIndex using e instead of following the graph's own edges.
func Relay[V any](targetIndex int, e PropagatingEffect[V]) PropagatingEffect[V] {
	return PropagatingEffect[V]{value: RelayToValue(targetIndex, e)}
}

func (p PropagatingEffect[V]) Value() EffectValue[V]  { return p.value }
func (p PropagatingEffect[V]) Err() error             { return p.err }
func (p PropagatingEffect[V]) HasError() bool         { return p.err != nil }
func (p PropagatingEffect[V]) State() interface{}     { return p.state }
func (p PropagatingEffect[V]) Context() interface{}   { return p.ctx }

// LogEntries returns the accumulated explanation log, in append order.
func (p PropagatingEffect[V]) LogEntries() []string {
	cp := make([]string, len(p.log))
	copy(cp, p.log)
	return cp
}

// Log appends entries and returns the updated effect; it never mutates p.
func (p PropagatingEffect[V]) Log(entries ...string) PropagatingEffect[V] {
	cp := make([]string, len(p.log), len(p.log)+len(entries))
	copy(cp, p.log)
	cp = append(cp, entries...)
	p.log = cp
	return p
}

// WithErr returns a copy of p carrying err as its terminal error.
func (p PropagatingEffect[V]) WithErr(err error) PropagatingEffect[V] {
	p.err = err
	return p
}

// WithState returns a copy of p carrying the given state slot.
func (p PropagatingEffect[V]) WithState(state interface{}) PropagatingEffect[V] {
	p.state = state
	return p
}

// WithContext returns a copy of p carrying the given context slot.
func (p PropagatingEffect[V]) WithContext(ctx interface{}) PropagatingEffect[V] {
	p.ctx = ctx
	return p
}

// Bind sequences another evaluation step onto p. If p already carries an
// error, f is never invoked and the error/log are threaded through
// unchanged: once a chain has failed, nothing downstream can unfail it.
// Otherwise f receives the current value, state and context and its
// returned effect's log is appended onto p's own.
func (p PropagatingEffect[V]) Bind(f func(value EffectValue[V], state, context interface{}) PropagatingEffect[V]) PropagatingEffect[V] {
	if p.err != nil {
		return p
	}
	next := f(p.value, p.state, p.ctx)
	merged := append(p.LogEntries(), next.log...)
	next.log = merged
	return next
}

// Fmap transforms the carried value in place, leaving log, error, state and
// context untouched. It is a pure transform: f must not itself fail.
func (p PropagatingEffect[V]) Fmap(f func(EffectValue[V]) EffectValue[V]) PropagatingEffect[V] {
	if p.err != nil {
		return p
	}
	p.value = f(p.value)
	return p
}

// Explain renders a deterministic multi-line report: the debug form of the
// final value, an optional error line, and an optional log section.
func (p PropagatingEffect[V]) Explain() string {
	var b strings.Builder
	b.WriteString("Final Value: ")
	b.WriteString(p.value.DebugString())
	if p.err != nil {
		b.WriteString("\nError: ")
		b.WriteString(p.err.Error())
	}
	if len(p.log) > 0 {
		b.WriteString("\n--- Logs ---")
		for _, entry := range p.log {
			b.WriteString("\n")
			b.WriteString(entry)
		}
	}
	return b.String()
}
