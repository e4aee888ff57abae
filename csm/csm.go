// Package csm implements the Causal State Machine: a map of ids to
// (CausalState, CausalAction) pairs guarded by a single reader-writer
// lock, where evaluating a state fires its paired action when the
// produced effect's verdict is active.
package csm

import (
	"fmt"
	"sort"
	"sync"

	"deepcausality/causaloid"
	"deepcausality/config"
	"deepcausality/dcerrors"
	"deepcausality/effect"
	"deepcausality/telemetry"
	"deepcausality/uncertain"

	"github.com/hashicorp/go-multierror"
)

// CausalAction is the side effect a CausalState fires when its verdict
// is active.
type CausalAction func(param uncertain.ActionParameterValue) error

// CausalState pairs a stable id with the causaloid whose evaluation
// decides whether this state's action fires.
type CausalState[V any] struct {
	id        int
	version   int
	causaloid *causaloid.Causaloid[V]
}

// NewCausalState builds a CausalState at version 1.
func NewCausalState[V any](id int, c *causaloid.Causaloid[V]) CausalState[V] {
	return CausalState[V]{id: id, version: 1, causaloid: c}
}

// NewCausalStateVersioned builds a CausalState at an explicit version,
// for callers that track their own monotonic versioning scheme.
func NewCausalStateVersioned[V any](id, version int, c *causaloid.Causaloid[V]) CausalState[V] {
	return CausalState[V]{id: id, version: version, causaloid: c}
}

func (s CausalState[V]) ID() int      { return s.id }
func (s CausalState[V]) Version() int { return s.version }

type stateAction[V any] struct {
	state  CausalState[V]
	action CausalAction
}

// StatePair is a (state, action) pair as accepted by New and
// UpdateAllStates.
type StatePair[V any] struct {
	State  CausalState[V]
	Action CausalAction
}

// CSM is the Causal State Machine. The zero value is not usable; build
// one with New.
type CSM[V any] struct {
	mu     sync.RWMutex
	states map[int]stateAction[V]
	params *uncertain.UncertainParameter
	log    *telemetry.Logger
	cfg    *config.Config
}

// New builds a CSM from an initial set of (state, action) pairs.
// Duplicate ids are an error: unlike the permissive "last one wins"
// option the contract allows, this module rejects duplicates up front so
// a caller's construction mistake surfaces immediately instead of
// silently dropping a state.
func New[V any](pairs ...StatePair[V]) (*CSM[V], error) {
	states := make(map[int]stateAction[V], len(pairs))
	for _, p := range pairs {
		if _, exists := states[p.State.id]; exists {
			return nil, dcerrors.NewBuildError("duplicate state id %d in CSM initializer", p.State.id)
		}
		states[p.State.id] = stateAction[V]{state: p.State, action: p.Action}
	}
	return &CSM[V]{states: states, log: telemetry.Default(), cfg: config.Default()}, nil
}

// WithUncertaintyParams attaches the parameters passed to every
// CsmEvaluable verdict check. This overrides the config-derived default
// thresholds until cleared by passing nil.
func (m *CSM[V]) WithUncertaintyParams(params *uncertain.UncertainParameter) *CSM[V] {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.params = params
	return m
}

// WithConfig overrides the Config this CSM falls back to when no explicit
// uncertainty parameters have been set via WithUncertaintyParams.
func (m *CSM[V]) WithConfig(cfg *config.Config) *CSM[V] {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cfg = cfg
	return m
}

// WithLogger overrides the CSM's logger.
func (m *CSM[V]) WithLogger(l *telemetry.Logger) *CSM[V] {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.log = l
	return m
}

// AddSingleState registers a new state/action pair. It fails if the
// state's id already exists.
func (m *CSM[V]) AddSingleState(state CausalState[V], action CausalAction) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.states[state.id]; exists {
		return dcerrors.NewUpdateError("State %d already exists", state.id)
	}
	m.states[state.id] = stateAction[V]{state: state, action: action}
	return nil
}

// UpdateSingleState replaces an existing state/action pair by id. It
// fails if the id does not exist. If the replacement's version does not
// exceed the existing one, a warning is logged but the update proceeds:
// this is a supplement to the source's state_update.rs behavior, not a
// rejection.
func (m *CSM[V]) UpdateSingleState(state CausalState[V], action CausalAction) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	existing, exists := m.states[state.id]
	if !exists {
		return dcerrors.NewUpdateError("State %d does not exist. Add it first before updating.", state.id)
	}
	if state.version <= existing.state.version {
		m.log.Warnf("CSM state %d updated with non-increasing version (%d -> %d)", state.id, existing.state.version, state.version)
	}
	m.states[state.id] = stateAction[V]{state: state, action: action}
	return nil
}

// UpdateAllStates atomically replaces the entire state/action map.
func (m *CSM[V]) UpdateAllStates(pairs ...StatePair[V]) error {
	next := make(map[int]stateAction[V], len(pairs))
	for _, p := range pairs {
		next[p.State.id] = stateAction[V]{state: p.State, action: p.Action}
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.states = next
	return nil
}

// EvalSingleState evaluates the state's causaloid with e, and fires its
// action if the produced verdict is active.
func (m *CSM[V]) EvalSingleState(id int, e effect.Evidence) error {
	m.mu.RLock()
	sa, ok := m.states[id]
	params := m.effectiveParamsLocked()
	m.mu.RUnlock()

	if !ok {
		return dcerrors.NewCsmForbidden(fmt.Sprintf("State %d does not exist", id))
	}
	return evalAndFire(sa, e, params)
}

// EvalAllStates evaluates every registered state, in ascending id order,
// aggregating any failures into a single error rather than stopping at
// the first one.
func (m *CSM[V]) EvalAllStates(e effect.Evidence) error {
	m.mu.RLock()
	ids := make([]int, 0, len(m.states))
	for id := range m.states {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	pairs := make([]stateAction[V], 0, len(ids))
	for _, id := range ids {
		pairs = append(pairs, m.states[id])
	}
	params := m.effectiveParamsLocked()
	m.mu.RUnlock()

	var result *multierror.Error
	for _, sa := range pairs {
		if err := evalAndFire(sa, e, params); err != nil {
			result = multierror.Append(result, err)
		}
	}
	return result.ErrorOrNil()
}

// effectiveParamsLocked returns the explicitly set uncertainty parameters,
// or, if none were set, thresholds derived from the CSM's Config. Callers
// must hold at least m.mu.RLock.
func (m *CSM[V]) effectiveParamsLocked() *uncertain.UncertainParameter {
	if m.params != nil {
		return m.params
	}
	return &uncertain.UncertainParameter{
		ProbabilityThreshold: m.cfg.Uncertainty.DefaultProbabilityThreshold,
		ValueThreshold:       m.cfg.Uncertainty.DefaultValueThreshold,
	}
}

func evalAndFire[V any](sa stateAction[V], e effect.Evidence, params *uncertain.UncertainParameter) error {
	out := sa.state.causaloid.Evaluate(e)
	if out.HasError() {
		return dcerrors.NewCsmCausality(out.Err())
	}

	verdict, param, err := activeVerdict(out.Value(), params)
	if err != nil {
		return dcerrors.NewCsmUncertain(err)
	}
	if !verdict {
		return nil
	}
	if sa.action == nil {
		return nil
	}
	if err := sa.action(param); err != nil {
		return dcerrors.NewCsmAction(err)
	}
	return nil
}

// activeVerdict interprets a produced EffectValue as a CsmEvaluable
// verdict: a Deterministic value is the identity verdict, and the two
// uncertainty variants delegate to their own IsActive implementation.
func activeVerdict[V any](ev effect.EffectValue[V], params *uncertain.UncertainParameter) (bool, uncertain.ActionParameterValue, error) {
	if b, ok := ev.AsBool(); ok {
		v := uncertain.BoolVerdict(b)
		active, err := v.IsActive(params)
		return active, v.ToActionParam(), err
	}
	if ub, ok := ev.AsUncertainBool(); ok {
		active, err := ub.IsActive(params)
		return active, ub.ToActionParam(), err
	}
	if uf, ok := ev.AsUncertainFloat(); ok {
		active, err := uf.IsActive(params)
		return active, uf.ToActionParam(), err
	}
	return false, uncertain.ActionParameterValue{}, dcerrors.NewCausalityError("evaluated effect does not expose a CsmEvaluable verdict")
}
