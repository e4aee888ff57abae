// Package uncertain provides the minimal capability surface the reasoning
// kernel needs from an uncertainty library: a way to ask an evaluated
// output "are you active?" and a way to turn that output into an action
// parameter. It stands in for the external `deep_causality_uncertain`
// collaborator named in the kernel's specification (the kernel depends on
// the shape of `probability_exceeds`-style comparisons, not on a full
// sampling/inference engine).
package uncertain

import "deepcausality/dcerrors"

// UncertainParameter carries the thresholds a CsmEvaluable comparison is
// judged against. A nil *UncertainParameter means "use the implementation's
// default verdict rule" where one exists, and is an error where it doesn't.
type UncertainParameter struct {
	// ProbabilityThreshold gates UncertainBool.IsActive: the verdict is
	// active when ProbabilityTrue >= ProbabilityThreshold.
	ProbabilityThreshold float64
	// ValueThreshold gates UncertainFloat.IsActive: the verdict is active
	// when Value >= ValueThreshold.
	ValueThreshold float64
}

// ActionParameterValue is the payload a CausalAction receives when a
// CsmEvaluable verdict fires it.
type ActionParameterValue struct {
	Raw interface{}
}

// CsmEvaluable is implemented by every Causaloid output type that a
// CausalState can carry. eval_single_state calls IsActive to decide
// whether to fire the paired CausalAction.
type CsmEvaluable interface {
	IsActive(params *UncertainParameter) (bool, error)
	ToActionParam() ActionParameterValue
}

// BoolVerdict is the identity CsmEvaluable: the verdict is simply the bool
// itself, regardless of any supplied parameters.
type BoolVerdict bool

func (b BoolVerdict) IsActive(_ *UncertainParameter) (bool, error) {
	return bool(b), nil
}

func (b BoolVerdict) ToActionParam() ActionParameterValue {
	return ActionParameterValue{Raw: bool(b)}
}

// UncertainBool models a boolean whose truth is itself a probability. With
// no parameters, it resolves via an implicit >0.5 conditional; with
// parameters, it compares ProbabilityTrue against ProbabilityThreshold.
type UncertainBool struct {
	ProbabilityTrue float64
}

func (u UncertainBool) IsActive(params *UncertainParameter) (bool, error) {
	if params == nil {
		return u.ProbabilityTrue > 0.5, nil
	}
	return u.ProbabilityTrue >= params.ProbabilityThreshold, nil
}

func (u UncertainBool) ToActionParam() ActionParameterValue {
	return ActionParameterValue{Raw: u.ProbabilityTrue}
}

// UncertainFloat models a sampled/estimated numerical quantity. Unlike
// UncertainBool, it has no sensible default verdict rule: a threshold must
// be supplied.
type UncertainFloat struct {
	Value float64
}

func (u UncertainFloat) IsActive(params *UncertainParameter) (bool, error) {
	if params == nil {
		return false, dcerrors.NewUncertainError("uncertain float requires threshold parameters to evaluate activity")
	}
	return u.Value >= params.ValueThreshold, nil
}

func (u UncertainFloat) ToActionParam() ActionParameterValue {
	return ActionParameterValue{Raw: u.Value}
}
