// Package dcerrors defines the typed error kinds raised across the
// reasoning kernel. Each kind wraps a message (and, where useful, the
// offending index) and implements the standard error interface so callers
// can use errors.As/errors.Is against the concrete type.
package dcerrors

import "fmt"

// BuildError is raised while constructing a composite structure, e.g. a
// Causaloid collection or graph variant, from invalid inputs.
type BuildError struct {
	Msg string
}

func NewBuildError(format string, args ...interface{}) *BuildError {
	return &BuildError{Msg: fmt.Sprintf(format, args...)}
}

func (e *BuildError) Error() string { return "BuildError: " + e.Msg }

// CausalGraphIndexError is raised by CausaloidGraph node/edge mutation.
type CausalGraphIndexError struct {
	Msg string
}

func NewCausalGraphIndexError(format string, args ...interface{}) *CausalGraphIndexError {
	return &CausalGraphIndexError{Msg: fmt.Sprintf(format, args...)}
}

func (e *CausalGraphIndexError) Error() string { return "CausalGraphIndexError: " + e.Msg }

// CausalityGraphError is raised by graph-level reasoning, e.g. a missing
// path, an unfrozen graph, or a cycle where a DAG was required.
type CausalityGraphError struct {
	Msg string
}

func NewCausalityGraphError(format string, args ...interface{}) *CausalityGraphError {
	return &CausalityGraphError{Msg: fmt.Sprintf(format, args...)}
}

func (e *CausalityGraphError) Error() string { return "CausalityGraphError: " + e.Msg }

// ContextIndexError is raised by Context node/edge mutation.
type ContextIndexError struct {
	Msg string
}

func NewContextIndexError(format string, args ...interface{}) *ContextIndexError {
	return &ContextIndexError{Msg: fmt.Sprintf(format, args...)}
}

func (e *ContextIndexError) Error() string { return "ContextIndexError: " + e.Msg }

// CausalityError is raised by user predicates, shape mismatches inside a
// Causaloid's evaluation function, and other custom causal-logic failures.
type CausalityError struct {
	Msg string
}

func NewCausalityError(format string, args ...interface{}) *CausalityError {
	return &CausalityError{Msg: fmt.Sprintf(format, args...)}
}

func (e *CausalityError) Error() string { return "CausalityError: " + e.Msg }

// AdjustmentError is raised by an ArrayGrid-backed Adjustable.Adjust call.
type AdjustmentError struct {
	Msg string
}

func NewAdjustmentError(format string, args ...interface{}) *AdjustmentError {
	return &AdjustmentError{Msg: fmt.Sprintf(format, args...)}
}

func (e *AdjustmentError) Error() string { return "AdjustmentError: " + e.Msg }

// UpdateError is raised by an ArrayGrid-backed Adjustable.Update call, and
// by CSM state map mutations that reference a missing state id.
type UpdateError struct {
	Msg string
}

func NewUpdateError(format string, args ...interface{}) *UpdateError {
	return &UpdateError{Msg: fmt.Sprintf(format, args...)}
}

func (e *UpdateError) Error() string { return "UpdateError: " + e.Msg }

// ActionError is raised by CausalAction execution failures inside a CSM.
type ActionError struct {
	Msg string
}

func NewActionError(format string, args ...interface{}) *ActionError {
	return &ActionError{Msg: fmt.Sprintf(format, args...)}
}

func (e *ActionError) Error() string { return "ActionError: " + e.Msg }

// UncertainError is raised when a CsmEvaluable implementation cannot
// produce an active/inactive verdict, e.g. a threshold comparison that is
// missing its required parameters.
type UncertainError struct {
	Msg string
}

func NewUncertainError(format string, args ...interface{}) *UncertainError {
	return &UncertainError{Msg: fmt.Sprintf(format, args...)}
}

func (e *UncertainError) Error() string { return "UncertainError: " + e.Msg }

// CsmError wraps the three failure sources a CSM evaluation can hit
// (action execution, causal evaluation, uncertainty resolution) plus a
// Forbidden case for operations the CSM itself refuses to perform.
type CsmError struct {
	Kind CsmErrorKind
	Err  error
}

// CsmErrorKind tags which branch of CsmError is populated.
type CsmErrorKind int

const (
	CsmForbidden CsmErrorKind = iota
	CsmAction
	CsmCausality
	CsmUncertain
)

func NewCsmForbidden(reason string) *CsmError {
	return &CsmError{Kind: CsmForbidden, Err: fmt.Errorf("forbidden: %s", reason)}
}

func NewCsmAction(err error) *CsmError {
	return &CsmError{Kind: CsmAction, Err: err}
}

func NewCsmCausality(err error) *CsmError {
	return &CsmError{Kind: CsmCausality, Err: err}
}

func NewCsmUncertain(err error) *CsmError {
	return &CsmError{Kind: CsmUncertain, Err: err}
}

func (e *CsmError) Error() string { return "CsmError: " + e.Err.Error() }

func (e *CsmError) Unwrap() error { return e.Err }
