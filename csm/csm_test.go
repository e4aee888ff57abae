package csm_test

import (
	"errors"
	"testing"

	"deepcausality/causaloid"
	"deepcausality/config"
	"deepcausality/csm"
	"deepcausality/effect"
	"deepcausality/uncertain"

	"github.com/stretchr/testify/assert"
)

// thresholdCausaloid builds a singleton that reads a Numerical evidence
// value and reports Deterministic(true) once it meets threshold.
func thresholdCausaloid(id int, threshold float64) *causaloid.Causaloid[int] {
	return causaloid.New[int](id, func(e effect.Evidence) (effect.PropagatingEffect[int], error) {
		x, ok := e.AsNumerical()
		if !ok {
			return effect.PropagatingEffect[int]{}, errors.New("evidence is not numerical")
		}
		return effect.FromBoolean[int](x >= threshold), nil
	}, "threshold causaloid")
}

// uncertainBoolCausaloid ignores its evidence and always reports the same
// UncertainBool verdict, so a test can drive it purely through thresholds.
func uncertainBoolCausaloid(id int, probabilityTrue float64) *causaloid.Causaloid[int] {
	return causaloid.New[int](id, func(_ effect.Evidence) (effect.PropagatingEffect[int], error) {
		return effect.FromEffectValue(effect.UncertainBoolValue[int](uncertain.UncertainBool{ProbabilityTrue: probabilityTrue})), nil
	}, "uncertain bool causaloid")
}

// uncertainFloatCausaloid ignores its evidence and always reports the same
// UncertainFloat verdict.
func uncertainFloatCausaloid(id int, value float64) *causaloid.Causaloid[int] {
	return causaloid.New[int](id, func(_ effect.Evidence) (effect.PropagatingEffect[int], error) {
		return effect.FromEffectValue(effect.UncertainFloatValue[int](uncertain.UncertainFloat{Value: value})), nil
	}, "uncertain float causaloid")
}

func erroringCausaloid(id int) *causaloid.Causaloid[int] {
	return causaloid.New[int](id, func(e effect.Evidence) (effect.PropagatingEffect[int], error) {
		return effect.PropagatingEffect[int]{}, errors.New("boom")
	}, "always errors")
}

func namedAction(name string, fired *[]string) csm.CausalAction {
	return func(_ uncertain.ActionParameterValue) error {
		*fired = append(*fired, name)
		return nil
	}
}

// TestSmokeFireExplosion exercises the canonical three-state smoke/fire/
// explosion scenario: ascending Numerical thresholds, each paired with an
// action that only fires when its own state's verdict is active.
func TestSmokeFireExplosion(t *testing.T) {
	var fired []string

	smoke := csm.NewCausalState(1, thresholdCausaloid(1, 65.0))
	fire := csm.NewCausalState(2, thresholdCausaloid(2, 85.0))
	explosion := csm.NewCausalState(3, thresholdCausaloid(3, 100.0))

	m, err := csm.New[int](
		csm.StatePair[int]{State: smoke, Action: namedAction("smoke", &fired)},
		csm.StatePair[int]{State: fire, Action: namedAction("fire", &fired)},
		csm.StatePair[int]{State: explosion, Action: namedAction("explosion", &fired)},
	)
	assert.NoError(t, err)

	err = m.EvalSingleState(1, effect.NewEvidenceNumerical(66.0))
	assert.NoError(t, err)
	assert.Equal(t, []string{"smoke"}, fired)

	fired = nil
	err = m.EvalSingleState(3, effect.NewEvidenceNumerical(50.0))
	assert.NoError(t, err)
	assert.Empty(t, fired)

	err = m.EvalSingleState(4, effect.NewEvidenceNumerical(66.0))
	assert.Error(t, err)
}

func TestAddSingleStateRejectsDuplicateID(t *testing.T) {
	s1 := csm.NewCausalState(1, thresholdCausaloid(1, 65.0))
	m, err := csm.New[int](csm.StatePair[int]{State: s1, Action: nil})
	assert.NoError(t, err)

	dup := csm.NewCausalState(1, thresholdCausaloid(1, 90.0))
	err = m.AddSingleState(dup, nil)
	assert.Error(t, err)
}

func TestUpdateSingleStateRequiresExistingID(t *testing.T) {
	m, err := csm.New[int]()
	assert.NoError(t, err)

	s := csm.NewCausalState(9, thresholdCausaloid(9, 65.0))
	err = m.UpdateSingleState(s, nil)
	assert.Error(t, err)

	assert.NoError(t, m.AddSingleState(s, nil))
	assert.NoError(t, m.UpdateSingleState(csm.NewCausalStateVersioned(9, 2, thresholdCausaloid(9, 70.0)), nil))
}

func TestNewRejectsDuplicateIDsInInitializer(t *testing.T) {
	s1 := csm.NewCausalState(1, thresholdCausaloid(1, 65.0))
	s2 := csm.NewCausalState(1, thresholdCausaloid(1, 90.0))
	_, err := csm.New[int](
		csm.StatePair[int]{State: s1, Action: nil},
		csm.StatePair[int]{State: s2, Action: nil},
	)
	assert.Error(t, err)
}

func TestEvalAllStatesAggregatesFailures(t *testing.T) {
	boom := csm.NewCausalState(1, erroringCausaloid(1))
	ok := csm.NewCausalState(2, thresholdCausaloid(2, 65.0))

	m, err := csm.New[int](
		csm.StatePair[int]{State: boom, Action: nil},
		csm.StatePair[int]{State: ok, Action: nil},
	)
	assert.NoError(t, err)

	err = m.EvalAllStates(effect.NewEvidenceNumerical(66.0))
	assert.Error(t, err)
}

func TestUpdateAllStatesReplacesMap(t *testing.T) {
	var fired []string

	s1 := csm.NewCausalState(1, thresholdCausaloid(1, 65.0))
	m, err := csm.New[int](csm.StatePair[int]{State: s1, Action: nil})
	assert.NoError(t, err)

	s2 := csm.NewCausalState(2, thresholdCausaloid(2, 10.0))
	assert.NoError(t, m.UpdateAllStates(csm.StatePair[int]{State: s2, Action: namedAction("s2", &fired)}))

	// The old state 1 no longer exists after the atomic replace.
	assert.Error(t, m.EvalSingleState(1, effect.NewEvidenceNumerical(66.0)))

	assert.NoError(t, m.EvalSingleState(2, effect.NewEvidenceNumerical(50.0)))
	assert.Equal(t, []string{"s2"}, fired)
}

// TestUncertainBoolVerdictUsesConfigDerivedThreshold confirms EvalSingleState
// falls back to Config.Uncertainty's default probability threshold when no
// explicit UncertainParameter was set via WithUncertaintyParams.
func TestUncertainBoolVerdictUsesConfigDerivedThreshold(t *testing.T) {
	var fired []string
	s := csm.NewCausalState(1, uncertainBoolCausaloid(1, 0.7))

	m, err := csm.New[int](csm.StatePair[int]{State: s, Action: namedAction("fired", &fired)})
	assert.NoError(t, err)

	cfg := config.Default()
	cfg.Uncertainty.DefaultProbabilityThreshold = 0.8
	m.WithConfig(cfg)

	assert.NoError(t, m.EvalSingleState(1, effect.NewEvidenceNumerical(0)))
	assert.Empty(t, fired, "0.7 probability should not clear an 0.8 config threshold")

	cfg2 := config.Default()
	cfg2.Uncertainty.DefaultProbabilityThreshold = 0.6
	m.WithConfig(cfg2)

	assert.NoError(t, m.EvalSingleState(1, effect.NewEvidenceNumerical(0)))
	assert.Equal(t, []string{"fired"}, fired, "0.7 probability should clear an 0.6 config threshold")
}

// TestUncertainBoolVerdictExplicitParamsOverrideConfig confirms an explicit
// WithUncertaintyParams call wins over any Config default.
func TestUncertainBoolVerdictExplicitParamsOverrideConfig(t *testing.T) {
	var fired []string
	s := csm.NewCausalState(1, uncertainBoolCausaloid(1, 0.7))

	m, err := csm.New[int](csm.StatePair[int]{State: s, Action: namedAction("fired", &fired)})
	assert.NoError(t, err)

	cfg := config.Default()
	cfg.Uncertainty.DefaultProbabilityThreshold = 0.5
	m.WithConfig(cfg)
	m.WithUncertaintyParams(&uncertain.UncertainParameter{ProbabilityThreshold: 0.95})

	assert.NoError(t, m.EvalSingleState(1, effect.NewEvidenceNumerical(0)))
	assert.Empty(t, fired, "explicit 0.95 threshold should override the 0.5 config default")
}

// TestUncertainFloatVerdictUsesConfigDerivedThreshold exercises the
// UncertainFloat CsmEvaluable path the same way, against the config's
// DefaultValueThreshold.
func TestUncertainFloatVerdictUsesConfigDerivedThreshold(t *testing.T) {
	var fired []string
	s := csm.NewCausalState(1, uncertainFloatCausaloid(1, 42.0))

	m, err := csm.New[int](csm.StatePair[int]{State: s, Action: namedAction("fired", &fired)})
	assert.NoError(t, err)

	cfg := config.Default()
	cfg.Uncertainty.DefaultValueThreshold = 50.0
	m.WithConfig(cfg)

	assert.NoError(t, m.EvalSingleState(1, effect.NewEvidenceNumerical(0)))
	assert.Empty(t, fired, "42.0 value should not clear a 50.0 config threshold")

	cfg2 := config.Default()
	cfg2.Uncertainty.DefaultValueThreshold = 40.0
	m.WithConfig(cfg2)

	assert.NoError(t, m.EvalSingleState(1, effect.NewEvidenceNumerical(0)))
	assert.Equal(t, []string{"fired"}, fired, "42.0 value should clear a 40.0 config threshold")
}
