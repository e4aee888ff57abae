package effect

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"deepcausality/uncertain"
)

func TestEffectValuePredicatesAndExtractors(t *testing.T) {
	v := NumericalValue[int](3.14)
	assert.True(t, v.IsNumerical())
	x, ok := v.AsNumerical()
	assert.True(t, ok)
	assert.Equal(t, 3.14, x)

	_, ok = v.AsBool()
	assert.False(t, ok)
}

func TestEffectValuePayloadRoundtrip(t *testing.T) {
	v := PayloadValue(7)
	x, ok := v.AsPayload()
	assert.True(t, ok)
	assert.Equal(t, 7, x)
}

func TestEffectValueRelayTo(t *testing.T) {
	inner := Pure(5)
	v := RelayToValue(3, inner)
	idx, relayed, ok := v.AsRelay()
	assert.True(t, ok)
	assert.Equal(t, 3, idx)
	assert.Equal(t, inner.Value().DebugString(), relayed.Value().DebugString())
}

func TestEffectValueHaltingNeverEqual(t *testing.T) {
	a := HaltingValue[int]()
	b := HaltingValue[int]()
	assert.False(t, a.Equal(b))
}

func TestEffectValueEqual(t *testing.T) {
	a := DeterministicValue[int](true)
	b := DeterministicValue[int](true)
	c := DeterministicValue[int](false)
	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(c))
}

func TestEffectValueUncertainVariants(t *testing.T) {
	ub := UncertainBoolValue[int](uncertain.UncertainBool{ProbabilityTrue: 0.9})
	assert.True(t, ub.IsUncertainBool())
	got, ok := ub.AsUncertainBool()
	assert.True(t, ok)
	assert.Equal(t, 0.9, got.ProbabilityTrue)

	uf := UncertainFloatValue[int](uncertain.UncertainFloat{Value: 2.0})
	assert.True(t, uf.IsUncertainFloat())
}

func TestEffectValueDebugString(t *testing.T) {
	assert.Equal(t, "EffectValue::None", NoneValue[int]().DebugString())
	assert.Equal(t, "EffectValue::Halting", HaltingValue[int]().DebugString())
}
