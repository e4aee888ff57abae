package effect

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPureAndNone(t *testing.T) {
	p := Pure(10)
	x, ok := p.Value().AsPayload()
	assert.True(t, ok)
	assert.Equal(t, 10, x)
	assert.False(t, p.HasError())

	n := None[int]()
	assert.True(t, n.Value().IsNone())
}

func TestFromErrorShortCircuitsBind(t *testing.T) {
	p := FromError[int](errors.New("boom"))
	called := false
	out := p.Bind(func(v EffectValue[int], state, ctx interface{}) PropagatingEffect[int] {
		called = true
		return Pure(1)
	})
	assert.False(t, called)
	assert.True(t, out.HasError())
	assert.Equal(t, "boom", out.Err().Error())
}

func TestBindAppendsLogs(t *testing.T) {
	p := Pure(1).Log("start")
	out := p.Bind(func(v EffectValue[int], state, ctx interface{}) PropagatingEffect[int] {
		return Pure(2).Log("stepped")
	})
	entries := out.LogEntries()
	assert.Equal(t, []string{"start", "stepped"}, entries)
	x, _ := out.Value().AsPayload()
	assert.Equal(t, 2, x)
}

func TestFmapTransformsValueOnly(t *testing.T) {
	p := FromNumerical[int](2).Log("logged")
	out := p.Fmap(func(ev EffectValue[int]) EffectValue[int] {
		x, _ := ev.AsNumerical()
		return NumericalValue[int](x * 2)
	})
	x, ok := out.Value().AsNumerical()
	assert.True(t, ok)
	assert.Equal(t, 4.0, x)
	assert.Equal(t, []string{"logged"}, out.LogEntries())
}

func TestFmapSkipsOnError(t *testing.T) {
	p := FromError[int](errors.New("fail"))
	out := p.Fmap(func(ev EffectValue[int]) EffectValue[int] {
		t.Fatal("must not be called")
		return ev
	})
	assert.True(t, out.HasError())
}

func TestExplainFormat(t *testing.T) {
	p := FromBoolean[int](true).Log("checked threshold", "passed")
	got := p.Explain()
	want := "Final Value: EffectValue::Deterministic(true)\n--- Logs ---\nchecked threshold\npassed"
	assert.Equal(t, want, got)
}

func TestExplainWithError(t *testing.T) {
	p := FromError[int](errors.New("boom"))
	got := p.Explain()
	want := "Final Value: EffectValue::None\nError: boom"
	assert.Equal(t, want, got)
}

func TestRelayConstructor(t *testing.T) {
	r := Relay(4, Pure(9))
	idx, relayed, ok := r.Value().AsRelay()
	assert.True(t, ok)
	assert.Equal(t, 4, idx)
	x, _ := relayed.Value().AsPayload()
	assert.Equal(t, 9, x)
}
