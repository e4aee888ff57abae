package graph

import "deepcausality/effect"

// toEvidence converts a produced EffectValue into the Evidence fed to the
// next node in a walk. Evidence and EffectValue are deliberately
// structurally parallel (both tag None/Deterministic/Numerical/
// Probabilistic) so this bridge is total: variants with no Evidence
// analogue (Halting, RelayTo, Payload, the uncertainty variants) become
// EvidenceNone, since a walk never calls toEvidence on a Halting or
// RelayTo result — both are handled before reaching this conversion.
func toEvidence[V any](ev effect.EffectValue[V]) effect.Evidence {
	if b, ok := ev.AsBool(); ok {
		return effect.NewEvidenceDeterministic(b)
	}
	if x, ok := ev.AsNumerical(); ok {
		return effect.NewEvidenceNumerical(x)
	}
	if p, ok := ev.AsProbability(); ok {
		return effect.NewEvidenceProbabilistic(p)
	}
	return effect.NewEvidenceNone()
}
