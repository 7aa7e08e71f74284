package meter

import "iter"

// Pair is one entity's meter together with an effect that targets it.
// Both are pointers into the host's storage, so applying mutates the entity in place.
type Pair[E EffectMarker[M], M Marker[F], F Numeric] struct {
	Meter  *Meter[M, F]
	Effect *MeterEffect[E, M, F]
}

// Apply adds every pair's effect into its meter once and returns how many pairs were
// applied. Pairs missing either side are skipped.
func Apply[E EffectMarker[M], M Marker[F], F Numeric](pairs iter.Seq[Pair[E, M, F]]) int {
	applied := 0
	for p := range pairs {
		if p.Meter == nil || p.Effect == nil {
			continue
		}
		p.Effect.ApplyTo(p.Meter)
		applied++
	}
	return applied
}
