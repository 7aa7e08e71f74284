// Package meter provides generic "metered" components: expendable numeric resources
// such as health, mana or stamina, and the effects that change them.
//
// Every kind of meter shares the same logic but is a distinct Go type. A kind is
// declared with an empty marker struct that embeds [Field] to pick the numeric type
// the meter tracks:
//
//	type HealthMarker struct{ meter.Field[int64] }
//
//	type Health = meter.Meter[HealthMarker, int64]
//
// Effects are declared the same way, with a marker that embeds [Targets] to name the
// meter kind they change:
//
//	type BurningMarker struct{ meter.Targets[HealthMarker] }
//
//	type Burning = meter.MeterEffect[BurningMarker, HealthMarker, int64]
//
// A Burning effect can only ever be paired with a Health meter; any other pairing
// fails to compile.
//
// Effects are applied by [Apply], which adds each effect's amount into its meter.
// An effect is never consumed or expired: it is applied again on every call for as
// long as it stays attached. Nothing clamps Current to [0, Max]; callers that want
// bounds call [Meter.Clamp] themselves.
//
// Matched pairs can come from the ecs package ([EffectSystem], [ApplyEffect]) or from
// plain entity-keyed tables ([Attachments], [Matched]).
package meter
