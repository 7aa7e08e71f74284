package meter

import (
	"reflect"

	"github.com/plus3/meters/ecs"
)

// Register adds the meter kind M to the registry so it can be attached to entities.
func Register[M Marker[F], F Numeric](r *ecs.ComponentRegistry) {
	ecs.RegisterComponent[Meter[M, F]](r)
}

// RegisterEffect adds the effect kind E to the registry so it can be attached to entities.
func RegisterEffect[E EffectMarker[M], M Marker[F], F Numeric](r *ecs.ComponentRegistry) {
	ecs.RegisterComponent[MeterEffect[E, M, F]](r)
}

// EffectType returns the component type of effect kind E, for use with
// Commands.RemoveComponent and Storage.RemoveComponent.
func EffectType[E EffectMarker[M], M Marker[F], F Numeric]() reflect.Type {
	return reflect.TypeFor[MeterEffect[E, M, F]]()
}

// EffectSystem applies effect kind E to the M meter of every entity that carries both,
// once per scheduler tick. Entities holding only one of the two are skipped.
type EffectSystem[E EffectMarker[M], M Marker[F], F Numeric] struct {
	Pairs ecs.Query[Pair[E, M, F]]

	// Applied is the number of pairs applied during the last tick.
	Applied int
	// Total is the number of pairs applied since registration.
	Total int64
}

// NewEffectSystem returns an unbound system; the Scheduler binds it on Register.
func NewEffectSystem[E EffectMarker[M], M Marker[F], F Numeric]() *EffectSystem[E, M, F] {
	return &EffectSystem[E, M, F]{}
}

func (s *EffectSystem[E, M, F]) Execute(frame *ecs.UpdateFrame) {
	s.Applied = Apply(s.Pairs.Values())
	s.Total += int64(s.Applied)
}

// Name labels the system by its effect and meter kinds in scheduler statistics.
func (s *EffectSystem[E, M, F]) Name() string {
	return "EffectSystem[" + reflect.TypeFor[E]().Name() + "->" + reflect.TypeFor[M]().Name() + "]"
}

// ApplyEffect runs the update routine for effect kind E once over storage, outside of
// any scheduler, and returns how many entities were updated.
func ApplyEffect[E EffectMarker[M], M Marker[F], F Numeric](storage *ecs.Storage) int {
	return Apply(ecs.NewView[Pair[E, M, F]](storage).Values())
}
