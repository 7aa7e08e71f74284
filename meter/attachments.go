package meter

import (
	"iter"

	"github.com/kamstrup/intmap"
)

// Entity identifies the owner of values held in an Attachments table.
type Entity uint64

// Attachments maps entities to at most one value of type T each. It is a minimal
// host for meters and effects when no ECS is in use.
type Attachments[T any] struct {
	items *intmap.Map[Entity, *T]
}

// NewAttachments creates an empty table sized for capacity entities.
func NewAttachments[T any](capacity int) *Attachments[T] {
	return &Attachments[T]{
		items: intmap.New[Entity, *T](capacity),
	}
}

// Attach stores value for e, replacing any previous value, and returns a pointer to
// the stored copy.
func (a *Attachments[T]) Attach(e Entity, value T) *T {
	ptr := &value
	a.items.Put(e, ptr)
	return ptr
}

// Detach removes e's value and reports whether there was one.
func (a *Attachments[T]) Detach(e Entity) bool {
	return a.items.Del(e)
}

// Get returns e's value, or nil.
func (a *Attachments[T]) Get(e Entity) *T {
	ptr, ok := a.items.Get(e)
	if !ok {
		return nil
	}
	return ptr
}

func (a *Attachments[T]) Has(e Entity) bool {
	return a.items.Has(e)
}

func (a *Attachments[T]) Len() int {
	return a.items.Len()
}

// All iterates over every entity and its value in unspecified order.
func (a *Attachments[T]) All() iter.Seq2[Entity, *T] {
	return a.items.All()
}

// Matched yields a Pair for every entity that holds both a meter in meters and an
// effect in effects. Entities with an effect but no meter are skipped.
func Matched[E EffectMarker[M], M Marker[F], F Numeric](
	meters *Attachments[Meter[M, F]],
	effects *Attachments[MeterEffect[E, M, F]],
) iter.Seq[Pair[E, M, F]] {
	return func(yield func(Pair[E, M, F]) bool) {
		for e, effect := range effects.All() {
			m := meters.Get(e)
			if m == nil {
				continue
			}
			if !yield(Pair[E, M, F]{Meter: m, Effect: effect}) {
				return
			}
		}
	}
}
