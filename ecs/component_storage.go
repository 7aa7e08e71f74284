package ecs

import (
	"iter"
	"reflect"
)

// componentStorage is a type-erased column of components belonging to one archetype.
type componentStorage interface {
	Append(item any) int
	Delete(index int)
	Get(index int) any
	Has(index int) bool
	Len() int
	Iter() iter.Seq[int]
}

// ComponentRegistry manages component type registration for an ECS instance.
// Each Storage has its own registry, so independent worlds can coexist.
type ComponentRegistry struct {
	factories map[reflect.Type]func() componentStorage
}

// NewComponentRegistry creates a new component registry.
func NewComponentRegistry() *ComponentRegistry {
	return &ComponentRegistry{
		factories: make(map[reflect.Type]func() componentStorage),
	}
}

// RegisterComponent registers a component type with the given registry.
// This must be called for each component type before it can be spawned.
// Registering the same type twice is a no-op.
func RegisterComponent[T any](r *ComponentRegistry) {
	t := reflect.TypeFor[T]()
	if _, ok := r.factories[t]; ok {
		return
	}
	r.factories[t] = func() componentStorage {
		return &blockStorage[T]{}
	}
}

func (r *ComponentRegistry) getFactory(t reflect.Type) func() componentStorage {
	return r.factories[t]
}

const blockSize = 64

// blockStorage stores components of type T in fixed-size blocks so that pointers
// handed out by Get stay valid while the column grows.
type blockStorage[T any] struct {
	blocks    []*[blockSize]T
	filled    []*[blockSize]bool
	freeSlots []int
	nextIndex int
	count     int
}

func (cs *blockStorage[T]) slot(index int) (int, int) {
	return index / blockSize, index % blockSize
}

// Append adds a component (T or *T) and returns its slot, or -1 for a foreign type.
func (cs *blockStorage[T]) Append(item any) int {
	var value T
	switch v := item.(type) {
	case *T:
		value = *v
	case T:
		value = v
	default:
		return -1
	}

	var index int
	if n := len(cs.freeSlots); n > 0 {
		index = cs.freeSlots[n-1]
		cs.freeSlots = cs.freeSlots[:n-1]
	} else {
		index = cs.nextIndex
		cs.nextIndex++
	}

	b, s := cs.slot(index)
	for b >= len(cs.blocks) {
		cs.blocks = append(cs.blocks, new([blockSize]T))
		cs.filled = append(cs.filled, new([blockSize]bool))
	}

	cs.blocks[b][s] = value
	cs.filled[b][s] = true
	cs.count++
	return index
}

// Get returns a *T for the slot, or nil when the slot is empty.
func (cs *blockStorage[T]) Get(index int) any {
	if !cs.Has(index) {
		return nil
	}
	b, s := cs.slot(index)
	return &cs.blocks[b][s]
}

func (cs *blockStorage[T]) Delete(index int) {
	if !cs.Has(index) {
		return
	}
	b, s := cs.slot(index)
	var zero T
	cs.blocks[b][s] = zero
	cs.filled[b][s] = false
	cs.freeSlots = append(cs.freeSlots, index)
	cs.count--
}

func (cs *blockStorage[T]) Has(index int) bool {
	if index < 0 {
		return false
	}
	b, s := cs.slot(index)
	if b >= len(cs.filled) {
		return false
	}
	return cs.filled[b][s]
}

func (cs *blockStorage[T]) Len() int {
	return cs.count
}

// Iter yields the occupied slots in ascending order.
func (cs *blockStorage[T]) Iter() iter.Seq[int] {
	return func(yield func(int) bool) {
		for i := 0; i < cs.nextIndex; i++ {
			b, s := cs.slot(i)
			if !cs.filled[b][s] {
				continue
			}
			if !yield(i) {
				return
			}
		}
	}
}
