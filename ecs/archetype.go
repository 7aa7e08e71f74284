package ecs

import (
	"reflect"
	"slices"
	"strings"
)

func sortTypes(types []reflect.Type) {
	slices.SortFunc(types, func(a, b reflect.Type) int {
		return strings.Compare(a.String(), b.String())
	})
}

// Archetype stores every entity that has exactly the same set of component types.
// Each component type gets its own column; an entity occupies the same slot in all of them.
type Archetype struct {
	id       uint32
	types    []reflect.Type
	storages []componentStorage
}

// NewArchetype creates a new archetype with the given ID and sorted component types.
// Panics if any type has not been registered.
func NewArchetype(id uint32, types []reflect.Type, registry *ComponentRegistry) *Archetype {
	a := &Archetype{
		id:       id,
		types:    types,
		storages: make([]componentStorage, len(types)),
	}

	for idx, typ := range types {
		factory := registry.getFactory(typ)
		if factory == nil {
			panic("component type " + typ.String() + " not registered")
		}
		a.storages[idx] = factory()
	}

	return a
}

// Spawn appends one component per column and returns the shared slot index.
// components must hold exactly one value (or pointer) per archetype type.
func (a *Archetype) Spawn(components []any) uint32 {
	slot := -1
	for _, comp := range components {
		idx := a.column(componentType(comp))
		if idx == -1 {
			panic("component type " + componentType(comp).String() + " is not part of archetype")
		}
		slot = a.storages[idx].Append(comp)
	}
	return uint32(slot)
}

func (a *Archetype) column(compType reflect.Type) int {
	for i, typ := range a.types {
		if typ == compType {
			return i
		}
	}
	return -1
}

// GetComponent returns a pointer to the component of the given type stored at entityIndex,
// or nil if the archetype does not carry that type or the slot is empty.
func (a *Archetype) GetComponent(entityIndex uint32, compType reflect.Type) any {
	idx := a.column(compType)
	if idx == -1 {
		return nil
	}
	return a.storages[idx].Get(int(entityIndex))
}

// Has reports whether the slot is occupied.
func (a *Archetype) Has(entityIndex uint32) bool {
	if len(a.storages) == 0 {
		return false
	}
	return a.storages[0].Has(int(entityIndex))
}

// Delete frees the slot in every column. Slot indices of other entities are unaffected.
func (a *Archetype) Delete(entityIndex uint32) {
	for _, storage := range a.storages {
		storage.Delete(int(entityIndex))
	}
}

// HasComponent checks if this archetype has the given component type
func (a *Archetype) HasComponent(compType reflect.Type) bool {
	return slices.Contains(a.types, compType)
}

// ID returns the archetype's unique identifier
func (a *Archetype) ID() uint32 {
	return a.id
}

// Types returns the sorted component types for this archetype
func (a *Archetype) Types() []reflect.Type {
	return a.types
}

// Len returns the number of live entities in the archetype.
func (a *Archetype) Len() int {
	if len(a.storages) == 0 {
		return 0
	}
	return a.storages[0].Len()
}

// Iter returns an iterator over all live EntityIds in this archetype
func (a *Archetype) Iter() func(yield func(EntityId) bool) {
	return func(yield func(EntityId) bool) {
		if len(a.storages) == 0 {
			return
		}

		for index := range a.storages[0].Iter() {
			if !yield(NewEntityId(a.id, uint32(index))) {
				return
			}
		}
	}
}
