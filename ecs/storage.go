package ecs

import (
	"reflect"
	"unsafe"
)

// Storage is the main ECS storage interface. It owns every archetype and singleton.
type Storage struct {
	archetypes map[uint32]*Archetype
	registry   *ComponentRegistry
	singletons map[reflect.Type]*singletonEntry
}

// NewStorage creates a new ECS storage system with the given component registry
func NewStorage(registry *ComponentRegistry) *Storage {
	return &Storage{
		archetypes: make(map[uint32]*Archetype),
		registry:   registry,
		singletons: make(map[reflect.Type]*singletonEntry),
	}
}

// Registry returns the component registry the storage was created with.
func (s *Storage) Registry() *ComponentRegistry {
	return s.registry
}

func (s *Storage) archetypeFor(types []reflect.Type) *Archetype {
	id := hashTypesToUint32(types)
	archetype, exists := s.archetypes[id]
	if !exists {
		archetype = NewArchetype(id, types, s.registry)
		s.archetypes[id] = archetype
	}
	return archetype
}

// Spawn creates a new entity with the provided components
func (s *Storage) Spawn(components ...any) EntityId {
	if len(components) == 0 {
		panic("cannot spawn entity without components")
	}

	archetype := s.archetypeFor(extractComponentTypes(components))
	entityIndex := archetype.Spawn(components)
	return NewEntityId(archetype.id, entityIndex)
}

// Alive reports whether id refers to an occupied slot.
func (s *Storage) Alive(id EntityId) bool {
	archetype, ok := s.archetypes[id.ArchetypeId()]
	if !ok {
		return false
	}
	return archetype.Has(id.Index())
}

// Delete removes all data related to the entity ID
func (s *Storage) Delete(id EntityId) {
	archetype, ok := s.archetypes[id.ArchetypeId()]
	if !ok {
		return
	}
	archetype.Delete(id.Index())
}

// AddComponent attaches component to the entity and returns its new ID.
// If the entity already has a component of that type, the value is replaced in place
// and the ID does not change. Returns 0 if the entity is not alive.
func (s *Storage) AddComponent(id EntityId, component any) EntityId {
	if !s.Alive(id) {
		return 0
	}
	oldArchetype := s.archetypes[id.ArchetypeId()]
	compType := componentType(component)

	if oldArchetype.HasComponent(compType) {
		dst := oldArchetype.GetComponent(id.Index(), compType)
		reflect.ValueOf(dst).Elem().Set(reflect.Indirect(reflect.ValueOf(component)))
		return id
	}

	newTypes := make([]reflect.Type, 0, len(oldArchetype.types)+1)
	newTypes = append(newTypes, oldArchetype.types...)
	newTypes = append(newTypes, compType)
	sortTypes(newTypes)

	components := make([]any, 0, len(newTypes))
	for _, typ := range newTypes {
		if typ == compType {
			components = append(components, component)
		} else {
			components = append(components, oldArchetype.GetComponent(id.Index(), typ))
		}
	}

	return s.move(id, oldArchetype, newTypes, components)
}

// RemoveComponent detaches the component type from the entity and returns its new ID.
// Removing the last component deletes the entity and returns 0. Removing a type the
// entity does not have is a no-op.
func (s *Storage) RemoveComponent(id EntityId, compType reflect.Type) EntityId {
	if !s.Alive(id) {
		return 0
	}
	oldArchetype := s.archetypes[id.ArchetypeId()]
	if !oldArchetype.HasComponent(compType) {
		return id
	}

	newTypes := make([]reflect.Type, 0, len(oldArchetype.types)-1)
	for _, typ := range oldArchetype.types {
		if typ != compType {
			newTypes = append(newTypes, typ)
		}
	}

	if len(newTypes) == 0 {
		oldArchetype.Delete(id.Index())
		return 0
	}

	components := make([]any, 0, len(newTypes))
	for _, typ := range newTypes {
		components = append(components, oldArchetype.GetComponent(id.Index(), typ))
	}

	return s.move(id, oldArchetype, newTypes, components)
}

func (s *Storage) move(id EntityId, from *Archetype, types []reflect.Type, components []any) EntityId {
	to := s.archetypeFor(types)
	newIndex := to.Spawn(components)
	from.Delete(id.Index())
	return NewEntityId(to.id, newIndex)
}

// GetComponent returns the component for the given entity ID and component type
func (s *Storage) GetComponent(id EntityId, compType reflect.Type) any {
	archetype, ok := s.archetypes[id.ArchetypeId()]
	if !ok {
		return nil
	}
	return archetype.GetComponent(id.Index(), compType)
}

// HasComponent checks if a live entity has a specific component type
func (s *Storage) HasComponent(id EntityId, compType reflect.Type) bool {
	archetype, ok := s.archetypes[id.ArchetypeId()]
	if !ok || !archetype.Has(id.Index()) {
		return false
	}
	return archetype.HasComponent(compType)
}

// Archetypes returns an iterator over every archetype created so far.
func (s *Storage) Archetypes() func(yield func(*Archetype) bool) {
	return func(yield func(*Archetype) bool) {
		for _, archetype := range s.archetypes {
			if !yield(archetype) {
				return
			}
		}
	}
}

func componentType(component any) reflect.Type {
	t := reflect.TypeOf(component)
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t
}

// extractComponentTypes extracts and sorts component types from a slice of components
func extractComponentTypes(components []any) []reflect.Type {
	types := make([]reflect.Type, 0, len(components))
	for _, comp := range components {
		compType := componentType(comp)

		// Components can be structs or primitives, but not reference-like kinds.
		switch compType.Kind() {
		case reflect.Ptr, reflect.Map, reflect.Chan, reflect.Func:
			panic("components cannot be pointers, maps, channels, or functions")
		}

		for _, seen := range types {
			if seen == compType {
				panic("duplicate component type " + compType.String())
			}
		}
		types = append(types, compType)
	}
	sortTypes(types)
	return types
}

// hashTypesToUint32 generates a uint32 FNV-1a hash for a sorted slice of types
func hashTypesToUint32(types []reflect.Type) uint32 {
	var h uint32 = 2166136261
	const prime uint32 = 16777619

	for _, t := range types {
		// The rtype pointer uniquely identifies a type for the life of the process.
		ptr := uintptr(dataPointer(t))
		val := uint32(ptr)
		if unsafe.Sizeof(uintptr(0)) == 8 {
			val ^= uint32(uint64(ptr) >> 32)
		}

		h ^= val
		h *= prime
	}

	return h
}

type ComponentReader interface {
	GetComponent(EntityId, reflect.Type) any
}

// ReadComponent returns a typed pointer to the entity's component, or nil if absent.
func ReadComponent[T any](reader ComponentReader, entityId EntityId) *T {
	comp, _ := reader.GetComponent(entityId, reflect.TypeFor[T]()).(*T)
	return comp
}
