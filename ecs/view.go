package ecs

import (
	"iter"
	"reflect"
	"unsafe"
)

// View matches entities against a struct of component pointers.
// Every field of T must be a pointer to a registered component type; embedded fields
// are always required, named fields can be marked with the `ecs:"optional"` tag.
type View[T any] struct {
	storage     *Storage
	types       []reflect.Type
	optional    []bool
	fieldOffset []uintptr
}

// NewView creates a new view for the given struct type. Panics if T is not a struct
// of pointers or carries an unknown ecs tag.
func NewView[T any](storage *Storage) *View[T] {
	structType := reflect.TypeFor[T]()
	if structType.Kind() != reflect.Struct {
		panic("View type parameter must be a struct")
	}

	n := structType.NumField()
	v := &View[T]{
		storage:     storage,
		types:       make([]reflect.Type, 0, n),
		optional:    make([]bool, 0, n),
		fieldOffset: make([]uintptr, 0, n),
	}

	for i := 0; i < n; i++ {
		field := structType.Field(i)
		if field.Type.Kind() != reflect.Ptr {
			panic("View struct fields must be pointer types")
		}

		isOptional := false
		if tag := field.Tag.Get("ecs"); tag != "" && !field.Anonymous {
			if tag != "optional" {
				panic("invalid ecs tag value: \"" + tag + "\" (only \"optional\" is supported)")
			}
			isOptional = true
		}

		v.types = append(v.types, field.Type.Elem())
		v.optional = append(v.optional, isOptional)
		v.fieldOffset = append(v.fieldOffset, field.Offset)
	}

	return v
}

// fill populates ptr with the entity's components.
// Returns false if the entity is missing any required component; missing optional
// components are left nil.
func (v *View[T]) fill(id EntityId, ptr *T) bool {
	archetype, ok := v.storage.archetypes[id.ArchetypeId()]
	if !ok || !archetype.Has(id.Index()) {
		return false
	}
	return v.populateResult(unsafe.Pointer(ptr), archetype, int(id.Index()), v.buildStorageIndices(archetype))
}

// Get returns a populated view struct for the given entity, or nil if the entity
// doesn't have all the required components
func (v *View[T]) Get(id EntityId) *T {
	var result T
	if !v.fill(id, &result) {
		return nil
	}
	return &result
}

// matchesArchetype checks that every required type is present in the archetype.
func (v *View[T]) matchesArchetype(archetype *Archetype) bool {
	for i, requiredType := range v.types {
		if v.optional[i] {
			continue
		}
		if !archetype.HasComponent(requiredType) {
			return false
		}
	}
	return true
}

// buildStorageIndices maps each view field to its column in archetype, -1 when absent.
func (v *View[T]) buildStorageIndices(archetype *Archetype) []int {
	storageIndices := make([]int, len(v.types))
	for i, componentType := range v.types {
		storageIndices[i] = archetype.column(componentType)
	}
	return storageIndices
}

func (v *View[T]) populateResult(resultPtr unsafe.Pointer, archetype *Archetype, entityIndex int, storageIndices []int) bool {
	for i, storageIdx := range storageIndices {
		fieldPtr := unsafe.Pointer(uintptr(resultPtr) + v.fieldOffset[i])

		var component any
		if storageIdx != -1 {
			component = archetype.storages[storageIdx].Get(entityIndex)
		}

		if component == nil {
			if !v.optional[i] {
				return false
			}
			*(*unsafe.Pointer)(fieldPtr) = nil
			continue
		}

		*(*unsafe.Pointer)(fieldPtr) = dataPointer(component)
	}
	return true
}

func (v *View[T]) iterArchetype(archetype *Archetype) iter.Seq2[EntityId, T] {
	return func(yield func(EntityId, T) bool) {
		if len(archetype.storages) == 0 {
			return
		}

		storageIndices := v.buildStorageIndices(archetype)

		var result T
		resultPtr := unsafe.Pointer(&result)

		for entityIndex := range archetype.storages[0].Iter() {
			if !v.populateResult(resultPtr, archetype, entityIndex, storageIndices) {
				continue
			}
			if !yield(NewEntityId(archetype.id, uint32(entityIndex)), result) {
				return
			}
		}
	}
}

// Iter returns an iterator over all entities that have the view's required components.
// Archetype order is unspecified.
func (v *View[T]) Iter() iter.Seq2[EntityId, T] {
	return func(yield func(EntityId, T) bool) {
		for _, archetype := range v.storage.archetypes {
			if !v.matchesArchetype(archetype) {
				continue
			}
			for id, item := range v.iterArchetype(archetype) {
				if !yield(id, item) {
					return
				}
			}
		}
	}
}

// Values returns an iterator over just the view structs (without entity IDs)
func (v *View[T]) Values() iter.Seq[T] {
	return func(yield func(T) bool) {
		for _, value := range v.Iter() {
			if !yield(value) {
				return
			}
		}
	}
}
