package ecs

import (
	"reflect"
	"unsafe"
)

type singletonEntry struct {
	value   reflect.Value
	dataPtr unsafe.Pointer
}

// AddSingleton stores value as the singleton of its type, replacing any previous value.
// Existing Singleton accessors keep pointing at the same memory.
func (s *Storage) AddSingleton(value any) {
	t := componentType(value)
	v := reflect.Indirect(reflect.ValueOf(value))

	if entry, ok := s.singletons[t]; ok {
		entry.value.Elem().Set(v)
		return
	}

	ptr := reflect.New(t)
	ptr.Elem().Set(v)
	s.singletons[t] = &singletonEntry{
		value:   ptr,
		dataPtr: ptr.UnsafePointer(),
	}
}

// RemoveSingleton drops the singleton of type t. Accessors report it as missing afterwards.
func (s *Storage) RemoveSingleton(t reflect.Type) {
	delete(s.singletons, t)
}

func (s *Storage) getSingletonEntry(t reflect.Type) *singletonEntry {
	return s.singletons[t]
}

// Singleton provides efficient access to a single component instance
// that is not associated with any entity. Use this for global game state,
// configuration, or other singleton data.
type Singleton[T any] struct {
	storage *Storage
}

// NewSingleton creates a new Singleton accessor for the given storage.
// If the singleton does not exist yet it is created from initializer, or the zero
// value when no initializer is given.
func NewSingleton[T any](storage *Storage, initializer ...T) *Singleton[T] {
	if storage.getSingletonEntry(reflect.TypeFor[T]()) == nil {
		var value T
		if len(initializer) > 0 {
			value = initializer[0]
		}
		storage.AddSingleton(value)
	}
	return &Singleton[T]{storage: storage}
}

// Init binds the accessor to storage.
// This is called automatically by the Scheduler during system registration.
func (s *Singleton[T]) Init(storage *Storage) {
	s.storage = storage
}

// Get returns a pointer to the singleton component, or nil if it has not been added.
func (s *Singleton[T]) Get() *T {
	if s.storage == nil {
		return nil
	}
	entry := s.storage.getSingletonEntry(reflect.TypeFor[T]())
	if entry == nil {
		return nil
	}
	return (*T)(entry.dataPtr)
}

// Exists returns true if the singleton component has been added to storage
func (s *Singleton[T]) Exists() bool {
	return s.Get() != nil
}
