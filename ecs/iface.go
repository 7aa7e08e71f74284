package ecs

import "unsafe"

// iface represents the internal memory layout of an interface{}.
type iface struct {
	typ  unsafe.Pointer
	data unsafe.Pointer
}

// dataPointer returns the data word of v without copying the value it points at.
func dataPointer(v any) unsafe.Pointer {
	return (*iface)(unsafe.Pointer(&v)).data
}
