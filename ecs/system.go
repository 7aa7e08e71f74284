package ecs

// System represents a behavior that operates on entities with specific components.
// Exported Query and Singleton fields are bound to the storage when the system is
// registered with a Scheduler. Other fields persist between ticks.
type System interface {
	Execute(frame *UpdateFrame)
}

// NamedSystem can be implemented by systems whose Go type name is not a useful
// label, e.g. generic systems instantiated many times.
type NamedSystem interface {
	Name() string
}
