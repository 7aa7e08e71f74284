package ecs

import "reflect"

// Commands provides a buffer for deferred ECS operations that are executed at the end of a tick.
// This prevents structural changes to the ECS storage during system execution.
type Commands struct {
	spawns  []spawnCommand
	deletes []EntityId
	adds    []addComponentCommand
	removes []removeComponentCommand
	defers  []func()
}

func newCommands() *Commands {
	return &Commands{}
}

type spawnCommand struct {
	components []any
}

type addComponentCommand struct {
	entity    EntityId
	component any
}

type removeComponentCommand struct {
	entity   EntityId
	compType reflect.Type
}

// Defer queues a function to run after all other commands have been applied.
func (c *Commands) Defer(fn func()) {
	c.defers = append(c.defers, fn)
}

// Spawn queues an entity spawn operation with the given components.
func (c *Commands) Spawn(components ...any) {
	c.spawns = append(c.spawns, spawnCommand{components: components})
}

// Delete queues an entity deletion operation.
func (c *Commands) Delete(entity EntityId) {
	c.deletes = append(c.deletes, entity)
}

// AddComponent queues a component addition operation.
func (c *Commands) AddComponent(entity EntityId, component any) {
	c.adds = append(c.adds, addComponentCommand{
		entity:    entity,
		component: component,
	})
}

// RemoveComponent queues a component removal operation.
func (c *Commands) RemoveComponent(entity EntityId, compType reflect.Type) {
	c.removes = append(c.removes, removeComponentCommand{
		entity:   entity,
		compType: compType,
	})
}

// Pending reports the number of queued operations.
func (c *Commands) Pending() int {
	return len(c.spawns) + len(c.deletes) + len(c.adds) + len(c.removes) + len(c.defers)
}

// Flush applies all commands to the provided storage and resets the buffer.
// Order: deletes, adds, removes, spawns, defers. Adds go first so that swapping an
// entity's only component within one tick does not delete the entity. Adds and removes
// aimed at an entity that moved archetype earlier in the same flush follow it to its
// new ID.
func (c *Commands) Flush(storage *Storage) {
	deleted := make(map[EntityId]bool, len(c.deletes))
	moved := make(map[EntityId]EntityId)

	resolve := func(id EntityId) EntityId {
		if current, ok := moved[id]; ok {
			return current
		}
		return id
	}

	for _, id := range c.deletes {
		storage.Delete(id)
		deleted[id] = true
	}

	for _, cmd := range c.adds {
		if deleted[cmd.entity] {
			continue
		}
		current := resolve(cmd.entity)
		moved[cmd.entity] = storage.AddComponent(current, cmd.component)
	}

	for _, cmd := range c.removes {
		if deleted[cmd.entity] {
			continue
		}
		current := resolve(cmd.entity)
		moved[cmd.entity] = storage.RemoveComponent(current, cmd.compType)
	}

	for _, cmd := range c.spawns {
		storage.Spawn(cmd.components...)
	}

	for _, fn := range c.defers {
		fn()
	}

	c.spawns = c.spawns[:0]
	c.deletes = c.deletes[:0]
	c.adds = c.adds[:0]
	c.removes = c.removes[:0]
	c.defers = c.defers[:0]
}
