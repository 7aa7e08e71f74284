package meter_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plus3/meters/ecs"
	"github.com/plus3/meters/meter"
)

// curingSystem applies nothing itself; it removes the burning effect from one entity
// after the tick it runs in, turning the effect into a one-shot.
type curingSystem struct {
	entity ecs.EntityId
}

func (s *curingSystem) Execute(frame *ecs.UpdateFrame) {
	frame.Commands.RemoveComponent(s.entity, meter.EffectType[burningMarker, healthMarker, int64]())
}

func health(t *testing.T, storage *ecs.Storage, id ecs.EntityId) int64 {
	t.Helper()
	h := ecs.ReadComponent[Health](storage, id)
	require.NotNil(t, h, "entity %d has no health meter", id)
	return h.Current
}

func TestEffectSystem(t *testing.T) {
	registry := newTestRegistry()

	t.Run("damage over time then detach", func(t *testing.T) {
		storage := ecs.NewStorage(registry)
		scheduler := ecs.NewScheduler(storage)
		scheduler.Register(meter.NewEffectSystem[burningMarker, healthMarker, int64]())

		id := storage.Spawn(newHealth(100), newBurning(-5))
		assert.Equal(t, int64(100), health(t, storage, id))

		scheduler.Once(1.0)
		assert.Equal(t, int64(95), health(t, storage, id))

		scheduler.Once(1.0)
		assert.Equal(t, int64(90), health(t, storage, id))

		id = storage.RemoveComponent(id, meter.EffectType[burningMarker, healthMarker, int64]())
		require.NotZero(t, id)

		scheduler.Once(1.0)
		assert.Equal(t, int64(90), health(t, storage, id))
		assert.Equal(t, int64(100), ecs.ReadComponent[Health](storage, id).Max)
	})

	t.Run("effect is not consumed", func(t *testing.T) {
		storage := ecs.NewStorage(registry)
		scheduler := ecs.NewScheduler(storage)
		system := meter.NewEffectSystem[burningMarker, healthMarker, int64]()
		scheduler.Register(system)

		id := storage.Spawn(newHealth(100), newBurning(-3))
		for range 10 {
			scheduler.Once(1.0)
		}

		assert.Equal(t, int64(70), health(t, storage, id))
		assert.Equal(t, int64(-3), ecs.ReadComponent[Burning](storage, id).Amount)
		assert.Equal(t, 1, system.Applied)
		assert.Equal(t, int64(10), system.Total)
	})

	t.Run("unrelated kinds on the same entity do not interfere", func(t *testing.T) {
		storage := ecs.NewStorage(registry)
		scheduler := ecs.NewScheduler(storage)
		scheduler.Register(meter.NewEffectSystem[burningMarker, healthMarker, int64]())
		scheduler.Register(meter.NewEffectSystem[drainMarker, manaMarker, int32]())

		// Burning can only target health and Drain only mana; the reverse pairings
		// do not compile, so the check here is that each system leaves the other kind alone.
		both := storage.Spawn(newHealth(100), newMana(50), newDrain(-10))
		burningOnly := storage.Spawn(newHealth(100), newMana(50), newBurning(-1))

		scheduler.Once(1.0)
		scheduler.Once(1.0)

		assert.Equal(t, int64(100), health(t, storage, both))
		assert.Equal(t, int32(30), ecs.ReadComponent[Mana](storage, both).Current)
		assert.Equal(t, int64(98), health(t, storage, burningOnly))
		assert.Equal(t, int32(50), ecs.ReadComponent[Mana](storage, burningOnly).Current)
	})

	t.Run("effects of the same target stack per tick", func(t *testing.T) {
		storage := ecs.NewStorage(registry)
		scheduler := ecs.NewScheduler(storage)
		scheduler.Register(meter.NewEffectSystem[burningMarker, healthMarker, int64]())
		scheduler.Register(meter.NewEffectSystem[regenMarker, healthMarker, int64]())

		id := storage.Spawn(newHealth(100), newBurning(-5), newRegen(2))
		scheduler.Once(1.0)

		assert.Equal(t, int64(97), health(t, storage, id))
	})

	t.Run("effect without meter is skipped", func(t *testing.T) {
		storage := ecs.NewStorage(registry)
		scheduler := ecs.NewScheduler(storage)
		system := meter.NewEffectSystem[burningMarker, healthMarker, int64]()
		scheduler.Register(system)

		orphan := storage.Spawn(newBurning(-5), Label{Value: "orphan"})
		wrongKind := storage.Spawn(newMana(10), newBurning(-5))

		assert.NotPanics(t, func() { scheduler.Once(1.0) })
		assert.Equal(t, 0, system.Applied)
		assert.Equal(t, int64(-5), ecs.ReadComponent[Burning](storage, orphan).Amount)
		assert.Equal(t, int32(10), ecs.ReadComponent[Mana](storage, wrongKind).Current)
	})

	t.Run("entities update independently", func(t *testing.T) {
		storage := ecs.NewStorage(registry)
		scheduler := ecs.NewScheduler(storage)
		scheduler.Register(meter.NewEffectSystem[burningMarker, healthMarker, int64]())

		a := storage.Spawn(newHealth(100), newBurning(-5))
		b := storage.Spawn(newHealth(30), newBurning(-20), Label{Value: "b"})

		scheduler.Once(1.0)

		assert.Equal(t, int64(95), health(t, storage, a))
		assert.Equal(t, int64(10), health(t, storage, b))
	})

	t.Run("no bounds enforcement", func(t *testing.T) {
		storage := ecs.NewStorage(registry)
		scheduler := ecs.NewScheduler(storage)
		scheduler.Register(meter.NewEffectSystem[burningMarker, healthMarker, int64]())
		scheduler.Register(meter.NewEffectSystem[regenMarker, healthMarker, int64]())

		dying := storage.Spawn(newHealth(10), newBurning(-6))
		healing := storage.Spawn(newHealth(10), newRegen(4))

		scheduler.Once(1.0)
		scheduler.Once(1.0)

		assert.Equal(t, int64(-2), health(t, storage, dying))
		assert.Equal(t, int64(18), health(t, storage, healing))
	})

	t.Run("one-shot by removal after application", func(t *testing.T) {
		storage := ecs.NewStorage(registry)
		scheduler := ecs.NewScheduler(storage)

		id := storage.Spawn(newHealth(100), newBurning(-25))
		scheduler.Register(meter.NewEffectSystem[burningMarker, healthMarker, int64]())
		scheduler.Register(&curingSystem{entity: id})

		scheduler.Once(1.0)
		scheduler.Once(1.0)
		scheduler.Once(1.0)

		found := 0
		for _, item := range ecs.NewView[struct{ Health *Health }](storage).Iter() {
			assert.Equal(t, int64(75), item.Health.Current)
			found++
		}
		assert.Equal(t, 1, found)
	})

	t.Run("system name", func(t *testing.T) {
		storage := ecs.NewStorage(registry)
		scheduler := ecs.NewScheduler(storage)
		scheduler.Register(meter.NewEffectSystem[burningMarker, healthMarker, int64]())
		scheduler.Once(1.0)

		stats := scheduler.GetStats()
		require.Len(t, stats.Systems, 1)
		assert.Equal(t, "EffectSystem[burningMarker->healthMarker]", stats.Systems[0].Name)
		assert.Equal(t, int64(1), stats.Systems[0].ExecutionCount)
	})
}

func TestApplyEffect(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())

	a := storage.Spawn(newHealth(100), newBurning(-5))
	b := storage.Spawn(newHealth(50), newBurning(-1), Label{Value: "b"})
	storage.Spawn(newHealth(100))
	storage.Spawn(newBurning(-5))

	assert.Equal(t, 2, meter.ApplyEffect[burningMarker, healthMarker, int64](storage))
	assert.Equal(t, 2, meter.ApplyEffect[burningMarker, healthMarker, int64](storage))

	assert.Equal(t, int64(90), health(t, storage, a))
	assert.Equal(t, int64(48), health(t, storage, b))
	assert.Equal(t, 0, meter.ApplyEffect[drainMarker, manaMarker, int32](storage))
}
