package meter_test

import (
	"github.com/plus3/meters/ecs"
	"github.com/plus3/meters/meter"
)

type healthMarker struct{ meter.Field[int64] }
type manaMarker struct{ meter.Field[int32] }
type staminaMarker struct{ meter.Field[float64] }

type burningMarker struct{ meter.Targets[healthMarker] }
type regenMarker struct{ meter.Targets[healthMarker] }
type drainMarker struct{ meter.Targets[manaMarker] }
type fatigueMarker struct{ meter.Targets[staminaMarker] }

type Health = meter.Meter[healthMarker, int64]
type Mana = meter.Meter[manaMarker, int32]
type Stamina = meter.Meter[staminaMarker, float64]

type Burning = meter.MeterEffect[burningMarker, healthMarker, int64]
type Regen = meter.MeterEffect[regenMarker, healthMarker, int64]
type Drain = meter.MeterEffect[drainMarker, manaMarker, int32]
type Fatigue = meter.MeterEffect[fatigueMarker, staminaMarker, float64]

type Label struct {
	Value string
}

func newHealth(max int64) Health {
	return meter.NewFromMax[healthMarker, int64](max)
}

func newMana(max int32) Mana {
	return meter.NewFromMax[manaMarker, int32](max)
}

func newBurning(amount int64) Burning {
	return meter.NewEffect[burningMarker, healthMarker, int64](amount)
}

func newRegen(amount int64) Regen {
	return meter.NewEffect[regenMarker, healthMarker, int64](amount)
}

func newDrain(amount int32) Drain {
	return meter.NewEffect[drainMarker, manaMarker, int32](amount)
}

func newTestRegistry() *ecs.ComponentRegistry {
	registry := ecs.NewComponentRegistry()
	meter.Register[healthMarker, int64](registry)
	meter.Register[manaMarker, int32](registry)
	meter.Register[staminaMarker, float64](registry)
	meter.RegisterEffect[burningMarker, healthMarker, int64](registry)
	meter.RegisterEffect[regenMarker, healthMarker, int64](registry)
	meter.RegisterEffect[drainMarker, manaMarker, int32](registry)
	meter.RegisterEffect[fatigueMarker, staminaMarker, float64](registry)
	ecs.RegisterComponent[Label](registry)
	return registry
}
