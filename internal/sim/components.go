// Package sim runs a small combat simulation on top of the ecs and meter packages:
// combatants spawn with health, mana and stamina meters, effects drain or restore
// them every tick, and depleted combatants are removed.
package sim

import (
	"github.com/plus3/meters/ecs"
	"github.com/plus3/meters/meter"
)

type HealthKind struct{ meter.Field[int64] }
type ManaKind struct{ meter.Field[int64] }
type StaminaKind struct{ meter.Field[float64] }

type BurningKind struct{ meter.Targets[HealthKind] }
type RegenerationKind struct{ meter.Targets[HealthKind] }
type MeditationKind struct{ meter.Targets[ManaKind] }
type FatigueKind struct{ meter.Targets[StaminaKind] }

type (
	Health  = meter.Meter[HealthKind, int64]
	Mana    = meter.Meter[ManaKind, int64]
	Stamina = meter.Meter[StaminaKind, float64]

	Burning      = meter.MeterEffect[BurningKind, HealthKind, int64]
	Regeneration = meter.MeterEffect[RegenerationKind, HealthKind, int64]
	Meditation   = meter.MeterEffect[MeditationKind, ManaKind, int64]
	Fatigue      = meter.MeterEffect[FatigueKind, StaminaKind, float64]
)

// Name labels a combatant in logs.
type Name struct {
	Value string
}

// NewRegistry returns a registry with every meter and effect kind of the simulation.
func NewRegistry() *ecs.ComponentRegistry {
	registry := ecs.NewComponentRegistry()
	ecs.RegisterComponent[Name](registry)

	meter.Register[HealthKind, int64](registry)
	meter.Register[ManaKind, int64](registry)
	meter.Register[StaminaKind, float64](registry)

	meter.RegisterEffect[BurningKind, HealthKind, int64](registry)
	meter.RegisterEffect[RegenerationKind, HealthKind, int64](registry)
	meter.RegisterEffect[MeditationKind, ManaKind, int64](registry)
	meter.RegisterEffect[FatigueKind, StaminaKind, float64](registry)
	return registry
}
