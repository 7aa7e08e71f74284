package sim

import (
	"fmt"

	"github.com/plus3/meters/ecs"
	"github.com/plus3/meters/internal/config"
	"github.com/plus3/meters/meter"
)

// Populate spawns cfg.Entities combatants. Every cfg.BurnEvery-th combatant, starting
// with the first, burns; the others regenerate. A non-positive BurnEvery means nobody
// burns. All of them meditate and tire.
func Populate(storage *ecs.Storage, cfg config.Config) []ecs.EntityId {
	ids := make([]ecs.EntityId, 0, cfg.Entities)
	for i := 0; i < cfg.Entities; i++ {
		components := []any{
			Name{Value: fmt.Sprintf("combatant-%03d", i)},
			meter.NewFromMax[HealthKind](cfg.Meters.Health),
			meter.NewFromMax[ManaKind](cfg.Meters.Mana),
			meter.NewFromMax[StaminaKind](cfg.Meters.Stamina),
			meter.NewEffect[MeditationKind, ManaKind](cfg.Effects.Meditation),
			meter.NewEffect[FatigueKind, StaminaKind](cfg.Effects.Fatigue),
		}
		if cfg.BurnEvery > 0 && i%cfg.BurnEvery == 0 {
			components = append(components, meter.NewEffect[BurningKind, HealthKind](cfg.Effects.Burning))
		} else {
			components = append(components, meter.NewEffect[RegenerationKind, HealthKind](cfg.Effects.Regeneration))
		}
		ids = append(ids, storage.Spawn(components...))
	}
	return ids
}
