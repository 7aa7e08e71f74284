package sim

import (
	"reflect"

	"github.com/rs/zerolog"

	"github.com/plus3/meters/ecs"
	"github.com/plus3/meters/meter"
)

// ClampSystem keeps every M meter within [0, Max] after effects have run.
type ClampSystem[M meter.Marker[F], F meter.Numeric] struct {
	Meters ecs.Query[struct{ Meter *meter.Meter[M, F] }]
}

func (s *ClampSystem[M, F]) Execute(frame *ecs.UpdateFrame) {
	for item := range s.Meters.Values() {
		item.Meter.Clamp()
	}
}

func (s *ClampSystem[M, F]) Name() string {
	return "ClampSystem[" + reflect.TypeFor[M]().Name() + "]"
}

// Casualties tallies removed combatants. It lives in storage as a singleton so that
// later systems in the same tick can read it.
type Casualties struct {
	// Total is the number of combatants removed since the simulation started.
	Total int
	// LastTick is the number queued for removal during the current tick.
	LastTick int
}

// DepletionSystem removes combatants whose health is depleted. Removal goes through
// the frame's Commands, so the entity stays visible until the end of the tick.
type DepletionSystem struct {
	Combatants ecs.Query[struct {
		Health *Health
		Name   *Name `ecs:"optional"`
	}]
	Casualties ecs.Singleton[Casualties]

	Logger zerolog.Logger
}

func (s *DepletionSystem) Execute(frame *ecs.UpdateFrame) {
	casualties := s.Casualties.Get()
	if casualties == nil {
		return
	}

	casualties.LastTick = 0
	for id, c := range s.Combatants.Iter() {
		if !c.Health.Depleted() {
			continue
		}

		name := "unnamed"
		if c.Name != nil {
			name = c.Name.Value
		}
		s.Logger.Debug().
			Uint64("tick", frame.Tick).
			Uint64("entity", uint64(id)).
			Str("name", name).
			Str("health", c.Health.String()).
			Msg("combatant depleted")

		frame.Commands.Delete(id)
		casualties.LastTick++
	}
	casualties.Total += casualties.LastTick
}
