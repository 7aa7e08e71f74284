package sim

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/plus3/meters/ecs"
)

const instrumentationName = "github.com/plus3/meters/internal/sim"

// TelemetrySystem publishes per-tick simulation metrics. It reads the Casualties
// singleton, so it must run after the DepletionSystem.
type TelemetrySystem struct {
	Healths    ecs.Query[struct{ Health *Health }]
	Casualties ecs.Singleton[Casualties]

	ticks       metric.Int64Counter
	deaths      metric.Int64Counter
	totalHealth metric.Float64Gauge
	alive       metric.Int64Gauge

	// TotalHealth is the summed current health of the combatants surviving the last tick.
	TotalHealth int64
	// Alive is the number of combatants surviving the last tick.
	Alive int64
}

// NewTelemetrySystem creates the instruments on provider, or on the global meter
// provider when provider is nil.
func NewTelemetrySystem(provider metric.MeterProvider) (*TelemetrySystem, error) {
	if provider == nil {
		provider = otel.GetMeterProvider()
	}
	m := provider.Meter(instrumentationName)
	s := &TelemetrySystem{}

	var err error
	s.ticks, err = m.Int64Counter(
		"sim.ticks",
		metric.WithDescription("Simulation ticks executed"),
	)
	if err != nil {
		return nil, fmt.Errorf("create ticks counter: %w", err)
	}

	s.deaths, err = m.Int64Counter(
		"sim.deaths",
		metric.WithDescription("Combatants removed after their health was depleted"),
	)
	if err != nil {
		return nil, fmt.Errorf("create deaths counter: %w", err)
	}

	s.totalHealth, err = m.Float64Gauge(
		"sim.health.total",
		metric.WithDescription("Summed current health of the surviving combatants"),
	)
	if err != nil {
		return nil, fmt.Errorf("create health gauge: %w", err)
	}

	s.alive, err = m.Int64Gauge(
		"sim.combatants",
		metric.WithDescription("Combatants with a health meter left after the tick"),
	)
	if err != nil {
		return nil, fmt.Errorf("create combatants gauge: %w", err)
	}

	return s, nil
}

func (s *TelemetrySystem) Execute(frame *ecs.UpdateFrame) {
	ctx := context.Background()
	kind := metric.WithAttributes(attribute.String("meter", "health"))

	// Depleted combatants are still in the snapshot until the tick's commands flush.
	var total, alive int64
	for item := range s.Healths.Values() {
		if item.Health.Depleted() {
			continue
		}
		total += item.Health.Current
		alive++
	}
	s.TotalHealth = total
	s.Alive = alive

	s.ticks.Add(ctx, 1)
	s.totalHealth.Record(ctx, float64(total), kind)
	s.alive.Record(ctx, alive)
	if casualties := s.Casualties.Get(); casualties != nil && casualties.LastTick > 0 {
		s.deaths.Add(ctx, int64(casualties.LastTick))
	}
}
