package sim

import (
	"context"
	"runtime"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/metric"

	"github.com/plus3/meters/ecs"
	"github.com/plus3/meters/internal/config"
	"github.com/plus3/meters/meter"
)

// Simulation owns the storage, the scheduler and the systems of one run.
type Simulation struct {
	cfg    config.Config
	logger zerolog.Logger

	storage   *ecs.Storage
	scheduler *ecs.Scheduler

	burning      *meter.EffectSystem[BurningKind, HealthKind, int64]
	regeneration *meter.EffectSystem[RegenerationKind, HealthKind, int64]
	meditation   *meter.EffectSystem[MeditationKind, ManaKind, int64]
	fatigue      *meter.EffectSystem[FatigueKind, StaminaKind, float64]
	depletion    *DepletionSystem
	telemetry    *TelemetrySystem
	casualties   *ecs.Singleton[Casualties]

	spawned   int
	tickTimes Stats
	started   time.Time
	elapsed   time.Duration
	memStart  runtime.MemStats
}

// Option customizes a Simulation.
type Option func(*options)

type options struct {
	meterProvider metric.MeterProvider
}

// WithMeterProvider sends telemetry to provider instead of the global meter provider.
func WithMeterProvider(provider metric.MeterProvider) Option {
	return func(o *options) {
		o.meterProvider = provider
	}
}

// New builds a populated simulation. Systems run in this order every tick:
// effects, clamping, depletion, telemetry.
func New(cfg config.Config, logger zerolog.Logger, opts ...Option) (*Simulation, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var o options
	for _, opt := range opts {
		opt(&o)
	}

	storage := ecs.NewStorage(NewRegistry())
	s := &Simulation{
		cfg:          cfg,
		logger:       logger,
		storage:      storage,
		scheduler:    ecs.NewScheduler(storage),
		burning:      meter.NewEffectSystem[BurningKind, HealthKind, int64](),
		regeneration: meter.NewEffectSystem[RegenerationKind, HealthKind, int64](),
		meditation:   meter.NewEffectSystem[MeditationKind, ManaKind, int64](),
		fatigue:      meter.NewEffectSystem[FatigueKind, StaminaKind, float64](),
		depletion:    &DepletionSystem{Logger: logger},
		casualties:   ecs.NewSingleton[Casualties](storage),
	}

	telemetry, err := NewTelemetrySystem(o.meterProvider)
	if err != nil {
		return nil, err
	}
	s.telemetry = telemetry

	s.scheduler.Register(s.burning)
	s.scheduler.Register(s.regeneration)
	s.scheduler.Register(s.meditation)
	s.scheduler.Register(s.fatigue)
	s.scheduler.Register(&ClampSystem[HealthKind, int64]{})
	s.scheduler.Register(&ClampSystem[ManaKind, int64]{})
	s.scheduler.Register(&ClampSystem[StaminaKind, float64]{})
	s.scheduler.Register(s.depletion)
	s.scheduler.Register(s.telemetry)

	s.spawned = len(Populate(storage, cfg))
	logger.Info().
		Int("entities", s.spawned).
		Int("burnEvery", cfg.BurnEvery).
		Msg("simulation populated")

	return s, nil
}

// Storage exposes the simulation's entities.
func (s *Simulation) Storage() *ecs.Storage {
	return s.storage
}

// Ticks returns how many ticks have run.
func (s *Simulation) Ticks() uint64 {
	return s.scheduler.Ticks()
}

// Deaths returns how many combatants have been removed.
func (s *Simulation) Deaths() int {
	return s.casualties.Get().Total
}

// Step runs one tick. The delta time is the configured tick interval, or one second
// when ticks are not paced.
func (s *Simulation) Step() {
	if s.started.IsZero() {
		s.started = time.Now()
		runtime.ReadMemStats(&s.memStart)
	}

	dt := s.cfg.TickInterval.Seconds()
	if dt == 0 {
		dt = 1
	}

	start := time.Now()
	s.scheduler.Once(dt)
	s.tickTimes.Samples = append(s.tickTimes.Samples, time.Since(start))
	s.elapsed = time.Since(s.started)

	s.logger.Trace().
		Uint64("tick", s.scheduler.Ticks()).
		Int("applied", s.burning.Applied+s.regeneration.Applied+s.meditation.Applied+s.fatigue.Applied).
		Int("deaths", s.casualties.Get().LastTick).
		Int64("totalHealth", s.telemetry.TotalHealth).
		Msg("tick")
}

// Run steps until the configured number of ticks has run or ctx is done. A zero tick
// count runs until ctx is done. Ticks are paced by the configured interval when it is
// positive. Returns ctx.Err() when stopped by the context.
func (s *Simulation) Run(ctx context.Context) error {
	var pace <-chan time.Time
	if s.cfg.TickInterval > 0 {
		ticker := time.NewTicker(s.cfg.TickInterval)
		defer ticker.Stop()
		pace = ticker.C
	}

	s.logger.Info().
		Int("ticks", s.cfg.Ticks).
		Dur("interval", s.cfg.TickInterval).
		Msg("simulation started")

	for s.cfg.Ticks == 0 || s.scheduler.Ticks() < uint64(s.cfg.Ticks) {
		if pace != nil {
			select {
			case <-ctx.Done():
				return s.stopped(ctx)
			case <-pace:
			}
		} else if ctx.Err() != nil {
			return s.stopped(ctx)
		}
		s.Step()
	}

	s.logger.Info().
		Uint64("ticks", s.scheduler.Ticks()).
		Int("deaths", s.Deaths()).
		Msg("simulation finished")
	return nil
}

func (s *Simulation) stopped(ctx context.Context) error {
	s.logger.Warn().
		Uint64("ticks", s.scheduler.Ticks()).
		Err(ctx.Err()).
		Msg("simulation interrupted")
	return ctx.Err()
}

// Report summarizes the run so far.
func (s *Simulation) Report() *Report {
	r := &Report{
		Ticks:     s.scheduler.Ticks(),
		Entities:  s.spawned,
		Deaths:    s.Deaths(),
		Survivors: s.spawned - s.Deaths(),
		TotalTime: s.elapsed,
		TickTime:  Stats{Samples: s.tickTimes.Samples},
		Effects: []EffectTotal{
			{Name: s.burning.Name(), Total: s.burning.Total},
			{Name: s.regeneration.Name(), Total: s.regeneration.Total},
			{Name: s.meditation.Name(), Total: s.meditation.Total},
			{Name: s.fatigue.Name(), Total: s.fatigue.Total},
		},
		Scheduler:     s.scheduler.GetStats(),
		Storage:       s.storage.CollectStats(),
		MemStatsStart: s.memStart,
	}
	r.TickTime.Finalize()
	runtime.ReadMemStats(&r.MemStatsEnd)
	return r
}
