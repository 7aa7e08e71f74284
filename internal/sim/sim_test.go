package sim

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plus3/meters/ecs"
	"github.com/plus3/meters/internal/config"
	"github.com/plus3/meters/internal/logging"
)

func testConfig() config.Config {
	cfg := config.Default()
	cfg.Entities = 6
	cfg.BurnEvery = 3
	cfg.Ticks = 20
	return cfg
}

func countOf[T any](storage *ecs.Storage) int {
	count := 0
	for range ecs.NewView[T](storage).Values() {
		count++
	}
	return count
}

func TestPopulate(t *testing.T) {
	storage := ecs.NewStorage(NewRegistry())
	ids := Populate(storage, testConfig())

	require.Len(t, ids, 6)
	assert.Equal(t, 2, countOf[struct{ Effect *Burning }](storage))
	assert.Equal(t, 4, countOf[struct{ Effect *Regeneration }](storage))
	assert.Equal(t, 6, countOf[struct {
		Mana    *Mana
		Stamina *Stamina
		Effect  *Meditation
		Tired   *Fatigue
	}](storage))

	first := ecs.ReadComponent[Name](storage, ids[0])
	require.NotNil(t, first)
	assert.Equal(t, "combatant-000", first.Value)
	assert.NotNil(t, ecs.ReadComponent[Burning](storage, ids[0]))
	assert.NotNil(t, ecs.ReadComponent[Regeneration](storage, ids[1]))

	health := ecs.ReadComponent[Health](storage, ids[3])
	require.NotNil(t, health)
	assert.True(t, health.Full())
}

func TestPopulateWithoutBurners(t *testing.T) {
	cfg := testConfig()
	cfg.BurnEvery = 0

	storage := ecs.NewStorage(NewRegistry())
	require.NotPanics(t, func() { Populate(storage, cfg) })

	assert.Equal(t, 0, countOf[struct{ Effect *Burning }](storage))
	assert.Equal(t, 6, countOf[struct{ Effect *Regeneration }](storage))
}

func TestCasualtiesSingleton(t *testing.T) {
	cfg := testConfig()
	cfg.Effects.Burning = -100

	s, err := New(cfg, zerolog.Nop())
	require.NoError(t, err)

	reader := ecs.NewSingleton[Casualties](s.Storage())
	assert.Equal(t, Casualties{}, *reader.Get())

	s.Step()
	assert.Equal(t, Casualties{Total: 2, LastTick: 2}, *reader.Get())

	s.Step()
	assert.Equal(t, Casualties{Total: 2, LastTick: 0}, *reader.Get())
}

func TestSimulationStep(t *testing.T) {
	s, err := New(testConfig(), zerolog.Nop())
	require.NoError(t, err)

	s.Step()
	assert.Equal(t, uint64(1), s.Ticks())
	// two burners at 95, four regenerating combatants clamped at 100
	assert.Equal(t, int64(590), s.telemetry.TotalHealth)

	for range 18 {
		s.Step()
	}
	assert.Equal(t, 0, s.Deaths())
	assert.Equal(t, 6, countOf[struct{ Health *Health }](s.Storage()))

	s.Step()
	assert.Equal(t, 2, s.Deaths())
	assert.Equal(t, 4, countOf[struct{ Health *Health }](s.Storage()))
	assert.Equal(t, 0, countOf[struct{ Effect *Burning }](s.Storage()))

	for item := range ecs.NewView[struct {
		Mana    *Mana
		Stamina *Stamina
	}](s.Storage()).Values() {
		assert.Equal(t, int64(50), item.Mana.Current)
		assert.Equal(t, 5.0, item.Stamina.Current)
	}
}

func TestSimulationRun(t *testing.T) {
	t.Run("runs the configured ticks", func(t *testing.T) {
		s, err := New(testConfig(), zerolog.Nop())
		require.NoError(t, err)

		require.NoError(t, s.Run(context.Background()))
		assert.Equal(t, uint64(20), s.Ticks())
		assert.Equal(t, 2, s.Deaths())
	})

	t.Run("paced ticks", func(t *testing.T) {
		cfg := testConfig()
		cfg.Ticks = 3
		cfg.TickInterval = time.Millisecond

		s, err := New(cfg, zerolog.Nop())
		require.NoError(t, err)

		require.NoError(t, s.Run(context.Background()))
		assert.Equal(t, uint64(3), s.Ticks())
	})

	t.Run("cancelled context stops the run", func(t *testing.T) {
		cfg := testConfig()
		cfg.Ticks = 0

		s, err := New(cfg, zerolog.Nop())
		require.NoError(t, err)

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		err = s.Run(ctx)
		assert.ErrorIs(t, err, context.Canceled)
		assert.Equal(t, uint64(0), s.Ticks())
	})

	t.Run("unbounded run ends on deadline", func(t *testing.T) {
		cfg := testConfig()
		cfg.Ticks = 0
		cfg.TickInterval = time.Millisecond

		s, err := New(cfg, zerolog.Nop())
		require.NoError(t, err)

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
		defer cancel()

		err = s.Run(ctx)
		assert.ErrorIs(t, err, context.DeadlineExceeded)
		assert.Greater(t, s.Ticks(), uint64(0))
	})
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	cfg := testConfig()
	cfg.BurnEvery = 0

	_, err := New(cfg, zerolog.Nop())
	assert.Error(t, err)
}

func TestDepletionSystemLogs(t *testing.T) {
	var buf bytes.Buffer
	cfg := testConfig()
	cfg.Effects.Burning = -100

	s, err := New(cfg, logging.New("debug", &buf))
	require.NoError(t, err)

	s.Step()

	assert.Equal(t, 2, s.Deaths())
	assert.Equal(t, 2, s.casualties.Get().LastTick)
	out := buf.String()
	assert.Contains(t, out, "combatant depleted")
	assert.Contains(t, out, "combatant-000")
	assert.Contains(t, out, "combatant-003")
}

func TestSystemOrder(t *testing.T) {
	s, err := New(testConfig(), zerolog.Nop())
	require.NoError(t, err)
	s.Step()

	var names []string
	for _, st := range s.scheduler.GetStats().Systems {
		names = append(names, st.Name)
	}
	assert.Equal(t, []string{
		"EffectSystem[BurningKind->HealthKind]",
		"EffectSystem[RegenerationKind->HealthKind]",
		"EffectSystem[MeditationKind->ManaKind]",
		"EffectSystem[FatigueKind->StaminaKind]",
		"ClampSystem[HealthKind]",
		"ClampSystem[ManaKind]",
		"ClampSystem[StaminaKind]",
		"DepletionSystem",
		"TelemetrySystem",
	}, names)
}

func TestReport(t *testing.T) {
	s, err := New(testConfig(), zerolog.Nop())
	require.NoError(t, err)
	require.NoError(t, s.Run(context.Background()))

	report := s.Report()
	assert.Equal(t, uint64(20), report.Ticks)
	assert.Equal(t, 6, report.Entities)
	assert.Equal(t, 2, report.Deaths)
	assert.Equal(t, 4, report.Survivors)
	assert.Len(t, report.TickTime.Samples, 20)
	assert.LessOrEqual(t, report.TickTime.Min, report.TickTime.Max)
	assert.Equal(t, []EffectTotal{
		{Name: "EffectSystem[BurningKind->HealthKind]", Total: 40},
		{Name: "EffectSystem[RegenerationKind->HealthKind]", Total: 80},
		{Name: "EffectSystem[MeditationKind->ManaKind]", Total: 120},
		{Name: "EffectSystem[FatigueKind->StaminaKind]", Total: 120},
	}, report.Effects)
	assert.Equal(t, 4, report.Storage.TotalEntityCount)

	var buf bytes.Buffer
	require.NoError(t, report.Generate(&buf))
	out := buf.String()
	assert.Contains(t, out, "# Meter Simulation Report")
	assert.Contains(t, out, "**Depleted:** 2")
	assert.Contains(t, out, "**Survivors:** 4")
	assert.Contains(t, out, "EffectSystem[BurningKind->HealthKind]: 40")
	assert.Contains(t, out, "## Systems (9)")
}

func TestStatsFinalize(t *testing.T) {
	s := Stats{Samples: []time.Duration{3 * time.Millisecond, time.Millisecond, 2 * time.Millisecond}}
	s.Finalize()
	assert.Equal(t, time.Millisecond, s.Min)
	assert.Equal(t, 3*time.Millisecond, s.Max)
	assert.Equal(t, 2*time.Millisecond, s.Avg)

	var empty Stats
	empty.Finalize()
	assert.Zero(t, empty.Avg)
}
