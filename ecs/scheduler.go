package ecs

import (
	"context"
	"reflect"
	"time"
)

// SchedulerStats provides statistics about scheduler execution.
type SchedulerStats struct {
	SystemCount     int
	Ticks           uint64
	TotalExecutions int64
	Systems         []SystemStats
}

// SystemStats provides execution statistics for a single system.
type SystemStats struct {
	Name           string
	ExecutionCount int64
	MinDuration    time.Duration
	MaxDuration    time.Duration
	AvgDuration    time.Duration
	LastDuration   time.Duration
	TotalDuration  time.Duration
}

type systemStatsInternal struct {
	name           string
	executionCount int64
	minDuration    time.Duration
	maxDuration    time.Duration
	totalDuration  time.Duration
	lastDuration   time.Duration
}

// storageBinder is implemented by Query and Singleton fields.
type storageBinder interface {
	Init(storage *Storage)
}

// queryExecutor is implemented by Query fields.
type queryExecutor interface {
	Execute()
}

type registeredSystem struct {
	system  System
	queries []queryExecutor
	stats   *systemStatsInternal
}

// Scheduler runs systems in registration order, one tick at a time.
type Scheduler struct {
	storage *Storage
	systems []*registeredSystem
	ticks   uint64
}

// NewScheduler creates a new scheduler for the given storage.
func NewScheduler(storage *Storage) *Scheduler {
	return &Scheduler{
		storage: storage,
		systems: make([]*registeredSystem, 0),
	}
}

// Storage returns the storage the scheduler runs against.
func (s *Scheduler) Storage() *Storage {
	return s.storage
}

// Register adds a system to the scheduler and binds its exported Query and Singleton fields.
func (s *Scheduler) Register(system System) {
	s.systems = append(s.systems, &registeredSystem{
		system:  system,
		queries: s.bindFields(system),
		stats: &systemStatsInternal{
			name:        systemName(system),
			minDuration: time.Duration(1<<63 - 1),
		},
	})
}

func systemName(system System) string {
	if named, ok := system.(NamedSystem); ok {
		return named.Name()
	}
	systemType := reflect.TypeOf(system)
	if systemType.Kind() == reflect.Ptr {
		systemType = systemType.Elem()
	}
	return systemType.Name()
}

// bindFields initializes every settable field implementing storageBinder and returns
// the ones that must be executed before the system runs.
func (s *Scheduler) bindFields(system System) []queryExecutor {
	systemValue := reflect.ValueOf(system)
	if systemValue.Kind() != reflect.Ptr {
		return nil
	}
	systemValue = systemValue.Elem()
	if systemValue.Kind() != reflect.Struct {
		return nil
	}

	var queries []queryExecutor
	for i := 0; i < systemValue.NumField(); i++ {
		field := systemValue.Field(i)
		if !field.CanSet() || field.Kind() != reflect.Struct {
			continue
		}

		binder, ok := field.Addr().Interface().(storageBinder)
		if !ok {
			continue
		}
		binder.Init(s.storage)

		if query, ok := binder.(queryExecutor); ok {
			queries = append(queries, query)
		}
	}
	return queries
}

// Once executes all registered systems once with the given delta time and then
// flushes the commands they queued.
func (s *Scheduler) Once(dt float64) {
	s.ticks++
	frame := newUpdateFrame(s.ticks, dt, s.storage)

	for _, rs := range s.systems {
		start := time.Now()
		for _, query := range rs.queries {
			query.Execute()
		}
		rs.system.Execute(frame)
		rs.stats.record(time.Since(start))
	}

	frame.Commands.Flush(s.storage)
}

func (st *systemStatsInternal) record(duration time.Duration) {
	st.executionCount++
	st.lastDuration = duration
	st.totalDuration += duration
	st.minDuration = min(st.minDuration, duration)
	st.maxDuration = max(st.maxDuration, duration)
}

// Run executes all systems repeatedly at the given interval until the context is cancelled.
func (s *Scheduler) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	lastTime := time.Now()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			dt := now.Sub(lastTime).Seconds()
			lastTime = now
			s.Once(dt)
		}
	}
}

// Ticks returns how many times Once has run.
func (s *Scheduler) Ticks() uint64 {
	return s.ticks
}

// GetStats returns statistics about system execution.
func (s *Scheduler) GetStats() *SchedulerStats {
	stats := &SchedulerStats{
		SystemCount: len(s.systems),
		Ticks:       s.ticks,
		Systems:     make([]SystemStats, len(s.systems)),
	}

	for i, rs := range s.systems {
		internal := rs.stats
		avgDuration := time.Duration(0)
		if internal.executionCount > 0 {
			avgDuration = internal.totalDuration / time.Duration(internal.executionCount)
		}

		stats.Systems[i] = SystemStats{
			Name:           internal.name,
			ExecutionCount: internal.executionCount,
			MinDuration:    internal.minDuration,
			MaxDuration:    internal.maxDuration,
			AvgDuration:    avgDuration,
			LastDuration:   internal.lastDuration,
			TotalDuration:  internal.totalDuration,
		}
		stats.TotalExecutions += internal.executionCount
	}

	return stats
}
