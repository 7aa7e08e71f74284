package sim

import (
	"io"
	"runtime"
	"strings"
	"text/template"
	"time"

	"github.com/plus3/meters/ecs"
)

// EffectTotal is the number of applications of one effect kind.
type EffectTotal struct {
	Name  string
	Total int64
}

// Report is a snapshot of a simulation run.
type Report struct {
	Ticks     uint64
	Entities  int
	Deaths    int
	Survivors int

	TotalTime time.Duration
	TickTime  Stats
	Effects   []EffectTotal
	Scheduler *ecs.SchedulerStats
	Storage   ecs.StorageStats

	MemStatsStart runtime.MemStats
	MemStatsEnd   runtime.MemStats
}

// Stats summarizes duration samples.
type Stats struct {
	Min     time.Duration
	Max     time.Duration
	Avg     time.Duration
	Samples []time.Duration
}

// Finalize computes Min, Max and Avg from Samples. It is a no-op without samples.
func (s *Stats) Finalize() {
	if len(s.Samples) == 0 {
		return
	}

	var total time.Duration
	s.Min = s.Samples[0]
	s.Max = s.Samples[0]

	for _, sample := range s.Samples {
		s.Min = min(s.Min, sample)
		s.Max = max(s.Max, sample)
		total += sample
	}
	s.Avg = total / time.Duration(len(s.Samples))
}

const reportTemplate = `
# Meter Simulation Report

## Population
- **Ticks:** {{.Ticks}}
- **Spawned:** {{.Entities}}
- **Depleted:** {{.Deaths}}
- **Survivors:** {{.Survivors}}

## Effects Applied
{{- range .Effects}}
- {{.Name}}: {{.Total}}
{{- end}}

## Tick Time
- **Total:** {{.TotalTime}}
- **Avg:** {{.TickTime.Avg}}
- **Min:** {{.TickTime.Min}}
- **Max:** {{.TickTime.Max}}
{{- with .Scheduler}}

## Systems ({{.SystemCount}})
{{- range .Systems}}
- {{.Name}}: {{.ExecutionCount}} runs, avg {{.AvgDuration}}, max {{.MaxDuration}}
{{- end}}
{{- end}}

## Storage
- **Archetypes:** {{.Storage.ArchetypeCount}}
- **Entities:** {{.Storage.TotalEntityCount}}
{{- range .Storage.ArchetypeBreakdown}}
- {{join .ComponentTypes}}: {{.EntityCount}}
{{- end}}

## Memory Usage (Raw Bytes)
- Heap Alloc:  {{.MemStatsStart.HeapAlloc}} (start) -> {{.MemStatsEnd.HeapAlloc}} (end) -> delta: {{bsub .MemStatsEnd.HeapAlloc .MemStatsStart.HeapAlloc}}
- Total Alloc: {{.MemStatsStart.TotalAlloc}} (start) -> {{.MemStatsEnd.TotalAlloc}} (end) -> delta: {{bsub .MemStatsEnd.TotalAlloc .MemStatsStart.TotalAlloc}}
- Num GC:      {{.MemStatsStart.NumGC}} (start) -> {{.MemStatsEnd.NumGC}} (end) -> delta: {{usub .MemStatsEnd.NumGC .MemStatsStart.NumGC}}
`

var reportFuncs = template.FuncMap{
	"bsub": func(a, b uint64) int64 {
		return int64(a) - int64(b)
	},
	"usub": func(a, b uint32) uint32 {
		return a - b
	},
	"join": func(names []string) string {
		return strings.Join(names, ", ")
	},
}

// Generate renders the report as markdown to w.
func (r *Report) Generate(w io.Writer) error {
	tmpl, err := template.New("report").Funcs(reportFuncs).Parse(reportTemplate)
	if err != nil {
		return err
	}
	return tmpl.Execute(w, r)
}
