package ecs

import (
	"cmp"
	"slices"
	"strings"
)

// StorageStats is a point-in-time summary of a Storage.
type StorageStats struct {
	ArchetypeCount     int
	TotalEntityCount   int
	SingletonCount     int
	ArchetypeBreakdown []ArchetypeStats
	SingletonTypes     []string
}

// ArchetypeStats describes one archetype.
type ArchetypeStats struct {
	ID             uint32
	ComponentTypes []string
	EntityCount    int
}

// CollectStats walks the storage and returns counts per archetype and singleton.
// Breakdown entries are ordered by archetype ID.
func (s *Storage) CollectStats() StorageStats {
	stats := StorageStats{
		ArchetypeCount: len(s.archetypes),
		SingletonCount: len(s.singletons),
	}

	for _, archetype := range s.archetypes {
		names := make([]string, len(archetype.types))
		for i, t := range archetype.types {
			names[i] = t.String()
		}
		count := archetype.Len()
		stats.TotalEntityCount += count
		stats.ArchetypeBreakdown = append(stats.ArchetypeBreakdown, ArchetypeStats{
			ID:             archetype.id,
			ComponentTypes: names,
			EntityCount:    count,
		})
	}
	slices.SortFunc(stats.ArchetypeBreakdown, func(a, b ArchetypeStats) int {
		return cmp.Compare(a.ID, b.ID)
	})

	for t := range s.singletons {
		stats.SingletonTypes = append(stats.SingletonTypes, t.String())
	}
	slices.SortFunc(stats.SingletonTypes, strings.Compare)

	return stats
}
