package analytics

import (
	"sort"
	"strings"

	"zomaksho/internal/events"
)

const topQueryCount = 5

type QueryCount struct {
	Query string `json:"query"`
	Count int    `json:"count"`
}

// SearchStats summarizes recorded search events.
type SearchStats struct {
	Total        int                    `json:"total"`
	ByOutcome    map[events.Outcome]int `json:"by_outcome"`
	BySurface    map[events.Surface]int `json:"by_surface"`
	AvgLatencyMs int64                  `json:"avg_latency_ms"`
	AvgResults   float64                `json:"avg_results"`
	TopQueries   []QueryCount           `json:"top_queries"`
}

// ComputeSearchStats groups queries case-insensitively after trimming.
func ComputeSearchStats(evts []events.SearchEvent) SearchStats {
	stats := SearchStats{
		Total:      len(evts),
		ByOutcome:  make(map[events.Outcome]int),
		BySurface:  make(map[events.Surface]int),
		TopQueries: []QueryCount{},
	}
	if len(evts) == 0 {
		return stats
	}

	var latency int64
	var results int
	counts := make(map[string]int)
	for _, e := range evts {
		stats.ByOutcome[e.Outcome]++
		stats.BySurface[e.Surface]++
		latency += e.LatencyMs
		results += e.ResultCount
		counts[strings.ToLower(strings.TrimSpace(e.Query))]++
	}
	stats.AvgLatencyMs = latency / int64(len(evts))
	stats.AvgResults = float64(results) / float64(len(evts))

	for q, n := range counts {
		stats.TopQueries = append(stats.TopQueries, QueryCount{Query: q, Count: n})
	}
	sort.Slice(stats.TopQueries, func(i, j int) bool {
		a, b := stats.TopQueries[i], stats.TopQueries[j]
		if a.Count != b.Count {
			return a.Count > b.Count
		}
		return a.Query < b.Query
	})
	if len(stats.TopQueries) > topQueryCount {
		stats.TopQueries = stats.TopQueries[:topQueryCount]
	}

	return stats
}
