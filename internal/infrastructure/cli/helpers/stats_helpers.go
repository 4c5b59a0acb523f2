package helpers

import (
	"sort"

	"github.com/doeshing/statusline-go/internal/domain"
)

// Statistic represents how often a value occurs in history
type Statistic struct {
	Name  string
	Count int
}

// HistorySummary aggregates a slice of session records
type HistorySummary struct {
	Entries      int
	TotalCostUSD float64
	LinesAdded   int
	LinesRemoved int
	Models       map[string]int
	Sites        map[string]int
	Trends       map[domain.Trend]int
}

// SummarizeHistory computes totals and frequencies over records
func SummarizeHistory(records []domain.SessionRecord) HistorySummary {
	summary := HistorySummary{
		Entries: len(records),
		Models:  make(map[string]int),
		Sites:   make(map[string]int),
		Trends:  make(map[domain.Trend]int),
	}

	for _, rec := range records {
		summary.TotalCostUSD += rec.CostUSD
		summary.LinesAdded += rec.LinesAdded
		summary.LinesRemoved += rec.LinesRemoved
		summary.Models[rec.Model]++
		if rec.Site != "" {
			summary.Sites[rec.Site]++
		}
		summary.Trends[rec.Trend]++
	}

	return summary
}

// CalculateTopN returns the N most frequent values.
// If limit is 0 or negative, returns all values
func CalculateTopN(frequency map[string]int, limit int) []Statistic {
	stats := convertFrequencyMapToStatistics(frequency)
	sortStatisticsByFrequency(stats)

	if shouldLimitResults(limit, len(stats)) {
		return stats[:limit]
	}
	return stats
}

// convertFrequencyMapToStatistics converts a map to a slice of Statistic
func convertFrequencyMapToStatistics(frequency map[string]int) []Statistic {
	stats := make([]Statistic, 0, len(frequency))
	for name, count := range frequency {
		stats = append(stats, Statistic{
			Name:  name,
			Count: count,
		})
	}
	return stats
}

// sortStatisticsByFrequency sorts statistics by count (descending) then by name (ascending)
func sortStatisticsByFrequency(stats []Statistic) {
	sort.Slice(stats, func(i, j int) bool {
		if stats[i].Count == stats[j].Count {
			return stats[i].Name < stats[j].Name
		}
		return stats[i].Count > stats[j].Count
	})
}

// shouldLimitResults checks if we should limit the results based on the limit and actual length
func shouldLimitResults(limit int, actualLength int) bool {
	return limit > 0 && actualLength > limit
}

// AverageCost returns the mean cost per entry
func AverageCost(summary HistorySummary) float64 {
	if summary.Entries == 0 {
		return 0.0
	}
	return summary.TotalCostUSD / float64(summary.Entries)
}
