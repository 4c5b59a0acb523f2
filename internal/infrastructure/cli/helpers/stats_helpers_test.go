package helpers

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/doeshing/statusline-go/internal/domain"
)

func TestCalculateTopN(t *testing.T) {
	freq := map[string]int{"Sonnet": 3, "Opus": 3, "Haiku": 1}

	got := CalculateTopN(freq, 2)
	want := []Statistic{{Name: "Opus", Count: 3}, {Name: "Sonnet", Count: 3}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("top N mismatch (-want +got):\n%s", diff)
	}

	if all := CalculateTopN(freq, 0); len(all) != 3 {
		t.Fatalf("expected all 3 entries, got %d", len(all))
	}
}

func TestSummarizeHistory(t *testing.T) {
	records := []domain.SessionRecord{
		{Model: "Sonnet", CostUSD: 0.5, LinesAdded: 10, Trend: domain.TrendUp, Site: "xihu"},
		{Model: "Sonnet", CostUSD: 0.25, LinesRemoved: 4, Trend: domain.TrendFlat, Site: "xihu"},
		{Model: "Opus", CostUSD: 0.75, Trend: domain.TrendUp},
	}

	summary := SummarizeHistory(records)
	if summary.Entries != 3 || summary.TotalCostUSD != 1.5 {
		t.Fatalf("unexpected totals %+v", summary)
	}
	if summary.LinesAdded != 10 || summary.LinesRemoved != 4 {
		t.Fatalf("unexpected line totals %+v", summary)
	}
	if summary.Models["Sonnet"] != 2 || summary.Sites["xihu"] != 2 || len(summary.Sites) != 1 {
		t.Fatalf("unexpected frequencies %+v", summary)
	}
	if summary.Trends[domain.TrendUp] != 2 {
		t.Fatalf("unexpected trend counts %+v", summary.Trends)
	}
	if avg := AverageCost(summary); avg != 0.5 {
		t.Fatalf("average = %v", avg)
	}
	if AverageCost(HistorySummary{}) != 0 {
		t.Fatal("empty summary should average 0")
	}
}
