package insights

import (
	"testing"

	"github.com/abelbrown/newslens/internal/store"
)

func days(counts ...int) []store.DayCount {
	out := make([]store.DayCount, len(counts))
	for i, c := range counts {
		out[i] = store.DayCount{Date: "2026-08-01", Count: c}
	}
	return out
}

func TestActivityTrendInsufficientData(t *testing.T) {
	trend := activityTrend(days(1, 2, 3))
	if trend.Direction != "insufficient_data" {
		t.Errorf("expected insufficient_data, got %q", trend.Direction)
	}
	if trend.ChangePercentage != 0 {
		t.Errorf("expected 0 change, got %v", trend.ChangePercentage)
	}
}

func TestActivityTrendIncreasing(t *testing.T) {
	// Previous week averages 1, recent week averages 3.
	trend := activityTrend(days(1, 1, 1, 1, 1, 1, 1, 3, 3, 3, 3, 3, 3, 3))
	if trend.Direction != "increasing" {
		t.Errorf("expected increasing, got %q", trend.Direction)
	}
	if trend.ChangePercentage != 200.0 {
		t.Errorf("expected +200%% change, got %v", trend.ChangePercentage)
	}
}

func TestActivityTrendDecreasing(t *testing.T) {
	trend := activityTrend(days(4, 4, 4, 4, 4, 4, 4, 2, 2, 2, 2, 2, 2, 2))
	if trend.Direction != "decreasing" {
		t.Errorf("expected decreasing, got %q", trend.Direction)
	}
	if trend.ChangePercentage != -50.0 {
		t.Errorf("expected -50%% change, got %v", trend.ChangePercentage)
	}
}

func TestActivityTrendStableWithOneWeek(t *testing.T) {
	// Exactly 7 rows: the previous window is empty, so the recent average
	// compares against itself.
	trend := activityTrend(days(2, 2, 2, 2, 2, 2, 2))
	if trend.Direction != "stable" {
		t.Errorf("expected stable, got %q", trend.Direction)
	}
	if trend.ChangePercentage != 0 {
		t.Errorf("expected 0 change, got %v", trend.ChangePercentage)
	}
}

func TestConcentrationIndex(t *testing.T) {
	// Single dominant key: HHI = 1.0.
	c := concentration(store.CountMap{{Key: "reuters", Count: 10}})
	if c.Index != 1.0 || c.Interpretation != "high" {
		t.Errorf("single source: got %+v", c)
	}

	// Two equal keys: HHI = 0.5, medium.
	c = concentration(store.CountMap{{Key: "a", Count: 5}, {Key: "b", Count: 5}})
	if c.Index != 0.5 || c.Interpretation != "medium" {
		t.Errorf("two equal sources: got %+v", c)
	}

	// Five equal keys: HHI = 0.2, low.
	c = concentration(store.CountMap{
		{Key: "a", Count: 2}, {Key: "b", Count: 2}, {Key: "c", Count: 2},
		{Key: "d", Count: 2}, {Key: "e", Count: 2},
	})
	if c.Index != 0.2 || c.Interpretation != "low" {
		t.Errorf("five equal sources: got %+v", c)
	}

	// Empty aggregate.
	c = concentration(nil)
	if c.Index != 0 || c.Interpretation != "low" {
		t.Errorf("empty aggregate: got %+v", c)
	}
}

func TestAnalyzeTrendsPreservesActionOrder(t *testing.T) {
	stats := store.Stats{
		ByAction: store.CountMap{{Key: "search", Count: 9}, {Key: "view", Count: 3}},
	}
	trends := AnalyzeTrends(stats)
	if len(trends.ActionPreferences) != 2 || trends.ActionPreferences[0].Key != "search" {
		t.Errorf("unexpected action preferences: %+v", trends.ActionPreferences)
	}
}
