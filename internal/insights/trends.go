package insights

import (
	"math"

	"github.com/abelbrown/newslens/internal/store"
)

// ActivityTrend is the week-over-week activity direction.
// Direction is "increasing", "decreasing", "stable", or
// "insufficient_data" when fewer than 7 active days exist.
type ActivityTrend struct {
	Direction        string  `json:"direction"`
	ChangePercentage float64 `json:"change_percentage"`
}

// Concentration is a Herfindahl-Hirschman index with its interpretation
// band: "high" above 0.7, "medium" above 0.4, "low" otherwise.
type Concentration struct {
	Index          float64 `json:"index"`
	Interpretation string  `json:"interpretation"`
}

// Trends summarizes how consumption is shifting over the period.
type Trends struct {
	ActivityTrend       ActivityTrend  `json:"activity_trend"`
	SourceConcentration Concentration  `json:"source_concentration"`
	TopicConcentration  Concentration  `json:"topic_concentration"`
	ActionPreferences   store.CountMap `json:"action_preferences"`
}

// AnalyzeTrends computes activity direction and concentration indexes
// from windowed stats. Trend windows are rows of DailyActivity, so days
// with no activity do not dilute the averages.
func AnalyzeTrends(stats store.Stats) Trends {
	return Trends{
		ActivityTrend:       activityTrend(stats.DailyActivity),
		SourceConcentration: concentration(stats.BySource),
		TopicConcentration:  concentration(stats.ByTopic),
		ActionPreferences:   stats.ByAction,
	}
}

// activityTrend compares the mean of the last 7 active days against the 7
// before them. The direction bands are 1.1x (increasing) and 0.9x
// (decreasing).
func activityTrend(daily []store.DayCount) ActivityTrend {
	if len(daily) < 7 {
		return ActivityTrend{Direction: "insufficient_data"}
	}

	recentAvg := meanCount(daily[len(daily)-7:])
	previousAvg := recentAvg
	if len(daily) >= 14 {
		previousAvg = meanCount(daily[len(daily)-14 : len(daily)-7])
	}

	direction := "stable"
	switch {
	case recentAvg > previousAvg*1.1:
		direction = "increasing"
	case recentAvg < previousAvg*0.9:
		direction = "decreasing"
	}

	change := (recentAvg - previousAvg) / math.Max(previousAvg, 1) * 100
	return ActivityTrend{
		Direction:        direction,
		ChangePercentage: math.Round(change*10) / 10,
	}
}

// concentration computes the HHI of an aggregate: the sum of squared
// shares. 0 for an empty aggregate, 1.0 when a single key dominates.
func concentration(m store.CountMap) Concentration {
	total := m.Total()
	if total == 0 {
		return Concentration{Interpretation: "low"}
	}

	var hhi float64
	for _, kc := range m {
		share := float64(kc.Count) / float64(total)
		hhi += share * share
	}
	hhi = round3(hhi)

	interpretation := "low"
	switch {
	case hhi > 0.7:
		interpretation = "high"
	case hhi > 0.4:
		interpretation = "medium"
	}
	return Concentration{Index: hhi, Interpretation: interpretation}
}

func meanCount(daily []store.DayCount) float64 {
	if len(daily) == 0 {
		return 0
	}
	var sum int
	for _, dc := range daily {
		sum += dc.Count
	}
	return float64(sum) / float64(len(daily))
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}
