package insights

import (
	"math"
	"sort"

	"github.com/abelbrown/newslens/internal/bias"
	"github.com/abelbrown/newslens/internal/recommend"
	"github.com/abelbrown/newslens/internal/store"
)

// KeyMetrics are the headline numbers of a consumption report.
type KeyMetrics struct {
	TotalActivities   int     `json:"total_activities"`
	DailyAverage      float64 `json:"daily_average"`
	UniqueSources     int     `json:"unique_sources"`
	UniqueTopics      int     `json:"unique_topics"`
	MostUsedAction    string  `json:"most_used_action"`
	MostUsedSource    string  `json:"most_used_source"`
	MostSearchedTopic string  `json:"most_searched_topic"`
	EngagementScore   float64 `json:"engagement_score"`
}

// CalculateKeyMetrics derives headline metrics from windowed stats.
// Two activities per day counts as full engagement.
func CalculateKeyMetrics(stats store.Stats) KeyMetrics {
	days := max(stats.PeriodDays, 1)
	return KeyMetrics{
		TotalActivities:   stats.TotalActivities,
		DailyAverage:      math.Round(float64(stats.TotalActivities)/float64(days)*100) / 100,
		UniqueSources:     len(stats.BySource),
		UniqueTopics:      len(stats.ByTopic),
		MostUsedAction:    topKey(stats.ByAction),
		MostUsedSource:    topKey(stats.BySource),
		MostSearchedTopic: topKey(stats.ByTopic),
		EngagementScore:   math.Min(1.0, float64(stats.TotalActivities)/float64(days*2)),
	}
}

// topKey returns the most frequent key of an aggregate, or "none" when
// empty. Aggregates are ordered, so this is the first element.
func topKey(m store.CountMap) string {
	if len(m) == 0 {
		return "none"
	}
	return m[0].Key
}

// PeakActivityDays returns the up-to-3 most active dates, busiest first.
// Zero-activity days never qualify.
func PeakActivityDays(daily []store.DayCount) []string {
	sorted := make([]store.DayCount, len(daily))
	copy(sorted, daily)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Count > sorted[j].Count
	})

	var peaks []string
	for _, dc := range sorted {
		if len(peaks) >= 3 {
			break
		}
		if dc.Count > 0 {
			peaks = append(peaks, dc.Date)
		}
	}
	return peaks
}

// Consistency scores how evenly activity spreads across active days.
// The score is max(0, 1 - coefficient of variation); it needs at least 3
// active days, otherwise the interpretation is "insufficient_data".
type Consistency struct {
	Score            float64 `json:"score"`
	Interpretation   string  `json:"interpretation"`
	DaysWithActivity int     `json:"days_with_activity,omitempty"`
	TotalDays        int     `json:"total_days,omitempty"`
}

// ActivityConsistency computes the consistency of daily activity rows.
func ActivityConsistency(daily []store.DayCount) Consistency {
	if len(daily) < 3 {
		return Consistency{Interpretation: "insufficient_data"}
	}

	counts := make([]float64, len(daily))
	var sum float64
	for i, dc := range daily {
		counts[i] = float64(dc.Count)
		sum += counts[i]
	}
	mean := sum / float64(len(counts))
	if mean == 0 {
		return Consistency{Interpretation: "no_activity"}
	}

	var ss float64
	for _, c := range counts {
		d := c - mean
		ss += d * d
	}
	sd := math.Sqrt(ss / float64(len(counts)-1))

	score := math.Max(0.0, 1.0-sd/mean)
	interpretation := "low"
	switch {
	case score > 0.7:
		interpretation = "high"
	case score > 0.4:
		interpretation = "medium"
	}

	active := 0
	for _, dc := range daily {
		if dc.Count > 0 {
			active++
		}
	}

	return Consistency{
		Score:            round3(score),
		Interpretation:   interpretation,
		DaysWithActivity: active,
		TotalDays:        len(daily),
	}
}

// healthFactor pairs a factor name with its weight in the health score.
// Order matters: improvement priority ties resolve to the earlier factor.
type healthFactor struct {
	name   string
	weight float64
}

var healthFactors = []healthFactor{
	{"activity_level", 0.20},
	{"source_diversity", 0.30},
	{"topic_coverage", 0.20},
	{"echo_chamber", 0.15},
	{"credibility", 0.15},
}

// HealthFactors are the per-factor scores behind the health score, each
// in [0, 1].
type HealthFactors struct {
	ActivityLevel   float64 `json:"activity_level"`
	SourceDiversity float64 `json:"source_diversity"`
	TopicCoverage   float64 `json:"topic_coverage"`
	EchoChamber     float64 `json:"echo_chamber"`
	Credibility     float64 `json:"credibility"`
}

func (f HealthFactors) value(name string) float64 {
	switch name {
	case "activity_level":
		return f.ActivityLevel
	case "source_diversity":
		return f.SourceDiversity
	case "topic_coverage":
		return f.TopicCoverage
	case "echo_chamber":
		return f.EchoChamber
	default:
		return f.Credibility
	}
}

// HealthScore is the overall assessment of consumption habits.
type HealthScore struct {
	OverallScore        float64       `json:"overall_score"`
	Interpretation      string        `json:"interpretation"`
	Message             string        `json:"message"`
	FactorScores        HealthFactors `json:"factor_scores"`
	ImprovementPriority string        `json:"improvement_priority"`
}

// ConsumptionHealthScore scores habits as a weighted blend of activity
// level, diversity, topic coverage, echo chamber absence, and
// credibility. The result is always in [0, 1], even for empty history.
func ConsumptionHealthScore(stats store.Stats, summary bias.Summary) HealthScore {
	activeDays := max(len(stats.DailyActivity), 1)
	dailyAvg := float64(stats.TotalActivities) / float64(activeDays)

	// Optimal activity is 0.5 to 3 actions per active day. Below that the
	// factor scales up linearly; above it, down.
	var activityLevel float64
	switch {
	case dailyAvg >= 0.5 && dailyAvg <= 3:
		activityLevel = 1.0
	case dailyAvg < 0.5:
		activityLevel = dailyAvg / 0.5
	default:
		activityLevel = math.Max(0.1, 3.0/dailyAvg)
	}

	echoFactor := 1.0
	if summary.EchoChamber.IsEchoChamber {
		echoFactor = 0.0
	}

	credibility := summary.Diversity.AverageCredibility
	if summary.SourcesAnalyzed == 0 {
		credibility = summary.Credibility
	}

	factors := HealthFactors{
		ActivityLevel:   round3(activityLevel),
		SourceDiversity: round3(summary.Diversity.DiversityScore),
		TopicCoverage:   round3(math.Min(1.0, float64(len(stats.ByTopic))/float64(len(recommend.TopicUniverse)))),
		EchoChamber:     echoFactor,
		Credibility:     round3(credibility),
	}

	var score float64
	for _, f := range healthFactors {
		score += factors.value(f.name) * f.weight
	}

	var interpretation, message string
	switch {
	case score >= 0.8:
		interpretation = "excellent"
		message = "Your news consumption habits are very healthy and well-balanced!"
	case score >= 0.6:
		interpretation = "good"
		message = "Good news consumption habits with some room for improvement."
	case score >= 0.4:
		interpretation = "fair"
		message = "Your news habits could benefit from more balance and diversity."
	default:
		interpretation = "needs_improvement"
		message = "Consider improving your news consumption for better information balance."
	}

	return HealthScore{
		OverallScore:        round3(score),
		Interpretation:      interpretation,
		Message:             message,
		FactorScores:        factors,
		ImprovementPriority: improvementPriority(factors),
	}
}

// improvementPriority picks the factor where effort pays off most:
// the largest weight * (1 - score) product, earliest factor on ties.
func improvementPriority(factors HealthFactors) string {
	best := healthFactors[0].name
	bestGain := healthFactors[0].weight * (1 - factors.value(best))
	for _, f := range healthFactors[1:] {
		gain := f.weight * (1 - factors.value(f.name))
		if gain > bestGain {
			best, bestGain = f.name, gain
		}
	}
	return best
}
