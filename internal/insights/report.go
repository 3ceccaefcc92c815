// Package insights assembles consumption analytics into reports: trends,
// blind spots, health scoring, and rule-based key insights.
package insights

import (
	"context"
	"fmt"
	"time"

	"github.com/abelbrown/newslens/internal/bias"
	"github.com/abelbrown/newslens/internal/logging"
	"github.com/abelbrown/newslens/internal/recommend"
	"github.com/abelbrown/newslens/internal/store"
)

// Generator builds consumption reports from the store, the classifier,
// and the recommendation engine.
type Generator struct {
	store *store.Store
	bias  *bias.Classifier
	rec   *recommend.Engine
}

// NewGenerator creates a report generator.
func NewGenerator(st *store.Store, cl *bias.Classifier, eng *recommend.Engine) *Generator {
	return &Generator{store: st, bias: cl, rec: eng}
}

// ConsumptionPatterns groups the time-shape of activity.
type ConsumptionPatterns struct {
	DailyActivity       []store.DayCount `json:"daily_activity"`
	PeakActivityDays    []string         `json:"peak_activity_days"`
	ActivityConsistency Consistency      `json:"activity_consistency"`
}

// SourceOverview groups the source-diversity view of a report.
type SourceOverview struct {
	TotalSources      int              `json:"total_sources"`
	DiversityScore    float64          `json:"diversity_score"`
	PoliticalBalance  bias.Balance     `json:"political_balance"`
	EchoChamberStatus bias.EchoChamber `json:"echo_chamber_status"`
}

// Insight is one rule-triggered observation about consumption habits.
type Insight struct {
	Category string `json:"category"`
	Insight  string `json:"insight"`
	Detail   string `json:"detail"`
}

// ConsumptionReport is the full analytics report for a period.
type ConsumptionReport struct {
	ReportGenerated     time.Time               `json:"report_generated"`
	PeriodDays          int                     `json:"period_days"`
	KeyMetrics          KeyMetrics              `json:"key_metrics"`
	ConsumptionPatterns ConsumptionPatterns     `json:"consumption_patterns"`
	SourceAnalysis      SourceOverview          `json:"source_analysis"`
	Trends              Trends                  `json:"trends"`
	BlindSpots          BlindSpots              `json:"blind_spots"`
	Insights            []Insight               `json:"insights"`
	Recommendations     recommend.Comprehensive `json:"recommendations"`
	HealthScore         HealthScore             `json:"health_score"`
}

// ConsumptionReport assembles the full report for the period. Stats are
// fetched once and shared across the analysis stages.
func (g *Generator) ConsumptionReport(ctx context.Context, days int) (ConsumptionReport, error) {
	stats, err := g.store.QueryStats(days)
	if err != nil {
		return ConsumptionReport{}, err
	}

	summary := g.bias.SummaryFromStats(ctx, stats)
	recommendations := g.rec.ComprehensiveFromStats(ctx, stats)
	trends := AnalyzeTrends(stats)

	report := ConsumptionReport{
		ReportGenerated: time.Now().UTC(),
		PeriodDays:      days,
		KeyMetrics:      CalculateKeyMetrics(stats),
		ConsumptionPatterns: ConsumptionPatterns{
			DailyActivity:       stats.DailyActivity,
			PeakActivityDays:    PeakActivityDays(stats.DailyActivity),
			ActivityConsistency: ActivityConsistency(stats.DailyActivity),
		},
		SourceAnalysis: SourceOverview{
			TotalSources:      len(stats.BySource),
			DiversityScore:    summary.Diversity.DiversityScore,
			PoliticalBalance:  summary.Diversity.PoliticalBalance,
			EchoChamberStatus: summary.EchoChamber,
		},
		Trends:          trends,
		BlindSpots:      DetectBlindSpots(stats, summary),
		Insights:        KeyInsights(stats, summary, trends),
		Recommendations: recommendations,
		HealthScore:     ConsumptionHealthScore(stats, summary),
	}

	logging.Debug("consumption report assembled",
		"period_days", days,
		"activities", stats.TotalActivities,
		"health", report.HealthScore.OverallScore)
	return report, nil
}

// KeyInsights applies the insight rules to stats, bias summary, and
// trends. Each rule fires independently; an empty result is valid.
func KeyInsights(stats store.Stats, summary bias.Summary, trends Trends) []Insight {
	var insights []Insight

	activeDays := max(len(stats.DailyActivity), 1)
	dailyAvg := float64(stats.TotalActivities) / float64(activeDays)
	if dailyAvg < 0.5 {
		insights = append(insights, Insight{
			Category: "engagement",
			Insight:  "Low news engagement detected",
			Detail:   fmt.Sprintf("You average %.1f news activities per day. Consider increasing to stay informed.", dailyAvg),
		})
	} else if dailyAvg > 3 {
		insights = append(insights, Insight{
			Category: "engagement",
			Insight:  "High news engagement",
			Detail:   fmt.Sprintf("You're very active with %.1f activities per day. Ensure you're not overwhelming yourself.", dailyAvg),
		})
	}

	diversity := summary.Diversity.DiversityScore
	if diversity < 0.3 && summary.SourcesAnalyzed > 0 {
		insights = append(insights, Insight{
			Category: "diversity",
			Insight:  "Limited source diversity",
			Detail:   fmt.Sprintf("Your diversity score is %.2f. Adding varied perspectives would improve balance.", diversity),
		})
	} else if diversity > 0.7 {
		insights = append(insights, Insight{
			Category: "diversity",
			Insight:  "Excellent source diversity",
			Detail:   fmt.Sprintf("Your diversity score of %.2f shows great balance across perspectives.", diversity),
		})
	}

	if summary.EchoChamber.IsEchoChamber {
		insights = append(insights, Insight{
			Category: "bias",
			Insight:  "Echo chamber detected: " + summary.EchoChamber.Type,
			Detail:   "Consider diversifying your sources to get broader perspectives on current events.",
		})
	}

	switch trends.ActivityTrend.Direction {
	case "decreasing":
		insights = append(insights, Insight{
			Category: "trends",
			Insight:  "Declining news engagement",
			Detail:   fmt.Sprintf("Your activity decreased by %.1f%% recently. Consider re-engaging with current events.", -trends.ActivityTrend.ChangePercentage),
		})
	case "increasing":
		insights = append(insights, Insight{
			Category: "trends",
			Insight:  "Growing news engagement",
			Detail:   fmt.Sprintf("Your activity increased by %.1f%% recently. Great job staying informed!", trends.ActivityTrend.ChangePercentage),
		})
	}

	if trends.SourceConcentration.Interpretation == "high" {
		insights = append(insights, Insight{
			Category: "habits",
			Insight:  "High source concentration",
			Detail:   "You rely heavily on just a few sources. Diversifying could provide richer perspectives.",
		})
	}

	return insights
}
