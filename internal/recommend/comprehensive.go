package recommend

import (
	"context"
	"fmt"

	"github.com/abelbrown/newslens/internal/store"
)

// HabitRec is one habit-improvement suggestion.
type HabitRec struct {
	Habit      string `json:"habit"`
	Suggestion string `json:"suggestion"`
	Rationale  string `json:"rationale"`
}

// ActivityPattern summarizes usage intensity for habit analysis.
type ActivityPattern struct {
	TotalActivities   int      `json:"total_activities"`
	DailyAverage      float64  `json:"daily_average"`
	MostActiveActions []string `json:"most_active_actions"`
}

// Comprehensive bundles source, topic, and habit recommendations with an
// overall balance score and prioritized actions.
type Comprehensive struct {
	SourceRecommendations SourceRecs `json:"source_recommendations"`
	TopicRecommendations  TopicRecs  `json:"topic_recommendations"`
	HabitRecommendations  []HabitRec `json:"habit_recommendations"`
	OverallScore          float64    `json:"overall_score"`
	PriorityActions       []string   `json:"priority_actions"`
}

// ComprehensiveRecommendations produces the full recommendation set for a
// period.
func (e *Engine) ComprehensiveRecommendations(ctx context.Context, days int) (Comprehensive, error) {
	stats, err := e.store.QueryStats(days)
	if err != nil {
		return Comprehensive{}, err
	}
	return e.ComprehensiveFromStats(ctx, stats), nil
}

// ComprehensiveFromStats builds the full recommendation set from
// already-fetched stats so report assembly reuses one stats query.
func (e *Engine) ComprehensiveFromStats(ctx context.Context, stats store.Stats) Comprehensive {
	sourceRecs := e.sourceRecsFromStats(ctx, stats, DefaultLimit)
	topicRecs := topicRecsFromStats(stats, DefaultLimit)

	actions := stats.ByAction.Keys()
	if len(actions) > 3 {
		actions = actions[:3]
	}
	pattern := ActivityPattern{
		TotalActivities:   stats.TotalActivities,
		DailyAverage:      float64(stats.TotalActivities) / float64(max(stats.PeriodDays, 1)),
		MostActiveActions: actions,
	}

	return Comprehensive{
		SourceRecommendations: sourceRecs,
		TopicRecommendations:  topicRecs,
		HabitRecommendations:  habitRecommendations(pattern),
		OverallScore:          overallBalanceScore(sourceRecs, topicRecs),
		PriorityActions:       priorityActions(sourceRecs, topicRecs),
	}
}

// habitRecommendations applies the usage-pattern rules: too little or too
// much activity, searching without summarizing, and single-command usage.
func habitRecommendations(pattern ActivityPattern) []HabitRec {
	var recs []HabitRec

	if pattern.DailyAverage < 0.5 {
		recs = append(recs, HabitRec{
			Habit:      "increase_frequency",
			Suggestion: "Try reading news at least once every 2 days for better awareness",
			Rationale:  fmt.Sprintf("You average %.1f news interactions per day", pattern.DailyAverage),
		})
	} else if pattern.DailyAverage > 5 {
		recs = append(recs, HabitRec{
			Habit:      "moderate_consumption",
			Suggestion: "Consider setting specific times for news to avoid information overload",
			Rationale:  fmt.Sprintf("You average %.1f news interactions per day", pattern.DailyAverage),
		})
	}

	if contains(pattern.MostActiveActions, "search") && !contains(pattern.MostActiveActions, "summary") {
		recs = append(recs, HabitRec{
			Habit:      "try_summarization",
			Suggestion: "Try the summary feature to quickly digest longer articles",
			Rationale:  "You search frequently but haven't used article summarization",
		})
	}

	if len(pattern.MostActiveActions) < 2 {
		recs = append(recs, HabitRec{
			Habit:      "explore_features",
			Suggestion: "Explore different commands like 'sources' and 'summary' for richer experience",
			Rationale:  "You primarily use one type of command",
		})
	}

	return recs
}

// overallBalanceScore combines diversity, topic coverage, and the echo
// chamber penalty into one [0, 1] score.
func overallBalanceScore(sourceRecs SourceRecs, topicRecs TopicRecs) float64 {
	diversity := sourceRecs.CurrentDiversityScore
	echoPenalty := 0.0
	if sourceRecs.EchoChamberRisk {
		echoPenalty = 0.3
	}
	coverage := float64(len(topicRecs.ExploredTopics)) / float64(len(TopicUniverse))

	score := diversity*0.5 + coverage*0.3 + (1-echoPenalty)*0.2
	if score > 1.0 {
		return 1.0
	}
	if score < 0.0 {
		return 0.0
	}
	return score
}

// priorityActions lists the most impactful changes first.
func priorityActions(sourceRecs SourceRecs, topicRecs TopicRecs) []string {
	var actions []string

	if sourceRecs.EchoChamberRisk {
		actions = append(actions, "Break out of echo chamber by reading recommended sources")
	}
	if sourceRecs.CurrentDiversityScore < 0.4 {
		actions = append(actions, "Improve source diversity by adding balanced perspectives")
	}
	if float64(len(topicRecs.ExploredTopics))/float64(len(TopicUniverse)) < 0.5 {
		actions = append(actions, "Explore more news topics for well-rounded awareness")
	}
	if len(actions) == 0 {
		actions = append(actions, "Continue maintaining balanced news consumption habits")
	}
	return actions
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
