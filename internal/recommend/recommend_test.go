package recommend

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/abelbrown/newslens/internal/bias"
	"github.com/abelbrown/newslens/internal/store"
)

func newTestEngine(t *testing.T) (*Engine, *store.Store) {
	t.Helper()
	st, err := store.Open(":memory:")
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() { st.Close() })

	cl, err := bias.New(st)
	if err != nil {
		t.Fatalf("bias.New failed: %v", err)
	}
	return New(st, cl), st
}

func seedViews(t *testing.T, st *store.Store, sources ...string) {
	t.Helper()
	for _, src := range sources {
		if _, err := st.Record(store.Event{Action: "view", Source: src}); err != nil {
			t.Fatalf("Record failed: %v", err)
		}
	}
}

func TestSourceRecommendationsStarterPack(t *testing.T) {
	eng, _ := newTestEngine(t)

	recs, err := eng.SourceRecommendations(context.Background(), 30, 5)
	if err != nil {
		t.Fatalf("SourceRecommendations failed: %v", err)
	}

	if len(recs.Recommendations) != 5 {
		t.Fatalf("expected 5 starter sources, got %d", len(recs.Recommendations))
	}
	want := []string{"reuters", "ap", "bbc", "npr", "wsj"}
	for i, w := range want {
		if recs.Recommendations[i].Source != w {
			t.Errorf("starter %d: expected %s, got %s", i, w, recs.Recommendations[i].Source)
		}
	}
	if recs.ImprovementPotential != 1.0 {
		t.Errorf("expected improvement potential 1.0, got %v", recs.ImprovementPotential)
	}
	if recs.EchoChamberRisk {
		t.Error("starter pack must not flag echo chamber risk")
	}
}

func TestSourceRecommendationsExcludeCurrentSources(t *testing.T) {
	eng, st := newTestEngine(t)
	seedViews(t, st, "guardian", "msnbc", "huffpost")

	recs, err := eng.SourceRecommendations(context.Background(), 30, 5)
	if err != nil {
		t.Fatalf("SourceRecommendations failed: %v", err)
	}

	seen := map[string]bool{}
	for _, rec := range recs.Recommendations {
		if rec.Source == "guardian" || rec.Source == "msnbc" || rec.Source == "huffpost" {
			t.Errorf("recommended a source already in use: %s", rec.Source)
		}
		if seen[rec.Source] {
			t.Errorf("duplicate recommendation: %s", rec.Source)
		}
		seen[rec.Source] = true
	}
	if len(recs.Recommendations) == 0 {
		t.Fatal("expected recommendations for an all-left reader")
	}
	if !recs.EchoChamberRisk {
		t.Error("expected echo chamber risk for all-left sources")
	}
}

func TestSourceRecommendationsLimit(t *testing.T) {
	eng, st := newTestEngine(t)
	seedViews(t, st, "guardian", "msnbc")

	recs, err := eng.SourceRecommendations(context.Background(), 30, 2)
	if err != nil {
		t.Fatalf("SourceRecommendations failed: %v", err)
	}
	if len(recs.Recommendations) > 2 {
		t.Errorf("expected at most 2 recommendations, got %d", len(recs.Recommendations))
	}
}

func TestSourceRecommendationsInvalidPeriod(t *testing.T) {
	eng, _ := newTestEngine(t)

	_, err := eng.SourceRecommendations(context.Background(), -1, 5)
	var verr *store.ValidationError
	if !errors.As(err, &verr) {
		t.Errorf("expected ValidationError, got %v", err)
	}
}

func TestImprovementPotentialClamped(t *testing.T) {
	eng, st := newTestEngine(t)
	seedViews(t, st, "guardian", "guardian", "msnbc")

	recs, err := eng.SourceRecommendations(context.Background(), 30, 5)
	if err != nil {
		t.Fatalf("SourceRecommendations failed: %v", err)
	}
	if recs.ImprovementPotential < 0 || recs.ImprovementPotential > 1 {
		t.Errorf("improvement potential %v out of [0,1]", recs.ImprovementPotential)
	}
	// Adding centrist and right sources to an all-left mix must help.
	if recs.ImprovementPotential == 0 {
		t.Error("expected positive improvement potential for one-sided mix")
	}
}

func TestTopicRecommendationsExpansion(t *testing.T) {
	eng, st := newTestEngine(t)

	st.Record(store.Event{Action: "search", Topic: "technology"})
	st.Record(store.Event{Action: "search", Topic: "science"})

	recs, err := eng.TopicRecommendations(30, 5)
	if err != nil {
		t.Fatalf("TopicRecommendations failed: %v", err)
	}

	// Unexplored topics in canonical order, capped at the limit.
	want := []string{"business", "entertainment", "general", "health", "sports"}
	if len(recs.Recommendations) != len(want) {
		t.Fatalf("expected %d recommendations, got %v", len(want), recs.Recommendations)
	}
	for i, w := range want {
		if recs.Recommendations[i].Topic != w {
			t.Errorf("recommendation %d: expected %s, got %s", i, w, recs.Recommendations[i].Topic)
		}
		if recs.Recommendations[i].Category != "topic-expansion" {
			t.Errorf("expected topic-expansion category, got %s", recs.Recommendations[i].Category)
		}
	}
	if recs.TopicCoverage != "2/7 topics explored" {
		t.Errorf("unexpected coverage: %q", recs.TopicCoverage)
	}
}

func TestTopicRecommendationsDeepening(t *testing.T) {
	eng, st := newTestEngine(t)

	// Cover every topic; technology only once.
	for _, topic := range TopicUniverse {
		n := 4
		if topic == "technology" {
			n = 1
		}
		for i := 0; i < n; i++ {
			st.Record(store.Event{Action: "search", Topic: topic})
		}
	}

	recs, err := eng.TopicRecommendations(30, 5)
	if err != nil {
		t.Fatalf("TopicRecommendations failed: %v", err)
	}
	if len(recs.Recommendations) != 1 {
		t.Fatalf("expected 1 deepening recommendation, got %v", recs.Recommendations)
	}
	rec := recs.Recommendations[0]
	if rec.Topic != "technology" || rec.Category != "topic-deepening" {
		t.Errorf("unexpected recommendation: %+v", rec)
	}
	if !strings.Contains(rec.Reason, "1 times") {
		t.Errorf("expected usage count in reason, got %q", rec.Reason)
	}
}

func TestComprehensiveRecommendations(t *testing.T) {
	eng, st := newTestEngine(t)
	seedViews(t, st, "guardian", "msnbc", "huffpost")

	recs, err := eng.ComprehensiveRecommendations(context.Background(), 30)
	if err != nil {
		t.Fatalf("ComprehensiveRecommendations failed: %v", err)
	}

	if recs.OverallScore < 0 || recs.OverallScore > 1 {
		t.Errorf("overall score %v out of [0,1]", recs.OverallScore)
	}
	if len(recs.PriorityActions) == 0 {
		t.Fatal("expected priority actions")
	}
	// Echo chamber escape comes first.
	if recs.PriorityActions[0] != "Break out of echo chamber by reading recommended sources" {
		t.Errorf("unexpected first priority: %q", recs.PriorityActions[0])
	}
}

func TestHabitRecommendations(t *testing.T) {
	low := habitRecommendations(ActivityPattern{DailyAverage: 0.1, MostActiveActions: []string{"search", "view"}})
	if len(low) == 0 || low[0].Habit != "increase_frequency" {
		t.Errorf("expected increase_frequency, got %+v", low)
	}

	heavy := habitRecommendations(ActivityPattern{DailyAverage: 7.5, MostActiveActions: []string{"search", "view"}})
	if len(heavy) == 0 || heavy[0].Habit != "moderate_consumption" {
		t.Errorf("expected moderate_consumption, got %+v", heavy)
	}

	searcher := habitRecommendations(ActivityPattern{DailyAverage: 1, MostActiveActions: []string{"search", "view"}})
	found := false
	for _, rec := range searcher {
		if rec.Habit == "try_summarization" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected try_summarization for search-without-summary, got %+v", searcher)
	}

	narrow := habitRecommendations(ActivityPattern{DailyAverage: 1, MostActiveActions: []string{"view"}})
	found = false
	for _, rec := range narrow {
		if rec.Habit == "explore_features" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected explore_features for single-command usage, got %+v", narrow)
	}
}

func TestPriorityActionsWellBalanced(t *testing.T) {
	source := SourceRecs{CurrentDiversityScore: 0.6}
	topics := TopicRecs{ExploredTopics: []string{"a", "b", "c", "d"}}

	actions := priorityActions(source, topics)
	if len(actions) != 1 || actions[0] != "Continue maintaining balanced news consumption habits" {
		t.Errorf("unexpected actions: %v", actions)
	}
}
