package bias

import (
	"context"
	"errors"
	"testing"

	"github.com/abelbrown/newslens/internal/store"
)

func newTestClassifier(t *testing.T) (*Classifier, *store.Store) {
	t.Helper()
	st, err := store.Open(":memory:")
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() { st.Close() })

	c, err := New(st)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	return c, st
}

func TestNormalize(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"Reuters", "reuters"},
		{"  CNN.com  ", "cnn"},
		{"bbc.co.uk", "bbc"},
		{"the-guardian", "guardian"},
		{"The-Wall-Street-Journal", "wsj"},
		{"associated-press", "ap"},
		{"usa-today", "usatoday"},
		{"unknownsource.org", "unknownsource"},
		{"", ""},
	}
	for _, tc := range cases {
		if got := Normalize(tc.in); got != tc.want {
			t.Errorf("Normalize(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	inputs := []string{"Reuters.com", "the-guardian", "BBC.co.uk", "random-blog.net", "msnbc"}
	for _, in := range inputs {
		once := Normalize(in)
		if twice := Normalize(once); twice != once {
			t.Errorf("Normalize not idempotent for %q: %q != %q", in, once, twice)
		}
	}
}

func TestSourceBiasKnownSources(t *testing.T) {
	c, _ := newTestClassifier(t)
	ctx := context.Background()

	r := c.SourceBias(ctx, "Reuters.com")
	if r.Bias != 0.0 || r.Credibility != 0.9 {
		t.Errorf("reuters: got %+v", r)
	}

	r = c.SourceBias(ctx, "the-guardian")
	if r.Bias != -0.6 || r.Credibility != 0.8 {
		t.Errorf("guardian: got %+v", r)
	}
}

func TestSourceBiasUnknownIsNeutral(t *testing.T) {
	c, st := newTestClassifier(t)

	r := c.SourceBias(context.Background(), "my-local-blog")
	if r != Neutral {
		t.Errorf("expected neutral rating, got %+v", r)
	}

	// The fallback is never cached.
	if _, found, _ := st.GetSourceAnalysis("my-local-blog"); found {
		t.Error("neutral fallback must not be cached")
	}
}

func TestSourceBiasEmptyIsNeutral(t *testing.T) {
	c, _ := newTestClassifier(t)
	if r := c.SourceBias(context.Background(), "   "); r != Neutral {
		t.Errorf("expected neutral for blank source, got %+v", r)
	}
}

// fakeLookup is a scripted external classifier.
type fakeLookup struct {
	rating Rating
	err    error
	calls  int
}

func (f *fakeLookup) Available() bool { return true }
func (f *fakeLookup) Name() string    { return "fake" }
func (f *fakeLookup) Classify(ctx context.Context, source string) (Rating, error) {
	f.calls++
	return f.rating, f.err
}

func TestSourceBiasExternalLookupCached(t *testing.T) {
	st, err := store.Open(":memory:")
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer st.Close()

	lk := &fakeLookup{rating: Rating{Bias: 0.4, Credibility: 0.7}}
	c, err := NewWithLookup(st, lk)
	if err != nil {
		t.Fatalf("NewWithLookup failed: %v", err)
	}
	ctx := context.Background()

	r := c.SourceBias(ctx, "obscure-news")
	if r != lk.rating {
		t.Errorf("expected lookup rating, got %+v", r)
	}
	if lk.calls != 1 {
		t.Fatalf("expected 1 lookup call, got %d", lk.calls)
	}

	// Second resolution hits the cache, not the lookup.
	r = c.SourceBias(ctx, "obscure-news")
	if r != lk.rating {
		t.Errorf("expected cached rating, got %+v", r)
	}
	if lk.calls != 1 {
		t.Errorf("expected no further lookup calls, got %d", lk.calls)
	}
}

func TestSourceBiasLookupFailureDegradesToNeutral(t *testing.T) {
	st, err := store.Open(":memory:")
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer st.Close()

	lk := &fakeLookup{err: errors.New("api down")}
	c, err := NewWithLookup(st, lk)
	if err != nil {
		t.Fatalf("NewWithLookup failed: %v", err)
	}

	r := c.SourceBias(context.Background(), "obscure-news")
	if r != Neutral {
		t.Errorf("expected neutral on lookup failure, got %+v", r)
	}
	if _, found, _ := st.GetSourceAnalysis("obscure-news"); found {
		t.Error("failed lookups must not be cached")
	}
}

func TestAnalyzeSourceDiversityCenterPair(t *testing.T) {
	c, _ := newTestClassifier(t)

	d := c.AnalyzeSourceDiversity(context.Background(), []string{"reuters", "ap"})
	if d.DiversityScore != 0.0 {
		t.Errorf("expected diversity 0.0, got %v", d.DiversityScore)
	}
	if d.PoliticalBalance.Center != 2 || d.PoliticalBalance.Left != 0 || d.PoliticalBalance.Right != 0 {
		t.Errorf("expected center 2, got %+v", d.PoliticalBalance)
	}
	if d.AverageCredibility != 0.9 {
		t.Errorf("expected avg credibility 0.9, got %v", d.AverageCredibility)
	}
	if d.SourceCount != 2 {
		t.Errorf("expected source count 2, got %d", d.SourceCount)
	}
}

func TestAnalyzeSourceDiversityBounds(t *testing.T) {
	c, _ := newTestClassifier(t)
	ctx := context.Background()

	sets := [][]string{
		{"guardian", "msnbc", "huffpost"},
		{"cnn", "reuters", "wsj", "bbc"},
		{"foxnews", "breitbart"},
		{"reuters"},
		{"guardian", "breitbart"},
	}
	for _, sources := range sets {
		d := c.AnalyzeSourceDiversity(ctx, sources)
		if d.DiversityScore < 0 || d.DiversityScore > 1 {
			t.Errorf("%v: diversity %v out of [0,1]", sources, d.DiversityScore)
		}
		if d.PoliticalBalance.Total() != len(sources) {
			t.Errorf("%v: balance sums to %d, want %d",
				sources, d.PoliticalBalance.Total(), len(sources))
		}
	}
}

func TestAnalyzeSourceDiversityEmpty(t *testing.T) {
	c, _ := newTestClassifier(t)
	d := c.AnalyzeSourceDiversity(context.Background(), nil)
	if d != (Diversity{}) {
		t.Errorf("expected zero analysis for empty input, got %+v", d)
	}
}

func TestDetectEchoChamberLeftLeaning(t *testing.T) {
	c, _ := newTestClassifier(t)

	result := c.DetectEchoChamber(context.Background(),
		[]string{"guardian", "msnbc", "huffpost"}, DefaultEchoThreshold)
	if !result.IsEchoChamber {
		t.Error("expected echo chamber for all-left set")
	}
	if result.Type != "left-leaning" {
		t.Errorf("expected left-leaning, got %q", result.Type)
	}
	if len(result.Recommendations) == 0 {
		t.Error("expected balance recommendations for skewed set")
	}
}

func TestDetectEchoChamberBalancedSet(t *testing.T) {
	c, _ := newTestClassifier(t)

	// A politically mixed set clusters near center but is not an echo
	// chamber even though its raw diversity score is below the threshold.
	result := c.DetectEchoChamber(context.Background(),
		[]string{"cnn", "reuters", "wsj", "bbc"}, DefaultEchoThreshold)
	if result.IsEchoChamber {
		t.Errorf("balanced set flagged as echo chamber: %+v", result)
	}
	if result.Type != "balanced" {
		t.Errorf("expected balanced type, got %q", result.Type)
	}
}

func TestDetectEchoChamberCenterFocused(t *testing.T) {
	c, _ := newTestClassifier(t)

	result := c.DetectEchoChamber(context.Background(),
		[]string{"reuters", "ap"}, DefaultEchoThreshold)
	if result.Type != "center-focused" {
		t.Errorf("expected center-focused, got %q", result.Type)
	}
	// All-center usage with zero spread is still an echo of one viewpoint.
	if !result.IsEchoChamber {
		t.Error("expected echo chamber for zero-diversity centered set")
	}
}

func TestDetectEchoChamberEmpty(t *testing.T) {
	c, _ := newTestClassifier(t)

	result := c.DetectEchoChamber(context.Background(), nil, DefaultEchoThreshold)
	if result.IsEchoChamber {
		t.Error("empty set must not be an echo chamber")
	}
	if len(result.Recommendations) == 0 {
		t.Error("expected getting-started recommendation for empty set")
	}
}

func TestBiasSummaryEmptyHistory(t *testing.T) {
	c, _ := newTestClassifier(t)

	summary, err := c.BiasSummary(context.Background(), 30)
	if err != nil {
		t.Fatalf("BiasSummary failed: %v", err)
	}
	if summary.SourcesAnalyzed != 0 {
		t.Errorf("expected 0 sources analyzed, got %d", summary.SourcesAnalyzed)
	}
	if summary.Credibility != 0.5 {
		t.Errorf("expected neutral credibility 0.5, got %v", summary.Credibility)
	}
	if len(summary.Recommendations) == 0 {
		t.Error("expected getting-started recommendation")
	}
}

func TestBiasSummaryWithHistory(t *testing.T) {
	c, st := newTestClassifier(t)

	for _, src := range []string{"guardian", "guardian", "msnbc"} {
		if _, err := st.Record(store.Event{Action: "view", Source: src}); err != nil {
			t.Fatalf("Record failed: %v", err)
		}
	}

	summary, err := c.BiasSummary(context.Background(), 30)
	if err != nil {
		t.Fatalf("BiasSummary failed: %v", err)
	}
	if summary.SourcesAnalyzed != 2 {
		t.Errorf("expected 2 distinct sources, got %d", summary.SourcesAnalyzed)
	}
	if !summary.EchoChamber.IsEchoChamber || summary.EchoChamber.Type != "left-leaning" {
		t.Errorf("expected left-leaning echo chamber, got %+v", summary.EchoChamber)
	}
	if summary.OverallBias >= 0 {
		t.Errorf("expected negative overall bias, got %v", summary.OverallBias)
	}
}

func TestStdev(t *testing.T) {
	if got := stdev([]float64{1, 1, 1}); got != 0 {
		t.Errorf("stdev of constant values = %v, want 0", got)
	}
	if got := stdev([]float64{5}); got != 0 {
		t.Errorf("stdev of single value = %v, want 0", got)
	}
	// Sample stdev of {-1, 1} is sqrt(2).
	got := stdev([]float64{-1, 1})
	if got < 1.414 || got > 1.415 {
		t.Errorf("stdev(-1,1) = %v, want ~1.4142", got)
	}
}
