// Package recommend generates source, topic, and habit recommendations
// for more balanced news consumption.
package recommend

import (
	"context"
	"fmt"
	"math"

	"github.com/abelbrown/newslens/internal/bias"
	"github.com/abelbrown/newslens/internal/store"
)

// DefaultLimit is the recommendation count used when the caller passes a
// non-positive limit.
const DefaultLimit = 5

// Engine derives recommendations from consumption stats and source
// classifications.
type Engine struct {
	store *store.Store
	bias  *bias.Classifier
}

// New creates a recommendation engine.
func New(st *store.Store, cl *bias.Classifier) *Engine {
	return &Engine{store: st, bias: cl}
}

// SourceRec is one recommended news source.
type SourceRec struct {
	Source      string  `json:"source"`
	Reason      string  `json:"reason"`
	Bias        float64 `json:"bias"`
	Credibility float64 `json:"credibility"`
	Category    string  `json:"category"`
}

// SourceRecs is the source recommendation result for a period.
type SourceRecs struct {
	Recommendations       []SourceRec `json:"recommendations"`
	CurrentDiversityScore float64     `json:"current_diversity_score"`
	EchoChamberRisk       bool        `json:"echo_chamber_risk"`
	ImprovementPotential  float64     `json:"improvement_potential"`
	Rationale             string      `json:"rationale"`
}

// starterRecs is the fixed pack offered to users with no history yet.
var starterRecs = []SourceRec{
	{Source: "reuters", Reason: "Highly credible and politically neutral",
		Bias: 0.0, Credibility: 0.9, Category: "neutral"},
	{Source: "ap", Reason: "Trusted wire service with minimal bias",
		Bias: 0.0, Credibility: 0.9, Category: "neutral"},
	{Source: "bbc", Reason: "International perspective with high credibility",
		Bias: -0.1, Credibility: 0.8, Category: "international"},
	{Source: "npr", Reason: "In-depth analysis with slight left lean",
		Bias: -0.2, Credibility: 0.8, Category: "analysis"},
	{Source: "wsj", Reason: "Business focus with slight right lean",
		Bias: 0.3, Credibility: 0.9, Category: "business"},
}

// leftBalanceRecs are offered when left-leaning sources are
// underrepresented (below 20% of the mix).
var leftBalanceRecs = []SourceRec{
	{Source: "guardian", Reason: "Quality left-leaning international coverage",
		Bias: -0.6, Credibility: 0.8, Category: "left-balance"},
	{Source: "npr", Reason: "In-depth left-leaning analysis",
		Bias: -0.2, Credibility: 0.8, Category: "left-balance"},
}

// rightBalanceRecs are offered when right-leaning sources are below 20%.
var rightBalanceRecs = []SourceRec{
	{Source: "wsj", Reason: "High-quality right-leaning business news",
		Bias: 0.3, Credibility: 0.9, Category: "right-balance"},
	{Source: "nypost", Reason: "Popular right-leaning perspective",
		Bias: 0.5, Credibility: 0.6, Category: "right-balance"},
}

// centerBalanceRecs are offered when centrist sources are below 30%.
var centerBalanceRecs = []SourceRec{
	{Source: "reuters", Reason: "Neutral, fact-focused reporting",
		Bias: 0.0, Credibility: 0.9, Category: "center-balance"},
	{Source: "ap", Reason: "Unbiased wire service",
		Bias: 0.0, Credibility: 0.9, Category: "center-balance"},
}

// credibilityRecs are offered when the average credibility of the user's
// sources falls below 0.8.
var credibilityRecs = []SourceRec{
	{Source: "reuters", Reason: "Exceptional credibility and fact-checking",
		Bias: 0.0, Credibility: 0.9, Category: "high-credibility"},
	{Source: "ap", Reason: "Rigorous journalistic standards",
		Bias: 0.0, Credibility: 0.9, Category: "high-credibility"},
	{Source: "wsj", Reason: "High-quality business journalism",
		Bias: 0.3, Credibility: 0.9, Category: "high-credibility"},
	{Source: "nytimes", Reason: "Thorough investigative reporting",
		Bias: -0.4, Credibility: 0.9, Category: "high-credibility"},
	{Source: "bbc", Reason: "International standards and fact-checking",
		Bias: -0.1, Credibility: 0.8, Category: "high-credibility"},
}

// SourceRecommendations recommends sources to improve diversity over the
// given period. A non-positive limit falls back to DefaultLimit.
func (e *Engine) SourceRecommendations(ctx context.Context, days, limit int) (SourceRecs, error) {
	stats, err := e.store.QueryStats(days)
	if err != nil {
		return SourceRecs{}, err
	}
	return e.sourceRecsFromStats(ctx, stats, limit), nil
}

func (e *Engine) sourceRecsFromStats(ctx context.Context, stats store.Stats, limit int) SourceRecs {
	if limit <= 0 {
		limit = DefaultLimit
	}

	current := stats.BySource.Keys()
	if len(current) == 0 {
		return SourceRecs{
			Recommendations:      starterRecs,
			EchoChamberRisk:      false,
			ImprovementPotential: 1.0,
			Rationale:            "Starting with diverse, credible sources for balanced news consumption",
		}
	}

	diversity := e.bias.AnalyzeSourceDiversity(ctx, current)
	echo := e.bias.DetectEchoChamber(ctx, current, bias.DefaultEchoThreshold)

	var candidates []SourceRec
	candidates = append(candidates, balanceCandidates(diversity.PoliticalBalance)...)
	if diversity.AverageCredibility < 0.8 {
		candidates = append(candidates, credibilityRecs...)
	}

	// Deduplicate and drop sources already in use.
	seen := make(map[string]bool, len(current))
	for _, s := range current {
		seen[s] = true
	}
	var recs []SourceRec
	for _, rec := range candidates {
		if seen[rec.Source] {
			continue
		}
		seen[rec.Source] = true
		recs = append(recs, rec)
		if len(recs) >= limit {
			break
		}
	}

	return SourceRecs{
		Recommendations:       recs,
		CurrentDiversityScore: diversity.DiversityScore,
		EchoChamberRisk:       echo.IsEchoChamber,
		ImprovementPotential:  e.improvementPotential(ctx, current, recs, diversity.DiversityScore),
		Rationale:             recommendationRationale(diversity.DiversityScore, echo),
	}
}

// balanceCandidates picks candidate sources for underrepresented
// political perspectives.
func balanceCandidates(balance bias.Balance) []SourceRec {
	total := balance.Total()
	if total == 0 {
		return nil
	}
	n := float64(total)

	var recs []SourceRec
	if float64(balance.Left)/n < 0.2 {
		recs = append(recs, leftBalanceRecs...)
	}
	if float64(balance.Right)/n < 0.2 {
		recs = append(recs, rightBalanceRecs...)
	}
	if float64(balance.Center)/n < 0.3 {
		recs = append(recs, centerBalanceRecs...)
	}
	return recs
}

// improvementPotential estimates the diversity-score gain from adopting
// the recommended sources, clamped to [0, 1].
func (e *Engine) improvementPotential(ctx context.Context, current []string, recs []SourceRec, currentScore float64) float64 {
	if len(recs) == 0 {
		return 0.0
	}

	potential := make([]string, 0, len(current)+len(recs))
	potential = append(potential, current...)
	for _, rec := range recs {
		potential = append(potential, rec.Source)
	}

	potentialScore := e.bias.AnalyzeSourceDiversity(ctx, potential).DiversityScore
	return math.Max(0.0, math.Min(1.0, potentialScore-currentScore))
}

func recommendationRationale(diversityScore float64, echo bias.EchoChamber) string {
	switch {
	case diversityScore < 0.3:
		return fmt.Sprintf("Your current news sources show low diversity (score: %.2f). These recommendations will help you access different perspectives.", diversityScore)
	case echo.IsEchoChamber:
		return fmt.Sprintf("You may be in a %s echo chamber. These sources will provide broader viewpoints.", echo.Type)
	case diversityScore < 0.6:
		return fmt.Sprintf("Your source diversity is moderate (score: %.2f). These recommendations will enhance your perspective range.", diversityScore)
	default:
		return "Your sources are well-balanced. These additional sources can further enrich your news consumption."
	}
}
