package bias

import (
	"context"
	"math"

	"github.com/abelbrown/newslens/internal/store"
)

// DefaultEchoThreshold is the diversity score below which a one-sided
// source set counts as an echo chamber. Calibration constant; changing it
// changes observable classifications.
const DefaultEchoThreshold = 0.3

// Balance counts sources per political side. A source is left when
// bias < -0.3, right when bias > 0.3, center otherwise.
type Balance struct {
	Left   int `json:"left"`
	Center int `json:"center"`
	Right  int `json:"right"`
}

// Total returns the number of counted sources.
func (b Balance) Total() int {
	return b.Left + b.Center + b.Right
}

// Distribution summarizes the raw bias values of a source set.
type Distribution struct {
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	StdDev float64 `json:"std_dev"`
}

// Diversity is the political-diversity analysis of a source set.
type Diversity struct {
	DiversityScore     float64      `json:"diversity_score"`
	PoliticalBalance   Balance      `json:"political_balance"`
	AverageCredibility float64      `json:"average_credibility"`
	AverageBias        float64      `json:"average_bias"`
	SourceCount        int          `json:"source_count"`
	BiasDistribution   Distribution `json:"bias_distribution"`
}

// Ratios is the per-side share of a source set. All zero when empty.
type Ratios struct {
	Left   float64 `json:"left_ratio"`
	Center float64 `json:"center_ratio"`
	Right  float64 `json:"right_ratio"`
}

// EchoChamber is the result of echo-chamber detection over a source set.
type EchoChamber struct {
	IsEchoChamber   bool     `json:"is_echo_chamber"`
	Type            string   `json:"echo_chamber_type"`
	DiversityScore  float64  `json:"diversity_score"`
	Distribution    Ratios   `json:"political_distribution"`
	Recommendations []string `json:"recommendations"`
}

// AnalyzeSourceDiversity computes the political balance and diversity score
// of an ordered source list. Duplicates count. Empty input yields the zero
// analysis, not an error.
func (c *Classifier) AnalyzeSourceDiversity(ctx context.Context, sources []string) Diversity {
	if len(sources) == 0 {
		return Diversity{}
	}

	biases := make([]float64, 0, len(sources))
	var credSum, biasSum float64
	var balance Balance

	for _, source := range sources {
		r := c.SourceBias(ctx, source)
		biases = append(biases, r.Bias)
		biasSum += r.Bias
		credSum += r.Credibility

		switch {
		case r.Bias < -0.3:
			balance.Left++
		case r.Bias > 0.3:
			balance.Right++
		default:
			balance.Center++
		}
	}

	// Sample standard deviation of the bias values; 0 for a single source.
	// The stdev of a [-1,1]-bounded variable stays within [0,1] in
	// practice, but clamp anyway.
	sd := stdev(biases)
	score := math.Min(sd, 1.0)

	n := float64(len(sources))
	min, max := biases[0], biases[0]
	for _, b := range biases[1:] {
		min = math.Min(min, b)
		max = math.Max(max, b)
	}

	return Diversity{
		DiversityScore:     round3(score),
		PoliticalBalance:   balance,
		AverageCredibility: round3(credSum / n),
		AverageBias:        round3(biasSum / n),
		SourceCount:        len(sources),
		BiasDistribution: Distribution{
			Min:    round3(min),
			Max:    round3(max),
			StdDev: round3(sd),
		},
	}
}

// DetectEchoChamber decides whether a source set constitutes an echo
// chamber. A set is an echo chamber when one political side exceeds 70% of
// it, or when a one-side-typed set falls below the diversity threshold.
// A politically mixed ("balanced") set is never flagged for merely
// clustering near center.
func (c *Classifier) DetectEchoChamber(ctx context.Context, sources []string, threshold float64) EchoChamber {
	analysis := c.AnalyzeSourceDiversity(ctx, sources)
	balance := analysis.PoliticalBalance
	total := balance.Total()

	result := EchoChamber{
		Type:           "balanced",
		DiversityScore: analysis.DiversityScore,
	}

	if total > 0 {
		n := float64(total)
		ratios := Ratios{
			Left:   float64(balance.Left) / n,
			Center: float64(balance.Center) / n,
			Right:  float64(balance.Right) / n,
		}
		result.Distribution = Ratios{
			Left:   round3(ratios.Left),
			Center: round3(ratios.Center),
			Right:  round3(ratios.Right),
		}

		// Echo chamber if > 70% from one political side.
		switch {
		case ratios.Left > 0.7:
			result.IsEchoChamber = true
			result.Type = "left-leaning"
		case ratios.Right > 0.7:
			result.IsEchoChamber = true
			result.Type = "right-leaning"
		case ratios.Center > 0.9:
			result.Type = "center-focused"
		}

		// Low diversity marks an echo chamber only when usage already
		// leans one way.
		if result.Type != "balanced" && analysis.DiversityScore < threshold {
			result.IsEchoChamber = true
		}
	}

	result.Recommendations = balanceRecommendations(balance)
	return result
}

// balanceRecommendations produces text hints for correcting a skewed
// source mix.
func balanceRecommendations(balance Balance) []string {
	total := balance.Total()
	if total == 0 {
		return []string{"Start reading news from diverse sources"}
	}

	n := float64(total)
	leftRatio := float64(balance.Left) / n
	rightRatio := float64(balance.Right) / n
	centerRatio := float64(balance.Center) / n

	var recs []string
	switch {
	case leftRatio > 0.6:
		recs = append(recs,
			"Consider reading more centrist and conservative sources",
			"Try: Reuters, AP News, Wall Street Journal")
	case rightRatio > 0.6:
		recs = append(recs,
			"Consider reading more centrist and liberal sources",
			"Try: Reuters, AP News, NPR, BBC")
	case centerRatio > 0.8:
		recs = append(recs,
			"Consider reading diverse perspectives from different political viewpoints",
			"Try mixing sources like Guardian (left), WSJ (right), and Reuters (center)")
	}

	if balance.Left == balance.Center && balance.Center == balance.Right && total < 3 {
		recs = append(recs, "Try reading from at least 3-5 different sources for better coverage")
	}

	return recs
}

// Summary is the bias analysis of a reporting period's source usage.
type Summary struct {
	PeriodDays      int         `json:"period_days"`
	SourcesAnalyzed int         `json:"sources_analyzed"`
	SourcesUsed     []string    `json:"sources_used,omitempty"`
	Diversity       Diversity   `json:"diversity_analysis"`
	EchoChamber     EchoChamber `json:"echo_chamber_analysis"`
	OverallBias     float64     `json:"overall_bias_score"`
	Credibility     float64     `json:"credibility_score"`
	Recommendations []string    `json:"recommendations,omitempty"`
}

// BiasSummary analyzes the sources used in the given period. An empty
// history yields a neutral summary with a getting-started hint, not an
// error.
func (c *Classifier) BiasSummary(ctx context.Context, days int) (Summary, error) {
	stats, err := c.store.QueryStats(days)
	if err != nil {
		return Summary{}, err
	}
	return c.SummaryFromStats(ctx, stats), nil
}

// SummaryFromStats builds the bias summary from already-fetched stats so
// report assembly runs one stats query, not three.
func (c *Classifier) SummaryFromStats(ctx context.Context, stats store.Stats) Summary {
	sources := stats.BySource.Keys()
	if len(sources) == 0 {
		return Summary{
			PeriodDays:  stats.PeriodDays,
			Credibility: 0.5,
			Recommendations: []string{
				"Start reading news to get personalized bias analysis",
			},
		}
	}

	diversity := c.AnalyzeSourceDiversity(ctx, sources)
	echo := c.DetectEchoChamber(ctx, sources, DefaultEchoThreshold)

	return Summary{
		PeriodDays:      stats.PeriodDays,
		SourcesAnalyzed: len(sources),
		SourcesUsed:     sources,
		Diversity:       diversity,
		EchoChamber:     echo,
		OverallBias:     diversity.AverageBias,
		Credibility:     diversity.AverageCredibility,
	}
}

// stdev is the sample standard deviation (n-1 denominator); 0 for fewer
// than 2 values.
func stdev(values []float64) float64 {
	if len(values) < 2 {
		return 0.0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	mean := sum / float64(len(values))

	var ss float64
	for _, v := range values {
		d := v - mean
		ss += d * d
	}
	return math.Sqrt(ss / float64(len(values)-1))
}

// round3 rounds to 3 decimal places, the precision of every reported
// score.
func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}
