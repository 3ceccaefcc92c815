package insights

import (
	"fmt"
	"sort"
	"strings"

	"github.com/abelbrown/newslens/internal/bias"
	"github.com/abelbrown/newslens/internal/recommend"
	"github.com/abelbrown/newslens/internal/store"
)

// internationalSources and domesticSources partition the major outlets for
// coverage-gap detection. Sources outside either set do not count.
var (
	internationalSources = map[string]bool{"bbc": true, "guardian": true, "reuters": true}
	domesticSources      = map[string]bool{"cnn": true, "foxnews": true, "nytimes": true, "wsj": true, "usatoday": true}
)

// BlindSpots describes what a reader's consumption is missing: topics
// never or barely touched, absent political perspectives, and skew toward
// only international or only domestic outlets.
type BlindSpots struct {
	MissingTopics       []string         `json:"missing_topics"`
	UnderexploredTopics []store.KeyCount `json:"underexplored_topics"`
	PerspectiveGaps     []string         `json:"perspective_gaps"`
	CoverageGap         string           `json:"coverage_gap,omitempty"`
	DiversityScore      float64          `json:"diversity_score"`
	ImprovementAreas    []string         `json:"improvement_areas"`
}

// DetectBlindSpots derives blind spots from windowed stats and the
// period's bias summary.
func DetectBlindSpots(stats store.Stats, summary bias.Summary) BlindSpots {
	// Topics never touched, in canonical universe order.
	var missing []string
	for _, topic := range recommend.TopicUniverse {
		if !stats.ByTopic.Has(topic) {
			missing = append(missing, topic)
		}
	}

	// Topics with under 10% of topic activity, least-used first.
	var underexplored []store.KeyCount
	if total := stats.ByTopic.Total(); total > 0 {
		for _, kc := range stats.ByTopic {
			if float64(kc.Count)/float64(total) < 0.1 {
				underexplored = append(underexplored, kc)
			}
		}
		sort.Slice(underexplored, func(i, j int) bool {
			if underexplored[i].Count != underexplored[j].Count {
				return underexplored[i].Count < underexplored[j].Count
			}
			return underexplored[i].Key < underexplored[j].Key
		})
	}

	gaps := perspectiveGaps(summary.Diversity.PoliticalBalance)
	coverageGap := detectCoverageGap(stats.BySource)

	return BlindSpots{
		MissingTopics:       missing,
		UnderexploredTopics: underexplored,
		PerspectiveGaps:     gaps,
		CoverageGap:         coverageGap,
		DiversityScore:      summary.Diversity.DiversityScore,
		ImprovementAreas:    improvementAreas(missing, underexplored, gaps, coverageGap),
	}
}

// perspectiveGaps names political sides making up under 15% of the mix.
func perspectiveGaps(balance bias.Balance) []string {
	total := balance.Total()
	if total == 0 {
		return nil
	}
	n := float64(total)

	var gaps []string
	if float64(balance.Left)/n < 0.15 {
		gaps = append(gaps, "left-leaning perspectives")
	}
	if float64(balance.Center)/n < 0.15 {
		gaps = append(gaps, "centrist perspectives")
	}
	if float64(balance.Right)/n < 0.15 {
		gaps = append(gaps, "right-leaning perspectives")
	}
	return gaps
}

// detectCoverageGap reports "international" or "domestic" when one side of
// the outlet split is entirely absent while the other is present.
func detectCoverageGap(bySource store.CountMap) string {
	var international, domestic int
	for _, kc := range bySource {
		if internationalSources[kc.Key] {
			international++
		}
		if domesticSources[kc.Key] {
			domestic++
		}
	}

	switch {
	case international == 0 && domestic > 0:
		return "international"
	case domestic == 0 && international > 0:
		return "domestic"
	}
	return ""
}

func improvementAreas(missing []string, underexplored []store.KeyCount, gaps []string, coverageGap string) []string {
	var areas []string

	if len(missing) > 3 {
		areas = append(areas, "Expand topic coverage - you're missing several important news categories")
	} else if len(missing) > 0 {
		sample := missing
		if len(sample) > 3 {
			sample = sample[:3]
		}
		areas = append(areas, "Consider exploring: "+strings.Join(sample, ", "))
	}

	if len(underexplored) > 2 {
		areas = append(areas, "Deepen coverage in topics you've barely explored")
	}

	if len(gaps) > 1 {
		areas = append(areas, "Diversify political perspectives in your news sources")
	} else if len(gaps) == 1 {
		areas = append(areas, fmt.Sprintf("Add more %s to your news diet", gaps[0]))
	}

	if coverageGap != "" {
		areas = append(areas, fmt.Sprintf("Include more %s news sources for broader perspective", coverageGap))
	}

	if len(areas) == 0 {
		areas = append(areas, "Your news consumption appears well-balanced!")
	}
	return areas
}
