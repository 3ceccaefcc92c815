package recommend

import (
	"fmt"
	"sort"

	"github.com/abelbrown/newslens/internal/store"
)

// TopicUniverse is the fixed set of topics the engine reasons about,
// in canonical order.
var TopicUniverse = []string{
	"business", "entertainment", "general", "health",
	"science", "sports", "technology",
}

// topicExplanations describes why each topic is worth exploring.
var topicExplanations = map[string]string{
	"business":      "Stay informed about economic trends and market developments",
	"entertainment": "Discover cultural trends and entertainment industry news",
	"general":       "Get broad coverage of current events and breaking news",
	"health":        "Learn about medical breakthroughs and health policy updates",
	"science":       "Explore scientific discoveries and technological innovations",
	"sports":        "Follow major sporting events and athlete stories",
	"technology":    "Keep up with tech developments and digital transformation",
}

// TopicRec is one recommended topic.
type TopicRec struct {
	Topic    string `json:"topic"`
	Reason   string `json:"reason"`
	Category string `json:"category"`
}

// TopicRecs is the topic recommendation result for a period.
type TopicRecs struct {
	Recommendations []TopicRec `json:"recommendations"`
	ExploredTopics  []string   `json:"explored_topics"`
	TopicCoverage   string     `json:"topic_coverage"`
	Rationale       string     `json:"rationale"`
}

// TopicRecommendations recommends unexplored topics, or low-usage topics
// to deepen when everything is already covered. A non-positive limit falls
// back to DefaultLimit.
func (e *Engine) TopicRecommendations(days, limit int) (TopicRecs, error) {
	stats, err := e.store.QueryStats(days)
	if err != nil {
		return TopicRecs{}, err
	}
	return topicRecsFromStats(stats, limit), nil
}

func topicRecsFromStats(stats store.Stats, limit int) TopicRecs {
	if limit <= 0 {
		limit = DefaultLimit
	}

	explored := stats.ByTopic.Keys()

	// Unexplored topics in canonical universe order.
	var recs []TopicRec
	for _, topic := range TopicUniverse {
		if len(recs) >= limit {
			break
		}
		if !stats.ByTopic.Has(topic) {
			recs = append(recs, TopicRec{
				Topic:    topic,
				Reason:   topicExplanations[topic],
				Category: "topic-expansion",
			})
		}
	}

	// Everything covered: suggest deepening the least-used topics.
	if len(recs) == 0 && len(explored) > 0 {
		byUsage := make(store.CountMap, len(stats.ByTopic))
		copy(byUsage, stats.ByTopic)
		sort.Slice(byUsage, func(i, j int) bool {
			if byUsage[i].Count != byUsage[j].Count {
				return byUsage[i].Count < byUsage[j].Count
			}
			return byUsage[i].Key < byUsage[j].Key
		})
		for _, kc := range byUsage {
			if len(recs) >= limit {
				break
			}
			if kc.Count < 3 {
				recs = append(recs, TopicRec{
					Topic:    kc.Key,
					Reason:   fmt.Sprintf("You've only searched this %d times - explore more depth", kc.Count),
					Category: "topic-deepening",
				})
			}
		}
	}

	return TopicRecs{
		Recommendations: recs,
		ExploredTopics:  explored,
		TopicCoverage:   fmt.Sprintf("%d/%d topics explored", len(explored), len(TopicUniverse)),
		Rationale:       topicRationale(len(explored)),
	}
}

func topicRationale(explored int) string {
	total := len(TopicUniverse)
	ratio := float64(explored) / float64(total)

	switch {
	case ratio == 0:
		return "Start exploring different news topics for well-rounded awareness"
	case ratio < 0.5:
		return fmt.Sprintf("You've explored %d of %d topics. Broaden your interests for better coverage.", explored, total)
	case ratio < 0.8:
		return fmt.Sprintf("Good topic diversity! Consider exploring the remaining %d topics.", total-explored)
	default:
		return "Excellent topic coverage! Focus on deepening your understanding in areas of interest."
	}
}
