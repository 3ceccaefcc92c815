// Package bias classifies news sources by political lean and credibility,
// and derives diversity and echo-chamber analysis from source usage.
//
// Classification is total: any source string resolves to a (bias,
// credibility) pair. Known sources come from a built-in reference table
// cached in the store; everything else degrades to neutral unless an
// external lookup is configured.
package bias

import (
	"context"
	"strings"

	"github.com/abelbrown/newslens/internal/logging"
	"github.com/abelbrown/newslens/internal/store"
)

// Rating is a (political bias, credibility) pair.
// Bias is in [-1, 1]: negative = left-leaning, positive = right-leaning.
// Credibility is in [0, 1].
type Rating struct {
	Bias        float64 `json:"political_bias"`
	Credibility float64 `json:"credibility_score"`
}

// Neutral is the fallback rating for sources nothing can classify.
var Neutral = Rating{Bias: 0.0, Credibility: 0.5}

// knownSources is the built-in reference table of classifications,
// keyed by normalized source name.
var knownSources = map[string]Rating{
	// Left-leaning sources
	"guardian":       {Bias: -0.6, Credibility: 0.8},
	"cnn":            {Bias: -0.4, Credibility: 0.7},
	"msnbc":          {Bias: -0.7, Credibility: 0.6},
	"washingtonpost": {Bias: -0.5, Credibility: 0.8},
	"nytimes":        {Bias: -0.4, Credibility: 0.9},
	"huffpost":       {Bias: -0.8, Credibility: 0.6},
	"vox":            {Bias: -0.7, Credibility: 0.7},

	// Right-leaning sources
	"foxnews":   {Bias: 0.7, Credibility: 0.6},
	"fox":       {Bias: 0.7, Credibility: 0.6},
	"breitbart": {Bias: 0.9, Credibility: 0.4},
	"dailywire": {Bias: 0.8, Credibility: 0.5},
	"nypost":    {Bias: 0.5, Credibility: 0.6},
	"wsj":       {Bias: 0.3, Credibility: 0.9},

	// Center sources
	"reuters":   {Bias: 0.0, Credibility: 0.9},
	"ap":        {Bias: 0.0, Credibility: 0.9},
	"apnews":    {Bias: 0.0, Credibility: 0.9},
	"bbc":       {Bias: -0.1, Credibility: 0.8},
	"npr":       {Bias: -0.2, Credibility: 0.8},
	"pbs":       {Bias: -0.1, Credibility: 0.8},
	"usatoday":  {Bias: 0.1, Credibility: 0.7},
	"bloomberg": {Bias: 0.0, Credibility: 0.9},
	"newsapi":   {Bias: 0.0, Credibility: 0.8}, // Aggregator
}

// suffixes are domain suffixes stripped during normalization.
// Order matters: only the first match is removed.
var suffixes = []string{".com", ".org", ".net", ".co.uk", ".au"}

// aliases collapses common variant spellings to canonical keys.
var aliases = map[string]string{
	"the-guardian":            "guardian",
	"theguardian":             "guardian",
	"the-washington-post":     "washingtonpost",
	"the-wall-street-journal": "wsj",
	"wall-street-journal":     "wsj",
	"wallstreetjournal":       "wsj",
	"new-york-times":          "nytimes",
	"the-new-york-times":      "nytimes",
	"associated-press":        "ap",
	"huffington-post":         "huffpost",
	"usa-today":               "usatoday",
}

// Classifier resolves source ratings through the store cache, an optional
// external lookup, and the neutral fallback, in that order.
type Classifier struct {
	store  *store.Store
	lookup Lookup // nil when no external lookup is configured
}

// New creates a Classifier and seeds the built-in reference table into the
// store. Seeding is an idempotent upsert: the table is static, so
// re-applying it on every construction is harmless.
func New(st *store.Store) (*Classifier, error) {
	return NewWithLookup(st, nil)
}

// NewWithLookup creates a Classifier with an external lookup backend.
func NewWithLookup(st *store.Store, lookup Lookup) (*Classifier, error) {
	c := &Classifier{store: st, lookup: lookup}
	for source, r := range knownSources {
		if err := st.UpsertSourceAnalysis(source, r.Bias, r.Credibility); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// Normalize cleans a source identifier: lowercase, trim, strip one domain
// suffix, then collapse known alias spellings. Idempotent.
func Normalize(source string) string {
	clean := strings.ToLower(strings.TrimSpace(source))

	for _, suffix := range suffixes {
		if strings.HasSuffix(clean, suffix) {
			clean = strings.TrimSuffix(clean, suffix)
			break
		}
	}

	if canonical, ok := aliases[clean]; ok {
		return canonical
	}
	return clean
}

// SourceBias returns the rating for a source. It never fails: unknown
// sources resolve to Neutral. Resolution order is store cache, external
// lookup (results are cached), then the neutral fallback (never cached).
func (c *Classifier) SourceBias(ctx context.Context, source string) Rating {
	key := Normalize(source)
	if key == "" {
		return Neutral
	}

	cached, ok, err := c.store.GetSourceAnalysis(key)
	if err != nil {
		logging.Warn("source analysis lookup failed", "source", key, "error", err)
	} else if ok {
		return Rating{Bias: cached.Bias, Credibility: cached.Credibility}
	}

	if c.lookup != nil && c.lookup.Available() {
		r, err := c.lookup.Classify(ctx, key)
		if err != nil {
			logging.Warn("external classification failed", "source", key,
				"backend", c.lookup.Name(), "error", err)
		} else {
			// Only real classifications are cached; the neutral fallback
			// below is not.
			if err := c.store.UpsertSourceAnalysis(key, r.Bias, r.Credibility); err != nil {
				logging.Warn("caching classification failed", "source", key, "error", err)
			}
			return r
		}
	}

	return Neutral
}
