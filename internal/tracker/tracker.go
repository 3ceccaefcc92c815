// Package tracker records user interactions with the news CLI into the
// analytics store. All tracking respects the tracking_enabled setting:
// when tracking is off, Track calls are silent no-ops.
package tracker

import (
	"fmt"
	"time"

	"github.com/abelbrown/newslens/internal/logging"
	"github.com/abelbrown/newslens/internal/store"
)

// Tracker records consumption events and session timing.
type Tracker struct {
	store *store.Store

	// sessionStart is zero when no session is open.
	sessionStart time.Time
	now          func() time.Time
}

// New creates a tracker over the given store.
func New(st *store.Store) *Tracker {
	return &Tracker{store: st, now: time.Now}
}

// Enabled reports whether tracking is currently on.
func (t *Tracker) Enabled() (bool, error) {
	return t.store.TrackingEnabled()
}

// Enable turns tracking on.
func (t *Tracker) Enable() error {
	logging.Info("analytics tracking enabled")
	return t.store.SetTrackingEnabled(true)
}

// Disable turns tracking off. Already-recorded events are kept.
func (t *Tracker) Disable() error {
	logging.Info("analytics tracking disabled")
	return t.store.SetTrackingEnabled(false)
}

// StartSession marks the beginning of a timed interaction.
func (t *Tracker) StartSession() {
	t.sessionStart = t.now()
}

// EndSession closes the current session and returns its duration in
// seconds. Returns 0 when no session is open.
func (t *Tracker) EndSession() int {
	if t.sessionStart.IsZero() {
		return 0
	}
	duration := int(t.now().Sub(t.sessionStart).Seconds())
	t.sessionStart = time.Time{}
	return duration
}

// SearchEvent describes one search operation.
type SearchEvent struct {
	Topic       string
	Source      string
	Keywords    string
	Country     string
	Language    string
	ResultCount int
}

// TrackSearch records a news search. The open session's duration, if any,
// is attached to the event.
func (t *Tracker) TrackSearch(ev SearchEvent) error {
	return t.record(store.Event{
		Action:      "search",
		Topic:       ev.Topic,
		Source:      ev.Source,
		Keywords:    ev.Keywords,
		Country:     ev.Country,
		Language:    ev.Language,
		Duration:    t.EndSession(),
		ResultCount: ev.ResultCount,
	})
}

// TrackView records viewing news articles.
func (t *Tracker) TrackView(topic, source, keywords string) error {
	return t.record(store.Event{
		Action:   "view",
		Topic:    topic,
		Source:   source,
		Keywords: keywords,
		Duration: t.EndSession(),
	})
}

// TrackSummary records article summarization usage. sourceType is how the
// article was supplied, e.g. "url" or "text".
func (t *Tracker) TrackSummary(sourceType string, duration int) error {
	return t.record(store.Event{
		Action:   "summary",
		Keywords: "source_type:" + sourceType,
		Duration: duration,
	})
}

// TrackSourcesList records a sources listing operation.
func (t *Tracker) TrackSourcesList(source, topic, country string, resultCount int) error {
	return t.record(store.Event{
		Action:      "sources",
		Topic:       topic,
		Source:      source,
		Country:     country,
		Duration:    t.EndSession(),
		ResultCount: resultCount,
	})
}

// TrackConfigView records configuration viewing.
func (t *Tracker) TrackConfigView() error {
	return t.record(store.Event{Action: "config", Duration: t.EndSession()})
}

// TrackTopicsList records topics listing.
func (t *Tracker) TrackTopicsList() error {
	return t.record(store.Event{Action: "list-topics", Duration: t.EndSession()})
}

// TrackAnalyticsView records analytics report viewing.
func (t *Tracker) TrackAnalyticsView(period int, reportType string) error {
	return t.record(store.Event{
		Action:   "analytics",
		Keywords: fmt.Sprintf("period:%d,type:%s", period, reportType),
		Duration: t.EndSession(),
	})
}

// TrackExport records a data export operation.
func (t *Tracker) TrackExport(format string, period int) error {
	return t.record(store.Event{
		Action:   "export",
		Keywords: fmt.Sprintf("format:%s,period:%d", format, period),
		Duration: t.EndSession(),
	})
}

// TrackRecommendationsView records recommendations viewing.
func (t *Tracker) TrackRecommendationsView(recType string) error {
	return t.record(store.Event{
		Action:   "recommend",
		Keywords: "type:" + recType,
		Duration: t.EndSession(),
	})
}

// record writes the event if tracking is on. Disabled tracking drops the
// event silently.
func (t *Tracker) record(ev store.Event) error {
	enabled, err := t.store.TrackingEnabled()
	if err != nil {
		return err
	}
	if !enabled {
		return nil
	}
	if _, err := t.store.Record(ev); err != nil {
		return err
	}
	return nil
}

// UpdatePreference adjusts a weighted preference; a no-op when tracking
// is off.
func (t *Tracker) UpdatePreference(prefType, prefValue string, weight float64) error {
	enabled, err := t.store.TrackingEnabled()
	if err != nil {
		return err
	}
	if !enabled {
		return nil
	}
	return t.store.SetPreference(prefType, prefValue, weight)
}

// UsageStats returns the consumption stats for the period.
func (t *Tracker) UsageStats(days int) (store.Stats, error) {
	return t.store.QueryStats(days)
}

// MostUsedSources returns the top news sources by usage, most used first.
func (t *Tracker) MostUsedSources(days, limit int) (store.CountMap, error) {
	stats, err := t.store.QueryStats(days)
	if err != nil {
		return nil, err
	}
	return topN(stats.BySource, limit), nil
}

// MostSearchedTopics returns the top topics by usage, most searched first.
func (t *Tracker) MostSearchedTopics(days, limit int) (store.CountMap, error) {
	stats, err := t.store.QueryStats(days)
	if err != nil {
		return nil, err
	}
	return topN(stats.ByTopic, limit), nil
}

// ActivityPattern summarizes daily usage over the period.
type ActivityPattern struct {
	TotalActivities int              `json:"total_activities"`
	DailyAverage    float64          `json:"daily_average"`
	DailyActivity   []store.DayCount `json:"daily_activity"`
	ByAction        store.CountMap   `json:"activities_by_action"`
}

// Pattern returns the daily activity pattern for the period.
func (t *Tracker) Pattern(days int) (ActivityPattern, error) {
	stats, err := t.store.QueryStats(days)
	if err != nil {
		return ActivityPattern{}, err
	}
	return ActivityPattern{
		TotalActivities: stats.TotalActivities,
		DailyAverage:    float64(stats.TotalActivities) / float64(max(days, 1)),
		DailyActivity:   stats.DailyActivity,
		ByAction:        stats.ByAction,
	}, nil
}

// CleanupExpired removes events older than the retention period.
func (t *Tracker) CleanupExpired() (int64, error) {
	return t.store.CleanupExpired()
}

// Reset erases all recorded analytics data.
func (t *Tracker) Reset() error {
	return t.store.ResetAll()
}

// ExportAll returns every stored record for data portability.
func (t *Tracker) ExportAll() (store.Export, error) {
	return t.store.ExportAll()
}

func topN(m store.CountMap, n int) store.CountMap {
	if n <= 0 || n >= len(m) {
		return m
	}
	return m[:n]
}
