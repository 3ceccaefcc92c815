package store

import "time"

// KeyCount is one (key, count) pair of an aggregate.
type KeyCount struct {
	Key   string `json:"key"`
	Count int    `json:"count"`
}

// CountMap is an ordered count aggregate: descending by count, ties broken
// by key ascending. Order is part of the query contract, which is why this
// is a slice and not a Go map.
type CountMap []KeyCount

// Get returns the count for key, or 0 if absent.
func (m CountMap) Get(key string) int {
	for _, kc := range m {
		if kc.Key == key {
			return kc.Count
		}
	}
	return 0
}

// Has reports whether key appears in the aggregate.
func (m CountMap) Has(key string) bool {
	for _, kc := range m {
		if kc.Key == key {
			return true
		}
	}
	return false
}

// Keys returns the keys in aggregate order.
func (m CountMap) Keys() []string {
	keys := make([]string, len(m))
	for i, kc := range m {
		keys[i] = kc.Key
	}
	return keys
}

// Total returns the sum of all counts.
func (m CountMap) Total() int {
	total := 0
	for _, kc := range m {
		total += kc.Count
	}
	return total
}

// DayCount is the activity count for one calendar date (YYYY-MM-DD).
type DayCount struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

// Stats holds the windowed consumption aggregates for a reporting period.
// Days with zero activity are omitted from DailyActivity, not zero-filled;
// trend consumers average over the rows that exist.
type Stats struct {
	PeriodDays      int        `json:"period_days"`
	TotalActivities int        `json:"total_activities"`
	ByAction        CountMap   `json:"activities_by_action"`
	BySource        CountMap   `json:"activities_by_source"`
	ByTopic         CountMap   `json:"activities_by_topic"`
	DailyActivity   []DayCount `json:"daily_activity"`
	StartDate       time.Time  `json:"start_date"`
	EndDate         time.Time  `json:"end_date"`
}

// QueryStats returns consumption aggregates for the window
// [now - periodDays, now]. Count maps are ordered by count descending with
// key-ascending tie-breaks; daily activity is ascending by date.
func (s *Store) QueryStats(periodDays int) (Stats, error) {
	if periodDays <= 0 {
		return Stats{}, &ValidationError{Field: "period_days", Reason: "must be > 0"}
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	end := s.now().UTC()
	start := end.AddDate(0, 0, -periodDays)
	startStr := start.Format(timeLayout)

	stats := Stats{
		PeriodDays: periodDays,
		StartDate:  start,
		EndDate:    end,
	}

	err := s.db.QueryRow(
		"SELECT COUNT(*) FROM consumption_log WHERE timestamp >= ?", startStr,
	).Scan(&stats.TotalActivities)
	if err != nil {
		return Stats{}, storageErr("query stats", err)
	}

	stats.ByAction, err = s.countBy("action", startStr)
	if err != nil {
		return Stats{}, err
	}
	stats.BySource, err = s.countBy("source", startStr)
	if err != nil {
		return Stats{}, err
	}
	stats.ByTopic, err = s.countBy("topic", startStr)
	if err != nil {
		return Stats{}, err
	}

	rows, err := s.db.Query(`
		SELECT DATE(timestamp) AS day, COUNT(*) AS count
		FROM consumption_log
		WHERE timestamp >= ?
		GROUP BY day
		ORDER BY day`, startStr)
	if err != nil {
		return Stats{}, storageErr("query daily activity", err)
	}
	defer rows.Close()
	for rows.Next() {
		var dc DayCount
		if err := rows.Scan(&dc.Date, &dc.Count); err != nil {
			return Stats{}, storageErr("query daily activity", err)
		}
		stats.DailyActivity = append(stats.DailyActivity, dc)
	}
	if err := rows.Err(); err != nil {
		return Stats{}, storageErr("query daily activity", err)
	}

	return stats, nil
}

// countBy aggregates event counts over one column, skipping NULL keys.
// Caller must hold s.mu. The column name is always one of the fixed
// grouping columns, never user input.
func (s *Store) countBy(column, startStr string) (CountMap, error) {
	rows, err := s.db.Query(`
		SELECT `+column+`, COUNT(*) AS count
		FROM consumption_log
		WHERE timestamp >= ? AND `+column+` IS NOT NULL
		GROUP BY `+column+`
		ORDER BY count DESC, `+column+` ASC`, startStr)
	if err != nil {
		return nil, storageErr("query stats by "+column, err)
	}
	defer rows.Close()

	var result CountMap
	for rows.Next() {
		var kc KeyCount
		if err := rows.Scan(&kc.Key, &kc.Count); err != nil {
			return nil, storageErr("query stats by "+column, err)
		}
		result = append(result, kc)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("query stats by "+column, err)
	}
	return result, nil
}
