package store

import (
	"database/sql"
	"errors"
	"strconv"
)

// Settings keys and defaults. Settings persist across process restarts and
// survive ResetAll.
const (
	settingTracking  = "tracking_enabled"
	settingRetention = "data_retention_days"

	// DefaultRetentionDays is the event retention period used when the
	// setting has never been written.
	DefaultRetentionDays = 365

	// MaxRetentionDays bounds the retention setting (about ten years).
	MaxRetentionDays = 3650
)

// Setting returns the value for key, or def when the key is unset.
func (s *Store) Setting(key, def string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var value string
	err := s.db.QueryRow("SELECT value FROM analytics_settings WHERE key = ?", key).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return def, nil
		}
		return "", storageErr("get setting", err)
	}
	return value, nil
}

// SetSetting upserts a settings key.
func (s *Store) SetSetting(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(`
		INSERT OR REPLACE INTO analytics_settings (key, value, updated_at)
		VALUES (?, ?, ?)`,
		key, value, s.now().UTC().Format(timeLayout))
	return storageErr("set setting", err)
}

// TrackingEnabled reports whether event intake is on. Defaults to true.
func (s *Store) TrackingEnabled() (bool, error) {
	value, err := s.Setting(settingTracking, "true")
	if err != nil {
		return false, err
	}
	return value == "true", nil
}

// SetTrackingEnabled turns event intake on or off.
func (s *Store) SetTrackingEnabled(enabled bool) error {
	return s.SetSetting(settingTracking, strconv.FormatBool(enabled))
}

// RetentionDays returns the event retention period in days.
func (s *Store) RetentionDays() (int, error) {
	value, err := s.Setting(settingRetention, strconv.Itoa(DefaultRetentionDays))
	if err != nil {
		return 0, err
	}
	days, err := strconv.Atoi(value)
	if err != nil || days < 1 {
		// A corrupt setting degrades to the default rather than breaking
		// cleanup.
		return DefaultRetentionDays, nil
	}
	return days, nil
}

// SetRetentionDays sets the event retention period in days.
func (s *Store) SetRetentionDays(days int) error {
	if days < 1 || days > MaxRetentionDays {
		return &ValidationError{Field: "data_retention_days", Reason: "must be in [1, 3650]"}
	}
	return s.SetSetting(settingRetention, strconv.Itoa(days))
}

// SetPreference upserts a weighted user preference.
func (s *Store) SetPreference(prefType, prefValue string, weight float64) error {
	if prefType == "" || prefValue == "" {
		return &ValidationError{Field: "preference", Reason: "type and value are required"}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now().UTC().Format(timeLayout)
	_, err := s.db.Exec(`
		INSERT INTO user_preferences (preference_type, preference_value, weight, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(preference_type, preference_value)
		DO UPDATE SET weight = excluded.weight, updated_at = excluded.updated_at`,
		prefType, prefValue, weight, now, now)
	return storageErr("set preference", err)
}

// Preferences returns preferences, optionally filtered by type, ordered by
// weight descending then most recently updated.
func (s *Store) Preferences(prefType string) ([]Preference, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := `
		SELECT preference_type, preference_value, weight, created_at, updated_at
		FROM user_preferences`
	var args []any
	if prefType != "" {
		query += " WHERE preference_type = ?"
		args = append(args, prefType)
	}
	query += " ORDER BY weight DESC, updated_at DESC"

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, storageErr("get preferences", err)
	}
	defer rows.Close()

	var prefs []Preference
	for rows.Next() {
		var p Preference
		var created, updated string
		if err := rows.Scan(&p.Type, &p.Value, &p.Weight, &created, &updated); err != nil {
			return nil, storageErr("get preferences", err)
		}
		p.CreatedAt = parseTime(created)
		p.UpdatedAt = parseTime(updated)
		prefs = append(prefs, p)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("get preferences", err)
	}
	return prefs, nil
}

// UpsertSourceAnalysis inserts or replaces the classification for a source
// key and bumps last_updated.
func (s *Store) UpsertSourceAnalysis(source string, bias, credibility float64) error {
	if source == "" {
		return &ValidationError{Field: "source", Reason: "must not be empty"}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(`
		INSERT OR REPLACE INTO source_analysis (source, political_bias, credibility_score, last_updated)
		VALUES (?, ?, ?, ?)`,
		source, bias, credibility, s.now().UTC().Format(timeLayout))
	return storageErr("upsert source analysis", err)
}

// GetSourceAnalysis looks up one cached classification by source key.
// The second return value reports whether the row exists.
func (s *Store) GetSourceAnalysis(source string) (SourceAnalysis, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var sa SourceAnalysis
	var updated string
	err := s.db.QueryRow(`
		SELECT source, political_bias, credibility_score, last_updated
		FROM source_analysis WHERE source = ?`, source,
	).Scan(&sa.Source, &sa.Bias, &sa.Credibility, &updated)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return SourceAnalysis{}, false, nil
		}
		return SourceAnalysis{}, false, storageErr("get source analysis", err)
	}
	sa.LastUpdated = parseTime(updated)
	return sa, true, nil
}

// ListSourceAnalysis returns all cached classifications ordered by source key.
func (s *Store) ListSourceAnalysis() ([]SourceAnalysis, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.listSourceAnalysis()
}

// listSourceAnalysis is the lock-free body shared with ExportAll.
// Caller must hold s.mu.
func (s *Store) listSourceAnalysis() ([]SourceAnalysis, error) {
	rows, err := s.db.Query(`
		SELECT source, political_bias, credibility_score, last_updated
		FROM source_analysis ORDER BY source`)
	if err != nil {
		return nil, storageErr("list source analysis", err)
	}
	defer rows.Close()

	var result []SourceAnalysis
	for rows.Next() {
		var sa SourceAnalysis
		var updated string
		if err := rows.Scan(&sa.Source, &sa.Bias, &sa.Credibility, &updated); err != nil {
			return nil, storageErr("list source analysis", err)
		}
		sa.LastUpdated = parseTime(updated)
		result = append(result, sa)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("list source analysis", err)
	}
	return result, nil
}
