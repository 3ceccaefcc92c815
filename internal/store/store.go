// Package store provides SQLite persistence for newslens analytics:
// the consumption event log, cached source classifications, user
// preferences, and settings. Every other component routes its reads and
// writes through this package.
package store

import (
	"database/sql"
	"fmt"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

// timeLayout is the canonical timestamp format for all persisted times.
// Stored as UTC text so that string comparison and SQLite's DATE() agree
// with chronological order regardless of driver conventions.
const timeLayout = "2006-01-02 15:04:05"

// Actions is the fixed vocabulary of trackable user actions.
var Actions = []string{
	"search", "view", "summary", "sources", "config",
	"list-topics", "analytics", "export", "recommend",
}

var validAction = func() map[string]bool {
	m := make(map[string]bool, len(Actions))
	for _, a := range Actions {
		m[a] = true
	}
	return m
}()

// Store handles SQLite persistence. NOT an interface - concrete type.
// Thread-safety: All methods are safe for concurrent use via internal mutex.
type Store struct {
	db   *sql.DB
	path string
	mu   sync.RWMutex // Protects all database operations

	// now is the clock used for store-assigned timestamps. Overridable in
	// tests; defaults to time.Now.
	now func() time.Time
}

// Event is one row of the consumption log. Action is required; the other
// string fields are optional and stored as NULL when empty.
type Event struct {
	ID          int64     `json:"id"`
	Timestamp   time.Time `json:"timestamp"`
	Action      string    `json:"action"`
	Topic       string    `json:"topic,omitempty"`
	Source      string    `json:"source,omitempty"`
	Keywords    string    `json:"keywords,omitempty"`
	Country     string    `json:"country,omitempty"`
	Language    string    `json:"language,omitempty"`
	Duration    int       `json:"duration"`
	ResultCount int       `json:"result_count"`
}

// SourceAnalysis is a cached (bias, credibility) classification for one
// normalized source key.
type SourceAnalysis struct {
	Source      string    `json:"source"`
	Bias        float64   `json:"political_bias"`
	Credibility float64   `json:"credibility_score"`
	LastUpdated time.Time `json:"last_updated"`
}

// Preference is one weighted user preference row.
type Preference struct {
	Type      string    `json:"preference_type"`
	Value     string    `json:"preference_value"`
	Weight    float64   `json:"weight"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Open creates a new Store with the given database path.
// Creates tables if they don't exist.
// Uses WAL mode for better concurrent read performance (file-based DBs only).
func Open(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, storageErr("open database", err)
	}

	// An in-memory database exists per connection. Pin the pool to a
	// single connection so every statement sees the same database, and
	// so separately opened stores stay isolated from each other.
	if dbPath == ":memory:" {
		db.SetMaxOpenConns(1)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, storageErr("ping database", err)
	}

	// Enable WAL mode for file-based databases (not :memory:)
	if dbPath != ":memory:" {
		if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
			db.Close()
			return nil, storageErr("enable WAL mode", err)
		}
	}

	s := &Store{db: db, path: dbPath, now: time.Now}

	if err := s.createTables(); err != nil {
		db.Close()
		return nil, err
	}

	return s, nil
}

// Path returns the database path the store was opened with.
func (s *Store) Path() string {
	return s.path
}

// createTables creates the required tables and indexes if they don't exist.
func (s *Store) createTables() error {
	schema := `
	CREATE TABLE IF NOT EXISTS consumption_log (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		timestamp TEXT NOT NULL,
		action TEXT NOT NULL,
		topic TEXT,
		source TEXT,
		keywords TEXT,
		country TEXT,
		language TEXT,
		duration INTEGER DEFAULT 0,
		result_count INTEGER DEFAULT 0
	);

	CREATE INDEX IF NOT EXISTS idx_consumption_timestamp ON consumption_log(timestamp);
	CREATE INDEX IF NOT EXISTS idx_consumption_source ON consumption_log(source);

	CREATE TABLE IF NOT EXISTS source_analysis (
		source TEXT PRIMARY KEY,
		political_bias REAL DEFAULT 0.0,
		credibility_score REAL DEFAULT 0.5,
		last_updated TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS user_preferences (
		preference_type TEXT NOT NULL,
		preference_value TEXT NOT NULL,
		weight REAL DEFAULT 1.0,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL,
		PRIMARY KEY (preference_type, preference_value)
	);

	CREATE TABLE IF NOT EXISTS analytics_settings (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);
	`

	if _, err := s.db.Exec(schema); err != nil {
		return storageErr("create tables", err)
	}
	return nil
}

// Close closes the database connection.
// Thread-safe: acquires write lock to prevent closing during in-flight operations.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.db.Close()
}

// Record appends one consumption event and returns its assigned id.
// The timestamp is store-assigned (UTC now) unless the event carries one,
// which import paths use to replay exported history.
func (s *Store) Record(e Event) (int64, error) {
	if !validAction[e.Action] {
		return 0, &ValidationError{Field: "action", Reason: fmt.Sprintf("unknown action %q", e.Action)}
	}
	if e.Duration < 0 {
		return 0, &ValidationError{Field: "duration", Reason: "must be >= 0"}
	}
	if e.ResultCount < 0 {
		return 0, &ValidationError{Field: "result_count", Reason: "must be >= 0"}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	ts := e.Timestamp
	if ts.IsZero() {
		ts = s.now()
	}

	res, err := s.db.Exec(`
		INSERT INTO consumption_log
		(timestamp, action, topic, source, keywords, country, language, duration, result_count)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		ts.UTC().Format(timeLayout),
		e.Action,
		nullable(e.Topic),
		nullable(e.Source),
		nullable(e.Keywords),
		nullable(e.Country),
		nullable(e.Language),
		e.Duration,
		e.ResultCount,
	)
	if err != nil {
		return 0, storageErr("record", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, storageErr("record", err)
	}
	return id, nil
}

// CleanupExpired deletes events older than the current retention setting
// and returns the number of rows removed. Idempotent.
func (s *Store) CleanupExpired() (int64, error) {
	days, err := s.RetentionDays()
	if err != nil {
		return 0, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := s.now().UTC().AddDate(0, 0, -days).Format(timeLayout)
	res, err := s.db.Exec("DELETE FROM consumption_log WHERE timestamp < ?", cutoff)
	if err != nil {
		return 0, storageErr("cleanup expired", err)
	}
	deleted, err := res.RowsAffected()
	if err != nil {
		return 0, storageErr("cleanup expired", err)
	}
	return deleted, nil
}

// ResetAll deletes all events, preferences, and source-analysis rows.
// Settings survive so privacy choices persist across a reset.
func (s *Store) ResetAll() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, stmt := range []string{
		"DELETE FROM consumption_log",
		"DELETE FROM user_preferences",
		"DELETE FROM source_analysis",
	} {
		if _, err := s.db.Exec(stmt); err != nil {
			return storageErr("reset all", err)
		}
	}
	return nil
}

// Export holds every row of every table, unfiltered, for backup and
// portability. Key names here are part of the stable export contract.
type Export struct {
	ConsumptionLog []Event          `json:"consumption_log"`
	SourceAnalysis []SourceAnalysis `json:"source_analysis"`
	Preferences    []Preference     `json:"preferences"`
	Settings       []Setting        `json:"settings"`
}

// Setting is one key/value settings row.
type Setting struct {
	Key       string    `json:"key"`
	Value     string    `json:"value"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ExportAll returns every row of every table for backup/portability.
func (s *Store) ExportAll() (Export, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out Export

	rows, err := s.db.Query(`
		SELECT id, timestamp, action, topic, source, keywords, country, language, duration, result_count
		FROM consumption_log ORDER BY timestamp, id`)
	if err != nil {
		return Export{}, storageErr("export events", err)
	}
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			rows.Close()
			return Export{}, storageErr("export events", err)
		}
		out.ConsumptionLog = append(out.ConsumptionLog, e)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return Export{}, storageErr("export events", err)
	}
	rows.Close()

	out.SourceAnalysis, err = s.listSourceAnalysis()
	if err != nil {
		return Export{}, err
	}

	prefRows, err := s.db.Query(`
		SELECT preference_type, preference_value, weight, created_at, updated_at
		FROM user_preferences ORDER BY preference_type, preference_value`)
	if err != nil {
		return Export{}, storageErr("export preferences", err)
	}
	for prefRows.Next() {
		var p Preference
		var created, updated string
		if err := prefRows.Scan(&p.Type, &p.Value, &p.Weight, &created, &updated); err != nil {
			prefRows.Close()
			return Export{}, storageErr("export preferences", err)
		}
		p.CreatedAt = parseTime(created)
		p.UpdatedAt = parseTime(updated)
		out.Preferences = append(out.Preferences, p)
	}
	if err := prefRows.Err(); err != nil {
		prefRows.Close()
		return Export{}, storageErr("export preferences", err)
	}
	prefRows.Close()

	setRows, err := s.db.Query("SELECT key, value, updated_at FROM analytics_settings ORDER BY key")
	if err != nil {
		return Export{}, storageErr("export settings", err)
	}
	defer setRows.Close()
	for setRows.Next() {
		var st Setting
		var updated string
		if err := setRows.Scan(&st.Key, &st.Value, &updated); err != nil {
			return Export{}, storageErr("export settings", err)
		}
		st.UpdatedAt = parseTime(updated)
		out.Settings = append(out.Settings, st)
	}
	if err := setRows.Err(); err != nil {
		return Export{}, storageErr("export settings", err)
	}

	return out, nil
}

// rowScanner is the subset of *sql.Rows / *sql.Row both scans share.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanEvent(r rowScanner) (Event, error) {
	var e Event
	var ts string
	var topic, source, keywords, country, language sql.NullString
	err := r.Scan(&e.ID, &ts, &e.Action, &topic, &source, &keywords,
		&country, &language, &e.Duration, &e.ResultCount)
	if err != nil {
		return Event{}, err
	}
	e.Timestamp = parseTime(ts)
	e.Topic = topic.String
	e.Source = source.String
	e.Keywords = keywords.String
	e.Country = country.String
	e.Language = language.String
	return e, nil
}

// nullable converts an empty string to NULL for SQLite storage.
func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func parseTime(s string) time.Time {
	t, err := time.ParseInLocation(timeLayout, s, time.UTC)
	if err != nil {
		return time.Time{}
	}
	return t
}
