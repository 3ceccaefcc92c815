package export

import (
	"time"

	"github.com/abelbrown/newslens/internal/store"
)

// PrivacySummary describes what is stored and which controls the user has
// over it.
type PrivacySummary struct {
	TrackingEnabled         bool     `json:"tracking_enabled"`
	DataRetentionDays       int      `json:"data_retention_days"`
	TotalConsumptionRecords int      `json:"total_consumption_records"`
	TotalPreferences        int      `json:"total_preferences"`
	OldestRecord            string   `json:"oldest_record,omitempty"`
	StorageLocation         string   `json:"storage_location"`
	DataCategories          []string `json:"data_categories"`
	PrivacyControls         []string `json:"privacy_controls"`
}

// PrivacySummary reports the current privacy posture: tracking state,
// retention, stored volumes, and available controls.
func (e *Exporter) PrivacySummary() (PrivacySummary, error) {
	enabled, err := e.store.TrackingEnabled()
	if err != nil {
		return PrivacySummary{}, err
	}
	retention, err := e.store.RetentionDays()
	if err != nil {
		return PrivacySummary{}, err
	}
	raw, err := e.store.ExportAll()
	if err != nil {
		return PrivacySummary{}, err
	}

	return PrivacySummary{
		TrackingEnabled:         enabled,
		DataRetentionDays:       retention,
		TotalConsumptionRecords: len(raw.ConsumptionLog),
		TotalPreferences:        len(raw.Preferences),
		OldestRecord:            oldestRecord(raw.ConsumptionLog),
		StorageLocation:         "Local SQLite database (" + e.store.Path() + ")",
		DataCategories: []string{
			"Search queries and topics",
			"News sources accessed",
			"Usage timestamps and duration",
			"Personal preferences and settings",
		},
		PrivacyControls: []string{
			"Disable tracking completely",
			"Set data retention period",
			"Export all data",
			"Delete all data",
		},
	}, nil
}

// oldestRecord returns the earliest event timestamp, or "" when the log
// is empty.
func oldestRecord(log []store.Event) string {
	var oldest time.Time
	for _, ev := range log {
		if oldest.IsZero() || ev.Timestamp.Before(oldest) {
			oldest = ev.Timestamp
		}
	}
	if oldest.IsZero() {
		return ""
	}
	return oldest.Format("2006-01-02 15:04:05")
}
