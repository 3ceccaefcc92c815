package export

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	json "github.com/goccy/go-json"

	"github.com/abelbrown/newslens/internal/bias"
	"github.com/abelbrown/newslens/internal/insights"
	"github.com/abelbrown/newslens/internal/recommend"
	"github.com/abelbrown/newslens/internal/store"
)

func newTestExporter(t *testing.T) (*Exporter, *store.Store) {
	t.Helper()
	st, err := store.Open(":memory:")
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() { st.Close() })

	cl, err := bias.New(st)
	if err != nil {
		t.Fatalf("bias.New failed: %v", err)
	}
	gen := insights.NewGenerator(st, cl, recommend.New(st, cl))
	return New(st, gen, t.TempDir()), st
}

func seedEvents(t *testing.T, st *store.Store) {
	t.Helper()
	seed := []store.Event{
		{Action: "search", Topic: "technology", Source: "reuters", Keywords: "chips"},
		{Action: "search", Topic: "science", Source: "bbc"},
		{Action: "view", Source: "reuters"},
	}
	for _, ev := range seed {
		if _, err := st.Record(ev); err != nil {
			t.Fatalf("Record failed: %v", err)
		}
	}
}

func TestExportCSV(t *testing.T) {
	exp, st := newTestExporter(t)
	seedEvents(t, st)

	path, err := exp.ExportConsumption(context.Background(), Options{Format: "csv", Days: 30})
	if err != nil {
		t.Fatalf("ExportConsumption failed: %v", err)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading export failed: %v", err)
	}
	content := string(raw)

	for _, want := range []string{
		"# NewsLens Analytics Export",
		"Activities by Action",
		"search,2",
		"Activities by Source",
		"reuters,2",
		"Daily Activity",
	} {
		if !strings.Contains(content, want) {
			t.Errorf("csv missing %q", want)
		}
	}
	if strings.Contains(content, "Detailed Consumption Log") {
		t.Error("non-sensitive export must omit the raw log")
	}
}

func TestExportCSVSensitive(t *testing.T) {
	exp, st := newTestExporter(t)
	seedEvents(t, st)

	path, err := exp.ExportConsumption(context.Background(),
		Options{Format: "csv", Days: 30, IncludeSensitive: true})
	if err != nil {
		t.Fatalf("ExportConsumption failed: %v", err)
	}

	raw, _ := os.ReadFile(path)
	if !strings.Contains(string(raw), "Detailed Consumption Log") {
		t.Error("sensitive export must include the raw log")
	}
	if !strings.Contains(string(raw), "chips") {
		t.Error("sensitive export must include raw keywords")
	}
}

func TestExportJSON(t *testing.T) {
	exp, st := newTestExporter(t)
	seedEvents(t, st)

	dir := t.TempDir()
	path, err := exp.ExportConsumption(context.Background(),
		Options{Format: "json", Days: 30, OutputFile: filepath.Join(dir, "out.json")})
	if err != nil {
		t.Fatalf("ExportConsumption failed: %v", err)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading export failed: %v", err)
	}

	var data Data
	if err := json.Unmarshal(raw, &data); err != nil {
		t.Fatalf("export is not valid JSON: %v", err)
	}
	if data.Metadata.TotalActivities != 3 || data.Metadata.PeriodDays != 30 {
		t.Errorf("unexpected metadata: %+v", data.Metadata)
	}
	if data.Summary.ByAction.Get("search") != 2 {
		t.Errorf("unexpected action counts: %+v", data.Summary.ByAction)
	}
	if len(data.ConsumptionLog) != 0 {
		t.Error("non-sensitive export must omit the raw log")
	}
}

func TestExportHTMLDashboard(t *testing.T) {
	exp, st := newTestExporter(t)
	seedEvents(t, st)

	path, err := exp.ExportConsumption(context.Background(), Options{Format: "html", Days: 30})
	if err != nil {
		t.Fatalf("ExportConsumption failed: %v", err)
	}

	raw, _ := os.ReadFile(path)
	content := string(raw)
	for _, want := range []string{
		"<!DOCTYPE html>",
		"NewsLens Analytics Dashboard",
		"Consumption Health",
		"reuters",
	} {
		if !strings.Contains(content, want) {
			t.Errorf("dashboard missing %q", want)
		}
	}
}

func TestExportUnsupportedFormat(t *testing.T) {
	exp, _ := newTestExporter(t)

	_, err := exp.ExportConsumption(context.Background(), Options{Format: "xml", Days: 30})
	var verr *store.ValidationError
	if !errors.As(err, &verr) {
		t.Errorf("expected ValidationError, got %v", err)
	}
}

func TestExportDefaultFilename(t *testing.T) {
	exp, _ := newTestExporter(t)
	exp.now = func() time.Time {
		return time.Date(2026, 8, 20, 14, 30, 0, 0, time.UTC)
	}

	path, err := exp.ExportConsumption(context.Background(), Options{Format: "json", Days: 7})
	if err != nil {
		t.Fatalf("ExportConsumption failed: %v", err)
	}
	if filepath.Base(path) != "newslens_analytics_20260820_143000.json" {
		t.Errorf("unexpected default filename: %s", filepath.Base(path))
	}
}

func TestExportReportJSON(t *testing.T) {
	exp, st := newTestExporter(t)
	seedEvents(t, st)

	dir := t.TempDir()
	path, err := exp.ExportReport(context.Background(), 30, "json", filepath.Join(dir, "report.json"))
	if err != nil {
		t.Fatalf("ExportReport failed: %v", err)
	}

	raw, _ := os.ReadFile(path)
	var report insights.ConsumptionReport
	if err := json.Unmarshal(raw, &report); err != nil {
		t.Fatalf("report is not valid JSON: %v", err)
	}
	if report.KeyMetrics.TotalActivities != 3 {
		t.Errorf("unexpected report metrics: %+v", report.KeyMetrics)
	}
}

func TestExportReportRejectsCSV(t *testing.T) {
	exp, _ := newTestExporter(t)

	_, err := exp.ExportReport(context.Background(), 30, "csv", "")
	var verr *store.ValidationError
	if !errors.As(err, &verr) {
		t.Errorf("expected ValidationError, got %v", err)
	}
}

func TestPrivacySummary(t *testing.T) {
	exp, st := newTestExporter(t)

	oldest := time.Date(2026, 7, 1, 9, 0, 0, 0, time.UTC)
	st.Record(store.Event{Action: "search", Timestamp: oldest})
	st.Record(store.Event{Action: "view"})
	st.SetPreference("topic", "science", 1.0)

	summary, err := exp.PrivacySummary()
	if err != nil {
		t.Fatalf("PrivacySummary failed: %v", err)
	}

	if !summary.TrackingEnabled {
		t.Error("tracking should default to enabled")
	}
	if summary.DataRetentionDays != store.DefaultRetentionDays {
		t.Errorf("expected default retention, got %d", summary.DataRetentionDays)
	}
	if summary.TotalConsumptionRecords != 2 {
		t.Errorf("expected 2 records, got %d", summary.TotalConsumptionRecords)
	}
	if summary.TotalPreferences != 1 {
		t.Errorf("expected 1 preference, got %d", summary.TotalPreferences)
	}
	if summary.OldestRecord != "2026-07-01 09:00:00" {
		t.Errorf("unexpected oldest record: %q", summary.OldestRecord)
	}
	if !strings.Contains(summary.StorageLocation, ":memory:") {
		t.Errorf("expected storage location to name the database, got %q", summary.StorageLocation)
	}
}

func TestPrivacySummaryEmpty(t *testing.T) {
	exp, _ := newTestExporter(t)

	summary, err := exp.PrivacySummary()
	if err != nil {
		t.Fatalf("PrivacySummary failed: %v", err)
	}
	if summary.TotalConsumptionRecords != 0 || summary.OldestRecord != "" {
		t.Errorf("unexpected summary for empty store: %+v", summary)
	}
}
