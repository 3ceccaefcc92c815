// Package export writes analytics data to CSV, JSON, and HTML files with
// privacy controls: sensitive detail rows only leave the database when the
// caller explicitly opts in.
package export

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	json "github.com/goccy/go-json"

	"github.com/abelbrown/newslens/internal/insights"
	"github.com/abelbrown/newslens/internal/logging"
	"github.com/abelbrown/newslens/internal/store"
)

// SupportedFormats are the accepted export formats.
var SupportedFormats = []string{"csv", "json", "html"}

// Exporter writes analytics exports to disk.
type Exporter struct {
	store    *store.Store
	insights *insights.Generator

	// dir is the default output directory; empty means the working
	// directory.
	dir string
	now func() time.Time
}

// New creates an exporter writing to dir by default.
func New(st *store.Store, gen *insights.Generator, dir string) *Exporter {
	return &Exporter{store: st, insights: gen, dir: dir, now: time.Now}
}

// Options control one consumption-data export.
type Options struct {
	// Format is one of SupportedFormats. Defaults to "csv" when empty.
	Format string

	// Days is the reporting window.
	Days int

	// IncludeSensitive adds raw log rows, cached classifications, and
	// preferences to the export.
	IncludeSensitive bool

	// OutputFile overrides the generated file name.
	OutputFile string
}

// Metadata describes one export file.
type Metadata struct {
	GeneratedAt          time.Time `json:"generated_at"`
	PeriodDays           int       `json:"period_days"`
	TotalActivities      int       `json:"total_activities"`
	IncludeSensitiveData bool      `json:"include_sensitive_data"`
}

// SummaryStats are the aggregate sections present in every export.
type SummaryStats struct {
	ByAction      store.CountMap   `json:"activities_by_action"`
	BySource      store.CountMap   `json:"activities_by_source"`
	ByTopic       store.CountMap   `json:"activities_by_topic"`
	DailyActivity []store.DayCount `json:"daily_activity"`
}

// Data is the exported document. The sensitive sections are nil unless
// the export opted in.
type Data struct {
	Metadata       Metadata               `json:"export_metadata"`
	Summary        SummaryStats           `json:"summary_statistics"`
	ConsumptionLog []store.Event          `json:"detailed_consumption_log,omitempty"`
	SourceAnalysis []store.SourceAnalysis `json:"source_analysis,omitempty"`
	Preferences    []store.Preference     `json:"user_preferences,omitempty"`
}

// ExportConsumption writes consumption data in the requested format and
// returns the path of the written file.
func (e *Exporter) ExportConsumption(ctx context.Context, opts Options) (string, error) {
	format := opts.Format
	if format == "" {
		format = "csv"
	}
	if !supported(format) {
		return "", &store.ValidationError{Field: "format", Reason: "must be one of csv, json, html"}
	}

	stats, err := e.store.QueryStats(opts.Days)
	if err != nil {
		return "", err
	}

	data := Data{
		Metadata: Metadata{
			GeneratedAt:          e.now().UTC(),
			PeriodDays:           stats.PeriodDays,
			TotalActivities:      stats.TotalActivities,
			IncludeSensitiveData: opts.IncludeSensitive,
		},
		Summary: SummaryStats{
			ByAction:      stats.ByAction,
			BySource:      stats.BySource,
			ByTopic:       stats.ByTopic,
			DailyActivity: stats.DailyActivity,
		},
	}

	if opts.IncludeSensitive {
		raw, err := e.store.ExportAll()
		if err != nil {
			return "", err
		}
		data.ConsumptionLog = raw.ConsumptionLog
		data.SourceAnalysis = raw.SourceAnalysis
		data.Preferences = raw.Preferences
	}

	path := opts.OutputFile
	if path == "" {
		path = filepath.Join(e.dir, e.defaultName("analytics", format))
	}

	switch format {
	case "csv":
		err = e.writeCSV(data, path)
	case "json":
		err = writeJSON(data, path)
	case "html":
		err = e.writeHTML(ctx, data, opts.Days, path)
	}
	if err != nil {
		return "", err
	}

	logging.Info("analytics exported", "format", format, "file", path,
		"sensitive", opts.IncludeSensitive)
	return path, nil
}

// ExportReport writes the full insights report as JSON or HTML and
// returns the path of the written file.
func (e *Exporter) ExportReport(ctx context.Context, days int, format, outputFile string) (string, error) {
	if format != "json" && format != "html" {
		return "", &store.ValidationError{Field: "format", Reason: "insights reports support json and html"}
	}

	path := outputFile
	if path == "" {
		path = filepath.Join(e.dir, e.defaultName("insights", format))
	}

	if format == "html" {
		data := Data{Metadata: Metadata{GeneratedAt: e.now().UTC(), PeriodDays: days}}
		if err := e.writeHTML(ctx, data, days, path); err != nil {
			return "", err
		}
		return path, nil
	}

	report, err := e.insights.ConsumptionReport(ctx, days)
	if err != nil {
		return "", err
	}
	if err := writeJSON(report, path); err != nil {
		return "", err
	}
	return path, nil
}

// defaultName builds the timestamped default file name.
func (e *Exporter) defaultName(kind, format string) string {
	return fmt.Sprintf("newslens_%s_%s.%s", kind, e.now().Format("20060102_150405"), format)
}

func supported(format string) bool {
	for _, f := range SupportedFormats {
		if f == format {
			return true
		}
	}
	return false
}

// writeCSV renders the export as stacked sections: metadata comments,
// then one table per aggregate, then the raw log when included.
func (e *Exporter) writeCSV(data Data, path string) error {
	if err := ensureDir(path); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create export file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)

	w.Write([]string{"# NewsLens Analytics Export"})
	w.Write([]string{"# Generated:", data.Metadata.GeneratedAt.Format(time.RFC3339)})
	w.Write([]string{"# Period (days):", strconv.Itoa(data.Metadata.PeriodDays)})
	w.Write([]string{"# Total Activities:", strconv.Itoa(data.Metadata.TotalActivities)})
	w.Write(nil)

	writeCountSection(w, "Activities by Action", "Action", data.Summary.ByAction)
	writeCountSection(w, "Activities by Source", "Source", data.Summary.BySource)
	writeCountSection(w, "Activities by Topic", "Topic", data.Summary.ByTopic)

	w.Write([]string{"Daily Activity"})
	w.Write([]string{"Date", "Activity Count"})
	for _, dc := range data.Summary.DailyActivity {
		w.Write([]string{dc.Date, strconv.Itoa(dc.Count)})
	}

	if data.Metadata.IncludeSensitiveData && len(data.ConsumptionLog) > 0 {
		w.Write(nil)
		w.Write([]string{"Detailed Consumption Log"})
		w.Write([]string{"id", "timestamp", "action", "topic", "source",
			"keywords", "country", "language", "duration", "result_count"})
		for _, ev := range data.ConsumptionLog {
			w.Write([]string{
				strconv.FormatInt(ev.ID, 10),
				ev.Timestamp.Format(time.RFC3339),
				ev.Action, ev.Topic, ev.Source, ev.Keywords,
				ev.Country, ev.Language,
				strconv.Itoa(ev.Duration),
				strconv.Itoa(ev.ResultCount),
			})
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("write csv: %w", err)
	}
	return nil
}

func writeCountSection(w *csv.Writer, title, keyHeader string, m store.CountMap) {
	w.Write([]string{title})
	w.Write([]string{keyHeader, "Count"})
	for _, kc := range m {
		w.Write([]string{kc.Key, strconv.Itoa(kc.Count)})
	}
	w.Write(nil)
}

func writeJSON(v any, path string) error {
	if err := ensureDir(path); err != nil {
		return err
	}
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal export: %w", err)
	}
	if err := os.WriteFile(path, out, 0o644); err != nil {
		return fmt.Errorf("write export file: %w", err)
	}
	return nil
}

func ensureDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create export directory: %w", err)
	}
	return nil
}
