package export

import (
	"context"
	"fmt"
	"html/template"
	"os"
	"strings"
	"time"

	"github.com/abelbrown/newslens/internal/insights"
	"github.com/abelbrown/newslens/internal/store"
)

// dashboardRow is one table row of the HTML dashboard.
type dashboardRow struct {
	Key     string
	Count   int
	Detail  string
	Percent string
}

// dashboardView is the template model for the HTML dashboard.
type dashboardView struct {
	GeneratedAt     string
	PeriodDays      int
	TotalActivities int
	DailyAverage    float64
	UniqueSources   int
	UniqueTopics    int
	HealthScore     string
	HealthClass     string
	HealthTitle     string
	HealthMessage   string
	ActionRows      []dashboardRow
	SourceRows      []dashboardRow
	TopicRows       []dashboardRow
	Insights        []insights.Insight
	PriorityActions []string
}

// writeHTML renders the analytics dashboard for the period.
func (e *Exporter) writeHTML(ctx context.Context, data Data, days int, path string) error {
	report, err := e.insights.ConsumptionReport(ctx, days)
	if err != nil {
		return err
	}

	view := dashboardView{
		GeneratedAt:     data.Metadata.GeneratedAt.Format(time.RFC3339),
		PeriodDays:      data.Metadata.PeriodDays,
		TotalActivities: data.Metadata.TotalActivities,
		DailyAverage:    report.KeyMetrics.DailyAverage,
		UniqueSources:   report.KeyMetrics.UniqueSources,
		UniqueTopics:    report.KeyMetrics.UniqueTopics,
		HealthScore:     fmt.Sprintf("%.2f", report.HealthScore.OverallScore),
		HealthClass:     strings.ReplaceAll(report.HealthScore.Interpretation, "_", "-"),
		HealthTitle:     healthTitle(report.HealthScore.Interpretation),
		HealthMessage:   report.HealthScore.Message,
		ActionRows:      countRows(data.Summary.ByAction, false),
		SourceRows:      countRows(data.Summary.BySource, false),
		TopicRows:       countRows(data.Summary.ByTopic, true),
		Insights:        report.Insights,
		PriorityActions: report.Recommendations.PriorityActions,
	}

	if err := ensureDir(path); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create export file: %w", err)
	}
	defer f.Close()

	if err := dashboardTmpl.Execute(f, view); err != nil {
		return fmt.Errorf("render dashboard: %w", err)
	}
	return nil
}

// countRows turns an aggregate into table rows with usage percentages.
// With interest set, the detail column bands the share into High (>20%),
// Medium (>10%), and Low.
func countRows(m store.CountMap, interest bool) []dashboardRow {
	total := m.Total()
	rows := make([]dashboardRow, 0, len(m))
	for _, kc := range m {
		var pct float64
		if total > 0 {
			pct = float64(kc.Count) / float64(total) * 100
		}
		row := dashboardRow{
			Key:     kc.Key,
			Count:   kc.Count,
			Percent: fmt.Sprintf("%.1f%%", pct),
		}
		if interest {
			switch {
			case pct > 20:
				row.Detail = "High"
			case pct > 10:
				row.Detail = "Medium"
			default:
				row.Detail = "Low"
			}
		}
		rows = append(rows, row)
	}
	return rows
}

func healthTitle(interpretation string) string {
	words := strings.Split(strings.ReplaceAll(interpretation, "_", " "), " ")
	for i, w := range words {
		if w != "" {
			words[i] = strings.ToUpper(w[:1]) + w[1:]
		}
	}
	return strings.Join(words, " ")
}

var dashboardTmpl = template.Must(template.New("dashboard").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<title>NewsLens Analytics Dashboard</title>
<style>
body { font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif;
       margin: 0; padding: 20px; background-color: #f5f5f5; color: #333; }
.container { max-width: 1200px; margin: 0 auto; background: white; border-radius: 10px;
             box-shadow: 0 2px 10px rgba(0,0,0,0.1); padding: 30px; }
.header { text-align: center; margin-bottom: 30px; border-bottom: 2px solid #007acc;
          padding-bottom: 20px; }
.metric-grid { display: grid; grid-template-columns: repeat(auto-fit, minmax(200px, 1fr));
               gap: 20px; margin-bottom: 30px; }
.metric-card { background: #f8f9fa; padding: 20px; border-radius: 8px;
               border-left: 4px solid #007acc; }
.metric-value { font-size: 2em; font-weight: bold; color: #007acc; }
.metric-label { color: #666; font-size: 0.9em; margin-top: 5px; }
.section { margin-bottom: 30px; }
.section h2 { color: #007acc; border-bottom: 1px solid #ddd; padding-bottom: 10px; }
.health-score { text-align: center; padding: 20px; border-radius: 10px; margin: 20px 0; }
.health-excellent { background: #d4edda; color: #155724; }
.health-good { background: #d1ecf1; color: #0c5460; }
.health-fair { background: #fff3cd; color: #856404; }
.health-needs-improvement { background: #f8d7da; color: #721c24; }
.insights-list { list-style: none; padding: 0; }
.insights-list li { background: #f8f9fa; margin: 10px 0; padding: 15px; border-radius: 5px;
                    border-left: 4px solid #007acc; }
.data-table { width: 100%; border-collapse: collapse; margin: 20px 0; }
.data-table th, .data-table td { border: 1px solid #ddd; padding: 12px; text-align: left; }
.data-table th { background: #007acc; color: white; }
.footer { text-align: center; margin-top: 30px; padding-top: 20px; border-top: 1px solid #ddd;
          color: #666; font-size: 0.9em; }
</style>
</head>
<body>
<div class="container">
  <div class="header">
    <h1>NewsLens Analytics Dashboard</h1>
    <p>Generated: {{.GeneratedAt}}</p>
    <p>Analysis Period: {{.PeriodDays}} days | Total Activities: {{.TotalActivities}}</p>
  </div>

  <div class="metric-grid">
    <div class="metric-card">
      <div class="metric-value">{{.DailyAverage}}</div>
      <div class="metric-label">Daily Average Activities</div>
    </div>
    <div class="metric-card">
      <div class="metric-value">{{.UniqueSources}}</div>
      <div class="metric-label">Unique Sources Used</div>
    </div>
    <div class="metric-card">
      <div class="metric-value">{{.UniqueTopics}}</div>
      <div class="metric-label">Topics Explored</div>
    </div>
    <div class="metric-card">
      <div class="metric-value">{{.HealthScore}}</div>
      <div class="metric-label">Health Score</div>
    </div>
  </div>

  <div class="health-score health-{{.HealthClass}}">
    <h3>Consumption Health: {{.HealthTitle}}</h3>
    <p>{{.HealthMessage}}</p>
  </div>

  <div class="section">
    <h2>Activity Breakdown</h2>
    <table class="data-table">
      <tr><th>Action Type</th><th>Count</th><th>Percentage</th></tr>
      {{range .ActionRows}}<tr><td>{{.Key}}</td><td>{{.Count}}</td><td>{{.Percent}}</td></tr>
      {{end}}
    </table>
  </div>

  <div class="section">
    <h2>Source Usage</h2>
    <table class="data-table">
      <tr><th>Source</th><th>Usage Count</th><th>Percentage</th></tr>
      {{range .SourceRows}}<tr><td>{{.Key}}</td><td>{{.Count}}</td><td>{{.Percent}}</td></tr>
      {{end}}
    </table>
  </div>

  <div class="section">
    <h2>Topic Interest</h2>
    <table class="data-table">
      <tr><th>Topic</th><th>Search Count</th><th>Interest Level</th></tr>
      {{range .TopicRows}}<tr><td>{{.Key}}</td><td>{{.Count}}</td><td>{{.Detail}}</td></tr>
      {{end}}
    </table>
  </div>

  <div class="section">
    <h2>Key Insights</h2>
    <ul class="insights-list">
      {{range .Insights}}<li><strong>{{.Insight}}</strong><br>{{.Detail}}</li>
      {{end}}
    </ul>
  </div>

  <div class="section">
    <h2>Recommendations</h2>
    <ul class="insights-list">
      {{range .PriorityActions}}<li>{{.}}</li>
      {{end}}
    </ul>
  </div>

  <div class="footer">
    <p>Generated by NewsLens | Privacy-First Local Analytics</p>
    <p>Data stored locally on your device. No cloud sync. You control your data.</p>
  </div>
</div>
</body>
</html>
`))
