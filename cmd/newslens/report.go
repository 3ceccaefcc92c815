package main

import (
	"context"
	"flag"
	"fmt"
	"strings"

	json "github.com/goccy/go-json"

	"github.com/abelbrown/newslens/internal/insights"
	"github.com/abelbrown/newslens/internal/recommend"
	"github.com/abelbrown/newslens/internal/tracker"
)

func runReport(args []string) {
	fs := flag.NewFlagSet("report", flag.ExitOnError)
	days := fs.Int("days", 0, "Reporting period in days (default from config)")
	asJSON := fs.Bool("json", false, "Print the full report as JSON")
	fs.Parse(args)

	cfg := loadConfig()
	st := openStore(cfg)
	defer st.Close()

	cl := newClassifier(cfg, st)
	gen := insights.NewGenerator(st, cl, recommend.New(st, cl))

	period := periodDays(*days, cfg)
	report, err := gen.ConsumptionReport(context.Background(), period)
	if err != nil {
		fatalf("failed to generate report: %v", err)
	}

	// The report view is itself a consumption event.
	tracker.New(st).TrackAnalyticsView(period, "report")

	if *asJSON {
		out, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			fatalf("failed to encode report: %v", err)
		}
		fmt.Println(string(out))
		return
	}

	printReport(report)
}

func printReport(r insights.ConsumptionReport) {
	fmt.Println(titleStyle.Render(fmt.Sprintf("Consumption Report (%d days)", r.PeriodDays)))

	m := r.KeyMetrics
	printMetric("Total activities", fmt.Sprintf("%d", m.TotalActivities))
	printMetric("Daily average", fmt.Sprintf("%.2f", m.DailyAverage))
	printMetric("Unique sources", fmt.Sprintf("%d", m.UniqueSources))
	printMetric("Unique topics", fmt.Sprintf("%d", m.UniqueTopics))
	printMetric("Most used action", m.MostUsedAction)
	printMetric("Most used source", m.MostUsedSource)
	printMetric("Most searched topic", m.MostSearchedTopic)
	printMetric("Engagement", fmt.Sprintf("%.2f", m.EngagementScore))

	h := r.HealthScore
	fmt.Println(titleStyle.Render("Health"))
	fmt.Printf("  %s %s (%s)\n",
		labelStyle.Render("Score:"),
		scoreStyle(h.OverallScore).Render(fmt.Sprintf("%.3f", h.OverallScore)),
		h.Interpretation)
	fmt.Println(itemStyle.Render(h.Message))
	printMetric("Improve first", h.ImprovementPriority)

	s := r.SourceAnalysis
	fmt.Println(titleStyle.Render("Sources"))
	printMetric("Diversity", fmt.Sprintf("%.3f", s.DiversityScore))
	printMetric("Balance", fmt.Sprintf("left %d / center %d / right %d",
		s.PoliticalBalance.Left, s.PoliticalBalance.Center, s.PoliticalBalance.Right))
	if s.EchoChamberStatus.IsEchoChamber {
		fmt.Printf("  %s %s\n", badStyle.Render("Echo chamber:"), s.EchoChamberStatus.Type)
	}

	fmt.Println(titleStyle.Render("Trends"))
	printMetric("Activity", fmt.Sprintf("%s (%.1f%%)",
		r.Trends.ActivityTrend.Direction, r.Trends.ActivityTrend.ChangePercentage))
	printMetric("Source concentration", r.Trends.SourceConcentration.Interpretation)
	printMetric("Topic concentration", r.Trends.TopicConcentration.Interpretation)

	if len(r.BlindSpots.MissingTopics) > 0 {
		fmt.Println(titleStyle.Render("Blind Spots"))
		printMetric("Missing topics", strings.Join(r.BlindSpots.MissingTopics, ", "))
		for _, area := range r.BlindSpots.ImprovementAreas {
			fmt.Println(itemStyle.Render("- " + area))
		}
	}

	if len(r.Insights) > 0 {
		fmt.Println(titleStyle.Render("Insights"))
		for _, in := range r.Insights {
			fmt.Println(itemStyle.Render(valueStyle.Render(in.Insight)))
			fmt.Println(itemStyle.Render("  " + in.Detail))
		}
	}
}

func printMetric(label, value string) {
	fmt.Printf("  %s %s\n", labelStyle.Render(label+":"), valueStyle.Render(value))
}
