package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	json "github.com/goccy/go-json"

	"github.com/abelbrown/newslens/internal/recommend"
	"github.com/abelbrown/newslens/internal/tracker"
)

func runRecommend(args []string) {
	fs := flag.NewFlagSet("recommend", flag.ExitOnError)
	days := fs.Int("days", 0, "Reporting period in days (default from config)")
	limit := fs.Int("limit", 5, "Maximum recommendations per category")
	kind := fs.String("type", "all", "Recommendation type: sources, topics, all")
	asJSON := fs.Bool("json", false, "Print recommendations as JSON")
	fs.Parse(args)

	cfg := loadConfig()
	st := openStore(cfg)
	defer st.Close()

	cl := newClassifier(cfg, st)
	eng := recommend.New(st, cl)
	period := periodDays(*days, cfg)
	ctx := context.Background()

	tracker.New(st).TrackRecommendationsView(*kind)

	switch *kind {
	case "sources":
		recs, err := eng.SourceRecommendations(ctx, period, *limit)
		if err != nil {
			fatalf("failed to generate recommendations: %v", err)
		}
		emit(recs, *asJSON, func() { printSourceRecs(recs) })
	case "topics":
		recs, err := eng.TopicRecommendations(period, *limit)
		if err != nil {
			fatalf("failed to generate recommendations: %v", err)
		}
		emit(recs, *asJSON, func() { printTopicRecs(recs) })
	case "all":
		recs, err := eng.ComprehensiveRecommendations(ctx, period)
		if err != nil {
			fatalf("failed to generate recommendations: %v", err)
		}
		emit(recs, *asJSON, func() {
			printSourceRecs(recs.SourceRecommendations)
			printTopicRecs(recs.TopicRecommendations)
			printHabitRecs(recs.HabitRecommendations)
			fmt.Println(titleStyle.Render("Priority Actions"))
			for _, a := range recs.PriorityActions {
				fmt.Println(itemStyle.Render("- " + a))
			}
			printMetric("Overall balance", fmt.Sprintf("%.3f", recs.OverallScore))
		})
	default:
		fmt.Fprintf(os.Stderr, "newslens recommend: unknown type %q (sources, topics, all)\n", *kind)
		os.Exit(1)
	}
}

// emit prints v as JSON or calls the pretty printer.
func emit(v any, asJSON bool, pretty func()) {
	if !asJSON {
		pretty()
		return
	}
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fatalf("failed to encode recommendations: %v", err)
	}
	fmt.Println(string(out))
}

func printSourceRecs(recs recommend.SourceRecs) {
	fmt.Println(titleStyle.Render("Source Recommendations"))
	fmt.Println(itemStyle.Render(recs.Rationale))
	for _, rec := range recs.Recommendations {
		fmt.Printf("  %s %s\n", valueStyle.Render(rec.Source),
			labelStyle.Render(fmt.Sprintf("(bias %+.1f, credibility %.1f)", rec.Bias, rec.Credibility)))
		fmt.Println(itemStyle.Render("  " + rec.Reason))
	}
	printMetric("Current diversity", fmt.Sprintf("%.3f", recs.CurrentDiversityScore))
	printMetric("Improvement potential", fmt.Sprintf("%.3f", recs.ImprovementPotential))
	if recs.EchoChamberRisk {
		fmt.Println(itemStyle.Render(badStyle.Render("Echo chamber risk detected")))
	}
}

func printTopicRecs(recs recommend.TopicRecs) {
	fmt.Println(titleStyle.Render("Topic Recommendations"))
	fmt.Println(itemStyle.Render(recs.Rationale))
	for _, rec := range recs.Recommendations {
		fmt.Printf("  %s\n", valueStyle.Render(rec.Topic))
		fmt.Println(itemStyle.Render("  " + rec.Reason))
	}
	printMetric("Coverage", recs.TopicCoverage)
}

func printHabitRecs(recs []recommend.HabitRec) {
	if len(recs) == 0 {
		return
	}
	fmt.Println(titleStyle.Render("Habit Recommendations"))
	for _, rec := range recs {
		fmt.Println(itemStyle.Render(valueStyle.Render(rec.Habit)))
		fmt.Println(itemStyle.Render("  " + rec.Suggestion))
		fmt.Println(itemStyle.Render("  " + labelStyle.Render(rec.Rationale)))
	}
}
