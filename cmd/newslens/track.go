package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/abelbrown/newslens/internal/store"
	"github.com/abelbrown/newslens/internal/tracker"
)

const trackUsage = `newslens track - record a consumption event

Usage:
  newslens track <action> [flags]

Actions:
  search, view, summary, sources, config, list-topics,
  analytics, export, recommend

Examples:
  newslens track search -topic technology -source reuters -results 12
  newslens track view -source bbc -topic health
  newslens track summary -source-type url -duration 45
`

func runTrack(args []string) {
	if len(args) < 1 || strings.HasPrefix(args[0], "-") {
		fmt.Print(trackUsage)
		os.Exit(1)
	}
	action := args[0]

	fs := flag.NewFlagSet("track", flag.ExitOnError)
	topic := fs.String("topic", "", "News topic")
	source := fs.String("source", "", "News source")
	keywords := fs.String("keywords", "", "Search keywords")
	country := fs.String("country", "", "Country filter")
	language := fs.String("language", "", "Language filter")
	results := fs.Int("results", 0, "Result count")
	duration := fs.Int("duration", 0, "Duration in seconds")
	sourceType := fs.String("source-type", "url", "Summary input type (url, text)")
	period := fs.Int("period", 30, "Analytics period in days")
	reportType := fs.String("type", "basic", "Report or recommendation type")
	format := fs.String("format", "csv", "Export format")
	fs.Parse(args[1:])

	cfg := loadConfig()
	st := openStore(cfg)
	defer st.Close()
	tr := tracker.New(st)

	var err error
	switch action {
	case "search":
		err = tr.TrackSearch(tracker.SearchEvent{
			Topic:       *topic,
			Source:      *source,
			Keywords:    *keywords,
			Country:     *country,
			Language:    *language,
			ResultCount: *results,
		})
	case "view":
		err = tr.TrackView(*topic, *source, *keywords)
	case "summary":
		err = tr.TrackSummary(*sourceType, *duration)
	case "sources":
		err = tr.TrackSourcesList(*source, *topic, *country, *results)
	case "config":
		err = tr.TrackConfigView()
	case "list-topics":
		err = tr.TrackTopicsList()
	case "analytics":
		err = tr.TrackAnalyticsView(*period, *reportType)
	case "export":
		err = tr.TrackExport(*format, *period)
	case "recommend":
		err = tr.TrackRecommendationsView(*reportType)
	default:
		fmt.Fprintf(os.Stderr, "newslens track: unknown action %q\n\n", action)
		fmt.Print(trackUsage)
		os.Exit(1)
	}
	if err != nil {
		var verr *store.ValidationError
		if errors.As(err, &verr) {
			fatalf("invalid event: %v", verr)
		}
		fatalf("failed to record event: %v", err)
	}

	enabled, _ := tr.Enabled()
	if !enabled {
		fmt.Println(labelStyle.Render("tracking is disabled; event not recorded"))
		return
	}
	fmt.Println(goodStyle.Render("recorded ") + valueStyle.Render(action) + goodStyle.Render(" event"))
}
