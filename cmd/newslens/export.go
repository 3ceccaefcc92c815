package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/abelbrown/newslens/internal/export"
	"github.com/abelbrown/newslens/internal/insights"
	"github.com/abelbrown/newslens/internal/recommend"
	"github.com/abelbrown/newslens/internal/tracker"
)

func runExport(args []string) {
	fs := flag.NewFlagSet("export", flag.ExitOnError)
	format := fs.String("format", "csv", "Export format: csv, json, html")
	days := fs.Int("days", 0, "Reporting period in days (default from config)")
	sensitive := fs.Bool("sensitive", false, "Include raw event log and preferences")
	out := fs.String("out", "", "Output file path (default: generated name)")
	report := fs.Bool("report", false, "Export the full insights report instead of raw data")
	fs.Parse(args)

	cfg := loadConfig()
	st := openStore(cfg)
	defer st.Close()

	cl := newClassifier(cfg, st)
	gen := insights.NewGenerator(st, cl, recommend.New(st, cl))
	exp := export.New(st, gen, cfg.ExportDir)

	period := periodDays(*days, cfg)
	ctx := context.Background()

	var path string
	var err error
	if *report {
		path, err = exp.ExportReport(ctx, period, *format, *out)
	} else {
		path, err = exp.ExportConsumption(ctx, export.Options{
			Format:           *format,
			Days:             period,
			IncludeSensitive: *sensitive,
			OutputFile:       *out,
		})
	}
	if err != nil {
		fatalf("export failed: %v", err)
	}

	tracker.New(st).TrackExport(*format, period)

	fmt.Printf("%s %s\n", goodStyle.Render("exported to"), valueStyle.Render(path))
	if *sensitive {
		fmt.Fprintln(os.Stderr, warnStyle.Render("note: export includes sensitive raw data"))
	}
}
