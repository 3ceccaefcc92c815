// Command newslens is a privacy-first local analytics CLI for personal
// news consumption.
//
// Usage:
//
//	newslens                     Show help
//	newslens track <action>      Record a consumption event
//	newslens report              Full consumption report
//	newslens recommend           Source/topic/habit recommendations
//	newslens privacy             Privacy controls and data summary
//	newslens export              Export analytics data to a file
package main

import (
	"fmt"
	"os"

	"github.com/abelbrown/newslens/internal/logging"
)

const usage = `newslens - personal news consumption analytics

Usage:
  newslens <command> [flags]

Commands:
  track       Record a consumption event (search, view, summary, ...)
  report      Consumption report: metrics, trends, bias, health score
  recommend   Source, topic, and habit recommendations
  privacy     Privacy controls: tracking, retention, reset, summary
  export      Export analytics data (csv, json, html)

Environment:
  NEWSLENS_DB                 Override the database path
  NEWSLENS_BIAS_ENDPOINT      External bias-classification API endpoint
  NEWSLENS_BIAS_API_KEY       External bias-classification API key
  NEWSLENS_LOG_LEVEL          Log level (debug, info, warn, error)

Run 'newslens <command> -h' for command-specific help.
`

func main() {
	if len(os.Args) < 2 {
		fmt.Print(usage)
		os.Exit(0)
	}

	if err := logging.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "newslens: logging init failed: %v\n", err)
	}
	defer logging.Close()

	cmd := os.Args[1]
	args := os.Args[2:]

	switch cmd {
	case "track":
		runTrack(args)
	case "report":
		runReport(args)
	case "recommend":
		runRecommend(args)
	case "privacy":
		runPrivacy(args)
	case "export":
		runExport(args)
	case "-h", "--help", "help":
		fmt.Print(usage)
	default:
		fmt.Fprintf(os.Stderr, "newslens: unknown command %q\n\n", cmd)
		fmt.Print(usage)
		os.Exit(1)
	}
}
