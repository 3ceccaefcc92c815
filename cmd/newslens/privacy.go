package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"strings"

	json "github.com/goccy/go-json"

	"github.com/abelbrown/newslens/internal/bias"
	"github.com/abelbrown/newslens/internal/export"
	"github.com/abelbrown/newslens/internal/insights"
	"github.com/abelbrown/newslens/internal/recommend"
	"github.com/abelbrown/newslens/internal/tracker"
)

func runPrivacy(args []string) {
	fs := flag.NewFlagSet("privacy", flag.ExitOnError)
	enable := fs.Bool("enable", false, "Turn tracking on")
	disable := fs.Bool("disable", false, "Turn tracking off")
	retention := fs.Int("retention", 0, "Set data retention period in days")
	cleanup := fs.Bool("cleanup", false, "Delete events past the retention period")
	reset := fs.Bool("reset", false, "Delete ALL analytics data")
	yes := fs.Bool("yes", false, "Skip the reset confirmation prompt")
	asJSON := fs.Bool("json", false, "Print the privacy summary as JSON")
	fs.Parse(args)

	cfg := loadConfig()
	st := openStore(cfg)
	defer st.Close()
	tr := tracker.New(st)

	switch {
	case *enable:
		if err := tr.Enable(); err != nil {
			fatalf("failed to enable tracking: %v", err)
		}
		fmt.Println(goodStyle.Render("tracking enabled"))
		return
	case *disable:
		if err := tr.Disable(); err != nil {
			fatalf("failed to disable tracking: %v", err)
		}
		fmt.Println(warnStyle.Render("tracking disabled"))
		return
	case *retention > 0:
		if err := st.SetRetentionDays(*retention); err != nil {
			fatalf("failed to set retention: %v", err)
		}
		fmt.Printf("%s %d days\n", labelStyle.Render("retention set to"), *retention)
		return
	case *cleanup:
		removed, err := tr.CleanupExpired()
		if err != nil {
			fatalf("cleanup failed: %v", err)
		}
		fmt.Printf("%s %d expired events\n", labelStyle.Render("removed"), removed)
		return
	case *reset:
		if !*yes && !confirm("Delete ALL analytics data? This cannot be undone") {
			fmt.Println("aborted")
			return
		}
		if err := tr.Reset(); err != nil {
			fatalf("reset failed: %v", err)
		}
		fmt.Println(badStyle.Render("all analytics data deleted"))
		return
	}

	// No action flags: show the privacy summary.
	cl, err := bias.New(st)
	if err != nil {
		fatalf("failed to initialize classifier: %v", err)
	}
	gen := insights.NewGenerator(st, cl, recommend.New(st, cl))
	summary, err := export.New(st, gen, cfg.ExportDir).PrivacySummary()
	if err != nil {
		fatalf("failed to build privacy summary: %v", err)
	}

	if *asJSON {
		out, err := json.MarshalIndent(summary, "", "  ")
		if err != nil {
			fatalf("failed to encode privacy summary: %v", err)
		}
		fmt.Println(string(out))
		return
	}

	fmt.Println(titleStyle.Render("Privacy Summary"))
	state := goodStyle.Render("enabled")
	if !summary.TrackingEnabled {
		state = warnStyle.Render("disabled")
	}
	fmt.Printf("  %s %s\n", labelStyle.Render("Tracking:"), state)
	printMetric("Retention", fmt.Sprintf("%d days", summary.DataRetentionDays))
	printMetric("Consumption records", fmt.Sprintf("%d", summary.TotalConsumptionRecords))
	printMetric("Preferences", fmt.Sprintf("%d", summary.TotalPreferences))
	if summary.OldestRecord != "" {
		printMetric("Oldest record", summary.OldestRecord)
	}
	printMetric("Storage", summary.StorageLocation)

	fmt.Println(titleStyle.Render("Data Categories"))
	for _, c := range summary.DataCategories {
		fmt.Println(itemStyle.Render("- " + c))
	}
	fmt.Println(titleStyle.Render("Controls"))
	for _, c := range summary.PrivacyControls {
		fmt.Println(itemStyle.Render("- " + c))
	}
}

// confirm asks a yes/no question on stdin.
func confirm(prompt string) bool {
	fmt.Printf("%s [y/N]: ", prompt)
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes"
}
