package main

import (
	"fmt"
	"os"

	"github.com/abelbrown/newslens/internal/bias"
	"github.com/abelbrown/newslens/internal/config"
	"github.com/abelbrown/newslens/internal/logging"
	"github.com/abelbrown/newslens/internal/store"
)

// loadConfig reads the config or fatals.
func loadConfig() *config.Config {
	cfg, err := config.Load()
	if err != nil {
		fatalf("failed to load config: %v", err)
	}
	return cfg
}

// openStore opens the analytics database for the loaded config or fatals.
func openStore(cfg *config.Config) *store.Store {
	st, err := store.Open(cfg.DatabasePath)
	if err != nil {
		fatalf("failed to open database: %v", err)
	}
	return st
}

// newClassifier builds the classifier, wiring the external lookup when
// the config provides one.
func newClassifier(cfg *config.Config, st *store.Store) *bias.Classifier {
	lookup := bias.NewLookup(cfg.BiasLookup.Endpoint, cfg.BiasLookup.APIKey)
	cl, err := bias.NewWithLookup(st, lookup)
	if err != nil {
		fatalf("failed to initialize classifier: %v", err)
	}
	return cl
}

// periodDays resolves the report window: an explicit flag wins, otherwise
// the configured default.
func periodDays(flagDays int, cfg *config.Config) int {
	if flagDays > 0 {
		return flagDays
	}
	if cfg.DefaultPeriodDays > 0 {
		return cfg.DefaultPeriodDays
	}
	return 30
}

func fatalf(format string, args ...any) {
	logging.Error(fmt.Sprintf(format, args...))
	fmt.Fprintf(os.Stderr, "newslens: "+format+"\n", args...)
	os.Exit(1)
}
