// Package app contains the Cobra command tree for daymark.
package app

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/daymark/internal/classify"
	"github.com/blackwell-systems/daymark/internal/config"
	"github.com/blackwell-systems/daymark/internal/journal"
	"github.com/blackwell-systems/daymark/internal/logger"
	"github.com/blackwell-systems/daymark/internal/output"
	"github.com/blackwell-systems/daymark/internal/store/postgres"
	"github.com/blackwell-systems/daymark/internal/store/sqlite"
)

var appVersion = "dev"

// SetVersion sets the application version (called from main with ldflags value).
func SetVersion(v string) {
	appVersion = v
	rootCmd.Version = v
}

var (
	flagNoColor bool
	flagJSON    bool
	flagDebug   bool
	flagConfig  string
)

var rootCmd = &cobra.Command{
	Use:   "daymark",
	Short: "A daily journal that tracks how you feel",
	Long: `daymark keeps one free-text journal entry per day, classifies each
entry into an emotion, and builds a weekly picture from the accumulated
records: a ranked emotion distribution and a short narrative comparing
this week against the last.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Println("daymark", appVersion)
		fmt.Println()
		fmt.Println("Use a subcommand:")
		fmt.Println("  write     Save today's journal entry")
		fmt.Println("  show      Show an entry and its emotion")
		fmt.Println("  list      List entries in a date range")
		fmt.Println("  delete    Delete an entry and its derived emotions")
		fmt.Println("  week      Weekly emotion report and insight")
		fmt.Println("  analyze   Re-run emotion analysis for a week")
		fmt.Println("  serve     Run the HTTP API server")
		return nil
	},
}

// Execute is the entry point called from main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Config file path (default: ~/.config/daymark/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&flagNoColor, "no-color", false, "Disable colored output")
	rootCmd.PersistentFlags().BoolVar(&flagJSON, "json", false, "Output as JSON")
	rootCmd.PersistentFlags().BoolVar(&flagDebug, "debug", false, "Enable debug logging to stderr")
}

// env bundles everything a command needs: configuration, the stores, and
// the wired entry service. close must be deferred by the caller.
type env struct {
	cfg     *config.Config
	userID  string
	entries journal.EntryStore
	obs     journal.ObservationStore
	deriver *journal.Deriver
	service *journal.Service
	close   func()
}

// setup loads config, initializes logging, opens the configured store
// backend, and wires the derivation engine and entry service.
func setup(cmd *cobra.Command) (*env, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	if err := logger.Init(logger.Config{Debug: cfg.Debug || flagDebug, ConfigDir: config.ConfigDir()}); err != nil {
		return nil, fmt.Errorf("initializing logger: %w", err)
	}

	if flagNoColor {
		output.SetNoColor(true)
	} else {
		output.AutoDetect()
	}

	userID, err := cfg.EnsureUserID()
	if err != nil {
		return nil, fmt.Errorf("resolving user id: %w", err)
	}

	e := &env{cfg: cfg, userID: userID, close: func() {}}

	switch cfg.DB.Driver {
	case "postgres":
		pg, err := postgres.Open(cmd.Context(), cfg.DB.DSN)
		if err != nil {
			return nil, fmt.Errorf("opening postgres store: %w", err)
		}
		e.entries, e.obs = pg, pg
		e.close = pg.Close
	default:
		db, err := sqlite.Open(cfg.DBPath())
		if err != nil {
			return nil, fmt.Errorf("opening database: %w", err)
		}
		e.entries, e.obs = db, db
		e.close = func() { _ = db.Close() }
	}

	e.deriver = journal.NewDeriver(e.obs, buildClassifier(cfg))
	e.service = journal.NewService(e.entries, e.obs, e.deriver)
	return e, nil
}

// buildClassifier selects the classifier implementation from config.
func buildClassifier(cfg *config.Config) classify.Classifier {
	if cfg.Classifier.Provider == "openai" {
		return classify.NewOpenAI(cfg.Classifier.APIKey, cfg.Classifier.Model)
	}
	timeout := time.Duration(cfg.Classifier.TimeoutSeconds) * time.Second
	return classify.NewClient(cfg.Classifier.URL, timeout)
}

// parseDateFlag parses a --date value, defaulting to today when empty.
func parseDateFlag(value string) (time.Time, error) {
	if value == "" {
		return journal.DateOf(time.Now()), nil
	}
	d, err := time.Parse(time.DateOnly, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q (want YYYY-MM-DD): %w", value, err)
	}
	return d, nil
}
