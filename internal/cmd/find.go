package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/harrison/filefind/internal/config"
	"github.com/harrison/filefind/internal/export"
	"github.com/harrison/filefind/internal/history"
	"github.com/harrison/filefind/internal/logger"
	"github.com/harrison/filefind/internal/search"
)

// NewFindCommand creates the find command
func NewFindCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "find <name>",
		Short: "Search directory trees for entries with the given name",
		Long: `Search one or more directory trees for entries whose base name equals
<name> exactly, and print the absolute path of every match.

Roots default to the whole machine ("/" or all drive letters); pass --root to
narrow the search. Hidden entries and system paths (/proc, /sys, /dev,
/cdrom) are skipped.

Examples:
  filefind find report.pdf
  filefind find config.yaml --root ~/projects --root /etc
  filefind find main.go --root . --producers 12
  filefind find notes.md --root ~ --output found.md --format markdown
  filefind find x.txt --root /data --no-history`,
		Args: cobra.ExactArgs(1),
		RunE: findCommand,
	}

	cmd.Flags().String("config", "", "Path to config file (default: .filefind/config.yaml)")
	cmd.Flags().StringArray("root", nil, "Root directory to search (repeatable; default: host roots)")
	cmd.Flags().Int("producers", -1, "Number of directory workers (-1 = use config)")
	cmd.Flags().Int("queue-capacity", -1, "File queue capacity (-1 = use config)")
	cmd.Flags().StringArray("skip", nil, "Absolute path prefix to exclude (repeatable; overrides config)")
	cmd.Flags().String("log-level", "", "Log level: trace, debug, info, warn, error")
	cmd.Flags().String("output", "", "Write results to this file instead of stdout")
	cmd.Flags().String("format", "text", "Output file format: text, json, markdown")
	cmd.Flags().Bool("no-history", false, "Do not record this search in the history database")

	return cmd
}

// findCommand implements the find command logic
func findCommand(cmd *cobra.Command, args []string) error {
	target := args[0]

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	applyFindFlags(cmd, cfg)

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	outputPath, _ := cmd.Flags().GetString("output")
	formatName, _ := cmd.Flags().GetString("format")

	format, err := export.ParseFormat(formatName)
	if err != nil {
		return err
	}

	log := logger.NewConsoleLogger(cmd.ErrOrStderr(), cfg.LogLevel)

	searcher, err := search.New(search.Options{
		Producers:         cfg.Producers,
		FileQueueCapacity: cfg.FileQueueCapacity,
		Roots:             cfg.Roots,
		SkipPaths:         cfg.SkipPaths,
		Logger:            log,
	})
	if err != nil {
		return err
	}

	roots := cfg.Roots
	if len(roots) == 0 {
		roots = search.DefaultRoots()
	}

	log.LogSearchStart(target, len(roots))

	matches, err := searcher.Search(roots, target)
	if err != nil {
		return err
	}

	stats := searcher.Stats()
	log.LogSearchComplete(stats.Matches, stats.Duration)

	if outputPath != "" {
		report := export.Report{
			Target:      target,
			Roots:       roots,
			Matches:     matches,
			Stats:       stats,
			GeneratedAt: time.Now().UTC(),
		}

		if err := export.Write(outputPath, format, report); err != nil {
			return fmt.Errorf("failed to write results: %w", err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d match(es) to %s\n", len(matches), outputPath)
	} else {
		for _, match := range matches {
			fmt.Fprintln(cmd.OutOrStdout(), match)
		}
	}

	noHistory, _ := cmd.Flags().GetBool("no-history")
	if cfg.History.Enabled && !noHistory {
		if err := recordHistory(cfg, target, roots, stats); err != nil {
			// History is bookkeeping; a failure must not fail the search.
			log.LogWarn(fmt.Sprintf("failed to record history: %v", err))
		}
	}

	return nil
}

// loadConfig loads configuration from --config or the default location.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	configPath, _ := cmd.Flags().GetString("config")

	if configPath != "" {
		cfg, err := config.LoadConfig(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}

		return cfg, nil
	}

	cfg, err := config.LoadConfigFromDir(".")
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	return cfg, nil
}

// applyFindFlags merges explicitly set find flags over the loaded config.
func applyFindFlags(cmd *cobra.Command, cfg *config.Config) {
	var (
		producersFlag *int
		capacityFlag  *int
		levelFlag     *string
		rootsFlag     *[]string
		skipsFlag     *[]string
	)

	if producers, _ := cmd.Flags().GetInt("producers"); producers >= 0 {
		producersFlag = &producers
	}

	if capacity, _ := cmd.Flags().GetInt("queue-capacity"); capacity >= 0 {
		capacityFlag = &capacity
	}

	if level, _ := cmd.Flags().GetString("log-level"); level != "" {
		levelFlag = &level
	}

	if roots, _ := cmd.Flags().GetStringArray("root"); len(roots) > 0 {
		rootsFlag = &roots
	}

	if cmd.Flags().Changed("skip") {
		skips, _ := cmd.Flags().GetStringArray("skip")
		skipsFlag = &skips
	}

	cfg.MergeWithFlags(producersFlag, capacityFlag, levelFlag, rootsFlag, skipsFlag)
}

// recordHistory appends the completed search to the history database.
func recordHistory(cfg *config.Config, target string, roots []string, stats search.Stats) error {
	store, err := history.NewStore(cfg.History.DBPath)
	if err != nil {
		return err
	}
	defer store.Close()

	if _, err := store.Record(target, roots, stats); err != nil {
		return err
	}

	return store.Prune(cfg.History.Keep)
}
