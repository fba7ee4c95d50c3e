package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/harrison/filefind/internal/history"
)

// NewHistoryCommand creates the history command and its subcommands
func NewHistoryCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List past searches",
		Long: `List searches recorded in the history database, newest first.

Examples:
  filefind history
  filefind history --limit 5
  filefind history clear`,
		RunE: historyListCommand,
	}

	cmd.Flags().String("config", "", "Path to config file (default: .filefind/config.yaml)")
	cmd.Flags().Int("limit", 20, "Maximum number of entries to show (0 = all)")

	cmd.AddCommand(newHistoryClearCommand())

	return cmd
}

func newHistoryClearCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete all recorded searches",
		RunE:  historyClearCommand,
	}

	cmd.Flags().String("config", "", "Path to config file (default: .filefind/config.yaml)")

	return cmd
}

// historyListCommand implements the history command logic
func historyListCommand(cmd *cobra.Command, args []string) error {
	store, err := openHistoryStore(cmd)
	if err != nil {
		return err
	}
	defer store.Close()

	limit, _ := cmd.Flags().GetInt("limit")

	records, err := store.Recent(limit)
	if err != nil {
		return err
	}

	if len(records) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No searches recorded.")

		return nil
	}

	for _, rec := range records {
		fmt.Fprintf(cmd.OutOrStdout(), "%s  %-30s  %4d match(es)  %8s  roots: %s\n",
			rec.CreatedAt.Local().Format("2006-01-02 15:04:05"),
			rec.Target,
			rec.MatchCount,
			rec.Duration.Round(time.Millisecond),
			strings.Join(rec.Roots, ", "),
		)
	}

	return nil
}

// historyClearCommand implements the history clear logic
func historyClearCommand(cmd *cobra.Command, args []string) error {
	store, err := openHistoryStore(cmd)
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.Clear(); err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), "History cleared.")

	return nil
}

// openHistoryStore opens the history database configured for this invocation.
func openHistoryStore(cmd *cobra.Command) (*history.Store, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}

	if !cfg.History.Enabled {
		return nil, fmt.Errorf("history is disabled in the configuration")
	}

	return history.NewStore(cfg.History.DBPath)
}
