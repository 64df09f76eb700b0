package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/wemcdonald/boxr/pkg/history"
	"github.com/wemcdonald/boxr/pkg/pipeline"
)

// runsCommand creates the run history command.
func (c *CLI) runsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "runs",
		Short: "Inspect past generation runs",
	}

	cmd.AddCommand(c.runsListCommand())
	cmd.AddCommand(c.runsPruneCommand())

	return cmd
}

// runsListCommand creates the "runs list" subcommand.
func (c *CLI) runsListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List recorded runs, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := c.newHistoryStore()
			if err != nil {
				return err
			}

			records, err := store.List(cmd.Context())
			if err != nil {
				return fmt.Errorf("list runs: %w", err)
			}
			if len(records) == 0 {
				printInfo("No recorded runs")
				return nil
			}

			for _, rec := range records {
				printInfo("%s  %s", rec.CreatedAt.Format("2006-01-02 15:04"), rec.Input)
				printDetail("id %s · %s ago", rec.ID, rec.Age().Round(time.Second))
				printDetail("%.1f x %.1f mm · %d tools (%d active)",
					rec.PartWidth, rec.PartDepth, rec.ToolCount, rec.ActiveCount)
			}
			return nil
		},
	}
}

// runsPruneCommand creates the "runs prune" subcommand.
func (c *CLI) runsPruneCommand() *cobra.Command {
	var olderThan time.Duration

	cmd := &cobra.Command{
		Use:   "prune",
		Short: "Remove run records older than the retention window",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := c.newHistoryStore()
			if err != nil {
				return err
			}

			removed, err := store.Prune(cmd.Context(), olderThan)
			if err != nil {
				return fmt.Errorf("prune runs: %w", err)
			}
			printSuccess("Removed %d run record(s)", removed)
			return nil
		},
	}

	cmd.Flags().DurationVar(&olderThan, "older-than", history.DefaultRetention, "remove records older than this duration")

	return cmd
}

// newHistoryStore opens the file-based run record store.
func (c *CLI) newHistoryStore() (*history.FileStore, error) {
	dir, err := runsDir()
	if err != nil {
		return nil, fmt.Errorf("get runs dir: %w", err)
	}
	return history.NewFileStore(dir)
}

// recordRun stores a run record after a successful generate.
// History failures never fail the run; they are logged at debug level.
func (c *CLI) recordRun(ctx context.Context, opts pipeline.Options, result *pipeline.Result) {
	store, err := c.newHistoryStore()
	if err != nil {
		c.Logger.Debug("run history unavailable", "err", err)
		return
	}

	rec := history.New(result.RunID, opts.Input, result.InputHash)
	rec.ToolCount = result.Stats.ToolCount
	rec.ActiveCount = result.Stats.ActiveCount
	rec.PartWidth = result.Layout.PartWidth
	rec.PartDepth = result.Layout.PartDepth
	rec.Formats = opts.Formats

	if err := store.Set(ctx, rec); err != nil {
		c.Logger.Debug("record run", "err", err)
	}
}

// runsDir returns the run record directory (~/.config/boxr/runs/).
func runsDir() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, appName, "runs"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName, "runs"), nil
}
