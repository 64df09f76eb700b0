package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/wemcdonald/boxr/pkg/pipeline"
	"github.com/wemcdonald/boxr/pkg/validate"
)

// generateCommand creates the generate command that runs the full pipeline.
func (c *CLI) generateCommand() *cobra.Command {
	var (
		output  string
		formats string
		noCache bool
	)
	opts := pipeline.Options{}

	cmd := &cobra.Command{
		Use:   "generate [tools.csv]",
		Short: "Generate a holder layout and write its artifacts",
		Long: `Generate a holder layout from a tool table.

The generate command reads a CSV or XLSX tool table, validates it, computes
the dimensioned grid, builds the construction plan, and writes the requested
artifacts next to the input (or under --output).

Formats: svg (top-view preview), json (construction plan for CAD tooling).

Results are cached locally for faster subsequent runs.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Input = args[0]
			opts.Formats = parseFormats(formats)
			return c.runGenerate(cmd.Context(), opts, output, noCache)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output path base (default: input path without extension)")
	cmd.Flags().StringVarP(&formats, "formats", "f", "svg", "comma-separated output formats: svg, json")
	cmd.Flags().StringVar(&opts.ParamsFile, "params", "", "TOML parameter file (default: built-in defaults)")
	cmd.Flags().Float64Var(&opts.Scale, "scale", pipeline.DefaultScale, "SVG preview scale in pixels per millimeter")
	cmd.Flags().BoolVar(&opts.Labels, "labels", true, "draw tool labels in the SVG preview")
	cmd.Flags().BoolVar(&opts.Bands, "bands", false, "draw band guide lines in the SVG preview")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&opts.Refresh, "refresh", false, "bypass the cache for this run")

	return cmd
}

// runGenerate executes the pipeline and writes artifacts to disk.
func (c *CLI) runGenerate(ctx context.Context, opts pipeline.Options, output string, noCache bool) error {
	runner, err := c.newRunner(noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	opts.Logger = c.Logger
	prog := newProgress(c.Logger)

	spinner := newSpinnerWithContext(ctx, "Generating layout...")
	spinner.Start()

	result, err := runner.Execute(ctx, opts)
	if err != nil {
		var verr *validate.Error
		if errors.As(err, &verr) {
			spinner.StopWithError("Input failed validation")
			printViolations(verr.Violations)
			return fmt.Errorf("%d validation failure(s)", len(verr.Violations))
		}
		spinner.Stop()
		return err
	}
	spinner.Stop()

	if ctx.Err() != nil {
		return ctx.Err()
	}

	base := output
	if base == "" {
		base = strings.TrimSuffix(opts.Input, filepath.Ext(opts.Input))
	}

	printSuccess("Holder %.1f x %.1f mm", result.Layout.PartWidth, result.Layout.PartDepth)
	for _, format := range opts.Formats {
		path := base + "." + format
		if err := os.WriteFile(path, result.Artifacts[format], 0644); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		printFile(path)
	}
	printStats(result.Stats.ToolCount, result.Stats.ActiveCount, result.CacheInfo.ResultHit)
	c.recordRun(ctx, opts, result)
	prog.done(fmt.Sprintf("Generated %d artifact(s)", len(opts.Formats)))

	for _, w := range result.Plan.Warnings {
		printWarning("%s", w)
	}

	return nil
}
