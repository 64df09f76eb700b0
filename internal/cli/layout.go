package cli

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/wemcdonald/boxr/pkg/layout"
	"github.com/wemcdonald/boxr/pkg/pipeline"
	"github.com/wemcdonald/boxr/pkg/validate"
)

// layoutCommand creates the layout command for inspecting the computed grid.
func (c *CLI) layoutCommand() *cobra.Command {
	opts := pipeline.Options{}

	cmd := &cobra.Command{
		Use:   "layout [tools.csv]",
		Short: "Compute and print the dimensioned grid",
		Long: `Compute the holder layout and print its dimensions without writing
any artifacts: part footprint, per-column widths, per-row depths, and every
hole center.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Input = args[0]
			return c.runLayout(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVar(&opts.ParamsFile, "params", "", "TOML parameter file (default: built-in defaults)")

	return cmd
}

func (c *CLI) runLayout(ctx context.Context, opts pipeline.Options) error {
	runner, err := c.newRunner(true)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	opts.Logger = c.Logger
	opts.Formats = []string{pipeline.FormatJSON}
	prog := newProgress(c.Logger)

	result, err := runner.Execute(ctx, opts)
	if err != nil {
		var verr *validate.Error
		if errors.As(err, &verr) {
			printError("Input failed validation")
			printViolations(verr.Violations)
			return fmt.Errorf("%d validation failure(s)", len(verr.Violations))
		}
		return err
	}

	l := result.Layout
	fmt.Println(StyleTitle.Render("Holder layout"))
	printKeyValue("part", fmt.Sprintf("%.1f x %.1f mm", l.PartWidth, l.PartDepth))
	printKeyValue("grid", fmt.Sprintf("%d rows x %d cols", l.MaxRow+1, l.MaxCol+1))
	printKeyValue("columns", formatBands(l.ColumnWidths, l.MaxCol))
	printKeyValue("rows", formatBands(l.RowDepths, l.MaxRow))
	printNewline()

	for _, pos := range sortedPositions(l) {
		center := l.Centers[pos]
		printDetail("(%d,%d)  center %.1f, %.1f mm", pos.Row, pos.Col, center.X, center.Y)
	}

	prog.done(fmt.Sprintf("Computed layout for %d tool(s)", result.Stats.ActiveCount))
	return nil
}

// formatBands renders band sizes as "26.0 / 3.0 / 24.0 mm".
func formatBands(bands map[int]float64, max int) string {
	parts := make([]string, 0, max+1)
	for i := 0; i <= max; i++ {
		parts = append(parts, fmt.Sprintf("%.1f", bands[i]))
	}
	return strings.Join(parts, " / ") + " mm"
}

func sortedPositions(l layout.Layout) []layout.GridPos {
	positions := make([]layout.GridPos, 0, len(l.Centers))
	for pos := range l.Centers {
		positions = append(positions, pos)
	}
	sort.Slice(positions, func(i, j int) bool {
		if positions[i].Row != positions[j].Row {
			return positions[i].Row < positions[j].Row
		}
		return positions[i].Col < positions[j].Col
	})
	return positions
}
