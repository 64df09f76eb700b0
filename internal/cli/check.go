package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/wemcdonald/boxr/pkg/errors"
	"github.com/wemcdonald/boxr/pkg/pipeline"
	"github.com/wemcdonald/boxr/pkg/validate"
)

// checkCommand creates the check command that validates without generating.
func (c *CLI) checkCommand() *cobra.Command {
	opts := pipeline.Options{}

	cmd := &cobra.Command{
		Use:   "check [tools.csv]",
		Short: "Validate a tool table without generating anything",
		Long: `Validate a tool table against the structural and geometric rules.

All violations are collected and reported at once, so a whole file can be
fixed in one editing pass. The command exits non-zero if any violation is
found.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Input = args[0]
			return c.runCheck(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVar(&opts.ParamsFile, "params", "", "TOML parameter file (default: built-in defaults)")

	return cmd
}

func (c *CLI) runCheck(ctx context.Context, opts pipeline.Options) error {
	runner, err := c.newRunner(true)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	opts.Logger = c.Logger

	violations, err := runner.Check(ctx, opts)
	if err != nil {
		return err
	}

	if len(violations) == 0 {
		printSuccess("Input is valid")
		printNewline()
		printNextStep("Generate", "boxr generate "+opts.Input)
		return nil
	}

	printError("Found %d violation(s)", len(violations))
	printViolations(violations)
	printDetail("codes: %s", joinCodes(validate.Codes(violations)))
	return fmt.Errorf("%d validation failure(s)", len(violations))
}

// joinCodes renders distinct violation codes as "DUPLICATE_POSITION, INVALID_LABEL".
func joinCodes(codes []errors.Code) string {
	parts := make([]string, len(codes))
	for i, code := range codes {
		parts[i] = string(code)
	}
	return strings.Join(parts, ", ")
}
