package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/wemcdonald/boxr/pkg/config"
)

// paramsCommand creates the params command group.
func (c *CLI) paramsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "params",
		Short: "Inspect or scaffold the parameter file",
	}

	cmd.AddCommand(c.paramsInitCommand())
	cmd.AddCommand(c.paramsShowCommand())

	return cmd
}

// paramsInitCommand creates the "params init" subcommand.
func (c *CLI) paramsInitCommand() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a parameter file with the stock defaults",
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := os.Stat(output); err == nil {
				return fmt.Errorf("%s already exists", output)
			}

			f, err := os.Create(output)
			if err != nil {
				return fmt.Errorf("create %s: %w", output, err)
			}
			defer f.Close()

			if err := config.WriteDefault(f); err != nil {
				return fmt.Errorf("write defaults: %w", err)
			}

			printSuccess("Wrote default parameters")
			printFile(output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "boxr.toml", "output file")

	return cmd
}

// paramsShowCommand creates the "params show" subcommand.
func (c *CLI) paramsShowCommand() *cobra.Command {
	var paramsFile string

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the resolved parameter set",
		RunE: func(cmd *cobra.Command, args []string) error {
			p := config.Default()
			if paramsFile != "" {
				var err error
				if p, err = config.Load(paramsFile); err != nil {
					return err
				}
			}

			fmt.Println(StyleTitle.Render("Parameters"))
			printKeyValue("spacing", fmt.Sprintf("pad %g/%g, margin %g/%g, web %g mm",
				p.HandleXPad, p.HandleYPad, p.EdgeMarginX, p.EdgeMarginY, p.MinWeb))
			printKeyValue("body", fmt.Sprintf("base %g, step %g, floor min %g, wing %g mm",
				p.BaseThickness, p.RowZStep, p.MinFloorThickness, p.MountingWingDepth))
			printKeyValue("holes", fmt.Sprintf("buffer %g, chamfer %g x %g mm",
				p.HoleBuffer, p.HoleChamferD, p.HoleChamferDepth))
			printKeyValue("labels", fmt.Sprintf("%s %g mm, emboss %g mm, offset %g mm",
				p.FontName, p.TextHeight, p.EmbossHeight, p.TextYDist))
			printKeyValue("mounting", fmt.Sprintf("%s d%g at %g/%g mm",
				p.MountStyle, p.MountHoleD, p.MountHoleEdgeOffsetX, p.MountHoleEdgeOffsetY))
			return nil
		},
	}

	cmd.Flags().StringVar(&paramsFile, "params", "", "TOML parameter file (default: built-in defaults)")

	return cmd
}
