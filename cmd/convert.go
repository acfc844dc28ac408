package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/xkilldash9x/shapes-cli/internal/editor"
	"github.com/xkilldash9x/shapes-cli/internal/observability"
	"github.com/xkilldash9x/shapes-cli/internal/units"
)

// newConvertCmd creates the `convert` command.
func newConvertCmd() *cobra.Command {
	var (
		src  elementSource
		unit string
	)
	convertCmd := &cobra.Command{
		Use:   "convert <value>",
		Short: "Re-serialize a shape value in another unit",
		Long: `Convert rewrites every coordinate of a shape value in one unit. Without
--unit the value moves to the next unit of the configured unit cycle.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, err := getConfigFromContext(ctx)
			if err != nil {
				return err
			}
			target, err := src.resolve(ctx, cfg)
			if err != nil {
				return err
			}

			opts := append(editor.FromConfig(cfg.Editor()), editor.WithLogger(observability.GetLogger()))
			e, err := editor.New(target, args[0], opts...)
			if err != nil {
				return err
			}
			defer func() { _ = e.Remove() }()

			if unit == "" {
				if _, err := e.ConvertUnits(); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), e.CSSValue())
				return nil
			}
			u, ok := units.ParseUnit(unit)
			if !ok {
				return fmt.Errorf("unknown unit %q", unit)
			}
			fmt.Fprintln(cmd.OutOrStdout(), e.CSSValueIn(string(u)))
			return nil
		},
	}
	addElementFlags(convertCmd, &src)
	convertCmd.Flags().StringVarP(&unit, "unit", "u", "", "target unit (px, %, em, rem, vw, vh, in, cm, mm, pt, pc)")
	return convertCmd
}
