package cmd

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/xkilldash9x/shapes-cli/api/schemas"
	"github.com/xkilldash9x/shapes-cli/internal/shapes"
)

// newOriginCmd creates the `origin` command.
func newOriginCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "origin <position>",
		Short: "Resolve a CSS position such as \"top left\" into x and y",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input := strings.Join(args, " ")
			pos, err := shapes.ResolveOrigin(input)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), schemas.OriginReport{
				Input: input,
				X:     pos.X.String(),
				Y:     pos.Y.String(),
			})
		},
	}
}
