package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/xkilldash9x/shapes-cli/internal/editor"
	"github.com/xkilldash9x/shapes-cli/internal/observability"
	"github.com/xkilldash9x/shapes-cli/internal/worker"
)

// newParseCmd creates the `parse` command.
func newParseCmd() *cobra.Command {
	var (
		src  elementSource
		file string
	)
	parseCmd := &cobra.Command{
		Use:   "parse [value]",
		Short: "Parse a shape value and print its normalized form and geometry",
		Long: `Parse resolves a CSS shape value against an element and prints a JSON
report with the normalized value and every coordinate in pixels.

With --file, every non-empty line of the file is parsed concurrently and
the reports are printed as one JSON array in input order.`,
		Args: func(cmd *cobra.Command, args []string) error {
			if file == "" && len(args) != 1 {
				return fmt.Errorf("parse takes exactly one value, or --file")
			}
			if file != "" && len(args) != 0 {
				return fmt.Errorf("a value argument cannot be combined with --file")
			}
			return nil
		},
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

			values := args
			if file != "" {
				if values, err = readValues(file); err != nil {
					return err
				}
			}

			pool := worker.NewPool(target, cfg.Worker().Concurrency, observability.GetLogger(), editor.FromConfig(cfg.Editor())...)
			results, err := pool.ParseAll(ctx, values)
			if err != nil {
				return err
			}

			if file != "" {
				return writeJSON(cmd.OutOrStdout(), results)
			}
			if results[0].Err != nil {
				return results[0].Err
			}
			return writeJSON(cmd.OutOrStdout(), results[0].Report)
		},
	}
	addElementFlags(parseCmd, &src)
	parseCmd.Flags().StringVarP(&file, "file", "f", "", "file with one shape value per line")
	return parseCmd
}

// readValues returns the non-empty lines of path. Lines starting with '#'
// are comments.
func readValues(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening values file: %w", err)
	}
	defer f.Close()

	var values []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		values = append(values, line)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading values file: %w", err)
	}
	return values, nil
}
