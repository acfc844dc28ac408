package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/xkilldash9x/shapes-cli/internal/editor"
	"github.com/xkilldash9x/shapes-cli/internal/observability"
	"github.com/xkilldash9x/shapes-cli/internal/stylesync"
	"github.com/xkilldash9x/shapes-cli/internal/watcher"
)

// newWatchCmd creates the `watch` command.
func newWatchCmd() *cobra.Command {
	var (
		src   elementSource
		value string
		opts  watcher.Options
	)
	watchCmd := &cobra.Command{
		Use:   "watch <file>",
		Short: "Follow a file of shape values and stream the resulting changes",
		Long: `Watch keeps one editor live and feeds it every line appended to the file.
Changes are printed as JSON lines, throttled by sync.throttle. A value that
fails to parse is reported on stderr and the previous shape is kept.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, err := getConfigFromContext(ctx)
			if err != nil {
				return err
			}
			logger := observability.GetLogger()

			target, err := src.resolve(ctx, cfg)
			if err != nil {
				return err
			}
			edOpts := append(editor.FromConfig(cfg.Editor()), editor.WithLogger(logger))
			e, err := editor.New(target, value, edOpts...)
			if err != nil {
				return err
			}

			syncer := stylesync.New(stylesync.NewJSONLinesSink(cmd.OutOrStdout()), cfg.Sync().Throttle, logger)
			defer syncer.Attach(e)()
			if err := syncer.Announce(e); err != nil {
				return err
			}

			errs := make(chan error, 16)
			w, err := watcher.New(args[0], e, errs, logger, opts)
			if err != nil {
				return err
			}

			g, gctx := errgroup.WithContext(ctx)
			g.Go(func() error { return syncer.Run(gctx) })
			g.Go(func() error { return w.Run(gctx) })
			g.Go(func() error {
				for {
					select {
					case <-gctx.Done():
						return nil
					case err := <-errs:
						fmt.Fprintln(cmd.ErrOrStderr(), "rejected:", err)
					}
				}
			})
			return g.Wait()
		},
	}
	addElementFlags(watchCmd, &src)
	watchCmd.Flags().StringVar(&value, "value", "", "initial shape value")
	watchCmd.Flags().BoolVar(&opts.FromStart, "from-start", false, "replay lines already in the file")
	watchCmd.Flags().BoolVar(&opts.Poll, "poll", false, "poll the file instead of using inotify")
	_ = watchCmd.MarkFlagRequired("value")
	return watchCmd
}
