package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/siyuan-infoblox/imports-order/pkg/errors"
	"github.com/siyuan-infoblox/imports-order/pkg/linter"
	"github.com/siyuan-infoblox/imports-order/pkg/report"
)

func newWatchCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "watch PATH...",
		Short: "Check files, then re-check them whenever they change",
		Long: `Check the given files and directories once, then keep watching them and
report the result for every source file that changes. With --in-place,
changed files are fixed as they are saved. Stop with Ctrl+C.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			set, logger, err := o.setup(args)
			if err != nil {
				return err
			}
			opts, err := o.reportOptions(cmd)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			l := linter.New(o.linterConfig(set, logger))

			results, err := l.Run(ctx, args)
			if err != nil {
				return err
			}
			if err := report.Write(cmd.OutOrStdout(), results, opts); err != nil {
				return err
			}

			w, err := l.NewWatcher(linter.WatcherConfig{Paths: args})
			if err != nil {
				return err
			}
			if err := w.Start(ctx); err != nil {
				_ = w.Stop()
				return err
			}
			defer func() { _ = w.Stop() }()

			cmd.PrintErrf(errors.InfoMsgWatching+"\n", strings.Join(args, ", "))

			for result := range w.Events() {
				if opts.Format == report.FormatText && result.Err == nil && len(result.Violations) == 0 {
					fmt.Fprintf(cmd.OutOrStdout(), "%s: ok\n", result.Path)
					continue
				}
				if err := report.Write(cmd.OutOrStdout(), []linter.FileResult{result}, opts); err != nil {
					return err
				}
			}
			return nil
		},
	}
}
