package main

import (
	"github.com/spf13/cobra"

	"warscout/internal/daemonrun"
	"warscout/internal/monitor"
)

func newRunCommand(ctx *commandContext) *cobra.Command {
	var (
		logLevel      string
		diagnostic    bool
		skipPreflight bool
		quiet         bool
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Watch the screen and record battle reports",
		Long: "Watch the configured screen regions and record every battle report shown.\n\n" +
			"Name conflicts are asked on this terminal. Without a terminal they are discarded.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			printer := &statusPrinter{out: out, colorize: shouldColorize(out)}
			opts := daemonrun.Options{
				LogLevel:      logLevel,
				Diagnostic:    diagnostic,
				SkipPreflight: skipPreflight,
				Output:        out,
			}
			if !quiet {
				opts.OnStatus = func(status monitor.Status) { printer.print(status) }
			}
			return daemonrun.Run(cmd.Context(), cfg, opts)
		},
	}

	cmd.Flags().StringVar(&logLevel, "log-level", "", "Override logging.level for this session")
	cmd.Flags().BoolVar(&diagnostic, "diagnostic", false, "Also write a debug JSON log tagged with a session id")
	cmd.Flags().BoolVar(&skipPreflight, "skip-preflight", false, "Start even when preflight checks fail")
	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "Do not print status lines")
	return cmd
}
