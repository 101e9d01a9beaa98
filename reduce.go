package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/phobologic/cleanupreducer/internal/config"
	"github.com/phobologic/cleanupreducer/internal/driver"
	"github.com/phobologic/cleanupreducer/internal/frontend"
	"github.com/phobologic/cleanupreducer/internal/logging"
	"github.com/phobologic/cleanupreducer/internal/reduce"
)

// newReduceCmd builds `cleanupreducer reduce`, which runs the reductions to a
// fixed point against an interestingness test.
func newReduceCmd(stdout, stderr io.Writer) *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "reduce [flags] <file> <interestingness-test> [-- <compiler flags>]",
		Short: "Reduce a file in place while an interestingness test keeps passing",
		Long: `reduce tries every opportunity of every reduction in turn and keeps each
one the interestingness test accepts, until a full round makes no progress.

The test is an executable. It runs in a scratch directory holding a copy of
the candidate under the file's own name, and gets that copy's path as its
argument. Exit status 0 means the candidate is interesting.`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			positional, compilerArgs := args, []string(nil)
			if dash := cmd.ArgsLenAtDash(); dash >= 0 {
				positional, compilerArgs = args[:dash], args[dash:]
			}
			if len(positional) != 2 {
				return fmt.Errorf("reduce takes exactly one file and one interestingness test, got %d arguments", len(positional))
			}

			opts, err := config.LoadDriver(cmd.Flags(), configPath)
			if err != nil {
				return err
			}
			logger, err := logging.New(stderr, opts.LogLevel, opts.LogFormat)
			if err != nil {
				return err
			}
			flags, err := frontend.ParseFlags(compilerArgs)
			if err != nil {
				return err
			}

			reductions := make([]reduce.Reduction, 0, len(opts.Reductions))
			for _, name := range opts.Reductions {
				r, _ := reduce.Lookup(name)
				reductions = append(reductions, r)
			}

			d := &driver.Driver{
				Reductions: reductions,
				Test:       driver.ScriptTest{Script: positional[1], Timeout: opts.TestTimeout},
				Flags:      flags,
				Logger:     logger,
			}
			stats, err := d.Run(cmd.Context(), positional[0])
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(stdout, "%s: accepted %d of %d candidates\n", positional[0], stats.Accepted, stats.Attempts)
			return nil
		},
	}

	config.RegisterDriverFlags(cmd.Flags())
	cmd.Flags().StringVar(&configPath, "config", "", "config file (YAML, TOML or JSON)")

	return cmd
}
