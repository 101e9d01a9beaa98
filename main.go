// cleanupreducer removes function parameters from C and C++ sources, one
// numbered opportunity at a time, to shrink test cases.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/phobologic/cleanupreducer/internal/config"
	"github.com/phobologic/cleanupreducer/internal/discover"
	"github.com/phobologic/cleanupreducer/internal/frontend"
	"github.com/phobologic/cleanupreducer/internal/logging"
	"github.com/phobologic/cleanupreducer/internal/pass"
	"github.com/phobologic/cleanupreducer/internal/reduce"
)

var version = "dev"

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, stdout, stderr io.Writer) error {
	cmd := newRootCmd(stdout, stderr)
	cmd.SetArgs(args)
	return cmd.ExecuteContext(context.Background())
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "cleanupreducer [flags] <source>... [-- <compiler flags>]",
		Short: "Remove function parameters from C and C++ sources",
		Long: `cleanupreducer counts the parameters that could be removed from the
functions of each translation unit. Given --opportunity-to-take N it removes
the Nth one from every declaration of the function and the matching argument
from every call.

A directory argument stands for every C and C++ source file below it.
Arguments after "--" are compiler flags; "-x c" and "-x c++" select the
language when the file extension does not.`,
		Version:       version,
		Args:          cobra.MinimumNArgs(1),
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			paths, compilerArgs := args, []string(nil)
			if dash := cmd.ArgsLenAtDash(); dash >= 0 {
				paths, compilerArgs = args[:dash], args[dash:]
			}
			if len(paths) == 0 {
				return errors.New("no source files given")
			}
			return execute(cmd.Context(), cmd, configPath, paths, compilerArgs, stdout, stderr)
		},
	}
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	cmd.CompletionOptions.DisableDefaultCmd = true
	cmd.AddCommand(newReduceCmd(stdout, stderr))

	config.RegisterFlags(cmd.Flags())
	cmd.Flags().StringVar(&configPath, "config", "", "config file (YAML, TOML or JSON)")

	return cmd
}

func execute(ctx context.Context, cmd *cobra.Command, configPath string, paths, compilerArgs []string, stdout, stderr io.Writer) error {
	opts, err := config.Load(cmd.Flags(), configPath)
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

	files, err := expandPaths(paths)
	if err != nil {
		return err
	}

	sources := make([]*frontend.Source, 0, len(files))
	for _, path := range files {
		src, err := frontend.Resolve(path, flags)
		if err != nil {
			return err
		}
		sources = append(sources, src)
	}

	r, _ := reduce.Lookup(opts.ReductionType)
	p := &pass.Pass{
		Reduction: r,
		DumpASTs:  opts.DumpASTs,
		DryRun:    opts.DryRun,
		List:      opts.List,
		Stdout:    stdout,
		Stderr:    stderr,
		Logger:    logger,
	}
	if n, ok := opts.Opportunity(); ok {
		p.Opportunity = &n
	}
	return p.Run(ctx, sources)
}

// expandPaths replaces each directory with the translation units below it.
// Files are kept in order; a file named more than once, directly or through
// a directory, is kept only the first time.
func expandPaths(paths []string) ([]string, error) {
	var files []string
	seen := make(map[string]struct{})
	add := func(path string) error {
		abs, err := filepath.Abs(path)
		if err != nil {
			return fmt.Errorf("source path: %w", err)
		}
		if _, dup := seen[abs]; dup {
			return nil
		}
		seen[abs] = struct{}{}
		files = append(files, path)
		return nil
	}

	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return nil, fmt.Errorf("source path: %w", err)
		}
		if !info.IsDir() {
			if err := add(path); err != nil {
				return nil, err
			}
			continue
		}
		entries, err := discover.Files(path, nil)
		if err != nil {
			return nil, fmt.Errorf("discovering files: %w", err)
		}
		if len(entries) == 0 {
			return nil, fmt.Errorf("%s: no C or C++ sources found", path)
		}
		for _, e := range entries {
			if err := add(filepath.Join(path, e.Path)); err != nil {
				return nil, err
			}
		}
	}
	return files, nil
}
