// Package driver repeatedly applies reductions to one source file, keeping
// every change an interestingness test accepts, until no reduction makes
// progress.
package driver

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/phobologic/cleanupreducer/internal/frontend"
	"github.com/phobologic/cleanupreducer/internal/index"
	"github.com/phobologic/cleanupreducer/internal/reduce"
	"github.com/phobologic/cleanupreducer/internal/rewrite"
)

// ErrNotInteresting is returned when the unreduced file already fails the
// interestingness test.
var ErrNotInteresting = errors.New("original file is not interesting")

// Driver runs reductions against one file.
type Driver struct {
	Reductions []reduce.Reduction
	Test       Tester
	Flags      frontend.Flags
	Logger     *slog.Logger
}

// Stats summarizes a run.
type Stats struct {
	Attempts int // candidates handed to the test
	Accepted int // candidates kept
}

// Run reduces the file at path in place. Within one reduction, opportunities
// are tried in index order and the first interesting one is kept; the count is
// then recomputed on the new text. The outer loop repeats over all reductions
// while any of them made progress.
func (d *Driver) Run(ctx context.Context, path string) (Stats, error) {
	var stats Stats

	src, err := frontend.Resolve(path, d.Flags)
	if err != nil {
		return stats, err
	}

	workdir, err := os.MkdirTemp("", "cleanupreducer-")
	if err != nil {
		return stats, fmt.Errorf("creating work directory: %w", err)
	}
	defer func() { _ = os.RemoveAll(workdir) }()
	candidate := filepath.Join(workdir, filepath.Base(path))

	ok, err := d.try(ctx, candidate, src.Text)
	if err != nil {
		return stats, err
	}
	if !ok {
		return stats, fmt.Errorf("%s: %w", path, ErrNotInteresting)
	}

	for progress := true; progress; {
		progress = false
		for _, r := range d.Reductions {
			for {
				took, err := d.step(ctx, r, src, candidate, &stats)
				if err != nil {
					return stats, err
				}
				if !took {
					break
				}
				progress = true
			}
		}
	}

	d.Logger.Info("Reduced", "file", path, "attempts", stats.Attempts, "accepted", stats.Accepted)
	return stats, nil
}

// step tries the opportunities of r on src in order and keeps the first
// interesting one, updating both the file on disk and src.Text.
func (d *Driver) step(ctx context.Context, r reduce.Reduction, src *frontend.Source, candidate string, stats *Stats) (bool, error) {
	u, err := frontend.Parse(ctx, src)
	if err != nil {
		return false, err
	}
	defer u.Close()

	if u.HasErrors() {
		d.Logger.Warn("Skipping due to errors", "file", src.Path, "reduction", r.Name())
		return false, nil
	}

	ix := index.Build(u, nil)
	count := r.Count(ix)
	d.Logger.Debug("Counted", "file", src.Path, "reduction", r.Name(), "opportunities", count)

	for n := uint32(0); n < count; n++ {
		if err := ctx.Err(); err != nil {
			return false, err
		}

		edits := rewrite.New()
		edits.SetSource(src.Path, src.Text)
		target, err := r.Apply(ix, n, edits)
		if err != nil {
			d.Logger.Debug("Cannot take opportunity", "reduction", r.Name(), "opportunity", n, "error", err)
			continue
		}
		text, err := edits.Apply(src.Path, src.Text)
		if err != nil {
			d.Logger.Debug("Cannot take opportunity", "reduction", r.Name(), "opportunity", n, "error", err)
			continue
		}

		stats.Attempts++
		ok, err := d.try(ctx, candidate, text)
		if err != nil {
			return false, err
		}
		if !ok {
			continue
		}

		if err := edits.Flush(); err != nil {
			return false, err
		}
		src.Text = text
		stats.Accepted++
		d.Logger.Info("Accepted",
			"reduction", r.Name(),
			"opportunity", n,
			"function", target.Function,
			"position", target.Position,
			"bytes", len(text),
		)
		return true, nil
	}
	return false, nil
}

func (d *Driver) try(ctx context.Context, candidate string, text []byte) (bool, error) {
	if err := os.WriteFile(candidate, text, 0o644); err != nil {
		return false, fmt.Errorf("writing candidate: %w", err)
	}
	return d.Test.Interesting(ctx, candidate)
}
