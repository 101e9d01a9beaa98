// Package pass drives one reduction over a set of translation units: it
// either reports how many opportunities each unit has or applies one.
package pass

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/phobologic/cleanupreducer/internal/frontend"
	"github.com/phobologic/cleanupreducer/internal/index"
	"github.com/phobologic/cleanupreducer/internal/reduce"
	"github.com/phobologic/cleanupreducer/internal/rewrite"
	"github.com/phobologic/cleanupreducer/internal/toon"
)

// Pass is configured once and run over every unit of one invocation. Units
// share no state.
type Pass struct {
	Reduction reduce.Reduction
	// Opportunity selects the opportunity to apply. Nil means count mode.
	Opportunity *uint32
	DumpASTs    bool
	DryRun      bool
	List        bool
	Keyer       index.Keyer // nil means index.NameKeyer

	Stdout io.Writer // counts, listings and diffs
	Stderr io.Writer // tree dumps
	Logger *slog.Logger
}

// Run processes sources in order. A unit with syntax errors is skipped and
// does not fail the run. A unit whose opportunity cannot be applied is left
// untouched, the remaining units are still processed, and the failures are
// returned together.
func (p *Pass) Run(ctx context.Context, sources []*frontend.Source) error {
	var errs []error
	for _, src := range sources {
		if err := p.runUnit(ctx, src); err != nil {
			p.Logger.Error("Failed", "file", src.Path, "error", err)
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (p *Pass) runUnit(ctx context.Context, src *frontend.Source) error {
	p.Logger.Info("Processing", "file", src.Path)

	u, err := frontend.Parse(ctx, src)
	if err != nil {
		return err
	}
	defer u.Close()

	if u.HasErrors() {
		attrs := []any{"file", src.Path}
		if diags := u.Diagnostics(); len(diags) > 0 {
			attrs = append(attrs, "diagnostic", diags[0].String(), "count", len(diags))
		}
		p.Logger.Warn("Skipping due to errors", attrs...)
		return nil
	}

	if p.DumpASTs {
		if _, err := fmt.Fprintf(p.Stderr, "AST of %s:\n", src.Path); err != nil {
			return err
		}
		if err := u.Dump(p.Stderr); err != nil {
			return err
		}
	}

	ix := index.Build(u, p.Keyer)
	p.Logger.Debug("Indexed", "file", src.Path, "functions", ix.Len())

	switch {
	case p.List:
		_, err := fmt.Fprintln(p.Stdout, toon.Encode(src.Path, p.Reduction.Name(), p.Reduction.List(ix)))
		return err
	case p.Opportunity == nil:
		_, err := fmt.Fprintln(p.Stdout, p.Reduction.Count(ix))
		return err
	}

	n := *p.Opportunity
	edits := rewrite.New()
	edits.SetSource(src.Path, src.Text)
	target, err := p.Reduction.Apply(ix, n, edits)
	if err != nil {
		return fmt.Errorf("%s: opportunity %d: %w", src.Path, n, err)
	}

	if p.DryRun {
		return edits.Diff(p.Stdout, src.Path, src.Text)
	}
	pending := edits.Pending()
	if err := edits.Flush(); err != nil {
		return err
	}
	p.Logger.Info("Rewrote",
		"file", src.Path,
		"opportunity", n,
		"function", target.Function,
		"position", target.Position,
		"edits", pending,
	)
	return nil
}
