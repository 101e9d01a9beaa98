// Package reduce defines the reductions the pass can count and apply.
package reduce

import (
	"errors"
	"sort"

	"github.com/phobologic/cleanupreducer/internal/index"
	"github.com/phobologic/cleanupreducer/internal/model"
)

var (
	ErrOpportunityOutOfRange = errors.New("opportunity index out of range")
	ErrArityMismatch         = errors.New("declarations and calls disagree on parameter count")
	ErrNoSuchItem            = errors.New("no item at position")
)

// Edits receives the deletions a reduction wants made.
type Edits interface {
	Delete(path string, span model.Span)
}

// Reduction is one family of transformations. Opportunities are numbered
// from 0 to Count-1 and the numbering is a pure function of the index.
type Reduction interface {
	Name() string
	Count(ix *index.Index) uint32
	List(ix *index.Index) []model.Opportunity
	// Apply queues the edits for opportunity n. On error nothing is queued.
	Apply(ix *index.Index, n uint32, edits Edits) (model.Target, error)
}

var registry = map[string]Reduction{}

// Register makes r available under r.Name(). It panics on duplicates.
func Register(r Reduction) {
	if _, dup := registry[r.Name()]; dup {
		panic("reduce: duplicate reduction " + r.Name())
	}
	registry[r.Name()] = r
}

// Lookup returns the reduction registered as name.
func Lookup(name string) (Reduction, bool) {
	r, ok := registry[name]
	return r, ok
}

// Names returns the registered reduction names in sorted order.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
