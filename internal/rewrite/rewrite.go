// Package rewrite accumulates deletions per file and writes them out in a
// single all-or-nothing flush.
package rewrite

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/phobologic/cleanupreducer/internal/model"
)

var (
	ErrOverlappingEdits = errors.New("overlapping edits")
	ErrOutOfBounds      = errors.New("edit outside file")
	ErrStaleSource      = errors.New("file changed since its edits were computed")
)

// Buffer holds pending deletions keyed by file path. The zero value is not
// usable; call New.
type Buffer struct {
	edits   map[string][]model.Span
	sources map[string][]byte
}

// New returns an empty Buffer.
func New() *Buffer {
	return &Buffer{edits: make(map[string][]model.Span), sources: make(map[string][]byte)}
}

// SetSource records the text the spans queued for path were computed
// against. Flush refuses to touch path if the file no longer holds src.
func (b *Buffer) SetSource(path string, src []byte) {
	b.sources[path] = src
}

// Delete queues the removal of span from path. Nothing is written until Flush.
func (b *Buffer) Delete(path string, span model.Span) {
	b.edits[path] = append(b.edits[path], span)
}

// Pending returns the number of queued deletions across all files.
func (b *Buffer) Pending() int {
	n := 0
	for _, spans := range b.edits {
		n += len(spans)
	}
	return n
}

// Files returns the paths with queued deletions, sorted.
func (b *Buffer) Files() []string {
	paths := make([]string, 0, len(b.edits))
	for path := range b.edits {
		paths = append(paths, path)
	}
	sort.Strings(paths)
	return paths
}

// Reset drops every queued deletion.
func (b *Buffer) Reset() {
	b.edits = make(map[string][]model.Span)
	b.sources = make(map[string][]byte)
}

// normalize sorts spans and folds duplicates and spans nested in another
// (a call nested in an argument of a call being removed). Partial overlap
// is an error.
func normalize(spans []model.Span, size int) ([]model.Span, error) {
	sorted := append([]model.Span(nil), spans...)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Start != sorted[j].Start {
			return sorted[i].Start < sorted[j].Start
		}
		return sorted[i].End > sorted[j].End
	})

	var out []model.Span
	for _, s := range sorted {
		if s.End < s.Start || int(s.End) > size {
			return nil, fmt.Errorf("%w: %s in %d bytes", ErrOutOfBounds, s, size)
		}
		if s.Len() == 0 {
			continue
		}
		if len(out) > 0 {
			last := out[len(out)-1]
			if last.Contains(s) {
				continue
			}
			if last.Overlaps(s) {
				return nil, fmt.Errorf("%w: %s and %s", ErrOverlappingEdits, last, s)
			}
		}
		out = append(out, s)
	}
	return out, nil
}

// Apply returns src with the deletions queued for path applied. src is not
// modified.
func (b *Buffer) Apply(path string, src []byte) ([]byte, error) {
	spans, err := normalize(b.edits[path], len(src))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	out := make([]byte, 0, len(src))
	var prev uint32
	for _, s := range spans {
		out = append(out, src[prev:s.Start]...)
		prev = s.End
	}
	return append(out, src[prev:]...), nil
}

// Flush applies every queued deletion and overwrites each affected file once.
// All files are read and checked before the first write, so a bad edit or a
// stale file leaves every file untouched. The buffer is empty afterwards.
func (b *Buffer) Flush() error {
	if len(b.edits) == 0 {
		return nil
	}

	type output struct {
		path string
		data []byte
		mode os.FileMode
	}
	var outputs []output
	for _, path := range b.Files() {
		info, err := os.Stat(path)
		if err != nil {
			return fmt.Errorf("stat %s: %w", path, err)
		}
		src, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("reading %s: %w", path, err)
		}
		if want, ok := b.sources[path]; ok && !bytes.Equal(src, want) {
			return fmt.Errorf("%s: %w", path, ErrStaleSource)
		}
		data, err := b.Apply(path, src)
		if err != nil {
			return err
		}
		outputs = append(outputs, output{path: path, data: data, mode: info.Mode().Perm()})
	}

	for _, o := range outputs {
		if err := writeFileAtomic(o.path, o.data, o.mode); err != nil {
			return err
		}
	}
	b.Reset()
	return nil
}

// writeFileAtomic replaces path with data via a temporary file in the same
// directory, so readers see either the old or the new contents.
func writeFileAtomic(path string, data []byte, mode os.FileMode) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	if err := tmp.Chmod(mode); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
