package rewrite

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/sergi/go-diff/diffmatchpatch"
)

var (
	hunkColor   = color.New(color.FgCyan)
	deleteColor = color.New(color.FgRed)
	insertColor = color.New(color.FgGreen)
)

// Diff writes a line diff of what Flush would do to path, given its current
// contents src. Colors are used only when color output is enabled.
func (b *Buffer) Diff(w io.Writer, path string, src []byte) error {
	data, err := b.Apply(path, src)
	if err != nil {
		return err
	}

	dmp := diffmatchpatch.New()
	oldChars, newChars, lines := dmp.DiffLinesToChars(string(src), string(data))
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(oldChars, newChars, false), lines)

	if _, err := fmt.Fprintf(w, "--- %s\n+++ %s\n", path, path); err != nil {
		return err
	}
	line := 1
	inHunk := false
	for _, d := range diffs {
		text := splitLines(d.Text)
		switch d.Type {
		case diffmatchpatch.DiffEqual:
			line += len(text)
			inHunk = false
			continue
		case diffmatchpatch.DiffDelete:
			if !inHunk {
				if _, err := hunkColor.Fprintf(w, "@@ line %d @@\n", line); err != nil {
					return err
				}
				inHunk = true
			}
			for _, l := range text {
				if _, err := deleteColor.Fprintln(w, "-"+l); err != nil {
					return err
				}
			}
			line += len(text)
		case diffmatchpatch.DiffInsert:
			if !inHunk {
				if _, err := hunkColor.Fprintf(w, "@@ line %d @@\n", line); err != nil {
					return err
				}
				inHunk = true
			}
			for _, l := range text {
				if _, err := insertColor.Fprintln(w, "+"+l); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

func splitLines(text string) []string {
	if text == "" {
		return nil
	}
	return strings.Split(strings.TrimSuffix(text, "\n"), "\n")
}
