package reduce

import (
	"bytes"
	"fmt"

	"github.com/phobologic/cleanupreducer/internal/model"
)

// SiblingList is an ordered list of comma-separated items with known source
// ranges: a parameter list or an argument list.
type SiblingList interface {
	Len() int
	Span(i int) model.Span
}

// DeleteRange computes the bytes to delete to remove item i of list from src
// so the list stays well formed.
//
// The first item goes together with the comma after it (and the blanks that
// follow that comma): "f(a, b)" -> "f(b)". Any other item goes together with
// the comma before it: "f(a, b)" -> "f(a)".
func DeleteRange(src []byte, list SiblingList, i int) (model.Span, error) {
	if i < 0 || i >= list.Len() {
		return model.Span{}, fmt.Errorf("%w %d of %d", ErrNoSuchItem, i, list.Len())
	}
	if i == 0 {
		item := list.Span(0)
		end := item.End
		if comma, ok := nextComma(src, item.End); ok {
			end = skipBlanks(src, comma+1)
		}
		return model.Span{Start: item.Start, End: end}, nil
	}
	prev := list.Span(i - 1)
	start := prev.End
	if comma, ok := nextComma(src, prev.End); ok {
		start = comma
	}
	return model.Span{Start: start, End: list.Span(i).End}, nil
}

// RemoveParameter queues the deletion of item i of list, which lives in src
// at path.
func RemoveParameter(edits Edits, path string, src []byte, list SiblingList, i int) error {
	span, err := DeleteRange(src, list, i)
	if err != nil {
		return err
	}
	edits.Delete(path, span)
	return nil
}

// nextComma returns the offset of the comma that follows end, if the next
// token after end is one. Whitespace and comments are not tokens.
func nextComma(src []byte, end uint32) (uint32, bool) {
	i := skipTrivia(src, int(end))
	if i < len(src) && src[i] == ',' {
		return uint32(i), true
	}
	return 0, false
}

func skipTrivia(src []byte, i int) int {
	for i < len(src) {
		switch {
		case isSpace(src[i]):
			i++
		case bytes.HasPrefix(src[i:], []byte("/*")):
			j := bytes.Index(src[i+2:], []byte("*/"))
			if j < 0 {
				return len(src)
			}
			i += 2 + j + 2
		case bytes.HasPrefix(src[i:], []byte("//")):
			for i < len(src) && src[i] != '\n' {
				i++
			}
		default:
			return i
		}
	}
	return i
}

// skipBlanks skips spaces and tabs but not line breaks.
func skipBlanks(src []byte, end uint32) uint32 {
	i := int(end)
	for i < len(src) && (src[i] == ' ' || src[i] == '\t') {
		i++
	}
	return uint32(i)
}

func isSpace(b byte) bool {
	switch b {
	case ' ', '\t', '\n', '\r', '\v', '\f':
		return true
	}
	return false
}
