package index

import (
	"strings"
	"unicode"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/phobologic/cleanupreducer/internal/frontend"
)

// Keyer decides which declarations and calls refer to the same function.
type Keyer interface {
	Key(u *frontend.Unit, name *sitter.Node) string
}

// NameKeyer keys by unqualified spelling: "ns::f", "obj.f" and "f<int>" all
// key as "f". Distinct functions that share a spelling share a group.
type NameKeyer struct{}

// Key implements Keyer.
func (NameKeyer) Key(u *frontend.Unit, name *sitter.Node) string {
	for {
		switch name.Type() {
		case "qualified_identifier", "template_function", "template_method":
			next := name.ChildByFieldName("name")
			if next == nil {
				return spell(u.Text(name))
			}
			name = next
		default:
			return spell(u.Text(name))
		}
	}
}

// spell normalizes whitespace so "operator ()" and "operator()" agree while
// "operator new" keeps its separating space.
func spell(text string) string {
	fields := strings.Fields(text)
	var b strings.Builder
	for i, f := range fields {
		if i > 0 && isWordEnd(fields[i-1]) && isWordStart(f) {
			b.WriteByte(' ')
		}
		b.WriteString(f)
	}
	return b.String()
}

func isWordEnd(s string) bool {
	r := rune(s[len(s)-1])
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

func isWordStart(s string) bool {
	r := rune(s[0])
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}
