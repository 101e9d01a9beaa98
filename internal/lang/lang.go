// Package lang provides a language registry mapping file extensions and
// compiler -x values to tree-sitter grammars for C and C++.
package lang

import (
	"sort"
	"strings"
	"sync"

	sitter "github.com/smacker/go-tree-sitter"
)

// Language holds tree-sitter configuration for a supported language.
type Language struct {
	Name string
	// Extensions of translation units (files compiled on their own).
	Extensions []string
	// HeaderExtensions are recognized but never treated as translation units
	// during directory discovery.
	HeaderExtensions []string
	// XValues are the values of the compiler's -x flag selecting this language.
	XValues []string
	lang    *sitter.Language

	// NameTypes are the node types that spell the name of a declared function
	// or of a directly called one.
	NameTypes map[string]bool

	// MemberCalls reports whether obj.f(x) and p->f(x) resolve to a declared
	// function. In C they call through a function-pointer field and are
	// indirect.
	MemberCalls bool
}

// GetLanguage returns the tree-sitter Language pointer.
func (l *Language) GetLanguage() *sitter.Language {
	return l.lang
}

// NewParser creates a fresh tree-sitter parser for this language.
// Each goroutine must use its own parser (not thread-safe).
func (l *Language) NewParser() *sitter.Parser {
	p := sitter.NewParser()
	p.SetLanguage(l.lang)
	return p
}

// IsHeader reports whether ext is one of the language's header extensions.
func (l *Language) IsHeader(ext string) bool {
	for _, h := range l.HeaderExtensions {
		if h == ext {
			return true
		}
	}
	return false
}

// Languages maps language names to their configuration.
// Populated by init() functions in per-language files.
var Languages = map[string]*Language{}

// extensionMap and xMap are built lazily after all init() functions have run.
var (
	extensionMap map[string]string
	xMap         map[string]string
	mapsOnce     sync.Once
)

func buildMaps() {
	mapsOnce.Do(func() {
		extensionMap = make(map[string]string)
		xMap = make(map[string]string)
		for _, l := range Languages {
			for _, ext := range l.Extensions {
				extensionMap[ext] = l.Name
			}
			for _, ext := range l.HeaderExtensions {
				extensionMap[ext] = l.Name
			}
			for _, x := range l.XValues {
				xMap[x] = l.Name
			}
		}
	})
}

// ForExtension returns the language name for a file extension, or "" if unsupported.
// Matching is case-sensitive: ".C" is C++, ".c" is C.
func ForExtension(ext string) string {
	buildMaps()
	return extensionMap[ext]
}

// ForFlag returns the language name selected by a compiler -x value, or "".
func ForFlag(x string) string {
	buildMaps()
	return xMap[strings.TrimSpace(x)]
}

// Names returns the registered language names in sorted order.
func Names() []string {
	names := make([]string, 0, len(Languages))
	for name := range Languages {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// NodeText returns the source text of a tree-sitter node.
func NodeText(node *sitter.Node, source []byte) string {
	return string(source[node.StartByte():node.EndByte()])
}
