// Package frontend loads C and C++ translation units with tree-sitter and
// reports their syntax diagnostics.
package frontend

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/phobologic/cleanupreducer/internal/lang"
	"github.com/phobologic/cleanupreducer/internal/model"
)

var (
	ErrUnknownLanguage = errors.New("cannot determine source language")
	ErrBadFlags        = errors.New("invalid compiler flags")
	ErrParse           = errors.New("parser produced no tree")
)

// Flags holds the compiler flags given after "--". Only -x changes how a
// source is parsed; everything else is accepted and ignored.
type Flags struct {
	Language string // name from the lang registry, "" means by extension
	Args     []string
}

// ParseFlags interprets compiler flags. It accepts both "-x c++" and "-xc++".
func ParseFlags(args []string) (Flags, error) {
	f := Flags{Args: args}
	for i := 0; i < len(args); i++ {
		var x string
		switch {
		case args[i] == "-x":
			if i+1 >= len(args) {
				return Flags{}, fmt.Errorf("%w: -x requires a language", ErrBadFlags)
			}
			i++
			x = args[i]
		case strings.HasPrefix(args[i], "-x"):
			x = strings.TrimPrefix(args[i], "-x")
		default:
			continue
		}
		name := lang.ForFlag(x)
		if name == "" {
			return Flags{}, fmt.Errorf("%w: unsupported language %q for -x (supported: %s)", ErrBadFlags, x, strings.Join(xValues(), ", "))
		}
		f.Language = name
	}
	return f, nil
}

// xValues lists the accepted -x values, grouped by language.
func xValues() []string {
	var values []string
	for _, name := range lang.Names() {
		values = append(values, lang.Languages[name].XValues...)
	}
	return values
}

// Source is a translation unit that has been located and read but not parsed.
type Source struct {
	Path string
	Lang *lang.Language
	Text []byte
}

// Resolve reads path and picks the language it is parsed as.
func Resolve(path string, flags Flags) (*Source, error) {
	name := flags.Language
	if name == "" {
		name = lang.ForExtension(filepath.Ext(path))
	}
	if name == "" {
		return nil, fmt.Errorf("%s: %w (pass -x c or -x c++ after --)", path, ErrUnknownLanguage)
	}
	text, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading source: %w", err)
	}
	return &Source{Path: path, Lang: lang.Languages[name], Text: text}, nil
}

// Unit is a parsed translation unit. The tree is only valid until Close.
type Unit struct {
	Path   string
	Lang   *lang.Language
	Source []byte
	tree   *sitter.Tree
}

// Parse parses src. Syntax errors do not fail the parse; they are reported
// by Diagnostics.
func Parse(ctx context.Context, src *Source) (*Unit, error) {
	parser := src.Lang.NewParser()
	defer parser.Close()

	tree, err := parser.ParseCtx(ctx, nil, src.Text)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", src.Path, err)
	}
	if tree == nil {
		return nil, fmt.Errorf("%s: %w", src.Path, ErrParse)
	}
	return &Unit{Path: src.Path, Lang: src.Lang, Source: src.Text, tree: tree}, nil
}

// Close releases the syntax tree.
func (u *Unit) Close() {
	if u.tree != nil {
		u.tree.Close()
		u.tree = nil
	}
}

// Root returns the translation unit node.
func (u *Unit) Root() *sitter.Node {
	return u.tree.RootNode()
}

// Text returns the source text of n.
func (u *Unit) Text(n *sitter.Node) string {
	return lang.NodeText(n, u.Source)
}

// Span returns the byte range of n.
func (u *Unit) Span(n *sitter.Node) model.Span {
	return model.Span{Start: n.StartByte(), End: n.EndByte()}
}

// InPrimaryFile reports whether n has a real, non-empty extent inside the
// parsed buffer. Only the primary file is ever parsed, so this rejects the
// zero-width nodes the parser invents during error recovery.
func (u *Unit) InPrimaryFile(n *sitter.Node) bool {
	if n == nil || n.IsMissing() {
		return false
	}
	return n.StartByte() < n.EndByte() && int(n.EndByte()) <= len(u.Source)
}

// HasErrors reports whether the parser had to recover from a syntax error.
func (u *Unit) HasErrors() bool {
	return u.Root().HasError()
}

// Diagnostics lists the syntax errors in the unit in source order.
func (u *Unit) Diagnostics() []model.Diagnostic {
	var diags []model.Diagnostic
	var visit func(n *sitter.Node)
	visit = func(n *sitter.Node) {
		switch {
		case n.IsMissing():
			diags = append(diags, diagnosticAt(n, fmt.Sprintf("missing %q", n.Type())))
			return
		case n.Type() == "ERROR":
			diags = append(diags, diagnosticAt(n, "syntax error"))
			return
		}
		if !n.HasError() {
			return
		}
		for i := 0; i < int(n.ChildCount()); i++ {
			visit(n.Child(i))
		}
	}
	visit(u.Root())
	return diags
}

func diagnosticAt(n *sitter.Node, msg string) model.Diagnostic {
	p := n.StartPoint()
	return model.Diagnostic{Line: int(p.Row) + 1, Column: int(p.Column) + 1, Message: msg}
}

// Dump writes the named nodes of the tree, one per line, indented by depth.
// Leaves are followed by their source text.
func (u *Unit) Dump(w io.Writer) error {
	var err error
	var visit func(n *sitter.Node, depth int)
	visit = func(n *sitter.Node, depth int) {
		if err != nil {
			return
		}
		start, end := n.StartPoint(), n.EndPoint()
		line := fmt.Sprintf("%s%s <%d:%d-%d:%d>", strings.Repeat("  ", depth), n.Type(),
			start.Row+1, start.Column+1, end.Row+1, end.Column+1)
		if n.NamedChildCount() == 0 {
			line += " " + strings.Join(strings.Fields(u.Text(n)), " ")
		}
		if _, err = fmt.Fprintln(w, line); err != nil {
			return
		}
		for i := 0; i < int(n.NamedChildCount()); i++ {
			visit(n.NamedChild(i), depth+1)
		}
	}
	visit(u.Root(), 0)
	return err
}
