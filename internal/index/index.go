// Package index groups the function declarations and direct calls of a
// translation unit by the function they declare or call.
package index

import (
	"sort"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/phobologic/cleanupreducer/internal/frontend"
)

// Decl is one function declaration or definition.
type Decl struct {
	Node   *sitter.Node // the function_declarator
	Params ParamList
}

// Call is one direct call expression.
type Call struct {
	Node *sitter.Node // the call_expression
	Args ArgList
}

// Group collects everything sharing one key. Decls and Calls keep the
// order in which the walk met them; Decls[0] fixes the parameter count.
type Group struct {
	Name  string
	Decls []*Decl
	Calls []*Call
}

// ParamCount returns the parameter count of the first declaration, or 0 if
// the name is only ever called.
func (g *Group) ParamCount() int {
	if len(g.Decls) == 0 {
		return 0
	}
	return g.Decls[0].Params.Len()
}

// Index is the result of indexing one translation unit.
type Index struct {
	Unit   *frontend.Unit
	groups map[string]*Group
}

// Group returns the group for key, or nil.
func (ix *Index) Group(key string) *Group {
	return ix.groups[key]
}

// Names returns every key in byte-wise lexicographic order. Opportunity
// numbering walks groups in exactly this order.
func (ix *Index) Names() []string {
	names := make([]string, 0, len(ix.groups))
	for name := range ix.groups {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of groups.
func (ix *Index) Len() int {
	return len(ix.groups)
}

func (ix *Index) group(key string) *Group {
	g, ok := ix.groups[key]
	if !ok {
		g = &Group{Name: key}
		ix.groups[key] = g
	}
	return g
}

// Build walks u once, in post-order, and indexes every function declaration
// and direct call found in the primary file. A nil keyer means NameKeyer.
func Build(u *frontend.Unit, keyer Keyer) *Index {
	if keyer == nil {
		keyer = NameKeyer{}
	}
	ix := &Index{Unit: u, groups: make(map[string]*Group)}
	postOrder(u.Root(), func(n *sitter.Node) {
		switch n.Type() {
		case "function_declarator":
			ix.visitDeclarator(u, keyer, n)
		case "call_expression":
			ix.visitCall(u, keyer, n)
		}
	})
	return ix
}

func (ix *Index) visitDeclarator(u *frontend.Unit, keyer Keyer, n *sitter.Node) {
	if !u.InPrimaryFile(n) || !declaresFunction(n) {
		return
	}
	name := declaratorName(u, n)
	if name == nil {
		return
	}
	params := n.ChildByFieldName("parameters")
	if params == nil {
		return
	}
	g := ix.group(keyer.Key(u, name))
	g.Decls = append(g.Decls, &Decl{Node: n, Params: newParamList(u, params)})
}

func (ix *Index) visitCall(u *frontend.Unit, keyer Keyer, n *sitter.Node) {
	if !u.InPrimaryFile(n) {
		return
	}
	name := calleeName(u, n.ChildByFieldName("function"))
	if name == nil || callsVariable(u, n, name) {
		return
	}
	args := n.ChildByFieldName("arguments")
	if args == nil || args.Type() != "argument_list" {
		return
	}
	g := ix.group(keyer.Key(u, name))
	g.Calls = append(g.Calls, &Call{Node: n, Args: newArgList(u, args)})
}

func postOrder(n *sitter.Node, visit func(*sitter.Node)) {
	for i := 0; i < int(n.NamedChildCount()); i++ {
		postOrder(n.NamedChild(i), visit)
	}
	visit(n)
}
