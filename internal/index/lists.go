package index

import (
	sitter "github.com/smacker/go-tree-sitter"

	"github.com/phobologic/cleanupreducer/internal/frontend"
	"github.com/phobologic/cleanupreducer/internal/model"
)

// parameterTypes are the parameter_list children that count as parameters.
// The C variadic marker "..." is not one.
var parameterTypes = map[string]bool{
	"parameter_declaration":          true,
	"optional_parameter_declaration": true,
	"variadic_parameter_declaration": true,
}

// ParamList is the ordered parameters of one declaration.
type ParamList struct {
	unit  *frontend.Unit
	items []*sitter.Node
}

func newParamList(u *frontend.Unit, list *sitter.Node) ParamList {
	var items []*sitter.Node
	for i := 0; i < int(list.NamedChildCount()); i++ {
		c := list.NamedChild(i)
		if parameterTypes[c.Type()] {
			items = append(items, c)
		}
	}
	if len(items) == 1 && isVoidParam(u, items[0]) {
		items = nil
	}
	return ParamList{unit: u, items: items}
}

// isVoidParam matches the "(void)" of a prototype taking no arguments.
func isVoidParam(u *frontend.Unit, p *sitter.Node) bool {
	if p.Type() != "parameter_declaration" || p.ChildByFieldName("declarator") != nil {
		return false
	}
	t := p.ChildByFieldName("type")
	return t != nil && u.Text(t) == "void" && p.NamedChildCount() == 1
}

// Len returns the number of parameters.
func (l ParamList) Len() int { return len(l.items) }

// Span returns the byte range of parameter i.
func (l ParamList) Span(i int) model.Span { return l.unit.Span(l.items[i]) }

// Text returns the source text of parameter i.
func (l ParamList) Text(i int) string { return l.unit.Text(l.items[i]) }

// HasDefault reports whether parameter i carries a default argument.
func (l ParamList) HasDefault(i int) bool {
	return l.items[i].Type() == "optional_parameter_declaration"
}

// ArgList is the ordered arguments of one call.
type ArgList struct {
	unit  *frontend.Unit
	items []*sitter.Node
}

func newArgList(u *frontend.Unit, list *sitter.Node) ArgList {
	var items []*sitter.Node
	for i := 0; i < int(list.NamedChildCount()); i++ {
		c := list.NamedChild(i)
		if c.Type() != "comment" {
			items = append(items, c)
		}
	}
	return ArgList{unit: u, items: items}
}

// Len returns the number of arguments.
func (l ArgList) Len() int { return len(l.items) }

// Span returns the byte range of argument i.
func (l ArgList) Span(i int) model.Span { return l.unit.Span(l.items[i]) }

// Text returns the source text of argument i.
func (l ArgList) Text(i int) string { return l.unit.Text(l.items[i]) }
