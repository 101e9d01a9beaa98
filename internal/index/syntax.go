package index

import (
	sitter "github.com/smacker/go-tree-sitter"

	"github.com/phobologic/cleanupreducer/internal/frontend"
)

// declaratorWrappers may sit between a function_declarator and the
// declaration that owns it, e.g. the pointer in "int *f(int)".
var declaratorWrappers = map[string]bool{
	"pointer_declarator":       true,
	"reference_declarator":     true,
	"parenthesized_declarator": true,
	"attributed_declarator":    true,
	"array_declarator":         true,
	"function_declarator":      true,
}

// declarationOwners declare functions when they own a function_declarator.
// A type_definition or parameter_declaration never declares a function.
var declarationOwners = map[string]bool{
	"function_definition": true,
	"declaration":         true,
	"field_declaration":   true,
	"friend_declaration":  true,
}

// declaresFunction reports whether fd declares a function rather than a
// function pointer, a function typedef or a parameter of function type.
func declaresFunction(fd *sitter.Node) bool {
	p := fd.Parent()
	for p != nil && declaratorWrappers[p.Type()] {
		p = p.Parent()
	}
	return p != nil && declarationOwners[p.Type()]
}

// declaratorName returns the name node of fd, or nil when fd's declarator is
// not a plain name ("int (*fp)(int)").
func declaratorName(u *frontend.Unit, fd *sitter.Node) *sitter.Node {
	d := fd.ChildByFieldName("declarator")
	for d != nil && d.Type() == "parenthesized_declarator" && d.NamedChildCount() == 1 {
		d = d.NamedChild(0)
	}
	if d == nil || !u.Lang.NameTypes[d.Type()] {
		return nil
	}
	return d
}

// calleeName returns the name node of a directly called function, or nil for
// calls through an expression. In C++ member calls are direct.
func calleeName(u *frontend.Unit, fn *sitter.Node) *sitter.Node {
	for fn != nil && fn.Type() == "parenthesized_expression" && fn.NamedChildCount() == 1 {
		fn = fn.NamedChild(0)
	}
	if fn == nil {
		return nil
	}
	if fn.Type() == "field_expression" {
		if !u.Lang.MemberCalls {
			return nil
		}
		fn = fn.ChildByFieldName("field")
		if fn == nil {
			return nil
		}
	}
	if !u.Lang.NameTypes[fn.Type()] {
		return nil
	}
	return fn
}

// callsVariable reports whether the plain identifier callee of call names a
// variable or parameter visible from the call, such as a function pointer.
// Such calls are indirect even though they are spelled like direct ones.
func callsVariable(u *frontend.Unit, call, callee *sitter.Node) bool {
	if callee.Type() != "identifier" {
		return false
	}
	name := u.Text(callee)
	for p := call.Parent(); p != nil; p = p.Parent() {
		switch p.Type() {
		case "compound_statement", "translation_unit", "for_statement":
			for i := 0; i < int(p.NamedChildCount()); i++ {
				c := p.NamedChild(i)
				if c.Type() == "declaration" && declaresVariable(u, c, name) {
					return true
				}
			}
		case "function_definition":
			if fd := p.ChildByFieldName("declarator"); fd != nil && hasParameter(u, fd, name) {
				return true
			}
		}
	}
	return false
}

// declaresVariable reports whether decl declares name as anything other than
// a function.
func declaresVariable(u *frontend.Unit, decl *sitter.Node, name string) bool {
	for i := 0; i < int(decl.NamedChildCount()); i++ {
		d := decl.NamedChild(i)
		if d.Type() == "init_declarator" {
			d = d.ChildByFieldName("declarator")
		}
		if d == nil {
			continue
		}
		id, wrapper := declaredName(d)
		if id != nil && u.Text(id) == name && wrapper != "function_declarator" {
			return true
		}
	}
	return false
}

// hasParameter reports whether the function declarator under d has a
// parameter called name. Parameters of function type are pointers too.
func hasParameter(u *frontend.Unit, d *sitter.Node, name string) bool {
	for d != nil && d.Type() != "function_declarator" {
		d = innerDeclarator(d)
	}
	if d == nil {
		return false
	}
	params := d.ChildByFieldName("parameters")
	if params == nil {
		return false
	}
	for i := 0; i < int(params.NamedChildCount()); i++ {
		p := params.NamedChild(i)
		if !parameterTypes[p.Type()] {
			continue
		}
		if id, _ := declaredName(p.ChildByFieldName("declarator")); id != nil && u.Text(id) == name {
			return true
		}
	}
	return false
}

// declaredName follows d down to the identifier it declares and returns it
// with the type of the nearest enclosing declarator that is not a pair of
// parentheses ("" when d is the identifier itself).
func declaredName(d *sitter.Node) (*sitter.Node, string) {
	wrapper := ""
	for d != nil {
		switch {
		case d.Type() == "identifier":
			return d, wrapper
		case !declaratorWrappers[d.Type()]:
			return nil, ""
		case d.Type() != "parenthesized_declarator":
			wrapper = d.Type()
		}
		d = innerDeclarator(d)
	}
	return nil, ""
}

func innerDeclarator(d *sitter.Node) *sitter.Node {
	if inner := d.ChildByFieldName("declarator"); inner != nil {
		return inner
	}
	if d.NamedChildCount() > 0 {
		return d.NamedChild(0)
	}
	return nil
}
