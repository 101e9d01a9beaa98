package reduce

import (
	"fmt"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/phobologic/cleanupreducer/internal/index"
	"github.com/phobologic/cleanupreducer/internal/model"
)

// RemoveParamName is the reduction-type value selecting RemoveParam.
const RemoveParamName = "removeparam"

func init() {
	Register(RemoveParam{})
}

// RemoveParam removes one parameter from every declaration of a function and
// the matching argument from every call to it.
type RemoveParam struct{}

// Name implements Reduction.
func (RemoveParam) Name() string { return RemoveParamName }

// Count implements Reduction.
func (RemoveParam) Count(ix *index.Index) uint32 { return CountOpportunities(ix) }

// List implements Reduction.
func (RemoveParam) List(ix *index.Index) []model.Opportunity { return Opportunities(ix) }

// Apply implements Reduction. Every declaration in the group must have the
// same parameter count as the first, and every call must supply the argument
// unless the first declaration gives it a default.
func (RemoveParam) Apply(ix *index.Index, n uint32, edits Edits) (model.Target, error) {
	target, ok := ResolveIndex(ix, n)
	if !ok {
		return model.Target{}, fmt.Errorf("%w: %d (unit has %d)", ErrOpportunityOutOfRange, n, CountOpportunities(ix))
	}

	u := ix.Unit
	g := ix.Group(target.Function)
	want := g.ParamCount()
	pos := target.Position

	var calls []*index.Call
	for _, d := range g.Decls {
		if d.Params.Len() != want {
			return target, fmt.Errorf("%w: %s at %s has %d parameters, first declaration has %d",
				ErrArityMismatch, g.Name, location(d.Node), d.Params.Len(), want)
		}
	}
	for _, c := range g.Calls {
		if c.Args.Len() <= pos {
			if g.Decls[0].Params.HasDefault(pos) {
				continue
			}
			return target, fmt.Errorf("%w: call to %s at %s passes %d arguments, parameter %d is required",
				ErrArityMismatch, g.Name, location(c.Node), c.Args.Len(), pos)
		}
		calls = append(calls, c)
	}

	for _, d := range g.Decls {
		if err := RemoveParameter(edits, u.Path, u.Source, d.Params, pos); err != nil {
			return target, err
		}
	}
	for _, c := range calls {
		if err := RemoveParameter(edits, u.Path, u.Source, c.Args, pos); err != nil {
			return target, err
		}
	}
	return target, nil
}

func location(n *sitter.Node) string {
	p := n.StartPoint()
	return fmt.Sprintf("%d:%d", p.Row+1, p.Column+1)
}
