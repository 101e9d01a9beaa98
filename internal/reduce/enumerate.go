package reduce

import (
	"github.com/phobologic/cleanupreducer/internal/index"
	"github.com/phobologic/cleanupreducer/internal/model"
)

// walk visits every (group, position) pair in opportunity order, passing its
// global index. Groups come in Names order; a group contributes one pair per
// parameter of its first declaration. fn returns false to stop early.
func walk(ix *index.Index, fn func(n uint32, g *index.Group, pos int) bool) {
	var counter uint32
	for _, name := range ix.Names() {
		g := ix.Group(name)
		for pos := 0; pos < g.ParamCount(); pos++ {
			if !fn(counter, g, pos) {
				return
			}
			counter++
		}
	}
}

// CountOpportunities returns the number of parameter removals available.
func CountOpportunities(ix *index.Index) uint32 {
	var total uint32
	walk(ix, func(uint32, *index.Group, int) bool {
		total++
		return true
	})
	return total
}

// ResolveIndex maps opportunity n to the function and parameter it removes.
// It reports false when n >= CountOpportunities(ix).
func ResolveIndex(ix *index.Index, n uint32) (model.Target, bool) {
	var target model.Target
	found := false
	walk(ix, func(i uint32, g *index.Group, pos int) bool {
		if i != n {
			return true
		}
		target = model.Target{Function: g.Name, Position: pos}
		found = true
		return false
	})
	return target, found
}

// Opportunities lists every opportunity in index order.
func Opportunities(ix *index.Index) []model.Opportunity {
	var ops []model.Opportunity
	walk(ix, func(n uint32, g *index.Group, pos int) bool {
		ops = append(ops, model.Opportunity{
			Index:     n,
			Function:  g.Name,
			Position:  pos,
			Parameter: g.Decls[0].Params.Text(pos),
			Decls:     len(g.Decls),
			Calls:     len(g.Calls),
		})
		return true
	})
	return ops
}
