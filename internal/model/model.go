// Package model defines core data structures for cleanupreducer.
package model

import "fmt"

// Span is a half-open byte range [Start, End) in a source buffer.
type Span struct {
	Start uint32
	End   uint32
}

// Len returns the number of bytes covered by the span.
func (s Span) Len() uint32 {
	if s.End < s.Start {
		return 0
	}
	return s.End - s.Start
}

// Contains reports whether o lies entirely inside s.
func (s Span) Contains(o Span) bool {
	return s.Start <= o.Start && o.End <= s.End
}

// Overlaps reports whether s and o share at least one byte.
func (s Span) Overlaps(o Span) bool {
	return s.Start < o.End && o.Start < s.End
}

func (s Span) String() string {
	return fmt.Sprintf("[%d,%d)", s.Start, s.End)
}

// Target identifies one opportunity: the parameter at Position of every
// function keyed by Function.
type Target struct {
	Function string
	Position int
}

// Opportunity is a Target together with its global index and enough context
// to describe it to a human.
type Opportunity struct {
	Index     uint32
	Function  string
	Position  int
	Parameter string // source text of the parameter in the first declaration
	Decls     int
	Calls     int
}

// Diagnostic is a syntax error reported by the front end.
type Diagnostic struct {
	Line    int // 1-based
	Column  int // 1-based
	Message string
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%d:%d: %s", d.Line, d.Column, d.Message)
}
