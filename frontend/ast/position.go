package ast

import (
	"fmt"
	"go/token"
)

// Positioner allows finding the location in the original source file.
type Positioner interface {
	Pos() token.Pos // position of first character belonging to the node
	End() token.Pos // position of first character immediately after the node
}

// Range represents a range of positions in the source code.
type Range struct {
	PosStart token.Pos
	PosEnd   token.Pos
}

// Pos returns the starting position of the range.
func (r Range) Pos() token.Pos { return r.PosStart }

// End returns the ending position of the range.
func (r Range) End() token.Pos { return r.PosEnd }

// String returns a string representation of the range.
func (r Range) String() string {
	if r.PosStart == r.PosEnd {
		return fmt.Sprintf("%v", r.PosStart)
	}
	return fmt.Sprintf("%v-%v", r.PosStart, r.PosEnd)
}

// RangeBetween creates a Range between two Positioners.
func RangeBetween(fst, snd Positioner) Range {
	return Range{fst.Pos(), snd.End()}
}

// RangeOf creates a Range from a Positioner.
func RangeOf(expr Positioner) Range {
	if expr == nil {
		return Range{}
	}
	if asRange, ok := expr.(*Range); ok {
		return *asRange
	}
	if asRange, ok := expr.(Range); ok {
		return asRange
	}
	return Range{expr.Pos(), expr.End()}
}

// SourceLocation is a resolved Range, suitable for error messages.
type SourceLocation struct {
	File  string
	Start token.Position
	End   token.Position
}

func (l SourceLocation) String() string {
	if !l.Start.IsValid() {
		if l.File == "" {
			return "<unknown>"
		}
		return l.File
	}
	return fmt.Sprintf("%s:%d:%d-%d:%d", l.File, l.Start.Line, l.Start.Column, l.End.Line, l.End.Column)
}

// Locate resolves p against the token file of f.
func (f *File) Locate(p Positioner) SourceLocation {
	if f == nil || f.Tokens == nil || p == nil {
		return SourceLocation{}
	}
	loc := SourceLocation{File: f.Name}
	if p.Pos().IsValid() {
		loc.Start = f.Tokens.PositionFor(p.Pos(), false)
	}
	if p.End().IsValid() {
		loc.End = f.Tokens.PositionFor(p.End(), false)
	}
	return loc
}
