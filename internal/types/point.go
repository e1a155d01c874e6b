// Package types holds small value types shared across the composer.
package types

import "fmt"

// Point is a cell position in document coordinates.
// Y is the layout line, X the cell column on that line.
type Point struct {
	X int
	Y int
}

func (p Point) String() string {
	return fmt.Sprintf("(%d,%d)", p.X, p.Y)
}

// Less orders points top to bottom, then left to right.
func (p Point) Less(o Point) bool {
	if p.Y != o.Y {
		return p.Y < o.Y
	}
	return p.X < o.X
}

// SelectionState is a selection captured as two points.
// Start is never after End.
type SelectionState struct {
	Start Point
	End   Point
}

// Collapsed reports whether the selection is a caret.
func (s SelectionState) Collapsed() bool {
	return s.Start == s.End
}

func (s SelectionState) String() string {
	if s.Collapsed() {
		return s.Start.String()
	}
	return s.Start.String() + "-" + s.End.String()
}

// NewSelection orders a and b into a SelectionState.
func NewSelection(a, b Point) SelectionState {
	if b.Less(a) {
		a, b = b, a
	}
	return SelectionState{Start: a, End: b}
}
