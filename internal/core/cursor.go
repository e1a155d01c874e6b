package core

import (
	"github.com/bethropolis/composer/internal/event"
	"github.com/bethropolis/composer/internal/layout"
	"github.com/bethropolis/composer/internal/logger"
	"github.com/bethropolis/composer/internal/types"
)

// Motion is a caret movement.
type Motion int

const (
	MoveLeft Motion = iota
	MoveRight
	MoveUp
	MoveDown
	MoveLineStart
	MoveLineEnd
	MoveWordLeft
	MoveWordRight
	MoveDocStart
	MoveDocEnd
	MovePageUp
	MovePageDown
)

var motionNames = map[string]Motion{
	"left":       MoveLeft,
	"right":      MoveRight,
	"up":         MoveUp,
	"down":       MoveDown,
	"home":       MoveLineStart,
	"end":        MoveLineEnd,
	"word-left":  MoveWordLeft,
	"word-right": MoveWordRight,
	"doc-start":  MoveDocStart,
	"doc-end":    MoveDocEnd,
	"page-up":    MovePageUp,
	"page-down":  MovePageDown,
}

// ParseMotion maps a motion name such as "word-left" to a Motion.
func ParseMotion(name string) (Motion, bool) {
	m, ok := motionNames[name]
	return m, ok
}

// target computes where m takes the caret from p.
func (e *Editor) target(m Motion, p types.Point) types.Point {
	l := e.lay
	switch m {
	case MoveLeft:
		return l.Left(p)
	case MoveRight:
		return l.Right(p)
	case MoveUp:
		return l.Up(p)
	case MoveDown:
		return l.Down(p)
	case MoveLineStart:
		return l.LineStart(p)
	case MoveLineEnd:
		return l.LineEnd(p)
	case MoveWordLeft:
		return l.WordLeft(p)
	case MoveWordRight:
		return l.WordRight(p)
	case MoveDocStart:
		return l.Start()
	case MoveDocEnd:
		return l.End()
	case MovePageUp, MovePageDown:
		step := l.Up
		if m == MovePageDown {
			step = l.Down
		}
		for i := 1; i < max(e.view.Height, 2); i++ {
			p = step(p)
		}
		return p
	}
	return p
}

// Move moves the caret. With extend the selection's anchor stays put;
// without it a selection collapses, to its near end for a plain left or
// right move.
func (e *Editor) Move(m Motion, extend bool) {
	head := e.selectionManager.Head()
	switch {
	case extend:
		e.selectionManager.Extend(e.target(m, head))
	case e.HasSelection() && m == MoveLeft:
		e.selectionManager.Collapse(e.Selection().Start)
	case e.HasSelection() && m == MoveRight:
		e.selectionManager.Collapse(e.Selection().End)
	default:
		e.selectionManager.Collapse(e.target(m, head))
	}
	e.ScrollToCaret()
	e.selectionChanged()
}

// MoveTo puts the caret at the stop nearest to p, for example a click.
func (e *Editor) MoveTo(p types.Point, extend bool) {
	pos, _ := e.lay.PositionAt(p, layout.BiasCaret)
	if pos.Node == nil {
		logger.DebugTagf("core", "move-to: nothing at %v", p)
		return
	}
	snapped, ok := e.lay.PointOf(pos)
	if !ok {
		return
	}
	if extend {
		e.selectionManager.Extend(snapped)
	} else {
		e.selectionManager.Collapse(snapped)
	}
	e.ScrollToCaret()
	e.selectionChanged()
}

// SelectAll selects the whole document.
func (e *Editor) SelectAll() {
	e.selectionManager.Set(types.NewSelection(e.lay.Start(), e.lay.End()))
	e.ScrollToCaret()
	e.selectionChanged()
}

// ClearSelection collapses the selection to the caret.
func (e *Editor) ClearSelection() {
	if !e.HasSelection() {
		return
	}
	e.selectionManager.Collapse(e.selectionManager.Head())
	e.selectionChanged()
}

func (e *Editor) selectionChanged() {
	if e.eventManager != nil {
		e.eventManager.Dispatch(event.TypeSelectionChanged, event.SelectionChangedData{Selection: e.Selection()})
	}
}
