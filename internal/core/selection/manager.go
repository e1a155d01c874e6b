// Package selection keeps the composer's selection as a pair of layout
// points and converts it to and from DOM ranges.
//
// Points survive structural edits that DOM positions do not: after an
// undo step rebuilds part of the tree, the same points resolve to the
// equivalent positions in the new nodes.
package selection

import (
	"github.com/bethropolis/composer/internal/dom"
	"github.com/bethropolis/composer/internal/layout"
	"github.com/bethropolis/composer/internal/logger"
	"github.com/bethropolis/composer/internal/types"
)

// EditorInterface defines what the selection manager needs from the editor.
type EditorInterface interface {
	Layout() *layout.Layout
	Viewport() types.Viewport
	SetViewport(types.Viewport)
	ScrollOff() int
}

// Manager handles selection state and snapshot/restore.
type Manager struct {
	editor EditorInterface

	anchor types.Point // fixed end while extending
	head   types.Point // moving end, where the caret is drawn
}

// NewManager creates a selection manager with a caret at the origin.
func NewManager(editor EditorInterface) *Manager {
	return &Manager{editor: editor}
}

// State returns the ordered selection.
func (m *Manager) State() types.SelectionState {
	return types.NewSelection(m.anchor, m.head)
}

// Head returns the caret point.
func (m *Manager) Head() types.Point {
	return m.head
}

// Anchor returns the fixed end of the selection.
func (m *Manager) Anchor() types.Point {
	return m.anchor
}

// HasSelection reports whether the selection covers any content.
func (m *Manager) HasSelection() bool {
	return m.anchor != m.head
}

// Collapse puts a caret at p.
func (m *Manager) Collapse(p types.Point) {
	m.anchor, m.head = p, p
	m.scrollTo(p)
}

// Extend moves the head to p, keeping the anchor.
func (m *Manager) Extend(p types.Point) {
	m.head = p
	m.scrollTo(p)
}

// Set installs st with the head at End.
func (m *Manager) Set(st types.SelectionState) {
	m.anchor, m.head = st.Start, st.End
	m.scrollTo(st.End)
}

func (m *Manager) scrollTo(p types.Point) {
	v := m.editor.Viewport()
	if v.Contains(p) {
		return
	}
	m.editor.SetViewport(v.ScrollTo(p, m.editor.ScrollOff()))
}

// Capture converts a DOM range into points.
func (m *Manager) Capture(r dom.Range) (types.SelectionState, bool) {
	lay := m.editor.Layout()
	start, ok := lay.PointOf(r.Start)
	if !ok {
		return types.SelectionState{}, false
	}
	if r.Collapsed() {
		return types.SelectionState{Start: start, End: start}, true
	}
	end, ok := lay.PointOf(r.End)
	if !ok {
		return types.SelectionState{}, false
	}
	return types.NewSelection(start, end), true
}

// Resolve converts points into a DOM range against the current layout.
// exact is false when a point had to snap to the nearest caret stop.
func (m *Manager) Resolve(st types.SelectionState) (r dom.Range, exact, ok bool) {
	lay := m.editor.Layout()
	if st.Collapsed() {
		p, ex := lay.PositionAt(st.Start, layout.BiasCaret)
		if p.Node == nil {
			return dom.Range{}, false, false
		}
		return dom.Caret(p), ex, true
	}
	start, ex1 := lay.PositionAt(st.Start, layout.BiasStart)
	end, ex2 := lay.PositionAt(st.End, layout.BiasEnd)
	if start.Node == nil || end.Node == nil {
		return dom.Range{}, false, false
	}
	if dom.Compare(start, end) > 0 {
		// a range over nothing but zero-width content
		return dom.Caret(start), ex1 && ex2, true
	}
	return dom.Range{Start: start, End: end}, ex1 && ex2, true
}

// Range resolves the current selection.
func (m *Manager) Range() (dom.Range, bool) {
	r, _, ok := m.Resolve(m.State())
	return r, ok
}

// Restore re-establishes st, scrolling it into view. When st cannot be
// resolved at all the selection is left untouched.
func (m *Manager) Restore(st types.SelectionState) (dom.Range, bool) {
	r, exact, ok := m.Resolve(st)
	if !ok {
		logger.WarnTagf("history", "selection: cannot restore %v, keeping %v", st, m.State())
		return dom.Range{}, false
	}
	if !exact {
		logger.DebugTagf("history", "selection: %v snapped to nearest stop", st)
	}
	m.Set(st)
	return r, true
}
