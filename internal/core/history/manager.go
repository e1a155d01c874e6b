package history

import (
	"unicode"
	"unicode/utf8"

	"github.com/bethropolis/composer/internal/dom"
	"github.com/bethropolis/composer/internal/event"
	"github.com/bethropolis/composer/internal/logger"
	"github.com/bethropolis/composer/internal/types"
	"golang.org/x/net/html"
)

// EditorInterface defines what replaying history needs from the editor.
// Replay drives the same commands a user does; while a replay runs the
// manager ignores the events those commands try to record.
type EditorInterface interface {
	Document() *html.Node
	Body() *html.Node
	GetEventManager() *event.Manager

	Selection() types.SelectionState
	RestoreSelection(types.SelectionState) (dom.Range, bool)
	// Changed normalizes the document and rebuilds the layout after a
	// direct tree edit.
	Changed()
	// InsertBlock splits the caret's block and puts n between the halves.
	InsertBlock(n *html.Node) bool
	// PostProcess re-runs magic links over the caret's block.
	PostProcess()

	InsertText(text string) error
	InsertReturn() error
	DeleteSelection() error
	DeleteSelectionKeepStyle() error
	DeleteBackward(word bool) error
	DeleteForward(word bool) error

	SetBold(on bool) error
	SetItalic(on bool) error
	SetUnderline(on bool) error
	SetStrikethrough(on bool) error
	SetMonospace(on bool) error
	SetFontSize(size int) error
	SetFontColor(color string) error
	SetAlignment(a types.Alignment) error
	SetBlockFormat(f types.BlockFormat) error
	Indent() error
	Unindent() error
	WrapLines() error
	UnwrapLines() error

	Paste(content string) error
	PasteAsText(text string) error
	PasteQuoted(text string) error
	InsertHTML(content string) error
	RemoveLink() error
	Unquote() error
}

// Manager is the undo/redo facade over a Store.
type Manager struct {
	editor EditorInterface
	store  *Store

	operationInProgress bool
}

// NewManager creates a history manager keeping size live events.
func NewManager(editor EditorInterface, size int) *Manager {
	return &Manager{
		editor: editor,
		store:  NewStore(size),
	}
}

// Store exposes the underlying event list for inspection.
func (m *Manager) Store() *Store {
	return m.store
}

// OperationInProgress reports whether a replay is running.
func (m *Manager) OperationInProgress() bool {
	return m.operationInProgress
}

// InsertHistoryEvent records ev as the newest event. It does nothing
// while a replay is in progress.
func (m *Manager) InsertHistoryEvent(ev *Event) {
	if m.operationInProgress {
		return
	}
	if ev == nil || !ev.Valid() {
		logger.WarnTagf("history", "refusing malformed event %v", ev)
		return
	}
	m.notify(func() {
		m.store.Insert(ev)
	})
	logger.DebugTagf("history", "recorded %v (%d/%d)", ev, m.store.Cursor(), m.store.Len())
}

// InsertDashHistoryEvent records a single-character input event, merging
// it into the current input run when that run ends where ev begins. A
// dash always opens a new run, so the character typed after it joins the
// dash rather than the text before. Whitespace closes a run, and a caret
// jump or any other event in between breaks it. It reports whether ev was
// merged.
func (m *Manager) InsertDashHistoryEvent(ev *Event) bool {
	if m.operationInProgress {
		return false
	}
	cur := m.store.Current()
	if !runMergeable(cur, ev) {
		m.InsertHistoryEvent(ev)
		return false
	}

	cf, nf := cur.Fragment(), ev.Fragment()
	for _, n := range dom.CloneChildren(nf.Fragment) {
		cf.Fragment.AppendChild(n)
	}
	dom.Normalize(cf.Fragment)
	cur.After = ev.After
	m.notify(m.store.TruncateRedo)
	logger.DebugTagf("history", "merged %q into %v", dom.TextContent(nf.Fragment), cur)
	return true
}

func runMergeable(cur, ev *Event) bool {
	if cur == nil || ev == nil || cur.Type != Input || ev.Type != Input {
		return false
	}
	cf, nf := cur.Fragment(), ev.Fragment()
	if cf.Fragment == nil || nf.Fragment == nil || cf.Return || nf.Return {
		return false
	}
	typed := dom.TextContent(nf.Fragment)
	if utf8.RuneCountInString(typed) != 1 || typed == "-" {
		return false
	}
	last, _ := utf8.DecodeLastRuneInString(dom.TextContent(cf.Fragment))
	if last == utf8.RuneError || unicode.IsSpace(last) {
		return false
	}
	return cur.After == ev.Before && ev.Before.Collapsed()
}

// CurrentHistoryEvent returns the most recently applied event, or nil.
func (m *Manager) CurrentHistoryEvent() *Event {
	return m.store.Current()
}

// RemoveCurrentHistoryEvent drops the current event. Callers use it to
// take back an event they recorded provisionally.
func (m *Manager) RemoveCurrentHistoryEvent() {
	if m.operationInProgress {
		return
	}
	m.notify(func() {
		if ev := m.store.RemoveCurrent(); ev != nil {
			logger.DebugTagf("history", "removed %v", ev)
		}
	})
}

// CanUndo reports whether there is an event to undo.
func (m *Manager) CanUndo() bool {
	return m.store.CanUndo()
}

// CanRedo reports whether there is an event to redo.
func (m *Manager) CanRedo() bool {
	return m.store.CanRedo()
}

// CleanHistory forgets every event. Used when a new document is loaded.
func (m *Manager) CleanHistory() {
	m.notify(m.store.Clear)
	m.operationInProgress = false
	logger.DebugTagf("history", "cleaned")
}

// Undo reverts the current event together with everything glued to it.
func (m *Manager) Undo() bool {
	if !m.CanUndo() || m.operationInProgress {
		logger.DebugTagf("history", "nothing to undo")
		return false
	}
	m.replay(func() {
		// dangling glue joins nothing after it
		for m.store.cursor > 0 && m.store.at(m.store.cursor).Type == And {
			m.store.cursor--
		}
		if m.store.cursor == 0 {
			return
		}
		m.undoUnit()
		for m.store.cursor > 0 && m.store.at(m.store.cursor).Type == And {
			m.store.cursor--
			if m.store.cursor > 0 {
				m.undoUnit()
			}
		}
	})
	return true
}

// Redo reapplies the next event together with everything glued to it.
func (m *Manager) Redo() bool {
	if !m.CanRedo() || m.operationInProgress {
		logger.DebugTagf("history", "nothing to redo")
		return false
	}
	m.replay(func() {
		m.redoUnit()
		for next := m.store.at(m.store.cursor + 1); next != nil && next.Type == And; next = m.store.at(m.store.cursor + 1) {
			if m.store.at(m.store.cursor+2) == nil {
				break
			}
			m.store.cursor++
			m.redoUnit()
		}
	})
	return true
}

// undoUnit undoes the event at the cursor, or the whole replace-all run
// it closes, and moves the cursor below it.
func (m *Manager) undoUnit() {
	s := m.store
	ev := s.at(s.cursor)
	if ev.Type != ReplaceAll {
		m.undoEvent(ev)
		s.cursor--
		return
	}
	if s.isOpenMarker(s.cursor) {
		s.cursor--
		return
	}
	s.cursor--
	for s.cursor > 0 && s.at(s.cursor).Type != ReplaceAll {
		m.undoEvent(s.at(s.cursor))
		s.cursor--
	}
	if open := s.at(s.cursor); open != nil && open.Type == ReplaceAll {
		m.editor.RestoreSelection(open.Before)
		s.cursor--
	}
}

// redoUnit redoes the event after the cursor, or the whole replace-all
// run it opens, and moves the cursor onto its last event.
func (m *Manager) redoUnit() {
	s := m.store
	s.cursor++
	ev := s.at(s.cursor)
	if ev.Type != ReplaceAll || !s.isOpenMarker(s.cursor) {
		m.redoEvent(ev)
		return
	}
	for next := s.at(s.cursor + 1); next != nil && next.Type != ReplaceAll; next = s.at(s.cursor + 1) {
		s.cursor++
		m.redoEvent(next)
	}
	if closing := s.at(s.cursor + 1); closing != nil {
		s.cursor++
		m.editor.RestoreSelection(closing.After)
	}
}

// replay runs fn with recording suspended and reports what changed.
func (m *Manager) replay(fn func()) {
	m.notify(func() {
		m.operationInProgress = true
		defer func() { m.operationInProgress = false }()
		fn()
	})
	if em := m.editor.GetEventManager(); em != nil {
		em.Dispatch(event.TypeSelectionChanged, event.SelectionChangedData{Selection: m.editor.Selection()})
	}
}

// notify runs fn and announces undo/redo availability changes.
func (m *Manager) notify(fn func()) {
	canUndo, canRedo := m.CanUndo(), m.CanRedo()
	fn()
	em := m.editor.GetEventManager()
	if em == nil {
		return
	}
	if u := m.CanUndo(); u != canUndo {
		em.Dispatch(event.TypeCanUndoChanged, event.PropertyChangedData{Value: u})
	}
	if r := m.CanRedo(); r != canRedo {
		em.Dispatch(event.TypeCanRedoChanged, event.PropertyChangedData{Value: r})
	}
}
