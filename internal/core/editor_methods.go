package core

import (
	"github.com/bethropolis/composer/internal/core/find"
	"github.com/bethropolis/composer/internal/logger"
)

// History operations delegated to historyManager
func (e *Editor) Undo() bool {
	if e.historyManager == nil {
		logger.Warnf("Editor.Undo: historyManager is nil")
		return false
	}
	if e.readOnly {
		return false
	}
	if !e.historyManager.Undo() {
		return false
	}
	e.modified("undo")
	return true
}

func (e *Editor) Redo() bool {
	if e.historyManager == nil {
		logger.Warnf("Editor.Redo: historyManager is nil")
		return false
	}
	if e.readOnly {
		return false
	}
	if !e.historyManager.Redo() {
		return false
	}
	e.modified("redo")
	return true
}

func (e *Editor) CanUndo() bool {
	return e.historyManager != nil && e.historyManager.CanUndo()
}

func (e *Editor) CanRedo() bool {
	return e.historyManager != nil && e.historyManager.CanRedo()
}

// CleanHistory forgets every recorded edit.
func (e *Editor) CleanHistory() {
	if e.historyManager == nil {
		logger.Warnf("Editor.CleanHistory: historyManager is nil")
		return
	}
	e.historyManager.CleanHistory()
}

// Find operations delegated to findManager
func (e *Editor) HighlightMatches(term string, opts find.Options) int {
	if e.findManager == nil {
		logger.Warnf("Editor.HighlightMatches: findManager is nil")
		return 0
	}
	if err := e.findManager.SetSearch(term, opts); err != nil {
		logger.DebugTagf("find", "highlight: %v", err)
		e.findManager.ClearHighlights()
		return 0
	}
	return e.findManager.HighlightMatches()
}

func (e *Editor) Highlights() []find.Match {
	if e.findManager == nil {
		return nil
	}
	return e.findManager.Highlights()
}

func (e *Editor) ClearHighlights() {
	if e.findManager == nil {
		logger.Warnf("Editor.ClearHighlights: findManager is nil")
		return
	}
	e.findManager.ClearHighlights()
}
