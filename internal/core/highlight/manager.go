// Package highlight keeps the highlighted HTML source of the document for
// the source view.
package highlight

import (
	"strings"
	"sync"

	hl "github.com/bethropolis/composer/internal/highlighter"
	"github.com/bethropolis/composer/internal/highlighter/lang"
	"github.com/bethropolis/composer/internal/logger"
)

// EditorInterface defines methods needed from editor
type EditorInterface interface {
	SourceHTML() string
}

// Manager handles syntax highlighting of the source view.
type Manager struct {
	editor      EditorInterface
	highlighter *hl.Highlighter
	language    *lang.Language

	mutex      sync.RWMutex
	stale      bool
	lines      []string
	highlights hl.HighlightResult
}

// NewManager creates a highlight manager
func NewManager(editor EditorInterface) *Manager {
	return &Manager{
		editor:     editor,
		stale:      true,
		highlights: make(hl.HighlightResult),
	}
}

// SetHighlighter sets the highlighter instance and the grammar it uses.
func (m *Manager) SetHighlighter(h *hl.Highlighter, language *lang.Language) {
	m.mutex.Lock()
	m.highlighter = h
	m.language = language
	m.stale = true
	m.mutex.Unlock()
}

// Invalidate marks the source as out of date.
func (m *Manager) Invalidate() {
	m.mutex.Lock()
	m.stale = true
	m.mutex.Unlock()
}

// Refresh re-renders and re-highlights the source when it is out of date.
func (m *Manager) Refresh() {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	if !m.stale {
		return
	}
	src := m.editor.SourceHTML()
	m.lines = strings.Split(src, "\n")
	m.highlights = make(hl.HighlightResult)
	m.stale = false

	if m.highlighter == nil || m.language == nil {
		return
	}
	res, err := m.highlighter.Highlight([]byte(src), m.language)
	if err != nil {
		logger.Warnf("Highlight: %v", err)
		return
	}
	m.highlights = res
}

// Lines returns the source lines, refreshing them first.
func (m *Manager) Lines() []string {
	m.Refresh()
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	return m.lines
}

// GetHighlightsForLine gets syntax highlights for a line
func (m *Manager) GetHighlightsForLine(lineNum int) []hl.StyledRange {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	return m.highlights[lineNum]
}
