package clipboard

import (
	"fmt"
	"sync"

	"github.com/atotto/clipboard"
	"github.com/bethropolis/composer/internal/logger"
)

// Manager handles clipboard operations. It keeps the copied content as
// HTML and plain text in an internal register and mirrors the text to the
// system clipboard when enabled.
type Manager struct {
	editor EditorInterface
	system bool

	mutex sync.Mutex
	text  string
	html  string
}

// EditorInterface defines methods needed from editor
type EditorInterface interface {
	HasSelection() bool
	SelectedText() string
	SelectedHTML() string
	DeleteSelection() error
	Paste(content string) error
	PasteAsText(text string) error
}

// The system clipboard is reached through these so tests can replace it.
var (
	readSystem  = clipboard.ReadAll
	writeSystem = clipboard.WriteAll
)

// NewManager creates a new clipboard manager
func NewManager(editor EditorInterface, system bool) *Manager {
	return &Manager{
		editor: editor,
		system: system && !clipboard.Unsupported,
	}
}

// Register returns the content of the internal register.
func (m *Manager) Register() (text, html string) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	return m.text, m.html
}

// Copy puts the selection into the register. It reports false when
// nothing is selected.
func (m *Manager) Copy() (bool, error) {
	if !m.editor.HasSelection() {
		return false, nil
	}
	text, html := m.editor.SelectedText(), m.editor.SelectedHTML()
	m.mutex.Lock()
	m.text, m.html = text, html
	m.mutex.Unlock()

	if m.system {
		if err := writeSystem(text); err != nil {
			logger.WarnTagf("clipboard", "writing system clipboard: %v", err)
		}
	}
	logger.Debugf("ClipboardManager: Copied %d bytes of text, %d of HTML", len(text), len(html))
	return true, nil
}

// Cut copies the selection and deletes it.
func (m *Manager) Cut() (bool, error) {
	ok, err := m.Copy()
	if !ok || err != nil {
		return ok, err
	}
	if err := m.editor.DeleteSelection(); err != nil {
		return false, fmt.Errorf("cut: %w", err)
	}
	return true, nil
}

// Paste inserts the register at the caret. Text placed on the system
// clipboard by another program wins over the register and is pasted as
// plain text.
func (m *Manager) Paste() (bool, error) {
	text, html := m.Register()

	if m.system {
		sys, err := readSystem()
		switch {
		case err != nil:
			logger.WarnTagf("clipboard", "reading system clipboard: %v", err)
		case sys != "" && sys != text:
			logger.DebugTagf("clipboard", "pasting %d bytes from the system clipboard", len(sys))
			return true, m.editor.PasteAsText(sys)
		}
	}

	switch {
	case html != "":
		return true, m.editor.Paste(html)
	case text != "":
		return true, m.editor.PasteAsText(text)
	}
	return false, nil
}
