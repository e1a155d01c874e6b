package core

import (
	"github.com/bethropolis/composer/internal/core/clipboard"
	"github.com/bethropolis/composer/internal/logger"
)

// GetClipboardManager returns the clipboard manager.
func (e *Editor) GetClipboardManager() *clipboard.Manager {
	return e.clipboardManager
}

// Copy copies the selection. It reports whether anything was selected.
func (e *Editor) Copy() (bool, error) {
	if e.clipboardManager == nil {
		logger.Warnf("Editor.Copy: clipboardManager is nil")
		return false, nil
	}
	return e.clipboardManager.Copy()
}

// Cut copies the selection and deletes it.
func (e *Editor) Cut() (bool, error) {
	if e.clipboardManager == nil {
		logger.Warnf("Editor.Cut: clipboardManager is nil")
		return false, nil
	}
	if err := e.editable(); err != nil {
		return false, err
	}
	return e.clipboardManager.Cut()
}

// PasteClipboard pastes the clipboard content at the caret.
func (e *Editor) PasteClipboard() (bool, error) {
	if e.clipboardManager == nil {
		logger.Warnf("Editor.PasteClipboard: clipboardManager is nil")
		return false, nil
	}
	if err := e.editable(); err != nil {
		return false, err
	}
	return e.clipboardManager.Paste()
}
