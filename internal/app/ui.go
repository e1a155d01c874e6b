package app

import (
	"github.com/bethropolis/composer/internal/logger"
	"github.com/bethropolis/composer/internal/modehandler"
	"github.com/bethropolis/composer/internal/statusbar"
	"github.com/bethropolis/composer/internal/tui"
	"github.com/gdamore/tcell/v2"
)

// drawEditor clears the screen and redraws all components.
func (a *App) drawEditor() {
	a.updateStatusBarContent()

	th := a.themeManager.Current()
	screen := a.tuiManager.GetScreen()
	width, height := a.tuiManager.Size()
	logger.DebugTagf("draw", "drawEditor: screen %dx%d, source view %v", width, height, a.sourceView)

	a.tuiManager.Clear()
	if a.sourceView {
		tui.DrawSource(a.tuiManager, a.editor.GetHighlightManager(), a.sourceTop, a.editor.Viewport().Height, th)
	} else {
		tui.DrawDocument(a.tuiManager, a.editor, th)
	}
	a.statusBar.Draw(screen, width, height, th)
	if !a.sourceView {
		tui.DrawCursor(a.tuiManager, a.editor)
	}
	a.tuiManager.Show()
}

// updateStatusBarContent pushes the editor state to the status bar.
func (a *App) updateStatusBarContent() {
	e := a.editor
	a.statusBar.SetDocumentInfo(a.doc.Name, a.modified, e.ReadOnly())
	a.statusBar.SetCaretInfo(e.Caret())
	a.statusBar.SetHistoryInfo(e.CanUndo(), e.CanRedo())

	mode := a.modeHandler.GetCurrentMode().String()
	switch {
	case a.sourceView:
		mode = "SOURCE"
	case a.modeHandler.LeaderPending():
		mode = "LEADER"
	}
	a.statusBar.SetEditorMode(mode)

	a.statusBar.SetFormat(statusbar.Format{
		Bold:      e.IsBold(),
		Italic:    e.IsItalic(),
		Underline: e.IsUnderline(),
		Strike:    e.IsStrikethrough(),
		Mono:      e.IsMonospace(),
		Block:     e.BlockFormat().String(),
		Align:     e.Alignment().String(),
		Size:      e.FontSize(),
	})

	if a.modeHandler.GetCurrentMode() != modehandler.ModeNormal {
		a.statusBar.SetTemporaryMessage("%s", a.modeHandler.Prompt())
	}
}

// SetStatusMessage shows a temporary message in the status bar.
func (a *App) SetStatusMessage(format string, args ...interface{}) {
	a.statusBar.SetTemporaryMessage(format, args...)
	a.requestRedraw()
}

// post runs fn on the UI goroutine.
func (a *App) post(fn func()) {
	if err := a.tuiManager.GetScreen().PostEvent(tcell.NewEventInterrupt(fn)); err != nil {
		logger.Warnf("App: event queue full, dropping posted work: %v", err)
	}
}

// requestRedraw asks the main loop for a redraw. Safe from any goroutine.
func (a *App) requestRedraw() {
	_ = a.tuiManager.GetScreen().PostEvent(tcell.NewEventInterrupt(nil))
}
