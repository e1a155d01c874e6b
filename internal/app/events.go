package app

import (
	"github.com/bethropolis/composer/internal/event"
	"github.com/bethropolis/composer/internal/logger"
)

func (a *App) subscribeEvents() {
	a.eventManager.Subscribe(event.TypeDocumentModified, a.handleDocumentModified)
	a.eventManager.Subscribe(event.TypeDocumentLoaded, a.handleDocumentLoaded)
	a.eventManager.Subscribe(event.TypeDraftSaved, a.handleDraftSaved)
	a.eventManager.Subscribe(event.TypeThemeChanged, a.handleThemeChanged)
}

// handleDocumentModified marks the document dirty.
func (a *App) handleDocumentModified(e event.Event) bool {
	a.modified = true
	if data, ok := e.Data.(event.DocumentModifiedData); ok {
		logger.DebugTagf("app", "document modified by %s", data.Command)
	}
	return false
}

func (a *App) handleDocumentLoaded(e event.Event) bool {
	a.modified = false
	a.sourceTop = 0
	if data, ok := e.Data.(event.DocumentLoadedData); ok && data.Source != "" {
		a.doc.Name = data.Source
	}
	return false
}

func (a *App) handleDraftSaved(e event.Event) bool {
	a.modified = false
	return false
}

func (a *App) handleThemeChanged(e event.Event) bool {
	a.requestRedraw()
	return false
}
