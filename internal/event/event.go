package event

import (
	"github.com/bethropolis/composer/internal/types"
	"github.com/gdamore/tcell/v2"
)

// Type identifies the kind of event.
type Type int

const (
	TypeUnknown Type = iota

	// Composer document events
	TypeDocumentModified // content or formatting changed
	TypeDocumentLoaded   // a new document replaced the old one
	TypeSelectionChanged // caret or selection moved
	TypeCanUndoChanged   // undo availability flipped
	TypeCanRedoChanged   // redo availability flipped
	TypeDraftSaved       // the document was written to the draft store

	// Raw input forwarded to plugins
	TypeKeyPressed

	// Application lifecycle
	TypeAppReady
	TypeAppQuit

	TypeThemeChanged
)

var typeNames = map[Type]string{
	TypeDocumentModified: "document-modified",
	TypeDocumentLoaded:   "document-loaded",
	TypeSelectionChanged: "selection-changed",
	TypeCanUndoChanged:   "can-undo",
	TypeCanRedoChanged:   "can-redo",
	TypeDraftSaved:       "draft-saved",
	TypeKeyPressed:       "key-pressed",
	TypeAppReady:         "app-ready",
	TypeAppQuit:          "app-quit",
	TypeThemeChanged:     "theme-changed",
}

func (t Type) String() string {
	if s, ok := typeNames[t]; ok {
		return s
	}
	return "unknown"
}

// Event is the structure passed through the event bus.
type Event struct {
	Type Type
	Data interface{}
}

// DocumentModifiedData names the command that changed the document.
type DocumentModifiedData struct {
	Command string
}

// DocumentLoadedData describes where the new document came from.
type DocumentLoadedData struct {
	Source string
}

// SelectionChangedData carries the new selection.
type SelectionChangedData struct {
	Selection types.SelectionState
}

// PropertyChangedData carries the new value of a boolean property.
type PropertyChangedData struct {
	Value bool
}

// DraftSavedData identifies the stored draft.
type DraftSavedData struct {
	ID string
}

// KeyPressedData contains the raw tcell key event.
type KeyPressedData struct {
	KeyEvent *tcell.EventKey
}

type AppQuitData struct{}

type AppReadyData struct{}
