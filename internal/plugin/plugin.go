// Package plugin defines the surface extensions use to observe and drive
// the composer.
package plugin

import (
	"github.com/bethropolis/composer/internal/commands"
	"github.com/bethropolis/composer/internal/event"
	"github.com/bethropolis/composer/internal/store"
	"github.com/bethropolis/composer/internal/theme"
	"github.com/gdamore/tcell/v2"
)

// CommandFunc defines the signature for commands registered by plugins.
type CommandFunc = commands.Func

// EditorAPI is what plugins may use of the running composer.
type EditorAPI interface {
	// Document access
	BodyHTML() string
	Text() string
	IsModified() bool
	DocumentName() string

	// Drafts
	SaveDraft() (*store.Draft, error)
	DraftStore() store.Store

	// Event bus
	DispatchEvent(eventType event.Type, data interface{})
	SubscribeEvent(eventType event.Type, handler event.Handler)

	RegisterCommand(name string, cmdFunc CommandFunc) error
	SetStatusMessage(format string, args ...interface{})

	// Post runs fn on the UI goroutine. Plugins with their own goroutines
	// must reach the document through it.
	Post(fn func())

	// Themes
	GetThemeStyle(styleName string) tcell.Style
	SetTheme(name string) error
	GetTheme() *theme.Theme
	ListThemes() []string
}

// Plugin defines the interface that all plugins must implement.
type Plugin interface {
	// Name returns the unique identifier name of the plugin.
	Name() string

	// Initialize is called once when the plugin is loaded. Plugins
	// subscribe to events and register commands here.
	Initialize(api EditorAPI) error

	// Shutdown is called once when the composer is closing.
	Shutdown() error
}
