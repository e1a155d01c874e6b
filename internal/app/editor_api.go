package app

import (
	"fmt"

	"github.com/bethropolis/composer/internal/commands"
	"github.com/bethropolis/composer/internal/event"
	"github.com/bethropolis/composer/internal/logger"
	"github.com/bethropolis/composer/internal/plugin"
	"github.com/bethropolis/composer/internal/store"
	"github.com/bethropolis/composer/internal/theme"
	"github.com/gdamore/tcell/v2"
)

// Ensure appEditorAPI implements the plugin and command APIs.
var (
	_ plugin.EditorAPI  = (*appEditorAPI)(nil)
	_ commands.ThemeAPI = (*appEditorAPI)(nil)
)

// appEditorAPI is the App as seen by plugins and the theme commands.
type appEditorAPI struct {
	app *App
}

func newEditorAPI(app *App) *appEditorAPI {
	return &appEditorAPI{app: app}
}

func (api *appEditorAPI) BodyHTML() string     { return api.app.editor.BodyHTML() }
func (api *appEditorAPI) Text() string         { return api.app.editor.Text() }
func (api *appEditorAPI) IsModified() bool     { return api.app.modified }
func (api *appEditorAPI) DocumentName() string { return api.app.doc.Name }

func (api *appEditorAPI) SaveDraft() (*store.Draft, error) {
	return api.app.SaveDraft()
}

func (api *appEditorAPI) DraftStore() store.Store {
	return api.app.drafts
}

func (api *appEditorAPI) DispatchEvent(eventType event.Type, data interface{}) {
	api.app.eventManager.Dispatch(eventType, data)
}

func (api *appEditorAPI) SubscribeEvent(eventType event.Type, handler event.Handler) {
	api.app.eventManager.Subscribe(eventType, handler)
}

func (api *appEditorAPI) RegisterCommand(name string, cmdFunc plugin.CommandFunc) error {
	if api.app.commands == nil {
		logger.Errorf("appEditorAPI cannot register command '%s': no registry", name)
		return fmt.Errorf("internal error: API cannot access command registration")
	}
	return api.app.commands.Register(name, cmdFunc)
}

func (api *appEditorAPI) SetStatusMessage(format string, args ...interface{}) {
	api.app.SetStatusMessage(format, args...)
}

func (api *appEditorAPI) Post(fn func()) {
	api.app.post(fn)
}

func (api *appEditorAPI) GetThemeStyle(styleName string) tcell.Style {
	return api.app.themeManager.Current().GetStyle(styleName)
}

// SetTheme activates the named theme and redraws.
func (api *appEditorAPI) SetTheme(name string) error {
	if err := api.app.themeManager.SetTheme(name); err != nil {
		return err
	}
	api.app.eventManager.Dispatch(event.TypeThemeChanged, name)
	logger.Debugf("Theme changed to '%s'", name)
	return nil
}

func (api *appEditorAPI) GetTheme() *theme.Theme {
	return api.app.themeManager.Current()
}

func (api *appEditorAPI) ListThemes() []string {
	return api.app.themeManager.ListThemes()
}
