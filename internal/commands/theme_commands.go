package commands

import (
	"fmt"
	"strings"

	"github.com/bethropolis/composer/internal/theme"
)

// ThemeAPI is what the theme commands need from the application.
type ThemeAPI interface {
	SetTheme(name string) error
	GetTheme() *theme.Theme
	ListThemes() []string
	SetStatusMessage(format string, args ...interface{})
}

// RegisterThemeCommands registers :theme and :themes.
func RegisterThemeCommands(r *Registry, api ThemeAPI) {
	register(r, "theme", func(args []string) error {
		if len(args) == 0 {
			api.SetStatusMessage("Current theme: %s", api.GetTheme().Name)
			return nil
		}
		name := strings.Join(args, " ")
		if err := api.SetTheme(name); err != nil {
			return fmt.Errorf("theme '%s' not found. Available: %s", name, strings.Join(api.ListThemes(), ", "))
		}
		api.SetStatusMessage("Theme set to: %s", name)
		return nil
	})
	register(r, "themes", func([]string) error {
		api.SetStatusMessage("Available themes: %s", strings.Join(api.ListThemes(), ", "))
		return nil
	})
}
