package app

import (
	"fmt"

	"github.com/bethropolis/composer/internal/config"
	"github.com/bethropolis/composer/internal/logger"
	"github.com/bethropolis/composer/internal/plugin"
	"github.com/bethropolis/composer/plugins/autosave"
	"github.com/bethropolis/composer/plugins/wordcount"
)

// registerPlugins registers the built-in plugins with the manager.
func registerPlugins(pm *plugin.Manager, cfg *config.Config) error {
	if pm == nil {
		return fmt.Errorf("plugin manager is nil")
	}

	builtins := []plugin.Plugin{
		wordcount.New(),
		autosave.New(cfg.Drafts.AutosaveInterval),
	}

	var finalErr error
	for _, p := range builtins {
		if err := pm.Register(p); err != nil {
			wrapped := fmt.Errorf("failed to register plugin '%s': %w", p.Name(), err)
			logger.Errorf("%v", wrapped)
			if finalErr == nil {
				finalErr = wrapped
			}
		}
	}
	return finalErr
}
