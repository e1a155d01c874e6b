// Package config loads the composer's TOML configuration and applies
// command-line overrides.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/bethropolis/composer/internal/logger"
)

// Config holds the application's combined configuration.
type Config struct {
	Logger  logger.Config `toml:"logger"`
	Editor  EditorConfig  `toml:"editor"`
	History HistoryConfig `toml:"history"`
	Drafts  DraftsConfig  `toml:"drafts"`
	Mail    MailConfig    `toml:"mail"`
}

// EditorConfig holds editor-specific settings.
type EditorConfig struct {
	HTMLMode        bool   `toml:"html_mode"`
	WrapWidth       int    `toml:"wrap_width"`
	ScrollOff       int    `toml:"scroll_off"`
	MagicLinks      bool   `toml:"magic_links"`
	MagicSmileys    bool   `toml:"magic_smileys"`
	SystemClipboard bool   `toml:"system_clipboard"`
	Theme           string `toml:"theme"`
}

// HistoryConfig sizes the undo history.
type HistoryConfig struct {
	Size int `toml:"size"`
}

// DraftsConfig says where drafts are kept and how often they are saved.
type DraftsConfig struct {
	Path             string        `toml:"path"`
	AutosaveInterval time.Duration `toml:"autosave_interval"`
}

// MailConfig holds the defaults for exported messages.
type MailConfig struct {
	From string `toml:"from"`
}

var (
	loadedConfig *Config
	loadOnce     sync.Once
	loadErr      error
)

// NewDefaultConfig creates a Config struct with default values.
func NewDefaultConfig() *Config {
	return &Config{
		Logger: logger.NewConfig(),
		Editor: EditorConfig{
			HTMLMode:        true,
			WrapWidth:       DefaultWrapWidth,
			ScrollOff:       DefaultScrollOff,
			MagicLinks:      true,
			MagicSmileys:    true,
			SystemClipboard: SystemClipboard,
		},
		History: HistoryConfig{Size: DefaultHistorySize},
		Drafts:  DraftsConfig{AutosaveInterval: DefaultAutosaveInterval},
	}
}

// Dir returns the directory holding the config file and themes.
func Dir() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("locating config directory: %w", err)
	}
	return filepath.Join(base, ConfigDirName), nil
}

// loadFromFile decodes filePath over cfg. A missing file leaves cfg alone.
func loadFromFile(cfg *Config, filePath string) error {
	metadata, err := toml.DecodeFile(filePath, cfg)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to parse config file '%s': %w", filePath, err)
	}
	if undecoded := metadata.Undecoded(); len(undecoded) > 0 {
		logger.Warnf("Config file '%s': Unrecognized keys: %v", filePath, undecoded)
	}
	return nil
}

// validate checks config values and resets invalid ones to defaults.
func (c *Config) validate() {
	defaults := NewDefaultConfig()

	if c.Editor.WrapWidth < 10 {
		c.Editor.WrapWidth = defaults.Editor.WrapWidth
	}
	if c.Editor.ScrollOff < 0 {
		c.Editor.ScrollOff = defaults.Editor.ScrollOff
	}
	if c.History.Size <= 0 {
		c.History.Size = defaults.History.Size
	}
	if c.Drafts.AutosaveInterval < time.Second {
		c.Drafts.AutosaveInterval = defaults.Drafts.AutosaveInterval
	}
	if c.Logger.LogLevel == "" {
		c.Logger.LogLevel = defaults.Logger.LogLevel
	}
}

// DraftsPath returns the draft database path, defaulting to the config
// directory.
func (c *Config) DraftsPath() string {
	if c.Drafts.Path != "" {
		return c.Drafts.Path
	}
	dir, err := Dir()
	if err != nil {
		return DefaultDraftsFileName
	}
	return filepath.Join(dir, DefaultDraftsFileName)
}

// Load builds a configuration from defaults, the file at configFilePath
// (or the default location when empty) and the flags that were set.
func Load(configFilePath string, flags *Flags) (*Config, error) {
	cfg := NewDefaultConfig()

	path := configFilePath
	if path == "" {
		if dir, err := Dir(); err == nil {
			path = filepath.Join(dir, DefaultConfigFileName)
		}
	}

	var err error
	if path != "" {
		err = loadFromFile(cfg, path)
	}
	if flags != nil {
		flags.ApplyOverrides(cfg)
	}
	cfg.validate()
	return cfg, err
}

// LoadConfig loads the configuration once for the process.
// It should be called only once, typically from main.
func LoadConfig(configFilePath string, flags *Flags) (*Config, error) {
	loadOnce.Do(func() {
		loadedConfig, loadErr = Load(configFilePath, flags)
	})
	return loadedConfig, loadErr
}

// Get returns the loaded application configuration. Panics if LoadConfig wasn't called.
func Get() *Config {
	if loadedConfig == nil {
		panic("config.Get() called before config.LoadConfig()")
	}
	return loadedConfig
}
