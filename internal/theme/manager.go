package theme

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/bethropolis/composer/internal/logger"
)

// Manager holds loaded themes and the active one.
type Manager struct {
	mutex       sync.RWMutex
	themes      map[string]*Theme
	activeTheme *Theme
	themesDir   string
}

// NewManager creates a manager with the built-in theme and the .toml
// themes found in themesDir. An empty themesDir loads built-ins only.
func NewManager(themesDir string) *Manager {
	m := &Manager{
		themes:    make(map[string]*Theme),
		themesDir: themesDir,
	}
	m.themes[strings.ToLower(ComposerDark.Name)] = &ComposerDark
	m.activeTheme = &ComposerDark

	if themesDir != "" {
		if err := m.LoadThemesFromDir(); err != nil {
			logger.Errorf("Error loading themes from '%s': %v", themesDir, err)
		}
	}
	return m
}

// LoadThemesFromDir loads every .toml file in the themes directory.
// A missing directory is not an error.
func (m *Manager) LoadThemesFromDir() error {
	if m.themesDir == "" {
		return errors.New("theme directory path is not set")
	}
	files, err := os.ReadDir(m.themesDir)
	if errors.Is(err, os.ErrNotExist) {
		logger.Infof("Theme directory '%s' does not exist. No custom themes loaded.", m.themesDir)
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read theme directory '%s': %w", m.themesDir, err)
	}

	m.mutex.Lock()
	defer m.mutex.Unlock()
	loaded := 0
	for _, file := range files {
		if file.IsDir() || !strings.HasSuffix(strings.ToLower(file.Name()), ".toml") {
			continue
		}
		filePath := filepath.Join(m.themesDir, file.Name())
		theme, err := LoadThemeFromFile(filePath)
		if err != nil {
			logger.Warnf("Failed to load theme from '%s': %v", filePath, err)
			continue
		}
		key := strings.ToLower(theme.Name)
		if existing, ok := m.themes[key]; ok {
			logger.Warnf("Theme '%s' from '%s' overrides existing theme '%s'", theme.Name, filePath, existing.Name)
		}
		m.themes[key] = theme
		loaded++
	}
	logger.Infof("Loaded %d custom themes.", loaded)
	return nil
}

// Current returns the active theme.
func (m *Manager) Current() *Theme {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	return m.activeTheme
}

// SetTheme activates the theme called name, ignoring case.
func (m *Manager) SetTheme(name string) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	theme, ok := m.themes[strings.ToLower(name)]
	if !ok {
		return fmt.Errorf("theme '%s' not found", name)
	}
	if m.activeTheme != theme {
		m.activeTheme = theme
		SetCurrentTheme(theme)
	}
	return nil
}

// ListThemes returns the names of all loaded themes, sorted.
func (m *Manager) ListThemes() []string {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	names := make([]string, 0, len(m.themes))
	for _, theme := range m.themes {
		names = append(names, theme.Name)
	}
	sort.Strings(names)
	return names
}

// GetTheme returns a theme by name, ignoring case.
func (m *Manager) GetTheme(name string) (*Theme, bool) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	theme, ok := m.themes[strings.ToLower(name)]
	return theme, ok
}
