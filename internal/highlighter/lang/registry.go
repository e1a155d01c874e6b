package lang

import (
	"path/filepath"
	"strings"
	"sync"

	"github.com/bethropolis/composer/internal/logger"
)

var registry struct {
	sync.RWMutex
	languages     []*Language
	byName        map[string]*Language
	extToLanguage map[string]*Language
}

func init() {
	Reset()
}

// Reset empties the registry.
func Reset() {
	registry.Lock()
	defer registry.Unlock()
	registry.languages = nil
	registry.byName = make(map[string]*Language)
	registry.extToLanguage = make(map[string]*Language)
}

// Register adds a language to the registry. Registering a name again
// replaces the earlier language.
func Register(lang *Language) {
	registry.Lock()
	defer registry.Unlock()

	key := strings.ToLower(lang.Name)
	if old, ok := registry.byName[key]; ok {
		for i, l := range registry.languages {
			if l == old {
				registry.languages = append(registry.languages[:i], registry.languages[i+1:]...)
				break
			}
		}
	}
	registry.languages = append(registry.languages, lang)
	registry.byName[key] = lang

	for _, ext := range lang.Extensions {
		lowerExt := strings.ToLower(ext)
		if existing, ok := registry.extToLanguage[lowerExt]; ok && existing.Name != lang.Name {
			logger.Warnf("Extension %s already registered to %s, overriding with %s",
				lowerExt, existing.Name, lang.Name)
		}
		registry.extToLanguage[lowerExt] = lang
	}
	logger.Debugf("Registered language: %s with extensions: %v", lang.Name, lang.Extensions)
}

// GetForFile returns the language for a given file path
func GetForFile(filePath string) *Language {
	registry.RLock()
	defer registry.RUnlock()
	return registry.extToLanguage[strings.ToLower(filepath.Ext(filePath))]
}

// GetByName returns the language registered under name, ignoring case.
func GetByName(name string) *Language {
	registry.RLock()
	defer registry.RUnlock()
	return registry.byName[strings.ToLower(name)]
}

// GetAll returns all registered languages
func GetAll() []*Language {
	registry.RLock()
	defer registry.RUnlock()
	result := make([]*Language, len(registry.languages))
	copy(result, registry.languages)
	return result
}
