// Package wordcount adds the :wc command, counting the words, characters
// and lines of the message as it would be sent as plain text.
package wordcount

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/bethropolis/composer/internal/plugin"
	"github.com/rivo/uniseg"
)

// Ensure WordCount implements plugin.Plugin
var _ plugin.Plugin = (*WordCount)(nil)

// WordCount is a simple plugin to count lines, words and characters.
type WordCount struct {
	api plugin.EditorAPI
}

// New creates a new instance of the WordCount plugin.
func New() *WordCount {
	return &WordCount{}
}

// Name returns the unique name of the plugin.
func (p *WordCount) Name() string {
	return "wordcount"
}

// Initialize registers the :wc command.
func (p *WordCount) Initialize(api plugin.EditorAPI) error {
	p.api = api
	if err := api.RegisterCommand("wc", p.executeWordCount); err != nil {
		return fmt.Errorf("failed to register 'wc' command: %w", err)
	}
	return nil
}

// Shutdown performs cleanup (nothing needed for this simple plugin).
func (p *WordCount) Shutdown() error {
	return nil
}

func (p *WordCount) executeWordCount(args []string) error {
	if p.api == nil {
		return fmt.Errorf("wordcount plugin not initialized with API")
	}
	s := Count(p.api.Text())
	p.api.SetStatusMessage("Lines: %d, Words: %d, Chars: %d", s.Lines, s.Words, s.Chars)
	return nil
}

// Stats are the counts reported by :wc.
type Stats struct {
	Lines int
	Words int
	Chars int
}

// Count counts text using Unicode word and grapheme boundaries, so CJK
// text and emoji sequences count the way a reader would.
func Count(text string) Stats {
	var s Stats
	if text == "" {
		return s
	}
	s.Lines = strings.Count(strings.TrimSuffix(text, "\n"), "\n") + 1
	s.Chars = uniseg.GraphemeClusterCount(text)

	state := -1
	rest := text
	var word string
	for len(rest) > 0 {
		word, rest, state = uniseg.FirstWordInString(rest, state)
		if isWord(word) {
			s.Words++
		}
	}
	return s
}

func isWord(w string) bool {
	for _, r := range w {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return true
		}
	}
	return false
}
