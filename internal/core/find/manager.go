package find

import (
	"fmt"
	"regexp"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/bethropolis/composer/internal/dom"
	"github.com/bethropolis/composer/internal/layout"
	"github.com/bethropolis/composer/internal/logger"
	"github.com/bethropolis/composer/internal/types"
	"golang.org/x/net/html"
)

// EditorInterface defines methods the find manager needs from the editor.
type EditorInterface interface {
	Body() *html.Node
	Layout() *layout.Layout
}

// Match is one occurrence of the search term. Matches never cross a
// paragraph boundary.
type Match struct {
	Range dom.Range
	Start types.Point
	End   types.Point
	Text  string
}

// Options control how a term is matched.
type Options struct {
	Regex         bool
	CaseSensitive bool
}

// Manager handles find, replace and search highlighting logic.
type Manager struct {
	editor EditorInterface
	mutex  sync.RWMutex

	lastSearchTerm  string
	lastSearchRegex *regexp.Regexp
	highlights      []Match
}

// NewManager creates a find manager.
func NewManager(editor EditorInterface) *Manager {
	return &Manager{editor: editor}
}

// SetSearch compiles term and makes it the current search.
func (m *Manager) SetSearch(term string, opts Options) error {
	re, err := Compile(term, opts)
	if err != nil {
		return err
	}
	m.mutex.Lock()
	m.lastSearchTerm = term
	m.lastSearchRegex = re
	m.mutex.Unlock()
	return nil
}

// Compile builds the matcher for term.
func Compile(term string, opts Options) (*regexp.Regexp, error) {
	if term == "" {
		return nil, fmt.Errorf("find: empty search term")
	}
	pattern := term
	if !opts.Regex {
		pattern = regexp.QuoteMeta(term)
	}
	if !opts.CaseSensitive {
		pattern = "(?i)" + pattern
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("find: invalid pattern %q: %w", term, err)
	}
	return re, nil
}

// Term returns the current search term.
func (m *Manager) Term() string {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	return m.lastSearchTerm
}

// segment maps a run of a paragraph's text back to its text node.
type segment struct {
	node  *html.Node
	start int // byte offset of the node's text in the paragraph string
}

// paragraphText concatenates the editable text of a leaf block.
func paragraphText(leaf *html.Node) (string, []segment) {
	var sb strings.Builder
	var segs []segment
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		for ch := n.FirstChild; ch != nil; ch = ch.NextSibling {
			switch {
			case dom.IsText(ch):
				segs = append(segs, segment{node: ch, start: sb.Len()})
				sb.WriteString(ch.Data)
			case dom.IsAtomic(ch):
			case dom.IsElement(ch):
				walk(ch)
			}
		}
	}
	walk(leaf)
	return sb.String(), segs
}

// position maps a byte offset of the paragraph string to a DOM position.
// An offset on a node boundary belongs to the earlier node when atEnd.
func position(segs []segment, off int, atEnd bool) dom.Position {
	for i := len(segs) - 1; i >= 0; i-- {
		s := segs[i]
		if off > s.start || (off == s.start && !atEnd) || i == 0 {
			local := off - s.start
			if local > len(s.node.Data) {
				local = len(s.node.Data)
			}
			if local < 0 {
				local = 0
			}
			return dom.Position{Node: s.node, Offset: utf8.RuneCountInString(s.node.Data[:local])}
		}
	}
	return dom.Position{}
}

// All returns every match of re in document order.
func (m *Manager) All(re *regexp.Regexp) []Match {
	if re == nil {
		return nil
	}
	lay := m.editor.Layout()
	var out []Match
	for _, leaf := range dom.LeafBlocks(m.editor.Body()) {
		text, segs := paragraphText(leaf)
		if len(segs) == 0 {
			continue
		}
		for _, loc := range re.FindAllStringIndex(text, -1) {
			if loc[0] == loc[1] {
				continue
			}
			r := dom.Range{Start: position(segs, loc[0], false), End: position(segs, loc[1], true)}
			sp, ok1 := lay.PointOf(r.Start)
			ep, ok2 := lay.PointOf(r.End)
			if !ok1 || !ok2 {
				continue
			}
			out = append(out, Match{Range: r, Start: sp, End: ep, Text: text[loc[0]:loc[1]]})
		}
	}
	return out
}

// Next returns the first match starting at or after from, or the last
// match ending at or before from when searching backward. It wraps around.
func (m *Manager) Next(from types.Point, forward bool) (Match, bool) {
	m.mutex.RLock()
	re := m.lastSearchRegex
	m.mutex.RUnlock()

	matches := m.All(re)
	if len(matches) == 0 {
		return Match{}, false
	}
	if forward {
		for _, mt := range matches {
			if !mt.Start.Less(from) {
				return mt, true
			}
		}
		logger.DebugTagf("find", "wrapped to the top")
		return matches[0], true
	}
	for i := len(matches) - 1; i >= 0; i-- {
		if !from.Less(matches[i].End) && matches[i].End != from {
			return matches[i], true
		}
	}
	logger.DebugTagf("find", "wrapped to the bottom")
	return matches[len(matches)-1], true
}

// After returns the first match of re starting at or after from, without
// wrapping.
func (m *Manager) After(re *regexp.Regexp, from types.Point) (Match, bool) {
	for _, mt := range m.All(re) {
		if !mt.Start.Less(from) {
			return mt, true
		}
	}
	return Match{}, false
}

// HighlightMatches records every match of the current search for drawing.
func (m *Manager) HighlightMatches() int {
	m.mutex.RLock()
	re := m.lastSearchRegex
	m.mutex.RUnlock()

	matches := m.All(re)
	m.mutex.Lock()
	m.highlights = matches
	m.mutex.Unlock()
	logger.DebugTagf("find", "highlighting %d match(es) for %q", len(matches), m.Term())
	return len(matches)
}

// Highlights returns the recorded matches.
func (m *Manager) Highlights() []Match {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	return m.highlights
}

// ClearHighlights forgets the recorded matches.
func (m *Manager) ClearHighlights() {
	m.mutex.Lock()
	m.highlights = nil
	m.mutex.Unlock()
}
