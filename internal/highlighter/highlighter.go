// Package highlighter colors the HTML source view with tree-sitter.
package highlighter

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/bethropolis/composer/internal/highlighter/lang"
	"github.com/bethropolis/composer/internal/logger"
	sitter "github.com/smacker/go-tree-sitter"
)

// StyledRange is a run of runes on one line drawn with a theme style.
type StyledRange struct {
	StartCol  int
	EndCol    int
	StyleName string
}

// HighlightResult holds computed highlights for efficient lookup during drawing.
// Maps line number -> slice of styled ranges on that line.
type HighlightResult map[int][]StyledRange

// Highlighter service manages parsing and querying syntax trees.
type Highlighter struct {
	parser *sitter.Parser

	mutex   sync.Mutex
	queries map[string]*sitter.Query
}

// NewHighlighter creates a new highlighter instance.
func NewHighlighter() *Highlighter {
	return &Highlighter{
		parser:  sitter.NewParser(),
		queries: make(map[string]*sitter.Query),
	}
}

// query returns the compiled highlight query of l, compiling it once.
func (h *Highlighter) query(l *lang.Language) (*sitter.Query, error) {
	if q, ok := h.queries[l.Name]; ok {
		return q, nil
	}
	src, err := l.Query()
	if err != nil {
		return nil, err
	}
	q, err := sitter.NewQuery(src, l.TreeSitterLang)
	if err != nil {
		return nil, fmt.Errorf("query parse failed for %s: %w", l.Name, err)
	}
	h.queries[l.Name] = q
	return q, nil
}

// Highlight parses source and returns the styled ranges per line.
// NOTE: This is NON-INCREMENTAL. The source view is re-rendered on every
// change anyway.
func (h *Highlighter) Highlight(source []byte, l *lang.Language) (HighlightResult, error) {
	if l == nil || l.TreeSitterLang == nil {
		return nil, fmt.Errorf("no language provided for highlighting")
	}
	h.mutex.Lock()
	defer h.mutex.Unlock()

	h.parser.SetLanguage(l.TreeSitterLang)
	tree, err := h.parser.ParseCtx(context.Background(), nil, source)
	if err != nil {
		logger.Errorf("Tree-sitter parsing error: %v", err)
		return nil, fmt.Errorf("parsing failed: %w", err)
	}
	defer tree.Close()

	query, err := h.query(l)
	if err != nil {
		return nil, err
	}

	lines := bytes.Split(source, []byte("\n"))
	qc := sitter.NewQueryCursor()
	defer qc.Close()
	qc.Exec(query, tree.RootNode())

	highlights := make(HighlightResult)
	for {
		match, exists := qc.NextMatch()
		if !exists {
			break
		}
		for _, capture := range match.Captures {
			style := captureNameToStyleName(query.CaptureNameForId(capture.Index))
			start, end := capture.Node.StartPoint(), capture.Node.EndPoint()
			addRange(highlights, lines, int(start.Row), int(start.Column), int(end.Row), int(end.Column), style)
		}
	}

	logger.Debugf("Highlight: found highlights on %d lines", len(highlights))
	return highlights, nil
}

// addRange records a capture, splitting one that spans lines into a range
// per line.
func addRange(res HighlightResult, lines [][]byte, startRow, startCol, endRow, endCol int, style string) {
	for row := startRow; row <= endRow && row < len(lines); row++ {
		line := lines[row]
		from, to := 0, utf8.RuneCount(line)
		if row == startRow {
			from = byteOffsetToRuneIndex(line, startCol)
		}
		if row == endRow {
			to = byteOffsetToRuneIndex(line, endCol)
		}
		if to <= from {
			continue
		}
		res[row] = append(res[row], StyledRange{StartCol: from, EndCol: to, StyleName: style})
	}
}

// captureNameToStyleName maps Tree-sitter capture names (like @punctuation.bracket)
// to the style names used by our theme system.
func captureNameToStyleName(captureName string) string {
	captureName = strings.TrimPrefix(captureName, "@")
	if dotIndex := strings.Index(captureName, "."); dotIndex != -1 {
		return captureName[:dotIndex]
	}
	return captureName
}

// byteOffsetToRuneIndex converts a byte offset to a rune index in a byte slice.
func byteOffsetToRuneIndex(line []byte, byteOffset int) int {
	if byteOffset <= 0 {
		return 0
	}
	if byteOffset > len(line) {
		byteOffset = len(line)
	}
	runeIndex := 0
	currentOffset := 0
	for currentOffset < byteOffset {
		_, size := utf8.DecodeRune(line[currentOffset:])
		if currentOffset+size > byteOffset {
			break
		}
		currentOffset += size
		runeIndex++
	}
	return runeIndex
}
