package lang

import (
	"errors"
	"fmt"
	"io/fs"
	"path"

	sitter "github.com/smacker/go-tree-sitter"
)

// QueryFS holds the highlight queries, laid out as queries/<QueryPath>/highlights.scm.
var QueryFS fs.FS

// ErrNoQuery is returned when a language has no highlight query to load.
var ErrNoQuery = errors.New("lang: no highlight query")

// Language is a grammar the source view can highlight.
type Language struct {
	Name           string
	TreeSitterLang *sitter.Language
	Extensions     []string
	QueryPath      string // directory under queries/
}

// Query reads the language's highlights.scm from QueryFS.
func (l *Language) Query() ([]byte, error) {
	if QueryFS == nil || l.QueryPath == "" {
		return nil, fmt.Errorf("%s: %w", l.Name, ErrNoQuery)
	}
	src, err := fs.ReadFile(QueryFS, path.Join("queries", l.QueryPath, "highlights.scm"))
	if err != nil {
		return nil, fmt.Errorf("%s: reading highlight query: %w", l.Name, err)
	}
	return src, nil
}
