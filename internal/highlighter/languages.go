package highlighter

import (
	"embed"

	"github.com/bethropolis/composer/internal/highlighter/lang"
	"github.com/bethropolis/composer/internal/logger"

	htmlsrc "github.com/smacker/go-tree-sitter/html"
)

//go:embed queries/*/*.scm
var embeddedQueries embed.FS

// RegisterLanguages makes the source view grammars available.
func RegisterLanguages() {
	if lang.QueryFS == nil {
		lang.QueryFS = embeddedQueries
	}

	lang.Register(&lang.Language{
		Name:           "HTML",
		TreeSitterLang: htmlsrc.GetLanguage(),
		Extensions:     []string{".html", ".htm", ".xhtml"},
		QueryPath:      "html",
	})

	logger.Debugf("Registration complete. Registered %d languages.", len(lang.GetAll()))
}
