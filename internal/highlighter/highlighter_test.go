package highlighter

import (
	"testing"

	"github.com/bethropolis/composer/internal/highlighter/lang"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func styleAt(ranges []StyledRange, col int) string {
	for _, r := range ranges {
		if col >= r.StartCol && col < r.EndCol {
			return r.StyleName
		}
	}
	return ""
}

func TestHighlightHTML(t *testing.T) {
	RegisterLanguages()
	html := lang.GetByName("html")
	require.NotNil(t, html)
	assert.Same(t, html, lang.GetForFile("draft.HTM"))

	src := "<p class=\"x\">hé</p>\n<!-- note -->"
	res, err := NewHighlighter().Highlight([]byte(src), html)
	require.NoError(t, err)

	line := res[0]
	assert.Equal(t, "punctuation", styleAt(line, 0))
	assert.Equal(t, "tag", styleAt(line, 1))
	assert.Equal(t, "attribute", styleAt(line, 3))
	assert.Equal(t, "operator", styleAt(line, 8))
	assert.Equal(t, "string", styleAt(line, 9))
	assert.Equal(t, "", styleAt(line, 13))
	// columns count runes, so the closing tag follows the two-rune text
	assert.Equal(t, "tag", styleAt(line, 17))
	assert.Equal(t, "comment", styleAt(res[1], 0))
}

func TestHighlightWithoutLanguage(t *testing.T) {
	_, err := NewHighlighter().Highlight([]byte("<p>"), nil)
	assert.Error(t, err)
}

func TestCaptureNames(t *testing.T) {
	assert.Equal(t, "punctuation", captureNameToStyleName("@punctuation.bracket"))
	assert.Equal(t, "tag", captureNameToStyleName("tag"))
	assert.Equal(t, 2, byteOffsetToRuneIndex([]byte("hé!"), 3))
}

func TestMissingQuery(t *testing.T) {
	RegisterLanguages()
	_, err := (&lang.Language{Name: "plain"}).Query()
	assert.ErrorIs(t, err, lang.ErrNoQuery)

	_, err = (&lang.Language{Name: "css", QueryPath: "css"}).Query()
	assert.Error(t, err)
}
