package tui

import (
	"strings"
	"testing"

	"github.com/bethropolis/composer/internal/core"
	"github.com/bethropolis/composer/internal/core/find"
	"github.com/bethropolis/composer/internal/dom"
	hl "github.com/bethropolis/composer/internal/highlighter"
	"github.com/bethropolis/composer/internal/theme"
	"github.com/bethropolis/composer/internal/types"
	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"
)

func newSimTUI(t *testing.T, w, h int) (*TUI, tcell.SimulationScreen) {
	t.Helper()
	s := tcell.NewSimulationScreen("UTF-8")
	tui, err := NewWithScreen(s)
	require.NoError(t, err)
	s.SetSize(w, h)
	t.Cleanup(tui.Close)
	return tui, s
}

func row(s tcell.SimulationScreen, y int) string {
	cells, w, _ := s.GetContents()
	var sb strings.Builder
	for x := 0; x < w; x++ {
		if r := cells[y*w+x].Runes; len(r) > 0 {
			sb.WriteRune(r[0])
		}
	}
	return strings.TrimRight(sb.String(), " ")
}

func styleAt(s tcell.SimulationScreen, x, y int) tcell.Style {
	_, _, style, _ := s.GetContent(x, y)
	return style
}

func TestDrawDocument(t *testing.T) {
	tui, s := newSimTUI(t, 20, 4)
	e := core.NewEditor(core.DefaultOptions())
	require.NoError(t, e.LoadHTML(`<p><b>Hi</b> there</p><blockquote type="cite"><p>q</p></blockquote>`, "test"))
	e.SetViewSize(20, 4)

	th := &theme.ComposerDark
	DrawDocument(tui, e, th)
	DrawCursor(tui, e)
	s.Show()

	assert.Equal(t, "Hi there", row(s, 0))
	assert.Equal(t, "> q", row(s, 1))

	_, _, attrs := styleAt(s, 0, 0).Decompose()
	assert.NotZero(t, attrs&tcell.AttrBold)
	_, _, attrs = styleAt(s, 3, 0).Decompose()
	assert.Zero(t, attrs&tcell.AttrBold)
	assert.Equal(t, th.GetStyle("Quote"), styleAt(s, 0, 1))

	x, y, visible := s.GetCursor()
	assert.True(t, visible)
	assert.Equal(t, [2]int{0, 0}, [2]int{x, y})
}

func TestDrawSelectionAndMatches(t *testing.T) {
	tui, s := newSimTUI(t, 20, 3)
	e := core.NewEditor(core.DefaultOptions())
	require.NoError(t, e.LoadHTML("<p>one two one</p>", "test"))
	e.SetViewSize(20, 3)
	e.HighlightMatches("one", find.Options{})
	e.MoveTo(types.Point{X: 4}, false)
	e.MoveTo(types.Point{X: 7}, true)

	th := &theme.ComposerDark
	DrawDocument(tui, e, th)
	s.Show()

	assert.Equal(t, th.GetStyle("SearchHighlight"), styleAt(s, 0, 0))
	assert.Equal(t, th.GetStyle("Selection"), styleAt(s, 5, 0))
	assert.Equal(t, th.GetStyle("SearchHighlight"), styleAt(s, 10, 0))
	assert.Equal(t, th.GetStyle("Default"), styleAt(s, 3, 0))
}

type fakeSource struct {
	lines []string
}

func (f fakeSource) Lines() []string { return f.lines }

func (f fakeSource) GetHighlightsForLine(line int) []hl.StyledRange {
	if line == 0 {
		return []hl.StyledRange{{StartCol: 1, EndCol: 2, StyleName: "tag"}}
	}
	return nil
}

func TestDrawSource(t *testing.T) {
	tui, s := newSimTUI(t, 12, 3)
	th := &theme.ComposerDark
	src := fakeSource{lines: []string{"<p>", "\tx", "</p>"}}

	DrawSource(tui, src, 0, 2, th)
	s.Show()

	assert.Equal(t, "<p>", row(s, 0))
	assert.Equal(t, "    x", row(s, 1))
	assert.Equal(t, "", row(s, 2))
	assert.Equal(t, th.GetStyle("tag"), styleAt(s, 1, 0))
	assert.Equal(t, th.GetStyle("Default"), styleAt(s, 0, 0))

	_, _, visible := s.GetCursor()
	assert.False(t, visible)
}

func TestNodeStyle(t *testing.T) {
	th := &theme.ComposerDark
	body, err := dom.Parse(`<p><a href="x"><i>link</i></a><font color="#ff0000">red</font></p>`)
	require.NoError(t, err)

	link := dom.FindFirst(body, func(n *html.Node) bool { return dom.IsText(n) && n.Data == "link" })
	_, _, attrs := NodeStyle(link, th).Decompose()
	assert.NotZero(t, attrs&tcell.AttrItalic)
	assert.NotZero(t, attrs&tcell.AttrUnderline)

	red := dom.FindFirst(body, func(n *html.Node) bool { return dom.IsText(n) && n.Data == "red" })
	fg, _, _ := NodeStyle(red, th).Decompose()
	assert.Equal(t, tcell.NewHexColor(0xff0000), fg)

	assert.Equal(t, th.GetStyle("Default"), NodeStyle(nil, th))
}
