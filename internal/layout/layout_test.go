package layout

import (
	"strings"
	"testing"

	"github.com/bethropolis/composer/internal/dom"
	"github.com/bethropolis/composer/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"
)

func body(t *testing.T, inner string) *html.Node {
	t.Helper()
	doc, err := dom.Parse("<html><head></head><body>" + inner + "</body></html>")
	require.NoError(t, err)
	return dom.Body(doc)
}

func text(root *html.Node, s string) *html.Node {
	return dom.FindFirst(root, func(n *html.Node) bool { return dom.IsText(n) && n.Data == s })
}

func TestBuildPrefixes(t *testing.T) {
	b := body(t, `<div>ab</div><blockquote type="cite"><div>cd</div><blockquote type="cite"><div>ef</div></blockquote></blockquote>`+
		`<ul><li>x</li></ul><ol><li>y</li><li>z</li></ol><div class="-x-evo-indented"><div>in</div></div>`)
	l := Build(b)
	assert.Equal(t, "ab\n> cd\n> > ef\n* x\n1. y\n2. z\n    in", l.String())
}

func TestBuildBreaksAndRules(t *testing.T) {
	b := body(t, `<div>a<br/>b</div><hr/><div>c</div>`)
	l := Build(b)
	require.Len(t, l.Lines, 4)
	assert.True(t, l.Lines[2].Rule)
	assert.Empty(t, l.Lines[2].Stops)
	assert.Equal(t, "a\nb\n"+strings.Repeat("─", ruleWidth)+"\nc", l.String())
}

func TestPositionAtBias(t *testing.T) {
	b := body(t, `<div>a<b>bc</b>d</div>`)
	l := Build(b)
	a, bc := text(b, "a"), text(b, "bc")

	pt := types.Point{X: 1, Y: 0}
	p, ok := l.PositionAt(pt, BiasCaret)
	assert.True(t, ok)
	assert.Equal(t, dom.Position{Node: a, Offset: 1}, p)

	p, _ = l.PositionAt(pt, BiasStart)
	assert.Equal(t, dom.Position{Node: bc, Offset: 0}, p)

	p, _ = l.PositionAt(pt, BiasEnd)
	assert.Equal(t, dom.Position{Node: a, Offset: 1}, p)

	_, ok = l.PositionAt(types.Point{X: 10, Y: 0}, BiasCaret)
	assert.False(t, ok)
}

func TestPositionAtPrefersPlaceholder(t *testing.T) {
	b := body(t, `<div>a<b>`+dom.ZWSP+`</b></div>`)
	l := Build(b)
	z := text(b, dom.ZWSP)

	p, _ := l.PositionAt(types.Point{X: 1, Y: 0}, BiasCaret)
	assert.Equal(t, dom.Position{Node: z, Offset: 1}, p)
}

func TestPointOf(t *testing.T) {
	b := body(t, `<div>a<b>bc</b>d</div><div>e</div>`)
	l := Build(b)
	div := b.FirstChild

	pt, ok := l.PointOf(dom.Position{Node: text(b, "bc"), Offset: 1})
	assert.True(t, ok)
	assert.Equal(t, types.Point{X: 2, Y: 0}, pt)

	pt, _ = l.PointOf(dom.Position{Node: div, Offset: 3})
	assert.Equal(t, types.Point{X: 4, Y: 0}, pt)

	// container positions resolve forward to the next stop
	pt, _ = l.PointOf(dom.Position{Node: b, Offset: 1})
	assert.Equal(t, types.Point{X: 0, Y: 1}, pt)
}

func TestMotion(t *testing.T) {
	b := body(t, `<div>ab</div><hr/><div>日本</div>`)
	l := Build(b)

	assert.Equal(t, types.Point{X: 2, Y: 0}, l.Left(types.Point{X: 0, Y: 2}))
	assert.Equal(t, types.Point{X: 0, Y: 2}, l.Right(types.Point{X: 2, Y: 0}))
	assert.Equal(t, types.Point{X: 2, Y: 2}, l.Right(types.Point{X: 0, Y: 2}))
	assert.Equal(t, types.Point{X: 2, Y: 2}, l.Down(types.Point{X: 2, Y: 0}))
	assert.Equal(t, types.Point{X: 0, Y: 2}, l.Down(types.Point{X: 1, Y: 0}))
	assert.Equal(t, types.Point{X: 2, Y: 0}, l.Up(types.Point{X: 3, Y: 2}))
	assert.Equal(t, types.Point{X: 0, Y: 0}, l.Start())
	assert.Equal(t, types.Point{X: 4, Y: 2}, l.End())
}

func TestWordMotion(t *testing.T) {
	b := body(t, `<div>hello big world</div><div>next</div>`)
	l := Build(b)

	assert.Equal(t, types.Point{X: 6, Y: 0}, l.WordLeft(types.Point{X: 9, Y: 0}))
	assert.Equal(t, types.Point{X: 0, Y: 0}, l.WordLeft(types.Point{X: 3, Y: 0}))
	assert.Equal(t, types.Point{X: 5, Y: 0}, l.WordRight(types.Point{X: 0, Y: 0}))
	assert.Equal(t, types.Point{X: 0, Y: 1}, l.WordRight(types.Point{X: 15, Y: 0}))
	assert.Equal(t, types.Point{X: 15, Y: 0}, l.WordLeft(types.Point{X: 0, Y: 1}))
}
