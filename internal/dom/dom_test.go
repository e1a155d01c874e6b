package dom

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

func mustBody(t *testing.T, inner string) *html.Node {
	t.Helper()
	doc, err := Parse("<html><head></head><body>" + inner + "</body></html>")
	require.NoError(t, err)
	body := Body(doc)
	require.NotNil(t, body)
	return body
}

func firstText(n *html.Node) *html.Node {
	return FindFirst(n, IsText)
}

func TestParseWrapsStrayInline(t *testing.T) {
	body := mustBody(t, "hello<div>x</div>\n  ")
	assert.Equal(t, "<div>hello</div><div>x</div>", InnerHTML(body))
}

func TestParseEmptyBodyGetsParagraph(t *testing.T) {
	body := mustBody(t, "")
	assert.Equal(t, "<div></div>", InnerHTML(body))
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		name  string
		build func() *html.Node
		want  string
	}{
		{
			name: "merges text and drops empty formatting",
			build: func() *html.Node {
				div := NewElement(atom.Div)
				div.AppendChild(NewText("a"))
				div.AppendChild(NewText("b"))
				div.AppendChild(NewElement(atom.B))
				i1 := NewElement(atom.I)
				i1.AppendChild(NewText("c"))
				i2 := NewElement(atom.I)
				i2.AppendChild(NewText("d"))
				div.AppendChild(i1)
				div.AppendChild(i2)
				return div
			},
			want: "ab<i>cd</i>",
		},
		{
			name: "keeps a lone placeholder",
			build: func() *html.Node {
				div := NewElement(atom.Div)
				b := NewElement(atom.B)
				b.AppendChild(NewText(ZWSP))
				div.AppendChild(b)
				return div
			},
			want: "<b>" + ZWSP + "</b>",
		},
		{
			name: "strips placeholder next to text",
			build: func() *html.Node {
				div := NewElement(atom.Div)
				div.AppendChild(NewText("a" + ZWSP))
				div.AppendChild(NewText("b"))
				return div
			},
			want: "ab",
		},
		{
			name: "flattens nested blocks",
			build: func() *html.Node {
				li := NewElement(atom.Li)
				for _, s := range []string{"one", "two"} {
					d := NewElement(atom.Div)
					d.AppendChild(NewText(s))
					li.AppendChild(d)
				}
				return li
			},
			want: "one<br/>two",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := tt.build()
			Normalize(n)
			assert.Equal(t, tt.want, InnerHTML(n))
		})
	}
}

func TestNormalizeMergesListsAndIndents(t *testing.T) {
	body := mustBody(t, `<ul><li>a</li></ul><ul><li>b</li></ul>`+
		`<div class="-x-evo-indented"><div>c</div></div><div class="-x-evo-indented"><div>d</div></div>`)
	assert.Equal(t, `<ul><li>a</li><li>b</li></ul><div class="-x-evo-indented"><div>c</div><div>d</div></div>`,
		InnerHTML(body))
}

func TestSplitBefore(t *testing.T) {
	body := mustBody(t, "<div>ab<b>cd</b></div>")
	cd := FindFirst(body, func(n *html.Node) bool { return IsText(n) && n.Data == "cd" })
	right := SplitText(cd, 1)

	top := SplitBefore(right, body, false)
	assert.Equal(t, "<div>ab<b>c</b></div><div><b>d</b></div>", InnerHTML(body))
	assert.Equal(t, body.LastChild, top)
}

func TestSplitBeforeForce(t *testing.T) {
	body := mustBody(t, "<div>abc</div>")
	top := SplitBefore(firstText(body), body, true)
	assert.Equal(t, "<div></div><div>abc</div>", InnerHTML(body))
	assert.Equal(t, body.LastChild, top)
}

func TestIsolate(t *testing.T) {
	body := mustBody(t, "<ul><li>1</li><li>2</li><li>3</li></ul>")
	li2 := ChildAt(body.FirstChild, 1)

	top := Isolate(li2, body)
	assert.Equal(t, "<ul><li>1</li></ul><ul><li>2</li></ul><ul><li>3</li></ul>", InnerHTML(body))
	assert.Equal(t, li2, top.FirstChild)
}

func TestDeleteContentsInline(t *testing.T) {
	body := mustBody(t, "<div>hello world</div>")
	txt := firstText(body)

	start, end := InsertMarkers(Range{Start: Position{txt, 2}, End: Position{txt, 7}})
	frag := DeleteContents(start, end)

	assert.Equal(t, "llo w", Render(frag))
	assert.Nil(t, start.Parent)
	RemoveMarkers(body)
	Normalize(body)
	assert.Equal(t, "<div>heorld</div>", InnerHTML(body))
}

func TestDeleteContentsAcrossBlocks(t *testing.T) {
	body := mustBody(t, `<div>abc</div><blockquote type="cite"><div>def</div><div>ghi</div></blockquote>`)
	texts := FindAll(body, IsText)
	require.Len(t, texts, 3)

	start, end := InsertMarkers(Range{Start: Position{texts[0], 1}, End: Position{texts[2], 1}})
	frag := DeleteContents(start, end)

	assert.Equal(t, "bc<div>def</div>g", Render(frag))
	assert.Equal(t, body.FirstChild, LeafBlock(end))
	RemoveMarkers(body)
	Normalize(body)
	assert.Equal(t, "<div>ahi</div>", InnerHTML(body))
}

func TestDeleteContentsEmptyStartBlockGivesWay(t *testing.T) {
	body := mustBody(t, "<h1></h1><div>abc</div>")
	h1 := body.FirstChild

	start, end := InsertMarkers(Range{Start: Position{h1, 0}, End: Position{firstText(body), 0}})
	DeleteContents(start, end)
	RemoveMarkers(body)
	Normalize(body)
	assert.Equal(t, "<div>abc</div>", InnerHTML(body))
}

func TestCompare(t *testing.T) {
	body := mustBody(t, "<div>ab</div><div>cd</div>")
	ab := firstText(body.FirstChild)
	cd := firstText(body.LastChild)

	assert.Equal(t, -1, Compare(Position{ab, 1}, Position{cd, 0}))
	assert.Equal(t, 1, Compare(Position{ab, 2}, Position{ab, 1}))
	assert.Equal(t, 0, Compare(Position{ab, 1}, Position{ab, 1}))
	assert.Equal(t, -1, Compare(Position{body, 1}, Position{cd, 0}))
	assert.Equal(t, 1, Compare(Position{body, 2}, Position{cd, 2}))
}

func TestNodeBefore(t *testing.T) {
	body := mustBody(t, `<div>a<img src="x.png"/><b>bc</b></div>`)
	div := body.FirstChild
	img := ChildAt(div, 1)

	assert.Equal(t, img, NodeBefore(Position{div, 2}))
	bc := firstText(ChildAt(div, 2))
	assert.Equal(t, img, NodeBefore(Position{bc, 0}))
	assert.Equal(t, bc, NodeBefore(Position{div, 3}))
	assert.Nil(t, NodeBefore(Position{div, 0}))
}

func TestRegionReplace(t *testing.T) {
	body := mustBody(t, "<div>a</div><div>b</div><div>c</div>")
	b := ChildAt(body, 1)

	r, err := NewRegion(body, b, b)
	require.NoError(t, err)
	before := r.Snapshot(body)

	x, y := NewElement(atom.P), NewElement(atom.P)
	ReplaceWith(b, x, y)
	require.NoError(t, r.Seal(body))
	assert.Equal(t, 2, r.Count)

	old, err := r.Replace(body, before)
	require.NoError(t, err)
	assert.Len(t, old, 2)
	assert.Equal(t, "<div>a</div><div>b</div><div>c</div>", InnerHTML(body))
	assert.Equal(t, 1, r.Count)
}

func TestRegionOutOfRange(t *testing.T) {
	body := mustBody(t, "<div>a</div>")
	r := &Region{Index: 3, Count: 1}
	_, err := r.Nodes(body)
	assert.ErrorIs(t, err, ErrNoPosition)
}

func TestSetBodyAttributes(t *testing.T) {
	doc, err := Parse(`<html><head></head><body bgcolor="#ffffff"><div>x</div></body></html>`)
	require.NoError(t, err)

	SetBodyAttributes(doc, []html.Attribute{{Key: "text", Val: "#000000"}, {Key: "link", Val: "#0000ff"}})

	attrs := BodyAttributes(doc)
	assert.Equal(t, []html.Attribute{{Key: "link", Val: "#0000ff"}, {Key: "text", Val: "#000000"}}, attrs)
	style := ByID(Head(doc), LinkStyleID)
	require.NotNil(t, style)
	assert.Equal(t, "a { color: #0000ff; }", TextContent(style))

	SetBodyAttributes(doc, nil)
	assert.Empty(t, BodyAttributes(doc))
	assert.Nil(t, ByID(Head(doc), LinkStyleID))
}
