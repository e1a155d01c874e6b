// Package layout lays a document body out on a grid of terminal cells and
// maps DOM positions to cell points and back.
//
// Every leaf block starts a new line; <br> breaks a line. Lines are not
// soft-wrapped. A caret can rest on any Stop; several stops share a point
// where positions are visually equivalent, e.g. before and after </b>.
package layout

import (
	"sort"
	"strconv"
	"strings"

	"github.com/bethropolis/composer/internal/dom"
	"github.com/bethropolis/composer/internal/types"
	"github.com/mattn/go-runewidth"
	"github.com/rivo/uniseg"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Bias picks among positions that share one point.
type Bias int

const (
	// BiasCaret prefers a placeholder run, then the end of preceding text.
	BiasCaret Bias = iota
	// BiasStart picks the innermost position leading into following content.
	BiasStart
	// BiasEnd picks the position closing preceding content.
	BiasEnd
)

const ruleWidth = 40

// Cell is one grapheme cluster (or a chunk of an atomic element's label).
type Cell struct {
	X     int
	Width int
	Text  string
	Node  *html.Node // text node or atomic element the cell shows
}

// Stop is a caret position on a line.
type Stop struct {
	X   int
	Pos dom.Position
}

// Line is one row of the layout.
type Line struct {
	Prefix string
	Indent int
	Block  *html.Node
	Rule   bool
	Cells  []Cell
	Stops  []Stop
}

// End returns the x just past the last cell.
func (l *Line) End() int {
	if len(l.Cells) == 0 {
		return l.Indent
	}
	c := l.Cells[len(l.Cells)-1]
	return c.X + c.Width
}

// Text renders the line as plain text including its prefix.
func (l *Line) Text() string {
	var sb strings.Builder
	sb.WriteString(l.Prefix)
	for _, c := range l.Cells {
		sb.WriteString(c.Text)
	}
	return sb.String()
}

type flatStop struct {
	Stop
	Y int
}

// Layout is the laid-out document.
type Layout struct {
	Lines []Line

	index map[dom.Position]types.Point
	flat  []flatStop
}

type builder struct {
	lay  *Layout
	cur  *Line
	cont string
	pre  bool
}

// Build lays out the blocks below body.
func Build(body *html.Node) *Layout {
	b := &builder{lay: &Layout{}}
	if body != nil {
		b.blocks(body, "")
	}
	b.lay.index = make(map[dom.Position]types.Point)
	for y := range b.lay.Lines {
		for _, s := range b.lay.Lines[y].Stops {
			p := types.Point{X: s.X, Y: y}
			if _, dup := b.lay.index[s.Pos]; !dup {
				b.lay.index[s.Pos] = p
			}
			b.lay.flat = append(b.lay.flat, flatStop{Stop: s, Y: y})
		}
	}
	return b.lay
}

func (b *builder) newLine(block *html.Node, prefix string) {
	b.lay.Lines = append(b.lay.Lines, Line{
		Prefix: prefix,
		Indent: runewidth.StringWidth(prefix),
		Block:  block,
	})
	b.cur = &b.lay.Lines[len(b.lay.Lines)-1]
}

func (b *builder) x() int {
	return b.cur.End()
}

func (b *builder) stop(p dom.Position) {
	b.cur.Stops = append(b.cur.Stops, Stop{X: b.x(), Pos: p})
}

func (b *builder) cell(text string, width int, n *html.Node) {
	b.cur.Cells = append(b.cur.Cells, Cell{X: b.x(), Width: width, Text: text, Node: n})
}

func (b *builder) blocks(n *html.Node, prefix string) {
	for ch := n.FirstChild; ch != nil; ch = ch.NextSibling {
		b.block(ch, prefix)
	}
}

func (b *builder) block(n *html.Node, prefix string) {
	switch {
	case dom.IsCitation(n):
		b.blocks(n, prefix+"> ")
	case dom.IsIndent(n):
		b.blocks(n, prefix+"    ")
	case dom.IsElement(n, atom.Ul, atom.Ol):
		b.list(n, prefix)
	case dom.IsElement(n, atom.Hr):
		b.newLine(n, prefix)
		b.cur.Rule = true
		for i := 0; i < ruleWidth; i++ {
			b.cell("─", 1, n)
		}
	case dom.IsTableCell(n):
		b.leaf(n, prefix+"| ", prefix+"| ")
	case dom.IsLeafBlock(n):
		b.leaf(n, prefix, prefix)
	case dom.IsContainer(n):
		b.blocks(n, prefix)
	}
}

func (b *builder) list(n *html.Node, prefix string) {
	num := 1
	for ch := n.FirstChild; ch != nil; ch = ch.NextSibling {
		if !dom.IsElement(ch, atom.Li) {
			b.block(ch, prefix+"  ")
			continue
		}
		marker := "* "
		if dom.IsElement(n, atom.Ol) {
			marker = strconv.Itoa(num) + ". "
		}
		b.leaf(ch, prefix+marker, prefix+strings.Repeat(" ", runewidth.StringWidth(marker)))
		num++
	}
}

func (b *builder) leaf(n *html.Node, first, rest string) {
	b.newLine(n, first)
	b.cont = rest
	b.pre = dom.IsElement(n, atom.Pre)
	b.children(n)
}

func (b *builder) children(n *html.Node) {
	i := 0
	b.stop(dom.Position{Node: n, Offset: 0})
	for ch := n.FirstChild; ch != nil; ch = ch.NextSibling {
		b.inline(ch)
		i++
		b.stop(dom.Position{Node: n, Offset: i})
	}
}

func (b *builder) inline(n *html.Node) {
	switch {
	case dom.IsText(n):
		b.text(n)
	case dom.IsElement(n, atom.Br):
		b.newLine(b.cur.Block, b.cont)
	case dom.IsMarker(n):
	case dom.IsElement(n, atom.Img):
		label := dom.Attr(n, "alt")
		if label == "" {
			label = "image"
		}
		b.label("["+label+"]", n)
	case dom.IsSmiley(n):
		b.label(dom.TextContent(n), n)
	case dom.IsElement(n):
		b.children(n)
	}
}

func (b *builder) label(s string, n *html.Node) {
	g := uniseg.NewGraphemes(s)
	for g.Next() {
		if w := runewidth.StringWidth(g.Str()); w > 0 {
			b.cell(g.Str(), w, n)
		}
	}
}

func (b *builder) text(t *html.Node) {
	off := 0
	g := uniseg.NewGraphemes(t.Data)
	for g.Next() {
		cluster := g.Str()
		b.stop(dom.Position{Node: t, Offset: off})
		off += len(g.Runes())
		switch {
		case cluster == "\n" || cluster == "\r\n":
			if b.pre {
				b.newLine(b.cur.Block, b.cont)
			} else {
				b.cell(" ", 1, t)
			}
		case cluster == "\t":
			b.cell("    ", 4, t)
		default:
			if w := runewidth.StringWidth(cluster); w > 0 {
				b.cell(cluster, w, t)
			}
		}
	}
	b.stop(dom.Position{Node: t, Offset: off})
}

// String renders the whole layout as plain text, one line per row.
func (l *Layout) String() string {
	lines := make([]string, len(l.Lines))
	for i := range l.Lines {
		lines[i] = strings.TrimRight(l.Lines[i].Text(), " ")
	}
	return strings.Join(lines, "\n")
}

// PointOf maps a position to its point. Positions that are not stops
// resolve to the first stop at or after them.
func (l *Layout) PointOf(p dom.Position) (types.Point, bool) {
	if pt, ok := l.index[p]; ok {
		return pt, true
	}
	if len(l.flat) == 0 || p.Node == nil {
		return types.Point{}, false
	}
	i := sort.Search(len(l.flat), func(i int) bool {
		return dom.Compare(l.flat[i].Pos, p) >= 0
	})
	if i == len(l.flat) {
		i--
	}
	s := l.flat[i]
	return types.Point{X: s.X, Y: s.Y}, true
}

// lineWithStops finds the nearest line at or around y that has stops,
// looking down first.
func (l *Layout) lineWithStops(y int) int {
	if y < 0 {
		y = 0
	}
	if y >= len(l.Lines) {
		y = len(l.Lines) - 1
	}
	for i := y; i < len(l.Lines); i++ {
		if len(l.Lines[i].Stops) > 0 {
			return i
		}
	}
	for i := y - 1; i >= 0; i-- {
		if len(l.Lines[i].Stops) > 0 {
			return i
		}
	}
	return -1
}

// nearestX returns the stop x on line y closest to x from the left, or
// the first x when every stop is to the right.
func (l *Layout) nearestX(y, x int) int {
	stops := l.Lines[y].Stops
	best := stops[0].X
	for _, s := range stops {
		if s.X <= x {
			best = s.X
		}
	}
	return best
}

// PositionAt resolves a point to a position. The second result is false
// when the point had to be moved to the nearest stop.
func (l *Layout) PositionAt(pt types.Point, bias Bias) (dom.Position, bool) {
	if len(l.Lines) == 0 {
		return dom.Position{}, false
	}
	y := l.lineWithStops(pt.Y)
	if y < 0 {
		return dom.Position{}, false
	}
	x := l.nearestX(y, pt.X)
	exact := y == pt.Y && x == pt.X

	var cands []dom.Position
	for _, s := range l.Lines[y].Stops {
		if s.X == x {
			cands = append(cands, s.Pos)
		}
	}

	switch bias {
	case BiasStart:
		return cands[len(cands)-1], exact
	case BiasEnd:
		return cands[0], exact
	}
	for _, p := range cands {
		if dom.IsText(p.Node) && p.Node.Data == dom.ZWSP && p.Offset == 1 {
			return p, exact
		}
	}
	for _, p := range cands {
		if dom.IsText(p.Node) {
			return p, exact
		}
	}
	return cands[0], exact
}

// Start is the first caret point of the document.
func (l *Layout) Start() types.Point {
	if len(l.flat) == 0 {
		return types.Point{}
	}
	return types.Point{X: l.flat[0].X, Y: l.flat[0].Y}
}

// End is the last caret point of the document.
func (l *Layout) End() types.Point {
	if len(l.flat) == 0 {
		return types.Point{}
	}
	s := l.flat[len(l.flat)-1]
	return types.Point{X: s.X, Y: s.Y}
}
