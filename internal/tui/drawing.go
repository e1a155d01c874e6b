package tui

import (
	"strconv"
	"strings"

	"github.com/bethropolis/composer/internal/core/find"
	"github.com/bethropolis/composer/internal/dom"
	hl "github.com/bethropolis/composer/internal/highlighter"
	"github.com/bethropolis/composer/internal/layout"
	"github.com/bethropolis/composer/internal/logger"
	"github.com/bethropolis/composer/internal/theme"
	"github.com/bethropolis/composer/internal/types"
	"github.com/gdamore/tcell/v2"
	"github.com/rivo/uniseg"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// DocumentView is what the document view needs from the editor.
type DocumentView interface {
	Layout() *layout.Layout
	Viewport() types.Viewport
	Selection() types.SelectionState
	Caret() types.Point
	Highlights() []find.Match
}

// SourceView is what the source view needs from the highlighter.
type SourceView interface {
	Lines() []string
	GetHighlightsForLine(line int) []hl.StyledRange
}

func within(p types.Point, start, end types.Point) bool {
	return !p.Less(start) && p.Less(end)
}

func quoteStyle(th *theme.Theme, depth int) tcell.Style {
	if depth <= 1 {
		return th.GetStyle("Quote")
	}
	return th.GetStyle("Quote." + strconv.Itoa(depth))
}

// NodeStyle derives the style of content shown for n from its ancestors.
func NodeStyle(n *html.Node, th *theme.Theme) tcell.Style {
	style := th.GetStyle("Default")
	if n == nil {
		return style
	}
	if d := dom.Depth(n); d > 0 {
		style = quoteStyle(th, d)
	}

	// Outermost first so inner elements win.
	var chain []*html.Node
	for a := n; a != nil && !dom.IsElement(a, atom.Body); a = a.Parent {
		chain = append(chain, a)
	}
	for i := len(chain) - 1; i >= 0; i-- {
		a := chain[i]
		if a.Type != html.ElementNode {
			continue
		}
		switch a.DataAtom {
		case atom.H1, atom.H2, atom.H3, atom.H4, atom.H5, atom.H6:
			style = th.GetStyle("Heading")
		case atom.Pre:
			style = th.GetStyle("Pre")
		case atom.Hr:
			style = th.GetStyle("Rule")
		case atom.B, atom.Strong:
			style = style.Bold(true)
		case atom.I, atom.Em:
			style = style.Italic(true)
		case atom.U:
			style = style.Underline(true)
		case atom.S, atom.Strike, atom.Del:
			style = style.StrikeThrough(true)
		case atom.Tt, atom.Code:
			style = mergeFg(style, th.GetStyle("Monospace"))
		case atom.A:
			style = mergeFg(style, th.GetStyle("Link")).Underline(true)
		case atom.Img:
			style = th.GetStyle("Image")
		case atom.Font:
			if c := dom.Attr(a, "color"); c != "" {
				if color, err := theme.ParseColor(c); err == nil {
					style = style.Foreground(color)
				}
			}
		case atom.Span:
			if dom.IsSmiley(a) {
				style = th.GetStyle("Smiley")
			}
		}
	}
	return style
}

func mergeFg(style, from tcell.Style) tcell.Style {
	fg, _, _ := from.Decompose()
	return style.Foreground(fg)
}

func setCluster(s tcell.Screen, x, y int, text string, style tcell.Style) {
	g := uniseg.NewGraphemes(text)
	for g.Next() {
		runes := g.Runes()
		s.SetContent(x, y, runes[0], runes[1:], style)
		x += g.Width()
	}
}

// DrawDocument draws the visible part of the laid-out document.
func DrawDocument(t *TUI, doc DocumentView, th *theme.Theme) {
	if th == nil {
		logger.Warnf("DrawDocument called with nil theme, using package default.")
		th = theme.GetCurrentTheme()
	}
	defaultStyle := th.GetStyle("Default")
	prefixStyle := th.GetStyle("Prefix")
	selectionStyle := th.GetStyle("Selection")
	searchStyle := th.GetStyle("SearchHighlight")

	lay := doc.Layout()
	view := doc.Viewport()
	sel := doc.Selection()
	matches := doc.Highlights()
	width := view.Width
	if width <= 0 || view.Height <= 0 || lay == nil {
		return
	}

	for screenY := 0; screenY < view.Height; screenY++ {
		y := view.Top + screenY
		for x := 0; x < width; x++ {
			t.screen.SetContent(x, screenY, ' ', nil, defaultStyle)
		}
		if y < 0 || y >= len(lay.Lines) {
			continue
		}
		line := &lay.Lines[y]

		// Prefix: quote markers, list bullets, indentation, cell bars.
		if line.Prefix != "" {
			ps := prefixStyle
			if strings.Contains(line.Prefix, ">") {
				ps = quoteStyle(th, strings.Count(line.Prefix, ">"))
			}
			x := 0
			g := uniseg.NewGraphemes(line.Prefix)
			for g.Next() {
				sx := x - view.Left
				if sx >= 0 && sx < width {
					runes := g.Runes()
					t.screen.SetContent(sx, screenY, runes[0], runes[1:], ps)
				}
				x += g.Width()
			}
		}

		var lineMatches []find.Match
		for _, m := range matches {
			if m.Start.Y <= y && m.End.Y >= y {
				lineMatches = append(lineMatches, m)
			}
		}

		for _, c := range line.Cells {
			sx := c.X - view.Left
			if sx+c.Width <= 0 || sx >= width {
				continue
			}
			p := types.Point{X: c.X, Y: y}
			style := NodeStyle(c.Node, th)
			for _, m := range lineMatches {
				if within(p, m.Start, m.End) {
					style = searchStyle
					break
				}
			}
			if !sel.Collapsed() && within(p, sel.Start, sel.End) {
				style = selectionStyle
			}
			if sx < 0 {
				continue
			}
			setCluster(t.screen, sx, screenY, c.Text, style)
		}
	}
}

// DrawCursor places the terminal cursor at the caret, or hides it when the
// caret is off screen.
func DrawCursor(t *TUI, doc DocumentView) {
	view := doc.Viewport()
	p := view.ToScreen(doc.Caret())
	if p.X < 0 || p.Y < 0 || p.X >= view.Width || p.Y >= view.Height {
		t.screen.HideCursor()
		return
	}
	t.screen.ShowCursor(p.X, p.Y)
}

// DrawSource draws the highlighted HTML source from line top.
func DrawSource(t *TUI, src SourceView, top, height int, th *theme.Theme) {
	if th == nil {
		th = theme.GetCurrentTheme()
	}
	defaultStyle := th.GetStyle("Default")
	width, _ := t.Size()
	lines := src.Lines()

	for screenY := 0; screenY < height; screenY++ {
		for x := 0; x < width; x++ {
			t.screen.SetContent(x, screenY, ' ', nil, defaultStyle)
		}
		idx := top + screenY
		if idx < 0 || idx >= len(lines) {
			continue
		}
		ranges := src.GetHighlightsForLine(idx)
		x, col := 0, 0
		g := uniseg.NewGraphemes(lines[idx])
		for g.Next() && x < width {
			runes := g.Runes()
			style := defaultStyle
			for _, r := range ranges {
				if col >= r.StartCol && col < r.EndCol {
					style = th.GetStyle(r.StyleName)
					break
				}
			}
			if runes[0] == '\t' {
				for i := 0; i < 4 && x < width; i++ {
					t.screen.SetContent(x, screenY, ' ', nil, style)
					x++
				}
			} else {
				t.screen.SetContent(x, screenY, runes[0], runes[1:], style)
				x += g.Width()
			}
			col += len(runes)
		}
	}
	t.screen.HideCursor()
}
