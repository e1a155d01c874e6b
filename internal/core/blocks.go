package core

import (
	"github.com/bethropolis/composer/internal/core/history"
	"github.com/bethropolis/composer/internal/dom"
	"github.com/mattn/go-runewidth"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

func newIndent() *html.Node {
	return dom.NewElement(atom.Div, html.Attribute{Key: "class", Val: dom.ClassIndented})
}

// indentLevel counts the indentation wrappers around n.
func indentLevel(n *html.Node) int {
	level := 0
	for ; n != nil; n = n.Parent {
		if dom.IsIndent(n) {
			level++
		}
	}
	return level
}

// IndentLevel returns the indentation of the caret's paragraph.
func (e *Editor) IndentLevel() int {
	_, leaf, err := e.caretLeaf()
	if err != nil {
		return 0
	}
	return indentLevel(leaf)
}

// Indent indents every paragraph touched by the selection by one level.
func (e *Editor) Indent() error {
	return e.indent(true)
}

// Unindent removes one level of indentation from the selected paragraphs.
func (e *Editor) Unindent() error {
	return e.indent(false)
}

func (e *Editor) indent(in bool) error {
	if err := e.editable(); err != nil {
		return err
	}
	r, err := e.selectedRange()
	if err != nil {
		return err
	}
	leaves := e.leavesIn(r)
	if len(leaves) == 0 {
		return ErrNoSelection
	}
	from := indentLevel(leaves[0])
	if !in && from == 0 {
		return nil
	}
	before := e.Selection()

	start, end := dom.InsertMarkers(r)
	for _, leaf := range leaves {
		if dom.IsTableCell(leaf) {
			continue
		}
		switch {
		case in && dom.IsElement(leaf, atom.Li):
			list := leaf.Parent
			dom.Wrap(dom.Isolate(leaf, list.Parent), newIndent())
		case in:
			dom.Wrap(leaf, newIndent())
		default:
			ind := dom.Closest(leaf, dom.IsIndent)
			if ind == nil {
				continue
			}
			dom.Unwrap(dom.Isolate(leaf, ind.Parent))
		}
	}
	e.settle(start, end)

	to := from + 1
	if !in {
		to = from - 1
	}
	e.record(history.Indent, before, &history.StyleData{From: from, To: to})
	e.modified("indent")
	return nil
}

// wrapBreak is a place where a wrapped line breaks: the space at rune
// offset off in text node t.
type wrapBreak struct {
	t   *html.Node
	off int
}

// wrapBreaks finds where the lines of leaf break at width columns.
func wrapBreaks(leaf *html.Node, width int) []wrapBreak {
	var out []wrapBreak
	col, spaceCol := 0, 0
	var space *wrapBreak

	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		for ch := n.FirstChild; ch != nil; ch = ch.NextSibling {
			switch {
			case dom.IsText(ch):
				for i, r := range []rune(ch.Data) {
					if r == ' ' {
						space = &wrapBreak{t: ch, off: i}
						spaceCol = col
					}
					col += runewidth.RuneWidth(r)
					if col > width && space != nil {
						out = append(out, *space)
						col -= spaceCol + 1
						space = nil
					}
				}
			case dom.IsElement(ch, atom.Br):
				col, space = 0, nil
			case dom.IsAtomic(ch):
				col += runewidth.StringWidth(dom.TextContent(ch))
			case dom.IsElement(ch):
				walk(ch)
			}
		}
	}
	walk(leaf)
	return out
}

// WrapLines breaks the selected paragraphs at the configured width with
// wrap line breaks.
func (e *Editor) WrapLines() error {
	if err := e.editable(); err != nil {
		return err
	}
	r, err := e.selectedRange()
	if err != nil {
		return err
	}
	before := e.Selection()

	start, end := dom.InsertMarkers(r)
	changed := false
	for _, leaf := range e.leavesIn(r) {
		if dom.IsTableCell(leaf) || dom.IsElement(leaf, atom.Hr, atom.Pre) {
			continue
		}
		unwrapLeaf(leaf)
		dom.Normalize(leaf)
		breaks := wrapBreaks(leaf, e.opts.WrapWidth)
		for i := len(breaks) - 1; i >= 0; i-- {
			b := breaks[i]
			dom.SplitText(b.t, b.off+1)
			runes := []rune(b.t.Data)
			b.t.Data = string(runes[:len(runes)-1])
			br := dom.NewElement(atom.Br, html.Attribute{Key: "class", Val: dom.ClassWrapBR})
			dom.InsertAfter(b.t, br)
		}
		dom.SetAttr(leaf, dom.AttrUserWrapped, "")
		changed = true
	}
	e.settle(start, end)
	if !changed {
		return nil
	}

	e.record(history.Wrap, before, &history.StyleData{From: 0, To: 1})
	e.modified("wrap")
	return nil
}

// unwrapLeaf turns wrap line breaks back into spaces.
func unwrapLeaf(leaf *html.Node) bool {
	brs := dom.FindAll(leaf, dom.IsWrapBR)
	for _, br := range brs {
		dom.ReplaceWith(br, dom.NewText(" "))
	}
	_, wrapped := dom.LookupAttr(leaf, dom.AttrUserWrapped)
	dom.RemoveAttr(leaf, dom.AttrUserWrapped)
	return len(brs) > 0 || wrapped
}

// UnwrapLines removes the wrap line breaks from the selected paragraphs.
func (e *Editor) UnwrapLines() error {
	if err := e.editable(); err != nil {
		return err
	}
	r, err := e.selectedRange()
	if err != nil {
		return err
	}
	before := e.Selection()

	start, end := dom.InsertMarkers(r)
	changed := false
	for _, leaf := range e.leavesIn(r) {
		if unwrapLeaf(leaf) {
			changed = true
		}
	}
	e.settle(start, end)
	if !changed {
		return nil
	}

	e.record(history.Wrap, before, &history.StyleData{From: 1, To: 0})
	e.modified("unwrap")
	return nil
}
