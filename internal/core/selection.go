package core

import (
	"strings"

	"github.com/bethropolis/composer/internal/dom"
	"github.com/bethropolis/composer/internal/types"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// selectedRange resolves the selection against the document.
func (e *Editor) selectedRange() (dom.Range, error) {
	r, ok := e.selectionManager.Range()
	if !ok {
		return dom.Range{}, ErrNoSelection
	}
	return r, nil
}

// caretLeaf returns the caret position and the leaf block holding it.
func (e *Editor) caretLeaf() (dom.Position, *html.Node, error) {
	r, err := e.selectedRange()
	if err != nil {
		return dom.Position{}, nil, err
	}
	leaf := dom.LeafBlock(r.Start.Node)
	if leaf == nil {
		return dom.Position{}, nil, ErrNoSelection
	}
	return r.Start, leaf, nil
}

// settle finishes a structural edit. It drops stale placeholders,
// normalizes, reads the selection off the start and end markers and then
// removes them. A nil end leaves a caret at start.
func (e *Editor) settle(start, end *html.Node) types.SelectionState {
	dom.Normalize(e.body)
	e.dropPlaceholders()
	e.Changed()

	var sp, ep types.Point
	if start != nil && start.Parent != nil {
		sp, _ = e.lay.PointOf(dom.Before(start))
	}
	ep = sp
	if end != nil && end.Parent != nil {
		ep, _ = e.lay.PointOf(dom.Before(end))
	}
	dom.RemoveMarkers(e.body)
	e.Changed()

	st := types.NewSelection(sp, ep)
	e.selectionManager.Set(st)
	return st
}

func isPlaceholder(n *html.Node) bool {
	return dom.IsText(n) && n.Data != "" && strings.Trim(n.Data, dom.ZWSP) == ""
}

// dropPlaceholders removes zero-width runs that no longer carry a style
// for the caret.
func (e *Editor) dropPlaceholders() {
	for _, t := range dom.FindAll(e.body, isPlaceholder) {
		if !placeholderNeeded(t) {
			dom.Detach(t)
		}
	}
}

// placeholderNeeded reports whether a placeholder sits at a marker and
// either lives inside formatting or separates formatted runs.
func placeholderNeeded(t *html.Node) bool {
	if !dom.IsMarker(t.PrevSibling) && !dom.IsMarker(t.NextSibling) {
		return false
	}
	for p := t.Parent; p != nil && !dom.IsLeafBlock(p); p = p.Parent {
		if dom.IsFormatting(p) {
			return true
		}
	}
	prev := t.PrevSibling
	for dom.IsMarker(prev) {
		prev = prev.PrevSibling
	}
	next := t.NextSibling
	for dom.IsMarker(next) {
		next = next.NextSibling
	}
	return dom.IsFormatting(prev) || dom.IsFormatting(next)
}

// leavesIn returns the leaf blocks touched by r, in document order.
func (e *Editor) leavesIn(r dom.Range) []*html.Node {
	first, last := dom.LeafBlock(r.Start.Node), dom.LeafBlock(r.End.Node)
	var out []*html.Node
	in := false
	for _, leaf := range dom.LeafBlocks(e.body) {
		if leaf == first {
			in = true
		}
		if in {
			out = append(out, leaf)
		}
		if leaf == last {
			break
		}
	}
	return out
}

// rangeText returns the text between the ends of r. Leaf blocks and line
// breaks become newlines.
func (e *Editor) rangeText(r dom.Range) string {
	if r.Collapsed() {
		return ""
	}
	var sb strings.Builder
	var lastLeaf *html.Node
	dom.Walk(e.body, func(n *html.Node) bool {
		switch {
		case dom.IsText(n):
			runes := []rune(n.Data)
			if dom.Compare(dom.Position{Node: n, Offset: len(runes)}, r.Start) <= 0 {
				return true
			}
			if dom.Compare(dom.Position{Node: n, Offset: 0}, r.End) >= 0 {
				return false
			}
			lo, hi := 0, len(runes)
			if n == r.Start.Node {
				lo = r.Start.Offset
			}
			if n == r.End.Node {
				hi = r.End.Offset
			}
			if leaf := dom.LeafBlock(n); leaf != lastLeaf {
				if lastLeaf != nil {
					sb.WriteByte('\n')
				}
				lastLeaf = leaf
			}
			sb.WriteString(strings.ReplaceAll(string(runes[lo:hi]), dom.ZWSP, ""))
		case dom.IsElement(n, atom.Br):
			p := dom.Before(n)
			if dom.Compare(p, r.Start) >= 0 && dom.Compare(p, r.End) < 0 {
				sb.WriteByte('\n')
			}
		}
		return true
	})
	return sb.String()
}

// SelectedText returns the selected text.
func (e *Editor) SelectedText() string {
	r, err := e.selectedRange()
	if err != nil {
		return ""
	}
	return e.rangeText(r)
}

// SelectedHTML returns the selected content as HTML, taken from a copy
// of the body so the document is left alone.
func (e *Editor) SelectedHTML() string {
	r, err := e.selectedRange()
	if err != nil || r.Collapsed() {
		return ""
	}
	copyBody := dom.Clone(e.body)
	start, ok1 := mapPosition(e.body, copyBody, r.Start)
	end, ok2 := mapPosition(e.body, copyBody, r.End)
	if !ok1 || !ok2 {
		return ""
	}
	sm, em := dom.InsertMarkers(dom.Range{Start: start, End: end})
	frag := dom.DeleteContents(sm, em)
	return dom.InnerHTML(frag)
}

// mapPosition finds the position in a clone that matches p in the original.
func mapPosition(from, to *html.Node, p dom.Position) (dom.Position, bool) {
	path := dom.Path(from, p.Node)
	if path == nil && p.Node != from {
		return dom.Position{}, false
	}
	n, err := dom.Resolve(to, path)
	if err != nil {
		return dom.Position{}, false
	}
	return dom.Position{Node: n, Offset: p.Offset}, true
}
