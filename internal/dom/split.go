package dom

import (
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// SplitBefore splits the tree between n's previous content and n, up to
// ancestor, and returns the child of ancestor that now begins with n.
// Without force a level is only split when something precedes n there;
// with force every level is split, leaving possibly empty left clones.
func SplitBefore(n, ancestor *html.Node, force bool) *html.Node {
	cur := n
	for cur.Parent != nil && cur.Parent != ancestor {
		p := cur.Parent
		if cur.PrevSibling == nil && !force {
			cur = p
			continue
		}
		right := ShallowClone(p)
		for s := cur; s != nil; {
			next := s.NextSibling
			p.RemoveChild(s)
			right.AppendChild(s)
			s = next
		}
		InsertAfter(p, right)
		cur = right
	}
	return cur
}

// Isolate splits n's ancestors up to ancestor so that the returned child
// of ancestor holds n and nothing else.
func Isolate(n, ancestor *html.Node) *html.Node {
	top := SplitBefore(n, ancestor, false)
	if top == n {
		return n
	}
	if next := NextInOrder(top, n, true); next != nil {
		SplitBefore(next, ancestor, false)
	}
	return top
}

// NewMarker creates a selection marker span.
func NewMarker(id string) *html.Node {
	return NewElement(atom.Span, html.Attribute{Key: "id", Val: id})
}

// InsertMarker places a marker with the given id at p.
func InsertMarker(p Position, id string) *html.Node {
	m := NewMarker(id)
	InsertNodes(p, m)
	return m
}

// InsertMarkers places start and end markers for r. For a collapsed
// range end is nil.
func InsertMarkers(r Range) (start, end *html.Node) {
	if r.Collapsed() {
		return InsertMarker(r.Start, StartMarkerID), nil
	}
	end = InsertMarker(r.End, EndMarkerID)
	start = InsertMarker(r.Start, StartMarkerID)
	return start, end
}

// RemoveMarkers detaches every selection marker below root.
func RemoveMarkers(root *html.Node) {
	for _, m := range FindAll(root, IsMarker) {
		Detach(m)
	}
}

// ExtractInline removes the nodes between start and end and returns them
// in a fragment. When both markers share a leaf block the tree is split up
// to that block, so the fragment keeps the formatting its content had.
// The start marker ends up right before the node now holding end.
func ExtractInline(start, end *html.Node) *html.Node {
	frag := NewFragment()
	c := LeafBlock(start)
	if c == nil || c != LeafBlock(end) {
		c = CommonAncestor(start, end)
	}
	if c == nil {
		return frag
	}
	a := SplitBefore(start, c, false)
	b := SplitBefore(end, c, false)
	for n := a; n != nil && n != b; {
		next := n.NextSibling
		Detach(n)
		frag.AppendChild(n)
		n = next
	}
	Detach(start)
	b.Parent.InsertBefore(start, b)
	return frag
}

// DeleteContents removes everything between the start and end markers and
// returns it in a fragment. When the markers sit in different leaf blocks
// the end block's remainder is appended to the start block. The end marker
// marks the resulting caret; the start marker is removed.
func DeleteContents(start, end *html.Node) *html.Node {
	startLeaf, endLeaf := LeafBlock(start), LeafBlock(end)
	if startLeaf == nil || endLeaf == nil || startLeaf == endLeaf {
		frag := ExtractInline(start, end)
		Detach(start)
		return frag
	}

	frag := NewFragment()
	c := CommonAncestor(startLeaf, endLeaf)

	// tail of the start block
	if a := SplitBefore(start, startLeaf, false); a != nil {
		for n := a; n != nil; {
			next := n.NextSibling
			Detach(n)
			frag.AppendChild(n)
			n = next
		}
	}
	Detach(start)

	// following siblings of the start block's ancestors
	for n := startLeaf; n.Parent != c; n = n.Parent {
		for s := n.NextSibling; s != nil; {
			next := s.NextSibling
			Detach(s)
			frag.AppendChild(s)
			s = next
		}
	}

	startTop, endTop := ChildContaining(c, startLeaf), ChildContaining(c, endLeaf)
	for s := startTop.NextSibling; s != nil && s != endTop; {
		next := s.NextSibling
		Detach(s)
		frag.AppendChild(s)
		s = next
	}

	// preceding siblings of the end block's ancestors, outermost first
	var chain []*html.Node
	for n := endLeaf; n.Parent != c; n = n.Parent {
		chain = append(chain, n)
	}
	for i := len(chain) - 1; i >= 0; i-- {
		n := chain[i]
		for s := n.Parent.FirstChild; s != nil && s != n; {
			next := s.NextSibling
			Detach(s)
			frag.AppendChild(s)
			s = next
		}
	}

	// head of the end block
	b := SplitBefore(end, endLeaf, false)
	for s := endLeaf.FirstChild; s != nil && s != b; {
		next := s.NextSibling
		Detach(s)
		frag.AppendChild(s)
		s = next
	}

	if !HasContent(startLeaf) {
		// an emptied start block gives way to the end block
		removeWithEmptyAncestors(startLeaf, c)
		return frag
	}
	MoveChildren(endLeaf, startLeaf)
	removeWithEmptyAncestors(endLeaf, c)
	return frag
}

// removeWithEmptyAncestors detaches n and any ancestors below stop that
// are left without children.
func removeWithEmptyAncestors(n, stop *html.Node) {
	for n != nil && n != stop {
		p := n.Parent
		Detach(n)
		if p == nil || p.FirstChild != nil {
			return
		}
		n = p
	}
}

// WrapInline moves the nodes between the start and end markers, which must
// share a leaf block, into wrapper. The wrapper ends up right after start.
func WrapInline(start, end, wrapper *html.Node) *html.Node {
	frag := ExtractInline(start, end)
	MoveChildren(frag, wrapper)
	InsertAfter(start, wrapper)
	return wrapper
}

// InsertInline inserts nodes at p as children of p's leaf block, splitting
// any formatting elements around p. Nodes that carry their own formatting
// then do not inherit the formatting at p.
func InsertInline(p Position, nodes ...*html.Node) {
	leaf := LeafBlock(p.Node)
	if leaf == nil {
		InsertNodes(p, nodes...)
		return
	}
	m := InsertMarker(p, StartMarkerID)
	top := SplitBefore(m, leaf, false)
	for _, n := range nodes {
		Detach(n)
		leaf.InsertBefore(n, top)
	}
	Detach(m)
}
