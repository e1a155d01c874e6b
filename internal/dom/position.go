package dom

import (
	"errors"
	"fmt"
	"unicode/utf8"

	"golang.org/x/net/html"
)

// ErrNoPosition is returned when a position cannot be resolved in a tree.
var ErrNoPosition = errors.New("dom: position not found")

// Position is a boundary point. In a text node Offset counts runes; in an
// element it is a child index.
type Position struct {
	Node   *html.Node
	Offset int
}

func (p Position) String() string {
	if p.Node == nil {
		return "<nil>"
	}
	if IsText(p.Node) {
		return fmt.Sprintf("#text(%q)@%d", p.Node.Data, p.Offset)
	}
	return fmt.Sprintf("<%s>@%d", p.Node.Data, p.Offset)
}

// Valid reports whether p points inside its node.
func (p Position) Valid() bool {
	return p.Node != nil && p.Offset >= 0 && p.Offset <= NodeLen(p.Node)
}

// Range is a pair of positions with Start not after End.
type Range struct {
	Start Position
	End   Position
}

// Collapsed reports whether the range is a caret.
func (r Range) Collapsed() bool {
	return r.Start == r.End
}

// Caret returns a collapsed range at p.
func Caret(p Position) Range {
	return Range{Start: p, End: p}
}

// NodeLen is the rune count of a text node or the child count of an element.
func NodeLen(n *html.Node) int {
	if IsText(n) {
		return utf8.RuneCountInString(n.Data)
	}
	return ChildCount(n)
}

// Before returns the position just before n in its parent.
func Before(n *html.Node) Position {
	return Position{Node: n.Parent, Offset: Index(n)}
}

// After returns the position just after n in its parent.
func After(n *html.Node) Position {
	return Position{Node: n.Parent, Offset: Index(n) + 1}
}

// path lists child indices from the root down to n.
func path(n *html.Node) []int {
	var out []int
	for ; n.Parent != nil; n = n.Parent {
		out = append(out, Index(n))
	}
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out
}

// Compare orders two positions in the same tree: -1, 0 or 1.
func Compare(a, b Position) int {
	if a.Node == b.Node {
		switch {
		case a.Offset < b.Offset:
			return -1
		case a.Offset > b.Offset:
			return 1
		}
		return 0
	}
	ka := append(path(a.Node), a.Offset)
	kb := append(path(b.Node), b.Offset)
	for i := 0; i < len(ka) && i < len(kb); i++ {
		if ka[i] != kb[i] {
			if ka[i] < kb[i] {
				return -1
			}
			return 1
		}
	}
	switch {
	case len(ka) < len(kb):
		return -1
	case len(ka) > len(kb):
		return 1
	}
	return 0
}

// CommonAncestor returns the deepest node containing both a and b.
func CommonAncestor(a, b *html.Node) *html.Node {
	seen := make(map[*html.Node]bool)
	for n := a; n != nil; n = n.Parent {
		seen[n] = true
	}
	for n := b; n != nil; n = n.Parent {
		if seen[n] {
			return n
		}
	}
	return nil
}

// SplitText splits t at rune offset off and returns the new right node,
// which is inserted after t.
func SplitText(t *html.Node, off int) *html.Node {
	runes := []rune(t.Data)
	if off < 0 {
		off = 0
	}
	if off > len(runes) {
		off = len(runes)
	}
	right := NewText(string(runes[off:]))
	t.Data = string(runes[:off])
	if t.Parent != nil {
		t.Parent.InsertBefore(right, t.NextSibling)
	}
	return right
}

// Boundary turns p into an element boundary, splitting a text node when
// p falls inside one. It returns the parent and child index.
func Boundary(p Position) (*html.Node, int) {
	if !IsText(p.Node) {
		return p.Node, p.Offset
	}
	t := p.Node
	switch {
	case p.Offset <= 0:
		return t.Parent, Index(t)
	case p.Offset >= NodeLen(t):
		return t.Parent, Index(t) + 1
	}
	SplitText(t, p.Offset)
	return t.Parent, Index(t) + 1
}

// InsertNodes inserts nodes at p and returns the position after them.
func InsertNodes(p Position, nodes ...*html.Node) Position {
	parent, idx := Boundary(p)
	ref := ChildAt(parent, idx)
	for _, n := range nodes {
		Detach(n)
		parent.InsertBefore(n, ref)
	}
	return Position{Node: parent, Offset: idx + len(nodes)}
}

// Path returns the child-index path from root to n, or nil if n is not
// below root.
func Path(root, n *html.Node) []int {
	if !Contains(root, n) {
		return nil
	}
	var out []int
	for ; n != root; n = n.Parent {
		out = append(out, Index(n))
	}
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out
}

// Resolve follows a child-index path from root.
func Resolve(root *html.Node, p []int) (*html.Node, error) {
	n := root
	for _, i := range p {
		n = ChildAt(n, i)
		if n == nil {
			return nil, ErrNoPosition
		}
	}
	return n, nil
}

// NextInOrder returns the node following n in document order, staying
// below root. Descendants of n are skipped when skipChildren is set.
func NextInOrder(root, n *html.Node, skipChildren bool) *html.Node {
	if !skipChildren && n.FirstChild != nil {
		return n.FirstChild
	}
	for ; n != nil && n != root; n = n.Parent {
		if n.NextSibling != nil {
			return n.NextSibling
		}
	}
	return nil
}

// LeafBlocks returns every leaf block under root in document order.
func LeafBlocks(root *html.Node) []*html.Node {
	return FindAll(root, IsLeafBlock)
}

// NodeBefore returns the inline node that ends at p, descending into
// formatting elements, or nil at the start of a block.
func NodeBefore(p Position) *html.Node {
	var n *html.Node
	switch {
	case IsText(p.Node):
		if p.Offset > 0 {
			return p.Node
		}
		n = p.Node
	case p.Offset > 0:
		n = ChildAt(p.Node, p.Offset-1)
		for IsFormatting(n) && n.LastChild != nil {
			n = n.LastChild
		}
		return n
	default:
		n = p.Node
	}
	for ; n != nil && !IsLeafBlock(n); n = n.Parent {
		if prev := n.PrevSibling; prev != nil {
			for IsFormatting(prev) && prev.LastChild != nil {
				prev = prev.LastChild
			}
			return prev
		}
	}
	return nil
}

// Near finds the element an edit at p worked on: the inline nodes around
// p and their ancestors within the block, then each ancestor of p and its
// previous sibling.
func Near(p Position, pred func(*html.Node) bool) *html.Node {
	if p.Node == nil {
		return nil
	}
	for n := NodeBefore(p); n != nil && !IsLeafBlock(n); n = n.Parent {
		if pred(n) {
			return n
		}
	}
	if !IsText(p.Node) {
		if n := ChildAt(p.Node, p.Offset); n != nil && pred(n) {
			return n
		}
	}
	for n := p.Node; n != nil; n = n.Parent {
		if pred(n) {
			return n
		}
		if prev := n.PrevSibling; prev != nil && pred(prev) {
			return prev
		}
	}
	return nil
}
