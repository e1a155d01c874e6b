// Package dom holds helpers for the composer's owned HTML tree.
//
// The document is a golang.org/x/net/html node tree. Stored history data
// always owns detached clones; nothing here aliases live nodes into
// fragments.
package dom

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// ZWSP is the zero-width placeholder that keeps an empty formatting run alive.
const ZWSP = "\u200b"

// Class names and ids the composer gives special meaning.
const (
	ClassIndented      = "-x-evo-indented"
	ClassWrapBR        = "-x-evo-wrap-br"
	ClassSmileyWrapper = "-x-evo-smiley-wrapper"
	AttrUserWrapped    = "data-evo-user-wrapped"
	AttrSmiley         = "data-smiley"
	LinkStyleID        = "-x-evo-link-style"
	StartMarkerID      = "-x-evo-selection-start-marker"
	EndMarkerID        = "-x-evo-selection-end-marker"
)

var leafBlocks = map[atom.Atom]bool{
	atom.P: true, atom.Div: true, atom.Pre: true, atom.Address: true,
	atom.H1: true, atom.H2: true, atom.H3: true, atom.H4: true, atom.H5: true, atom.H6: true,
	atom.Li: true, atom.Td: true, atom.Th: true, atom.Hr: true,
}

var containers = map[atom.Atom]bool{
	atom.Body: true, atom.Blockquote: true, atom.Ul: true, atom.Ol: true,
	atom.Table: true, atom.Tbody: true, atom.Thead: true, atom.Tfoot: true, atom.Tr: true,
}

var formatting = map[atom.Atom]bool{
	atom.B: true, atom.I: true, atom.U: true, atom.S: true, atom.Tt: true,
	atom.Font: true, atom.A: true, atom.Span: true, atom.Strong: true, atom.Em: true, atom.Code: true,
}

// IsElement reports whether n is an element with one of the given tags.
// With no tags it reports whether n is an element at all.
func IsElement(n *html.Node, tags ...atom.Atom) bool {
	if n == nil || n.Type != html.ElementNode {
		return false
	}
	if len(tags) == 0 {
		return true
	}
	for _, t := range tags {
		if n.DataAtom == t {
			return true
		}
	}
	return false
}

// IsText reports whether n is a text node.
func IsText(n *html.Node) bool {
	return n != nil && n.Type == html.TextNode
}

// IsMarker reports whether n is a selection marker span.
func IsMarker(n *html.Node) bool {
	if !IsElement(n, atom.Span) {
		return false
	}
	id := Attr(n, "id")
	return id == StartMarkerID || id == EndMarkerID
}

// IsCitation reports whether n is a quoted-mail blockquote.
func IsCitation(n *html.Node) bool {
	return IsElement(n, atom.Blockquote) && strings.EqualFold(Attr(n, "type"), "cite")
}

// IsIndent reports whether n is an indentation wrapper.
func IsIndent(n *html.Node) bool {
	return IsElement(n, atom.Div) && HasClass(n, ClassIndented)
}

// IsSmiley reports whether n is a smiley wrapper.
func IsSmiley(n *html.Node) bool {
	return IsElement(n, atom.Span) && HasClass(n, ClassSmileyWrapper)
}

// IsWrapBR reports whether n is a line break inserted by wrapping.
func IsWrapBR(n *html.Node) bool {
	return IsElement(n, atom.Br) && HasClass(n, ClassWrapBR)
}

// IsContainer reports whether n holds blocks rather than inline content.
func IsContainer(n *html.Node) bool {
	if n == nil {
		return false
	}
	if n.Type == html.DocumentNode {
		return true
	}
	return IsElement(n) && (containers[n.DataAtom] || IsIndent(n))
}

// IsLeafBlock reports whether n is a block holding inline content.
func IsLeafBlock(n *html.Node) bool {
	return IsElement(n) && leafBlocks[n.DataAtom] && !IsIndent(n)
}

// IsBlock reports whether n is a leaf block or a container.
func IsBlock(n *html.Node) bool {
	return IsLeafBlock(n) || IsContainer(n)
}

// IsAtomic reports whether n is an inline element whose content is not
// editable: images, smileys and selection markers.
func IsAtomic(n *html.Node) bool {
	return IsElement(n, atom.Img) || IsSmiley(n) || IsMarker(n)
}

// IsFormatting reports whether n is an inline element that only styles its content.
func IsFormatting(n *html.Node) bool {
	return IsElement(n) && formatting[n.DataAtom] && !IsAtomic(n)
}

// IsTableCell reports whether n is a td or th.
func IsTableCell(n *html.Node) bool {
	return IsElement(n, atom.Td, atom.Th)
}

// NewElement creates a detached element.
func NewElement(tag atom.Atom, attrs ...html.Attribute) *html.Node {
	return &html.Node{
		Type:     html.ElementNode,
		DataAtom: tag,
		Data:     tag.String(),
		Attr:     attrs,
	}
}

// NewText creates a detached text node.
func NewText(s string) *html.Node {
	return &html.Node{Type: html.TextNode, Data: s}
}

// NewFragment creates an empty container for detached nodes.
func NewFragment(children ...*html.Node) *html.Node {
	f := &html.Node{Type: html.DocumentNode}
	for _, c := range children {
		Detach(c)
		f.AppendChild(c)
	}
	return f
}

// Rename changes an element's tag in place.
func Rename(n *html.Node, tag atom.Atom) {
	n.DataAtom = tag
	n.Data = tag.String()
}

// Attr returns the value of the attribute key, or "".
func Attr(n *html.Node, key string) string {
	v, _ := LookupAttr(n, key)
	return v
}

// LookupAttr returns the attribute value and whether it is present.
func LookupAttr(n *html.Node, key string) (string, bool) {
	if n == nil {
		return "", false
	}
	for _, a := range n.Attr {
		if a.Namespace == "" && strings.EqualFold(a.Key, key) {
			return a.Val, true
		}
	}
	return "", false
}

// SetAttr sets or replaces an attribute.
func SetAttr(n *html.Node, key, val string) {
	for i, a := range n.Attr {
		if a.Namespace == "" && strings.EqualFold(a.Key, key) {
			n.Attr[i].Val = val
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: key, Val: val})
}

// RemoveAttr deletes an attribute if present.
func RemoveAttr(n *html.Node, key string) {
	out := n.Attr[:0]
	for _, a := range n.Attr {
		if a.Namespace == "" && strings.EqualFold(a.Key, key) {
			continue
		}
		out = append(out, a)
	}
	n.Attr = out
}

// HasClass reports whether the class attribute contains class.
func HasClass(n *html.Node, class string) bool {
	for _, c := range strings.Fields(Attr(n, "class")) {
		if c == class {
			return true
		}
	}
	return false
}

// AddClass appends class to the class attribute.
func AddClass(n *html.Node, class string) {
	if HasClass(n, class) {
		return
	}
	classes := strings.TrimSpace(Attr(n, "class") + " " + class)
	SetAttr(n, "class", classes)
}

// SameAttrs reports whether a and b carry the same attribute set.
func SameAttrs(a, b *html.Node) bool {
	if len(a.Attr) != len(b.Attr) {
		return false
	}
	for _, x := range a.Attr {
		v, ok := LookupAttr(b, x.Key)
		if !ok || v != x.Val {
			return false
		}
	}
	return true
}

// Clone returns a deep, detached copy of n.
func Clone(n *html.Node) *html.Node {
	if n == nil {
		return nil
	}
	c := ShallowClone(n)
	for ch := n.FirstChild; ch != nil; ch = ch.NextSibling {
		c.AppendChild(Clone(ch))
	}
	return c
}

// ShallowClone copies n and its attributes but not its children.
func ShallowClone(n *html.Node) *html.Node {
	c := &html.Node{
		Type:      n.Type,
		DataAtom:  n.DataAtom,
		Data:      n.Data,
		Namespace: n.Namespace,
	}
	if len(n.Attr) > 0 {
		c.Attr = append([]html.Attribute(nil), n.Attr...)
	}
	return c
}

// CloneChildren deep-copies the children of n.
func CloneChildren(n *html.Node) []*html.Node {
	var out []*html.Node
	for ch := n.FirstChild; ch != nil; ch = ch.NextSibling {
		out = append(out, Clone(ch))
	}
	return out
}

// Children returns the children of n as a slice.
func Children(n *html.Node) []*html.Node {
	var out []*html.Node
	for ch := n.FirstChild; ch != nil; ch = ch.NextSibling {
		out = append(out, ch)
	}
	return out
}

// ChildCount returns the number of children of n.
func ChildCount(n *html.Node) int {
	c := 0
	for ch := n.FirstChild; ch != nil; ch = ch.NextSibling {
		c++
	}
	return c
}

// ChildAt returns the i-th child of n, or nil.
func ChildAt(n *html.Node, i int) *html.Node {
	if i < 0 {
		return nil
	}
	ch := n.FirstChild
	for ; ch != nil && i > 0; i-- {
		ch = ch.NextSibling
	}
	return ch
}

// Index returns the position of n among its siblings.
func Index(n *html.Node) int {
	i := 0
	for s := n.PrevSibling; s != nil; s = s.PrevSibling {
		i++
	}
	return i
}

// Detach removes n from its parent, if any.
func Detach(n *html.Node) {
	if n != nil && n.Parent != nil {
		n.Parent.RemoveChild(n)
	}
}

// InsertAt inserts child into parent at index i.
func InsertAt(parent *html.Node, i int, child *html.Node) {
	Detach(child)
	parent.InsertBefore(child, ChildAt(parent, i))
}

// InsertAfter inserts n right after ref.
func InsertAfter(ref, n *html.Node) {
	Detach(n)
	ref.Parent.InsertBefore(n, ref.NextSibling)
}

// ReplaceWith puts nodes where old was and detaches old.
func ReplaceWith(old *html.Node, nodes ...*html.Node) {
	parent := old.Parent
	if parent == nil {
		return
	}
	for _, n := range nodes {
		Detach(n)
		parent.InsertBefore(n, old)
	}
	parent.RemoveChild(old)
}

// Unwrap replaces n with its children.
func Unwrap(n *html.Node) {
	ReplaceWith(n, Children(n)...)
}

// MoveChildren appends all children of from to to.
func MoveChildren(from, to *html.Node) {
	for ch := from.FirstChild; ch != nil; ch = from.FirstChild {
		from.RemoveChild(ch)
		to.AppendChild(ch)
	}
}

// Wrap puts n inside wrapper at n's place.
func Wrap(n, wrapper *html.Node) *html.Node {
	n.Parent.InsertBefore(wrapper, n)
	Detach(n)
	wrapper.AppendChild(n)
	return wrapper
}

// Closest returns the nearest ancestor-or-self of n matching pred.
func Closest(n *html.Node, pred func(*html.Node) bool) *html.Node {
	for ; n != nil; n = n.Parent {
		if pred(n) {
			return n
		}
	}
	return nil
}

// LeafBlock returns the leaf block containing n.
func LeafBlock(n *html.Node) *html.Node {
	return Closest(n, IsLeafBlock)
}

// OutermostCitation returns the top-level citation containing n.
func OutermostCitation(n *html.Node) *html.Node {
	var out *html.Node
	for ; n != nil; n = n.Parent {
		if IsCitation(n) {
			out = n
		}
	}
	return out
}

// ChildContaining returns the child of ancestor that contains n.
func ChildContaining(ancestor, n *html.Node) *html.Node {
	for ; n != nil; n = n.Parent {
		if n.Parent == ancestor {
			return n
		}
	}
	return nil
}

// Contains reports whether n is ancestor or one of its descendants.
func Contains(ancestor, n *html.Node) bool {
	for ; n != nil; n = n.Parent {
		if n == ancestor {
			return true
		}
	}
	return false
}

// Depth counts the citations enclosing n.
func Depth(n *html.Node) int {
	d := 0
	for ; n != nil; n = n.Parent {
		if IsCitation(n) {
			d++
		}
	}
	return d
}

// TextContent concatenates the text below n, skipping markers.
func TextContent(n *html.Node) string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		switch {
		case IsText(n):
			sb.WriteString(n.Data)
		case IsMarker(n):
		default:
			for ch := n.FirstChild; ch != nil; ch = ch.NextSibling {
				walk(ch)
			}
		}
	}
	walk(n)
	return sb.String()
}

// HasContent reports whether n holds visible text or an atomic element.
// Zero-width placeholders and markers do not count.
func HasContent(n *html.Node) bool {
	found := false
	Walk(n, func(c *html.Node) bool {
		switch {
		case found:
		case IsText(c):
			found = strings.Trim(c.Data, ZWSP) != ""
		case IsElement(c, atom.Img, atom.Br, atom.Hr) || IsSmiley(c):
			found = true
		}
		return !found
	})
	return found
}

// Walk visits n and its descendants in document order until fn returns false.
func Walk(n *html.Node, fn func(*html.Node) bool) bool {
	if !fn(n) {
		return false
	}
	for ch := n.FirstChild; ch != nil; {
		next := ch.NextSibling
		if !Walk(ch, fn) {
			return false
		}
		ch = next
	}
	return true
}

// FindFirst returns the first node below root that matches pred.
func FindFirst(root *html.Node, pred func(*html.Node) bool) *html.Node {
	var out *html.Node
	Walk(root, func(n *html.Node) bool {
		if pred(n) {
			out = n
			return false
		}
		return true
	})
	return out
}

// FindAll returns every node below root that matches pred.
func FindAll(root *html.Node, pred func(*html.Node) bool) []*html.Node {
	var out []*html.Node
	Walk(root, func(n *html.Node) bool {
		if pred(n) {
			out = append(out, n)
		}
		return true
	})
	return out
}

// ByID returns the element under root with the given id.
func ByID(root *html.Node, id string) *html.Node {
	return FindFirst(root, func(n *html.Node) bool {
		return IsElement(n) && Attr(n, "id") == id
	})
}
