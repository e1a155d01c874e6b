package dom

import (
	"fmt"
	"sort"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Page attribute keys on the body element.
const (
	PageBackground = "bgcolor"
	PageText       = "text"
	PageLink       = "link"
	PageVisited    = "vlink"
)

// SetBodyAttributes makes the body's attribute list equal to attrs, adding,
// changing and removing attributes one by one. Link colors are mirrored
// into the link style element in head.
func SetBodyAttributes(doc *html.Node, attrs []html.Attribute) {
	body := Body(doc)
	if body == nil {
		return
	}

	want := make(map[string]string, len(attrs))
	for _, a := range attrs {
		want[strings.ToLower(a.Key)] = a.Val
	}
	for _, a := range append([]html.Attribute(nil), body.Attr...) {
		if _, ok := want[strings.ToLower(a.Key)]; !ok {
			RemoveAttr(body, a.Key)
		}
	}
	for _, a := range attrs {
		if v, ok := LookupAttr(body, a.Key); !ok || v != a.Val {
			SetAttr(body, a.Key, a.Val)
		}
	}

	updateLinkStyle(doc, want[PageLink], want[PageVisited])
}

// BodyAttributes returns a copy of the body's attributes, sorted by key.
func BodyAttributes(doc *html.Node) []html.Attribute {
	body := Body(doc)
	if body == nil {
		return nil
	}
	out := append([]html.Attribute(nil), body.Attr...)
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}

func updateLinkStyle(doc *html.Node, link, visited string) {
	head := Head(doc)
	if head == nil {
		return
	}
	style := ByID(head, LinkStyleID)
	if link == "" && visited == "" {
		Detach(style)
		return
	}
	if style == nil {
		style = NewElement(atom.Style, html.Attribute{Key: "id", Val: LinkStyleID})
		head.AppendChild(style)
	}
	for ch := style.FirstChild; ch != nil; ch = style.FirstChild {
		style.RemoveChild(ch)
	}
	var css strings.Builder
	if link != "" {
		fmt.Fprintf(&css, "a { color: %s; } ", link)
	}
	if visited != "" {
		fmt.Fprintf(&css, "a:visited { color: %s; }", visited)
	}
	style.AppendChild(NewText(strings.TrimSpace(css.String())))
}
