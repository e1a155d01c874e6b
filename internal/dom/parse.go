package dom

import (
	"bytes"
	"fmt"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// NewDocument returns an empty normalized document.
func NewDocument() *html.Node {
	doc, _ := Parse("")
	return doc
}

// Parse reads a full HTML document and normalizes its body.
func Parse(src string) (*html.Node, error) {
	doc, err := html.Parse(strings.NewReader(src))
	if err != nil {
		return nil, fmt.Errorf("parsing document: %w", err)
	}
	body := Body(doc)
	if body == nil {
		return nil, fmt.Errorf("parsing document: no body")
	}
	Normalize(body)
	return doc, nil
}

// ParseFragment reads HTML as it would appear inside a body element and
// returns the detached top-level nodes.
func ParseFragment(src string) ([]*html.Node, error) {
	ctx := NewElement(atom.Body)
	nodes, err := html.ParseFragment(strings.NewReader(src), ctx)
	if err != nil {
		return nil, fmt.Errorf("parsing fragment: %w", err)
	}
	return nodes, nil
}

// Body returns the body element of doc.
func Body(doc *html.Node) *html.Node {
	return FindFirst(doc, func(n *html.Node) bool { return IsElement(n, atom.Body) })
}

// Head returns the head element of doc.
func Head(doc *html.Node) *html.Node {
	return FindFirst(doc, func(n *html.Node) bool { return IsElement(n, atom.Head) })
}

// Render serializes n. A fragment renders its children.
func Render(n *html.Node) string {
	var buf bytes.Buffer
	_ = html.Render(&buf, n)
	return buf.String()
}

// InnerHTML serializes the children of n.
func InnerHTML(n *html.Node) string {
	var buf bytes.Buffer
	for ch := n.FirstChild; ch != nil; ch = ch.NextSibling {
		_ = html.Render(&buf, ch)
	}
	return buf.String()
}

// Pretty renders the children of n with each block on its own line and
// the content of containers indented.
func Pretty(n *html.Node) string {
	var sb strings.Builder
	pretty(&sb, n, 0)
	return strings.TrimRight(sb.String(), "\n")
}

func pretty(sb *strings.Builder, n *html.Node, depth int) {
	indent := strings.Repeat("  ", depth)
	for ch := n.FirstChild; ch != nil; ch = ch.NextSibling {
		if !IsContainer(ch) {
			sb.WriteString(indent + Render(ch) + "\n")
			continue
		}
		closeTag := "</" + ch.Data + ">"
		sb.WriteString(indent + strings.TrimSuffix(Render(ShallowClone(ch)), closeTag) + "\n")
		pretty(sb, ch, depth+1)
		sb.WriteString(indent + closeTag + "\n")
	}
}
