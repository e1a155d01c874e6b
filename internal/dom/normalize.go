package dom

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Normalize brings the subtree under root into the canonical shape every
// editing command and history step relies on:
//
//   - adjacent text nodes are merged and empty ones dropped
//   - placeholders are stripped from text that has visible characters
//   - empty formatting elements and empty containers disappear
//   - adjacent identical formatting elements, lists and indentation
//     wrappers are merged
//   - stray inline content in containers is wrapped in paragraphs
//   - blocks nested inside leaf blocks are flattened into lines
//
// A body always keeps at least one leaf block.
func Normalize(root *html.Node) {
	normalizeNode(root)
	if IsElement(root, atom.Body) && root.FirstChild == nil {
		root.AppendChild(NewElement(atom.Div))
	}
}

func normalizeNode(n *html.Node) {
	for ch := n.FirstChild; ch != nil; ch = ch.NextSibling {
		if ch.Type == html.ElementNode {
			normalizeNode(ch)
		}
	}

	switch {
	case IsLeafBlock(n):
		flattenBlocks(n)
	case IsContainer(n) && n.Type == html.ElementNode:
		wrapInline(n)
	}

	mergeText(n)
	if !IsContainer(n) {
		stripPlaceholders(n)
	}
	removeEmpty(n)
	mergeSiblings(n)
}

func mergeText(n *html.Node) {
	for ch := n.FirstChild; ch != nil; {
		next := ch.NextSibling
		if IsText(ch) {
			for IsText(next) {
				ch.Data += next.Data
				after := next.NextSibling
				n.RemoveChild(next)
				next = after
			}
			if ch.Data == "" {
				n.RemoveChild(ch)
			}
		}
		ch = next
	}
}

func stripPlaceholders(n *html.Node) {
	for ch := n.FirstChild; ch != nil; ch = ch.NextSibling {
		if IsText(ch) && strings.Contains(ch.Data, ZWSP) && strings.Trim(ch.Data, ZWSP) != "" {
			ch.Data = strings.ReplaceAll(ch.Data, ZWSP, "")
		}
	}
}

func removeEmpty(n *html.Node) {
	for ch := n.FirstChild; ch != nil; {
		next := ch.NextSibling
		switch {
		case IsFormatting(ch) && ch.FirstChild == nil:
			n.RemoveChild(ch)
		case IsContainer(ch) && ch.FirstChild == nil:
			n.RemoveChild(ch)
		}
		ch = next
	}
}

func mergeable(a, b *html.Node) bool {
	if !IsElement(a) || !IsElement(b) || a.DataAtom != b.DataAtom || !SameAttrs(a, b) {
		return false
	}
	switch {
	case IsFormatting(a):
		return true
	case IsElement(a, atom.Ul, atom.Ol):
		return true
	case IsIndent(a):
		return true
	}
	return false
}

func mergeSiblings(n *html.Node) {
	for ch := n.FirstChild; ch != nil; ch = ch.NextSibling {
		merged := false
		for next := ch.NextSibling; mergeable(ch, next); next = ch.NextSibling {
			MoveChildren(next, ch)
			n.RemoveChild(next)
			merged = true
		}
		if merged {
			normalizeNode(ch)
		}
	}
}

// wrapInline puts runs of inline children of a container into paragraphs,
// or list items inside lists.
func wrapInline(n *html.Node) {
	if IsElement(n, atom.Table, atom.Tbody, atom.Thead, atom.Tfoot, atom.Tr) {
		for ch := n.FirstChild; ch != nil; {
			next := ch.NextSibling
			if IsText(ch) && strings.TrimSpace(ch.Data) == "" {
				n.RemoveChild(ch)
			}
			ch = next
		}
		return
	}

	list := IsElement(n, atom.Ul, atom.Ol)
	wrapTag := atom.Div
	if list {
		wrapTag = atom.Li
	}

	var run *html.Node
	for ch := n.FirstChild; ch != nil; {
		next := ch.NextSibling
		switch {
		case IsText(ch) && strings.TrimSpace(ch.Data) == "" && run == nil:
			n.RemoveChild(ch)
		case IsBlock(ch):
			run = nil
			if list && IsLeafBlock(ch) && !IsElement(ch, atom.Li, atom.Hr) {
				Rename(ch, atom.Li)
			}
		default:
			if run == nil {
				run = NewElement(wrapTag)
				n.InsertBefore(run, ch)
			}
			n.RemoveChild(ch)
			run.AppendChild(ch)
		}
		ch = next
	}
}

// flattenBlocks replaces blocks found inside a leaf block by their inline
// content, separated by line breaks.
func flattenBlocks(n *html.Node) {
	if IsElement(n, atom.Hr) {
		for ch := n.FirstChild; ch != nil; ch = n.FirstChild {
			n.RemoveChild(ch)
		}
		return
	}
	for ch := n.FirstChild; ch != nil; {
		next := ch.NextSibling
		if IsBlock(ch) {
			if ch.PrevSibling != nil && !IsElement(ch.PrevSibling, atom.Br) {
				n.InsertBefore(NewElement(atom.Br), ch)
			}
			if IsElement(ch, atom.Hr) {
				n.RemoveChild(ch)
			} else {
				flattenBlocks(ch)
				Unwrap(ch)
			}
		}
		ch = next
	}
}
