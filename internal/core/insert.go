package core

import (
	"fmt"
	"strings"

	"github.com/bethropolis/composer/internal/core/history"
	"github.com/bethropolis/composer/internal/dom"
	"github.com/bethropolis/composer/internal/logger"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// droppedTags never make it from pasted HTML into the document.
var droppedTags = []atom.Atom{atom.Script, atom.Style, atom.Head, atom.Meta, atom.Title, atom.Link, atom.Iframe, atom.Object}

// sanitize removes comments and unwanted elements from parsed nodes and
// unwraps html and body elements.
func sanitize(nodes []*html.Node) []*html.Node {
	var out []*html.Node
	for _, n := range nodes {
		switch {
		case n.Type == html.CommentNode || n.Type == html.DoctypeNode:
			continue
		case dom.IsElement(n, droppedTags...):
			continue
		case dom.IsElement(n, atom.Html, atom.Body):
			out = append(out, sanitize(dom.Children(n))...)
			continue
		case dom.IsElement(n):
			for _, bad := range dom.FindAll(n, func(c *html.Node) bool {
				return c != n && (c.Type == html.CommentNode || dom.IsElement(c, droppedTags...))
			}) {
				dom.Detach(bad)
			}
		}
		dom.Detach(n)
		out = append(out, n)
	}
	return out
}

func hasBlocks(nodes []*html.Node) bool {
	for _, n := range nodes {
		if dom.IsBlock(n) {
			return true
		}
	}
	return false
}

// flatten turns block content into inline runs, one line per leaf block.
func flatten(nodes []*html.Node) []*html.Node {
	var out []*html.Node
	add := func(inline []*html.Node) {
		if len(out) > 0 {
			out = append(out, dom.NewElement(atom.Br))
		}
		out = append(out, inline...)
	}
	var run []*html.Node
	for _, n := range nodes {
		if !dom.IsBlock(n) {
			run = append(run, n)
			continue
		}
		if len(run) > 0 {
			add(run)
			run = nil
		}
		leaves := dom.LeafBlocks(n)
		if dom.IsLeafBlock(n) {
			leaves = []*html.Node{n}
		}
		for _, leaf := range leaves {
			if dom.IsElement(leaf, atom.Hr) {
				continue
			}
			children := dom.Children(leaf)
			for _, ch := range children {
				dom.Detach(ch)
			}
			add(children)
		}
	}
	if len(run) > 0 {
		add(run)
	}
	return out
}

// insertContent puts parsed content at the caret, replacing any
// selection, and records it under t with source kept for redo.
func (e *Editor) insertContent(t history.Type, source string, nodes []*html.Node) error {
	if err := e.editable(); err != nil {
		return err
	}
	if len(nodes) == 0 {
		return nil
	}
	if err := e.replaceSelection(); err != nil {
		return err
	}
	p, leaf, err := e.caretLeaf()
	if err != nil {
		return err
	}
	before := e.Selection()

	if dom.IsTableCell(leaf) && hasBlocks(nodes) {
		nodes = flatten(nodes)
	}
	m := dom.NewMarker(dom.StartMarkerID)
	if !hasBlocks(nodes) {
		dom.InsertNodes(p, append(nodes, m)...)
	} else {
		dom.InsertNodes(p, m)
		right := dom.SplitBefore(m, leaf.Parent, true)
		for _, n := range nodes {
			right.Parent.InsertBefore(n, right)
		}
	}
	e.settle(m, nil)

	e.record(t, before, &history.StringData{To: source})
	e.modified(t.String())
	return nil
}

// Paste inserts HTML content at the caret.
func (e *Editor) Paste(content string) error {
	return e.pasteHTML(history.Paste, content)
}

// InsertHTML inserts HTML content at the caret.
func (e *Editor) InsertHTML(content string) error {
	return e.pasteHTML(history.InsertHTML, content)
}

func (e *Editor) pasteHTML(t history.Type, content string) error {
	nodes, err := dom.ParseFragment(content)
	if err != nil {
		return fmt.Errorf("%s: %w", t, err)
	}
	return e.insertContent(t, content, sanitize(nodes))
}

// textLines splits text into lines, accepting any line ending.
func textLines(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	return strings.Split(strings.ReplaceAll(text, "\r", "\n"), "\n")
}

// PasteAsText inserts plain text at the caret, with a line break per
// newline.
func (e *Editor) PasteAsText(text string) error {
	var nodes []*html.Node
	for i, line := range textLines(text) {
		if i > 0 {
			nodes = append(nodes, dom.NewElement(atom.Br))
		}
		if line != "" {
			nodes = append(nodes, dom.NewText(line))
		}
	}
	return e.insertContent(history.PasteAsText, text, nodes)
}

// PasteQuoted inserts plain text as a citation, one paragraph per line.
func (e *Editor) PasteQuoted(text string) error {
	if text == "" {
		return nil
	}
	bq := dom.NewElement(atom.Blockquote, html.Attribute{Key: "type", Val: "cite"})
	for _, line := range textLines(strings.TrimRight(text, "\r\n")) {
		div := dom.NewElement(atom.Div)
		if line == "" {
			div.AppendChild(dom.NewElement(atom.Br))
		} else {
			div.AppendChild(dom.NewText(line))
		}
		bq.AppendChild(div)
	}
	return e.insertContent(history.PasteQuoted, text, []*html.Node{bq})
}

// InsertBlock splits the caret's paragraph and puts n between the halves.
// The caret goes to the first table cell of n, or to the start of the
// right half. It reports false inside a table cell.
func (e *Editor) InsertBlock(n *html.Node) bool {
	p, leaf, err := e.caretLeaf()
	if err != nil || dom.IsTableCell(leaf) {
		return false
	}
	m := dom.InsertMarker(p, dom.StartMarkerID)
	right := dom.SplitBefore(m, leaf.Parent, true)
	right.Parent.InsertBefore(n, right)
	if cell := dom.FindFirst(n, dom.IsTableCell); cell != nil {
		dom.Detach(m)
		dom.InsertAt(cell, 0, m)
	}
	e.settle(m, nil)
	return true
}

// insertBlockDialog inserts a new block element and records it.
func (e *Editor) insertBlockDialog(t history.Type, n *html.Node) error {
	if err := e.editable(); err != nil {
		return err
	}
	if err := e.replaceSelection(); err != nil {
		return err
	}
	before := e.Selection()
	if !e.InsertBlock(n) {
		return fmt.Errorf("%s: %w", t, ErrUnsupported)
	}
	e.record(t, before, &history.DOMData{To: dom.Clone(n), Split: true})
	e.modified(t.String())
	return nil
}

func newTable(rows, cols int) *html.Node {
	table := dom.NewElement(atom.Table, html.Attribute{Key: "border", Val: "1"})
	tbody := dom.NewElement(atom.Tbody)
	table.AppendChild(tbody)
	resizeTable(table, rows, cols)
	return table
}

// tableRows returns the rows of table in order.
func tableRows(table *html.Node) []*html.Node {
	return dom.FindAll(table, func(n *html.Node) bool { return dom.IsElement(n, atom.Tr) })
}

// resizeTable adds or removes rows and cells until table is rows by cols.
func resizeTable(table *html.Node, rows, cols int) {
	body := dom.FindFirst(table, func(n *html.Node) bool { return dom.IsElement(n, atom.Tbody) })
	if body == nil {
		body = table
	}
	trs := tableRows(table)
	for i := len(trs); i < rows; i++ {
		tr := dom.NewElement(atom.Tr)
		body.AppendChild(tr)
		trs = append(trs, tr)
	}
	for _, tr := range trs[rows:] {
		dom.Detach(tr)
	}
	for _, tr := range trs[:rows] {
		cells := dom.FindAll(tr, dom.IsTableCell)
		for i := len(cells); i < cols; i++ {
			tr.AppendChild(dom.NewElement(atom.Td))
		}
		if len(cells) > cols {
			for _, td := range cells[cols:] {
				dom.Detach(td)
			}
		}
	}
}

// TableSize returns the rows and columns of the table at the caret.
func (e *Editor) TableSize() (rows, cols int, ok bool) {
	table := e.near(atom.Table)
	if table == nil {
		return 0, 0, false
	}
	trs := tableRows(table)
	if len(trs) > 0 {
		cols = len(dom.FindAll(trs[0], dom.IsTableCell))
	}
	return len(trs), cols, true
}

// InsertTable inserts an empty rows by cols table and puts the caret in
// its first cell.
func (e *Editor) InsertTable(rows, cols int) error {
	if rows < 1 || cols < 1 {
		return fmt.Errorf("table of %dx%d: %w", rows, cols, ErrUnsupported)
	}
	return e.insertBlockDialog(history.TableDialog, newTable(rows, cols))
}

// EditTable resizes the table at the caret.
func (e *Editor) EditTable(rows, cols int) error {
	if err := e.editable(); err != nil {
		return err
	}
	if rows < 1 || cols < 1 {
		return fmt.Errorf("table of %dx%d: %w", rows, cols, ErrUnsupported)
	}
	r, err := e.selectedRange()
	if err != nil {
		return err
	}
	table := dom.Near(r.Start, func(n *html.Node) bool { return dom.IsElement(n, atom.Table) })
	if table == nil {
		return fmt.Errorf("no table at the caret: %w", ErrUnsupported)
	}
	before := e.Selection()
	from := dom.Clone(table)

	m := dom.InsertMarker(r.Start, dom.StartMarkerID)
	resizeTable(table, rows, cols)
	if !dom.Contains(table, m) {
		dom.Detach(m)
		if cell := dom.FindFirst(table, dom.IsTableCell); cell != nil {
			dom.InsertAt(cell, 0, m)
		}
	}
	to := dom.Clone(table)
	dom.RemoveMarkers(to)
	e.settle(m, nil)

	e.record(history.TableDialog, before, &history.DOMData{From: from, To: to})
	e.modified("table-dialog")
	return nil
}

// InsertHRule inserts a horizontal rule after the caret's paragraph.
func (e *Editor) InsertHRule() error {
	return e.insertBlockDialog(history.HRuleDialog, dom.NewElement(atom.Hr))
}

// near returns the element with tag that an edit at the caret works on.
func (e *Editor) near(tag atom.Atom) *html.Node {
	r, err := e.selectedRange()
	if err != nil {
		return nil
	}
	return dom.Near(r.Start, func(n *html.Node) bool { return dom.IsElement(n, tag) })
}

// editElement sets attributes on the element with tag near the caret and
// records the element before and after. An empty value removes the
// attribute.
func (e *Editor) editElement(t history.Type, tag atom.Atom, attrs []html.Attribute) error {
	if err := e.editable(); err != nil {
		return err
	}
	n := e.near(tag)
	if n == nil {
		return fmt.Errorf("%s: no %s at the caret: %w", t, tag, ErrUnsupported)
	}
	before := e.Selection()
	from := dom.Clone(n)
	for _, a := range attrs {
		if a.Val == "" {
			dom.RemoveAttr(n, a.Key)
		} else {
			dom.SetAttr(n, a.Key, a.Val)
		}
	}
	e.Changed()
	e.record(t, before, &history.DOMData{From: from, To: dom.Clone(n)})
	e.modified(t.String())
	return nil
}

// EditHRule changes the attributes of the rule at the caret.
func (e *Editor) EditHRule(attrs ...html.Attribute) error {
	return e.editElement(history.HRuleDialog, atom.Hr, attrs)
}

// EditImage changes the attributes of the image before the caret.
func (e *Editor) EditImage(attrs ...html.Attribute) error {
	return e.editElement(history.ImageDialog, atom.Img, attrs)
}

// insertAtomic puts an image or smiley at the caret and records it.
func (e *Editor) insertAtomic(t history.Type, n *html.Node, text string) error {
	if err := e.editable(); err != nil {
		return err
	}
	if err := e.replaceSelection(); err != nil {
		return err
	}
	p, _, err := e.caretLeaf()
	if err != nil {
		return err
	}
	before := e.Selection()
	m := dom.NewMarker(dom.StartMarkerID)
	dom.InsertNodes(p, n, m)
	e.settle(m, nil)

	e.record(t, before, &history.FragmentData{
		Fragment: dom.NewFragment(dom.Clone(n)),
		Text:     text,
	})
	e.modified(t.String())
	return nil
}

// InsertImage inserts an image at the caret.
func (e *Editor) InsertImage(src, alt string) error {
	img := dom.NewElement(atom.Img, html.Attribute{Key: "src", Val: src})
	if alt != "" {
		dom.SetAttr(img, "alt", alt)
	}
	return e.insertAtomic(history.Image, img, "")
}

// InsertSmiley inserts the emoji for a smiley code at the caret.
func (e *Editor) InsertSmiley(code string) error {
	emoji, ok := SmileyFor(code)
	if !ok {
		return fmt.Errorf("unknown smiley %q: %w", code, ErrUnsupported)
	}
	return e.insertAtomic(history.Smiley, newSmiley(code, emoji), code)
}

func isLink(n *html.Node) bool {
	return dom.IsElement(n, atom.A)
}

// Link returns the href of the link at the caret.
func (e *Editor) Link() (string, bool) {
	r, err := e.selectedRange()
	if err != nil {
		return "", false
	}
	a := dom.Closest(r.Start.Node, isLink)
	if a == nil {
		return "", false
	}
	return dom.Attr(a, "href"), true
}

// EditLink changes the link at the caret, links the selected text, or
// inserts a new link showing text at the caret.
func (e *Editor) EditLink(href, text string) error {
	if err := e.editable(); err != nil {
		return err
	}
	if href == "" {
		return e.RemoveLink()
	}
	r, err := e.selectedRange()
	if err != nil {
		return err
	}
	before := e.Selection()

	if a := dom.Closest(r.Start.Node, isLink); a != nil {
		from := dom.Clone(a)
		dom.SetAttr(a, "href", href)
		if text != "" && text != dom.TextContent(a) {
			for _, ch := range dom.Children(a) {
				dom.Detach(ch)
			}
			a.AppendChild(dom.NewText(text))
			m := dom.NewMarker(dom.StartMarkerID)
			a.AppendChild(m)
			e.settle(m, nil)
		} else {
			e.Changed()
		}
		e.record(history.LinkDialog, before, &history.DOMData{From: from, To: dom.Clone(a)})
		e.modified("link-dialog")
		return nil
	}

	a := dom.NewElement(atom.A, html.Attribute{Key: "href", Val: href})
	if r.Collapsed() {
		if text == "" {
			text = href
		}
		a.AppendChild(dom.NewText(text))
		m := dom.NewMarker(dom.StartMarkerID)
		dom.InsertNodes(r.Start, a, m)
		e.settle(m, nil)
	} else {
		if dom.LeafBlock(r.Start.Node) != dom.LeafBlock(r.End.Node) {
			return fmt.Errorf("linking across paragraphs: %w", ErrUnsupported)
		}
		start, end := dom.InsertMarkers(r)
		dom.WrapInline(start, end, a)
		e.settle(start, end)
	}
	e.record(history.LinkDialog, before, &history.DOMData{To: dom.Clone(a)})
	e.modified("link-dialog")
	return nil
}

// RemoveLink unwraps the link at the caret and selects its text.
func (e *Editor) RemoveLink() error {
	if err := e.editable(); err != nil {
		return err
	}
	r, err := e.selectedRange()
	if err != nil {
		return err
	}
	a := dom.Closest(r.Start.Node, isLink)
	if a == nil {
		a = dom.Near(r.Start, isLink)
	}
	if a == nil {
		logger.DebugTagf("core", "remove-link: no link at %v", r.Start)
		return nil
	}
	before := e.Selection()
	shell := dom.ShallowClone(a)

	start := dom.InsertMarker(dom.Position{Node: a, Offset: 0}, dom.StartMarkerID)
	end := dom.InsertMarker(dom.Position{Node: a, Offset: dom.ChildCount(a)}, dom.EndMarkerID)
	dom.Unwrap(a)
	e.settle(start, end)

	e.record(history.RemoveLink, before, &history.FragmentData{Fragment: dom.NewFragment(shell)})
	e.modified("remove-link")
	return nil
}

// PageAttributes returns the page colors set on the body.
func (e *Editor) PageAttributes() []html.Attribute {
	return dom.BodyAttributes(e.doc)
}

// EditPage sets the page colors. Attributes not listed are removed.
func (e *Editor) EditPage(attrs ...html.Attribute) error {
	if err := e.editable(); err != nil {
		return err
	}
	before := e.Selection()
	from := dom.ShallowClone(e.body)
	dom.SetBodyAttributes(e.doc, attrs)
	e.Changed()
	e.record(history.PageDialog, before, &history.DOMData{From: from, To: dom.ShallowClone(e.body)})
	e.modified("page-dialog")
	return nil
}
