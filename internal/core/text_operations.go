package core

import (
	"fmt"
	"unicode/utf8"

	"github.com/bethropolis/composer/internal/core/history"
	"github.com/bethropolis/composer/internal/dom"
	"github.com/bethropolis/composer/internal/layout"
	"github.com/bethropolis/composer/internal/logger"
	"github.com/bethropolis/composer/internal/types"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// keepStyleTags are the formatting elements a placeholder keeps alive
// when their content is deleted.
var keepStyleTags = []atom.Atom{atom.B, atom.I, atom.U, atom.S, atom.Tt, atom.Font, atom.Strong, atom.Em, atom.Code}

// deleteRange removes the content of r without recording history. Inline
// deletes return the removed content; deletes spanning blocks return a
// snapshot of the region they rebuilt.
func (e *Editor) deleteRange(r dom.Range, keepStyle bool) (*history.FragmentData, error) {
	if r.Collapsed() {
		return nil, nil
	}
	startLeaf, endLeaf := dom.LeafBlock(r.Start.Node), dom.LeafBlock(r.End.Node)
	if startLeaf == nil || endLeaf == nil {
		return nil, ErrNoSelection
	}

	if startLeaf == endLeaf {
		start, end := dom.InsertMarkers(r)
		frag := dom.DeleteContents(start, end)
		if keepStyle && dom.IsElement(end.Parent, keepStyleTags...) && !dom.HasContent(end.Parent) {
			end.Parent.InsertBefore(dom.NewText(dom.ZWSP), end)
		}
		e.settle(end, nil)
		return &history.FragmentData{Fragment: frag}, nil
	}

	if dom.IsTableCell(startLeaf) || dom.IsTableCell(endLeaf) {
		return nil, fmt.Errorf("deleting across a table cell: %w", ErrUnsupported)
	}
	c := dom.CommonAncestor(startLeaf, endLeaf)
	region, err := dom.NewRegion(e.body, dom.ChildContaining(c, startLeaf), dom.ChildContaining(c, endLeaf))
	if err != nil {
		return nil, fmt.Errorf("deleting across blocks: %w", err)
	}
	snapshot := region.Snapshot(e.body)

	start, end := dom.InsertMarkers(r)
	dom.DeleteContents(start, end)
	e.settle(end, nil)
	if err := region.Seal(e.body); err != nil {
		logger.WarnTagf("core", "delete: sealing region: %v", err)
	}
	return &history.FragmentData{Fragment: dom.NewFragment(snapshot...), Region: region}, nil
}

// DeleteSelection removes the selected content.
func (e *Editor) DeleteSelection() error {
	return e.deleteSelection(false)
}

// DeleteSelectionKeepStyle removes the selected content and leaves a
// placeholder so that typing continues in the removed text's style.
func (e *Editor) DeleteSelectionKeepStyle() error {
	return e.deleteSelection(true)
}

func (e *Editor) deleteSelection(keepStyle bool) error {
	if err := e.editable(); err != nil {
		return err
	}
	r, err := e.selectedRange()
	if err != nil || r.Collapsed() {
		return err
	}
	before := e.Selection()
	data, err := e.deleteRange(r, keepStyle)
	if err != nil {
		return err
	}
	e.record(history.Delete, before, data)
	e.modified("delete")
	return nil
}

// replaceSelection deletes a selection ahead of an insertion and glues
// the deletion to what follows.
func (e *Editor) replaceSelection() error {
	if !e.selectionManager.HasSelection() {
		return nil
	}
	if err := e.deleteSelection(false); err != nil {
		return err
	}
	st := e.Selection()
	e.historyManager.InsertHistoryEvent(history.NewEvent(history.And, st, st, nil))
	return nil
}

// DeleteBackward deletes the grapheme or word before the caret, or the
// selection. At the start of a block it joins the block to the previous one.
func (e *Editor) DeleteBackward(word bool) error {
	return e.deleteKey(false, word)
}

// DeleteForward deletes the grapheme or word after the caret, or the
// selection. At the end of a block it joins the next block to it.
func (e *Editor) DeleteForward(word bool) error {
	return e.deleteKey(true, word)
}

func (e *Editor) deleteKey(forward, word bool) error {
	if err := e.editable(); err != nil {
		return err
	}
	if e.selectionManager.HasSelection() {
		return e.DeleteSelection()
	}

	before := e.Selection()
	head := before.Start
	var target types.Point
	switch {
	case forward && word:
		target = e.lay.WordRight(head)
	case forward:
		target = e.lay.Right(head)
	case word:
		target = e.lay.WordLeft(head)
	default:
		target = e.lay.Left(head)
	}
	if target == head {
		return nil
	}

	from, to := target, head
	if forward {
		from, to = head, target
	}
	if from.Y < 0 || to.Y >= len(e.lay.Lines) {
		return ErrNoSelection
	}
	fromLine, toLine := e.lay.Lines[from.Y].Block, e.lay.Lines[to.Y].Block
	if fromLine != toLine {
		return e.joinBlocks(before, fromLine, toLine, forward, word)
	}

	start, _ := e.lay.PositionAt(from, layout.BiasStart)
	end, _ := e.lay.PositionAt(to, layout.BiasEnd)
	data, err := e.deleteRange(dom.Range{Start: start, End: end}, false)
	if err != nil || data == nil {
		return err
	}
	data.DeleteKey, data.Control = forward, word
	e.record(history.Delete, before, data)
	e.modified("delete")
	return nil
}

// joinBlocks handles a delete key at a block boundary between the leaves
// first and second.
func (e *Editor) joinBlocks(before types.SelectionState, first, second *html.Node, forward, word bool) error {
	cur, other := second, first
	if forward {
		cur, other = first, second
	}

	switch {
	case !forward && dom.Depth(cur) > 0 && dom.Depth(other) < dom.Depth(cur):
		return e.Unquote()
	case dom.IsTableCell(cur) || dom.IsTableCell(other):
		logger.DebugTagf("core", "delete: not leaving a table cell")
		return nil
	case dom.IsElement(other, atom.Hr):
		return e.removeRule(before, other, forward)
	}

	start := dom.Position{Node: first, Offset: dom.ChildCount(first)}
	end := dom.Position{Node: second, Offset: 0}
	data, err := e.deleteRange(dom.Range{Start: start, End: end}, false)
	if err != nil || data == nil {
		return err
	}
	data.DeleteKey, data.Control, data.Concatenated = forward, word, true
	e.record(history.Delete, before, data)
	e.modified("delete")
	return nil
}

// removeRule deletes a horizontal rule next to the caret.
func (e *Editor) removeRule(before types.SelectionState, hr *html.Node, forward bool) error {
	r, err := e.selectedRange()
	if err != nil {
		return err
	}
	region, err := dom.NewRegion(e.body, hr, hr)
	if err != nil {
		return err
	}
	snapshot := region.Snapshot(e.body)
	m := dom.InsertMarker(r.Start, dom.StartMarkerID)
	dom.Detach(hr)
	e.settle(m, nil)
	if err := region.Seal(e.body); err != nil {
		logger.WarnTagf("core", "delete: sealing region: %v", err)
	}
	e.record(history.Delete, before, &history.FragmentData{
		Fragment:  dom.NewFragment(snapshot...),
		Region:    region,
		DeleteKey: forward,
	})
	e.modified("delete")
	return nil
}

// InsertText types text at the caret, replacing any selection.
func (e *Editor) InsertText(text string) error {
	if err := e.editable(); err != nil {
		return err
	}
	if text == "" {
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

	if dom.IsTableCell(leaf) {
		return e.tableInput(before, leaf, func() *html.Node {
			m := dom.NewMarker(dom.StartMarkerID)
			dom.InsertNodes(p, dom.NewText(text), m)
			return m
		})
	}

	m := dom.NewMarker(dom.StartMarkerID)
	dom.InsertNodes(p, dom.NewText(text), m)
	after := e.settle(m, nil)

	ev := history.NewEvent(history.Input, before, after, &history.FragmentData{
		Fragment: dom.NewFragment(dom.NewText(text)),
	})
	if utf8.RuneCountInString(text) == 1 {
		e.historyManager.InsertDashHistoryEvent(ev)
	} else {
		e.historyManager.InsertHistoryEvent(ev)
	}

	if !e.replaying() {
		e.magicSmiley()
		if r, _ := utf8.DecodeLastRuneInString(text); isSpace(r) {
			e.PostProcess()
		}
	}
	e.modified("insert-text")
	return nil
}

// tableInput runs an edit inside a table cell and records the cell's
// content before and after it.
func (e *Editor) tableInput(before types.SelectionState, cell *html.Node, edit func() *html.Node) error {
	region, err := dom.NewRegion(e.body, cell, cell)
	if err != nil {
		return err
	}
	from := dom.Clone(cell)
	m := edit()
	e.settle(m, nil)
	e.record(history.TableInput, before, &history.DOMData{
		From:   from,
		To:     dom.Clone(cell),
		Region: region,
	})
	e.modified("table-input")
	return nil
}

// InsertReturn breaks the caret's paragraph. In a table cell it inserts a
// line break; in a citation it splits the quote around a new paragraph;
// in an empty list item it ends the list.
func (e *Editor) InsertReturn() error {
	if err := e.editable(); err != nil {
		return err
	}
	if err := e.replaceSelection(); err != nil {
		return err
	}
	p, leaf, err := e.caretLeaf()
	if err != nil {
		return err
	}
	before := e.Selection()

	switch {
	case dom.IsTableCell(leaf):
		return e.tableInput(before, leaf, func() *html.Node {
			m := dom.NewMarker(dom.StartMarkerID)
			dom.InsertNodes(p, dom.NewElement(atom.Br), m)
			return m
		})
	case dom.Depth(leaf) > 0:
		return e.splitCitation(before, p, leaf)
	case dom.IsElement(leaf, atom.Li) && !dom.HasContent(leaf):
		return e.SetBlockFormat(types.BlockParagraph)
	}

	m := dom.InsertMarker(p, dom.StartMarkerID)
	right := dom.SplitBefore(m, leaf.Parent, true)
	if dom.IsElement(right, atom.H1, atom.H2, atom.H3, atom.H4, atom.H5, atom.H6) && !dom.HasContent(right) {
		dom.Rename(right, atom.Div)
	}
	dom.RemoveAttr(right, "id")
	e.settle(m, nil)

	e.record(history.Input, before, &history.FragmentData{
		Fragment: dom.NewFragment(dom.NewElement(atom.Br)),
		Return:   true,
	})
	if !e.replaying() && e.opts.MagicLinks {
		e.linkify(leaf, true)
		e.Changed()
	}
	e.modified("insert-return")
	return nil
}

// splitCitation breaks the outermost citation around the caret and puts
// an empty, unquoted paragraph between the halves.
func (e *Editor) splitCitation(before types.SelectionState, p dom.Position, leaf *html.Node) error {
	cit := dom.OutermostCitation(leaf)
	region, err := dom.NewRegion(e.body, cit, cit)
	if err != nil {
		return err
	}
	snapshot := region.Snapshot(e.body)
	parent := cit.Parent

	m := dom.InsertMarker(p, dom.StartMarkerID)
	splitAt := m
	if !contentAfter(m, leaf) {
		splitAt = dom.NextInOrder(cit, leaf, true)
	}
	// split while the marker still sits in the leaf
	var right *html.Node
	if splitAt != nil {
		right = dom.SplitBefore(splitAt, parent, false)
	}
	div := dom.NewElement(atom.Div)
	dom.Detach(m)
	div.AppendChild(m)
	if right == nil {
		dom.InsertAfter(cit, div)
	} else {
		parent.InsertBefore(div, right)
	}
	if !dom.HasContent(leaf) {
		// an empty quoted line gives way to the new paragraph
		dom.Detach(leaf)
	}
	e.settle(m, nil)
	if err := region.Seal(e.body); err != nil {
		logger.WarnTagf("core", "citation split: sealing region: %v", err)
	}

	e.record(history.CitationSplit, before, &history.FragmentData{
		Fragment: dom.NewFragment(snapshot...),
		Region:   region,
	})
	e.modified("citation-split")
	return nil
}

// contentAfter reports whether leaf has content after the marker.
func contentAfter(m, leaf *html.Node) bool {
	for n := dom.NextInOrder(leaf, m, true); n != nil; n = dom.NextInOrder(leaf, n, false) {
		if dom.IsText(n) && dom.HasContent(n) || dom.IsAtomic(n) && !dom.IsMarker(n) || dom.IsElement(n, atom.Br) {
			return true
		}
	}
	return false
}

// Unquote takes the caret's paragraph out of its innermost citation.
func (e *Editor) Unquote() error {
	if err := e.editable(); err != nil {
		return err
	}
	p, leaf, err := e.caretLeaf()
	if err != nil {
		return err
	}
	cit := dom.Closest(leaf, dom.IsCitation)
	if cit == nil {
		return nil
	}
	before := e.Selection()
	region, err := dom.NewRegion(e.body, cit, cit)
	if err != nil {
		return err
	}
	snapshot := region.Snapshot(e.body)

	m := dom.InsertMarker(p, dom.StartMarkerID)
	top := dom.Isolate(leaf, cit.Parent)
	if dom.IsCitation(top) {
		dom.Unwrap(top)
	}
	e.settle(m, nil)
	if err := region.Seal(e.body); err != nil {
		logger.WarnTagf("core", "unquote: sealing region: %v", err)
	}

	e.record(history.Unquote, before, &history.DOMData{
		From:   dom.NewFragment(snapshot...),
		Region: region,
	})
	e.modified("unquote")
	return nil
}
