package core

import (
	"strconv"

	"github.com/bethropolis/composer/internal/core/history"
	"github.com/bethropolis/composer/internal/dom"
	"github.com/bethropolis/composer/internal/logger"
	"github.com/bethropolis/composer/internal/types"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// DefaultFontSize is the font size that needs no font element.
const DefaultFontSize = 3

// inlineStyle names the element that applies a style and the tags that
// already count as it.
type inlineStyle struct {
	tag     atom.Atom
	aliases []atom.Atom
}

var inlineStyles = map[history.Type]inlineStyle{
	history.Bold:          {atom.B, []atom.Atom{atom.B, atom.Strong}},
	history.Italic:        {atom.I, []atom.Atom{atom.I, atom.Em}},
	history.Underline:     {atom.U, []atom.Atom{atom.U}},
	history.Strikethrough: {atom.S, []atom.Atom{atom.S, atom.Strike, atom.Del}},
	history.Monospace:     {atom.Tt, []atom.Atom{atom.Tt, atom.Code}},
}

func (e *Editor) SetBold(on bool) error          { return e.setInline(history.Bold, on) }
func (e *Editor) SetItalic(on bool) error        { return e.setInline(history.Italic, on) }
func (e *Editor) SetUnderline(on bool) error     { return e.setInline(history.Underline, on) }
func (e *Editor) SetStrikethrough(on bool) error { return e.setInline(history.Strikethrough, on) }
func (e *Editor) SetMonospace(on bool) error     { return e.setInline(history.Monospace, on) }

// IsBold reports whether the selection starts in bold text.
func (e *Editor) IsBold() bool { return e.hasInline(history.Bold) }

// IsItalic reports whether the selection starts in italic text.
func (e *Editor) IsItalic() bool { return e.hasInline(history.Italic) }

// IsUnderline reports whether the selection starts in underlined text.
func (e *Editor) IsUnderline() bool { return e.hasInline(history.Underline) }

// IsStrikethrough reports whether the selection starts in struck text.
func (e *Editor) IsStrikethrough() bool { return e.hasInline(history.Strikethrough) }

// IsMonospace reports whether the selection starts in monospaced text.
func (e *Editor) IsMonospace() bool { return e.hasInline(history.Monospace) }

func (e *Editor) hasInline(t history.Type) bool {
	r, err := e.selectedRange()
	if err != nil {
		return false
	}
	return styledAncestor(r.Start.Node, inlineStyles[t].aliases...) != nil
}

// styledAncestor returns the nearest ancestor of n inside its leaf block
// that has one of the tags.
func styledAncestor(n *html.Node, tags ...atom.Atom) *html.Node {
	for ; n != nil && !dom.IsLeafBlock(n); n = n.Parent {
		if dom.IsElement(n, tags...) {
			return n
		}
	}
	return nil
}

// attrAncestor returns the nearest font element inside the leaf block
// carrying attr.
func attrAncestor(n *html.Node, attr string) *html.Node {
	for ; n != nil && !dom.IsLeafBlock(n); n = n.Parent {
		if dom.IsElement(n, atom.Font) {
			if _, ok := dom.LookupAttr(n, attr); ok {
				return n
			}
		}
	}
	return nil
}

func b2i(b bool) int {
	if b {
		return 1
	}
	return 0
}

// styleUnits prepares the selection for an inline style change. For a
// caret it returns a placeholder the next typed text will join; for a
// range it returns the text and atomic nodes between the markers.
func (e *Editor) styleUnits(r dom.Range) (units []*html.Node, start, end *html.Node) {
	if r.Collapsed() {
		holder := r.Start.Node
		if !isPlaceholder(holder) {
			holder = dom.NewText(dom.ZWSP)
			dom.InsertNodes(r.Start, holder)
		}
		start = dom.NewMarker(dom.StartMarkerID)
		dom.InsertAfter(holder, start)
		return []*html.Node{holder}, start, nil
	}

	start, end = dom.InsertMarkers(r)
	for n := dom.NextInOrder(e.body, start, true); n != nil && n != end; {
		switch {
		case dom.IsMarker(n):
			n = dom.NextInOrder(e.body, n, true)
			continue
		case dom.IsText(n) && n.Data != "":
			units = append(units, n)
		case dom.IsAtomic(n):
			units = append(units, n)
			n = dom.NextInOrder(e.body, n, true)
			continue
		}
		n = dom.NextInOrder(e.body, n, false)
	}
	return units, start, end
}

// settleStyle puts a caret marker back next to its placeholder, which
// styling may have moved, and settles the edit.
func (e *Editor) settleStyle(units []*html.Node, start, end *html.Node) {
	if end == nil && len(units) == 1 {
		dom.InsertAfter(units[0], start)
	}
	e.settle(start, end)
}

// unstyle splits the formatting elements with the given tags away from u.
func unstyle(u *html.Node, tags ...atom.Atom) {
	for el := styledAncestor(u.Parent, tags...); el != nil; el = styledAncestor(u.Parent, tags...) {
		top := dom.Isolate(u, el.Parent)
		dom.Unwrap(top)
	}
}

func (e *Editor) setInline(t history.Type, on bool) error {
	if err := e.editable(); err != nil {
		return err
	}
	r, err := e.selectedRange()
	if err != nil {
		return err
	}
	style := inlineStyles[t]
	from := styledAncestor(r.Start.Node, style.aliases...) != nil
	if from == on && r.Collapsed() {
		return nil
	}
	before := e.Selection()

	units, start, end := e.styleUnits(r)
	for _, u := range units {
		styled := styledAncestor(u.Parent, style.aliases...) != nil
		switch {
		case on && !styled:
			dom.Wrap(u, dom.NewElement(style.tag))
		case !on && styled:
			unstyle(u, style.aliases...)
		}
	}
	e.settleStyle(units, start, end)

	e.record(t, before, &history.StyleData{From: b2i(from), To: b2i(on)})
	e.modified(t.String())
	return nil
}

// setFontAttr gives the selection a font attribute; an empty value
// removes it.
func (e *Editor) setFontAttr(r dom.Range, attr, value string) {
	units, start, end := e.styleUnits(r)
	for _, u := range units {
		for el := attrAncestor(u.Parent, attr); el != nil; el = attrAncestor(u.Parent, attr) {
			top := dom.Isolate(u, el.Parent)
			dom.RemoveAttr(top, attr)
			if len(top.Attr) == 0 {
				dom.Unwrap(top)
			}
		}
		if value != "" {
			dom.Wrap(u, dom.NewElement(atom.Font, html.Attribute{Key: attr, Val: value}))
		}
	}
	e.settleStyle(units, start, end)
}

// FontSize returns the font size at the start of the selection.
func (e *Editor) FontSize() int {
	r, err := e.selectedRange()
	if err != nil {
		return DefaultFontSize
	}
	return fontSizeAt(r.Start.Node)
}

func fontSizeAt(n *html.Node) int {
	if el := attrAncestor(n, "size"); el != nil {
		if v, err := strconv.Atoi(dom.Attr(el, "size")); err == nil {
			return v
		}
	}
	return DefaultFontSize
}

// SetFontSize sets the font size, 1 to 7, of the selection.
func (e *Editor) SetFontSize(size int) error {
	if err := e.editable(); err != nil {
		return err
	}
	if size < 1 || size > 7 {
		return ErrUnsupported
	}
	r, err := e.selectedRange()
	if err != nil {
		return err
	}
	before := e.Selection()
	from := fontSizeAt(r.Start.Node)

	value := strconv.Itoa(size)
	if size == DefaultFontSize {
		value = ""
	}
	e.setFontAttr(r, "size", value)
	e.record(history.FontSize, before, &history.StyleData{From: from, To: size})
	e.modified("font-size")
	return nil
}

// FontColor returns the font color at the start of the selection, "" for
// the default.
func (e *Editor) FontColor() string {
	r, err := e.selectedRange()
	if err != nil {
		return ""
	}
	return dom.Attr(attrAncestor(r.Start.Node, "color"), "color")
}

// SetFontColor colors the selection; "" restores the default color.
func (e *Editor) SetFontColor(color string) error {
	if err := e.editable(); err != nil {
		return err
	}
	r, err := e.selectedRange()
	if err != nil {
		return err
	}
	before := e.Selection()
	from := dom.Attr(attrAncestor(r.Start.Node, "color"), "color")

	e.setFontAttr(r, "color", color)
	e.record(history.FontColor, before, &history.StringData{From: from, To: color})
	e.modified("font-color")
	return nil
}

// Alignment returns the alignment of the caret's paragraph.
func (e *Editor) Alignment() types.Alignment {
	_, leaf, err := e.caretLeaf()
	if err != nil {
		return types.AlignLeft
	}
	return types.ParseAlignment(dom.Attr(leaf, "align"))
}

// SetAlignment aligns every paragraph touched by the selection.
func (e *Editor) SetAlignment(a types.Alignment) error {
	if err := e.editable(); err != nil {
		return err
	}
	r, err := e.selectedRange()
	if err != nil {
		return err
	}
	before := e.Selection()
	leaves := e.leavesIn(r)
	if len(leaves) == 0 {
		return ErrNoSelection
	}
	from := types.ParseAlignment(dom.Attr(leaves[0], "align"))

	for _, leaf := range leaves {
		if a == types.AlignLeft {
			dom.RemoveAttr(leaf, "align")
		} else {
			dom.SetAttr(leaf, "align", a.String())
		}
	}
	e.Changed()
	e.record(history.Alignment, before, &history.StyleData{From: int(from), To: int(a)})
	e.modified("alignment")
	return nil
}

// BlockFormat returns the format of the caret's paragraph.
func (e *Editor) BlockFormat() types.BlockFormat {
	_, leaf, err := e.caretLeaf()
	if err != nil {
		return types.BlockParagraph
	}
	return blockFormatOf(leaf)
}

func blockFormatOf(leaf *html.Node) types.BlockFormat {
	if dom.IsElement(leaf, atom.Li) && leaf.Parent != nil {
		return types.FormatOfTag(leaf.Parent.DataAtom)
	}
	return types.FormatOfTag(leaf.DataAtom)
}

// SetBlockFormat changes the kind of every paragraph touched by the
// selection. List formats wrap paragraphs into list items; other formats
// take list items out of their list.
func (e *Editor) SetBlockFormat(f types.BlockFormat) error {
	if err := e.editable(); err != nil {
		return err
	}
	r, err := e.selectedRange()
	if err != nil {
		return err
	}
	before := e.Selection()
	leaves := e.leavesIn(r)
	if len(leaves) == 0 {
		return ErrNoSelection
	}
	region, err := e.formatRegion(leaves)
	if err != nil {
		return err
	}
	snapshot := region.Snapshot(e.body)

	start, end := dom.InsertMarkers(r)
	for _, leaf := range leaves {
		if dom.IsTableCell(leaf) || dom.IsElement(leaf, atom.Hr) {
			continue
		}
		setLeafFormat(leaf, f)
	}
	e.settle(start, end)
	if err := region.Seal(e.body); err != nil {
		logger.WarnTagf("core", "block format: sealing region: %v", err)
	}

	e.record(history.BlockFormat, before, &history.DOMData{
		From:   dom.NewFragment(snapshot...),
		To:     dom.NewFragment(region.Snapshot(e.body)...),
		Region: region,
	})
	e.modified("block-format")
	return nil
}

// formatRegion covers the top-level blocks holding leaves plus one
// neighbour on each side, since lists merge with adjacent lists.
func (e *Editor) formatRegion(leaves []*html.Node) (*dom.Region, error) {
	first := dom.ChildContaining(e.body, leaves[0])
	last := dom.ChildContaining(e.body, leaves[len(leaves)-1])
	if first == nil || last == nil {
		return nil, ErrNoSelection
	}
	if first.PrevSibling != nil {
		first = first.PrevSibling
	}
	if last.NextSibling != nil {
		last = last.NextSibling
	}
	return dom.NewRegion(e.body, first, last)
}

func setLeafFormat(leaf *html.Node, f types.BlockFormat) {
	inList := dom.IsElement(leaf, atom.Li) && dom.IsElement(leaf.Parent, atom.Ul, atom.Ol)
	switch {
	case f.IsList() && inList:
		if leaf.Parent.DataAtom != f.Tag() {
			top := dom.Isolate(leaf, leaf.Parent.Parent)
			dom.Rename(top, f.Tag())
		}
	case f.IsList():
		dom.Rename(leaf, atom.Li)
		dom.Wrap(leaf, dom.NewElement(f.Tag()))
	case inList:
		top := dom.Isolate(leaf, leaf.Parent.Parent)
		dom.Rename(leaf, f.Tag())
		dom.Unwrap(top)
	default:
		dom.Rename(leaf, f.Tag())
	}
}
