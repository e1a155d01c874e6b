package history

import (
	"github.com/bethropolis/composer/internal/dom"
	"github.com/bethropolis/composer/internal/logger"
	"github.com/bethropolis/composer/internal/types"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// undoEvent moves the document from ev.After back to ev.Before.
func (m *Manager) undoEvent(ev *Event) {
	logger.DebugTagf("history", "undo %v", ev)
	e := m.editor

	switch ev.Type {
	case Start, And, ReplaceAll:
		return
	case Bold, Italic, Underline, Strikethrough, Monospace, FontSize, Alignment, Indent, Wrap:
		e.RestoreSelection(ev.After)
		m.applyStyle(ev.Type, ev.Style().From, ev.Style().To)
	case FontColor:
		e.RestoreSelection(ev.After)
		check(ev, e.SetFontColor(ev.Strings().From))
	case Delete:
		m.undoDelete(ev)
	case Input:
		m.undoInput(ev)
	case Paste, PasteAsText, PasteQuoted, InsertHTML:
		m.undoInsertion(ev)
	case Replace:
		e.RestoreSelection(types.NewSelection(ev.Before.Start, ev.After.End))
		check(ev, e.InsertText(ev.Strings().From))
	case CitationSplit:
		e.RestoreSelection(ev.After)
		d := ev.Fragment()
		m.swapRegion(ev, d.Region, d.Fragment)
	case Unquote, BlockFormat:
		e.RestoreSelection(ev.After)
		d := ev.DOM()
		m.swapRegion(ev, d.Region, d.From)
	case Image, Smiley:
		m.undoAtomic(ev)
	case RemoveLink:
		m.undoRemoveLink(ev)
	case LinkDialog, ImageDialog, TableDialog, HRuleDialog:
		m.undoDialog(ev)
	case PageDialog:
		if from := ev.DOM().From; from != nil {
			dom.SetBodyAttributes(e.Document(), from.Attr)
		}
		e.Changed()
	case TableInput:
		e.RestoreSelection(ev.After)
		d := ev.DOM()
		m.swapRegion(ev, d.Region, dom.NewFragment(dom.Clone(d.From)))
	default:
		logger.WarnTagf("history", "no undo handler for %v", ev)
		return
	}
	e.RestoreSelection(ev.Before)
}

// redoEvent moves the document from ev.Before to ev.After.
func (m *Manager) redoEvent(ev *Event) {
	logger.DebugTagf("history", "redo %v", ev)
	e := m.editor

	switch ev.Type {
	case Start, And, ReplaceAll:
		return
	case Bold, Italic, Underline, Strikethrough, Monospace, FontSize, Alignment, Indent, Wrap:
		e.RestoreSelection(ev.Before)
		m.applyStyle(ev.Type, ev.Style().To, ev.Style().From)
	case FontColor:
		e.RestoreSelection(ev.Before)
		check(ev, e.SetFontColor(ev.Strings().To))
	case Delete:
		m.redoDelete(ev)
	case Input:
		e.RestoreSelection(ev.Before)
		if ev.Fragment().Return {
			check(ev, e.InsertReturn())
		} else {
			check(ev, e.InsertText(dom.TextContent(ev.Fragment().Fragment)))
		}
	case Paste:
		e.RestoreSelection(ev.Before)
		check(ev, e.Paste(ev.Strings().To))
	case PasteAsText:
		e.RestoreSelection(ev.Before)
		check(ev, e.PasteAsText(ev.Strings().To))
	case PasteQuoted:
		e.RestoreSelection(ev.Before)
		check(ev, e.PasteQuoted(ev.Strings().To))
	case InsertHTML:
		e.RestoreSelection(ev.Before)
		check(ev, e.InsertHTML(ev.Strings().To))
	case Replace:
		e.RestoreSelection(ev.Before)
		check(ev, e.InsertText(ev.Strings().To))
	case CitationSplit:
		e.RestoreSelection(ev.Before)
		check(ev, e.InsertReturn())
	case Unquote:
		e.RestoreSelection(ev.Before)
		check(ev, e.Unquote())
	case BlockFormat:
		e.RestoreSelection(ev.Before)
		d := ev.DOM()
		m.swapRegion(ev, resized(d.Region, d.From), d.To)
	case Image, Smiley:
		m.redoAtomic(ev)
	case RemoveLink:
		e.RestoreSelection(ev.Before)
		check(ev, e.RemoveLink())
	case LinkDialog, ImageDialog, TableDialog, HRuleDialog:
		m.redoDialog(ev)
	case PageDialog:
		if to := ev.DOM().To; to != nil {
			dom.SetBodyAttributes(e.Document(), to.Attr)
		}
		e.Changed()
	case TableInput:
		e.RestoreSelection(ev.Before)
		d := ev.DOM()
		m.swapRegion(ev, d.Region, dom.NewFragment(dom.Clone(d.To)))
	default:
		logger.WarnTagf("history", "no redo handler for %v", ev)
		return
	}
	e.RestoreSelection(ev.After)
}

func check(ev *Event, err error) {
	if err != nil {
		logger.WarnTagf("history", "replaying %v: %v", ev, err)
	}
}

// applyStyle calls the setter for t with value. For indentation the pair
// decides the direction.
func (m *Manager) applyStyle(t Type, value, other int) {
	e := m.editor
	on := value != 0
	var err error
	switch t {
	case Bold:
		err = e.SetBold(on)
	case Italic:
		err = e.SetItalic(on)
	case Underline:
		err = e.SetUnderline(on)
	case Strikethrough:
		err = e.SetStrikethrough(on)
	case Monospace:
		err = e.SetMonospace(on)
	case FontSize:
		err = e.SetFontSize(value)
	case Alignment:
		err = e.SetAlignment(types.Alignment(value))
	case Indent:
		if value > other {
			err = e.Indent()
		} else {
			err = e.Unindent()
		}
	case Wrap:
		if on {
			err = e.WrapLines()
		} else {
			err = e.UnwrapLines()
		}
	}
	if err != nil {
		logger.WarnTagf("history", "applying %v=%d: %v", t, value, err)
	}
}

// resized returns a copy of r covering as many nodes as n has children.
// Redo swaps a run whose length differs from the sealed one.
func resized(r *dom.Region, n *html.Node) *dom.Region {
	if r == nil || n == nil {
		return nil
	}
	c := r.Clone()
	c.Count = dom.ChildCount(n)
	return c
}

// swapRegion puts clones of the children of nodes back into region.
func (m *Manager) swapRegion(ev *Event, region *dom.Region, nodes *html.Node) {
	if region == nil || nodes == nil {
		logger.WarnTagf("history", "%v: nothing recorded to swap", ev)
		return
	}
	body := m.editor.Body()
	if _, err := region.Clone().Replace(body, dom.CloneChildren(nodes)); err != nil {
		logger.WarnTagf("history", "%v: %v", ev, err)
		return
	}
	m.editor.Changed()
}

func (m *Manager) undoDelete(ev *Event) {
	e := m.editor
	d := ev.Fragment()
	r, ok := e.RestoreSelection(ev.After)
	switch {
	case d.Region != nil:
		m.swapRegion(ev, d.Region, d.Fragment)
	case !ok || d.Fragment == nil:
		logger.WarnTagf("history", "%v: cannot place deleted content", ev)
		return
	default:
		dom.InsertInline(r.Start, dom.CloneChildren(d.Fragment)...)
		e.Changed()
	}
	e.PostProcess()
}

func (m *Manager) redoDelete(ev *Event) {
	e := m.editor
	d := ev.Fragment()
	e.RestoreSelection(ev.Before)
	var err error
	switch {
	case !ev.Before.Collapsed():
		err = e.DeleteSelection()
	case d.DeleteKey:
		err = e.DeleteForward(d.Control)
	default:
		err = e.DeleteBackward(d.Control)
	}
	check(ev, err)
	e.PostProcess()
}

func (m *Manager) undoInput(ev *Event) {
	e := m.editor
	d := ev.Fragment()
	if !d.Return {
		// select what was typed and take it out again, keeping an emptied
		// style run alive with a placeholder
		e.RestoreSelection(types.NewSelection(ev.Before.Start, ev.After.End))
		check(ev, e.DeleteSelectionKeepStyle())
		return
	}

	r, ok := e.RestoreSelection(ev.After)
	if !ok {
		return
	}
	leaf := dom.LeafBlock(r.Start.Node)
	prev := leaf
	if leaf != nil {
		prev = leaf.PrevSibling
	}
	if leaf == nil || !dom.IsLeafBlock(prev) {
		logger.WarnTagf("history", "%v: no split block to merge", ev)
		return
	}
	dom.MoveChildren(leaf, prev)
	dom.Detach(leaf)
	e.Changed()
}

func (m *Manager) undoInsertion(ev *Event) {
	e := m.editor
	e.RestoreSelection(types.NewSelection(ev.Before.Start, ev.After.End))
	check(ev, e.DeleteSelection())
}

func (m *Manager) undoAtomic(ev *Event) {
	e := m.editor
	d := ev.Fragment()
	r, ok := e.RestoreSelection(ev.After)
	if !ok {
		return
	}
	n := dom.NodeBefore(r.Start)
	if !dom.IsElement(n, atom.Img) && !dom.IsSmiley(n) {
		logger.WarnTagf("history", "%v: no element before the caret", ev)
		return
	}
	if d.Magic {
		dom.ReplaceWith(n, dom.NewText(d.Text))
	} else {
		dom.Detach(n)
	}
	e.Changed()
}

func (m *Manager) redoAtomic(ev *Event) {
	e := m.editor
	d := ev.Fragment()
	e.RestoreSelection(ev.Before)
	if d.Magic {
		for range []rune(d.Text) {
			check(ev, e.DeleteBackward(false))
		}
	}
	r, ok := e.RestoreSelection(e.Selection())
	if !ok || d.Fragment == nil {
		return
	}
	dom.InsertNodes(r.Start, dom.CloneChildren(d.Fragment)...)
	e.Changed()
}

func (m *Manager) undoRemoveLink(ev *Event) {
	e := m.editor
	d := ev.Fragment()
	r, ok := e.RestoreSelection(ev.After)
	if !ok || d.Fragment == nil || d.Fragment.FirstChild == nil || r.Collapsed() {
		logger.WarnTagf("history", "%v: nothing to relink", ev)
		return
	}
	wrapRange(r, d.Fragment.FirstChild)
	e.Changed()
}

// wrapRange moves the inline content of r into a shallow copy of like.
func wrapRange(r dom.Range, like *html.Node) *html.Node {
	start, end := dom.InsertMarkers(r)
	a := dom.WrapInline(start, end, dom.ShallowClone(like))
	dom.Detach(start)
	dom.Detach(end)
	return a
}

// dialogTarget tells which element a dialog event edits.
func dialogTarget(t Type) func(*html.Node) bool {
	switch t {
	case LinkDialog:
		return func(n *html.Node) bool { return dom.IsElement(n, atom.A) }
	case ImageDialog:
		return func(n *html.Node) bool { return dom.IsElement(n, atom.Img) }
	case TableDialog:
		return func(n *html.Node) bool { return dom.IsElement(n, atom.Table) }
	case HRuleDialog:
		return func(n *html.Node) bool { return dom.IsElement(n, atom.Hr) }
	}
	return func(*html.Node) bool { return false }
}

func (m *Manager) undoDialog(ev *Event) {
	e := m.editor
	d := ev.DOM()
	r, ok := e.RestoreSelection(ev.After)
	if !ok {
		return
	}
	target := dom.Near(r.Start, dialogTarget(ev.Type))
	if target == nil {
		logger.WarnTagf("history", "%v: element not found near %v", ev, r.Start)
		return
	}

	switch {
	case d.From != nil:
		dom.ReplaceWith(target, dom.Clone(d.From))
	case ev.Type == LinkDialog && ev.Before.Collapsed():
		dom.Detach(target)
	case ev.Type == LinkDialog:
		dom.Unwrap(target)
	default:
		left, right := target.PrevSibling, target.NextSibling
		dom.Detach(target)
		if d.Split && dom.IsLeafBlock(left) && dom.IsLeafBlock(right) {
			dom.MoveChildren(right, left)
			dom.Detach(right)
		}
	}
	e.Changed()
}

func (m *Manager) redoDialog(ev *Event) {
	e := m.editor
	d := ev.DOM()
	if d.To == nil {
		return
	}
	if d.From == nil {
		r, ok := e.RestoreSelection(ev.Before)
		if !ok {
			return
		}
		switch {
		case ev.Type != LinkDialog:
			e.InsertBlock(dom.Clone(d.To))
		case r.Collapsed():
			dom.InsertNodes(r.Start, dom.Clone(d.To))
		default:
			wrapRange(r, d.To)
		}
		e.Changed()
		return
	}

	r, ok := e.RestoreSelection(ev.Before)
	if !ok {
		return
	}
	target := dom.Near(r.Start, dialogTarget(ev.Type))
	if target == nil {
		logger.WarnTagf("history", "%v: element not found near %v", ev, r.Start)
		return
	}
	dom.ReplaceWith(target, dom.Clone(d.To))
	e.Changed()
}
