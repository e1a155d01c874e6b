package core

import (
	"github.com/bethropolis/composer/internal/core/find"
	"github.com/bethropolis/composer/internal/core/history"
	"github.com/bethropolis/composer/internal/dom"
	"github.com/bethropolis/composer/internal/logger"
	"github.com/bethropolis/composer/internal/types"
)

// Find makes term the current search and selects its next occurrence.
func (e *Editor) Find(term string, opts find.Options) (bool, error) {
	if err := e.findManager.SetSearch(term, opts); err != nil {
		return false, err
	}
	return e.FindNext(true), nil
}

// FindNext selects the next occurrence of the current search, wrapping
// around the document. It reports whether anything matched.
func (e *Editor) FindNext(forward bool) bool {
	st := e.Selection()
	from := st.End
	if !forward {
		from = st.Start
	}
	m, ok := e.findManager.Next(from, forward)
	if !ok {
		return false
	}
	e.selectionManager.Set(types.NewSelection(m.Start, m.End))
	e.ScrollToCaret()
	return true
}

// Replace replaces the selection with text, keeping the style of the
// replaced text.
func (e *Editor) Replace(text string) error {
	if err := e.editable(); err != nil {
		return err
	}
	r, err := e.selectedRange()
	if err != nil {
		return err
	}
	if r.Collapsed() {
		return nil
	}
	before := e.Selection()
	from := e.rangeText(r)

	if _, err := e.deleteRange(r, true); err != nil {
		return err
	}
	if text != "" {
		r, err = e.selectedRange()
		if err != nil {
			return err
		}
		m := dom.NewMarker(dom.StartMarkerID)
		dom.InsertNodes(r.Start, dom.NewText(text), m)
		e.settle(m, nil)
	}

	e.record(history.Replace, before, &history.StringData{From: from, To: text})
	e.modified("replace")
	return nil
}

// ReplaceAll replaces every occurrence of term after the start of the
// document. The replacements undo and redo as one step. It returns the
// number of replacements.
func (e *Editor) ReplaceAll(term, text string, opts find.Options) (int, error) {
	if err := e.editable(); err != nil {
		return 0, err
	}
	re, err := find.Compile(term, opts)
	if err != nil {
		return 0, err
	}

	marker := func() {
		st := e.Selection()
		e.record(history.ReplaceAll, st, &history.StringData{From: term, To: text})
	}
	marker()

	count := 0
	from := e.lay.Start()
	for {
		m, ok := e.findManager.After(re, from)
		if !ok || m.Start == m.End {
			break
		}
		e.selectionManager.Set(types.NewSelection(m.Start, m.End))
		if err := e.Replace(text); err != nil {
			logger.WarnTagf("core", "replace-all: %v", err)
			break
		}
		count++
		from = e.Selection().End
	}

	if count == 0 {
		e.historyManager.RemoveCurrentHistoryEvent()
		return 0, nil
	}
	marker()
	logger.DebugTagf("core", "replace-all: %d replacement(s) of %q", count, term)
	e.modified("replace-all")
	return count, nil
}
