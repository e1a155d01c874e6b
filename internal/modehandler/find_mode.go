package modehandler

import (
	"github.com/bethropolis/composer/internal/input"
	"github.com/bethropolis/composer/internal/logger"
)

// handleActionFind handles actions when in ModeFind. Matches are
// highlighted as the term is typed.
func (mh *ModeHandler) handleActionFind(ae input.ActionEvent) bool {
	switch ae.Action {
	case input.ActionInsertRune:
		mh.findBuffer = append(mh.findBuffer, ae.Rune)
		mh.updateIncrementalFind()

	case input.ActionDeleteCharBackward:
		if len(mh.findBuffer) == 0 {
			mh.cancelFindMode()
			return true
		}
		mh.findBuffer = mh.findBuffer[:len(mh.findBuffer)-1]
		mh.updateIncrementalFind()

	case input.ActionInsertNewLine:
		term := string(mh.findBuffer)
		mh.currentMode = ModeNormal
		mh.findBuffer = mh.findBuffer[:0]
		if term == "" {
			mh.editor.ClearHighlights()
			mh.statusBar.ResetTemporaryMessage()
			return true
		}
		found, err := mh.editor.Find(term, mh.findOpts)
		switch {
		case err != nil:
			mh.statusBar.SetTemporaryMessage("Invalid pattern: %v", err)
		case !found:
			mh.statusBar.SetTemporaryMessage("Pattern not found: %s", term)
		default:
			mh.statusBar.SetTemporaryMessage("Found: '%s' (%d matches)", term, len(mh.editor.Highlights()))
		}

	case input.ActionQuit:
		mh.cancelFindMode()

	default:
		return false
	}
	return true
}

func (mh *ModeHandler) updateIncrementalFind() {
	if len(mh.findBuffer) == 0 {
		mh.editor.ClearHighlights()
		return
	}
	mh.editor.HighlightMatches(string(mh.findBuffer), mh.findOpts)
}

// cancelFindMode leaves find mode without searching.
func (mh *ModeHandler) cancelFindMode() {
	mh.currentMode = ModeNormal
	mh.findBuffer = mh.findBuffer[:0]
	mh.editor.ClearHighlights()
	mh.statusBar.ResetTemporaryMessage()
	logger.Debugf("ModeHandler: cancelled find mode")
}

// executeFind repeats the current search.
func (mh *ModeHandler) executeFind(forward bool) {
	term := mh.editor.GetFindManager().Term()
	if term == "" {
		mh.statusBar.SetTemporaryMessage("No search term")
		return
	}
	if mh.editor.FindNext(forward) {
		mh.statusBar.SetTemporaryMessage("Found: '%s'", term)
		return
	}
	mh.statusBar.SetTemporaryMessage("Pattern not found: %s", term)
	logger.Debugf("ModeHandler: pattern not found: '%s'", term)
}
