package modehandler

import (
	"errors"
	"unicode"

	"github.com/bethropolis/composer/internal/core"
	"github.com/bethropolis/composer/internal/input"
	"github.com/bethropolis/composer/internal/logger"
	"github.com/bethropolis/composer/internal/types"
)

var motions = map[input.Action]core.Motion{
	input.ActionMoveUp:        core.MoveUp,
	input.ActionMoveDown:      core.MoveDown,
	input.ActionMoveLeft:      core.MoveLeft,
	input.ActionMoveRight:     core.MoveRight,
	input.ActionMoveWordLeft:  core.MoveWordLeft,
	input.ActionMoveWordRight: core.MoveWordRight,
	input.ActionMovePageUp:    core.MovePageUp,
	input.ActionMovePageDown:  core.MovePageDown,
	input.ActionMoveHome:      core.MoveLineStart,
	input.ActionMoveEnd:       core.MoveLineEnd,
	input.ActionMoveDocStart:  core.MoveDocStart,
	input.ActionMoveDocEnd:    core.MoveDocEnd,
}

var blockFormats = map[input.Action]types.BlockFormat{
	input.ActionBlockParagraph:    types.BlockParagraph,
	input.ActionBlockPre:          types.BlockPre,
	input.ActionBlockH1:           types.BlockH1,
	input.ActionBlockH2:           types.BlockH2,
	input.ActionBlockH3:           types.BlockH3,
	input.ActionBlockBulletList:   types.BlockBulletList,
	input.ActionBlockNumberedList: types.BlockNumberedList,
}

var alignments = map[input.Action]types.Alignment{
	input.ActionAlignLeft:   types.AlignLeft,
	input.ActionAlignCenter: types.AlignCenter,
	input.ActionAlignRight:  types.AlignRight,
}

// handleActionNormal handles actions when in ModeNormal.
func (mh *ModeHandler) handleActionNormal(ae input.ActionEvent) bool {
	e := mh.editor

	if m, ok := motions[ae.Action]; ok {
		e.Move(m, ae.Extend)
		mh.forceQuitPending = false
		return true
	}
	if f, ok := blockFormats[ae.Action]; ok {
		return mh.report(e.SetBlockFormat(f), "Block format")
	}
	if a, ok := alignments[ae.Action]; ok {
		return mh.report(e.SetAlignment(a), "Alignment")
	}

	var err error
	switch ae.Action {
	case input.ActionQuit:
		if e.HasSelection() {
			e.ClearSelection()
			return true
		}
		if len(e.Highlights()) > 0 {
			e.ClearHighlights()
			return true
		}
		if mh.isModified() && !mh.forceQuitPending {
			mh.statusBar.SetTemporaryMessage("Unsaved changes! Press ESC again or Ctrl+Q to quit without saving.")
			mh.forceQuitPending = true
			return true
		}
		mh.quit()
		return false
	case input.ActionForceQuit:
		mh.quit()
		return false

	case input.ActionSaveDraft:
		if mh.saveDraft == nil {
			mh.statusBar.SetTemporaryMessage("No draft store configured")
			return true
		}
		if err := mh.saveDraft(); err != nil {
			mh.statusBar.SetTemporaryMessage("Save FAILED: %v", err)
			return true
		}
		mh.statusBar.SetTemporaryMessage("Draft saved")
	case input.ActionToggleSource:
		if mh.toggleSource != nil {
			mh.toggleSource()
		}
	case input.ActionLeader:
		mh.startLeader()
		mh.statusBar.SetTemporaryMessage("Leader...")
		return true

	case input.ActionEnterCommandMode:
		mh.currentMode = ModeCommand
		mh.cmdBuffer = mh.cmdBuffer[:0]
		logger.Debugf("ModeHandler: entering command mode")
	case input.ActionEnterFindMode:
		mh.currentMode = ModeFind
		mh.findBuffer = mh.findBuffer[:0]
		logger.Debugf("ModeHandler: entering find mode")
	case input.ActionFindNext:
		mh.executeFind(true)
	case input.ActionFindPrevious:
		mh.executeFind(false)

	case input.ActionInsertRune:
		if unicode.IsSpace(ae.Rune) {
			e.PostProcess()
		}
		err = e.InsertText(string(ae.Rune))
	case input.ActionInsertTab:
		if e.BlockFormat().IsList() {
			err = e.Indent()
		} else {
			err = e.InsertText("\t")
		}
	case input.ActionInsertNewLine:
		e.PostProcess()
		err = e.InsertReturn()
	case input.ActionDeleteCharBackward:
		err = e.DeleteBackward(false)
	case input.ActionDeleteCharForward:
		err = e.DeleteForward(false)
	case input.ActionDeleteWordBackward:
		err = e.DeleteBackward(true)
	case input.ActionDeleteWordForward:
		err = e.DeleteForward(true)

	case input.ActionUndo:
		if !e.Undo() {
			mh.statusBar.SetTemporaryMessage("Nothing to undo")
		}
	case input.ActionRedo:
		if !e.Redo() {
			mh.statusBar.SetTemporaryMessage("Nothing to redo")
		}
	case input.ActionSelectAll:
		e.SelectAll()
	case input.ActionCopy:
		mh.clipboardResult(e.Copy())
	case input.ActionCut:
		mh.clipboardResult(e.Cut())
	case input.ActionPaste:
		ok, perr := e.PasteClipboard()
		if perr != nil {
			err = perr
		} else if !ok {
			mh.statusBar.SetTemporaryMessage("Clipboard empty")
		}

	case input.ActionBold:
		err = e.SetBold(!e.IsBold())
	case input.ActionItalic:
		err = e.SetItalic(!e.IsItalic())
	case input.ActionUnderline:
		err = e.SetUnderline(!e.IsUnderline())
	case input.ActionStrikethrough:
		err = e.SetStrikethrough(!e.IsStrikethrough())
	case input.ActionMonospace:
		err = e.SetMonospace(!e.IsMonospace())
	case input.ActionIndent:
		err = e.Indent()
	case input.ActionUnindent:
		err = e.Unindent()
	case input.ActionWrap:
		err = e.WrapLines()
	case input.ActionUnquote:
		err = e.Unquote()
	case input.ActionRemoveLink:
		err = e.RemoveLink()
	case input.ActionHRule:
		err = e.InsertHRule()

	default:
		return false
	}

	mh.forceQuitPending = false
	if err != nil {
		return mh.report(err, ae.Action.String())
	}
	return true
}

func (mh *ModeHandler) clipboardResult(ok bool, err error) {
	switch {
	case err != nil:
		mh.statusBar.SetTemporaryMessage("Clipboard: %v", err)
	case !ok:
		mh.statusBar.SetTemporaryMessage("Nothing selected")
	}
}

// report shows a failed operation in the status bar.
func (mh *ModeHandler) report(err error, what string) bool {
	if err == nil {
		return true
	}
	switch {
	case errors.Is(err, core.ErrReadOnly):
		mh.statusBar.SetTemporaryMessage("Document is read-only")
	case errors.Is(err, core.ErrUnsupported):
		mh.statusBar.SetTemporaryMessage("%s: not possible here", what)
	default:
		mh.statusBar.SetTemporaryMessage("%s failed: %v", what, err)
	}
	logger.Debugf("ModeHandler: %s: %v", what, err)
	return true
}
