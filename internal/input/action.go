// Package input translates terminal key events into composer actions.
package input

// Action is a command or operation to be performed by the composer.
type Action int

const (
	ActionUnknown Action = iota

	// Meta
	ActionQuit
	ActionForceQuit
	ActionSaveDraft
	ActionToggleSource
	ActionLeader

	// Caret movement
	ActionMoveUp
	ActionMoveDown
	ActionMoveLeft
	ActionMoveRight
	ActionMoveWordLeft
	ActionMoveWordRight
	ActionMovePageUp
	ActionMovePageDown
	ActionMoveHome
	ActionMoveEnd
	ActionMoveDocStart
	ActionMoveDocEnd

	// Text
	ActionInsertRune
	ActionInsertNewLine
	ActionInsertTab
	ActionDeleteCharBackward
	ActionDeleteCharForward
	ActionDeleteWordBackward
	ActionDeleteWordForward

	// Editing
	ActionUndo
	ActionRedo
	ActionCopy
	ActionCut
	ActionPaste
	ActionSelectAll

	// Formatting, usually reached through the leader key
	ActionBold
	ActionItalic
	ActionUnderline
	ActionStrikethrough
	ActionMonospace
	ActionIndent
	ActionUnindent
	ActionWrap
	ActionUnquote
	ActionRemoveLink
	ActionHRule
	ActionAlignLeft
	ActionAlignCenter
	ActionAlignRight
	ActionBlockParagraph
	ActionBlockPre
	ActionBlockH1
	ActionBlockH2
	ActionBlockH3
	ActionBlockBulletList
	ActionBlockNumberedList

	// Modes
	ActionEnterCommandMode
	ActionEnterFindMode
	ActionFindNext
	ActionFindPrevious
)

// ActionEvent is a decoded key event.
type ActionEvent struct {
	Action Action
	Rune   rune // for ActionInsertRune
	Extend bool // movement with Shift held extends the selection
}

// IsMovement reports whether a is a caret motion.
func (a Action) IsMovement() bool {
	return a >= ActionMoveUp && a <= ActionMoveDocEnd
}

var actionNames = map[Action]string{
	ActionInsertRune:         "Insert",
	ActionInsertNewLine:      "Return",
	ActionInsertTab:          "Tab",
	ActionDeleteCharBackward: "Backspace",
	ActionDeleteCharForward:  "Delete",
	ActionDeleteWordBackward: "Delete word",
	ActionDeleteWordForward:  "Delete word",
	ActionPaste:              "Paste",
	ActionBold:               "Bold",
	ActionItalic:             "Italic",
	ActionUnderline:          "Underline",
	ActionStrikethrough:      "Strikethrough",
	ActionMonospace:          "Monospace",
	ActionIndent:             "Indent",
	ActionUnindent:           "Unindent",
	ActionWrap:               "Wrap",
	ActionUnquote:            "Unquote",
	ActionRemoveLink:         "Remove link",
	ActionHRule:              "Rule",
}

func (a Action) String() string {
	if s, ok := actionNames[a]; ok {
		return s
	}
	return "Edit"
}
