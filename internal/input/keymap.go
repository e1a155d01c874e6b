package input

import (
	"github.com/gdamore/tcell/v2"
)

// Keymap maps special keys to actions.
type Keymap map[tcell.Key]Action

// RuneKeymap maps runes to actions.
type RuneKeymap map[rune]Action

// ModKeymap maps keys pressed with a modifier to actions.
type ModKeymap map[tcell.ModMask]Keymap

// LeaderKey starts a two-key formatting sequence.
const LeaderKey = tcell.KeyCtrlK

// InputProcessor translates tcell events into ActionEvents.
type InputProcessor struct {
	keymap     Keymap
	modKeymap  ModKeymap
	leaderKeys RuneKeymap
}

// NewInputProcessor creates a processor with the default bindings.
func NewInputProcessor() *InputProcessor {
	p := &InputProcessor{
		keymap:     make(Keymap),
		modKeymap:  make(ModKeymap),
		leaderKeys: make(RuneKeymap),
	}
	p.loadDefaultBindings()
	return p
}

func (p *InputProcessor) loadDefaultBindings() {
	p.keymap[tcell.KeyUp] = ActionMoveUp
	p.keymap[tcell.KeyDown] = ActionMoveDown
	p.keymap[tcell.KeyLeft] = ActionMoveLeft
	p.keymap[tcell.KeyRight] = ActionMoveRight
	p.keymap[tcell.KeyPgUp] = ActionMovePageUp
	p.keymap[tcell.KeyPgDn] = ActionMovePageDown
	p.keymap[tcell.KeyHome] = ActionMoveHome
	p.keymap[tcell.KeyEnd] = ActionMoveEnd
	p.keymap[tcell.KeyEnter] = ActionInsertNewLine
	p.keymap[tcell.KeyTab] = ActionInsertTab
	p.keymap[tcell.KeyBacktab] = ActionUnindent
	p.keymap[tcell.KeyBackspace] = ActionDeleteCharBackward
	p.keymap[tcell.KeyBackspace2] = ActionDeleteCharBackward
	p.keymap[tcell.KeyDelete] = ActionDeleteCharForward
	p.keymap[tcell.KeyEscape] = ActionQuit
	p.keymap[tcell.KeyF2] = ActionToggleSource
	p.keymap[tcell.KeyF3] = ActionFindNext

	// Control keys arrive as their own tcell keys.
	p.keymap[tcell.KeyCtrlQ] = ActionForceQuit
	p.keymap[tcell.KeyCtrlS] = ActionSaveDraft
	p.keymap[tcell.KeyCtrlZ] = ActionUndo
	p.keymap[tcell.KeyCtrlY] = ActionRedo
	p.keymap[tcell.KeyCtrlC] = ActionCopy
	p.keymap[tcell.KeyCtrlX] = ActionCut
	p.keymap[tcell.KeyCtrlV] = ActionPaste
	p.keymap[tcell.KeyCtrlA] = ActionSelectAll
	p.keymap[tcell.KeyCtrlB] = ActionBold
	p.keymap[tcell.KeyCtrlU] = ActionUnderline
	p.keymap[tcell.KeyCtrlW] = ActionDeleteWordBackward
	p.keymap[tcell.KeyCtrlF] = ActionEnterFindMode
	p.keymap[tcell.KeyCtrlG] = ActionFindNext
	p.keymap[tcell.KeyCtrlO] = ActionEnterCommandMode
	p.keymap[LeaderKey] = ActionLeader

	ctrl := make(Keymap)
	ctrl[tcell.KeyLeft] = ActionMoveWordLeft
	ctrl[tcell.KeyRight] = ActionMoveWordRight
	ctrl[tcell.KeyHome] = ActionMoveDocStart
	ctrl[tcell.KeyEnd] = ActionMoveDocEnd
	ctrl[tcell.KeyDelete] = ActionDeleteWordForward
	ctrl[tcell.KeyBackspace] = ActionDeleteWordBackward
	ctrl[tcell.KeyBackspace2] = ActionDeleteWordBackward
	p.modKeymap[tcell.ModCtrl] = ctrl

	alt := make(Keymap)
	alt[tcell.KeyBackspace] = ActionDeleteWordBackward
	alt[tcell.KeyBackspace2] = ActionDeleteWordBackward
	alt[tcell.KeyLeft] = ActionMoveWordLeft
	alt[tcell.KeyRight] = ActionMoveWordRight
	p.modKeymap[tcell.ModAlt] = alt

	p.leaderKeys['b'] = ActionBold
	p.leaderKeys['i'] = ActionItalic
	p.leaderKeys['u'] = ActionUnderline
	p.leaderKeys['s'] = ActionStrikethrough
	p.leaderKeys['m'] = ActionMonospace
	p.leaderKeys['>'] = ActionIndent
	p.leaderKeys['<'] = ActionUnindent
	p.leaderKeys['w'] = ActionWrap
	p.leaderKeys['q'] = ActionUnquote
	p.leaderKeys['k'] = ActionRemoveLink
	p.leaderKeys['-'] = ActionHRule
	p.leaderKeys['l'] = ActionAlignLeft
	p.leaderKeys['c'] = ActionAlignCenter
	p.leaderKeys['r'] = ActionAlignRight
	p.leaderKeys['p'] = ActionBlockParagraph
	p.leaderKeys['f'] = ActionBlockPre
	p.leaderKeys['1'] = ActionBlockH1
	p.leaderKeys['2'] = ActionBlockH2
	p.leaderKeys['3'] = ActionBlockH3
	p.leaderKeys['*'] = ActionBlockBulletList
	p.leaderKeys['#'] = ActionBlockNumberedList
	p.leaderKeys['n'] = ActionFindPrevious
	p.leaderKeys[':'] = ActionEnterCommandMode
}

// ProcessEvent maps a key event to an action. Modes decide what the
// action means.
func (p *InputProcessor) ProcessEvent(ev *tcell.EventKey) ActionEvent {
	key := ev.Key()
	mod := ev.Modifiers()
	shift := mod&tcell.ModShift != 0

	if mods, ok := p.modKeymap[mod&^tcell.ModShift]; ok && mod&^tcell.ModShift != 0 {
		if action, ok := mods[key]; ok {
			return ActionEvent{Action: action, Extend: shift && action.IsMovement()}
		}
	}

	if key == tcell.KeyRune {
		if mod&(tcell.ModAlt|tcell.ModCtrl) != 0 {
			return ActionEvent{Action: ActionUnknown}
		}
		return ActionEvent{Action: ActionInsertRune, Rune: ev.Rune()}
	}

	if action, ok := p.keymap[key]; ok {
		return ActionEvent{Action: action, Extend: shift && action.IsMovement()}
	}
	return ActionEvent{Action: ActionUnknown}
}

// ProcessLeader maps the key pressed after the leader key.
func (p *InputProcessor) ProcessLeader(ev *tcell.EventKey) ActionEvent {
	if ev.Key() != tcell.KeyRune {
		return ActionEvent{Action: ActionUnknown}
	}
	if action, ok := p.leaderKeys[ev.Rune()]; ok {
		return ActionEvent{Action: action}
	}
	return ActionEvent{Action: ActionUnknown}
}
